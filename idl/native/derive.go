package native

import "github.com/gagliardetto/solana-go"

var (
	tokenProgramID                = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	associatedTokenAccountProgram = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	bpfLoaderUpgradeableProgram   = solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
)

// DeriveAssociatedTokenAccount reproduces the standard seed recipe the
// associated-token-account program itself encodes as a PDA:
// [wallet, token program id, mint], owned by the associated-token-account
// program.
func DeriveAssociatedTokenAccount(wallet, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{wallet[:], tokenProgramID[:], mint[:]},
		associatedTokenAccountProgram,
	)
}

// DeriveProgramDataAddress reproduces the BPF Loader Upgradeable's program
// -data account derivation: seeds [program id], owned by the upgradeable
// loader itself.
func DeriveProgramDataAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{programID[:]}, bpfLoaderUpgradeableProgram)
}
