package native

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledProgramsParse(t *testing.T) {
	names := Names()
	assert.Len(t, names, 7)
	for _, name := range names {
		program, ok := ByName(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, program.Instructions(), name)
	}
}

func TestSystemProgramLookupByAddress(t *testing.T) {
	systemProgramID := solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	program, ok := ByAddress(systemProgramID)
	require.True(t, ok)
	assert.Equal(t, "system_program", program.Metadata.Name)

	transfer, ok := program.Instruction("Transfer")
	require.True(t, ok)
	assert.Len(t, transfer.Accounts, 2)
}

func TestBPFLoaderUpgradeableLookupByAddress(t *testing.T) {
	loaderID := solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")
	program, ok := ByAddress(loaderID)
	require.True(t, ok)
	assert.Equal(t, "bpf_loader_upgradeable", program.Metadata.Name)

	deploy, ok := program.Instruction("DeployWithMaxDataLen")
	require.True(t, ok)
	require.NotNil(t, deploy.Accounts[1].PDA)
	assert.Equal(t, "programAccount", deploy.Accounts[1].PDA.Seeds[0].AccountName)
}

func TestAddressLookupTableLookupByAddress(t *testing.T) {
	altID := solana.MustPublicKeyFromBase58("AddressLookupTab1e1111111111111111111111111")
	program, ok := ByAddress(altID)
	require.True(t, ok)
	assert.Equal(t, "address_lookup_table", program.Metadata.Name)

	_, ok = program.Instruction("ExtendLookupTable")
	require.True(t, ok)
}

func TestLighthouseIsBundledByName(t *testing.T) {
	program, ok := ByName("lighthouse")
	require.True(t, ok)
	assert.Equal(t, "L2TExMFKdjpN9kozasaurPirfHy9P8sbXoAN1qA3S95", program.Address.String())
}

func TestDeriveAssociatedTokenAccountIsDeterministic(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	addr1, bump1, err := DeriveAssociatedTokenAccount(wallet, mint)
	require.NoError(t, err)
	addr2, bump2, err := DeriveAssociatedTokenAccount(wallet, mint)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
}

func TestDeriveProgramDataAddressIsDeterministic(t *testing.T) {
	program := solana.NewWallet().PublicKey()

	addr1, bump1, err := DeriveProgramDataAddress(program)
	require.NoError(t, err)
	addr2, bump2, err := DeriveProgramDataAddress(program)
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)
}
