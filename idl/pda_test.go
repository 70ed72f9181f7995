package idl

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolvePDAFromArgsAndPeerAddress exercises a two-account
// instruction where one account's address is supplied by the caller and
// the other is a PDA seeded by a literal, that peer account's address, and
// an instruction argument.
func TestResolvePDAFromArgsAndPeerAddress(t *testing.T) {
	programID := solana.NewWallet().PublicKey()
	campaignOwner := solana.NewWallet().PublicKey()

	u32 := Prim(PrimitiveU32)
	instr := &Instruction{
		Name: "pledge_create",
		Accounts: []InstructionAccount{
			{
				Name:     "campaign",
				Writable: false,
			},
			{
				Name:     "pledge",
				Writable: true,
				PDA: &PDARecipe{
					Seeds: []SeedBlob{
						{Kind: SeedConst, ConstBytes: []byte("pledge")},
						{Kind: SeedAccount, AccountName: "campaign", Path: Path{{Kind: PathEmpty}}},
						{Kind: SeedArg, Path: ParsePath("index"), Type: &u32},
					},
				},
			},
		},
		ArgsFlat: FlatFields{
			Kind: FieldsNamed,
			Named: []FlatNamedField{
				{Name: "index", Content: Prim(PrimitiveU32)},
			},
		},
	}

	addresses, err := Resolve(ResolveInput{
		ProgramID: programID,
		Instruction: instr,
		Args: map[string]any{"index": float64(7)},
		KnownAddresses: map[string]solana.PublicKey{
			"campaign": campaignOwner,
		},
		Typedefs: TypedefTable{},
	})
	require.NoError(t, err)

	wantSeeds := [][]byte{}
	wantSeeds = append(wantSeeds, []byte("pledge"))
	wantSeeds = append(wantSeeds, campaignOwner[:])
	indexBytes := []byte{7, 0, 0, 0}
	wantSeeds = append(wantSeeds, indexBytes)
	wantAddress, _, err := solana.FindProgramAddress(wantSeeds, programID)
	require.NoError(t, err)

	assert.Equal(t, wantAddress, addresses["pledge"])
	assert.Equal(t, campaignOwner, addresses["campaign"])
}

func TestResolveMissingRequiredAccountErrors(t *testing.T) {
	instr := &Instruction{
		Name: "noop",
		Accounts: []InstructionAccount{
			{Name: "required_account"},
		},
	}
	_, err := Resolve(ResolveInput{
		Instruction: instr,
		Typedefs:    TypedefTable{},
	})
	require.Error(t, err)
	var idlErr *Error
	require.ErrorAs(t, err, &idlErr)
	assert.Equal(t, KindResolver, idlErr.Kind)
}

func TestResolveOptionalAccountNotReported(t *testing.T) {
	instr := &Instruction{
		Name: "noop",
		Accounts: []InstructionAccount{
			{Name: "maybe_account", Optional: true},
		},
	}
	addresses, err := Resolve(ResolveInput{
		Instruction: instr,
		Typedefs:    TypedefTable{},
	})
	require.NoError(t, err)
	_, present := addresses["maybe_account"]
	assert.False(t, present)
}

func TestEncodeDecodeAddressesRoundTrip(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	instr := &Instruction{
		Name: "two_accounts",
		Accounts: []InstructionAccount{
			{Name: "first", Writable: true, Signer: true},
			{Name: "second", Optional: true},
		},
	}
	metas, err := EncodeAddresses(instr, map[string]solana.PublicKey{"first": a})
	require.NoError(t, err)
	require.Len(t, metas, 1)

	plain := make([]solana.PublicKey, len(metas))
	for i, m := range metas {
		plain[i] = m.PublicKey
	}
	recovered := DecodeAddresses(instr, plain)
	assert.Equal(t, a, recovered["first"])
	_, hasSecond := recovered["second"]
	assert.False(t, hasSecond)
}
