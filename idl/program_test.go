package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIDL = `{
  "metadata": { "name": "campaign_program", "version": "0.1.0" },
  "instructions": [
    {
      "name": "pledge_create",
      "accounts": [
        { "name": "campaign", "writable": true },
        { "name": "pledge", "writable": true, "signer": true }
      ],
      "args": [
        { "name": "index", "type": "u32" },
        { "name": "amount", "type": "u64" }
      ]
    }
  ],
  "accounts": [
    {
      "name": "Campaign",
      "type": { "fields": [
        { "name": "authority", "type": "pubkey" },
        { "name": "collected", "type": "u64" }
      ] }
    },
    {
      "name": "Pledge",
      "space": 48,
      "type": { "fields": [
        { "name": "campaign", "type": "pubkey" },
        { "name": "amount", "type": "u64" }
      ] }
    }
  ],
  "errors": [
    { "name": "CampaignClosed", "code": 6000, "msg": "campaign is closed" }
  ]
}`

func TestParseProgramBasics(t *testing.T) {
	program, err := ParseProgram([]byte(sampleIDL))
	require.NoError(t, err)
	assert.Equal(t, "campaign_program", program.Metadata.Name)

	instr, ok := program.Instruction("pledge_create")
	require.True(t, ok)
	assert.Len(t, instr.Accounts, 2)
	assert.Equal(t, InstructionDiscriminator("pledge_create"), instr.Discriminator)

	account, ok := program.Account("Campaign")
	require.True(t, ok)
	assert.Equal(t, AccountDiscriminator("Campaign"), account.Discriminator)
}

func TestInstructionArgsEncodeDecodeRoundTrip(t *testing.T) {
	program, err := ParseProgram([]byte(sampleIDL))
	require.NoError(t, err)
	instr, _ := program.Instruction("pledge_create")

	raw, err := instr.EncodeArgs(map[string]any{
		"index":  float64(3),
		"amount": "250000",
	})
	require.NoError(t, err)
	assert.Len(t, raw, 8+4+8)

	decoded, err := instr.DecodeArgs(raw)
	require.NoError(t, err)
	obj, ok := decoded.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), obj["index"])
	assert.Equal(t, "250000", obj["amount"])
}

func TestGuessAccountMatchesByDiscriminator(t *testing.T) {
	program, err := ParseProgram([]byte(sampleIDL))
	require.NoError(t, err)
	pledge, _ := program.Account("Pledge")

	state, err := pledge.Encode(map[string]any{
		"campaign": EncodePubkeyJSON([32]byte{1}),
		"amount":   "1000",
	})
	require.NoError(t, err)

	matched, ok := program.GuessAccount(state)
	require.True(t, ok)
	assert.Equal(t, "Pledge", matched.Name)
}

func TestGuessError(t *testing.T) {
	program, err := ParseProgram([]byte(sampleIDL))
	require.NoError(t, err)
	e, ok := program.GuessError(6000)
	require.True(t, ok)
	assert.Equal(t, "CampaignClosed", e.Name)
	_, ok = program.GuessError(6001)
	assert.False(t, ok)
}

func TestRenderProgramRoundTripsThroughCanonicalDialect(t *testing.T) {
	program, err := ParseProgram([]byte(sampleIDL))
	require.NoError(t, err)
	rendered, err := RenderProgram(program, DialectHumanCompact)
	require.NoError(t, err)

	reparsed, err := ParseProgram(rendered)
	require.NoError(t, err)
	assert.Equal(t, program.Metadata.Name, reparsed.Metadata.Name)
	assert.Len(t, reparsed.Instructions(), len(program.Instructions()))
	assert.Len(t, reparsed.Accounts(), len(program.Accounts()))

	_, ok := reparsed.Instruction("pledge_create")
	require.True(t, ok)
	assert.Equal(t, instrArgNames(t, program), instrArgNames(t, reparsed))
}

func instrArgNames(t *testing.T, p *Program) []string {
	t.Helper()
	instr, ok := p.Instruction("pledge_create")
	require.True(t, ok)
	require.Equal(t, FieldsNamed, instr.ArgsFlat.Kind)
	names := make([]string, 0, len(instr.ArgsFlat.Named))
	for _, f := range instr.ArgsFlat.Named {
		names = append(names, f.Name)
	}
	return names
}
