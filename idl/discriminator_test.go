package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGuessAccountCoverageTieBreak constructs two account schemas sharing
// a discriminator: the one whose blob
// fingerprints pin down more bytes must win, even though both match.
func TestGuessAccountCoverageTieBreak(t *testing.T) {
	disc := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	raw := append(append([]byte{}, disc...), []byte{9, 9, 0, 0}...)

	narrow := &Account{
		Name:          "Narrow",
		Discriminator: disc,
	}
	wide := &Account{
		Name:          "Wide",
		Discriminator: disc,
		Blobs:         []Fingerprint{{Offset: 8, Value: []byte{9, 9}}},
	}

	matched, ok := GuessAccount([]*Account{narrow, wide}, raw)
	assert.True(t, ok)
	assert.Equal(t, "Wide", matched.Name)

	reversedOrder, ok := GuessAccount([]*Account{wide, narrow}, raw)
	assert.True(t, ok)
	assert.Equal(t, "Wide", reversedOrder.Name)
}

func TestGuessAccountNoMatch(t *testing.T) {
	account := &Account{Name: "Only", Discriminator: []byte{1, 1, 1, 1, 1, 1, 1, 1}}
	_, ok := GuessAccount([]*Account{account}, []byte{0, 0, 0, 0, 0, 0, 0, 0})
	assert.False(t, ok)
}

func TestGuessInstructionMatchesDiscriminatorPrefix(t *testing.T) {
	a := &Instruction{Name: "a", Discriminator: InstructionDiscriminator("a")}
	b := &Instruction{Name: "b", Discriminator: InstructionDiscriminator("b")}
	raw := append(append([]byte{}, b.Discriminator...), []byte{1, 2, 3}...)

	matched, ok := GuessInstruction([]*Instruction{a, b}, raw)
	assert.True(t, ok)
	assert.Equal(t, "b", matched.Name)
}
