package idl

import (
	"crypto/sha256"
	"fmt"
)

// InstructionDiscriminator computes the default 8-byte SHA-256 prefix of
// "global:<name>".
func InstructionDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))
	return sum[:8]
}

// SeedBlobKind discriminates the three ways a PDA seed (or program) blob
// can be evaluated.
type SeedBlobKind int

const (
	// SeedConst is a literal byte sequence.
	SeedConst SeedBlobKind = iota
	// SeedArg navigates a dotted path into the instruction's argument
	// payload.
	SeedArg
	// SeedAccount navigates a dotted path into a named peer account's
	// decoded state (the trivial path yields the peer's own address).
	SeedAccount
)

// SeedBlob is one element of a PDA recipe's seed list, or its program
// blob. Each blob is annotated with the flat type at its path, used to
// serialize the runtime value into seed bytes.
type SeedBlob struct {
	Kind SeedBlobKind

	// SeedConst
	ConstBytes []byte

	// SeedArg / SeedAccount
	Path Path
	// AccountName is only set for SeedAccount: which peer account's
	// state (or address, for the trivial path) to read.
	AccountName string

	// Type is the flat type at Path, used to serialize the resolved
	// runtime value into bytes. Nil for SeedConst and for the trivial
	// SeedAccount path (a bare pubkey needs no type annotation).
	Type *Flat
}

// PDARecipe is (ordered seed blob list, optional program blob) — spec
// §3.7.
type PDARecipe struct {
	Seeds   []SeedBlob
	Program *SeedBlob
}

// InstructionAccount is one declared account slot of an instruction:
// name, docs, flags, an optional constant address, and an optional PDA
// recipe. At most one of Address/PDA should be set; when neither is set
// the account's address must be supplied by the caller (or derived via a
// native-program standard derivation).
type InstructionAccount struct {
	Name     string
	Docs     []string
	Writable bool
	Signer   bool
	Optional bool
	Address  *[32]byte
	PDA      *PDARecipe
}

// Instruction is an instruction schema: name, docs,
// discriminator, ordered account list, argument fields (flat and full),
// and an optional return type (flat and full).
type Instruction struct {
	Name          string
	Docs          []string
	Discriminator []byte
	Accounts      []InstructionAccount
	ArgsFlat      FlatFields
	ArgsFull      FullFields
	ReturnFlat    *Flat
	ReturnFull    *Full
}

// EncodeArgs serializes args (a JSON object keyed by argument name)
// against this instruction's hydrated argument fields, after its
// discriminator.
func (i *Instruction) EncodeArgs(args any) ([]byte, error) {
	sink := make([]byte, 0, len(i.Discriminator)+64)
	sink = append(sink, i.Discriminator...)
	full := &Full{Kind: FullStruct, StructFields: i.ArgsFull}
	if err := Encode(full, args, &sink); err != nil {
		return nil, wrap(err, KindTypeMismatch, fmt.Sprintf("instruction %q args", i.Name))
	}
	return sink, nil
}

// DecodeArgs strips this instruction's discriminator and deserializes the
// remainder against its hydrated argument fields.
func (i *Instruction) DecodeArgs(raw []byte) (any, error) {
	if !matchesDiscriminatorPrefix(raw, i.Discriminator) {
		return nil, newErr(KindIntegrity, "discriminator mismatch for instruction %q", i.Name)
	}
	full := &Full{Kind: FullStruct, StructFields: i.ArgsFull}
	v, err := DecodeStrict(full, raw[len(i.Discriminator):])
	if err != nil {
		return nil, wrap(err, KindBuffer, fmt.Sprintf("instruction %q args", i.Name))
	}
	return v, nil
}

func (i *Instruction) coverage() int { return len(i.Discriminator) }
