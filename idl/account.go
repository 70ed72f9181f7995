package idl

import (
	"crypto/sha256"
	"fmt"
)

// Fingerprint is a declared (offset, expected-bytes) blob used to
// disambiguate account schemas that share a discriminator.
type Fingerprint struct {
	Offset int
	Value  []byte
}

// Account is an account schema: name, docs, optional fixed space, ordered
// blob fingerprints, discriminator bytes, and its data's flat/full content
// type.
type Account struct {
	Name          string
	Docs          []string
	Space         *int
	Blobs         []Fingerprint
	Discriminator []byte
	DataFlat      Flat
	DataFull      *Full
}

// AccountDiscriminator computes the default 8-byte SHA-256 prefix of
// "account:<name>".
func AccountDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:8]
}

// matchesDiscriminatorPrefix reports whether data begins with disc.
func matchesDiscriminatorPrefix(data, disc []byte) bool {
	if len(data) < len(disc) {
		return false
	}
	for i, b := range disc {
		if data[i] != b {
			return false
		}
	}
	return true
}

// Matches reports whether raw account data could plausibly be this
// account's encoding: the discriminator must prefix-match, the declared
// Space (if any) must equal len(raw), and every blob fingerprint must
// match at its declared offset.
func (a *Account) Matches(raw []byte) bool {
	if !matchesDiscriminatorPrefix(raw, a.Discriminator) {
		return false
	}
	if a.Space != nil && *a.Space != len(raw) {
		return false
	}
	for _, b := range a.Blobs {
		end := b.Offset + len(b.Value)
		if end > len(raw) {
			return false
		}
		for i, want := range b.Value {
			if raw[b.Offset+i] != want {
				return false
			}
		}
	}
	return true
}

// coverage is the number of bytes this account's discriminator + blobs
// pin down, used to break ties between multiple matching schemas (spec
// §4.5: "the one whose combined (discriminator + blobs) covers more bytes
// wins").
func (a *Account) coverage() int {
	total := len(a.Discriminator)
	for _, b := range a.Blobs {
		total += len(b.Value)
	}
	return total
}

// Encode serializes state against this account's hydrated data type,
// prefixed with its discriminator.
func (a *Account) Encode(state any) ([]byte, error) {
	if a.DataFull == nil {
		return nil, newErr(KindHydration, "account %q has no hydrated data type", a.Name).withCrumb(fmt.Sprintf("account %q", a.Name))
	}
	sink := make([]byte, 0, len(a.Discriminator)+64)
	sink = append(sink, a.Discriminator...)
	if err := Encode(a.DataFull, state, &sink); err != nil {
		return nil, wrap(err, KindTypeMismatch, fmt.Sprintf("account %q", a.Name))
	}
	return sink, nil
}

// Decode strips this account's discriminator and deserializes the
// remainder against its hydrated data type.
func (a *Account) Decode(raw []byte) (any, error) {
	if !matchesDiscriminatorPrefix(raw, a.Discriminator) {
		return nil, newErr(KindIntegrity, "discriminator mismatch for account %q", a.Name)
	}
	if a.DataFull == nil {
		return nil, newErr(KindHydration, "account %q has no hydrated data type", a.Name)
	}
	v, err := DecodeStrict(a.DataFull, raw[len(a.Discriminator):])
	if err != nil {
		return nil, wrap(err, KindBuffer, fmt.Sprintf("account %q", a.Name))
	}
	return v, nil
}
