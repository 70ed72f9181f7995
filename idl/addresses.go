package idl

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// EncodeAddresses builds the ordered account-meta list for instr given a
// name -> address map. Omitted optional accounts produce no
// meta; a required account missing from addresses is a KindResolver error.
func EncodeAddresses(instr *Instruction, addresses map[string]solana.PublicKey) ([]*solana.AccountMeta, error) {
	metas := make([]*solana.AccountMeta, 0, len(instr.Accounts))
	for _, account := range instr.Accounts {
		address, present := addresses[account.Name]
		if !present {
			if account.Optional {
				continue
			}
			return nil, newErr(KindResolver, "missing required account %q", account.Name).
				withCrumb(fmt.Sprintf("instruction %q", instr.Name))
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  address,
			IsWritable: account.Writable,
			IsSigner:   account.Signer,
		})
	}
	return metas, nil
}

// DecodeAddresses inverts EncodeAddresses: given the metas actually
// present on a transaction instruction, it recovers a name -> address map.
// Because omitted optional accounts leave no trace in the meta list, the
// number of optionals considered "used" is inferred as
// (total optionals) - (total declared - len(metas)), clamped to 0, and the
// *last* unused optionals (in declaration order) are treated as omitted.
func DecodeAddresses(instr *Instruction, metas []solana.PublicKey) map[string]solana.PublicKey {
	optionalsPossible := 0
	for _, a := range instr.Accounts {
		if a.Optional {
			optionalsPossible++
		}
	}
	unused := len(instr.Accounts) - len(metas)
	if unused < 0 {
		unused = 0
	}
	used := optionalsPossible - unused
	if used < 0 {
		used = 0
	}
	out := make(map[string]solana.PublicKey, len(metas))
	metaIndex := 0
	optionalsSeen := 0
	for _, account := range instr.Accounts {
		if account.Optional {
			optionalsSeen++
			if optionalsSeen > used {
				continue
			}
		}
		if metaIndex >= len(metas) {
			break
		}
		out[account.Name] = metas[metaIndex]
		metaIndex++
	}
	return out
}
