package idl

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DecodeAccountStateFunc lets a caller plug in however it wants to decode
// freshly fetched raw account bytes into the JSON-shaped value the
// resolver navigates for Account(path) seed blobs (typically by running
// the owning Program's GuessAccount followed by Account.Decode). The
// resolver itself never guesses a schema; it only calls this hook on data
// returned by the AccountFetcher.
type DecodeAccountStateFunc func(accountName string, raw []byte) (any, error)

// AccountFetcher fetches raw on-chain account data, injected by the
// caller. It is called at most once per address per Resolve call.
type AccountFetcher func(address solana.PublicKey) (raw []byte, ok bool, err error)

// ResolveInput bundles everything the PDA resolver needs for a single
// instruction.
type ResolveInput struct {
	ProgramID      solana.PublicKey
	Instruction    *Instruction
	Args           any
	KnownAddresses map[string]solana.PublicKey
	PeerStates     map[string]any
	Typedefs       TypedefTable
	Fetch          AccountFetcher
	DecodeState    DecodeAccountStateFunc
}

// Resolve runs a monotone fixpoint algorithm: it repeatedly attempts to
// derive the address of every declared account not yet known, from
// constants, PDA seed recipes, argument paths, and peer-account state
// paths, until a round makes no progress. A required account still
// unresolved at that point is a KindResolver error naming it; unresolved
// optional accounts are not reported.
func Resolve(in ResolveInput) (map[string]solana.PublicKey, error) {
	addresses := make(map[string]solana.PublicKey, len(in.KnownAddresses))
	for k, v := range in.KnownAddresses {
		addresses[k] = v
	}
	peerStates := make(map[string]any, len(in.PeerStates))
	for k, v := range in.PeerStates {
		peerStates[k] = v
	}
	fetched := make(map[solana.PublicKey][]byte)

	maxIterations := len(in.Instruction.Accounts) + 1
	for iteration := 0; iteration < maxIterations; iteration++ {
		progress := false
		for idx := range in.Instruction.Accounts {
			account := &in.Instruction.Accounts[idx]
			if _, done := addresses[account.Name]; done {
				continue
			}
			address, ok, err := tryDeriveAccount(in, account, addresses, peerStates)
			if err != nil {
				// Soft failure: try again next round.
				continue
			}
			if !ok {
				continue
			}
			addresses[account.Name] = address
			progress = true
			if in.Fetch != nil && in.DecodeState != nil {
				if _, already := fetched[address]; !already {
					raw, found, ferr := in.Fetch(address)
					fetched[address] = raw
					if ferr == nil && found {
						if decoded, derr := in.DecodeState(account.Name, raw); derr == nil {
							peerStates[account.Name] = decoded
						}
					}
				}
			}
		}
		if !progress {
			break
		}
	}

	var missing []string
	for _, account := range in.Instruction.Accounts {
		if _, done := addresses[account.Name]; done {
			continue
		}
		if !account.Optional {
			missing = append(missing, account.Name)
		}
	}
	if len(missing) > 0 {
		return addresses, newErr(KindResolver, "could not resolve required account(s): %v", missing).
			withCrumb(fmt.Sprintf("instruction %q", in.Instruction.Name))
	}
	return addresses, nil
}

func tryDeriveAccount(in ResolveInput, account *InstructionAccount, addresses map[string]solana.PublicKey, peerStates map[string]any) (solana.PublicKey, bool, error) {
	if account.Address != nil {
		return solana.PublicKeyFromBytes(account.Address[:]), true, nil
	}
	if account.PDA != nil {
		return resolvePDA(in, account.PDA, addresses, peerStates)
	}
	return solana.PublicKey{}, false, nil
}

func resolvePDA(in ResolveInput, pda *PDARecipe, addresses map[string]solana.PublicKey, peerStates map[string]any) (solana.PublicKey, bool, error) {
	seeds := make([][]byte, 0, len(pda.Seeds))
	for i, seed := range pda.Seeds {
		bytes, err := evalSeedBlob(in, &seed, addresses, peerStates)
		if err != nil {
			return solana.PublicKey{}, false, wrap(err, KindResolver, fmt.Sprintf("pda seed #%d", i))
		}
		seeds = append(seeds, bytes)
	}
	programID := in.ProgramID
	if pda.Program != nil {
		progBytes, err := evalSeedBlob(in, pda.Program, addresses, peerStates)
		if err != nil {
			return solana.PublicKey{}, false, wrap(err, KindResolver, "pda program")
		}
		if len(progBytes) != 32 {
			return solana.PublicKey{}, false, newErr(KindResolver, "pda program blob must be 32 bytes, got %d", len(progBytes))
		}
		programID = solana.PublicKeyFromBytes(progBytes)
	}
	address, _, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, false, wrap(err, KindResolver, "find program address")
	}
	return address, true, nil
}

func evalSeedBlob(in ResolveInput, blob *SeedBlob, addresses map[string]solana.PublicKey, peerStates map[string]any) ([]byte, error) {
	switch blob.Kind {
	case SeedConst:
		return blob.ConstBytes, nil
	case SeedArg:
		return evalPathBlob(blob.Path, blob.Type, in.Args, in.Instruction.ArgsFlat, in.Typedefs)
	case SeedAccount:
		if len(blob.Path) == 1 && blob.Path[0].Kind == PathEmpty {
			address, ok := addresses[blob.AccountName]
			if !ok {
				return nil, newErr(KindResolver, "peer account %q not yet resolved", blob.AccountName)
			}
			return address.Bytes(), nil
		}
		state, ok := peerStates[blob.AccountName]
		if !ok {
			return nil, newErr(KindResolver, "peer account %q state not yet known", blob.AccountName)
		}
		if blob.Type == nil {
			return nil, newErr(KindHydration, "seed referencing %q.%v has no declared type", blob.AccountName, blob.Path)
		}
		value, err := Get(state, blob.Path)
		if err != nil {
			return nil, wrap(err, KindResolver, fmt.Sprintf("account %q state path", blob.AccountName))
		}
		full, err := Hydrate(blob.Type, nil, in.Typedefs)
		if err != nil {
			return nil, err
		}
		sink := make([]byte, 0, 32)
		if err := Encode(full, value, &sink); err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, newErr(KindResolver, "unknown seed blob kind %d", blob.Kind)
	}
}

func evalPathBlob(path Path, declaredType *Flat, args any, argsFields FlatFields, typedefs TypedefTable) ([]byte, error) {
	value, err := Get(args, path)
	if err != nil {
		return nil, wrap(err, KindResolver, "arg path")
	}
	flatType := declaredType
	if flatType == nil {
		argsFlat := &Flat{Kind: FlatStruct, StructFields: argsFields}
		resolved, err := GetType(argsFlat, path, nil, typedefs)
		if err != nil {
			return nil, wrap(err, KindHydration, "arg path type")
		}
		flatType = resolved
	}
	full, err := Hydrate(flatType, nil, typedefs)
	if err != nil {
		return nil, err
	}
	sink := make([]byte, 0, 32)
	if err := Encode(full, value, &sink); err != nil {
		return nil, err
	}
	return sink, nil
}
