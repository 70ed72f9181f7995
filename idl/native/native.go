// Package native bundles the IDL definitions of a handful of Solana
// native and widely-deployed programs, grounded on original_source's
// toolbox_idl_program default-program registry, so callers can guess and
// decode instructions and accounts belonging to them without fetching an
// IDL off-chain.
package native

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/solana-toolbox/solidl/idl"
)

//go:embed system.json
var systemIDL []byte

//go:embed address_lookup_table.json
var addressLookupTableIDL []byte

//go:embed compute_budget.json
var computeBudgetIDL []byte

//go:embed bpf_loader_upgradeable.json
var bpfLoaderUpgradeableIDL []byte

//go:embed token.json
var tokenIDL []byte

//go:embed associated_token_account.json
var associatedTokenAccountIDL []byte

//go:embed lighthouse.json
var lighthouseIDL []byte

var (
	once     sync.Once
	onceErr  error
	registry map[solana.PublicKey]*idl.Program
	byName   map[string]*idl.Program
)

func load() {
	entries := []struct {
		name string
		raw  []byte
	}{
		{"system_program", systemIDL},
		{"address_lookup_table", addressLookupTableIDL},
		{"compute_budget", computeBudgetIDL},
		{"bpf_loader_upgradeable", bpfLoaderUpgradeableIDL},
		{"spl_token", tokenIDL},
		{"associated_token_account", associatedTokenAccountIDL},
		{"lighthouse", lighthouseIDL},
	}
	registry = make(map[solana.PublicKey]*idl.Program, len(entries))
	byName = make(map[string]*idl.Program, len(entries))
	for _, e := range entries {
		program, err := idl.ParseProgram(e.raw)
		if err != nil {
			onceErr = fmt.Errorf("native program %q: %w", e.name, err)
			return
		}
		byName[e.name] = program
		if program.Address != nil {
			registry[*program.Address] = program
		}
	}
}

// ensureLoaded parses the embedded bundle exactly once, regardless of
// which accessor is called first.
func ensureLoaded() error {
	once.Do(load)
	return onceErr
}

// ByAddress returns the bundled Program owning the given on-chain program
// id, if any.
func ByAddress(programID solana.PublicKey) (*idl.Program, bool) {
	if err := ensureLoaded(); err != nil {
		return nil, false
	}
	p, ok := registry[programID]
	return p, ok
}

// ByName returns a bundled Program by its metadata name. See Names for
// the full bundled list.
func ByName(name string) (*idl.Program, bool) {
	if err := ensureLoaded(); err != nil {
		return nil, false
	}
	p, ok := byName[name]
	return p, ok
}

// names lists every bundled program, in the order load() registers them.
var names = []string{
	"system_program",
	"address_lookup_table",
	"compute_budget",
	"bpf_loader_upgradeable",
	"spl_token",
	"associated_token_account",
	"lighthouse",
}

// Names returns the metadata names of every bundled native program, in a
// stable order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// System returns the bundled System Program IDL.
func System() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["system_program"], nil
}

// AddressLookupTable returns the bundled Address Lookup Table Program IDL.
func AddressLookupTable() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["address_lookup_table"], nil
}

// ComputeBudget returns the bundled Compute Budget Program IDL.
func ComputeBudget() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["compute_budget"], nil
}

// BPFLoaderUpgradeable returns the bundled BPF Loader Upgradeable Program
// IDL.
func BPFLoaderUpgradeable() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["bpf_loader_upgradeable"], nil
}

// Token returns the bundled SPL Token Program IDL.
func Token() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["spl_token"], nil
}

// Lighthouse returns the bundled community-program placeholder IDL (the
// Lighthouse assertion program).
func Lighthouse() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["lighthouse"], nil
}

// AssociatedTokenAccount returns the bundled SPL Associated Token Account
// Program IDL.
func AssociatedTokenAccount() (*idl.Program, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	return byName["associated_token_account"], nil
}
