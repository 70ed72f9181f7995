package idl

// GuessAccount finds the declared account schema that best explains raw
// account data: among every schema whose Matches(raw) is
// true, the one with the largest coverage (discriminator + blob bytes)
// wins; ties break on declaration order (the earlier-declared schema
// wins).
func GuessAccount(accounts []*Account, raw []byte) (*Account, bool) {
	var best *Account
	bestCoverage := -1
	for _, account := range accounts {
		if !account.Matches(raw) {
			continue
		}
		if c := account.coverage(); c > bestCoverage {
			best = account
			bestCoverage = c
		}
	}
	return best, best != nil
}

// GuessInstruction finds the declared instruction whose discriminator
// prefixes raw instruction data. Ties (same discriminator
// length and bytes) cannot occur for well-formed programs since
// discriminators are unique by construction; declaration order still
// governs should duplicates appear.
func GuessInstruction(instructions []*Instruction, raw []byte) (*Instruction, bool) {
	var best *Instruction
	bestCoverage := -1
	for _, instr := range instructions {
		if !matchesDiscriminatorPrefix(raw, instr.Discriminator) {
			continue
		}
		if c := instr.coverage(); c > bestCoverage {
			best = instr
			bestCoverage = c
		}
	}
	return best, best != nil
}

// GuessError finds the declared error definition matching a numeric
// error code / §3.9. Declaration order breaks ties
// between duplicate codes (first declared wins).
func GuessError(errors []*ErrorDef, code int64) (*ErrorDef, bool) {
	for _, e := range errors {
		if e.Code == code {
			return e, true
		}
	}
	return nil, false
}
