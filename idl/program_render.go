package idl

import (
	"encoding/json"
	"sort"
)

// RenderProgram re-emits a Program as IDL JSON in the requested dialect.
// It emits metadata, address, types, constants, instructions (with
// discriminators, account flags and PDA recipes), accounts (with
// discriminators, space and blobs) and errors. Events and docs are not
// emitted, so they do not survive a render-and-reparse. A Program built by
// hand with nil DataFull/ArgsFull on some member still renders, since
// rendering only ever walks the flat side.
func RenderProgram(p *Program, dialect Dialect) ([]byte, error) {
	root := map[string]any{
		"metadata": map[string]any{
			"name":        p.Metadata.Name,
			"version":     p.Metadata.Version,
			"spec":        p.Metadata.Spec,
			"description": p.Metadata.Description,
		},
	}
	if p.Address != nil {
		root["address"] = p.Address.String()
	}

	if len(p.Typedefs) > 0 {
		types := make([]any, 0, len(p.Typedefs))
		for _, name := range sortedKeysTypedef(p.Typedefs) {
			td := p.Typedefs[name]
			entry := map[string]any{
				"name": name,
				"type": RenderFlatType(&td.Content, dialect),
			}
			if len(td.Generics) > 0 {
				generics := make([]any, 0, len(td.Generics))
				for _, g := range td.Generics {
					generics = append(generics, g)
				}
				entry["generics"] = generics
			}
			if td.Repr != ReprNone {
				entry["repr"] = td.Repr.String()
			}
			types = append(types, entry)
		}
		root["types"] = types
	}

	if len(p.Constants) > 0 {
		consts := make([]any, 0, len(p.Constants))
		for name, c := range p.Constants {
			consts = append(consts, map[string]any{
				"name":  name,
				"type":  RenderFlatType(&c.Type, dialect),
				"value": c.Value,
			})
		}
		root["constants"] = consts
	}

	instructions := make([]any, 0, len(p.instructionOrder))
	for _, name := range p.instructionOrder {
		instructions = append(instructions, renderInstruction(p.instructions[name], dialect))
	}
	root["instructions"] = instructions

	accounts := make([]any, 0, len(p.accountOrder))
	for _, name := range p.accountOrder {
		accounts = append(accounts, renderAccount(p.accounts[name], dialect))
	}
	root["accounts"] = accounts

	if len(p.errorOrder) > 0 {
		errs := make([]any, 0, len(p.errorOrder))
		for _, name := range p.errorOrder {
			e := p.errors[name]
			errs = append(errs, map[string]any{"name": name, "code": e.Code, "msg": e.Message})
		}
		root["errors"] = errs
	}

	return json.MarshalIndent(root, "", "  ")
}

func renderInstruction(instr *Instruction, dialect Dialect) any {
	accounts := make([]any, 0, len(instr.Accounts))
	for _, a := range instr.Accounts {
		accounts = append(accounts, renderInstructionAccount(a, dialect))
	}
	disc := make([]any, len(instr.Discriminator))
	for i, v := range instr.Discriminator {
		disc[i] = int(v)
	}
	entry := map[string]any{
		"name":          instr.Name,
		"discriminator": disc,
		"accounts":      accounts,
		"args":          renderFieldsTop(instr.ArgsFlat, dialect),
	}
	if instr.ReturnFlat != nil {
		entry["returns"] = RenderFlatType(instr.ReturnFlat, dialect)
	}
	return entry
}

func renderFieldsTop(fields FlatFields, dialect Dialect) any {
	switch fields.Kind {
	case FieldsNamed:
		out := make([]any, 0, len(fields.Named))
		for _, f := range fields.Named {
			out = append(out, map[string]any{"name": f.Name, "type": RenderFlatType(&f.Content, dialect)})
		}
		return out
	case FieldsUnnamed:
		out := make([]any, 0, len(fields.Unnamed))
		for i := range fields.Unnamed {
			out = append(out, RenderFlatType(&fields.Unnamed[i].Content, dialect))
		}
		return out
	default:
		return []any{}
	}
}

func renderInstructionAccount(a InstructionAccount, dialect Dialect) any {
	writableKey, signerKey, optionalKey := "writable", "signer", "optional"
	if dialect == DialectAnchor26 {
		writableKey, signerKey, optionalKey = "isMut", "isSigner", "isOptional"
	}
	entry := map[string]any{
		"name":      a.Name,
		writableKey: a.Writable,
		signerKey:   a.Signer,
	}
	if a.Optional {
		entry[optionalKey] = true
	}
	if a.Address != nil {
		entry["address"] = EncodePubkeyJSON(*a.Address)
	}
	if a.PDA != nil {
		seeds := make([]any, 0, len(a.PDA.Seeds))
		for _, s := range a.PDA.Seeds {
			seeds = append(seeds, renderSeedBlob(s, dialect))
		}
		pda := map[string]any{"seeds": seeds}
		if a.PDA.Program != nil {
			pda["program"] = renderSeedBlob(*a.PDA.Program, dialect)
		}
		entry["pda"] = pda
	}
	return entry
}

func renderSeedBlob(b SeedBlob, dialect Dialect) any {
	entry := map[string]any{}
	switch b.Kind {
	case SeedConst:
		entry["kind"] = "const"
		values := make([]any, len(b.ConstBytes))
		for i, v := range b.ConstBytes {
			values[i] = int(v)
		}
		entry["value"] = values
	case SeedArg:
		entry["kind"] = "arg"
		entry["path"] = pathString(b.Path)
	case SeedAccount:
		entry["kind"] = "account"
		entry["path"] = pathString(b.Path)
		entry["account"] = b.AccountName
	}
	if b.Type != nil {
		entry["type"] = RenderFlatType(b.Type, dialect)
	}
	return entry
}

func pathString(p Path) string {
	s := ""
	for i, part := range p {
		if i > 0 {
			s += "."
		}
		switch part.Kind {
		case PathKey:
			s += part.Key
		case PathIndex:
			s += fmtInt(part.Index)
		}
	}
	return s
}

func renderAccount(a *Account, dialect Dialect) any {
	disc := make([]any, len(a.Discriminator))
	for i, v := range a.Discriminator {
		disc[i] = int(v)
	}
	entry := map[string]any{
		"name":          a.Name,
		"discriminator": disc,
		"type":          RenderFlatType(&a.DataFlat, dialect),
	}
	if a.Space != nil {
		entry["space"] = *a.Space
	}
	if len(a.Blobs) > 0 {
		blobs := make([]any, 0, len(a.Blobs))
		for _, b := range a.Blobs {
			values := make([]any, len(b.Value))
			for i, v := range b.Value {
				values[i] = int(v)
			}
			blobs = append(blobs, map[string]any{"offset": b.Offset, "value": values})
		}
		entry["blobs"] = blobs
	}
	return entry
}

func sortedKeysTypedef(t TypedefTable) []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
