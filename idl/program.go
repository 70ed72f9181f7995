package idl

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
)

// Metadata carries the non-structural program-level fields an IDL may
// declare: name, version, dialect tag, and a free-form description.
type Metadata struct {
	Name        string
	Version     string
	Spec        string
	Description string
}

// ConstantDef is a program-declared named constant, carried forward from
// original_source's toolbox_idl_program constants handling: a name, its
// declared type, and its JSON value, available to callers wanting the
// program's named magic numbers without hunting through instruction
// bodies. PDA seed blobs do not look constants up by name; a const seed
// carries its own literal bytes.
type ConstantDef struct {
	Name  string
	Docs  []string
	Type  Flat
	Value any
}

// Event is a program-declared event schema: structurally
// identical to an Account (a discriminator plus a content type) but
// logged via program logs rather than stored on-chain.
type Event struct {
	Name          string
	Docs          []string
	Discriminator []byte
	DataFlat      Flat
	DataFull      *Full
}

// Program is a fully parsed and hydrated IDL: immutable once returned
// from ParseProgram. Every collection is both ordered (for guess-query
// tie-breaking and re-render) and name-addressable. A collection given as
// a JSON array keeps its declaration order; one given as a JSON object is
// ordered by name, not by the object's key order in the source text.
type Program struct {
	Metadata  Metadata
	Address   *solana.PublicKey
	Typedefs  TypedefTable
	Constants map[string]*ConstantDef

	instructionOrder []string
	instructions     map[string]*Instruction
	accountOrder     []string
	accounts         map[string]*Account
	eventOrder       []string
	events           map[string]*Event
	errorOrder       []string
	errors           map[string]*ErrorDef
}

// Instruction looks up a declared instruction by name.
func (p *Program) Instruction(name string) (*Instruction, bool) {
	i, ok := p.instructions[name]
	return i, ok
}

// Instructions returns every declared instruction in collection order (see
// Program).
func (p *Program) Instructions() []*Instruction {
	out := make([]*Instruction, 0, len(p.instructionOrder))
	for _, name := range p.instructionOrder {
		out = append(out, p.instructions[name])
	}
	return out
}

// Account looks up a declared account schema by name.
func (p *Program) Account(name string) (*Account, bool) {
	a, ok := p.accounts[name]
	return a, ok
}

// Accounts returns every declared account schema in collection order (see
// Program).
func (p *Program) Accounts() []*Account {
	out := make([]*Account, 0, len(p.accountOrder))
	for _, name := range p.accountOrder {
		out = append(out, p.accounts[name])
	}
	return out
}

// Event looks up a declared event schema by name.
func (p *Program) Event(name string) (*Event, bool) {
	e, ok := p.events[name]
	return e, ok
}

// Events returns every declared event in collection order (see Program).
func (p *Program) Events() []*Event {
	out := make([]*Event, 0, len(p.eventOrder))
	for _, name := range p.eventOrder {
		out = append(out, p.events[name])
	}
	return out
}

// ErrorDef looks up a declared custom error by name.
func (p *Program) ErrorDef(name string) (*ErrorDef, bool) {
	e, ok := p.errors[name]
	return e, ok
}

// Errors returns every declared error in collection order (see Program).
func (p *Program) Errors() []*ErrorDef {
	out := make([]*ErrorDef, 0, len(p.errorOrder))
	for _, name := range p.errorOrder {
		out = append(out, p.errors[name])
	}
	return out
}

// GuessAccount finds the best-matching declared account schema for raw
// data, searched in the order Accounts returns.
func (p *Program) GuessAccount(raw []byte) (*Account, bool) {
	return GuessAccount(p.Accounts(), raw)
}

// GuessInstruction finds the declared instruction whose discriminator
// prefixes raw instruction data.
func (p *Program) GuessInstruction(raw []byte) (*Instruction, bool) {
	return GuessInstruction(p.Instructions(), raw)
}

// GuessError finds the declared error definition matching code.
func (p *Program) GuessError(code int64) (*ErrorDef, bool) {
	return GuessError(p.Errors(), code)
}

// ParseProgram parses raw IDL JSON in any of the three supported
// dialects (human-compact, anchor-26, anchor-30) and returns a fully
// hydrated Program. Top-level
// collections may be encoded either as a JSON object keyed by name
// (human-compact) or as an array of objects each carrying a "name"
// field (anchor-26/30); both are accepted uniformly.
func ParseProgram(raw []byte) (*Program, error) {
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, newErr(KindParse, "invalid IDL JSON: %v", err)
	}

	metadata := parseMetadata(root)

	var address *solana.PublicKey
	if addrRaw, ok := root["address"]; ok {
		if s, ok := addrRaw.(string); ok {
			pk, err := solana.PublicKeyFromBase58(s)
			if err != nil {
				return nil, newErr(KindParse, "invalid program address %q: %v", s, err)
			}
			address = &pk
		}
	}

	typedefs, err := parseTypedefs(root)
	if err != nil {
		return nil, err
	}

	constants, err := parseConstants(root, typedefs)
	if err != nil {
		return nil, err
	}

	instructionOrder, instructions, err := parseInstructions(root, typedefs)
	if err != nil {
		return nil, err
	}

	accountOrder, accounts, err := parseAccounts(root, typedefs)
	if err != nil {
		return nil, err
	}

	eventOrder, events, err := parseEvents(root, typedefs)
	if err != nil {
		return nil, err
	}

	errorOrder, errorDefs, err := parseErrors(root)
	if err != nil {
		return nil, err
	}

	return &Program{
		Metadata:         metadata,
		Address:          address,
		Typedefs:         typedefs,
		Constants:        constants,
		instructionOrder: instructionOrder,
		instructions:     instructions,
		accountOrder:     accountOrder,
		accounts:         accounts,
		eventOrder:       eventOrder,
		events:           events,
		errorOrder:       errorOrder,
		errors:           errorDefs,
	}, nil
}

func parseMetadata(root map[string]any) Metadata {
	m := Metadata{}
	if meta, ok := root["metadata"].(map[string]any); ok {
		m.Name, _ = meta["name"].(string)
		m.Version, _ = meta["version"].(string)
		m.Spec, _ = meta["spec"].(string)
		m.Description, _ = meta["description"].(string)
	}
	if m.Name == "" {
		m.Name, _ = root["name"].(string)
	}
	if m.Version == "" {
		m.Version, _ = root["version"].(string)
	}
	return m
}

// namedEntries tolerates both {"foo": {...}} and [{"name":"foo", ...}]
// shapes for a top-level collection. The array shape keeps declaration
// order; the object shape's entries are returned sorted by name, and its
// key order in the source text is not kept.
func namedEntries(value any) ([]string, []map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		entries := make([]map[string]any, 0, len(v))
		for _, name := range names {
			obj, _ := v[name].(map[string]any)
			entries = append(entries, obj)
		}
		return names, entries, true
	case []any:
		names := make([]string, 0, len(v))
		entries := make([]map[string]any, 0, len(v))
		for _, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				continue
			}
			name, _ := obj["name"].(string)
			names = append(names, name)
			entries = append(entries, obj)
		}
		return names, entries, true
	default:
		return nil, nil, false
	}
}

func parseTypedefs(root map[string]any) (TypedefTable, error) {
	table := TypedefTable{}
	raw, ok := root["types"]
	if !ok {
		return table, nil
	}
	names, entries, ok := namedEntries(raw)
	if !ok {
		return nil, newErr(KindParse, "\"types\" must be an object or array")
	}
	for i, name := range names {
		obj := entries[i]
		td, err := parseTypedef(name, obj)
		if err != nil {
			return nil, wrap(err, KindParse, fmt.Sprintf("type %q", name))
		}
		table[name] = td
	}
	return table, nil
}

func parseTypedef(name string, obj map[string]any) (*Typedef, error) {
	var generics []string
	if gs, ok := obj["generics"].([]any); ok {
		for _, g := range gs {
			switch v := g.(type) {
			case string:
				generics = append(generics, v)
			case map[string]any:
				if n, ok := v["name"].(string); ok {
					generics = append(generics, n)
				}
			}
		}
	}
	repr := parseRepr(obj["repr"])
	serialization, _ := obj["serialization"].(string)

	typeValue := obj["type"]
	if typeValue == nil {
		typeValue = obj
	}
	content, err := ParseFlatType(typeValue, name+".type")
	if err != nil {
		return nil, err
	}
	return &Typedef{
		Name:          name,
		Docs:          docsOf(obj),
		Serialization: serialization,
		Repr:          repr,
		Generics:      generics,
		Content:       content,
	}, nil
}

func parseRepr(value any) Repr {
	var tag string
	switch v := value.(type) {
	case string:
		tag = v
	case map[string]any:
		tag, _ = v["kind"].(string)
	}
	switch tag {
	case "c":
		return ReprC
	case "rust":
		return ReprRust
	case "transparent":
		return ReprTransparent
	default:
		return ReprNone
	}
}

func parseConstants(root map[string]any, typedefs TypedefTable) (map[string]*ConstantDef, error) {
	out := map[string]*ConstantDef{}
	raw, ok := root["constants"]
	if !ok {
		return out, nil
	}
	names, entries, ok := namedEntries(raw)
	if !ok {
		return nil, newErr(KindParse, "\"constants\" must be an object or array")
	}
	for i, name := range names {
		obj := entries[i]
		typeValue := obj["type"]
		flat, err := ParseFlatType(typeValue, name+".type")
		if err != nil {
			return nil, wrap(err, KindParse, fmt.Sprintf("constant %q", name))
		}
		out[name] = &ConstantDef{
			Name:  name,
			Docs:  docsOf(obj),
			Type:  flat,
			Value: obj["value"],
		}
	}
	return out, nil
}

func parseInstructions(root map[string]any, typedefs TypedefTable) ([]string, map[string]*Instruction, error) {
	instructions := map[string]*Instruction{}
	raw, ok := root["instructions"]
	if !ok {
		return nil, instructions, nil
	}
	names, entries, ok := namedEntries(raw)
	if !ok {
		return nil, nil, newErr(KindParse, "\"instructions\" must be an object or array")
	}
	for i, name := range names {
		instr, err := parseInstruction(name, entries[i], typedefs)
		if err != nil {
			return nil, nil, wrap(err, KindParse, fmt.Sprintf("instruction %q", name))
		}
		instructions[name] = instr
	}
	return names, instructions, nil
}

func parseInstruction(name string, obj map[string]any, typedefs TypedefTable) (*Instruction, error) {
	disc, err := parseDiscriminator(obj, "global:"+name)
	if err != nil {
		return nil, err
	}
	accounts, err := parseInstructionAccounts(obj["accounts"])
	if err != nil {
		return nil, err
	}
	argsFlat, err := parseFlatFieldsTop(obj["args"])
	if err != nil {
		return nil, wrap(err, KindParse, "args")
	}
	full, err := Hydrate(&Flat{Kind: FlatStruct, StructFields: argsFlat}, nil, typedefs)
	if err != nil {
		return nil, wrap(err, KindHydration, "args")
	}
	var returnFlat *Flat
	var returnFull *Full
	if retRaw, ok := obj["returns"]; ok {
		rf, err := ParseFlatType(retRaw, "returns")
		if err != nil {
			return nil, wrap(err, KindParse, "returns")
		}
		returnFlat = &rf
		returnFull, err = Hydrate(returnFlat, nil, typedefs)
		if err != nil {
			return nil, wrap(err, KindHydration, "returns")
		}
	}
	return &Instruction{
		Name:          name,
		Docs:          docsOf(obj),
		Discriminator: disc,
		Accounts:      accounts,
		ArgsFlat:      argsFlat,
		ArgsFull:      full.StructFields,
		ReturnFlat:    returnFlat,
		ReturnFull:    returnFull,
	}, nil
}

func parseFlatFieldsTop(raw any) (FlatFields, error) {
	if raw == nil {
		return FlatFields{Kind: FieldsNone}, nil
	}
	return parseFlatFields(raw, "fields")
}

func parseDiscriminator(obj map[string]any, defaultPreimage string) ([]byte, error) {
	if raw, ok := obj["discriminator"]; ok {
		if b, ok := decodeSmallIntArray(raw); ok {
			return b, nil
		}
		if b, ok, err := decodeTaggedBytes(raw); ok {
			return b, err
		}
	}
	sum := sha256.Sum256([]byte(defaultPreimage))
	return sum[:8], nil
}

func parseInstructionAccounts(raw any) ([]InstructionAccount, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]InstructionAccount, 0, len(arr))
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, newErr(KindParse, "account #%d must be an object", i)
		}
		account, err := parseInstructionAccount(obj)
		if err != nil {
			return nil, wrap(err, KindParse, fmt.Sprintf("account #%d", i))
		}
		out = append(out, account)
	}
	return out, nil
}

func parseInstructionAccount(obj map[string]any) (InstructionAccount, error) {
	name, _ := obj["name"].(string)
	account := InstructionAccount{
		Name:     name,
		Docs:     docsOf(obj),
		Writable: boolOf(obj, "writable") || boolOf(obj, "isMut") || boolOf(obj, "is_mut"),
		Signer:   boolOf(obj, "signer") || boolOf(obj, "isSigner") || boolOf(obj, "is_signer"),
		Optional: boolOf(obj, "optional") || boolOf(obj, "isOptional") || boolOf(obj, "is_optional"),
	}
	if addrRaw, ok := obj["address"]; ok {
		key, err := DecodePubkeyValue(addrRaw)
		if err != nil {
			return InstructionAccount{}, wrap(err, KindParse, "address")
		}
		account.Address = &key
	}
	if pdaRaw, ok := obj["pda"].(map[string]any); ok {
		pda, err := parsePDARecipe(pdaRaw)
		if err != nil {
			return InstructionAccount{}, err
		}
		account.PDA = pda
	}
	return account, nil
}

func boolOf(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func parsePDARecipe(obj map[string]any) (*PDARecipe, error) {
	seedsRaw, _ := obj["seeds"].([]any)
	seeds := make([]SeedBlob, 0, len(seedsRaw))
	for i, el := range seedsRaw {
		blob, err := parseSeedBlob(el)
		if err != nil {
			return nil, wrap(err, KindParse, fmt.Sprintf("seed #%d", i))
		}
		seeds = append(seeds, blob)
	}
	var program *SeedBlob
	if progRaw, ok := obj["program"]; ok {
		blob, err := parseSeedBlob(progRaw)
		if err != nil {
			return nil, wrap(err, KindParse, "program seed")
		}
		program = &blob
	}
	return &PDARecipe{Seeds: seeds, Program: program}, nil
}

// parseSeedBlob accepts {"kind":"const","value":...,"type":...},
// {"kind":"arg","path":"...","type":...}, and
// {"kind":"account","path":"...","account":"...","type":...}. The seed
// blob struct's own source file wasn't part of the retrieved pack; this
// shape is grounded instead on the seed-evaluation semantics in
// toolbox_idl_program_instruction_account_pda.rs and _compute.rs.
func parseSeedBlob(raw any) (SeedBlob, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return SeedBlob{}, newErr(KindParse, "seed blob must be an object")
	}
	kind, _ := obj["kind"].(string)
	var typ *Flat
	if typeRaw, ok := obj["type"]; ok {
		t, err := ParseFlatType(typeRaw, "seed.type")
		if err != nil {
			return SeedBlob{}, err
		}
		typ = &t
	}
	switch kind {
	case "const":
		var data []byte
		var err error
		if b, ok := decodeSmallIntArray(obj["value"]); ok {
			data = b
		} else if b, ok, derr := decodeTaggedBytes(obj["value"]); ok {
			data, err = b, derr
		} else if s, ok := obj["value"].(string); ok {
			data = []byte(s)
		}
		if err != nil {
			return SeedBlob{}, err
		}
		return SeedBlob{Kind: SeedConst, ConstBytes: data, Type: typ}, nil
	case "arg":
		path, _ := obj["path"].(string)
		return SeedBlob{Kind: SeedArg, Path: ParsePath(path), Type: typ}, nil
	case "account":
		path, _ := obj["path"].(string)
		accountName, _ := obj["account"].(string)
		return SeedBlob{Kind: SeedAccount, Path: ParsePath(path), AccountName: accountName, Type: typ}, nil
	default:
		return SeedBlob{}, newErr(KindParse, "unknown seed blob kind %q", kind)
	}
}

func parseAccounts(root map[string]any, typedefs TypedefTable) ([]string, map[string]*Account, error) {
	accounts := map[string]*Account{}
	raw, ok := root["accounts"]
	if !ok {
		return nil, accounts, nil
	}
	names, entries, ok := namedEntries(raw)
	if !ok {
		return nil, nil, newErr(KindParse, "\"accounts\" must be an object or array")
	}
	for i, name := range names {
		account, err := parseAccount(name, entries[i], typedefs)
		if err != nil {
			return nil, nil, wrap(err, KindParse, fmt.Sprintf("account %q", name))
		}
		accounts[name] = account
	}
	return names, accounts, nil
}

func parseAccount(name string, obj map[string]any, typedefs TypedefTable) (*Account, error) {
	disc, err := parseDiscriminator(obj, "account:"+name)
	if err != nil {
		return nil, err
	}
	dataFlat := Defined(name)
	if hasAnyKey(obj, recognizedObjectKeys) || obj["type"] != nil {
		dataFlat, err = ParseFlatType(obj, name+".type")
		if err != nil {
			return nil, err
		}
	}
	full, err := Hydrate(&dataFlat, nil, typedefs)
	if err != nil {
		return nil, wrap(err, KindHydration, "data")
	}
	var space *int
	if s, ok := asInt(obj["space"]); ok {
		space = &s
	}
	var blobs []Fingerprint
	if blobsRaw, ok := obj["blobs"].([]any); ok {
		for i, el := range blobsRaw {
			bobj, ok := el.(map[string]any)
			if !ok {
				return nil, newErr(KindParse, "blob #%d must be an object", i)
			}
			offset, _ := asInt(bobj["offset"])
			var value []byte
			if b, ok := decodeSmallIntArray(bobj["value"]); ok {
				value = b
			} else if b, ok, err := decodeTaggedBytes(bobj["value"]); ok {
				if err != nil {
					return nil, err
				}
				value = b
			}
			blobs = append(blobs, Fingerprint{Offset: offset, Value: value})
		}
	}
	return &Account{
		Name:          name,
		Docs:          docsOf(obj),
		Space:         space,
		Blobs:         blobs,
		Discriminator: disc,
		DataFlat:      dataFlat,
		DataFull:      full,
	}, nil
}

func parseEvents(root map[string]any, typedefs TypedefTable) ([]string, map[string]*Event, error) {
	events := map[string]*Event{}
	raw, ok := root["events"]
	if !ok {
		return nil, events, nil
	}
	names, entries, ok := namedEntries(raw)
	if !ok {
		return nil, nil, newErr(KindParse, "\"events\" must be an object or array")
	}
	for i, name := range names {
		obj := entries[i]
		disc, err := parseDiscriminator(obj, "event:"+name)
		if err != nil {
			return nil, nil, err
		}
		dataFlat := Defined(name)
		if hasAnyKey(obj, recognizedObjectKeys) || obj["type"] != nil {
			dataFlat, err = ParseFlatType(obj, name+".type")
			if err != nil {
				return nil, nil, wrap(err, KindParse, fmt.Sprintf("event %q", name))
			}
		}
		full, err := Hydrate(&dataFlat, nil, typedefs)
		if err != nil {
			return nil, nil, wrap(err, KindHydration, fmt.Sprintf("event %q", name))
		}
		events[name] = &Event{
			Name:          name,
			Docs:          docsOf(obj),
			Discriminator: disc,
			DataFlat:      dataFlat,
			DataFull:      full,
		}
	}
	return names, events, nil
}

func parseErrors(root map[string]any) ([]string, map[string]*ErrorDef, error) {
	out := map[string]*ErrorDef{}
	raw, ok := root["errors"]
	if !ok {
		return nil, out, nil
	}
	names, entries, ok := namedEntries(raw)
	if !ok {
		return nil, nil, newErr(KindParse, "\"errors\" must be an object or array")
	}
	for i, name := range names {
		obj := entries[i]
		code, _ := asInt(obj["code"])
		msg, _ := obj["msg"].(string)
		if msg == "" {
			msg, _ = obj["message"].(string)
		}
		out[name] = &ErrorDef{
			Name:    name,
			Docs:    docsOf(obj),
			Code:    int64(code),
			Message: msg,
		}
	}
	return names, out, nil
}
