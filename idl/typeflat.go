package idl

// FlatKind discriminates the variants of Flat, the parsed-but-unresolved
// type graph. A flat graph may still reference typedef names
// that are not yet present (forward references) and may still contain
// Generic symbols; it carries no layout information.
type FlatKind int

const (
	FlatDefined FlatKind = iota
	FlatGeneric
	FlatOption
	FlatVec
	FlatArray
	FlatStruct
	FlatEnum
	FlatPadded
	FlatConst
	FlatPrimitive
)

// Flat is a single node of the unresolved type graph. Only the fields
// relevant to Kind are populated; this mirrors the flat-struct-with-
// discriminant idiom used throughout the retrieved IR packages (e.g.
// fidlgen's codegen/ir.go) rather than a deep interface hierarchy, keeping
// JSON marshaling and the hydration switch direct.
type Flat struct {
	Kind FlatKind

	// FlatDefined
	DefinedName     string
	DefinedGenerics []Flat

	// FlatGeneric
	GenericSymbol string

	// FlatOption
	OptionPrefix  Prefix
	OptionContent *Flat

	// FlatVec
	VecPrefix Prefix
	VecItem   *Flat

	// FlatArray
	ArrayItem   *Flat
	ArrayLength *Flat // itself a Flat, normally FlatConst or FlatDefined/FlatGeneric resolving to one

	// FlatStruct
	StructFields FlatFields

	// FlatEnum
	EnumPrefix   Prefix
	EnumVariants []FlatEnumVariant

	// FlatPadded
	PaddedSize    int
	PaddedContent *Flat

	// FlatConst
	ConstLiteral int64

	// FlatPrimitive
	Primitive Primitive
}

// FlatFieldsKind discriminates the three shapes a struct/variant's field
// list may take: no fields, named fields, or positional (tuple) fields.
type FlatFieldsKind int

const (
	FieldsNone FlatFieldsKind = iota
	FieldsNamed
	FieldsUnnamed
)

// FlatFields is the fields payload shared by Struct nodes and Enum
// variants.
type FlatFields struct {
	Kind    FlatFieldsKind
	Named   []FlatNamedField
	Unnamed []FlatUnnamedField
}

// FlatNamedField is one field of a Named field list: (name, docs, content).
type FlatNamedField struct {
	Name    string
	Docs    []string
	Content Flat
}

// FlatUnnamedField is one field of an Unnamed (tuple) field list.
type FlatUnnamedField struct {
	Docs    []string
	Content Flat
}

// FlatEnumVariant is (name, integer code, docs, fields).
type FlatEnumVariant struct {
	Name    string
	Code    int64
	Docs    []string
	Fields  FlatFields
}

// IsEmpty reports whether a FlatFields carries no data at all (FieldsNone,
// or an empty Named/Unnamed list) — used by the renderer to decide
// whether to emit an enum variant in its bare-string form.
func (f FlatFields) IsEmpty() bool {
	switch f.Kind {
	case FieldsNone:
		return true
	case FieldsNamed:
		return len(f.Named) == 0
	case FieldsUnnamed:
		return len(f.Unnamed) == 0
	default:
		return true
	}
}

// Defined builds a FlatDefined node, no generics.
func Defined(name string) Flat { return Flat{Kind: FlatDefined, DefinedName: name} }

// DefinedGeneric builds a FlatDefined node instantiated with generic args.
func DefinedGeneric(name string, args ...Flat) Flat {
	return Flat{Kind: FlatDefined, DefinedName: name, DefinedGenerics: args}
}

// Prim builds a FlatPrimitive node.
func Prim(p Primitive) Flat { return Flat{Kind: FlatPrimitive, Primitive: p} }

// ConstLit builds a FlatConst node.
func ConstLit(n int64) Flat { return Flat{Kind: FlatConst, ConstLiteral: n} }
