package idl

// Repr is a tag on a typedef selecting its binary layout convention.
type Repr int

const (
	ReprNone Repr = iota
	ReprC
	ReprRust
	ReprTransparent
)

func (r Repr) String() string {
	switch r {
	case ReprC:
		return "c"
	case ReprRust:
		return "rust"
	case ReprTransparent:
		return "transparent"
	default:
		return "none"
	}
}

// FullKind discriminates the variants of Full, the hydrated type graph
//. A full graph is closed: no free generic symbol, no
// unresolved defined name, and it deterministically yields a single
// serialized size for any in-range value.
type FullKind int

const (
	FullTypedef FullKind = iota
	FullOption
	FullVec
	FullArray
	FullStruct
	FullEnum
	FullPadded
	FullConst
	FullPrimitive
)

// Full is a single node of the hydrated type graph. Compared to Flat:
// Defined is replaced by Typedef (name + repr + hydrated body), Generic no
// longer appears, Const in a length position has been collapsed to a
// plain int, and containers carry any alignment padding their repr
// requires.
type Full struct {
	Kind FullKind

	// FullTypedef
	TypedefName    string
	TypedefRepr    Repr
	TypedefContent *Full

	// FullOption
	OptionPrefix  Prefix
	OptionContent *Full

	// FullVec
	VecPrefix Prefix
	VecItem   *Full

	// FullArray
	ArrayItem   *Full
	ArrayLength int

	// FullStruct
	StructFields FullFields
	// TrailingPad, set only when the enclosing typedef's repr is C: bytes
	// to insert after this struct (trailing padding to its own
	// alignment). Zero otherwise.
	TrailingPad int
	// Align is the struct's own alignment (max field alignment), used
	// both to compute TrailingPad and by parents that are themselves
	// repr-C structs.
	Align int

	// FullEnum
	EnumPrefix   Prefix
	EnumVariants []FullEnumVariant

	// FullPadded
	PaddedSize    int
	PaddedContent *Full

	// FullConst
	ConstLiteral int64

	// FullPrimitive
	Primitive Primitive
}

// FullFieldsKind mirrors FlatFieldsKind for the hydrated graph.
type FullFieldsKind int

const (
	FullFieldsNone FullFieldsKind = iota
	FullFieldsNamed
	FullFieldsUnnamed
)

// FullFields is the hydrated fields payload. Struct fields, named and
// positional, additionally carry PreGap, the repr-C alignment padding
// inserted before that field (zero when the enclosing typedef's repr is
// not C), and Offset, the field's byte offset from the start of the
// struct, computed from the preceding fields' sizes for every struct.
type FullFields struct {
	Kind    FullFieldsKind
	Named   []FullNamedField
	Unnamed []FullUnnamedField
}

// FullNamedField is one hydrated named field.
type FullNamedField struct {
	Name    string
	Content Full
	PreGap  int
	Offset  int
}

// FullUnnamedField is one hydrated positional field.
type FullUnnamedField struct {
	Content Full
	PreGap  int
	Offset  int
}

// FullEnumVariant is a hydrated enum variant.
type FullEnumVariant struct {
	Name   string
	Code   int64
	Fields FullFields
}

// AsConstLiteral returns (n, true) if full is a FullConst node, used by
// the hydrator when collapsing an Array's length expression.
func (f *Full) AsConstLiteral() (int64, bool) {
	if f.Kind == FullConst {
		return f.ConstLiteral, true
	}
	return 0, false
}

// Size computes the node's fixed on-disk size in bytes. It returns
// (-1, false) for variable-length nodes (Vec, Option wrapping a variable
// type, Enum with variable-sized variants, String) where no single size
// exists independent of the value. For an Option over a fixed-size type it
// returns the size of the present (non-null) encoding; a null Option
// encodes as its prefix alone.
func (f *Full) Size() (int, bool) {
	switch f.Kind {
	case FullPrimitive:
		if f.Primitive == PrimitiveString {
			return -1, false
		}
		return f.Primitive.Size(), true
	case FullConst:
		return 0, true
	case FullArray:
		itemSize, ok := f.ArrayItem.Size()
		if !ok {
			return -1, false
		}
		return itemSize * f.ArrayLength, true
	case FullPadded:
		return f.PaddedSize, true
	case FullTypedef:
		return f.TypedefContent.Size()
	case FullOption:
		contentSize, ok := f.OptionContent.Size()
		if !ok {
			return -1, false
		}
		return f.OptionPrefix.Width() + contentSize, true
	case FullStruct:
		total := 0
		switch f.StructFields.Kind {
		case FullFieldsNamed:
			for _, field := range f.StructFields.Named {
				sz, ok := field.Content.Size()
				if !ok {
					return -1, false
				}
				total += field.PreGap + sz
			}
		case FullFieldsUnnamed:
			for _, field := range f.StructFields.Unnamed {
				sz, ok := field.Content.Size()
				if !ok {
					return -1, false
				}
				total += field.PreGap + sz
			}
		}
		return total + f.TrailingPad, true
	case FullEnum:
		// Only uniform-size enums (every variant the same fixed size)
		// yield a single size; otherwise the size depends on the
		// runtime variant.
		size := -1
		for _, v := range f.EnumVariants {
			variantSize := 0
			ok := true
			switch v.Fields.Kind {
			case FullFieldsNamed:
				for _, field := range v.Fields.Named {
					sz, fieldOK := field.Content.Size()
					if !fieldOK {
						ok = false
						break
					}
					variantSize += field.PreGap + sz
				}
			case FullFieldsUnnamed:
				for _, field := range v.Fields.Unnamed {
					sz, fieldOK := field.Content.Size()
					if !fieldOK {
						ok = false
						break
					}
					variantSize += field.PreGap + sz
				}
			}
			if !ok {
				return -1, false
			}
			if size == -1 {
				size = variantSize
			} else if size != variantSize {
				return -1, false
			}
		}
		if size == -1 {
			size = 0
		}
		return f.EnumPrefix.Width() + size, true
	case FullVec:
		return -1, false
	default:
		return -1, false
	}
}
