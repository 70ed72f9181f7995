package idl

// Primitive is a fixed-width scalar type recognized anywhere a flat type
// can appear: the numeric family (little-endian, two's complement or
// IEEE-754), bool, pubkey, and the string alias used by several IDL
// dialects in place of a vec<u8>-with-utf8-semantics.
type Primitive int

const (
	PrimitiveU8 Primitive = iota
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveU128
	PrimitiveI8
	PrimitiveI16
	PrimitiveI32
	PrimitiveI64
	PrimitiveI128
	PrimitiveF32
	PrimitiveF64
	PrimitiveBool
	PrimitivePubkey
	PrimitiveString
)

// primitiveNames is the canonical (non-backward-compatible) spelling for
// every primitive, also accepted as parser input.
var primitiveNames = map[string]Primitive{
	"u8":        PrimitiveU8,
	"u16":       PrimitiveU16,
	"u32":       PrimitiveU32,
	"u64":       PrimitiveU64,
	"u128":      PrimitiveU128,
	"i8":        PrimitiveI8,
	"i16":       PrimitiveI16,
	"i32":       PrimitiveI32,
	"i64":       PrimitiveI64,
	"i128":      PrimitiveI128,
	"f32":       PrimitiveF32,
	"f64":       PrimitiveF64,
	"bool":      PrimitiveBool,
	"pubkey":    PrimitivePubkey,
	"publicKey": PrimitivePubkey, // anchor-26 alias
	"string":    PrimitiveString,
}

// ParsePrimitive recognizes a bare primitive name, including the older
// "publicKey" alias. The bool is false when name does not name a
// primitive (callers then try Defined/typedef lookup).
func ParsePrimitive(name string) (Primitive, bool) {
	p, ok := primitiveNames[name]
	return p, ok
}

// String renders the canonical spelling for the primitive.
func (p Primitive) String() string {
	switch p {
	case PrimitiveU8:
		return "u8"
	case PrimitiveU16:
		return "u16"
	case PrimitiveU32:
		return "u32"
	case PrimitiveU64:
		return "u64"
	case PrimitiveU128:
		return "u128"
	case PrimitiveI8:
		return "i8"
	case PrimitiveI16:
		return "i16"
	case PrimitiveI32:
		return "i32"
	case PrimitiveI64:
		return "i64"
	case PrimitiveI128:
		return "i128"
	case PrimitiveF32:
		return "f32"
	case PrimitiveF64:
		return "f64"
	case PrimitiveBool:
		return "bool"
	case PrimitivePubkey:
		return "pubkey"
	case PrimitiveString:
		return "string"
	default:
		return "unknown"
	}
}

// Size is the primitive's on-disk width in bytes. Vec/Option/string-like
// forms don't apply here: string as a primitive has no fixed Size (its
// wire form is a length prefix plus UTF-8 bytes) so callers must special
// case it; Size is only meaningful for the fixed-width primitives.
func (p Primitive) Size() int {
	switch p {
	case PrimitiveU8, PrimitiveI8, PrimitiveBool:
		return 1
	case PrimitiveU16, PrimitiveI16:
		return 2
	case PrimitiveU32, PrimitiveI32, PrimitiveF32:
		return 4
	case PrimitiveU64, PrimitiveI64, PrimitiveF64:
		return 8
	case PrimitiveU128, PrimitiveI128:
		return 16
	case PrimitivePubkey:
		return 32
	default:
		return 0
	}
}

// Alignment is the primitive's repr-C alignment. Pubkey is a 32-byte
// array of u8 under the hood, so its alignment is 1, not 32.
func (p Primitive) Alignment() int {
	if p == PrimitivePubkey {
		return 1
	}
	return p.Size()
}

// IsSigned reports whether the primitive is a signed integer family.
func (p Primitive) IsSigned() bool {
	switch p {
	case PrimitiveI8, PrimitiveI16, PrimitiveI32, PrimitiveI64, PrimitiveI128:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the primitive is any integer width.
func (p Primitive) IsInteger() bool {
	switch p {
	case PrimitiveU8, PrimitiveU16, PrimitiveU32, PrimitiveU64, PrimitiveU128,
		PrimitiveI8, PrimitiveI16, PrimitiveI32, PrimitiveI64, PrimitiveI128:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the primitive is f32 or f64.
func (p Primitive) IsFloat() bool {
	return p == PrimitiveF32 || p == PrimitiveF64
}

// ExceedsSafeJSONInteger reports whether values of this primitive width may
// exceed the 53-bit precision a JSON number can carry exactly, per spec
// §4.4 and §9 ("JSON numeric precision"). Widths above 32 bits emit as
// decimal strings on decode.
func (p Primitive) ExceedsSafeJSONInteger() bool {
	switch p {
	case PrimitiveU64, PrimitiveI64, PrimitiveU128, PrimitiveI128:
		return true
	default:
		return false
	}
}
