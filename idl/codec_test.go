package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hydrateFlat(t *testing.T, flat Flat) *Full {
	t.Helper()
	full, err := Hydrate(&flat, nil, TypedefTable{})
	require.NoError(t, err)
	return full
}

func TestPrimitiveRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		p     Primitive
		value any
	}{
		{"u8", PrimitiveU8, float64(200)},
		{"u32", PrimitiveU32, float64(1234567)},
		{"i32", PrimitiveI32, float64(-42)},
		{"bool", PrimitiveBool, true},
		{"f64", PrimitiveF64, 3.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			full := hydrateFlat(t, Prim(c.p))
			var sink []byte
			require.NoError(t, Encode(full, c.value, &sink))
			decoded, err := DecodeStrict(full, sink)
			require.NoError(t, err)
			assert.Equal(t, c.value, decoded)
		})
	}
}

func TestU64RoundTripEmitsDecimalString(t *testing.T) {
	full := hydrateFlat(t, Prim(PrimitiveU64))
	var sink []byte
	require.NoError(t, Encode(full, "18446744073709551615", &sink))
	decoded, err := DecodeStrict(full, sink)
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551615", decoded)
}

func TestVecPrefixWidths(t *testing.T) {
	item := Prim(PrimitiveU16)
	flat := Flat{Kind: FlatVec, VecPrefix: PrefixU8, VecItem: &item}
	full := hydrateFlat(t, flat)
	var sink []byte
	require.NoError(t, Encode(full, []any{float64(1), float64(2), float64(3)}, &sink))
	require.Equal(t, byte(3), sink[0], "u8 vec prefix byte")
	decoded, err := DecodeStrict(full, sink)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, decoded)
}

func TestVecU8PrefixOverflowRejected(t *testing.T) {
	item := Prim(PrimitiveU8)
	flat := Flat{Kind: FlatVec, VecPrefix: PrefixU8, VecItem: &item}
	full := hydrateFlat(t, flat)
	big := make([]any, 256)
	for i := range big {
		big[i] = float64(0)
	}
	var sink []byte
	err := Encode(full, big, &sink)
	require.Error(t, err)
	var idlErr *Error
	require.ErrorAs(t, err, &idlErr)
	assert.Equal(t, KindRange, idlErr.Kind)
}

func TestOptionPrefixOutOfRangeRejected(t *testing.T) {
	content := Prim(PrimitiveU32)
	flat := Flat{Kind: FlatOption, OptionPrefix: PrefixU8, OptionContent: &content}
	full := hydrateFlat(t, flat)
	_, _, err := Decode(full, []byte{2, 0, 0, 0, 0})
	require.Error(t, err)
	var idlErr *Error
	require.ErrorAs(t, err, &idlErr)
	assert.Equal(t, KindRange, idlErr.Kind)
}

func TestEnumExplicitCodes(t *testing.T) {
	flat := Flat{
		Kind:       FlatEnum,
		EnumPrefix: PrefixU8,
		EnumVariants: []FlatEnumVariant{
			{Name: "Idle", Code: 0, Fields: FlatFields{Kind: FieldsNone}},
			{Name: "Active", Code: 5, Fields: FlatFields{Kind: FieldsNone}},
		},
	}
	full := hydrateFlat(t, flat)
	var sink []byte
	require.NoError(t, Encode(full, "Active", &sink))
	assert.Equal(t, []byte{5}, sink)
	decoded, err := DecodeStrict(full, sink)
	require.NoError(t, err)
	assert.Equal(t, "Active", decoded)

	_, _, err = Decode(full, []byte{9})
	require.Error(t, err)
	var idlErr *Error
	require.ErrorAs(t, err, &idlErr)
	assert.Equal(t, KindRange, idlErr.Kind)
}

func TestArrayExactLengthDecode(t *testing.T) {
	item := Prim(PrimitiveU16)
	length := ConstLit(3)
	flat := Flat{Kind: FlatArray, ArrayItem: &item, ArrayLength: &length}
	full := hydrateFlat(t, flat)
	var sink []byte
	require.NoError(t, Encode(full, []any{float64(1), float64(2), float64(3)}, &sink))
	require.Len(t, sink, 6)
	_, err := DecodeStrict(full, sink[:5])
	require.Error(t, err)
}

func TestPaddedOversizedContentRejected(t *testing.T) {
	content := Prim(PrimitiveU32)
	flat := Flat{Kind: FlatPadded, PaddedSize: 2, PaddedContent: &content}
	full := hydrateFlat(t, flat)
	var sink []byte
	err := Encode(full, float64(1), &sink)
	require.Error(t, err)
	var idlErr *Error
	require.ErrorAs(t, err, &idlErr)
	assert.Equal(t, KindRange, idlErr.Kind)
}

// TestReprCStructLayout exercises the worked example: struct {x: u16, y:
// pubkey, z: u8} under repr=c lays out as x@0, y@2 (pubkey has alignment
// 1, so no gap before it), z@34, with one byte of trailing padding to the
// struct's own alignment (the largest field alignment, u16's 2), giving
// total size 36.
func TestReprCStructLayout(t *testing.T) {
	typedefs := TypedefTable{
		"Position": {
			Name: "Position",
			Repr: ReprC,
			Content: Flat{
				Kind: FlatStruct,
				StructFields: FlatFields{
					Kind: FieldsNamed,
					Named: []FlatNamedField{
						{Name: "x", Content: Prim(PrimitiveU16)},
						{Name: "y", Content: Prim(PrimitivePubkey)},
						{Name: "z", Content: Prim(PrimitiveU8)},
					},
				},
			},
		},
	}
	full, err := Hydrate(&Flat{Kind: FlatDefined, DefinedName: "Position"}, nil, typedefs)
	require.NoError(t, err)
	size, ok := full.Size()
	require.True(t, ok)
	assert.Equal(t, 36, size)

	inner := full.TypedefContent
	assert.Equal(t, 0, inner.StructFields.Named[0].Offset)
	assert.Equal(t, 2, inner.StructFields.Named[1].Offset)
	assert.Equal(t, 34, inner.StructFields.Named[2].Offset)
}
