package idl

import (
	"fmt"
	"math"
	"math/big"
)

// Encode writes the binary representation of value (a JSON-shaped Go
// value: nil, bool, float64, string, []any, map[string]any) driven by
// full, appending to *sink, node by node.
func Encode(full *Full, value any, sink *[]byte) error {
	switch full.Kind {
	case FullTypedef:
		if err := Encode(full.TypedefContent, value, sink); err != nil {
			return wrap(err, KindTypeMismatch, fmt.Sprintf("type %q", full.TypedefName))
		}
		return nil
	case FullPrimitive:
		return encodePrimitive(full.Primitive, value, sink)
	case FullOption:
		return encodeOption(full, value, sink)
	case FullVec:
		return encodeVec(full, value, sink)
	case FullArray:
		return encodeArray(full, value, sink)
	case FullStruct:
		return encodeStruct(full, value, sink)
	case FullEnum:
		return encodeEnum(full, value, sink)
	case FullPadded:
		return encodePadded(full, value, sink)
	case FullConst:
		return nil // constants carry no bytes of their own
	default:
		return newErr(KindTypeMismatch, "cannot encode type kind %d", full.Kind)
	}
}

func encodePrimitive(p Primitive, value any, sink *[]byte) error {
	switch p {
	case PrimitiveBool:
		b, ok := value.(bool)
		if !ok {
			return newErr(KindTypeMismatch, "expected a boolean, got %T", value)
		}
		if b {
			*sink = append(*sink, 1)
		} else {
			*sink = append(*sink, 0)
		}
		return nil
	case PrimitivePubkey:
		raw, err := DecodePubkeyValue(value)
		if err != nil {
			return err
		}
		*sink = append(*sink, raw[:]...)
		return nil
	case PrimitiveString:
		s, ok := value.(string)
		if !ok {
			return newErr(KindTypeMismatch, "expected a string, got %T", value)
		}
		if err := PrefixU32.WriteCount(sink, uint64(len(s))); err != nil {
			return err
		}
		*sink = append(*sink, []byte(s)...)
		return nil
	case PrimitiveF32:
		f, ok := asFloat(value)
		if !ok {
			return newErr(KindTypeMismatch, "expected a number for f32, got %T", value)
		}
		bits := math.Float32bits(float32(f))
		*sink = append(*sink, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
		return nil
	case PrimitiveF64:
		f, ok := asFloat(value)
		if !ok {
			return newErr(KindTypeMismatch, "expected a number for f64, got %T", value)
		}
		bits := math.Float64bits(f)
		for i := 0; i < 8; i++ {
			*sink = append(*sink, byte(bits>>(8*i)))
		}
		return nil
	default:
		return encodeInteger(p, value, sink)
	}
}

func encodeInteger(p Primitive, value any, sink *[]byte) error {
	big, err := asBigInt(value)
	if err != nil {
		return err
	}
	size := p.Size()
	if err := checkIntegerRange(p, big); err != nil {
		return err
	}
	buf := make([]byte, size)
	// Two's complement little-endian encode via big.Int bit-twiddling:
	// for negative numbers, add 2^(8*size) first.
	n := new(bigInt).Set(big)
	if n.Sign() < 0 {
		mod := new(bigInt).Lsh(bigOne, uint(size*8))
		n.Add(n, mod)
	}
	bytesBE := n.Bytes()
	for i := 0; i < len(bytesBE) && i < size; i++ {
		buf[i] = bytesBE[len(bytesBE)-1-i]
	}
	*sink = append(*sink, buf...)
	return nil
}

func checkIntegerRange(p Primitive, n *bigInt) error {
	size := p.Size()
	bits := uint(size * 8)
	if p.IsSigned() {
		max := new(bigInt).Lsh(bigOne, bits-1)
		min := new(bigInt).Neg(max)
		maxInclusive := new(bigInt).Sub(max, bigOne)
		if n.Cmp(min) < 0 || n.Cmp(maxInclusive) > 0 {
			return newErr(KindRange, "value %s out of range for %s", n.String(), p)
		}
		return nil
	}
	if n.Sign() < 0 {
		return newErr(KindRange, "value %s out of range for unsigned %s", n.String(), p)
	}
	max := new(bigInt).Lsh(bigOne, bits)
	if n.Cmp(max) >= 0 {
		return newErr(KindRange, "value %s out of range for %s", n.String(), p)
	}
	return nil
}

func encodeOption(full *Full, value any, sink *[]byte) error {
	if value == nil {
		return full.OptionPrefix.WriteCount(sink, 0)
	}
	if err := full.OptionPrefix.WriteCount(sink, 1); err != nil {
		return err
	}
	if err := Encode(full.OptionContent, value, sink); err != nil {
		return wrap(err, KindTypeMismatch, "option content")
	}
	return nil
}

func encodeVec(full *Full, value any, sink *[]byte) error {
	if data, ok := decodeSmallIntArray(value); ok && isU8(full.VecItem) {
		return encodeBytesVec(full, data, sink)
	}
	if b, ok, err := decodeTaggedBytes(value); ok {
		if err != nil {
			return err
		}
		return encodeBytesVec(full, b, sink)
	}
	if s, ok := value.(string); ok {
		return encodeBytesVec(full, []byte(s), sink)
	}
	arr, ok := value.([]any)
	if !ok {
		return newErr(KindTypeMismatch, "expected an array for vec, got %T", value)
	}
	if err := full.VecPrefix.WriteCount(sink, uint64(len(arr))); err != nil {
		return err
	}
	for i, el := range arr {
		if err := Encode(full.VecItem, el, sink); err != nil {
			return wrap(err, KindTypeMismatch, fmt.Sprintf("vec item #%d", i))
		}
	}
	return nil
}

func encodeBytesVec(full *Full, data []byte, sink *[]byte) error {
	if err := full.VecPrefix.WriteCount(sink, uint64(len(data))); err != nil {
		return err
	}
	*sink = append(*sink, data...)
	return nil
}

func isU8(full *Full) bool {
	return full != nil && full.Kind == FullPrimitive && full.Primitive == PrimitiveU8
}

func encodeArray(full *Full, value any, sink *[]byte) error {
	if isU8(full.ArrayItem) {
		if data, ok := decodeSmallIntArray(value); ok {
			return encodeFixedBytes(full, data, sink)
		}
		if b, ok, err := decodeTaggedBytes(value); ok {
			if err != nil {
				return err
			}
			return encodeFixedBytes(full, b, sink)
		}
		if s, ok := value.(string); ok {
			return encodeFixedBytes(full, []byte(s), sink)
		}
	}
	arr, ok := value.([]any)
	if !ok {
		return newErr(KindTypeMismatch, "expected an array of length %d, got %T", full.ArrayLength, value)
	}
	if len(arr) != full.ArrayLength {
		return newErr(KindRange, "array expects exactly %d items, got %d", full.ArrayLength, len(arr))
	}
	for i, el := range arr {
		if err := Encode(full.ArrayItem, el, sink); err != nil {
			return wrap(err, KindTypeMismatch, fmt.Sprintf("array item #%d", i))
		}
	}
	return nil
}

func encodeFixedBytes(full *Full, data []byte, sink *[]byte) error {
	if len(data) != full.ArrayLength {
		return newErr(KindRange, "byte blob expects exactly %d bytes, got %d", full.ArrayLength, len(data))
	}
	*sink = append(*sink, data...)
	return nil
}

func encodeStruct(full *Full, value any, sink *[]byte) error {
	switch full.StructFields.Kind {
	case FullFieldsNone:
		return nil
	case FullFieldsNamed:
		obj, ok := value.(map[string]any)
		if !ok {
			return newErr(KindTypeMismatch, "expected an object, got %T", value)
		}
		for _, field := range full.StructFields.Named {
			fv, present := obj[field.Name]
			if !present {
				if field.Content.Kind == FullOption {
					fv = nil
				} else {
					return newErr(KindTypeMismatch, "missing field %q", field.Name)
				}
			}
			writePad(sink, field.PreGap)
			if err := Encode(&field.Content, fv, sink); err != nil {
				return wrap(err, KindTypeMismatch, fmt.Sprintf("field %q", field.Name))
			}
		}
		writePad(sink, full.TrailingPad)
		return nil
	case FullFieldsUnnamed:
		arr, ok := value.([]any)
		if !ok {
			return newErr(KindTypeMismatch, "expected an array, got %T", value)
		}
		if len(arr) != len(full.StructFields.Unnamed) {
			return newErr(KindTypeMismatch, "expected %d positional fields, got %d", len(full.StructFields.Unnamed), len(arr))
		}
		for i, field := range full.StructFields.Unnamed {
			writePad(sink, field.PreGap)
			if err := Encode(&field.Content, arr[i], sink); err != nil {
				return wrap(err, KindTypeMismatch, fmt.Sprintf("field #%d", i))
			}
		}
		writePad(sink, full.TrailingPad)
		return nil
	default:
		return newErr(KindTypeMismatch, "unknown struct fields kind %d", full.StructFields.Kind)
	}
}

func writePad(sink *[]byte, n int) {
	for i := 0; i < n; i++ {
		*sink = append(*sink, 0)
	}
}

func encodeEnum(full *Full, value any, sink *[]byte) error {
	var variantName string
	var fieldsValue any
	switch v := value.(type) {
	case string:
		variantName = v
	case map[string]any:
		if len(v) != 1 {
			return newErr(KindTypeMismatch, "enum object must have exactly one key, got %d", len(v))
		}
		for k, fv := range v {
			variantName = k
			fieldsValue = fv
		}
	default:
		return newErr(KindTypeMismatch, "expected a string or single-key object for enum, got %T", value)
	}
	for _, variant := range full.EnumVariants {
		if variant.Name != variantName {
			continue
		}
		if err := full.EnumPrefix.WriteCount(sink, uint64(variant.Code)); err != nil {
			return err
		}
		return encodeEnumFields(variant.Fields, fieldsValue, sink)
	}
	return newErr(KindTypeMismatch, "unknown enum variant %q", variantName)
}

func encodeEnumFields(fields FullFields, value any, sink *[]byte) error {
	switch fields.Kind {
	case FullFieldsNone:
		return nil
	case FullFieldsNamed:
		obj, _ := value.(map[string]any)
		for _, field := range fields.Named {
			fv, present := obj[field.Name]
			if !present && field.Content.Kind != FullOption {
				return newErr(KindTypeMismatch, "missing enum field %q", field.Name)
			}
			if err := Encode(&field.Content, fv, sink); err != nil {
				return wrap(err, KindTypeMismatch, fmt.Sprintf("field %q", field.Name))
			}
		}
		return nil
	case FullFieldsUnnamed:
		arr, _ := value.([]any)
		if len(arr) != len(fields.Unnamed) {
			return newErr(KindTypeMismatch, "expected %d positional fields, got %d", len(fields.Unnamed), len(arr))
		}
		for i, field := range fields.Unnamed {
			if err := Encode(&field.Content, arr[i], sink); err != nil {
				return wrap(err, KindTypeMismatch, fmt.Sprintf("field #%d", i))
			}
		}
		return nil
	default:
		return newErr(KindTypeMismatch, "unknown fields kind %d", fields.Kind)
	}
}

func encodePadded(full *Full, value any, sink *[]byte) error {
	start := len(*sink)
	if err := Encode(full.PaddedContent, value, sink); err != nil {
		return err
	}
	written := len(*sink) - start
	if written > full.PaddedSize {
		return newErr(KindRange, "padded content is %d bytes, exceeds declared size %d", written, full.PaddedSize)
	}
	writePad(sink, full.PaddedSize-written)
	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

type bigInt = big.Int

var bigOne = big.NewInt(1)

func asBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return nil, newErr(KindTypeMismatch, "expected an integer, got %v", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, newErr(KindTypeMismatch, "expected an integer string, got %q", v)
		}
		return n, nil
	default:
		return nil, newErr(KindTypeMismatch, "expected a number or numeric string, got %T", value)
	}
}
