package idl

import (
	"fmt"
	"math"
	"math/big"
)

// Decode reads the binary representation described by full from the front
// of data, returning the decoded JSON-shaped value and the remaining
// bytes, node by node — the mirror of Encode.
func Decode(full *Full, data []byte) (any, []byte, error) {
	switch full.Kind {
	case FullTypedef:
		v, rest, err := Decode(full.TypedefContent, data)
		if err != nil {
			return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("type %q", full.TypedefName))
		}
		return v, rest, nil
	case FullPrimitive:
		return decodePrimitive(full.Primitive, data)
	case FullOption:
		return decodeOption(full, data)
	case FullVec:
		return decodeVec(full, data)
	case FullArray:
		return decodeArray(full, data)
	case FullStruct:
		return decodeStruct(full, data)
	case FullEnum:
		return decodeEnum(full, data)
	case FullPadded:
		return decodePadded(full, data)
	case FullConst:
		return float64(full.ConstLiteral), data, nil
	default:
		return nil, nil, newErr(KindBuffer, "cannot decode type kind %d", full.Kind)
	}
}

func needBytes(data []byte, n int) error {
	if len(data) < n {
		return newErr(KindBuffer, "truncated input: need %d bytes, have %d", n, len(data))
	}
	return nil
}

func decodePrimitive(p Primitive, data []byte) (any, []byte, error) {
	switch p {
	case PrimitiveBool:
		if err := needBytes(data, 1); err != nil {
			return nil, nil, err
		}
		switch data[0] {
		case 0:
			return false, data[1:], nil
		case 1:
			return true, data[1:], nil
		default:
			return nil, nil, newErr(KindRange, "bool byte must be 0 or 1, got %d", data[0])
		}
	case PrimitivePubkey:
		if err := needBytes(data, 32); err != nil {
			return nil, nil, err
		}
		var raw [32]byte
		copy(raw[:], data[:32])
		return EncodePubkeyJSON(raw), data[32:], nil
	case PrimitiveString:
		n, rest, err := PrefixU32.ReadCount(data)
		if err != nil {
			return nil, nil, err
		}
		if err := needBytes(rest, int(n)); err != nil {
			return nil, nil, err
		}
		return string(rest[:n]), rest[n:], nil
	case PrimitiveF32:
		if err := needBytes(data, 4); err != nil {
			return nil, nil, err
		}
		bits := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		return float64(math.Float32frombits(bits)), data[4:], nil
	case PrimitiveF64:
		if err := needBytes(data, 8); err != nil {
			return nil, nil, err
		}
		var bits uint64
		for i := 0; i < 8; i++ {
			bits |= uint64(data[i]) << (8 * i)
		}
		return math.Float64frombits(bits), data[8:], nil
	default:
		return decodeInteger(p, data)
	}
}

func decodeInteger(p Primitive, data []byte) (any, []byte, error) {
	size := p.Size()
	if err := needBytes(data, size); err != nil {
		return nil, nil, err
	}
	raw := make([]byte, size)
	for i := 0; i < size; i++ {
		raw[size-1-i] = data[i]
	}
	n := new(big.Int).SetBytes(raw)
	if p.IsSigned() {
		bits := uint(size * 8)
		threshold := new(big.Int).Lsh(bigOne, bits-1)
		if n.Cmp(threshold) >= 0 {
			mod := new(big.Int).Lsh(bigOne, bits)
			n.Sub(n, mod)
		}
	}
	rest := data[size:]
	if p.ExceedsSafeJSONInteger() {
		return n.String(), rest, nil
	}
	return float64(n.Int64()), rest, nil
}

func decodeOption(full *Full, data []byte) (any, []byte, error) {
	n, rest, err := full.OptionPrefix.ReadCount(data)
	if err != nil {
		return nil, nil, err
	}
	switch n {
	case 0:
		return nil, rest, nil
	case 1:
		return Decode(full.OptionContent, rest)
	default:
		return nil, nil, newErr(KindRange, "option prefix must be 0 or 1, got %d", n)
	}
}

func decodeVec(full *Full, data []byte) (any, []byte, error) {
	n, rest, err := full.VecPrefix.ReadCount(data)
	if err != nil {
		return nil, nil, err
	}
	if isU8(full.VecItem) {
		if err := needBytes(rest, int(n)); err != nil {
			return nil, nil, err
		}
		return intArrayFromBytes(rest[:n]), rest[n:], nil
	}
	out := make([]any, 0, n)
	for i := uint64(0); i < n; i++ {
		v, next, err := Decode(full.VecItem, rest)
		if err != nil {
			return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("vec item #%d", i))
		}
		out = append(out, v)
		rest = next
	}
	return out, rest, nil
}

func decodeArray(full *Full, data []byte) (any, []byte, error) {
	if isU8(full.ArrayItem) {
		if err := needBytes(data, full.ArrayLength); err != nil {
			return nil, nil, err
		}
		return intArrayFromBytes(data[:full.ArrayLength]), data[full.ArrayLength:], nil
	}
	out := make([]any, 0, full.ArrayLength)
	rest := data
	for i := 0; i < full.ArrayLength; i++ {
		v, next, err := Decode(full.ArrayItem, rest)
		if err != nil {
			return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("array item #%d", i))
		}
		out = append(out, v)
		rest = next
	}
	return out, rest, nil
}

func intArrayFromBytes(data []byte) []any {
	out := make([]any, len(data))
	for i, b := range data {
		out[i] = float64(b)
	}
	return out
}

func decodeStruct(full *Full, data []byte) (any, []byte, error) {
	switch full.StructFields.Kind {
	case FullFieldsNone:
		return map[string]any{}, data, nil
	case FullFieldsNamed:
		rest := data
		obj := make(map[string]any, len(full.StructFields.Named))
		for _, field := range full.StructFields.Named {
			if err := skip(&rest, field.PreGap); err != nil {
				return nil, nil, err
			}
			v, next, err := Decode(&field.Content, rest)
			if err != nil {
				return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("field %q", field.Name))
			}
			obj[field.Name] = v
			rest = next
		}
		if err := skip(&rest, full.TrailingPad); err != nil {
			return nil, nil, err
		}
		return obj, rest, nil
	case FullFieldsUnnamed:
		rest := data
		arr := make([]any, 0, len(full.StructFields.Unnamed))
		for i, field := range full.StructFields.Unnamed {
			if err := skip(&rest, field.PreGap); err != nil {
				return nil, nil, err
			}
			v, next, err := Decode(&field.Content, rest)
			if err != nil {
				return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("field #%d", i))
			}
			arr = append(arr, v)
			rest = next
		}
		if err := skip(&rest, full.TrailingPad); err != nil {
			return nil, nil, err
		}
		return arr, rest, nil
	default:
		return nil, nil, newErr(KindBuffer, "unknown struct fields kind %d", full.StructFields.Kind)
	}
}

func skip(data *[]byte, n int) error {
	if err := needBytes(*data, n); err != nil {
		return err
	}
	*data = (*data)[n:]
	return nil
}

func decodeEnum(full *Full, data []byte) (any, []byte, error) {
	code, rest, err := full.EnumPrefix.ReadCount(data)
	if err != nil {
		return nil, nil, err
	}
	for _, variant := range full.EnumVariants {
		if uint64(variant.Code) != code {
			continue
		}
		if variant.Fields.IsEmptyFull() {
			return variant.Name, rest, nil
		}
		v, next, err := decodeEnumFields(variant.Fields, rest)
		if err != nil {
			return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("variant %q", variant.Name))
		}
		return map[string]any{variant.Name: v}, next, nil
	}
	return nil, nil, newErr(KindRange, "enum code %d does not match any declared variant", code)
}

func decodeEnumFields(fields FullFields, data []byte) (any, []byte, error) {
	switch fields.Kind {
	case FullFieldsNone:
		return map[string]any{}, data, nil
	case FullFieldsNamed:
		rest := data
		obj := make(map[string]any, len(fields.Named))
		for _, field := range fields.Named {
			v, next, err := Decode(&field.Content, rest)
			if err != nil {
				return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("field %q", field.Name))
			}
			obj[field.Name] = v
			rest = next
		}
		return obj, rest, nil
	case FullFieldsUnnamed:
		rest := data
		arr := make([]any, 0, len(fields.Unnamed))
		for i, field := range fields.Unnamed {
			v, next, err := Decode(&field.Content, rest)
			if err != nil {
				return nil, nil, wrap(err, KindBuffer, fmt.Sprintf("field #%d", i))
			}
			arr = append(arr, v)
			rest = next
		}
		return arr, rest, nil
	default:
		return nil, nil, newErr(KindBuffer, "unknown fields kind %d", fields.Kind)
	}
}

func decodePadded(full *Full, data []byte) (any, []byte, error) {
	if err := needBytes(data, full.PaddedSize); err != nil {
		return nil, nil, err
	}
	region := data[:full.PaddedSize]
	v, _, err := Decode(full.PaddedContent, region)
	if err != nil {
		return nil, nil, err
	}
	return v, data[full.PaddedSize:], nil
}

// IsEmptyFull mirrors FlatFields.IsEmpty for the hydrated fields payload.
func (f FullFields) IsEmptyFull() bool {
	switch f.Kind {
	case FullFieldsNone:
		return true
	case FullFieldsNamed:
		return len(f.Named) == 0
	case FullFieldsUnnamed:
		return len(f.Unnamed) == 0
	default:
		return true
	}
}

// DecodeStrict behaves like Decode but additionally fails with KindBuffer
// if any bytes remain unconsumed after decoding full
// ("trailing garbage when a strict decoder is used").
func DecodeStrict(full *Full, data []byte) (any, error) {
	v, rest, err := Decode(full, data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, newErr(KindBuffer, "trailing %d unconsumed byte(s) after decode", len(rest))
	}
	return v, nil
}
