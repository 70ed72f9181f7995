package idl

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

// decodeTaggedBytes recognizes the tagged object forms users may write
// wherever a vec<u8> or array<u8; N> is expected: {utf8|hex|base16|
// base58|base64: "..."} "Byte-blob polymorphism". ok is false
// when value isn't one of these forms (callers then fall back to a plain
// array of small integers or a bare string).
func decodeTaggedBytes(value any) (data []byte, ok bool, err error) {
	obj, isObj := value.(map[string]any)
	if !isObj || len(obj) != 1 {
		return nil, false, nil
	}
	for key, raw := range obj {
		s, isStr := raw.(string)
		if !isStr {
			return nil, false, nil
		}
		switch key {
		case "utf8":
			return []byte(s), true, nil
		case "hex", "base16":
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, true, newErr(KindParse, "invalid hex byte blob: %v", err)
			}
			return b, true, nil
		case "base58":
			b, err := base58.Decode(s)
			if err != nil {
				return nil, true, newErr(KindParse, "invalid base58 byte blob: %v", err)
			}
			return b, true, nil
		case "base64":
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, true, newErr(KindParse, "invalid base64 byte blob: %v", err)
			}
			return b, true, nil
		default:
			return nil, false, nil
		}
	}
	return nil, false, nil
}

// decodeSmallIntArray recognizes a JSON array of small (0..255) numbers as
// an alternative bare-array byte-blob form.
func decodeSmallIntArray(value any) ([]byte, bool) {
	arr, ok := value.([]any)
	if !ok {
		return nil, false
	}
	out := make([]byte, 0, len(arr))
	for _, el := range arr {
		n, ok := asInt(el)
		if !ok || n < 0 || n > 255 {
			return nil, false
		}
		out = append(out, byte(n))
	}
	return out, true
}

// EncodePubkeyJSON renders 32 raw pubkey bytes as the canonical base58
// string form.
func EncodePubkeyJSON(raw [32]byte) string {
	return base58.Encode(raw[:])
}

// DecodePubkeyValue accepts either a canonical base58 string or the
// tagged object form {base16|base58|base64: "..."} and returns exactly 32
// bytes.
func DecodePubkeyValue(value any) ([32]byte, error) {
	var out [32]byte
	var raw []byte
	switch v := value.(type) {
	case string:
		b, err := base58.Decode(v)
		if err != nil {
			return out, newErr(KindTypeMismatch, "invalid base58 pubkey %q: %v", v, err)
		}
		raw = b
	case map[string]any:
		b, ok, err := decodeTaggedBytes(v)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, newErr(KindTypeMismatch, "unrecognized pubkey object form")
		}
		raw = b
	default:
		return out, newErr(KindTypeMismatch, "pubkey must be a base58 string or tagged object")
	}
	if len(raw) != 32 {
		return out, newErr(KindRange, "pubkey must decode to 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
