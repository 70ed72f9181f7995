package idl

import "fmt"

// ParseFlatType accepts a JSON value (already decoded into Go's generic
// interface{} shape: string, float64, []interface{}, map[string]interface{})
// and returns a flat type, tolerating the surface forms enumerated in spec
// §4.1. On malformed input it returns a KindParse *Error naming the path.
func ParseFlatType(value any, path string) (Flat, error) {
	switch v := value.(type) {
	case string:
		return parseFlatTypeName(v, path)
	case []any:
		return parseFlatTypeArray(v, path)
	case map[string]any:
		return parseFlatTypeObject(v, path)
	default:
		return Flat{}, newErr(KindParse, "expected a type at %s, got %T", path, value)
	}
}

func parseFlatTypeName(name, path string) (Flat, error) {
	if p, ok := ParsePrimitive(name); ok {
		return Prim(p), nil
	}
	return Defined(name), nil
}

// parseFlatTypeArray handles "[T]" (Vec, default prefix U32) and "[T, N]"
// (Array of length N).
func parseFlatTypeArray(arr []any, path string) (Flat, error) {
	switch len(arr) {
	case 1:
		item, err := ParseFlatType(arr[0], path+"[0]")
		if err != nil {
			return Flat{}, err
		}
		return Flat{Kind: FlatVec, VecPrefix: PrefixU32, VecItem: &item}, nil
	case 2:
		item, err := ParseFlatType(arr[0], path+"[0]")
		if err != nil {
			return Flat{}, err
		}
		length, err := parseFlatArrayLength(arr[1], path+"[1]")
		if err != nil {
			return Flat{}, err
		}
		return Flat{Kind: FlatArray, ArrayItem: &item, ArrayLength: &length}, nil
	default:
		return Flat{}, newErr(KindParse, "array type at %s must have 1 or 2 elements, got %d", path, len(arr))
	}
}

func parseFlatArrayLength(value any, path string) (Flat, error) {
	switch v := value.(type) {
	case float64:
		return ConstLit(int64(v)), nil
	case string:
		// generic const symbol, e.g. array length driven by a
		// generic-const parameter
		return Flat{Kind: FlatGeneric, GenericSymbol: v}, nil
	default:
		return ParseFlatType(value, path)
	}
}

// recognizedObjectKeys lists, in priority order, the single-key object
// forms the parser dispatches on.
var recognizedObjectKeys = []string{
	"defined", "option", "option8", "option16", "option32",
	"vec", "vec8", "vec16", "vec32",
	"array", "fields", "variants", "variants8", "variants16", "variants32",
	"generic", "padded", "const",
}

func parseFlatTypeObject(obj map[string]any, path string) (Flat, error) {
	// Field-bag object dispatch: {name, docs?, type|option|vec|defined|
	// generic|fields|variants|...}. A {"padded": N, "type": T} object is
	// a Padded node. Otherwise, if "type" is present, recurse into it
	// directly (the enclosing name/docs belong to the caller).
	if raw, ok := obj["padded"]; ok {
		return parseFlatPadded(obj, raw, path)
	}
	if typ, ok := obj["type"]; ok {
		return ParseFlatType(typ, path+".type")
	}

	for _, key := range recognizedObjectKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		switch {
		case key == "defined":
			return parseFlatDefined(raw, path)
		case key == "generic":
			symbol, ok := raw.(string)
			if !ok {
				return Flat{}, newErr(KindParse, "generic symbol at %s must be a string", path)
			}
			return Flat{Kind: FlatGeneric, GenericSymbol: symbol}, nil
		case key == "const":
			return parseFlatConst(raw, path)
		case key == "padded":
			return parseFlatPadded(obj, raw, path)
		case key == "option" || len(key) > 6 && key[:6] == "option":
			return parseFlatPrefixedContent(FlatOption, key, "option", raw, path)
		case key == "vec" || len(key) > 3 && key[:3] == "vec":
			return parseFlatPrefixedContent(FlatVec, key, "vec", raw, path)
		case key == "array":
			return parseFlatArray(raw, path)
		case key == "fields":
			return parseFlatStruct(raw, path)
		case key == "variants" || len(key) > 8 && key[:8] == "variants":
			return parseFlatEnum(key, raw, path)
		}
	}
	return Flat{}, newErr(KindParse, "unrecognized type object shape at %s: %v", path, keysOf(obj))
}

func parseFlatPrefixedContent(kind FlatKind, key, base string, raw any, path string) (Flat, error) {
	prefix, ok := prefixBySuffix(key[len(base):], defaultPrefixFor(kind))
	if !ok {
		return Flat{}, newErr(KindParse, "unrecognized prefix suffix on key %q at %s", key, path)
	}
	content, err := ParseFlatType(raw, path+"."+key)
	if err != nil {
		return Flat{}, err
	}
	if kind == FlatOption {
		return Flat{Kind: FlatOption, OptionPrefix: prefix, OptionContent: &content}, nil
	}
	return Flat{Kind: FlatVec, VecPrefix: prefix, VecItem: &content}, nil
}

func defaultPrefixFor(kind FlatKind) Prefix {
	if kind == FlatOption {
		return PrefixU8
	}
	return PrefixU32
}

func parseFlatDefined(raw any, path string) (Flat, error) {
	switch v := raw.(type) {
	case string:
		return Defined(v), nil
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			return Flat{}, newErr(KindParse, "defined type at %s missing name", path)
		}
		genericsRaw, _ := v["generics"].([]any)
		generics := make([]Flat, 0, len(genericsRaw))
		for i, g := range genericsRaw {
			generics = append(generics, flattenGenericArg(g))
			_ = i
		}
		return Flat{Kind: FlatDefined, DefinedName: name, DefinedGenerics: generics}, nil
	default:
		return Flat{}, newErr(KindParse, "defined type at %s must be a string or object", path)
	}
}

// flattenGenericArg unwraps the backward-compatible {"kind":"type","type":T}
// and {"kind":"const","value":"N"} generic-argument wrapper forms emitted
// by some anchor dialects, in addition to a bare type value.
func flattenGenericArg(g any) Flat {
	if obj, ok := g.(map[string]any); ok {
		if kind, _ := obj["kind"].(string); kind == "const" {
			if s, ok := obj["value"].(string); ok {
				var n int64
				fmt.Sscanf(s, "%d", &n)
				return ConstLit(n)
			}
		}
		if kind, _ := obj["kind"].(string); kind == "type" {
			if t, ok := obj["type"]; ok {
				flat, err := ParseFlatType(t, "generic")
				if err == nil {
					return flat
				}
			}
		}
	}
	flat, err := ParseFlatType(g, "generic")
	if err != nil {
		return Flat{}
	}
	return flat
}

func parseFlatConst(raw any, path string) (Flat, error) {
	switch v := raw.(type) {
	case float64:
		return ConstLit(int64(v)), nil
	case string:
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return Flat{}, newErr(KindParse, "const literal at %s is not an integer: %q", path, v)
		}
		return ConstLit(n), nil
	default:
		return Flat{}, newErr(KindParse, "const literal at %s must be a number or numeric string", path)
	}
}

func parseFlatPadded(obj map[string]any, raw any, path string) (Flat, error) {
	size, ok := asInt(raw)
	if !ok {
		return Flat{}, newErr(KindParse, "padded size at %s must be an integer", path)
	}
	contentRaw, ok := obj["type"]
	if !ok {
		return Flat{}, newErr(KindParse, "padded type at %s missing \"type\"", path)
	}
	content, err := ParseFlatType(contentRaw, path+".type")
	if err != nil {
		return Flat{}, err
	}
	return Flat{Kind: FlatPadded, PaddedSize: size, PaddedContent: &content}, nil
}

func parseFlatArray(raw any, path string) (Flat, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) != 2 {
		return Flat{}, newErr(KindParse, "array type at %s must be [type, length]", path)
	}
	item, err := ParseFlatType(arr[0], path+".array[0]")
	if err != nil {
		return Flat{}, err
	}
	length, err := parseFlatArrayLength(arr[1], path+".array[1]")
	if err != nil {
		return Flat{}, err
	}
	return Flat{Kind: FlatArray, ArrayItem: &item, ArrayLength: &length}, nil
}

func parseFlatStruct(raw any, path string) (Flat, error) {
	fields, err := parseFlatFields(raw, path+".fields")
	if err != nil {
		return Flat{}, err
	}
	return Flat{Kind: FlatStruct, StructFields: fields}, nil
}

func parseFlatFields(raw any, path string) (FlatFields, error) {
	arr, ok := raw.([]any)
	if !ok {
		return FlatFields{}, newErr(KindParse, "fields at %s must be an array", path)
	}
	if len(arr) == 0 {
		return FlatFields{Kind: FieldsNone}, nil
	}
	// Decide named vs. unnamed by inspecting the first element.
	if first, ok := arr[0].(map[string]any); ok {
		if _, hasName := first["name"]; hasName {
			named := make([]FlatNamedField, 0, len(arr))
			for i, el := range arr {
				fieldPath := fmt.Sprintf("%s[%d]", path, i)
				obj, ok := el.(map[string]any)
				if !ok {
					return FlatFields{}, newErr(KindParse, "named field at %s must be an object", fieldPath)
				}
				name, _ := obj["name"].(string)
				content, err := parseFieldBag(obj, fieldPath)
				if err != nil {
					return FlatFields{}, err
				}
				named = append(named, FlatNamedField{Name: name, Docs: docsOf(obj), Content: content})
			}
			return FlatFields{Kind: FieldsNamed, Named: named}, nil
		}
	}
	unnamed := make([]FlatUnnamedField, 0, len(arr))
	for i, el := range arr {
		fieldPath := fmt.Sprintf("%s[%d]", path, i)
		var content Flat
		var err error
		var docs []string
		if obj, ok := el.(map[string]any); ok && (obj["type"] != nil || hasAnyKey(obj, recognizedObjectKeys)) {
			content, err = parseFieldBag(obj, fieldPath)
			docs = docsOf(obj)
		} else {
			content, err = ParseFlatType(el, fieldPath)
		}
		if err != nil {
			return FlatFields{}, err
		}
		unnamed = append(unnamed, FlatUnnamedField{Docs: docs, Content: content})
	}
	return FlatFields{Kind: FieldsUnnamed, Unnamed: unnamed}, nil
}

// parseFieldBag dispatches a field-bag object {name?, docs?, type|option|
// vec|defined|generic|...} on its payload key.
func parseFieldBag(obj map[string]any, path string) (Flat, error) {
	return ParseFlatType(obj, path)
}

func parseFlatEnum(key string, raw any, path string) (Flat, error) {
	prefix, ok := prefixBySuffix(key[len("variants"):], PrefixU8)
	if !ok {
		return Flat{}, newErr(KindParse, "unrecognized variants prefix suffix on key %q at %s", key, path)
	}
	arr, ok := raw.([]any)
	if !ok {
		return Flat{}, newErr(KindParse, "variants at %s must be an array", path)
	}
	variants := make([]FlatEnumVariant, 0, len(arr))
	for i, el := range arr {
		variantPath := fmt.Sprintf("%s[%d]", path, i)
		variant, err := parseEnumVariant(el, int64(i), variantPath)
		if err != nil {
			return Flat{}, err
		}
		variants = append(variants, variant)
	}
	return Flat{Kind: FlatEnum, EnumPrefix: prefix, EnumVariants: variants}, nil
}

func parseEnumVariant(el any, defaultCode int64, path string) (FlatEnumVariant, error) {
	switch v := el.(type) {
	case string:
		return FlatEnumVariant{Name: v, Code: defaultCode, Fields: FlatFields{Kind: FieldsNone}}, nil
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			return FlatEnumVariant{}, newErr(KindParse, "enum variant at %s missing name", path)
		}
		code := defaultCode
		if c, ok := v["code"]; ok {
			if n, ok := asInt(c); ok {
				code = int64(n)
			}
		}
		var fields FlatFields
		var err error
		if f, ok := v["fields"]; ok {
			fields, err = parseFlatFields(f, path+".fields")
			if err != nil {
				return FlatEnumVariant{}, err
			}
		} else {
			fields = FlatFields{Kind: FieldsNone}
		}
		return FlatEnumVariant{Name: name, Code: code, Docs: docsOf(v), Fields: fields}, nil
	default:
		return FlatEnumVariant{}, newErr(KindParse, "enum variant at %s must be a string or object", path)
	}
}

// --- small JSON helpers shared across the parser ---

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func docsOf(obj map[string]any) []string {
	raw, ok := obj["docs"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, d := range raw {
		if s, ok := d.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func hasAnyKey(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func keysOf(obj map[string]any) []string {
	out := make([]string, 0, len(obj))
	for k := range obj {
		out = append(out, k)
	}
	return out
}
