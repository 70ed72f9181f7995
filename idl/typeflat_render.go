package idl

// Dialect selects one of the historical IDL JSON shapes this package can
// parse and re-emit. Only (canonical -> any dialect ->
// canonical) round-trips are guaranteed; dialect-to-dialect round-trips
// are not.
type Dialect int

const (
	// DialectHumanCompact is the canonical, most compact shape: bare
	// strings for primitives/defined names, arrays for vec/array,
	// single-key objects for option/vec/array/fields/variants/generic.
	DialectHumanCompact Dialect = iota
	// DialectAnchor26 is the older anchor IDL shape: {"kind":"struct",
	// fields:[...]}/{"kind":"enum", variants:[...]}, {"defined": name}
	// objects, isSigner/isMut/isOptional account flags.
	DialectAnchor26
	// DialectAnchor30 is the anchor 0.30+ shape: flattened type forms,
	// signer/writable/optional account flags.
	DialectAnchor30
)

// RenderFlatType re-emits a flat type into the JSON value shape for the
// requested dialect. The result is ready to pass to
// encoding/json.Marshal.
func RenderFlatType(flat *Flat, dialect Dialect) any {
	compat := dialect == DialectAnchor26
	switch flat.Kind {
	case FlatDefined:
		return renderDefined(flat, compat)
	case FlatGeneric:
		return map[string]any{"generic": flat.GenericSymbol}
	case FlatOption:
		return renderOption(flat, compat)
	case FlatVec:
		return renderVec(flat, compat)
	case FlatArray:
		return renderArray(flat, compat)
	case FlatStruct:
		return renderStruct(flat, compat)
	case FlatEnum:
		return renderEnum(flat, compat)
	case FlatPadded:
		return map[string]any{"padded": flat.PaddedSize, "type": RenderFlatType(flat.PaddedContent, dialectFor(compat))}
	case FlatConst:
		if compat {
			return map[string]any{"kind": "const", "value": fmtInt(flat.ConstLiteral)}
		}
		return flat.ConstLiteral
	case FlatPrimitive:
		return flat.Primitive.String()
	default:
		return nil
	}
}

func dialectFor(compat bool) Dialect {
	if compat {
		return DialectAnchor26
	}
	return DialectHumanCompact
}

func renderDefined(flat *Flat, compat bool) any {
	if len(flat.DefinedGenerics) > 0 {
		generics := make([]any, 0, len(flat.DefinedGenerics))
		for i := range flat.DefinedGenerics {
			g := RenderFlatType(&flat.DefinedGenerics[i], dialectFor(compat))
			if compat {
				generics = append(generics, map[string]any{"kind": "type", "type": g})
			} else {
				generics = append(generics, g)
			}
		}
		return map[string]any{"defined": map[string]any{"name": flat.DefinedName, "generics": generics}}
	}
	if compat {
		return map[string]any{"defined": map[string]any{"name": flat.DefinedName}}
	}
	return flat.DefinedName
}

func renderOption(flat *Flat, compat bool) any {
	content := RenderFlatType(flat.OptionContent, dialectFor(compat))
	key := "option"
	if flat.OptionPrefix != PrefixU8 {
		key = "option" + widthSuffix(flat.OptionPrefix)
	}
	return map[string]any{key: content}
}

func renderVec(flat *Flat, compat bool) any {
	content := RenderFlatType(flat.VecItem, dialectFor(compat))
	if compat {
		key := "vec"
		if flat.VecPrefix != PrefixU32 {
			key = "vec" + widthSuffix(flat.VecPrefix)
		}
		return map[string]any{key: content}
	}
	if flat.VecPrefix != PrefixU32 {
		return map[string]any{"vec" + widthSuffix(flat.VecPrefix): content}
	}
	return []any{content}
}

func renderArray(flat *Flat, compat bool) any {
	item := RenderFlatType(flat.ArrayItem, dialectFor(compat))
	length := RenderFlatType(flat.ArrayLength, dialectFor(compat))
	if compat {
		return map[string]any{"array": []any{item, length}}
	}
	return []any{item, length}
}

func renderStruct(flat *Flat, compat bool) any {
	fields := renderFields(flat.StructFields, compat)
	if compat {
		return map[string]any{"kind": "struct", "fields": fields}
	}
	return map[string]any{"fields": fields}
}

func renderFields(fields FlatFields, compat bool) any {
	switch fields.Kind {
	case FieldsNamed:
		out := make([]any, 0, len(fields.Named))
		for _, f := range fields.Named {
			out = append(out, map[string]any{
				"name": f.Name,
				"type": RenderFlatType(&f.Content, dialectFor(compat)),
			})
		}
		return out
	case FieldsUnnamed:
		out := make([]any, 0, len(fields.Unnamed))
		for i := range fields.Unnamed {
			t := RenderFlatType(&fields.Unnamed[i].Content, dialectFor(compat))
			if compat {
				out = append(out, map[string]any{"type": t})
			} else {
				out = append(out, t)
			}
		}
		return out
	default:
		return []any{}
	}
}

func renderEnum(flat *Flat, compat bool) any {
	variants := make([]any, 0, len(flat.EnumVariants))
	for _, v := range flat.EnumVariants {
		if v.Fields.IsEmpty() {
			if compat {
				variants = append(variants, map[string]any{"name": v.Name})
			} else {
				variants = append(variants, v.Name)
			}
			continue
		}
		variants = append(variants, map[string]any{
			"name":   v.Name,
			"fields": renderFields(v.Fields, compat),
		})
	}
	if compat {
		return map[string]any{"kind": "enum", "variants": variants}
	}
	key := "variants"
	if flat.EnumPrefix != PrefixU8 {
		key = "variants" + widthSuffix(flat.EnumPrefix)
	}
	return map[string]any{key: variants}
}

func widthSuffix(p Prefix) string {
	switch p {
	case PrefixU8:
		return "8"
	case PrefixU16:
		return "16"
	case PrefixU32:
		return "32"
	case PrefixU64:
		return "64"
	default:
		return ""
	}
}

func fmtInt(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
