package idl

import "fmt"

// hydrator carries the mutable cycle-detection stack across a single
// top-level Hydrate call. Nothing here survives past that call; a Program
// never keeps a hydrator around. Cycles in defined-name references are
// rejected outright rather than merely detected lazily.
type hydrator struct {
	typedefs  TypedefTable
	hydrating map[string]bool
}

// Hydrate turns a flat type into a full type: it looks up
// typedefs, substitutes generic symbols, folds Array lengths to integers,
// and (for repr-C typedefs) computes field offsets and alignment padding.
func Hydrate(flat *Flat, generics map[string]*Full, typedefs TypedefTable) (*Full, error) {
	h := &hydrator{typedefs: typedefs, hydrating: map[string]bool{}}
	return h.hydrate(flat, generics)
}

func (h *hydrator) hydrate(flat *Flat, generics map[string]*Full) (*Full, error) {
	switch flat.Kind {
	case FlatDefined:
		return h.hydrateDefined(flat, generics)
	case FlatGeneric:
		full, ok := generics[flat.GenericSymbol]
		if !ok {
			return nil, newErr(KindHydration, "undefined generic %q", flat.GenericSymbol)
		}
		return full, nil
	case FlatOption:
		content, err := h.hydrate(flat.OptionContent, generics)
		if err != nil {
			return nil, wrap(err, KindHydration, "option content")
		}
		return &Full{Kind: FullOption, OptionPrefix: flat.OptionPrefix, OptionContent: content}, nil
	case FlatVec:
		item, err := h.hydrate(flat.VecItem, generics)
		if err != nil {
			return nil, wrap(err, KindHydration, "vec item")
		}
		return &Full{Kind: FullVec, VecPrefix: flat.VecPrefix, VecItem: item}, nil
	case FlatArray:
		item, err := h.hydrate(flat.ArrayItem, generics)
		if err != nil {
			return nil, wrap(err, KindHydration, "array item")
		}
		lengthFull, err := h.hydrate(flat.ArrayLength, generics)
		if err != nil {
			return nil, wrap(err, KindHydration, "array length")
		}
		length, ok := lengthFull.AsConstLiteral()
		if !ok {
			return nil, newErr(KindHydration, "array length must resolve to a const literal").withCrumb("array length")
		}
		return &Full{Kind: FullArray, ArrayItem: item, ArrayLength: int(length)}, nil
	case FlatStruct:
		fields, err := h.hydrateFields(flat.StructFields, generics)
		if err != nil {
			return nil, wrap(err, KindHydration, "struct fields")
		}
		full := &Full{Kind: FullStruct, StructFields: fields}
		applyReprLayout(full, ReprNone)
		return full, nil
	case FlatEnum:
		variants := make([]FullEnumVariant, 0, len(flat.EnumVariants))
		for _, v := range flat.EnumVariants {
			fields, err := h.hydrateFields(v.Fields, generics)
			if err != nil {
				return nil, wrap(err, KindHydration, fmt.Sprintf("enum variant %q", v.Name))
			}
			variants = append(variants, FullEnumVariant{Name: v.Name, Code: v.Code, Fields: fields})
		}
		return &Full{Kind: FullEnum, EnumPrefix: flat.EnumPrefix, EnumVariants: variants}, nil
	case FlatPadded:
		content, err := h.hydrate(flat.PaddedContent, generics)
		if err != nil {
			return nil, wrap(err, KindHydration, "padded content")
		}
		return &Full{Kind: FullPadded, PaddedSize: flat.PaddedSize, PaddedContent: content}, nil
	case FlatConst:
		return &Full{Kind: FullConst, ConstLiteral: flat.ConstLiteral}, nil
	case FlatPrimitive:
		return &Full{Kind: FullPrimitive, Primitive: flat.Primitive}, nil
	default:
		return nil, newErr(KindHydration, "unknown flat type kind %d", flat.Kind)
	}
}

func (h *hydrator) hydrateDefined(flat *Flat, generics map[string]*Full) (*Full, error) {
	name := flat.DefinedName
	if h.hydrating[name] {
		return nil, newErr(KindHydration, "cyclic type definition: %q", name)
	}
	typedef, err := h.typedefs.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(flat.DefinedGenerics) != len(typedef.Generics) {
		return nil, newErr(KindHydration, "type %q expects %d generic parameter(s), got %d",
			name, len(typedef.Generics), len(flat.DefinedGenerics))
	}
	argsFull := make([]*Full, len(flat.DefinedGenerics))
	for i := range flat.DefinedGenerics {
		argFull, err := h.hydrate(&flat.DefinedGenerics[i], generics)
		if err != nil {
			return nil, wrap(err, KindHydration, fmt.Sprintf("generic argument #%d of %q", i, name))
		}
		argsFull[i] = argFull
	}
	innerGenerics := make(map[string]*Full, len(typedef.Generics))
	for i, paramName := range typedef.Generics {
		innerGenerics[paramName] = argsFull[i]
	}
	h.hydrating[name] = true
	body, err := h.hydrate(&typedef.Content, innerGenerics)
	delete(h.hydrating, name)
	if err != nil {
		return nil, wrap(err, KindHydration, fmt.Sprintf("type %q", name))
	}
	applyReprLayout(body, typedef.Repr)
	return &Full{Kind: FullTypedef, TypedefName: name, TypedefRepr: typedef.Repr, TypedefContent: body}, nil
}

func (h *hydrator) hydrateFields(fields FlatFields, generics map[string]*Full) (FullFields, error) {
	switch fields.Kind {
	case FieldsNone:
		return FullFields{Kind: FullFieldsNone}, nil
	case FieldsNamed:
		out := make([]FullNamedField, 0, len(fields.Named))
		for _, f := range fields.Named {
			content, err := h.hydrate(&f.Content, generics)
			if err != nil {
				return FullFields{}, wrap(err, KindHydration, fmt.Sprintf("field %q", f.Name))
			}
			out = append(out, FullNamedField{Name: f.Name, Content: *content})
		}
		return FullFields{Kind: FullFieldsNamed, Named: out}, nil
	case FieldsUnnamed:
		out := make([]FullUnnamedField, 0, len(fields.Unnamed))
		for i := range fields.Unnamed {
			content, err := h.hydrate(&fields.Unnamed[i].Content, generics)
			if err != nil {
				return FullFields{}, wrap(err, KindHydration, fmt.Sprintf("field #%d", i))
			}
			out = append(out, FullUnnamedField{Content: *content})
		}
		return FullFields{Kind: FullFieldsUnnamed, Unnamed: out}, nil
	default:
		return FullFields{}, newErr(KindHydration, "unknown fields kind %d", fields.Kind)
	}
}

// applyReprLayout post-processes a struct (or enum discriminant width) in
// place once its body has been hydrated: for repr=c it
// inserts alignment padding between fields and trailing padding to the
// struct's own alignment (the largest alignment among its fields); for an
// enum with repr=c the discriminant prefix becomes u32 (repr=rust, the
// default, keeps u8 unless the IDL overrides it explicitly — that
// override already lives in EnumPrefix from parsing, so this function
// only forces the repr=c case).
func applyReprLayout(full *Full, repr Repr) {
	switch full.Kind {
	case FullStruct:
		if repr != ReprC {
			// Still compute Align/Offset with zero padding so Size()
			// and PDA seed serialization see consistent offsets.
			layoutStruct(full, false)
			return
		}
		layoutStruct(full, true)
	case FullEnum:
		if repr == ReprC {
			full.EnumPrefix = PrefixU32
		}
	}
}

func layoutStruct(full *Full, withPad bool) {
	offset := 0
	maxAlign := 1
	alignFieldSize := func(content *Full) (size, align int) {
		size, _ = content.Size()
		align = fieldAlignment(content)
		return
	}
	applyGap := func(align int) int {
		if !withPad || align <= 1 {
			return 0
		}
		rem := offset % align
		if rem == 0 {
			return 0
		}
		return align - rem
	}
	switch full.StructFields.Kind {
	case FullFieldsNamed:
		for i := range full.StructFields.Named {
			field := &full.StructFields.Named[i]
			size, align := alignFieldSize(&field.Content)
			if align > maxAlign {
				maxAlign = align
			}
			gap := applyGap(align)
			field.PreGap = gap
			offset += gap
			field.Offset = offset
			offset += size
		}
	case FullFieldsUnnamed:
		for i := range full.StructFields.Unnamed {
			field := &full.StructFields.Unnamed[i]
			size, align := alignFieldSize(&field.Content)
			if align > maxAlign {
				maxAlign = align
			}
			gap := applyGap(align)
			field.PreGap = gap
			offset += gap
			field.Offset = offset
			offset += size
		}
	}
	full.Align = maxAlign
	if withPad && maxAlign > 1 && offset%maxAlign != 0 {
		full.TrailingPad = maxAlign - offset%maxAlign
	}
}

// fieldAlignment computes the repr-C alignment of a hydrated node: for
// primitives it is Primitive.Alignment(); for a nested repr-C struct it is
// that struct's own computed Align; arrays inherit their item's alignment;
// everything else defaults to 1 (no further alignment requirement is
// imposed).
func fieldAlignment(full *Full) int {
	switch full.Kind {
	case FullPrimitive:
		return full.Primitive.Alignment()
	case FullTypedef:
		return fieldAlignment(full.TypedefContent)
	case FullStruct:
		if full.Align > 0 {
			return full.Align
		}
		return 1
	case FullArray:
		return fieldAlignment(full.ArrayItem)
	default:
		return 1
	}
}
