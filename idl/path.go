package idl

import (
	"strconv"
	"strings"
)

// PathPartKind discriminates the three shapes a single path segment can
// take.
type PathPartKind int

const (
	// PathKey is a struct field name or enum variant name.
	PathKey PathPartKind = iota
	// PathIndex is a numeric index into an array or unnamed tuple.
	PathIndex
	// PathEmpty means "append / the sequence itself" — the trivial
	// path that yields the value (or, for an Account blob, the peer's
	// own address) unchanged.
	PathEmpty
)

// PathPart is one segment of a dotted Path.
type PathPart struct {
	Kind  PathPartKind
	Key   string
	Index int64
}

// Path is a dotted sequence of parts, e.g. "params.index" or "" (trivial).
type Path []PathPart

// ParsePath splits a dotted path expression into parts. An empty string
// yields a single PathEmpty part; a numeric segment becomes PathIndex.
func ParsePath(expr string) Path {
	if expr == "" {
		return Path{{Kind: PathEmpty}}
	}
	segments := strings.Split(expr, ".")
	out := make(Path, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			out = append(out, PathPart{Kind: PathEmpty})
			continue
		}
		if n, err := strconv.ParseInt(seg, 10, 64); err == nil {
			out = append(out, PathPart{Kind: PathIndex, Index: n})
			continue
		}
		out = append(out, PathPart{Kind: PathKey, Key: seg})
	}
	return out
}

// splitFirst returns the first part and the remaining path, or ok=false
// if the path is empty (the zero-length case, distinct from a single
// PathEmpty part).
func (p Path) splitFirst() (PathPart, Path, bool) {
	if len(p) == 0 {
		return PathPart{}, nil, false
	}
	return p[0], p[1:], true
}

// Get navigates value (a JSON-shaped Go value) by path and returns the
// sub-value it names.
func Get(value any, path Path) (any, error) {
	current, next, ok := path.splitFirst()
	if !ok {
		return value, nil
	}
	switch current.Kind {
	case PathEmpty:
		return Get(value, next)
	case PathKey:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, newErr(KindTypeMismatch, "expected an object to index key %q, got %T", current.Key, value)
		}
		sub, present := obj[current.Key]
		if !present {
			return nil, newErr(KindTypeMismatch, "missing key %q", current.Key)
		}
		return Get(sub, next)
	case PathIndex:
		arr, ok := value.([]any)
		if !ok {
			return nil, newErr(KindTypeMismatch, "expected an array to index #%d, got %T", current.Index, value)
		}
		if current.Index < 0 || int(current.Index) >= len(arr) {
			return nil, newErr(KindTypeMismatch, "index %d out of bounds (length %d)", current.Index, len(arr))
		}
		return Get(arr[current.Index], next)
	default:
		return nil, newErr(KindTypeMismatch, "unknown path part kind %d", current.Kind)
	}
}

// Set returns a copy of node with the value at path replaced by leaf
// (copy-on-write; node is not mutated).
func Set(node any, path Path, leaf any) (any, error) {
	current, next, ok := path.splitFirst()
	if !ok {
		return leaf, nil
	}
	switch current.Kind {
	case PathEmpty:
		return Set(node, next, leaf)
	case PathKey:
		obj, _ := node.(map[string]any)
		out := make(map[string]any, len(obj)+1)
		for k, v := range obj {
			out[k] = v
		}
		child, err := Set(out[current.Key], next, leaf)
		if err != nil {
			return nil, err
		}
		out[current.Key] = child
		return out, nil
	case PathIndex:
		arr, _ := node.([]any)
		out := make([]any, len(arr))
		copy(out, arr)
		for len(out) <= int(current.Index) {
			out = append(out, nil)
		}
		child, err := Set(out[current.Index], next, leaf)
		if err != nil {
			return nil, err
		}
		out[current.Index] = child
		return out, nil
	default:
		return nil, newErr(KindTypeMismatch, "unknown path part kind %d", current.Kind)
	}
}

// GetType descends a flat type by path, collapsing Defined/Generic
// references via the typedef table as it goes. It is used
// to find the flat type that a PDA seed blob's path should be serialized
// with.
func GetType(flat *Flat, path Path, generics map[string]*Flat, typedefs TypedefTable) (*Flat, error) {
	current, next, ok := path.splitFirst()
	if !ok {
		return flat, nil
	}
	switch flat.Kind {
	case FlatDefined:
		typedef, err := typedefs.Lookup(flat.DefinedName)
		if err != nil {
			return nil, err
		}
		if len(flat.DefinedGenerics) < len(typedef.Generics) {
			return nil, newErr(KindTypeMismatch, "type %q expects %d generic(s), got %d",
				flat.DefinedName, len(typedef.Generics), len(flat.DefinedGenerics))
		}
		inner := make(map[string]*Flat, len(typedef.Generics))
		for i, name := range typedef.Generics {
			inner[name] = &flat.DefinedGenerics[i]
		}
		return GetType(&typedef.Content, path, inner, typedefs)
	case FlatGeneric:
		g, ok := generics[flat.GenericSymbol]
		if !ok {
			return nil, newErr(KindTypeMismatch, "undefined generic %q", flat.GenericSymbol)
		}
		return GetType(g, path, generics, typedefs)
	case FlatOption:
		return GetType(flat.OptionContent, path, generics, typedefs)
	case FlatVec:
		if current.Kind == PathKey {
			return nil, newErr(KindTypeMismatch, "invalid vec index %q", current.Key)
		}
		return GetType(flat.VecItem, next, generics, typedefs)
	case FlatArray:
		if current.Kind == PathKey {
			return nil, newErr(KindTypeMismatch, "invalid array index %q", current.Key)
		}
		return GetType(flat.ArrayItem, next, generics, typedefs)
	case FlatStruct:
		return getTypeFields(&flat.StructFields, path, generics, typedefs)
	case FlatEnum:
		switch current.Kind {
		case PathEmpty:
			return nil, newErr(KindTypeMismatch, "enum variant selector cannot be empty")
		case PathKey:
			for i := range flat.EnumVariants {
				if flat.EnumVariants[i].Name == current.Key {
					return getTypeFields(&flat.EnumVariants[i].Fields, next, generics, typedefs)
				}
			}
			return nil, newErr(KindTypeMismatch, "unknown enum variant %q", current.Key)
		case PathIndex:
			for i := range flat.EnumVariants {
				if flat.EnumVariants[i].Code == current.Index {
					return getTypeFields(&flat.EnumVariants[i].Fields, next, generics, typedefs)
				}
			}
			return nil, newErr(KindTypeMismatch, "unknown enum variant code %d", current.Index)
		}
		return nil, newErr(KindTypeMismatch, "unknown path part kind")
	case FlatPadded:
		return GetType(flat.PaddedContent, path, generics, typedefs)
	case FlatConst, FlatPrimitive:
		return nil, newErr(KindTypeMismatch, "type has no sub-path")
	default:
		return nil, newErr(KindTypeMismatch, "unknown flat kind %d", flat.Kind)
	}
}

func getTypeFields(fields *FlatFields, path Path, generics map[string]*Flat, typedefs TypedefTable) (*Flat, error) {
	current, next, ok := path.splitFirst()
	if !ok {
		return &Flat{Kind: FlatStruct, StructFields: *fields}, nil
	}
	switch fields.Kind {
	case FieldsNone:
		return nil, newErr(KindTypeMismatch, "empty fields have no sub-path")
	case FieldsNamed:
		if current.Kind != PathKey {
			return nil, newErr(KindTypeMismatch, "expected a named field, got index %d", current.Index)
		}
		for i := range fields.Named {
			if fields.Named[i].Name == current.Key {
				return GetType(&fields.Named[i].Content, next, generics, typedefs)
			}
		}
		return nil, newErr(KindTypeMismatch, "unknown field %q", current.Key)
	case FieldsUnnamed:
		if current.Kind != PathIndex {
			return nil, newErr(KindTypeMismatch, "expected a field index, got %q", current.Key)
		}
		idx := int(current.Index)
		if idx < 0 || idx >= len(fields.Unnamed) {
			return nil, newErr(KindTypeMismatch, "field index %d out of bounds (length %d)", idx, len(fields.Unnamed))
		}
		return GetType(&fields.Unnamed[idx].Content, next, generics, typedefs)
	default:
		return nil, newErr(KindTypeMismatch, "unknown fields kind %d", fields.Kind)
	}
}
