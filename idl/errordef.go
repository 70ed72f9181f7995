package idl

// ErrorDef is a program-declared custom error: name, docs, a
// numeric code, and an optional human-readable message.
type ErrorDef struct {
	Name    string
	Docs    []string
	Code    int64
	Message string
}
