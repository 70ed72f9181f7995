package idl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a codec or resolver failure. The core never returns
// bare strings: every failure path constructs an *Error with a Kind so
// callers can errors.As/errors.Is against a stable taxonomy instead of
// matching on message text.
type ErrorKind int

const (
	// KindParse marks malformed IDL JSON.
	KindParse ErrorKind = iota
	// KindHydration marks undefined names, generic-arity mismatches,
	// non-const length expressions, and typedef cycles.
	KindHydration
	// KindTypeMismatch marks a JSON value whose shape does not match the
	// full type driving serialization.
	KindTypeMismatch
	// KindRange marks numeric overflow, oversized prefixed vectors,
	// out-of-range enum codes, and malformed booleans.
	KindRange
	// KindBuffer marks truncated or (in strict mode) over-long binary
	// input on decode.
	KindBuffer
	// KindResolver marks a required instruction account that could not
	// be derived after the PDA fixpoint.
	KindResolver
	// KindIntegrity marks data whose discriminator does not match the
	// account or instruction schema it is decoded against. Guessing has
	// no strict mode: a blob fingerprint mismatch in GuessAccount only
	// rules that schema out and returns no error.
	KindIntegrity
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindHydration:
		return "hydration"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindRange:
		return "range"
	case KindBuffer:
		return "buffer"
	case KindResolver:
		return "resolver"
	case KindIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every exported function in
// this package. Context is a stack of human-readable breadcrumbs built
// innermost-first (e.g. ["arg path \"params.index\"", "account
// \"campaign_collateral\"", "instruction \"pledge_create\""]) and rendered
// outermost-first by Error().
type Error struct {
	Kind    ErrorKind
	Message string
	Context []string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.Context) - 1; i >= 0; i-- {
		b.WriteString(" → ")
		b.WriteString(e.Context[i])
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is(err, ErrKindSentinel-style) comparisons by kind
// when both sides are *Error.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrap adds a breadcrumb to err without changing its kind. If err is not
// already an *Error it is promoted to one at kind.
func wrap(err error, kind ErrorKind, crumb string) *Error {
	var e *Error
	if errors.As(err, &e) {
		e.Context = append(e.Context, crumb)
		return e
	}
	return &Error{Kind: kind, Message: "wrapped error", Context: []string{crumb}, Cause: err}
}

// withCrumb appends a breadcrumb to a freshly constructed *Error, used at
// the call site that detects the failure so the immediate context is
// always present even for leaf errors.
func (e *Error) withCrumb(crumb string) *Error {
	e.Context = append(e.Context, crumb)
	return e
}
