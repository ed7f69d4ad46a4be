package model

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind is the closed set of failure categories the engine produces.
// Callers branch on the kind instead of inspecting concrete error types.
type ErrorKind int

const (
	// KindValidation covers invalid ids, language tags, unsupported file
	// types and missing required parameters. Raised before any I/O.
	KindValidation ErrorKind = iota
	// KindNotFound is a read of an absent path or reference.
	KindNotFound
	// KindAlreadyExists is an exclusive-create collision.
	KindAlreadyExists
	// KindExternalTool is a non-zero exit from git or podman.
	KindExternalTool
	// KindSchemaViolation is a collection item failing its field definitions.
	KindSchemaViolation
	// KindUpgrade wraps a failed project upgrade step.
	KindUpgrade
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindAlreadyExists:
		return "already exists"
	case KindExternalTool:
		return "external tool"
	case KindSchemaViolation:
		return "schema violation"
	case KindUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Error is the engine's structured error: a kind, the failing operation,
// free-form context for diagnostics and an optional wrapped cause.
type Error struct {
	Kind    ErrorKind
	Op      string
	Context map[string]string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%q", k, e.Context[k])
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error from alternating context key/value pairs.
func NewError(kind ErrorKind, op string, kv ...string) *Error {
	return &Error{Kind: kind, Op: op, Context: contextMap(kv)}
}

// WrapError is NewError with a wrapped cause.
func WrapError(kind ErrorKind, op string, err error, kv ...string) *Error {
	return &Error{Kind: kind, Op: op, Context: contextMap(kv), Err: err}
}

func contextMap(kv []string) map[string]string {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

// IsKind reports whether err or any error it wraps is an *Error of the
// given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func IsNotFound(err error) bool      { return IsKind(err, KindNotFound) }
func IsAlreadyExists(err error) bool { return IsKind(err, KindAlreadyExists) }
func IsValidation(err error) bool    { return IsKind(err, KindValidation) }
