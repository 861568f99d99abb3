// Package kerr defines the closed set of error kinds raised across the
// engine. Every failure path constructs an *Error rather than a bare
// errors.New, mirroring how the rest of the engine treats "unsupported"
// and "invalid" as first-class outcomes instead of exceptions.
package kerr

import "fmt"

// Kind is the closed enumeration of error kinds the engine can raise.
type Kind string

const (
	OutOfRange     Kind = "out_of_range"
	KindMismatch   Kind = "kind_mismatch"
	ShapeMismatch  Kind = "shape_mismatch"
	SchemaEmpty    Kind = "schema_empty"
	DuplicateName  Kind = "duplicate_name"
	MissingColumn  Kind = "missing_column"
	NotNullable    Kind = "not_nullable"
	NotSupported   Kind = "not_supported"
	NameCollision  Kind = "name_collision"
	Arithmetic     Kind = "arithmetic"
	JitUnsupported Kind = "jit_unsupported"
)

// Error is the single error type produced by the engine. Op names the
// failing operation (e.g. "Column.Get", "Table.Join"); Msg carries the
// human-readable detail; Cause, when present, is wrapped and reachable
// via errors.Unwrap / errors.As.
type Error struct {
	Kind  Kind
	Op    string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap constructs an *Error wrapping cause.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Cause: cause}
}

// Is reports whether err is a *Error of the given kind, unwrapping as
// needed.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ke, ok := err.(*Error); ok {
			e = ke
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
