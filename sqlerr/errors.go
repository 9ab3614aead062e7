// Package sqlerr defines the error kinds surfaced by easysql.
//
// Every failure carries one of the sentinel kinds below so callers can branch
// with errors.Is: a SafetyError means "confirm intent", a RangeError means
// "fix the input", an ExecutionError means "infrastructure problem".
// Schema, range, type-mismatch, safety, state and cardinality errors are all
// raised before a statement reaches the Execution Adapter.
package sqlerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema reports duplicate names, undeclared columns, missing required
	// values and upserts on tables without a conflict target.
	ErrSchema = errors.New("schema error")

	// ErrRange reports a value outside its column type's range or length.
	ErrRange = errors.New("range error")

	// ErrTypeMismatch reports a value of the wrong kind for its column, or a
	// value count that does not match the targeted columns.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrSafety reports an unconditioned mutation on a locked table.
	ErrSafety = errors.New("safety lock")

	// ErrExecution reports any failure returned by the Execution Adapter.
	ErrExecution = errors.New("execution error")

	// ErrState reports misuse of a single-use builder.
	ErrState = errors.New("invalid builder state")

	// ErrCardinality reports a single-result select that matched several rows.
	ErrCardinality = errors.New("ambiguous single result")
)

// Error is the structured error returned by every easysql package.
type Error struct {
	Kind    error
	Op      string
	Table   string
	Column  string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	switch {
	case e.Table != "" && e.Column != "":
		fmt.Fprintf(&b, " on %s.%s", e.Table, e.Column)
	case e.Table != "":
		fmt.Fprintf(&b, " on %s", e.Table)
	case e.Column != "":
		fmt.Fprintf(&b, " on column %s", e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// WithOp returns a copy of e carrying op, unless an operation is already set.
func (e *Error) WithOp(op string) *Error {
	if e.Op != "" {
		return e
	}
	c := *e
	c.Op = op
	return &c
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Schema creates a SchemaError.
func Schema(format string, args ...any) *Error {
	return newf(ErrSchema, format, args...)
}

// Range creates a RangeError.
func Range(format string, args ...any) *Error {
	return newf(ErrRange, format, args...)
}

// TypeMismatch creates a TypeMismatchError.
func TypeMismatch(format string, args ...any) *Error {
	return newf(ErrTypeMismatch, format, args...)
}

// Safety creates a SafetyError.
func Safety(format string, args ...any) *Error {
	return newf(ErrSafety, format, args...)
}

// State creates a StateError.
func State(format string, args ...any) *Error {
	return newf(ErrState, format, args...)
}

// Cardinality creates a CardinalityError.
func Cardinality(format string, args ...any) *Error {
	return newf(ErrCardinality, format, args...)
}

// Execution wraps an adapter failure.
func Execution(op, table string, cause error) *Error {
	return &Error{Kind: ErrExecution, Op: op, Table: table, Cause: cause}
}

// Annotate fills in the table and column of err when it is an *Error that
// does not carry them yet. Other errors are returned unchanged.
func Annotate(err error, table, column string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	c := *e
	if c.Table == "" {
		c.Table = table
	}
	if c.Column == "" {
		c.Column = column
	}
	return &c
}

// IsSchema reports whether err is or wraps a SchemaError.
func IsSchema(err error) bool { return errors.Is(err, ErrSchema) }

// IsRange reports whether err is or wraps a RangeError.
func IsRange(err error) bool { return errors.Is(err, ErrRange) }

// IsTypeMismatch reports whether err is or wraps a TypeMismatchError.
func IsTypeMismatch(err error) bool { return errors.Is(err, ErrTypeMismatch) }

// IsSafety reports whether err is or wraps a SafetyError.
func IsSafety(err error) bool { return errors.Is(err, ErrSafety) }

// IsExecution reports whether err is or wraps an ExecutionError.
func IsExecution(err error) bool { return errors.Is(err, ErrExecution) }

// IsState reports whether err is or wraps a StateError.
func IsState(err error) bool { return errors.Is(err, ErrState) }

// IsCardinality reports whether err is or wraps a CardinalityError.
func IsCardinality(err error) bool { return errors.Is(err, ErrCardinality) }
