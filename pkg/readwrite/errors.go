package readwrite

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrIO         = errors.New("i/o failure")
	ErrParse      = errors.New("malformed document")
	ErrSchema     = errors.New("schema violation")
	ErrConversion = errors.New("node conversion failed")
	ErrSerialize  = errors.New("value not serializable")
)

// CodecError provides structured error information for codec operations.
type CodecError struct {
	Op     string // Operation that failed (e.g., "read", "write")
	Format string // "csv" or "json"
	Path   string // File path (if applicable)
	Line   int    // 1-based input line (CSV only)
	Field  string // Document key involved
	Kind   error  // One of the Err* kinds
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Format)
	if e.Path != "" {
		msg += " " + e.Path
	}
	switch {
	case e.Line > 0:
		msg += fmt.Sprintf(" (line %d)", e.Line)
	case e.Field != "":
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", msg, e.Kind)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's kind or matches its cause.
func (e *CodecError) Is(target error) bool {
	if target == nil {
		return false
	}
	if e.Kind == target {
		return true
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building CodecErrors.
type ErrorBuilder struct {
	err CodecError
}

// NewError creates a new error builder for the given operation and format.
func NewError(op, format string) *ErrorBuilder {
	return &ErrorBuilder{err: CodecError{Op: op, Format: format}}
}

func (b *ErrorBuilder) Path(path string) *ErrorBuilder {
	b.err.Path = path
	return b
}

func (b *ErrorBuilder) Line(n int) *ErrorBuilder {
	b.err.Line = n
	return b
}

func (b *ErrorBuilder) Field(name string) *ErrorBuilder {
	b.err.Field = name
	return b
}

// Kind sets the error kind.
func (b *ErrorBuilder) Kind(kind error) *ErrorBuilder {
	b.err.Kind = kind
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Causef sets a formatted cause.
func (b *ErrorBuilder) Causef(format string, args ...any) *ErrorBuilder {
	b.err.Cause = fmt.Errorf(format, args...)
	return b
}

// Build returns the constructed CodecError.
func (b *ErrorBuilder) Build() *CodecError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// withPath attaches path to err if it is a CodecError without one.
func withPath(err error, path string) error {
	var ce *CodecError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
	}
	return err
}

// IsSchema returns true if the error is a schema violation.
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsIO returns true if the error is an I/O failure.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}
