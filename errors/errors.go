package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the binding the error occurred
type Phase string

const (
	PhaseOpen     Phase = "open"     // library loading and engine init
	PhaseDispatch Phase = "dispatch" // command and circuit submission
	PhaseCallback Phase = "callback" // engine-to-host callbacks
	PhaseQuery    Phase = "query"    // plot and vector lookup
	PhaseAccess   Phase = "access"   // indexed reads on vector data
)

// Kind categorizes the error
type Kind string

const (
	KindLibraryNotFound Kind = "library_not_found"
	KindSymbolMissing   Kind = "symbol_missing"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindInvalidLine     Kind = "invalid_line"
	KindFileNotFound    Kind = "file_not_found"
	KindEngineRejected  Kind = "engine_rejected"
	KindOutOfRange      Kind = "out_of_range"
	KindDetached        Kind = "detached"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnsupported     Kind = "unsupported"
	KindInternal        Kind = "internal"
)

// Error is the structured error type used throughout the binding
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// HasKind reports whether err is an *Error of the given kind, in any phase
func HasKind(err error, kind Kind) bool {
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

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the subject path, e.g. a plot and vector name
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LibraryNotFound creates an error for a shared library that could not be loaded
func LibraryNotFound(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseOpen,
		Kind:   KindLibraryNotFound,
		Detail: fmt.Sprintf("shared library %q not loadable", path),
		Value:  path,
		Cause:  cause,
	}
}

// SymbolMissing creates an error for a required symbol absent from the library
func SymbolMissing(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseOpen,
		Kind:   KindSymbolMissing,
		Detail: fmt.Sprintf("symbol %q not exported", name),
		Value:  name,
		Cause:  cause,
	}
}

// InvalidEncoding creates an error for text that cannot cross the native boundary
func InvalidEncoding(phase Phase, what string, data string) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEncoding,
		Detail: fmt.Sprintf("%s is not NUL-free UTF-8: %q", what, preview),
		Value:  data,
	}
}

// InvalidLine creates an error for a malformed circuit description line
func InvalidLine(index int, detail string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindInvalidLine,
		Detail: fmt.Sprintf("circuit line %d: %s", index, detail),
		Value:  index,
	}
}

// FileNotFound creates an error for a netlist path that does not name a regular file
func FileNotFound(path string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindFileNotFound,
		Detail: fmt.Sprintf("netlist file %q not found", path),
		Value:  path,
	}
}

// EngineRejected creates an error for a nonzero engine return status.
// lastLine carries the most recent stderr line seen before the failure,
// or "" when none was captured.
func EngineRejected(op string, status int, lastLine string) *Error {
	detail := fmt.Sprintf("%s rejected with status %d", op, status)
	if lastLine != "" {
		detail += ": " + lastLine
	}
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindEngineRejected,
		Detail: detail,
		Value:  status,
	}
}

// OutOfRange creates an out of range error for indexed vector access
func OutOfRange(path []string, index, length int) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// Detached creates an error for an operation attempted after the engine was released
func Detached(op string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindDetached,
		Detail: fmt.Sprintf("%s on detached engine", op),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Conflict creates an error for a second attachment to the single-instance engine
func Conflict(detail string) *Error {
	return &Error{
		Phase:  PhaseOpen,
		Kind:   KindConflict,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Internal creates an error for a violated invariant inside the binding
func Internal(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
