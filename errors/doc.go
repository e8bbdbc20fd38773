// Package errors provides structured error types for the binding.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type includes rich context: the subject
// path, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseQuery, errors.KindNotFound).
//		Path("tran1", "v(n2)").
//		Detail("vector not present in plot").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Detached("command")
//	err := errors.OutOfRange([]string{"tran1", "time"}, 10, 5)
//
// All errors implement the standard error interface and support
// errors.Is/As; two Errors match when Phase and Kind agree.
package errors
