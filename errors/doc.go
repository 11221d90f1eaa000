// Package errors provides structured error types for the FFI bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the context needed for a diagnostic:
// library path, symbol name, argument index, expected and actual types, and
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMarshal, errors.KindArgumentTypeMismatch).
//		Symbol("strlen").
//		Index(0).
//		Expected("string").
//		Actual("int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ArityMismatch("strlen", 1, 2)
//	err := errors.SymbolNotFound("libc.so.6", "no_such_fn", cause)
//
// Match with the exported sentinels, which ignore the phase:
//
//	if errors.Is(err, ffierrors.ErrArityMismatch) { ... }
//
// Faults raised inside native code (segmentation violations, aborts) are not
// represented here. They terminate the process.
package errors
