// Package native wraps libdl and libffi through cgo.
//
// It opens and resolves shared libraries, lowers type descriptors into
// libffi ffi_type values, prepares call interfaces (ffi_cif) and performs
// the raw call. Every buffer handed to libffi lives on the C heap: argument
// slots and the argument vector come from an Arena, call interfaces and
// struct types are freed explicitly.
//
// Builds without cgo, or on platforms other than Linux, macOS and FreeBSD,
// compile a stub whose entry points return ErrUnavailable.
//
// Nothing here can recover from a fault inside the called function. A
// segmentation violation or abort in native code terminates the process.
//
// This package is internal to the bridge.
package native
