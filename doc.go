// Package dynffi calls functions in shared libraries without compile-time
// bindings.
//
// A symbol's signature is described as data, either in Go or in a YAML/JSON
// manifest. The library is opened with the platform loader, each symbol is
// resolved and a libffi call interface is prepared once. Calls then marshal
// dynamic values into native argument slots, call through libffi and decode
// the result by its declared type.
//
// # Architecture Overview
//
//	dynffi/              Root package with manifest-driven Open
//	├── types/           Type descriptors, tokens and native layout
//	├── symbol/          Symbol shapes and call interface compilation
//	├── dylib/           Library handles, resolved symbols and Invoke
//	├── value/           Dynamic values passed to and returned from calls
//	├── config/          Manifest decoding, validation and JSON schema
//	├── errors/          Structured error types for debugging
//	├── internal/native/ cgo layer over libdl and libffi
//	└── cmd/ffi-call/    Command line and TUI front end
//
// # Quick Start
//
//	lib, err := dynffi.Open("libc.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	n, err := lib.Invoke("strlen", value.String("hello"))
//	fmt.Println(n) // 5
//
// # Type Tokens
//
// Descriptors are written as tokens (i32, "unsigned char", char*, ...) or
// as ordered lists of fields for structs. See package types for the full
// table.
//
// # Thread Safety
//
// Library and Symbol are safe for concurrent use. The bridge does not
// serialize native calls; whether a C function tolerates concurrent calls
// is up to that function. Close waits for calls in flight.
//
// # Memory Model
//
// Arguments are copied to C memory for the duration of one call. Returned
// strings are copied and the native buffer freed. Returned pointers are
// opaque and never freed by the bridge.
//
// A fault in native code terminates the process; it cannot be recovered.
package dynffi
