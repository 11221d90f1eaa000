// Package dylib loads shared libraries and calls their functions with
// dynamic values.
//
// # Loading
//
// Load opens a library and binds a list of symbol shapes. Each symbol is
// resolved and its call interface prepared once, up front:
//
//	shapes := []symbol.Shape{
//	    {Name: "strlen", Params: []types.Type{types.String}, Result: types.UInt64},
//	    {Name: "atoi", Params: []types.Type{types.String}, Result: types.Int32},
//	}
//	lib, err := dylib.Load("libc.so.6", shapes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
// Loading is all-or-nothing. A missing symbol fails the whole load and
// leaves nothing open.
//
// # Calling
//
//	n, err := lib.Invoke("strlen", value.String("hello"))
//	fmt.Println(n) // 5
//
// Each argument must fit its declared parameter:
//
//	null     string, pointer (passed as NULL)
//	bool     any integer (0 or 1)
//	int/uint any integer (range checked), f32, f64
//	float    f32, f64, integers when integral and in range
//	string   string (copied, NUL-terminated)
//	pointer  pointer, string
//
// Aggregates and callables are never accepted. Struct parameters and
// results can be declared but not passed or returned.
//
// Results decode by the declared type. Integers up to 32 bits become
// value.Int, i64 becomes value.Int and u64 becomes value.Uint, both exact.
// A string result takes ownership of the returned buffer: it is copied and
// freed, and NULL decodes to value.Null.
//
// # Safety
//
// The bridge cannot check that a declared shape matches the real function.
// A wrong shape, a bad pointer or a crash inside the callee faults the
// process, and such faults are not recoverable.
//
// Calls do not serialize against each other. Whether a native function may
// run on several goroutines at once is up to the library. Close waits for
// in-flight calls before unmapping, and later calls fail with errors.ErrClosed.
package dylib
