// Package symbol describes native function signatures.
//
// A Shape names a function and lists its parameter and result descriptors.
// Compile turns it into a libffi call interface, which the dylib package
// prepares once per resolved symbol and reuses for every call.
//
//	shape, err := symbol.Parse(map[string]any{
//	    "name":       "atoi",
//	    "parameters": []any{"string"},
//	    "result":     "int",
//	})
//	fmt.Println(shape) // atoi(string) -> i32
package symbol
