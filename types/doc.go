// Package types provides the type descriptors of the FFI bridge.
//
// A descriptor is one of the scalar kinds (void, signed and unsigned
// integers of 8 to 64 bits, f32, f64, string, pointer) or a struct of
// nested descriptors. Descriptors are parsed from configuration once and
// are immutable afterwards.
//
// # Tokens
//
// Every scalar has several case-sensitive spellings:
//
//	void
//	int8   i8   "signed char"
//	int16  i16  short
//	int32  i32  int
//	int64  i64  long
//	uint8  u8   char  "unsigned char"
//	uint16 u16  "unsigned short int"
//	uint32 u32  "unsigned int"
//	uint64 u64  "unsigned long"
//	float32 f32 float
//	float64 f64 double
//	string char*
//	pointer void*
//
// String and pointer share the native pointer representation. String
// arguments are copied into NUL-terminated buffers and string results are
// copied out and released; pointers pass through untouched.
//
// # Layout
//
// Layout computes sizes and offsets with the platform's native struct
// packing. The same descriptor lowered through libffi (internal/native)
// yields the same numbers.
package types
