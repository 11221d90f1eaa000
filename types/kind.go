package types

type Kind uint8

const (
	KindVoid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindFloat32
	KindFloat64
	KindString
	KindPointer
	KindStruct
)

// kindNames holds the canonical token of each kind.
var kindNames = [...]string{
	KindVoid:    "void",
	KindInt8:    "i8",
	KindInt16:   "i16",
	KindInt32:   "i32",
	KindInt64:   "i64",
	KindUInt8:   "u8",
	KindUInt16:  "u16",
	KindUInt32:  "u32",
	KindUInt64:  "u64",
	KindFloat32: "f32",
	KindFloat64: "f64",
	KindString:  "string",
	KindPointer: "pointer",
	KindStruct:  "struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUInt64
}

func (k Kind) IsSigned() bool {
	return k >= KindInt8 && k <= KindInt64
}

func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsPointerSized reports whether the kind is passed as a native pointer.
func (k Kind) IsPointerSized() bool {
	return k == KindString || k == KindPointer
}

// Bits returns the width of scalar kinds, 0 for void and struct.
func (k Kind) Bits() int {
	switch k {
	case KindInt8, KindUInt8:
		return 8
	case KindInt16, KindUInt16:
		return 16
	case KindInt32, KindUInt32, KindFloat32:
		return 32
	case KindInt64, KindUInt64, KindFloat64:
		return 64
	case KindString, KindPointer:
		return int(ptrSize * 8)
	default:
		return 0
	}
}

// tokens maps every accepted spelling to its kind. Matching is case-sensitive.
var tokens = map[string]Kind{
	"void": KindVoid,

	"int8":        KindInt8,
	"i8":          KindInt8,
	"signed char": KindInt8,

	"int16": KindInt16,
	"i16":   KindInt16,
	"short": KindInt16,

	"int32": KindInt32,
	"i32":   KindInt32,
	"int":   KindInt32,

	"int64": KindInt64,
	"i64":   KindInt64,
	"long":  KindInt64,

	"uint8":         KindUInt8,
	"u8":            KindUInt8,
	"char":          KindUInt8,
	"unsigned char": KindUInt8,

	"uint16":             KindUInt16,
	"u16":                KindUInt16,
	"unsigned short int": KindUInt16,

	"uint32":       KindUInt32,
	"u32":          KindUInt32,
	"unsigned int": KindUInt32,

	"uint64":        KindUInt64,
	"u64":           KindUInt64,
	"unsigned long": KindUInt64,

	"float32": KindFloat32,
	"f32":     KindFloat32,
	"float":   KindFloat32,

	"float64": KindFloat64,
	"f64":     KindFloat64,
	"double":  KindFloat64,

	"string": KindString,
	"char*":  KindString,

	"pointer": KindPointer,
	"void*":   KindPointer,
}

// Tokens returns every recognized spelling with its kind.
func Tokens() map[string]Kind {
	out := make(map[string]Kind, len(tokens))
	for k, v := range tokens {
		out[k] = v
	}
	return out
}
