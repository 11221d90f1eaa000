package dylib

import (
	"unsafe"

	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/internal/native"
	"github.com/wippyai/dynffi/types"
	"github.com/wippyai/dynffi/value"
)

// decode reads a return buffer according to the declared result type.
//
// libffi widens integer results narrower than a register to ffi_arg, so
// those are read through native.ReadArg and truncated to the declared width.
// 64-bit kinds are read in full and stay exact: i64 decodes to value.Int and
// u64 to value.Uint.
//
// A string result is copied and then released with free(3). The callee is
// assumed to have returned a malloc'd buffer.
func decode(sym string, t types.Type, rvalue unsafe.Pointer) (value.Value, error) {
	switch t.Kind() {
	case types.KindVoid:
		return value.Null{}, nil

	case types.KindInt8:
		return value.Int(int8(native.ReadArg(rvalue))), nil
	case types.KindInt16:
		return value.Int(int16(native.ReadArg(rvalue))), nil
	case types.KindInt32:
		return value.Int(int32(native.ReadArg(rvalue))), nil
	case types.KindUInt8:
		return value.Int(uint8(native.ReadArg(rvalue))), nil
	case types.KindUInt16:
		return value.Int(uint16(native.ReadArg(rvalue))), nil
	case types.KindUInt32:
		return value.Int(uint32(native.ReadArg(rvalue))), nil

	case types.KindInt64:
		return value.Int(*(*int64)(rvalue)), nil
	case types.KindUInt64:
		return value.Uint(*(*uint64)(rvalue)), nil

	case types.KindFloat32:
		return value.Float(*(*float32)(rvalue)), nil
	case types.KindFloat64:
		return value.Float(*(*float64)(rvalue)), nil

	case types.KindString:
		p := *(*unsafe.Pointer)(rvalue)
		if p == nil {
			return value.Null{}, nil
		}
		return value.String(native.TakeString(p)), nil

	case types.KindPointer:
		return value.Ptr(*(*unsafe.Pointer)(rvalue)), nil

	default:
		return nil, errors.UnsupportedResultType(sym, t.String())
	}
}
