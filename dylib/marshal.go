package dylib

import (
	"math"
	"unsafe"

	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/internal/native"
	"github.com/wippyai/dynffi/symbol"
	"github.com/wippyai/dynffi/types"
	"github.com/wippyai/dynffi/value"
)

// slotSize covers every scalar the bridge passes: 64-bit integers, doubles
// and pointers.
const slotSize = 8

// marshal converts args into C-heap slots and returns the argument vector
// for ffi_call. Every allocation belongs to a.
func marshal(a *native.Arena, shape symbol.Shape, args []value.Value) (unsafe.Pointer, error) {
	if len(args) == 0 {
		return nil, nil
	}

	// Reject unsupported values before allocating anything.
	for i, v := range args {
		switch v.(type) {
		case value.Aggregate, value.Callable:
			return nil, errors.UnsupportedArgumentType(shape.Name, i, v.Kind().String())
		}
	}

	argv := a.Pointers(len(args))
	if argv == nil {
		return nil, errors.AllocationFailed(errors.PhaseMarshal, uintptr(len(args))*unsafe.Sizeof(uintptr(0)))
	}
	for i, v := range args {
		slot, err := marshalArg(a, shape.Name, i, shape.Params[i], v)
		if err != nil {
			return nil, err
		}
		argv[i] = slot
	}
	return unsafe.Pointer(&argv[0]), nil
}

func marshalArg(a *native.Arena, sym string, i int, t types.Type, v value.Value) (unsafe.Pointer, error) {
	if v == nil {
		v = value.Null{}
	}
	k := t.Kind()

	slot := a.Alloc(slotSize)
	if slot == nil {
		return nil, errors.AllocationFailed(errors.PhaseMarshal, slotSize)
	}

	switch {
	case k.IsInteger():
		bits, err := toInteger(sym, i, k, v)
		if err != nil {
			return nil, err
		}
		putInteger(slot, k, bits)

	case k.IsFloat():
		f, err := toFloat(sym, i, k, v)
		if err != nil {
			return nil, err
		}
		if k == types.KindFloat32 {
			*(*float32)(slot) = float32(f)
		} else {
			*(*float64)(slot) = f
		}

	case k == types.KindString:
		p, err := toCString(a, sym, i, v)
		if err != nil {
			return nil, err
		}
		*(*unsafe.Pointer)(slot) = p

	case k == types.KindPointer:
		switch x := v.(type) {
		case value.Null:
			*(*unsafe.Pointer)(slot) = nil
		case value.Pointer:
			*(*unsafe.Pointer)(slot) = x.Addr
		default:
			return nil, mismatch(sym, i, t, v)
		}

	default:
		return nil, mismatch(sym, i, t, v)
	}
	return slot, nil
}

func mismatch(sym string, i int, t types.Type, v value.Value) error {
	return errors.ArgumentTypeMismatch(sym, i, t.String(), v.Kind().String())
}

// toInteger returns the two's complement bits of v for an integer kind,
// range checked against the kind's width.
func toInteger(sym string, i int, k types.Kind, v value.Value) (uint64, error) {
	bits := k.Bits()
	target := k.String()

	switch x := v.(type) {
	case value.Bool:
		if x {
			return 1, nil
		}
		return 0, nil

	case value.Int:
		n := int64(x)
		if k.IsSigned() {
			if !fitsSigned(n, bits) {
				return 0, errors.Overflow(sym, i, n, target)
			}
			return uint64(n), nil
		}
		if n < 0 || !fitsUnsigned(uint64(n), bits) {
			return 0, errors.Overflow(sym, i, n, target)
		}
		return uint64(n), nil

	case value.Uint:
		n := uint64(x)
		if k.IsSigned() {
			if n > math.MaxInt64 || !fitsSigned(int64(n), bits) {
				return 0, errors.Overflow(sym, i, n, target)
			}
			return n, nil
		}
		if !fitsUnsigned(n, bits) {
			return 0, errors.Overflow(sym, i, n, target)
		}
		return n, nil

	case value.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, errors.New(errors.PhaseMarshal, errors.KindArgumentTypeMismatch).
				Symbol(sym).
				Index(i).
				Expected(target).
				Actual(v.Kind().String()).
				Value(f).
				Detail("%v is not integral", f).
				Build()
		}
		if k.IsSigned() {
			// -2^63 is exact in float64; 2^63 is the first value past the range.
			if f < math.MinInt64 || f >= 1<<63 || !fitsSigned(int64(f), bits) {
				return 0, errors.Overflow(sym, i, f, target)
			}
			return uint64(int64(f)), nil
		}
		if f < 0 || f >= 1<<64 || !fitsUnsigned(uint64(f), bits) {
			return 0, errors.Overflow(sym, i, f, target)
		}
		return uint64(f), nil

	default:
		return 0, errors.ArgumentTypeMismatch(sym, i, target, v.Kind().String())
	}
}

func fitsSigned(n int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	lo := -(int64(1) << (bits - 1))
	hi := int64(1)<<(bits-1) - 1
	return n >= lo && n <= hi
}

func fitsUnsigned(n uint64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return n < uint64(1)<<bits
}

func putInteger(slot unsafe.Pointer, k types.Kind, bits uint64) {
	switch k.Bits() {
	case 8:
		*(*uint8)(slot) = uint8(bits)
	case 16:
		*(*uint16)(slot) = uint16(bits)
	case 32:
		*(*uint32)(slot) = uint32(bits)
	default:
		*(*uint64)(slot) = bits
	}
}

func toFloat(sym string, i int, k types.Kind, v value.Value) (float64, error) {
	var f float64
	switch x := v.(type) {
	case value.Float:
		f = float64(x)
	case value.Int:
		f = float64(x)
	case value.Uint:
		f = float64(x)
	default:
		return 0, errors.ArgumentTypeMismatch(sym, i, k.String(), v.Kind().String())
	}
	if k == types.KindFloat32 && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, errors.Overflow(sym, i, f, k.String())
	}
	return f, nil
}

// toCString accepts a string value, copied to the arena, a raw pointer, or
// null.
func toCString(a *native.Arena, sym string, i int, v value.Value) (unsafe.Pointer, error) {
	switch x := v.(type) {
	case value.Null:
		return nil, nil
	case value.Pointer:
		return x.Addr, nil
	case value.String:
		p, err := a.CString(string(x))
		switch err {
		case nil:
			return p, nil
		case native.ErrEmbeddedNUL:
			return nil, errors.New(errors.PhaseMarshal, errors.KindArgumentTypeMismatch).
				Symbol(sym).
				Index(i).
				Expected("string").
				Actual("string").
				Detail("string contains a NUL byte").
				Cause(err).
				Build()
		case native.ErrOutOfMemory:
			return nil, errors.AllocationFailed(errors.PhaseMarshal, uintptr(len(x))+1)
		default:
			return nil, errors.Wrap(errors.PhaseMarshal, errors.KindUnsupported, err, "copy string argument")
		}
	default:
		return nil, errors.ArgumentTypeMismatch(sym, i, "string", v.Kind().String())
	}
}
