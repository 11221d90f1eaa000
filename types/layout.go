package types

import "unsafe"

var (
	ptrSize = unsafe.Sizeof(uintptr(0))

	// Alignment of the 64-bit scalars follows the host, which differs from
	// the size on 32-bit x86.
	align64  = unsafe.Alignof(int64(0))
	alignF64 = unsafe.Alignof(float64(0))
)

// Info is the native layout of a type.
type Info struct {
	// Offsets holds per-field offsets for structs.
	Offsets []uintptr
	Size    uintptr
	Align   uintptr
}

// Layout computes the native size, alignment and field offsets of t using
// the platform's default struct packing.
func Layout(t Type) Info {
	switch t.kind {
	case KindVoid:
		return Info{Size: 0, Align: 1}
	case KindInt8, KindUInt8:
		return Info{Size: 1, Align: 1}
	case KindInt16, KindUInt16:
		return Info{Size: 2, Align: 2}
	case KindInt32, KindUInt32, KindFloat32:
		return Info{Size: 4, Align: 4}
	case KindInt64, KindUInt64:
		return Info{Size: 8, Align: align64}
	case KindFloat64:
		return Info{Size: 8, Align: alignF64}
	case KindString, KindPointer:
		return Info{Size: ptrSize, Align: ptrSize}
	case KindStruct:
		return layoutStruct(t.fields)
	default:
		return Info{Size: 0, Align: 1}
	}
}

func layoutStruct(fields []Type) Info {
	offsets := make([]uintptr, len(fields))
	maxAlign := uintptr(1)
	offset := uintptr(0)

	for i, f := range fields {
		fl := Layout(f)
		offset = AlignTo(offset, fl.Align)
		offsets[i] = offset

		if fl.Align > maxAlign {
			maxAlign = fl.Align
		}

		offset += fl.Size
	}

	return Info{
		Size:    AlignTo(offset, maxAlign),
		Align:   maxAlign,
		Offsets: offsets,
	}
}

func AlignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}
