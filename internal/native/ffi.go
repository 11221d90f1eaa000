//go:build cgo && (linux || darwin || freebsd)

package native

/*
#include <ffi.h>
#include <stdlib.h>

static ffi_type* dyn_new_struct(size_t n) {
	ffi_type* t = (ffi_type*)calloc(1, sizeof(ffi_type));
	if (!t) return NULL;
	t->type = FFI_TYPE_STRUCT;
	t->elements = (ffi_type**)calloc(n + 1, sizeof(ffi_type*));
	if (!t->elements) { free(t); return NULL; }
	return t;
}

static void dyn_struct_set(ffi_type* t, size_t i, ffi_type* e) { t->elements[i] = e; }
static ffi_type* dyn_struct_elem(ffi_type* t, size_t i) { return t->elements[i]; }

static void dyn_free_struct(ffi_type* t) {
	free(t->elements);
	free(t);
}

// Fills size and alignment of a struct type and, optionally, its offsets.
static int dyn_struct_layout(ffi_type* t, size_t* offsets) {
	return ffi_get_struct_offsets(FFI_DEFAULT_ABI, t, offsets);
}

static unsigned short dyn_type_code(ffi_type* t) { return t->type; }
static size_t dyn_type_size(ffi_type* t) { return t->size; }
static unsigned short dyn_type_align(ffi_type* t) { return t->alignment; }

// Allocate a cif on the C heap so it outlives the Go stack frame.
static ffi_cif* dyn_alloc_cif(void) {
	return (ffi_cif*)calloc(1, sizeof(ffi_cif));
}

static int dyn_prep_cif(ffi_cif* cif, unsigned int nargs, ffi_type* rtype, ffi_type** atypes) {
	return ffi_prep_cif(cif, FFI_DEFAULT_ABI, nargs, rtype, atypes);
}

// ffi_call wrapper: accept a generic void* fn, avoiding cgo's function-pointer typing.
static void dyn_call(ffi_cif* cif, void* fn, void* rvalue, void** avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/dynffi/types"
)

// ArgSize is the size of libffi's widened integer return slot.
const ArgSize = unsafe.Sizeof(C.ffi_arg(0))

// Type is a descriptor lowered to a libffi ffi_type.
// Struct types own C-heap memory released by Free.
type Type struct {
	ptr     *C.ffi_type
	owned   []*C.ffi_type
	offsets []uintptr
	desc    types.Type
}

func scalarType(k types.Kind) *C.ffi_type {
	switch k {
	case types.KindVoid:
		return &C.ffi_type_void
	case types.KindInt8:
		return &C.ffi_type_sint8
	case types.KindInt16:
		return &C.ffi_type_sint16
	case types.KindInt32:
		return &C.ffi_type_sint32
	case types.KindInt64:
		return &C.ffi_type_sint64
	case types.KindUInt8:
		return &C.ffi_type_uint8
	case types.KindUInt16:
		return &C.ffi_type_uint16
	case types.KindUInt32:
		return &C.ffi_type_uint32
	case types.KindUInt64:
		return &C.ffi_type_uint64
	case types.KindFloat32:
		return &C.ffi_type_float
	case types.KindFloat64:
		return &C.ffi_type_double
	case types.KindString, types.KindPointer:
		return &C.ffi_type_pointer
	default:
		return nil
	}
}

// Lower converts a descriptor into its libffi type. Structs are composed
// recursively and laid out by libffi with the platform's packing rules.
func Lower(t types.Type) (*Type, error) {
	out := &Type{desc: t}
	p, err := out.lower(t)
	if err != nil {
		out.Free()
		return nil, err
	}
	out.ptr = p

	if t.Kind() == types.KindStruct {
		offsets := make([]C.size_t, t.NumFields())
		if st := C.dyn_struct_layout(p, &offsets[0]); st != C.FFI_OK {
			out.Free()
			return nil, fmt.Errorf("ffi_get_struct_offsets failed: %d", int(st))
		}
		out.offsets = make([]uintptr, len(offsets))
		for i, o := range offsets {
			out.offsets[i] = uintptr(o)
		}
	}
	return out, nil
}

func (t *Type) lower(d types.Type) (*C.ffi_type, error) {
	if d.Kind() != types.KindStruct {
		p := scalarType(d.Kind())
		if p == nil {
			return nil, fmt.Errorf("cannot lower kind %s", d.Kind())
		}
		return p, nil
	}

	n := d.NumFields()
	st := C.dyn_new_struct(C.size_t(n))
	if st == nil {
		return nil, fmt.Errorf("allocate struct type: out of memory")
	}
	t.owned = append(t.owned, st)

	for i := 0; i < n; i++ {
		ft, err := t.lower(d.Field(i))
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		C.dyn_struct_set(st, C.size_t(i), ft)
	}
	return st, nil
}

// Descriptor returns the canonical descriptor the native type describes.
func (t *Type) Descriptor() types.Type {
	return raise(t.ptr)
}

func raise(p *C.ffi_type) types.Type {
	switch C.dyn_type_code(p) {
	case C.FFI_TYPE_VOID:
		return types.Void
	case C.FFI_TYPE_SINT8:
		return types.Int8
	case C.FFI_TYPE_SINT16:
		return types.Int16
	case C.FFI_TYPE_SINT32:
		return types.Int32
	case C.FFI_TYPE_SINT64:
		return types.Int64
	case C.FFI_TYPE_UINT8:
		return types.UInt8
	case C.FFI_TYPE_UINT16:
		return types.UInt16
	case C.FFI_TYPE_UINT32:
		return types.UInt32
	case C.FFI_TYPE_UINT64:
		return types.UInt64
	case C.FFI_TYPE_FLOAT:
		return types.Float32
	case C.FFI_TYPE_DOUBLE:
		return types.Float64
	case C.FFI_TYPE_POINTER:
		return types.Pointer
	case C.FFI_TYPE_STRUCT:
		var fields []types.Type
		for i := 0; ; i++ {
			e := C.dyn_struct_elem(p, C.size_t(i))
			if e == nil {
				break
			}
			fields = append(fields, raise(e))
		}
		return types.MustStruct(fields...)
	default:
		panic(fmt.Sprintf("native: unexpected ffi type code %d", int(C.dyn_type_code(p))))
	}
}

// Size returns the native size in bytes.
func (t *Type) Size() uintptr { return uintptr(C.dyn_type_size(t.ptr)) }

// Align returns the native alignment in bytes.
func (t *Type) Align() uintptr { return uintptr(C.dyn_type_align(t.ptr)) }

// Offsets returns struct field offsets, nil for scalars.
func (t *Type) Offsets() []uintptr {
	if t.offsets == nil {
		return nil
	}
	out := make([]uintptr, len(t.offsets))
	copy(out, t.offsets)
	return out
}

// Free releases C memory owned by the type.
func (t *Type) Free() {
	for i := len(t.owned) - 1; i >= 0; i-- {
		C.dyn_free_struct(t.owned[i])
	}
	t.owned = nil
	t.ptr = nil
}

// CallInterface is a prepared libffi cif plus the types it references.
// It is immutable after Prepare and may be shared by concurrent calls.
type CallInterface struct {
	cif    *C.ffi_cif
	atypes **C.ffi_type
	args   []*Type
	result *Type
	nargs  int
}

// Prepare lowers the parameter and result descriptors and runs ffi_prep_cif.
func Prepare(params []types.Type, result types.Type) (*CallInterface, error) {
	ci := &CallInterface{nargs: len(params)}

	rt, err := Lower(result)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	ci.result = rt

	if n := len(params); n > 0 {
		mem := C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(uintptr(0))))
		if mem == nil {
			ci.Free()
			return nil, fmt.Errorf("allocate argument types: out of memory")
		}
		ci.atypes = (**C.ffi_type)(mem)
		vec := unsafe.Slice(ci.atypes, n)
		for i, p := range params {
			at, err := Lower(p)
			if err != nil {
				ci.Free()
				return nil, fmt.Errorf("param %d: %w", i, err)
			}
			ci.args = append(ci.args, at)
			vec[i] = at.ptr
		}
	}

	ci.cif = C.dyn_alloc_cif()
	if ci.cif == nil {
		ci.Free()
		return nil, fmt.Errorf("allocate cif: out of memory")
	}
	if st := C.dyn_prep_cif(ci.cif, C.uint(ci.nargs), rt.ptr, ci.atypes); st != C.FFI_OK {
		ci.Free()
		return nil, fmt.Errorf("ffi_prep_cif failed: %d", int(st))
	}
	return ci, nil
}

// NumArgs returns the fixed arity.
func (ci *CallInterface) NumArgs() int { return ci.nargs }

// Arg returns the lowered type of parameter i.
func (ci *CallInterface) Arg(i int) *Type { return ci.args[i] }

// Result returns the lowered result type.
func (ci *CallInterface) Result() *Type { return ci.result }

// ResultSize is the minimum return buffer size for Call.
func (ci *CallInterface) ResultSize() uintptr {
	n := ci.result.Size()
	if n < ArgSize {
		n = ArgSize
	}
	if n < 8 {
		n = 8
	}
	return n
}

// Call performs the native call. avalue is a C array of NumArgs pointers,
// each addressing one argument slot; rvalue must hold ResultSize bytes.
// Both must live in C memory.
//
// A fault inside the callee is not recoverable and terminates the process.
func (ci *CallInterface) Call(fn, rvalue, avalue unsafe.Pointer) {
	C.dyn_call(ci.cif, fn, rvalue, (*unsafe.Pointer)(avalue))
}

// Free releases the cif and every lowered type.
func (ci *CallInterface) Free() {
	if ci.cif != nil {
		C.free(unsafe.Pointer(ci.cif))
		ci.cif = nil
	}
	if ci.atypes != nil {
		C.free(unsafe.Pointer(ci.atypes))
		ci.atypes = nil
	}
	for _, a := range ci.args {
		a.Free()
	}
	ci.args = nil
	if ci.result != nil {
		ci.result.Free()
		ci.result = nil
	}
}

// ReadArg reads a widened integer return value.
func ReadArg(rvalue unsafe.Pointer) uint64 {
	return uint64(*(*C.ffi_arg)(rvalue))
}
