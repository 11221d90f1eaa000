//go:build cgo && (linux || darwin || freebsd)

package native

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"strings"
	"unsafe"
)

// Arena tracks C-heap allocations made for one call. Free releases all of them.
// The zero value is ready to use. An Arena is not safe for concurrent use.
type Arena struct {
	ptrs []unsafe.Pointer
}

// Alloc returns n zeroed bytes of C memory, or nil when out of memory.
func (a *Arena) Alloc(n uintptr) unsafe.Pointer {
	if n == 0 {
		n = 1
	}
	p := C.calloc(1, C.size_t(n))
	if p == nil {
		return nil
	}
	a.ptrs = append(a.ptrs, p)
	return p
}

// Pointers allocates a C array of n pointer slots.
func (a *Arena) Pointers(n int) []unsafe.Pointer {
	if n == 0 {
		return nil
	}
	p := a.Alloc(uintptr(n) * unsafe.Sizeof(uintptr(0)))
	if p == nil {
		return nil
	}
	return unsafe.Slice((*unsafe.Pointer)(p), n)
}

// CString copies s into a NUL-terminated C buffer.
func (a *Arena) CString(s string) (unsafe.Pointer, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, ErrEmbeddedNUL
	}
	p := a.Alloc(uintptr(len(s)) + 1)
	if p == nil {
		return nil, ErrOutOfMemory
	}
	if len(s) > 0 {
		C.memcpy(p, unsafe.Pointer(unsafe.StringData(s)), C.size_t(len(s)))
	}
	return p, nil
}

// Free releases every allocation in reverse order.
func (a *Arena) Free() {
	for i := len(a.ptrs) - 1; i >= 0; i-- {
		C.free(a.ptrs[i])
	}
	a.ptrs = a.ptrs[:0]
}

// GoString copies a NUL-terminated C string.
func GoString(p unsafe.Pointer) string {
	return C.GoString((*C.char)(p))
}

// TakeString copies a NUL-terminated C string and releases the buffer with
// free(3). The buffer must come from the C allocator.
func TakeString(p unsafe.Pointer) string {
	s := C.GoString((*C.char)(p))
	C.free(p)
	return s
}
