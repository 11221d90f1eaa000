//go:build cgo && (linux || darwin || freebsd)

package native

/*
#cgo pkg-config: libffi
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

static void* dyn_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}

static const char* dyn_dlerror(void) {
	return dlerror();
}

// Clear dlerror, call dlsym, and report the error (if any) next to the symbol.
static void* dyn_dlsym(void* h, const char* name, char** err) {
	dlerror();
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (err) *err = e;
	return e ? NULL : p;
}

static int dyn_dlclose(void* h) {
	return dlclose(h);
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Available reports whether native calls are compiled in.
const Available = true

// dlerror state is process global.
var dlMu sync.Mutex

func dlerr() error {
	if e := C.dyn_dlerror(); e != nil {
		return DLError(C.GoString(e))
	}
	return DLError("unknown dlerror")
}

// Library is an open handle to a dynamically loaded library.
type Library struct {
	handle unsafe.Pointer
	path   string
}

// Open maps the library at path. The OS loader applies its search rules.
// An empty path opens the running program itself.
func Open(path string) (*Library, error) {
	var cs *C.char
	if path != "" {
		cs = C.CString(path)
		defer C.free(unsafe.Pointer(cs))
	}

	dlMu.Lock()
	defer dlMu.Unlock()

	h := C.dyn_dlopen(cs)
	if h == nil {
		return nil, dlerr()
	}
	return &Library{handle: h, path: path}, nil
}

// Path returns the path the library was opened with.
func (l *Library) Path() string { return l.path }

// Symbol resolves name to its entry point. A null address is an error.
func (l *Library) Symbol(name string) (unsafe.Pointer, error) {
	if l.handle == nil {
		return nil, ErrClosedLibrary
	}
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))

	dlMu.Lock()
	defer dlMu.Unlock()

	var cerr *C.char
	p := C.dyn_dlsym(l.handle, cs, &cerr)
	if cerr != nil {
		return nil, DLError(C.GoString(cerr))
	}
	if p == nil {
		return nil, ErrNullSymbol
	}
	return p, nil
}

// Close unmaps the library. Every address resolved from it becomes invalid.
func (l *Library) Close() error {
	if l.handle == nil {
		return ErrClosedLibrary
	}

	dlMu.Lock()
	defer dlMu.Unlock()

	if C.dyn_dlclose(l.handle) != 0 {
		return dlerr()
	}
	l.handle = nil
	return nil
}
