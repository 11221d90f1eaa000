//go:build !cgo || !(linux || darwin || freebsd)

package native

import (
	"unsafe"

	"github.com/wippyai/dynffi/types"
)

// Available reports whether native calls are compiled in.
const Available = false

// ArgSize is the size of libffi's widened integer return slot.
const ArgSize = unsafe.Sizeof(uintptr(0))

type Library struct {
	path string
}

func Open(path string) (*Library, error) { return nil, ErrUnavailable }

func (l *Library) Path() string { return l.path }

func (l *Library) Symbol(name string) (unsafe.Pointer, error) { return nil, ErrUnavailable }

func (l *Library) Close() error { return ErrUnavailable }

type Type struct {
	desc types.Type
}

func Lower(t types.Type) (*Type, error) { return nil, ErrUnavailable }

func (t *Type) Descriptor() types.Type { return types.Canonical(t.desc) }
func (t *Type) Size() uintptr          { return types.Layout(t.desc).Size }
func (t *Type) Align() uintptr         { return types.Layout(t.desc).Align }
func (t *Type) Offsets() []uintptr     { return types.Layout(t.desc).Offsets }
func (t *Type) Free()                  {}

type CallInterface struct{}

func Prepare(params []types.Type, result types.Type) (*CallInterface, error) {
	return nil, ErrUnavailable
}

func (ci *CallInterface) NumArgs() int        { return 0 }
func (ci *CallInterface) Arg(i int) *Type     { return nil }
func (ci *CallInterface) Result() *Type       { return nil }
func (ci *CallInterface) ResultSize() uintptr { return 8 }
func (ci *CallInterface) Free()               {}

func (ci *CallInterface) Call(fn, rvalue, avalue unsafe.Pointer) {
	panic(ErrUnavailable)
}

func ReadArg(rvalue unsafe.Pointer) uint64 { return *(*uint64)(rvalue) }

type Arena struct{}

func (a *Arena) Alloc(n uintptr) unsafe.Pointer  { return nil }
func (a *Arena) Pointers(n int) []unsafe.Pointer { return nil }
func (a *Arena) Free()                           {}

func (a *Arena) CString(s string) (unsafe.Pointer, error) {
	return nil, ErrUnavailable
}

func GoString(p unsafe.Pointer) string   { return "" }
func TakeString(p unsafe.Pointer) string { return "" }
