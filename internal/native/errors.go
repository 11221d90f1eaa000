package native

import "errors"

var (
	ErrClosedLibrary = errors.New("library handle is closed")
	ErrNullSymbol    = errors.New("symbol resolved to a null address")
	ErrUnavailable   = errors.New("native calls require cgo and libffi")
	ErrEmbeddedNUL   = errors.New("string contains a NUL byte")
	ErrOutOfMemory   = errors.New("out of memory")
)

// DLError is a dlerror message.
type DLError string

func (e DLError) Error() string { return string(e) }
