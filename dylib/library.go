package dylib

import (
	"sort"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/dynffi/config"
	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/internal/native"
	"github.com/wippyai/dynffi/symbol"
	"github.com/wippyai/dynffi/types"
	"github.com/wippyai/dynffi/value"
)

// Library is an open shared library and the symbols bound from it.
// The symbol table is fixed at Load and read without locking.
type Library struct {
	handle  *native.Library
	symbols map[string]*Symbol
	path    string

	// Calls hold mu for reading; Close takes it for writing.
	mu     sync.RWMutex
	closed bool
}

// Symbol is a resolved entry point with its prepared call interface.
// It is valid until its library is closed.
type Symbol struct {
	lib    *Library
	addr   unsafe.Pointer
	ci     *native.CallInterface
	shape  symbol.Shape
	result types.Type
}

// Load opens the library at path and binds every shape. Loading is
// all-or-nothing: if the library cannot be opened, a name repeats, or any
// symbol fails to resolve or compile, nothing stays open and no handle is
// returned.
//
// An empty path binds symbols from the running program.
func Load(path string, shapes []symbol.Shape) (*Library, error) {
	seen := make(map[string]struct{}, len(shapes))
	for _, s := range shapes {
		if _, dup := seen[s.Name]; dup {
			return nil, errors.InvalidSymbolShape(s.Name, "duplicate symbol name", nil)
		}
		seen[s.Name] = struct{}{}
	}

	h, err := native.Open(path)
	if err != nil {
		return nil, errors.LibraryLoad(path, err)
	}

	l := &Library{
		handle:  h,
		path:    path,
		symbols: make(map[string]*Symbol, len(shapes)),
	}

	for _, s := range shapes {
		addr, err := h.Symbol(s.Name)
		if err != nil {
			l.release()
			return nil, errors.SymbolNotFound(path, s.Name, err)
		}

		ci, err := s.Compile()
		if err != nil {
			l.release()
			if e, ok := err.(*errors.Error); ok {
				e.Library = path
			}
			return nil, err
		}

		l.symbols[s.Name] = &Symbol{
			lib:    l,
			addr:   addr,
			ci:     ci,
			shape:  s,
			result: s.Result,
		}
		Logger().Debug("symbol bound",
			zap.String("library", path),
			zap.Stringer("signature", s))
	}

	Logger().Debug("library loaded",
		zap.String("library", path),
		zap.Int("symbols", len(l.symbols)))
	return l, nil
}

// LoadManifest loads the library and symbols a manifest describes.
func LoadManifest(m *config.Manifest) (*Library, error) {
	shapes, err := m.Shapes()
	if err != nil {
		return nil, err
	}
	return Load(m.Library, shapes)
}

// release frees everything bound so far after a failed Load.
func (l *Library) release() {
	for _, s := range l.symbols {
		s.ci.Free()
	}
	l.symbols = nil
	if err := l.handle.Close(); err != nil {
		Logger().Warn("failed to close library during cleanup",
			zap.String("library", l.path),
			zap.Error(err))
	}
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string { return l.path }

// Symbols returns the bound symbol names in sorted order.
func (l *Library) Symbols() []string {
	names := make([]string, 0, len(l.symbols))
	for name := range l.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbol returns the bound symbol called name.
func (l *Library) Symbol(name string) (*Symbol, error) {
	s, ok := l.symbols[name]
	if !ok {
		return nil, errors.UnknownSymbol(name)
	}
	return s, nil
}

// Invoke calls the symbol called name with args.
func (l *Library) Invoke(name string, args ...value.Value) (value.Value, error) {
	s, ok := l.symbols[name]
	if !ok {
		return nil, errors.UnknownSymbol(name)
	}
	return s.Call(args...)
}

// Closed reports whether Close has been called.
func (l *Library) Closed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

// Close waits for in-flight calls, frees every call interface and unmaps the
// library. Calls made after Close fail with a closed error, as does a second
// Close.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errors.Closed(l.path)
	}
	l.closed = true

	for _, s := range l.symbols {
		s.ci.Free()
	}
	if err := l.handle.Close(); err != nil {
		return errors.New(errors.PhaseLoad, errors.KindLibraryLoad).
			Library(l.path).
			Detail("dlclose").
			Cause(err).
			Build()
	}

	Logger().Debug("library closed", zap.String("library", l.path))
	return nil
}

// Name returns the symbol name.
func (s *Symbol) Name() string { return s.shape.Name }

// Shape returns the declared signature.
func (s *Symbol) Shape() symbol.Shape {
	out := s.shape
	out.Params = append([]types.Type(nil), s.shape.Params...)
	return out
}

// Library returns the owning library.
func (s *Symbol) Library() *Library { return s.lib }

// Call marshals args, calls the native function and decodes its result.
//
// Arity and result type are checked before any argument is converted, and
// nothing native runs unless every argument converts. A fault inside the
// native function terminates the process.
func (s *Symbol) Call(args ...value.Value) (value.Value, error) {
	l := s.lib
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, errors.Closed(l.path)
	}

	if want := len(s.shape.Params); len(args) != want {
		e := errors.ArityMismatch(s.shape.Name, want, len(args))
		e.Library = l.path
		return nil, e
	}
	if s.result.Kind() == types.KindStruct {
		e := errors.UnsupportedResultType(s.shape.Name, s.result.String())
		e.Library = l.path
		return nil, e
	}

	var arena native.Arena
	defer arena.Free()

	avalue, err := marshal(&arena, s.shape, args)
	if err != nil {
		return nil, err
	}

	size := s.ci.ResultSize()
	rvalue := arena.Alloc(size)
	if rvalue == nil {
		return nil, errors.AllocationFailed(errors.PhaseCall, size)
	}

	s.ci.Call(s.addr, rvalue, avalue)

	return decode(s.shape.Name, s.result, rvalue)
}
