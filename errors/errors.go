package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig  Phase = "config"  // descriptor and shape parsing
	PhaseLoad    Phase = "load"    // dlopen, dlsym, call interface preparation
	PhaseMarshal Phase = "marshal" // dynamic value to native slot
	PhaseCall    Phase = "call"    // dispatch checks around ffi_call
	PhaseDecode  Phase = "decode"  // native result to dynamic value
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidTypeDescriptor   Kind = "invalid_type_descriptor"
	KindInvalidSymbolShape      Kind = "invalid_symbol_shape"
	KindInvalidConfig           Kind = "invalid_config"
	KindLibraryLoad             Kind = "library_load"
	KindSymbolNotFound          Kind = "symbol_not_found"
	KindUnknownSymbol           Kind = "unknown_symbol"
	KindArityMismatch           Kind = "arity_mismatch"
	KindArgumentTypeMismatch    Kind = "argument_type_mismatch"
	KindUnsupportedArgumentType Kind = "unsupported_argument_type"
	KindUnsupportedResultType   Kind = "unsupported_result_type"
	KindClosed                  Kind = "closed"
	KindAllocation              Kind = "allocation"
	KindUnsupported             Kind = "unsupported"
)

// Sentinels for errors.Is. They match any phase.
var (
	ErrInvalidTypeDescriptor   = &Error{Kind: KindInvalidTypeDescriptor}
	ErrInvalidSymbolShape      = &Error{Kind: KindInvalidSymbolShape}
	ErrInvalidConfig           = &Error{Kind: KindInvalidConfig}
	ErrLibraryLoad             = &Error{Kind: KindLibraryLoad}
	ErrSymbolNotFound          = &Error{Kind: KindSymbolNotFound}
	ErrUnknownSymbol           = &Error{Kind: KindUnknownSymbol}
	ErrArityMismatch           = &Error{Kind: KindArityMismatch}
	ErrArgumentTypeMismatch    = &Error{Kind: KindArgumentTypeMismatch}
	ErrUnsupportedArgumentType = &Error{Kind: KindUnsupportedArgumentType}
	ErrUnsupportedResultType   = &Error{Kind: KindUnsupportedResultType}
	ErrClosed                  = &Error{Kind: KindClosed}
	ErrUnsupported             = &Error{Kind: KindUnsupported}
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Symbol   string
	Library  string
	Expected string
	Actual   string
	Detail   string
	Path     []string
	// Index is the zero-based argument position, or -1.
	Index int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Library != "" {
		b.WriteString(" library ")
		b.WriteString(strconv.Quote(e.Library))
	}
	if e.Symbol != "" {
		b.WriteString(" symbol ")
		b.WriteString(strconv.Quote(e.Symbol))
	}
	if e.Index >= 0 && (e.Kind == KindArgumentTypeMismatch || e.Kind == KindUnsupportedArgumentType) {
		fmt.Fprintf(&b, " arg %d", e.Index)
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	hasTypes := e.Expected != "" || e.Actual != ""
	if hasTypes {
		b.WriteString(": ")
		switch {
		case e.Expected != "" && e.Actual != "":
			b.WriteString("expected ")
			b.WriteString(e.Expected)
			b.WriteString(", got ")
			b.WriteString(e.Actual)
		case e.Expected != "":
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		default:
			b.WriteString("got ")
			b.WriteString(e.Actual)
		}
	}

	if e.Detail != "" {
		if hasTypes {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: -1,
		},
	}
}

// Symbol sets the symbol name
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Library sets the library path
func (b *Builder) Library(path string) *Builder {
	b.err.Library = path
	return b
}

// Index sets the argument index
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Path sets the descriptor path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Expected sets the expected type or count
func (b *Builder) Expected(s string) *Builder {
	b.err.Expected = s
	return b
}

// Actual sets the actual type or count
func (b *Builder) Actual(s string) *Builder {
	b.err.Actual = s
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the bridge's error taxonomy

// InvalidTypeDescriptor reports an unrecognized token or unsupported descriptor shape.
func InvalidTypeDescriptor(path []string, value any, detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidTypeDescriptor,
		Path:   path,
		Value:  value,
		Detail: detail,
		Index:  -1,
	}
}

// InvalidSymbolShape reports a missing or unparsable symbol shape field.
func InvalidSymbolShape(name, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidSymbolShape,
		Symbol: name,
		Detail: detail,
		Cause:  cause,
		Index:  -1,
	}
}

// InvalidConfig reports a malformed configuration document.
func InvalidConfig(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Detail: detail,
		Cause:  cause,
		Index:  -1,
	}
}

// LibraryLoad reports a library that could not be opened.
func LibraryLoad(path string, cause error) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindLibraryLoad,
		Library: path,
		Cause:   cause,
		Index:   -1,
	}
}

// SymbolNotFound reports a symbol that resolved to no address.
func SymbolNotFound(library, name string, cause error) *Error {
	return &Error{
		Phase:   PhaseLoad,
		Kind:    KindSymbolNotFound,
		Library: library,
		Symbol:  name,
		Cause:   cause,
		Index:   -1,
	}
}

// UnknownSymbol reports an invocation of a name the library never registered.
func UnknownSymbol(name string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindUnknownSymbol,
		Symbol: name,
		Index:  -1,
	}
}

// ArityMismatch reports a wrong number of arguments.
func ArityMismatch(symbol string, expected, actual int) *Error {
	return &Error{
		Phase:    PhaseCall,
		Kind:     KindArityMismatch,
		Symbol:   symbol,
		Expected: strconv.Itoa(expected),
		Actual:   strconv.Itoa(actual),
		Index:    -1,
	}
}

// ArgumentTypeMismatch reports a dynamic value whose kind does not fit the declared parameter.
func ArgumentTypeMismatch(symbol string, index int, expected, actual string) *Error {
	return &Error{
		Phase:    PhaseMarshal,
		Kind:     KindArgumentTypeMismatch,
		Symbol:   symbol,
		Index:    index,
		Expected: expected,
		Actual:   actual,
	}
}

// Overflow reports a numeric argument that does not fit the declared width.
func Overflow(symbol string, index int, value any, target string) *Error {
	return &Error{
		Phase:    PhaseMarshal,
		Kind:     KindArgumentTypeMismatch,
		Symbol:   symbol,
		Index:    index,
		Expected: target,
		Value:    value,
		Detail:   fmt.Sprintf("value %v overflows %s", value, target),
	}
}

// UnsupportedArgumentType reports an aggregate or callable argument.
func UnsupportedArgumentType(symbol string, index int, actual string) *Error {
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindUnsupportedArgumentType,
		Symbol: symbol,
		Index:  index,
		Actual: actual,
	}
}

// UnsupportedResultType reports a declared result that cannot be decoded.
func UnsupportedResultType(symbol, result string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindUnsupportedResultType,
		Symbol:   symbol,
		Expected: result,
		Detail:   "struct results are not supported",
		Index:    -1,
	}
}

// Closed reports use of a library after Close.
func Closed(library string) *Error {
	return &Error{
		Phase:   PhaseCall,
		Kind:    KindClosed,
		Library: library,
		Detail:  "library is closed",
		Index:   -1,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uintptr) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Index:  -1,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
		Index:  -1,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Index:  -1,
	}
}
