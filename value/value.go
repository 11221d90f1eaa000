// Package value defines the dynamic values that cross the FFI boundary.
//
// Value is a closed set: every concrete type lives in this package and the
// interface carries an unexported method, so a switch over the concrete
// types in the marshal and decode paths is exhaustive by construction.
//
// Int and Uint carry 64-bit integers exactly. Results of 64-bit native
// integer types are never funneled through Float.
package value

import (
	"fmt"
	"strconv"
	"unsafe"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindPointer
	KindAggregate
	KindCallable
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindInt:       "int",
	KindUint:      "uint",
	KindFloat:     "float",
	KindString:    "string",
	KindPointer:   "pointer",
	KindAggregate: "aggregate",
	KindCallable:  "callable",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a dynamically typed value.
type Value interface {
	Kind() Kind
	String() string
	value()
}

// Null is the absence of a value.
type Null struct{}

// Bool is a boolean.
type Bool bool

// Int is a signed 64-bit integer.
type Int int64

// Uint is an unsigned 64-bit integer.
type Uint uint64

// Float is a double precision number.
type Float float64

// String is owned text.
type String string

// Pointer is an opaque native address. The bridge never dereferences it.
type Pointer struct {
	Addr unsafe.Pointer
}

// Aggregate is a structured host value. It cannot be marshaled.
type Aggregate struct {
	Entries map[string]Value
}

// Callable is a host function. It cannot be marshaled.
type Callable struct {
	Name string
}

func (Null) Kind() Kind      { return KindNull }
func (Bool) Kind() Kind      { return KindBool }
func (Int) Kind() Kind       { return KindInt }
func (Uint) Kind() Kind      { return KindUint }
func (Float) Kind() Kind     { return KindFloat }
func (String) Kind() Kind    { return KindString }
func (Pointer) Kind() Kind   { return KindPointer }
func (Aggregate) Kind() Kind { return KindAggregate }
func (Callable) Kind() Kind  { return KindCallable }

func (Null) value()      {}
func (Bool) value()      {}
func (Int) value()       {}
func (Uint) value()      {}
func (Float) value()     {}
func (String) value()    {}
func (Pointer) value()   {}
func (Aggregate) value() {}
func (Callable) value()  {}

func (Null) String() string      { return "null" }
func (b Bool) String() string    { return strconv.FormatBool(bool(b)) }
func (i Int) String() string     { return strconv.FormatInt(int64(i), 10) }
func (u Uint) String() string    { return strconv.FormatUint(uint64(u), 10) }
func (f Float) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (s String) String() string  { return strconv.Quote(string(s)) }
func (p Pointer) String() string { return fmt.Sprintf("pointer(%p)", p.Addr) }

func (a Aggregate) String() string {
	return fmt.Sprintf("aggregate(%d entries)", len(a.Entries))
}

func (c Callable) String() string {
	if c.Name == "" {
		return "callable"
	}
	return "callable(" + c.Name + ")"
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Ptr wraps an address.
func Ptr(p unsafe.Pointer) Pointer {
	return Pointer{Addr: p}
}
