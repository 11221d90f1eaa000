package value

import (
	"strings"
	"testing"
	"unsafe"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		v    Value
		kind Kind
		str  string
	}{
		{Null{}, KindNull, "null"},
		{Bool(true), KindBool, "true"},
		{Int(-1), KindInt, "-1"},
		{Uint(18446744073709551615), KindUint, "18446744073709551615"},
		{Float(2.5), KindFloat, "2.5"},
		{String("hi"), KindString, `"hi"`},
		{Aggregate{}, KindAggregate, "aggregate(0 entries)"},
		{Callable{Name: "cb"}, KindCallable, "callable(cb)"},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
			if tt.v.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.v.String(), tt.str)
			}
		})
	}
}

func TestPointer(t *testing.T) {
	var x int
	p := Ptr(unsafe.Pointer(&x))
	if p.Kind() != KindPointer {
		t.Errorf("Kind() = %v", p.Kind())
	}
	if !strings.HasPrefix(p.String(), "pointer(0x") {
		t.Errorf("String() = %q", p.String())
	}
	if Ptr(nil).String() != "pointer(0x0)" {
		t.Errorf("nil pointer String() = %q", Ptr(nil).String())
	}
}

func TestIsNull(t *testing.T) {
	if !IsNull(nil) || !IsNull(Null{}) {
		t.Error("nil and Null should be null")
	}
	if IsNull(Int(0)) || IsNull(Ptr(nil)) {
		t.Error("zero int and nil pointer are not null values")
	}
}

func TestKindString_OutOfRange(t *testing.T) {
	if got := Kind(200).String(); got != "kind(200)" {
		t.Errorf("got %q", got)
	}
}
