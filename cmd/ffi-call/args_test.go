package main

import (
	"math"
	"testing"

	"github.com/wippyai/dynffi/types"
	"github.com/wippyai/dynffi/value"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		in   string
		typ  types.Type
		want value.Value
	}{
		{"42", types.Int32, value.Int(42)},
		{"-1", types.Int8, value.Int(-1)},
		{"0x10", types.UInt16, value.Uint(16)},
		{"0b101", types.Int64, value.Int(5)},
		{"18446744073709551615", types.UInt64, value.Uint(math.MaxUint64)},
		{"-5", types.UInt32, value.Int(-5)},
		{"true", types.UInt8, value.Bool(true)},
		{"3.0", types.Int32, value.Float(3)},
		{"2.5", types.Float64, value.Float(2.5)},
		{"7", types.Float32, value.Float(7)},
		{"hello world", types.String, value.String("hello world")},
		{"null", types.String, value.String("null")},
		{"null", types.Pointer, value.Null{}},
		{"0", types.Pointer, value.Ptr(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.in+"/"+tt.typ.String(), func(t *testing.T) {
			got, err := parseArg(tt.in, tt.typ)
			if err != nil {
				t.Fatalf("parseArg: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParseArg_Errors(t *testing.T) {
	tests := []struct {
		in  string
		typ types.Type
	}{
		{"abc", types.Int32},
		{"1.2.3", types.Float64},
		{"nowhere", types.Pointer},
		{"x", types.Void},
	}
	for _, tt := range tests {
		if _, err := parseArg(tt.in, tt.typ); err == nil {
			t.Errorf("parseArg(%q, %s) succeeded", tt.in, tt.typ)
		}
	}
}

func TestParseArgs(t *testing.T) {
	params := []types.Type{types.String, types.Int32}

	got, err := parseArgs(params, []string{"12", "12", "extra"})
	if err != nil {
		t.Fatal(err)
	}
	want := []value.Value{value.String("12"), value.Int(12), value.String("extra")}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg %d = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := parseArgs(params, []string{"s", "x"}); err == nil {
		t.Error("expected an error for a non-numeric integer")
	}

	got, err = parseArgs([]types.Type{types.MustStruct(types.Int32)}, []string{"1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[0].(value.Aggregate); !ok {
		t.Errorf("struct argument = %T, want value.Aggregate", got[0])
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   value.Value
		want string
	}{
		{nil, "null"},
		{value.Null{}, "null"},
		{value.Int(-3), "-3"},
		{value.Uint(math.MaxUint64), "18446744073709551615"},
		{value.Float(0.5), "0.5"},
		{value.String("hi"), `"hi"`},
		{value.Ptr(nil), "0x0"},
		{value.Bool(true), "true"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
