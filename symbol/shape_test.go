package symbol

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/types"
)

var typeCmp = cmp.Comparer(func(a, b types.Type) bool { return a.Equal(b) })

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
		want Shape
	}{
		{
			name: "no parameters",
			cfg:  map[string]any{"name": "getpid", "parameters": []any{}, "result": "int"},
			want: Shape{Name: "getpid", Params: []types.Type{}, Result: types.Int32},
		},
		{
			name: "aliases",
			cfg:  map[string]any{"name": "strtoul", "parameters": []any{"char*", "void*", "int"}, "result": "unsigned long"},
			want: Shape{Name: "strtoul", Params: []types.Type{types.String, types.Pointer, types.Int32}, Result: types.UInt64},
		},
		{
			name: "string list",
			cfg:  map[string]any{"name": "strcmp", "parameters": []string{"string", "string"}, "result": "i32"},
			want: Shape{Name: "strcmp", Params: []types.Type{types.String, types.String}, Result: types.Int32},
		},
		{
			name: "struct parameter",
			cfg: map[string]any{
				"name":       "move",
				"parameters": []any{[]any{"f64", "f64"}, "u8"},
				"result":     "void",
			},
			want: Shape{
				Name:   "move",
				Params: []types.Type{types.MustStruct(types.Float64, types.Float64), types.UInt8},
				Result: types.Void,
			},
		},
		{
			name: "nil parameters",
			cfg:  map[string]any{"name": "abort", "parameters": nil, "result": "void"},
			want: Shape{Name: "abort", Result: types.Void},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.cfg)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, typeCmp); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       map[string]any
		wantCause bool
	}{
		{"missing name", map[string]any{"parameters": []any{}, "result": "void"}, false},
		{"empty name", map[string]any{"name": "", "parameters": []any{}, "result": "void"}, false},
		{"name not string", map[string]any{"name": 42, "parameters": []any{}, "result": "void"}, false},
		{"missing parameters", map[string]any{"name": "f", "result": "void"}, false},
		{"missing result", map[string]any{"name": "f", "parameters": []any{}}, false},
		{"parameters not a list", map[string]any{"name": "f", "parameters": "i32", "result": "void"}, true},
		{"unknown parameter", map[string]any{"name": "f", "parameters": []any{"int128"}, "result": "void"}, true},
		{"void parameter", map[string]any{"name": "f", "parameters": []any{"void"}, "result": "void"}, true},
		{"unknown result", map[string]any{"name": "f", "parameters": []any{}, "result": "Int"}, true},
		{"empty struct result", map[string]any{"name": "f", "parameters": []any{}, "result": []any{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.cfg)
			if !stderrors.Is(err, errors.ErrInvalidSymbolShape) {
				t.Fatalf("err = %v, want invalid_symbol_shape", err)
			}
			if tt.wantCause && stderrors.Unwrap(err) == nil {
				t.Errorf("expected a wrapped cause in %v", err)
			}
		})
	}
}

func TestParse_ParameterIndex(t *testing.T) {
	_, err := Parse(map[string]any{"name": "f", "parameters": []any{"i32", "bogus"}, "result": "void"})
	var e *errors.Error
	if !stderrors.As(stderrors.Unwrap(err), &e) {
		t.Fatalf("cause = %v, want *errors.Error", stderrors.Unwrap(err))
	}
	if e.Kind != errors.KindInvalidTypeDescriptor || e.Index != 1 {
		t.Errorf("cause kind=%s index=%d, want invalid_type_descriptor at 1", e.Kind, e.Index)
	}
}

func TestNew(t *testing.T) {
	params := []types.Type{types.Int32}
	s, err := New("abs", params, types.Int32)
	if err != nil {
		t.Fatal(err)
	}
	params[0] = types.Float64
	if !s.Params[0].Equal(types.Int32) {
		t.Error("New must copy the parameter slice")
	}
	if s.Arity() != 1 {
		t.Errorf("Arity = %d", s.Arity())
	}

	if _, err := New("", nil, types.Void); !stderrors.Is(err, errors.ErrInvalidSymbolShape) {
		t.Errorf("empty name: err = %v", err)
	}
}

func TestShape_String(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{Shape{Name: "getpid", Result: types.Int32}, "getpid() -> i32"},
		{Shape{Name: "strlen", Params: []types.Type{types.String}, Result: types.UInt64}, "strlen(string) -> u64"},
		{
			Shape{Name: "f", Params: []types.Type{types.MustStruct(types.Int8, types.Pointer), types.Float32}, Result: types.Void},
			"f(struct{i8, pointer}, f32) -> void",
		},
	}
	for _, tt := range tests {
		if got := tt.shape.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNew_VoidParameter(t *testing.T) {
	_, err := New("f", []types.Type{types.Int32, types.Void}, types.Void)
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.Kind != errors.KindInvalidSymbolShape || e.Index != 1 {
		t.Errorf("kind=%s index=%d, want invalid_symbol_shape at 1", e.Kind, e.Index)
	}
}
