package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "argument mismatch",
			err: &Error{
				Phase:    PhaseMarshal,
				Kind:     KindArgumentTypeMismatch,
				Symbol:   "strlen",
				Index:    0,
				Expected: "string",
				Actual:   "int",
			},
			contains: []string{"[marshal]", "argument_type_mismatch", `symbol "strlen"`, "arg 0", "expected string, got int"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseCall,
				Kind:  KindUnknownSymbol,
				Index: -1,
			},
			contains: []string{"[call]", "unknown_symbol"},
			excludes: []string{"arg"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:   PhaseLoad,
				Kind:    KindLibraryLoad,
				Library: "/no/such.so",
				Cause:   errors.New("cannot open shared object file"),
				Index:   -1,
			},
			contains: []string{"[load]", "library_load", `library "/no/such.so"`, "caused by", "cannot open"},
		},
		{
			name: "descriptor path",
			err: &Error{
				Phase:  PhaseConfig,
				Kind:   KindInvalidTypeDescriptor,
				Path:   []string{"parameters", "1", "x"},
				Detail: `unknown type "int128"`,
				Index:  -1,
			},
			contains: []string{"at parameters.1.x", `: unknown type "int128"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := LibraryLoad("libx.so", cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through to cause")
	}
}

func TestError_Is(t *testing.T) {
	err := ArityMismatch("strlen", 1, 3)

	if !err.Is(&Error{Phase: PhaseCall, Kind: KindArityMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseMarshal, Kind: KindArityMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseCall, Kind: KindUnknownSymbol}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrArityMismatch) {
		t.Error("sentinel should match regardless of phase")
	}
	if errors.Is(err, ErrArgumentTypeMismatch) {
		t.Error("sentinel of another kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseMarshal, KindArgumentTypeMismatch).
		Symbol("puts").
		Library("libc.so.6").
		Index(2).
		Path("p").
		Expected("string").
		Actual("float").
		Value(1.5).
		Cause(cause).
		Detail("want %s", "text").
		Build()

	if err.Phase != PhaseMarshal || err.Kind != KindArgumentTypeMismatch {
		t.Errorf("Phase/Kind = %v/%v", err.Phase, err.Kind)
	}
	if err.Symbol != "puts" || err.Library != "libc.so.6" {
		t.Errorf("Symbol/Library = %q/%q", err.Symbol, err.Library)
	}
	if err.Index != 2 {
		t.Errorf("Index = %d, want 2", err.Index)
	}
	if err.Expected != "string" || err.Actual != "float" {
		t.Errorf("Expected/Actual = %q/%q", err.Expected, err.Actual)
	}
	if err.Value != 1.5 {
		t.Errorf("Value = %v, want 1.5", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "want text" {
		t.Errorf("Detail = %q, want 'want text'", err.Detail)
	}
}

func TestBuilder_DefaultIndex(t *testing.T) {
	err := New(PhaseCall, KindClosed).Build()
	if err.Index != -1 {
		t.Errorf("Index = %d, want -1", err.Index)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("ArityMismatch", func(t *testing.T) {
		err := ArityMismatch("f", 2, 0)
		if err.Expected != "2" || err.Actual != "0" {
			t.Errorf("Expected=%q Actual=%q", err.Expected, err.Actual)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow("f", 1, int64(300), "u8")
		if err.Kind != KindArgumentTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindArgumentTypeMismatch)
		}
		if !strings.Contains(err.Detail, "300") {
			t.Errorf("Detail = %q, should mention value", err.Detail)
		}
	})

	t.Run("UnsupportedResultType", func(t *testing.T) {
		err := UnsupportedResultType("f", "struct{i32}")
		if err.Phase != PhaseDecode {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
		}
	})

	t.Run("SymbolNotFound", func(t *testing.T) {
		err := SymbolNotFound("libc.so.6", "nope", nil)
		if !errors.Is(err, ErrSymbolNotFound) {
			t.Error("should match ErrSymbolNotFound")
		}
		if err.Symbol != "nope" {
			t.Errorf("Symbol = %q", err.Symbol)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		if !errors.Is(Closed("x"), ErrClosed) {
			t.Error("should match ErrClosed")
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseMarshal, 1024)
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})
}
