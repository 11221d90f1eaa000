package dylib

import (
	stderrors "errors"
	"math"
	"testing"
	"unsafe"

	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/types"
	"github.com/wippyai/dynffi/value"
)

func TestToInteger(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		in   value.Value
		want uint64
	}{
		{"true", types.KindInt32, value.Bool(true), 1},
		{"false", types.KindUInt8, value.Bool(false), 0},
		{"i8 min", types.KindInt8, value.Int(-128), uint64(math.MaxUint64 - 127)},
		{"i8 max", types.KindInt8, value.Int(127), 127},
		{"u8 max", types.KindUInt8, value.Int(255), 255},
		{"i32 negative", types.KindInt32, value.Int(-1), math.MaxUint64},
		{"u16 from uint", types.KindUInt16, value.Uint(65535), 65535},
		{"i64 from uint", types.KindInt64, value.Uint(math.MaxInt64), math.MaxInt64},
		{"u64 max", types.KindUInt64, value.Uint(math.MaxUint64), math.MaxUint64},
		{"integral float", types.KindInt16, value.Float(-300), uint64(math.MaxUint64 - 299)},
		{"float into u64", types.KindUInt64, value.Float(1 << 63), 1 << 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toInteger("f", 0, tt.kind, tt.in)
			if err != nil {
				t.Fatalf("toInteger: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestToInteger_Errors(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		in   value.Value
	}{
		{"i8 overflow", types.KindInt8, value.Int(128)},
		{"i8 underflow", types.KindInt8, value.Int(-129)},
		{"u8 overflow", types.KindUInt8, value.Int(256)},
		{"negative into unsigned", types.KindUInt32, value.Int(-1)},
		{"uint past i64", types.KindInt64, value.Uint(math.MaxInt64 + 1)},
		{"fraction", types.KindInt32, value.Float(1.5)},
		{"nan", types.KindInt32, value.Float(math.NaN())},
		{"inf", types.KindInt64, value.Float(math.Inf(1))},
		{"float past i64", types.KindInt64, value.Float(1 << 63)},
		{"string", types.KindInt32, value.String("1")},
		{"null", types.KindInt32, value.Null{}},
		{"pointer", types.KindUInt64, value.Ptr(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toInteger("f", 3, tt.kind, tt.in)
			if !stderrors.Is(err, errors.ErrArgumentTypeMismatch) {
				t.Fatalf("err = %v, want argument_type_mismatch", err)
			}
			var e *errors.Error
			stderrors.As(err, &e)
			if e.Index != 3 || e.Symbol != "f" {
				t.Errorf("index=%d symbol=%q", e.Index, e.Symbol)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	got, err := toFloat("f", 0, types.KindFloat64, value.Int(-7))
	if err != nil || got != -7 {
		t.Errorf("Int -> f64 = %v, %v", got, err)
	}
	got, err = toFloat("f", 0, types.KindFloat32, value.Float(0.5))
	if err != nil || got != 0.5 {
		t.Errorf("Float -> f32 = %v, %v", got, err)
	}
	if _, err := toFloat("f", 0, types.KindFloat32, value.Float(math.MaxFloat64)); !stderrors.Is(err, errors.ErrArgumentTypeMismatch) {
		t.Errorf("f32 overflow: err = %v", err)
	}
	if _, err := toFloat("f", 0, types.KindFloat64, value.Bool(true)); !stderrors.Is(err, errors.ErrArgumentTypeMismatch) {
		t.Errorf("bool -> f64: err = %v", err)
	}
}

func TestFits(t *testing.T) {
	if !fitsSigned(math.MinInt64, 64) || !fitsUnsigned(math.MaxUint64, 64) {
		t.Error("64-bit values always fit")
	}
	if fitsSigned(32768, 16) || !fitsSigned(-32768, 16) {
		t.Error("i16 bounds")
	}
	if fitsUnsigned(1<<32, 32) || !fitsUnsigned(1<<32-1, 32) {
		t.Error("u32 bounds")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		typ  types.Type
		raw  uint64
		want value.Value
	}{
		{"i32 minus one", types.Int32, math.MaxUint64, value.Int(-1)},
		{"u8 255", types.UInt8, 0xff, value.Int(255)},
		{"u8 truncates widened bits", types.UInt8, 0xffffffffffffff01, value.Int(1)},
		{"i8 sign", types.Int8, 0x80, value.Int(-128)},
		{"i16", types.Int16, 0xffff, value.Int(-1)},
		{"u16", types.UInt16, 0xffff, value.Int(65535)},
		{"u32", types.UInt32, 0xffffffff, value.Int(4294967295)},
		{"i64 exact", types.Int64, 1<<53 + 1, value.Int(1<<53 + 1)},
		{"u64 exact", types.UInt64, math.MaxUint64, value.Uint(math.MaxUint64)},
		{"f64", types.Float64, math.Float64bits(2.5), value.Float(2.5)},
		{"void", types.Void, 12345, value.Null{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tt.raw
			got, err := decode("f", tt.typ, unsafe.Pointer(&buf))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestDecode_Float32(t *testing.T) {
	var buf [2]uint32
	*(*float32)(unsafe.Pointer(&buf[0])) = 1.25
	got, err := decode("f", types.Float32, unsafe.Pointer(&buf[0]))
	if err != nil {
		t.Fatal(err)
	}
	if got != value.Float(1.25) {
		t.Errorf("got %v", got)
	}
}

func TestDecode_Pointers(t *testing.T) {
	var buf unsafe.Pointer
	got, err := decode("f", types.String, unsafe.Pointer(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if !value.IsNull(got) {
		t.Errorf("NULL string result = %v, want null", got)
	}

	got, err = decode("f", types.Pointer, unsafe.Pointer(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := got.(value.Pointer); !ok || p.Addr != nil {
		t.Errorf("NULL pointer result = %v", got)
	}
}

func TestDecode_Struct(t *testing.T) {
	var buf [4]uint64
	_, err := decode("f", types.MustStruct(types.Int32, types.Int32), unsafe.Pointer(&buf[0]))
	if !stderrors.Is(err, errors.ErrUnsupportedResultType) {
		t.Errorf("err = %v, want unsupported_result_type", err)
	}
}
