package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/dynffi/errors"
)

// Type describes one ABI-level type. The zero value is Void.
// Types are immutable: struct fields are copied in and out.
type Type struct {
	fields []Type
	kind   Kind
}

var (
	Void    = Type{kind: KindVoid}
	Int8    = Type{kind: KindInt8}
	Int16   = Type{kind: KindInt16}
	Int32   = Type{kind: KindInt32}
	Int64   = Type{kind: KindInt64}
	UInt8   = Type{kind: KindUInt8}
	UInt16  = Type{kind: KindUInt16}
	UInt32  = Type{kind: KindUInt32}
	UInt64  = Type{kind: KindUInt64}
	Float32 = Type{kind: KindFloat32}
	Float64 = Type{kind: KindFloat64}
	String  = Type{kind: KindString}
	Pointer = Type{kind: KindPointer}
)

// Scalar returns the descriptor of a non-struct kind.
func Scalar(k Kind) (Type, error) {
	if k == KindStruct || int(k) >= len(kindNames) {
		return Type{}, errors.InvalidTypeDescriptor(nil, k, "not a scalar kind: "+k.String())
	}
	return Type{kind: k}, nil
}

// Struct builds a struct descriptor from its ordered fields.
func Struct(fields ...Type) (Type, error) {
	if len(fields) == 0 {
		return Type{}, errors.InvalidTypeDescriptor(nil, nil, "struct must have at least one field")
	}
	for i, f := range fields {
		if f.kind == KindVoid {
			return Type{}, errors.InvalidTypeDescriptor([]string{strconv.Itoa(i)}, f, "void is not a valid struct field")
		}
	}
	cp := make([]Type, len(fields))
	copy(cp, fields)
	return Type{kind: KindStruct, fields: cp}, nil
}

// MustStruct is Struct that panics on error. For static descriptors.
func MustStruct(fields ...Type) Type {
	t, err := Struct(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Type) Kind() Kind { return t.kind }

// NumFields returns the number of struct fields, 0 for scalars.
func (t Type) NumFields() int { return len(t.fields) }

// Field returns the i-th struct field.
func (t Type) Field(i int) Type { return t.fields[i] }

// Fields returns a copy of the struct fields.
func (t Type) Fields() []Type {
	if len(t.fields) == 0 {
		return nil
	}
	cp := make([]Type, len(t.fields))
	copy(cp, t.fields)
	return cp
}

// Equal reports structural equality.
func (t Type) Equal(u Type) bool {
	if t.kind != u.kind || len(t.fields) != len(u.fields) {
		return false
	}
	for i := range t.fields {
		if !t.fields[i].Equal(u.fields[i]) {
			return false
		}
	}
	return true
}

func (t Type) String() string {
	if t.kind != KindStruct {
		return t.kind.String()
	}
	var b strings.Builder
	b.WriteString("struct{")
	for i, f := range t.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Canonical returns the ABI-canonical form of t: String becomes Pointer,
// recursively. Two descriptors with equal canonical forms lower to the same
// native type.
func Canonical(t Type) Type {
	switch t.kind {
	case KindString:
		return Pointer
	case KindStruct:
		fields := make([]Type, len(t.fields))
		for i, f := range t.fields {
			fields[i] = Canonical(f)
		}
		return Type{kind: KindStruct, fields: fields}
	default:
		return t
	}
}

// Lookup resolves a type token.
func Lookup(name string) (Type, bool) {
	k, ok := tokens[name]
	if !ok {
		return Type{}, false
	}
	return Type{kind: k}, true
}

// Parse builds a descriptor from a declarative description:
//   - a token string ("i32", "unsigned char", "char*", ...)
//   - an ordered list of descriptions ([]any, []string, []Type), read as a struct
//   - an existing Type
func Parse(desc any) (Type, error) {
	return parse(desc, nil)
}

func parse(desc any, path []string) (Type, error) {
	switch d := desc.(type) {
	case Type:
		return d, nil
	case string:
		t, ok := Lookup(d)
		if !ok {
			return Type{}, errors.InvalidTypeDescriptor(path, d, fmt.Sprintf("unknown type %q", d))
		}
		return t, nil
	case []Type:
		return structAt(d, path)
	case []string:
		fields := make([]Type, len(d))
		for i, s := range d {
			f, err := parse(s, appendPath(path, i))
			if err != nil {
				return Type{}, err
			}
			fields[i] = f
		}
		return structAt(fields, path)
	case []any:
		fields := make([]Type, len(d))
		for i, s := range d {
			f, err := parse(s, appendPath(path, i))
			if err != nil {
				return Type{}, err
			}
			fields[i] = f
		}
		return structAt(fields, path)
	case map[string]any:
		return Type{}, errors.InvalidTypeDescriptor(path, desc, "struct fields must be an ordered list, not an unordered map")
	case nil:
		return Type{}, errors.InvalidTypeDescriptor(path, nil, "missing type")
	default:
		return Type{}, errors.InvalidTypeDescriptor(path, desc, fmt.Sprintf("unsupported descriptor %T", desc))
	}
}

func structAt(fields []Type, path []string) (Type, error) {
	t, err := Struct(fields...)
	if err != nil {
		e := err.(*errors.Error)
		e.Path = append(append([]string(nil), path...), e.Path...)
		return Type{}, e
	}
	return t, nil
}

func appendPath(path []string, i int) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, strconv.Itoa(i))
}
