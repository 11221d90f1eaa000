package main

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/wippyai/dynffi/types"
	"github.com/wippyai/dynffi/value"
)

// parseArgs converts command line text into values using the declared
// parameter types. Extra arguments are passed as strings so the library
// reports the arity mismatch.
func parseArgs(params []types.Type, raw []string) ([]value.Value, error) {
	out := make([]value.Value, len(raw))
	for i, s := range raw {
		if i >= len(params) {
			out[i] = value.String(s)
			continue
		}
		v, err := parseArg(s, params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseArg(s string, t types.Type) (value.Value, error) {
	k := t.Kind()
	if s == "null" && k != types.KindString {
		return value.Null{}, nil
	}

	switch {
	case k.IsInteger():
		switch s {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		}
		if k.IsSigned() || strings.HasPrefix(s, "-") {
			if n, err := strconv.ParseInt(s, 0, 64); err == nil {
				return value.Int(n), nil
			}
		}
		if n, err := strconv.ParseUint(s, 0, 64); err == nil {
			return value.Uint(n), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float(f), nil
		}
		return nil, fmt.Errorf("%q is not a number", s)

	case k.IsFloat():
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		return value.Float(f), nil

	case k == types.KindString:
		return value.String(s), nil

	case k == types.KindPointer:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an address", s)
		}
		return value.Ptr(addr(uintptr(n))), nil

	case k == types.KindStruct:
		// Rejected by the library with a structured error.
		return value.Aggregate{}, nil

	default:
		return nil, fmt.Errorf("cannot pass a %s argument", t)
	}
}

// addr reinterprets an integer typed by the user as an address.
func addr(n uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&n))
}

func formatValue(v value.Value) string {
	switch x := v.(type) {
	case nil, value.Null:
		return "null"
	case value.Pointer:
		return fmt.Sprintf("0x%x", uintptr(x.Addr))
	default:
		return x.String()
	}
}
