package symbol

import (
	"fmt"
	"strings"

	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/internal/native"
	"github.com/wippyai/dynffi/types"
)

// Configuration keys read by Parse.
const (
	KeyName       = "name"
	KeyParameters = "parameters"
	KeyResult     = "result"
)

// Shape is a named native function signature with fixed arity.
type Shape struct {
	Name   string
	Params []types.Type
	Result types.Type
}

// New builds a shape from already parsed descriptors.
func New(name string, params []types.Type, result types.Type) (Shape, error) {
	if name == "" {
		return Shape{}, errors.InvalidSymbolShape("", "name must not be empty", nil)
	}
	cp := make([]types.Type, len(params))
	for i, p := range params {
		if p.Kind() == types.KindVoid {
			return Shape{}, errors.New(errors.PhaseConfig, errors.KindInvalidSymbolShape).
				Symbol(name).
				Index(i).
				Detail("void is not a valid parameter type").
				Build()
		}
		cp[i] = p
	}
	return Shape{Name: name, Params: cp, Result: result}, nil
}

// Parse reads a shape from its declarative form:
//
//	{"name": "strlen", "parameters": []any{"string"}, "result": "u64"}
//
// All three keys are required. parameters may be empty.
func Parse(cfg map[string]any) (Shape, error) {
	rawName, ok := cfg[KeyName]
	if !ok {
		return Shape{}, errors.InvalidSymbolShape("", "missing "+KeyName, nil)
	}
	name, ok := rawName.(string)
	if !ok || name == "" {
		return Shape{}, errors.InvalidSymbolShape("", fmt.Sprintf("%s must be a non-empty string, got %T", KeyName, rawName), nil)
	}

	rawParams, ok := cfg[KeyParameters]
	if !ok {
		return Shape{}, errors.InvalidSymbolShape(name, "missing "+KeyParameters, nil)
	}
	params, err := parseParams(rawParams)
	if err != nil {
		return Shape{}, errors.InvalidSymbolShape(name, "invalid "+KeyParameters, err)
	}

	rawResult, ok := cfg[KeyResult]
	if !ok {
		return Shape{}, errors.InvalidSymbolShape(name, "missing "+KeyResult, nil)
	}
	result, err := types.Parse(rawResult)
	if err != nil {
		return Shape{}, errors.InvalidSymbolShape(name, "invalid "+KeyResult, err)
	}

	return Shape{Name: name, Params: params, Result: result}, nil
}

func parseParams(raw any) ([]types.Type, error) {
	var items []any
	switch p := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		items = p
	case []string:
		items = make([]any, len(p))
		for i, s := range p {
			items[i] = s
		}
	case []types.Type:
		out := make([]types.Type, len(p))
		copy(out, p)
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of type descriptions, got %T", raw)
	}

	out := make([]types.Type, len(items))
	for i, item := range items {
		t, err := types.Parse(item)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Index = i
			}
			return nil, err
		}
		if t.Kind() == types.KindVoid {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidTypeDescriptor).
				Index(i).
				Value(item).
				Detail("void is not a valid parameter type").
				Build()
		}
		out[i] = t
	}
	return out, nil
}

// Arity returns the number of declared parameters.
func (s Shape) Arity() int { return len(s.Params) }

// Compile builds the call interface for the shape. The result is owned by
// the caller and must be released with Free.
func (s Shape) Compile() (*native.CallInterface, error) {
	ci, err := native.Prepare(s.Params, s.Result)
	if err != nil {
		if err == native.ErrUnavailable {
			return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
				Symbol(s.Name).
				Cause(err).
				Build()
		}
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidSymbolShape).
			Symbol(s.Name).
			Detail("prepare call interface").
			Cause(err).
			Build()
	}
	return ci, nil
}

// String returns the signature, e.g. "strlen(string) -> u64".
func (s Shape) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	b.WriteString(s.Result.String())
	return b.String()
}
