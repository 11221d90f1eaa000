package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/dynffi/errors"
	"github.com/wippyai/dynffi/symbol"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// Manifest names a shared library and the symbols to bind from it.
type Manifest struct {
	// Library is handed to the dynamic loader as is. Empty means the
	// running program.
	Library string         `yaml:"library" json:"library" jsonschema:"description=Path or soname of the shared library"`
	Symbols []SymbolConfig `yaml:"symbols" json:"symbols" validate:"required,min=1,unique=Name,dive" jsonschema:"required,minItems=1"`
}

// SymbolConfig is the declarative form of one symbol shape.
type SymbolConfig struct {
	Name       string       `yaml:"name" json:"name" validate:"required" jsonschema:"required,description=Exported function name"`
	Parameters []TypeConfig `yaml:"parameters" json:"parameters" validate:"required" jsonschema:"required"`
	Result     *TypeConfig  `yaml:"result" json:"result" validate:"required" jsonschema:"required"`
}

// Map returns the generic form symbol.Parse reads.
func (s SymbolConfig) Map() map[string]any {
	m := map[string]any{symbol.KeyName: s.Name}
	if s.Parameters != nil {
		params := make([]any, len(s.Parameters))
		for i, p := range s.Parameters {
			params[i] = p.Describe()
		}
		m[symbol.KeyParameters] = params
	}
	if s.Result != nil {
		m[symbol.KeyResult] = s.Result.Describe()
	}
	return m
}

// Shape parses the symbol.
func (s SymbolConfig) Shape() (symbol.Shape, error) {
	return symbol.Parse(s.Map())
}

// Shapes parses every symbol in declaration order.
func (m *Manifest) Shapes() ([]symbol.Shape, error) {
	shapes := make([]symbol.Shape, len(m.Symbols))
	for i, sc := range m.Symbols {
		shape, err := sc.Shape()
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = append([]string{"symbols", strconv.Itoa(i)}, e.Path...)
			}
			return nil, err
		}
		shapes[i] = shape
	}
	return shapes, nil
}

// Symbol returns the symbol called name.
func (m *Manifest) Symbol(name string) (SymbolConfig, bool) {
	for _, s := range m.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return SymbolConfig{}, false
}

// Validate checks required fields and unique symbol names.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return errors.InvalidConfig("manifest validation failed", err)
	}
	return nil
}

// Parse decodes and validates a YAML manifest. JSON documents are valid
// YAML and parse the same way. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, errors.InvalidConfig("decode manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseJSON decodes and validates a JSON manifest. Unknown fields are
// rejected.
func ParseJSON(data []byte) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, errors.InvalidConfig("decode manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads a manifest file. Files ending in .json use ParseJSON, all
// others Parse.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidConfig(fmt.Sprintf("read %s", path), err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return Parse(data)
}
