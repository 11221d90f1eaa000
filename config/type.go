package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/dynffi/types"
)

// structKey introduces an explicit struct: {struct: [i32, i32]}.
const structKey = "struct"

// TypeConfig is a type description read from a manifest. It is either a
// token (Name) or a struct (Fields, in declaration order). Labels holds the
// field names of an ordered mapping; they are kept for display only.
type TypeConfig struct {
	Name   string
	Fields []TypeConfig
	Labels []string
}

// Token returns a scalar description.
func Token(name string) TypeConfig { return TypeConfig{Name: name} }

// IsStruct reports whether the description is a struct.
func (c TypeConfig) IsStruct() bool { return c.Name == "" }

// Describe returns the generic form types.Parse accepts: a token string or
// an ordered []any of field descriptions.
func (c TypeConfig) Describe() any {
	if !c.IsStruct() {
		return c.Name
	}
	fields := make([]any, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = f.Describe()
	}
	return fields
}

// Type parses the description.
func (c TypeConfig) Type() (types.Type, error) {
	return types.Parse(c.Describe())
}

func (c TypeConfig) String() string {
	if !c.IsStruct() {
		return c.Name
	}
	var b strings.Builder
	b.WriteString("struct{")
	for i, f := range c.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if i < len(c.Labels) {
			b.WriteString(c.Labels[i])
			b.WriteString(": ")
		}
		b.WriteString(f.String())
	}
	b.WriteByte('}')
	return b.String()
}

// UnmarshalYAML reads a scalar token, a sequence of fields, an explicit
// {struct: ...} wrapper, or an ordered mapping of field names to types.
// Mapping order is document order.
func (c *TypeConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		return c.UnmarshalYAML(node.Alias)
	}

	*c = TypeConfig{}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return fmt.Errorf("line %d: missing type", node.Line)
		}
		c.Name = node.Value
		return nil

	case yaml.SequenceNode:
		c.Fields = make([]TypeConfig, len(node.Content))
		for i, n := range node.Content {
			if err := c.Fields[i].UnmarshalYAML(n); err != nil {
				return err
			}
		}
		return nil

	case yaml.MappingNode:
		if len(node.Content) == 2 && node.Content[0].Value == structKey {
			if err := c.UnmarshalYAML(node.Content[1]); err != nil {
				return err
			}
			if !c.IsStruct() {
				return fmt.Errorf("line %d: %s needs a list or mapping of fields", node.Line, structKey)
			}
			return nil
		}
		n := len(node.Content) / 2
		c.Fields = make([]TypeConfig, n)
		c.Labels = make([]string, n)
		for i := 0; i < n; i++ {
			c.Labels[i] = node.Content[2*i].Value
			if err := c.Fields[i].UnmarshalYAML(node.Content[2*i+1]); err != nil {
				return fmt.Errorf("field %q: %w", c.Labels[i], err)
			}
		}
		return nil

	default:
		return fmt.Errorf("line %d: unsupported type description", node.Line)
	}
}

// UnmarshalJSON accepts the same forms as UnmarshalYAML. Object keys keep
// their order in the document.
func (c *TypeConfig) UnmarshalJSON(data []byte) error {
	*c = TypeConfig{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("missing type")
	}

	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &c.Name); err != nil {
			return err
		}
		if c.Name == "" {
			return fmt.Errorf("missing type")
		}
		return nil

	case '[':
		return json.Unmarshal(data, &c.Fields)

	case '{':
		dec := json.NewDecoder(bytes.NewReader(data))
		if _, err := dec.Token(); err != nil {
			return err
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			var field TypeConfig
			if err := dec.Decode(&field); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			c.Labels = append(c.Labels, key)
			c.Fields = append(c.Fields, field)
		}
		if len(c.Labels) == 1 && c.Labels[0] == structKey {
			inner := c.Fields[0]
			if !inner.IsStruct() {
				return fmt.Errorf("%s needs a list or object of fields", structKey)
			}
			*c = inner
		}
		return nil

	case 'n':
		return fmt.Errorf("missing type")

	default:
		return fmt.Errorf("unsupported type description %s", data)
	}
}

// MarshalYAML writes tokens as scalars, labelled structs as mappings and
// plain structs as sequences.
func (c TypeConfig) MarshalYAML() (any, error) {
	if !c.IsStruct() {
		return c.Name, nil
	}
	if len(c.Labels) == len(c.Fields) && len(c.Labels) > 0 {
		node := &yaml.Node{Kind: yaml.MappingNode}
		for i, f := range c.Fields {
			var v yaml.Node
			if err := v.Encode(f); err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: c.Labels[i]},
				&v)
		}
		return node, nil
	}
	return c.Fields, nil
}

// MarshalJSON mirrors MarshalYAML. Labelled fields keep their order.
func (c TypeConfig) MarshalJSON() ([]byte, error) {
	if !c.IsStruct() {
		return json.Marshal(c.Name)
	}
	if len(c.Labels) != len(c.Fields) || len(c.Labels) == 0 {
		if c.Fields == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Fields)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range c.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Labels[i])
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSONSchema describes the three accepted forms.
func (TypeConfig) JSONSchema() *jsonschema.Schema {
	names := make([]string, 0, len(types.Tokens()))
	for name := range types.Tokens() {
		names = append(names, name)
	}
	sort.Strings(names)
	enum := make([]any, len(names))
	for i, n := range names {
		enum[i] = n
	}

	return &jsonschema.Schema{
		Description: "A type token, an ordered list of struct fields, or a mapping of field names to types.",
		OneOf: []*jsonschema.Schema{
			{Type: "string", Enum: enum},
			{Type: "array", Items: &jsonschema.Schema{}},
			{Type: "object", AdditionalProperties: &jsonschema.Schema{}},
		},
	}
}
