package template

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Page is an ordered mapping from field name to schema. The order is the
// authored order and is kept by every derived page.
type Page struct {
	keys   []string
	fields map[string]*Schema
}

// NewPage creates a page holding the given schemas in order.
func NewPage(schemas ...*Schema) *Page {
	p := &Page{fields: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		p.Set(s.Name, s)
	}
	return p
}

// Set stores a schema under name. Existing names keep their position.
func (p *Page) Set(name string, s *Schema) {
	if p.fields == nil {
		p.fields = make(map[string]*Schema)
	}
	if _, ok := p.fields[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.fields[name] = s
}

// Get returns the schema stored under name.
func (p *Page) Get(name string) (*Schema, bool) {
	s, ok := p.fields[name]
	return s, ok
}

// Keys returns the field names in order.
func (p *Page) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of fields.
func (p *Page) Len() int {
	return len(p.keys)
}

// Schemas returns the schemas in order.
func (p *Page) Schemas() []*Schema {
	out := make([]*Schema, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, p.fields[k])
	}
	return out
}

// Clone returns a deep copy of p.
func (p *Page) Clone() *Page {
	c := &Page{keys: p.Keys(), fields: make(map[string]*Schema, len(p.fields))}
	for k, s := range p.fields {
		c.fields[k] = s.Clone()
	}
	return c
}

// UnmarshalYAML accepts a mapping of name to schema, in document order, or a
// list of schemas carrying their own names.
func (p *Page) UnmarshalYAML(n *yaml.Node) error {
	*p = Page{fields: make(map[string]*Schema)}
	if n.Tag == "!!null" {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			s := &Schema{}
			if err := n.Content[i+1].Decode(s); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			if s.Name == "" {
				s.Name = name
			}
			if _, dup := p.fields[name]; dup {
				return fmt.Errorf("line %d: duplicate field %q", n.Content[i].Line, name)
			}
			p.Set(name, s)
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			s := &Schema{}
			if err := item.Decode(s); err != nil {
				return err
			}
			if s.Name == "" {
				return fmt.Errorf("line %d: field without a name", item.Line)
			}
			if _, dup := p.fields[s.Name]; dup {
				return fmt.Errorf("line %d: duplicate field %q", item.Line, s.Name)
			}
			p.Set(s.Name, s)
		}
	default:
		return fmt.Errorf("line %d: page must be a mapping or a list", n.Line)
	}
	return nil
}

// MarshalYAML emits the page as a mapping in field order.
func (p *Page) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range p.keys {
		v := &yaml.Node{}
		if err := v.Encode(p.fields[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, v)
	}
	return n, nil
}

// MarshalJSON emits the page as an object in field order.
func (p *Page) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.fields[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes through the YAML decoder, which keeps object key order.
func (p *Page) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, p)
}
