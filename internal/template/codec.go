package template

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFromPath picks the format from a file extension, YAML by default.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode reads a template from YAML or JSON.
func Decode(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read template: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a template from YAML or JSON bytes.
func Unmarshal(data []byte) (*Template, error) {
	t := &Template{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("unable to decode template: %w", err)
	}
	for i, s := range t.BasePdf.StaticSchema {
		if s == nil {
			return nil, fmt.Errorf("static field %d is empty", i)
		}
	}
	for i, p := range t.Pages {
		if p == nil {
			t.Pages[i] = NewPage()
		}
	}
	return t, nil
}

// Encode writes a template in the requested format.
func Encode(w io.Writer, t *Template, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("unable to encode template: %w", err)
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("unable to encode template: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("unable to encode template: %w", err)
		}
	}
	return nil
}

// Record holds the input value of each field, keyed by field name.
type Record map[string]string

// Value returns the value a field renders: its content when read-only,
// otherwise the record entry.
func (r Record) Value(s *Schema) string {
	if s.ReadOnly {
		return s.Content
	}
	return r[s.Name]
}

// DecodeRecord reads a record from YAML or JSON. Scalar values are kept as
// text; lists and mappings (a table body given inline, for example) are
// stored as their JSON encoding, the form table fields expect.
func DecodeRecord(r io.Reader) (Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read record: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to decode record: %w", err)
	}
	rec := Record{}
	if len(doc.Content) == 0 {
		return rec, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("record must be a mapping, line %d", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		if val.Kind == yaml.ScalarNode {
			if val.Tag != "!!null" {
				rec[key] = val.Value
			}
			continue
		}
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("record value %q: %w", key, err)
		}
		js, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("record value %q: %w", key, err)
		}
		rec[key] = string(js)
	}
	return rec, nil
}
