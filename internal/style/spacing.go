package style

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spacing holds per-side lengths in mm, used for padding and border widths.
type Spacing struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

// Uniform returns a Spacing with all four sides set to v.
func Uniform(v float64) Spacing {
	return Spacing{Top: v, Right: v, Bottom: v, Left: v}
}

// Vertical returns Top + Bottom.
func (s Spacing) Vertical() float64 {
	return s.Top + s.Bottom
}

// Horizontal returns Left + Right.
func (s Spacing) Horizontal() float64 {
	return s.Left + s.Right
}

// ParseSpacing parses shorthand like
//   - "5"
//   - "5 2"
//   - "5 2 3"
//   - "5 2 3 1"
//
// in top, right, bottom, left order. Values may carry an "mm" suffix.
func ParseSpacing(value string) (Spacing, error) {
	parts := strings.Fields(strings.ReplaceAll(value, ",", " "))
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSuffix(p, "mm"), 64)
		if err != nil {
			return Spacing{}, fmt.Errorf("invalid length %q: %w", p, err)
		}
		values = append(values, v)
	}
	return spacingFromValues(values)
}

func spacingFromValues(v []float64) (Spacing, error) {
	switch len(v) {
	case 1:
		return Uniform(v[0]), nil
	case 2:
		return Spacing{Top: v[0], Right: v[1], Bottom: v[0], Left: v[1]}, nil
	case 3:
		return Spacing{Top: v[0], Right: v[1], Bottom: v[2], Left: v[1]}, nil
	case 4:
		return Spacing{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}, nil
	default:
		return Spacing{}, fmt.Errorf("spacing needs 1 to 4 values, got %d", len(v))
	}
}

// UnmarshalYAML accepts a number or shorthand string, a list of one to four
// numbers, or a mapping with top/right/bottom/left keys.
func (s *Spacing) UnmarshalYAML(n *yaml.Node) error {
	var err error
	switch n.Kind {
	case yaml.ScalarNode:
		*s, err = ParseSpacing(n.Value)
	case yaml.SequenceNode:
		var values []float64
		if err = n.Decode(&values); err == nil {
			*s, err = spacingFromValues(values)
		}
	case yaml.MappingNode:
		type plain Spacing
		var p plain
		if err = n.Decode(&p); err == nil {
			*s = Spacing(p)
		}
	default:
		err = fmt.Errorf("line %d: unexpected spacing value", n.Line)
	}
	return err
}
