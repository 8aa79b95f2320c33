package style

import (
	"sort"
)

// Source represents where a style layer comes from. Higher sources win.
type Source int

const (
	SourceDefault Source = iota
	SourceTable
	SourceSection
	SourceAlternateRow
	SourceColumn
	SourceCell
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceTable:
		return "table"
	case SourceSection:
		return "section"
	case SourceAlternateRow:
		return "alternate-row"
	case SourceColumn:
		return "column"
	case SourceCell:
		return "cell"
	}
	return "unknown"
}

// ComputedStyle is the result of a cascade together with the source that set
// each property.
type ComputedStyle struct {
	CellStyle
	sources map[string]Source
}

// SourceOf returns the layer that decided the property with the given key
// (the YAML name, e.g. "fontSize"). Unset keys report SourceDefault.
func (c ComputedStyle) SourceOf(key string) Source {
	return c.sources[key]
}

type sourcedLayer struct {
	source Source
	layer  Layer
}

// Cascade collects style layers and merges them key by key over Defaults.
// Layers are applied in Source order; layers of the same source are applied
// in the order they were added.
type Cascade struct {
	base   CellStyle
	layers []sourcedLayer
}

// NewCascade creates a cascade over the built-in defaults.
func NewCascade() *Cascade {
	return &Cascade{base: Defaults()}
}

// NewCascadeFrom creates a cascade over the given base style.
func NewCascadeFrom(base CellStyle) *Cascade {
	return &Cascade{base: base}
}

// Add appends a layer and returns the cascade for chaining. Empty layers are
// ignored.
func (c *Cascade) Add(source Source, l Layer) *Cascade {
	if !l.IsEmpty() {
		c.layers = append(c.layers, sourcedLayer{source: source, layer: l})
	}
	return c
}

// With returns a copy of the cascade with one more layer, leaving c untouched.
func (c *Cascade) With(source Source, l Layer) *Cascade {
	n := &Cascade{base: c.base, layers: make([]sourcedLayer, len(c.layers), len(c.layers)+1)}
	copy(n.layers, c.layers)
	return n.Add(source, l)
}

// Compute merges all layers into a plain style.
func (c *Cascade) Compute() ComputedStyle {
	layers := make([]sourcedLayer, len(c.layers))
	copy(layers, c.layers)
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].source < layers[j].source
	})

	cs := ComputedStyle{CellStyle: c.base, sources: make(map[string]Source)}
	for _, sl := range layers {
		applyLayer(&cs, sl.layer, sl.source)
	}
	return cs
}

// Resolve is a shortcut for merging layers given in precedence order over
// the defaults.
func Resolve(layers ...Layer) CellStyle {
	cs := ComputedStyle{CellStyle: Defaults(), sources: make(map[string]Source)}
	for _, l := range layers {
		applyLayer(&cs, l, SourceCell)
	}
	return cs.CellStyle
}

func applyLayer(cs *ComputedStyle, l Layer, source Source) {
	set(cs, "fontName", l.FontName, &cs.FontName, source)
	set(cs, "fontSize", l.FontSize, &cs.FontSize, source)
	set(cs, "lineHeight", l.LineHeight, &cs.LineHeight, source)
	set(cs, "characterSpacing", l.CharacterSpacing, &cs.CharacterSpacing, source)
	set(cs, "alignment", l.Alignment, &cs.Alignment, source)
	set(cs, "verticalAlignment", l.VerticalAlignment, &cs.VerticalAlignment, source)
	set(cs, "fontColor", l.FontColor, &cs.FontColor, source)
	set(cs, "backgroundColor", l.BackgroundColor, &cs.BackgroundColor, source)
	set(cs, "borderColor", l.BorderColor, &cs.BorderColor, source)
	set(cs, "borderWidth", l.BorderWidth, &cs.BorderWidth, source)
	set(cs, "padding", l.Padding, &cs.Padding, source)
	set(cs, "minCellHeight", l.MinCellHeight, &cs.MinCellHeight, source)
}

func set[T any](cs *ComputedStyle, key string, v *T, dst *T, source Source) {
	if v == nil {
		return
	}
	*dst = *v
	cs.sources[key] = source
}
