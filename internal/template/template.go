// Package template holds the document model the layout engine consumes and
// produces: pages of absolutely positioned fields on a fixed page geometry.
package template

import (
	"errors"
	"fmt"
)

// Padding indices.
const (
	PadTop = iota
	PadRight
	PadBottom
	PadLeft
)

// ErrNoPages is returned when a template holds no pages.
var ErrNoPages = errors.New("template has no pages")

// PageGeometry is the blank page every field is authored against. Lengths are
// in mm; Padding is top, right, bottom, left.
type PageGeometry struct {
	Width        float64    `yaml:"width" json:"width"`
	Height       float64    `yaml:"height" json:"height"`
	Padding      [4]float64 `yaml:"padding" json:"padding"`
	StaticSchema []*Schema  `yaml:"staticSchema,omitempty" json:"staticSchema,omitempty"`
}

// ContentHeight returns the usable height between top and bottom padding.
func (g PageGeometry) ContentHeight() float64 {
	return g.Height - g.Padding[PadTop] - g.Padding[PadBottom]
}

// ContentBottom returns the y coordinate where the bottom padding starts.
func (g PageGeometry) ContentBottom() float64 {
	return g.Height - g.Padding[PadBottom]
}

// Clone returns a deep copy of g.
func (g PageGeometry) Clone() PageGeometry {
	c := g
	if g.StaticSchema != nil {
		c.StaticSchema = make([]*Schema, len(g.StaticSchema))
		for i, s := range g.StaticSchema {
			c.StaticSchema[i] = s.Clone()
		}
	}
	return c
}

// Template is a document: a base page geometry and the authored pages.
type Template struct {
	BasePdf PageGeometry `yaml:"basePdf" json:"basePdf"`
	Pages   []*Page      `yaml:"schemas" json:"schemas"`
}

// Clone returns a deep copy of t.
func (t *Template) Clone() *Template {
	c := &Template{BasePdf: t.BasePdf.Clone(), Pages: make([]*Page, len(t.Pages))}
	for i, p := range t.Pages {
		c.Pages[i] = p.Clone()
	}
	return c
}

// Check performs the structural checks layout depends on: at least one page,
// non-negative sizes and unique static field names.
func (t *Template) Check() error {
	if len(t.Pages) == 0 {
		return ErrNoPages
	}
	for i, p := range t.Pages {
		if p == nil {
			return fmt.Errorf("page %d is missing", i)
		}
		for _, s := range p.Schemas() {
			if s.Width < 0 || s.Height < 0 {
				return fmt.Errorf("page %d: field %q has negative size", i, s.Name)
			}
		}
	}
	seen := make(map[string]struct{}, len(t.BasePdf.StaticSchema))
	for _, s := range t.BasePdf.StaticSchema {
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate static field %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
