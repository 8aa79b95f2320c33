// Package oracle provides the dynamic height oracles the layout engine asks
// for the real height of a field's value.
package oracle

import (
	"context"
	"math"
	"strings"

	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

// Oracle returns the heights, in mm, a field needs to render value. Most
// fields report a single height; several heights are summed by the engine.
// Implementations must not modify s.
type Oracle interface {
	Measure(ctx context.Context, value string, s *template.Schema) ([]float64, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, value string, s *template.Schema) ([]float64, error)

// Measure calls f.
func (f Func) Measure(ctx context.Context, value string, s *template.Schema) ([]float64, error) {
	return f(ctx, value, s)
}

// Authored reports the authored height of every field. With it layout leaves
// a template unchanged.
type Authored struct{}

// Measure returns s.Height.
func (Authored) Measure(ctx context.Context, _ string, s *template.Schema) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []float64{s.Height}, nil
}

// Text measures text fields by wrapping the value to the field width.
type Text struct {
	Fonts text.Fonts
}

// Measure returns lines × line advance for the wrapped value, never less
// than the authored height. Blank values keep the authored height.
func (o Text) Measure(ctx context.Context, value string, s *template.Schema) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(value) == "" {
		return []float64{s.Height}, nil
	}
	font := text.Font{
		Name:             s.FontName,
		Size:             s.FontSizeOrDefault(),
		LineHeight:       s.LineHeightOrDefault(),
		CharacterSpacing: s.CharacterSpacing,
	}
	h := text.Height(o.Fonts.For(s.FontName), value, font, s.Width)
	return []float64{math.Max(s.Height, h)}, nil
}

// Dispatch routes each field to an oracle by its kind. Text kinds go to Text,
// kinds without an entry in ByKind go to Default.
type Dispatch struct {
	Text    Oracle
	Default Oracle
	ByKind  map[template.Kind]Oracle
}

// NewDispatch measures text with fonts and everything else by authored height.
func NewDispatch(fonts text.Fonts) *Dispatch {
	return &Dispatch{Text: Text{Fonts: fonts}, Default: Authored{}}
}

// Measure delegates to the oracle for the field's kind.
func (d *Dispatch) Measure(ctx context.Context, value string, s *template.Schema) ([]float64, error) {
	kind := s.Type.Kind()
	if o, ok := d.ByKind[kind]; ok {
		return o.Measure(ctx, value, s)
	}
	if kind == template.KindText && d.Text != nil {
		return d.Text.Measure(ctx, value, s)
	}
	return d.Default.Measure(ctx, value, s)
}
