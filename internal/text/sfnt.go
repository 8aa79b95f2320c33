package text

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// SFNTMeasurer measures text with the glyph advances of a TrueType or
// OpenType font.
type SFNTMeasurer struct {
	f    *sfnt.Font
	upem fixed.Int26_6
}

// NewSFNTMeasurer parses font data and returns a measurer for it.
func NewSFNTMeasurer(data []byte) (*SFNTMeasurer, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font: %w", err)
	}
	return &SFNTMeasurer{f: f, upem: fixed.I(int(f.UnitsPerEm()))}, nil
}

// GoRegular returns a measurer backed by the embedded Go Regular font.
func GoRegular() *SFNTMeasurer {
	m, err := NewSFNTMeasurer(goregular.TTF)
	if err != nil {
		// embedded font is known to be valid
		panic(err)
	}
	return m
}

// StringWidth returns the kerned advance width of s in points. Runes missing
// from the font use the advance of glyph 0.
func (m *SFNTMeasurer) StringWidth(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	var (
		buf   sfnt.Buffer
		total fixed.Int26_6
		prev  sfnt.GlyphIndex
		first = true
	)
	for _, r := range s {
		idx, err := m.f.GlyphIndex(&buf, r)
		if err != nil {
			idx = 0
		}
		if !first {
			if k, err := m.f.Kern(&buf, prev, idx, m.upem, font.HintingNone); err == nil {
				total += k
			}
		}
		if adv, err := m.f.GlyphAdvance(&buf, idx, m.upem, font.HintingNone); err == nil {
			total += adv
		}
		prev, first = idx, false
	}
	return float64(total) / float64(m.upem) * size
}
