package text

import (
	"strings"
	"sync"
	"unicode/utf8"

	"codeberg.org/go-pdf/fpdf"
)

// Measurer reports the advance width of a string, in points, at a given font size.
type Measurer interface {
	StringWidth(s string, size float64) float64
}

// CoreMeasurer measures text with the metrics of the PDF core fonts
// (Helvetica, Times, Courier) as known to fpdf.
type CoreMeasurer struct {
	family string
	style  string

	once      sync.Once
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewCoreMeasurer creates a measurer for a core font. The font name is
// resolved the same way template font names are, so "Times-Bold",
// "serif" or "Courier New" all work.
func NewCoreMeasurer(fontName string) *CoreMeasurer {
	family, style := ResolveCoreFont(fontName)
	return &CoreMeasurer{family: family, style: style}
}

func (m *CoreMeasurer) init() {
	m.pdf = fpdf.New("P", "pt", "A4", "")
	m.pdf.SetFont(m.family, m.style, 12)
	m.translate = m.pdf.UnicodeTranslatorFromDescriptor("")
}

// StringWidth returns the width of s in points. fpdf keeps the current font
// as document state, so calls are serialized.
func (m *CoreMeasurer) StringWidth(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	m.once.Do(m.init)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(m.family, m.style, size)
	return m.pdf.GetStringWidth(m.translate(s))
}

// ResolveCoreFont maps a template font name to a core PDF font family and style.
func ResolveCoreFont(name string) (string, string) {
	n := strings.ToLower(strings.TrimSpace(name))
	family := "Helvetica"
	switch {
	case strings.HasPrefix(n, "times"), n == "serif":
		family = "Times"
	case strings.HasPrefix(n, "courier"), n == "monospace":
		family = "Courier"
	}
	style := ""
	if strings.Contains(n, "bold") {
		style += "B"
	}
	if strings.Contains(n, "italic") || strings.Contains(n, "oblique") {
		style += "I"
	}
	return family, style
}

// FixedMeasurer gives every rune the same advance, expressed as a fraction of
// the font size. It makes wrapping results predictable.
type FixedMeasurer struct {
	Advance float64
}

// StringWidth returns runes × Advance × size.
func (m FixedMeasurer) StringWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * m.Advance * size
}
