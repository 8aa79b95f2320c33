package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// epsilon absorbs float noise when comparing widths, in mm.
const epsilon = 0.01

// Font represents the font properties that affect text measurement.
type Font struct {
	Name string
	// Size in points
	Size float64
	// LineHeight is a multiple of Size
	LineHeight float64
	// CharacterSpacing in points, added between runes
	CharacterSpacing float64
}

// LineAdvance returns the vertical space one line occupies, in mm.
func (f Font) LineAdvance() float64 {
	return PtToMm(f.Size) * f.LineHeight
}

// Width returns the width of s set in font f, in mm.
func Width(m Measurer, s string, f Font) float64 {
	w := m.StringWidth(s, f.Size)
	if n := utf8.RuneCountInString(s); n > 1 {
		w += float64(n-1) * f.CharacterSpacing
	}
	return PtToMm(w)
}

// SplitTextToLines splits text into lines no wider than maxWidth (mm).
// Hard line breaks are kept, words are wrapped greedily and a word wider than
// the line is broken between runes. A non-positive maxWidth disables wrapping.
func SplitTextToLines(m Measurer, s string, f Font, maxWidth float64) []string {
	s = norm.NFC.String(s)
	var lines []string
	for _, p := range splitParagraphs(s) {
		lines = append(lines, wrapParagraph(m, p, f, maxWidth)...)
	}
	return lines
}

// Height returns the height in mm that text occupies once wrapped to maxWidth.
func Height(m Measurer, s string, f Font, maxWidth float64) float64 {
	return float64(len(SplitTextToLines(m, s, f, maxWidth))) * f.LineAdvance()
}

func splitParagraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func wrapParagraph(m Measurer, p string, f Font, maxWidth float64) []string {
	if maxWidth <= 0 {
		return []string{p}
	}
	words := splitIntoWords(p)
	if len(words) == 0 {
		return []string{""}
	}

	fits := func(s string) bool { return Width(m, s, f) <= maxWidth+epsilon }

	var (
		lines   []string
		current string
	)
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if fits(candidate) {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
		if !fits(current) {
			pieces := breakWord(current, fits)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		}
	}
	return append(lines, current)
}

// breakWord cuts a word into pieces that fit, at least one rune each.
func breakWord(word string, fits func(string) bool) []string {
	var (
		pieces []string
		piece  []rune
	)
	for _, r := range word {
		if len(piece) > 0 && !fits(string(append(piece, r))) {
			pieces = append(pieces, string(piece))
			piece = piece[:0]
		}
		piece = append(piece, r)
	}
	return append(pieces, string(piece))
}

// splitIntoWords splits text into words
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, unicode.IsSpace)
}
