package table

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/gomlayout/internal/style"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

// MalformedRow describes a body row whose length did not match the column count.
type MalformedRow struct {
	Row  int
	Want int
	Got  int
}

func (m MalformedRow) String() string {
	return fmt.Sprintf("body row %d has %d cells, expected %d", m.Row, m.Got, m.Want)
}

// Builder turns table fields into dimensioned tables.
type Builder struct {
	Fonts         text.Fonts
	MinCellHeight float64
	Logger        *zap.Logger
}

// NewBuilder creates a builder measuring text with fonts.
func NewBuilder(fonts text.Fonts, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{Fonts: fonts, Logger: log}
}

// ParseBody decodes a table field value: a JSON (or YAML) list of rows.
// An empty value is an empty body.
func ParseBody(value string) ([][]string, error) {
	var body [][]string
	if value == "" {
		return body, nil
	}
	if err := yaml.Unmarshal([]byte(value), &body); err != nil {
		return nil, fmt.Errorf("table body is not a list of rows: %w", err)
	}
	return body, nil
}

// BodyRows returns the part of body a fragment covers and the index of its
// first row. A nil range is the whole body; other ranges are clamped to it.
func BodyRows(body [][]string, r *template.Range) ([][]string, int) {
	if r == nil {
		return body, 0
	}
	start := min(max(r.Start, 0), len(body))
	end := min(max(r.End, start), len(body))
	return body[start:end], start
}

// Build measures a table field with the given body. Rows shorter than the
// column count get empty cells, longer rows are truncated; both are reported
// as malformed. pageWidth caps the table at the right page edge when positive.
func (b *Builder) Build(s *template.Schema, body [][]string, pageWidth float64) (*Table, []MalformedRow) {
	cols := columnCount(s, body)
	width := s.Width
	if pageWidth > 0 && s.Position.X+width > pageWidth {
		width = math.Max(0, pageWidth-s.Position.X)
	}

	t := &Table{
		Columns:  computeColumnWidths(s.HeadWidthPercentages, width, cols),
		ShowHead: s.ShowHead,
		Width:    width,
	}

	base := style.NewCascade().Add(style.SourceTable, s.TableStyles.Layer())
	head := base.With(style.SourceSection, s.HeadStyles)
	bodyStyles := base.With(style.SourceSection, s.BodyStyles)

	for i, raw := range s.Head {
		cells, _ := normalizeRow(raw, cols)
		t.Head = append(t.Head, b.buildRow(s, head, template.SectionHead, i, -1, cells, t.Columns))
	}

	var malformed []MalformedRow
	for i, raw := range body {
		cells, ok := normalizeRow(raw, cols)
		if !ok {
			m := MalformedRow{Row: i, Want: cols, Got: len(raw)}
			malformed = append(malformed, m)
			b.Logger.Warn("Malformed table body", zap.String("field", s.Name), zap.Stringer("row", m))
		}
		section := bodyStyles
		if i%2 == 0 && s.AlternateBackgroundColor != "" {
			section = section.With(style.SourceAlternateRow, style.Layer{BackgroundColor: style.Ptr(s.AlternateBackgroundColor)})
		}
		t.Body = append(t.Body, b.buildRow(s, section, template.SectionBody, i, i, cells, t.Columns))
	}
	return t, malformed
}

func (b *Builder) buildRow(s *template.Schema, section *style.Cascade, name template.Section, row, index int, cells []string, cols []Column) Row {
	r := Row{Cells: make([]Cell, len(cols)), Index: index}
	for c, col := range cols {
		cascade := section.With(style.SourceColumn, s.ColumnStyles[c])
		for _, o := range s.CellStyles {
			if o.Section == name && o.Row == row && o.Column == c {
				cascade = cascade.With(style.SourceCell, o.Style)
			}
		}
		cell := b.measureCell(cells[c], col.Width, cascade.Compute().CellStyle)
		r.Cells[c] = cell
		r.Height = math.Max(r.Height, cell.Height)
	}
	return r
}

// measureCell wraps content to the cell's inner width and derives its height:
// lines × line advance + vertical padding, never below the minimum height.
func (b *Builder) measureCell(content string, width float64, st style.CellStyle) Cell {
	font := text.Font{
		Name:             st.FontName,
		Size:             st.FontSize,
		LineHeight:       st.LineHeight,
		CharacterSpacing: st.CharacterSpacing,
	}
	lines := text.SplitTextToLines(b.Fonts.For(st.FontName), content, font, width-st.Padding.Horizontal())
	h := float64(len(lines))*font.LineAdvance() + st.Padding.Vertical()
	h = math.Max(h, math.Max(st.MinCellHeight, b.MinCellHeight))
	return Cell{Text: lines, Width: width, Height: h, Style: st}
}

// columnCount is the widest header row; without a header it is the larger of
// the declared widths and the widest body row.
func columnCount(s *template.Schema, body [][]string) int {
	n := 0
	for _, row := range s.Head {
		n = max(n, len(row))
	}
	if n > 0 {
		return n
	}
	n = len(s.HeadWidthPercentages)
	for _, row := range body {
		n = max(n, len(row))
	}
	return n
}

// computeColumnWidths resolves declared percentages of the table width and
// shares what is left evenly among columns without a declared width.
func computeColumnWidths(percentages []float64, totalWidth float64, cols int) []Column {
	columns := make([]Column, cols)
	declared := 0.0
	undeclared := 0
	for i := range columns {
		columns[i].Index = i
		if i < len(percentages) && percentages[i] > 0 {
			columns[i].Width = totalWidth * percentages[i] / 100
			declared += columns[i].Width
		} else {
			undeclared++
		}
	}
	if undeclared == 0 {
		return columns
	}
	each := math.Max(0, totalWidth-declared) / float64(undeclared)
	for i := range columns {
		if columns[i].Width == 0 {
			columns[i].Width = each
		}
	}
	return columns
}

func normalizeRow(raw []string, cols int) ([]string, bool) {
	if len(raw) == cols {
		return raw, true
	}
	out := make([]string, cols)
	copy(out, raw)
	return out, false
}
