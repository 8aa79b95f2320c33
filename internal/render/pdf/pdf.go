// Package pdf draws paged templates as wireframe PDF documents: every field
// as a labelled box, tables row by row, statics on every page.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/style"
	"github.com/gompdf/gomlayout/internal/table"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

// Renderer handles rendering to PDF
type Renderer struct {
	// Record supplies field values; without it boxes carry names only.
	Record template.Record
	// Builder measures table fragments.
	Builder *table.Builder
	Logger  *zap.Logger

	// DrawPadding outlines the content band on every page
	DrawPadding bool
	// RenderBackgrounds controls whether cell backgrounds are painted
	RenderBackgrounds bool
	// RenderBorders controls whether cell borders are painted
	RenderBorders bool

	tr func(string) string
}

// RenderOptions contains options for rendering
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a new PDF renderer measuring tables with fonts
func NewRenderer(fonts text.Fonts, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		Builder:           table.NewBuilder(fonts, log),
		Logger:            log,
		DrawPadding:       true,
		RenderBackgrounds: true,
		RenderBorders:     true,
	}
}

// Render writes tpl as a PDF document, one page per output page
func (r *Renderer) Render(w io.Writer, tpl *template.Template, options RenderOptions) error {
	g := tpl.BasePdf
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid page size %.2fx%.2fmm", g.Width, g.Height)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)
	pdf.SetFont("Helvetica", "", 8)
	r.tr = pdf.UnicodeTranslatorFromDescriptor("")

	for i, page := range tpl.Pages {
		pdf.AddPage()
		if r.DrawPadding {
			r.renderPadding(pdf, g)
		}
		for _, s := range g.StaticSchema {
			r.renderField(pdf, g, s, true)
		}
		for _, s := range page.Schemas() {
			r.renderField(pdf, g, s, false)
		}
		r.Logger.Debug("Rendered page", zap.Int("page", i), zap.Int("fields", page.Len()))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// renderPadding draws the content band as a dashed rectangle
func (r *Renderer) renderPadding(pdf *fpdf.Fpdf, g template.PageGeometry) {
	top, right := g.Padding[template.PadTop], g.Padding[template.PadRight]
	bottom, left := g.Padding[template.PadBottom], g.Padding[template.PadLeft]
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Rect(left, top, g.Width-left-right, g.Height-top-bottom, "D")
	pdf.SetDashPattern([]float64{}, 0)
}

func (r *Renderer) renderField(pdf *fpdf.Fpdf, g template.PageGeometry, s *template.Schema, static bool) {
	if s.Type.Kind() == template.KindTable {
		if r.renderTable(pdf, g, s) {
			return
		}
	}

	if static {
		pdf.SetDrawColor(160, 160, 160)
		pdf.SetTextColor(160, 160, 160)
	} else {
		pdf.SetDrawColor(0, 0, 200)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetLineWidth(0.2)
	pdf.Rect(s.Position.X, s.Position.Y, s.Width, s.Height, "D")

	label := s.Name
	if v := firstLine(r.Record.Value(s)); v != "" && s.Type.Kind() == template.KindText {
		label += ": " + v
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.ClipRect(s.Position.X, s.Position.Y, s.Width, s.Height, false)
	pdf.Text(s.Position.X+1, s.Position.Y+3, r.tr(label))
	pdf.ClipEnd()
}

// renderTable draws a table fragment row by row. It reports false when the
// body cannot be decoded, so the caller draws a plain box.
func (r *Renderer) renderTable(pdf *fpdf.Fpdf, g template.PageGeometry, s *template.Schema) bool {
	body, err := table.ParseBody(r.Record.Value(s))
	if err != nil {
		r.Logger.Warn("Unable to draw table", zap.String("field", s.Name), zap.Error(err))
		return false
	}
	t, _ := r.Builder.Build(s, body, g.Width)
	if rng := s.BodyRange; rng != nil {
		if rng.Start < 0 || rng.End > len(t.Body) || rng.Start > rng.End {
			r.Logger.Warn("Body range out of bounds", zap.String("field", s.Name),
				zap.Int("start", rng.Start), zap.Int("end", rng.End), zap.Int("rows", len(t.Body)))
			return false
		}
		t = t.Slice(*rng, s.ShowHead)
	}

	y := s.Position.Y
	if t.ShowHead {
		for _, row := range t.Head {
			r.renderRow(pdf, s.Position.X, y, row, true)
			y += row.Height
		}
	}
	for _, row := range t.Body {
		r.renderRow(pdf, s.Position.X, y, row, false)
		y += row.Height
	}
	return true
}

func (r *Renderer) renderRow(pdf *fpdf.Fpdf, x, y float64, row table.Row, head bool) {
	for _, c := range row.Cells {
		st := c.Style
		if r.RenderBackgrounds {
			if cr, cg, cb, ok := parseHexColor(st.BackgroundColor); ok {
				pdf.SetFillColor(cr, cg, cb)
				pdf.Rect(x, y, c.Width, row.Height, "F")
			} else if head {
				pdf.SetFillColor(240, 240, 240)
				pdf.Rect(x, y, c.Width, row.Height, "F")
			}
		}
		if r.RenderBorders && st.BorderWidth.Top > 0 {
			cr, cg, cb, _ := parseHexColor(st.BorderColor)
			pdf.SetDrawColor(cr, cg, cb)
			pdf.SetLineWidth(st.BorderWidth.Top)
			pdf.Rect(x, y, c.Width, row.Height, "D")
		}
		r.renderCellText(pdf, x, y, c)
		x += c.Width
	}
}

func (r *Renderer) renderCellText(pdf *fpdf.Fpdf, x, y float64, c table.Cell) {
	st := c.Style
	family, fontStyle := text.ResolveCoreFont(st.FontName)
	pdf.SetFont(family, fontStyle, st.FontSize)
	cr, cg, cb, _ := parseHexColor(st.FontColor)
	pdf.SetTextColor(cr, cg, cb)

	pad := c.Padding()
	advance := text.PtToMm(st.FontSize) * st.LineHeight
	inner := c.Width - pad.Horizontal()
	for i, line := range c.Text {
		lx := x + pad.Left
		switch st.Alignment {
		case style.AlignCenter:
			lx += (inner - pdf.GetStringWidth(line)) / 2
		case style.AlignRight:
			lx += inner - pdf.GetStringWidth(line)
		}
		baseline := y + pad.Top + advance*float64(i) + text.PtToMm(st.FontSize)*0.8
		pdf.Text(lx, baseline, r.tr(line))
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if r := []rune(line); len(r) > 60 {
		line = string(r[:60]) + "..."
	}
	return line
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
