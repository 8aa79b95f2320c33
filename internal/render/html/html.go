// Package html renders paged templates as a static HTML preview: one
// absolutely positioned section per page, one box per field.
package html

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/gomlayout/internal/table"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

const stylesheet = `
body { background: #e0e0e0; margin: 0; padding: 8mm; font-family: Helvetica, Arial, sans-serif; }
section.page { position: relative; background: #fff; margin: 0 auto 8mm; box-shadow: 0 1px 4px #999; }
div.band { position: absolute; outline: 1px dashed #ccc; }
div.field { position: absolute; box-sizing: border-box; outline: 1px solid #36c; overflow: hidden; font-size: 7pt; }
div.static { outline-color: #aaa; color: #888; }
div.field table { border-collapse: collapse; width: 100%; }
div.field td, div.field th { border: 1px solid #888; padding: 0 1mm; }
`

// Renderer writes HTML previews.
type Renderer struct {
	// Record supplies field values; without it boxes carry names only.
	Record  template.Record
	Title   string
	Builder *table.Builder
	Logger  *zap.Logger
}

// NewRenderer creates a renderer measuring tables with fonts.
func NewRenderer(fonts text.Fonts, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{Builder: table.NewBuilder(fonts, log), Logger: log}
}

// Render writes tpl as an HTML document.
func (r *Renderer) Render(w io.Writer, tpl *template.Template) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	t := element(atom.Title)
	t.AppendChild(textNode(r.Title))
	head.AppendChild(t)
	css := element(atom.Style)
	css.AppendChild(textNode(stylesheet))
	head.AppendChild(css)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	g := tpl.BasePdf
	for i, page := range tpl.Pages {
		section := element(atom.Section, "class", "page", "data-page", strconv.Itoa(i+1),
			"style", fmt.Sprintf("width:%smm;height:%smm", mm(g.Width), mm(g.Height)))
		top, right := g.Padding[template.PadTop], g.Padding[template.PadRight]
		bottom, left := g.Padding[template.PadBottom], g.Padding[template.PadLeft]
		section.AppendChild(element(atom.Div, "class", "band",
			"style", box(left, top, g.Width-left-right, g.Height-top-bottom)))

		for _, s := range g.StaticSchema {
			section.AppendChild(r.field(g, s, true))
		}
		for _, s := range page.Schemas() {
			section.AppendChild(r.field(g, s, false))
		}
		body.AppendChild(section)
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

func (r *Renderer) field(g template.PageGeometry, s *template.Schema, static bool) *html.Node {
	class := "field"
	if static {
		class += " static"
	}
	attrs := []string{
		"class", class,
		"data-field", s.Name,
		"data-type", string(s.Type),
		"style", box(s.Position.X, s.Position.Y, s.Width, s.Height),
	}
	if s.BodyRange != nil {
		attrs = append(attrs, "data-range", fmt.Sprintf("%d-%d", s.BodyRange.Start, s.BodyRange.End))
	}
	if s.IsSplit {
		attrs = append(attrs, "data-split", "true")
	}
	div := element(atom.Div, attrs...)

	if s.Type.Kind() == template.KindTable {
		if t := r.table(g, s); t != nil {
			div.AppendChild(t)
			return div
		}
	}
	value := r.Record.Value(s)
	if value == "" || s.Type.Kind() != template.KindText {
		value = s.Name
	}
	for i, line := range strings.Split(value, "\n") {
		if i > 0 {
			div.AppendChild(element(atom.Br))
		}
		div.AppendChild(textNode(line))
	}
	return div
}

// table renders the rows a fragment carries, or nil when the body is unusable.
func (r *Renderer) table(g template.PageGeometry, s *template.Schema) *html.Node {
	rows, err := table.ParseBody(r.Record.Value(s))
	if err != nil {
		r.Logger.Warn("Unable to render table", zap.String("field", s.Name), zap.Error(err))
		return nil
	}
	t, _ := r.Builder.Build(s, rows, g.Width)
	if rng := s.BodyRange; rng != nil {
		if rng.Start < 0 || rng.End > len(t.Body) || rng.Start > rng.End {
			return nil
		}
		t = t.Slice(*rng, s.ShowHead)
	}

	tbl := element(atom.Table)
	if t.ShowHead && len(t.Head) > 0 {
		thead := element(atom.Thead)
		for _, row := range t.Head {
			thead.AppendChild(tableRow(row, atom.Th))
		}
		tbl.AppendChild(thead)
	}
	tbody := element(atom.Tbody)
	for _, row := range t.Body {
		tbody.AppendChild(tableRow(row, atom.Td))
	}
	tbl.AppendChild(tbody)
	return tbl
}

func tableRow(row table.Row, cell atom.Atom) *html.Node {
	tr := element(atom.Tr, "style", fmt.Sprintf("height:%smm", mm(row.Height)))
	for _, c := range row.Cells {
		st := c.Style
		css := fmt.Sprintf("width:%smm;text-align:%s;color:%s;font-size:%spt", mm(c.Width), st.Alignment, st.FontColor, mm(st.FontSize))
		if st.BackgroundColor != "" {
			css += ";background:" + st.BackgroundColor
		}
		td := element(cell, "style", css)
		for i, line := range c.Text {
			if i > 0 {
				td.AppendChild(element(atom.Br))
			}
			td.AppendChild(textNode(line))
		}
		tr.AppendChild(td)
	}
	return tr
}

// element creates an element node with attributes given as key, value pairs.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func box(x, y, w, h float64) string {
	return fmt.Sprintf("left:%smm;top:%smm;width:%smm;height:%smm", mm(x), mm(y), mm(w), mm(h))
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
