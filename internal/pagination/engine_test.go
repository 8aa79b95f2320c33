package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gompdf/gomlayout/internal/oracle"
	"github.com/gompdf/gomlayout/internal/style"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

var mono = text.NewRegistry(text.FixedMeasurer{Advance: 0.5})

// a4 is 210×297mm with 10mm padding: content runs from y=10 to y=287.
func a4(statics ...*template.Schema) template.PageGeometry {
	return template.PageGeometry{
		Width:        210,
		Height:       297,
		Padding:      [4]float64{10, 10, 10, 10},
		StaticSchema: statics,
	}
}

func textField(name string, y, h float64) *template.Schema {
	return &template.Schema{
		Name:     name,
		Type:     "text",
		Position: template.Position{X: 10, Y: y},
		Width:    190,
		Height:   h,
	}
}

func tableField(name string, y, h float64, repeatHead bool) *template.Schema {
	return &template.Schema{
		Name:     name,
		Type:     "table",
		Position: template.Position{X: 10, Y: y},
		Width:    190,
		Height:   h,
		TableProps: template.TableProps{
			Head:       template.HeadRows{{"A", "B", "C"}},
			ShowHead:   true,
			RepeatHead: repeatHead,
		},
	}
}

// rows encodes n three-cell body rows.
func rows(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`["r%d","x","y"]`, i)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// byValue measures values found in m and falls back to the authored height.
func byValue(m map[string]float64) oracle.Oracle {
	return oracle.Func(func(_ context.Context, value string, s *template.Schema) ([]float64, error) {
		if h, ok := m[value]; ok {
			return []float64{h}, nil
		}
		return []float64{s.Height}, nil
	})
}

// newEngine uses 15mm table rows: one 10pt line plus 10mm padding is 13.5mm,
// lifted to the minimum.
func newEngine(t *testing.T, o oracle.Oracle, opts ...func(*Options)) *Engine {
	options := Options{
		Oracle:        o,
		Fonts:         mono,
		MinCellHeight: 15,
		Logger:        zaptest.NewLogger(t),
	}
	for _, fn := range opts {
		fn(&options)
	}
	e := NewEngine()
	e.SetOptions(options)
	return e
}

func layout(t *testing.T, e *Engine, tpl *template.Template, rec template.Record) *Result {
	t.Helper()
	res, err := e.Layout(context.Background(), tpl, rec)
	require.NoError(t, err)
	return res
}

func field(t *testing.T, p *template.Page, name string) *template.Schema {
	t.Helper()
	s, ok := p.Get(name)
	require.True(t, ok, "field %q missing, page has %v", name, p.Keys())
	return s
}

func TestLayoutUnchangedField(t *testing.T) {
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(textField("name", 30, 20))}}
	res := layout(t, newEngine(t, byValue(map[string]float64{"Jane": 20})), tpl, template.Record{"name": "Jane"})

	require.Len(t, res.Template.Pages, 1)
	s := field(t, res.Template.Pages[0], "name")
	assert.Equal(t, 30.0, s.Position.Y)
	assert.Equal(t, 20.0, s.Height)
	assert.Empty(t, res.Diagnostics)
	_, err := uuid.Parse(res.RunID)
	assert.NoError(t, err)
}

func TestLayoutTableGrowthPushesFieldsBelow(t *testing.T) {
	page := template.NewPage(tableField("items", 20, 50, false), textField("note", 80, 10))
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(5)})

	require.Len(t, res.Template.Pages, 1)
	out := res.Template.Pages[0]
	items := field(t, out, "items")
	assert.Equal(t, 20.0, items.Position.Y)
	assert.InDelta(t, 90, items.Height, 1e-9)
	assert.Nil(t, items.BodyRange)

	note := field(t, out, "note")
	assert.InDelta(t, 120, note.Position.Y, 1e-9)

	trace := res.PlacementsOf("note")
	require.Len(t, trace, 1)
	assert.Equal(t, "items", trace[0].Parent)
	assert.InDelta(t, 40, trace[0].Drift, 1e-9)

	// the input is untouched
	orig := field(t, page, "note")
	assert.Equal(t, 80.0, orig.Position.Y)
}

func TestLayoutSplitsTallTable(t *testing.T) {
	page := template.NewPage(tableField("items", 20, 50, true), textField("note", 80, 10))
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(26)})

	// 15 + 26×15 = 405mm: 16 rows fit below y=20, the other 10 go to page 2
	pages := res.Template.Pages
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"items"}, pages[0].Keys())
	assert.Equal(t, []string{"items", "note"}, pages[1].Keys())

	first, second := field(t, pages[0], "items"), field(t, pages[1], "items")
	assert.Equal(t, 20.0, first.Position.Y)
	assert.InDelta(t, 255, first.Height, 1e-9)
	assert.Equal(t, &template.Range{Start: 0, End: 16}, first.BodyRange)
	assert.False(t, first.IsSplit)
	assert.True(t, first.ShowHead)

	assert.Equal(t, 10.0, second.Position.Y)
	assert.InDelta(t, 165, second.Height, 1e-9)
	assert.Equal(t, &template.Range{Start: 16, End: 26}, second.BodyRange)
	assert.True(t, second.IsSplit)
	assert.True(t, second.ShowHead)

	// the note follows the last fragment: 175 + (80 - 70)
	note := field(t, pages[1], "note")
	assert.InDelta(t, 185, note.Position.Y, 1e-9)
	assert.Empty(t, res.Diagnostics)
}

func TestLayoutSplitWithoutRepeatedHead(t *testing.T) {
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(tableField("items", 20, 50, false))}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(26)})

	require.Len(t, res.Template.Pages, 2)
	second := field(t, res.Template.Pages[1], "items")
	assert.False(t, second.ShowHead)
	assert.InDelta(t, 150, second.Height, 1e-9)
	assert.True(t, field(t, res.Template.Pages[0], "items").ShowHead)
}

func TestLayoutStaticFooterForcesBreak(t *testing.T) {
	footer := textField("footer", 250, 20)
	page := template.NewPage(textField("title", 10, 10), textField("body", 200, 10))
	tpl := &template.Template{BasePdf: a4(footer), Pages: []*template.Page{page}}
	rec := template.Record{"body": "long"}
	o := byValue(map[string]float64{"long": 60})

	res := layout(t, newEngine(t, o), tpl, rec)
	require.Len(t, res.Template.Pages, 2)
	assert.Equal(t, []string{"title"}, res.Template.Pages[0].Keys())
	body := field(t, res.Template.Pages[1], "body")
	assert.Equal(t, 10.0, body.Position.Y)
	assert.Equal(t, 60.0, body.Height)

	// statics are carried unchanged for every output page
	require.Len(t, res.Template.BasePdf.StaticSchema, 1)
	assert.Equal(t, 250.0, res.Template.BasePdf.StaticSchema[0].Position.Y)

	// without statics the same field fits above the bottom padding
	tpl.BasePdf = a4()
	res = layout(t, newEngine(t, o), tpl, rec)
	require.Len(t, res.Template.Pages, 1)
	assert.Equal(t, 200.0, field(t, res.Template.Pages[0], "body").Position.Y)
}

func TestLayoutStaticBoundaryModes(t *testing.T) {
	header := textField("header", 2, 6)
	footer := textField("footer", 280, 8)
	tpl := &template.Template{
		BasePdf: a4(header, footer),
		Pages:   []*template.Page{template.NewPage(textField("body", 250, 10))},
	}
	o := byValue(map[string]float64{"x": 40})
	rec := template.Record{"body": "x"}

	res := layout(t, newEngine(t, o), tpl, rec)
	require.Len(t, res.Template.Pages, 2)
	assert.Equal(t, 10.0, field(t, res.Template.Pages[1], "body").Position.Y)

	_, err := newEngine(t, o, func(o *Options) { o.StaticBoundary = BoundaryAll }).Layout(context.Background(), tpl, rec)
	assert.ErrorIs(t, err, ErrEmptyGeometry)
}

func TestLayoutNoOrphanHeader(t *testing.T) {
	page := template.NewPage(textField("title", 10, 10), tableField("items", 260, 45, true))
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(2)})

	require.Len(t, res.Template.Pages, 2)
	assert.Equal(t, []string{"title"}, res.Template.Pages[0].Keys())
	items := field(t, res.Template.Pages[1], "items")
	assert.Equal(t, 10.0, items.Position.Y)
	assert.InDelta(t, 45, items.Height, 1e-9)
	assert.Nil(t, items.BodyRange)
}

func TestLayoutOversizedRow(t *testing.T) {
	s := tableField("items", 20, 50, true)
	s.CellStyles = []template.CellOverride{
		{Section: template.SectionBody, Row: 1, Column: 0, Style: style.Layer{MinCellHeight: style.Ptr(300.0)}},
	}
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(s)}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(3)})

	require.Len(t, res.Template.Pages, 3)
	assert.Equal(t, &template.Range{Start: 1, End: 2}, field(t, res.Template.Pages[1], "items").BodyRange)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, RowExceedsPage, d.Kind)
	assert.Equal(t, "items", d.Field)
	assert.Equal(t, 1, d.Page)
}

func TestLayoutFieldExceedsPage(t *testing.T) {
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(textField("essay", 20, 10))}}
	res := layout(t, newEngine(t, byValue(map[string]float64{"war and peace": 500})), tpl,
		template.Record{"essay": "war and peace"})

	require.Len(t, res.Template.Pages, 2)
	assert.Zero(t, res.Template.Pages[0].Len())
	assert.Equal(t, 10.0, field(t, res.Template.Pages[1], "essay").Position.Y)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, FieldExceedsPage, res.Diagnostics[0].Kind)
	assert.Equal(t, 1, res.Diagnostics[0].Page)
	assert.Error(t, res.Err())
}

func TestLayoutFieldsBesideEachOtherDoNotDrift(t *testing.T) {
	items := tableField("items", 20, 30, false)
	items.Width = 100
	side := textField("side", 60, 10)
	side.Position.X = 120
	side.Width = 80
	under := textField("under", 60, 10)
	under.Width = 50

	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(items, side, under)}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(5)})

	out := res.Template.Pages[0]
	assert.Equal(t, 60.0, field(t, out, "side").Position.Y)
	// 90mm instead of 30mm: the narrow field under the table drifts by 60
	assert.InDelta(t, 120, field(t, out, "under").Position.Y, 1e-9)
	assert.Empty(t, res.PlacementsOf("side")[0].Parent)
}

func TestLayoutSumsHeights(t *testing.T) {
	o := oracle.Func(func(context.Context, string, *template.Schema) ([]float64, error) {
		return []float64{5, 7}, nil
	})
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(textField("a", 20, 10))}}
	res := layout(t, newEngine(t, o), tpl, nil)
	assert.Equal(t, 12.0, field(t, res.Template.Pages[0], "a").Height)
}

func TestLayoutMeasuresText(t *testing.T) {
	note := textField("note", 20, 5)
	note.FontSize = 10
	below := textField("below", 30, 5)
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(note, below)}}
	res := layout(t, newEngine(t, nil), tpl, template.Record{"note": "one\ntwo\nthree"})

	out := res.Template.Pages[0]
	h := 3 * text.PtToMm(10)
	assert.InDelta(t, h, field(t, out, "note").Height, 1e-9)
	assert.InDelta(t, 30+h-5, field(t, out, "below").Position.Y, 1e-9)
}

func TestLayoutPagesAreIndependent(t *testing.T) {
	tpl := &template.Template{
		BasePdf: a4(),
		Pages: []*template.Page{
			template.NewPage(tableField("items", 20, 50, true)),
			template.NewPage(textField("other", 20, 10)),
			template.NewPage(),
		},
	}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(26)})

	require.Len(t, res.Template.Pages, 4)
	other := field(t, res.Template.Pages[2], "other")
	assert.Equal(t, 20.0, other.Position.Y)
	assert.Equal(t, 2, res.PlacementsOf("other")[0].Page)
	assert.Zero(t, res.Template.Pages[3].Len())
}

func TestLayoutIdempotentWithAuthoredHeights(t *testing.T) {
	logo := &template.Schema{Name: "logo", Type: "image", Position: template.Position{X: 150, Y: 10}, Width: 40, Height: 20}
	page := template.NewPage(
		textField("title", 10, 10),
		logo,
		tableField("items", 30, 45, true),
		textField("note", 80, 20),
	)
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(2)})

	require.Len(t, res.Template.Pages, 1)
	out := res.Template.Pages[0]
	require.Equal(t, page.Keys(), out.Keys())
	for _, want := range page.Schemas() {
		got := field(t, out, want.Name)
		assert.Equal(t, want.Position, got.Position, want.Name)
		assert.InDelta(t, want.Height, got.Height, 1e-9, want.Name)
		assert.Nil(t, got.BodyRange, want.Name)
	}
}

func TestLayoutMonotonicDrift(t *testing.T) {
	for _, growth := range []float64{0, 5, 37.5, 100, 240} {
		page := template.NewPage(textField("top", 20, 10), textField("below", 40, 10))
		tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
		res := layout(t, newEngine(t, byValue(map[string]float64{"grow": 10 + growth})), tpl,
			template.Record{"top": "grow"})

		p := res.PlacementsOf("below")
		require.Len(t, p, 1)
		assert.True(t, p[0].Page > 0 || p[0].Y >= 40, "growth %v placed at %+v", growth, p[0])
	}
}

func TestLayoutConservesRows(t *testing.T) {
	for _, n := range []int{0, 1, 5, 17, 40, 100} {
		tpl := &template.Template{
			BasePdf: a4(),
			Pages:   []*template.Page{template.NewPage(textField("intro", 10, 80), tableField("items", 100, 20, n%2 == 0))},
		}
		res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(n)})

		next := 0
		for _, p := range res.Template.Pages {
			s, ok := p.Get("items")
			if !ok {
				continue
			}
			r := template.Range{Start: 0, End: n}
			if s.BodyRange != nil {
				r = *s.BodyRange
			}
			assert.Equal(t, next, r.Start, "rows %d", n)
			next = r.End
		}
		assert.Equal(t, n, next, "rows %d", n)
	}
}

func TestLayoutPagedTemplateAgain(t *testing.T) {
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(tableField("items", 20, 50, true))}}
	rec := template.Record{"items": rows(40)}
	e := newEngine(t, oracle.Authored{})

	first := layout(t, e, tpl, rec)
	require.Len(t, first.Template.Pages, 3)
	second := layout(t, e, first.Template, rec)
	require.Len(t, second.Template.Pages, 3)

	total := 0
	for i, p := range second.Template.Pages {
		want := field(t, first.Template.Pages[i], "items")
		got := field(t, p, "items")
		require.NotNil(t, got.BodyRange, "page %d", i)
		assert.Equal(t, want.BodyRange, got.BodyRange, "page %d", i)
		assert.Equal(t, want.IsSplit, got.IsSplit, "page %d", i)
		assert.Equal(t, want.Position.Y, got.Position.Y, "page %d", i)
		assert.InDelta(t, want.Height, got.Height, 1e-9, "page %d", i)
		total += got.BodyRange.Len()
	}
	assert.Equal(t, 40, total)
	assert.Empty(t, second.Diagnostics)
}

func TestLayoutResplitsFragment(t *testing.T) {
	// a fragment of rows 10..30 authored low on the page splits again
	s := tableField("items", 200, 50, true)
	s.BodyRange = &template.Range{Start: 10, End: 30}
	s.IsSplit = true
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(s)}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(40)})

	require.Len(t, res.Template.Pages, 2)
	// 287-200-15 leaves room for four 15mm rows
	head := field(t, res.Template.Pages[0], "items")
	assert.Equal(t, &template.Range{Start: 10, End: 14}, head.BodyRange)
	assert.True(t, head.IsSplit)
	tail := field(t, res.Template.Pages[1], "items")
	assert.Equal(t, &template.Range{Start: 14, End: 30}, tail.BodyRange)
	assert.True(t, tail.IsSplit)
}

func TestLayoutRowTallerThanFirstFragment(t *testing.T) {
	// without a repeated header the first fragment has less room than later ones
	s := tableField("items", 200, 50, false)
	s.CellStyles = []template.CellOverride{
		{Section: template.SectionBody, Row: 0, Column: 0, Style: style.Layer{MinCellHeight: style.Ptr(270.0)}},
	}
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(s)}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(2)})

	require.Len(t, res.Template.Pages, 3)
	assert.Zero(t, res.Template.Pages[0].Len())
	first := field(t, res.Template.Pages[1], "items")
	assert.Equal(t, 10.0, first.Position.Y)
	assert.True(t, first.ShowHead)
	assert.Equal(t, &template.Range{Start: 0, End: 1}, first.BodyRange)
	assert.False(t, field(t, res.Template.Pages[2], "items").ShowHead)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, RowExceedsPage, d.Kind)
	assert.Equal(t, 1, d.Page)
	assert.Contains(t, d.Message, "body row 0")
}

func TestLayoutBlankTextKeepsAuthoredHeight(t *testing.T) {
	page := template.NewPage(textField("a", 20, 20), textField("b", 60, 10))
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	res := layout(t, newEngine(t, nil), tpl, template.Record{"b": "short"})

	out := res.Template.Pages[0]
	assert.Equal(t, 20.0, field(t, out, "a").Height)
	assert.Equal(t, 60.0, field(t, out, "b").Position.Y)
	assert.Equal(t, 10.0, field(t, out, "b").Height)
}

func TestLayoutKeepsAuthoredKeyOrder(t *testing.T) {
	page := template.NewPage(
		tableField("items", 20, 50, true),
		textField("header", 5, 10),
		textField("note", 80, 10),
	)
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	res := layout(t, newEngine(t, oracle.Authored{}), tpl, template.Record{"items": rows(26)})

	require.Len(t, res.Template.Pages, 2)
	assert.Equal(t, []string{"items", "header"}, res.Template.Pages[0].Keys())
	assert.Equal(t, []string{"items", "note"}, res.Template.Pages[1].Keys())
}

func TestLayoutCachesMeasurements(t *testing.T) {
	var calls atomic.Int32
	o := oracle.Func(func(_ context.Context, _ string, s *template.Schema) ([]float64, error) {
		calls.Add(1)
		return []float64{s.Height}, nil
	})
	page := template.NewPage(textField("a", 10, 10), textField("b", 30, 10), textField("c", 50, 10))
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}
	// one at a time, so "b" finds the measurement of "a"
	sequential := func(o *Options) { o.Concurrency = 1 }
	layout(t, newEngine(t, o, sequential), tpl, template.Record{"a": "same", "b": "same", "c": "other"})
	assert.EqualValues(t, 2, calls.Load())
}

func TestLayoutOracleFailure(t *testing.T) {
	boom := errors.New("font not found")
	o := oracle.Func(func(_ context.Context, value string, s *template.Schema) ([]float64, error) {
		if value == "bad" {
			return nil, boom
		}
		return []float64{s.Height}, nil
	})
	page := template.NewPage(textField("a", 10, 10), textField("b", 30, 10))
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{page}}

	res, err := newEngine(t, o).Layout(context.Background(), tpl, template.Record{"b": "bad"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
	var oe *OracleError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "b", oe.Field)
	assert.Contains(t, err.Error(), `"b"`)

	negative := oracle.Func(func(context.Context, string, *template.Schema) ([]float64, error) {
		return []float64{-3}, nil
	})
	_, err = newEngine(t, negative).Layout(context.Background(), tpl, nil)
	assert.ErrorAs(t, err, &oe)
}

func TestLayoutBadTableBody(t *testing.T) {
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(tableField("items", 20, 50, true))}}
	_, err := newEngine(t, oracle.Authored{}).Layout(context.Background(), tpl, template.Record{"items": "{not rows"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "items", fe.Field)
}

func TestLayoutMalformedBody(t *testing.T) {
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(tableField("items", 20, 50, true))}}
	rec := template.Record{"items": `[["a","b","c"],["short"]]`}

	res := layout(t, newEngine(t, oracle.Authored{}), tpl, rec)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, MalformedTableBody, res.Diagnostics[0].Kind)
	assert.InDelta(t, 45, field(t, res.Template.Pages[0], "items").Height, 1e-9)

	_, err := newEngine(t, oracle.Authored{}, func(o *Options) { o.Strict = true }).Layout(context.Background(), tpl, rec)
	var d Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, MalformedTableBody, d.Kind)
	assert.Contains(t, err.Error(), "MalformedTableBody")
}

func TestLayoutEmptyGeometry(t *testing.T) {
	geom := a4()
	geom.Padding = [4]float64{150, 10, 150, 10}
	tpl := &template.Template{BasePdf: geom, Pages: []*template.Page{template.NewPage(textField("a", 10, 10))}}

	var calls atomic.Int32
	o := oracle.Func(func(context.Context, string, *template.Schema) ([]float64, error) {
		calls.Add(1)
		return nil, nil
	})
	_, err := newEngine(t, o).Layout(context.Background(), tpl, nil)
	assert.ErrorIs(t, err, ErrEmptyGeometry)
	assert.Zero(t, calls.Load())

	_, err = newEngine(t, o).Layout(context.Background(), &template.Template{BasePdf: a4()}, nil)
	assert.ErrorIs(t, err, template.ErrNoPages)
}

func TestLayoutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tpl := &template.Template{BasePdf: a4(), Pages: []*template.Page{template.NewPage(textField("a", 10, 10))}}
	_, err := newEngine(t, oracle.Authored{}).Layout(ctx, tpl, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGeometryOverride(t *testing.T) {
	e := newEngine(t, nil, func(o *Options) {
		o.PageWidth = PageSizeLetter.Width
		o.PageHeight = PageSizeLetter.Height
		o.Padding = []float64{5, 6, 7, 8}
	})
	g := e.Geometry(&template.Template{BasePdf: a4(textField("footer", 280, 8))})
	assert.Equal(t, 215.9, g.Width)
	assert.Equal(t, 279.4, g.Height)
	assert.Equal(t, [4]float64{5, 6, 7, 8}, g.Padding)
	assert.Len(t, g.StaticSchema, 1)

	assert.Equal(t, DefaultConcurrency, e.Options().Concurrency)
	assert.NotNil(t, e.Options().Oracle)
}

func TestReservedTop(t *testing.T) {
	g := a4()
	assert.True(t, math.IsInf(ReservedTop(g, BoundaryFooters), 1))
	assert.True(t, math.IsInf(ReservedTop(g, BoundaryAll), 1))

	g.StaticSchema = []*template.Schema{textField("header", 5, 10), textField("page", 285, 5), textField("footer", 270, 10)}
	assert.Equal(t, 270.0, ReservedTop(g, BoundaryFooters))
	assert.Equal(t, 5.0, ReservedTop(g, BoundaryAll))

	b, err := ParseStaticBoundary("ALL")
	require.NoError(t, err)
	assert.Equal(t, BoundaryAll, b)
	b, err = ParseStaticBoundary("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryFooters, b)
	_, err = ParseStaticBoundary("headers")
	assert.Error(t, err)
}

func TestOverlapX(t *testing.T) {
	tests := []struct {
		name           string
		x1, w1, x2, w2 float64
		want           bool
	}{
		{"same start", 10, 5, 10, 50, true},
		{"second inside first", 10, 100, 50, 10, true},
		{"first inside second", 50, 10, 10, 100, true},
		{"touching", 10, 40, 50, 40, false},
		{"apart", 10, 20, 100, 20, false},
		{"zero width same start", 10, 0, 10, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlapX(tt.x1, tt.w1, tt.x2, tt.w2))
		})
	}
}

func TestParentOf(t *testing.T) {
	m := newPositionMap()
	m.add(&anchor{field: "left", x: 10, width: 90, originalBottom: 50, newBottom: 50})
	m.add(&anchor{field: "right", x: 110, width: 90, originalBottom: 50, newBottom: 80})
	m.add(&anchor{field: "wide", x: 10, width: 190, originalBottom: 30, newBottom: 30})
	m.add(&anchor{field: "low", x: 10, width: 190, originalBottom: 120, newBottom: 120})

	child := textField("child", 60, 10)
	assert.Equal(t, "right", m.parentOf(child).field)

	child.Width = 50
	assert.Equal(t, "left", m.parentOf(child).field)

	child.Position.Y = 40
	assert.Equal(t, "wide", m.parentOf(child).field)

	child.Position.Y = 20
	assert.Nil(t, m.parentOf(child))
}

func TestLookupPageSize(t *testing.T) {
	ps, err := LookupPageSize("letter")
	require.NoError(t, err)
	assert.Equal(t, PageSizeLetter, ps)
	assert.Equal(t, 297.0, PageSizeA4.Landscape().Width)
	_, err = LookupPageSize("B5")
	assert.Error(t, err)
}
