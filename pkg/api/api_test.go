package api

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gompdf/gomlayout/internal/text"
)

const invoice = `
basePdf:
  width: 210
  height: 297
  padding: [10, 10, 10, 10]
schemas:
  - title:
      type: text
      position: {x: 10, y: 10}
      width: 190
      height: 10
    items:
      type: table
      position: {x: 10, y: 30}
      width: 190
      height: 20
      head: [Item, Qty]
      showHead: true
      repeatHead: true
    note:
      type: text
      position: {x: 10, y: 60}
      width: 190
      height: 10
`

// authored keeps every non-table field at its authored height.
var authored = OracleFunc(func(ctx context.Context, _ string, s *Schema) ([]float64, error) {
	return []float64{s.Height}, ctx.Err()
})

func rows(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := range n {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`["part","1"]`)
	}
	b.WriteString("]")
	return b.String()
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range append([]Option{
		WithLogger(zaptest.NewLogger(t)),
		WithMeasurer(text.FixedMeasurer{Advance: 0.5}),
		WithMinCellHeight(15),
		WithOracle(authored),
	}, opts...) {
		opt(&o)
	}
	return NewWithOptions(o)
}

func decode(t *testing.T, src string) *Template {
	tpl, err := DecodeTemplate(strings.NewReader(src))
	require.NoError(t, err)
	return tpl
}

func TestLayoutSplitsTable(t *testing.T) {
	e := newEngine(t)
	tpl := decode(t, invoice)

	res, err := e.Layout(context.Background(), tpl, Record{"items": rows(20)})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	require.Len(t, res.Template.Pages, 2)

	first, ok := res.Template.Pages[0].Get("items")
	require.True(t, ok)
	assert.Equal(t, &Range{Start: 0, End: 16}, first.BodyRange)
	assert.InDelta(t, 255, first.Height, 1e-6)

	second, ok := res.Template.Pages[1].Get("items")
	require.True(t, ok)
	assert.Equal(t, &Range{Start: 16, End: 20}, second.BodyRange)
	assert.True(t, second.IsSplit)
	assert.True(t, second.ShowHead)
	assert.InDelta(t, 10, second.Position.Y, 1e-6)
	assert.InDelta(t, 75, second.Height, 1e-6)

	note, ok := res.Template.Pages[1].Get("note")
	require.True(t, ok)
	assert.InDelta(t, 95, note.Position.Y, 1e-6)

	title, _ := res.Template.Pages[0].Get("title")
	assert.Equal(t, 10.0, title.Position.Y)

	// input untouched
	items, _ := tpl.Pages[0].Get("items")
	assert.Nil(t, items.BodyRange)
	assert.Equal(t, 30.0, items.Position.Y)
}

func TestLayoutOrientation(t *testing.T) {
	e := newEngine(t, WithPageSizeA4(), WithPageOrientation(PageOrientationLandscape))
	res, err := e.Layout(context.Background(), decode(t, invoice), nil)
	require.NoError(t, err)
	assert.Equal(t, 297.0, res.Template.BasePdf.Width)
	assert.Equal(t, 210.0, res.Template.BasePdf.Height)

	e = newEngine(t, WithPageSize(297, 210))
	res, err = e.Layout(context.Background(), decode(t, invoice), nil)
	require.NoError(t, err)
	assert.Equal(t, 210.0, res.Template.BasePdf.Width)
}

func TestLayoutErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newEngine(t, WithPadding(150, 0, 150, 0)).Layout(ctx, decode(t, invoice), nil)
	assert.ErrorIs(t, err, ErrEmptyGeometry)

	_, err = newEngine(t).Layout(ctx, &Template{}, nil)
	assert.ErrorIs(t, err, ErrNoPages)

	boom := errors.New("boom")
	failing := WithOracleFunc(func(context.Context, string, *Schema) ([]float64, error) { return nil, boom })
	_, err = newEngine(t, failing).Layout(ctx, decode(t, invoice), nil)
	var oe *OracleError
	require.ErrorAs(t, err, &oe)
	assert.ErrorIs(t, err, boom)
}

func TestLayoutStrict(t *testing.T) {
	rec := Record{"items": `[["a"],["b","c"]]`}

	res, err := newEngine(t).Layout(context.Background(), decode(t, invoice), rec)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, MalformedTableBody, res.Diagnostics[0].Kind)

	_, err = newEngine(t, WithStrict(true)).Layout(context.Background(), decode(t, invoice), rec)
	assert.ErrorContains(t, err, "items")
}

func TestLayoutFile(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "invoice.yaml")
	recPath := filepath.Join(dir, "record.yaml")
	require.NoError(t, os.WriteFile(tplPath, []byte(invoice), 0o644))
	require.NoError(t, os.WriteFile(recPath, []byte("items:\n  - [bolt, \"2\"]\n  - [nut, \"3\"]\n"), 0o644))

	res, err := newEngine(t).LayoutFile(context.Background(), tplPath, recPath)
	require.NoError(t, err)
	require.Len(t, res.Template.Pages, 1)
	items, _ := res.Template.Pages[0].Get("items")
	assert.InDelta(t, 45, items.Height, 1e-6)

	_, err = newEngine(t).LayoutFile(context.Background(), filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)
}

func TestRenderPreviews(t *testing.T) {
	e := newEngine(t, WithTitle("invoice"))
	rec := Record{"title": "Invoice", "items": rows(20)}
	res, err := e.Layout(context.Background(), decode(t, invoice), rec)
	require.NoError(t, err)

	var pdf bytes.Buffer
	require.NoError(t, e.RenderPDF(&pdf, res.Template, rec))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))

	var html bytes.Buffer
	require.NoError(t, e.RenderHTML(&html, res.Template, rec))
	assert.Contains(t, html.String(), `data-range="16-20"`)
	assert.Contains(t, html.String(), "<title>invoice</title>")
}

func TestWithOptionCopies(t *testing.T) {
	base := New().AddResourcePath("a")
	derived := base.AddResourcePath("b").SetPageSize(100, 200).SetPadding(1, 2, 3, 4)

	assert.Equal(t, []string{"a"}, base.Options().ResourcePaths)
	assert.Equal(t, []string{"a", "b"}, derived.Options().ResourcePaths)
	assert.Zero(t, base.Options().PageWidth)
	assert.Equal(t, 200.0, derived.Options().PageHeight)
	assert.Equal(t, []float64{1, 2, 3, 4}, derived.Options().Padding)
}

func TestDebugLogger(t *testing.T) {
	assert.False(t, New().log.Core().Enabled(zap.DebugLevel))
	assert.True(t, New().SetDebug(true).log.Core().Enabled(zap.DebugLevel))
}

func TestNamedPageSize(t *testing.T) {
	o := DefaultOptions()
	WithNamedPageSize("letter")(&o)
	assert.Equal(t, PageSizeLetterWidth, o.PageWidth)
	WithNamedPageSize("tabloid")(&o)
	assert.Equal(t, PageSizeLetterHeight, o.PageHeight)

	b, err := ParseStaticBoundary("all")
	require.NoError(t, err)
	assert.Equal(t, BoundaryAll, b)
}

func TestLoadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	e := New()
	m, err := e.LoadFont(context.Background(), path)
	require.NoError(t, err)
	assert.Greater(t, m.StringWidth("layout", 10), 0.0)

	res, err := e.WithOption(WithMeasurer(m)).Layout(context.Background(), decode(t, invoice), Record{"title": "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Template.Pages)

	_, err = e.LoadFont(context.Background(), "data:text/plain,not%20a%20font")
	assert.Error(t, err)
}
