// Package pagination reflows templates: it measures every field, propagates
// vertical drift to the fields below, splits tables across pages and keeps
// flowing content out of the band reserved by static fields.
package pagination

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/oracle"
	"github.com/gompdf/gomlayout/internal/table"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

// DefaultConcurrency bounds concurrent oracle calls while measuring a page.
const DefaultConcurrency = 10

// Options represents options for the pagination engine
type Options struct {
	// PageWidth and PageHeight replace the template page size when positive.
	PageWidth  float64
	PageHeight float64
	// Padding replaces the template padding (top, right, bottom, left) when
	// it holds four values.
	Padding []float64

	MinCellHeight  float64
	Concurrency    int
	StaticBoundary StaticBoundary
	// Strict turns diagnostics into a layout error.
	Strict bool

	Oracle oracle.Oracle
	Fonts  text.Fonts
	Logger *zap.Logger
}

// Engine handles the layout process
type Engine struct {
	options Options
}

// NewEngine creates an engine measuring text with PDF core font metrics
func NewEngine() *Engine {
	e := &Engine{}
	e.SetOptions(Options{})
	return e
}

// SetOptions sets the options for the pagination engine. Missing
// collaborators are replaced by defaults.
func (e *Engine) SetOptions(options Options) {
	if options.Fonts == nil {
		options.Fonts = text.NewCoreRegistry()
	}
	if options.Oracle == nil {
		options.Oracle = oracle.NewDispatch(options.Fonts)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultConcurrency
	}
	e.options = options
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.options
}

// Geometry returns the page geometry tpl is laid out on.
func (e *Engine) Geometry(tpl *template.Template) template.PageGeometry {
	g := tpl.BasePdf.Clone()
	if e.options.PageWidth > 0 {
		g.Width = e.options.PageWidth
	}
	if e.options.PageHeight > 0 {
		g.Height = e.options.PageHeight
	}
	if len(e.options.Padding) == 4 {
		copy(g.Padding[:], e.options.Padding)
	}
	return g
}

// Layout computes the pages tpl needs to render record. Authored pages are
// laid out independently and their output pages concatenated. The input is
// never modified, and on error no partial result is returned.
func (e *Engine) Layout(ctx context.Context, tpl *template.Template, record template.Record) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	log := e.options.Logger.Named("pagination").With(zap.String("run", res.RunID))

	if err := tpl.Check(); err != nil {
		return nil, err
	}
	geom := e.Geometry(tpl)
	b, err := newBand(geom, e.options.StaticBoundary)
	if err != nil {
		return nil, err
	}

	builder := table.NewBuilder(e.options.Fonts, e.options.Logger.Named("table"))
	builder.MinCellHeight = e.options.MinCellHeight
	measure := oracle.NewCache(e.options.Oracle)

	res.Template = &template.Template{BasePdf: geom}
	for i, page := range tpl.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := &reflow{
			band:        b,
			pageWidth:   geom.Width,
			oracle:      measure,
			builder:     builder,
			record:      record,
			concurrency: e.options.Concurrency,
			log:         log.With(zap.Int("authored", i)),
		}
		pages, err := r.run(ctx, page)
		if err != nil {
			return nil, err
		}

		offset := len(res.Template.Pages)
		for _, p := range r.placements {
			p.Page += offset
			res.Placements = append(res.Placements, p)
		}
		for _, d := range r.diagnostics {
			d.Page += offset
			res.Diagnostics = append(res.Diagnostics, d)
		}
		res.Template.Pages = append(res.Template.Pages, pages...)
	}

	hits, misses := measure.Stats()
	log.Info("Layout complete",
		zap.Int("authored", len(tpl.Pages)),
		zap.Int("pages", len(res.Template.Pages)),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses),
		zap.Duration("elapsed", time.Since(start)))

	if e.options.Strict {
		if err := res.Err(); err != nil {
			return nil, err
		}
	}
	return res, nil
}
