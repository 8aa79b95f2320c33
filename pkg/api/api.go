// Package api is the public entry point of gomlayout: it lays out templates
// of absolutely positioned fields into pages and renders wireframe previews
// of the result.
package api

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/pagination"
	"github.com/gompdf/gomlayout/internal/render/html"
	"github.com/gompdf/gomlayout/internal/render/pdf"
	"github.com/gompdf/gomlayout/internal/res"
	"github.com/gompdf/gomlayout/internal/text"
)

// Engine is the main API for laying out templates
type Engine struct {
	options Options
	loader  *res.Loader
	log     *zap.Logger
}

// New creates a new engine with default options
func New() *Engine {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new engine with the specified options
func NewWithOptions(options Options) *Engine {
	e := &Engine{
		options: options,
		loader:  res.NewLoader(""),
		log:     options.Logger,
	}
	for _, path := range options.ResourcePaths {
		e.loader.AddSearchPath(path)
	}
	if e.log == nil {
		e.log = zap.NewNop()
		if options.Debug {
			if log, err := zap.NewDevelopment(); err == nil {
				e.log = log
			}
		}
	}
	return e
}

// Options returns the engine options
func (e *Engine) Options() Options {
	return e.options
}

// pageSize applies the orientation to the configured page size.
func (e *Engine) pageSize() (float64, float64) {
	w, h := e.options.PageWidth, e.options.PageHeight
	if w <= 0 || h <= 0 {
		return w, h
	}
	switch e.options.PageOrientation {
	case PageOrientationLandscape:
		if w < h {
			w, h = h, w
		}
	case PageOrientationPortrait, "":
		if w > h {
			w, h = h, w
		}
	}
	return w, h
}

func (e *Engine) paginator() *pagination.Engine {
	w, h := e.pageSize()
	p := pagination.NewEngine()
	p.SetOptions(pagination.Options{
		PageWidth:      w,
		PageHeight:     h,
		Padding:        e.options.Padding,
		MinCellHeight:  e.options.MinCellHeight,
		Concurrency:    e.options.Concurrency,
		StaticBoundary: e.options.StaticBoundary,
		Strict:         e.options.Strict,
		Oracle:         e.options.Oracle,
		Fonts:          e.options.fonts(),
		Logger:         e.log,
	})
	return p
}

// Layout computes the pages tpl needs for record. tpl is not modified.
func (e *Engine) Layout(ctx context.Context, tpl *Template, record Record) (*Result, error) {
	result, err := e.paginator().Layout(ctx, tpl, record)
	if err != nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}
	return result, nil
}

// LayoutFile loads a template and, unless recordURL is empty, a record from
// local paths or URLs and lays them out.
func (e *Engine) LayoutFile(ctx context.Context, templateURL, recordURL string) (*Result, error) {
	tpl, err := e.LoadTemplate(ctx, templateURL)
	if err != nil {
		return nil, err
	}
	var record Record
	if recordURL != "" {
		if record, err = e.LoadRecord(ctx, recordURL); err != nil {
			return nil, err
		}
	}
	return e.Layout(ctx, tpl, record)
}

// LoadTemplate loads a template document from a local path or URL.
func (e *Engine) LoadTemplate(ctx context.Context, templateURL string) (*Template, error) {
	tpl, err := e.loader.LoadTemplate(ctx, templateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return tpl, nil
}

// LoadRecord loads field values from a local path or URL.
func (e *Engine) LoadRecord(ctx context.Context, recordURL string) (Record, error) {
	record, err := e.loader.LoadRecord(ctx, recordURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return record, nil
}

// LoadFont loads a TrueType or OpenType font for measuring text.
func (e *Engine) LoadFont(ctx context.Context, fontURL string) (Measurer, error) {
	font, err := e.loader.LoadFont(ctx, fontURL)
	if err != nil {
		return nil, err
	}
	m, err := text.NewSFNTMeasurer(font.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fontURL, err)
	}
	return m, nil
}

// RenderPDF writes a wireframe PDF of a laid out template.
func (e *Engine) RenderPDF(w io.Writer, tpl *Template, record Record) error {
	r := pdf.NewRenderer(e.renderFonts(), e.log.Named("render"))
	r.Record = record
	r.Builder.MinCellHeight = e.options.MinCellHeight
	return r.Render(w, tpl, pdf.RenderOptions{
		Title:    e.options.Title,
		Author:   e.options.Author,
		Subject:  e.options.Subject,
		Keywords: e.options.Keywords,
		Creator:  "gomlayout",
		Producer: "gomlayout",
	})
}

// RenderHTML writes an HTML preview of a laid out template.
func (e *Engine) RenderHTML(w io.Writer, tpl *Template, record Record) error {
	r := html.NewRenderer(e.renderFonts(), e.log.Named("render"))
	r.Record = record
	r.Title = e.options.Title
	r.Builder.MinCellHeight = e.options.MinCellHeight
	return r.Render(w, tpl)
}

func (e *Engine) renderFonts() text.Fonts {
	if fonts := e.options.fonts(); fonts != nil {
		return fonts
	}
	return text.NewCoreRegistry()
}

// WithOptions returns a new engine with the specified options
func (e *Engine) WithOptions(options Options) *Engine {
	return NewWithOptions(options)
}

// WithOption returns a new engine with the specified option set
func (e *Engine) WithOption(option Option) *Engine {
	newOptions := e.options
	newOptions.ResourcePaths = append([]string(nil), e.options.ResourcePaths...)
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// AddResourcePath adds a path to search for resources
func (e *Engine) AddResourcePath(path string) *Engine {
	return e.WithOption(WithResourcePath(path))
}

// SetPageSize sets the page size
func (e *Engine) SetPageSize(width, height float64) *Engine {
	return e.WithOption(WithPageSize(width, height))
}

// SetPadding sets the page padding
func (e *Engine) SetPadding(top, right, bottom, left float64) *Engine {
	return e.WithOption(WithPadding(top, right, bottom, left))
}

// SetDebug sets the debug mode
func (e *Engine) SetDebug(debug bool) *Engine {
	return e.WithOption(WithDebug(debug))
}
