package api

import (
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/pagination"
	"github.com/gompdf/gomlayout/internal/text"
)

// Options represents configuration options for the layout engine
type Options struct {
	// Page dimensions in mm, zero keeps the template's own size
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Padding replaces the template padding: top, right, bottom, left
	Padding []float64

	// Layout options
	MinCellHeight  float64
	Concurrency    int
	StaticBoundary StaticBoundary
	Strict         bool

	// Debug switches a development logger on when Logger is not set
	Debug  bool
	Logger *zap.Logger

	// Measurement
	Oracle   Oracle
	Measurer Measurer
	Fonts    Fonts

	// Resource paths
	ResourcePaths []string

	// Document metadata for rendered previews
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		PageOrientation: PageOrientationPortrait,
		Concurrency:     pagination.DefaultConcurrency,
		StaticBoundary:  BoundaryFooters,
		ResourcePaths:   []string{},
	}
}

// WithPageSize sets the page size in mm
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithPadding sets the page padding in mm
func WithPadding(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.Padding = []float64{top, right, bottom, left}
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithMinCellHeight sets the minimum height of every table cell
func WithMinCellHeight(h float64) Option {
	return func(o *Options) {
		o.MinCellHeight = h
	}
}

// WithConcurrency bounds concurrent oracle calls
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithStaticBoundary selects which static fields reserve the page bottom
func WithStaticBoundary(b StaticBoundary) Option {
	return func(o *Options) {
		o.StaticBoundary = b
	}
}

// WithStrict makes Layout fail on any diagnostic
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = strict
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithOracle sets the height oracle
func WithOracle(oracle Oracle) Option {
	return func(o *Options) {
		o.Oracle = oracle
	}
}

// WithOracleFunc sets a function as the height oracle
func WithOracleFunc(f OracleFunc) Option {
	return WithOracle(f)
}

// WithMeasurer measures every font with m
func WithMeasurer(m Measurer) Option {
	return func(o *Options) {
		o.Measurer = m
	}
}

// WithFonts sets the font registry
func WithFonts(fonts Fonts) Option {
	return func(o *Options) {
		o.Fonts = fonts
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// Standard page sizes in mm
const (
	// A series
	PageSizeA3Width  = 297
	PageSizeA3Height = 420
	PageSizeA4Width  = 210
	PageSizeA4Height = 297
	PageSizeA5Width  = 148
	PageSizeA5Height = 210
	PageSizeA6Width  = 105
	PageSizeA6Height = 148

	// US Letter and Legal
	PageSizeLetterWidth  = 215.9
	PageSizeLetterHeight = 279.4
	PageSizeLegalWidth   = 215.9
	PageSizeLegalHeight  = 355.6
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}

// WithNamedPageSize sets a standard page size by name, such as "A4" or
// "letter". Unknown names leave the size unchanged.
func WithNamedPageSize(name string) Option {
	return func(o *Options) {
		if ps, err := pagination.LookupPageSize(name); err == nil {
			o.PageWidth, o.PageHeight = ps.Width, ps.Height
		}
	}
}

// fonts resolves the registry used for measuring text, nil for the default.
func (o Options) fonts() text.Fonts {
	if o.Fonts != nil {
		return o.Fonts
	}
	if o.Measurer != nil {
		return text.NewRegistry(o.Measurer)
	}
	return nil
}
