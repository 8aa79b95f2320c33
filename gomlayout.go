// Package gomlayout lays out templates of absolutely positioned fields into
// pages: fields grow to fit their values, the fields below follow, and
// tables split across pages with their header repeated.
package gomlayout

import (
	"github.com/gompdf/gomlayout/pkg/api"
)

type Engine = api.Engine
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation

type Template = api.Template
type Record = api.Record
type Result = api.Result
type Diagnostic = api.Diagnostic
type Oracle = api.Oracle
type OracleFunc = api.OracleFunc

func New() *Engine                           { return api.New() }
func NewWithOptions(options Options) *Engine { return api.NewWithOptions(options) }
func DefaultOptions() Options                { return api.DefaultOptions() }

var (
	WithPageSize        = api.WithPageSize
	WithPadding         = api.WithPadding
	WithPageOrientation = api.WithPageOrientation
	WithMinCellHeight   = api.WithMinCellHeight
	WithConcurrency     = api.WithConcurrency
	WithStaticBoundary  = api.WithStaticBoundary
	WithStrict          = api.WithStrict
	WithDebug           = api.WithDebug
	WithLogger          = api.WithLogger
	WithOracle          = api.WithOracle
	WithOracleFunc      = api.WithOracleFunc
	WithMeasurer        = api.WithMeasurer
	WithFonts           = api.WithFonts
	WithResourcePath    = api.WithResourcePath
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
	WithNamedPageSize   = api.WithNamedPageSize

	DecodeTemplate = api.DecodeTemplate
	EncodeTemplate = api.EncodeTemplate
	DecodeRecord   = api.DecodeRecord

	ErrEmptyGeometry = api.ErrEmptyGeometry
	ErrNoPages       = api.ErrNoPages
)

const (
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height
	PageSizeA6Width  = api.PageSizeA6Width
	PageSizeA6Height = api.PageSizeA6Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape

	BoundaryFooters = api.BoundaryFooters
	BoundaryAll     = api.BoundaryAll

	FormatYAML = api.FormatYAML
	FormatJSON = api.FormatJSON
)
