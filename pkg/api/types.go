package api

import (
	"io"

	"github.com/gompdf/gomlayout/internal/oracle"
	"github.com/gompdf/gomlayout/internal/pagination"
	"github.com/gompdf/gomlayout/internal/template"
	"github.com/gompdf/gomlayout/internal/text"
)

type (
	Template     = template.Template
	Page         = template.Page
	Schema       = template.Schema
	PageGeometry = template.PageGeometry
	Position     = template.Position
	TextProps    = template.TextProps
	TableProps   = template.TableProps
	Range        = template.Range
	Record       = template.Record
	Format       = template.Format

	Result         = pagination.Result
	Placement      = pagination.Placement
	Diagnostic     = pagination.Diagnostic
	DiagnosticKind = pagination.DiagnosticKind
	StaticBoundary = pagination.StaticBoundary
	OracleError    = pagination.OracleError
	FieldError     = pagination.FieldError

	Oracle     = oracle.Oracle
	OracleFunc = oracle.Func
	Measurer   = text.Measurer
	Fonts      = text.Fonts
)

const (
	FormatYAML = template.FormatYAML
	FormatJSON = template.FormatJSON

	BoundaryFooters = pagination.BoundaryFooters
	BoundaryAll     = pagination.BoundaryAll

	MalformedTableBody = pagination.MalformedTableBody
	RowExceedsPage     = pagination.RowExceedsPage
	FieldExceedsPage   = pagination.FieldExceedsPage
)

var (
	ErrEmptyGeometry = pagination.ErrEmptyGeometry
	ErrNoPages       = template.ErrNoPages
)

// DefaultOracle returns the oracle used when none is configured: text is
// wrapped and measured with fonts, other fields keep their authored height.
// A nil fonts measures with PDF core font metrics.
func DefaultOracle(fonts Fonts) Oracle {
	if fonts == nil {
		fonts = text.NewCoreRegistry()
	}
	return oracle.NewDispatch(fonts)
}

// NewPage creates a page holding schemas in order.
func NewPage(schemas ...*Schema) *Page {
	return template.NewPage(schemas...)
}

// DecodeTemplate reads a template from YAML or JSON.
func DecodeTemplate(r io.Reader) (*Template, error) {
	return template.Decode(r)
}

// EncodeTemplate writes a template in the requested format.
func EncodeTemplate(w io.Writer, t *Template, f Format) error {
	return template.Encode(w, t, f)
}

// DecodeRecord reads field values from YAML or JSON.
func DecodeRecord(r io.Reader) (Record, error) {
	return template.DecodeRecord(r)
}

// ParseStaticBoundary parses "footers" or "all".
func ParseStaticBoundary(s string) (StaticBoundary, error) {
	return pagination.ParseStaticBoundary(s)
}
