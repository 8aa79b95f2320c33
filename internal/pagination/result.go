package pagination

import (
	"go.uber.org/multierr"

	"github.com/gompdf/gomlayout/internal/template"
)

// Placement traces where one field, or one table fragment, was put.
type Placement struct {
	Field string
	// Page is the zero based output page.
	Page   int
	Y      float64
	Height float64
	// Parent is the field the drift was inherited from, empty for none.
	Parent   string
	Drift    float64
	Fragment int
}

// Result is a completed layout.
type Result struct {
	Template    *template.Template
	Diagnostics []Diagnostic
	Placements  []Placement
	RunID       string
}

// Err combines all diagnostics into one error, nil when there are none.
func (r *Result) Err() error {
	var err error
	for _, d := range r.Diagnostics {
		err = multierr.Append(err, d)
	}
	return err
}

// PlacementsOf returns the placements of a field in page order.
func (r *Result) PlacementsOf(field string) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.Field == field {
			out = append(out, p)
		}
	}
	return out
}
