package pagination

import (
	"fmt"
	"math"
	"strings"

	"github.com/gompdf/gomlayout/internal/template"
)

// StaticBoundary selects which static fields reserve a band at the bottom
// of every page.
type StaticBoundary int

const (
	// BoundaryFooters reserves from the highest static field that starts in
	// the lower half of the page. Header-like statics are ignored.
	BoundaryFooters StaticBoundary = iota
	// BoundaryAll reserves from the highest static field, wherever it is.
	BoundaryAll
)

func (b StaticBoundary) String() string {
	if b == BoundaryAll {
		return "all"
	}
	return "footers"
}

// ParseStaticBoundary parses "footers" or "all".
func ParseStaticBoundary(s string) (StaticBoundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "footers":
		return BoundaryFooters, nil
	case "all":
		return BoundaryAll, nil
	}
	return BoundaryFooters, fmt.Errorf("unknown static boundary %q", s)
}

// ReservedTop returns the y coordinate where the static band starts, or +Inf
// when no static field reserves one.
func ReservedTop(g template.PageGeometry, mode StaticBoundary) float64 {
	top := math.Inf(1)
	for _, s := range g.StaticSchema {
		if mode == BoundaryFooters && s.Position.Y < g.Height/2 {
			continue
		}
		top = math.Min(top, s.Position.Y)
	}
	return top
}

// band is the vertical extent flowing content may occupy on every page.
type band struct {
	top    float64
	bottom float64
}

func newBand(g template.PageGeometry, mode StaticBoundary) (band, error) {
	if g.ContentHeight() <= 0 {
		return band{}, fmt.Errorf("%w: height %.2fmm, padding top %.2fmm bottom %.2fmm",
			ErrEmptyGeometry, g.Height, g.Padding[template.PadTop], g.Padding[template.PadBottom])
	}
	b := band{
		top:    g.Padding[template.PadTop],
		bottom: math.Min(g.ContentBottom(), ReservedTop(g, mode)),
	}
	if b.height() <= 0 {
		return band{}, fmt.Errorf("%w: static fields reserve everything below %.2fmm", ErrEmptyGeometry, b.bottom)
	}
	return b, nil
}

func (b band) height() float64 {
	return b.bottom - b.top
}

// overflows reports whether h mm starting at y run past the band.
func (b band) overflows(y, h float64) bool {
	return y+h > b.bottom+epsilon
}
