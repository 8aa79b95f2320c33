package pagination

import (
	"fmt"
	"strings"
)

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in mm
var (
	PageSizeA3     = PageSize{Width: 297, Height: 420, Name: "A3"}
	PageSizeA4     = PageSize{Width: 210, Height: 297, Name: "A4"}
	PageSizeA5     = PageSize{Width: 148, Height: 210, Name: "A5"}
	PageSizeA6     = PageSize{Width: 105, Height: 148, Name: "A6"}
	PageSizeLetter = PageSize{Width: 215.9, Height: 279.4, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 215.9, Height: 355.6, Name: "Legal"}
)

var pageSizes = []PageSize{PageSizeA3, PageSizeA4, PageSizeA5, PageSizeA6, PageSizeLetter, PageSizeLegal}

// LookupPageSize finds a standard page size by name, ignoring case.
func LookupPageSize(name string) (PageSize, error) {
	for _, ps := range pageSizes {
		if strings.EqualFold(ps.Name, name) {
			return ps, nil
		}
	}
	return PageSize{}, fmt.Errorf("unknown page size %q", name)
}

// Landscape returns the size with the longer side horizontal.
func (ps PageSize) Landscape() PageSize {
	if ps.Width < ps.Height {
		ps.Width, ps.Height = ps.Height, ps.Width
	}
	return ps
}
