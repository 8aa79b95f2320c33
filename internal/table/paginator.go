package table

import (
	"github.com/gompdf/gomlayout/internal/template"
)

// epsilon is the tolerance for height comparisons, in mm.
const epsilon = 0.01

// Fragment is one page's share of a table.
type Fragment struct {
	Table *Table
	Range template.Range
	// Oversized marks a single row forced into a fragment whose budget it
	// exceeds.
	Oversized bool
}

// Height returns the rendered height of the fragment.
func (f Fragment) Height() float64 {
	return f.Table.Height()
}

// Paginate splits the body of t into fragments. The first fragment may use
// first mm of body rows, every later one fresh mm; header heights must
// already be subtracted by the caller. Rows are never split and every
// fragment takes at least one row, so a row taller than its budget ends up
// alone in an oversized fragment. Callers restart a table that does not fit
// its first row, so a forced first row only happens at the top of a page. The first fragment keeps t.ShowHead, later ones
// show the header only when repeatHead is set.
func Paginate(t *Table, first, fresh float64, repeatHead bool) []Fragment {
	if len(t.Body) == 0 {
		r := template.Range{}
		return []Fragment{{Table: t.Slice(r, t.ShowHead), Range: r}}
	}

	var (
		fragments []Fragment
		budget    = first
	)
	for start := 0; start < len(t.Body); {
		end, used := start, 0.0
		for end < len(t.Body) && used+t.Body[end].Height <= budget+epsilon {
			used += t.Body[end].Height
			end++
		}
		oversized := false
		if end == start {
			oversized = t.Body[start].Height > budget+epsilon
			end++
		}

		showHead := repeatHead
		if len(fragments) == 0 {
			showHead = t.ShowHead
		}
		r := template.Range{Start: start, End: end}
		fragments = append(fragments, Fragment{Table: t.Slice(r, showHead), Range: r, Oversized: oversized})

		start, budget = end, fresh
	}
	return fragments
}
