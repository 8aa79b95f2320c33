package pagination

import (
	"math"

	"github.com/gompdf/gomlayout/internal/template"
)

// epsilon is the tolerance for coordinate comparisons, in mm.
const epsilon = 0.01

// anchor records where a processed field was authored to end and where it
// actually ends. Tables anchor at their last fragment.
type anchor struct {
	field          string
	kind           template.Kind
	x              float64
	width          float64
	originalBottom float64
	newBottom      float64
	page           int
}

func (a *anchor) drift() float64 {
	return a.newBottom - a.originalBottom
}

// positionMap indexes anchors by authored bottom edge. It is append only and
// owned by a single reflow.
type positionMap struct {
	byBottom map[float64][]*anchor
	bottoms  []float64 // descending
}

func newPositionMap() *positionMap {
	return &positionMap{byBottom: make(map[float64][]*anchor)}
}

func (m *positionMap) add(a *anchor) {
	if _, ok := m.byBottom[a.originalBottom]; !ok {
		i := 0
		for i < len(m.bottoms) && m.bottoms[i] > a.originalBottom {
			i++
		}
		m.bottoms = append(m.bottoms, 0)
		copy(m.bottoms[i+1:], m.bottoms[i:])
		m.bottoms[i] = a.originalBottom
	}
	m.byBottom[a.originalBottom] = append(m.byBottom[a.originalBottom], a)
}

// parentOf returns the anchor with the greatest authored bottom that ends at
// or above the authored top of s and shares horizontal extent with it. Of
// several anchors at the same bottom the one placed furthest down wins.
func (m *positionMap) parentOf(s *template.Schema) *anchor {
	for _, bottom := range m.bottoms {
		if bottom > s.Position.Y+epsilon {
			continue
		}
		var best *anchor
		for _, a := range m.byBottom[bottom] {
			if !overlapX(a.x, a.width, s.Position.X, s.Width) {
				continue
			}
			if best == nil || a.page > best.page || (a.page == best.page && a.newBottom > best.newBottom) {
				best = a
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

// overlapX reports whether two horizontal intervals intersect: same start,
// or one start strictly inside the other interval.
func overlapX(x1, w1, x2, w2 float64) bool {
	switch {
	case math.Abs(x1-x2) <= epsilon:
		return true
	case x1 < x2:
		return x2 < x1+w1-epsilon
	default:
		return x1 < x2+w2-epsilon
	}
}
