package pagination

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gompdf/gomlayout/internal/oracle"
	"github.com/gompdf/gomlayout/internal/table"
	"github.com/gompdf/gomlayout/internal/template"
)

// item is one authored field on its way through layout.
type item struct {
	schema *template.Schema

	// measured height of a non-table field
	height float64
	// built table and its malformed rows, tables only
	table     *table.Table
	malformed []table.MalformedRow
	// index of the first built row in the full record body
	offset int
}

// reflow lays out one authored page. It is used once and is not safe for
// concurrent use; only measure runs goroutines.
type reflow struct {
	band        band
	pageWidth   float64
	oracle      oracle.Oracle
	builder     *table.Builder
	record      template.Record
	concurrency int
	log         *zap.Logger

	order       map[string]int
	positions   *positionMap
	pages       [][]*template.Schema
	placements  []Placement
	diagnostics []Diagnostic
}

// run returns the output pages for page. Fields keep their authored order on
// every output page.
func (r *reflow) run(ctx context.Context, page *template.Page) ([]*template.Page, error) {
	items := make([]*item, 0, page.Len())
	r.order = make(map[string]int, page.Len())
	for i, s := range page.Schemas() {
		items = append(items, &item{schema: s})
		r.order[s.Name] = i
	}
	if err := r.measure(ctx, items); err != nil {
		return nil, err
	}

	sortByPosition(items)
	r.positions = newPositionMap()
	for _, it := range items {
		r.place(it)
	}
	return r.assemble(), nil
}

// measure fills in heights and tables concurrently. Measurements do not
// depend on each other; only placement is ordered.
func (r *reflow) measure(ctx context.Context, items []*item) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, it := range items {
		g.Go(func() error {
			return r.measureItem(ctx, it)
		})
	}
	return g.Wait()
}

func (r *reflow) measureItem(ctx context.Context, it *item) error {
	s := it.schema
	value := r.record.Value(s)

	if s.Type.Kind() == template.KindTable {
		body, err := table.ParseBody(value)
		if err != nil {
			return &FieldError{Field: s.Name, Err: err}
		}
		// an already paged fragment only owns its own rows
		body, it.offset = table.BodyRows(body, s.BodyRange)
		it.table, it.malformed = r.builder.Build(s, body, r.pageWidth)
		for i := range it.malformed {
			it.malformed[i].Row += it.offset
		}
		return nil
	}

	heights, err := r.oracle.Measure(ctx, value, s)
	if err != nil {
		return &OracleError{Field: s.Name, Err: err}
	}
	for _, h := range heights {
		if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return &OracleError{Field: s.Name, Err: fmt.Errorf("invalid height %v", h)}
		}
		it.height += h
	}
	return nil
}

// sortByPosition orders items top to bottom, keeping authored order for
// fields that start at the same height.
func sortByPosition(items []*item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].schema.Position.Y < items[j].schema.Position.Y-epsilon
	})
}

func (r *reflow) place(it *item) {
	s := it.schema
	p := placement{page: 0, y: s.Position.Y}
	if parent := r.positions.parentOf(s); parent != nil {
		p.parent = parent.field
		p.drift = parent.drift()
		p.page = parent.page
		p.y += p.drift
	}

	var a *anchor
	if it.table != nil {
		a = r.placeTable(it, p)
	} else {
		a = r.placeField(it, p)
	}
	a.field, a.kind = s.Name, s.Type.Kind()
	a.x, a.width = s.Position.X, s.Width
	a.originalBottom = s.Bottom()
	r.positions.add(a)
}

// placement is the page and drifted position a field starts at.
type placement struct {
	page   int
	y      float64
	parent string
	drift  float64
}

// placeField places an atomic field, breaking to the next page when it does
// not fit below its drifted position.
func (r *reflow) placeField(it *item, p placement) *anchor {
	s, h := it.schema, it.height
	if r.band.overflows(p.y, h) && p.y > r.band.top+epsilon {
		p.page++
		p.y = r.band.top
	}
	if r.band.overflows(p.y, h) {
		r.diagnose(FieldExceedsPage, s.Name, p.page,
			fmt.Sprintf("height %.2fmm exceeds the %.2fmm page band", h, r.band.height()))
	}

	out := s.Clone()
	out.Position.Y = p.y
	out.Height = h
	r.put(p.page, out)
	r.trace(s.Name, p, h, 0)

	return &anchor{newBottom: p.y + h, page: p.page}
}

// placeTable splits a table into fragments. The first fragment starts at the
// drifted position, every later one at the top of the following page.
func (r *reflow) placeTable(it *item, p placement) *anchor {
	s, t := it.schema, it.table
	headH := t.HeadHeight()

	// restart on the next page unless the header and a first row fit
	need := 0.0
	if t.ShowHead {
		need += headH
	}
	if len(t.Body) > 0 {
		need += t.Body[0].Height
	}
	if r.band.overflows(p.y, need) && p.y > r.band.top+epsilon {
		p.page++
		p.y = r.band.top
	}

	for _, m := range it.malformed {
		r.diagnose(MalformedTableBody, s.Name, p.page, m.String())
	}

	first := r.band.bottom - p.y
	if t.ShowHead {
		first -= headH
	}
	fresh := r.band.height()
	if s.RepeatHead {
		fresh -= headH
	}
	fragments := table.Paginate(t, first, fresh, s.RepeatHead)

	var last *anchor
	for i, f := range fragments {
		page, y := p.page+i, p.y
		if i > 0 {
			y = r.band.top
		}
		out := s.Clone()
		out.Position.Y = y
		out.Height = f.Height()
		out.ShowHead = f.Table.ShowHead
		if len(fragments) > 1 {
			rng := template.Range{Start: f.Range.Start + it.offset, End: f.Range.End + it.offset}
			out.BodyRange = &rng
			out.IsSplit = s.IsSplit || i > 0
		}
		r.put(page, out)

		fp := placement{page: page, y: y, parent: p.parent, drift: p.drift}
		r.trace(s.Name, fp, out.Height, i)
		if f.Oversized {
			budget := fresh
			if i == 0 {
				budget = first
			}
			r.diagnose(RowExceedsPage, s.Name, page,
				fmt.Sprintf("body row %d is %.2fmm high, the page holds %.2fmm",
					f.Range.Start+it.offset, f.Table.BodyHeight(), math.Max(0, budget)))
		}
		last = &anchor{newBottom: y + out.Height, page: page}
	}
	return last
}

func (r *reflow) put(page int, s *template.Schema) {
	for len(r.pages) <= page {
		r.pages = append(r.pages, nil)
	}
	r.pages[page] = append(r.pages[page], s)
}

func (r *reflow) trace(field string, p placement, height float64, fragment int) {
	r.placements = append(r.placements, Placement{
		Field:    field,
		Page:     p.page,
		Y:        p.y,
		Height:   height,
		Parent:   p.parent,
		Drift:    p.drift,
		Fragment: fragment,
	})
	r.log.Debug("Placed field",
		zap.String("field", field),
		zap.Int("page", p.page),
		zap.Float64("y", p.y),
		zap.Float64("height", height),
		zap.String("parent", p.parent),
		zap.Float64("drift", p.drift),
		zap.Int("fragment", fragment))
}

func (r *reflow) diagnose(kind DiagnosticKind, field string, page int, msg string) {
	d := Diagnostic{Kind: kind, Field: field, Page: page, Message: msg}
	r.diagnostics = append(r.diagnostics, d)
	if kind != MalformedTableBody {
		// the table builder already warned about malformed rows
		r.log.Warn("Layout degraded", zap.Stringer("kind", kind), zap.String("field", field),
			zap.Int("page", page), zap.String("details", msg))
	}
}

// assemble builds the output pages in authored key order and drops trailing
// empty pages, always keeping at least one.
func (r *reflow) assemble() []*template.Page {
	pages := r.pages
	for len(pages) > 1 && len(pages[len(pages)-1]) == 0 {
		pages = pages[:len(pages)-1]
	}
	if len(pages) == 0 {
		return []*template.Page{template.NewPage()}
	}
	out := make([]*template.Page, len(pages))
	for i, fields := range pages {
		sort.SliceStable(fields, func(a, b int) bool {
			return r.order[fields[a].Name] < r.order[fields[b].Name]
		})
		out[i] = template.NewPage(fields...)
	}
	return out
}
