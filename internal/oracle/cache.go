package oracle

import (
	"context"
	"sync"

	"github.com/gompdf/gomlayout/internal/template"
)

// cacheKey is the field type and value plus every schema property that can
// change a measurement.
type cacheKey struct {
	typ     template.FieldType
	value   string
	width   float64
	height  float64
	font    string
	size    float64
	leading float64
	spacing float64
}

func keyOf(value string, s *template.Schema) cacheKey {
	return cacheKey{
		typ:     s.Type,
		value:   value,
		width:   s.Width,
		height:  s.Height,
		font:    s.FontName,
		size:    s.FontSize,
		leading: s.LineHeight,
		spacing: s.CharacterSpacing,
	}
}

// Cache memoizes another oracle for the lifetime of one layout call. It is
// safe for concurrent use. Failures are not cached. The wrapped oracle must
// not depend on the field name: fields with equal values and measurement
// properties share an entry.
type Cache struct {
	next Oracle

	mu      sync.RWMutex
	entries map[cacheKey][]float64
	hits    int
	misses  int
}

// NewCache wraps next.
func NewCache(next Oracle) *Cache {
	return &Cache{next: next, entries: make(map[cacheKey][]float64)}
}

// Measure returns a cached result or asks the wrapped oracle.
func (c *Cache) Measure(ctx context.Context, value string, s *template.Schema) ([]float64, error) {
	k := keyOf(value, s)

	c.mu.RLock()
	h, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return append([]float64(nil), h...), nil
	}

	h, err := c.next.Measure(ctx, value, s)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[k] = append([]float64(nil), h...)
	c.misses++
	c.mu.Unlock()
	return h, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
