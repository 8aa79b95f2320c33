package text

import (
	"strings"
	"sync"
)

// Fonts hands out a measurer for a font name.
type Fonts interface {
	For(name string) Measurer
}

// Registry is a Fonts implementation with explicitly registered measurers
// and a fallback for unknown names. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]Measurer
	fallback func(name string) Measurer
}

// NewRegistry creates a registry that answers unknown names with m.
func NewRegistry(m Measurer) *Registry {
	return &Registry{
		byName:   make(map[string]Measurer),
		fallback: func(string) Measurer { return m },
	}
}

// NewCoreRegistry creates a registry that measures every unknown name with
// the closest PDF core font.
func NewCoreRegistry() *Registry {
	r := &Registry{byName: make(map[string]Measurer)}
	r.fallback = func(name string) Measurer {
		family, style := ResolveCoreFont(name)
		key := "core:" + family + style
		r.mu.Lock()
		defer r.mu.Unlock()
		if m, ok := r.byName[key]; ok {
			return m
		}
		m := &CoreMeasurer{family: family, style: style}
		r.byName[key] = m
		return m
	}
	return r
}

// Register binds a font name to a measurer. Names are case-insensitive.
func (r *Registry) Register(name string, m Measurer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[strings.ToLower(name)] = m
}

// For returns the measurer registered for name, or the fallback.
func (r *Registry) For(name string) Measurer {
	r.mu.RLock()
	m, ok := r.byName[strings.ToLower(name)]
	r.mu.RUnlock()
	if ok {
		return m
	}
	return r.fallback(name)
}
