package bench

import (
	"fmt"
	"sync"

	"github.com/perfgo/latencylab/model"
)

// Registry is an append-only, ordered collection of cases. Registration order
// is preserved and decides the default case; when names collide the first
// registration wins.
type Registry struct {
	mu     sync.RWMutex
	cases  []Case
	byName map[string]Case
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Case)}
}

// Default is the process-wide registry populated at startup.
var Default = NewRegistry()

// Register appends c. A nil case is ignored.
func (r *Registry) Register(c Case) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cases = append(r.cases, c)
	if _, exists := r.byName[c.Name()]; !exists {
		r.byName[c.Name()] = c
	}
}

// All returns the registered cases in insertion order.
func (r *Registry) All() []Case {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Case, len(r.cases))
	copy(out, r.cases)
	return out
}

// Names returns the registered case names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cases))
	for _, c := range r.cases {
		names = append(names, c.Name())
	}
	return names
}

// Find returns the first case registered under name.
func (r *Registry) Find(name string) (Case, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]
	return c, ok
}

// Resolve selects the case for a run. An empty name picks the first
// registered case; an explicit name that is not registered is an error and
// never falls back to the default.
func (r *Registry) Resolve(name string) (Case, error) {
	if name != "" {
		c, ok := r.Find(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown case: %s", model.ErrConfiguration, name)
		}
		return c, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.cases) == 0 {
		return nil, fmt.Errorf("%w: no runnable case found", model.ErrConfiguration)
	}
	return r.cases[0], nil
}

// Register adds c to the Default registry.
func Register(c Case) { Default.Register(c) }

// All returns the cases of the Default registry.
func All() []Case { return Default.All() }

// Find looks name up in the Default registry.
func Find(name string) (Case, bool) { return Default.Find(name) }
