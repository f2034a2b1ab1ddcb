package dispatcher

import (
	"sort"
	"sync"

	"quill/internal/faults"
)

// Registry tracks running dispatchers by name. A name may be held by at most
// one running dispatcher at a time.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Dispatcher
}

// DefaultRegistry is the process-wide registry used unless WithRegistry is given.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Dispatcher)}
}

// Register claims name for d.
func (r *Registry) Register(name string, d *Dispatcher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[name]; ok && existing != d {
		return faults.Wrap(faults.ErrAlreadyRegistered, "dispatcher", "register", "name "+name+" is held by a running dispatcher", nil)
	}
	r.entries[name] = d
	return nil
}

// Release frees name if it is held by d.
func (r *Registry) Release(name string, d *Dispatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[name] == d {
		delete(r.entries, name)
	}
}

// Lookup returns the dispatcher holding name.
func (r *Registry) Lookup(name string) (*Dispatcher, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.entries[name]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
