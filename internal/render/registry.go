package render

import (
	"fmt"
	"sync"
)

// DriverInfo describes one registered render system.
type DriverInfo struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Registry holds the render systems available to this process in
// registration order. Selection walks that order and takes the first exact
// name match, so registering the same name twice shadows the later entry.
type Registry struct {
	mu      sync.RWMutex
	drivers []Driver
}

// NewRegistry creates an empty render system registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a render system to the registry.
func (r *Registry) Register(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers = append(r.drivers, d)
}

// Available returns the registered render systems in registration order.
func (r *Registry) Available() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Driver, len(r.drivers))
	copy(out, r.drivers)
	return out
}

// Names returns the names of the registered render systems in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.drivers))
	for i, d := range r.drivers {
		names[i] = d.Name()
	}
	return names
}

// Select returns the first render system whose name equals name exactly.
// It returns an error wrapping ErrBackendUnavailable when none matches.
func (r *Registry) Select(name string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.drivers {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not registered", ErrBackendUnavailable, name)
}

// List returns information about all registered render systems, in
// registration order since that order decides selection.
func (r *Registry) List() []DriverInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DriverInfo, len(r.drivers))
	for i, d := range r.drivers {
		infos[i] = DriverInfo{Name: d.Name(), Index: i}
	}
	return infos
}
