package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownService - no adapter registered under that name
	ErrUnknownService = errors.New("adapter: unknown service")

	// ErrDuplicateService - two adapters claim the same name
	ErrDuplicateService = errors.New("adapter: duplicate service")
)

// Registry holds the adapters served by the API, in registration order.
type Registry struct {
	byName map[string]Reporter
	order  []Reporter
}

func NewRegistry(reporters ...Reporter) (*Registry, error) {
	r := &Registry{byName: make(map[string]Reporter, len(reporters))}

	for _, rep := range reporters {
		if _, exists := r.byName[rep.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, rep.Name())
		}
		r.byName[rep.Name()] = rep
		r.order = append(r.order, rep)
	}

	return r, nil
}

func (r *Registry) Reporter(name string) (Reporter, error) {
	rep, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	return rep, nil
}

func (r *Registry) Reporters() []Reporter {
	out := make([]Reporter, len(r.order))
	copy(out, r.order)
	return out
}

// Deleters returns the registered adapters that also support deletion.
func (r *Registry) Deleters() []Deleter {
	var out []Deleter
	for _, rep := range r.order {
		if d, ok := rep.(Deleter); ok {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, rep := range r.order {
		names[i] = rep.Name()
	}
	return names
}
