package param

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownParameter is returned for names the registry does not hold.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrSetupParameter is returned when a live change targets a setup
	// parameter.
	ErrSetupParameter = errors.New("setup parameter cannot change while running")
	// ErrDuplicateParameter is returned by Add for a reused ID or name.
	ErrDuplicateParameter = errors.New("duplicate parameter")
)

// Registry holds parameters in registration order.
type Registry struct {
	params map[uint32]*Parameter
	names  map[string]uint32
	order  []uint32
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		names:  make(map[string]uint32),
	}
}

// Add registers parameters. Duplicate IDs or names are rejected.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("%w: ID %d", ErrDuplicateParameter, p.ID)
		}
		if _, exists := r.names[p.Name]; exists {
			return fmt.Errorf("%w: name %q", ErrDuplicateParameter, p.Name)
		}
		r.params[p.ID] = p
		r.names[p.Name] = p.ID
		r.order = append(r.order, p.ID)
	}
	return nil
}

// Get returns the parameter with id, or nil.
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params[id]
}

// GetByName returns the named parameter, or nil.
func (r *Registry) GetByName(name string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	if !ok {
		return nil
	}
	return r.params[id]
}

// GetByIndex returns the parameter registered index-th, or nil.
func (r *Registry) GetByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All returns the parameters in registration order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}
	return result
}

// Set parses a display string and stores it on the named parameter. Values
// outside the range are clamped. Setup parameters are refused.
func (r *Registry) Set(name, value string) error {
	p := r.GetByName(name)
	if p == nil {
		return fmt.Errorf("%w %q", ErrUnknownParameter, name)
	}
	if p.Setup {
		return fmt.Errorf("%s: %w", name, ErrSetupParameter)
	}
	normalized, err := p.ParseValue(value)
	if err != nil {
		return err
	}
	p.SetValue(normalized)
	return nil
}

// Live returns the parameters that may change while an oscillator runs.
func (r *Registry) Live() []*Parameter {
	all := r.All()
	live := all[:0]
	for _, p := range all {
		if !p.Setup {
			live = append(live, p)
		}
	}
	return live
}
