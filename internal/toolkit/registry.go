package toolkit

import "fmt"

// Registry is the static table mapping tool names to descriptors. It is
// populated once at process start and read-only afterwards, so Lookup and
// Descriptors require no locking and are safe for concurrent use.
type Registry struct {
	order  []string
	byName map[string]*Descriptor
}

// NewRegistry returns an empty Registry ready for registration.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds one descriptor to the registry. It returns an error when the
// descriptor has no name, no handler, or when the name is already taken —
// all three are programming errors in the static tool table and should abort
// startup.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("toolkit: descriptor must have a name")
	}
	if d.Handler == nil {
		return fmt.Errorf("toolkit: tool %q must have a handler", d.Name)
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("toolkit: tool %q registered twice", d.Name)
	}
	desc := d
	r.byName[d.Name] = &desc
	r.order = append(r.order, d.Name)
	return nil
}

// MustRegister is like [Registry.Register] but panics on error. Intended for
// the fixed tool tables built in package init paths.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor for name. The second return value reports
// whether the tool is registered.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Descriptors returns all registered descriptors in registration order. The
// returned slice is freshly allocated; callers may not mutate the pointed-to
// descriptors.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
