package typesubst

import "strings"

// Registry is a named set of type descriptors, the unit a schema model's
// native-type lookup searches through. Registries are populated once during
// setup and read-only afterwards, so concurrent lookups are safe.
type Registry struct {
	name  string
	types map[string]*Type // lower-cased name → descriptor
	order []*Type
}

// NewRegistry creates an empty registry with the given name.
func NewRegistry(name string) *Registry {
	return &Registry{
		name:  name,
		types: make(map[string]*Type),
	}
}

// Name returns the registry name.
func (r *Registry) Name() string { return r.name }

// Register adds a descriptor, replacing any previous descriptor with the
// same name. Nil and anonymous descriptors are ignored.
func (r *Registry) Register(t *Type) {
	if t == nil || t.Name == "" {
		return
	}
	key := strings.ToLower(t.Name)
	if prev, exists := r.types[key]; exists {
		for i, existing := range r.order {
			if existing == prev {
				r.order[i] = t
				break
			}
		}
	} else {
		r.order = append(r.order, t)
	}
	r.types[key] = t
}

// Lookup resolves a descriptor by name, case-insensitively.
func (r *Registry) Lookup(name string) (*Type, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.types[strings.ToLower(name)]
	return t, ok
}

// Types returns the registered descriptors in registration order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, len(r.order))
	copy(out, r.order)
	return out
}

// LookupIn resolves name across registries in order, first match wins.
func LookupIn(registries []*Registry, name string) (*Type, bool) {
	for _, r := range registries {
		if t, ok := r.Lookup(name); ok {
			return t, ok
		}
	}
	return nil, false
}
