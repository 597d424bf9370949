package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Definition declares an invokable operation: its name, description,
// and input schema. Definitions are immutable after startup.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// Handler executes one tool invocation with already-decoded arguments.
type Handler func(ctx context.Context, args map[string]any) (*Result, error)

// Registry is the catalog of named operations, loaded once at startup.
type Registry struct {
	defs     map[string]Definition
	handlers map[string]Handler
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:     make(map[string]Definition),
		handlers: make(map[string]Handler),
	}
}

// Register adds a tool. Duplicate names are a programming error.
func (r *Registry) Register(def Definition, h Handler) error {
	if def.Name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("register tool %s: already registered", def.Name)
	}
	if h == nil {
		return fmt.Errorf("register tool %s: nil handler", def.Name)
	}
	r.defs[def.Name] = def
	r.handlers[def.Name] = h
	r.order = append(r.order, def.Name)
	return nil
}

// Remove drops a tool from the catalog. Used for config-disabled tools.
func (r *Registry) Remove(name string) {
	if _, ok := r.defs[name]; !ok {
		return
	}
	delete(r.defs, name)
	delete(r.handlers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Handler returns the handler for name.
func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// List returns all definitions in registration order. The returned slice
// is a copy; repeated calls yield identical catalogs.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.defs) }

// Verify checks registry consistency for readiness probes: every
// definition has a handler, every handler a definition, and each schema
// is well-formed JSON.
func (r *Registry) Verify() error {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := r.handlers[name]; !ok {
			return fmt.Errorf("tool %s has no handler", name)
		}
		def := r.defs[name]
		if len(def.InputSchema) > 0 && !json.Valid(def.InputSchema) {
			return fmt.Errorf("tool %s has malformed input schema", name)
		}
	}
	for name := range r.handlers {
		if _, ok := r.defs[name]; !ok {
			return fmt.Errorf("handler %s has no definition", name)
		}
	}
	return nil
}
