// Package stdlib provides the Lispy builtin function registry.
package stdlib

import (
	"github.com/thomasrohde/lispy/pkg/evaluator"
)

// Fn represents a builtin function.
type Fn struct {
	Name    string
	Execute evaluator.BuiltinFunc
}

// Registry holds registered builtins in registration order.
type Registry struct {
	fns   map[string]*Fn
	order []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Register adds a builtin to the registry, replacing any builtin with the
// same name.
func (r *Registry) Register(fn Fn) {
	if _, ok := r.fns[fn.Name]; !ok {
		r.order = append(r.order, fn.Name)
	}
	r.fns[fn.Name] = &fn
}

// Get retrieves a builtin by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Install binds every registered builtin in env.
func (r *Registry) Install(env *evaluator.Env) {
	for _, name := range r.order {
		fn := r.fns[name]
		env.Put(name, &evaluator.Builtin{Name: fn.Name, Fn: fn.Execute})
	}
}
