// Package stdlib provides the registry of native functions callable from lpi programs.
package stdlib

import (
	"sort"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/evaluator"
)

// Fn represents a native function with a fixed arity.
type Fn struct {
	Name    string
	Arity   int
	Execute func(args []evaluator.Value) (evaluator.Value, error)
}

// Registry holds registered native functions.
type Registry struct {
	fns map[string]*Fn
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fns: make(map[string]*Fn),
	}
}

// Default returns a registry holding every built-in native.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// Register adds a native function to the registry.
func (r *Registry) Register(fn Fn) {
	r.fns[fn.Name] = &fn
}

// Get retrieves a native function by name.
func (r *Registry) Get(name string) *Fn {
	return r.fns[name]
}

// All returns all registered native functions.
func (r *Registry) All() map[string]*Fn {
	return r.fns
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Arities maps each registered name to its arity.
func (r *Registry) Arities() map[string]int {
	out := make(map[string]int, len(r.fns))
	for name, fn := range r.fns {
		out[name] = fn.Arity
	}
	return out
}

// Natives converts the registry into the form expected by evaluator.ExecOptions.
func (r *Registry) Natives() map[string]*evaluator.NativeFn {
	out := make(map[string]*evaluator.NativeFn, len(r.fns))
	for name, fn := range r.fns {
		out[name] = &evaluator.NativeFn{
			Name:    fn.Name,
			Arity:   fn.Arity,
			Execute: fn.Execute,
		}
	}
	return out
}
