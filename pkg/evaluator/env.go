package evaluator

import (
	"sort"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
)

// Env is a variable scope. The root Env is the global scope and also owns
// the function table; call frames are children of the root.
type Env struct {
	bindings map[string]Value
	parent   *Env
	funcs    map[string]*ast.FunDef // root only
}

// NewEnv creates a new environment with an optional parent scope.
func NewEnv(parent *Env) *Env {
	e := &Env{
		bindings: make(map[string]Value),
		parent:   parent,
	}
	if parent == nil {
		e.funcs = make(map[string]*ast.FunDef)
	}
	return e
}

// Child creates a new child scope whose parent is this environment.
func (e *Env) Child() *Env {
	return NewEnv(e)
}

// Global returns the root scope.
func (e *Env) Global() *Env {
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Get looks up a variable by name, traversing parent scopes.
func (e *Env) Get(name string) (Value, bool) {
	if val, ok := e.bindings[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

// Set binds a variable in this scope.
func (e *Env) Set(name string, val Value) {
	e.bindings[name] = val
}

// Has checks whether a variable is defined in this scope or any parent.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Names returns the names bound directly in this scope, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the bindings of this scope. Arrays are shared.
func (e *Env) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.bindings))
	for k, v := range e.bindings {
		out[k] = v
	}
	return out
}

// DefineFunc registers def in the global function table, replacing any
// previous definition of the same name.
func (e *Env) DefineFunc(def *ast.FunDef) {
	e.Global().funcs[def.Name] = def
}

// LookupFunc returns the user function called name.
func (e *Env) LookupFunc(name string) (*ast.FunDef, bool) {
	def, ok := e.Global().funcs[name]
	return def, ok
}

// FuncNames returns the names of the defined user functions, sorted.
func (e *Env) FuncNames() []string {
	g := e.Global()
	names := make([]string, 0, len(g.funcs))
	for name := range g.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
