// Package builtins is the registry of names visible from every scope
// without a declaration.
package builtins

import (
	"slices"
	"sort"
)

// defaultNames are the names every program can reference.
var defaultNames = []string{
	"array",
	"error",
	"hash",
	"int",
	"nil",
	"object",
	"print",
	"range",
	"recv",
	"str",
}

// Registry answers IsBuiltin. It is immutable after construction and safe
// for concurrent use.
type Registry struct {
	names map[string]struct{}
}

// Default returns a registry holding only the default names.
func Default() *Registry {
	return New(nil)
}

// New returns a registry with the default names plus extra.
func New(extra []string) *Registry {
	r := &Registry{names: make(map[string]struct{}, len(defaultNames)+len(extra))}
	for _, name := range defaultNames {
		r.names[name] = struct{}{}
	}
	for _, name := range extra {
		if name == "" {
			continue
		}
		r.names[name] = struct{}{}
	}
	return r
}

// IsBuiltin reports whether name is a builtin.
func (r *Registry) IsBuiltin(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.names[name]
	return ok
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultNames returns a copy of the default name list.
func DefaultNames() []string {
	return slices.Clone(defaultNames)
}
