package symbols

import (
	"chimp/internal/assoc"
	"chimp/internal/ast"
	"chimp/internal/object"
	"chimp/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // module root
	ScopeFunction           // function declaration or fn literal
	ScopeClass              // class body
	ScopeTask               // spawned task body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeTask:
		return "task"
	default:
		return "invalid"
	}
}

// SymbolMap maps a name to its classification.
type SymbolMap = assoc.Map[object.Value, Flags]

// Scope models one lexical scope. Parent and Children are arena IDs.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Owner    ast.Node
	Span     source.Span
	Symbols  *SymbolMap
	Children []ScopeID
}

// Local returns the flags of name declared in this scope only.
func (s *Scope) Local(name string) (Flags, bool, error) {
	return s.Symbols.Get(object.Str(name))
}

// Names returns every name of the scope in insertion order.
func (s *Scope) Names() []string {
	out := make([]string, 0, s.Symbols.Len())
	s.Symbols.Each(func(key object.Value, _ Flags) bool {
		out = append(out, nameOf(key))
		return true
	})
	return out
}

func nameOf(v object.Value) string {
	if s, ok := v.(object.Str); ok {
		return string(s)
	}
	return v.String()
}
