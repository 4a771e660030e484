package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"chimp/internal/assoc"
	"chimp/internal/ast"
	"chimp/internal/object"
	"chimp/internal/source"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data  []Scope
	equal assoc.EqualFunc[object.Value]
}

// NewScopes creates an arena with optional capacity hint. equal compares
// symbol names; nil selects object.Equals.
func NewScopes(capacity uint32, equal assoc.EqualFunc[object.Value]) *Scopes {
	if capacity == 0 {
		capacity = 16
	}
	if equal == nil {
		equal = object.Equals
	}
	return &Scopes{
		data:  make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
		equal: equal,
	}
}

// New allocates a new scope, links it under parent and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner ast.Node, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:    kind,
		Parent:  parent,
		Owner:   owner,
		Span:    span,
		Symbols: assoc.New[object.Value, Flags](s.equal),
	})
	if parent.IsValid() {
		if parentScope := s.Get(parent); parentScope != nil {
			parentScope.Children = append(parentScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}
