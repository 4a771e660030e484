package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"chimp/internal/assoc"
	"chimp/internal/ast"
	"chimp/internal/object"
	"chimp/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes uint }

// Table is the result of one resolution: the scope tree of a module and the
// lookup from scope-introducing nodes to their scopes. It is not mutated after
// Build returns, so concurrent readers need no locking.
type Table struct {
	Filename string
	File     source.FileID
	Scopes   *Scopes
	Root     ScopeID
	byNode   map[ast.Node]ScopeID
}

// NewTable builds an empty table. equal compares symbol names; nil selects
// object.Equals.
func NewTable(filename string, h Hints, equal assoc.EqualFunc[object.Value]) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	return &Table{
		Filename: filename,
		Scopes:   NewScopes(scopeCap, equal),
		byNode:   make(map[ast.Node]ScopeID),
	}
}

// Scope returns the scope with the given ID, or nil.
func (t *Table) Scope(id ScopeID) *Scope {
	if t == nil {
		return nil
	}
	return t.Scopes.Get(id)
}

// Lookup maps a scope-introducing node to its scope.
func (t *Table) Lookup(node ast.Node) (ScopeID, bool) {
	if t == nil {
		return NoScopeID, false
	}
	id, ok := t.byNode[node]
	return id, ok
}

// MustLookup is Lookup that reports a missing node as a MalformedScope error.
func (t *Table) MustLookup(node ast.Node) (ScopeID, error) {
	id, ok := t.Lookup(node)
	if !ok {
		return NoScopeID, &Error{Kind: MalformedScope, Owner: node, Filename: t.filename(), Err: fmt.Errorf("no scope registered for %s", node)}
	}
	return id, nil
}

// Owners returns the number of registered scope-introducing nodes.
func (t *Table) Owners() int {
	if t == nil {
		return 0
	}
	return len(t.byNode)
}

func (t *Table) filename() string {
	if t == nil {
		return ""
	}
	return t.Filename
}
