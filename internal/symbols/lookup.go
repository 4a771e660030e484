package symbols

import (
	"fmt"

	"chimp/internal/object"
)

// Resolve walks from scope up through its parents and returns the flags of
// the first binding of name. It answers how a name should be addressed
// without re-running resolution.
func (t *Table) Resolve(scope ScopeID, name string) (Flags, bool, error) {
	key := object.Str(name)
	for id := scope; id.IsValid(); {
		s := t.Scope(id)
		if s == nil {
			return 0, false, &Error{Kind: MalformedScope, Name: name, Filename: t.filename(), Err: fmt.Errorf("dangling scope %d", id)}
		}
		flags, ok, err := s.Symbols.Get(key)
		if err != nil {
			return 0, false, &Error{Kind: ComparisonFailure, Name: name, Owner: s.Owner, Filename: t.filename(), Err: err}
		}
		if ok {
			return flags, true, nil
		}
		id = s.Parent
	}
	return 0, false, nil
}

// Exists reports whether name is bound in scope or any ancestor.
func (t *Table) Exists(scope ScopeID, name string) (bool, error) {
	_, ok, err := t.Resolve(scope, name)
	return ok, err
}

// DeclaredNames lists the names declared in scope itself, in insertion
// order. These are the names that need local slots.
func (t *Table) DeclaredNames(scope ScopeID) []string {
	return t.namesWith(scope, Flags.IsDeclared)
}

// FreeNames lists the names scope captures from enclosing scopes.
func (t *Table) FreeNames(scope ScopeID) []string {
	return t.namesWith(scope, Flags.IsFree)
}

func (t *Table) namesWith(scope ScopeID, pred func(Flags) bool) []string {
	s := t.Scope(scope)
	if s == nil {
		return nil
	}
	var out []string
	s.Symbols.Each(func(key object.Value, flags Flags) bool {
		if pred(flags) {
			out = append(out, nameOf(key))
		}
		return true
	})
	return out
}
