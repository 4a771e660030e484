package symbols

import (
	"chimp/internal/object"
)

// Snapshot is a plain view of a table for serialization and printing.
type Snapshot struct {
	Filename string          `json:"filename" msgpack:"filename"`
	Root     uint32          `json:"root" msgpack:"root"`
	Scopes   []ScopeSnapshot `json:"scopes" msgpack:"scopes"`
}

// ScopeSnapshot describes one scope. IDs match the table's ScopeIDs.
type ScopeSnapshot struct {
	ID       uint32           `json:"id" msgpack:"id"`
	Kind     string           `json:"kind" msgpack:"kind"`
	Parent   uint32           `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Owner    string           `json:"owner" msgpack:"owner"`
	Start    uint32           `json:"start" msgpack:"start"`
	End      uint32           `json:"end" msgpack:"end"`
	Symbols  []SymbolSnapshot `json:"symbols" msgpack:"symbols"`
	Children []uint32         `json:"children,omitempty" msgpack:"children,omitempty"`
}

// SymbolSnapshot is one name and its classification.
type SymbolSnapshot struct {
	Name  string `json:"name" msgpack:"name"`
	Flags Flags  `json:"flags" msgpack:"flags"`
	Class string `json:"class" msgpack:"class"`
}

// Snapshot copies the table into a Snapshot. Scopes appear in allocation
// order, which is depth-first pre-order.
func (t *Table) Snapshot() *Snapshot {
	if t == nil {
		return nil
	}
	out := &Snapshot{
		Filename: t.Filename,
		Root:     uint32(t.Root),
		Scopes:   make([]ScopeSnapshot, 0, t.Scopes.Len()),
	}
	for i, scope := range t.Scopes.Data() {
		ss := ScopeSnapshot{
			ID:      uint32(i + 1), //nolint:gosec // bounded by arena size
			Kind:    scope.Kind.String(),
			Parent:  uint32(scope.Parent),
			Owner:   scope.Owner.String(),
			Start:   scope.Span.Start,
			End:     scope.Span.End,
			Symbols: make([]SymbolSnapshot, 0, scope.Symbols.Len()),
		}
		for _, child := range scope.Children {
			ss.Children = append(ss.Children, uint32(child))
		}
		scope.Symbols.Each(func(key object.Value, flags Flags) bool {
			ss.Symbols = append(ss.Symbols, SymbolSnapshot{Name: nameOf(key), Flags: flags, Class: flags.String()})
			return true
		})
		out.Scopes = append(out.Scopes, ss)
	}
	return out
}

// Scope returns the snapshot of scope id, or nil.
func (s *Snapshot) Scope(id uint32) *ScopeSnapshot {
	if s == nil || id == 0 || int(id) > len(s.Scopes) {
		return nil
	}
	return &s.Scopes[id-1]
}

// Lookup returns the flags of name bound directly in scope id.
func (s *ScopeSnapshot) Lookup(name string) (Flags, bool) {
	for _, sym := range s.Symbols {
		if sym.Name == name {
			return sym.Flags, true
		}
	}
	return 0, false
}

// Counts tallies the names of every scope by role.
func (s *Snapshot) Counts() (declared, free, builtin int) {
	for _, scope := range s.Scopes {
		for _, sym := range scope.Symbols {
			switch {
			case sym.Flags.IsDeclared():
				declared++
			case sym.Flags.IsFree():
				free++
			case sym.Flags.IsBuiltin():
				builtin++
			}
		}
	}
	return declared, free, builtin
}
