package symbols

import (
	"fmt"

	"chimp/internal/ast"
	"chimp/internal/builtins"
	"chimp/internal/object"
	"chimp/internal/source"
	"chimp/internal/trace"
)

// Resolver drives scope management, declarations and identifier
// classification for one table.
type Resolver struct {
	table    *Table
	builtins *builtins.Registry
	tracer   trace.Tracer
	parent   uint64 // trace span the node events hang under
	current  ScopeID
	stack    []ScopeID
}

// NewResolver wires a resolver to table. A nil registry knows no builtins;
// a nil tracer disables node events.
func NewResolver(table *Table, reg *builtins.Registry, tracer trace.Tracer) *Resolver {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Resolver{
		table:    table,
		builtins: reg,
		tracer:   tracer,
		stack:    make([]ScopeID, 0, 8),
	}
}

// Current returns the active scope.
func (r *Resolver) Current() ScopeID { return r.current }

// Depth reports how many scopes are saved below the active one.
func (r *Resolver) Depth() int { return len(r.stack) }

// Enter creates a scope of kind owned by owner as a child of the active
// scope, registers it for owner and makes it active.
func (r *Resolver) Enter(owner ast.Node, kind ScopeKind, span source.Span) (ScopeID, error) {
	if !r.current.IsValid() && r.table.Root.IsValid() {
		return NoScopeID, &Error{Kind: MalformedScope, Owner: owner, Span: span, Err: fmt.Errorf("second root scope")}
	}
	if prev, ok := r.table.Lookup(owner); ok {
		return NoScopeID, &Error{Kind: MalformedScope, Owner: owner, Span: span, Err: fmt.Errorf("node already owns scope %d", prev)}
	}
	id := r.table.Scopes.New(kind, r.current, owner, span)
	r.table.byNode[owner] = id
	if r.current.IsValid() {
		r.stack = append(r.stack, r.current)
	} else {
		r.table.Root = id
	}
	r.current = id
	if r.tracer.Level().ShouldEmit(trace.ScopeNode) {
		trace.Point(r.tracer, trace.ScopeNode, "enter "+kind.String(), r.parent, owner.String())
	}
	return id, nil
}

// Leave makes the saved scope active again. expected must be the active
// scope; NoScopeID skips the check. Leaving the root keeps it active.
func (r *Resolver) Leave(expected ScopeID) error {
	if !r.current.IsValid() {
		return &Error{Kind: MalformedScope, Err: fmt.Errorf("leave without an active scope")}
	}
	if expected.IsValid() && r.current != expected {
		debugScopeMismatch(expected, r.current, r.scope().Owner)
		return &Error{Kind: MalformedScope, Owner: r.scope().Owner, Err: fmt.Errorf("expected to leave scope %d, active is %d", expected, r.current)}
	}
	if n := len(r.stack); n > 0 {
		r.current = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	return nil
}

func (r *Resolver) scope() *Scope {
	return r.table.Scopes.Get(r.current)
}

// Add stores name with exactly flags in the active scope, replacing any
// previous classification of name there.
func (r *Resolver) Add(name string, flags Flags, span source.Span) error {
	s := r.scope()
	if s == nil {
		return &Error{Kind: MalformedScope, Name: name, Span: span, Err: fmt.Errorf("declaration outside any scope")}
	}
	if err := s.Symbols.Put(object.Str(name), flags); err != nil {
		return &Error{Kind: ComparisonFailure, Name: name, Span: span, Owner: s.Owner, Err: err}
	}
	return nil
}

// Declare binds name as Declared with the kind of the active scope.
func (r *Resolver) Declare(name string, span source.Span) error {
	s := r.scope()
	if s == nil {
		return &Error{Kind: MalformedScope, Name: name, Span: span, Err: fmt.Errorf("declaration outside any scope")}
	}
	return r.Add(name, Declared|kindFlags(s.Kind), span)
}

// Reference classifies a use of name from the active scope. A binding in
// the active scope needs nothing; a binding in an ancestor is recorded here
// as Free with the ancestor's kind; otherwise the name must be a builtin.
func (r *Resolver) Reference(name string, span source.Span) error {
	key := object.Str(name)
	for id := r.current; id.IsValid(); {
		s := r.table.Scopes.Get(id)
		if s == nil {
			return &Error{Kind: MalformedScope, Name: name, Span: span, Err: fmt.Errorf("dangling scope %d", id)}
		}
		ok, err := s.Symbols.Has(key)
		if err != nil {
			return &Error{Kind: ComparisonFailure, Name: name, Span: span, Owner: s.Owner, Err: err}
		}
		if ok {
			if id == r.current {
				return nil
			}
			return r.Add(name, Free|kindFlags(s.Kind), span)
		}
		id = s.Parent
	}
	if r.builtins.IsBuiltin(name) {
		return r.Add(name, Builtin, span)
	}
	owner := ast.NoNode
	if s := r.scope(); s != nil {
		owner = s.Owner
	}
	return &Error{Kind: UndefinedSymbol, Name: name, Span: span, Owner: owner}
}
