package symbols

import (
	"fmt"

	"chimp/internal/assoc"
	"chimp/internal/ast"
	"chimp/internal/builtins"
	"chimp/internal/object"
	"chimp/internal/trace"
)

// Options controls a resolve pass for a single module.
type Options struct {
	Hints    Hints
	Builtins *builtins.Registry // nil selects builtins.Default()
	Tracer   trace.Tracer
	Parent   uint64 // trace span the pass hangs under
	Validate bool   // run Table.Validate after a successful walk
	// Equal compares symbol names; nil selects object.Equals.
	Equal assoc.EqualFunc[object.Value]
}

// Build walks the module once and returns its symbol table. The first error
// aborts the walk; no table is returned with it.
func Build(filename string, b *ast.Builder, mod ast.ModuleID, opts Options) (*Table, error) {
	reg := opts.Builtins
	if reg == nil {
		reg = builtins.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	table := NewTable(filename, opts.Hints, opts.Equal)
	span := trace.Begin(tracer, trace.ScopeUnit, "symbols:"+filename, opts.Parent)

	w := walker{
		b: b,
		r: NewResolver(table, reg, tracer),
	}
	w.r.parent = span.ID()

	err := w.module(mod)
	if err == nil && w.r.Depth() != 0 {
		err = &Error{Kind: MalformedScope, Err: fmt.Errorf("%d scopes left open", w.r.Depth())}
	}
	if err == nil && opts.Validate {
		if verr := table.Validate(); verr != nil {
			err = &Error{Kind: MalformedScope, Err: verr}
		}
	}
	if err != nil {
		if e, ok := AsError(err); ok && e.Filename == "" {
			e.Filename = filename
		}
		span.End("error")
		return nil, err
	}
	if m := b.Modules.Get(mod); m != nil {
		table.File = m.Span.File
	}
	span.WithExtra("scopes", fmt.Sprint(table.Scopes.Len())).End("")
	return table, nil
}

// walker is the recursive-descent visitor. Every visit returns the first
// error it meets.
type walker struct {
	b *ast.Builder
	r *Resolver
}

func (w *walker) module(id ast.ModuleID) error {
	m := w.b.Modules.Get(id)
	if m == nil {
		return &Error{Kind: UnknownNodeVariant, Owner: ast.ModuleNode(id), Err: fmt.Errorf("no module %d", id)}
	}
	scope, err := w.r.Enter(ast.ModuleNode(id), ScopeModule, m.Span)
	if err != nil {
		return err
	}
	if err := w.decls(m.Uses); err != nil {
		return err
	}
	if err := w.decls(m.Body); err != nil {
		return err
	}
	return w.r.Leave(scope)
}
