package symbols

import (
	"fmt"

	"chimp/internal/ast"
	"chimp/internal/source"
)

func (w *walker) decls(ids []ast.DeclID) error {
	for _, id := range ids {
		if err := w.decl(id); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) decl(id ast.DeclID) error {
	d := w.b.Decls.Get(id)
	if d == nil {
		return &Error{Kind: UnknownNodeVariant, Owner: ast.DeclNode(id), Err: fmt.Errorf("no declaration %d", id)}
	}
	switch d.Kind {
	case ast.DeclFunc:
		fn, _ := w.b.Decls.Func(id)
		if err := w.r.Declare(w.b.NameOf(fn.Name), d.Span); err != nil {
			return err
		}
		return w.function(ast.DeclNode(id), ScopeFunction, d.Span, fn.Params, fn.Body)
	case ast.DeclClass:
		cls, _ := w.b.Decls.Class(id)
		return w.class(id, d, cls)
	case ast.DeclUse:
		use, _ := w.b.Decls.Use(id)
		return w.r.Declare(w.b.NameOf(use.Name), d.Span)
	case ast.DeclVar:
		v, _ := w.b.Decls.Var(id)
		if err := w.r.Declare(w.b.NameOf(v.Name), d.Span); err != nil {
			return err
		}
		if v.Value.IsValid() {
			return w.expr(v.Value)
		}
		return nil
	default:
		return &Error{Kind: UnknownNodeVariant, Span: d.Span, Owner: ast.DeclNode(id), Err: fmt.Errorf("declaration kind %d", d.Kind)}
	}
}

// function enters a scope for a function declaration, fn literal or spawned
// task, declares the parameters and visits the body.
func (w *walker) function(owner ast.Node, kind ScopeKind, span source.Span, params []ast.DeclID, body []ast.Node) error {
	scope, err := w.r.Enter(owner, kind, span)
	if err != nil {
		return err
	}
	if err := w.decls(params); err != nil {
		return err
	}
	if err := w.block(body); err != nil {
		return err
	}
	return w.r.Leave(scope)
}

func (w *walker) class(id ast.DeclID, d *ast.Decl, cls *ast.DeclClassData) error {
	if err := w.r.Declare(w.b.NameOf(cls.Name), d.Span); err != nil {
		return err
	}
	scope, err := w.r.Enter(ast.DeclNode(id), ScopeClass, d.Span)
	if err != nil {
		return err
	}
	// Only the first component of a dotted base path becomes visible in the
	// class body, and it carries no role or kind.
	if len(cls.Base) > 0 {
		if err := w.r.Add(w.b.NameOf(cls.Base[0]), 0, d.Span); err != nil {
			return err
		}
	}
	if err := w.decls(cls.Body); err != nil {
		return err
	}
	return w.r.Leave(scope)
}
