package symbols

import (
	"fmt"

	"chimp/internal/ast"
)

func (w *walker) exprs(ids []ast.ExprID) error {
	for _, id := range ids {
		if err := w.expr(id); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) expr(id ast.ExprID) error {
	e := w.b.Exprs.Get(id)
	if e == nil {
		return &Error{Kind: UnknownNodeVariant, Owner: ast.ExprNode(id), Err: fmt.Errorf("no expression %d", id)}
	}
	switch e.Kind {
	case ast.ExprCall:
		data, _ := w.b.Exprs.Call(id)
		if err := w.expr(data.Target); err != nil {
			return err
		}
		return w.exprs(data.Args)
	case ast.ExprGetAttr:
		data, _ := w.b.Exprs.GetAttr(id)
		return w.expr(data.Target)
	case ast.ExprGetItem:
		// the key is not visited
		data, _ := w.b.Exprs.GetItem(id)
		return w.expr(data.Target)
	case ast.ExprArray, ast.ExprHash:
		data, _ := w.b.Exprs.List(id)
		return w.exprs(data.Items)
	case ast.ExprIdent:
		data, _ := w.b.Exprs.Ident(id)
		return w.r.Reference(w.b.NameOf(data.Name), e.Span)
	case ast.ExprStr, ast.ExprBool, ast.ExprNil, ast.ExprInt:
		return nil
	case ast.ExprBinary:
		data, _ := w.b.Exprs.Binary(id)
		if err := w.expr(data.Left); err != nil {
			return err
		}
		return w.expr(data.Right)
	case ast.ExprNot:
		data, _ := w.b.Exprs.Not(id)
		return w.expr(data.Value)
	case ast.ExprFn:
		data, _ := w.b.Exprs.Fn(id)
		return w.function(ast.ExprNode(id), ScopeFunction, e.Span, data.Params, data.Body)
	case ast.ExprSpawn:
		data, _ := w.b.Exprs.Fn(id)
		return w.function(ast.ExprNode(id), ScopeTask, e.Span, data.Params, data.Body)
	default:
		return &Error{Kind: UnknownNodeVariant, Span: e.Span, Owner: ast.ExprNode(id), Err: fmt.Errorf("expression kind %d", e.Kind)}
	}
}
