package symbols

import (
	"fmt"

	"chimp/internal/ast"
)

// pattern declares the bindings introduced by a match clause test.
// Identifiers bind; array and hash shapes recurse into their elements, hash
// keys and values alike; every other expression binds nothing.
func (w *walker) pattern(id ast.ExprID) error {
	e := w.b.Exprs.Get(id)
	if e == nil {
		return &Error{Kind: UnknownNodeVariant, Owner: ast.ExprNode(id), Err: fmt.Errorf("no pattern expression %d", id)}
	}
	switch e.Kind {
	case ast.ExprIdent:
		data, _ := w.b.Exprs.Ident(id)
		return w.r.Declare(w.b.NameOf(data.Name), e.Span)
	case ast.ExprArray:
		data, _ := w.b.Exprs.List(id)
		for _, item := range data.Items {
			if err := w.pattern(item); err != nil {
				return err
			}
		}
		return nil
	case ast.ExprHash:
		data, _ := w.b.Exprs.List(id)
		for i := 0; i+1 < len(data.Items); i += 2 {
			if err := w.pattern(data.Items[i]); err != nil {
				return err
			}
			if err := w.pattern(data.Items[i+1]); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
