package symbols

import (
	"fmt"

	"chimp/internal/ast"
)

// block visits a body that mixes statements and declarations.
func (w *walker) block(nodes []ast.Node) error {
	for _, n := range nodes {
		var err error
		switch n.Kind {
		case ast.NodeStmt:
			err = w.stmt(ast.StmtID(n.ID))
		case ast.NodeDecl:
			err = w.decl(ast.DeclID(n.ID))
		default:
			err = &Error{Kind: UnknownNodeVariant, Owner: n, Err: fmt.Errorf("%s in statement list", n.Kind)}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmt(id ast.StmtID) error {
	s := w.b.Stmts.Get(id)
	if s == nil {
		return &Error{Kind: UnknownNodeVariant, Owner: ast.StmtNode(id), Err: fmt.Errorf("no statement %d", id)}
	}
	switch s.Kind {
	case ast.StmtExpr:
		data, _ := w.b.Stmts.Expr(id)
		return w.expr(data.Expr)
	case ast.StmtAssign:
		data, _ := w.b.Stmts.Assign(id)
		if err := w.expr(data.Target); err != nil {
			return err
		}
		return w.expr(data.Value)
	case ast.StmtIf:
		data, _ := w.b.Stmts.If(id)
		if err := w.expr(data.Cond); err != nil {
			return err
		}
		if err := w.block(data.Then); err != nil {
			return err
		}
		if data.HasElse {
			return w.block(data.Else)
		}
		return nil
	case ast.StmtWhile:
		data, _ := w.b.Stmts.While(id)
		if err := w.expr(data.Cond); err != nil {
			return err
		}
		return w.block(data.Body)
	case ast.StmtReturn:
		data, _ := w.b.Stmts.Return(id)
		if data.Value.IsValid() {
			return w.expr(data.Value)
		}
		return nil
	case ast.StmtBreak:
		return nil
	case ast.StmtMatch:
		data, _ := w.b.Stmts.Match(id)
		if err := w.expr(data.Value); err != nil {
			return err
		}
		for _, clause := range data.Clauses {
			if err := w.pattern(clause.Test); err != nil {
				return err
			}
			if err := w.block(clause.Body); err != nil {
				return err
			}
		}
		return nil
	default:
		return &Error{Kind: UnknownNodeVariant, Span: s.Span, Owner: ast.StmtNode(id), Err: fmt.Errorf("statement kind %d", s.Kind)}
	}
}
