package treefile

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"chimp/internal/ast"
	"chimp/internal/source"
)

// Build lowers doc into b and returns the module root. Spans are attached to
// file. Names are NFC-normalized before interning.
func Build(doc *Document, b *ast.Builder, file source.FileID) (ast.ModuleID, error) {
	if doc == nil || doc.Module == nil {
		return ast.NoModuleID, fmt.Errorf("%w: missing module", ErrMalformed)
	}
	l := &lowerer{b: b, file: file}
	return l.module(doc.Module)
}

type lowerer struct {
	b    *ast.Builder
	file source.FileID
}

func (l *lowerer) errorf(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, path, fmt.Sprintf(format, args...))
}

func (l *lowerer) unknown(path, kind string) error {
	return fmt.Errorf("%w: %s: %q", ErrUnknownKind, path, kind)
}

func (l *lowerer) span(path string, raw []uint32) (source.Span, error) {
	switch len(raw) {
	case 0:
		return source.Span{File: l.file}, nil
	case 2:
		if raw[1] < raw[0] {
			return source.Span{}, l.errorf(path, "span end %d before start %d", raw[1], raw[0])
		}
		return source.Span{File: l.file, Start: raw[0], End: raw[1]}, nil
	default:
		return source.Span{}, l.errorf(path, "span must have 2 elements, got %d", len(raw))
	}
}

func (l *lowerer) name(path, s string) (source.StringID, error) {
	if s == "" {
		return source.NoStringID, l.errorf(path, "missing name")
	}
	return l.b.Name(norm.NFC.String(s)), nil
}

func (l *lowerer) module(n *Node) (ast.ModuleID, error) {
	const path = "module"
	if n.Kind != "module" {
		return ast.NoModuleID, l.errorf(path, "root kind must be module, got %q", n.Kind)
	}
	sp, err := l.span(path, n.Span)
	if err != nil {
		return ast.NoModuleID, err
	}
	mod := l.b.NewModule(sp)
	for i, u := range n.Uses {
		p := fmt.Sprintf("%s.uses[%d]", path, i)
		if u == nil || u.Kind != "use" {
			return ast.NoModuleID, l.errorf(p, "expected use declaration")
		}
		id, err := l.decl(p, u)
		if err != nil {
			return ast.NoModuleID, err
		}
		l.b.PushUse(mod, id)
	}
	for i, d := range n.Body {
		id, err := l.decl(fmt.Sprintf("%s.body[%d]", path, i), d)
		if err != nil {
			return ast.NoModuleID, err
		}
		l.b.PushDecl(mod, id)
	}
	return mod, nil
}

func isDeclKind(kind string) bool {
	switch kind {
	case "func", "class", "use", "var":
		return true
	}
	return false
}

func (l *lowerer) decl(path string, n *Node) (ast.DeclID, error) {
	if n == nil {
		return ast.NoDeclID, l.errorf(path, "null declaration")
	}
	sp, err := l.span(path, n.Span)
	if err != nil {
		return ast.NoDeclID, err
	}
	switch n.Kind {
	case "func":
		name, err := l.name(path, n.Name)
		if err != nil {
			return ast.NoDeclID, err
		}
		params, err := l.params(path, n.Params)
		if err != nil {
			return ast.NoDeclID, err
		}
		body, err := l.block(path+".body", n.Body)
		if err != nil {
			return ast.NoDeclID, err
		}
		return l.b.Decls.NewFunc(sp, name, params, body), nil
	case "class":
		name, err := l.name(path, n.Name)
		if err != nil {
			return ast.NoDeclID, err
		}
		base := make([]source.StringID, 0, len(n.Base))
		for i, part := range n.Base {
			id, err := l.name(fmt.Sprintf("%s.base[%d]", path, i), part)
			if err != nil {
				return ast.NoDeclID, err
			}
			base = append(base, id)
		}
		body := make([]ast.DeclID, 0, len(n.Body))
		for i, d := range n.Body {
			p := fmt.Sprintf("%s.body[%d]", path, i)
			if d != nil && !isDeclKind(d.Kind) {
				return ast.NoDeclID, l.errorf(p, "class body holds declarations only, got %q", d.Kind)
			}
			id, err := l.decl(p, d)
			if err != nil {
				return ast.NoDeclID, err
			}
			body = append(body, id)
		}
		return l.b.Decls.NewClass(sp, name, base, body), nil
	case "use":
		name, err := l.name(path, n.Name)
		if err != nil {
			return ast.NoDeclID, err
		}
		return l.b.Decls.NewUse(sp, name), nil
	case "var":
		name, err := l.name(path, n.Name)
		if err != nil {
			return ast.NoDeclID, err
		}
		value, err := l.optExpr(path+".value", n.Value)
		if err != nil {
			return ast.NoDeclID, err
		}
		return l.b.Decls.NewVar(sp, name, value), nil
	default:
		return ast.NoDeclID, l.unknown(path, n.Kind)
	}
}

func (l *lowerer) params(path string, nodes []*Node) ([]ast.DeclID, error) {
	out := make([]ast.DeclID, 0, len(nodes))
	for i, p := range nodes {
		pp := fmt.Sprintf("%s.params[%d]", path, i)
		if p == nil || p.Kind != "var" {
			return nil, l.errorf(pp, "parameters must be var declarations")
		}
		id, err := l.decl(pp, p)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// block lowers a mixed list of statements and declarations.
func (l *lowerer) block(path string, nodes []*Node) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(nodes))
	for i, n := range nodes {
		p := fmt.Sprintf("%s[%d]", path, i)
		if n != nil && isDeclKind(n.Kind) {
			id, err := l.decl(p, n)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.DeclNode(id))
			continue
		}
		id, err := l.stmt(p, n)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.StmtNode(id))
	}
	return out, nil
}

func (l *lowerer) stmt(path string, n *Node) (ast.StmtID, error) {
	if n == nil {
		return ast.NoStmtID, l.errorf(path, "null statement")
	}
	sp, err := l.span(path, n.Span)
	if err != nil {
		return ast.NoStmtID, err
	}
	s := l.b.Stmts
	switch n.Kind {
	case "expr":
		value, err := l.expr(path+".value", n.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return s.NewExpr(sp, value), nil
	case "assign":
		target, err := l.expr(path+".target", n.Target)
		if err != nil {
			return ast.NoStmtID, err
		}
		value, err := l.expr(path+".value", n.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return s.NewAssign(sp, target, value), nil
	case "if":
		cond, err := l.expr(path+".cond", n.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		then, err := l.block(path+".body", n.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		var orElse []ast.Node
		if n.HasElse || n.Else != nil {
			orElse, err = l.block(path+".else", n.Else)
			if err != nil {
				return ast.NoStmtID, err
			}
		}
		return s.NewIf(sp, cond, then, orElse), nil
	case "while":
		cond, err := l.expr(path+".cond", n.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := l.block(path+".body", n.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		return s.NewWhile(sp, cond, body), nil
	case "return":
		value, err := l.optExpr(path+".value", n.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return s.NewReturn(sp, value), nil
	case "break":
		return s.NewBreak(sp), nil
	case "match":
		value, err := l.expr(path+".value", n.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		clauses := make([]ast.PatternClause, 0, len(n.Clauses))
		for i, c := range n.Clauses {
			p := fmt.Sprintf("%s.clauses[%d]", path, i)
			if c == nil {
				return ast.NoStmtID, l.errorf(p, "null clause")
			}
			csp, err := l.span(p, c.Span)
			if err != nil {
				return ast.NoStmtID, err
			}
			test, err := l.expr(p+".test", c.Test)
			if err != nil {
				return ast.NoStmtID, err
			}
			body, err := l.block(p+".body", c.Body)
			if err != nil {
				return ast.NoStmtID, err
			}
			clauses = append(clauses, ast.PatternClause{Span: csp, Test: test, Body: body})
		}
		return s.NewMatch(sp, value, clauses), nil
	default:
		return ast.NoStmtID, l.unknown(path, n.Kind)
	}
}

func (l *lowerer) optExpr(path string, n *Node) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, nil
	}
	return l.expr(path, n)
}

func (l *lowerer) exprs(path string, nodes []*Node) ([]ast.ExprID, error) {
	out := make([]ast.ExprID, 0, len(nodes))
	for i, n := range nodes {
		id, err := l.expr(fmt.Sprintf("%s[%d]", path, i), n)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (l *lowerer) expr(path string, n *Node) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExprID, l.errorf(path, "missing expression")
	}
	sp, err := l.span(path, n.Span)
	if err != nil {
		return ast.NoExprID, err
	}
	e := l.b.Exprs
	switch n.Kind {
	case "call":
		target, err := l.expr(path+".target", n.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		args, err := l.exprs(path+".args", n.Args)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewCall(sp, target, args), nil
	case "getattr":
		target, err := l.expr(path+".target", n.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		name, err := l.name(path, n.Name)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewGetAttr(sp, target, name), nil
	case "getitem":
		target, err := l.expr(path+".target", n.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		key, err := l.expr(path+".key", n.Key)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewGetItem(sp, target, key), nil
	case "array":
		items, err := l.exprs(path+".items", n.Items)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewArray(sp, items), nil
	case "hash":
		if len(n.Items)%2 != 0 {
			return ast.NoExprID, l.errorf(path, "hash literal needs key/value pairs, got %d items", len(n.Items))
		}
		items, err := l.exprs(path+".items", n.Items)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewHash(sp, items), nil
	case "ident":
		name, err := l.name(path, n.Name)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewIdent(sp, name), nil
	case "str":
		return e.NewLiteral(sp, ast.ExprStr, l.b.Name(n.Lit)), nil
	case "int":
		if _, err := strconv.ParseInt(n.Lit, 10, 64); err != nil {
			return ast.NoExprID, l.errorf(path, "bad int literal %q", n.Lit)
		}
		return e.NewLiteral(sp, ast.ExprInt, l.b.Name(n.Lit)), nil
	case "bool":
		if n.Lit != "true" && n.Lit != "false" {
			return ast.NoExprID, l.errorf(path, "bad bool literal %q", n.Lit)
		}
		return e.NewLiteral(sp, ast.ExprBool, l.b.Name(n.Lit)), nil
	case "nil":
		return e.NewNil(sp), nil
	case "binop":
		op, ok := ast.ParseBinaryOp(n.Op)
		if !ok {
			return ast.NoExprID, l.errorf(path, "unknown operator %q", n.Op)
		}
		left, err := l.expr(path+".left", n.Left)
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := l.expr(path+".right", n.Right)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewBinary(sp, op, left, right), nil
	case "not":
		value, err := l.expr(path+".value", n.Value)
		if err != nil {
			return ast.NoExprID, err
		}
		return e.NewNot(sp, value), nil
	case "fn", "spawn":
		params, err := l.params(path, n.Params)
		if err != nil {
			return ast.NoExprID, err
		}
		body, err := l.block(path+".body", n.Body)
		if err != nil {
			return ast.NoExprID, err
		}
		if n.Kind == "spawn" {
			return e.NewSpawn(sp, params, body), nil
		}
		return e.NewFn(sp, params, body), nil
	default:
		return ast.NoExprID, l.unknown(path, n.Kind)
	}
}

// Parse decodes data and lowers it into b in one step.
func Parse(data []byte, format Format, b *ast.Builder, file source.FileID) (*Document, ast.ModuleID, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, ast.NoModuleID, err
	}
	mod, err := Build(doc, b, file)
	if err != nil {
		return doc, ast.NoModuleID, err
	}
	return doc, mod, nil
}
