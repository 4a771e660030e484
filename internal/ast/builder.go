package ast

import (
	"chimp/internal/source"
)

type Hints struct{ Modules, Decls, Stmts, Exprs uint }

// Builder owns every arena of one syntax tree together with its interner.
type Builder struct {
	Strings *source.Interner
	Modules *Modules
	Decls   *Decls
	Stmts   *Stmts
	Exprs   *Exprs
}

// NewBuilder creates empty arenas. A nil interner is replaced by a fresh one.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Modules == 0 {
		hints.Modules = 1
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Strings: strings,
		Modules: NewModules(hints.Modules),
		Decls:   NewDecls(hints.Decls),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
	}
}

// Name interns s.
func (b *Builder) Name(s string) source.StringID {
	return b.Strings.Intern(s)
}

// NameOf returns the text of an interned name.
func (b *Builder) NameOf(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// NewModule allocates a module root.
func (b *Builder) NewModule(sp source.Span) ModuleID {
	return b.Modules.New(sp)
}

// PushUse appends a use declaration to the module.
func (b *Builder) PushUse(mod ModuleID, decl DeclID) {
	if m := b.Modules.Get(mod); m != nil {
		m.Uses = append(m.Uses, decl)
	}
}

// PushDecl appends a top-level declaration to the module body.
func (b *Builder) PushDecl(mod ModuleID, decl DeclID) {
	if m := b.Modules.Get(mod); m != nil {
		m.Body = append(m.Body, decl)
	}
}

// Span returns the span of any node, or the zero span for unknown nodes.
func (b *Builder) Span(n Node) source.Span {
	switch n.Kind {
	case NodeModule:
		if m := b.Modules.Get(ModuleID(n.ID)); m != nil {
			return m.Span
		}
	case NodeDecl:
		if d := b.Decls.Get(DeclID(n.ID)); d != nil {
			return d.Span
		}
	case NodeStmt:
		if s := b.Stmts.Get(StmtID(n.ID)); s != nil {
			return s.Span
		}
	case NodeExpr:
		if e := b.Exprs.Get(ExprID(n.ID)); e != nil {
			return e.Span
		}
	}
	return source.Span{}
}
