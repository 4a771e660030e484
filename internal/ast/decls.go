package ast

import (
	"chimp/internal/source"
)

// DeclKind enumerates declaration variants.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclFunc
	DeclClass
	DeclUse
	DeclVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunc:
		return "func"
	case DeclClass:
		return "class"
	case DeclUse:
		return "use"
	case DeclVar:
		return "var"
	default:
		return "invalid"
	}
}

// Decl is the common header of every declaration; the payload index points
// into the arena of its kind.
type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Payload PayloadID
}

// DeclFuncData describes `fn name(params) { body }`.
type DeclFuncData struct {
	Name   source.StringID
	Params []DeclID // DeclVar without values
	Body   []Node   // statements and declarations
}

// DeclClassData describes `class Name : base.path { body }`.
type DeclClassData struct {
	Name source.StringID
	Base []source.StringID // dotted base path, empty when absent
	Body []DeclID
}

type DeclUseData struct {
	Name source.StringID
}

type DeclVarData struct {
	Name  source.StringID
	Value ExprID
}

// Decls manages allocation of declarations.
type Decls struct {
	Arena   *Arena[Decl]
	Funcs   *Arena[DeclFuncData]
	Classes *Arena[DeclClassData]
	Uses    *Arena[DeclUseData]
	Vars    *Arena[DeclVarData]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Decls{
		Arena:   NewArena[Decl](capHint),
		Funcs:   NewArena[DeclFuncData](capHint),
		Classes: NewArena[DeclClassData](capHint),
		Uses:    NewArena[DeclUseData](capHint),
		Vars:    NewArena[DeclVarData](capHint),
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, payload uint32) DeclID {
	return DeclID(d.Arena.Allocate(Decl{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the declaration header.
func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

func (d *Decls) NewFunc(span source.Span, name source.StringID, params []DeclID, body []Node) DeclID {
	payload := d.Funcs.Allocate(DeclFuncData{Name: name, Params: params, Body: body})
	return d.new(DeclFunc, span, payload)
}

func (d *Decls) Func(id DeclID) (*DeclFuncData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclFunc {
		return nil, false
	}
	return d.Funcs.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewClass(span source.Span, name source.StringID, base []source.StringID, body []DeclID) DeclID {
	payload := d.Classes.Allocate(DeclClassData{Name: name, Base: base, Body: body})
	return d.new(DeclClass, span, payload)
}

func (d *Decls) Class(id DeclID) (*DeclClassData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclClass {
		return nil, false
	}
	return d.Classes.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewUse(span source.Span, name source.StringID) DeclID {
	payload := d.Uses.Allocate(DeclUseData{Name: name})
	return d.new(DeclUse, span, payload)
}

func (d *Decls) Use(id DeclID) (*DeclUseData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclUse {
		return nil, false
	}
	return d.Uses.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewVar(span source.Span, name source.StringID, value ExprID) DeclID {
	payload := d.Vars.Allocate(DeclVarData{Name: name, Value: value})
	return d.new(DeclVar, span, payload)
}

func (d *Decls) Var(id DeclID) (*DeclVarData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclVar {
		return nil, false
	}
	return d.Vars.Get(uint32(decl.Payload)), true
}
