package ast

import (
	"chimp/internal/source"
)

// ExprKind enumerates expression variants.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprCall
	ExprGetAttr
	ExprGetItem
	ExprArray
	ExprHash
	ExprIdent
	ExprStr
	ExprBool
	ExprNil
	ExprInt
	ExprBinary
	ExprNot
	ExprFn
	ExprSpawn
)

var exprKindNames = [...]string{
	ExprInvalid: "invalid",
	ExprCall:    "call",
	ExprGetAttr: "getattr",
	ExprGetItem: "getitem",
	ExprArray:   "array",
	ExprHash:    "hash",
	ExprIdent:   "ident",
	ExprStr:     "str",
	ExprBool:    "bool",
	ExprNil:     "nil",
	ExprInt:     "int",
	ExprBinary:  "binop",
	ExprNot:     "not",
	ExprFn:      "fn",
	ExprSpawn:   "spawn",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "invalid"
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

var binaryOpSymbols = [...]string{
	OpInvalid: "?",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpEq:      "==",
	OpNeq:     "!=",
	OpLt:      "<",
	OpLte:     "<=",
	OpGt:      ">",
	OpGte:     ">=",
	OpAnd:     "and",
	OpOr:      "or",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return "?"
}

// ParseBinaryOp maps an operator symbol to its BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, sym := range binaryOpSymbols {
		if i > 0 && sym == s {
			return BinaryOp(i), true //nolint:gosec // table is tiny
		}
	}
	return OpInvalid, false
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprGetAttrData struct {
	Target ExprID
	Name   source.StringID
}

type ExprGetItemData struct {
	Target ExprID
	Key    ExprID
}

// ExprListData backs array literals and hash literals. Hash literals store
// keys and values alternately: k0, v0, k1, v1, ...
type ExprListData struct {
	Items []ExprID
}

type ExprIdentData struct {
	Name source.StringID
}

// ExprLiteralData keeps the literal text of str, int and bool constants.
type ExprLiteralData struct {
	Value source.StringID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprNotData struct {
	Value ExprID
}

// ExprFnData backs anonymous functions and spawned task bodies.
type ExprFnData struct {
	Params []DeclID
	Body   []Node
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Calls    *Arena[ExprCallData]
	Attrs    *Arena[ExprGetAttrData]
	Items    *Arena[ExprGetItemData]
	Lists    *Arena[ExprListData]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Binaries *Arena[ExprBinaryData]
	Nots     *Arena[ExprNotData]
	Fns      *Arena[ExprFnData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Calls:    NewArena[ExprCallData](capHint),
		Attrs:    NewArena[ExprGetAttrData](capHint),
		Items:    NewArena[ExprGetItemData](capHint),
		Lists:    NewArena[ExprListData](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Nots:     NewArena[ExprNotData](capHint),
		Fns:      NewArena[ExprFnData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Target: target, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewGetAttr(span source.Span, target ExprID, name source.StringID) ExprID {
	return e.new(ExprGetAttr, span, e.Attrs.Allocate(ExprGetAttrData{Target: target, Name: name}))
}

func (e *Exprs) GetAttr(id ExprID) (*ExprGetAttrData, bool) {
	p, ok := e.payload(id, ExprGetAttr)
	if !ok {
		return nil, false
	}
	return e.Attrs.Get(p), true
}

func (e *Exprs) NewGetItem(span source.Span, target, key ExprID) ExprID {
	return e.new(ExprGetItem, span, e.Items.Allocate(ExprGetItemData{Target: target, Key: key}))
}

func (e *Exprs) GetItem(id ExprID) (*ExprGetItemData, bool) {
	p, ok := e.payload(id, ExprGetItem)
	if !ok {
		return nil, false
	}
	return e.Items.Get(p), true
}

func (e *Exprs) NewArray(span source.Span, items []ExprID) ExprID {
	return e.new(ExprArray, span, e.Lists.Allocate(ExprListData{Items: items}))
}

// NewHash allocates a hash literal from a flat key/value list.
func (e *Exprs) NewHash(span source.Span, items []ExprID) ExprID {
	return e.new(ExprHash, span, e.Lists.Allocate(ExprListData{Items: items}))
}

// List returns the items of an array or hash literal.
func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprArray, ExprHash)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewLiteral allocates a str, int or bool constant.
func (e *Exprs) NewLiteral(span source.Span, kind ExprKind, value source.StringID) ExprID {
	switch kind {
	case ExprStr, ExprInt, ExprBool:
	default:
		panic("ast: NewLiteral with non-literal kind " + kind.String())
	}
	return e.new(kind, span, e.Literals.Allocate(ExprLiteralData{Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprStr, ExprInt, ExprBool)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewNil(span source.Span) ExprID {
	return e.new(ExprNil, span, 0)
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewNot(span source.Span, value ExprID) ExprID {
	return e.new(ExprNot, span, e.Nots.Allocate(ExprNotData{Value: value}))
}

func (e *Exprs) Not(id ExprID) (*ExprNotData, bool) {
	p, ok := e.payload(id, ExprNot)
	if !ok {
		return nil, false
	}
	return e.Nots.Get(p), true
}

func (e *Exprs) NewFn(span source.Span, params []DeclID, body []Node) ExprID {
	return e.new(ExprFn, span, e.Fns.Allocate(ExprFnData{Params: params, Body: body}))
}

func (e *Exprs) NewSpawn(span source.Span, params []DeclID, body []Node) ExprID {
	return e.new(ExprSpawn, span, e.Fns.Allocate(ExprFnData{Params: params, Body: body}))
}

// Fn returns the parameters and body of a fn or spawn literal.
func (e *Exprs) Fn(id ExprID) (*ExprFnData, bool) {
	p, ok := e.payload(id, ExprFn, ExprSpawn)
	if !ok {
		return nil, false
	}
	return e.Fns.Get(p), true
}
