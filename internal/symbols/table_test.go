package symbols

import (
	"errors"
	"testing"

	"chimp/internal/ast"
	"chimp/internal/builtins"
	"chimp/internal/source"
)

func TestResolverEnterLeaveBalance(t *testing.T) {
	table := NewTable("t", Hints{}, nil)
	r := NewResolver(table, builtins.Default(), nil)

	if err := r.Leave(NoScopeID); !errors.Is(err, ErrMalformedScope) {
		t.Fatalf("leave without scope: expected ErrMalformedScope, got %v", err)
	}
	root, err := r.Enter(ast.ModuleNode(1), ScopeModule, source.Span{})
	if err != nil {
		t.Fatalf("enter root: %v", err)
	}
	fn, err := r.Enter(ast.DeclNode(1), ScopeFunction, source.Span{})
	if err != nil {
		t.Fatalf("enter fn: %v", err)
	}
	if err := r.Leave(root); !errors.Is(err, ErrMalformedScope) {
		t.Fatalf("leaving the wrong scope must fail, got %v", err)
	}
	if err := r.Leave(fn); err != nil {
		t.Fatalf("leave fn: %v", err)
	}
	if r.Current() != root || r.Depth() != 0 {
		t.Fatalf("expected root active, got %d (depth %d)", r.Current(), r.Depth())
	}
	if err := r.Leave(root); err != nil {
		t.Fatalf("leave root: %v", err)
	}
	if r.Current() != root {
		t.Fatalf("root stays active after leaving it")
	}
	if _, err := r.Enter(ast.DeclNode(1), ScopeFunction, source.Span{}); !errors.Is(err, ErrMalformedScope) {
		t.Fatalf("registering a node twice must fail, got %v", err)
	}
}

func TestResolverDeclareOverwrites(t *testing.T) {
	table := NewTable("t", Hints{}, nil)
	r := NewResolver(table, nil, nil)
	if err := r.Declare("x", source.Span{}); !errors.Is(err, ErrMalformedScope) {
		t.Fatalf("declare outside scope: %v", err)
	}
	if _, err := r.Enter(ast.ModuleNode(1), ScopeModule, source.Span{}); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := r.Declare("x", source.Span{}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if err := r.Add("x", Free|KindFunction, source.Span{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	flags, ok, err := table.Scope(table.Root).Local("x")
	if err != nil || !ok || flags != Free|KindFunction {
		t.Fatalf("expected overwritten flags, got %s %v %v", flags, ok, err)
	}
	if err := r.Reference("print", source.Span{}); !errors.Is(err, ErrUndefinedSymbol) {
		t.Fatalf("nil registry knows no builtins, got %v", err)
	}
}

func TestFlagsString(t *testing.T) {
	cases := map[Flags]string{
		Declared | KindFunction: "declared|function",
		Free | KindModule:       "free|module",
		Builtin:                 "builtin",
		Declared | KindTask:     "declared|task",
		0:                       "none",
	}
	for flags, want := range cases {
		if got := flags.String(); got != want {
			t.Fatalf("%#x: got %q, want %q", uint32(flags), got, want)
		}
	}
	if (Free | KindClass).Kind() != ScopeClass || (Free | KindClass).Role() != Free {
		t.Fatalf("unexpected kind/role split")
	}
}

func TestMustLookupMissingNode(t *testing.T) {
	table := NewTable("t", Hints{}, nil)
	if _, err := table.MustLookup(ast.ExprNode(9)); !errors.Is(err, ErrMalformedScope) {
		t.Fatalf("expected ErrMalformedScope, got %v", err)
	}
	var nilTable *Table
	if _, ok := nilTable.Lookup(ast.ExprNode(1)); ok {
		t.Fatalf("nil table has no scopes")
	}
}

func TestSnapshotAndValidate(t *testing.T) {
	src := `{"module": {"kind": "module", "body": [
	  {"kind": "var", "name": "y"},
	  {"kind": "func", "name": "f", "params": [{"kind": "var", "name": "x"}], "body": [
	    {"kind": "expr", "value": {"kind": "call", "target": {"kind": "ident", "name": "print"},
	      "args": [{"kind": "ident", "name": "y"}]}}
	  ]}
	]}}`
	table, _, _ := mustBuild(t, src)
	snap := table.Snapshot()
	if snap.Filename != "test.chm" || len(snap.Scopes) != 2 || snap.Root != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	fn := snap.Scope(2)
	if fn == nil || fn.Kind != "function" || fn.Parent != 1 {
		t.Fatalf("unexpected function scope %+v", fn)
	}
	if flags, ok := fn.Lookup("y"); !ok || flags != Free|KindModule {
		t.Fatalf("unexpected y flags %s", flags)
	}
	if fn.Symbols[0].Class != "declared|function" {
		t.Fatalf("unexpected class %q", fn.Symbols[0].Class)
	}
	declared, free, builtin := snap.Counts()
	if declared != 3 || free != 1 || builtin != 1 {
		t.Fatalf("unexpected counts %d %d %d", declared, free, builtin)
	}

	// break the parent backlink
	table.Scope(2).Parent = NoScopeID
	if err := table.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}
