package treefile

import (
	"errors"
	"testing"

	"chimp/internal/ast"
)

const sample = `{
  "version": 1,
  "module": {
    "kind": "module",
    "span": [0, 40],
    "uses": [{"kind": "use", "name": "math", "span": [0, 8]}],
    "body": [
      {"kind": "var", "name": "y", "value": {"kind": "int", "lit": "2"}},
      {"kind": "func", "name": "f", "span": [10, 40],
       "params": [{"kind": "var", "name": "x"}],
       "body": [
         {"kind": "return", "value": {"kind": "binop", "op": "+",
           "left": {"kind": "ident", "name": "x"},
           "right": {"kind": "ident", "name": "y"}}}
       ]}
    ]
  }
}`

func TestParseJSON(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	_, mod, err := Parse([]byte(sample), FormatJSON, b, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := b.Modules.Get(mod)
	if len(m.Uses) != 1 || len(m.Body) != 2 {
		t.Fatalf("unexpected module shape %+v", m)
	}
	fn, ok := b.Decls.Func(m.Body[1])
	if !ok {
		t.Fatalf("expected func decl")
	}
	if b.NameOf(fn.Name) != "f" || len(fn.Params) != 1 || len(fn.Body) != 1 {
		t.Fatalf("unexpected func %+v", fn)
	}
	if fn.Body[0].Kind != ast.NodeStmt {
		t.Fatalf("return must lower to a statement, got %v", fn.Body[0])
	}
	if got := b.Span(ast.DeclNode(m.Body[1])); got.Start != 10 || got.End != 40 || got.File != 1 {
		t.Fatalf("unexpected span %v", got)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(sample), FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := Encode(doc, FormatMsgpack)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b := ast.NewBuilder(ast.Hints{}, nil)
	if _, _, err := Parse(data, FormatMsgpack, b, 1); err != nil {
		t.Fatalf("parse msgpack: %v", err)
	}
	if _, ok := b.Strings.Lookup(b.Name("math")); !ok {
		t.Fatalf("expected interned name")
	}
}

func TestUnknownKind(t *testing.T) {
	src := `{"module": {"kind": "module", "body": [{"kind": "func", "name": "f", "body": [{"kind": "yield"}]}]}}`
	b := ast.NewBuilder(ast.Hints{}, nil)
	_, _, err := Parse([]byte(src), FormatJSON, b, 1)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"no module":     `{"version": 1}`,
		"newer schema":  `{"version": 99, "module": {"kind": "module"}}`,
		"odd hash":      `{"module": {"kind": "module", "body": [{"kind": "var", "name": "h", "value": {"kind": "hash", "items": [{"kind": "nil"}]}}]}}`,
		"bad span":      `{"module": {"kind": "module", "span": [5, 1]}}`,
		"stmt in class": `{"module": {"kind": "module", "body": [{"kind": "class", "name": "C", "body": [{"kind": "break"}]}]}}`,
		"unknown field": `{"module": {"kind": "module", "colour": 1}}`,
		"bad int":       `{"module": {"kind": "module", "body": [{"kind": "var", "name": "n", "value": {"kind": "int", "lit": "x"}}]}}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			b := ast.NewBuilder(ast.Hints{}, nil)
			if _, _, err := Parse([]byte(src), FormatJSON, b, 1); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestNamesAreNFCNormalized(t *testing.T) {
	// "e" + combining acute vs precomposed U+00E9
	src := `{"module": {"kind": "module", "body": [{"kind": "var", "name": "cafe\u0301"}]}}`
	b := ast.NewBuilder(ast.Hints{}, nil)
	_, mod, err := Parse([]byte(src), FormatJSON, b, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, _ := b.Decls.Var(b.Modules.Get(mod).Body[0])
	if got := b.NameOf(v.Name); got != "caf\u00e9" {
		t.Fatalf("expected NFC name, got %q", got)
	}
}

func TestIfElsePresence(t *testing.T) {
	src := `{"module": {"kind": "module", "body": [{"kind": "func", "name": "f", "body": [
	  {"kind": "if", "cond": {"kind": "bool", "lit": "true"}, "body": [{"kind": "break"}], "else": []},
	  {"kind": "if", "cond": {"kind": "bool", "lit": "true"}}
	]}]}}`
	b := ast.NewBuilder(ast.Hints{}, nil)
	_, mod, err := Parse([]byte(src), FormatJSON, b, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fn, _ := b.Decls.Func(b.Modules.Get(mod).Body[0])
	first, _ := b.Stmts.If(ast.StmtID(fn.Body[0].ID))
	second, _ := b.Stmts.If(ast.StmtID(fn.Body[1].ID))
	if !first.HasElse || second.HasElse {
		t.Fatalf("unexpected else presence: %v %v", first.HasElse, second.HasElse)
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{"a.json": FormatJSON, "b.MP": FormatMsgpack, "c.msgpack": FormatMsgpack} {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Fatalf("FormatFromPath(%q) = %v, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("x.chm"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
