package symfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"chimp/internal/ast"
	"chimp/internal/ast/treefile"
	"chimp/internal/diag"
	"chimp/internal/source"
	"chimp/internal/symbols"
)

const tree = `{
  "module": {
    "kind": "module", "span": [0, 30],
    "uses": [{"kind": "use", "name": "math"}],
    "body": [
      {"kind": "func", "name": "area", "span": [0, 30],
       "params": [{"kind": "var", "name": "r"}],
       "body": [{"kind": "expr", "value": {"kind": "call",
         "target": {"kind": "ident", "name": "print"},
         "args": [{"kind": "ident", "name": "math"}, {"kind": "ident", "name": "r"}]}}]}
    ]
  }
}`

func snapshot(t *testing.T) *symbols.Snapshot {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	_, mod, err := treefile.Parse([]byte(tree), treefile.FormatJSON, b, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	table, err := symbols.Build("area.chm", b, mod, symbols.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return table.Snapshot()
}

func TestScopesListing(t *testing.T) {
	var buf bytes.Buffer
	Scopes(&buf, snapshot(t), PrettyOpts{})
	out := buf.String()
	for _, want := range []string{
		"area.chm\n",
		"scope #1 module",
		"  area  declared|module",
		"  scope #2 function",
		"    math  free|module",
		"    r     declared|function",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "builtin") {
		t.Fatalf("builtins hidden by default:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected escape codes with color off")
	}

	buf.Reset()
	Scopes(&buf, snapshot(t), PrettyOpts{ShowBuiltins: true, Color: true})
	if !strings.Contains(buf.String(), "print") || !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected colored builtin listing:\n%s", buf.String())
	}
}

func TestSummary(t *testing.T) {
	got := Summary(snapshot(t))
	want := "area.chm: 2 scopes, 3 declared, 1 free, 1 builtin"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyDiagnostic(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/src/bad.chm", []byte("fn f() {\n  return yé + 1\n}\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{File: id, Start: 18, End: 21}, `undefined symbol "yé"`).
		WithNote(source.Span{File: id, Start: 0, End: 8}, "while resolving the scope of decl#1"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true})
	out := buf.String()
	for _, want := range []string{
		"src/bad.chm:2:10: ERROR SEM3005: undefined symbol \"yé\"",
		" 2 |   return yé + 1\n",
		"   |          ^~\n",
		"note: src/bad.chm:1:1: while resolving",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") || !strings.HasPrefix(buf.String(), "bad.chm:2:10") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.chm", []byte("x\n"))
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{File: id, Start: 0, End: 1}, "undefined symbol \"x\""))

	units := []Unit{
		{Path: "good.json", Snapshot: snapshot(t), Cached: true},
		{Path: "bad.json", Bag: bag, FileSet: fs},
	}
	var buf bytes.Buffer
	if err := JSON(&buf, units, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Errors != 1 {
		t.Fatalf("unexpected totals %+v", out)
	}
	good, bad := out.Units[0], out.Units[1]
	if !good.OK || !good.Cached || good.Symbols == nil || len(good.Diagnostics) != 0 {
		t.Fatalf("unexpected good unit %+v", good)
	}
	if bad.OK || len(bad.Diagnostics) != 1 {
		t.Fatalf("unexpected bad unit %+v", bad)
	}
	loc := bad.Diagnostics[0].Location
	if bad.Diagnostics[0].Code != "SEM3005" || loc.File != "bad.chm" || loc.StartLine != 1 || loc.EndCol != 2 {
		t.Fatalf("unexpected diagnostic %+v", bad.Diagnostics[0])
	}
}
