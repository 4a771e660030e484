package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("x")
	b := in.Intern("x")
	c := in.Intern("y")
	if a != b {
		t.Fatalf("expected same ID for repeated string, got %d and %d", a, b)
	}
	if a == c || a == NoStringID {
		t.Fatalf("unexpected IDs a=%d c=%d", a, c)
	}
	if got := in.MustLookup(c); got != "y" {
		t.Fatalf("lookup: got %q", got)
	}
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
	if _, ok := in.Lookup(StringID(99)); ok {
		t.Fatalf("lookup of unknown ID must fail")
	}
	if in.Len() != 3 {
		t.Fatalf("expected 3 strings, got %d", in.Len())
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 5, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("cover: got %v", got)
	}
	if !got.Contains(a) || !got.Contains(b) {
		t.Fatalf("covering span must contain both inputs")
	}
	other := Span{File: 2, Start: 0, End: 100}
	if a.Cover(other) != a {
		t.Fatalf("cover across files must be a no-op")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.chimp", []byte("use math\nfn f(x) {\n  ret x\n}"))

	start, end := fs.Resolve(Span{File: id, Start: 9, End: 11})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("unexpected positions %v %v", start, end)
	}
	start, _ = fs.Resolve(Span{File: id, Start: 8, End: 8})
	if start != (LineCol{Line: 1, Col: 9}) {
		t.Fatalf("newline belongs to its own line, got %v", start)
	}

	f := fs.Get(id)
	if got := f.GetLine(3); got != "  ret x" {
		t.Fatalf("line 3: got %q", got)
	}
	if got := f.GetLine(4); got != "}" {
		t.Fatalf("line 4: got %q", got)
	}
	if got := f.GetLine(5); got != "" {
		t.Fatalf("line 5 must be empty, got %q", got)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("{\r\n}\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "{\n}\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != id {
		t.Fatalf("GetLatest: %v %v", latest, ok)
	}
}

func TestAddKeepsVersions(t *testing.T) {
	fs := NewFileSet()
	first := fs.Add("a.json", []byte("1"), 0)
	second := fs.Add("a.json", []byte("2"), 0)
	if first == second {
		t.Fatalf("each Add must allocate a new ID")
	}
	if fs.Get(first).Hash == fs.Get(second).Hash {
		t.Fatalf("different content must hash differently")
	}
	if fs.Get(FileID(7)) != nil {
		t.Fatalf("out-of-range Get must return nil")
	}
}
