package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"chimp/internal/ast/treefile"
	"chimp/internal/builtins"
	"chimp/internal/diag"
	"chimp/internal/observ"
	"chimp/internal/symbols"
)

const goodTree = `{
  "version": 1,
  "file": "good.chm",
  "source": "use math\nfn f(x) { return x + math }\n",
  "module": {
    "kind": "module", "span": [0, 37],
    "uses": [{"kind": "use", "name": "math", "span": [0, 8]}],
    "body": [
      {"kind": "func", "name": "f", "span": [9, 36],
       "params": [{"kind": "var", "name": "x", "span": [14, 15]}],
       "body": [{"kind": "return", "value": {"kind": "binop", "op": "+",
         "left": {"kind": "ident", "name": "x", "span": [26, 27]},
         "right": {"kind": "ident", "name": "math", "span": [30, 34]}}}]}
    ]
  }
}`

const badTree = `{
  "version": 1,
  "file": "bad.chm",
  "source": "fn f() { return y }\n",
  "module": {
    "kind": "module", "span": [0, 20],
    "body": [
      {"kind": "func", "name": "f", "span": [0, 19],
       "body": [{"kind": "return", "value": {"kind": "ident", "name": "y", "span": [16, 17]}}]}
    ]
  }
}`

func writeTree(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestResolveFileSuccess(t *testing.T) {
	path := writeTree(t, t.TempDir(), "good.json", goodTree)
	res, err := ResolveFile(context.Background(), path, ResolveOptions{Validate: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics %v", codes(res.Bag))
	}
	snap := res.Snapshot
	if snap == nil || res.Table == nil || snap.Filename != "good.chm" {
		t.Fatalf("unexpected result %s", spew.Sdump(res))
	}
	root := snap.Scope(snap.Root)
	if flags, ok := root.Lookup("f"); !ok || flags != symbols.Declared|symbols.KindModule {
		t.Fatalf("f in root: %v %v", flags, ok)
	}
	fn := snap.Scope(root.Children[0])
	if flags, ok := fn.Lookup("math"); !ok || flags != symbols.Free|symbols.KindModule {
		t.Fatalf("math in f: %v %v\n%s", flags, ok, spew.Sdump(snap))
	}
}

func TestResolveFileUndefinedSymbol(t *testing.T) {
	path := writeTree(t, t.TempDir(), "bad.json", badTree)
	res, err := ResolveFile(context.Background(), path, ResolveOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Failed() || res.Table != nil || res.Snapshot != nil {
		t.Fatalf("expected failure, got %s", spew.Sdump(res.Bag.Items()))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnresolvedSymbol {
		t.Fatalf("unexpected diagnostics %v", codes(res.Bag))
	}
	d := items[0]
	// spans point into the embedded source, added after the document itself
	src := res.FileSet.Get(d.Primary.File)
	if src == nil || src.Path != "bad.chm" {
		t.Fatalf("primary span not in embedded source: %+v", d.Primary)
	}
	if got := string(src.Content[d.Primary.Start:d.Primary.End]); got != "y" {
		t.Fatalf("primary span covers %q", got)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected owner note, got %+v", d.Notes)
	}
	short := diag.FormatShort(items, res.FileSet, false)
	if short == "" {
		t.Fatalf("expected short rendering")
	}
}

func TestResolveFileIOErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		want diag.Code
	}{
		{"missing", filepath.Join(dir, "nope.json"), diag.IOLoadFileError},
		{"bad extension", writeTree(t, dir, "tree.txt", goodTree), diag.IODecodeError},
		{"bad json", writeTree(t, dir, "broken.json", `{"module": `), diag.IODecodeError},
		{"unknown kind", writeTree(t, dir, "odd.json", `{"module": {"kind": "module", "body": [{"kind": "yield"}]}}`), diag.IODecodeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ResolveFile(context.Background(), tt.path, ResolveOptions{})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			got := codes(res.Bag)
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("got %v, want [%v]", got, tt.want)
			}
		})
	}
}

func TestResolveFileCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeTree(t, dir, "good.json", goodTree)
	opts := ResolveOptions{Cache: cache, Validate: true}

	first, err := ResolveFile(context.Background(), path, opts)
	if err != nil || first.Failed() || first.Cached {
		t.Fatalf("first resolve: %v %v cached=%v", err, codes(first.Bag), first.Cached)
	}
	second, err := ResolveFile(context.Background(), path, opts)
	if err != nil || second.Failed() {
		t.Fatalf("second resolve: %v %v", err, codes(second.Bag))
	}
	if !second.Cached || second.Table != nil {
		t.Fatalf("expected cache hit")
	}
	if !reflect.DeepEqual(first.Snapshot, second.Snapshot) {
		t.Fatalf("cached snapshot differs:\n%s\n%s", spew.Sdump(first.Snapshot), spew.Sdump(second.Snapshot))
	}

	// a different builtin set is a different key
	opts.Builtins = builtins.New([]string{"assert"})
	third, err := ResolveFile(context.Background(), path, opts)
	if err != nil || third.Cached {
		t.Fatalf("expected miss for another builtin set: %v", err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	opts.Builtins = nil
	fourth, err := ResolveFile(context.Background(), path, opts)
	if err != nil || fourth.Cached {
		t.Fatalf("expected miss after DropAll: %v", err)
	}
}

func TestResolveFileTimings(t *testing.T) {
	path := writeTree(t, t.TempDir(), "good.json", goodTree)
	shared := observ.NewTimer()
	res, err := ResolveFile(context.Background(), path, ResolveOptions{EnableTimings: true, Timer: shared})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 3 {
		t.Fatalf("expected load/decode/resolve phases, got %s", spew.Sdump(res.Timing))
	}
	got := codes(res.Bag)
	if len(got) != 1 || got[0] != diag.ObsTimings || res.Failed() {
		t.Fatalf("expected a single timing diagnostic, got %v", got)
	}
	if len(shared.Report().Phases) != 3 {
		t.Fatalf("shared timer missed phases")
	}
}

func TestResolveUnitsOrderAndEvents(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a/good.json", goodTree)
	writeTree(t, dir, "b/bad.json", badTree)
	writeTree(t, dir, "notes.txt", "ignored")

	doc, err := treefile.Decode([]byte(goodTree), treefile.FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	packed, err := treefile.Encode(doc, treefile.FormatMsgpack)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	writeTree(t, dir, "c/good.msgpack", string(packed))

	paths, err := CollectUnits([]string{dir, filepath.Join(dir, "a", "good.json")})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("unexpected units %v", paths)
	}

	var (
		mu     sync.Mutex
		events = map[string][]Status{}
	)
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events[ev.File] = append(events[ev.File], ev.Status)
	})
	results, err := ResolveUnits(context.Background(), paths, ResolveOptions{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("resolve units: %v", err)
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("result %d is %s, want %s", i, res.Path, paths[i])
		}
	}
	if results[0].Failed() || !results[1].Failed() || results[2].Failed() {
		t.Fatalf("unexpected outcomes %v %v %v", codes(results[0].Bag), codes(results[1].Bag), codes(results[2].Bag))
	}
	for i, p := range paths {
		evs := events[p]
		if len(evs) < 2 || evs[0] != StatusQueued {
			t.Fatalf("unexpected events for %s: %v", p, evs)
		}
		want := StatusDone
		if i == 1 {
			want = StatusError
		}
		if last := evs[len(evs)-1]; last != want {
			t.Fatalf("%s ended %s, want %s", p, last, want)
		}
	}
}

func TestResolveUnitsCancelled(t *testing.T) {
	path := writeTree(t, t.TempDir(), "good.json", goodTree)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ResolveUnits(ctx, []string{path}, ResolveOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
