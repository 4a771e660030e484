package diag

import (
	"testing"

	"chimp/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	ReportWarning(r, IOCacheError, source.Span{}, "cache miss").Emit()
	ReportError(r, SemaUnresolvedSymbol, source.Span{}, "undefined symbol").Emit()
	ReportError(r, SemaUnresolvedSymbol, source.Span{}, "dropped").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected bag to stop at its limit, got %d", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	b := ReportError(BagReporter{Bag: bag}, SemaScopeMismatch, source.Span{}, "x").
		WithNote(source.Span{Start: 1, End: 2}, "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("unexpected bag %+v", bag.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(4)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 3, End: 4}
	r.Report(SemaUnresolvedSymbol, SevError, sp, "y", nil)
	r.Report(SemaUnresolvedSymbol, SevError, sp, "y", nil)
	r.Report(SemaUnresolvedSymbol, SevError, sp, "z", nil)
	if bag.Len() != 2 || r.Suppressed() != 1 {
		t.Fatalf("expected 2 unique diagnostics and 1 suppressed, got %d/%d", bag.Len(), r.Suppressed())
	}
}

func TestReporterFunc(t *testing.T) {
	var got []string
	r := ReporterFunc(func(code Code, sev Severity, _ source.Span, msg string, _ []Note) {
		got = append(got, sev.String()+" "+code.ID()+" "+msg)
	})
	ReportWarning(r, IOCacheError, source.Span{}, "stale").Emit()
	if len(got) != 1 || got[0] != "WARNING IO4003 stale" {
		t.Fatalf("unexpected reports %v", got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SemaUnresolvedSymbol: "SEM3005",
		IODecodeError:        "IO4002",
		ProjInvalidManifest:  "PRJ5001",
		ObsTimings:           "OBS6001",
		UnknownCode:          "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: got %s, want %s", code, got, want)
		}
	}
	if Code(3999).Title() != "Unknown error" {
		t.Fatalf("unknown codes fall back to the generic title")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/proj")
	file := fs.AddVirtual("/proj/src/a.json", []byte("line one\nline two\n"))
	diags := []Diagnostic{
		NewError(SemaUnresolvedSymbol, source.Span{File: file, Start: 14, End: 17}, "undefined   symbol \"two\"").
			WithNote(source.Span{File: file, Start: 0, End: 4}, "in scope of module"),
		New(SevWarning, IOCacheError, source.Span{File: file, Start: 0, End: 1}, "stale"),
	}
	got := FormatShort(diags, fs, true)
	want := "warning IO4003 src/a.json:1:1 stale\n" +
		"note SEM3005 src/a.json:1:1 in scope of module\n" +
		"error SEM3005 src/a.json:2:6 undefined symbol \"two\""
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestBagDefaultsAndMerge(t *testing.T) {
	if NewBag(0).Cap() != DefaultLimit {
		t.Fatalf("non-positive limit must select the default")
	}
	if NewBag(1 << 20).Cap() != 65535 {
		t.Fatalf("large limits are clamped")
	}
	a := NewBag(1)
	a.Add(NewError(SemaUnresolvedSymbol, source.Span{Start: 5}, "x"))
	b := NewBag(2)
	b.Add(New(SevWarning, IOCacheError, source.Span{}, "w"))
	b.Add(NewError(SemaUnresolvedSymbol, source.Span{Start: 5}, "x"))
	a.Merge(b)
	if a.Len() != 3 || a.Count(SevError) != 2 || a.Count(SevWarning) != 3 {
		t.Fatalf("unexpected merge result %+v", a.Items())
	}
	a.Sort()
	if a.Items()[0].Code != IOCacheError {
		t.Fatalf("expected the span at offset 0 first, got %s", a.Items()[0].Code.ID())
	}
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("expected duplicate to be dropped, got %d", a.Len())
	}
}
