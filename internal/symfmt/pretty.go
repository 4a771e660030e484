package symfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"chimp/internal/diag"
	"chimp/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатает
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for i := range bag.Items() {
		d := &bag.Items()[i]
		writeDiagnostic(w, p, d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, p *palette, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := p.severity(d.Severity)
	loc := location(fs, d.Primary, opts.PathMode)
	if loc != "" {
		fmt.Fprintf(w, "%s: ", p.path.Sprint(loc))
	}
	fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
	writeSnippet(w, p, fs, d.Primary)

	showNotes := opts.ShowNotes || d.Code == diag.ObsTimings
	if !showNotes {
		return
	}
	for _, n := range d.Notes {
		if noteLoc := location(fs, n.Span, opts.PathMode); noteLoc != "" && !n.Span.Empty() {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), p.path.Sprint(noteLoc), n.Msg)
			writeSnippet(w, p, fs, n.Span)
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
	}
}

// location renders path:line:col, or "" when the span's file is unknown.
func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return f.RelPath(fs.BaseDir())
	}
}

// writeSnippet prints the first line of span with a caret underline. Widths
// are measured in terminal cells so wide runes stay aligned.
func writeSnippet(w io.Writer, p *palette, fs *source.FileSet, span source.Span) {
	if fs == nil || span.Empty() {
		return
	}
	f := fs.Get(span.File)
	if f == nil || int(span.End) > len(f.Content) {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	startCol := min(int(start.Col-1), len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(int(end.Col-1), len(line))
	}
	pad := runewidth.StringWidth(strings.ReplaceAll(line[:startCol], "\t", " "))
	width := max(runewidth.StringWidth(line[startCol:max(endCol, startCol)]), 1)

	gutter := fmt.Sprintf("%d", start.Line)
	fmt.Fprintf(w, " %s | %s\n", p.dim.Sprint(gutter), line)
	fmt.Fprintf(w, " %s | %s%s\n", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}
