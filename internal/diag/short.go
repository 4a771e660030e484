package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"chimp/internal/source"
)

// shortLine is one rendered line of FormatShort.
type shortLine struct {
	label string
	code  string
	path  string
	line  uint32
	col   uint32
	msg   string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.line, l.col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message", sorted by location. With notes
// set, each note becomes a "note" line carrying its diagnostic's code.
// Diagnostics whose file is unknown to fs are skipped.
func FormatShort(diags []Diagnostic, fs *source.FileSet, notes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for _, d := range diags {
		code := d.Code.ID()
		if l, ok := shortAt(fs, d.Primary); ok {
			l.label, l.code, l.msg = d.Severity.Label(), code, collapseSpaces(d.Message)
			lines = append(lines, l)
		}
		if !notes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.label, l.code, l.msg = "note", code, collapseSpaces(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, compareShort)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// shortAt fills the location part of a line for span.
func shortAt(fs *source.FileSet, span source.Span) (shortLine, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(file.RelPath(fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, line: start.Line, col: start.Col}, true
}

func collapseSpaces(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
