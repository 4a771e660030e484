package symfmt

import (
	"encoding/json"
	"io"

	"chimp/internal/diag"
	"chimp/internal/source"
	"chimp/internal/symbols"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// UnitJSON is the JSON form of one resolved unit.
type UnitJSON struct {
	Path        string            `json:"path"`
	OK          bool              `json:"ok"`
	Cached      bool              `json:"cached,omitempty"`
	Symbols     *symbols.Snapshot `json:"symbols,omitempty"`
	Diagnostics []DiagnosticJSON  `json:"diagnostics"`
}

// Unit describes one unit for BuildOutput. It mirrors the driver result
// without depending on the driver package.
type Unit struct {
	Path     string
	Bag      *diag.Bag
	FileSet  *source.FileSet
	Snapshot *symbols.Snapshot
	Cached   bool
}

// Output is the root of JSON output.
type Output struct {
	Units  []UnitJSON `json:"units"`
	Count  int        `json:"count"`
	Errors int        `json:"errors"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if fs == nil {
		return loc
	}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(fs, f, pathMode)

	// Добавляем позиции строк/колонок если требуется
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnostics формирует JSON-представление диагностик без сериализации.
func BuildDiagnostics(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	if bag == nil {
		return []DiagnosticJSON{}
	}
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}
	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for i := range maxItems {
		d := items[i]
		diagJSON := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		includeNotes := opts.IncludeNotes || d.Code == diag.ObsTimings
		if includeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				diagJSON.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}
		diagnostics = append(diagnostics, diagJSON)
	}
	return diagnostics
}

// BuildOutput assembles the JSON document for a set of units.
func BuildOutput(units []Unit, opts JSONOpts) Output {
	out := Output{Units: make([]UnitJSON, 0, len(units))}
	for _, u := range units {
		ok := u.Bag == nil || !u.Bag.HasErrors()
		if !ok {
			out.Errors++
		}
		out.Units = append(out.Units, UnitJSON{
			Path:        u.Path,
			OK:          ok,
			Cached:      u.Cached,
			Symbols:     u.Snapshot,
			Diagnostics: BuildDiagnostics(u.Bag, u.FileSet, opts),
		})
	}
	out.Count = len(out.Units)
	return out
}

// JSON writes units as one indented JSON document.
func JSON(w io.Writer, units []Unit, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(units, opts))
}
