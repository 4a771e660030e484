package symfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"chimp/internal/symbols"
)

// Scopes prints the scope tree of snap, children indented under their
// parent, names aligned in one column per scope.
func Scopes(w io.Writer, snap *symbols.Snapshot, opts PrettyOpts) {
	if snap == nil {
		return
	}
	p := newPalette(opts.Color)
	fmt.Fprintf(w, "%s\n", p.path.Sprint(snap.Filename))
	if root := snap.Scope(snap.Root); root != nil {
		writeScope(w, p, snap, root, 0, opts)
	}
}

func writeScope(w io.Writer, p *palette, snap *symbols.Snapshot, s *symbols.ScopeSnapshot, depth int, opts PrettyOpts) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s %s\n", indent,
		p.scope.Sprintf("scope #%d %s", s.ID, s.Kind),
		s.Owner,
		p.dim.Sprintf("[%d, %d)", s.Start, s.End))

	visible := make([]symbols.SymbolSnapshot, 0, len(s.Symbols))
	nameWidth := 0
	for _, sym := range s.Symbols {
		if sym.Flags.IsBuiltin() && !opts.ShowBuiltins {
			continue
		}
		visible = append(visible, sym)
		nameWidth = max(nameWidth, runewidth.StringWidth(sym.Name))
	}
	for _, sym := range visible {
		fmt.Fprintf(w, "%s  %s  %s\n", indent,
			runewidth.FillRight(sym.Name, nameWidth),
			p.flags(sym.Flags).Sprint(sym.Flags.String()))
	}
	for _, child := range s.Children {
		if c := snap.Scope(child); c != nil {
			writeScope(w, p, snap, c, depth+1, opts)
		}
	}
}

// Summary renders a one-line count of scopes and names by role.
func Summary(snap *symbols.Snapshot) string {
	if snap == nil {
		return "no symbol table"
	}
	declared, free, builtin := snap.Counts()
	return fmt.Sprintf("%s: %d scopes, %d declared, %d free, %d builtin",
		snap.Filename, len(snap.Scopes), declared, free, builtin)
}
