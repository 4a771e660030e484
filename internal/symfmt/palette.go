package symfmt

import (
	"github.com/fatih/color"

	"chimp/internal/diag"
	"chimp/internal/symbols"
)

// palette holds the colors of one rendering. Each color is switched on or
// off explicitly so output does not depend on the global color.NoColor.
type palette struct {
	path     *color.Color
	err      *color.Color
	warn     *color.Color
	info     *color.Color
	note     *color.Color
	caret    *color.Color
	declared *color.Color
	free     *color.Color
	builtin  *color.Color
	scope    *color.Color
	dim      *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		path:     color.New(color.Bold),
		err:      color.New(color.FgRed, color.Bold),
		warn:     color.New(color.FgYellow, color.Bold),
		info:     color.New(color.FgCyan),
		note:     color.New(color.FgBlue, color.Bold),
		caret:    color.New(color.FgGreen, color.Bold),
		declared: color.New(color.FgGreen),
		free:     color.New(color.FgMagenta),
		builtin:  color.New(color.FgCyan),
		scope:    color.New(color.FgYellow, color.Bold),
		dim:      color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.path, p.err, p.warn, p.info, p.note, p.caret, p.declared, p.free, p.builtin, p.scope, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) severity(sev diag.Severity) *color.Color {
	switch {
	case sev >= diag.SevError:
		return p.err
	case sev >= diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func (p *palette) flags(f symbols.Flags) *color.Color {
	switch {
	case f.IsDeclared():
		return p.declared
	case f.IsFree():
		return p.free
	case f.IsBuiltin():
		return p.builtin
	default:
		return p.dim
	}
}
