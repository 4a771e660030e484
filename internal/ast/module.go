package ast

import (
	"chimp/internal/source"
)

// Module is the root of one compilation unit.
type Module struct {
	Span source.Span
	Uses []DeclID
	Body []DeclID
}

type Modules struct {
	Arena *Arena[Module]
}

func NewModules(capHint uint) *Modules {
	return &Modules{
		Arena: NewArena[Module](capHint),
	}
}

// New allocates an empty module.
func (m *Modules) New(sp source.Span) ModuleID {
	return ModuleID(m.Arena.Allocate(Module{Span: sp}))
}

func (m *Modules) Get(id ModuleID) *Module {
	return m.Arena.Get(uint32(id))
}
