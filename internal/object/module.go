package object

import "fmt"

// Module is a named namespace whose attributes live in a locals hash.
type Module struct {
	Name   string
	Locals *Hash
}

// NewModule creates a module. A nil locals hash is replaced with an empty one.
func NewModule(name string, locals *Hash) *Module {
	if locals == nil {
		locals = NewHash()
	}
	return &Module{Name: name, Locals: locals}
}

func (*Module) Type() Type { return TypeModule }

func (m *Module) String() string {
	return fmt.Sprintf("<module %q>", m.Name)
}

// AddLocal binds name to value inside the module.
func (m *Module) AddLocal(name string, value Value) error {
	return m.Locals.Put(Str(name), value)
}

// GetAttr returns the local bound to name. The boolean is false when the
// module has no such attribute.
func (m *Module) GetAttr(name string) (Value, bool, error) {
	return m.Locals.Lookup(Str(name))
}
