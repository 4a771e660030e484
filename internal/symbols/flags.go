package symbols

import "strings"

// Flags classify one name inside a scope. The low bits carry the kind of the
// scope the binding belongs to, the high bits carry its role.
type Flags uint32

const (
	KindModule   = Flags(ScopeModule)
	KindFunction = Flags(ScopeFunction)
	KindClass    = Flags(ScopeClass)
	KindTask     = Flags(ScopeTask)

	// KindMask selects the scope-kind component.
	KindMask Flags = 0x0f

	Declared Flags = 1 << 4 // declared in this scope
	Free     Flags = 1 << 5 // captured from an enclosing scope
	Builtin  Flags = 1 << 6 // provided by the builtin registry

	RoleMask = Declared | Free | Builtin
)

// Kind returns the scope kind component.
func (f Flags) Kind() ScopeKind { return ScopeKind(f & KindMask) }

// Role returns the role bits.
func (f Flags) Role() Flags { return f & RoleMask }

func (f Flags) IsDeclared() bool { return f&Declared != 0 }
func (f Flags) IsFree() bool     { return f&Free != 0 }
func (f Flags) IsBuiltin() bool  { return f&Builtin != 0 }

// String renders flags as "role|kind", e.g. "free|module" or "builtin".
func (f Flags) String() string {
	parts := make([]string, 0, 3)
	if f.IsDeclared() {
		parts = append(parts, "declared")
	}
	if f.IsFree() {
		parts = append(parts, "free")
	}
	if f.IsBuiltin() {
		parts = append(parts, "builtin")
	}
	if k := f.Kind(); k != ScopeInvalid {
		parts = append(parts, k.String())
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// kindFlags converts a scope kind into its flag component.
func kindFlags(k ScopeKind) Flags { return Flags(k) & KindMask }
