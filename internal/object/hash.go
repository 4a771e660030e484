package object

import (
	"strings"

	"chimp/internal/assoc"
)

// Hash is the object model's ordered hash. Keys compare by value through
// Equals, so putting two incomparable keys fails instead of duplicating.
type Hash struct {
	m *assoc.Map[Value, Value]
}

// NewHash returns an empty hash.
func NewHash() *Hash {
	return &Hash{m: assoc.New[Value, Value](Equals)}
}

func (*Hash) Type() Type { return TypeHash }

// Put stores value under key.
func (h *Hash) Put(key, value Value) error {
	return h.m.Put(key, value)
}

// Get returns the value under key, or Nil when no key matches.
func (h *Hash) Get(key Value) (Value, error) {
	v, ok, err := h.m.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Nil, nil
	}
	return v, nil
}

// Lookup is Get with an explicit presence flag, for callers that store Nil.
func (h *Hash) Lookup(key Value) (Value, bool, error) {
	return h.m.Get(key)
}

// Len reports the number of pairs.
func (h *Hash) Len() int { return h.m.Len() }

// Keys returns the keys in insertion order.
func (h *Hash) Keys() Array { return Array(h.m.Keys()) }

// Values returns the values in insertion order.
func (h *Hash) Values() Array { return Array(h.m.Values()) }

// String renders the hash as {k: v, ...} in insertion order.
func (h *Hash) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range h.m.Entries() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(e.Key))
		sb.WriteString(": ")
		sb.WriteString(Repr(e.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}
