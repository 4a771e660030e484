package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Coarser scopes have lower values,
// so a Level can gate them with a single comparison.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one CLI command or ResolveUnits call
	ScopePass                    // load, cache, decode, resolve of one unit
	ScopeUnit                    // one tree document
	ScopeNode                    // scopes entered by the resolver
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeUnit:
		return "unit"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is one trace record. Seq is assigned by the tracer that stores it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "resolve_units", "unit:a.json", "decode", "enter function"
	Detail   string
	Elapsed  time.Duration // set on span end
	Extra    map[string]string
}
