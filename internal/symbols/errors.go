package symbols

import (
	"errors"
	"fmt"
	"strings"

	"chimp/internal/ast"
	"chimp/internal/source"
)

// ErrorKind classifies resolution failures.
type ErrorKind uint8

const (
	// UndefinedSymbol: an identifier is declared in no enclosing scope and
	// is not a builtin. The only kind expected from user programs.
	UndefinedSymbol ErrorKind = iota + 1
	// MalformedScope: scopes were entered and left out of balance, or a
	// node was registered twice.
	MalformedScope
	// ComparisonFailure: the symbol map comparator could not compare names.
	ComparisonFailure
	// UnknownNodeVariant: a tree node carries a kind the resolver does not
	// handle.
	UnknownNodeVariant
)

var (
	ErrUndefinedSymbol    = errors.New("undefined symbol")
	ErrMalformedScope     = errors.New("malformed scope")
	ErrComparisonFailure  = errors.New("symbol comparison failed")
	ErrUnknownNodeVariant = errors.New("unknown node variant")
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedSymbol:
		return "UndefinedSymbol"
	case MalformedScope:
		return "MalformedScope"
	case ComparisonFailure:
		return "ComparisonFailure"
	case UnknownNodeVariant:
		return "UnknownNodeVariant"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case UndefinedSymbol:
		return ErrUndefinedSymbol
	case MalformedScope:
		return ErrMalformedScope
	case ComparisonFailure:
		return ErrComparisonFailure
	case UnknownNodeVariant:
		return ErrUnknownNodeVariant
	default:
		return nil
	}
}

// Error is returned by Build. It matches its kind sentinel and its cause
// through errors.Is.
type Error struct {
	Kind     ErrorKind
	Name     string      // offending name, if any
	Span     source.Span // location of the offending node
	Owner    ast.Node    // node owning the scope being resolved
	Filename string
	Err      error // underlying cause, may be nil
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Filename != "" {
		sb.WriteString(e.Filename)
		sb.WriteString(": ")
	}
	if s := e.Kind.sentinel(); s != nil {
		sb.WriteString(s.Error())
	} else {
		sb.WriteString("resolution error")
	}
	if e.Name != "" {
		fmt.Fprintf(&sb, " %q", e.Name)
	}
	if e.Owner.IsValid() {
		fmt.Fprintf(&sb, " in scope of %s", e.Owner)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
