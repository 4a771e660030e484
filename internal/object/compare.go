package object

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomparable is returned when two values have no defined ordering.
var ErrIncomparable = errors.New("incomparable values")

// Ordering is the result of a successful three-way comparison.
type Ordering int8

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "lt"
	case Equal:
		return "eq"
	case Greater:
		return "gt"
	default:
		return "invalid"
	}
}

// Compare orders a against b. Values of the same type compare by content.
// Nil is equal only to nil and unequal to everything else. Any other pair of
// mismatched types fails with ErrIncomparable, as do hashes and modules,
// which have no value ordering.
func Compare(a, b Value) (Ordering, error) {
	if a == nil {
		a = Nil
	}
	if b == nil {
		b = Nil
	}
	if IsNil(a) || IsNil(b) {
		if IsNil(a) && IsNil(b) {
			return Equal, nil
		}
		if IsNil(a) {
			return Less, nil
		}
		return Greater, nil
	}
	if a.Type() != b.Type() {
		return 0, fmt.Errorf("%w: %s and %s", ErrIncomparable, a.Type(), b.Type())
	}
	switch av := a.(type) {
	case Str:
		return Ordering(strings.Compare(string(av), string(b.(Str)))), nil
	case Int:
		bv := b.(Int)
		switch {
		case av < bv:
			return Less, nil
		case av > bv:
			return Greater, nil
		}
		return Equal, nil
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return Equal, nil
		case !bool(av):
			return Less, nil
		}
		return Greater, nil
	case Array:
		return compareArrays(av, b.(Array))
	}
	return 0, fmt.Errorf("%w: %s has no ordering", ErrIncomparable, a.Type())
}

func compareArrays(a, b Array) (Ordering, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		ord, err := Compare(a[i], b[i])
		if err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}
		if ord != Equal {
			return ord, nil
		}
	}
	switch {
	case len(a) < len(b):
		return Less, nil
	case len(a) > len(b):
		return Greater, nil
	}
	return Equal, nil
}

// Equals is the fallible equality used by associative containers.
func Equals(a, b Value) (bool, error) {
	ord, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return ord == Equal, nil
}
