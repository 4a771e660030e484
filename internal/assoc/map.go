// Package assoc implements an insertion-ordered associative container whose
// key equality is supplied by the caller and may fail.
//
// Lookups are linear scans over the stored pairs.
package assoc

import (
	"errors"
	"fmt"
)

// ErrCompare wraps every failure reported by the key comparator.
var ErrCompare = errors.New("assoc: key comparison failed")

// EqualFunc reports whether a and b are the same key. A non-nil error means
// the keys could not be compared at all; it is never read as "not equal".
type EqualFunc[K any] func(a, b K) (bool, error)

// Entry is a single key/value pair in insertion order.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Map is an order-preserving key/value container.
// The zero value is not usable; construct it with New.
type Map[K, V any] struct {
	equal   EqualFunc[K]
	entries []Entry[K, V]
}

// New creates an empty map using equal for key comparison.
func New[K, V any](equal EqualFunc[K]) *Map[K, V] {
	if equal == nil {
		panic("assoc.New: nil comparator")
	}
	return &Map[K, V]{equal: equal}
}

// Comparable returns an EqualFunc backed by Go's == operator. It never fails.
func Comparable[K comparable]() EqualFunc[K] {
	return func(a, b K) (bool, error) { return a == b, nil }
}

// index returns the position of key, or -1 when absent.
func (m *Map[K, V]) index(key K) (int, error) {
	for i := range m.entries {
		eq, err := m.equal(m.entries[i].Key, key)
		if err != nil {
			return -1, fmt.Errorf("%w: entry %d: %w", ErrCompare, i, err)
		}
		if eq {
			return i, nil
		}
	}
	return -1, nil
}

// Put stores value under key. An existing equal key keeps its position and
// has its value replaced; otherwise the pair is appended.
func (m *Map[K, V]) Put(key K, value V) error {
	idx, err := m.index(key)
	if err != nil {
		return err
	}
	if idx >= 0 {
		m.entries[idx].Value = value
		return nil
	}
	m.entries = append(m.entries, Entry[K, V]{Key: key, Value: value})
	return nil
}

// Get returns the value stored under key. The boolean is false when no key
// matched; err is set only when the comparator failed.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	var zero V
	idx, err := m.index(key)
	if err != nil {
		return zero, false, err
	}
	if idx < 0 {
		return zero, false, nil
	}
	return m.entries[idx].Value, true, nil
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) (bool, error) {
	idx, err := m.index(key)
	return idx >= 0, err
}

// Len reports the number of stored pairs.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the pairs in insertion order.
// The slice is shared with the map and must not be modified.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	if m == nil {
		return nil
	}
	return m.entries
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Values returns a copy of the values in insertion order.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	for _, e := range m.Entries() {
		values = append(values, e.Value)
	}
	return values
}

// Each calls fn for every pair in insertion order until fn returns false.
func (m *Map[K, V]) Each(fn func(key K, value V) bool) {
	for _, e := range m.Entries() {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}
