// Package object holds the runtime values shared between the resolver and
// the object model: strings, integers, booleans, nil, arrays, hashes and
// modules.
package object

import (
	"strconv"
	"strings"
)

// Type tags a runtime value.
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeInt
	TypeStr
	TypeArray
	TypeHash
	TypeModule
)

func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeStr:
		return "str"
	case TypeArray:
		return "array"
	case TypeHash:
		return "hash"
	case TypeModule:
		return "module"
	default:
		return "unknown"
	}
}

// Value is any runtime value.
type Value interface {
	Type() Type
	String() string
}

// Str is an immutable string value.
type Str string

// Int is a 64-bit integer value.
type Int int64

// Bool is a boolean value.
type Bool bool

// NilValue is the type of the Nil singleton.
type NilValue struct{}

// Nil is the nil value and the "not found" sentinel of Hash.Get.
var Nil Value = NilValue{}

// Array is an ordered list of values.
type Array []Value

func (Str) Type() Type      { return TypeStr }
func (Int) Type() Type      { return TypeInt }
func (Bool) Type() Type     { return TypeBool }
func (NilValue) Type() Type { return TypeNil }
func (Array) Type() Type    { return TypeArray }

func (s Str) String() string { return string(s) }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (NilValue) String() string { return "nil" }

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range a {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(item))
	}
	sb.WriteByte(']')
	return sb.String()
}

// IsNil reports whether v is nil or the Nil value.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(NilValue)
	return ok
}

// Repr renders v the way it appears inside container literals: strings are
// quoted, everything else uses String.
func Repr(v Value) string {
	if v == nil {
		return "nil"
	}
	if s, ok := v.(Str); ok {
		return `"` + string(s) + `"`
	}
	return v.String()
}
