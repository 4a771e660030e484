package object

import (
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Ordering
	}{
		{"str eq", Str("x"), Str("x"), Equal},
		{"str lt", Str("a"), Str("b"), Less},
		{"int gt", Int(3), Int(-1), Greater},
		{"bool lt", Bool(false), Bool(true), Less},
		{"bool gt", Bool(true), Bool(false), Greater},
		{"bool eq", Bool(true), Bool(true), Equal},
		{"nil nil", Nil, Nil, Equal},
		{"nil vs str", Nil, Str("a"), Less},
		{"str vs nil", Str("a"), Nil, Greater},
		{"array prefix", Array{Int(1)}, Array{Int(1), Int(2)}, Less},
		{"array eq", Array{Str("a"), Int(2)}, Array{Str("a"), Int(2)}, Equal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			if err != nil {
				t.Fatalf("compare: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCompareIncomparable(t *testing.T) {
	cases := [][2]Value{
		{Str("1"), Int(1)},
		{Bool(true), Int(1)},
		{Array{Int(1)}, Array{Str("1")}},
		{NewHash(), NewHash()},
	}
	for _, c := range cases {
		if _, err := Compare(c[0], c[1]); !errors.Is(err, ErrIncomparable) {
			t.Fatalf("compare %v %v: expected ErrIncomparable, got %v", c[0], c[1], err)
		}
	}
}

func TestHashPutGetAndString(t *testing.T) {
	h := NewHash()
	if err := h.Put(Str("a"), Int(1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := h.Put(Str("b"), Str("two")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := h.Put(Str("a"), Int(3)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := h.String(); got != `{"a": 3, "b": "two"}` {
		t.Fatalf("unexpected rendering %s", got)
	}
	v, err := h.Get(Str("missing"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !IsNil(v) {
		t.Fatalf("expected Nil sentinel, got %v", v)
	}
}

func TestHashMixedKeysFail(t *testing.T) {
	h := NewHash()
	if err := h.Put(Str("a"), Int(1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := h.Put(Int(1), Int(2)); !errors.Is(err, ErrIncomparable) {
		t.Fatalf("expected incomparable error, got %v", err)
	}
	if h.Len() != 1 {
		t.Fatalf("failed put must not add a pair, len=%d", h.Len())
	}
	if _, err := h.Get(Int(1)); err == nil {
		t.Fatalf("expected get to fail on incomparable key")
	}
}

func TestModuleLocals(t *testing.T) {
	m := NewModule("math", nil)
	if err := m.AddLocal("pi", Int(3)); err != nil {
		t.Fatalf("add local: %v", err)
	}
	v, ok, err := m.GetAttr("pi")
	if err != nil || !ok || v != Int(3) {
		t.Fatalf("getattr pi: %v %v %v", v, ok, err)
	}
	if _, ok, _ := m.GetAttr("tau"); ok {
		t.Fatalf("unexpected attribute tau")
	}
	if m.String() != `<module "math">` {
		t.Fatalf("unexpected module string %s", m.String())
	}
}
