package builtins

import "testing"

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	for _, name := range DefaultNames() {
		if !r.IsBuiltin(name) {
			t.Fatalf("expected %q to be builtin", name)
		}
	}
	if r.IsBuiltin("math") {
		t.Fatalf("math must not be builtin")
	}
}

func TestExtraNames(t *testing.T) {
	r := New([]string{"assert", ""})
	if !r.IsBuiltin("assert") {
		t.Fatalf("expected extra name to be builtin")
	}
	if r.IsBuiltin("") {
		t.Fatalf("empty name must be ignored")
	}
	names := r.Names()
	if len(names) != len(DefaultNames())+1 {
		t.Fatalf("unexpected names %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if r.IsBuiltin("print") {
		t.Fatalf("nil registry knows no names")
	}
}
