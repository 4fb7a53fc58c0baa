package interpreter

import "testing"

func TestGlobals_ContainsBuiltinSet(t *testing.T) {
	g := Globals()
	for _, name := range []string{"len", "substr", "pow", "jsonEncode", "type"} {
		if _, ok := g[name]; !ok {
			t.Fatalf("expected %q among globals", name)
		}
	}
}

func TestGlobals_IsDefensiveCopy(t *testing.T) {
	g := Globals()
	g["len"] = 99
	if arity, _ := Arity("len"); arity == 99 {
		t.Fatalf("mutating Globals() result leaked into package state")
	}
}

func TestArity_UnknownNameNotFound(t *testing.T) {
	if _, ok := Arity("doesNotExist"); ok {
		t.Fatalf("expected unknown name to be absent")
	}
}
