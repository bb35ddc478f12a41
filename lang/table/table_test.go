package table_test

import (
	"testing"

	"github.com/mna/dynac/lang/table"
	"github.com/mna/dynac/lang/types"
)

func TestTableSetGet(t *testing.T) {
	tb := table.New(0)
	if _, ok := tb.Get("x"); ok {
		t.Fatal("expected miss on empty table")
	}
	isNew := tb.Set("x", types.Number(1))
	if !isNew {
		t.Error("first Set should report a new key")
	}
	v, ok := tb.Get("x")
	if !ok || v != types.Value(types.Number(1)) {
		t.Errorf("Get(x) = %v, %v", v, ok)
	}
	if tb.Set("x", types.Number(2)) {
		t.Error("overwriting an existing key should not report new")
	}
	if tb.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tb.Len())
	}
	if !tb.Delete("x") {
		t.Error("Delete should report the key was present")
	}
	if tb.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after delete", tb.Len())
	}
}

func TestInternerDedups(t *testing.T) {
	in := table.NewInterner()
	allocCount := 0
	alloc := func(s string) *types.ObjString {
		allocCount++
		return types.NewString(s)
	}

	s1, isNew1 := in.Intern("hi", alloc)
	s2, isNew2 := in.Intern("hi", alloc)
	if !isNew1 || isNew2 {
		t.Errorf("isNew1=%v isNew2=%v, want true, false", isNew1, isNew2)
	}
	if s1 != s2 {
		t.Error("interning the same content twice must return the same pointer")
	}
	if allocCount != 1 {
		t.Errorf("alloc called %d times, want 1", allocCount)
	}

	if _, ok := in.Lookup("missing"); ok {
		t.Error("Lookup of unseen content should miss")
	}
	if got, ok := in.Lookup("hi"); !ok || got != s1 {
		t.Errorf("Lookup(hi) = %v, %v", got, ok)
	}
}
