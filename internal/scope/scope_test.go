package scope

import (
	"testing"

	"github.com/nuxleus/closure-compiler/internal/types"
)

func TestLookupWalksToParent(t *testing.T) {
	r := types.NewRegistry()
	root := NewRoot()
	root.Declare(r, "x", r.Number(), true, nil)

	fn := NewEnclosed(root, KindFunction)
	v, owner, ok := fn.Lookup("x")
	if !ok {
		t.Fatalf("expected x to resolve through the parent scope")
	}
	if owner != root {
		t.Errorf("x should resolve in root, not fn")
	}
	if v.Type != r.Number() {
		t.Errorf("x has type %s, want number", v.Type)
	}
}

func TestLookupLocalDoesNotWalk(t *testing.T) {
	r := types.NewRegistry()
	root := NewRoot()
	root.Declare(r, "x", r.Number(), true, nil)
	fn := NewEnclosed(root, KindFunction)

	if _, ok := fn.LookupLocal("x"); ok {
		t.Errorf("LookupLocal should not see names declared in an outer scope")
	}
}

func TestRedeclareDeclaredJoins(t *testing.T) {
	r := types.NewRegistry()
	s := NewRoot()
	s.Declare(r, "x", r.Number(), true, nil)
	s.Declare(r, "x", r.Str(), true, nil)

	v, _, _ := s.Lookup("x")
	want := r.CreateUnion(r.Number(), r.Str())
	if v.Type.String() != want.String() {
		t.Errorf("redeclaring a declared var should join types, got %s want %s", v.Type, want)
	}
}

func TestDeclaredShadowsLaterInferred(t *testing.T) {
	r := types.NewRegistry()
	s := NewRoot()
	s.Declare(r, "x", r.Number(), true, nil)
	s.Declare(r, "x", r.Str(), false, nil)

	v, _, _ := s.Lookup("x")
	if v.Type != r.Number() || !v.Declared {
		t.Errorf("a declared var must not be overwritten by a later inferred assignment, got %s", v.Type)
	}
}

func TestInferredThenDeclaredUpgrades(t *testing.T) {
	r := types.NewRegistry()
	s := NewRoot()
	s.Declare(r, "x", r.Number(), false, nil)
	s.Declare(r, "x", r.Str(), true, nil)

	v, _, _ := s.Lookup("x")
	if v.Type != r.Str() || !v.Declared {
		t.Errorf("a later declared var should replace and upgrade an earlier inferred one, got %s declared=%v", v.Type, v.Declared)
	}
}

func TestBlockScopeInheritsThis(t *testing.T) {
	r := types.NewRegistry()
	root := NewRoot()
	obj := r.CreateObject("Ctor", nil)
	fn := NewEnclosed(root, KindFunction)
	fn.ThisType = obj

	block := NewEnclosed(fn, KindBlock)
	if block.ThisType != types.Type(obj) {
		t.Errorf("a block scope should inherit this from its enclosing function scope")
	}
}

func TestRootAndIsGlobal(t *testing.T) {
	root := NewRoot()
	fn := NewEnclosed(root, KindFunction)
	block := NewEnclosed(fn, KindBlock)

	if !root.IsGlobal() {
		t.Errorf("NewRoot() should be global")
	}
	if block.Root() != root {
		t.Errorf("Root() from a nested scope should reach the global scope")
	}
	if fn.IsGlobal() {
		t.Errorf("a function scope is not global")
	}
}
