package env

import (
	"testing"

	"github.com/ssrlive/ecmacore/internal/value"
)

func TestVarHoistsToFunctionScope(t *testing.T) {
	fn := NewFunctionScope(NewGlobal())
	block := NewBlockScope(fn)
	block.DeclareVar("x")

	if !fn.HasOwn("x") {
		t.Error("var declared inside a block should hoist to the enclosing function scope")
	}
	if block.HasOwn("x") {
		t.Error("var should not remain directly in the block scope")
	}
}

func TestLexicalBindingStartsInTDZ(t *testing.T) {
	scope := NewGlobal()
	scope.DeclareLexical("x", Let)

	if _, errKind := scope.Get("x"); errKind != ErrTDZ {
		t.Errorf("expected ErrTDZ before initialization, got %v", errKind)
	}

	scope.InitializeLexical("x", value.NewNumber(1))
	v, errKind := scope.Get("x")
	if errKind != ErrNone {
		t.Fatalf("expected ErrNone after initialization, got %v", errKind)
	}
	if v != value.NewNumber(1) {
		t.Errorf("expected 1, got %v", v)
	}
}

func TestConstReassignmentFails(t *testing.T) {
	scope := NewGlobal()
	scope.DeclareLexical("c", Const)
	scope.InitializeLexical("c", value.NewNumber(1))

	if errKind := scope.Set("c", value.NewNumber(2)); errKind != ErrConstAssign {
		t.Errorf("expected ErrConstAssign, got %v", errKind)
	}
}

func TestGetUnresolvedReturnsErrNotDefined(t *testing.T) {
	scope := NewGlobal()
	if _, errKind := scope.Get("missing"); errKind != ErrNotDefined {
		t.Errorf("expected ErrNotDefined, got %v", errKind)
	}
}

func TestSetWalksUpScopeChain(t *testing.T) {
	outer := NewGlobal()
	outer.DeclareLexical("x", Let)
	outer.InitializeLexical("x", value.NewNumber(1))

	inner := NewBlockScope(outer)
	if errKind := inner.Set("x", value.NewNumber(42)); errKind != ErrNone {
		t.Fatalf("expected ErrNone, got %v", errKind)
	}
	v, _ := outer.Get("x")
	if v != value.NewNumber(42) {
		t.Errorf("expected outer binding updated to 42, got %v", v)
	}
}

func TestHasBindingWalksScopeChain(t *testing.T) {
	outer := NewGlobal()
	outer.DeclareVar("x")
	inner := NewBlockScope(outer)
	if !inner.HasBinding("x") {
		t.Error("HasBinding should see bindings in outer scopes")
	}
	if inner.HasOwn("x") {
		t.Error("HasOwn should not see bindings in outer scopes")
	}
}
