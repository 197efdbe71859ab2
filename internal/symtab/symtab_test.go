package symtab

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
)

func TestDeclareAndLookupGlobalScope(t *testing.T) {
	tab := New(nil)
	decl := &ast.VarDecl{Ident: ast.NewIdentifier("x")}
	if !tab.Declare("x", decl) {
		t.Fatalf("expected first declaration to succeed")
	}
	got, ok := tab.Lookup("x")
	if !ok || got != decl {
		t.Fatalf("expected to resolve x back to its decl")
	}
}

func TestDeclareRejectsRedeclarationInSameScope(t *testing.T) {
	tab := New(nil)
	tab.Declare("x", &ast.VarDecl{})
	if tab.Declare("x", &ast.VarDecl{}) {
		t.Fatalf("expected redeclaration in the same scope to fail")
	}
}

func TestNestedScopeShadowsOuter(t *testing.T) {
	tab := New(nil)
	outer := &ast.VarDecl{Ident: ast.NewIdentifier("x")}
	tab.Declare("x", outer)

	tab.Push()
	inner := &ast.VarDecl{Ident: ast.NewIdentifier("x")}
	if !tab.Declare("x", inner) {
		t.Fatalf("expected shadowing declaration in a nested scope to succeed")
	}
	got, _ := tab.Lookup("x")
	if got != inner {
		t.Fatalf("expected innermost x to shadow outer")
	}
	tab.Pop()

	got, _ = tab.Lookup("x")
	if got != outer {
		t.Fatalf("expected outer x to be visible again after popping the inner scope")
	}
}

func TestPopGlobalScopePanics(t *testing.T) {
	tab := New(nil)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Pop on the global scope to panic")
		}
	}()
	tab.Pop()
}

func TestCollidesWithReservedWord(t *testing.T) {
	tab := New(map[string]bool{"texture": true})
	if !tab.Collides("texture") {
		t.Fatalf("expected a reserved word to collide")
	}
	if tab.Collides("myVar") {
		t.Fatalf("did not expect an unused name to collide")
	}
}

func TestDeclareUniqueRenamesOnCollision(t *testing.T) {
	tab := New(map[string]bool{"out": true})
	first := &ast.VarDecl{}
	name := tab.DeclareUnique("out", first, func(attempt int) string {
		return "xsp_out"
	})
	if name != "xsp_out" {
		t.Fatalf("expected rename to xsp_out, got %q", name)
	}

	second := &ast.VarDecl{}
	name2 := tab.DeclareUnique("myVar", second, func(attempt int) string { return "unused" })
	if name2 != "myVar" {
		t.Fatalf("expected no rename for a non-colliding name, got %q", name2)
	}
}
