package astfactory

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

func TestMakeCastExprTypeDenoter(t *testing.T) {
	lit := MakeLiteralExpr(xtype.Scalar(xtype.ComponentInt), "1")
	cast := MakeCastExpr(xtype.NewBase(xtype.Scalar(xtype.ComponentFloat)), lit)

	got, err := cast.TypeDenoter()
	if err != nil {
		t.Fatalf("TypeDenoter: %v", err)
	}
	if !got.Equals(xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))) {
		t.Errorf("cast should carry the target type, got %v", got)
	}
}

func TestMakeLiteralExprOrNullUnsupportedValue(t *testing.T) {
	if got := MakeLiteralExprOrNull(xtype.Scalar(xtype.ComponentFloat), struct{}{}); got != nil {
		t.Errorf("expected nil for an unrepresentable value, got %v", got)
	}
	if got := MakeLiteralExprOrNull(xtype.Scalar(xtype.ComponentInt), 42); got == nil || got.Text != "42" {
		t.Errorf("expected literal text 42, got %+v", got)
	}
}

func TestMakeConstructorListExprCastsEachMember(t *testing.T) {
	lit := MakeLiteralExpr(xtype.Scalar(xtype.ComponentFloat), "0.0")
	members := []xtype.TypeDenoter{
		xtype.NewBase(xtype.Scalar(xtype.ComponentFloat)),
		xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3)),
	}
	call := MakeConstructorListExpr(lit, members)
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	for i, arg := range call.Args {
		cast, ok := arg.(*ast.CastExpr)
		if !ok {
			t.Fatalf("arg %d not a CastExpr: %T", i, arg)
		}
		if !cast.Target.Equals(members[i]) {
			t.Errorf("arg %d cast to wrong member type", i)
		}
	}
}

func TestMakeArrayAssignStmtNesting(t *testing.T) {
	arrTy := xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))
	decl := &ast.VarDecl{Ident: ast.NewIdentifier("arr"), TypeDen: arrTy}
	value := MakeLiteralExpr(xtype.Scalar(xtype.ComponentFloat), "1.0")

	stmt := MakeArrayAssignStmt(decl, []int{2, 3}, value)
	assign, ok := stmt.Expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected AssignExpr, got %T", stmt.Expr)
	}
	outer, ok := assign.Target.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("expected outer SubscriptExpr, got %T", assign.Target)
	}
	inner, ok := outer.Base.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("expected inner SubscriptExpr, got %T", outer.Base)
	}
	if _, ok := inner.Base.(*ast.ObjectExpr); !ok {
		t.Fatalf("expected innermost base to be the array identifier, got %T", inner.Base)
	}
}

func TestMakeVarDeclStmtWiresBackReference(t *testing.T) {
	stmt := MakeVarDeclStmt(xtype.NewBase(xtype.Scalar(xtype.ComponentFloat)), "tmp", nil)
	if len(stmt.VarDecls) != 1 {
		t.Fatalf("expected one decl, got %d", len(stmt.VarDecls))
	}
	if stmt.VarDecls[0].DeclStmtRef != stmt {
		t.Errorf("DeclStmtRef should point back to the owning statement")
	}
}

func TestMakeScopeStmtAvoidsDoubleWrapping(t *testing.T) {
	block := &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.NullStmt{}}}
	if MakeScopeStmt(block) != block {
		t.Errorf("an existing CodeBlockStmt should be returned unchanged")
	}

	single := &ast.NullStmt{}
	wrapped := MakeScopeStmt(single)
	if len(wrapped.Stmts) != 1 || wrapped.Stmts[0] != single {
		t.Errorf("expected single statement wrapped in a new block")
	}
}

func TestMakeTempVarDeclStmtRoundTrips(t *testing.T) {
	ty := xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))
	val := MakeLiteralExpr(xtype.Scalar(xtype.ComponentFloat), "3.0")
	stmt, use := MakeTempVarDeclStmt("_tmp", 0, ty, val)

	if use.SymbolRef != stmt.VarDecls[0] {
		t.Errorf("temp var use should resolve back to the declared VarDecl")
	}
	if use.Ident != "_tmp0" {
		t.Errorf("unexpected temp name: %q", use.Ident)
	}
}

func TestMakeUniformBufferDeclBinding(t *testing.T) {
	ub := MakeUniformBufferDecl("Globals", 3)
	if !ub.HasBinding || ub.Binding != 3 {
		t.Errorf("expected binding 3 recorded, got %+v", ub)
	}
	if ub.DeclIdent() != "Globals" {
		t.Errorf("unexpected ident: %q", ub.DeclIdent())
	}
}

func TestMakeArrayDimension(t *testing.T) {
	dim := MakeArrayDimension(4)
	if dim.Size != 4 {
		t.Errorf("expected size 4, got %d", dim.Size)
	}
}
