package refanalysis

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/report"
	"github.com/xsc-go/xsc/internal/xtype"
)

func TestMarkReachesCalledFunction(t *testing.T) {
	helper := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("helper"),
		Body:  &ast.CodeBlockStmt{},
	}
	call := &ast.CallExpr{
		Callee:  &ast.ObjectExpr{Ident: "helper", SymbolRef: helper},
		FuncRef: helper,
	}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: call}}},
	}
	unused := &ast.FunctionDecl{Ident: ast.NewIdentifier("unused"), Body: &ast.CodeBlockStmt{}}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: entry},
		&ast.BasicDeclStmt{Decl: helper},
		&ast.BasicDeclStmt{Decl: unused},
	}

	dead, reports := Mark(p)

	if !entry.GetFlags().Has(ast.FlagIsReachable) {
		t.Errorf("expected entry point to be marked reachable")
	}
	if !helper.GetFlags().Has(ast.FlagIsReachable) {
		t.Errorf("expected called helper to be marked reachable")
	}
	if unused.GetFlags().Has(ast.FlagIsReachable) {
		t.Errorf("did not expect the unused function to be marked reachable")
	}
	if reports.HasErrors() {
		t.Errorf("expected no diagnostics for a non-recursive call graph, got %v", reports.Reports())
	}

	found := false
	for _, d := range dead {
		if d == unused {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unused function to be reported dead")
	}
}

func TestMarkFollowsStructTypeReference(t *testing.T) {
	strukt := &ast.StructDecl{Ident: ast.NewIdentifier("S")}
	structTy := &xtype.StructDenoter{Ident: "S", DeclRef: strukt}
	v := &ast.VarDecl{Ident: ast.NewIdentifier("v"), TypeDen: structTy}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.VarDeclStmt{VarDecls: []*ast.VarDecl{v}}}},
	}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: entry},
		&ast.BasicDeclStmt{Decl: strukt},
	}

	Mark(p)

	if !strukt.GetFlags().Has(ast.FlagIsReachable) {
		t.Errorf("expected struct referenced only via a variable's type to be marked reachable")
	}
}

// TestMarkReportsSelfRecursiveCall covers spec.md §8's boundary case:
// `void f(){ f(); }` reports a RecursiveCall diagnostic with a single-node
// call stack.
func TestMarkReportsSelfRecursiveCall(t *testing.T) {
	f := &ast.FunctionDecl{Ident: ast.NewIdentifier("f")}
	call := &ast.CallExpr{Callee: &ast.ObjectExpr{Ident: "f", SymbolRef: f}, FuncRef: f}
	f.Body = &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: call}}}

	p := ast.NewProgram()
	p.EntryPointRef = f
	p.GlobalStmts = []ast.Stmt{&ast.BasicDeclStmt{Decl: f}}

	_, reports := Mark(p)

	if !reports.HasErrors() {
		t.Fatalf("expected a RecursiveCall diagnostic for a self-recursive function")
	}
	found := false
	for _, r := range reports.Reports() {
		if r.Code == report.CodeRecursiveCall {
			found = true
			if len(r.Related) != 1 {
				t.Errorf("expected a single-node call stack, got %d related entries", len(r.Related))
			}
		}
	}
	if !found {
		t.Errorf("expected a CodeRecursiveCall report, got %v", reports.Reports())
	}
}

// TestMarkReportsMutuallyRecursiveCall covers the two-function cycle case:
// `f` calls `g`, `g` calls back into `f`.
func TestMarkReportsMutuallyRecursiveCall(t *testing.T) {
	f := &ast.FunctionDecl{Ident: ast.NewIdentifier("f")}
	g := &ast.FunctionDecl{Ident: ast.NewIdentifier("g")}

	callG := &ast.CallExpr{Callee: &ast.ObjectExpr{Ident: "g", SymbolRef: g}, FuncRef: g}
	f.Body = &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: callG}}}

	callF := &ast.CallExpr{Callee: &ast.ObjectExpr{Ident: "f", SymbolRef: f}, FuncRef: f}
	g.Body = &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: callF}}}

	p := ast.NewProgram()
	p.EntryPointRef = f
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: f},
		&ast.BasicDeclStmt{Decl: g},
	}

	_, reports := Mark(p)

	if !reports.HasErrors() {
		t.Fatalf("expected a RecursiveCall diagnostic for a mutually recursive call cycle")
	}
}

// TestMarkRecordsIntrinsicUsage covers spec.md §4.4 step 1's
// "program.usedIntrinsics" bookkeeping.
func TestMarkRecordsIntrinsicUsage(t *testing.T) {
	scalarFloat := xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))
	call := &ast.CallExpr{
		Intrinsic: ast.IntrinsicSaturate,
		Args:      []ast.Expr{&ast.ObjectExpr{Ident: "x", MemberTy: scalarFloat}},
	}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: call}}},
	}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{&ast.BasicDeclStmt{Decl: entry}}

	Mark(p)

	usage, ok := p.UsedIntrinsics[ast.IntrinsicSaturate]
	if !ok || len(usage.Signatures) != 1 || usage.Signatures[0][0] != scalarFloat.String() {
		t.Fatalf("expected a recorded saturate(float) signature, got %+v", p.UsedIntrinsics)
	}
}

// TestMarkFlagsBufferReadForImage covers spec.md §4.4 step 1's rule that a
// Load/Interlocked intrinsic call flags its buffer argument as image-read.
func TestMarkFlagsBufferReadForImage(t *testing.T) {
	buf := &ast.BufferDecl{Ident: ast.NewIdentifier("img")}
	call := &ast.CallExpr{
		Intrinsic: ast.IntrinsicLoad,
		Args: []ast.Expr{
			&ast.ObjectExpr{Ident: "img", SymbolRef: buf},
			&ast.ObjectExpr{Ident: "idx"},
		},
	}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: call}}},
	}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: entry},
		&ast.BasicDeclStmt{Decl: buf},
	}

	Mark(p)

	if !buf.GetFlags().Has(ast.FlagIsReadForImage) {
		t.Errorf("expected the Load-accessed buffer to be flagged read-for-image")
	}
}

// TestMarkFlagsWrittenToOnAssignTarget and the post-increment variant cover
// spec.md §4.4 step 3's isWrittenTo marking.
func TestMarkFlagsWrittenToOnAssignTarget(t *testing.T) {
	v := &ast.VarDecl{Ident: ast.NewIdentifier("v")}
	assign := &ast.AssignExpr{
		Target: &ast.ObjectExpr{Ident: "v", SymbolRef: v},
		Op:     ast.AssignSet,
		Value:  &ast.ObjectExpr{Ident: "x"},
	}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: assign}}},
	}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{&ast.BasicDeclStmt{Decl: entry}}

	Mark(p)

	if !v.GetFlags().Has(ast.FlagIsWrittenTo) {
		t.Errorf("expected the assignment target to be flagged written-to")
	}
}

func TestMarkFlagsWrittenToOnPostIncrement(t *testing.T) {
	v := &ast.VarDecl{Ident: ast.NewIdentifier("v")}
	inc := &ast.PostUnaryExpr{Op: ast.PostIncrement, Operand: &ast.ObjectExpr{Ident: "v", SymbolRef: v}}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: inc}}},
	}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{&ast.BasicDeclStmt{Decl: entry}}

	Mark(p)

	if !v.GetFlags().Has(ast.FlagIsWrittenTo) {
		t.Errorf("expected the post-incremented variable to be flagged written-to")
	}
}

func TestMarkFlagsWrittenToOnInOutArgument(t *testing.T) {
	callee := &ast.FunctionDecl{
		Ident:  ast.NewIdentifier("modify"),
		Params: []ast.Parameter{{Ident: ast.NewIdentifier("out"), IsInOut: true}},
		Body:   &ast.CodeBlockStmt{},
	}
	v := &ast.VarDecl{Ident: ast.NewIdentifier("v")}
	call := &ast.CallExpr{
		Callee:  &ast.ObjectExpr{Ident: "modify", SymbolRef: callee},
		FuncRef: callee,
		Args:    []ast.Expr{&ast.ObjectExpr{Ident: "v", SymbolRef: v}},
	}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: call}}},
	}

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: entry},
		&ast.BasicDeclStmt{Decl: callee},
	}

	Mark(p)

	if !v.GetFlags().Has(ast.FlagIsWrittenTo) {
		t.Errorf("expected the inout-passed variable to be flagged written-to")
	}
}
