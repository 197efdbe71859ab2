package exprconvert

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

func scalarF() *ast.ObjectExpr {
	return &ast.ObjectExpr{Ident: "a", SymbolRef: &ast.VarDecl{
		Ident: ast.NewIdentifier("a"), TypeDen: xtype.NewBase(xtype.Scalar(xtype.ComponentFloat)),
	}}
}

func TestConvertVectorSubscriptBroadcastsScalar(t *testing.T) {
	base := scalarF()
	swz := &ast.ObjectExpr{Prefix: base, Ident: "xxx"}
	c := New(ConvertVectorSubscripts)
	got := c.convertExpr(swz)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a constructor call, got %T", got)
	}
	bt, ok := call.Ctor.(*xtype.BaseDenoter)
	if !ok || bt.Type.Cols != 3 {
		t.Errorf("expected a vec3 constructor, got %v", call.Ctor)
	}
	if len(call.Args) != 1 || call.Args[0] != base {
		t.Errorf("expected the scalar passed through once for GLSL broadcast")
	}
}

func TestConvertVectorSubscriptSingleComponentIsIdentity(t *testing.T) {
	base := scalarF()
	swz := &ast.ObjectExpr{Prefix: base, Ident: "x"}
	c := New(ConvertVectorSubscripts)
	got := c.convertExpr(swz)
	if got != ast.Expr(base) {
		t.Errorf("expected a.x on a scalar to reduce to a, got %v", got)
	}
}

func matVar() *ast.ObjectExpr {
	return &ast.ObjectExpr{Ident: "m", SymbolRef: &ast.VarDecl{
		Ident: ast.NewIdentifier("m"), TypeDen: xtype.NewBase(xtype.Mat(xtype.ComponentFloat, 4, 4)),
	}}
}

func TestConvertMatrixSubscriptSingleElementIsArrayAccess(t *testing.T) {
	m := matVar()
	sub := &ast.ObjectExpr{Prefix: m, Ident: "_m12"}
	c := New(ConvertMatrixSubscripts)
	got := c.convertExpr(sub)
	outer, ok := got.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("expected a 2-index array access, got %T", got)
	}
	inner, ok := outer.Base.(*ast.SubscriptExpr)
	if !ok {
		t.Fatalf("expected a nested subscript, got %T", outer.Base)
	}
	row := inner.Index.(*ast.LiteralExpr)
	col := outer.Index.(*ast.LiteralExpr)
	if row.Text != "1" || col.Text != "2" {
		t.Errorf("expected row 1 col 2, got row=%s col=%s", row.Text, col.Text)
	}
}

func TestConvertMatrixSubscriptMultiElementIsWrapperCall(t *testing.T) {
	m := matVar()
	sub := &ast.ObjectExpr{Prefix: m, Ident: "_m00_m11"}
	c := New(ConvertMatrixSubscripts)
	got := c.convertExpr(sub)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a wrapper call, got %T", got)
	}
	if len(call.Args) != 5 {
		t.Errorf("expected base + 2 pairs of indices, got %d args", len(call.Args))
	}
}

func vecVar(name string, n int) *ast.ObjectExpr {
	return &ast.ObjectExpr{Ident: name, SymbolRef: &ast.VarDecl{
		Ident: ast.NewIdentifier(name), TypeDen: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, n)),
	}}
}

func TestConvertVectorCompareRewritesToLessThan(t *testing.T) {
	bin := &ast.BinaryExpr{Op: ast.BinLt, Left: vecVar("a", 3), Right: vecVar("b", 3)}
	c := New(ConvertVectorCompare)
	got := c.convertExpr(bin)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a lessThan call, got %T", got)
	}
	callee, ok := call.Callee.(*ast.ObjectExpr)
	if !ok || callee.Ident != "lessThan" {
		t.Errorf("expected lessThan callee, got %v", call.Callee)
	}
}

func TestConvertVectorCompareUsesSmallerOperandWidth(t *testing.T) {
	bin := &ast.BinaryExpr{Op: ast.BinLt, Left: vecVar("a", 4), Right: vecVar("b", 2)}
	c := New(ConvertVectorCompare)
	got := c.convertExpr(bin)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a lessThan call, got %T", got)
	}
	bt, ok := call.ResultTy.(*xtype.BaseDenoter)
	if !ok || bt.Type.Cols != 2 {
		t.Errorf("expected the result vector narrowed to the smaller operand width (2), got %v", call.ResultTy)
	}
}

func TestConvertVectorCompareTernaryBecomesMix(t *testing.T) {
	tern := &ast.TernaryExpr{
		Condition: &ast.ObjectExpr{Ident: "cond", SymbolRef: &ast.VarDecl{TypeDen: xtype.NewBase(xtype.Vec(xtype.ComponentBool, 3))}},
		True:      vecVar("a", 3),
		False:     vecVar("b", 3),
	}
	c := New(ConvertVectorCompare)
	got := c.convertExpr(tern)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a mix call, got %T", got)
	}
	if len(call.Args) != 3 || call.Args[0] != tern.False || call.Args[1] != tern.True {
		t.Errorf("expected mix(False, True, Condition), got %v", call.Args)
	}
}

func TestConvertMulIntrinsicSwapsOperands(t *testing.T) {
	m := matVar()
	v := vecVar("p", 4)
	call := &ast.CallExpr{Intrinsic: ast.IntrinsicMul, Args: []ast.Expr{m, v}}
	c := New(ConvertMulIntrinsic)
	got := c.convertExpr(call)
	bin, ok := got.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected mul(M, v) to rewrite to a binary multiply, got %T", got)
	}
	if bin.Op != ast.BinMul || bin.Left != v || bin.Right != m {
		t.Errorf("expected v * M (operands swapped), got left=%v right=%v", bin.Left, bin.Right)
	}
}

func rwTexVar() *ast.ObjectExpr {
	return &ast.ObjectExpr{Ident: "rwTex", SymbolRef: &ast.VarDecl{
		TypeDen: &xtype.BufferDenoter{BufferKind: xtype.BufferRWTexture2D, Generic: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 4))},
	}}
}

func TestConvertImageAccessStoreRewritesAssign(t *testing.T) {
	sub := &ast.SubscriptExpr{Base: rwTexVar(), Index: intLit(0)}
	assign := &ast.AssignExpr{Target: sub, Op: ast.AssignSet, Value: vecVar("v", 4)}
	c := New(ConvertImageAccess)
	got := c.convertExpr(assign)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected an imageStore call, got %T", got)
	}
	callee, ok := call.Callee.(*ast.ObjectExpr)
	if !ok || callee.Ident != "imageStore" {
		t.Errorf("expected imageStore callee, got %v", call.Callee)
	}
}

func TestConvertImageAccessLoadRewritesSubscript(t *testing.T) {
	sub := &ast.SubscriptExpr{Base: rwTexVar(), Index: intLit(0)}
	c := New(ConvertImageAccess)
	got := c.convertExpr(sub)
	call, ok := got.(*ast.CallExpr)
	if !ok || call.Intrinsic != ast.IntrinsicLoad {
		t.Fatalf("expected an imageLoad intrinsic call, got %T", got)
	}
}

func TestConvertCompoundImageAssignHoistsIndex(t *testing.T) {
	base := rwTexVar()
	idxCall := &ast.CallExpr{Callee: &ast.ObjectExpr{Ident: "f"}, ResultTy: xtype.NewBase(xtype.Scalar(xtype.ComponentInt))}
	sub := &ast.SubscriptExpr{Base: base, Index: idxCall}
	assign := &ast.AssignExpr{Target: sub, Op: ast.AssignAdd, Value: vecVar("v", 4)}
	stmt := &ast.ExprStmt{Expr: assign}
	c := New(ConvertImageAccess)
	out := c.convertStmt(stmt)
	if len(out) != 2 {
		t.Fatalf("expected the index hoisted into a temp plus the rewritten store, got %d statements", len(out))
	}
	if _, ok := out[0].(*ast.VarDeclStmt); !ok {
		t.Errorf("expected the first statement to declare the hoisted temp, got %T", out[0])
	}
}

func samplerBufVar() *ast.ObjectExpr {
	return &ast.ObjectExpr{Ident: "buf", SymbolRef: &ast.VarDecl{
		TypeDen: &xtype.BufferDenoter{BufferKind: xtype.BufferStructuredBuffer, Generic: xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))},
	}}
}

func TestConvertSamplerBufferAccessRewritesToLoad(t *testing.T) {
	sub := &ast.SubscriptExpr{Base: samplerBufVar(), Index: intLit(0)}
	c := New(ConvertSamplerBufferAccess)
	got := c.convertExpr(sub)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a Load call, got %T", got)
	}
	callee := call.Callee.(*ast.ObjectExpr)
	if callee.Ident != "Load" {
		t.Errorf("expected Load callee, got %q", callee.Ident)
	}
}

func TestConvertImplicitCastsExtendsVectorWithZero(t *testing.T) {
	target := xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 4))
	v3 := vecVar("v", 3)
	c := New(ConvertImplicitCasts)
	got := c.insertCast(target, v3)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a constructor call widening the vector, got %T", got)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected the original vector plus one zero, got %d args", len(call.Args))
	}
}

func TestConvertImplicitCastsLeavesMatchingTypesAlone(t *testing.T) {
	target := xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))
	lit := &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentFloat), Text: "1.0"}
	c := New(ConvertImplicitCasts)
	got := c.insertCast(target, lit)
	if got != ast.Expr(lit) {
		t.Errorf("expected no cast inserted when types already match")
	}
}

func TestConvertInitializerToCtorUsesTargetType(t *testing.T) {
	target := xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3))
	init := &ast.InitializerExpr{
		Elements: []ast.Expr{intLit(1), intLit(2), intLit(3)},
		TargetTy: target,
	}
	c := New(ConvertInitializerToCtor)
	got := c.convertExpr(init)
	call, ok := got.(*ast.CallExpr)
	if !ok || call.Ctor != target {
		t.Fatalf("expected a constructor call targeting the declared type, got %T", got)
	}
}

func TestConvertLog10RewritesToLogDivision(t *testing.T) {
	arg := &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentFloat), Text: "100.0"}
	call := &ast.CallExpr{Intrinsic: ast.IntrinsicLog10, Args: []ast.Expr{arg}}
	c := New(ConvertLog10)
	got := c.convertExpr(call)
	bin, ok := got.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinDiv {
		t.Fatalf("expected a division of two log calls, got %T", got)
	}
}

func TestConvertUnaryExprBracketsNestedUnary(t *testing.T) {
	inner := &ast.UnaryExpr{Op: ast.UnaryNeg, Operand: &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentInt), Text: "1"}}
	outer := &ast.UnaryExpr{Op: ast.UnaryNeg, Operand: inner}
	c := New(ConvertUnaryExpr)
	got := c.convertExpr(outer)
	un, ok := got.(*ast.UnaryExpr)
	if !ok {
		t.Fatalf("expected the outer unary to survive, got %T", got)
	}
	if _, ok := un.Operand.(*ast.BracketExpr); !ok {
		t.Errorf("expected the nested unary operand wrapped in brackets, got %T", un.Operand)
	}
}

func readOnlyTexVar() *ast.ObjectExpr {
	return &ast.ObjectExpr{Ident: "tex", SymbolRef: &ast.VarDecl{
		TypeDen: &xtype.BufferDenoter{BufferKind: xtype.BufferTexture2D, Generic: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 4))},
	}}
}

func TestConvertTextureBracketOpRewritesToLoad(t *testing.T) {
	sub := &ast.SubscriptExpr{Base: readOnlyTexVar(), Index: intLit(0)}
	c := New(ConvertTextureBracketOp)
	got := c.convertExpr(sub)
	call, ok := got.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a Load call, got %T", got)
	}
	if callee, ok := call.Callee.(*ast.ObjectExpr); !ok || callee.Ident != "Load" {
		t.Errorf("expected a Load callee, got %v", call.Callee)
	}
}

func TestConvertTextureIntrinsicVec4NarrowsResult(t *testing.T) {
	call := &ast.CallExpr{
		Intrinsic: ast.IntrinsicSample,
		ResultTy:  xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 2)),
	}
	c := New(ConvertTextureIntrinsicVec4)
	got := c.convertExpr(call)
	obj, ok := got.(*ast.ObjectExpr)
	if !ok {
		t.Fatalf("expected a swizzle wrapping the call, got %T", got)
	}
	if obj.Ident != "rg" {
		t.Errorf("expected a .rg swizzle for a vec2 texel, got %q", obj.Ident)
	}
	if inner, ok := obj.Prefix.(*ast.CallExpr); !ok || inner.ResultTy.(*xtype.BaseDenoter).Type.Cols != 4 {
		t.Errorf("expected the underlying call's result type widened to vec4")
	}
}

func TestConvertCompatibleStructsRebindsMember(t *testing.T) {
	compat := &ast.StructDecl{
		Ident:   ast.NewIdentifier("CompatLight"),
		Members: []ast.StructMember{{Ident: ast.NewIdentifier("xsp_color"), TypeDen: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3))}},
	}
	original := &ast.StructDecl{
		Ident:               ast.NewIdentifier("Light"),
		Members:             []ast.StructMember{{Ident: ast.NewIdentifier("color"), TypeDen: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3))}},
		CompatibleStructRef: compat,
	}
	inst := &ast.ObjectExpr{Ident: "light", SymbolRef: &ast.VarDecl{
		TypeDen: &xtype.StructDenoter{Ident: "Light", DeclRef: original},
	}}
	member := &ast.ObjectExpr{Prefix: inst, Ident: "color"}
	c := New(ConvertCompatibleStructs)
	got := c.convertExpr(member)
	obj, ok := got.(*ast.ObjectExpr)
	if !ok || obj.Ident != "xsp_color" {
		t.Fatalf("expected the member rebound to the compatible struct's field name, got %v", got)
	}
}

func TestConvertLiteralHalfToFloatRewritesSuffix(t *testing.T) {
	lit := &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentHalf), Text: "0.5h"}
	c := New(ConvertLiteralHalfToFloat)
	got := c.convertExpr(lit)
	out, ok := got.(*ast.LiteralExpr)
	if !ok || out.Text != "0.5f" {
		t.Fatalf("expected 0.5h rewritten to 0.5f, got %v", got)
	}
	if out.Type.Component != xtype.ComponentFloat {
		t.Errorf("expected the component kind rewritten to float")
	}
}
