package glslconvert

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

func vec4f() xtype.TypeDenoter { return xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 4)) }
func vec3f() xtype.TypeDenoter { return xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3)) }
func scalarFloat() xtype.TypeDenoter { return xtype.NewBase(xtype.Scalar(xtype.ComponentFloat)) }

func positionSemantic() *ast.IndexedSemantic {
	return &ast.IndexedSemantic{Kind: ast.SemanticPosition, RawName: "POSITION"}
}

func svPositionSemantic() *ast.IndexedSemantic {
	return &ast.IndexedSemantic{Kind: ast.SemanticSVPosition}
}

// TestWrapEntryPointScalarReturn mirrors spec.md's E1 scenario: a vertex
// entry point `float4 main(float3 p : POSITION) : SV_Position { return
// float4(p, 1); }` becomes `in`-variable reads plus a gl_Position write
// and a bare return.
func TestWrapEntryPointScalarReturn(t *testing.T) {
	p := ast.NewProgram()
	p.Stage = ast.StageVertex

	retExpr := &ast.CallExpr{Ctor: vec4f(), Args: []ast.Expr{
		&ast.ObjectExpr{Ident: "p"},
		&ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentFloat), Text: "1"},
	}}
	fn := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Params: []ast.Parameter{
			{Ident: ast.NewIdentifier("p"), TypeDen: vec3f(), Semantic: positionSemantic()},
		},
		ReturnType:     vec4f(),
		ReturnSemantic: svPositionSemantic(),
		Body: &ast.CodeBlockStmt{
			Stmts: []ast.Stmt{&ast.ReturnStmt{Value: retExpr}},
		},
	}
	p.EntryPointRef = fn
	p.GlobalStmts = append(p.GlobalStmts, &ast.BasicDeclStmt{Decl: fn})

	d := New(Options{Mangling: ast.DefaultManglingSettings()})
	d.wrapEntryPoint(fn, p)

	if len(fn.Params) != 0 {
		t.Fatalf("expected params cleared after wrapping, got %d", len(fn.Params))
	}
	if fn.ReturnType != xtype.Void {
		t.Fatalf("expected void return type after wrapping")
	}

	// Expect: in-var decl for POSITION, a local `p` init, an assignment to
	// gl_Position, then a bare return.
	foundInDecl := false
	for _, s := range p.GlobalStmts {
		if vds, ok := s.(*ast.VarDeclStmt); ok {
			for _, v := range vds.VarDecls {
				if v.Ident.OriginalName == "_in_POSITION0" {
					foundInDecl = true
				}
			}
		}
	}
	if !foundInDecl {
		t.Errorf("expected a declared _in_POSITION0 global, got globals %#v", p.GlobalStmts)
	}

	if len(fn.Body.Stmts) < 3 {
		t.Fatalf("expected local-init, assignment, and return statements, got %d", len(fn.Body.Stmts))
	}
	last := fn.Body.Stmts[len(fn.Body.Stmts)-1]
	ret, ok := last.(*ast.ReturnStmt)
	if !ok || ret.Value != nil {
		t.Errorf("expected a trailing bare return, got %#v", last)
	}

	var sawGLPosition bool
	for _, s := range fn.Body.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok {
			if assign, ok := es.Expr.(*ast.AssignExpr); ok {
				if obj, ok := assign.Target.(*ast.ObjectExpr); ok && obj.Ident == "gl_Position" {
					sawGLPosition = true
				}
			}
		}
	}
	if !sawGLPosition {
		t.Errorf("expected an assignment targeting gl_Position, got body %#v", fn.Body.Stmts)
	}
}

// TestWrapEntryPointPromotesBareReturnBody covers spec.md §4.11 step 4's
// third bullet: a conditional whose body is a bare ReturnStmt gets
// promoted to a code block before the return is expanded.
func TestWrapEntryPointPromotesBareReturnBody(t *testing.T) {
	p := ast.NewProgram()
	p.Stage = ast.StageVertex

	fn := &ast.FunctionDecl{
		Ident:          ast.NewIdentifier("main"),
		ReturnType:     vec4f(),
		ReturnSemantic: svPositionSemantic(),
		Body: &ast.CodeBlockStmt{
			Stmts: []ast.Stmt{
				&ast.IfStmt{
					Condition: &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentBool), Text: "true"},
					Body:      &ast.ReturnStmt{Value: &ast.ObjectExpr{Ident: "x"}},
				},
				&ast.ReturnStmt{Value: &ast.ObjectExpr{Ident: "y"}},
			},
		},
	}
	p.EntryPointRef = fn

	d := New(Options{Mangling: ast.DefaultManglingSettings()})
	d.wrapEntryPoint(fn, p)

	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected the if-statement to survive, got %#v", fn.Body.Stmts[0])
	}
	block, ok := ifStmt.Body.(*ast.CodeBlockStmt)
	if !ok {
		t.Fatalf("expected the bare-return if-body promoted to a block, got %T", ifStmt.Body)
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected assignment + bare return inside the promoted block, got %d stmts", len(block.Stmts))
	}
}

// TestWrapEntryPointFragCoordRecordedUnconditionally covers Open Question
// 3: FragmentLayout.FragCoordUsed is set the moment a SV_Position input is
// observed, regardless of what dead-code elimination would later decide.
func TestWrapEntryPointFragCoordRecordedUnconditionally(t *testing.T) {
	p := ast.NewProgram()
	p.Stage = ast.StageFragment

	fn := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Params: []ast.Parameter{
			{Ident: ast.NewIdentifier("unused"), TypeDen: vec4f(), Semantic: svPositionSemantic()},
		},
		ReturnType: xtype.Void,
		Body:       &ast.CodeBlockStmt{},
	}
	p.EntryPointRef = fn

	d := New(Options{Mangling: ast.DefaultManglingSettings()})
	d.wrapEntryPoint(fn, p)

	if !p.FragmentLayout.FragCoordUsed {
		t.Errorf("expected FragCoordUsed set even though the parameter is never read in the body")
	}
}

func TestPadEmptyStructs(t *testing.T) {
	p := ast.NewProgram()
	sd := &ast.StructDecl{Ident: ast.NewIdentifier("Empty")}
	p.GlobalStmts = append(p.GlobalStmts, &ast.BasicDeclStmt{Decl: sd})

	d := New(Options{Mangling: ast.DefaultManglingSettings()})
	d.padEmptyStructs(p)

	if len(sd.Members) != 1 || sd.Members[0].Ident.OriginalName != "xsp_dummy" {
		t.Fatalf("expected a single xsp_dummy member, got %#v", sd.Members)
	}
}

func TestRewriteSaturateExpandsToClamp(t *testing.T) {
	call := &ast.CallExpr{
		Callee: &ast.ObjectExpr{Ident: "saturate"},
		Args:   []ast.Expr{&ast.ObjectExpr{Ident: "x", MemberTy: scalarFloat()}},
	}
	rewriteSaturate(call)

	callee, ok := call.Callee.(*ast.ObjectExpr)
	if !ok || callee.Ident != "clamp" {
		t.Fatalf("expected saturate(x) rewritten to a clamp() call, got %#v", call.Callee)
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected clamp(x, 0, 1), got %d args", len(call.Args))
	}
}

func TestFlattenBaseStructsChainsMultipleLevels(t *testing.T) {
	p := ast.NewProgram()
	grandparent := &ast.StructDecl{
		Ident:   ast.NewIdentifier("A"),
		Members: []ast.StructMember{{Ident: ast.NewIdentifier("a"), TypeDen: scalarFloat()}},
	}
	parent := &ast.StructDecl{
		Ident:         ast.NewIdentifier("B"),
		BaseStructRef: grandparent,
	}
	child := &ast.StructDecl{
		Ident:         ast.NewIdentifier("C"),
		BaseStructRef: parent,
	}
	p.GlobalStmts = append(p.GlobalStmts,
		&ast.BasicDeclStmt{Decl: grandparent},
		&ast.BasicDeclStmt{Decl: parent},
		&ast.BasicDeclStmt{Decl: child},
	)

	inst := &ast.ObjectExpr{Ident: "inst", MemberTy: &xtype.StructDenoter{Ident: "C", DeclRef: child}}
	access := &ast.ObjectExpr{Prefix: inst, Ident: "a"}
	fn := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("f"),
		Body:  &ast.CodeBlockStmt{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: access}}},
	}
	p.GlobalStmts = append(p.GlobalStmts, &ast.BasicDeclStmt{Decl: fn})

	d := New(Options{Mangling: ast.DefaultManglingSettings()})
	d.flattenBaseStructs(p)

	// access.Prefix should now be base(base(inst)): two nested ObjectExprs
	// wrapping the original `inst` reference.
	depth := 0
	cur := access.Prefix
	for {
		obj, ok := cur.(*ast.ObjectExpr)
		if !ok {
			break
		}
		if obj.Ident != "xsp_base" && obj != inst {
			break
		}
		if obj == inst {
			break
		}
		depth++
		cur = obj.Prefix
	}
	if depth != 2 {
		t.Errorf("expected a two-level base chain (inst.base.base), got depth %d (prefix=%#v)", depth, access.Prefix)
	}
}
