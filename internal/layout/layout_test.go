package layout

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/test"
	"github.com/xsc-go/xsc/internal/xtype"
)

func TestBaseLayoutVec3AlignsToVec4(t *testing.T) {
	l := ComputeLayout(xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3)))
	test.AssertEqual(t, l.Size, 12)
	test.AssertEqual(t, l.Alignment, 16)
}

func TestBaseLayoutMat4x4(t *testing.T) {
	l := ComputeLayout(xtype.NewBase(xtype.DataType{Component: xtype.ComponentFloat, Rows: 4, Cols: 4}))
	if l.Size != 64 || l.Alignment != 16 {
		t.Errorf("expected mat4x4 {size:64 align:16}, got %+v", l)
	}
}

func TestStructLayoutPadsVec3Members(t *testing.T) {
	sd := &ast.StructDecl{
		Ident: ast.NewIdentifier("S"),
		Members: []ast.StructMember{
			{Ident: ast.NewIdentifier("a"), TypeDen: xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))},
			{Ident: ast.NewIdentifier("b"), TypeDen: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 3))},
		},
	}
	sl := StructLayoutOf(sd)
	if sl.Fields[0].Offset != 0 {
		t.Errorf("expected field a at offset 0, got %d", sl.Fields[0].Offset)
	}
	if sl.Fields[1].Offset != 16 {
		t.Errorf("expected field b padded to offset 16 (vec3 aligns to 16), got %d", sl.Fields[1].Offset)
	}
	if sl.Size != 32 {
		t.Errorf("expected struct size rounded up to 32, got %d", sl.Size)
	}
}

func TestReflectExposesUniformBufferAndEntryPoint(t *testing.T) {
	p := ast.NewProgram()
	p.Stage = ast.StageVertex
	p.UniformBuffer = &ast.UniformBufferDecl{
		Ident: ast.NewIdentifier("xsp_UniformBlock"),
		Members: []*ast.VarDecl{
			{Ident: ast.NewIdentifier("viewProj"), TypeDen: xtype.NewBase(xtype.DataType{Component: xtype.ComponentFloat, Rows: 4, Cols: 4})},
		},
	}
	fn := &ast.FunctionDecl{Ident: ast.NewIdentifier("main")}
	p.EntryPointRef = fn

	r := Reflect(p)
	if r.UniformBuffer == nil || len(r.UniformBuffer.Fields) != 1 {
		t.Fatalf("expected a one-field uniform buffer layout, got %+v", r.UniformBuffer)
	}
	if r.EntryPoint == nil || r.EntryPoint.Stage != "vertex" {
		t.Fatalf("expected a vertex-stage entry point, got %+v", r.EntryPoint)
	}
}
