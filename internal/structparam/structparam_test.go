package structparam

import (
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

func structDenoter(s *ast.StructDecl) *xtype.StructDenoter {
	return &xtype.StructDenoter{Ident: s.Ident.OriginalName, DeclRef: s}
}

func TestPureEntryPointParamStructStaysUnflagged(t *testing.T) {
	vsOut := &ast.StructDecl{Ident: ast.NewIdentifier("VSOut")}
	entry := &ast.FunctionDecl{
		Ident:      ast.NewIdentifier("main"),
		ReturnType: structDenoter(vsOut),
	}
	entry.SetFlags(entry.GetFlags().Set(ast.FlagIsEntryPoint))

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: entry},
		&ast.BasicDeclStmt{Decl: vsOut},
	}

	Analyze(p)

	if vsOut.GetFlags().Has(ast.FlagIsNonEntryPointParam) {
		t.Errorf("a struct used only as the sole entry-point return type should stay pure")
	}
}

func TestStructWithMemberFunctionIsImpure(t *testing.T) {
	s := &ast.StructDecl{
		Ident:       ast.NewIdentifier("S"),
		MemberFuncs: []*ast.FunctionDecl{{Ident: ast.NewIdentifier("method")}},
	}
	p := ast.NewProgram()
	p.GlobalStmts = []ast.Stmt{&ast.BasicDeclStmt{Decl: s}}

	Analyze(p)

	if !s.GetFlags().Has(ast.FlagIsNonEntryPointParam) {
		t.Errorf("a struct with member functions must be flagged impure")
	}
}

func TestStructUsedAsNonEntryPointVarIsImpure(t *testing.T) {
	s := &ast.StructDecl{Ident: ast.NewIdentifier("S")}
	v := &ast.VarDecl{Ident: ast.NewIdentifier("g"), TypeDen: structDenoter(s)}

	p := ast.NewProgram()
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: s},
		&ast.VarDeclStmt{VarDecls: []*ast.VarDecl{v}},
	}

	Analyze(p)

	if !s.GetFlags().Has(ast.FlagIsNonEntryPointParam) {
		t.Errorf("a struct used as a general variable's type must be flagged impure")
	}
}

func TestImpurityPropagatesToEnclosingStruct(t *testing.T) {
	inner := &ast.StructDecl{
		Ident:       ast.NewIdentifier("Inner"),
		MemberFuncs: []*ast.FunctionDecl{{Ident: ast.NewIdentifier("m")}},
	}
	outer := &ast.StructDecl{
		Ident:   ast.NewIdentifier("Outer"),
		Members: []ast.StructMember{{Ident: ast.NewIdentifier("inner"), TypeDen: structDenoter(inner)}},
	}

	p := ast.NewProgram()
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: inner},
		&ast.BasicDeclStmt{Decl: outer},
	}

	Analyze(p)

	if !outer.GetFlags().Has(ast.FlagIsNonEntryPointParam) {
		t.Errorf("a struct embedding an impure struct must itself become impure")
	}
}

func TestStructUsedAsBufferGenericIsImpure(t *testing.T) {
	s := &ast.StructDecl{Ident: ast.NewIdentifier("S")}
	buf := &ast.BufferDecl{
		Ident:   ast.NewIdentifier("buf"),
		TypeDen: &xtype.BufferDenoter{BufferKind: xtype.BufferStructuredBuffer, Generic: structDenoter(s)},
	}

	p := ast.NewProgram()
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: s},
		&ast.BufferDeclStmt{BufferDecls: []*ast.BufferDecl{buf}},
	}

	Analyze(p)

	if !s.GetFlags().Has(ast.FlagIsNonEntryPointParam) {
		t.Errorf("a struct used as a buffer's generic must be flagged impure")
	}
}

func TestMultipleEntryPointInstancesAreImpure(t *testing.T) {
	s := &ast.StructDecl{Ident: ast.NewIdentifier("S")}
	entry := &ast.FunctionDecl{
		Ident: ast.NewIdentifier("main"),
		Params: []ast.Parameter{
			{Ident: ast.NewIdentifier("a"), TypeDen: structDenoter(s)},
			{Ident: ast.NewIdentifier("b"), TypeDen: structDenoter(s)},
		},
	}
	entry.SetFlags(entry.GetFlags().Set(ast.FlagIsEntryPoint))

	p := ast.NewProgram()
	p.EntryPointRef = entry
	p.GlobalStmts = []ast.Stmt{
		&ast.BasicDeclStmt{Decl: entry},
		&ast.BasicDeclStmt{Decl: s},
	}

	Analyze(p)

	if !s.GetFlags().Has(ast.FlagIsNonEntryPointParam) {
		t.Errorf("a struct used for two entry-point parameter instances must be impure")
	}
}
