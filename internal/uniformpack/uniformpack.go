// Package uniformpack implements the uniform packer (spec.md C12): it
// moves loose `uniform` globals (and `uniform`-qualified entry-point
// parameters) into a single synthesized UniformBufferDecl, since GLSL has
// no equivalent of HLSL's implicit default constant buffer. The target
// buffer is created lazily, on the first variable that needs moving, and
// reused for every subsequent one.
//
// Grounded on spec.md §4.10's own algorithm description; the
// synthesized-declaration shape follows C4 (internal/astfactory), the
// same way every other pass in this pipeline builds new subtrees.
package uniformpack

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/astfactory"
	"github.com/xsc-go/xsc/internal/xtype"
)

// DefaultBufferName is the uniform buffer identifier used when the caller
// doesn't override it (spec.md §4.10: "default name xsp_cbuffer").
const DefaultBufferName = "xsp_cbuffer"

// Packer moves uniform globals into p.UniformBuffer, creating it on first
// use with the given name and binding slot.
type Packer struct {
	Name    string
	Binding int

	buffer *ast.UniformBufferDecl
}

// New constructs a Packer with the default buffer name.
func New(binding int) *Packer {
	return &Packer{Name: DefaultBufferName, Binding: binding}
}

// Run scans p.GlobalStmts for uniform-qualified VarDeclStmts and moves
// each variable's VarDecl into the packed buffer, dropping the original
// statement from p.GlobalStmts once it has been fully drained. The packed
// buffer's declaration is appended at the end of p.GlobalStmts.
func (pk *Packer) Run(p *ast.Program) {
	var kept []ast.Stmt
	for _, s := range p.GlobalStmts {
		vds, ok := s.(*ast.VarDeclStmt)
		if !ok {
			kept = append(kept, s)
			continue
		}
		var remaining []*ast.VarDecl
		for _, v := range vds.VarDecls {
			if v.IsUniform && pk.isPackable(v.TypeDen) {
				pk.pack(v)
			} else {
				remaining = append(remaining, v)
			}
		}
		if len(remaining) == 0 {
			continue // fully drained; drop the now-empty statement
		}
		vds.VarDecls = remaining
		kept = append(kept, vds)
	}
	if pk.buffer != nil {
		kept = append(kept, &ast.BasicDeclStmt{Decl: pk.buffer})
	}
	p.GlobalStmts = kept
	p.UniformBuffer = pk.buffer
}

// RunEntryPointParams moves every uniform-qualified parameter of fn into
// the packed buffer as a VarDecl and removes it from fn.Params (spec.md
// §4.10: "Do the same for entry-point parameters declared uniform").
func (pk *Packer) RunEntryPointParams(fn *ast.FunctionDecl) {
	var remaining []ast.Parameter
	for _, param := range fn.Params {
		if param.IsUniform && pk.isPackable(param.TypeDen) {
			pk.pack(&ast.VarDecl{
				Ident:    param.Ident,
				TypeDen:  param.TypeDen,
				Semantic: param.Semantic,
			})
		} else {
			remaining = append(remaining, param)
		}
	}
	fn.Params = remaining
}

func (pk *Packer) isPackable(t xtype.TypeDenoter) bool {
	switch xtype.Aliased(t).(type) {
	case *xtype.SamplerDenoter, *xtype.BufferDenoter:
		return false
	}
	return true
}

// pack strips the uniform qualifier and any initializer (uniform buffers
// cannot carry initializers, spec.md §4.10) and appends v as a member of
// the lazily-created packed buffer.
func (pk *Packer) pack(v *ast.VarDecl) {
	if pk.buffer == nil {
		pk.buffer = astfactory.MakeUniformBufferDecl(pk.Name, pk.Binding)
	}
	v.IsUniform = false
	v.Initializer = nil
	pk.buffer.Members = append(pk.buffer.Members, v)
}
