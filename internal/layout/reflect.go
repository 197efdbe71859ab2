package layout

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

// FieldInfo describes one member of a uniform-buffer or struct layout,
// mirroring the teacher's reflect.FieldInfo shape.
type FieldInfo struct {
	Name      string
	Type      string
	Offset    int
	Size      int
	Alignment int
}

// StructLayout describes the full std140 layout of a struct: total size,
// outer alignment, and every member's offset within it.
type StructLayout struct {
	Size      int
	Alignment int
	Fields    []FieldInfo
}

// StructLayoutOf walks sd's members in declaration order, assigning each
// the next std140-aligned offset (teacher's LayoutComputer.computeStructLayout,
// adapted from WGSL's struct rule to this module's xtype.DataType).
func StructLayoutOf(sd *ast.StructDecl) StructLayout {
	var fields []FieldInfo
	offset := 0
	maxAlign := 0
	for _, m := range sd.Members {
		fl := ComputeLayout(m.TypeDen)
		if fl.Alignment == 0 {
			fl.Alignment = 4
		}
		offset = roundUp(offset, fl.Alignment)
		fields = append(fields, FieldInfo{
			Name:      m.Ident.OriginalName,
			Type:      m.TypeDen.String(),
			Offset:    offset,
			Size:      fl.Size,
			Alignment: fl.Alignment,
		})
		offset += fl.Size
		if fl.Alignment > maxAlign {
			maxAlign = fl.Alignment
		}
	}
	if maxAlign == 0 {
		maxAlign = 4
	}
	return StructLayout{Size: roundUp(offset, maxAlign), Alignment: maxAlign, Fields: fields}
}

// InterfaceVar describes one entry-point-facing in/out variable, as C13's
// wrapEntryPoint declares it (a semantic-bound global).
type InterfaceVar struct {
	Name string
	Type string
}

// EntryPointInfo mirrors the teacher's EntryPointInfo, trimmed to this
// domain's stage/workgroup-size fields.
type EntryPointInfo struct {
	Name          string
	Stage         string
	WorkgroupSize [3]int // zero unless Stage == "compute"
}

// ProgramReflection is the read-only external-interface description
// spec.md §4.12/§6 asks for: the packed uniform buffer's layout plus the
// converted program's input/output variable table and entry point.
type ProgramReflection struct {
	UniformBuffer *StructLayout
	Inputs        []InterfaceVar
	Outputs       []InterfaceVar
	EntryPoint    *EntryPointInfo
}

func stageName(s ast.ShaderStage) string {
	switch s {
	case ast.StageVertex:
		return "vertex"
	case ast.StageFragment:
		return "fragment"
	default:
		return "compute"
	}
}

// Reflect builds a ProgramReflection for p, meant to run after C13's
// Driver.Run has packed uniforms and wrapped the entry point, so the
// global variable list already reflects the converted interface.
func Reflect(p *ast.Program) ProgramReflection {
	var r ProgramReflection

	if p.UniformBuffer != nil {
		sd := &ast.StructDecl{Ident: p.UniformBuffer.Ident}
		for _, m := range p.UniformBuffer.Members {
			sd.Members = append(sd.Members, ast.StructMember{Ident: m.Ident, TypeDen: m.TypeDen})
		}
		sl := StructLayoutOf(sd)
		r.UniformBuffer = &sl
	}

	for _, s := range p.GlobalStmts {
		vds, ok := s.(*ast.VarDeclStmt)
		if !ok {
			continue
		}
		for _, v := range vds.VarDecls {
			if v.GetFlags().Has(ast.FlagIsShaderInput) {
				r.Inputs = append(r.Inputs, InterfaceVar{Name: v.Ident.OriginalName, Type: typeName(v.TypeDen)})
			}
			if v.GetFlags().Has(ast.FlagIsShaderOutput) {
				r.Outputs = append(r.Outputs, InterfaceVar{Name: v.Ident.OriginalName, Type: typeName(v.TypeDen)})
			}
		}
	}

	if p.EntryPointRef != nil {
		info := &EntryPointInfo{Name: p.EntryPointRef.Ident.Rendered(), Stage: stageName(p.Stage)}
		if p.Stage == ast.StageCompute {
			info.WorkgroupSize = [3]int{p.ComputeLayout.LocalSizeX, p.ComputeLayout.LocalSizeY, p.ComputeLayout.LocalSizeZ}
		}
		r.EntryPoint = info
	}

	return r
}

func typeName(t xtype.TypeDenoter) string {
	if t == nil {
		return ""
	}
	return t.String()
}
