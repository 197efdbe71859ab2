// Package layout computes std140 size/alignment/offset information for a
// converted Program's uniform buffer and exposes a read-only reflection
// dump of its external interface (uniform buffer layout, input/output
// variable table, entry point metadata) — spec.md §4.12/§6's "describe
// this program's interface" query.
//
// Grounded on the teacher's internal/reflect (ReflectResult/StructLayout/
// FieldInfo query shape, layout.go's size/alignment table), adapted from
// WGSL's layout rules to GLSL's std140 rules (vec3 aligns to 16, not to
// "align of vec4 rounded from 12", matrices as column arrays) and from
// WGSL AST/parser input to this module's xtype.DataType/ast.Program.
package layout

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

// TypeLayout holds size/alignment/stride in bytes for one scalar, vector,
// matrix, or array type under std140 packing rules (the layout GLSL's
// `layout(std140)` uniform blocks use).
type TypeLayout struct {
	Size      int
	Alignment int
	Stride    int // element stride, non-zero only for arrays
}

// componentSize is every base component's size in bytes (std140 treats
// GLSL's bool/int/uint/float uniformly as 4-byte scalars).
func componentSize(c xtype.BaseComponent) int {
	switch c {
	case xtype.ComponentBool, xtype.ComponentInt, xtype.ComponentFloat:
		return 4
	default:
		return 4
	}
}

// ComputeLayout returns the std140 layout for t. Struct layouts are
// computed recursively via StructLayoutOf; the result for a StructDenoter
// is that struct's own {Size, Alignment}.
func ComputeLayout(t xtype.TypeDenoter) TypeLayout {
	switch d := xtype.Aliased(t).(type) {
	case *xtype.BaseDenoter:
		return baseLayout(d.Type)
	case *xtype.ArrayDenoter:
		return arrayLayout(d)
	case *xtype.StructDenoter:
		if sd, ok := d.DeclRef.(*ast.StructDecl); ok {
			sl := StructLayoutOf(sd)
			return TypeLayout{Size: sl.Size, Alignment: sl.Alignment}
		}
	}
	return TypeLayout{Size: 0, Alignment: 0}
}

// baseLayout implements std140 §7.6.2.2's scalar/vector/matrix rules: a
// vec3 always aligns as a vec4 (size 12, align 16); a matCxR is laid out
// as C columns of vecR, each column padded to vec4 alignment.
func baseLayout(t xtype.DataType) TypeLayout {
	elem := componentSize(t.Component)
	if t.Rows == 1 && t.Cols == 1 {
		return TypeLayout{Size: elem, Alignment: elem}
	}
	if t.Rows == 1 {
		return vecLayout(t.Cols, elem)
	}
	// Matrix: Rows x Cols, column-major, each column its own vecRows.
	col := vecLayout(t.Rows, elem)
	colStride := roundUp(col.Size, 16)
	return TypeLayout{Size: t.Cols * colStride, Alignment: 16}
}

func vecLayout(n, elemSize int) TypeLayout {
	switch n {
	case 2:
		return TypeLayout{Size: elemSize * 2, Alignment: elemSize * 2}
	case 3:
		return TypeLayout{Size: elemSize * 3, Alignment: elemSize * 4}
	case 4:
		return TypeLayout{Size: elemSize * 4, Alignment: elemSize * 4}
	default:
		return TypeLayout{Size: elemSize, Alignment: elemSize}
	}
}

// arrayLayout implements std140's rule that every array element is padded
// to a 16-byte stride, regardless of the element's own alignment.
func arrayLayout(a *xtype.ArrayDenoter) TypeLayout {
	elem := ComputeLayout(a.Sub)
	stride := roundUp(elem.Size, 16)
	count := 1
	for _, dim := range a.Dims {
		if dim.Size > 0 {
			count *= dim.Size
		}
	}
	return TypeLayout{Size: stride * count, Alignment: 16, Stride: stride}
}

func roundUp(x, align int) int {
	if align == 0 {
		return x
	}
	return ((x + align - 1) / align) * align
}
