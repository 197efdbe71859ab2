// Package funcname implements the function-name converter (spec.md C10):
// it lowers member functions to free functions by mangling their name
// with their owning struct, then disambiguates any resulting name
// collisions between functions that turn out to have equal signatures.
//
// Grounded on the teacher's `internal/renamer` bucketing style (group
// symbols, then assign distinct names within a bucket) adapted from a
// frequency-ordered minifier renamer to a signature-equality
// disambiguator.
package funcname

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

// LowerMemberFunctions renames every function owned by a struct to
// "<namespacePrefix><Struct>_<funcName>" (spec.md §4.8 step 1). Only the
// identifier changes: StructOwnerRef is left set.
func LowerMemberFunctions(funcs []*ast.FunctionDecl, namespacePrefix string) {
	for _, fn := range funcs {
		if fn.StructOwnerRef == nil {
			continue
		}
		mangled := namespacePrefix + fn.StructOwnerRef.Ident.OriginalName + "_" + fn.Ident.OriginalName
		fn.Ident.RenameTo(mangled)
	}
}

// SignatureEqual reports whether a and b are equal signatures for the
// purpose of disambiguation: same parameter count, each parameter type
// equal (buffers compared ignoring their generic sub-type, spec.md §4.8
// step 2 "the GLSL implementation ignores generic sub-types on
// buffers"), and equal return type.
func SignatureEqual(a, b *ast.FunctionDecl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !typeEqualIgnoringBufferGeneric(a.Params[i].TypeDen, b.Params[i].TypeDen) {
			return false
		}
	}
	return typeEqualIgnoringBufferGeneric(a.ReturnType, b.ReturnType)
}

func typeEqualIgnoringBufferGeneric(a, b xtype.TypeDenoter) bool {
	if a == nil || b == nil {
		return a == b
	}
	if ab, ok := xtype.Aliased(a).(*xtype.BufferDenoter); ok {
		return ab.EqualsOpt(b, true)
	}
	return a.Equals(b)
}

// Disambiguate buckets funcs by their current rendered identifier and, for
// any bucket containing more than one function, pairwise compares
// signatures with equal. Every function found equal to an
// already-processed one in its bucket gets a unique "_<n>" suffix,
// counted per bucket (spec.md §4.8 step 2).
func Disambiguate(funcs []*ast.FunctionDecl, equal func(a, b *ast.FunctionDecl) bool) {
	buckets := make(map[string][]*ast.FunctionDecl)
	for _, fn := range funcs {
		name := fn.Ident.Rendered()
		buckets[name] = append(buckets[name], fn)
	}

	for _, bucket := range buckets {
		if len(bucket) < 2 {
			continue
		}
		counter := 0
		seen := make([]*ast.FunctionDecl, 0, len(bucket))
		for _, fn := range bucket {
			collided := false
			for _, prior := range seen {
				if equal(fn, prior) {
					collided = true
					break
				}
			}
			seen = append(seen, fn)
			if collided {
				fn.Ident.RenameTo(fn.Ident.Rendered() + "_" + itoa(counter))
				counter++
			}
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
