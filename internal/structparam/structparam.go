// Package structparam implements the struct-parameter analyzer (spec.md
// C7): it determines which StructDecls are used purely as an
// entry-point's parameter/return container, and which leak out into
// general-purpose use (a member variable's type, a non-entry-point
// function's return or parameter type, a buffer's generic, or simply by
// having member functions of their own). A struct that isn't pure gets
// FlagIsNonEntryPointParam, and the flag propagates outward through any
// struct that embeds it as a member — a struct containing an impure
// struct is itself impure, since C13 can't lower it to a stage-I/O block.
//
// Grounded on the teacher's `internal/validator` two-phase shape
// (collectTypeDeclarations, then a dedicated analysis pass over the
// collected set) and on spec.md §4.5's own "guarded DFS with a visited
// set" description.
package structparam

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/walk"
	"github.com/xsc-go/xsc/internal/xtype"
)

// Analyze walks p and sets FlagIsNonEntryPointParam on every StructDecl
// that fails to be a pure entry-point parameter container, propagating
// the flag to enclosing structs.
func Analyze(p *ast.Program) {
	entryParamStructs := entryPointParamStructs(p)
	impure := make(map[*ast.StructDecl]bool)
	members := make(map[*ast.StructDecl][]*ast.StructDecl) // struct -> structs it embeds as a member

	markImpureDirect(p, entryParamStructs, impure, members)
	propagate(impure, members)

	for s := range impure {
		s.SetFlags(s.GetFlags().Set(ast.FlagIsNonEntryPointParam))
	}
}

// entryPointParamStructs collects, for each struct used as an entry-point
// parameter or return type, how many of the entry points' parameter and
// return slots use it — "used as an entry-point parameter but with multiple
// output instances" disqualifies a struct from purity (spec.md §4.5).
func entryPointParamStructs(p *ast.Program) map[*ast.StructDecl]int {
	counts := make(map[*ast.StructDecl]int)
	for _, entry := range []*ast.FunctionDecl{p.EntryPointRef, p.SecondaryEntryPointRef} {
		if entry == nil {
			continue
		}
		if s := structOf(entry.ReturnType); s != nil {
			counts[s]++
		}
		for _, param := range entry.Params {
			if s := structOf(param.TypeDen); s != nil {
				counts[s]++
			}
		}
	}
	return counts
}

func structOf(t xtype.TypeDenoter) *ast.StructDecl {
	if t == nil {
		return nil
	}
	sd, ok := xtype.Aliased(t).(*xtype.StructDenoter)
	if !ok || sd.DeclRef == nil {
		return nil
	}
	s, ok := sd.DeclRef.(*ast.StructDecl)
	if !ok {
		return nil
	}
	return s
}

func markImpureDirect(p *ast.Program, entryParamCounts map[*ast.StructDecl]int, impure map[*ast.StructDecl]bool, members map[*ast.StructDecl][]*ast.StructDecl) {
	walk.Program(p, walk.Visitor{Decl: func(d ast.Decl) bool {
		switch n := d.(type) {
		case *ast.StructDecl:
			if len(n.MemberFuncs) > 0 {
				impure[n] = true
			}
			for _, m := range n.Members {
				if sub := structOf(m.TypeDen); sub != nil {
					members[n] = append(members[n], sub)
				}
			}
			if count, isEntryParam := entryParamCounts[n]; isEntryParam && count > 1 {
				impure[n] = true
			}
		case *ast.VarDecl:
			if s := structOf(n.TypeDen); s != nil && entryParamCounts[s] == 0 {
				impure[s] = true
			}
		case *ast.FunctionDecl:
			if n.IsEntryPoint() {
				return true
			}
			if s := structOf(n.ReturnType); s != nil {
				impure[s] = true
			}
			for _, param := range n.Params {
				if s := structOf(param.TypeDen); s != nil {
					impure[s] = true
				}
			}
		case *ast.BufferDecl:
			if s := structOf(n.TypeDen.GenericOrDefault()); s != nil {
				impure[s] = true
			}
		}
		return true
	}})
}

// propagate runs a guarded DFS outward through the containment graph: any
// struct that (transitively) embeds an impure struct becomes impure too.
func propagate(impure map[*ast.StructDecl]bool, members map[*ast.StructDecl][]*ast.StructDecl) {
	visited := make(map[*ast.StructDecl]bool)
	var isImpure func(s *ast.StructDecl) bool
	isImpure = func(s *ast.StructDecl) bool {
		if visited[s] {
			return impure[s]
		}
		visited[s] = true
		if impure[s] {
			return true
		}
		for _, sub := range members[s] {
			if isImpure(sub) {
				impure[s] = true
				return true
			}
		}
		return impure[s]
	}
	for s := range members {
		isImpure(s)
	}
}
