// Package refanalysis marks every declaration transitively reachable
// from a program's entry point(s) (spec.md C6). Unlike the teacher's
// dead-code pass, which walks a flat symbol-index dependency graph built
// up front, this package exploits the fact that the AST already carries
// direct non-owning back-references (ObjectExpr.SymbolRef,
// CallExpr.FuncRef) — so reachability is a straightforward depth-first
// walk from the entry point(s) that marks FlagIsReachable and recurses
// into every newly-discovered declaration's initializer or body, with a
// visited set to stop at cycles (mutually recursive functions, a struct
// referencing itself through a member function). Alongside reachability,
// the same walk performs spec.md §4.4 step 1's other bookkeeping: call-path
// tracking that reports a RecursiveCall diagnostic the moment a function
// calls back into one of its own callers, recording every intrinsic's
// observed argument-type signatures, flagging RW buffers read through a
// Load/Interlocked intrinsic, and step 3's `isWrittenTo` marking on every
// variable reached through an assignment target, `++`/`--` operand, or
// `inout` call argument.
//
// Grounded on the teacher's `internal/dce` (Mark/buildDependencyGraph/
// markLive): same two-phase shape (find entry points, then flood-fill
// reachability from them) adapted from an index-keyed graph to a
// pointer-keyed one; the call-path stack is grounded on the same package's
// recursive-call detection, which this package generalizes from a
// symbol-index visited-set to a pointer-keyed one.
package refanalysis

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/report"
	"github.com/xsc-go/xsc/internal/walk"
	"github.com/xsc-go/xsc/internal/xtype"
)

// markState carries the bookkeeping a single Mark run threads through its
// recursive descent: which decls have already been fully processed, which
// functions are on the current call path (for recursive-call detection),
// the program being analyzed (so intrinsic usage can be recorded against
// it), and the diagnostic list recursive calls are reported to.
type markState struct {
	program *ast.Program
	visited map[ast.Decl]bool
	onStack map[*ast.FunctionDecl]bool
	reports *report.List
}

// Mark walks p from its entry point (and, for tessellation stages, its
// secondary entry point) and sets FlagIsReachable on every transitively
// used declaration, plus the usedIntrinsics/image-read/isWrittenTo
// bookkeeping spec.md §4.4 describes. It returns the set of declarations
// marked dead (not reached) among the declarations walk.Program visits
// from p.GlobalStmts (top-level ones and those nested inside them, such as
// the locals of an unreached function), so a later pass can fold them into
// Program.disabled
// (spec.md §3 "Lifecycle"), and the diagnostic list any recursive-call
// reports were appended to.
func Mark(p *ast.Program) ([]ast.Decl, *report.List) {
	st := &markState{
		program: p,
		visited: make(map[ast.Decl]bool),
		onStack: make(map[*ast.FunctionDecl]bool),
		reports: report.NewList(""),
	}

	if p.EntryPointRef != nil {
		st.markDecl(p.EntryPointRef)
	}
	if p.SecondaryEntryPointRef != nil {
		st.markDecl(p.SecondaryEntryPointRef)
	}

	var dead []ast.Decl
	walk.Program(p, walk.Visitor{Decl: func(d ast.Decl) bool {
		if !st.visited[d] {
			dead = append(dead, d)
		}
		return true
	}})
	return dead, st.reports
}

// markDecl marks d reachable and, the first time it's seen, recurses into
// whatever subtree d owns that can itself reference other declarations.
func (st *markState) markDecl(d ast.Decl) {
	if d == nil || st.visited[d] {
		return
	}
	st.visited[d] = true
	d.SetFlags(d.GetFlags().Set(ast.FlagIsReachable))

	switch n := d.(type) {
	case *ast.VarDecl:
		st.markExpr(n.Initializer)
		st.markTypeDecl(n.TypeDen)
	case *ast.BufferDecl:
		st.markTypeDecl(n.TypeDen)
	case *ast.FunctionDecl:
		for _, p := range n.Params {
			st.markTypeDecl(p.TypeDen)
		}
		st.markTypeDecl(n.ReturnType)
		if n.Body != nil {
			// n is on the call path for the duration of its own body: a
			// CallExpr encountered while walking it whose FuncRef is still
			// on the stack is a self- or mutually-recursive call.
			st.onStack[n] = true
			st.markStmt(n.Body)
			delete(st.onStack, n)
		}
		if n.StructOwnerRef != nil {
			st.markDecl(n.StructOwnerRef)
		}
	case *ast.StructDecl:
		for _, m := range n.Members {
			st.markTypeDecl(m.TypeDen)
		}
		for _, mf := range n.MemberFuncs {
			st.markDecl(mf)
		}
		if n.BaseStructRef != nil {
			st.markDecl(n.BaseStructRef)
		}
	case *ast.UniformBufferDecl:
		for _, m := range n.Members {
			st.markDecl(m)
		}
	case *ast.AliasDecl:
		st.markTypeDecl(n.TypeDen)
	}
}

// markTypeDecl follows a type denoter to the declaration it names (a
// struct, alias or buffer referenced only through a type position) so an
// unreferenced-in-code-but-used-as-a-type struct stays reachable.
func (st *markState) markTypeDecl(t xtype.TypeDenoter) {
	if t == nil {
		return
	}
	var ref xtype.Named
	switch n := t.(type) {
	case *xtype.StructDenoter:
		ref = n.DeclRef
	case *xtype.AliasDenoter:
		ref = n.DeclRef
		st.markTypeDecl(n.Aliased)
	case *xtype.BufferDenoter:
		ref = n.DeclRef
		st.markTypeDecl(n.GenericOrDefault())
	case *xtype.ArrayDenoter:
		st.markTypeDecl(n.Sub)
		return
	}
	if d, ok := ref.(ast.Decl); ok {
		st.markDecl(d)
	}
}

func (st *markState) markStmt(s ast.Stmt) {
	walk.Stmt(s, walk.Visitor{
		Expr: func(e ast.Expr) bool { st.markExpr(e); return false },
		Decl: func(d ast.Decl) bool { st.markDecl(d); return false },
	})
}

func (st *markState) markExpr(e ast.Expr) {
	walk.Expr(e, walk.Visitor{Expr: func(e ast.Expr) bool {
		switch n := e.(type) {
		case *ast.ObjectExpr:
			if n.SymbolRef != nil {
				st.markDecl(n.SymbolRef)
			}
		case *ast.CallExpr:
			st.markCall(n)
		case *ast.AssignExpr:
			st.markWrite(n.Target)
		case *ast.PostUnaryExpr:
			st.markWrite(n.Operand)
		}
		return true
	}})
}

// markCall handles a CallExpr's three C6 responsibilities beyond plain
// reachability: recursive-call detection against the current call-path
// stack, recording the intrinsic's observed argument-type signature, and
// flagging an RW buffer read through Load/Interlocked as image-read.
func (st *markState) markCall(n *ast.CallExpr) {
	if n.Intrinsic != ast.IntrinsicNone {
		st.program.RecordIntrinsicUsage(n.Intrinsic, argTypeSignature(n.Args))
		if (n.Intrinsic.IsImageLoad() || n.Intrinsic.IsAtomicOnImage()) && len(n.Args) > 0 {
			if buf := bufferRefOf(n.Args[0]); buf != nil {
				buf.SetFlags(buf.GetFlags().Set(ast.FlagIsReadForImage))
			}
		}
	}

	if n.FuncRef != nil {
		if st.onStack[n.FuncRef] {
			st.reports.AddRecursiveCall(n.FuncRef, n.Area())
		} else {
			st.markDecl(n.FuncRef)
		}
		for i, arg := range n.Args {
			if i < len(n.FuncRef.Params) && n.FuncRef.Params[i].IsInOut {
				st.markWrite(arg)
			}
		}
	}
}

// markWrite marks the variable an l-value expression ultimately names as
// written-to (spec.md §4.4 step 3), following through subscript/bracket
// wrappers (`arr[i] = ...` writes through to `arr`) to the root identifier.
func (st *markState) markWrite(e ast.Expr) {
	switch n := e.(type) {
	case *ast.ObjectExpr:
		root := n.Root()
		if root.SymbolRef != nil {
			root.SymbolRef.SetFlags(root.SymbolRef.GetFlags().Set(ast.FlagIsWrittenTo))
		}
	case *ast.SubscriptExpr:
		st.markWrite(n.Base)
	case *ast.BracketExpr:
		st.markWrite(n.Value)
	}
}

// bufferRefOf returns the BufferDecl e resolves to, following a bracketed
// sub-expression, or nil if e doesn't name a buffer directly.
func bufferRefOf(e ast.Expr) *ast.BufferDecl {
	switch n := e.(type) {
	case *ast.ObjectExpr:
		if buf, ok := n.SymbolRef.(*ast.BufferDecl); ok {
			return buf
		}
	case *ast.BracketExpr:
		return bufferRefOf(n.Value)
	}
	return nil
}

// argTypeSignature renders each argument's type denoter to a string,
// falling back to "?" for an argument whose type can't yet be resolved.
func argTypeSignature(args []ast.Expr) []string {
	sig := make([]string, len(args))
	for i, a := range args {
		t, err := a.TypeDenoter()
		if err != nil || t == nil {
			sig[i] = "?"
			continue
		}
		sig[i] = t.String()
	}
	return sig
}
