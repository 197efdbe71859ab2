// Package typeconvert implements the type converter (spec.md C9): when
// an earlier pass mutates a variable's declared type (most commonly C13
// step 1 coercing a system-value-semantic variable to its GLSL-mandated
// type), every expression whose cached type transitively depends on that
// variable is stale and must recompute. Rather than eagerly re-deriving
// every type in the tree, this pass walks in post-order and only resets
// the cache on expressions that actually sit above a reference to a
// converted symbol — the same lazy-invalidation contract internal/ast's
// typeCache documents.
//
// Grounded on spec.md §4.7's own algorithm description; the post-order
// "visit then propagate a bool upward" recursion mirrors the teacher's
// validator's checkExpr/checkBinary family, which also recurses into
// subexpressions before acting on the parent.
package typeconvert

import "github.com/xsc-go/xsc/internal/ast"

// Reset walks every global statement of p and resets the cached type of
// every expression that transitively references a symbol in converted.
func Reset(p *ast.Program, converted map[ast.Decl]bool) {
	for _, s := range p.GlobalStmts {
		resetStmt(s, converted)
	}
}

func resetStmt(s ast.Stmt, converted map[ast.Decl]bool) bool {
	if s == nil {
		return false
	}
	any := false
	switch n := s.(type) {
	case *ast.CodeBlockStmt:
		for _, c := range n.Stmts {
			any = resetStmt(c, converted) || any
		}
	case *ast.ForStmt:
		any = resetStmt(n.Init, converted) || any
		any = resetExpr(n.Condition, converted) || any
		any = resetExpr(n.Iteration, converted) || any
		any = resetStmt(n.Body, converted) || any
	case *ast.WhileStmt:
		any = resetExpr(n.Condition, converted) || any
		any = resetStmt(n.Body, converted) || any
	case *ast.DoWhileStmt:
		any = resetStmt(n.Body, converted) || any
		any = resetExpr(n.Condition, converted) || any
	case *ast.IfStmt:
		any = resetExpr(n.Condition, converted) || any
		any = resetStmt(n.Body, converted) || any
		if n.Else != nil {
			any = resetStmt(n.Else, converted) || any
		}
	case *ast.ElseStmt:
		any = resetStmt(n.Body, converted) || any
	case *ast.SwitchStmt:
		any = resetExpr(n.Selector, converted) || any
		for _, c := range n.Cases {
			for _, sel := range c.Selectors {
				any = resetExpr(sel, converted) || any
			}
			for _, child := range c.Stmts {
				any = resetStmt(child, converted) || any
			}
		}
	case *ast.ExprStmt:
		any = resetExpr(n.Expr, converted) || any
	case *ast.ReturnStmt:
		any = resetExpr(n.Value, converted) || any
	case *ast.VarDeclStmt:
		for _, d := range n.VarDecls {
			any = resetExpr(d.Initializer, converted) || any
		}
	case *ast.BasicDeclStmt:
		any = resetDecl(n.Decl, converted) || any
	}
	return any
}

func resetDecl(d ast.Decl, converted map[ast.Decl]bool) bool {
	fn, ok := d.(*ast.FunctionDecl)
	if !ok || fn.Body == nil {
		return false
	}
	return resetStmt(fn.Body, converted)
}

// resetExpr visits e's children first, then — if any child (or e itself,
// for an ObjectExpr naming a converted symbol) needs a reset — resets e's
// own cache and reports true so the caller resets too.
func resetExpr(e ast.Expr, converted map[ast.Decl]bool) bool {
	if e == nil {
		return false
	}
	reset := false
	switch n := e.(type) {
	case *ast.ObjectExpr:
		if n.Prefix != nil {
			reset = resetExpr(n.Prefix, converted) || reset
		}
		if n.SymbolRef != nil && converted[n.SymbolRef] {
			reset = true
		}
	case *ast.SequenceExpr:
		for _, c := range n.Exprs {
			reset = resetExpr(c, converted) || reset
		}
	case *ast.TernaryExpr:
		reset = resetExpr(n.Condition, converted) || reset
		reset = resetExpr(n.True, converted) || reset
		reset = resetExpr(n.False, converted) || reset
	case *ast.BinaryExpr:
		reset = resetExpr(n.Left, converted) || reset
		reset = resetExpr(n.Right, converted) || reset
	case *ast.UnaryExpr:
		reset = resetExpr(n.Operand, converted) || reset
	case *ast.PostUnaryExpr:
		reset = resetExpr(n.Operand, converted) || reset
	case *ast.CallExpr:
		reset = resetExpr(n.Callee, converted) || reset
		for _, a := range n.Args {
			reset = resetExpr(a, converted) || reset
		}
	case *ast.BracketExpr:
		reset = resetExpr(n.Value, converted) || reset
	case *ast.AssignExpr:
		reset = resetExpr(n.Target, converted) || reset
		reset = resetExpr(n.Value, converted) || reset
	case *ast.SubscriptExpr:
		reset = resetExpr(n.Base, converted) || reset
		reset = resetExpr(n.Index, converted) || reset
	case *ast.CastExpr:
		reset = resetExpr(n.Value, converted) || reset
	case *ast.InitializerExpr:
		for _, c := range n.Elements {
			reset = resetExpr(c, converted) || reset
		}
	}
	if reset {
		e.ResetType()
	}
	return reset
}
