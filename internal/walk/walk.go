// Package walk provides the generic recursive-descent tree walker shared
// by every analysis and rewrite pass (spec.md C5): reference analysis
// (C6), struct-parameter analysis (C7), expression conversion (C8), and
// the GLSL-specific pass (C13) all need to visit every statement and
// expression in a function body or global scope and most only care about
// a handful of node kinds, so this package does the type-switch dispatch
// once and lets callers plug in only the hooks they need.
//
// Grounded on the teacher's `internal/validator`/`internal/dce`
// recursive-descent shape (a type switch per node kind, called
// recursively from dedicated per-kind functions) generalized into
// reusable Visitor callbacks instead of one hand-written switch per pass.
package walk

import "github.com/xsc-go/xsc/internal/ast"

// ExprVisitor is called for every expression node, pre-order: before its
// children have been visited. Returning false skips visiting this
// expression's children (a pass that already knows it doesn't need to
// recurse further, e.g. it only inspects call sites, can prune early).
type ExprVisitor func(e ast.Expr) (recurse bool)

// StmtVisitor is called for every statement node, pre-order.
type StmtVisitor func(s ast.Stmt) (recurse bool)

// DeclVisitor is called for every declaration reachable from a program's
// global statement list.
type DeclVisitor func(d ast.Decl) (recurse bool)

// Visitor bundles the three node-kind hooks a pass needs; any may be nil.
type Visitor struct {
	Expr ExprVisitor
	Stmt StmtVisitor
	Decl DeclVisitor
}

// Program walks every global statement of p.
func Program(p *ast.Program, v Visitor) {
	for _, s := range p.GlobalStmts {
		Stmt(s, v)
	}
}

// Stmt recursively walks s and its children.
func Stmt(s ast.Stmt, v Visitor) {
	if s == nil {
		return
	}
	if v.Stmt != nil && !v.Stmt(s) {
		return
	}
	switch n := s.(type) {
	case *ast.CodeBlockStmt:
		for _, child := range n.Stmts {
			Stmt(child, v)
		}
	case *ast.ForStmt:
		Stmt(n.Init, v)
		Expr(n.Condition, v)
		Expr(n.Iteration, v)
		Stmt(n.Body, v)
	case *ast.WhileStmt:
		Expr(n.Condition, v)
		Stmt(n.Body, v)
	case *ast.DoWhileStmt:
		Stmt(n.Body, v)
		Expr(n.Condition, v)
	case *ast.IfStmt:
		Expr(n.Condition, v)
		Stmt(n.Body, v)
		if n.Else != nil {
			Stmt(n.Else, v)
		}
	case *ast.ElseStmt:
		Stmt(n.Body, v)
	case *ast.SwitchStmt:
		Expr(n.Selector, v)
		for _, c := range n.Cases {
			for _, sel := range c.Selectors {
				Expr(sel, v)
			}
			for _, child := range c.Stmts {
				Stmt(child, v)
			}
		}
	case *ast.ExprStmt:
		Expr(n.Expr, v)
	case *ast.ReturnStmt:
		Expr(n.Value, v)
	case *ast.VarDeclStmt:
		for _, decl := range n.VarDecls {
			Decl(decl, v)
		}
	case *ast.BufferDeclStmt:
		for _, decl := range n.BufferDecls {
			Decl(decl, v)
		}
	case *ast.SamplerDeclStmt:
		for _, decl := range n.SamplerDecls {
			Decl(decl, v)
		}
	case *ast.AliasDeclStmt:
		for _, decl := range n.AliasDecls {
			Decl(decl, v)
		}
	case *ast.BasicDeclStmt:
		Decl(n.Decl, v)
	}
}

// Expr recursively walks e and its children.
func Expr(e ast.Expr, v Visitor) {
	if e == nil {
		return
	}
	if v.Expr != nil && !v.Expr(e) {
		return
	}
	switch n := e.(type) {
	case *ast.SequenceExpr:
		for _, child := range n.Exprs {
			Expr(child, v)
		}
	case *ast.TernaryExpr:
		Expr(n.Condition, v)
		Expr(n.True, v)
		Expr(n.False, v)
	case *ast.BinaryExpr:
		Expr(n.Left, v)
		Expr(n.Right, v)
	case *ast.UnaryExpr:
		Expr(n.Operand, v)
	case *ast.PostUnaryExpr:
		Expr(n.Operand, v)
	case *ast.CallExpr:
		Expr(n.Callee, v)
		for _, a := range n.Args {
			Expr(a, v)
		}
	case *ast.BracketExpr:
		Expr(n.Value, v)
	case *ast.ObjectExpr:
		Expr(n.Prefix, v)
	case *ast.AssignExpr:
		Expr(n.Target, v)
		Expr(n.Value, v)
	case *ast.SubscriptExpr:
		Expr(n.Base, v)
		Expr(n.Index, v)
	case *ast.CastExpr:
		Expr(n.Value, v)
	case *ast.InitializerExpr:
		for _, child := range n.Elements {
			Expr(child, v)
		}
	}
}

// Decl visits d itself, then recurses into the parts of d that contain
// statements or expressions (a function body's statements, a variable's
// initializer).
func Decl(d ast.Decl, v Visitor) {
	if d == nil {
		return
	}
	if v.Decl != nil && !v.Decl(d) {
		return
	}
	switch n := d.(type) {
	case *ast.VarDecl:
		Expr(n.Initializer, v)
	case *ast.FunctionDecl:
		if n.Body != nil {
			Stmt(n.Body, v)
		}
	case *ast.StructDecl:
		for _, m := range n.MemberFuncs {
			Decl(m, v)
		}
	case *ast.UniformBufferDecl:
		for _, m := range n.Members {
			Decl(m, v)
		}
	}
}
