// Package optimizer implements the optimizer (spec.md C11): opportunistic
// constant folding, dead-statement removal, and bracket reduction. Every
// rewrite is best-effort — a fold that can't be proven safe (division by
// zero, a non-constant operand, an overflow) just leaves the expression
// as-is, per spec.md §4.9's "folding is opportunistic" contract.
//
// Grounded on spec.md §4.9's own algorithm description; the constant
// evaluator's scalar-only value representation follows the teacher's
// `internal/validator` literal-checking style (switch on data-type
// component, one branch per numeric kind) rather than anything
// vector-aware, since folding non-scalar constants is explicitly
// secondary ("a literal constructor if the result is a non-scalar the
// factory can express").
package optimizer

import (
	"strconv"
	"strings"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

// Run applies constant folding, dead-statement removal and bracket
// reduction to every global statement of p, in place.
func Run(p *ast.Program) {
	p.GlobalStmts = foldStmts(p.GlobalStmts)
}

// foldStmts folds each statement, then drops NullStmt and
// now-empty CodeBlockStmt entries (spec.md §4.9 "Dead statements").
func foldStmts(stmts []ast.Stmt) []ast.Stmt {
	out := stmts[:0:0]
	for _, s := range stmts {
		s = foldStmt(s)
		if isDeadStmt(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func isDeadStmt(s ast.Stmt) bool {
	switch n := s.(type) {
	case *ast.NullStmt:
		return true
	case *ast.CodeBlockStmt:
		return len(n.Stmts) == 0
	}
	return false
}

func foldStmt(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.CodeBlockStmt:
		n.Stmts = foldStmts(n.Stmts)
	case *ast.ForStmt:
		n.Init = foldStmt(n.Init)
		n.Condition = foldExpr(n.Condition)
		n.Iteration = foldExpr(n.Iteration)
		n.Body = foldStmt(n.Body)
	case *ast.WhileStmt:
		n.Condition = foldExpr(n.Condition)
		n.Body = foldStmt(n.Body)
	case *ast.DoWhileStmt:
		n.Body = foldStmt(n.Body)
		n.Condition = foldExpr(n.Condition)
	case *ast.IfStmt:
		n.Condition = foldExpr(n.Condition)
		n.Body = foldStmt(n.Body)
		if n.Else != nil {
			n.Else = foldStmt(n.Else)
		}
	case *ast.ElseStmt:
		n.Body = foldStmt(n.Body)
	case *ast.SwitchStmt:
		n.Selector = foldExpr(n.Selector)
		for i := range n.Cases {
			for j := range n.Cases[i].Selectors {
				n.Cases[i].Selectors[j] = foldExpr(n.Cases[i].Selectors[j])
			}
			n.Cases[i].Stmts = foldStmts(n.Cases[i].Stmts)
		}
	case *ast.ExprStmt:
		n.Expr = foldExpr(n.Expr)
	case *ast.ReturnStmt:
		n.Value = foldExpr(n.Value)
	case *ast.VarDeclStmt:
		for _, d := range n.VarDecls {
			d.Initializer = foldExpr(d.Initializer)
		}
	}
	return s
}

// foldExpr folds e's children first, then tries to fold e itself, and
// finally collapses a BracketExpr wrapping another BracketExpr.
func foldExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.BinaryExpr:
		n.Left = foldExpr(n.Left)
		n.Right = foldExpr(n.Right)
		if lit, ok := tryFoldBinary(n); ok {
			return lit
		}
	case *ast.UnaryExpr:
		n.Operand = foldExpr(n.Operand)
		if lit, ok := tryFoldUnary(n); ok {
			return lit
		}
	case *ast.TernaryExpr:
		n.Condition = foldExpr(n.Condition)
		n.True = foldExpr(n.True)
		n.False = foldExpr(n.False)
		if v, ok := eval(n.Condition); ok && v.kind == kindBool {
			if v.b {
				return n.True
			}
			return n.False
		}
	case *ast.BracketExpr:
		n.Value = foldExpr(n.Value)
		if inner, ok := n.Value.(*ast.BracketExpr); ok {
			// "((x))" collapses to "(x)" (spec.md §4.9 "Bracket reduction").
			return inner
		}
	case *ast.CallExpr:
		n.Callee = foldExpr(n.Callee)
		for i, a := range n.Args {
			n.Args[i] = foldExpr(a)
		}
	case *ast.AssignExpr:
		n.Value = foldExpr(n.Value)
	case *ast.SubscriptExpr:
		n.Base = foldExpr(n.Base)
		n.Index = foldExpr(n.Index)
	case *ast.CastExpr:
		n.Value = foldExpr(n.Value)
	case *ast.InitializerExpr:
		for i, el := range n.Elements {
			n.Elements[i] = foldExpr(el)
		}
	case *ast.SequenceExpr:
		for i, el := range n.Exprs {
			n.Exprs[i] = foldExpr(el)
		}
	}
	return e
}

// ----------------------------------------------------------------------------
// Constant evaluator
// ----------------------------------------------------------------------------

type constKind uint8

const (
	kindInvalid constKind = iota
	kindBool
	kindInt
	kindFloat
)

type constValue struct {
	kind constKind
	b    bool
	i    int64
	f    float64
}

func eval(e ast.Expr) (constValue, bool) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return evalLiteral(n)
	case *ast.BracketExpr:
		return eval(n.Value)
	case *ast.UnaryExpr:
		return evalUnaryValue(n)
	case *ast.BinaryExpr:
		return evalBinaryValue(n)
	}
	return constValue{}, false
}

func evalLiteral(lit *ast.LiteralExpr) (constValue, bool) {
	text := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(lit.Text, "h"), "f"), "u")
	switch lit.Type.Component {
	case xtype.ComponentBool:
		return constValue{kind: kindBool, b: text == "true"}, true
	case xtype.ComponentInt, xtype.ComponentUInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return constValue{}, false
		}
		return constValue{kind: kindInt, i: i}, true
	case xtype.ComponentHalf, xtype.ComponentFloat, xtype.ComponentDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return constValue{}, false
		}
		return constValue{kind: kindFloat, f: f}, true
	}
	return constValue{}, false
}

func evalUnaryValue(n *ast.UnaryExpr) (constValue, bool) {
	v, ok := eval(n.Operand)
	if !ok {
		return constValue{}, false
	}
	switch n.Op {
	case ast.UnaryNeg:
		if v.kind == kindFloat {
			return constValue{kind: kindFloat, f: -v.f}, true
		}
		if v.kind == kindInt {
			return constValue{kind: kindInt, i: -v.i}, true
		}
	case ast.UnaryNot:
		if v.kind == kindBool {
			return constValue{kind: kindBool, b: !v.b}, true
		}
	case ast.UnaryBitNot:
		if v.kind == kindInt {
			return constValue{kind: kindInt, i: ^v.i}, true
		}
	}
	return constValue{}, false
}

func evalBinaryValue(n *ast.BinaryExpr) (constValue, bool) {
	l, ok := eval(n.Left)
	if !ok {
		return constValue{}, false
	}
	r, ok := eval(n.Right)
	if !ok {
		return constValue{}, false
	}
	if l.kind == kindFloat || r.kind == kindFloat {
		lf, rf := toFloat(l), toFloat(r)
		return evalFloatOp(n.Op, lf, rf)
	}
	if l.kind == kindInt && r.kind == kindInt {
		return evalIntOp(n.Op, l.i, r.i)
	}
	if l.kind == kindBool && r.kind == kindBool {
		return evalBoolOp(n.Op, l.b, r.b)
	}
	return constValue{}, false
}

func toFloat(v constValue) float64 {
	if v.kind == kindInt {
		return float64(v.i)
	}
	return v.f
}

func evalFloatOp(op ast.BinaryOp, l, r float64) (constValue, bool) {
	switch op {
	case ast.BinAdd:
		return constValue{kind: kindFloat, f: l + r}, true
	case ast.BinSub:
		return constValue{kind: kindFloat, f: l - r}, true
	case ast.BinMul:
		return constValue{kind: kindFloat, f: l * r}, true
	case ast.BinDiv:
		if r == 0 {
			return constValue{}, false
		}
		return constValue{kind: kindFloat, f: l / r}, true
	case ast.BinEq:
		return constValue{kind: kindBool, b: l == r}, true
	case ast.BinNe:
		return constValue{kind: kindBool, b: l != r}, true
	case ast.BinLt:
		return constValue{kind: kindBool, b: l < r}, true
	case ast.BinLe:
		return constValue{kind: kindBool, b: l <= r}, true
	case ast.BinGt:
		return constValue{kind: kindBool, b: l > r}, true
	case ast.BinGe:
		return constValue{kind: kindBool, b: l >= r}, true
	}
	return constValue{}, false
}

func evalIntOp(op ast.BinaryOp, l, r int64) (constValue, bool) {
	switch op {
	case ast.BinAdd:
		s := l + r
		if (r > 0 && s < l) || (r < 0 && s > l) {
			return constValue{}, false
		}
		return constValue{kind: kindInt, i: s}, true
	case ast.BinSub:
		s := l - r
		if (r < 0 && s < l) || (r > 0 && s > l) {
			return constValue{}, false
		}
		return constValue{kind: kindInt, i: s}, true
	case ast.BinMul:
		p := l * r
		if l != 0 && (p/l != r || (l == -1 && p == r && r != 0)) {
			return constValue{}, false
		}
		return constValue{kind: kindInt, i: p}, true
	case ast.BinDiv:
		if r == 0 {
			return constValue{}, false
		}
		return constValue{kind: kindInt, i: l / r}, true
	case ast.BinMod:
		if r == 0 {
			return constValue{}, false
		}
		return constValue{kind: kindInt, i: l % r}, true
	case ast.BinAnd:
		return constValue{kind: kindInt, i: l & r}, true
	case ast.BinOr:
		return constValue{kind: kindInt, i: l | r}, true
	case ast.BinXor:
		return constValue{kind: kindInt, i: l ^ r}, true
	case ast.BinLShift:
		return constValue{kind: kindInt, i: l << uint(r)}, true
	case ast.BinRShift:
		return constValue{kind: kindInt, i: l >> uint(r)}, true
	case ast.BinEq:
		return constValue{kind: kindBool, b: l == r}, true
	case ast.BinNe:
		return constValue{kind: kindBool, b: l != r}, true
	case ast.BinLt:
		return constValue{kind: kindBool, b: l < r}, true
	case ast.BinLe:
		return constValue{kind: kindBool, b: l <= r}, true
	case ast.BinGt:
		return constValue{kind: kindBool, b: l > r}, true
	case ast.BinGe:
		return constValue{kind: kindBool, b: l >= r}, true
	}
	return constValue{}, false
}

func evalBoolOp(op ast.BinaryOp, l, r bool) (constValue, bool) {
	switch op {
	case ast.BinLogicalAnd:
		return constValue{kind: kindBool, b: l && r}, true
	case ast.BinLogicalOr:
		return constValue{kind: kindBool, b: l || r}, true
	case ast.BinEq:
		return constValue{kind: kindBool, b: l == r}, true
	case ast.BinNe:
		return constValue{kind: kindBool, b: l != r}, true
	}
	return constValue{}, false
}

func tryFoldBinary(n *ast.BinaryExpr) (ast.Expr, bool) {
	v, ok := evalBinaryValue(n)
	if !ok {
		return nil, false
	}
	return literalFromValue(v), true
}

func tryFoldUnary(n *ast.UnaryExpr) (ast.Expr, bool) {
	v, ok := evalUnaryValue(n)
	if !ok {
		return nil, false
	}
	return literalFromValue(v), true
}

func literalFromValue(v constValue) *ast.LiteralExpr {
	switch v.kind {
	case kindBool:
		text := "false"
		if v.b {
			text = "true"
		}
		return &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentBool), Text: text}
	case kindInt:
		return &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentInt), Text: strconv.FormatInt(v.i, 10)}
	default:
		return &ast.LiteralExpr{Type: xtype.Scalar(xtype.ComponentFloat), Text: strconv.FormatFloat(v.f, 'g', -1, 64)}
	}
}
