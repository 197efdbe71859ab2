// Package astfactory builds well-formed synthetic AST subtrees (spec.md
// C4). Every rewrite pass that needs to introduce a cast, a call to an
// intrinsic or a temporary variable goes through here instead of
// allocating node literals by hand, so every synthetic node's type denoter
// is correct on first query. No constructor here takes a source area: every
// node built here keeps the zero area, ast.IgnoreSourceArea.
//
// Grounded on teacher's `internal/ast` constructor-helper style (small,
// single-purpose `New*` functions returning a ready-to-use node) and on
// spec.md §4.2's catalogue of required constructors.
package astfactory

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/xtype"
)

// MakeLiteralExpr builds a literal of the given data type and source text.
func MakeLiteralExpr(dt xtype.DataType, text string) *ast.LiteralExpr {
	return &ast.LiteralExpr{Type: dt, Text: text}
}

// MakeLiteralExprOrNull builds a literal from a constant Go value, or
// returns nil when the value has no direct literal representation (a NaN
// or infinite float64 the target dialect can't spell, or a value that is
// not a bool, int or float64) — spec.md §4.2. dt is stored as given and is
// not checked against the value.
func MakeLiteralExprOrNull(dt xtype.DataType, value interface{}) *ast.LiteralExpr {
	switch v := value.(type) {
	case bool:
		if v {
			return MakeLiteralExpr(dt, "true")
		}
		return MakeLiteralExpr(dt, "false")
	case int:
		return MakeLiteralExpr(dt, itoa(v))
	case float64:
		if v != v || v-v != 0 { // NaN, or +/-Inf (Inf-Inf is NaN)
			return nil
		}
		return MakeLiteralExpr(dt, ftoa(v))
	default:
		return nil
	}
}

// MakeCastExpr wraps value in an explicit cast to typeDen.
func MakeCastExpr(typeDen xtype.TypeDenoter, value ast.Expr) *ast.CastExpr {
	return &ast.CastExpr{Target: typeDen, Value: value}
}

// MakeIntrinsicCallExpr builds a call to a built-in intrinsic.
func MakeIntrinsicCallExpr(intrinsic ast.Intrinsic, resultTy xtype.TypeDenoter, args []ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Intrinsic: intrinsic, ResultTy: resultTy, Args: args}
}

// MakeWrapperCallExpr builds a call to a named free function (a generated
// wrapper, e.g. a matrix-subscript gather function) with a known result
// type — used when the callee isn't resolved to a *FunctionDecl yet.
func MakeWrapperCallExpr(ident string, resultTy xtype.TypeDenoter, args []ast.Expr) *ast.CallExpr {
	callee := &ast.ObjectExpr{Ident: ident}
	return &ast.CallExpr{Callee: callee, ResultTy: resultTy, Args: args}
}

// MakeObjectExpr builds an identifier expression bound to a resolved
// declaration.
func MakeObjectExpr(ident string, symbolRef ast.Decl) *ast.ObjectExpr {
	e := &ast.ObjectExpr{Ident: ident, SymbolRef: symbolRef}
	return e
}

// MakeConstructorListExpr duplicates a scalar literal into a struct's
// member shape: `S(v)` where every member of memberTypeDens receives a copy
// of literal's value cast to that member's type (spec.md §4.2).
func MakeConstructorListExpr(literal ast.Expr, memberTypeDens []xtype.TypeDenoter) *ast.CallExpr {
	args := make([]ast.Expr, len(memberTypeDens))
	for i, mt := range memberTypeDens {
		args[i] = MakeCastExpr(mt, literal)
	}
	return &ast.CallExpr{Args: args}
}

// MakeArrayAssignStmt builds `varDecl[indices...] = value;` — used by
// array-initializer unrolling (spec.md §4.11 step 5).
func MakeArrayAssignStmt(varDecl *ast.VarDecl, indices []int, value ast.Expr) *ast.ExprStmt {
	var target ast.Expr = MakeObjectExpr(varDecl.Ident.OriginalName, varDecl)
	for _, idx := range indices {
		target = &ast.SubscriptExpr{
			Base:  target,
			Index: MakeLiteralExpr(xtype.Scalar(xtype.ComponentInt), itoa(idx)),
		}
	}
	assign := &ast.AssignExpr{Target: target, Op: ast.AssignSet, Value: value}
	return &ast.ExprStmt{Expr: assign}
}

// MakeArrayDimension builds a single fixed-size array dimension.
func MakeArrayDimension(size int) xtype.ArrayDim { return xtype.ArrayDim{Size: size} }

// MakeUniformBufferDecl builds an (initially empty) uniform-buffer block.
func MakeUniformBufferDecl(ident string, binding int) *ast.UniformBufferDecl {
	return &ast.UniformBufferDecl{
		Ident:      ast.NewIdentifier(ident),
		Binding:    binding,
		HasBinding: true,
	}
}

// MakeTypeSpecifier wraps typeDen as an expression (a constructor-call
// target or a cast target spelled out in source).
func MakeTypeSpecifier(typeDen xtype.TypeDenoter) *ast.TypeSpecifierExpr {
	return &ast.TypeSpecifierExpr{TypeDen: typeDen}
}

// MakeVarDeclStmt builds a one-variable VarDeclStmt, wiring the
// DeclStmtRef back-reference spec.md §3 requires.
func MakeVarDeclStmt(typeDen xtype.TypeDenoter, ident string, init ast.Expr) *ast.VarDeclStmt {
	decl := &ast.VarDecl{
		Ident:       ast.NewIdentifier(ident),
		TypeDen:     typeDen,
		Initializer: init,
	}
	stmt := &ast.VarDeclStmt{VarDecls: []*ast.VarDecl{decl}}
	decl.DeclStmtRef = stmt
	return stmt
}

// MakeScopeStmt wraps a single statement in a braced CodeBlockStmt, unless
// it already is one.
func MakeScopeStmt(single ast.Stmt) *ast.CodeBlockStmt {
	if block, ok := single.(*ast.CodeBlockStmt); ok {
		return block
	}
	return &ast.CodeBlockStmt{Stmts: []ast.Stmt{single}}
}

// MakeInitializerExpr builds a brace-initializer-list expression.
func MakeInitializerExpr(exprs []ast.Expr) *ast.InitializerExpr {
	return &ast.InitializerExpr{Elements: exprs}
}

// MakeTempVarDeclStmt declares a compiler-generated temporary initialized
// to value, returning both the statement (to insert before the use site)
// and an ObjectExpr referring to it (to substitute at the use site) — the
// standard shape for hoisting a side-effecting subexpression (spec.md §9
// open question 1, ConvertImageAccess compound-assignment hoisting, and
// the `tex2Dlod` double-evaluation guard in §4.11 step 3).
func MakeTempVarDeclStmt(namePrefix string, counter int, typeDen xtype.TypeDenoter, value ast.Expr) (*ast.VarDeclStmt, *ast.ObjectExpr) {
	name := namePrefix + itoa(counter)
	stmt := MakeVarDeclStmt(typeDen, name, value)
	use := MakeObjectExpr(name, stmt.VarDecls[0])
	return stmt, use
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func ftoa(f float64) string {
	// Minimal, deterministic float->text without pulling in strconv's full
	// formatting surface; shader literals only ever need a handful of
	// decimal digits of precision.
	neg := f < 0
	if neg {
		f = -f
	}
	whole := int64(f)
	frac := f - float64(whole)
	out := itoa(int(whole)) + "."
	for i := 0; i < 6 && frac > 1e-9; i++ {
		frac *= 10
		d := int64(frac)
		out += string(rune('0' + d))
		frac -= float64(d)
	}
	if out[len(out)-1] == '.' {
		out += "0"
	}
	if neg {
		out = "-" + out
	}
	return out
}
