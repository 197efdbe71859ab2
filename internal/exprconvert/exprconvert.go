// Package exprconvert implements the expression converter (spec.md C8):
// the table of per-expression-shape rewrites that turn HLSL-only
// constructs into their GLSL equivalents (swizzle-on-scalar, matrix
// subscripts, vector comparisons, image/sampler-buffer access, implicit
// casts, brace-initializer-to-constructor, log10, nested unary brackets,
// texture bracket indexing, texture-sample vector narrowing, compatible
// structs and half-literal rewriting).
//
// Every synthetic subtree is built through internal/astfactory so its type
// denoter is correct the moment it is created. Grounded on spec.md §4.6's
// rewrite table and on the teacher's internal/validator, whose single
// type-switch-per-node-kind recursion this pass's convertStmt/convertExpr
// pair mirrors (see internal/optimizer for the sibling pass built the same
// way).
package exprconvert

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/astfactory"
	"github.com/xsc-go/xsc/internal/xtype"
)

// Flags selects which rewrites a Converter applies. A target dialect that
// already covers part of the table natively (e.g. GLSL 4.20+ with
// GL_ARB_shading_language_420pack) can drop the corresponding bits, per
// spec.md §4.11 step 2.
type Flags uint32

const (
	ConvertVectorSubscripts Flags = 1 << iota
	ConvertMatrixSubscripts
	ConvertVectorCompare
	ConvertImageAccess
	ConvertSamplerBufferAccess
	ConvertImplicitCasts
	ConvertInitializerToCtor
	ConvertLog10
	ConvertUnaryExpr
	ConvertTextureBracketOp
	ConvertTextureIntrinsicVec4
	ConvertCompatibleStructs
	ConvertLiteralHalfToFloat
	ConvertMulIntrinsic
)

// AllConverts enables every rewrite in the table.
const AllConverts = ConvertVectorSubscripts | ConvertMatrixSubscripts | ConvertVectorCompare |
	ConvertImageAccess | ConvertSamplerBufferAccess | ConvertImplicitCasts | ConvertInitializerToCtor |
	ConvertLog10 | ConvertUnaryExpr | ConvertTextureBracketOp | ConvertTextureIntrinsicVec4 |
	ConvertCompatibleStructs | ConvertLiteralHalfToFloat | ConvertMulIntrinsic

// TextureDimError reports a rewrite that could not determine the integer
// coordinate dimension of a texture sample (spec.md §4.6 "Failure
// semantics"); the offending call/subscript is left unrewritten.
type TextureDimError struct {
	Expr ast.Expr
}

func (e *TextureDimError) Error() string { return "failed to get texture dim" }

// Converter applies the rewrite table to a program, in place.
type Converter struct {
	Mask Flags

	tempCounter int
	errs        []error
}

// New constructs a Converter selecting mask's rewrites.
func New(mask Flags) *Converter { return &Converter{Mask: mask} }

func (c *Converter) has(f Flags) bool { return c.Mask&f != 0 }

// Run rewrites every global statement of p, returning any TextureDimError
// encountered along the way (the corresponding call is left untouched).
func (c *Converter) Run(p *ast.Program) []error {
	p.GlobalStmts = c.convertStmts(p.GlobalStmts)
	return c.errs
}

// RunFunction rewrites a single function body (used by C13 when converting
// one entry point or free function at a time).
func (c *Converter) RunFunction(fn *ast.FunctionDecl) []error {
	if fn.Body != nil {
		fn.Body.Stmts = c.convertStmts(fn.Body.Stmts)
	}
	return c.errs
}

// ----------------------------------------------------------------------------
// statement-level recursion, with compound-assignment hoisting
// ----------------------------------------------------------------------------

func (c *Converter) convertStmts(stmts []ast.Stmt) []ast.Stmt {
	out := stmts[:0:0]
	for _, s := range stmts {
		out = append(out, c.convertStmt(s)...)
	}
	return out
}

// convertBody converts a single-statement body, wrapping it in a block if
// the conversion hoisted extra statements ahead of it.
func (c *Converter) convertBody(s ast.Stmt) ast.Stmt {
	if s == nil {
		return nil
	}
	list := c.convertStmt(s)
	if len(list) == 1 {
		return list[0]
	}
	return &ast.CodeBlockStmt{Stmts: list}
}

func (c *Converter) convertStmt(s ast.Stmt) []ast.Stmt {
	switch n := s.(type) {
	case *ast.CodeBlockStmt:
		n.Stmts = c.convertStmts(n.Stmts)
	case *ast.ForStmt:
		n.Init = c.convertBody(n.Init)
		n.Condition = c.convertExpr(n.Condition)
		n.Iteration = c.convertExpr(n.Iteration)
		n.Body = c.convertBody(n.Body)
	case *ast.WhileStmt:
		n.Condition = c.convertExpr(n.Condition)
		n.Body = c.convertBody(n.Body)
	case *ast.DoWhileStmt:
		n.Body = c.convertBody(n.Body)
		n.Condition = c.convertExpr(n.Condition)
	case *ast.IfStmt:
		n.Condition = c.convertExpr(n.Condition)
		n.Body = c.convertBody(n.Body)
		if n.Else != nil {
			n.Else = c.convertBody(n.Else)
		}
	case *ast.ElseStmt:
		n.Body = c.convertBody(n.Body)
	case *ast.SwitchStmt:
		n.Selector = c.convertExpr(n.Selector)
		for i := range n.Cases {
			for j := range n.Cases[i].Selectors {
				n.Cases[i].Selectors[j] = c.convertExpr(n.Cases[i].Selectors[j])
			}
			n.Cases[i].Stmts = c.convertStmts(n.Cases[i].Stmts)
		}
	case *ast.ExprStmt:
		if pre, rewritten, ok := c.convertCompoundImageAssign(n.Expr); ok {
			return append(pre, &ast.ExprStmt{Expr: rewritten})
		}
		n.Expr = c.convertExpr(n.Expr)
	case *ast.ReturnStmt:
		n.Value = c.convertExpr(n.Value)
	case *ast.VarDeclStmt:
		for _, d := range n.VarDecls {
			if init, ok := d.Initializer.(*ast.InitializerExpr); ok && c.has(ConvertInitializerToCtor) && init.TargetTy == nil {
				init.TargetTy = d.TypeDen
			}
			d.Initializer = c.convertExpr(d.Initializer)
		}
	}
	return []ast.Stmt{s}
}

// convertCompoundImageAssign implements spec.md §9 open question 1: a
// compound assignment through an image access always hoists the index into
// a temporary, even where the source form evaluates it twice, to keep
// imageLoad/imageStore from re-evaluating a side-effecting index.
func (c *Converter) convertCompoundImageAssign(e ast.Expr) ([]ast.Stmt, ast.Expr, bool) {
	assign, ok := e.(*ast.AssignExpr)
	if !ok || !c.has(ConvertImageAccess) || !assign.Op.IsCompound() {
		return nil, nil, false
	}
	sub, ok := assign.Target.(*ast.SubscriptExpr)
	if !ok || !isRWImage(sub.Base) {
		return nil, nil, false
	}
	idxTy, err := sub.Index.TypeDenoter()
	if err != nil {
		return nil, nil, false
	}
	c.tempCounter++
	tempStmt, tempUse := astfactory.MakeTempVarDeclStmt("xsp_img_idx_", c.tempCounter, idxTy, c.convertExpr(sub.Index))

	load := imageLoadCall(sub.Base, tempUse)
	combined := combineCompound(assign.Op, load, c.convertExpr(assign.Value))
	store := imageStoreCall(sub.Base, tempUse, combined)
	return []ast.Stmt{tempStmt}, store, true
}

func combineCompound(op ast.AssignOp, loaded, value ast.Expr) ast.Expr {
	bin := ast.BinaryOp(0)
	switch op {
	case ast.AssignAdd:
		bin = ast.BinAdd
	case ast.AssignSub:
		bin = ast.BinSub
	case ast.AssignMul:
		bin = ast.BinMul
	case ast.AssignDiv:
		bin = ast.BinDiv
	case ast.AssignMod:
		bin = ast.BinMod
	case ast.AssignAnd:
		bin = ast.BinAnd
	case ast.AssignOr:
		bin = ast.BinOr
	case ast.AssignXor:
		bin = ast.BinXor
	case ast.AssignLShift:
		bin = ast.BinLShift
	case ast.AssignRShift:
		bin = ast.BinRShift
	}
	return &ast.BinaryExpr{Op: bin, Left: loaded, Right: value}
}

// ----------------------------------------------------------------------------
// expression-level recursion
// ----------------------------------------------------------------------------

func (c *Converter) convertExpr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	// ConvertImageAccess's store form must intercept the whole AssignExpr
	// before generic recursion converts its Target, or the SubscriptExpr
	// rule below would turn the target into an imageLoad first and the
	// assignment shape would never be recognized.
	if c.has(ConvertImageAccess) {
		if assign, ok := e.(*ast.AssignExpr); ok && assign.Op == ast.AssignSet {
			if sub, ok := assign.Target.(*ast.SubscriptExpr); ok && isRWImage(sub.Base) {
				base := c.convertExpr(sub.Base)
				index := c.convertExpr(sub.Index)
				value := c.convertExpr(assign.Value)
				return imageStoreCall(base, index, value)
			}
		}
	}
	e = c.convertChildren(e)
	e = c.convertNode(e)
	return e
}

func (c *Converter) convertChildren(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.SequenceExpr:
		for i, x := range n.Exprs {
			n.Exprs[i] = c.convertExpr(x)
		}
	case *ast.TernaryExpr:
		n.Condition = c.convertExpr(n.Condition)
		n.True = c.convertExpr(n.True)
		n.False = c.convertExpr(n.False)
	case *ast.BinaryExpr:
		n.Left = c.convertExpr(n.Left)
		n.Right = c.convertExpr(n.Right)
	case *ast.UnaryExpr:
		n.Operand = c.convertExpr(n.Operand)
	case *ast.PostUnaryExpr:
		n.Operand = c.convertExpr(n.Operand)
	case *ast.CallExpr:
		n.Callee = c.convertExpr(n.Callee)
		for i, a := range n.Args {
			n.Args[i] = c.convertExpr(a)
		}
	case *ast.BracketExpr:
		n.Value = c.convertExpr(n.Value)
	case *ast.ObjectExpr:
		n.Prefix = c.convertExpr(n.Prefix)
	case *ast.AssignExpr:
		n.Target = c.convertExpr(n.Target)
		n.Value = c.convertExpr(n.Value)
	case *ast.SubscriptExpr:
		n.Base = c.convertExpr(n.Base)
		n.Index = c.convertExpr(n.Index)
	case *ast.CastExpr:
		n.Value = c.convertExpr(n.Value)
	case *ast.InitializerExpr:
		for i, el := range n.Elements {
			n.Elements[i] = c.convertExpr(el)
		}
	}
	return e
}

// convertNode applies the rewrite table to e itself, after its children
// have already been converted.
func (c *Converter) convertNode(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		if c.has(ConvertLiteralHalfToFloat) {
			return convertHalfLiteral(n)
		}
	case *ast.ObjectExpr:
		if c.has(ConvertVectorSubscripts) {
			if rewritten, ok := c.convertVectorSubscript(n); ok {
				return rewritten
			}
		}
		if c.has(ConvertMatrixSubscripts) {
			if rewritten, ok := c.convertMatrixSubscript(n); ok {
				return rewritten
			}
		}
		if c.has(ConvertCompatibleStructs) {
			convertCompatibleStructMember(n)
		}
	case *ast.BinaryExpr:
		if c.has(ConvertVectorCompare) && n.Op.IsComparison() {
			if lt, _ := n.Left.TypeDenoter(); xtype.IsVector(lt) {
				return vectorCompareCall(n)
			}
		}
		if c.has(ConvertImplicitCasts) && !n.Op.IsComparison() {
			return c.insertBinaryCasts(n)
		}
	case *ast.UnaryExpr:
		if c.has(ConvertVectorCompare) && n.Op == ast.UnaryNot {
			if ot, _ := n.Operand.TypeDenoter(); xtype.IsVector(ot) {
				return astfactory.MakeWrapperCallExpr("not", ot, []ast.Expr{n.Operand})
			}
		}
		if c.has(ConvertUnaryExpr) {
			if _, ok := n.Operand.(*ast.UnaryExpr); ok {
				n.Operand = &ast.BracketExpr{Value: n.Operand}
			}
		}
	case *ast.TernaryExpr:
		if c.has(ConvertVectorCompare) {
			if ct, _ := n.Condition.TypeDenoter(); xtype.IsVector(ct) {
				return astfactory.MakeWrapperCallExpr("mix", resultOf(n), []ast.Expr{n.False, n.True, n.Condition})
			}
		}
	case *ast.AssignExpr:
		if c.has(ConvertImplicitCasts) {
			n.Value = c.insertCast(resultOf(n.Target), n.Value)
		}
	case *ast.SubscriptExpr:
		if c.has(ConvertImageAccess) && isRWImage(n.Base) {
			return imageLoadCall(n.Base, n.Index)
		}
		if c.has(ConvertSamplerBufferAccess) && isSamplerBuffer(n.Base) {
			return &ast.CallExpr{
				Callee:   &ast.ObjectExpr{Prefix: n.Base, Ident: "Load"},
				Args:     []ast.Expr{n.Index},
				ResultTy: bufferGeneric(n.Base),
			}
		}
		if c.has(ConvertTextureBracketOp) && isReadOnlyTexture(n.Base) {
			return &ast.CallExpr{
				Callee:   &ast.ObjectExpr{Prefix: n.Base, Ident: "Load"},
				Args:     []ast.Expr{n.Index},
				ResultTy: xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 4)),
			}
		}
	case *ast.CallExpr:
		if c.has(ConvertLog10) && n.Intrinsic == ast.IntrinsicLog10 {
			return convertLog10(n)
		}
		if c.has(ConvertMulIntrinsic) && n.Intrinsic == ast.IntrinsicMul && len(n.Args) == 2 {
			return convertMul(n)
		}
		if c.has(ConvertTextureIntrinsicVec4) {
			if rewritten, ok := c.convertTextureSampleVec4(n); ok {
				return rewritten
			}
		}
		if c.has(ConvertImplicitCasts) && n.FuncRef != nil {
			for i, a := range n.Args {
				if i < len(n.FuncRef.Params) {
					n.Args[i] = c.insertCast(n.FuncRef.Params[i].TypeDen, a)
				}
			}
		}
	case *ast.InitializerExpr:
		if c.has(ConvertInitializerToCtor) && n.TargetTy != nil {
			return &ast.CallExpr{Ctor: n.TargetTy, Args: n.Elements}
		}
	}
	return e
}

func resultOf(e ast.Expr) xtype.TypeDenoter {
	t, err := e.TypeDenoter()
	if err != nil {
		return nil
	}
	return t
}

// ----------------------------------------------------------------------------
// ConvertVectorSubscripts
// ----------------------------------------------------------------------------

func (c *Converter) convertVectorSubscript(n *ast.ObjectExpr) (ast.Expr, bool) {
	if n.Prefix == nil || !isSwizzleIdent(n.Ident) {
		return nil, false
	}
	pt, err := n.Prefix.TypeDenoter()
	if err != nil || !xtype.IsScalar(pt) {
		return nil, false
	}
	if len(n.Ident) == 1 {
		return n.Prefix, true
	}
	comp := baseComponentOf(pt)
	vecTy := xtype.NewBase(xtype.Vec(comp, len(n.Ident)))
	return &ast.CallExpr{Ctor: vecTy, Args: []ast.Expr{n.Prefix}}, true
}

func isSwizzleIdent(s string) bool {
	if len(s) == 0 || len(s) > 4 {
		return false
	}
	xyzw, rgba := true, true
	for _, r := range s {
		switch r {
		case 'x', 'y', 'z', 'w':
			rgba = false
		case 'r', 'g', 'b', 'a':
			xyzw = false
		default:
			return false
		}
	}
	return xyzw || rgba
}

func baseComponentOf(t xtype.TypeDenoter) xtype.BaseComponent {
	if b, ok := xtype.Aliased(t).(*xtype.BaseDenoter); ok {
		return b.Type.Component
	}
	return xtype.ComponentFloat
}

// ----------------------------------------------------------------------------
// ConvertMatrixSubscripts
// ----------------------------------------------------------------------------

// convertMatrixSubscript rewrites `m._mRC` / `m._RC` accessors. A single
// addressed element becomes a direct 2-index array access; more than one
// becomes a call to a generated gather wrapper (spec.md §4.6).
func (c *Converter) convertMatrixSubscript(n *ast.ObjectExpr) (ast.Expr, bool) {
	if n.Prefix == nil {
		return nil, false
	}
	pt, err := n.Prefix.TypeDenoter()
	if err != nil || !xtype.IsMatrix(pt) {
		return nil, false
	}
	pairs, ok := parseMatrixSwizzle(n.Ident)
	if !ok || len(pairs) == 0 {
		return nil, false
	}
	comp := baseComponentOf(pt)
	if len(pairs) == 1 {
		row, col := pairs[0][0], pairs[0][1]
		rowExpr := &ast.SubscriptExpr{Base: n.Prefix, Index: intLit(row)}
		return &ast.SubscriptExpr{Base: rowExpr, Index: intLit(col)}, true
	}
	args := []ast.Expr{n.Prefix}
	for _, p := range pairs {
		args = append(args, intLit(p[0]), intLit(p[1]))
	}
	resultTy := xtype.NewBase(xtype.Vec(comp, len(pairs)))
	name := "xsp_matrix_get" + itoa(len(pairs))
	return astfactory.MakeWrapperCallExpr(name, resultTy, args), true
}

// parseMatrixSwizzle scans a `_mRC` (zero-based) or `_RC` (one-based)
// matrix-subscript identifier into zero-based (row,col) pairs.
func parseMatrixSwizzle(ident string) ([][2]int, bool) {
	if len(ident) < 3 || ident[0] != '_' {
		return nil, false
	}
	var pairs [][2]int
	i := 0
	for i < len(ident) {
		if ident[i] != '_' {
			return nil, false
		}
		i++
		zeroBased := false
		if i < len(ident) && ident[i] == 'm' {
			zeroBased = true
			i++
		}
		if i+1 >= len(ident) {
			return nil, false
		}
		row, okR := digit(ident[i])
		col, okC := digit(ident[i+1])
		if !okR || !okC {
			return nil, false
		}
		i += 2
		if !zeroBased {
			row--
			col--
		}
		pairs = append(pairs, [2]int{row, col})
	}
	return pairs, true
}

func digit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

func intLit(n int) *ast.LiteralExpr {
	return astfactory.MakeLiteralExpr(xtype.Scalar(xtype.ComponentInt), itoa(n))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// ----------------------------------------------------------------------------
// ConvertVectorCompare
// ----------------------------------------------------------------------------

func vectorCompareCall(n *ast.BinaryExpr) ast.Expr {
	name := map[ast.BinaryOp]string{
		ast.BinLt: "lessThan", ast.BinLe: "lessThanEqual",
		ast.BinGt: "greaterThan", ast.BinGe: "greaterThanEqual",
		ast.BinEq: "equal", ast.BinNe: "notEqual",
	}[n.Op]
	lt, _ := n.Left.TypeDenoter()
	rt, _ := n.Right.TypeDenoter()
	size := 4
	if lt != nil && rt != nil {
		// A vector-vector compare lowers to the smaller of the two operand
		// widths (HLSL never implicitly widens here the way arithmetic does).
		common := xtype.FindCommonTypeDenoter(lt, rt, true)
		if b, ok := xtype.Aliased(common).(*xtype.BaseDenoter); ok {
			size = b.Type.Cols
		}
	} else if b, ok := xtype.Aliased(lt).(*xtype.BaseDenoter); ok {
		size = b.Type.Cols
	}
	resultTy := xtype.NewBase(xtype.Vec(xtype.ComponentBool, size))
	return astfactory.MakeWrapperCallExpr(name, resultTy, []ast.Expr{n.Left, n.Right})
}

// ----------------------------------------------------------------------------
// ConvertImageAccess / ConvertSamplerBufferAccess / ConvertTextureBracketOp
// ----------------------------------------------------------------------------

func bufferKindOf(e ast.Expr) (*xtype.BufferDenoter, bool) {
	t, err := e.TypeDenoter()
	if err != nil {
		return nil, false
	}
	b, ok := xtype.Aliased(t).(*xtype.BufferDenoter)
	return b, ok
}

func isRWImage(e ast.Expr) bool {
	b, ok := bufferKindOf(e)
	return ok && b.BufferKind.IsTexture() && b.BufferKind.IsReadWrite()
}

func isReadOnlyTexture(e ast.Expr) bool {
	b, ok := bufferKindOf(e)
	return ok && b.BufferKind.IsTexture() && !b.BufferKind.IsReadWrite()
}

func isSamplerBuffer(e ast.Expr) bool {
	b, ok := bufferKindOf(e)
	if !ok {
		return false
	}
	switch b.BufferKind {
	case xtype.BufferBuffer, xtype.BufferRWBuffer, xtype.BufferStructuredBuffer,
		xtype.BufferRWStructuredBuffer, xtype.BufferByteAddressBuffer, xtype.BufferRWByteAddressBuffer:
		return true
	}
	return false
}

func bufferGeneric(e ast.Expr) xtype.TypeDenoter {
	if b, ok := bufferKindOf(e); ok {
		return b.GenericOrDefault()
	}
	return xtype.DefaultBufferGeneric()
}

func imageLoadCall(base, index ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{
		Intrinsic: ast.IntrinsicLoad,
		ResultTy:  xtype.NewBase(xtype.Vec(xtype.ComponentFloat, 4)),
		Args:      []ast.Expr{base, index},
	}
}

func imageStoreCall(base, index, value ast.Expr) *ast.CallExpr {
	v4 := asVec4(base, value)
	return astfactory.MakeWrapperCallExpr("imageStore", xtype.Void, []ast.Expr{base, index, v4})
}

// asVec4 widens value to a 4-vector of the buffer's base component, the
// shape imageStore requires regardless of the buffer's declared generic
// dimension (spec.md §8 invariant 6).
func asVec4(base, value ast.Expr) ast.Expr {
	comp := baseComponentOf(bufferGeneric(base))
	vt, err := value.TypeDenoter()
	if err != nil {
		return value
	}
	b, ok := xtype.Aliased(vt).(*xtype.BaseDenoter)
	if ok && b.Type.Rows == 1 && b.Type.Cols == 4 {
		return value
	}
	dim := 1
	if ok {
		dim = b.Type.Cols
	}
	args := []ast.Expr{value}
	zero := xtype.Scalar(comp)
	for i := dim; i < 4; i++ {
		args = append(args, astfactory.MakeLiteralExpr(zero, "0"))
	}
	return &ast.CallExpr{Ctor: xtype.NewBase(xtype.Vec(comp, 4)), Args: args}
}

// ----------------------------------------------------------------------------
// ConvertImplicitCasts
// ----------------------------------------------------------------------------

// mustCastExprToDataType reports whether source must be cast to reach
// target (spec.md §4.6 "Rules"); it is nil/false when the two types already
// agree.
func mustCastExprToDataType(target, source xtype.TypeDenoter) (xtype.TypeDenoter, bool) {
	if target == nil || source == nil {
		return nil, false
	}
	if xtype.Aliased(target).Equals(xtype.Aliased(source)) {
		return nil, false
	}
	if _, ok := xtype.Aliased(target).(*xtype.BaseDenoter); !ok {
		return nil, false
	}
	if _, ok := xtype.Aliased(source).(*xtype.BaseDenoter); !ok {
		return nil, false
	}
	return target, true
}

// insertCast wraps e in a cast to target when required, zero-extending a
// vector that grows in dimension instead of a bare Cast (spec.md §4.6:
// "vec3->vec4 becomes vec4(v,0)").
func (c *Converter) insertCast(target xtype.TypeDenoter, e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	source, err := e.TypeDenoter()
	if err != nil {
		return e
	}
	newTarget, must := mustCastExprToDataType(target, source)
	if !must {
		return e
	}
	tb, tok := xtype.Aliased(newTarget).(*xtype.BaseDenoter)
	sb, sok := xtype.Aliased(source).(*xtype.BaseDenoter)
	if tok && sok && tb.Type.IsVector() && sb.Type.IsVector() && tb.Type.Cols > sb.Type.Cols {
		args := []ast.Expr{e}
		zero := xtype.Scalar(tb.Type.Component)
		for i := sb.Type.Cols; i < tb.Type.Cols; i++ {
			args = append(args, astfactory.MakeLiteralExpr(zero, "0"))
		}
		return &ast.CallExpr{Ctor: newTarget, Args: args}
	}
	return astfactory.MakeCastExpr(newTarget, e)
}

// insertBinaryCasts casts whichever operand of a non-comparison binary
// expression doesn't already match the expression's own (common) type.
func (c *Converter) insertBinaryCasts(n *ast.BinaryExpr) *ast.BinaryExpr {
	target, err := n.TypeDenoter()
	if err != nil {
		return n
	}
	n.Left = c.insertCast(target, n.Left)
	n.Right = c.insertCast(target, n.Right)
	return n
}

// ----------------------------------------------------------------------------
// ConvertLog10
// ----------------------------------------------------------------------------

func convertLog10(n *ast.CallExpr) ast.Expr {
	if len(n.Args) != 1 {
		return n
	}
	arg := n.Args[0]
	at, err := arg.TypeDenoter()
	if err != nil {
		at = xtype.NewBase(xtype.Scalar(xtype.ComponentFloat))
	}
	ten := astfactory.MakeLiteralExpr(xtype.Scalar(baseComponentOf(at)), "10")
	lhs := astfactory.MakeWrapperCallExpr("log", at, []ast.Expr{arg})
	rhs := astfactory.MakeWrapperCallExpr("log", at, []ast.Expr{ten})
	return &ast.BinaryExpr{Op: ast.BinDiv, Left: lhs, Right: rhs}
}

// convertMul rewrites HLSL's mul(M, v) to GLSL's v * M (spec.md §8 scenario
// E2): GLSL's `*` between a matrix and a vector already performs the
// row-major transform HLSL's mul() spells out explicitly, with the operands
// in the opposite order.
func convertMul(n *ast.CallExpr) ast.Expr {
	return &ast.BinaryExpr{Op: ast.BinMul, Left: n.Args[1], Right: n.Args[0]}
}

// ----------------------------------------------------------------------------
// ConvertTextureIntrinsicVec4
// ----------------------------------------------------------------------------

func isTextureSampleIntrinsic(i ast.Intrinsic) bool {
	switch i {
	case ast.IntrinsicSample, ast.IntrinsicTex1D, ast.IntrinsicTex2D,
		ast.IntrinsicTex2DLod, ast.IntrinsicTex3D, ast.IntrinsicTexCube:
		return true
	}
	return false
}

// convertTextureSampleVec4 narrows a vec4-returning sample call back down to
// the texel dimension the original call site expected, since GLSL's
// texture() always yields a 4-vec (spec.md §4.6).
func (c *Converter) convertTextureSampleVec4(n *ast.CallExpr) (ast.Expr, bool) {
	if !isTextureSampleIntrinsic(n.Intrinsic) {
		return nil, false
	}
	if n.ResultTy == nil {
		c.errs = append(c.errs, &TextureDimError{Expr: n})
		return nil, false
	}
	b, ok := xtype.Aliased(n.ResultTy).(*xtype.BaseDenoter)
	if !ok || b.Type.Cols >= 4 || b.Type.Cols < 1 {
		return nil, false
	}
	dim := b.Type.Cols
	swizzle := "rgba"[:dim]
	n.ResultTy = xtype.NewBase(xtype.Vec(b.Type.Component, 4))
	return &ast.ObjectExpr{Prefix: n, Ident: swizzle, MemberTy: xtype.NewBase(xtype.Vec(b.Type.Component, dim))}, true
}

// ----------------------------------------------------------------------------
// ConvertCompatibleStructs
// ----------------------------------------------------------------------------

func convertCompatibleStructMember(n *ast.ObjectExpr) {
	if n.Prefix == nil {
		return
	}
	pt, err := n.Prefix.TypeDenoter()
	if err != nil {
		return
	}
	sd, ok := xtype.Aliased(pt).(*xtype.StructDenoter)
	if !ok {
		return
	}
	decl, ok := sd.DeclRef.(*ast.StructDecl)
	if !ok || decl.CompatibleStructRef == nil {
		return
	}
	idx := -1
	for i, m := range decl.Members {
		if m.Ident.OriginalName == n.Ident || m.Ident.Rendered() == n.Ident {
			idx = i
			break
		}
	}
	compat := decl.CompatibleStructRef
	if idx < 0 || idx >= len(compat.Members) {
		return
	}
	n.Ident = compat.Members[idx].Ident.Rendered()
	n.MemberTy = compat.Members[idx].TypeDen
	n.ResetType()
}

// ----------------------------------------------------------------------------
// ConvertLiteralHalfToFloat
// ----------------------------------------------------------------------------

func convertHalfLiteral(n *ast.LiteralExpr) *ast.LiteralExpr {
	if n.Type.Component != xtype.ComponentHalf {
		return n
	}
	n.Type = n.Type.WithComponent(xtype.ComponentFloat)
	text := n.Text
	if len(text) > 0 && (text[len(text)-1] == 'h' || text[len(text)-1] == 'H') {
		text = text[:len(text)-1] + "f"
	}
	n.Text = text
	n.ResetType()
	return n
}
