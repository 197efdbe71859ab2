package ast

import "github.com/xsc-go/xsc/internal/xtype"

// Expr is any expression node. Every expression lazily computes its type
// denoter and caches it; ResetType invalidates the cache so the next
// TypeDenoter() call re-derives it (spec.md §3 "Expressions carry a lazily
// computed type denoter").
type Expr interface {
	Node
	isExpr()
	TypeDenoter() (xtype.TypeDenoter, error)
	ResetType()
	cache() *typeCache
}

type typeCache struct {
	cached xtype.TypeDenoter
	valid  bool
}

func (c *typeCache) reset() { c.valid = false; c.cached = nil }

type exprBase struct {
	base
	tc typeCache
}

func (e *exprBase) cache() *typeCache { return &e.tc }
func (e *exprBase) ResetType()        { e.tc.reset() }

// TypeDenoter is implemented per-variant below, each method memoized
// through tc by memoType/memoTypeFn (bottom of this file).

// NullExpr is a placeholder (e.g. an omitted for-loop clause represented
// uniformly as an expression slot).
type NullExpr struct{ exprBase }

func (*NullExpr) isExpr() {}
func (e *NullExpr) TypeDenoter() (xtype.TypeDenoter, error) { return memoType(e, xtype.Void, nil) }

// SequenceExpr is the comma operator: evaluates Exprs left to right,
// yields the type (and value) of the last.
type SequenceExpr struct {
	exprBase
	Exprs []Expr
}

func (*SequenceExpr) isExpr() {}
func (e *SequenceExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		if len(e.Exprs) == 0 {
			return xtype.Void, nil
		}
		return e.Exprs[len(e.Exprs)-1].TypeDenoter()
	})
}

// LiteralExpr is a numeric/boolean/string literal.
type LiteralExpr struct {
	exprBase
	Type xtype.DataType
	Text string // raw source text, e.g. "1.5h", "true", "42u"
}

func (*LiteralExpr) isExpr() {}
func (e *LiteralExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoType(e, xtype.NewBase(e.Type), nil)
}

// TypeSpecifierExpr names a type used in expression position (a
// constructor call target, e.g. `float3` in `float3(1,2,3)`).
type TypeSpecifierExpr struct {
	exprBase
	TypeDen xtype.TypeDenoter
}

func (*TypeSpecifierExpr) isExpr() {}
func (e *TypeSpecifierExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoType(e, e.TypeDen, nil)
}

// TernaryExpr is `cond ? true : false`.
type TernaryExpr struct {
	exprBase
	Condition Expr
	True      Expr
	False     Expr
}

func (*TernaryExpr) isExpr() {}
func (e *TernaryExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) { return e.True.TypeDenoter() })
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinLShift
	BinRShift
	BinAnd
	BinOr
	BinXor
	BinLogicalAnd
	BinLogicalOr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

// IsComparison reports whether op yields a bool (scalar) / bvec (vector)
// result (consulted by ConvertVectorCompare).
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinEq, BinNe, BinLt, BinLe, BinGt, BinGe:
		return true
	}
	return false
}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) isExpr() {}
func (e *BinaryExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		if e.Op.IsComparison() {
			return xtype.NewBase(xtype.Scalar(xtype.ComponentBool)), nil
		}
		lt, err := e.Left.TypeDenoter()
		if err != nil {
			return nil, err
		}
		rt, err := e.Right.TypeDenoter()
		if err != nil {
			return nil, err
		}
		matchSize := true
		if (e.Op == BinDiv && xtype.IsScalar(rt)) || (e.Op == BinMul && (xtype.IsScalar(lt) || xtype.IsScalar(rt))) {
			matchSize = false
		}
		return xtype.FindCommonTypeDenoter(lt, rt, !matchSize), nil
	})
}

// UnaryOp enumerates unary prefix operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
	UnaryIncrement
	UnaryDecrement
)

// UnaryExpr is a unary prefix operation.
type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) isExpr() {}
func (e *UnaryExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		if e.Op == UnaryNot {
			return xtype.NewBase(xtype.Scalar(xtype.ComponentBool)), nil
		}
		return e.Operand.TypeDenoter()
	})
}

// PostUnaryOp enumerates postfix ++/--.
type PostUnaryOp uint8

const (
	PostIncrement PostUnaryOp = iota
	PostDecrement
)

// PostUnaryExpr is a postfix ++/--.
type PostUnaryExpr struct {
	exprBase
	Op      PostUnaryOp
	Operand Expr
}

func (*PostUnaryExpr) isExpr() {}
func (e *PostUnaryExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) { return e.Operand.TypeDenoter() })
}

// CallExpr is a function call, intrinsic call, or type-constructor call.
type CallExpr struct {
	exprBase
	Callee    Expr // *ObjectExpr naming the function, or nil if Intrinsic/Constructor is set
	Intrinsic Intrinsic
	Ctor      xtype.TypeDenoter // non-nil for a `T(args...)` constructor call
	Args      []Expr
	FuncRef   *FunctionDecl // resolved callee, once known
	ResultTy  xtype.TypeDenoter
}

func (*CallExpr) isExpr() {}
func (e *CallExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		if e.Ctor != nil {
			return e.Ctor, nil
		}
		if e.ResultTy != nil {
			return e.ResultTy, nil
		}
		if e.FuncRef != nil {
			return e.FuncRef.ReturnType, nil
		}
		return xtype.Void, nil
	})
}

// BracketExpr is a parenthesized sub-expression.
type BracketExpr struct {
	exprBase
	Value Expr
}

func (*BracketExpr) isExpr() {}
func (e *BracketExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) { return e.Value.TypeDenoter() })
}

// ObjectExpr is an identifier or a member-access chain, folding the source
// system's separate FullVarIdent linked list into one variant (spec.md §9
// open question 2): a bare identifier has Prefix == nil; `a.b.c` is
// `{Prefix: {Prefix: {Prefix: nil, Ident: "a"}, Ident: "b"}, Ident: "c"}`.
type ObjectExpr struct {
	exprBase
	Prefix    Expr // nil for a root identifier
	Ident     string
	SymbolRef Decl // resolved declaration, once known
	MemberTy  xtype.TypeDenoter
}

func (*ObjectExpr) isExpr() {}
func (e *ObjectExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		if e.MemberTy != nil {
			return e.MemberTy, nil
		}
		switch d := e.SymbolRef.(type) {
		case *VarDecl:
			return d.TypeDen, nil
		case *BufferDecl:
			return d.TypeDen, nil
		case *SamplerDecl:
			return d.TypeDen, nil
		case *FunctionDecl:
			return &xtype.FunctionDenoter{Ident: e.Ident}, nil
		}
		return nil, &xtype.AccessError{Context: "unresolved identifier " + e.Ident}
	})
}

// LastLink returns the final identifier in a chained ObjectExpr (spec.md §9
// open question 2's `LastVarIdent`).
func (e *ObjectExpr) LastLink() *ObjectExpr { return e }

// Root returns the first (innermost) link of a chained ObjectExpr.
func (e *ObjectExpr) Root() *ObjectExpr {
	cur := e
	for {
		p, ok := cur.Prefix.(*ObjectExpr)
		if !ok {
			return cur
		}
		cur = p
	}
}

// AssignOp enumerates assignment operators, including compound forms.
type AssignOp uint8

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignAnd
	AssignOr
	AssignXor
	AssignLShift
	AssignRShift
)

// IsCompound reports whether op reads-modifies-writes Target (everything
// but plain `=`).
func (op AssignOp) IsCompound() bool { return op != AssignSet }

// AssignExpr is an assignment, used in statement position via ExprStmt.
type AssignExpr struct {
	exprBase
	Target Expr
	Op     AssignOp
	Value  Expr
}

func (*AssignExpr) isExpr() {}
func (e *AssignExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) { return e.Target.TypeDenoter() })
}

// SubscriptExpr is array/buffer/image indexing: `base[index]` (spec.md
// calls this ArrayExpr).
type SubscriptExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

func (*SubscriptExpr) isExpr() {}
func (e *SubscriptExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		bt, err := e.Base.TypeDenoter()
		if err != nil {
			return nil, err
		}
		switch t := xtype.Aliased(bt).(type) {
		case *xtype.ArrayDenoter:
			return t.GetSubArray(1)
		case *xtype.BufferDenoter:
			return t.GenericOrDefault(), nil
		}
		return nil, &xtype.AccessError{Context: "subscript of non-indexable type"}
	})
}

// CastExpr is an explicit (or factory-inserted implicit) cast.
type CastExpr struct {
	exprBase
	Target xtype.TypeDenoter
	Value  Expr
}

func (*CastExpr) isExpr() {}
func (e *CastExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoType(e, e.Target, nil)
}

// InitializerExpr is a brace initializer list: `{1, 2, 3}`.
type InitializerExpr struct {
	exprBase
	Elements []Expr
	TargetTy xtype.TypeDenoter // filled once ConvertInitializerToCtor knows the target
}

func (*InitializerExpr) isExpr() {}
func (e *InitializerExpr) TypeDenoter() (xtype.TypeDenoter, error) {
	return memoTypeFn(e, func() (xtype.TypeDenoter, error) {
		if e.TargetTy != nil {
			return e.TargetTy, nil
		}
		return xtype.Void, nil
	})
}

// ----------------------------------------------------------------------------
// type-cache plumbing
// ----------------------------------------------------------------------------

func memoType(e Expr, t xtype.TypeDenoter, err error) (xtype.TypeDenoter, error) {
	if err != nil {
		return nil, err
	}
	c := e.cache()
	if !c.valid {
		c.cached, c.valid = t, true
	}
	return c.cached, nil
}

func memoTypeFn(e Expr, f func() (xtype.TypeDenoter, error)) (xtype.TypeDenoter, error) {
	c := e.cache()
	if c.valid {
		return c.cached, nil
	}
	t, err := f()
	if err != nil {
		return nil, err
	}
	c.cached, c.valid = t, true
	return t, nil
}

// ResetExprType is a free function wrapper so passes that hold an Expr
// interface value (rather than a concrete pointer) can still invalidate its
// cache uniformly.
func ResetExprType(e Expr) {
	if e != nil {
		e.ResetType()
	}
}
