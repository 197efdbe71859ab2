// Package xtype provides the HLSL/GLSL type system used to decorate the
// shader AST.
//
// A TypeDenoter describes the static type of any typed AST node: a variable,
// an expression, a function return value. Denoters support equality,
// castability, aliasing and the subtype derivations (array indexing, member
// access, buffer generics) the transformation passes need when they rewrite
// expressions from HLSL shape into GLSL shape.
package xtype

import (
	"fmt"
	"strings"
)

// TypeDenoter describes the static type of an AST node.
type TypeDenoter interface {
	// String returns the HLSL-ish syntax for this type (diagnostics only).
	String() string
	// Equals compares two denoters, following aliases and ignoring
	// structural aliasing the way getAliased() does in the source system.
	Equals(other TypeDenoter) bool
	// IsCastableTo reports whether a value of this type may be implicitly
	// or explicitly cast to target.
	IsCastableTo(target TypeDenoter) bool
	// Kind identifies the concrete variant for type switches that want a
	// cheap discriminant instead of a type assertion.
	Kind() Kind
	// getAliased follows Alias chains to the underlying denoter. Identity
	// for every other variant.
	getAliased() TypeDenoter
	isTypeDenoter()
}

// Kind discriminates TypeDenoter variants.
type Kind uint8

const (
	KindVoid Kind = iota
	KindNull
	KindBase
	KindSampler
	KindBuffer
	KindStruct
	KindAlias
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBase:
		return "base"
	case KindSampler:
		return "sampler"
	case KindBuffer:
		return "buffer"
	case KindStruct:
		return "struct"
	case KindAlias:
		return "alias"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Named is the minimal surface a declaration must implement to be referenced
// from a TypeDenoter (StructDecl, AliasDecl, SamplerDecl, BufferDecl,
// FunctionDecl). Defined here — rather than importing the ast package
// directly — to keep xtype a leaf package with no dependency on the AST,
// since the AST package itself embeds TypeDenoter values.
type Named interface {
	DeclIdent() string
}

// ----------------------------------------------------------------------------
// Data types (scalar / vector / matrix base types)
// ----------------------------------------------------------------------------

// BaseComponent is the scalar component kind underlying a DataType.
type BaseComponent uint8

const (
	ComponentBool BaseComponent = iota
	ComponentInt
	ComponentUInt
	ComponentHalf
	ComponentFloat
	ComponentDouble
	ComponentString
)

// componentOrder gives the promotion order used by FindCommonTypeDenoter:
// bool < int < uint < half < float < double.
var componentOrder = map[BaseComponent]int{
	ComponentBool:   0,
	ComponentInt:    1,
	ComponentUInt:   2,
	ComponentHalf:   3,
	ComponentFloat:  4,
	ComponentDouble: 5,
}

func (c BaseComponent) String() string {
	switch c {
	case ComponentBool:
		return "bool"
	case ComponentInt:
		return "int"
	case ComponentUInt:
		return "uint"
	case ComponentHalf:
		return "half"
	case ComponentFloat:
		return "float"
	case ComponentDouble:
		return "double"
	case ComponentString:
		return "string"
	default:
		return "?"
	}
}

// DataType is a scalar, vector (1..4) or matrix (1..4 x 1..4) combination
// over a BaseComponent, plus the degenerate `string` type.
type DataType struct {
	Component BaseComponent
	Rows      int // 1 for scalar/vector, 1..4 for matrix
	Cols      int // 1 for scalar, 2..4 for vector, 1..4 for matrix
}

// Scalar constructs a 1x1 DataType.
func Scalar(c BaseComponent) DataType { return DataType{Component: c, Rows: 1, Cols: 1} }

// Vec constructs a 1xN vector DataType.
func Vec(c BaseComponent, n int) DataType { return DataType{Component: c, Rows: 1, Cols: n} }

// Mat constructs an RxC matrix DataType.
func Mat(c BaseComponent, rows, cols int) DataType {
	return DataType{Component: c, Rows: rows, Cols: cols}
}

func (d DataType) IsScalar() bool { return d.Rows == 1 && d.Cols == 1 }
func (d DataType) IsVector() bool { return d.Rows == 1 && d.Cols > 1 }
func (d DataType) IsMatrix() bool { return d.Rows > 1 }

// VectorSize returns the number of components of a vector/scalar, 0 for a
// matrix or the string type.
func (d DataType) VectorSize() int {
	if d.Component == ComponentString || d.Rows > 1 {
		return 0
	}
	return d.Cols
}

func (d DataType) String() string {
	if d.Component == ComponentString {
		return "string"
	}
	base := d.Component.String()
	switch {
	case d.IsMatrix():
		return fmt.Sprintf("%s%dx%d", base, d.Rows, d.Cols)
	case d.IsVector():
		return fmt.Sprintf("%s%d", base, d.Cols)
	default:
		return base
	}
}

func (d DataType) Equals(o DataType) bool {
	return d.Component == o.Component && d.Rows == o.Rows && d.Cols == o.Cols
}

// WithComponent returns a copy of d with its base component replaced,
// preserving dimensionality. Used by FindCommonTypeDenoter.
func (d DataType) WithComponent(c BaseComponent) DataType {
	d.Component = c
	return d
}

// ----------------------------------------------------------------------------
// Void / Null
// ----------------------------------------------------------------------------

type voidDenoter struct{}

// Void is the single instance of the void type.
var Void TypeDenoter = voidDenoter{}

func (voidDenoter) String() string                  { return "void" }
func (voidDenoter) Equals(o TypeDenoter) bool        { _, ok := o.getAliased().(voidDenoter); return ok }
func (voidDenoter) IsCastableTo(TypeDenoter) bool    { return false } // open question 4: always false
func (voidDenoter) Kind() Kind                       { return KindVoid }
func (d voidDenoter) getAliased() TypeDenoter        { return d }
func (voidDenoter) isTypeDenoter()                   {}

type nullDenoter struct{}

// Null is the single instance of the null-literal type (castable to any
// buffer or sampler type, per spec.md §3 invariants).
var Null TypeDenoter = nullDenoter{}

func (nullDenoter) String() string           { return "NULL" }
func (nullDenoter) Equals(o TypeDenoter) bool { _, ok := o.getAliased().(nullDenoter); return ok }
func (nullDenoter) IsCastableTo(target TypeDenoter) bool {
	switch target.getAliased().(type) {
	case *BufferDenoter, *SamplerDenoter:
		return true
	}
	return false
}
func (nullDenoter) Kind() Kind                { return KindNull }
func (d nullDenoter) getAliased() TypeDenoter { return d }
func (nullDenoter) isTypeDenoter()            {}

// ----------------------------------------------------------------------------
// Base (scalar/vector/matrix) denoter
// ----------------------------------------------------------------------------

// BaseDenoter wraps a DataType.
type BaseDenoter struct {
	Type DataType
}

// NewBase constructs a BaseDenoter.
func NewBase(d DataType) *BaseDenoter { return &BaseDenoter{Type: d} }

func (b *BaseDenoter) String() string           { return b.Type.String() }
func (b *BaseDenoter) Kind() Kind                { return KindBase }
func (b *BaseDenoter) getAliased() TypeDenoter   { return b }
func (b *BaseDenoter) isTypeDenoter()            {}

func (b *BaseDenoter) Equals(o TypeDenoter) bool {
	ob, ok := o.getAliased().(*BaseDenoter)
	return ok && b.Type.Equals(ob.Type)
}

func (b *BaseDenoter) IsCastableTo(target TypeDenoter) bool {
	switch t := target.getAliased().(type) {
	case *BaseDenoter:
		if b.Type.IsScalar() || t.Type.IsScalar() {
			return true
		}
		// vector<->vector and matrix<->matrix cast elementwise; a cast
		// across vector/matrix shape is never implicit nor explicit.
		if b.Type.IsVector() && t.Type.IsVector() {
			return true
		}
		if b.Type.IsMatrix() && t.Type.IsMatrix() {
			return true
		}
		return false
	case *StructDenoter:
		// scalar -> struct is allowed (fills every member), matching
		// HLSL's single-value struct-splat construction rule.
		return b.Type.IsScalar()
	default:
		return false
	}
}

// ----------------------------------------------------------------------------
// Sampler denoter
// ----------------------------------------------------------------------------

// SamplerKind enumerates HLSL sampler-state object kinds.
type SamplerKind uint8

const (
	SamplerState SamplerKind = iota
	SamplerComparisonState
)

// SamplerDenoter describes a SamplerState/SamplerComparisonState value, or
// (after GLSL conversion has elided sampler-state objects) a dangling
// reference kept alive only so back-references don't break.
type SamplerDenoter struct {
	Sampler SamplerKind
	DeclRef Named // optional SamplerDecl back-reference
}

func (s *SamplerDenoter) String() string {
	if s.Sampler == SamplerComparisonState {
		return "SamplerComparisonState"
	}
	return "SamplerState"
}
func (s *SamplerDenoter) Kind() Kind              { return KindSampler }
func (s *SamplerDenoter) getAliased() TypeDenoter { return s }
func (s *SamplerDenoter) isTypeDenoter()          {}
func (s *SamplerDenoter) Equals(o TypeDenoter) bool {
	os, ok := o.getAliased().(*SamplerDenoter)
	return ok && s.Sampler == os.Sampler
}
func (s *SamplerDenoter) IsCastableTo(TypeDenoter) bool { return false }

// ----------------------------------------------------------------------------
// Buffer denoter (textures, structured/byte-address buffers)
// ----------------------------------------------------------------------------

// BufferKind enumerates HLSL buffer/texture object kinds relevant to the
// rewrite passes (the full HLSL catalogue is larger; these are the ones
// that change shape between HLSL and GLSL).
type BufferKind uint8

const (
	BufferTexture1D BufferKind = iota
	BufferTexture1DArray
	BufferTexture2D
	BufferTexture2DArray
	BufferTexture2DMS
	BufferTexture3D
	BufferTextureCube
	BufferTextureCubeArray
	BufferRWTexture1D
	BufferRWTexture2D
	BufferRWTexture3D
	BufferBuffer           // Buffer<T> (sampler buffer)
	BufferRWBuffer         // RWBuffer<T>
	BufferStructuredBuffer // StructuredBuffer<T>
	BufferRWStructuredBuffer
	BufferByteAddressBuffer
	BufferRWByteAddressBuffer
)

// IsReadWrite reports whether this buffer kind is one of the RW* writable
// forms (spec.md GLOSSARY: "RW* forms are writable").
func (k BufferKind) IsReadWrite() bool {
	switch k {
	case BufferRWTexture1D, BufferRWTexture2D, BufferRWTexture3D,
		BufferRWBuffer, BufferRWStructuredBuffer, BufferRWByteAddressBuffer:
		return true
	}
	return false
}

// IsTexture reports whether this buffer kind is a texture object (as
// opposed to a structured/byte-address/typed buffer).
func (k BufferKind) IsTexture() bool {
	switch k {
	case BufferTexture1D, BufferTexture1DArray, BufferTexture2D,
		BufferTexture2DArray, BufferTexture2DMS, BufferTexture3D,
		BufferTextureCube, BufferTextureCubeArray,
		BufferRWTexture1D, BufferRWTexture2D, BufferRWTexture3D:
		return true
	}
	return false
}

// TextureDim returns the integer-vector dimension of an image coordinate
// for this buffer kind (used to validate ConvertImageAccess rewrites,
// spec.md §8 invariant 6), or 0 if not a texture.
func (k BufferKind) TextureDim() int {
	switch k {
	case BufferTexture1D, BufferRWTexture1D, BufferTexture1DArray:
		return 1
	case BufferTexture2D, BufferRWTexture2D, BufferTexture2DMS, BufferTextureCube:
		return 2
	case BufferTexture2DArray, BufferTexture3D, BufferRWTexture3D, BufferTextureCubeArray:
		return 3
	default:
		return 0
	}
}

func (k BufferKind) String() string {
	names := map[BufferKind]string{
		BufferTexture1D: "Texture1D", BufferTexture1DArray: "Texture1DArray",
		BufferTexture2D: "Texture2D", BufferTexture2DArray: "Texture2DArray",
		BufferTexture2DMS: "Texture2DMS", BufferTexture3D: "Texture3D",
		BufferTextureCube: "TextureCube", BufferTextureCubeArray: "TextureCubeArray",
		BufferRWTexture1D: "RWTexture1D", BufferRWTexture2D: "RWTexture2D",
		BufferRWTexture3D: "RWTexture3D", BufferBuffer: "Buffer",
		BufferRWBuffer: "RWBuffer", BufferStructuredBuffer: "StructuredBuffer",
		BufferRWStructuredBuffer: "RWStructuredBuffer",
		BufferByteAddressBuffer:  "ByteAddressBuffer", BufferRWByteAddressBuffer: "RWByteAddressBuffer",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "Buffer"
}

// DefaultBufferGeneric is Base(float4): the default generic for a buffer
// declared without an explicit template argument (spec.md §3 invariant iii).
func DefaultBufferGeneric() TypeDenoter { return NewBase(Vec(ComponentFloat, 4)) }

// BufferDenoter describes a texture or structured/byte-address buffer.
type BufferDenoter struct {
	BufferKind  BufferKind
	Generic     TypeDenoter // defaults to DefaultBufferGeneric() when nil
	GenericSize int         // element count for fixed-size structured buffers, 0 if n/a
	DeclRef     Named       // optional BufferDecl back-reference
}

// Aliased follows Alias chains to the underlying denoter — the exported
// form of getAliased for callers outside this package.
func Aliased(t TypeDenoter) TypeDenoter { return t.getAliased() }

func (b *BufferDenoter) generic() TypeDenoter {
	if b.Generic != nil {
		return b.Generic
	}
	return DefaultBufferGeneric()
}

// GenericOrDefault returns the buffer's generic sub-type, or
// DefaultBufferGeneric() when none was specified (spec.md §3 invariant iii).
func (b *BufferDenoter) GenericOrDefault() TypeDenoter { return b.generic() }

func (b *BufferDenoter) String() string {
	return fmt.Sprintf("%s<%s>", b.BufferKind.String(), b.generic().String())
}
func (b *BufferDenoter) Kind() Kind              { return KindBuffer }
func (b *BufferDenoter) getAliased() TypeDenoter { return b }
func (b *BufferDenoter) isTypeDenoter()          {}

// EqualsOpt mirrors the source system's IgnoreGenericSubType flag: when
// ignoreGeneric is true, two buffers of the same BufferKind compare equal
// regardless of their generic sub-type. Used by C10's signature comparison.
func (b *BufferDenoter) EqualsOpt(o TypeDenoter, ignoreGeneric bool) bool {
	ob, ok := o.getAliased().(*BufferDenoter)
	if !ok || b.BufferKind != ob.BufferKind {
		return false
	}
	if ignoreGeneric {
		return true
	}
	return b.generic().Equals(ob.generic())
}

func (b *BufferDenoter) Equals(o TypeDenoter) bool { return b.EqualsOpt(o, false) }

func (b *BufferDenoter) IsCastableTo(TypeDenoter) bool { return false }

// ----------------------------------------------------------------------------
// Struct denoter
// ----------------------------------------------------------------------------

// StructDenoter names a user struct type, by identifier before resolution
// and/or by DeclRef once the parser/preanalysis links it.
type StructDenoter struct {
	Ident   string
	DeclRef Named
}

// SetIdentIfAnonymous fills Ident the first time it is empty (e.g. an
// anonymous struct synthesized by a pass). One-shot: a non-empty Ident is
// never overwritten.
func (s *StructDenoter) SetIdentIfAnonymous(ident string) {
	if s.Ident == "" {
		s.Ident = ident
	}
}

func (s *StructDenoter) String() string { return s.Ident }
func (s *StructDenoter) Kind() Kind     { return KindStruct }
func (s *StructDenoter) getAliased() TypeDenoter { return s }
func (s *StructDenoter) isTypeDenoter()  {}
func (s *StructDenoter) Equals(o TypeDenoter) bool {
	os, ok := o.getAliased().(*StructDenoter)
	if !ok {
		return false
	}
	if s.DeclRef != nil && os.DeclRef != nil {
		return s.DeclRef == os.DeclRef
	}
	return s.Ident == os.Ident
}
func (s *StructDenoter) IsCastableTo(target TypeDenoter) bool {
	switch t := target.getAliased().(type) {
	case *StructDenoter:
		return s.Equals(t)
	case *BaseDenoter:
		return t.Type.IsScalar()
	}
	return false
}

// ----------------------------------------------------------------------------
// Alias denoter
// ----------------------------------------------------------------------------

// AliasDenoter names a `typedef`/`using`-introduced alias. getAliased()
// follows it to the underlying denoter so equality/castability "ignores
// structural aliasing" as spec.md §3 requires.
type AliasDenoter struct {
	Ident   string
	DeclRef Named
	Aliased TypeDenoter // the underlying type, filled once resolved
}

func (a *AliasDenoter) SetIdentIfAnonymous(ident string) {
	if a.Ident == "" {
		a.Ident = ident
	}
}

func (a *AliasDenoter) String() string {
	if a.Aliased != nil {
		return a.Aliased.String()
	}
	return a.Ident
}
func (a *AliasDenoter) Kind() Kind { return KindAlias }
func (a *AliasDenoter) getAliased() TypeDenoter {
	if a.Aliased != nil {
		return a.Aliased.getAliased()
	}
	return a
}
func (a *AliasDenoter) isTypeDenoter() {}
func (a *AliasDenoter) Equals(o TypeDenoter) bool {
	return a.getAliased().Equals(o.getAliased())
}
func (a *AliasDenoter) IsCastableTo(target TypeDenoter) bool {
	return a.getAliased().IsCastableTo(target)
}

// ----------------------------------------------------------------------------
// Array denoter
// ----------------------------------------------------------------------------

// ArrayDim is a single array dimension. Size < 0 marks a dynamic
// (unbounded, e.g. structured-buffer) dimension.
type ArrayDim struct {
	Size int
}

// ArrayDenoter wraps a sub-type plus a flattened dimension list. Invariant
// (i): Sub is never itself an ArrayDenoter — NewArray flattens nested array
// dimensions into one list on construction.
type ArrayDenoter struct {
	Sub  TypeDenoter
	Dims []ArrayDim
}

// NewArray builds an ArrayDenoter, flattening Sub if it is itself an array
// (spec.md §3 invariant i: "arrays of arrays flatten their dimension list").
// Invariant (ii): when Sub is an Alias that resolves to an Array, its
// dimensions are composed into the result too.
func NewArray(sub TypeDenoter, dims []ArrayDim) *ArrayDenoter {
	resolved := sub
	if al, ok := sub.(*AliasDenoter); ok && al.Aliased != nil {
		resolved = al.Aliased
	}
	if inner, ok := resolved.(*ArrayDenoter); ok {
		combined := make([]ArrayDim, 0, len(dims)+len(inner.Dims))
		combined = append(combined, dims...)
		combined = append(combined, inner.Dims...)
		return &ArrayDenoter{Sub: inner.Sub, Dims: combined}
	}
	return &ArrayDenoter{Sub: sub, Dims: dims}
}

func (a *ArrayDenoter) String() string {
	var b strings.Builder
	b.WriteString(a.Sub.String())
	for _, d := range a.Dims {
		if d.Size < 0 {
			b.WriteString("[]")
		} else {
			fmt.Fprintf(&b, "[%d]", d.Size)
		}
	}
	return b.String()
}
func (a *ArrayDenoter) Kind() Kind              { return KindArray }
func (a *ArrayDenoter) getAliased() TypeDenoter { return a }
func (a *ArrayDenoter) isTypeDenoter()          {}
func (a *ArrayDenoter) Equals(o TypeDenoter) bool {
	oa, ok := o.getAliased().(*ArrayDenoter)
	if !ok || len(a.Dims) != len(oa.Dims) {
		return false
	}
	for i := range a.Dims {
		if a.Dims[i].Size != oa.Dims[i].Size {
			return false
		}
	}
	return a.Sub.Equals(oa.Sub)
}
func (a *ArrayDenoter) IsCastableTo(target TypeDenoter) bool {
	ta, ok := target.getAliased().(*ArrayDenoter)
	if !ok || len(a.Dims) != len(ta.Dims) {
		return false
	}
	return a.Sub.IsCastableTo(ta.Sub)
}

// GetSubArray strips n leading array dimensions, returning the sub-type
// (possibly still an array with the remaining dims, possibly Sub itself).
func (a *ArrayDenoter) GetSubArray(nIndices int) (TypeDenoter, error) {
	if nIndices > len(a.Dims) {
		return nil, fmt.Errorf("access error: cannot index %d dimensions into array of rank %d", nIndices, len(a.Dims))
	}
	if nIndices == len(a.Dims) {
		return a.Sub, nil
	}
	return &ArrayDenoter{Sub: a.Sub, Dims: a.Dims[nIndices:]}, nil
}

// ----------------------------------------------------------------------------
// Function denoter (overload set)
// ----------------------------------------------------------------------------

// FunctionDenoter names an overload set: every FunctionDecl sharing Ident.
// Candidates is an opaque slice of declaration back-references (typically
// *ast.FunctionDecl) so xtype need not import ast.
type FunctionDenoter struct {
	Ident      string
	Candidates []Named
}

func (f *FunctionDenoter) String() string { return f.Ident + "(...)" }
func (f *FunctionDenoter) Kind() Kind     { return KindFunction }
func (f *FunctionDenoter) getAliased() TypeDenoter { return f }
func (f *FunctionDenoter) isTypeDenoter() {}
func (f *FunctionDenoter) Equals(o TypeDenoter) bool {
	of, ok := o.getAliased().(*FunctionDenoter)
	return ok && f.Ident == of.Ident
}
func (f *FunctionDenoter) IsCastableTo(TypeDenoter) bool { return false }

// ----------------------------------------------------------------------------
// AccessError
// ----------------------------------------------------------------------------

// AccessError is returned by the Get* derivation helpers when an access
// expression (array index, member, swizzle) doesn't fit the type shape:
// dereferencing past array rank, subscripting a non-vector, member access
// on a non-struct.
type AccessError struct {
	Context string
}

func (e *AccessError) Error() string { return "access error: " + e.Context }

// GetSubObject resolves a struct-member lookup by name against members,
// a (name, TypeDenoter) association list supplied by the caller (the AST
// package owns StructDecl and knows its members; xtype stays decl-agnostic).
func GetSubObject(members []NamedMember, ident string) (TypeDenoter, error) {
	for _, m := range members {
		if m.Name == ident {
			return m.Type, nil
		}
	}
	return nil, &AccessError{Context: "no member named " + ident}
}

// NamedMember is a (name, type) pair, used by GetSubObject.
type NamedMember struct {
	Name string
	Type TypeDenoter
}

// ----------------------------------------------------------------------------
// FindCommonTypeDenoter
// ----------------------------------------------------------------------------

// MaxComponent clamps the common-component search so, e.g., a caller that
// wants to avoid ever producing `double` in GLSL-ES output can cap
// promotion at float.
var MaxComponent = ComponentDouble

func commonComponent(a, b BaseComponent) BaseComponent {
	oa, ob := componentOrder[a], componentOrder[b]
	hi := oa
	if ob > hi {
		hi = ob
	}
	max := componentOrder[MaxComponent]
	if hi > max {
		hi = max
	}
	for c, ord := range componentOrder {
		if ord == hi {
			return c
		}
	}
	return a
}

// FindCommonTypeDenoter implements spec.md §4.1's algorithm: the type two
// operands of a binary expression are promoted to before the operator
// applies.
//
//   - (Scalar,Scalar)  -> highest-order base, clamped at MaxComponent.
//   - (Scalar,Vector)  -> vector of common base at the vector's dimension.
//   - (Vector,Vector)  -> vector of common base at max (or min if useMinDim)
//     dimension.
//   - Matrix dimensions propagate element-wise.
//   - Otherwise falls back to lhs (the source system's behavior for
//     struct/buffer/sampler operands, which never reach a binary op that
//     needs a common type in valid HLSL).
func FindCommonTypeDenoter(lhs, rhs TypeDenoter, useMinDim bool) TypeDenoter {
	lb, lok := lhs.getAliased().(*BaseDenoter)
	rb, rok := rhs.getAliased().(*BaseDenoter)
	if !lok || !rok {
		return lhs
	}
	l, r := lb.Type, rb.Type

	switch {
	case l.IsScalar() && r.IsScalar():
		return NewBase(Scalar(commonComponent(l.Component, r.Component)))

	case l.IsScalar() && r.IsVector():
		return NewBase(Vec(commonComponent(l.Component, r.Component), r.Cols))
	case r.IsScalar() && l.IsVector():
		return NewBase(Vec(commonComponent(l.Component, r.Component), l.Cols))

	case l.IsVector() && r.IsVector():
		dim := l.Cols
		if (useMinDim && r.Cols < dim) || (!useMinDim && r.Cols > dim) {
			dim = r.Cols
		}
		return NewBase(Vec(commonComponent(l.Component, r.Component), dim))

	case l.IsMatrix() && r.IsMatrix():
		rows := l.Rows
		if (useMinDim && r.Rows < rows) || (!useMinDim && r.Rows > rows) {
			rows = r.Rows
		}
		cols := l.Cols
		if (useMinDim && r.Cols < cols) || (!useMinDim && r.Cols > cols) {
			cols = r.Cols
		}
		return NewBase(Mat(commonComponent(l.Component, r.Component), rows, cols))

	case l.IsScalar() && r.IsMatrix():
		return NewBase(Mat(commonComponent(l.Component, r.Component), r.Rows, r.Cols))
	case r.IsScalar() && l.IsMatrix():
		return NewBase(Mat(commonComponent(l.Component, r.Component), l.Rows, l.Cols))

	default:
		return lhs
	}
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// IsScalar, IsVector, IsMatrix inspect a TypeDenoter's underlying DataType,
// returning false for any non-Base denoter.
func IsScalar(t TypeDenoter) bool { return baseOf(t) != nil && baseOf(t).IsScalar() }
func IsVector(t TypeDenoter) bool { return baseOf(t) != nil && baseOf(t).IsVector() }
func IsMatrix(t TypeDenoter) bool { return baseOf(t) != nil && baseOf(t).IsMatrix() }

func baseOf(t TypeDenoter) *DataType {
	if t == nil {
		return nil
	}
	if b, ok := t.getAliased().(*BaseDenoter); ok {
		return &b.Type
	}
	return nil
}

// VectorElemType returns the per-component scalar denoter of a vector
// Base denoter, or nil if t is not a vector.
func VectorElemType(t TypeDenoter) TypeDenoter {
	b := baseOf(t)
	if b == nil || !b.IsVector() {
		return nil
	}
	return NewBase(Scalar(b.Component))
}
