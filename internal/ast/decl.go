package ast

import "github.com/xsc-go/xsc/internal/xtype"

// Decl is any top-level or block-scoped declaration.
type Decl interface {
	Node
	isDecl()
	DeclIdent() string // satisfies xtype.Named for back-references
}

// Node is the common surface every AST node (decl, stmt, expr) implements.
type Node interface {
	Area() SourceArea
	GetFlags() Flags
	SetFlags(Flags)
}

type base struct {
	area  SourceArea
	flags Flags
}

func (b *base) Area() SourceArea  { return b.area }
func (b *base) GetFlags() Flags   { return b.flags }
func (b *base) SetFlags(f Flags)  { b.flags = f }

// VarDecl declares a local or global variable.
type VarDecl struct {
	base
	Ident       Identifier
	TypeDen     xtype.TypeDenoter
	IsUniform   bool
	Semantic    *IndexedSemantic
	Initializer Expr // nil if none

	// DeclStmtRef is the owning VarDeclStmt (non-owning back-reference,
	// spec.md §3 "Relationships and ownership").
	DeclStmtRef *VarDeclStmt
}

func (*VarDecl) isDecl()              {}
func (v *VarDecl) DeclIdent() string  { return v.Ident.OriginalName }

// BufferDecl declares a texture/structured/byte-address buffer object.
type BufferDecl struct {
	base
	Ident       Identifier
	TypeDen     *xtype.BufferDenoter
	RegisterSlot int
	HasRegister  bool

	BufferDeclRef *BufferDecl // canonicalized instance after uniform packing, if moved
}

func (*BufferDecl) isDecl()             {}
func (b *BufferDecl) DeclIdent() string { return b.Ident.OriginalName }

// SamplerDecl declares a SamplerState/SamplerComparisonState object. GLSL
// conversion elides these (spec.md §4.11 step 3) but the node survives in
// the disabled-AST bag so any surviving back-reference stays valid.
type SamplerDecl struct {
	base
	Ident   Identifier
	TypeDen *xtype.SamplerDenoter
}

func (*SamplerDecl) isDecl()             {}
func (s *SamplerDecl) DeclIdent() string { return s.Ident.OriginalName }

// StructMember is a single field of a StructDecl.
type StructMember struct {
	Ident    Identifier
	TypeDen  xtype.TypeDenoter
	Semantic *IndexedSemantic
}

// StructDecl declares a struct type.
type StructDecl struct {
	base
	Ident   Identifier
	Members []StructMember

	// Member functions lowered to free functions by C13 step 3; kept here
	// until lowering completes so C7's "struct declares member functions"
	// rule has something to observe.
	MemberFuncs []*FunctionDecl

	BaseStructRef *StructDecl // non-nil for `struct Derived : Base`

	// CompatibleStructRef names a GLSL-friendly replacement struct whose
	// members line up positionally with this one (spec.md GLOSSARY
	// "Compatible struct"); ConvertCompatibleStructs rebinds member access
	// through it.
	CompatibleStructRef *StructDecl
}

func (*StructDecl) isDecl()             {}
func (s *StructDecl) DeclIdent() string { return s.Ident.OriginalName }

// IsEmpty reports whether the struct has zero data members (GLSL forbids
// empty structs; C13 step 3 gives it a dummy int field).
func (s *StructDecl) IsEmpty() bool { return len(s.Members) == 0 }

// AliasDecl declares a type alias (`typedef`/`using`).
type AliasDecl struct {
	base
	Ident   Identifier
	TypeDen xtype.TypeDenoter
}

func (*AliasDecl) isDecl()             {}
func (a *AliasDecl) DeclIdent() string { return a.Ident.OriginalName }

// Parameter is a single FunctionDecl parameter.
type Parameter struct {
	Ident     Identifier
	TypeDen   xtype.TypeDenoter
	IsUniform bool
	Semantic  *IndexedSemantic
	IsInOut   bool
}

// FunctionDecl declares a function (free function or struct member
// function before C10/C13 lowering).
type FunctionDecl struct {
	base
	Ident      Identifier
	Params     []Parameter
	ReturnType xtype.TypeDenoter
	ReturnSemantic *IndexedSemantic
	Body       *CodeBlockStmt // nil for a forward declaration

	// StructOwnerRef is non-nil for a (not yet lowered) member function.
	StructOwnerRef *StructDecl

	// FuncImplRef/FuncForwardDeclRefs implement the forward-decl <-> impl
	// back-reference pair (spec.md §3 "Relationships and ownership").
	FuncImplRef         *FunctionDecl
	FuncForwardDeclRefs []*FunctionDecl
}

func (*FunctionDecl) isDecl()             {}
func (f *FunctionDecl) DeclIdent() string { return f.Ident.OriginalName }

// IsEntryPoint reports the flag-backed entry-point marker.
func (f *FunctionDecl) IsEntryPoint() bool { return f.GetFlags().Has(FlagIsEntryPoint) }

// UniformBufferDecl is a constant-buffer block; synthesized by C12 from
// loose `uniform` globals, or present verbatim from `cbuffer`.
type UniformBufferDecl struct {
	base
	Ident     Identifier
	Binding   int
	HasBinding bool
	Members   []*VarDecl
}

func (*UniformBufferDecl) isDecl()             {}
func (u *UniformBufferDecl) DeclIdent() string { return u.Ident.OriginalName }
