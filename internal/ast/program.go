package ast

// ShaderStage identifies which pipeline stage a Program's entry point runs.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageGeometry
	StageTessControl // hull shader; may have a secondary patch-constant entry
	StageTessEval    // domain shader
	StageCompute
)

// FragmentLayout records fragment-stage-specific layout decisions (spec.md
// §4.4 step 4: "Mark ... fragCoordUsed true").
type FragmentLayout struct {
	FragCoordUsed bool
	EarlyDepthStencil bool
}

// VertexLayout records vertex-stage-specific layout decisions: the
// semantic->location table the code generator needs (spec.md §6
// ShaderOutput.vertexSemantics).
type VertexLayout struct {
	InputSemanticLocations map[string]int
}

// ComputeLayout records the declared local work-group size.
type ComputeLayout struct {
	LocalSizeX, LocalSizeY, LocalSizeZ int
}

// MatrixSubscriptKey identifies one distinct matrix-subscript access shape
// (e.g. `_m12_m21`) so C13 only emits one wrapper function per shape used
// (spec.md §8 boundary case: "Matrix subscript ... generates a wrapper").
type MatrixSubscriptKey struct {
	// Indices is the flattened (row,col) pair list in source order, e.g.
	// m._m12_m21 -> [(1,2),(2,1)].
	Indices [][2]int
}

// IntrinsicUsage records every distinct argument-type signature an
// intrinsic was called with (spec.md §4.4: "records program.usedIntrinsics
// with the argument-list type signatures observed per intrinsic").
type IntrinsicUsage struct {
	Signatures [][]string // each entry is one call's rendered argument type list
}

// Program is the root AST node (spec.md §3 Top family).
type Program struct {
	base

	GlobalStmts []Stmt

	EntryPointRef  *FunctionDecl
	SecondaryEntryPointRef *FunctionDecl // tessellation patch-constant function
	Stage          ShaderStage

	UsedIntrinsics map[Intrinsic]*IntrinsicUsage
	UsedMatrixSubscripts map[string]MatrixSubscriptKey

	FragmentLayout FragmentLayout
	VertexLayout   VertexLayout
	ComputeLayout  ComputeLayout

	// UniformBuffer is the single packed constant-buffer block C12
	// inserts the first time it moves a loose uniform global (spec.md
	// §4.10: "inserted once, at the first conversion site, and reused
	// afterwards").
	UniformBuffer *UniformBufferDecl

	// disabled holds decls moved out of GlobalStmts (dead code, elided
	// sampler states) so existing back-references stay valid until the end
	// of compilation (spec.md §3 "Lifecycle").
	disabled []Decl
}

// NewProgram constructs an empty Program ready for the pipeline.
func NewProgram() *Program {
	return &Program{
		UsedIntrinsics:       make(map[Intrinsic]*IntrinsicUsage),
		UsedMatrixSubscripts: make(map[string]MatrixSubscriptKey),
	}
}

// Disable moves d into the disabled bag. Passes call this instead of
// dropping a decl on the floor so any surviving non-owning back-reference
// (e.g. a SamplerDecl a CallExpr still names) remains a valid pointer.
func (p *Program) Disable(d Decl) { p.disabled = append(p.disabled, d) }

// Disabled returns the decls moved out of the live tree so far.
func (p *Program) Disabled() []Decl { return p.disabled }

// RecordIntrinsicUsage appends one observed argument-type signature for
// intrinsic (spec.md §4.4 algorithm step 1), unless an equal signature is
// already recorded.
func (p *Program) RecordIntrinsicUsage(i Intrinsic, argTypes []string) {
	u, ok := p.UsedIntrinsics[i]
	if !ok {
		u = &IntrinsicUsage{}
		p.UsedIntrinsics[i] = u
	}
	for _, sig := range u.Signatures {
		if sameSignature(sig, argTypes) {
			return
		}
	}
	u.Signatures = append(u.Signatures, argTypes)
}

func sameSignature(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RecordMatrixSubscript records one distinct matrix-subscript access shape
// under a stable wrapper-function name (spec.md §8 boundary case).
func (p *Program) RecordMatrixSubscript(wrapperName string, key MatrixSubscriptKey) {
	if _, ok := p.UsedMatrixSubscripts[wrapperName]; !ok {
		p.UsedMatrixSubscripts[wrapperName] = key
	}
}
