package ast

// Flags is a bitset of analysis results and structural markers attached to
// every AST node (spec.md §3). Not every flag applies to every node kind;
// passes only set the flags documented for the node they visit.
type Flags uint32

const (
	// FlagIsReachable marks a decl reachable from an entry point (C6).
	FlagIsReachable Flags = 1 << iota
	// FlagIsUsed marks any node consulted during analysis (general purpose).
	FlagIsUsed
	// FlagIsDeadCode marks a statement proven unreachable (C11).
	FlagIsDeadCode
	// FlagIsWrittenTo marks a variable/expression written to via assignment
	// or call-out argument (C6).
	FlagIsWrittenTo

	// FlagIsEntryPoint marks the FunctionDecl chosen as the shader stage
	// entry point (primary or secondary/patch-constant).
	FlagIsEntryPoint
	// FlagIsStatic marks a static member function/variable.
	FlagIsStatic
	// FlagIsDynamicArray marks an array dimension left unbounded ("[]").
	FlagIsDynamicArray
	// FlagWasConverted marks a node a rewrite pass has already transformed,
	// so a later pass doesn't re-rewrite it.
	FlagWasConverted
	// FlagCanInlineIntrinsicWrapper marks an intrinsic call whose generated
	// wrapper function may be inlined at the call site instead of emitted
	// as a free function.
	FlagCanInlineIntrinsicWrapper
	// FlagIsShaderInput marks a semantic-bearing entry-point parameter/field
	// read from a GLSL `in` variable or built-in.
	FlagIsShaderInput
	// FlagIsShaderOutput marks a semantic-bearing entry-point return
	// value/field written to a GLSL `out` variable or built-in.
	FlagIsShaderOutput
	// FlagIsSV marks a semantic as a system-value (SV_*) semantic.
	FlagIsSV
	// FlagIsNonEntryPointParam marks a StructDecl used somewhere other than
	// purely as an entry-point parameter container (C7).
	FlagIsNonEntryPointParam
	// FlagIsBaseMember marks a StructDecl member synthesized to hold a base
	// struct instance during inheritance lowering (C13 step 3).
	FlagIsBaseMember
	// FlagIsSelfParameter marks the synthesized `self` parameter inserted
	// when a member function is lowered to a free function (C13 step 3).
	FlagIsSelfParameter
	// FlagIsImmutable marks a variable that is never written to after
	// initialization (used by the optimizer to fold more aggressively).
	FlagIsImmutable
	// FlagHasNonReturnControlPath marks a function in which at least one
	// control path falls off the end without a return statement.
	FlagHasNonReturnControlPath
	// FlagIsEndOfFunction marks the synthetic statement position inserted
	// at the end of a function body (entry-point wrapping bookkeeping).
	FlagIsEndOfFunction
	// FlagIsReadForImage marks an RW buffer/texture read through a Load or
	// Interlocked* intrinsic (C6), as opposed to written through only.
	FlagIsReadForImage
)

// Has reports whether flag is set.
func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// Set returns f with flag set.
func (f Flags) Set(flag Flags) Flags { return f | flag }

// Clear returns f with flag cleared.
func (f Flags) Clear(flag Flags) Flags { return f &^ flag }

// ExprFlags is the lighter-weight flag set carried specifically by
// expressions in addition to Flags (kept distinct because expressions also
// carry a lazily-computed, resettable type cache — see typeCache in
// expr.go).
type ExprFlags = Flags
