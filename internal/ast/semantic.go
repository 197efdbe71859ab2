package ast

// Semantic enumerates HLSL semantics: user-defined names are carried as
// literal strings elsewhere, everything pipeline-fixed gets a tag here so
// the passes can switch on it without string comparison.
type Semantic uint8

const (
	SemanticUndefined Semantic = iota
	SemanticUserDefined

	// Vertex shader input/output.
	SemanticPosition
	SemanticNormal
	SemanticTexCoord
	SemanticColor

	// System-value semantics (one-to-one with a GLSL built-in).
	SemanticSVPosition
	SemanticSVTarget
	SemanticSVDepth
	SemanticSVVertexID
	SemanticSVInstanceID
	SemanticSVIsFrontFace
	SemanticSVPrimitiveID
	SemanticSVDispatchThreadID
	SemanticSVGroupID
	SemanticSVGroupThreadID
	SemanticSVGroupIndex
	SemanticSVClipDistance
	SemanticSVCullDistance
	SemanticSVSampleIndex
	SemanticSVStencilRef
	SemanticSVCoverage
	// Tessellation.
	SemanticSVTessFactor
	SemanticSVInsideTessFactor
	SemanticSVDomainLocation
	SemanticSVOutputControlPointID
)

// IsSystemValue reports whether s maps one-to-one to a GLSL built-in
// (spec.md GLOSSARY: "System value (SV) semantic").
func (s Semantic) IsSystemValue() bool {
	return s >= SemanticSVPosition
}

// systemValueGLSLNames maps every SV_* semantic except SemanticSVTarget to
// the built-in GLSL identifier it becomes; SemanticSVTarget has no entry, so
// GLSLBuiltinName reports ok=false for it and VarName renders it like a
// non-system-value semantic. FragCoordUsed-style bookkeeping (C6) keys off
// SemanticSVPosition specifically when it appears in fragment-stage input.
var systemValueGLSLNames = map[Semantic]string{
	SemanticSVPosition:              "gl_Position", // vertex-stage output; gl_FragCoord on fragment-stage input, resolved by the caller's stage
	SemanticSVDepth:                 "gl_FragDepth",
	SemanticSVVertexID:              "gl_VertexID",
	SemanticSVInstanceID:            "gl_InstanceID",
	SemanticSVIsFrontFace:           "gl_FrontFacing",
	SemanticSVPrimitiveID:           "gl_PrimitiveID",
	SemanticSVDispatchThreadID:      "gl_GlobalInvocationID",
	SemanticSVGroupID:               "gl_WorkGroupID",
	SemanticSVGroupThreadID:         "gl_LocalInvocationID",
	SemanticSVGroupIndex:            "gl_LocalInvocationIndex",
	SemanticSVClipDistance:          "gl_ClipDistance",
	SemanticSVCullDistance:          "gl_CullDistance",
	SemanticSVSampleIndex:           "gl_SampleID",
	SemanticSVStencilRef:            "gl_FragStencilRefARB",
	SemanticSVCoverage:              "gl_SampleMask",
	SemanticSVTessFactor:            "gl_TessLevelOuter",
	SemanticSVInsideTessFactor:      "gl_TessLevelInner",
	SemanticSVDomainLocation:        "gl_TessCoord",
	SemanticSVOutputControlPointID:  "gl_InvocationID",
}

// GLSLBuiltinName returns the fixed GLSL built-in identifier for a system
// value semantic, and ok=false for a user-defined semantic (which must
// instead be mangled via IndexedSemantic.VarName).
func (s Semantic) GLSLBuiltinName() (string, bool) {
	name, ok := systemValueGLSLNames[s]
	return name, ok
}

// IndexedSemantic pairs a Semantic with its numeric index (e.g. TEXCOORD1
// -> {SemanticTexCoord, 1}) and, for user-defined names, the raw source
// text.
type IndexedSemantic struct {
	Kind     Semantic
	Index    int
	RawName  string // source spelling; VarName uses it for every kind without a GLSL built-in
}

// VarName renders the GLSL-side variable name for a user semantic:
// `<prefix><SEMANTIC><INDEX>`, except that a SemanticUserDefined semantic
// with index 0 omits the index. System-value semantics ignore the prefix
// entirely and use their fixed built-in name.
func (s IndexedSemantic) VarName(prefix string) string {
	if name, ok := s.Kind.GLSLBuiltinName(); ok {
		return name
	}
	name := s.RawName
	if name == "" {
		name = "USERSEMANTIC"
	}
	if s.Index > 0 || s.Kind != SemanticUserDefined {
		return prefix + name + itoa(s.Index)
	}
	return prefix + name
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
