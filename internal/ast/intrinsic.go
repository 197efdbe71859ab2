package ast

// Intrinsic enumerates the HLSL intrinsic function catalogue the rewrite
// passes consult (supplemented from original_source/.../ASTEnums.h's
// `Intrinsic` enum — see SPEC_FULL.md §4 "Supplemented features"). Only the
// subset the passes actually branch on is carried; this is not an
// exhaustive copy of every HLSL intrinsic name.
type Intrinsic uint16

const (
	IntrinsicNone Intrinsic = iota

	IntrinsicAbs
	IntrinsicSaturate
	IntrinsicLerp
	IntrinsicLit
	IntrinsicClip
	IntrinsicSinCos
	IntrinsicLog10
	IntrinsicMul

	IntrinsicTex1D
	IntrinsicTex2D
	IntrinsicTex2DLod
	IntrinsicTex3D
	IntrinsicTexCube

	IntrinsicLoad   // Buffer<T>/Texture.Load / StructuredBuffer::Load
	IntrinsicSample // Texture::Sample

	IntrinsicInterlockedAdd
	IntrinsicInterlockedAnd
	IntrinsicInterlockedOr
	IntrinsicInterlockedXor
	IntrinsicInterlockedMin
	IntrinsicInterlockedMax
	IntrinsicInterlockedExchange
	IntrinsicInterlockedCompareExchange

	IntrinsicStreamAppend // GeometryShader output stream .Append(v)

	IntrinsicGroupMemoryBarrierWithGroupSync
	IntrinsicAllMemoryBarrierWithGroupSync
)

// Name is used only for diagnostics and usedIntrinsics reports.
func (i Intrinsic) Name() string {
	names := map[Intrinsic]string{
		IntrinsicAbs: "abs", IntrinsicSaturate: "saturate", IntrinsicLerp: "lerp",
		IntrinsicLit: "lit", IntrinsicClip: "clip", IntrinsicSinCos: "sincos",
		IntrinsicLog10: "log10", IntrinsicMul: "mul",
		IntrinsicTex1D: "tex1D", IntrinsicTex2D: "tex2D", IntrinsicTex2DLod: "tex2Dlod",
		IntrinsicTex3D: "tex3D", IntrinsicTexCube: "texCUBE",
		IntrinsicLoad: "Load", IntrinsicSample: "Sample",
		IntrinsicInterlockedAdd: "InterlockedAdd", IntrinsicInterlockedAnd: "InterlockedAnd",
		IntrinsicInterlockedOr: "InterlockedOr", IntrinsicInterlockedXor: "InterlockedXor",
		IntrinsicInterlockedMin: "InterlockedMin", IntrinsicInterlockedMax: "InterlockedMax",
		IntrinsicInterlockedExchange: "InterlockedExchange", IntrinsicInterlockedCompareExchange: "InterlockedCompareExchange",
		IntrinsicStreamAppend: "Append",
		IntrinsicGroupMemoryBarrierWithGroupSync: "GroupMemoryBarrierWithGroupSync",
		IntrinsicAllMemoryBarrierWithGroupSync:    "AllMemoryBarrierWithGroupSync",
	}
	if n, ok := names[i]; ok {
		return n
	}
	return "intrinsic"
}

// IsAtomicOnImage reports whether this intrinsic is one of the
// InterlockedXxx operations the reference analyzer (C6) must flag as an
// image-read usage of its first argument buffer.
func (i Intrinsic) IsAtomicOnImage() bool {
	switch i {
	case IntrinsicInterlockedAdd, IntrinsicInterlockedAnd, IntrinsicInterlockedOr,
		IntrinsicInterlockedXor, IntrinsicInterlockedMin, IntrinsicInterlockedMax,
		IntrinsicInterlockedExchange, IntrinsicInterlockedCompareExchange:
		return true
	}
	return false
}

// IsImageLoad reports whether this intrinsic reads an RW buffer/texture by
// index (the other half of C6's image-read flagging rule).
func (i Intrinsic) IsImageLoad() bool { return i == IntrinsicLoad }
