// Package shadercc is the public, programmatic entry point for the
// converter (spec.md §6 "External Interfaces"): it wraps C13's Driver and
// the layout reflection query behind a small Options/Result pair, the way
// the teacher's pkg/api wraps its minifier.Minifier.
//
// This package deliberately accepts an already-parsed *ast.Program rather
// than raw source text: spec.md's component list (§1-§4) runs from C1
// (xtype) through C13 (this driver's consumer); no lexer or parser is named
// anywhere in it, and §4.12 explicitly places the code generator (and, by
// the same boundary, the scanner/parser that produce a Program in the
// first place) out of scope ("Its contract is purely textual and out of
// scope"). Callers that already own a front end hand this package the
// Program it produced; this package's job starts at C9/C8 and ends at C11.
package shadercc

import (
	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/glslconvert"
	"github.com/xsc-go/xsc/internal/layout"
)

// Options controls conversion behavior. It mirrors glslconvert.Options
// field for field, the way the teacher's api.MinifyOptions mirrors
// minifier.Options, so callers of this package never need to import the
// internal package directly.
type Options struct {
	Family           glslconvert.ShaderFamily
	Version          int
	Obfuscate        bool
	UnrollArrayInits bool

	Mangling ast.ManglingSettings

	UniformBufferName    string
	UniformBufferBinding int
}

func (o Options) toDriverOptions() glslconvert.Options {
	return glslconvert.Options{
		Family:               o.Family,
		Version:              o.Version,
		Obfuscate:            o.Obfuscate,
		UnrollArrayInits:     o.UnrollArrayInits,
		Mangling:             o.Mangling,
		UniformBufferName:    o.UniformBufferName,
		UniformBufferBinding: o.UniformBufferBinding,
	}
}

// DefaultOptions returns GLSL 420 with the standard mangling prefixes,
// unroll disabled — the same defaults config.Config.ToOptions falls back
// to when no config file is present.
func DefaultOptions() Options {
	return Options{
		Family:   glslconvert.FamilyGLSL,
		Version:  420,
		Mangling: ast.DefaultManglingSettings(),
	}
}

// Result is what one conversion run produced: the error list collected by
// the driver's passes, plus an interface reflection dump of the now-GLSL
// program (spec.md §6's "AST as interface" query), mirroring the
// Code/Errors/sizes shape of the teacher's api.MinifyResult.
type Result struct {
	Errors     []error
	Reflection layout.ProgramReflection
}

// HasErrors reports whether any pass returned an error.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// Convert runs the full C13 pipeline against p in place and reflects the
// resulting interface. p is mutated; callers that need the pre-conversion
// tree must clone it first.
func Convert(p *ast.Program, opts Options) Result {
	driver := glslconvert.New(opts.toDriverOptions())
	errs := driver.Run(p)
	return Result{
		Errors:     errs,
		Reflection: layout.Reflect(p),
	}
}

// ConvertDefault runs Convert with DefaultOptions, for callers that don't
// need to pick a target GLSL version or mangling scheme.
func ConvertDefault(p *ast.Program) Result {
	return Convert(p, DefaultOptions())
}

// Reflect exposes layout.Reflect directly, for callers that already ran
// Convert and only want to re-inspect the interface (e.g. after hand-editing
// the tree for a secondary entry point).
func Reflect(p *ast.Program) layout.ProgramReflection {
	return layout.Reflect(p)
}
