// Package report implements the compiler's diagnostic system (spec.md §6/§7):
// the accumulated list of reports the pipeline's passes attach source-area
// information to, as distinct from internal (fatal) errors that abort the
// pipeline outright. Grounded closely on the teacher's internal/diagnostic
// package, renamed to this domain's error taxonomy (syntax, type, semantic,
// feature, internal — spec.md §7's table) instead of WGSL attribute/spec
// codes.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/xsc-go/xsc/internal/ast"
	"github.com/xsc-go/xsc/internal/srcpos"
)

// Severity classifies a report (spec.md §6: "kind: Error|Warning|Info").
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Code identifies the category of a report, grouped by spec.md §7's error
// taxonomy (Syntax / Type / Semantic / Feature / Internal).
type Code string

const (
	CodeUnexpectedToken     Code = "E0101"
	CodeUnterminatedString  Code = "E0102"
	CodeTooManyBadTokens    Code = "E0103"
	CodeIncompatibleCast    Code = "E0201"
	CodeArrayAccessOnScalar Code = "E0202"
	CodeMissingMember       Code = "E0203"
	CodeUnknownIdentifier   Code = "E0204"
	CodeMissingEntryPoint   Code = "E0301"
	CodeRecursiveCall       Code = "E0302"
	CodeInvalidControlPath  Code = "E0303"
	CodeUnmappedIntrinsic   Code = "E0304"
	CodeExtensionRequired   Code = "E0401"
	CodeFailedTextureDim    Code = "E0501"
)

// RelatedInfo attaches a secondary source span to a Report (spec.md §4.4's
// "hint for next report" slot, used by the reference analyzer to attach a
// call-stack trace to a RecursiveCall report).
type RelatedInfo struct {
	Area    ast.SourceArea
	Message string
}

// Report is one diagnostic entry: a severity, a stable code, a message and
// the source area it points at (spec.md §6's Reports shape).
type Report struct {
	Severity Severity
	Code     Code
	Message  string
	Area     ast.SourceArea
	Related  []RelatedInfo
}

func (r *Report) Error() string {
	return fmt.Sprintf("%s[%s]: %s", r.Severity, r.Code, r.Message)
}

// List accumulates reports produced while compiling one source file,
// rendering them against that file's line index on demand (spec.md §7:
// "Reports carry a source area... plus an optional offset marker"). This is
// the teacher's diagnostic.DiagnosticList, renamed.
type List struct {
	source    string
	lines     *srcpos.LineIndex
	reports   []*Report
	hasErrors bool
}

// NewList builds a List that will render positions against source.
func NewList(source string) *List {
	return &List{source: source, lines: srcpos.NewLineIndex(source)}
}

// Add appends a fully-built report.
func (l *List) Add(r *Report) {
	l.reports = append(l.reports, r)
	if r.Severity == Error {
		l.hasErrors = true
	}
}

// AddError appends an Error-severity report at area with code and message.
func (l *List) AddError(code Code, area ast.SourceArea, message string) {
	l.Add(&Report{Severity: Error, Code: code, Message: message, Area: area})
}

// AddErrorf is AddError with fmt.Sprintf-style formatting.
func (l *List) AddErrorf(code Code, area ast.SourceArea, format string, args ...any) {
	l.AddError(code, area, fmt.Sprintf(format, args...))
}

// AddWarning appends a Warning-severity report.
func (l *List) AddWarning(code Code, area ast.SourceArea, message string) {
	l.Add(&Report{Severity: Warning, Code: code, Message: message, Area: area})
}

// AddNote appends a Note-severity report, typically used as the last element
// of a Related slice rendered inline by Format.
func (l *List) AddNote(area ast.SourceArea, message string) {
	l.Add(&Report{Severity: Note, Code: "", Message: message, Area: area})
}

// AddRecursiveCall appends the spec's RecursiveCall diagnostic (spec.md §8's
// boundary case) with a single-node call-stack trace attached as Related.
func (l *List) AddRecursiveCall(fn *ast.FunctionDecl, callSite ast.SourceArea) {
	l.Add(&Report{
		Severity: Error,
		Code:     CodeRecursiveCall,
		Message:  fmt.Sprintf("function %q calls itself", fn.Ident.OriginalName),
		Area:     callSite,
		Related: []RelatedInfo{
			{Area: fn.Area(), Message: fmt.Sprintf("%q declared here", fn.Ident.OriginalName)},
		},
	})
}

// HasErrors reports whether any Error-severity report has been added.
func (l *List) HasErrors() bool { return l.hasErrors }

// Reports returns every accumulated report, in insertion order.
func (l *List) Reports() []*Report { return l.reports }

// Count returns the total number of reports of any severity.
func (l *List) Count() int { return len(l.reports) }

// ErrorCount returns the number of Error-severity reports.
func (l *List) ErrorCount() int {
	n := 0
	for _, r := range l.reports {
		if r.Severity == Error {
			n++
		}
	}
	return n
}

// SortByPosition orders reports by source offset, stable for equal offsets.
// The driver calls this before Format so multi-pass reports (accumulated
// out of source order across separate passes) read top-to-bottom.
func (l *List) SortByPosition() {
	sort.SliceStable(l.reports, func(i, j int) bool {
		return l.reports[i].Area.Offset < l.reports[j].Area.Offset
	})
}

// Format renders every accumulated report as a caret-annotated, human
// readable block (spec.md §7: "a caret under the span").
func (l *List) Format() string {
	var b strings.Builder
	for _, r := range l.reports {
		b.WriteString(l.FormatReport(r))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatReport renders a single report with its source line and a caret
// span underneath, followed by any related info lines.
func (l *List) FormatReport(r *Report) string {
	var b strings.Builder
	filename := r.Area.Filename
	if filename == "" {
		filename = "<input>"
	}
	line, col := l.lines.ByteOffsetToLineColumn(r.Area.Offset)
	if r.Code != "" {
		fmt.Fprintf(&b, "%s:%d:%d: %s[%s]: %s\n", filename, line, col, r.Severity, r.Code, r.Message)
	} else {
		fmt.Fprintf(&b, "%s:%d:%d: %s: %s\n", filename, line, col, r.Severity, r.Message)
	}
	if text, ok := l.sourceLine(line); ok {
		b.WriteString(text)
		b.WriteByte('\n')
		b.WriteString(caretLine(col, max(r.Area.Length, 1)))
		b.WriteByte('\n')
	}
	for _, rel := range r.Related {
		relLine, relCol := l.lines.ByteOffsetToLineColumn(rel.Area.Offset)
		fmt.Fprintf(&b, "  note: %s (%s:%d:%d)\n", rel.Message, filename, relLine, relCol)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *List) sourceLine(line int) (string, bool) {
	start := 0
	if line > 1 {
		start = l.lines.LineColumnToByteOffset(line, 1)
	}
	end := len(l.source)
	if line < l.lines.LineCount() {
		end = l.lines.LineColumnToByteOffset(line+1, 1) - 1
	}
	if start < 0 || start > len(l.source) || end < start {
		return "", false
	}
	if end > len(l.source) {
		end = len(l.source)
	}
	return strings.TrimRight(l.source[start:end], "\r\n"), true
}

func caretLine(col, length int) string {
	if col < 1 {
		col = 1
	}
	return strings.Repeat(" ", col-1) + "^" + strings.Repeat("~", length-1)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Internal wraps an implementation-bug error (spec.md §7's Internal kind:
// "Fatal; indicates an implementation bug") with a stack trace, distinct
// from the accumulated user-facing List above.
func Internal(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// WrapInternal annotates err with context and attaches a new stack trace
// (errors.Wrap records one on every call, even if err already carries one),
// for bugs surfaced from deep inside a pass (e.g. a walker stack
// underflow).
func WrapInternal(err error, context string) error {
	return errors.Wrap(err, context)
}
