package report

import (
	"strings"
	"testing"

	"github.com/xsc-go/xsc/internal/ast"
)

func TestAddErrorSetsHasErrors(t *testing.T) {
	l := NewList("float x = 1;")
	if l.HasErrors() {
		t.Fatalf("expected no errors initially")
	}
	l.AddError(CodeUnknownIdentifier, ast.SourceArea{Offset: 6, Length: 1}, "unknown identifier")
	if !l.HasErrors() {
		t.Errorf("expected HasErrors true after an Error report")
	}
	if l.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", l.ErrorCount())
	}
}

func TestAddWarningDoesNotSetHasErrors(t *testing.T) {
	l := NewList("float x = 1;")
	l.AddWarning(CodeExtensionRequired, ast.SourceArea{Offset: 0, Length: 5}, "needs an extension")
	if l.HasErrors() {
		t.Errorf("expected warnings not to count as errors")
	}
	if l.Count() != 1 {
		t.Errorf("expected 1 report total, got %d", l.Count())
	}
}

func TestFormatReportIncludesSourceLineAndCaret(t *testing.T) {
	src := "float x = y;\n"
	l := NewList(src)
	l.AddError(CodeUnknownIdentifier, ast.SourceArea{Offset: 10, Length: 1}, "unknown identifier 'y'")
	out := l.FormatReport(l.Reports()[0])
	if !strings.Contains(out, "float x = y;") {
		t.Errorf("expected the offending source line in output, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret marker, got %q", out)
	}
	if !strings.Contains(out, "1:11") {
		t.Errorf("expected position 1:11, got %q", out)
	}
}

func TestSortByPositionOrdersReports(t *testing.T) {
	l := NewList("abcdefghij")
	l.AddError(CodeUnknownIdentifier, ast.SourceArea{Offset: 8}, "second")
	l.AddError(CodeUnknownIdentifier, ast.SourceArea{Offset: 2}, "first")
	l.SortByPosition()
	if l.Reports()[0].Message != "first" {
		t.Errorf("expected reports sorted by offset, got %v", l.Reports())
	}
}

func TestAddRecursiveCallAttachesRelatedInfo(t *testing.T) {
	fn := &ast.FunctionDecl{Ident: ast.NewIdentifier("f")}
	l := NewList("void f(){ f(); }")
	l.AddRecursiveCall(fn, ast.SourceArea{Offset: 10, Length: 3})
	r := l.Reports()[0]
	if r.Code != CodeRecursiveCall {
		t.Errorf("expected CodeRecursiveCall, got %s", r.Code)
	}
	if len(r.Related) != 1 {
		t.Fatalf("expected a single related-info stack entry, got %d", len(r.Related))
	}
}

func TestInternalWrapsWithStackTrace(t *testing.T) {
	err := Internal("walker stack underflow at %s", "node")
	if err == nil || !strings.Contains(err.Error(), "walker stack underflow") {
		t.Errorf("expected the formatted message preserved, got %v", err)
	}
}
