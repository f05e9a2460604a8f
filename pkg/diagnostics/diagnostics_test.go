package diagnostics_test

import (
	"strings"
	"testing"

	"github.com/thomasrohde/lispy/pkg/ast"
	"github.com/thomasrohde/lispy/pkg/diagnostics"
)

func TestMakeDiag(t *testing.T) {
	span := &ast.Span{File: "test.lspy", StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5}
	d := diagnostics.MakeDiag(diagnostics.EParse, "unexpected token", span, "check syntax")

	if d.Code != diagnostics.EParse {
		t.Errorf("got Code = %q, want %q", d.Code, diagnostics.EParse)
	}
	if d.Message != "unexpected token" {
		t.Errorf("got Message = %q, want %q", d.Message, "unexpected token")
	}
}

func TestFormatDiagnosticPretty(t *testing.T) {
	span := &ast.Span{File: "test.lspy", StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 10}
	d := diagnostics.MakeDiag(diagnostics.EParse, "expected ')'", span, "close the s-expression")

	out := diagnostics.FormatDiagnostic(d, true)
	if !strings.Contains(out, "error[E_PARSE]") {
		t.Errorf("expected error code in output, got: %s", out)
	}
	if !strings.Contains(out, "test.lspy:3:5") {
		t.Errorf("expected location in output, got: %s", out)
	}
	if !strings.Contains(out, "hint:") {
		t.Errorf("expected hint in output, got: %s", out)
	}
}

func TestFormatDiagnosticJSON(t *testing.T) {
	d := diagnostics.MakeDiag(diagnostics.ELex, "bad token", nil, "")
	out := diagnostics.FormatDiagnostic(d, false)
	if !strings.Contains(out, `"code":"E_LEX"`) {
		t.Errorf("expected JSON code in output, got: %s", out)
	}
}

func TestSummary(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		diagnostics.MakeDiag(diagnostics.EParse, "expected ')'", &ast.Span{File: "a.lspy", StartLine: 2, StartCol: 4}, ""),
		diagnostics.MakeDiag(diagnostics.ELex, "unexpected character '#'", nil, ""),
	}
	got := diagnostics.Summary(diags)
	want := "a.lspy:2:4: expected ')'; unexpected character '#'"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
