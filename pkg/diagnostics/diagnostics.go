// Package diagnostics defines Lispy diagnostic codes and types for reader and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomasrohde/lispy/pkg/ast"
)

// Diagnostic code constants. Reader codes come first, then the codes carried
// by first-class Error values.
const (
	ELex   = "E_LEX"
	EParse = "E_PARSE"
	EIO    = "E_IO"

	EUnbound     = "E_UNBOUND"
	EType        = "E_TYPE"
	EArity       = "E_ARITY"
	EEmpty       = "E_EMPTY"
	EDivZero     = "E_DIV_ZERO"
	EStructField = "E_STRUCT_FIELD"
	ERestParam   = "E_REST_PARAM"
	EUser        = "E_USER"
)

// Diagnostic represents a reader or runtime diagnostic.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    *ast.Span `json:"span,omitempty"`
	Hint    string    `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *ast.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// Summary joins the messages of diags on one line, prefixed with their
// location when known. Used where a diagnostic has to fit in an Error value.
func Summary(diags []Diagnostic) string {
	msgs := make([]string, len(diags))
	for i, d := range diags {
		if d.Span != nil {
			msgs[i] = fmt.Sprintf("%s:%d:%d: %s", d.Span.File, d.Span.StartLine, d.Span.StartCol, d.Message)
		} else {
			msgs[i] = d.Message
		}
	}
	return strings.Join(msgs, "; ")
}
