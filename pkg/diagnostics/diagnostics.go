// Package diagnostics defines diagnostic types for lexical, syntax, validation and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
)

// Diagnostic code constants.
const (
	ELex       = "E_LEX"
	EParse     = "E_PARSE"
	EUnbound   = "E_UNBOUND"
	EUnknownFn = "E_UNKNOWN_FN"
	EFnDup     = "E_FN_DUP"
	EDupParam  = "E_DUP_PARAM"
	EArity     = "E_ARITY"
	EIndex     = "E_INDEX"
	EDivZero   = "E_DIV_ZERO"
	EType      = "E_TYPE"
	ENoValue   = "E_NO_VALUE"
	EBudget    = "E_BUDGET"
	ECanceled  = "E_CANCELED"
	EIO        = "E_IO"
)

// Diagnostic represents a lexical, syntax, validation, or runtime diagnostic.
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

// Location renders the diagnostic's source position as file:line:col.
func (d Diagnostic) Location() string {
	if d.Span == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", d.Span.File, d.Span.StartLine, d.Span.StartCol)
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	out := fmt.Sprintf("error[%s]: %s\n  --> %s", d.Code, d.Message, d.Location())
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
