package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/parser"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/stdlib"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/validator"
)

// helper parses source and validates, returning diagnostics from validation only.
// It fails on parse errors so test cases focus on validator behavior.
func mustParseAndValidate(t *testing.T, source string) []diagnostics.Diagnostic {
	t.Helper()
	prog, parseErrs := parser.Parse(source, "test.lpi")
	require.Empty(t, parseErrs, "unexpected parse error")
	return validator.Validate(prog, stdlib.Default().Arities())
}

func codes(diags []diagnostics.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestValidPrograms(t *testing.T) {
	programs := []string{
		"x = 2 + 3 * 4; print x;",
		"a = new int[3]; a[1] = 5; print len(a);",
		"print f(2); f(n) { returnVal n * 2; }",
		"f(n) { if (n > 0) { returnVal f(n - 1); } returnVal 0; } f(3);",
		"if (1) { g(a) { returnVal a; } } else { g(a, b) { returnVal b; } } print g(1); print g(1, 2);",
		"x = new float[2]; print sqrt(abs(min(1, max(2, 3))));",
		"print y;",
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			diags := mustParseAndValidate(t, src)
			assert.Empty(t, diags, strings.Join(codes(diags), ", "))
		})
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		codes   []string
		message string
	}{
		{"unknown function", "foo(1);", []string{diagnostics.EUnknownFn}, "unknown function 'foo'"},
		{"user arity", "f(a) { returnVal a; } print f(1, 2);", []string{diagnostics.EArity}, "expects 1 argument(s), got 2"},
		{"native arity", "print max(1);", []string{diagnostics.EArity}, "expects 2 argument(s), got 1"},
		{"duplicate param", "f(a, a) { returnVal a; }", []string{diagnostics.EDupParam}, "duplicate parameter 'a'"},
		{"shadow native", "sqrt(x) { returnVal x; }", []string{diagnostics.EFnDup}, "shadow a native"},
		{"duplicate def", "f() { print 1; } f() { print 2; }", []string{diagnostics.EFnDup}, "duplicate definition of function 'f'"},
		{"bad element type", "a = new bool[2];", []string{diagnostics.EType}, "unknown element type 'bool'"},
		{"nested unknown", "while (1) { if (bar() > 1) { print 1; } }", []string{diagnostics.EUnknownFn}, "'bar'"},
		{"several", "foo(); a = new str[1]; print len(a, a);", []string{diagnostics.EUnknownFn, diagnostics.EType, diagnostics.EArity}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := mustParseAndValidate(t, tt.source)
			assert.Equal(t, tt.codes, codes(diags))
			if tt.message != "" {
				require.NotEmpty(t, diags)
				assert.Contains(t, diags[0].Message, tt.message)
			}
			for _, d := range diags {
				assert.NotNil(t, d.Span)
			}
		})
	}
}

func TestUnknownFunctionHint(t *testing.T) {
	diags := mustParseAndValidate(t, "print LEN(new int[1]);")
	require.Len(t, diags, 1)
	assert.Equal(t, "did you mean 'len'?", diags[0].Hint)
}

func TestArityAcrossDefinitions(t *testing.T) {
	diags := mustParseAndValidate(t, "if (1) { g(a) { returnVal a; } } else { g(a, b) { returnVal b; } } print g();")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "expects 1 or 2 argument(s), got 0")
}

func TestValidateStructureLeavesCallsToRuntime(t *testing.T) {
	prog, parseErrs := parser.Parse("print twice(3); f() { print 1; } f() { print 2; } sqrt(x) { returnVal x; }", "test.lpi")
	require.Empty(t, parseErrs)
	assert.Empty(t, validator.ValidateStructure(prog))
	assert.Len(t, validator.Validate(prog, stdlib.Default().Arities()), 3)

	prog, parseErrs = parser.Parse("g(a, a) { returnVal a; } b = new str[2];", "test.lpi")
	require.Empty(t, parseErrs)
	assert.Equal(t, []string{diagnostics.EDupParam, diagnostics.EType}, codes(validator.ValidateStructure(prog)))
}
