package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/parser"
)

// helper: parse source and assert no diagnostics
func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, diags := parser.Parse(source, "test.lpi")
	require.Empty(t, diags, "unexpected diagnostics")
	require.NotNil(t, prog)
	return prog
}

// helper: parse source and return the single diagnostic
func mustFail(t *testing.T, source string) diagnostics.Diagnostic {
	t.Helper()
	prog, diags := parser.Parse(source, "test.lpi")
	require.Nil(t, prog)
	require.Len(t, diags, 1, "parse stops at the first error")
	return diags[0]
}

func statements(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	return mustParse(t, source).Body.List.Statements
}

// helper: unwrap an E holding exactly one primary
func singlePrimary(t *testing.T, e *ast.E) ast.Primary {
	t.Helper()
	require.Len(t, e.Terms, 1)
	require.Len(t, e.Terms[0].Factors, 1)
	return e.Terms[0].Factors[0]
}

func TestAssignmentPrecedence(t *testing.T) {
	stmts := statements(t, "x = 2 + 3 * 4;")
	require.Len(t, stmts, 1)
	a, ok := stmts[0].(*ast.Assignment)
	require.True(t, ok, "got %T", stmts[0])
	assert.Equal(t, "x", a.Name)
	assert.Nil(t, a.Index)

	require.Len(t, a.Value.Terms, 2)
	assert.Equal(t, []ast.ArithOp{ast.OpAdd}, a.Value.Ops)
	mul := a.Value.Terms[1]
	require.Len(t, mul.Factors, 2)
	assert.Equal(t, []ast.ArithOp{ast.OpMul}, mul.Ops)
}

func TestLeftAssociativeChains(t *testing.T) {
	stmts := statements(t, "x = 8 - 2 - 1; y = 8 / 2 * 3;")
	x := stmts[0].(*ast.Assignment)
	assert.Equal(t, []ast.ArithOp{ast.OpSub, ast.OpSub}, x.Value.Ops)
	y := stmts[1].(*ast.Assignment)
	require.Len(t, y.Value.Terms, 1)
	assert.Equal(t, []ast.ArithOp{ast.OpDiv, ast.OpMul}, y.Value.Terms[0].Ops)
}

func TestLiterals(t *testing.T) {
	stmts := statements(t, "print 42; print 2.5; print 1.0e2;")
	i := singlePrimary(t, stmts[0].(*ast.Print).Value).(*ast.IntLiteral)
	assert.Equal(t, int64(42), i.Value)
	f := singlePrimary(t, stmts[1].(*ast.Print).Value).(*ast.FloatLiteral)
	assert.Equal(t, 2.5, f.Value)
	e := singlePrimary(t, stmts[2].(*ast.Print).Value).(*ast.FloatLiteral)
	assert.Equal(t, 100.0, e.Value)
	assert.Equal(t, "1.0e2", e.Text)
}

func TestArrayStatements(t *testing.T) {
	stmts := statements(t, "a = new int[3]; a[1] = 5; print a[1];")
	require.Len(t, stmts, 3)

	alloc := singlePrimary(t, stmts[0].(*ast.Assignment).Value).(*ast.NewArray)
	assert.Equal(t, "int", alloc.ElemType)

	store := stmts[1].(*ast.Assignment)
	require.NotNil(t, store.Index)
	assert.Equal(t, "a", store.Name)

	load := singlePrimary(t, stmts[2].(*ast.Print).Value).(*ast.ArrayAccess)
	assert.Equal(t, "a", load.Name)
}

func TestIfElse(t *testing.T) {
	stmts := statements(t, "if (x < 1) { print 1; } else { print 2; print 3; }")
	s := stmts[0].(*ast.If)
	cond := s.Cond.(*ast.BoolPrimary)
	assert.Equal(t, ast.OpLt, cond.Op)
	assert.Len(t, s.Then.List.Statements, 1)
	require.NotNil(t, s.Else)
	assert.Len(t, s.Else.List.Statements, 2)

	noElse := statements(t, "if (1 == 2) { print 1; }")[0].(*ast.If)
	assert.Nil(t, noElse.Else)
}

func TestWhile(t *testing.T) {
	stmts := statements(t, "x = 1; while (x < 4) { print x; x = x + 1; }")
	require.Len(t, stmts, 2)
	w := stmts[1].(*ast.While)
	assert.Len(t, w.Body.List.Statements, 2)
}

func TestConditionWithoutComparison(t *testing.T) {
	s := statements(t, "while (n) { n = n - 1; }")[0].(*ast.While)
	bp := s.Cond.(*ast.BoolPrimary)
	assert.Empty(t, bp.Op)
	assert.Nil(t, bp.Right)
}

func TestBooleanConnectives(t *testing.T) {
	s := statements(t, "if (a < 1 || b < 2 && !c == 3) { print 1; }")[0].(*ast.If)
	or := s.Cond.(*ast.Logical)
	assert.Equal(t, ast.OpOr, or.Op)
	and := or.Right.(*ast.Logical)
	assert.Equal(t, ast.OpAnd, and.Op)
	not := and.Right.(*ast.Not)
	assert.Equal(t, ast.OpEq, not.Operand.(*ast.BoolPrimary).Op)
}

func TestFunctionCalls(t *testing.T) {
	stmts := statements(t, "f(); g(1, x + 2); y = h(a[0]) * 2;")
	f := stmts[0].(*ast.FunCallStmt)
	assert.Equal(t, "f", f.Call.Name)
	assert.Empty(t, f.Call.Args)

	g := stmts[1].(*ast.FunCallStmt)
	assert.Len(t, g.Call.Args, 2)

	y := stmts[2].(*ast.Assignment)
	call := y.Value.Terms[0].Factors[0].(*ast.FunCall)
	assert.Equal(t, "h", call.Name)
}

func TestFunctionDefinition(t *testing.T) {
	stmts := statements(t, "add(a, b) { returnVal a + b; } print add(1, 2);")
	require.Len(t, stmts, 2)
	def := stmts[0].(*ast.FunDef)
	assert.Equal(t, "add", def.Name)
	assert.Equal(t, []string{"a", "b"}, def.Params)
	ret := def.Body.List.Statements[0].(*ast.Return)
	require.NotNil(t, ret.Value)

	noParams := statements(t, "hello() { print 1; }")[0].(*ast.FunDef)
	assert.Empty(t, noParams.Params)
}

func TestBareReturn(t *testing.T) {
	ret := statements(t, "returnVal;")[0].(*ast.Return)
	assert.Nil(t, ret.Value)
}

func TestSpans(t *testing.T) {
	stmts := statements(t, "x = 1;\nprint x + 22;")
	p := stmts[1].(*ast.Print)
	assert.Equal(t, 2, p.Span.StartLine)
	assert.Equal(t, 1, p.Span.StartCol)
	assert.Equal(t, 2, p.Span.EndLine)
	assert.Equal(t, 13, p.Span.EndCol)
	assert.Equal(t, "test.lpi", p.Span.File)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"missing semicolon", "x = 1 print x;", "expected ';' (Semicolon), got 'print' (Keyword_print)"},
		{"empty program", "", "expected statement, got end of file"},
		{"empty block", "if (1) { }", "expected statement, got '}' (RBrace)"},
		{"bare identifier", "x;", "expected '=', '[' or '(' after identifier 'x'"},
		{"missing paren", "while x < 1 { print x; }", "expected '(' (LParen)"},
		{"dangling operator", "x = 1 +;", "expected expression, got ';' (Semicolon)"},
		{"unclosed brace", "if (1) { print 1;", "expected '}' (RBrace), got end of file"},
		{"stray brace", "print 1; }", "expected end of file (EOF), got '}' (RBrace)"},
		{"bad parameter", "f(1) { print 1; }", "parameter of function 'f' must be an identifier"},
		{"new without size", "a = new int;", "expected '[' (LBracket)"},
		{"comparison as value", "x = 1 < 2;", "expected ';' (Semicolon), got '<' (Lt)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustFail(t, tt.source)
			assert.Equal(t, diagnostics.EParse, d.Code)
			assert.Contains(t, d.Message, tt.message)
			require.NotNil(t, d.Span)
		})
	}
}

func TestLexicalErrorStopsParse(t *testing.T) {
	d := mustFail(t, "x = 1; y = @;")
	assert.Equal(t, diagnostics.ELex, d.Code)
	assert.Contains(t, d.Message, `"@"`)
	assert.Equal(t, 12, d.Span.StartCol)

	d = mustFail(t, "print 1.;")
	assert.Equal(t, diagnostics.ELex, d.Code)

	// A lexical error after an otherwise complete program still fails.
	d = mustFail(t, "print 1; &")
	assert.Equal(t, diagnostics.ELex, d.Code)
}

func renderedKinds(t *testing.T, prog *ast.Program) []string {
	t.Helper()
	var kinds []string
	for _, line := range strings.Split(strings.TrimRight(ast.Sprint(prog), "\n"), "\n") {
		fields := strings.Fields(line)
		require.GreaterOrEqual(t, len(fields), 2)
		kinds = append(kinds, strings.Trim(fields[1], "<>"))
	}
	return kinds
}

func TestRenderRoundTrip(t *testing.T) {
	programs := []string{
		"x = 2 + 3 * 4; print x;",
		"a = new int[3]; a[1] = 5; print a[1];",
		"x = 1; while (x < 4) { print x; x = x + 1; }",
		"if (1 == 2) { print 1; } else { print (2 + 3) * 4; }",
		"fact(n) { if (n <= 1) { returnVal 1; } returnVal n * fact(n - 1); } print fact(5);",
		"if (!(a) == 1 || b && c != 2) { f(a, b[2], 1.5e3); }",
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			prog := mustParse(t, src)
			if diff := cmp.Diff(ast.Kinds(prog), renderedKinds(t, prog)); diff != "" {
				t.Errorf("kind sequence mismatch (-inspect +render):\n%s", diff)
			}
		})
	}
}

func TestRenderShape(t *testing.T) {
	prog := mustParse(t, "print 1;")
	want := strings.Join([]string{
		"0 <Program>",
		" 1 <Body>",
		"  2 <StatementList>",
		"   3 <Print>",
		"    4 <E>",
		"     5 <Term>",
		"      6 <IntLiteral> 1",
	}, "\n") + "\n"
	assert.Equal(t, want, ast.Sprint(prog))
}

func TestParseDoesNotShareNodes(t *testing.T) {
	src := "x = 1; print x;"
	a := mustParse(t, src)
	b := mustParse(t, src)
	assert.NotSame(t, a.Body, b.Body)
	assert.Equal(t, ast.Kinds(a), ast.Kinds(b))
}
