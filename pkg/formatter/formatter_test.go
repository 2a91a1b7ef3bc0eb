package formatter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/formatter"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, diags := parser.Parse(source, "test.lpi")
	require.Empty(t, diags)
	return prog
}

// mustParseExpr parses text as the right-hand side of an assignment and
// returns its single primary.
func mustParseExpr(t *testing.T, text string) ast.Primary {
	t.Helper()
	prog := mustParse(t, "x = "+text+";")
	value := prog.Body.List.Statements[0].(*ast.Assignment).Value
	require.Len(t, value.Terms, 1)
	require.Len(t, value.Terms[0].Factors, 1)
	return value.Terms[0].Factors[0]
}

func TestFormatCanonical(t *testing.T) {
	src := `x=2+3*4;a=new int[3];a[ 1 ]=5;
if(x<1){print 1;}else{print (2+x)/2;}
while (!x==0 || x>1&&x<9) {x = x - 1;}
add(a,b){returnVal a+b;} g(); returnVal;`

	want := `x = 2 + 3 * 4;
a = new int[3];
a[1] = 5;
if (x < 1) {
  print 1;
} else {
  print (2 + x) / 2;
}
while (!x == 0 || x > 1 && x < 9) {
  x = x - 1;
}
add(a, b) {
  returnVal a + b;
}
g();
returnVal;
`
	assert.Equal(t, want, formatter.Format(mustParse(t, src)))
}

func TestFormatNested(t *testing.T) {
	src := "f(n) { if (n) { while (n) { n = n - 1; } } returnVal n; }"
	want := `f(n) {
  if (n) {
    while (n) {
      n = n - 1;
    }
  }
  returnVal n;
}
`
	assert.Equal(t, want, formatter.Format(mustParse(t, src)))
}

func TestFormatIsIdempotent(t *testing.T) {
	programs := []string{
		"x = 2 + 3 * 4; print x;",
		"a = new float[2]; a[0] = 1.5e3; print a[0] * 2.0E-1;",
		"fact(n) { if (n <= 1) { returnVal 1; } returnVal n * fact(n - 1); } print fact(5);",
		"if (!(a) != 1 && b >= 2 || c) { f(a, b[2]); } else { print ((1)); }",
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			prog := mustParse(t, src)
			once := formatter.Format(prog)
			reparsed := mustParse(t, once)
			if diff := cmp.Diff(ast.Kinds(prog), ast.Kinds(reparsed)); diff != "" {
				t.Errorf("kind sequence changed (-original +formatted):\n%s", diff)
			}
			assert.Equal(t, once, formatter.Format(reparsed))
		})
	}
}

func TestFormatSyntheticLiterals(t *testing.T) {
	e := &ast.E{Terms: []*ast.Term{{Factors: []ast.Primary{
		&ast.FloatLiteral{Value: 100},
	}}}}
	assert.Equal(t, "100.0", formatter.FormatExpr(e))

	for value, want := range map[float64]string{0.25: "0.25", 1e21: "1e+21", 1.5e-7: "1.5e-07"} {
		e.Terms[0].Factors[0] = &ast.FloatLiteral{Value: value}
		text := formatter.FormatExpr(e)
		assert.Equal(t, want, text)

		lit, ok := mustParseExpr(t, text).(*ast.FloatLiteral)
		require.True(t, ok, "%s reads back as %T", text, lit)
		assert.Equal(t, value, lit.Value)
	}

	e.Terms[0].Factors[0] = &ast.IntLiteral{Value: 7}
	assert.Equal(t, "7", formatter.FormatExpr(e))
}
