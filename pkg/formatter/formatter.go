// Package formatter renders lpi ASTs back to canonical source code.
package formatter

import (
	"strconv"
	"strings"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
)

const indent = "  "

// Format pretty-prints an AST back to source code.
func Format(program *ast.Program) string {
	var sb strings.Builder
	formatBody(&sb, program.Body, 0)
	return sb.String()
}

func formatBody(sb *strings.Builder, body *ast.Body, depth int) {
	for _, s := range body.List.Statements {
		formatStmt(sb, s, depth)
	}
}

func formatStmt(sb *strings.Builder, stmt ast.Stmt, depth int) {
	pad := strings.Repeat(indent, depth)
	sb.WriteString(pad)

	switch s := stmt.(type) {
	case *ast.Assignment:
		sb.WriteString(s.Name)
		if s.Index != nil {
			sb.WriteString("[" + formatE(s.Index) + "]")
		}
		sb.WriteString(" = " + formatE(s.Value) + ";\n")

	case *ast.If:
		sb.WriteString("if (" + FormatExpr(s.Cond) + ") ")
		formatBlock(sb, s.Then, depth)
		if s.Else != nil {
			sb.WriteString(" else ")
			formatBlock(sb, s.Else, depth)
		}
		sb.WriteString("\n")

	case *ast.While:
		sb.WriteString("while (" + FormatExpr(s.Cond) + ") ")
		formatBlock(sb, s.Body, depth)
		sb.WriteString("\n")

	case *ast.Print:
		sb.WriteString("print " + formatE(s.Value) + ";\n")

	case *ast.Return:
		if s.Value == nil {
			sb.WriteString("returnVal;\n")
		} else {
			sb.WriteString("returnVal " + formatE(s.Value) + ";\n")
		}

	case *ast.FunCallStmt:
		sb.WriteString(formatCall(s.Call) + ";\n")

	case *ast.FunDef:
		sb.WriteString(s.Name + "(" + strings.Join(s.Params, ", ") + ") ")
		formatBlock(sb, s.Body, depth)
		sb.WriteString("\n")
	}
}

// formatBlock writes "{", the body one level deeper, and the closing "}"
// without a trailing newline.
func formatBlock(sb *strings.Builder, body *ast.Body, depth int) {
	sb.WriteString("{\n")
	formatBody(sb, body, depth+1)
	sb.WriteString(strings.Repeat(indent, depth) + "}")
}

// FormatExpr renders a single expression or condition.
func FormatExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.E:
		return formatE(e)
	case *ast.Term:
		return formatTerm(e)
	case *ast.BoolPrimary:
		if e.Op == "" {
			return formatE(e.Left)
		}
		return formatE(e.Left) + " " + string(e.Op) + " " + formatE(e.Right)
	case *ast.Logical:
		return FormatExpr(e.Left) + " " + string(e.Op) + " " + FormatExpr(e.Right)
	case *ast.Not:
		return "!" + FormatExpr(e.Operand)
	case ast.Primary:
		return formatPrimary(e)
	}
	return ""
}

func formatE(e *ast.E) string {
	var sb strings.Builder
	sb.WriteString(formatTerm(e.Terms[0]))
	for i, op := range e.Ops {
		sb.WriteString(" " + string(op) + " ")
		sb.WriteString(formatTerm(e.Terms[i+1]))
	}
	return sb.String()
}

func formatTerm(t *ast.Term) string {
	var sb strings.Builder
	sb.WriteString(formatPrimary(t.Factors[0]))
	for i, op := range t.Ops {
		sb.WriteString(" " + string(op) + " ")
		sb.WriteString(formatPrimary(t.Factors[i+1]))
	}
	return sb.String()
}

func formatPrimary(p ast.Primary) string {
	switch e := p.(type) {
	case *ast.IntLiteral:
		if e.Text != "" {
			return e.Text
		}
		return strconv.FormatInt(e.Value, 10)
	case *ast.FloatLiteral:
		if e.Text != "" {
			return e.Text
		}
		return formatFloat(e.Value)
	case *ast.Identifier:
		return e.Name
	case *ast.Paren:
		return "(" + formatE(e.Inner) + ")"
	case *ast.ArrayAccess:
		return e.Name + "[" + formatE(e.Index) + "]"
	case *ast.FunCall:
		return formatCall(e)
	case *ast.NewArray:
		return "new " + e.ElemType + "[" + formatE(e.Size) + "]"
	}
	return ""
}

func formatCall(c *ast.FunCall) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = formatE(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// formatFloat writes f in a form the lexer reads back as a float literal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
