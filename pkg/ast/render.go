package ast

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the diagnostic tree of n to w. Each node produces one line
// made of the indent, the indent width and the node kind, followed by the
// literal text or operator for nodes that carry one.
func Render(w io.Writer, n Node, indent string) error {
	var sb strings.Builder
	render(&sb, n, indent)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Sprint returns the diagnostic tree of n as a string.
func Sprint(n Node) string {
	var sb strings.Builder
	render(&sb, n, "")
	return sb.String()
}

func render(sb *strings.Builder, n Node, indent string) {
	fmt.Fprintf(sb, "%s%d <%s>", indent, len(indent), n.Kind())
	if d := detail(n); d != "" {
		sb.WriteByte(' ')
		sb.WriteString(d)
	}
	sb.WriteByte('\n')
	for _, c := range Children(n) {
		render(sb, c, indent+" ")
	}
}

func detail(n Node) string {
	switch n := n.(type) {
	case *Assignment:
		if n.Index != nil {
			return n.Name + "[]"
		}
		return n.Name
	case *FunDef:
		return n.Name + "(" + strings.Join(n.Params, ", ") + ")"
	case *E:
		return joinOps(n.Ops)
	case *Term:
		return joinOps(n.Ops)
	case *BoolPrimary:
		return string(n.Op)
	case *Logical:
		return string(n.Op)
	case *Not:
		return "!"
	case *IntLiteral:
		return n.Text
	case *FloatLiteral:
		return n.Text
	case *Identifier:
		return n.Name
	case *ArrayAccess:
		return n.Name
	case *FunCall:
		return n.Name
	case *NewArray:
		return n.ElemType
	}
	return ""
}

func joinOps(ops []ArithOp) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, " ")
}
