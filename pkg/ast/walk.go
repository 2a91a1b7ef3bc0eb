package ast

import "fmt"

// Children returns the direct children of n in evaluation order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		out = append(out, c)
	}

	switch n := n.(type) {
	case *Program:
		add(n.Body)
	case *Body:
		add(n.List)
	case *StatementList:
		for _, s := range n.Statements {
			add(s)
		}
	case *Assignment:
		if n.Index != nil {
			add(n.Index)
		}
		add(n.Value)
	case *If:
		add(n.Cond)
		add(n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *While:
		add(n.Cond)
		add(n.Body)
	case *Print:
		add(n.Value)
	case *Return:
		if n.Value != nil {
			add(n.Value)
		}
	case *FunCallStmt:
		add(n.Call)
	case *FunDef:
		add(n.Body)
	case *E:
		for _, t := range n.Terms {
			add(t)
		}
	case *Term:
		for _, f := range n.Factors {
			add(f)
		}
	case *BoolPrimary:
		add(n.Left)
		if n.Right != nil {
			add(n.Right)
		}
	case *Logical:
		add(n.Left)
		add(n.Right)
	case *Not:
		add(n.Operand)
	case *Paren:
		add(n.Inner)
	case *ArrayAccess:
		add(n.Index)
	case *FunCall:
		for _, a := range n.Args {
			add(a)
		}
	case *NewArray:
		add(n.Size)
	case *IntLiteral, *FloatLiteral, *Identifier:
	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
	return out
}

// Inspect traverses the tree rooted at n in pre-order, calling f for each
// node. If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Kinds returns the pre-order sequence of node kinds under n.
func Kinds(n Node) []string {
	var kinds []string
	Inspect(n, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	return kinds
}
