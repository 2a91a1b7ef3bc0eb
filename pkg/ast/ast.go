// Package ast defines the parse tree node types of the lpi language.
package ast

// Span represents a source location range.
type Span struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() string
	NodeSpan() Span
}

// ArithOp is one of the arithmetic operators + - * /.
type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
)

// CompOp is one of the comparison operators.
type CompOp string

const (
	OpLt  CompOp = "<"
	OpLe  CompOp = "<="
	OpGt  CompOp = ">"
	OpGe  CompOp = ">="
	OpEq  CompOp = "=="
	OpNeq CompOp = "!="
)

// LogicOp is one of the short-circuit connectives.
type LogicOp string

const (
	OpOr  LogicOp = "||"
	OpAnd LogicOp = "&&"
)

// --- Stmt is the interface for all statement nodes ---

type Stmt interface {
	Node
	stmtNode() // sealed marker
}

// --- Expr is the interface for all expression nodes ---

type Expr interface {
	Node
	exprNode() // sealed marker
}

// --- Primary is the interface for the operands of a Term ---

type Primary interface {
	Expr
	primaryNode() // sealed marker
}

// --- Program structure ---

type Program struct {
	Span Span
	Body *Body
}

func (n *Program) Kind() string   { return "Program" }
func (n *Program) NodeSpan() Span { return n.Span }

type Body struct {
	Span Span
	List *StatementList
}

func (n *Body) Kind() string   { return "Body" }
func (n *Body) NodeSpan() Span { return n.Span }

// StatementList holds statements in evaluation order.
type StatementList struct {
	Span       Span
	Statements []Stmt
}

func (n *StatementList) Kind() string   { return "StatementList" }
func (n *StatementList) NodeSpan() Span { return n.Span }

// --- Statements ---

// Assignment binds Name to Value, or stores into Name[Index] when Index is set.
type Assignment struct {
	Span  Span
	Name  string
	Index *E
	Value *E
}

func (n *Assignment) Kind() string   { return "Assignment" }
func (n *Assignment) NodeSpan() Span { return n.Span }
func (n *Assignment) stmtNode()      {}

type If struct {
	Span Span
	Cond Expr
	Then *Body
	Else *Body // nil when there is no else branch
}

func (n *If) Kind() string   { return "If" }
func (n *If) NodeSpan() Span { return n.Span }
func (n *If) stmtNode()      {}

type While struct {
	Span Span
	Cond Expr
	Body *Body
}

func (n *While) Kind() string   { return "While" }
func (n *While) NodeSpan() Span { return n.Span }
func (n *While) stmtNode()      {}

type Print struct {
	Span  Span
	Value *E
}

func (n *Print) Kind() string   { return "Print" }
func (n *Print) NodeSpan() Span { return n.Span }
func (n *Print) stmtNode()      {}

type Return struct {
	Span  Span
	Value *E // nil for a bare returnVal
}

func (n *Return) Kind() string   { return "Return" }
func (n *Return) NodeSpan() Span { return n.Span }
func (n *Return) stmtNode()      {}

type FunCallStmt struct {
	Span Span
	Call *FunCall
}

func (n *FunCallStmt) Kind() string   { return "FunCallStmt" }
func (n *FunCallStmt) NodeSpan() Span { return n.Span }
func (n *FunCallStmt) stmtNode()      {}

type FunDef struct {
	Span   Span
	Name   string
	Params []string
	Body   *Body
}

func (n *FunDef) Kind() string   { return "FunDef" }
func (n *FunDef) NodeSpan() Span { return n.Span }
func (n *FunDef) stmtNode()      {}

// --- Arithmetic ---

// E is a chain of terms joined by + and -. len(Ops) == len(Terms)-1.
type E struct {
	Span  Span
	Terms []*Term
	Ops   []ArithOp
}

func (n *E) Kind() string   { return "E" }
func (n *E) NodeSpan() Span { return n.Span }
func (n *E) exprNode()      {}

// Term is a chain of primaries joined by * and /. len(Ops) == len(Factors)-1.
type Term struct {
	Span    Span
	Factors []Primary
	Ops     []ArithOp
}

func (n *Term) Kind() string   { return "Term" }
func (n *Term) NodeSpan() Span { return n.Span }
func (n *Term) exprNode()      {}

// --- Conditions ---

// BoolPrimary compares Left and Right with Op. When Op is empty, Right is nil
// and the condition is the truthiness of Left.
type BoolPrimary struct {
	Span  Span
	Left  *E
	Op    CompOp
	Right *E
}

func (n *BoolPrimary) Kind() string   { return "BoolPrimary" }
func (n *BoolPrimary) NodeSpan() Span { return n.Span }
func (n *BoolPrimary) exprNode()      {}

type Logical struct {
	Span  Span
	Op    LogicOp
	Left  Expr
	Right Expr
}

func (n *Logical) Kind() string   { return "Logical" }
func (n *Logical) NodeSpan() Span { return n.Span }
func (n *Logical) exprNode()      {}

type Not struct {
	Span    Span
	Operand Expr
}

func (n *Not) Kind() string   { return "Not" }
func (n *Not) NodeSpan() Span { return n.Span }
func (n *Not) exprNode()      {}

// --- Primaries ---

type IntLiteral struct {
	Span  Span
	Text  string
	Value int64
}

func (n *IntLiteral) Kind() string   { return "IntLiteral" }
func (n *IntLiteral) NodeSpan() Span { return n.Span }
func (n *IntLiteral) exprNode()      {}
func (n *IntLiteral) primaryNode()   {}

// FloatLiteral covers both the plain and the exponent float forms.
type FloatLiteral struct {
	Span  Span
	Text  string
	Value float64
}

func (n *FloatLiteral) Kind() string   { return "FloatLiteral" }
func (n *FloatLiteral) NodeSpan() Span { return n.Span }
func (n *FloatLiteral) exprNode()      {}
func (n *FloatLiteral) primaryNode()   {}

type Identifier struct {
	Span Span
	Name string
}

func (n *Identifier) Kind() string   { return "Identifier" }
func (n *Identifier) NodeSpan() Span { return n.Span }
func (n *Identifier) exprNode()      {}
func (n *Identifier) primaryNode()   {}

type Paren struct {
	Span  Span
	Inner *E
}

func (n *Paren) Kind() string   { return "Paren" }
func (n *Paren) NodeSpan() Span { return n.Span }
func (n *Paren) exprNode()      {}
func (n *Paren) primaryNode()   {}

type ArrayAccess struct {
	Span  Span
	Name  string
	Index *E
}

func (n *ArrayAccess) Kind() string   { return "ArrayAccess" }
func (n *ArrayAccess) NodeSpan() Span { return n.Span }
func (n *ArrayAccess) exprNode()      {}
func (n *ArrayAccess) primaryNode()   {}

type FunCall struct {
	Span Span
	Name string
	Args []*E
}

func (n *FunCall) Kind() string   { return "FunCall" }
func (n *FunCall) NodeSpan() Span { return n.Span }
func (n *FunCall) exprNode()      {}
func (n *FunCall) primaryNode()   {}

type NewArray struct {
	Span     Span
	ElemType string
	Size     *E
}

func (n *NewArray) Kind() string   { return "NewArray" }
func (n *NewArray) NodeSpan() Span { return n.Span }
func (n *NewArray) exprNode()      {}
func (n *NewArray) primaryNode()   {}
