// Package parser implements the recursive-descent parser for the lpi language.
package parser

import (
	"fmt"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/lexer"
)

type parser struct {
	lex     *lexer.Lexer
	tok     lexer.Token // one token of lookahead
	prevEnd ast.Span    // span of the last consumed token
	diags   []diagnostics.Diagnostic
}

// Parse scans and parses source into an AST. Parsing stops at the first
// lexical or syntax error, which is returned as the only diagnostic.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	p := &parser{lex: lexer.New(source, filename)}
	p.next()
	prog := p.parseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return prog, nil
}

func (p *parser) failed() bool {
	return len(p.diags) > 0
}

// next pulls the following token from the lexer. A lexical error ends the
// parse: it is recorded and the lookahead becomes EOF.
func (p *parser) next() {
	if p.failed() {
		p.tok = lexer.Token{Category: lexer.EOF, Span: p.tok.Span}
		return
	}
	tok, err := p.lex.Next()
	if err != nil {
		span := p.tok.Span
		if le, ok := err.(*lexer.LexError); ok {
			p.diags = append(p.diags, le.Diag)
			span = *le.Diag.Span
		} else {
			p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.ELex, err.Error(), nil, ""))
		}
		tok = lexer.Token{Category: lexer.EOF, Span: span}
	}
	p.tok = tok
}

func (p *parser) peek() lexer.State {
	return p.tok.Category
}

func (p *parser) advance() lexer.Token {
	tok := p.tok
	p.prevEnd = tok.Span
	p.next()
	return tok
}

func (p *parser) expect(want lexer.State) (lexer.Token, bool) {
	if p.tok.Category != want {
		p.addError(fmt.Sprintf("expected %s, got %s", categoryName(want), describe(p.tok)), &p.tok.Span)
		return p.tok, false
	}
	return p.advance(), true
}

// addError records a syntax error. Only the first error is kept.
func (p *parser) addError(msg string, span *ast.Span) {
	if p.failed() {
		return
	}
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.EParse, msg, span, ""))
}

func (p *parser) spanFrom(start ast.Span) ast.Span {
	return ast.Span{
		File:      start.File,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   p.prevEnd.EndLine,
		EndCol:    p.prevEnd.EndCol,
	}
}

var symbols = map[lexer.State]string{
	lexer.Add:       "'+'",
	lexer.Sub:       "'-'",
	lexer.Mul:       "'*'",
	lexer.Div:       "'/'",
	lexer.Or:        "'||'",
	lexer.And:       "'&&'",
	lexer.Inv:       "'!'",
	lexer.Lt:        "'<'",
	lexer.Le:        "'<='",
	lexer.Gt:        "'>'",
	lexer.Ge:        "'>='",
	lexer.Eq:        "'=='",
	lexer.Neq:       "'!='",
	lexer.Assign:    "'='",
	lexer.Id:        "identifier",
	lexer.Int:       "integer",
	lexer.Float:     "float",
	lexer.FloatE:    "float",
	lexer.LParen:    "'('",
	lexer.RParen:    "')'",
	lexer.LBrace:    "'{'",
	lexer.RBrace:    "'}'",
	lexer.LBracket:  "'['",
	lexer.RBracket:  "']'",
	lexer.Semicolon: "';'",
	lexer.Comma:     "','",
	lexer.EOF:       "end of file",
}

func categoryName(s lexer.State) string {
	if sym, ok := symbols[s]; ok {
		return fmt.Sprintf("%s (%s)", sym, s)
	}
	return s.String()
}

func describe(tok lexer.Token) string {
	if tok.Category == lexer.EOF {
		return "end of file"
	}
	return fmt.Sprintf("'%s' (%s)", tok.Text, tok.Category)
}

// --- Program ---

func (p *parser) parseProgram() *ast.Program {
	start := p.tok.Span
	body := p.parseBody()
	if body == nil {
		return nil
	}
	if _, ok := p.expect(lexer.EOF); !ok {
		return nil
	}
	return &ast.Program{Span: p.spanFrom(start), Body: body}
}

func (p *parser) parseBody() *ast.Body {
	start := p.tok.Span
	list := p.parseStatementList()
	if list == nil {
		return nil
	}
	return &ast.Body{Span: p.spanFrom(start), List: list}
}

func (p *parser) parseStatementList() *ast.StatementList {
	start := p.tok.Span
	var stmts []ast.Stmt
	for {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
		if k := p.peek(); k == lexer.RBrace || k == lexer.EOF {
			break
		}
	}
	return &ast.StatementList{Span: p.spanFrom(start), Statements: stmts}
}

// braced parses "{" Body "}".
func (p *parser) braced() *ast.Body {
	if _, ok := p.expect(lexer.LBrace); !ok {
		return nil
	}
	body := p.parseBody()
	if body == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RBrace); !ok {
		return nil
	}
	return body
}

// --- Statements ---

func (p *parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	switch p.peek() {
	case lexer.Id:
		return p.parseIdentStatement()
	case lexer.KeywordIf:
		return p.parseIf()
	case lexer.KeywordWhile:
		return p.parseWhile()
	case lexer.KeywordPrint:
		stmt = p.parsePrint()
	case lexer.KeywordReturnVal:
		stmt = p.parseReturn()
	default:
		p.addError(fmt.Sprintf("expected statement, got %s", describe(p.tok)), &p.tok.Span)
		return nil
	}
	if stmt == nil {
		return nil
	}
	if _, ok := p.expect(lexer.Semicolon); !ok {
		return nil
	}
	return stmt
}

// parseIdentStatement handles the statements that start with an identifier:
// assignments, call statements and function definitions.
func (p *parser) parseIdentStatement() ast.Stmt {
	name := p.advance()

	switch p.peek() {
	case lexer.LParen:
		call := p.parseCallArgs(name)
		if call == nil {
			return nil
		}
		if p.peek() == lexer.LBrace {
			return p.finishFunDef(call)
		}
		if _, ok := p.expect(lexer.Semicolon); !ok {
			return nil
		}
		return &ast.FunCallStmt{Span: call.Span, Call: call}
	case lexer.LBracket, lexer.Assign:
		stmt := p.parseAssignment(name)
		if stmt == nil {
			return nil
		}
		if _, ok := p.expect(lexer.Semicolon); !ok {
			return nil
		}
		return stmt
	default:
		p.addError(fmt.Sprintf("expected '=', '[' or '(' after identifier '%s', got %s", name.Text, describe(p.tok)), &p.tok.Span)
		return nil
	}
}

func (p *parser) parseAssignment(name lexer.Token) *ast.Assignment {
	var index *ast.E
	if p.peek() == lexer.LBracket {
		p.advance()
		index = p.parseE()
		if index == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RBracket); !ok {
			return nil
		}
	}
	if _, ok := p.expect(lexer.Assign); !ok {
		return nil
	}
	value := p.parseE()
	if value == nil {
		return nil
	}
	return &ast.Assignment{Span: p.spanFrom(name.Span), Name: name.Text, Index: index, Value: value}
}

// finishFunDef turns a parsed call header into a definition. Every argument
// must be a bare identifier.
func (p *parser) finishFunDef(call *ast.FunCall) ast.Stmt {
	params := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		id := bareIdentifier(arg)
		if id == nil {
			span := arg.Span
			p.addError(fmt.Sprintf("parameter of function '%s' must be an identifier", call.Name), &span)
			return nil
		}
		params = append(params, id.Name)
	}
	body := p.braced()
	if body == nil {
		return nil
	}
	return &ast.FunDef{Span: p.spanFrom(call.Span), Name: call.Name, Params: params, Body: body}
}

func bareIdentifier(e *ast.E) *ast.Identifier {
	if len(e.Terms) != 1 || len(e.Terms[0].Factors) != 1 {
		return nil
	}
	id, _ := e.Terms[0].Factors[0].(*ast.Identifier)
	return id
}

func (p *parser) parseIf() ast.Stmt {
	start := p.advance() // consume 'if'
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then := p.braced()
	if then == nil {
		return nil
	}
	var els *ast.Body
	if p.peek() == lexer.KeywordElse {
		p.advance()
		if els = p.braced(); els == nil {
			return nil
		}
	}
	return &ast.If{Span: p.spanFrom(start.Span), Cond: cond, Then: then, Else: els}
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.advance() // consume 'while'
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	body := p.braced()
	if body == nil {
		return nil
	}
	return &ast.While{Span: p.spanFrom(start.Span), Cond: cond, Body: body}
}

// parseCondition parses "(" BoolExpr ")".
func (p *parser) parseCondition() ast.Expr {
	if _, ok := p.expect(lexer.LParen); !ok {
		return nil
	}
	cond := p.parseBoolExpr()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RParen); !ok {
		return nil
	}
	return cond
}

func (p *parser) parsePrint() ast.Stmt {
	start := p.advance() // consume 'print'
	value := p.parseE()
	if value == nil {
		return nil
	}
	return &ast.Print{Span: p.spanFrom(start.Span), Value: value}
}

func (p *parser) parseReturn() ast.Stmt {
	start := p.advance() // consume 'returnVal'
	if p.peek() == lexer.Semicolon {
		return &ast.Return{Span: p.spanFrom(start.Span)}
	}
	value := p.parseE()
	if value == nil {
		return nil
	}
	return &ast.Return{Span: p.spanFrom(start.Span), Value: value}
}

// --- Conditions ---

func (p *parser) parseBoolExpr() ast.Expr {
	start := p.tok.Span
	left := p.parseBoolTerm()
	if left == nil {
		return nil
	}
	for p.peek() == lexer.Or {
		p.advance()
		right := p.parseBoolTerm()
		if right == nil {
			return nil
		}
		left = &ast.Logical{Span: p.spanFrom(start), Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseBoolTerm() ast.Expr {
	start := p.tok.Span
	left := p.parseBoolFactor()
	if left == nil {
		return nil
	}
	for p.peek() == lexer.And {
		p.advance()
		right := p.parseBoolFactor()
		if right == nil {
			return nil
		}
		left = &ast.Logical{Span: p.spanFrom(start), Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseBoolFactor() ast.Expr {
	if p.peek() == lexer.Inv {
		start := p.advance()
		operand := p.parseBoolFactor()
		if operand == nil {
			return nil
		}
		return &ast.Not{Span: p.spanFrom(start.Span), Operand: operand}
	}
	bp := p.parseBoolPrimary()
	if bp == nil {
		return nil
	}
	return bp
}

var compOps = map[lexer.State]ast.CompOp{
	lexer.Lt:  ast.OpLt,
	lexer.Le:  ast.OpLe,
	lexer.Gt:  ast.OpGt,
	lexer.Ge:  ast.OpGe,
	lexer.Eq:  ast.OpEq,
	lexer.Neq: ast.OpNeq,
}

func (p *parser) parseBoolPrimary() *ast.BoolPrimary {
	start := p.tok.Span
	left := p.parseE()
	if left == nil {
		return nil
	}
	op, ok := compOps[p.peek()]
	if !ok {
		return &ast.BoolPrimary{Span: p.spanFrom(start), Left: left}
	}
	p.advance()
	right := p.parseE()
	if right == nil {
		return nil
	}
	return &ast.BoolPrimary{Span: p.spanFrom(start), Left: left, Op: op, Right: right}
}

// --- Arithmetic ---

func (p *parser) parseE() *ast.E {
	start := p.tok.Span
	first := p.parseTerm()
	if first == nil {
		return nil
	}
	e := &ast.E{Terms: []*ast.Term{first}}
	for p.peek() == lexer.Add || p.peek() == lexer.Sub {
		op := ast.OpAdd
		if p.advance().Category == lexer.Sub {
			op = ast.OpSub
		}
		t := p.parseTerm()
		if t == nil {
			return nil
		}
		e.Terms = append(e.Terms, t)
		e.Ops = append(e.Ops, op)
	}
	e.Span = p.spanFrom(start)
	return e
}

func (p *parser) parseTerm() *ast.Term {
	start := p.tok.Span
	first := p.parsePrimary()
	if first == nil {
		return nil
	}
	t := &ast.Term{Factors: []ast.Primary{first}}
	for p.peek() == lexer.Mul || p.peek() == lexer.Div {
		op := ast.OpMul
		if p.advance().Category == lexer.Div {
			op = ast.OpDiv
		}
		f := p.parsePrimary()
		if f == nil {
			return nil
		}
		t.Factors = append(t.Factors, f)
		t.Ops = append(t.Ops, op)
	}
	t.Span = p.spanFrom(start)
	return t
}

func (p *parser) parsePrimary() ast.Primary {
	tok := p.tok
	switch tok.Category {
	case lexer.Int:
		p.advance()
		return &ast.IntLiteral{Span: tok.Span, Text: tok.Text, Value: tok.Int}
	case lexer.Float, lexer.FloatE:
		p.advance()
		return &ast.FloatLiteral{Span: tok.Span, Text: tok.Text, Value: tok.Float}
	case lexer.Id:
		p.advance()
		switch p.peek() {
		case lexer.LParen:
			if call := p.parseCallArgs(tok); call != nil {
				return call
			}
			return nil
		case lexer.LBracket:
			p.advance()
			index := p.parseE()
			if index == nil {
				return nil
			}
			if _, ok := p.expect(lexer.RBracket); !ok {
				return nil
			}
			return &ast.ArrayAccess{Span: p.spanFrom(tok.Span), Name: tok.Text, Index: index}
		}
		return &ast.Identifier{Span: tok.Span, Name: tok.Text}
	case lexer.LParen:
		p.advance()
		inner := p.parseE()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(lexer.RParen); !ok {
			return nil
		}
		return &ast.Paren{Span: p.spanFrom(tok.Span), Inner: inner}
	case lexer.KeywordNew:
		return p.parseNewArray()
	default:
		p.addError(fmt.Sprintf("expected expression, got %s", describe(tok)), &tok.Span)
		return nil
	}
}

// parseCallArgs parses "(" [ Expr { "," Expr } ] ")" after the function name.
func (p *parser) parseCallArgs(name lexer.Token) *ast.FunCall {
	p.advance() // consume '('
	var args []*ast.E
	if p.peek() != lexer.RParen {
		for {
			arg := p.parseE()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.peek() != lexer.Comma {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(lexer.RParen); !ok {
		return nil
	}
	return &ast.FunCall{Span: p.spanFrom(name.Span), Name: name.Text, Args: args}
}

func (p *parser) parseNewArray() ast.Primary {
	start := p.advance() // consume 'new'
	elem, ok := p.expect(lexer.Id)
	if !ok {
		return nil
	}
	if _, ok := p.expect(lexer.LBracket); !ok {
		return nil
	}
	size := p.parseE()
	if size == nil {
		return nil
	}
	if _, ok := p.expect(lexer.RBracket); !ok {
		return nil
	}
	return &ast.NewArray{Span: p.spanFrom(start.Span), ElemType: elem.Text, Size: size}
}
