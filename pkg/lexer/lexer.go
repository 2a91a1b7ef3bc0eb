// Package lexer implements the table-driven scanner for the lpi language.
package lexer

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/ast"
	"github.com/m-rahat/Lexical-analyzer-parser-Interpreter/pkg/diagnostics"
)

// Token represents a single accepted token.
type Token struct {
	Category State
	Text     string
	Span     ast.Span

	// Parsed literal values, set for Int and Float/FloatE tokens.
	Int   int64
	Float float64
}

// LexError reports a rejected run of input.
type LexError struct {
	Text string
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

// Lexer scans source text one token at a time.
type Lexer struct {
	source   string
	filename string
	pos      int
	line     int
	col      int
}

// New returns a Lexer positioned at the start of source.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) span(startLine, startCol int) ast.Span {
	return ast.Span{
		File:      l.filename,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.source[l.pos]) {
		l.advance()
	}
}

// Next returns the next token. At end of input it returns a token of category
// EOF. A rejected run is returned as a *LexError after it has been consumed,
// so the caller may keep calling Next.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	startLine, startCol := l.line, l.col
	if l.atEnd() {
		return Token{Category: EOF, Span: l.span(startLine, startCol)}, nil
	}

	start := l.pos
	state := Start
	for !l.atEnd() {
		next := Next(state, l.source[l.pos])
		if next == Undef {
			break
		}
		state = next
		l.advance()
	}

	if !state.IsFinal() {
		if l.pos == start {
			// The very first character has no transition; drop it whole.
			_, size := utf8.DecodeRuneInString(l.source[l.pos:])
			for i := 0; i < size; i++ {
				l.advance()
			}
		}
		text := l.source[start:l.pos]
		return Token{}, l.lexError(text, startLine, startCol, fmt.Sprintf("invalid token %q", text))
	}

	tok := Token{
		Category: state,
		Text:     l.source[start:l.pos],
		Span:     l.span(startLine, startCol),
	}

	switch state {
	case Id:
		if kw, ok := keywords[tok.Text]; ok {
			tok.Category = kw
		}
	case Int:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return Token{}, l.lexError(tok.Text, startLine, startCol, fmt.Sprintf("integer literal %s overflows int64", tok.Text))
		}
		tok.Int = v
	case Float, FloatE:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return Token{}, l.lexError(tok.Text, startLine, startCol, fmt.Sprintf("float literal %s is out of range", tok.Text))
		}
		tok.Float = v
	}
	return tok, nil
}

func (l *Lexer) lexError(text string, line, col int, msg string) error {
	span := l.span(line, col)
	diag := diagnostics.MakeDiag(diagnostics.ELex, msg, &span, "")
	return &LexError{Text: text, Diag: diag}
}

// Tokenize scans the whole source and stops at the first lexical error. The
// returned slice always ends with an EOF token when err is nil.
func Tokenize(source, filename string) ([]Token, error) {
	l := New(source, filename)
	var tokens []Token

	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Category == EOF {
			break
		}
	}

	return tokens, nil
}

// Entry is one item of a full scan: an accepted token or a rejected run.
type Entry struct {
	Token Token
	Err   *LexError
}

// ScanAll scans the whole source, continuing past lexical errors. The EOF
// token is not included.
func ScanAll(source, filename string) []Entry {
	l := New(source, filename)
	var entries []Entry

	for {
		tok, err := l.Next()
		if err != nil {
			entries = append(entries, Entry{Err: err.(*LexError)})
			continue
		}
		if tok.Category == EOF {
			return entries
		}
		entries = append(entries, Entry{Token: tok})
	}
}

// WriteTokens writes the diagnostic token listing of entries to w, one line
// per entry.
func WriteTokens(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		var err error
		if e.Err != nil {
			_, err = fmt.Fprintf(w, "%s : Lexical Error, invalid token\n", e.Err.Text)
		} else {
			_, err = fmt.Fprintf(w, "%s   : %s\n", e.Token.Text, e.Token.Category)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// CountErrors returns the number of rejected runs in entries.
func CountErrors(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}
