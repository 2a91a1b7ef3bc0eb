package lexer

// State is a state of the scanning automaton. Final states come first so
// that finality is an ordinal comparison; each final state doubles as the
// token category it accepts.
type State int

const (
	// Final states.
	Add State = iota
	Sub
	Mul
	Div
	Or
	And
	Inv
	Lt
	Le
	Gt
	Ge
	Eq
	Neq
	Assign
	Id
	Int
	Float
	FloatE
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma

	// Non-final states.
	Start
	Bar
	Ampersand
	Period
	E
	EPlusMinus

	// Keyword states, reached by reclassifying an Id.
	KeywordIf
	KeywordElse
	KeywordWhile
	KeywordReturnVal
	KeywordNew
	KeywordPrint

	EOF
	Undef

	numStates = int(Undef) + 1
)

var stateNames = [...]string{
	Add:              "Add",
	Sub:              "Sub",
	Mul:              "Mul",
	Div:              "Div",
	Or:               "Or",
	And:              "And",
	Inv:              "Inv",
	Lt:               "Lt",
	Le:               "Le",
	Gt:               "Gt",
	Ge:               "Ge",
	Eq:               "Eq",
	Neq:              "Neq",
	Assign:           "Assign",
	Id:               "Id",
	Int:              "Int",
	Float:            "Float",
	FloatE:           "FloatE",
	LParen:           "LParen",
	RParen:           "RParen",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	Semicolon:        "Semicolon",
	Comma:            "Comma",
	Start:            "Start",
	Bar:              "Bar",
	Ampersand:        "Ampersand",
	Period:           "Period",
	E:                "E",
	EPlusMinus:       "EPlusMinus",
	KeywordIf:        "Keyword_if",
	KeywordElse:      "Keyword_else",
	KeywordWhile:     "Keyword_while",
	KeywordReturnVal: "Keyword_returnVal",
	KeywordNew:       "Keyword_new",
	KeywordPrint:     "Keyword_print",
	EOF:              "EOF",
	Undef:            "Undef",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// IsFinal reports whether the automaton may accept a token in state s.
func (s State) IsFinal() bool { return s <= Comma }

func (s State) IsArithOp() bool { return s <= Div }

func (s State) IsBoolOp() bool { return s >= Or && s <= Inv }

func (s State) IsCompOp() bool { return s >= Lt && s <= Neq }

func (s State) IsKeyword() bool { return s >= KeywordIf && s <= KeywordPrint }

var keywords = map[string]State{
	"if":        KeywordIf,
	"else":      KeywordElse,
	"while":     KeywordWhile,
	"returnVal": KeywordReturnVal,
	"new":       KeywordNew,
	"print":     KeywordPrint,
}

// transitions is read-only after init.
var transitions [numStates][128]State

func init() {
	for s := range transitions {
		for c := range transitions[s] {
			transitions[s][c] = Undef
		}
	}
	set := func(from State, chars string, to State) {
		for i := 0; i < len(chars); i++ {
			transitions[from][chars[i]] = to
		}
	}

	const (
		letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
		digits  = "0123456789"
	)

	set(Start, letters, Id)
	set(Id, letters, Id)
	set(Id, digits, Id)

	set(Start, digits, Int)
	set(Int, digits, Int)
	set(Int, ".", Period)
	set(Period, digits, Float)
	set(Float, digits, Float)
	set(Int, "eE", E)
	set(Float, "eE", E)
	set(E, "+-", EPlusMinus)
	set(E, digits, FloatE)
	set(EPlusMinus, digits, FloatE)
	set(FloatE, digits, FloatE)

	set(Start, "+", Add)
	set(Start, "-", Sub)
	set(Start, "*", Mul)
	set(Start, "/", Div)
	set(Start, "(", LParen)
	set(Start, ")", RParen)
	set(Start, "{", LBrace)
	set(Start, "}", RBrace)
	set(Start, "[", LBracket)
	set(Start, "]", RBracket)
	set(Start, ";", Semicolon)
	set(Start, ",", Comma)

	set(Start, "|", Bar)
	set(Bar, "|", Or)
	set(Start, "&", Ampersand)
	set(Ampersand, "&", And)
	set(Start, "!", Inv)
	set(Inv, "=", Neq)
	set(Start, "=", Assign)
	set(Assign, "=", Eq)
	set(Start, "<", Lt)
	set(Lt, "=", Le)
	set(Start, ">", Gt)
	set(Gt, "=", Ge)
}

// Next returns the state reached from s on byte c, or Undef.
func Next(s State, c byte) State {
	if c >= 128 || int(s) >= numStates || s < 0 {
		return Undef
	}
	return transitions[s][c]
}
