package lexer

import "fmt"

// TokenType identifies a grammar terminal.
type TokenType int

const (
	EOF TokenType = iota

	Path
	Module
	Variable
	Action
	ActionArgument
	Subject
	SubjectArgument
	Condition
	ConditionArgument
	JSON
	End
	Assign

	// Keywords
	Import
	And
	If
	With
	As
)

var tokenNames = map[TokenType]string{
	EOF:               "EOF",
	Path:              "PATH",
	Module:            "MODULE",
	Variable:          "VARIABLE",
	Action:            "ACTION",
	ActionArgument:    "ACTION_ARGUMENT",
	Subject:           "SUBJECT",
	SubjectArgument:   "SUBJECT_ARGUMENT",
	Condition:         "CONDITION",
	ConditionArgument: "CONDITION_ARGUMENT",
	JSON:              "JSON",
	End:               "END",
	Assign:            "=",
	Import:            "IMPORT",
	And:               "AND",
	If:                "IF",
	With:              "WITH",
	As:                "AS",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"import": Import,
	"and":    And,
	"if":     If,
	"with":   With,
	"as":     As,
}

// Keyword reports whether word is reserved and returns its token type.
func Keyword(word string) (TokenType, bool) {
	t, ok := keywords[word]
	return t, ok
}

// Token is a single lexeme with its 1-based source position.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// LexError describes an illegal character. It is a warning: the character
// is skipped and scanning continues.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: %s", e.Line, e.Col, e.Msg)
}
