package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/cookery/internal/lexer"
)

// ErrSyntax is the sentinel every grammatical failure wraps.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports where parsing stopped and what the grammar would have
// accepted there.
type SyntaxError struct {
	Line     int
	Col      int
	Found    lexer.Token
	Expected []lexer.TokenType
	Msg      string
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "syntax error at %d:%d", e.Line, e.Col)
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
		return sb.String()
	}
	if e.Found.Type == lexer.EOF {
		sb.WriteString(": unexpected end of input")
	} else {
		fmt.Fprintf(&sb, ": unexpected %s", e.Found)
	}
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			names[i] = t.String()
		}
		fmt.Fprintf(&sb, ", expected one of %s", strings.Join(names, ", "))
	}
	return sb.String()
}

// Unwrap lets errors.Is match ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
