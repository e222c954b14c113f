// Package lexer turns sentence-language source into a token stream. The
// scanner is stateful: how a word is classified depends on the mode stack,
// which advances with every emitted token.
package lexer

import (
	"fmt"
	"unicode/utf8"
)

// Lexer scans one source text.
type Lexer struct {
	src      string
	pos      int
	line     int
	col      int
	modes    Stack
	warnings []*LexError
}

// New creates a lexer positioned at the start of src in ModeInitial.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1, modes: NewStack()}
}

// Tokenize scans src to the end. The returned slice always ends with an EOF
// token.
func Tokenize(src string) ([]Token, []*LexError) {
	l := New(src)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens, l.Warnings()
}

// Mode returns the mode the next token will be scanned in.
func (l *Lexer) Mode() Mode {
	return l.modes.Top()
}

// Warnings returns the illegal characters seen so far.
func (l *Lexer) Warnings() []*LexError {
	return l.warnings
}

// Next scans and returns the next token.
func (l *Lexer) Next() Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Line: l.line, Col: l.col}
		}

		c := l.src[l.pos]
		if c == '#' {
			l.skipComment()
			continue
		}

		line, col := l.line, l.col
		tok, ok := l.scan(c)
		if !ok {
			continue
		}
		tok.Line, tok.Col = line, col
		l.modes = l.modes.Next(tok.Type)
		return tok
	}
}

// scan classifies the lexeme starting at c. It returns false when the input
// at the cursor was skipped.
func (l *Lexer) scan(c byte) (Token, bool) {
	if c == '{' {
		return l.scanStructured()
	}

	switch l.modes.Top() {
	case ModeInitial:
		switch {
		case c == '.':
			return l.emit(End, 1), true
		case c == '=':
			return l.emit(Assign, 1), true
		case isUpper(c):
			return Token{Type: Variable, Value: l.readName(true)}, true
		case isLower(c):
			word := l.readName(false)
			if kw, ok := Keyword(word); ok {
				return Token{Type: kw, Value: word}, true
			}
			return Token{Type: Action, Value: word}, true
		}

	case ModeSubject:
		switch {
		case l.terminatorAt(l.pos):
			return l.emit(End, 1), true
		case isUpper(c):
			return Token{Type: Subject, Value: l.readName(true)}, true
		default:
			return l.argument(ActionArgument), true
		}

	case ModeSubjectArgument:
		if l.terminatorAt(l.pos) {
			return l.emit(End, 1), true
		}
		return l.argument(SubjectArgument), true

	case ModeCondition:
		switch {
		case c == '.':
			return l.emit(End, 1), true
		case isLower(c):
			word := l.readName(false)
			if kw, ok := Keyword(word); ok {
				return Token{Type: kw, Value: word}, true
			}
			return Token{Type: Condition, Value: word}, true
		}

	case ModeConditionArgument:
		if l.terminatorAt(l.pos) {
			return l.emit(End, 1), true
		}
		word := l.readArgument()
		if word == "import" {
			return Token{Type: Import, Value: word}, true
		}
		return Token{Type: ConditionArgument, Value: word}, true

	case ModeImportPath:
		switch {
		case l.terminatorAt(l.pos):
			return l.emit(End, 1), true
		case c == '"' || c == '\'':
			return l.scanQuotedPath(c)
		case isPathChar(c):
			word := l.readWhile(isPathChar)
			if kw, ok := Keyword(word); ok {
				return Token{Type: kw, Value: word}, true
			}
			return Token{Type: Path, Value: word}, true
		}

	case ModeImportAlias:
		switch {
		case c == '.':
			return l.emit(End, 1), true
		case isWordChar(c):
			word := l.readWhile(isWordChar)
			if kw, ok := Keyword(word); ok {
				return Token{Type: kw, Value: word}, true
			}
			return Token{Type: Module, Value: word}, true
		}
	}

	l.illegal()
	return Token{}, false
}

// argument reads raw argument text. Keywords inside argument positions are
// emitted as keyword tokens so the mode stack can react to them.
func (l *Lexer) argument(t TokenType) Token {
	word := l.readArgument()
	if kw, ok := Keyword(word); ok {
		return Token{Type: kw, Value: word}
	}
	return Token{Type: t, Value: word}
}

func (l *Lexer) emit(t TokenType, n int) Token {
	tok := Token{Type: t, Value: l.src[l.pos : l.pos+n]}
	l.advance(n)
	return tok
}

// readName reads an identifier; capitalized names may carry a "[]" list
// suffix.
func (l *Lexer) readName(allowList bool) string {
	start := l.pos
	l.advance(1)
	for l.pos < len(l.src) && isWordChar(l.src[l.pos]) {
		l.advance(1)
	}
	if allowList && l.pos+1 < len(l.src) && l.src[l.pos] == '[' && l.src[l.pos+1] == ']' {
		l.advance(2)
	}
	return l.src[start:l.pos]
}

// readArgument reads up to whitespace, a brace, or a statement-terminating
// period.
func (l *Lexer) readArgument() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isSpace(c) || c == '{' || l.terminatorAt(l.pos) {
			break
		}
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.advance(size)
	}
	return l.src[start:l.pos]
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.src) && pred(l.src[l.pos]) && !l.terminatorAt(l.pos) {
		l.advance(1)
	}
	return l.src[start:l.pos]
}

func (l *Lexer) scanQuotedPath(quote byte) (Token, bool) {
	end := l.pos + 1
	for end < len(l.src) && l.src[end] != quote && l.src[end] != '\n' {
		end++
	}
	if end >= len(l.src) || l.src[end] != quote {
		l.warn(fmt.Sprintf("unterminated quoted path starting with %q", quote))
		l.advance(1)
		return Token{}, false
	}
	value := l.src[l.pos+1 : end]
	l.advance(end + 1 - l.pos)
	return Token{Type: Path, Value: value}, true
}

// scanStructured reads a balanced {...} run, ignoring braces inside string
// literals.
func (l *Lexer) scanStructured() (Token, bool) {
	depth := 0
	var quote byte
	for i := l.pos; i < len(l.src); i++ {
		c := l.src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				value := l.src[l.pos : i+1]
				l.advance(i + 1 - l.pos)
				return Token{Type: JSON, Value: value}, true
			}
		}
	}
	l.warn("unterminated structured literal")
	l.advance(1)
	return Token{}, false
}

// terminatorAt reports whether the byte at i is a period that ends a
// statement: one followed by whitespace or the end of input.
func (l *Lexer) terminatorAt(i int) bool {
	if i >= len(l.src) || l.src[i] != '.' {
		return false
	}
	return i+1 == len(l.src) || isSpace(l.src[i+1])
}

func (l *Lexer) illegal() {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.warn(fmt.Sprintf("illegal character %q", r))
	l.advance(size)
}

func (l *Lexer) warn(msg string) {
	l.warnings = append(l.warnings, &LexError{Line: l.line, Col: l.col, Msg: msg})
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.advance(1)
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else if utf8.RuneStart(l.src[l.pos]) {
			l.col++
		}
		l.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordChar(c byte) bool {
	return isUpper(c) || isLower(c) || isDigit(c) || c == '_' || c == '-'
}

func isPathChar(c byte) bool {
	return isWordChar(c) || c == '/' || c == '.'
}
