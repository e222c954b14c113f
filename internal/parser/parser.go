// Package parser builds an ast.Module from a token stream.
//
// The grammar has no left recursion and needs a single token of lookahead,
// so the parser is plain recursive descent. While it runs it remembers the
// set of terminals that were admissible at the furthest position it reached;
// the completion advisor reads that set after parsing a partial input.
package parser

import (
	"sort"

	"github.com/vk/cookery/internal/ast"
	"github.com/vk/cookery/internal/ctyconv"
	"github.com/vk/cookery/internal/lexer"
)

// Result is the outcome of a parse, successful or not.
type Result struct {
	// Module is nil when parsing failed.
	Module *ast.Module
	// Expected lists the terminals admissible at the furthest position
	// reached, in TokenType order.
	Expected []lexer.TokenType
	// Stop is the token at that position.
	Stop lexer.Token
}

// Admits reports whether t was admissible at the stop position.
func (r *Result) Admits(t lexer.TokenType) bool {
	for _, e := range r.Expected {
		if e == t {
			return true
		}
	}
	return false
}

// Parse tokenizes and parses src. Lexical warnings are returned alongside;
// they never cause failure on their own.
func Parse(src string) (*ast.Module, []*lexer.LexError, error) {
	tokens, warnings := lexer.Tokenize(src)
	res, err := ParseTokens(tokens)
	if err != nil {
		return nil, warnings, err
	}
	return res.Module, warnings, nil
}

// ParseTokens parses a token slice. A slice that does not end with EOF is
// treated as if it did.
func ParseTokens(tokens []lexer.Token) (*Result, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		eof := lexer.Token{Type: lexer.EOF}
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			eof.Line, eof.Col = last.Line, last.Col+len(last.Value)
		}
		tokens = append(append([]lexer.Token(nil), tokens...), eof)
	}

	p := &parser{tokens: tokens, expected: make(map[lexer.TokenType]struct{})}
	mod, err := p.parseModule()

	res := &Result{Expected: p.expectedList(), Stop: p.tokens[p.furthest]}
	if err != nil {
		return res, err
	}
	res.Module = mod
	return res, nil
}

type parser struct {
	tokens   []lexer.Token
	pos      int
	furthest int
	expected map[lexer.TokenType]struct{}
}

func (p *parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

// check reports whether the current token has type t and records t as
// admissible at this position.
func (p *parser) check(t lexer.TokenType) bool {
	if p.pos > p.furthest {
		p.furthest = p.pos
		clear(p.expected)
	}
	if p.pos == p.furthest {
		p.expected[t] = struct{}{}
	}
	return p.peek().Type == t
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.check(t) {
		return lexer.Token{}, p.fail()
	}
	return p.advance(), nil
}

func (p *parser) fail() error {
	tok := p.peek()
	return &SyntaxError{Line: tok.Line, Col: tok.Col, Found: tok, Expected: p.expectedList()}
}

func (p *parser) failf(tok lexer.Token, msg string) error {
	return &SyntaxError{Line: tok.Line, Col: tok.Col, Found: tok, Msg: msg}
}

func (p *parser) expectedList() []lexer.TokenType {
	out := make([]lexer.TokenType, 0, len(p.expected))
	for t := range p.expected {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// module := import* activity+
func (p *parser) parseModule() (*ast.Module, error) {
	mod := &ast.Module{}
	for p.check(lexer.Import) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		mod.Imports = append(mod.Imports, imp)
	}

	for {
		act, err := p.parseActivity()
		if err != nil {
			return nil, err
		}
		mod.Activities = append(mod.Activities, act)

		startsActivity := p.check(lexer.Variable)
		startsActivity = p.check(lexer.Action) || startsActivity
		if !startsActivity {
			break
		}
	}

	if _, err := p.expect(lexer.EOF); err != nil {
		return nil, err
	}
	return mod, nil
}

// import := IMPORT PATH AS MODULE
func (p *parser) parseImport() (*ast.Import, error) {
	p.advance()
	path, err := p.expect(lexer.Path)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.As); err != nil {
		return nil, err
	}
	alias, err := p.expect(lexer.Module)
	if err != nil {
		return nil, err
	}
	return &ast.Import{Path: path.Value, Alias: alias.Value}, nil
}

// activity := [VARIABLE '='] action [subjects] [(IF|WITH) condition] END
//
// A condition after an assignment requires at least one subject.
func (p *parser) parseActivity() (*ast.Activity, error) {
	act := &ast.Activity{Line: p.peek().Line}

	isVariable := p.check(lexer.Variable)
	if !isVariable && !p.check(lexer.Action) {
		return nil, p.fail()
	}
	if isVariable {
		act.Variable = p.advance().Value
		if _, err := p.expect(lexer.Assign); err != nil {
			return nil, err
		}
	}

	action, err := p.parseElement(ast.KindAction, lexer.Action, lexer.ActionArgument)
	if err != nil {
		return nil, err
	}
	act.Action = action

	if p.check(lexer.Subject) {
		if act.Subjects, err = p.parseSubjects(); err != nil {
			return nil, err
		}
	}

	if act.Variable == "" || len(act.Subjects) > 0 {
		isIf := p.check(lexer.If)
		isWith := p.check(lexer.With)
		if isIf || isWith {
			act.Keyword = p.advance().Value
			if act.Condition, err = p.parseElement(ast.KindCondition, lexer.Condition, lexer.ConditionArgument); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect(lexer.End); err != nil {
		return nil, err
	}
	return act, nil
}

// subjects := SUBJECT args? (AND subjects)?
func (p *parser) parseSubjects() ([]*ast.Element, error) {
	var subjects []*ast.Element
	for {
		s, err := p.parseElement(ast.KindSubject, lexer.Subject, lexer.SubjectArgument)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
		if !p.check(lexer.And) {
			return subjects, nil
		}
		p.advance()
	}
}

// element := name (JSON | argument+)?
func (p *parser) parseElement(kind ast.Kind, name, argument lexer.TokenType) (*ast.Element, error) {
	tok, err := p.expect(name)
	if err != nil {
		return nil, err
	}
	el := &ast.Element{Kind: kind, Name: tok.Value}

	if p.check(lexer.JSON) {
		lit := p.advance()
		value, err := ctyconv.DecodeLiteral(lit.Value)
		if err != nil {
			return nil, p.failf(lit, err.Error())
		}
		el.Literal = &ast.Literal{Source: lit.Value, Value: value}
		return el, nil
	}

	for p.check(argument) {
		el.Args = append(el.Args, p.advance().Value)
	}
	return el, nil
}
