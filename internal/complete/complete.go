// Package complete suggests what may follow a partially typed input.
//
// The advisor parses the prefix and reads the set of terminals the grammar
// would accept where parsing stopped. Keyword terminals become literal
// suggestions and name terminals become the names registered for that
// role. A prefix that does not end in whitespace is completed only when its
// last word is the start of a registered name; otherwise the advisor offers
// a separating space, and a period when the statement may end there.
package complete

import (
	"strings"

	"github.com/vk/cookery/internal/lexer"
	"github.com/vk/cookery/internal/parser"
	"github.com/vk/cookery/pkg/registry"
)

// Advisor produces completions against a registry.
type Advisor struct {
	reg *registry.Registry
}

// New creates an Advisor.
func New(reg *registry.Registry) *Advisor {
	return &Advisor{reg: reg}
}

var keywords = map[lexer.TokenType]string{
	lexer.Import: "import",
	lexer.And:    "and",
	lexer.As:     "as",
	lexer.Assign: "=",
}

var nameRoles = map[lexer.TokenType]registry.Role{
	lexer.Action:    registry.RoleAction,
	lexer.Subject:   registry.RoleSubject,
	lexer.Condition: registry.RoleCondition,
}

// Complete returns the suggestions for prefix. variables are the names
// bound in the session and are offered wherever a subject may start.
func (a *Advisor) Complete(prefix string, variables []string) []string {
	tokens, _ := lexer.Tokenize(prefix)
	res, _ := parser.ParseTokens(tokens)
	if res.Stop.Type != lexer.EOF {
		return nil
	}

	if prefix != "" && !isSpace(prefix[len(prefix)-1]) {
		if names := a.partialName(tokens, variables); len(names) > 0 {
			return names
		}
		if res.Admits(lexer.End) {
			return []string{" ", "."}
		}
		return []string{" "}
	}

	var out suggestions
	for _, t := range res.Expected {
		if kw, ok := keywords[t]; ok {
			out.add(kw)
			continue
		}
		if (t == lexer.If || t == lexer.With) && a.reg.Len(registry.RoleCondition) > 0 {
			out.add(strings.ToLower(t.String()))
		}
	}
	for _, t := range res.Expected {
		role, ok := nameRoles[t]
		if !ok {
			continue
		}
		out.add(a.reg.Names(role)...)
		if role == registry.RoleSubject {
			out.add(variables...)
		}
	}
	return out.list
}

// partialName completes the last token of the input when it is a name
// admissible at its position and strictly prefixes registered names.
func (a *Advisor) partialName(tokens []lexer.Token, variables []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	last := tokens[len(tokens)-2]
	role, ok := nameRoles[last.Type]
	if !ok {
		return nil
	}

	before, _ := parser.ParseTokens(tokens[:len(tokens)-2])
	if before.Stop.Type != lexer.EOF || !before.Admits(last.Type) {
		return nil
	}

	candidates := a.reg.Names(role)
	if role == registry.RoleSubject {
		candidates = append(candidates, variables...)
	}
	var out suggestions
	for _, name := range candidates {
		if len(name) > len(last.Value) && strings.HasPrefix(name, last.Value) {
			out.add(name)
		}
	}
	return out.list
}

// suggestions is an insertion-ordered set.
type suggestions struct {
	list []string
	seen map[string]struct{}
}

func (s *suggestions) add(items ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, item := range items {
		if _, ok := s.seen[item]; ok {
			continue
		}
		s.seen[item] = struct{}{}
		s.list = append(s.list, item)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
