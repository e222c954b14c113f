// Package ast holds the parsed form of a sentence-language source unit.
// Nodes are created once by the parser and never modified afterwards.
package ast

import "strings"

// Kind tags an Element with its grammatical role.
type Kind int

const (
	KindAction Kind = iota
	KindSubject
	KindCondition
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindSubject:
		return "subject"
	case KindCondition:
		return "condition"
	}
	return "unknown"
}

// Module is one parsed source unit.
type Module struct {
	Imports    []*Import
	Activities []*Activity
}

// Import is an `import <path> as <alias>` clause.
type Import struct {
	Path  string
	Alias string
}

// Activity is one statement.
type Activity struct {
	// Variable is the binding target, empty when the statement has none.
	Variable  string
	Action    *Element
	Subjects  []*Element
	Condition *Element
	// Keyword is "if" or "with" when Condition is set.
	Keyword string
	Line    int
}

// Element is an action, subject or condition together with its arguments.
// Args and Literal are mutually exclusive.
type Element struct {
	Kind    Kind
	Name    string
	Args    []string
	Literal *Literal
}

// Literal is a decoded structured value and the text it was decoded from.
type Literal struct {
	Source string
	Value  any
}

// Text returns the raw arguments joined by single spaces.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	return strings.Join(e.Args, " ")
}

// Names returns every element name the module references, grouped by kind.
func (m *Module) Names() map[Kind][]string {
	out := make(map[Kind][]string)
	for _, a := range m.Activities {
		out[KindAction] = append(out[KindAction], a.Action.Name)
		for _, s := range a.Subjects {
			out[KindSubject] = append(out[KindSubject], s.Name)
		}
		if a.Condition != nil {
			out[KindCondition] = append(out[KindCondition], a.Condition.Name)
		}
	}
	return out
}
