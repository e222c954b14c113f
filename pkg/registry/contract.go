package registry

import (
	"fmt"
	"regexp"
)

// ContractKind selects how raw statement text becomes function arguments.
type ContractKind int

const (
	// ContractNone passes no argument data.
	ContractNone ContractKind = iota
	// ContractStructured passes the decoded structured literal.
	ContractStructured
	// ContractPattern matches a regular expression against the joined raw
	// arguments and passes the captured groups.
	ContractPattern
)

func (k ContractKind) String() string {
	switch k {
	case ContractNone:
		return "none"
	case ContractStructured:
		return "structured"
	case ContractPattern:
		return "pattern"
	}
	return "unknown"
}

// Contract is the registration-time argument declaration.
type Contract struct {
	Kind    ContractKind
	Pattern *regexp.Regexp
}

// None declares a function that takes no argument data.
func None() Contract {
	return Contract{Kind: ContractNone}
}

// Structured declares a function that receives the decoded literal.
func Structured() Contract {
	return Contract{Kind: ContractStructured}
}

// Pattern declares a function whose arguments are the groups captured by
// expr. The expression is anchored at the start of the argument text only.
func Pattern(expr string) (Contract, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return Contract{}, fmt.Errorf("invalid argument pattern %q: %w", expr, err)
	}
	return Contract{Kind: ContractPattern, Pattern: re}, nil
}

// MustPattern is like Pattern but panics when expr does not compile.
func MustPattern(expr string) Contract {
	c, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Contract) String() string {
	if c.Kind == ContractPattern && c.Pattern != nil {
		return fmt.Sprintf("pattern(%s)", c.Pattern.String())
	}
	return c.Kind.String()
}
