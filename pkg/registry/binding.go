package registry

import (
	"context"
	"fmt"
)

// Func is the signature of every registered action, subject and condition.
// args holds the role's context arguments followed by the bound statement
// arguments, see Binding.Bind.
type Func func(ctx context.Context, args []any) (any, error)

// Arguments carries what a statement wrote after a name: either raw text
// (the argument tokens joined by a single space) or a decoded structured
// literal.
type Arguments struct {
	Text       string
	Literal    any
	Structured bool
}

// Binding is one registered function together with its contract.
type Binding struct {
	// Name is the name statements use.
	Name string
	// Registered is the name the function was registered under.
	Registered string
	Role       Role
	Contract   Contract
	// Params is the exact number of arguments Fn expects.
	Params int
	Fn     Func
}

// Bind assembles the positional arguments for the function: the context
// arguments first, then the statement arguments as the contract describes
// them. The result must have exactly Params elements.
func (b *Binding) Bind(contextArgs []any, in Arguments) ([]any, error) {
	args := make([]any, 0, b.Params)
	args = append(args, contextArgs...)

	switch b.Contract.Kind {
	case ContractNone:
	case ContractStructured:
		var value any
		switch {
		case in.Structured:
			value = in.Literal
		case in.Text != "":
			value = in.Text
		}
		// A structured action that declares a single parameter only wants
		// the literal.
		if b.Role == RoleAction && b.Params == 1 && len(contextArgs) == 1 {
			args = args[:0]
		}
		args = append(args, value)
	case ContractPattern:
		if in.Structured {
			return nil, fmt.Errorf("%s %q: structured literal given to a pattern contract: %w",
				b.Role, b.Name, ErrArgumentPatternMismatch)
		}
		groups, ok := match(b.Contract, in.Text)
		if !ok {
			return nil, fmt.Errorf("%s %q: %q does not match %s: %w",
				b.Role, b.Name, in.Text, b.Contract.Pattern, ErrArgumentPatternMismatch)
		}
		args = append(args, groups...)
	}

	if len(args) != b.Params {
		return nil, fmt.Errorf("%s %q: declared %d parameters, got %d: %w",
			b.Role, b.Name, b.Params, len(args), ErrWrongArgumentArity)
	}
	return args, nil
}

// Call binds the arguments and invokes the function on the calling
// goroutine.
func (b *Binding) Call(ctx context.Context, contextArgs []any, in Arguments) (any, error) {
	args, err := b.Bind(contextArgs, in)
	if err != nil {
		return nil, err
	}
	return b.Fn(ctx, args)
}

// match returns the captured groups of the contract pattern. Groups that
// took no part in the match are nil.
func match(c Contract, text string) ([]any, bool) {
	loc := c.Pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil, false
	}
	groups := make([]any, 0, c.Pattern.NumSubexp())
	for i := 1; i <= c.Pattern.NumSubexp(); i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			groups = append(groups, nil)
			continue
		}
		groups = append(groups, text[start:end])
	}
	return groups, true
}
