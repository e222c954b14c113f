// Package engine executes resolved module graphs against a registry.
//
// Activities run in source order. Each one resolves its subjects, applies
// its condition to every subject value, falls back to the previous
// activity's result when it names no subject, and dispatches its action to
// a registered function or to an imported module. The action's result is
// bound to the activity's variable, if any, and carried into the next
// activity.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/cookery/internal/ast"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/resolver"
	"github.com/vk/cookery/pkg/registry"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxInFlight bounds concurrently running registered calls when the
// configuration leaves it unset.
const DefaultMaxInFlight = 64

// Config holds the engine's settings.
type Config struct {
	Registry *registry.Registry
	// CallTimeout bounds a single registered call. Zero disables it.
	CallTimeout time.Duration
	// MaxInFlight bounds registered calls that are still running, including
	// calls whose caller already gave up on them.
	MaxInFlight int64
}

// Engine executes module graphs.
type Engine struct {
	reg     *registry.Registry
	timeout time.Duration
	sem     *semaphore.Weighted
}

// New creates an Engine.
func New(cfg Config) *Engine {
	if cfg.Registry == nil {
		panic("engine requires a registry")
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	return &Engine{
		reg:     cfg.Registry,
		timeout: cfg.CallTimeout,
		sem:     semaphore.NewWeighted(maxInFlight),
	}
}

// Run executes the root unit of g in scope, starting from value, and
// returns the result of its last activity. A nil scope starts empty.
func (e *Engine) Run(ctx context.Context, g *resolver.Graph, scope *Scope, value any) (any, error) {
	if scope == nil {
		scope = NewScope(nil)
	}
	return e.runUnit(ctx, g, g.RootUnit(), scope, value)
}

func (e *Engine) runUnit(ctx context.Context, g *resolver.Graph, u *resolver.Unit, scope *Scope, value any) (any, error) {
	ctx = ctxlog.With(ctx, "module", u.Name)
	ctx = registry.WithBasePath(ctx, u.Dir)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Module run started.", "activities", len(u.Module.Activities))

	for _, act := range u.Module.Activities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := e.runActivity(ctx, g, u, scope, act, value)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", u.Name, act.Line, err)
		}
		value = result
	}

	logger.Debug("Module run finished.")
	return value, nil
}

func (e *Engine) runActivity(ctx context.Context, g *resolver.Graph, u *resolver.Unit, scope *Scope, act *ast.Activity, value any) (any, error) {
	subjects := make([]any, 0, len(act.Subjects))
	for _, s := range act.Subjects {
		v, err := e.resolveSubject(ctx, scope, s)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, v)
	}

	if act.Condition != nil {
		b, ok := e.reg.Lookup(registry.RoleCondition, act.Condition.Name)
		if !ok {
			return nil, fmt.Errorf("%w '%s'", ErrUnknownCondition, act.Condition.Name)
		}
		for i, v := range subjects {
			out, err := e.invoke(ctx, b, []any{v}, arguments(act.Condition))
			if err != nil {
				return nil, err
			}
			subjects[i] = out
		}
	}

	if len(subjects) == 0 && present(value) {
		subjects = []any{value}
	}

	result, err := e.dispatch(ctx, g, u, act.Action, subjects)
	if err != nil {
		return nil, err
	}

	if act.Variable != "" {
		scope.Bind(act.Variable, result)
	}
	return result, nil
}

func (e *Engine) resolveSubject(ctx context.Context, scope *Scope, s *ast.Element) (any, error) {
	if b, ok := e.reg.Lookup(registry.RoleSubject, s.Name); ok {
		return e.invoke(ctx, b, nil, arguments(s))
	}
	if v, ok := scope.Get(s.Name); ok {
		if len(s.Args) > 0 || s.Literal != nil {
			return nil, fmt.Errorf("%w: variable '%s' takes no arguments, got %q",
				registry.ErrWrongArgumentArity, s.Name, elementText(s))
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownSubject, s.Name)
}

func (e *Engine) dispatch(ctx context.Context, g *resolver.Graph, u *resolver.Unit, action *ast.Element, subjects []any) (any, error) {
	if b, ok := e.reg.Lookup(registry.RoleAction, action.Name); ok {
		return e.invoke(ctx, b, []any{subjects}, arguments(action))
	}

	if idx, ok := u.Import(action.Name); ok {
		ctxlog.FromContext(ctx).Debug("Delegating to imported module.", "alias", action.Name, "subjects", len(subjects))
		return e.runUnit(ctx, g, g.Unit(idx), NewScope(nil), startingValue(subjects))
	}

	return nil, fmt.Errorf("%w '%s'", ErrUnknownAction, action.Name)
}

// arguments converts an element's statement arguments for binding.
func arguments(el *ast.Element) registry.Arguments {
	if el.Literal != nil {
		return registry.Arguments{Literal: el.Literal.Value, Structured: true}
	}
	return registry.Arguments{Text: strings.Join(el.Args, " ")}
}

// elementText is the source text of an element's arguments.
func elementText(el *ast.Element) string {
	if el.Literal != nil {
		return el.Literal.Source
	}
	return el.Text()
}

// present reports whether v counts as a current value: nil and an empty
// subject list do not.
func present(v any) bool {
	if v == nil {
		return false
	}
	if list, ok := v.([]any); ok && len(list) == 0 {
		return false
	}
	return true
}

// startingValue is what a delegated module starts from: nothing, the
// single subject, or the whole subject list.
func startingValue(subjects []any) any {
	switch len(subjects) {
	case 0:
		return nil
	case 1:
		return subjects[0]
	}
	return subjects
}
