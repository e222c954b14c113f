// Package cookery runs programs written in the Cookery sentence language.
//
// A program is a sequence of activities of the form
//
//	[Var =] action [Subject args...] [if|with condition args] .
//
// Names resolve against a registry of Go functions, which modules fill
// through registry.Module. A module file name.cookery may have a companion
// name.go that registers the functions it uses; companions are interpreted
// at load time.
package cookery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/vk/cookery/internal/companion"
	"github.com/vk/cookery/internal/complete"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/engine"
	"github.com/vk/cookery/internal/resolver"
	"github.com/vk/cookery/modules/core"
	"github.com/vk/cookery/pkg/registry"
)

// Engine executes Cookery modules. Submissions are serialized.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	reg      *registry.Registry
	resolver *resolver.Resolver
	runner   *engine.Engine
	advisor  *complete.Advisor
	output   io.Writer
	logger   *slog.Logger
}

// New validates cfg, registers the modules and plugin directories, and
// returns a ready Engine. Without WithModules the bundled core functions are
// registered.
func New(cfg Config, opts ...Option) (*Engine, error) {
	valid, err := NewConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.output == nil {
		o.output = os.Stdout
	}
	if len(o.modules) == 0 {
		o.modules = []registry.Module{&core.Module{}}
	}

	reg := registry.New()
	reg.RegisterModules(o.modules...)
	o.logger.Debug("All Go modules registered.", "count", len(o.modules))

	loader := companion.NewLoader()
	for name, m := range o.companions {
		loader.Add(name, m)
	}

	e := &Engine{
		cfg: *valid,
		reg: reg,
		resolver: resolver.New(resolver.Config{
			Registry:    reg,
			Loader:      loader,
			SearchPaths: valid.SearchPaths,
			Bound:       slices.Sorted(maps.Keys(valid.Globals)),
		}),
		runner: engine.New(engine.Config{
			Registry:    reg,
			CallTimeout: valid.CallTimeout,
			MaxInFlight: valid.MaxInFlight,
		}),
		advisor: complete.New(reg),
		output:  o.output,
		logger:  o.logger,
	}

	ctx := e.context(context.Background())
	for _, dir := range valid.PluginDirs {
		n, err := loader.LoadDir(ctx, reg, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load plugins: %w", err)
		}
		o.logger.Debug("Plugin directory loaded.", "dir", dir, "count", n)
	}

	return e, nil
}

// Registry returns the engine's registry. Functions registered on it are
// visible to later submissions.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// ExecuteFile runs the module at path and returns the result of its last
// activity.
func (e *Engine) ExecuteFile(ctx context.Context, path string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = e.context(ctx)
	g, err := e.resolver.ResolveFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.runner.Run(ctx, g, engine.NewScope(e.cfg.Globals), nil)
}

// ExecuteExpression runs text as an inline module based in the working
// directory.
func (e *Engine) ExecuteExpression(ctx context.Context, text string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = e.context(ctx)
	return e.execute(ctx, text, engine.NewScope(e.cfg.Globals), nil)
}

// Complete suggests continuations of prefix.
func (e *Engine) Complete(prefix string) []string {
	return e.advisor.Complete(prefix, slices.Sorted(maps.Keys(e.cfg.Globals)))
}

func (e *Engine) execute(ctx context.Context, text string, scope *engine.Scope, value any) (any, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	g, err := e.resolver.ResolveSource(ctx, text, dir)
	if err != nil {
		return nil, err
	}
	return e.runner.Run(ctx, g, scope, value)
}

func (e *Engine) context(ctx context.Context) context.Context {
	ctx = ctxlog.WithLogger(ctx, e.logger)
	return registry.WithOutput(ctx, e.output)
}
