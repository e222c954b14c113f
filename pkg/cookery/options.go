package cookery

import (
	"io"
	"log/slog"

	"github.com/vk/cookery/pkg/registry"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	modules    []registry.Module
	companions map[string]registry.Module
	output     io.Writer
	logger     *slog.Logger
}

// WithModules registers modules in place of the bundled function set.
func WithModules(modules ...registry.Module) Option {
	return func(o *options) {
		o.modules = append(o.modules, modules...)
	}
}

// WithCompanion makes m the implementation of every module file whose base
// name is name, ahead of any sibling Go file.
func WithCompanion(name string, m registry.Module) Option {
	return func(o *options) {
		if o.companions == nil {
			o.companions = make(map[string]registry.Module)
		}
		o.companions[name] = m
	}
}

// WithOutput sets the writer registered functions print to.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
