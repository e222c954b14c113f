package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/cookery/pkg/cookery"
	"github.com/vk/cookery/pkg/registry"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	engine *cookery.Engine
	config *Config
}

// NewApp returns a fully initialized App with its own logger and engine.
// Results go to outW and logs to logW. Without modules, coreModules are
// registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}

	engine, err := cookery.New(cookery.Config{
		SearchPaths: cfg.SearchPaths,
		PluginDirs:  cfg.PluginDirs,
		CallTimeout: cfg.CallTimeout,
		MaxInFlight: cfg.MaxInFlight,
		Globals:     cfg.Globals,
	},
		cookery.WithModules(modules...),
		cookery.WithOutput(outW),
		cookery.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}
	logger.Debug("Engine ready.",
		"actions", engine.Registry().Len(registry.RoleAction),
		"subjects", engine.Registry().Len(registry.RoleSubject),
		"conditions", engine.Registry().Len(registry.RoleCondition),
	)

	return &App{
		outW:   outW,
		logger: logger,
		engine: engine,
		config: cfg,
	}, nil
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *cookery.Engine {
	return a.engine
}
