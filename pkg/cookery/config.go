package cookery

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the engine settings.
type Config struct {
	// SearchPaths are tried, in order, when an import is not found next to
	// the importing module.
	SearchPaths []string
	// PluginDirs are scanned at startup; every Go file found is interpreted
	// and registered.
	PluginDirs []string
	// CallTimeout bounds a single registered call. Zero disables it.
	CallTimeout time.Duration
	// MaxInFlight bounds registered calls still running. Zero selects the
	// engine default.
	MaxInFlight int64
	// Globals are bound in every root scope before the first statement.
	Globals map[string]any
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CallTimeout < 0 {
		return nil, fmt.Errorf("CallTimeout must not be negative, got %s", cfg.CallTimeout)
	}
	if cfg.MaxInFlight < 0 {
		return nil, fmt.Errorf("MaxInFlight must not be negative, got %d", cfg.MaxInFlight)
	}
	for name := range cfg.Globals {
		if name == "" || name[0] < 'A' || name[0] > 'Z' {
			return nil, fmt.Errorf("global %q must start with an uppercase letter", name)
		}
	}
	for _, p := range cfg.SearchPaths {
		if p == "" {
			return nil, errors.New("SearchPaths must not contain empty entries")
		}
	}
	return &cfg, nil
}
