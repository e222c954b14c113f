package app

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/vk/cookery/internal/config"
	"github.com/vk/cookery/internal/fsutil"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigFile names the HCL settings file. When empty, config.DefaultFile
	// is used if it exists in the working directory.
	ConfigFile string

	LogFormat string
	LogLevel  string

	SearchPaths []string
	PluginDirs  []string
	CallTimeout time.Duration
	MaxInFlight int64
	Globals     map[string]any
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.CallTimeout < 0 {
		return nil, fmt.Errorf("invalid timeout %s: must not be negative", cfg.CallTimeout)
	}
	return &cfg, nil
}

// LoadConfig merges the settings file into cfg and validates the result.
// Values already set in cfg take precedence; paths from the file are
// appended after the ones in cfg.
func LoadConfig(ctx context.Context, cfg Config) (*Config, error) {
	path := cfg.ConfigFile
	if path == "" && fsutil.IsFile(config.DefaultFile) {
		path = config.DefaultFile
	}
	if path == "" {
		return NewConfig(cfg)
	}

	s, err := config.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	cfg.ConfigFile = path

	if cfg.LogLevel == "" {
		cfg.LogLevel = s.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = s.LogFormat
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = s.CallTimeout
	}
	if cfg.MaxInFlight == 0 {
		cfg.MaxInFlight = s.MaxInFlight
	}
	cfg.SearchPaths = append(cfg.SearchPaths, s.SearchPaths...)
	cfg.PluginDirs = append(cfg.PluginDirs, s.PluginDirs...)

	if len(s.Globals) > 0 {
		globals := make(map[string]any, len(s.Globals)+len(cfg.Globals))
		maps.Copy(globals, s.Globals)
		maps.Copy(globals, cfg.Globals)
		cfg.Globals = globals
	}
	return NewConfig(cfg)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	switch s {
	case "debug", "info", "warn", "error":
	default:
		return level, fmt.Errorf("unknown level %q", s)
	}
	err := level.UnmarshalText([]byte(s))
	return level, err
}
