// Package config decodes the optional HCL settings file.
//
// Example:
//
//	log_level     = "debug"
//	search_paths  = ["lib", "/usr/share/cookery"]
//	plugin_dirs   = ["plugins"]
//	call_timeout  = "30s"
//	max_in_flight = 16
//	globals = {
//	  Greeting = "hello"
//	}
//
// Relative paths are resolved against the directory of the settings file.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/ctyconv"
)

// DefaultFile is the settings file looked up when none is named.
const DefaultFile = "cookery.hcl"

// fileSchema mirrors the attributes of the settings file.
type fileSchema struct {
	LogLevel    string         `hcl:"log_level,optional"`
	LogFormat   string         `hcl:"log_format,optional"`
	SearchPaths []string       `hcl:"search_paths,optional"`
	PluginDirs  []string       `hcl:"plugin_dirs,optional"`
	CallTimeout string         `hcl:"call_timeout,optional"`
	MaxInFlight int64          `hcl:"max_in_flight,optional"`
	Globals     hcl.Expression `hcl:"globals,optional"`
}

// Settings are the decoded values. Zero fields were not set by the file.
type Settings struct {
	LogLevel    string
	LogFormat   string
	SearchPaths []string
	PluginDirs  []string
	CallTimeout time.Duration
	MaxInFlight int64
	Globals     map[string]any
}

// Load parses and decodes the settings file at path.
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding settings file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %s", path, diags.Error())
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %s", path, diags.Error())
	}

	s := &Settings{
		LogLevel:    raw.LogLevel,
		LogFormat:   raw.LogFormat,
		MaxInFlight: raw.MaxInFlight,
	}

	base := filepath.Dir(path)
	s.SearchPaths = resolveAll(base, raw.SearchPaths)
	s.PluginDirs = resolveAll(base, raw.PluginDirs)

	if raw.CallTimeout != "" {
		d, err := time.ParseDuration(raw.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("settings file %s: invalid call_timeout %q: %w", path, raw.CallTimeout, err)
		}
		s.CallTimeout = d
	}
	if raw.MaxInFlight < 0 {
		return nil, fmt.Errorf("settings file %s: max_in_flight must not be negative", path)
	}

	globals, err := decodeGlobals(raw.Globals)
	if err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	s.Globals = globals

	logger.Debug("Settings file decoded.", "path", path, "search_paths", len(s.SearchPaths), "globals", len(s.Globals))
	return s, nil
}

func decodeGlobals(expr hcl.Expression) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid globals: %s", diags.Error())
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("globals must be an object, got %s", val.Type().FriendlyName())
	}
	native, err := ctyconv.ToNative(val)
	if err != nil {
		return nil, fmt.Errorf("invalid globals: %w", err)
	}
	globals, _ := native.(map[string]any)
	return globals, nil
}

func resolveAll(base string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		if filepath.IsAbs(p) {
			out[i] = filepath.Clean(p)
		} else {
			out[i] = filepath.Join(base, p)
		}
	}
	return out
}
