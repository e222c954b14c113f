package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/cookery/internal/app"
	"github.com/vk/cookery/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError reports invalid invocations with exit code 2.
func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// flags are the persistent options shared by every command.
type flags struct {
	configFile  string
	logLevel    string
	logFormat   string
	searchPaths []string
	pluginDirs  []string
	timeout     string
	maxInFlight int64
}

// Execute parses args and runs the selected command. Results are written to
// outW, logs and diagnostics to errW. Failures are returned as *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// NewRootCommand builds the command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "cookery",
		Short: "Run programs written as plain sentences.",
		Long: `Cookery runs modules written as sentences of the form

  [Var =] action [Subject args...] [if|with condition args] .

Each NAME.cookery module may have a NAME.go companion that registers the
actions, subjects and conditions it uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "Path to the HCL settings file (default ./"+config.DefaultFile+" when present).")
	pf.StringVar(&f.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn' or 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")
	pf.StringSliceVar(&f.searchPaths, "search-path", nil, "Directory searched for imported modules. Repeatable.")
	pf.StringSliceVar(&f.pluginDirs, "plugin-dir", nil, "Directory whose Go files are registered at startup. Repeatable.")
	pf.StringVar(&f.timeout, "timeout", "", "Maximum duration of a single registered call, e.g. '30s'.")
	pf.Int64Var(&f.maxInFlight, "max-in-flight", 0, "Maximum number of registered calls running at once.")

	root.AddCommand(
		newRunCommand(f, outW, errW),
		newEvalCommand(f, outW, errW),
		newREPLCommand(f, outW, errW),
		newNewCommand(f, outW, errW),
	)
	return root
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s: expected %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// minimumArgs is cobra.MinimumNArgs with a usage exit code.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError("%s: expected at least %d argument(s), got %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// newApp turns the flags into a validated configuration and starts the app.
func newApp(ctx context.Context, f *flags, outW, errW io.Writer) (*app.App, error) {
	cfg := app.Config{
		ConfigFile:  f.configFile,
		LogLevel:    f.logLevel,
		LogFormat:   f.logFormat,
		SearchPaths: f.searchPaths,
		PluginDirs:  f.pluginDirs,
		MaxInFlight: f.maxInFlight,
	}
	if f.timeout != "" {
		d, err := parseDuration(f.timeout)
		if err != nil {
			return nil, usageError("invalid timeout: %v", err)
		}
		cfg.CallTimeout = d
	}
	if f.maxInFlight < 0 {
		return nil, usageError("invalid max-in-flight: must not be negative")
	}

	valid, err := app.LoadConfig(ctx, cfg)
	if err != nil {
		return nil, usageError("%v", err)
	}
	return app.NewApp(outW, errW, valid)
}
