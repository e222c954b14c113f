package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "repl")
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{"unknown flag", []string{"--this-is-not-a-valid-flag"}, "unknown flag: --this-is-not-a-valid-flag"},
		{"unknown command", []string{"bake"}, `unknown command "bake"`},
		{"missing file", []string{"run"}, "expected 1 argument(s), got 0"},
		{"missing expression", []string{"eval"}, "expected at least 1 argument(s), got 0"},
		{"bad log level", []string{"--log-level", "loud", "eval", "do."}, "invalid log-level"},
		{"bad log format", []string{"--log-format", "xml", "eval", "do."}, "invalid log-format"},
		{"bad timeout", []string{"--timeout", "soon", "eval", "do."}, "invalid timeout"},
		{"negative in flight", []string{"--max-in-flight", "-1", "eval", "do."}, "invalid max-in-flight"},
		{"missing settings file", []string{"--config", "/nonexistent/cookery.hcl", "eval", "do."}, "settings file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, 2, exitCode(t, err))
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}

func TestExecute_Eval(t *testing.T) {
	out, _, err := execute(t, "eval", "echo", "hello", "world.")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)

	_, _, err = execute(t, "eval", "vanish.")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Contains(t, err.Error(), "unknown action 'vanish'")
}

func TestExecute_Run(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(lib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "greet.cookery"), []byte("display.\n"), 0o644))
	main := filepath.Join(dir, "main.cookery")
	require.NoError(t, os.WriteFile(main, []byte("import greet.\ngreet Greeting.\n"), 0o644))
	settings := filepath.Join(dir, "settings.hcl")
	require.NoError(t, os.WriteFile(settings, []byte(`
search_paths = ["lib"]
globals = {
  Greeting = "from settings"
}
`), 0o644))

	// Act
	out, logs, err := execute(t, "--config", settings, "--log-level", "debug", "run", main)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from settings\n", out)
	assert.Contains(t, logs, "Engine ready.")
}

func TestExecute_New(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "new", "--dir", dir, "pastry")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "pastry.cookery"))
	assert.FileExists(t, filepath.Join(dir, "pastry.go"))

	out, _, err = execute(t, "run", filepath.Join(dir, "pastry.cookery"))
	require.NoError(t, err)
	assert.Equal(t, "Hello from pastry\n", out)
}
