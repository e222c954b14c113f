package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cookery/internal/cli"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// Arrange
	out := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	// Assert
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// Arrange
	args := []string{"--this-is-not-a-valid-flag"}

	// Act
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, args)

	// Assert
	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_File(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.cookery")
	require.NoError(t, os.WriteFile(path, []byte("Greeting = echo hello.\ndisplay Greeting.\n"), 0o600))
	out := &bytes.Buffer{}

	// Act
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"run", path})

	// Assert
	require.NoError(t, err)
	require.Equal(t, "hello\n", out.String())
}

func TestRun_SyntaxError(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cookery")
	require.NoError(t, os.WriteFile(path, []byte("echo never finished\n"), 0o600))

	// Act
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"run", path})

	// Assert
	require.Error(t, err)
	require.Contains(t, err.Error(), "syntax error")
}
