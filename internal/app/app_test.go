package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookery/pkg/registry"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	a, _, logs := SetupAppTest(t, Config{})

	reg := a.Engine().Registry()
	assert.True(t, reg.Has(registry.RoleAction, "display"))
	assert.True(t, reg.Has(registry.RoleSubject, "HttpFile"))
	assert.True(t, reg.Has(registry.RoleAction, "emit"))
	assert.Contains(t, logs.String(), "Engine ready.")
}

func TestNewApp_PluginFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.go", "package bad\n")

	cfg, err := NewConfig(Config{PluginDirs: []string{dir}})
	require.NoError(t, err)
	_, err = NewApp(&SafeBuffer{}, &SafeBuffer{}, cfg)
	assert.ErrorContains(t, err, "failed to start engine")
}

func TestApp_Run(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	writeFile(t, dir, "in.txt", "b a")
	path := writeFile(t, dir, "main.cookery", "Words = split File in.txt.\ndisplay Words.\n")
	a, out, _ := SetupAppTest(t, Config{})

	// Act
	err := a.Run(context.Background(), path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "[\"b\",\"a\"]\n", out.String())
}

func TestApp_Run_Failure(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{})
	err := a.Run(context.Background(), filepath.Join(t.TempDir(), "missing.cookery"))
	assert.ErrorContains(t, err, "execution failed")
}

func TestApp_Eval(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{Globals: map[string]any{"Count": 2.0}})

	require.NoError(t, a.Eval(context.Background(), "echo hello world."))
	require.NoError(t, a.Eval(context.Background(), "do Count."))
	assert.Equal(t, "hello world\n[2]\n", out.String())

	err := a.Eval(context.Background(), "nothing here.")
	assert.ErrorContains(t, err, "evaluation failed")
}

func TestApp_Scaffold(t *testing.T) {
	dir := t.TempDir()
	a, out, _ := SetupAppTest(t, Config{})

	created, err := a.Scaffold(dir, "my-recipe")
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.FileExists(t, filepath.Join(dir, "my-recipe.cookery"))
	assert.FileExists(t, filepath.Join(dir, "my-recipe.go"))

	t.Run("the scaffold runs", func(t *testing.T) {
		require.NoError(t, a.Run(context.Background(), created[0]))
		assert.Equal(t, "Hello from my-recipe\n", out.String())
	})

	t.Run("existing files are kept", func(t *testing.T) {
		_, err := a.Scaffold(dir, "my-recipe")
		assert.ErrorContains(t, err, "already exists")
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := a.Scaffold(dir, "../escape")
		assert.ErrorContains(t, err, "invalid module name")
	})
}

func TestApp_Watch(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "main.cookery", "display Env COOKERY_WATCH.\n")
	t.Setenv("COOKERY_WATCH", "first")
	a, out, _ := SetupAppTest(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- a.Watch(ctx, path) }()
	require.Eventually(t, func() bool { return out.String() == "first\n" }, 5*time.Second, 10*time.Millisecond)

	writeFile(t, dir, "main.cookery", "display Env COOKERY_WATCH.\ndisplay Env COOKERY_WATCH.\n")

	// Assert
	require.Eventually(t, func() bool { return out.String() == "first\nfirst\nfirst\n" }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
