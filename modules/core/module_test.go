package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookery/pkg/registry"
)

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	assert.Equal(t, []string{"count", "display", "do", "echo", "split"}, r.Names(registry.RoleAction))
	assert.Equal(t, []string{"Env", "File"}, r.Names(registry.RoleSubject))
	assert.Equal(t, []string{"lowercase"}, r.Names(registry.RoleCondition))
}

func TestDisplay(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	ctx := registry.WithOutput(context.Background(), &out)
	subs := []any{"hello", 3.0, []any{"a", "b"}}

	// Act
	got, err := Display(ctx, []any{subs})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, subs, got)
	assert.Equal(t, "hello\n3\n[\"a\",\"b\"]\n", out.String())
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name        string
		args        []any
		expected    any
		expectedErr string
	}{
		{"whitespace", []any{[]any{"a b\tc\n"}, ""}, []any{"a", "b", "c"}, ""},
		{"separator", []any{[]any{"a,b,,c"}, ","}, []any{"a", "b", "", "c"}, ""},
		{"missing separator group", []any{[]any{"x y"}, nil}, []any{"x", "y"}, ""},
		{"no subject", []any{[]any{}, ""}, nil, "no subject given"},
		{"not text", []any{[]any{2.0}, ""}, nil, "expected text"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Split(context.Background(), tc.args)
			if tc.expectedErr != "" {
				assert.ErrorContains(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCount(t *testing.T) {
	testCases := []struct {
		name     string
		subjects []any
		expected any
	}{
		{"no subjects", nil, 0.0},
		{"list", []any{[]any{"a", "b", "c"}}, 3.0},
		{"text counts characters", []any{"héllo"}, 5.0},
		{"record", []any{map[string]any{"a": 1.0}}, 1.0},
		{"null", []any{nil}, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Count(context.Background(), []any{tc.subjects})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := Count(context.Background(), []any{[]any{true}})
	assert.ErrorContains(t, err, "cannot count a bool")
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("contents"), 0o644))
	ctx := registry.WithBasePath(context.Background(), dir)

	got, err := File(ctx, []any{"a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "contents", got)

	_, err = File(ctx, []any{"missing.txt"})
	assert.ErrorContains(t, err, "failed to read file")
}

func TestEnv(t *testing.T) {
	t.Setenv("COOKERY_TEST_VALUE", "42")

	got, err := Env(context.Background(), []any{"COOKERY_TEST_VALUE"})
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = Env(context.Background(), []any{"COOKERY_TEST_SURELY_UNSET"})
	assert.ErrorContains(t, err, "is not set")
}

func TestLowercase(t *testing.T) {
	got, err := Lowercase(context.Background(), []any{"MiXeD"})
	require.NoError(t, err)
	assert.Equal(t, "mixed", got)

	got, err = Lowercase(context.Background(), []any{[]any{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)

	_, err = Lowercase(context.Background(), []any{2.0})
	assert.ErrorContains(t, err, "expected text")
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected string
	}{
		{"nil", nil, "(null)"},
		{"text", "hi", "hi"},
		{"whole number", 3.0, "3"},
		{"fraction", 2.5, "2.5"},
		{"list", []any{"a", 1.0}, `["a",1]`},
		{"record", map[string]any{"k": true}, `{"k":true}`},
		{"other", true, "true"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Format(tc.in))
		})
	}
}
