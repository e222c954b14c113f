package complete

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/cookery/pkg/registry"
)

func noop(_ context.Context, _ []any) (any, error) { return nil, nil }

func newRegistry(withConditions bool) *registry.Registry {
	r := registry.New()
	r.RegisterAction("do", registry.None(), 1, noop)
	r.RegisterAction("echo", registry.MustPattern(`(.*)`), 2, noop)
	r.RegisterSubject("file", registry.MustPattern(`(.+)`), 1, noop)
	r.RegisterSubject("http_file", registry.MustPattern(`(.+)`), 1, noop)
	if withConditions {
		r.RegisterCondition("lowercase", registry.None(), 1, noop)
	}
	return r
}

func TestComplete(t *testing.T) {
	testCases := []struct {
		name       string
		prefix     string
		conditions bool
		variables  []string
		expected   []string
	}{
		{
			name:     "empty input",
			prefix:   "",
			expected: []string{"import", "do", "echo"},
		},
		{
			name:     "partial action",
			prefix:   "d",
			expected: []string{"do"},
		},
		{
			name:     "partial action with several matches",
			prefix:   "e",
			expected: []string{"echo"},
		},
		{
			name:     "complete action name without space",
			prefix:   "do",
			expected: []string{" ", "."},
		},
		{
			name:      "after action",
			prefix:    "do ",
			variables: []string{"Recipe"},
			expected:  []string{"File", "HttpFile", "Recipe"},
		},
		{
			name:       "after action with conditions registered",
			prefix:     "do ",
			conditions: true,
			expected:   []string{"if", "with", "File", "HttpFile"},
		},
		{
			name:     "partial subject",
			prefix:   "do F",
			expected: []string{"File"},
		},
		{
			name:      "partial subject matching a variable",
			prefix:    "do Re",
			variables: []string{"Recipe"},
			expected:  []string{"Recipe"},
		},
		{
			name:     "after subject",
			prefix:   "do File ",
			expected: []string{"and"},
		},
		{
			name:       "after condition keyword",
			prefix:     "do File with ",
			conditions: true,
			expected:   []string{"lowercase"},
		},
		{
			name:       "partial condition",
			prefix:     "do File with low",
			conditions: true,
			expected:   []string{"lowercase"},
		},
		{
			name:     "after variable",
			prefix:   "X ",
			expected: []string{"="},
		},
		{
			name:     "after assignment",
			prefix:   "X = ",
			expected: []string{"do", "echo"},
		},
		{
			name:     "variable without space",
			prefix:   "X",
			expected: []string{" "},
		},
		{
			name:     "after complete statement",
			prefix:   "do. ",
			expected: []string{"do", "echo"},
		},
		{
			name:     "complete statement without space",
			prefix:   "do.",
			expected: []string{" "},
		},
		{
			name:     "after import keyword",
			prefix:   "import ",
			expected: nil,
		},
		{
			name:     "after import path",
			prefix:   "import 'lib' ",
			expected: []string{"as"},
		},
		{
			name:     "input already invalid",
			prefix:   "X = do with ",
			expected: nil,
		},
		{
			name:     "unknown partial name",
			prefix:   "z",
			expected: []string{" ", "."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := New(newRegistry(tc.conditions))

			got := a.Complete(tc.prefix, tc.variables)

			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestComplete_DoesNotRepeatConsumedKeywords(t *testing.T) {
	a := New(newRegistry(true))

	got := a.Complete("do ", nil)

	assert.NotEmpty(t, got)
	assert.NotContains(t, got, "do")
	assert.NotContains(t, got, "import")
	assert.NotContains(t, got, "=")
}
