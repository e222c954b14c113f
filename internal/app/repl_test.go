package app

import (
	"context"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines and then reports end of input.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (r *scriptedReader) SetPrompt(p string) {
	r.prompts = append(r.prompts, p)
}

func TestREPL_Loop(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		expected string
	}{
		{
			name:     "result is printed",
			lines:    []string{"echo hi."},
			expected: "= hi\n",
		},
		{
			name:     "value carries over",
			lines:    []string{"X = echo a b c.", "split X.", "count."},
			expected: "= a b c\n= [\"a\",\"b\",\"c\"]\n= 3\n",
		},
		{
			name:     "statement continues on the next line",
			lines:    []string{"echo", "spread out."},
			expected: "= spread out\n",
		},
		{
			name:     "interrupt drops a pending statement",
			lines:    []string{"echo", "^C", "echo fresh."},
			expected: "= fresh\n",
		},
		{
			name:     "errors do not end the session",
			lines:    []string{"nope.", "echo still here."},
			expected: "error: <expression>:1: unknown action 'nope'\n= still here\n",
		},
		{
			name:     "commands",
			lines:    []string{"Y = echo y.", ":vars", ":reset", ":vars", ":bogus"},
			expected: "= y\nY\nsession reset\nunknown command :bogus, try :help\n",
		},
		{
			name:     "quit stops reading",
			lines:    []string{":quit", "echo unreachable."},
			expected: "",
		},
		{
			name:     "interrupt on an empty line exits",
			lines:    []string{"^C", "echo unreachable."},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			a, out, _ := SetupAppTest(t, Config{})
			r := &scriptedReader{lines: tc.lines}

			// Act
			err := a.repl(context.Background(), a.engine.NewSession(), r)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out.String())
		})
	}
}

func TestREPL_ContinuationPrompt(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{})
	r := &scriptedReader{lines: []string{"echo", "done."}}

	require.NoError(t, a.repl(context.Background(), a.engine.NewSession(), r))
	assert.Equal(t, []string{contPrompt, newPrompt}, r.prompts)
}

func TestCompleter(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{})
	c := &completer{session: a.engine.NewSession()}

	testCases := []struct {
		name           string
		line           string
		expected       []string
		expectedLength int
	}{
		{name: "partial action", line: "ec", expected: []string{"ho"}, expectedLength: 2},
		{name: "partial subject", line: "do Fi", expected: []string{"le"}, expectedLength: 2},
		{name: "word boundary", line: "echo hi", expected: []string{" ", "."}, expectedLength: 0},
		{name: "invalid input", line: "= =", expected: []string{}, expectedLength: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line := []rune(tc.line)
			got, length := c.Do(line, len(line))

			strs := make([]string, len(got))
			for i, r := range got {
				strs[i] = string(r)
			}
			assert.Equal(t, tc.expected, strs)
			assert.Equal(t, tc.expectedLength, length)
		})
	}

	t.Run("after whitespace all names are offered", func(t *testing.T) {
		line := []rune("do ")
		got, length := c.Do(line, len(line))
		assert.Zero(t, length)
		assert.Contains(t, got, []rune("File"))
		assert.Contains(t, got, []rune("HttpFile"))
	})
}
