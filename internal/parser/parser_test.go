package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/cookery/internal/ast"
	"github.com/vk/cookery/internal/lexer"
)

func action(name string, args ...string) *ast.Element {
	return &ast.Element{Kind: ast.KindAction, Name: name, Args: args}
}

func subject(name string, args ...string) *ast.Element {
	return &ast.Element{Kind: ast.KindSubject, Name: name, Args: args}
}

func condition(name string, args ...string) *ast.Element {
	return &ast.Element{Kind: ast.KindCondition, Name: name, Args: args}
}

// ignoreLines keeps the expected trees short.
var ignoreLines = cmp.FilterPath(func(p cmp.Path) bool {
	return p.Last().String() == ".Line"
}, cmp.Ignore())

func TestParse_ActivityForms(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected *ast.Activity
	}{
		{
			name:     "action",
			src:      "do.",
			expected: &ast.Activity{Action: action("do")},
		},
		{
			name: "action subject",
			src:  "read File /tmp/test.txt.",
			expected: &ast.Activity{
				Action:   action("read"),
				Subjects: []*ast.Element{subject("File", "/tmp/test.txt")},
			},
		},
		{
			name: "action condition",
			src:  "read very slowly with something else like this ftp://test.txt.",
			expected: &ast.Activity{
				Action:    action("read", "very", "slowly"),
				Condition: condition("something", "else", "like", "this", "ftp://test.txt"),
				Keyword:   "with",
			},
		},
		{
			name: "action subject condition",
			src:  "read File if test.",
			expected: &ast.Activity{
				Action:    action("read"),
				Subjects:  []*ast.Element{subject("File")},
				Condition: condition("test"),
				Keyword:   "if",
			},
		},
		{
			name: "assignment",
			src:  "T[] = read.",
			expected: &ast.Activity{
				Variable: "T[]",
				Action:   action("read"),
			},
		},
		{
			name: "assignment with subjects",
			src:  "Test = read File1 /tmp/test.txt and File2 /tmp/test.aaa.",
			expected: &ast.Activity{
				Variable: "Test",
				Action:   action("read"),
				Subjects: []*ast.Element{
					subject("File1", "/tmp/test.txt"),
					subject("File2", "/tmp/test.aaa"),
				},
			},
		},
		{
			name: "assignment with subjects and condition",
			src:  "Test = read very http://example.com slowly File\n  file:///tmp/test.txt with something.",
			expected: &ast.Activity{
				Variable:  "Test",
				Action:    action("read", "very", "http://example.com", "slowly"),
				Subjects:  []*ast.Element{subject("File", "file:///tmp/test.txt")},
				Condition: condition("something"),
				Keyword:   "with",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mod, warnings, err := Parse(tc.src)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			require.Len(t, mod.Activities, 1)

			if diff := cmp.Diff(tc.expected, mod.Activities[0], ignoreLines); diff != "" {
				t.Errorf("activity mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_StructuredLiteral(t *testing.T) {
	src := `create-email {"to"      : "a@example.com",
	                    "subject" : "Results"}.`

	mod, _, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, mod.Activities, 1)

	el := mod.Activities[0].Action
	assert.Equal(t, "create-email", el.Name)
	assert.Nil(t, el.Args)
	require.NotNil(t, el.Literal)
	assert.Equal(t, map[string]any{"to": "a@example.com", "subject": "Results"}, el.Literal.Value)
}

func TestParse_Imports(t *testing.T) {
	mod, _, err := Parse("import 'a' as a\nimport \"lib/b\" as b\nd.")
	require.NoError(t, err)

	assert.Equal(t, []*ast.Import{
		{Path: "a", Alias: "a"},
		{Path: "lib/b", Alias: "b"},
	}, mod.Imports)
	require.Len(t, mod.Activities, 1)
	assert.Equal(t, "d", mod.Activities[0].Action.Name)
}

func TestParse_SeveralActivities(t *testing.T) {
	mod, _, err := Parse("do File. do File. do File.")
	require.NoError(t, err)
	assert.Len(t, mod.Activities, 3)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"empty input", ""},
		{"missing terminator", "do File"},
		{"condition after bare assignment", "X = read with something."},
		{"raw arguments after literal", `do {"a" = 1} extra.`},
		{"literal that does not decode", "do {'a': 2}."},
		{"imports only", "import a as a"},
		{"assignment without action", "X = ."},
		{"import after activity", "do. import a as a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mod, _, err := Parse(tc.src)
			require.Error(t, err)
			assert.Nil(t, mod)
			assert.True(t, errors.Is(err, ErrSyntax), "error should wrap ErrSyntax: %v", err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.NotZero(t, syntaxErr.Line)
		})
	}
}

func TestParseTokens_ExpectedAtEnd(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected []lexer.TokenType
	}{
		{
			name:     "empty input",
			src:      "",
			expected: []lexer.TokenType{lexer.Variable, lexer.Action, lexer.Import},
		},
		{
			name: "after action",
			src:  "do ",
			expected: []lexer.TokenType{
				lexer.ActionArgument, lexer.Subject, lexer.JSON, lexer.End, lexer.If, lexer.With,
			},
		},
		{
			name:     "after assignment action",
			src:      "X = do ",
			expected: []lexer.TokenType{lexer.ActionArgument, lexer.Subject, lexer.JSON, lexer.End},
		},
		{
			name:     "after subject",
			src:      "do File ",
			expected: []lexer.TokenType{lexer.SubjectArgument, lexer.JSON, lexer.End, lexer.And, lexer.If, lexer.With},
		},
		{
			name:     "after complete statement",
			src:      "do. ",
			expected: []lexer.TokenType{lexer.EOF, lexer.Variable, lexer.Action},
		},
		{
			name:     "after variable",
			src:      "X ",
			expected: []lexer.TokenType{lexer.Assign},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, _ := lexer.Tokenize(tc.src)
			res, _ := ParseTokens(tokens)
			require.NotNil(t, res)
			assert.Equal(t, lexer.EOF, res.Stop.Type)
			assert.ElementsMatch(t, tc.expected, res.Expected)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	sources := []string{
		"do.",
		"do B.",
		"A = do B.",
		"do Aa and Bb.",
		`do {"a": 2}.`,
		`do Aaa {"a": 2}.`,
		`import "a/a" as b a.`,
		"import 'a' as a\nimport 'b' as b\nd.",
		"Test = read File.",
		"read with something.",
		"Test = read File with something.",
		"read File /tmp/test.txt.",
		"Test = read very http://example.com slowly File file:///tmp/test.txt with something.",
		"read very slowly with something else like this ftp://test.txt.",
		"Test = read File1 and File2[] and File3.",
		"Test = read File1 /tmp/test.txt and File2 with something.",
		"T[] = read.",
		"read T[].",
		"do File. do File. do File.",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first, _, err := Parse(src)
			require.NoError(t, err)

			printed := first.String()
			second, _, err := Parse(printed)
			require.NoError(t, err, "printed form must parse:\n%s", printed)

			if diff := cmp.Diff(first, second, ignoreLines); diff != "" {
				t.Errorf("round trip changed the module (-first +second):\n%s", diff)
			}
		})
	}
}
