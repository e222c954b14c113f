// Package core provides the general-purpose actions, subjects and
// conditions every engine starts with.
//
// Actions:
//
//	do             returns its subjects unchanged
//	echo TEXT      returns TEXT
//	display        prints every subject to the engine output
//	split [SEP]    splits the first subject on SEP, or on whitespace
//	count          counts the elements (or characters) of the first subject
//
// Subjects:
//
//	File PATH      contents of PATH, relative to the module's directory
//	Env NAME       value of the environment variable NAME
//
// Conditions:
//
//	lowercase      lower-cases text values
package core

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/pkg/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the package's functions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAction("do", registry.None(), 1, Do)
	r.RegisterAction("echo", registry.MustPattern(`(.*)`), 2, Echo)
	r.RegisterAction("display", registry.None(), 1, Display)
	r.RegisterAction("split", registry.MustPattern(`(.*)`), 2, Split)
	r.RegisterAction("count", registry.None(), 1, Count)
	r.RegisterSubject("file", registry.MustPattern(`(.+)`), 1, File)
	r.RegisterSubject("env", registry.MustPattern(`(\S+)`), 1, Env)
	r.RegisterCondition("lowercase", registry.None(), 1, Lowercase)
}

// Do returns its subjects.
func Do(ctx context.Context, args []any) (any, error) {
	ctxlog.FromContext(ctx).Debug("do", "subjects", len(subjects(args)))
	return args[0], nil
}

// Echo returns its argument text.
func Echo(_ context.Context, args []any) (any, error) {
	return args[1], nil
}

// Display writes one line per subject to the engine output and returns the
// subjects.
func Display(ctx context.Context, args []any) (any, error) {
	out := registry.Output(ctx)
	for _, s := range subjects(args) {
		if _, err := fmt.Fprintln(out, Format(s)); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
	}
	return args[0], nil
}

// Split splits the first subject into words.
func Split(_ context.Context, args []any) (any, error) {
	text, err := firstText(args)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	var parts []string
	if sep, _ := args[1].(string); sep != "" {
		parts = strings.Split(text, sep)
	} else {
		parts = strings.Fields(text)
	}
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

// Count returns the length of the first subject as a float64, matching the
// number type of structured literals.
func Count(_ context.Context, args []any) (any, error) {
	subs := subjects(args)
	if len(subs) == 0 {
		return 0.0, nil
	}
	switch v := subs[0].(type) {
	case nil:
		return 0.0, nil
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case []any:
		return float64(len(v)), nil
	case []string:
		return float64(len(v)), nil
	case map[string]any:
		return float64(len(v)), nil
	default:
		return nil, fmt.Errorf("count: cannot count a %T", v)
	}
}

// File reads a file relative to the module's directory.
func File(ctx context.Context, args []any) (any, error) {
	path := registry.ResolvePath(ctx, args[0].(string))
	ctxlog.FromContext(ctx).Debug("Opening file.", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// Env returns the value of an environment variable. Unset variables are an
// error.
func Env(_ context.Context, args []any) (any, error) {
	name := args[0].(string)
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil, fmt.Errorf("environment variable %s is not set", name)
	}
	return v, nil
}

// Lowercase lower-cases text values, including the text elements of a
// list.
func Lowercase(_ context.Context, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("lowercase: element %d is a %T, not text", i, e)
			}
			out[i] = strings.ToLower(s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("lowercase: expected text, got %T", v)
	}
}

func subjects(args []any) []any {
	s, _ := args[0].([]any)
	return s
}

func firstText(args []any) (string, error) {
	subs := subjects(args)
	if len(subs) == 0 {
		return "", fmt.Errorf("no subject given")
	}
	text, ok := subs[0].(string)
	if !ok {
		return "", fmt.Errorf("expected text, got %T", subs[0])
	}
	return text, nil
}
