package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/vk/cookery/internal/companion"
	"github.com/vk/cookery/internal/resolver"
)

var moduleName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

var (
	moduleTemplate = template.Must(template.New("module").Parse(`test Test.
`))
	companionTemplate = template.Must(template.New("companion").Parse(`package {{.Package}}

import (
	"context"
	"fmt"

	"github.com/vk/cookery/pkg/registry"
)

// Register makes the functions used by {{.Name}}.cookery available.
func Register(r *registry.Registry) {
	r.RegisterSubject("test", registry.None(), 0, func(_ context.Context, _ []any) (any, error) {
		return "Hello from {{.Name}}", nil
	})
	r.RegisterAction("test", registry.None(), 1, func(ctx context.Context, args []any) (any, error) {
		for _, s := range args[0].([]any) {
			fmt.Fprintln(registry.Output(ctx), s)
		}
		return args[0], nil
	})
}
`))
)

// Scaffold creates NAME.cookery and its companion NAME.go in dir and
// returns their paths. Existing files are never overwritten.
func (a *App) Scaffold(dir, name string) ([]string, error) {
	if !moduleName.MatchString(name) {
		return nil, fmt.Errorf("invalid module name %q: use letters, digits, '_' and '-', starting with a letter", name)
	}

	data := struct{ Name, Package string }{
		Name:    name,
		Package: strings.ToLower(strings.ReplaceAll(name, "-", "_")),
	}
	files := []struct {
		path string
		tmpl *template.Template
	}{
		{filepath.Join(dir, name+resolver.Ext), moduleTemplate},
		{filepath.Join(dir, name+companion.Ext), companionTemplate},
	}

	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return nil, fmt.Errorf("%s already exists", f.path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	created := make([]string, 0, len(files))
	for _, f := range files {
		var sb strings.Builder
		if err := f.tmpl.Execute(&sb, data); err != nil {
			return created, fmt.Errorf("failed to render %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(sb.String()), 0o644); err != nil {
			return created, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		a.logger.Debug("File created.", "path", f.path)
		created = append(created, f.path)
	}
	return created, nil
}
