// Package companion loads the Go implementation that accompanies a module
// source file.
//
// A module "recipes/counter.cookery" is implemented either by a compiled-in
// registry.Module added under the name "counter", or by the sibling file
// "recipes/counter.go". Sibling files are interpreted with yaegi and must
// declare
//
//	func Register(r *registry.Registry)
//
// which is called once with the engine's registry.
package companion

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/fsutil"
	"github.com/vk/cookery/pkg/registry"
)

// Ext is the extension of interpreted companion files.
const Ext = ".go"

// ErrInvalidCompanion is returned when a companion file cannot be
// interpreted or does not declare a usable Register function.
var ErrInvalidCompanion = errors.New("invalid companion implementation")

// Loader finds and registers companion implementations.
type Loader struct {
	mu       sync.RWMutex
	compiled map[string]registry.Module
}

// NewLoader creates a Loader without compiled-in companions.
func NewLoader() *Loader {
	return &Loader{compiled: make(map[string]registry.Module)}
}

// Add makes m the companion of every module whose base name is name. It
// takes precedence over a sibling source file.
func (l *Loader) Add(name string, m registry.Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.compiled[name] = m
}

// Load registers the companion of the module at sourcePath. It reports
// whether a companion was found.
func (l *Loader) Load(ctx context.Context, reg *registry.Registry, sourcePath string) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	name := fsutil.ReplaceExt(filepath.Base(sourcePath), "")

	l.mu.RLock()
	m, ok := l.compiled[name]
	l.mu.RUnlock()
	if ok {
		logger.Debug("Registering compiled-in companion.", "module", name)
		if err := safeRegister(m.Register, reg); err != nil {
			return true, fmt.Errorf("companion '%s': %w", name, err)
		}
		return true, nil
	}

	goPath := fsutil.ReplaceExt(sourcePath, Ext)
	if !fsutil.IsFile(goPath) {
		return false, nil
	}
	return true, l.LoadFile(ctx, reg, goPath)
}

// LoadFile interprets the Go file at path and calls its Register function.
func (l *Loader) LoadFile(ctx context.Context, reg *registry.Registry, path string) error {
	logger := ctxlog.FromContext(ctx).With("companion", path)
	logger.Debug("Interpreting companion file.")

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read companion '%s': %w", path, err)
	}

	file, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil {
		return fmt.Errorf("companion '%s': %w: %v", path, ErrInvalidCompanion, err)
	}
	pkg := file.Name.Name

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	if err := i.Use(Symbols); err != nil {
		return fmt.Errorf("failed to load registry symbols: %w", err)
	}

	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		return fmt.Errorf("companion '%s': %w: %v", path, ErrInvalidCompanion, err)
	}

	v, err := i.EvalWithContext(ctx, pkg+".Register")
	if err != nil {
		return fmt.Errorf("companion '%s' does not declare Register: %w: %v", path, ErrInvalidCompanion, err)
	}
	register, ok := v.Interface().(func(*registry.Registry))
	if !ok {
		return fmt.Errorf("companion '%s': Register has signature %s, want func(*registry.Registry): %w",
			path, v.Type(), ErrInvalidCompanion)
	}

	if err := safeRegister(register, reg); err != nil {
		return fmt.Errorf("companion '%s': %w", path, err)
	}
	logger.Debug("Companion registered.")
	return nil
}

// LoadDir interprets every companion file below dir in lexical order and
// returns how many were registered.
func (l *Loader) LoadDir(ctx context.Context, reg *registry.Registry, dir string) (int, error) {
	files, err := fsutil.FindFilesByExtension(dir, Ext)
	if err != nil {
		return 0, fmt.Errorf("failed to scan plugin directory '%s': %w", dir, err)
	}
	for n, f := range files {
		if err := l.LoadFile(ctx, reg, f); err != nil {
			return n, err
		}
	}
	return len(files), nil
}

// safeRegister turns a panic in user registration code into an error.
func safeRegister(register func(*registry.Registry), reg *registry.Registry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: Register panicked: %v", ErrInvalidCompanion, r)
		}
	}()
	register(reg)
	return nil
}
