// Package resolver turns a root module into an import graph: it locates
// imported source files, parses each distinct file once, rejects import
// cycles and registers every unit's companion implementation.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/cookery/internal/ast"
	"github.com/vk/cookery/internal/companion"
	"github.com/vk/cookery/internal/ctxlog"
	"github.com/vk/cookery/internal/fsutil"
	"github.com/vk/cookery/internal/lexer"
	"github.com/vk/cookery/internal/parser"
	"github.com/vk/cookery/pkg/registry"
)

// Ext is the extension of module source files.
const Ext = ".cookery"

var (
	// ErrCannotImportModule is returned when an import path has an
	// unsupported extension or no candidate file exists.
	ErrCannotImportModule = errors.New("cannot import module")

	// ErrImportCycle is returned when a module imports itself, directly or
	// through other modules.
	ErrImportCycle = errors.New("import cycle")

	// ErrMissingImplementation is returned when a root module has no
	// companion and references names nothing else provides.
	ErrMissingImplementation = errors.New("missing implementation")
)

// Config holds the resolver's collaborators.
type Config struct {
	Registry *registry.Registry
	Loader   *companion.Loader
	// SearchPaths are tried, in order, after the literal path and the
	// importing module's directory.
	SearchPaths []string
	// Bound lists variable names that are defined before any statement of
	// a root module runs.
	Bound []string
}

// Resolver builds import graphs.
type Resolver struct {
	reg         *registry.Registry
	loader      *companion.Loader
	searchPaths []string
	bound       map[string]struct{}
}

// New creates a Resolver.
func New(cfg Config) *Resolver {
	if cfg.Registry == nil {
		panic("resolver requires a registry")
	}
	loader := cfg.Loader
	if loader == nil {
		loader = companion.NewLoader()
	}
	bound := make(map[string]struct{}, len(cfg.Bound))
	for _, name := range cfg.Bound {
		bound[name] = struct{}{}
	}
	return &Resolver{
		reg:         cfg.Registry,
		loader:      loader,
		searchPaths: cfg.SearchPaths,
		bound:       bound,
	}
}

// ResolveFile loads the module at path as the root of a new graph.
func (r *Resolver) ResolveFile(ctx context.Context, path string) (*Graph, error) {
	g := newGraph()
	root, err := r.load(ctx, g, path, "", nil, true)
	if err != nil {
		return nil, err
	}
	g.Root = root
	return g, nil
}

// ResolveSource parses src as an inline root module whose base path is
// dir. Inline modules have no companion.
func (r *Resolver) ResolveSource(ctx context.Context, src, dir string) (*Graph, error) {
	mod, err := parse(ctx, src, "<expression>")
	if err != nil {
		return nil, err
	}
	return r.ResolveModule(ctx, mod, dir)
}

// ResolveModule resolves the imports of an already parsed inline module.
func (r *Resolver) ResolveModule(ctx context.Context, mod *ast.Module, dir string) (*Graph, error) {
	g := newGraph()
	root := g.add(&Unit{Dir: dir, Name: "<expression>", Module: mod, Imports: make(map[string]int)})
	g.Root = root.Index
	if err := r.loadImports(ctx, g, root, nil); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *Resolver) load(ctx context.Context, g *Graph, importPath, importerDir string, chain []*Unit, root bool) (int, error) {
	logger := ctxlog.FromContext(ctx)

	found, err := r.locate(importPath, importerDir)
	if err != nil {
		return 0, err
	}
	canonical, err := fsutil.Canonical(found)
	if err != nil {
		return 0, fmt.Errorf("%w '%s': %v", ErrCannotImportModule, importPath, err)
	}

	if u, ok := g.Lookup(canonical); ok {
		if u.loading {
			return 0, cycleError(chain, u)
		}
		logger.Debug("Module already loaded.", "path", canonical)
		return u.Index, nil
	}

	src, err := os.ReadFile(canonical)
	if err != nil {
		return 0, fmt.Errorf("%w '%s': %v", ErrCannotImportModule, importPath, err)
	}
	mod, err := parse(ctx, string(src), canonical)
	if err != nil {
		return 0, err
	}

	u := g.add(&Unit{
		Path:    canonical,
		Dir:     filepath.Dir(canonical),
		Name:    fsutil.ReplaceExt(filepath.Base(canonical), ""),
		Module:  mod,
		Imports: make(map[string]int),
		loading: true,
	})
	logger.Debug("Module parsed.", "path", canonical, "imports", len(mod.Imports), "activities", len(mod.Activities))

	if err := r.loadImports(ctx, g, u, chain); err != nil {
		return 0, err
	}

	u.HasCompanion, err = r.loader.Load(ctx, r.reg, canonical)
	if err != nil {
		return 0, err
	}
	if !u.HasCompanion {
		if root {
			if missing := r.unsatisfied(u); len(missing) > 0 {
				return 0, fmt.Errorf("%w: module '%s' has no companion '%s' and references unknown names: %s",
					ErrMissingImplementation, u.Name, u.Name+companion.Ext, strings.Join(missing, ", "))
			}
		} else {
			logger.Warn("Imported module has no companion implementation.", "module", u.Name, "path", canonical)
		}
	}

	u.loading = false
	return u.Index, nil
}

func (r *Resolver) loadImports(ctx context.Context, g *Graph, u *Unit, chain []*Unit) error {
	chain = append(chain[:len(chain):len(chain)], u)
	for _, imp := range u.Module.Imports {
		child, err := r.load(ctx, g, imp.Path, u.Dir, chain, false)
		if err != nil {
			return err
		}
		u.Imports[imp.Alias] = child
	}
	return nil
}

// locate returns the first existing candidate file for importPath.
func (r *Resolver) locate(importPath, importerDir string) (string, error) {
	p := importPath
	switch ext := filepath.Ext(p); ext {
	case "":
		p += Ext
	case Ext:
	default:
		return "", fmt.Errorf("%w '%s': unsupported extension '%s'", ErrCannotImportModule, importPath, ext)
	}

	candidates := []string{p}
	if !filepath.IsAbs(p) {
		if importerDir != "" {
			candidates = append(candidates, filepath.Join(importerDir, p))
		}
		for _, dir := range r.searchPaths {
			candidates = append(candidates, filepath.Join(dir, p))
		}
	}

	for _, c := range candidates {
		if fsutil.IsFile(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w '%s': tried %s", ErrCannotImportModule, importPath, strings.Join(candidates, ", "))
}

// unsatisfied lists the names u references that neither the registry, an
// import alias, nor an earlier assignment provides.
func (r *Resolver) unsatisfied(u *Unit) []string {
	bound := make(map[string]struct{}, len(r.bound))
	for name := range r.bound {
		bound[name] = struct{}{}
	}
	missing := make(map[string]struct{})

	for _, act := range u.Module.Activities {
		if !r.reg.Has(registry.RoleAction, act.Action.Name) {
			if _, ok := u.Imports[act.Action.Name]; !ok {
				missing[act.Action.Name] = struct{}{}
			}
		}
		for _, s := range act.Subjects {
			if r.reg.Has(registry.RoleSubject, s.Name) {
				continue
			}
			if _, ok := bound[s.Name]; !ok {
				missing[s.Name] = struct{}{}
			}
		}
		if act.Condition != nil && !r.reg.Has(registry.RoleCondition, act.Condition.Name) {
			missing[act.Condition.Name] = struct{}{}
		}
		if act.Variable != "" {
			bound[act.Variable] = struct{}{}
		}
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cycleError(chain []*Unit, back *Unit) error {
	start := 0
	for i, u := range chain {
		if u == back {
			start = i
			break
		}
	}
	names := make([]string, 0, len(chain)-start+1)
	for _, u := range chain[start:] {
		names = append(names, u.Name)
	}
	names = append(names, back.Name)
	return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(names, " -> "))
}

func parse(ctx context.Context, src, origin string) (*ast.Module, error) {
	mod, warnings, err := parser.Parse(src)
	logWarnings(ctx, origin, warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse '%s': %w", origin, err)
	}
	return mod, nil
}

func logWarnings(ctx context.Context, origin string, warnings []*lexer.LexError) {
	logger := ctxlog.FromContext(ctx)
	for _, w := range warnings {
		logger.Warn("Lexical error.", "source", origin, "line", w.Line, "col", w.Col, "error", w.Msg)
	}
}
