package resolver

import "github.com/vk/cookery/internal/ast"

// Unit is one parsed module in the import graph.
type Unit struct {
	// Index is the unit's position in Graph.Units.
	Index int
	// Path is the canonical source path, empty for inline expressions.
	Path string
	// Dir is the execution base path of the unit.
	Dir string
	// Name is the base name of the source file without extension.
	Name   string
	Module *ast.Module
	// Imports maps an import alias to the index of the imported unit.
	Imports map[string]int
	// HasCompanion reports whether a companion implementation was found.
	HasCompanion bool

	loading bool
}

// Import returns the index of the unit imported under alias.
func (u *Unit) Import(alias string) (int, bool) {
	i, ok := u.Imports[alias]
	return i, ok
}

// Graph is the arena of units reachable from a root module. A source file
// imported more than once is stored once.
type Graph struct {
	Units  []*Unit
	Root   int
	byPath map[string]int
}

func newGraph() *Graph {
	return &Graph{byPath: make(map[string]int)}
}

// Unit returns the unit at index i.
func (g *Graph) Unit(i int) *Unit {
	return g.Units[i]
}

// RootUnit returns the unit execution starts from.
func (g *Graph) RootUnit() *Unit {
	return g.Units[g.Root]
}

// Lookup returns the unit loaded from the canonical path.
func (g *Graph) Lookup(path string) (*Unit, bool) {
	i, ok := g.byPath[path]
	if !ok {
		return nil, false
	}
	return g.Units[i], true
}

func (g *Graph) add(u *Unit) *Unit {
	u.Index = len(g.Units)
	g.Units = append(g.Units, u)
	if u.Path != "" {
		g.byPath[u.Path] = u.Index
	}
	return u
}
