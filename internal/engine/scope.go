package engine

import (
	"maps"
	"slices"
	"strings"
)

// ListSuffix marks a variable that collects every value bound to it.
const ListSuffix = "[]"

// Scope holds the variables of one module run.
type Scope struct {
	vars map[string]any
}

// NewScope returns a scope pre-populated with globals. The map is copied.
func NewScope(globals map[string]any) *Scope {
	s := &Scope{vars: make(map[string]any, len(globals))}
	maps.Copy(s.vars, globals)
	return s
}

// Get returns the value bound to name.
func (s *Scope) Get(name string) (any, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Bind assigns v to name. A name ending in "[]" appends v to the list held
// by that name instead of replacing it.
func (s *Scope) Bind(name string, v any) {
	if !strings.HasSuffix(name, ListSuffix) {
		s.vars[name] = v
		return
	}
	list, _ := s.vars[name].([]any)
	s.vars[name] = append(slices.Clip(list), v)
}

// Names returns the bound names, sorted.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// Len returns the number of bound names.
func (s *Scope) Len() int {
	return len(s.vars)
}
