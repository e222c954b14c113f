package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Role tells which part of a statement a name fills.
type Role int

const (
	RoleAction Role = iota
	RoleSubject
	RoleCondition
)

func (r Role) String() string {
	switch r {
	case RoleAction:
		return "action"
	case RoleSubject:
		return "subject"
	case RoleCondition:
		return "condition"
	}
	return "unknown"
}

// Module is the interface compiled-in and interpreted function sets
// implement to be registered.
type Module interface {
	Register(r *Registry)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(r *Registry)

// Register calls f(r).
func (f ModuleFunc) Register(r *Registry) { f(r) }

// Registry holds the registered functions of one engine, keyed by role and
// by the name statements use.
type Registry struct {
	mu       sync.RWMutex
	bindings [3]map[string]*Binding
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.bindings {
		r.bindings[i] = make(map[string]*Binding)
	}
	return r
}

// RegisterAction registers fn as an action. Actions receive the resolved
// subjects ([]any) as their first argument.
func (r *Registry) RegisterAction(name string, contract Contract, params int, fn Func) *Binding {
	return r.register(RoleAction, name, contract, params, fn)
}

// RegisterSubject registers fn as a subject. Subjects receive only their
// statement arguments. The exposed name is the CamelCase form of name.
func (r *Registry) RegisterSubject(name string, contract Contract, params int, fn Func) *Binding {
	return r.register(RoleSubject, name, contract, params, fn)
}

// RegisterCondition registers fn as a condition. Conditions receive the
// subject value they are applied to as their first argument.
func (r *Registry) RegisterCondition(name string, contract Contract, params int, fn Func) *Binding {
	return r.register(RoleCondition, name, contract, params, fn)
}

func (r *Registry) register(role Role, name string, contract Contract, params int, fn Func) *Binding {
	if name == "" {
		panic(fmt.Sprintf("cannot register %s with an empty name", role))
	}
	if fn == nil {
		panic(fmt.Sprintf("%s '%s' registered with a nil function", role, name))
	}
	if contract.Kind == ContractPattern && contract.Pattern == nil {
		panic(fmt.Sprintf("%s '%s' registered with an uncompiled pattern contract", role, name))
	}

	b := &Binding{
		Name:       ExposedName(role, name),
		Registered: name,
		Role:       role,
		Contract:   contract,
		Params:     params,
		Fn:         fn,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[role][b.Name]; exists {
		slog.Debug("Replacing registered function.", "role", role, "name", b.Name)
	} else {
		slog.Debug("Registering function.", "role", role, "name", b.Name, "contract", contract, "params", params)
	}
	r.bindings[role][b.Name] = b
	return b
}

// RegisterModules calls Register on every module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Lookup returns the binding exposed under name for role.
func (r *Registry) Lookup(role Role, name string) (*Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[role][name]
	return b, ok
}

// Has reports whether name is registered for role.
func (r *Registry) Has(role Role, name string) bool {
	_, ok := r.Lookup(role, name)
	return ok
}

// Names returns the exposed names registered for role, sorted.
func (r *Registry) Names(role Role) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.bindings[role]))
	for name := range r.bindings[role] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of functions registered for role.
func (r *Registry) Len(role Role) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings[role])
}
