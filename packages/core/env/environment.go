package env

import (
	"os"
	"sort"
	"strings"
)

// Environment is an ordered set of variable assignments for child processes.
// Assignments override the inherited process environment; defaults only
// apply when neither the process nor an assignment provides the variable.
type Environment struct {
	keys     []string
	values   map[string]string
	defaults map[string]string
	getenv   func(string) (string, bool)
}

// New creates an empty Environment backed by the process environment
func New() *Environment {
	return NewWithLookup(os.LookupEnv)
}

// NewWithLookup creates an empty Environment that reads inherited variables
// through lookup instead of the process environment.
func NewWithLookup(lookup func(string) (string, bool)) *Environment {
	return &Environment{
		values:   make(map[string]string),
		defaults: make(map[string]string),
		getenv:   lookup,
	}
}

// Set assigns value to key, keeping the position of the first assignment
func (e *Environment) Set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// SetDefaults registers fallback values, typically read from a .env file
func (e *Environment) SetDefaults(vars map[string]string) {
	for k, v := range vars {
		e.defaults[k] = v
	}
}

// Assigned returns the explicit assignment for key
func (e *Environment) Assigned(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Lookup resolves key from assignments, then the inherited environment,
// then the defaults.
func (e *Environment) Lookup(key string) (string, bool) {
	if v, ok := e.values[key]; ok {
		return v, true
	}
	if v, ok := e.getenv(key); ok {
		return v, true
	}
	v, ok := e.defaults[key]
	return v, ok
}

// Get is Lookup without the presence flag
func (e *Environment) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Keys returns the assigned keys in assignment order
func (e *Environment) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Environ overlays the environment on base (usually os.Environ()) and
// returns the result in exec.Cmd.Env form.
func (e *Environment) Environ(base []string) []string {
	result := make([]string, 0, len(base)+len(e.keys)+len(e.defaults))
	present := make(map[string]bool, len(base))

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := e.values[key]; ok {
			continue
		}
		present[key] = true
		result = append(result, kv)
	}

	defaultKeys := make([]string, 0, len(e.defaults))
	for k := range e.defaults {
		if _, ok := e.values[k]; ok || present[k] {
			continue
		}
		defaultKeys = append(defaultKeys, k)
	}
	sort.Strings(defaultKeys)
	for _, k := range defaultKeys {
		result = append(result, k+"="+e.defaults[k])
	}

	for _, k := range e.keys {
		result = append(result, k+"="+e.values[k])
	}
	return result
}
