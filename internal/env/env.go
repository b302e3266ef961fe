package env

import (
	"sort"
	"strings"
	"sync"
)

const (
	// DefPrefix namespaces macro definitions: def.<name> -> replacement text.
	DefPrefix = "def."
	// FlagPrefix namespaces user flags visible to macros.
	FlagPrefix = "flag."
)

// Env is a goroutine-safe string key/value store shared by a compilation unit
// and the macro interpreter.
type Env struct {
	mu sync.RWMutex
	m  map[string]string
}

func New() *Env {
	return &Env{m: make(map[string]string)}
}

func (e *Env) Get(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.m[key]
	return v, ok
}

func (e *Env) Set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.m[key] = value
}

func (e *Env) Delete(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.m, key)
}

// Keys returns the sorted keys that start with prefix.
func (e *Env) Keys(prefix string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []string
	for k := range e.m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (e *Env) Clone() *Env {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c := New()
	for k, v := range e.m {
		c.m[k] = v
	}
	return c
}

// Define binds name to replacement text in the def. namespace.
func (e *Env) Define(name, text string) { e.Set(DefPrefix+name, text) }

// Definition returns the text bound to name.
func (e *Env) Definition(name string) (string, bool) { return e.Get(DefPrefix + name) }

// SetFlag stores value under flag.<name>.
func (e *Env) SetFlag(name, value string) { e.Set(FlagPrefix+name, value) }

// Flag returns the value under flag.<name>.
func (e *Env) Flag(name string) (string, bool) { return e.Get(FlagPrefix + name) }

var (
	globalOnce sync.Once
	globalEnv  *Env
)

// Global returns the process-wide environment, created on first use.
// Units that need isolation should use New instead.
func Global() *Env {
	globalOnce.Do(func() { globalEnv = New() })
	return globalEnv
}
