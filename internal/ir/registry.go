package ir

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// MaxModules is the capacity of a default-sized Registry.
const MaxModules = math.MaxUint16

// ErrRegistryFull is returned when every slot is taken.
var ErrRegistryFull = errors.New("module registry is full")

// Registry is a bounded slot table of live modules.
// A freed id is handed out again by the next Create that finds its slot first.
type Registry struct {
	mu    sync.Mutex
	slots []*Module
}

// NewRegistry creates a registry with capacity slots; capacity is clamped to [1, MaxModules].
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 || capacity > MaxModules {
		capacity = MaxModules
	}
	return &Registry{slots: make([]*Module, 0, capacity)}
}

// Create builds a module in the first free slot.
func (r *Registry) Create(name string) (*Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.slots {
		if m == nil {
			m = newModule(ModuleID(i), name) //nolint:gosec // i < MaxModules
			r.slots[i] = m
			return m, nil
		}
	}
	if len(r.slots) == cap(r.slots) {
		return nil, fmt.Errorf("create %q: %w", name, ErrRegistryFull)
	}
	m := newModule(ModuleID(len(r.slots)), name) //nolint:gosec // len < MaxModules
	r.slots = append(r.slots, m)
	return m, nil
}

// Get returns the module in slot id.
func (r *Registry) Get(id ModuleID) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id) >= len(r.slots) || r.slots[id] == nil {
		return nil, false
	}
	return r.slots[id], true
}

// Free releases slot id. Freeing an empty slot is a no-op.
func (r *Registry) Free(id ModuleID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id) < len(r.slots) {
		r.slots[id] = nil
	}
}

// Len returns the number of live modules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.slots {
		if m != nil {
			n++
		}
	}
	return n
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, created on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(MaxModules)
	})
	return defaultRegistry
}

// CreateModule creates a module in the process-wide registry.
func CreateModule(name string) (*Module, error) { return Default().Create(name) }

// GetModule looks a module up in the process-wide registry.
func GetModule(id ModuleID) (*Module, bool) { return Default().Get(id) }

// FreeModule releases a module of the process-wide registry.
func FreeModule(id ModuleID) { Default().Free(id) }
