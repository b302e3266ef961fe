package ir

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryFirstFreeSlot(t *testing.T) {
	r := NewRegistry(3)
	var ids []ModuleID
	for _, name := range []string{"a", "b", "c"} {
		m, err := r.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids = append(ids, m.ID())
	}
	if ids[0] != 0 || ids[1] != 1 || ids[2] != 2 {
		t.Fatalf("ids = %v", ids)
	}
	if _, err := r.Create("d"); !errors.Is(err, ErrRegistryFull) {
		t.Fatalf("expected ErrRegistryFull, got %v", err)
	}

	r.Free(1)
	if _, ok := r.Get(1); ok {
		t.Fatalf("freed slot still resolves")
	}
	m, err := r.Create("e")
	if err != nil {
		t.Fatalf("create after free: %v", err)
	}
	if m.ID() != 1 {
		t.Fatalf("reused id = %d, want 1", m.ID())
	}
	if got, ok := r.Get(1); !ok || got.Name() != "e" {
		t.Fatalf("Get(1) = %v, %v", got, ok)
	}

	r.Free(2)
	r.Free(0)
	m, err = r.Create("f")
	if err != nil {
		t.Fatal(err)
	}
	if m.ID() != 0 {
		t.Fatalf("first free slot not reused: got %d", m.ID())
	}
	if r.Len() != 2 {
		t.Fatalf("len = %d", r.Len())
	}
}

func TestRegistryConcurrentCreate(t *testing.T) {
	r := NewRegistry(64)
	var wg sync.WaitGroup
	seen := make([]ModuleID, 64)
	for i := 0; i < 64; i++ {
		i := i // per-iteration copy (Go 1.21 loop semantics)
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Create("m")
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			seen[i] = m.ID()
		}()
	}
	wg.Wait()
	unique := make(map[ModuleID]bool)
	for _, id := range seen {
		unique[id] = true
	}
	if len(unique) != 64 {
		t.Fatalf("got %d distinct ids", len(unique))
	}
}

func TestRegistryDefaultCapacity(t *testing.T) {
	if c := cap(NewRegistry(0).slots); c != MaxModules {
		t.Fatalf("capacity = %d", c)
	}
	if c := cap(NewRegistry(1 << 20).slots); c != MaxModules {
		t.Fatalf("capacity = %d", c)
	}
}
