package env

import (
	"sync"
	"testing"
)

func TestDefineAndFlags(t *testing.T) {
	e := New()
	e.Define("PI", "3.14")
	e.SetFlag("debug", "1")
	if v, ok := e.Definition("PI"); !ok || v != "3.14" {
		t.Fatalf("definition = %q, %v", v, ok)
	}
	if v, ok := e.Get("flag.debug"); !ok || v != "1" {
		t.Fatalf("flag = %q, %v", v, ok)
	}
	keys := e.Keys(DefPrefix)
	if len(keys) != 1 || keys[0] != "def.PI" {
		t.Fatalf("keys = %v", keys)
	}
	e.Delete("def.PI")
	if _, ok := e.Definition("PI"); ok {
		t.Fatalf("delete failed")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	e := New()
	e.Set("a", "1")
	c := e.Clone()
	c.Set("a", "2")
	if v, _ := e.Get("a"); v != "1" {
		t.Fatalf("clone shares storage")
	}
}

func TestConcurrentAccess(t *testing.T) {
	e := Global()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.Set("k", "v")
				e.Get("k")
			}
		}()
	}
	wg.Wait()
	if v, _ := e.Get("k"); v != "v" {
		t.Fatalf("value = %q", v)
	}
}
