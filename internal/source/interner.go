package source

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"github.com/Kracken256/nitrate-sub001/internal/arena"
)

// StringID is a compact handle for an interned string. Equal strings share one ID.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates strings into StringIDs. The table is append-only;
// string bytes live in an arena and are never freed while the interner lives.
type Interner struct {
	mu    sync.RWMutex
	mem   *arena.Arena
	byID  []string            // byID[0] = "" для NoStringID
	index map[string]StringID // строка -> ID
}

func NewInterner() *Interner {
	return &Interner{
		mem:   arena.New(arena.Options{SegmentSize: 16 << 10}),
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, inserting it on first use.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// собственная копия в арене, не зависим от исходного буфера
	cpy := i.mem.AllocString(s)
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}
	id = StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the string form of b.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id and panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("invalid string ID %d", id))
	}
	return s
}

// Len returns the number of strings, NoStringID included.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

var (
	globalOnce     sync.Once
	globalInterner *Interner
)

// Strings returns the process-wide interner, created on first use.
func Strings() *Interner {
	globalOnce.Do(func() {
		globalInterner = NewInterner()
	})
	return globalInterner
}
