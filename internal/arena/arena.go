package arena

import (
	"fmt"
	"sync"
	"unsafe"
)

// DefaultSegmentSize is the size of a regular backing segment.
const DefaultSegmentSize = 64 << 10

// Options configures an Arena.
type Options struct {
	// SegmentSize is the size of a regular segment; zero selects DefaultSegmentSize.
	SegmentSize int
	// MaxBytes bounds the total bytes reserved from backing segments; zero means unbounded.
	MaxBytes int
	// Concurrent guards the bump pointer with a mutex.
	Concurrent bool
}

// ExhaustedError is the panic value raised when a request cannot be satisfied.
type ExhaustedError struct {
	Size     int
	Align    int
	Reserved int
	Limit    int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("arena exhausted: request %d bytes (align %d), reserved %d of %d", e.Size, e.Align, e.Reserved, e.Limit)
}

// Arena is a bump allocator over a list of segments.
// Nothing is freed individually; dropping the Arena releases every segment.
type Arena struct {
	mu         sync.Mutex
	concurrent bool
	segSize    int
	maxBytes   int

	segments [][]byte
	cur      []byte
	off      int
	reserved int
	used     int
}

// New creates an arena with the given options.
func New(opts Options) *Arena {
	segSize := opts.SegmentSize
	if segSize <= 0 {
		segSize = DefaultSegmentSize
	}
	return &Arena{
		concurrent: opts.Concurrent,
		segSize:    segSize,
		maxBytes:   opts.MaxBytes,
	}
}

// Alloc returns size bytes aligned to align.
// It returns nil when align is zero and panics when align is not a power of two.
// A request that cannot be satisfied even by a fresh segment panics with *ExhaustedError.
func (a *Arena) Alloc(size, align int) []byte {
	if align == 0 {
		return nil
	}
	if align < 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if size < 0 {
		panic(fmt.Sprintf("arena: negative size %d", size))
	}
	if a.concurrent {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	start, ok := a.fit(size, align)
	if !ok {
		a.grow(size, align)
		start, ok = a.fit(size, align)
		if !ok {
			panic(&ExhaustedError{Size: size, Align: align, Reserved: a.reserved, Limit: a.maxBytes})
		}
	}
	a.off = start + size
	a.used += size
	return a.cur[start : start+size : start+size]
}

// AllocString copies s into the arena and returns a string backed by arena memory.
func (a *Arena) AllocString(s string) string {
	if s == "" {
		return ""
	}
	buf := a.Alloc(len(s), 1)
	copy(buf, s)
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// fit reports the aligned start offset inside the current segment.
func (a *Arena) fit(size, align int) (int, bool) {
	if a.cur == nil {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.cur)))
	addr := base + uintptr(a.off)
	pad := int((uintptr(align) - addr%uintptr(align)) % uintptr(align))
	start := a.off + pad
	if start+size > len(a.cur) {
		return 0, false
	}
	return start, true
}

func (a *Arena) grow(size, align int) {
	n := a.segSize
	if need := size + align - 1; need > n {
		n = need
	}
	if a.maxBytes > 0 && a.reserved+n > a.maxBytes {
		panic(&ExhaustedError{Size: size, Align: align, Reserved: a.reserved, Limit: a.maxBytes})
	}
	seg := make([]byte, n)
	a.segments = append(a.segments, seg)
	a.cur = seg
	a.off = 0
	a.reserved += n
}

// Stats describes arena usage.
type Stats struct {
	Segments int
	Reserved int
	Used     int
}

// Stats returns a snapshot of the arena counters.
func (a *Arena) Stats() Stats {
	if a.concurrent {
		a.mu.Lock()
		defer a.mu.Unlock()
	}
	return Stats{Segments: len(a.segments), Reserved: a.reserved, Used: a.used}
}

// Reset drops every segment. Memory handed out earlier must not be used afterwards.
func (a *Arena) Reset() {
	if a.concurrent {
		a.mu.Lock()
		defer a.mu.Unlock()
	}
	a.segments = nil
	a.cur = nil
	a.off = 0
	a.reserved = 0
	a.used = 0
}
