package arena

import (
	"fmt"

	"fortio.org/safecast"
)

const chunkSize = 256

// Typed stores values of T in fixed-size chunks and hands out 1-based handles.
// Handle 0 is reserved for "none". Pointers returned by Get stay valid for the arena lifetime.
type Typed[T any] struct {
	chunks [][]T
	n      uint32
}

// NewTyped creates an empty typed arena.
func NewTyped[T any]() *Typed[T] {
	return &Typed[T]{}
}

// Allocate appends value and returns its handle.
func (a *Typed[T]) Allocate(value T) uint32 {
	idx := int(a.n)
	if idx%chunkSize == 0 {
		a.chunks = append(a.chunks, make([]T, 0, chunkSize))
	}
	last := len(a.chunks) - 1
	a.chunks[last] = append(a.chunks[last], value)
	n, err := safecast.Conv[uint32](idx + 1)
	if err != nil {
		panic(fmt.Errorf("typed arena overflow: %w", err))
	}
	a.n = n
	return n
}

// Get returns the value for handle, or nil for 0 and out-of-range handles.
func (a *Typed[T]) Get(handle uint32) *T {
	if handle == 0 || handle > a.n {
		return nil
	}
	i := int(handle - 1)
	return &a.chunks[i/chunkSize][i%chunkSize]
}

// Len returns the number of allocated values.
func (a *Typed[T]) Len() uint32 {
	return a.n
}

// Each calls fn for every handle in allocation order.
func (a *Typed[T]) Each(fn func(handle uint32, v *T)) {
	for h := uint32(1); h <= a.n; h++ {
		fn(h, a.Get(h))
	}
}
