package arena

import (
	"errors"
	"testing"
	"unsafe"
)

type span struct {
	lo, hi uintptr
}

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

func TestAllocAlignmentAndNoOverlap(t *testing.T) {
	a := New(Options{SegmentSize: 128})
	sizes := []int{1, 3, 8, 17, 64, 5, 200, 9, 31, 1000, 2, 4}
	aligns := []int{1, 2, 4, 8, 16, 32, 64}

	var live []span
	lastReserved := 0
	for i, size := range sizes {
		align := aligns[i%len(aligns)]
		buf := a.Alloc(size, align)
		if buf == nil {
			t.Fatalf("alloc %d/%d returned nil", size, align)
		}
		if len(buf) != size || cap(buf) != size {
			t.Fatalf("alloc %d: len=%d cap=%d", size, len(buf), cap(buf))
		}
		p := addr(buf)
		if p%uintptr(align) != 0 {
			t.Fatalf("alloc %d: address %#x not aligned to %d", size, p, align)
		}
		cur := span{p, p + uintptr(size)}
		for _, s := range live {
			if cur.lo < s.hi && s.lo < cur.hi {
				t.Fatalf("alloc %d overlaps [%#x,%#x)", size, s.lo, s.hi)
			}
		}
		live = append(live, cur)

		st := a.Stats()
		if st.Reserved < lastReserved {
			t.Fatalf("reserved bytes decreased: %d -> %d", lastReserved, st.Reserved)
		}
		lastReserved = st.Reserved
	}
}

func TestAllocLargeRequestGetsOwnSegment(t *testing.T) {
	a := New(Options{SegmentSize: 64})
	a.Alloc(10, 1)
	big := a.Alloc(4096, 16)
	if len(big) != 4096 {
		t.Fatalf("len = %d", len(big))
	}
	st := a.Stats()
	if st.Segments != 2 {
		t.Fatalf("segments = %d, want 2", st.Segments)
	}
	if st.Used != 4106 {
		t.Fatalf("used = %d", st.Used)
	}
}

func TestAllocZeroAlignment(t *testing.T) {
	a := New(Options{})
	if got := a.Alloc(8, 0); got != nil {
		t.Fatalf("expected nil for zero alignment")
	}
}

func TestAllocBadAlignmentPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(Options{}).Alloc(8, 3)
}

func TestAllocExhausted(t *testing.T) {
	a := New(Options{SegmentSize: 64, MaxBytes: 128})
	a.Alloc(60, 1)
	a.Alloc(60, 1)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %v", r)
		}
		var ex *ExhaustedError
		if !errors.As(err, &ex) {
			t.Fatalf("expected *ExhaustedError, got %T", r)
		}
		if ex.Limit != 128 {
			t.Fatalf("limit = %d", ex.Limit)
		}
	}()
	a.Alloc(60, 1)
}

func TestAllocWritesDoNotLeak(t *testing.T) {
	a := New(Options{SegmentSize: 32})
	x := a.Alloc(4, 1)
	y := a.Alloc(4, 1)
	copy(x, "abcd")
	copy(y, "wxyz")
	x = append(x, 'E')
	if string(y) != "wxyz" {
		t.Fatalf("append clobbered neighbour: %q", y)
	}
	_ = x
}

func TestAllocString(t *testing.T) {
	a := New(Options{Concurrent: true})
	s := a.AllocString("hello")
	if s != "hello" {
		t.Fatalf("got %q", s)
	}
	if a.AllocString("") != "" {
		t.Fatalf("empty string")
	}
}

func TestTypedHandles(t *testing.T) {
	ta := NewTyped[int]()
	if ta.Get(0) != nil {
		t.Fatalf("handle 0 must be nil")
	}
	var first *int
	for i := 0; i < 3*chunkSize; i++ {
		h := ta.Allocate(i)
		if h != uint32(i+1) {
			t.Fatalf("handle = %d, want %d", h, i+1)
		}
		if i == 0 {
			first = ta.Get(h)
		}
	}
	if *first != 0 || ta.Get(1) != first {
		t.Fatalf("pointer to first element moved")
	}
	if *ta.Get(ta.Len()) != 3*chunkSize-1 {
		t.Fatalf("last value mismatch")
	}
	if ta.Get(ta.Len()+1) != nil {
		t.Fatalf("out-of-range handle must be nil")
	}
}
