package lexer

import (
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/source"
)

func TestCursorBounds(t *testing.T) {
	fs := source.NewFileSet()
	c := NewCursor(fs.Get(fs.AddVirtual("c.nit", []byte("ab"))))

	if b0, b1, ok := c.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	m := c.Mark()
	if !c.Eat('a') || c.Eat('a') {
		t.Fatalf("Eat did not match exactly once")
	}
	if _, _, ok := c.Peek2(); ok {
		t.Fatalf("Peek2 past the end reported ok")
	}
	c.Skip(10)
	if !c.EOF() || c.Off != 2 || len(c.Rest()) != 0 {
		t.Fatalf("Skip overran: off=%d", c.Off)
	}
	if c.Bump() != 0 || c.Peek() != 0 {
		t.Fatalf("read past EOF")
	}
	if sp := c.SpanFrom(m); sp.Start != 0 || sp.End != 2 {
		t.Fatalf("span = %v", sp)
	}
	c.Reset(m)
	if string(c.Rest()) != "ab" {
		t.Fatalf("Reset: rest = %q", c.Rest())
	}
}
