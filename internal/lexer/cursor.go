package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Cursor walks the bytes of one file. Off never exceeds end.
type Cursor struct {
	File *source.File
	Off  uint32
	end  uint32
}

// NewCursor starts at the first byte of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("%s: file too large: %w", f.Path, err))
	}
	return Cursor{File: f, end: end}
}

// EOF reports whether every byte was consumed.
func (c *Cursor) EOF() bool { return c.Off >= c.end }

// Rest returns the unread bytes; the slice aliases the file content.
func (c *Cursor) Rest() []byte { return c.File.Content[c.Off:c.end] }

// at returns the byte n positions ahead, ok=false past the end.
func (c *Cursor) at(n uint32) (byte, bool) {
	if c.Off+n >= c.end {
		return 0, false
	}
	return c.File.Content[c.Off+n], true
}

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	b, _ := c.at(0)
	return b
}

// Peek2 returns the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if b1, ok = c.at(1); !ok {
		return 0, 0, false
	}
	return c.File.Content[c.Off], b1, true
}

// Bump consumes one byte and returns it, 0 at EOF.
func (c *Cursor) Bump() byte {
	b, ok := c.at(0)
	if ok {
		c.Off++
	}
	return b
}

// Skip consumes n bytes, stopping at EOF.
func (c *Cursor) Skip(n int) {
	un, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("cursor skip %d: %w", n, err))
	}
	c.Off = min(c.Off+un, c.end)
}

// Eat consumes b if it is the current byte.
func (c *Cursor) Eat(b byte) bool {
	if cur, ok := c.at(0); ok && cur == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved offset for SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers the bytes read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset rewinds to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
