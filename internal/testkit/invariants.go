// Package testkit holds structural checks shared by parser and driver tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// CheckSpanInvariants checks the top-level statements of a parsed unit:
//  1. the root span lies within the file content
//  2. every statement span from sf is well-formed and inside the root span
//  3. the root span covers the union of those statement spans
//
// Statements produced by macro expansion live in other files and are skipped.
func CheckSpanInvariants(b *ast.Builder, root ast.StmtID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	r := b.Stmts.Get(root)
	if r == nil {
		return fmt.Errorf("root statement not found")
	}
	blk, ok := b.Stmts.Block(root)
	if !ok {
		return fmt.Errorf("root is %v, not a block", r.Kind)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("file too large: %w", err)
	}
	if len(blk.Stmts) == 0 {
		return nil
	}
	if r.Span.File != sf.ID {
		return fmt.Errorf("root span %s is not in file %d", r.Span, sf.ID)
	}
	if r.Span.End < r.Span.Start || r.Span.End > size {
		return fmt.Errorf("root span %s out of bounds (file size %d)", r.Span, size)
	}

	var union source.Span
	seen := false
	for i, id := range blk.Stmts {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("statement %d not found", i)
		}
		sp := st.Span
		if sp.File != sf.ID {
			continue
		}
		if sp.End < sp.Start {
			return fmt.Errorf("statement %d has inverted span %s", i, sp)
		}
		if sp.Start < r.Span.Start || sp.End > r.Span.End {
			return fmt.Errorf("statement %d span %s escapes root %s", i, sp, r.Span)
		}
		if !seen {
			union, seen = sp, true
		} else {
			union = union.Cover(sp)
		}
	}
	// 3) хвостовые токены (например ';') допустимы только внутри root
	if seen && (union.Start < r.Span.Start || union.End > r.Span.End) {
		return fmt.Errorf("root %s does not cover statements %s", r.Span, union)
	}
	return nil
}
