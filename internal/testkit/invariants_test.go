package testkit

import (
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.nit", []byte("let a = 1; let b = 2;")))
	b := ast.NewBuilder(source.NewInterner())
	sp := func(start, end uint32) source.Span { return source.Span{File: f.ID, Start: start, End: end} }

	a := b.Stmts.NewBreak(sp(0, 10))
	c := b.Stmts.NewBreak(sp(11, 21))
	good := b.Stmts.NewBlock(sp(0, 21), ast.SafetyNone, []ast.StmtID{a, c})
	if err := CheckSpanInvariants(b, good, f); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	short := b.Stmts.NewBlock(sp(0, 10), ast.SafetyNone, []ast.StmtID{a, c})
	if err := CheckSpanInvariants(b, short, f); err == nil || !strings.Contains(err.Error(), "escapes root") {
		t.Fatalf("err = %v", err)
	}

	outside := b.Stmts.NewBlock(sp(0, 99), ast.SafetyNone, []ast.StmtID{a})
	if err := CheckSpanInvariants(b, outside, f); err == nil || !strings.Contains(err.Error(), "out of bounds") {
		t.Fatalf("err = %v", err)
	}

	if err := CheckSpanInvariants(b, a, f); err == nil {
		t.Fatalf("non-block root accepted")
	}
}
