package driver

import (
	"context"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/parser"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// ParseResult is the statement tree of one unit.
type ParseResult struct {
	Unit    *Unit
	Builder *ast.Builder
	Root    ast.StmtID
	Diag    *diag.Manager
	// OK is false when the sequencer failed or a syntax error was reported.
	OK      bool
	Aborted bool
}

// Parse expands and parses u with a fresh diagnostics manager.
func Parse(ctx context.Context, u *Unit, opts Options) *ParseResult {
	mgr := diag.NewManager(u.FileSet)
	return parseInto(ctx, u, opts, mgr, mgr.NewTicket(), mgr.NewTicket())
}

// parseInto reports sequencer diagnostics to seqT and syntax errors to parseT.
func parseInto(ctx context.Context, u *Unit, opts Options, mgr *diag.Manager, seqT, parseT diag.Ticket) *ParseResult {
	seq := newSequencer(ctx, u, opts, mgr.Reporter(seqT))
	defer seq.Close()

	// per-unit interner: units never share string ids
	b := ast.NewBuilder(source.NewInterner())
	res := parser.Parse(seq, b, parser.Options{
		Reporter:  mgr.Reporter(parseT),
		Conf:      opts.conf(),
		KeepNotes: opts.KeepNotes,
	})
	return &ParseResult{
		Unit:    u,
		Builder: b,
		Root:    res.Root,
		Diag:    mgr,
		OK:      res.OK && !seq.Failed() && !mgr.HasErrors(seqT),
		Aborted: res.Aborted,
	}
}
