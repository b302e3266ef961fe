package driver

import (
	"context"
	"strconv"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/macro"
	"github.com/Kracken256/nitrate-sub001/internal/token"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// TokenizeResult holds the tokens of one unit, without the trailing EOF.
type TokenizeResult struct {
	Unit   *Unit
	Tokens []token.Token
	Diag   *diag.Manager
	// Failed is set when macro expansion stopped early.
	Failed bool
}

// Tokenize runs the bare lexer; macro blocks come out as single tokens.
func Tokenize(u *Unit, opts Options) *TokenizeResult {
	mgr := diag.NewManager(u.FileSet)
	lx := lexer.New(u.File, lexer.Options{
		Reporter:  mgr.Reporter(mgr.NewTicket()),
		KeepNotes: opts.KeepNotes,
	})
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return &TokenizeResult{Unit: u, Tokens: tokens, Diag: mgr}
}

// Expand runs the macro sequencer over the unit.
func Expand(ctx context.Context, u *Unit, opts Options) *TokenizeResult {
	mgr := diag.NewManager(u.FileSet)
	ctx, sp := trace.Start(ctx, trace.ScopePass, "expand")
	seq := newSequencer(ctx, u, opts, mgr.Reporter(mgr.NewTicket()))
	defer seq.Close()
	tokens := seq.Drain()
	sp.WithField("tokens", strconv.Itoa(len(tokens))).End(u.Name())
	return &TokenizeResult{Unit: u, Tokens: tokens, Diag: mgr, Failed: seq.Failed()}
}

func newSequencer(ctx context.Context, u *Unit, opts Options, rep diag.Reporter) *macro.Sequencer {
	return macro.New(u.File, macro.Options{
		Env:       opts.env(),
		FileSet:   u.FileSet,
		Reporter:  rep,
		Tracer:    trace.FromContext(ctx),
		Conf:      opts.conf(),
		KeepNotes: opts.KeepNotes,
		Fetch:     opts.Fetch,
	})
}
