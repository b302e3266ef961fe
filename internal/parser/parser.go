package parser

import (
	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// TokenStream is satisfied by *lexer.Lexer and *macro.Sequencer.
type TokenStream interface {
	Next() token.Token
}

type Options struct {
	Reporter diag.Reporter
	// Conf supplies -ffasterror and -fmaxerrors.
	Conf config.Conf
	// KeepNotes attaches comments to the statement that follows them.
	KeepNotes bool
}

type Result struct {
	// Root is a block holding the top-level statements; it is never NoStmtID.
	Root ast.StmtID
	// OK is false when at least one error was reported.
	OK      bool
	Errors  int
	Aborted bool
}

// Parser: состояние парсера на одну единицу трансляции
type Parser struct {
	ts   TokenStream
	b    *ast.Builder
	opts Options

	buf      []token.Token // lookahead
	notes    []source.StringID
	consumed int
	lastSpan source.Span // span последнего съеденного токена
	lastKind token.Kind

	errors    int
	maxErrors int
	fastError bool
	aborted   bool
}

// New creates a parser reading ts and allocating into b.
func New(ts TokenStream, b *ast.Builder, opts Options) *Parser {
	return &Parser{
		ts:        ts,
		b:         b,
		opts:      opts,
		maxErrors: opts.Conf.MaxErrors(),
		fastError: opts.Conf.FastError(),
	}
}

// Parse reads the whole stream.
func Parse(ts TokenStream, b *ast.Builder, opts Options) Result {
	return New(ts, b, opts).ParseUnit()
}

// ParseUnit parses statements until EOF.
func (p *Parser) ParseUnit() Result {
	start := p.peek().Span
	var stmts []ast.StmtID
	for !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmtRecover()...)
	}
	root := p.b.Stmts.NewBlock(start.Cover(p.lastSpan), ast.SafetyNone, stmts)
	return Result{
		Root:    root,
		OK:      p.errors == 0,
		Errors:  p.errors,
		Aborted: p.aborted,
	}
}

// parseStmtRecover parses one statement and resynchronises after a failure.
// It always makes progress.
func (p *Parser) parseStmtRecover() []ast.StmtID {
	if p.at(token.Semicolon) {
		p.advance()
		return nil
	}
	before := p.consumed
	ids, ok := p.parseStmt()
	if !ok && p.lastKind != token.Semicolon && p.lastKind != token.RBrace {
		p.resync()
	}
	if p.consumed == before {
		p.advance()
	}
	return ids
}

// resync skips to the end of the broken statement: past ';', or up to '}' or
// the start of the next declaration or control statement.
func (p *Parser) resync() {
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			return
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		default:
			if depth == 0 && isStmtStarter(tok.Kind) {
				return
			}
		}
		p.advance()
	}
}

func isStmtStarter(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwStruct, token.KwUnion, token.KwEnum, token.KwScope,
		token.KwImport, token.KwType, token.KwPub, token.KwSec, token.KwPro,
		token.KwLet, token.KwVar, token.KwConst, token.KwIf, token.KwWhile,
		token.KwFor, token.KwForeach, token.KwSwitch, token.KwReturn, token.KwRetif,
		token.KwSafe, token.KwUnsafe:
		return true
	default:
		return false
	}
}
