package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// termSet lists the tokens that end the current construct.
type termSet []token.Kind

func (t termSet) has(k token.Kind) bool {
	for _, x := range t {
		if x == k {
			return true
		}
	}
	return false
}

func (t termSet) with(kinds ...token.Kind) termSet {
	out := make(termSet, 0, len(t)+len(kinds))
	out = append(out, t...)
	return append(out, kinds...)
}

// fill pulls tokens until the lookahead holds n of them.
// Comments are collected, unexpanded macros and invalid tokens dropped.
func (p *Parser) fill(n int) {
	for len(p.buf) < n {
		if p.aborted {
			p.buf = append(p.buf, token.Token{Kind: token.EOF, Span: p.eofSpan()})
			continue
		}
		tok := p.ts.Next()
		switch tok.Kind {
		case token.Note:
			if p.opts.KeepNotes {
				p.notes = append(p.notes, p.b.Intern(tok.Text))
			}
			continue
		case token.Invalid:
			// лексер уже отрепортил
			continue
		case token.MacroBlock, token.MacroCall:
			p.report(diag.SynUnexpectedToken, diag.SevWarning, tok.Span, "macro was not expanded and is ignored")
			continue
		}
		p.buf = append(p.buf, tok)
	}
}

func (p *Parser) peek() token.Token {
	p.fill(1)
	return p.buf[0]
}

func (p *Parser) peekN(n int) token.Token {
	p.fill(n + 1)
	return p.buf[n]
}

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.buf = p.buf[1:]
	p.consumed++
	p.lastSpan = tok.Span
	p.lastKind = tok.Kind
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return termSet(kinds).has(p.peek().Kind)
}

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) eofSpan() source.Span {
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// diagSpan is the current token, or the point right after the last one at EOF.
func (p *Parser) diagSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && tok.Span.Empty() {
		return p.eofSpan()
	}
	return tok.Span
}

// spanFrom covers start up to the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.consumed == 0 {
		return start
	}
	return start.Cover(p.lastSpan)
}

// expect: ожидаем конкретный токен, иначе репортим и ничего не съедаем.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errHere(code, fmt.Sprintf("%s, got %s", msg, describe(p.peek())))
	return token.Token{Kind: token.Invalid, Span: p.diagSpan()}, false
}

func (p *Parser) expectSemi() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
	return ok
}

func (p *Parser) errHere(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.aborted {
		return
	}
	if sev >= diag.SevError {
		p.errors++
	}
	if p.opts.Reporter != nil && (p.maxErrors == 0 || p.errors <= p.maxErrors || sev < diag.SevError) {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
	if sev >= diag.SevError && p.fastError {
		p.aborted = true
		p.buf = p.buf[:0]
		if p.opts.Reporter != nil {
			p.opts.Reporter.Report(diag.SynFastErrorAbort, diag.SevFatal, sp, "parsing stopped at the first error (-ffasterror)", nil)
		}
	}
}

// parseIdent ожидает Ident и интернирует его.
func (p *Parser) parseIdent(what string) (source.StringID, bool) {
	if p.at(token.Ident) {
		return p.b.Intern(p.advance().Text), true
	}
	p.errHere(diag.SynExpectIdentifier, fmt.Sprintf("expected %s, got %s", what, describe(p.peek())))
	return source.NoStringID, false
}

// takeNotes returns and clears the comments collected so far.
func (p *Parser) takeNotes() []source.StringID {
	n := p.notes
	p.notes = nil
	return n
}

func (p *Parser) attachNotes(id ast.StmtID, notes []source.StringID) {
	if len(notes) == 0 || !id.IsValid() {
		return
	}
	ext := p.b.StmtExt(id)
	ext.Comments = append(ext.Comments, notes...)
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.b.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("identifier %q", tok.Text)
	case token.IntLit, token.FloatLit, token.StringLit, token.CharLit:
		return fmt.Sprintf("literal %s", tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Kind)
	}
}

func unquote(tok token.Token) string {
	if s, err := lexer.Unquote(tok.Text); err == nil {
		return s
	}
	return tok.Text
}
