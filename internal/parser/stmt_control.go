package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// parseFor:
//
//	for (init; cond; step) body
//	for init; cond; step body
//
// Every clause is optional. init is a single let/var/const or an expression.
func (p *Parser) parseFor() (ast.StmtID, bool) {
	start := p.advance().Span // for
	paren := p.accept(token.LParen)
	var data ast.StmtForData
	ok := true

	init, iok := p.parseForInit()
	data.Init = init
	ok = ok && iok

	stepTerm := termSet{token.LBrace, token.FatArrow}
	if paren {
		stepTerm = termSet{token.RParen}
	}
	// без ';' после условия восстанавливаемся до тела, а не внутри него
	if !p.at(token.Semicolon) {
		cond, cok := p.parseExpr(stepTerm.with(token.Semicolon))
		data.Cond = cond
		ok = ok && cok
	}
	if !p.expectSemi() {
		ok = false
	}

	if !p.atAny(stepTerm...) {
		step, sok := p.parseExpr(stepTerm)
		data.Step = step
		ok = ok && sok
	}
	if paren {
		if _, rok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' to close for-loop header"); !rok {
			p.skipTo(termSet{token.RParen})
			p.accept(token.RParen)
			ok = false
		}
	}

	body, bok := p.parseBody()
	data.Body = body
	return p.b.Stmts.NewFor(p.spanFrom(start), data), ok && bok
}

// parseForInit consumes the init clause including its ';'.
func (p *Parser) parseForInit() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Semicolon:
		p.advance()
		return ast.NoStmtID, true
	case token.KwLet, token.KwVar, token.KwConst:
		ids, ok := p.parseVarList(ast.VisSec, tok.Span, nil)
		if !p.expectSemi() {
			ok = false
		}
		if len(ids) != 1 {
			p.report(diag.SynForBadInit, diag.SevError, p.spanFrom(tok.Span),
				fmt.Sprintf("for-loop initializer must declare exactly one variable, got %d", len(ids)))
			return p.b.Stmts.NewMock(p.spanFrom(tok.Span)), false
		}
		return ids[0], ok
	}
	return p.parseExprStmt()
}

// foreach [(] [index,] value in expr [)] body
func (p *Parser) parseForeach() (ast.StmtID, bool) {
	start := p.advance().Span // foreach
	paren := p.accept(token.LParen)
	var data ast.StmtForeachData

	first, ok := p.parseIdent("loop variable")
	if !ok {
		return p.foreachFail(start, paren)
	}
	if p.accept(token.Comma) {
		second, sok := p.parseIdent("loop value variable")
		if !sok {
			return p.foreachFail(start, paren)
		}
		data.Index, data.Value = first, second
	} else {
		data.Value = first
	}
	if !p.at(token.KwIn) {
		p.errHere(diag.SynForeachBadHeader, fmt.Sprintf("expected 'in' in foreach header, got %s", describe(p.peek())))
		return p.foreachFail(start, paren)
	}
	p.advance()

	term := termSet{token.LBrace, token.FatArrow}
	if paren {
		term = termSet{token.RParen}
	}
	iter, iok := p.parseExpr(term)
	data.Iter = iter
	ok = iok
	if paren {
		if _, rok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' to close foreach header"); !rok {
			ok = false
		}
	}
	body, bok := p.parseBody()
	data.Body = body
	return p.b.Stmts.NewForeach(p.spanFrom(start), data), ok && bok
}

// foreachFail skips a broken header and still consumes the body.
func (p *Parser) foreachFail(start source.Span, paren bool) (ast.StmtID, bool) {
	if paren {
		p.skipTo(termSet{token.RParen})
		p.accept(token.RParen)
	} else {
		p.skipTo(termSet{token.LBrace, token.FatArrow})
	}
	if p.atAny(token.LBrace, token.FatArrow) {
		p.parseBody()
	}
	return p.b.Stmts.NewMock(p.spanFrom(start)), false
}

// switch cond { case x body ... default body }
// where body is `{ ... }` or `=> stmt`.
func (p *Parser) parseSwitch() (ast.StmtID, bool) {
	start := p.advance().Span // switch
	var data ast.StmtSwitchData
	cond, ok := p.parseExpr(termSet{token.LBrace})
	data.Cond = cond
	if _, bok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' to open switch body"); !bok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		tok := p.peek()
		switch tok.Kind {
		case token.KwCase:
			p.advance()
			match, mok := p.parseExpr(termSet{token.LBrace, token.FatArrow})
			body, bok := p.parseBody()
			data.Cases = append(data.Cases, ast.SwitchCase{Match: match, Body: body})
			ok = ok && mok && bok
		case token.KwDefault:
			p.advance()
			body, bok := p.parseBody()
			if data.Default.IsValid() {
				p.report(diag.SynDuplicateDefault, diag.SevError, tok.Span, "switch has more than one default case")
				ok = false
			} else {
				data.Default = body
			}
			ok = ok && bok
		default:
			p.errHere(diag.SynSwitchBadCase, fmt.Sprintf("expected 'case' or 'default', got %s", describe(tok)))
			ok = false
			p.advance()
			for !p.atAny(token.KwCase, token.KwDefault, token.RBrace, token.EOF) {
				p.advance()
			}
		}
	}
	if _, cok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' to close switch"); !cok {
		ok = false
	}
	return p.b.Stmts.NewSwitch(p.spanFrom(start), data), ok
}
