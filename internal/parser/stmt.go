package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// parseStmt dispatches on the leading token. A let/var/const list yields one
// statement per declared name.
func (p *Parser) parseStmt() ([]ast.StmtID, bool) {
	notes := p.takeNotes()
	ids, ok := p.parseStmtInner()
	if len(ids) > 0 {
		p.attachNotes(ids[0], notes)
	}
	return ids, ok
}

func one(id ast.StmtID, ok bool) ([]ast.StmtID, bool) {
	return []ast.StmtID{id}, ok
}

func (p *Parser) parseStmtInner() ([]ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwPub, token.KwSec, token.KwPro:
		p.advance()
		vis, _ := ast.ParseVisibility(tok.Text)
		return p.parseDecl(vis, tok.Span)
	case token.KwLet, token.KwVar, token.KwConst, token.KwFn, token.KwStruct,
		token.KwUnion, token.KwEnum, token.KwType:
		return p.parseDecl(ast.VisSec, tok.Span)
	case token.KwScope:
		return one(p.parseScope())
	case token.KwImport:
		return one(p.parseImport())
	case token.LBrace:
		return one(p.parseBlock(ast.SafetyNone, tok.Span))
	case token.KwSafe, token.KwUnsafe:
		p.advance()
		safety := ast.SafetySafe
		if tok.Kind == token.KwUnsafe {
			safety = ast.SafetyUnsafe
		}
		if !p.at(token.LBrace) {
			p.errHere(diag.SynExpectLBrace, fmt.Sprintf("expected '{' after '%s'", tok.Text))
			return one(p.b.Stmts.NewMock(tok.Span), false)
		}
		return one(p.parseBlock(safety, tok.Span))
	case token.KwIf:
		return one(p.parseIf())
	case token.KwWhile:
		return one(p.parseWhile())
	case token.KwFor:
		return one(p.parseFor())
	case token.KwForeach:
		return one(p.parseForeach())
	case token.KwSwitch:
		return one(p.parseSwitch())
	case token.KwReturn:
		return one(p.parseReturn())
	case token.KwRetif:
		return one(p.parseRetif())
	case token.KwBreak, token.KwContinue:
		p.advance()
		ok := p.expectSemi()
		if tok.Kind == token.KwBreak {
			return one(p.b.Stmts.NewBreak(p.spanFrom(tok.Span)), ok)
		}
		return one(p.b.Stmts.NewContinue(p.spanFrom(tok.Span)), ok)
	case token.KwAsm:
		return one(p.parseAsm())
	}
	return one(p.parseExprStmt())
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	x, ok := p.parseExpr(termSet{token.Semicolon})
	if !p.expectSemi() {
		ok = false
	}
	return p.b.Stmts.NewExpr(p.spanFrom(start), x), ok
}

// parseBlock разбирает { ... } до парной скобки или EOF.
func (p *Parser) parseBlock(safety ast.Safety, start source.Span) (ast.StmtID, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{'"); !ok {
		return p.b.Stmts.NewMock(p.diagSpan()), false
	}
	ok := true
	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.errors
		stmts = append(stmts, p.parseStmtRecover()...)
		if p.errors != before {
			ok = false
		}
	}
	if _, cok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' to close block"); !cok {
		ok = false
	}
	return p.b.Stmts.NewBlock(p.spanFrom(start), safety, stmts), ok
}

// parseBody reads a brace block or `=> stmt`. The short form is wrapped in a
// block so both spellings build the same tree.
func (p *Parser) parseBody() (ast.StmtID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock(ast.SafetyNone, tok.Span)
	case token.FatArrow:
		p.advance()
		ids, ok := p.parseStmt()
		return p.b.Stmts.NewBlock(p.spanFrom(tok.Span), ast.SafetyNone, ids), ok
	}
	p.errHere(diag.SynExpectBody, fmt.Sprintf("expected '{' or '=>', got %s", describe(tok)))
	return p.b.Stmts.NewMock(p.diagSpan()), false
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	start := p.advance().Span // if
	cond, ok := p.parseExpr(termSet{token.LBrace, token.FatArrow})
	then, tok := p.parseBody()
	ok = ok && tok
	els := ast.NoStmtID
	if p.accept(token.KwElse) {
		var eok bool
		if p.at(token.KwIf) {
			els, eok = p.parseIf()
		} else {
			els, eok = p.parseBody()
		}
		ok = ok && eok
	}
	return p.b.Stmts.NewIf(p.spanFrom(start), cond, then, els), ok
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	start := p.advance().Span // while
	cond, ok := p.parseExpr(termSet{token.LBrace, token.FatArrow})
	body, bok := p.parseBody()
	return p.b.Stmts.NewWhile(p.spanFrom(start), cond, body), ok && bok
}

func (p *Parser) parseReturn() (ast.StmtID, bool) {
	start := p.advance().Span // return
	val, ok := ast.NoExprID, true
	if !p.at(token.Semicolon) {
		val, ok = p.parseExpr(termSet{token.Semicolon})
	}
	if !p.expectSemi() {
		ok = false
	}
	return p.b.Stmts.NewReturn(p.spanFrom(start), val), ok
}

// retif cond, value;
func (p *Parser) parseRetif() (ast.StmtID, bool) {
	start := p.advance().Span // retif
	cond, ok := p.parseExpr(termSet{token.Comma, token.Semicolon})
	val := ast.NoExprID
	if p.accept(token.Comma) {
		var vok bool
		val, vok = p.parseExpr(termSet{token.Semicolon})
		ok = ok && vok
	}
	if !p.expectSemi() {
		ok = false
	}
	return p.b.Stmts.NewRetif(p.spanFrom(start), cond, val), ok
}

// asm "code";
func (p *Parser) parseAsm() (ast.StmtID, bool) {
	start := p.advance().Span // asm
	code, ok := p.expect(token.StringLit, diag.SynUnexpectedToken, "expected string after 'asm'")
	if !p.expectSemi() {
		ok = false
	}
	if !ok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	return p.b.Stmts.NewAsm(p.spanFrom(start), p.b.Intern(unquote(code))), true
}

// import name; | import a.b; | import "name";
func (p *Parser) parseImport() (ast.StmtID, bool) {
	start := p.advance().Span // import
	var name string
	ok := true
	switch tok := p.peek(); tok.Kind {
	case token.StringLit:
		p.advance()
		name = unquote(tok)
	case token.Ident:
		p.advance()
		name = tok.Text
		for p.accept(token.Dot) {
			part, pok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected module name after '.'")
			if !pok {
				ok = false
				break
			}
			name += "." + part.Text
		}
	default:
		p.errHere(diag.SynExpectIdentifier, fmt.Sprintf("expected module name, got %s", describe(tok)))
		return p.b.Stmts.NewMock(start), false
	}
	if !p.expectSemi() {
		ok = false
	}
	return p.b.Stmts.NewImport(p.spanFrom(start), p.b.Intern(name)), ok
}
