package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// parseType разбирает тип:
//
//	void | name | *T | [T; const-expr] | fn(T, ...): R
func (p *Parser) parseType() (ast.TypeID, bool) {
	tok := p.peek()
	ts := p.b.Types
	switch tok.Kind {
	case token.KwVoid:
		p.advance()
		return ts.NewVoid(tok.Span), true
	case token.Ident:
		p.advance()
		kind := ast.TypeNamed
		if ast.IsPrimitive(tok.Text) {
			kind = ast.TypePrim
		}
		return ts.NewName(kind, tok.Span, p.b.Intern(tok.Text)), true
	case token.Star:
		p.advance()
		elem, ok := p.parseType()
		return ts.NewPtr(tok.Span.Cover(p.lastSpan), elem), ok
	case token.LBracket:
		return p.parseArrayType()
	case token.KwFn:
		return p.parseFnType()
	}
	p.errHere(diag.SynExpectType, fmt.Sprintf("expected type, got %s", describe(tok)))
	return ts.NewMock(p.diagSpan()), false
}

func (p *Parser) parseArrayType() (ast.TypeID, bool) {
	start := p.advance().Span // [
	elem, ok := p.parseType()
	if _, sok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' between array element type and size"); !sok {
		p.skipTo(termSet{token.RBracket})
		p.accept(token.RBracket)
		return p.b.Types.NewArray(p.spanFrom(start), elem, p.b.Exprs.NewMock(p.lastSpan)), false
	}
	size, cok := p.parseConstExpr(token.RBracket)
	if _, bok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']' after array size"); !bok {
		ok = false
	}
	return p.b.Types.NewArray(p.spanFrom(start), elem, size), ok && cok
}

func (p *Parser) parseFnType() (ast.TypeID, bool) {
	start := p.advance().Span // fn
	ok := true
	if _, pok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' in function type"); !pok {
		return p.b.Types.NewMock(start), false
	}
	var params []ast.TypeID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		t, tok := p.parseType()
		params = append(params, t)
		ok = ok && tok
		if !tok || !p.accept(token.Comma) {
			break
		}
	}
	if _, cok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' in function type"); !cok {
		ok = false
	}
	ret := ast.NoTypeID
	if p.accept(token.Colon) {
		var rok bool
		ret, rok = p.parseType()
		ok = ok && rok
	}
	return p.b.Types.NewFn(p.spanFrom(start), params, ret), ok
}
