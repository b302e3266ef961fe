package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// parseExpr parses an expression that must end at one of term.
// On failure the returned node is a mock expression and the parser sits on a
// terminator (or EOF).
func (p *Parser) parseExpr(term termSet) (ast.ExprID, bool) {
	if p.atAny(term...) || p.at(token.EOF) {
		p.errHere(diag.SynExpectExpression, fmt.Sprintf("expected expression, got %s", describe(p.peek())))
		return p.b.Exprs.NewMock(p.diagSpan()), false
	}
	id, ok := p.parseBinary(0, term)
	if !p.atAny(term...) {
		if ok {
			p.errHere(diag.SynUnexpectedToken, fmt.Sprintf("unexpected %s in expression", describe(p.peek())))
		}
		p.skipTo(term)
		ok = false
	}
	return id, ok
}

// skipTo advances to the first terminator outside nested brackets.
func (p *Parser) skipTo(term termSet) {
	depth := 0
	for {
		k := p.peek().Kind
		if k == token.EOF || depth == 0 && term.has(k) {
			return
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				// закрывающая скобка чужого контекста
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// parseBinary реализует Pratt parsing для бинарных операторов.
func (p *Parser) parseBinary(minPrec int, term termSet) (ast.ExprID, bool) {
	left, ok := p.parseUnary(term)
	for {
		tok := p.peek()
		if term.has(tok.Kind) {
			break
		}
		if tok.Kind == token.Question {
			if precTernary < minPrec {
				break
			}
			p.advance()
			then, tok1 := p.parseExpr(termSet{token.Colon})
			p.expect(token.Colon, diag.SynExpectColon, "expected ':' in conditional expression")
			els, tok2 := p.parseBinary(precTernary, term)
			left = p.b.Exprs.NewTernary(p.exprSpan(left).Cover(p.lastSpan), left, then, els)
			ok = ok && tok1 && tok2
			continue
		}
		prec, right := binaryPrec(tok.Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		op := p.advance()
		next := prec + 1
		if right {
			next = prec
		}
		rhs, rok := p.parseBinary(next, term)
		sp := p.exprSpan(left).Cover(p.exprSpan(rhs))
		if isAssignOp(op.Kind) {
			left = p.b.Exprs.NewAssign(sp, op.Kind, left, rhs)
		} else {
			left = p.b.Exprs.NewBinary(sp, op.Kind, left, rhs)
		}
		ok = ok && rok
	}
	return left, ok
}

func (p *Parser) parseUnary(term termSet) (ast.ExprID, bool) {
	tok := p.peek()
	if isPrefixOp(tok.Kind) {
		p.advance()
		operand, ok := p.parseUnary(term)
		return p.b.Exprs.NewUnary(tok.Span.Cover(p.exprSpan(operand)), tok.Kind, operand), ok
	}
	prim, ok := p.parsePrimary(term)
	return p.parsePostfix(prim, ok, term)
}

func (p *Parser) parsePostfix(x ast.ExprID, ok bool, term termSet) (ast.ExprID, bool) {
	for {
		tok := p.peek()
		if term.has(tok.Kind) {
			return x, ok
		}
		start := p.exprSpan(x)
		switch tok.Kind {
		case token.LParen:
			p.advance()
			args, aok := p.parseExprList(token.RParen)
			x = p.b.Exprs.NewCall(start.Cover(p.lastSpan), x, args)
			ok = ok && aok
		case token.LBracket:
			p.advance()
			idx, iok := p.parseExpr(termSet{token.RBracket})
			cok := p.closeWith(token.RBracket, iok)
			x = p.b.Exprs.NewIndex(start.Cover(p.lastSpan), x, idx)
			ok = ok && iok && cok
		case token.Dot:
			p.advance()
			name, nok := p.parseIdent("field name")
			x = p.b.Exprs.NewMember(start.Cover(p.lastSpan), x, name)
			ok = ok && nok
		case token.PlusPlus, token.MinusMinus:
			p.advance()
			x = p.b.Exprs.NewPostfix(start.Cover(tok.Span), tok.Kind, x)
		case token.KwAs:
			p.advance()
			typ, tok2 := p.parseType()
			x = p.b.Exprs.NewCast(start.Cover(p.lastSpan), x, typ)
			ok = ok && tok2
		default:
			return x, ok
		}
	}
}

// parseExprList parses comma separated expressions up to and including closer.
// A trailing comma is allowed.
func (p *Parser) parseExprList(closer token.Kind) ([]ast.ExprID, bool) {
	var out []ast.ExprID
	ok := true
	term := termSet{token.Comma, closer}
	for !p.at(closer) && !p.at(token.EOF) {
		e, eok := p.parseExpr(term)
		out = append(out, e)
		ok = ok && eok
		if !p.accept(token.Comma) {
			break
		}
	}
	if !p.closeWith(closer, ok) {
		ok = false
	}
	return out, ok
}

// closeWith consumes closer. After an inner error it is taken silently when
// present so one mistake yields one diagnostic.
func (p *Parser) closeWith(closer token.Kind, ok bool) bool {
	if !ok {
		return p.accept(closer)
	}
	code := diag.SynExpectRParen
	if closer == token.RBracket {
		code = diag.SynExpectRBracket
	}
	_, cok := p.expect(closer, code, fmt.Sprintf("expected '%s'", closer))
	return cok
}

func (p *Parser) parsePrimary(term termSet) (ast.ExprID, bool) {
	tok := p.peek()
	ex := p.b.Exprs
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return ex.NewLiteral(ast.ExprInt, tok.Span, p.b.Intern(tok.Text)), true
	case token.FloatLit:
		p.advance()
		return ex.NewLiteral(ast.ExprFloat, tok.Span, p.b.Intern(tok.Text)), true
	case token.StringLit:
		p.advance()
		return ex.NewLiteral(ast.ExprString, tok.Span, p.b.Intern(tok.Text)), true
	case token.CharLit:
		p.advance()
		return ex.NewLiteral(ast.ExprChar, tok.Span, p.b.Intern(tok.Text)), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return ex.NewLiteral(ast.ExprBool, tok.Span, p.b.Intern(tok.Text)), true
	case token.KwNull:
		p.advance()
		return ex.NewNull(tok.Span), true
	case token.KwUndef:
		p.advance()
		return ex.NewUndef(tok.Span), true
	case token.Ident:
		p.advance()
		return ex.NewIdent(tok.Span, p.b.Intern(tok.Text)), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr(termSet{token.RParen})
		p.closeWith(token.RParen, ok)
		return inner, ok
	case token.LBracket:
		p.advance()
		elems, ok := p.parseExprList(token.RBracket)
		return ex.NewList(tok.Span.Cover(p.lastSpan), elems), ok
	}

	p.errHere(diag.SynExpectExpression, fmt.Sprintf("expected expression, got %s", describe(tok)))
	switch {
	case tok.Kind == token.EOF, term.has(tok.Kind),
		tok.Is(token.Semicolon, token.RParen, token.RBracket, token.RBrace, token.LBrace):
	default:
		p.advance()
	}
	return ex.NewMock(tok.Span), false
}
