package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

func (p *Parser) parseDecl(vis ast.Visibility, start source.Span) ([]ast.StmtID, bool) {
	switch tok := p.peek(); tok.Kind {
	case token.KwLet, token.KwVar, token.KwConst:
		ids, ok := p.parseVarList(vis, start, nil)
		if ok && !p.expectSemi() {
			ok = false
		}
		return ids, ok
	case token.KwFn:
		return one(p.parseFn(vis, start))
	case token.KwStruct, token.KwUnion:
		return one(p.parseStruct(vis, start))
	case token.KwEnum:
		return one(p.parseEnum(vis, start))
	case token.KwType:
		return one(p.parseTypedef(vis, start))
	default:
		p.errHere(diag.SynUnexpectedToken, fmt.Sprintf("expected declaration after visibility, got %s", describe(tok)))
		return one(p.b.Stmts.NewMock(start), false)
	}
}

// parseVarList: let a: T = x, b = y   (без ';')
// extra terminates the initialisers in addition to ',' and ';'.
func (p *Parser) parseVarList(vis ast.Visibility, start source.Span, extra termSet) ([]ast.StmtID, bool) {
	kw := p.advance()
	kind := ast.VarLet
	switch kw.Kind {
	case token.KwVar:
		kind = ast.VarVar
	case token.KwConst:
		kind = ast.VarConst
	}
	term := extra.with(token.Comma, token.Semicolon)
	var ids []ast.StmtID
	ok := true
	for {
		declStart := p.peek().Span
		if len(ids) == 0 {
			declStart = start
		}
		data := ast.StmtVarData{Kind: kind, Vis: vis}
		name, nok := p.parseIdent("variable name")
		if !nok {
			ids = append(ids, p.b.Stmts.NewMock(p.spanFrom(declStart)))
			return ids, false
		}
		data.Name = name
		if p.accept(token.Colon) {
			t, tok := p.parseType()
			data.Type = t
			ok = ok && tok
		}
		if p.accept(token.Assign) {
			x, xok := p.parseExpr(term)
			data.Init = x
			ok = ok && xok
		}
		ids = append(ids, p.b.Stmts.NewVar(p.spanFrom(declStart), data))
		if !p.accept(token.Comma) {
			return ids, ok
		}
	}
}

// fn name(a: T, b: T = x): R { ... } | => stmt | ;
func (p *Parser) parseFn(vis ast.Visibility, start source.Span) (ast.StmtID, bool) {
	p.advance() // fn
	data := ast.StmtFnData{Vis: vis}
	name, ok := p.parseIdent("function name")
	if !ok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	data.Name = name
	if _, pok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !pok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		f, fok := p.parseField("parameter", termSet{token.Comma, token.RParen})
		data.Params = append(data.Params, ast.FnParam(f))
		if !fok {
			ok = false
			p.skipTo(termSet{token.Comma, token.RParen})
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, cok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' after parameters"); !cok {
		ok = false
	}
	if p.accept(token.Colon) {
		ret, rok := p.parseType()
		data.Ret = ret
		ok = ok && rok
	}
	if !p.accept(token.Semicolon) {
		body, bok := p.parseBody()
		data.Body = body
		ok = ok && bok
	}
	return p.b.Stmts.NewFn(p.spanFrom(start), data), ok
}

// parseField: name: T [= default]. Used for parameters and struct fields.
func (p *Parser) parseField(what string, term termSet) (ast.Field, bool) {
	var f ast.Field
	name, ok := p.parseIdent(what + " name")
	if !ok {
		return f, false
	}
	f.Name = name
	if _, cok := p.expect(token.Colon, diag.SynExpectColon, fmt.Sprintf("expected ':' after %s name", what)); !cok {
		f.Type = p.b.Types.NewMock(p.diagSpan())
		return f, false
	}
	t, tok := p.parseType()
	f.Type = t
	if !tok {
		return f, false
	}
	if p.accept(token.Assign) {
		x, xok := p.parseExpr(term)
		f.Default = x
		ok = xok
	}
	return f, ok
}

// struct Name { a: T, b: T = x }
func (p *Parser) parseStruct(vis ast.Visibility, start source.Span) (ast.StmtID, bool) {
	kw := p.advance()
	data := ast.StmtStructData{Vis: vis, Union: kw.Kind == token.KwUnion}
	name, ok := p.parseIdent(kw.Text + " name")
	if !ok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	data.Name = name
	if _, bok := p.expect(token.LBrace, diag.SynExpectLBrace, fmt.Sprintf("expected '{' after %s name", kw.Text)); !bok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	term := termSet{token.Comma, token.Semicolon, token.RBrace}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		f, fok := p.parseField("field", term)
		if f.Name != source.NoStringID {
			data.Fields = append(data.Fields, f)
		}
		if !fok {
			ok = false
			p.skipTo(term)
		}
		if !p.accept(token.Comma) && !p.accept(token.Semicolon) {
			break
		}
	}
	if _, cok := p.expect(token.RBrace, diag.SynExpectRBrace, fmt.Sprintf("expected '}' to close %s", kw.Text)); !cok {
		ok = false
	}
	return p.b.Stmts.NewStruct(p.spanFrom(start), data), ok
}

// enum Name [: T] { A, B = expr }
func (p *Parser) parseEnum(vis ast.Visibility, start source.Span) (ast.StmtID, bool) {
	p.advance() // enum
	data := ast.StmtEnumData{Vis: vis}
	name, ok := p.parseIdent("enum name")
	if !ok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	data.Name = name
	if p.accept(token.Colon) {
		t, tok := p.parseType()
		data.Type = t
		ok = ok && tok
	}
	if !p.at(token.LBrace) {
		p.errHere(diag.SynEnumExpectBody, fmt.Sprintf("expected '{' to open enum body, got %s", describe(p.peek())))
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	p.advance()
	term := termSet{token.Comma, token.RBrace}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		item, iok := p.parseIdent("enum item")
		if !iok {
			ok = false
			p.skipTo(term)
		} else {
			it := ast.EnumItem{Name: item}
			if p.accept(token.Assign) {
				x, xok := p.parseExpr(term)
				it.Value = x
				ok = ok && xok
			}
			data.Items = append(data.Items, it)
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, cok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' to close enum"); !cok {
		ok = false
	}
	return p.b.Stmts.NewEnum(p.spanFrom(start), data), ok
}

// type Name = T;
func (p *Parser) parseTypedef(vis ast.Visibility, start source.Span) (ast.StmtID, bool) {
	p.advance() // type
	name, ok := p.parseIdent("type name")
	if !ok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	if _, aok := p.expect(token.Assign, diag.SynExpectAssign, "expected '=' in type definition"); !aok {
		return p.b.Stmts.NewMock(p.spanFrom(start)), false
	}
	t, tok := p.parseType()
	if !p.expectSemi() {
		tok = false
	}
	return p.b.Stmts.NewTypedef(p.spanFrom(start), ast.StmtTypedefData{Vis: vis, Name: name, Type: t}), tok
}

// scope [name] [: [dep, ...]] (; | => stmt | { ... })
func (p *Parser) parseScope() (ast.StmtID, bool) {
	start := p.advance().Span // scope
	var data ast.StmtScopeData
	ok := true
	if p.at(token.Ident) {
		data.Name = p.b.Intern(p.advance().Text)
	}
	if p.accept(token.Colon) {
		deps, dok := p.parseScopeDeps()
		data.Deps = deps
		ok = ok && dok
	}
	switch tok := p.peek(); tok.Kind {
	case token.Semicolon:
		p.advance()
		data.Body = p.b.Stmts.NewBlock(tok.Span, ast.SafetyNone, nil)
	default:
		body, bok := p.parseBody()
		data.Body = body
		ok = ok && bok
	}
	return p.b.Stmts.NewScope(p.spanFrom(start), data), ok
}

func (p *Parser) parseScopeDeps() ([]source.StringID, bool) {
	if !p.accept(token.LBracket) {
		p.errHere(diag.SynScopeBadDeps, fmt.Sprintf("expected '[' to open dependency list, got %s", describe(p.peek())))
		p.skipTo(termSet{token.LBrace, token.FatArrow})
		return nil, false
	}
	var deps []source.StringID
	for !p.at(token.RBracket) {
		tok := p.peek()
		if tok.Kind != token.Ident {
			p.errHere(diag.SynScopeBadDeps, fmt.Sprintf("expected dependency name, got %s", describe(tok)))
			p.skipTo(termSet{token.RBracket})
			p.accept(token.RBracket)
			return deps, false
		}
		p.advance()
		deps = append(deps, p.b.Intern(tok.Text))
		if !p.accept(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynScopeBadDeps, "expected ']' to close dependency list"); !ok {
		return deps, false
	}
	return deps, true
}
