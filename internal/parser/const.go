package parser

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// constOp is an operator-stack entry of the constant expression parser.
// A '(' marker has kind LParen.
type constOp struct {
	tok   token.Token
	unary bool
	prec  int
	right bool
}

// parseConstExpr reads a constant expression up to (not including) term with
// a shunting-yard over literals, true/false, parentheses and operators.
// Anything else is rejected.
func (p *Parser) parseConstExpr(term token.Kind) (ast.ExprID, bool) {
	start := p.diagSpan()
	var (
		out           []ast.ExprID
		ops           []constOp
		depth         int
		expectOperand = true
	)

	fail := func(code diag.Code, sp source.Span, msg string) (ast.ExprID, bool) {
		p.report(code, diag.SevError, sp, msg)
		for !p.at(term) && !p.at(token.EOF) && !p.at(token.Semicolon) {
			p.advance()
		}
		return p.b.Exprs.NewMock(start.Cover(sp)), false
	}
	reduce := func() bool {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op.unary {
			if len(out) < 1 {
				return false
			}
			x := out[len(out)-1]
			out[len(out)-1] = p.b.Exprs.NewUnary(op.tok.Span.Cover(p.exprSpan(x)), op.tok.Kind, x)
			return true
		}
		if len(out) < 2 {
			return false
		}
		l, r := out[len(out)-2], out[len(out)-1]
		out = out[:len(out)-2]
		out = append(out, p.b.Exprs.NewBinary(p.exprSpan(l).Cover(p.exprSpan(r)), op.tok.Kind, l, r))
		return true
	}

	for {
		tok := p.peek()
		if tok.Kind == term && depth == 0 {
			break
		}
		switch {
		case tok.Kind == term:
			return fail(diag.SynBadConstExpr, tok.Span, "unbalanced '(' in constant expression")
		case tok.Kind == token.EOF:
			return fail(diag.SynBadConstExpr, p.diagSpan(), "unterminated constant expression")
		case tok.Kind.IsLiteral() || tok.Is(token.KwTrue, token.KwFalse):
			if !expectOperand {
				return fail(diag.SynBadConstExpr, tok.Span, "missing operator in constant expression")
			}
			out = append(out, p.constLiteral(tok))
			expectOperand = false
		case tok.Kind == token.LParen:
			if !expectOperand {
				return fail(diag.SynBadConstExpr, tok.Span, "unexpected '(' in constant expression")
			}
			ops = append(ops, constOp{tok: tok})
			depth++
		case tok.Kind == token.RParen:
			if expectOperand || depth == 0 {
				return fail(diag.SynBadConstExpr, tok.Span, "unexpected ')' in constant expression")
			}
			for ops[len(ops)-1].tok.Kind != token.LParen {
				if !reduce() {
					return fail(diag.SynBadConstExpr, tok.Span, "malformed constant expression")
				}
			}
			ops = ops[:len(ops)-1]
			depth--
		case expectOperand && isConstPrefixOp(tok.Kind):
			ops = append(ops, constOp{tok: tok, unary: true, prec: precUnary, right: true})
		case !expectOperand && isConstBinary(tok.Kind):
			prec, right := binaryPrec(tok.Kind)
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.tok.Kind == token.LParen || top.prec < prec || top.prec == prec && right {
					break
				}
				if !reduce() {
					return fail(diag.SynBadConstExpr, tok.Span, "malformed constant expression")
				}
			}
			ops = append(ops, constOp{tok: tok, prec: prec, right: right})
			expectOperand = true
		default:
			return fail(diag.SynNotConstant, tok.Span, fmt.Sprintf("%s is not allowed in a constant expression", describe(tok)))
		}
		p.advance()
	}

	if expectOperand {
		return fail(diag.SynBadConstExpr, p.diagSpan(), "constant expression ends without an operand")
	}
	for len(ops) > 0 {
		if !reduce() {
			return fail(diag.SynBadConstExpr, p.diagSpan(), "malformed constant expression")
		}
	}
	if len(out) != 1 {
		return fail(diag.SynBadConstExpr, p.diagSpan(), fmt.Sprintf("constant expression leaves %d values", len(out)))
	}
	return out[0], true
}

func isConstBinary(kind token.Kind) bool {
	prec, _ := binaryPrec(kind)
	return prec > precAssignment && kind != token.DotDot
}

func (p *Parser) constLiteral(tok token.Token) ast.ExprID {
	kind := ast.ExprBool
	switch tok.Kind {
	case token.IntLit:
		kind = ast.ExprInt
	case token.FloatLit:
		kind = ast.ExprFloat
	case token.StringLit:
		kind = ast.ExprString
	case token.CharLit:
		kind = ast.ExprChar
	}
	return p.b.Exprs.NewLiteral(kind, tok.Span, p.b.Intern(tok.Text))
}
