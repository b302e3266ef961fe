package ir

import (
	"math/bits"
	"strconv"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// evalConst folds an integer constant expression. Overflow, division by
// zero and non-integer operands make it fail.
func (l *lowerer) evalConst(id ast.ExprID) (int64, bool) {
	e := l.b.Exprs.Get(id)
	if e == nil {
		return 0, false
	}
	ex := l.b.Exprs
	switch e.Kind {
	case ast.ExprInt:
		d, _ := ex.Literal(id)
		v, err := strconv.ParseInt(l.b.Str(d.Value), 0, 64)
		return v, err == nil
	case ast.ExprBool:
		d, _ := ex.Literal(id)
		if l.b.Str(d.Value) == "true" {
			return 1, true
		}
		return 0, true
	case ast.ExprIdent, ast.ExprMember:
		// enum items: Item inside the enum body, Enum.Item elsewhere
		var name string
		if d, ok := ex.Ident(id); ok {
			name = l.b.Str(d.Name)
		} else {
			d, _ := ex.Member(id)
			base, ok := ex.Ident(d.Base)
			if !ok {
				return 0, false
			}
			name = l.b.Str(base.Name) + "::" + l.b.Str(d.Field)
		}
		n, _, ok := resolveGlobal(l, l.m.Constants, name)
		if !ok {
			return 0, false
		}
		node := l.m.Node(n)
		lit, isLit := node.Data.(*LitData)
		if node.Kind != NodeInt || !isLit {
			return 0, false
		}
		v, err := strconv.ParseInt(lit.Text, 0, 64)
		return v, err == nil
	case ast.ExprUnary:
		d, _ := ex.Unary(id)
		v, ok := l.evalConst(d.Operand)
		if !ok {
			return 0, false
		}
		switch d.Op {
		case token.Minus:
			if v == -v && v != 0 {
				return 0, false
			}
			return -v, true
		case token.Plus:
			return v, true
		case token.Tilde:
			return ^v, true
		case token.Bang:
			if v == 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	case ast.ExprBinary:
		d, _ := ex.Binary(id)
		a, ok := l.evalConst(d.Left)
		if !ok {
			return 0, false
		}
		b, ok := l.evalConst(d.Right)
		if !ok {
			return 0, false
		}
		return foldBinary(d.Op, a, b)
	}
	return 0, false
}

func foldBinary(op token.Kind, a, b int64) (int64, bool) {
	switch op {
	case token.Plus:
		s := a + b
		if (s > a) != (b > 0) {
			return 0, false
		}
		return s, true
	case token.Minus:
		s := a - b
		if (s < a) != (b > 0) {
			return 0, false
		}
		return s, true
	case token.Star:
		if a == 0 || b == 0 {
			return 0, true
		}
		hi, lo := bits.Mul64(abs64(a), abs64(b))
		if hi != 0 || lo > 1<<63-1 {
			return 0, false
		}
		return a * b, true
	case token.Slash, token.Percent:
		if b == 0 || (a == -1<<63 && b == -1) {
			return 0, false
		}
		if op == token.Slash {
			return a / b, true
		}
		return a % b, true
	case token.Shl, token.Shr:
		if b < 0 || b > 63 {
			return 0, false
		}
		if op == token.Shl {
			return a << uint(b), true
		}
		return a >> uint(b), true
	case token.Amp:
		return a & b, true
	case token.Pipe:
		return a | b, true
	case token.Caret:
		return a ^ b, true
	case token.AndAnd:
		return boolInt(a != 0 && b != 0), true
	case token.OrOr:
		return boolInt(a != 0 || b != 0), true
	case token.CaretCaret:
		return boolInt((a != 0) != (b != 0)), true
	case token.EqEq:
		return boolInt(a == b), true
	case token.BangEq:
		return boolInt(a != b), true
	case token.Lt:
		return boolInt(a < b), true
	case token.LtEq:
		return boolInt(a <= b), true
	case token.Gt:
		return boolInt(a > b), true
	case token.GtEq:
		return boolInt(a >= b), true
	}
	return 0, false
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-(v + 1)) + 1 //nolint:gosec // -(v+1) is non-negative
	}
	return uint64(v)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
