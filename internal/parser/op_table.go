package parser

import (
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precAssignment     = 1 // = += -= ... (правоассоциативно)
	precTernary        = 2 // ?:
	precLogicalOr      = 3 // || ^^
	precLogicalAnd     = 4 // &&
	precBitwiseOr      = 5
	precBitwiseXor     = 6
	precBitwiseAnd     = 7
	precEquality       = 8
	precComparison     = 9
	precShift          = 10
	precRange          = 11 // ..
	precAdditive       = 12
	precMultiplicative = 13
	precUnary          = 14
)

// binaryPrec returns the precedence and right-associativity of a binary
// operator, or -1 when kind is not one.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign,
		token.SlashAssign, token.PercentAssign, token.AmpAssign, token.PipeAssign,
		token.CaretAssign, token.ShlAssign, token.ShrAssign:
		return precAssignment, true
	case token.OrOr, token.CaretCaret:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.Pipe:
		return precBitwiseOr, false
	case token.Caret:
		return precBitwiseXor, false
	case token.Amp:
		return precBitwiseAnd, false
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Shl, token.Shr:
		return precShift, false
	case token.DotDot:
		return precRange, false
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, false
	default:
		return -1, false
	}
}

func isAssignOp(kind token.Kind) bool {
	p, _ := binaryPrec(kind)
	return p == precAssignment
}

// isPrefixOp: - + ! ~ & * ++ --
func isPrefixOp(kind token.Kind) bool {
	switch kind {
	case token.Minus, token.Plus, token.Bang, token.Tilde, token.Amp, token.Star,
		token.PlusPlus, token.MinusMinus:
		return true
	default:
		return false
	}
}

// isConstPrefixOp is the subset of prefix operators allowed in constant expressions.
func isConstPrefixOp(kind token.Kind) bool {
	switch kind {
	case token.Minus, token.Plus, token.Bang, token.Tilde:
		return true
	default:
		return false
	}
}
