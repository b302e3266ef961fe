package lexer

import (
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

func isBin(b byte) bool { return b == '0' || b == '1' }
func isOct(b byte) bool { return '0' <= b && b <= '7' }

// radixDigits maps the letter after a leading 0 to its digit class.
var radixDigits = map[byte]func(byte) bool{
	'b': isBin, 'B': isBin,
	'o': isOct, 'O': isOct,
	'x': isHex, 'X': isHex,
}

// digits consumes a run of digits and '_' separators.
func (lx *Lexer) digits(ok func(byte) bool) {
	for b := lx.cursor.Peek(); ok(b) || b == '_'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
}

// scanNumber reads 0, 123, 0b1, 0o7, 0xff, 1.0, .5, 1e-3 and 1.0e+10.
// Radix literals are integers only. Malformed forms are reported and yield
// token.Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	_, b1, _ := lx.cursor.Peek2()
	switch b0 := lx.cursor.Peek(); {
	case b0 == '.':
		lx.cursor.Bump()
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after '.'")
		}
		kind = token.FloatLit
		lx.digits(isDec)
	case b0 == '0' && radixDigits[b1] != nil:
		lx.cursor.Skip(2)
		lx.digits(radixDigits[b1])
		return lx.number(start, kind)
	default:
		lx.digits(isDec)
		// "1..2" is a range, "1.x" is member access: only digits continue the number
		if lx.isNumberAfterDot() {
			lx.cursor.Bump()
			kind = token.FloatLit
			lx.digits(isDec)
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after exponent")
		}
		lx.digits(isDec)
	}
	return lx.number(start, kind)
}

func (lx *Lexer) number(start Mark, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
