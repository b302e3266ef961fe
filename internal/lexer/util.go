package lexer

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// peekRune decodes the rune at the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	rest := lx.cursor.Rest()
	if len(rest) == 0 {
		return utf8.RuneError, 0
	}
	if rest[0] < utf8.RuneSelf {
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

// bumpRune consumes one whole rune; invalid UTF-8 advances one byte.
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	lx.cursor.Skip(sz)
}

func isIdentStartByte(b byte) bool {
	return b == '_' || ('a' <= b|0x20 && b|0x20 <= 'z')
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

// Unicode identifiers: letters start, combining marks and digits may follow.
func isIdentStartRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool { return isDec(b) || ('a' <= b|0x20 && b|0x20 <= 'f') }

// isNumberAfterDot reports ".5": a dot directly followed by a digit.
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

// eat consumes s if the unread bytes start with it.
func (lx *Lexer) eat(s string) bool {
	if !bytes.HasPrefix(lx.cursor.Rest(), []byte(s)) {
		return false
	}
	lx.cursor.Skip(len(s))
	return true
}
