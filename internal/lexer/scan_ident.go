package lexer

import (
	"golang.org/x/text/unicode/norm"

	"github.com/Kracken256/nitrate-sub001/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует [Ident] и проверяет через LookupKeyword.
// Scoped names (a::b) stay one token. Non-ASCII names are NFC-normalised,
// so Text may differ from the source bytes for them.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true
	if !lx.scanIdentPart(&ascii) {
		return lx.scanOperatorOrPunct()
	}
	for {
		mark := lx.cursor.Mark()
		if !lx.eat("::") {
			break
		}
		if !lx.scanIdentPart(&ascii) {
			lx.cursor.Reset(mark)
			break
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if !ascii {
		text = norm.NFC.String(text)
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// scanIdentPart consumes one identifier segment.
func (lx *Lexer) scanIdentPart(ascii *bool) bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return false
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return false
		}
		*ascii = false
		lx.bumpRune()
	}
	for {
		r, sz = lx.peekRune()
		if sz == 0 {
			return true
		}
		if r < utf8RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				return true
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r) {
			return true
		}
		*ascii = false
		lx.bumpRune()
	}
}
