package lexer

import (
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// scanMacro reads "@( ... )" as a MacroBlock and "@name" / "@name(args)" as a MacroCall.
// Parentheses are balanced; strings inside the body are skipped as units.
func (lx *Lexer) scanMacro() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '@'

	if lx.cursor.Peek() == '(' {
		lx.cursor.Bump()
		bodyStart := lx.cursor.Off
		if !lx.skipBalanced() {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedMacro, sp, "unterminated macro block")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		sp := lx.cursor.SpanFrom(start)
		body := string(lx.file.Content[bodyStart : lx.cursor.Off-1])
		return token.Token{Kind: token.MacroBlock, Span: sp, Text: body}
	}

	nameStart := lx.cursor.Off
	ascii := true
	if !lx.scanIdentPart(&ascii) {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "expected macro name or '(' after '@'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	// Lua-style dotted names: @mod.fn
	for lx.cursor.Peek() == '.' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if !lx.scanIdentPart(&ascii) {
			lx.cursor.Reset(mark)
			break
		}
	}
	if lx.cursor.Peek() == '(' {
		lx.cursor.Bump()
		if !lx.skipBalanced() {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedMacro, sp, "unterminated macro call")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.MacroCall, Span: sp, Text: string(lx.file.Content[nameStart:lx.cursor.Off])}
}

// skipBalanced consumes up to and including the ')' matching an already consumed '('.
func (lx *Lexer) skipBalanced() bool {
	depth := 1
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				lx.cursor.Bump()
				return true
			}
		case '"', '\'':
			lx.skipQuotedRaw(b)
			continue
		}
		lx.cursor.Bump()
	}
	return false
}

func (lx *Lexer) skipQuotedRaw(q byte) {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == q {
			return
		}
	}
}
