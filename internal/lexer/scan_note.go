package lexer

import (
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// scanNote consumes "# ...", "// ..." and "/* ... */" (nested) comments.
func (lx *Lexer) scanNote() (token.Token, bool) {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Peek()
	switch {
	case b0 == '#':
		lx.skipLine()
	case lx.eat("//"):
		lx.skipLine()
	case lx.eat("/*"):
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			switch {
			case lx.eat("/*"):
				depth++
			case lx.eat("*/"):
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
	default:
		return token.Token{}, false
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Note, Span: sp, Text: lx.text(sp)}, true
}

func (lx *Lexer) skipLine() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}
