package lexer

import (
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// maxOpLen is the longest operator spelling ("...", "<<=", ">>=").
const maxOpLen = 3

// scanOperatorOrPunct takes the longest fixed spelling at the cursor.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	rest := lx.cursor.Rest()
	for n := min(maxOpLen, len(rest)); n > 0; n-- {
		k, ok := token.LookupFixed(string(rest[:n]))
		if !ok || !(k.IsOperator() || k.IsPunct()) {
			continue
		}
		lx.cursor.Skip(n)
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	// не съедаем руну по частям
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
