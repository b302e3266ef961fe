package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// scanString reads "..." with escapes; Text keeps the quotes and raw escapes.
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string")
}

// scanChar reads 'x'.
func (lx *Lexer) scanChar() token.Token {
	tok := lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "char")
	if tok.Kind == token.CharLit {
		if v, err := Unquote(tok.Text); err != nil || len([]rune(v)) != 1 {
			lx.errLex(diag.LexBadEscape, tok.Span, "char literal must hold exactly one character")
		}
	}
	return tok
}

func (lx *Lexer) scanQuoted(q byte, kind token.Kind, code diag.Code, what string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == q {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			tok := token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
			if kind == token.StringLit {
				if _, err := Unquote(tok.Text); err != nil {
					lx.errLex(diag.LexBadEscape, sp, err.Error())
				}
			}
			return tok
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(code, sp, "unterminated "+what+" literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// Unquote decodes a string or char literal including its quotes.
// Multi-line strings are allowed; escapes: \n \t \r \0 \\ \' \" \xNN \u{...}.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || (lit[0] != '"' && lit[0] != '\'') {
		return "", fmt.Errorf("not a quoted literal: %q", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		case 'x':
			if i+2 >= len(body) {
				return "", fmt.Errorf("short \\x escape")
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape: %w", err)
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			if i+1 >= len(body) || body[i+1] != '{' {
				return "", fmt.Errorf("expected '{' after \\u")
			}
			end := strings.IndexByte(body[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated \\u escape")
			}
			v, err := strconv.ParseUint(body[i+2:i+end], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad \\u escape: %w", err)
			}
			b.WriteRune(rune(v))
			i += end
		default:
			return "", fmt.Errorf("unknown escape \\%c", body[i])
		}
	}
	return b.String(), nil
}

// Quote produces a double-quoted literal that Unquote accepts.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
