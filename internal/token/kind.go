package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	FloatLit
	StringLit
	CharLit
	// MacroBlock is @( ... ); Text holds the body without the delimiters.
	MacroBlock
	// MacroCall is @name or @name(args); Text holds everything after '@'.
	MacroCall
	// Note is a comment.
	Note

	kwBegin
	KwScope    // scope
	KwImport   // import
	KwPub      // pub
	KwSec      // sec
	KwPro      // pro
	KwType     // type
	KwLet      // let
	KwVar      // var
	KwConst    // const
	KwStatic   // static
	KwStruct   // struct
	KwUnion    // union
	KwOpaque   // opaque
	KwEnum     // enum
	KwFn       // fn
	KwUnsafe   // unsafe
	KwSafe     // safe
	KwRetif    // retif
	KwIf       // if
	KwElse     // else
	KwFor      // for
	KwWhile    // while
	KwForeach  // foreach
	KwIn       // in
	KwSwitch   // switch
	KwCase     // case
	KwDefault  // default
	KwBreak    // break
	KwContinue // continue
	KwReturn   // return
	KwAsm      // asm
	KwVoid     // void
	KwUndef    // undef
	KwNull     // null
	KwTrue     // true
	KwFalse    // false
	KwAs       // as
	kwEnd

	opBegin
	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	Shl           // <<
	Shr           // >>
	AndAnd        // &&
	OrOr          // ||
	CaretCaret    // ^^
	Bang          // !
	EqEq          // ==
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	PlusPlus      // ++
	MinusMinus    // --
	Dot           // .
	DotDot        // ..
	Ellipsis      // ...
	FatArrow      // =>
	Question      // ?
	opEnd

	punctBegin
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Colon     // :
	Semicolon // ;
	punctEnd
)

var kindNames = [...]string{
	Invalid:       "invalid",
	EOF:           "eof",
	Ident:         "ident",
	IntLit:        "int",
	FloatLit:      "float",
	StringLit:     "string",
	CharLit:       "char",
	MacroBlock:    "macro-block",
	MacroCall:     "macro-call",
	Note:          "note",
	KwScope:       "scope",
	KwImport:      "import",
	KwPub:         "pub",
	KwSec:         "sec",
	KwPro:         "pro",
	KwType:        "type",
	KwLet:         "let",
	KwVar:         "var",
	KwConst:       "const",
	KwStatic:      "static",
	KwStruct:      "struct",
	KwUnion:       "union",
	KwOpaque:      "opaque",
	KwEnum:        "enum",
	KwFn:          "fn",
	KwUnsafe:      "unsafe",
	KwSafe:        "safe",
	KwRetif:       "retif",
	KwIf:          "if",
	KwElse:        "else",
	KwFor:         "for",
	KwWhile:       "while",
	KwForeach:     "foreach",
	KwIn:          "in",
	KwSwitch:      "switch",
	KwCase:        "case",
	KwDefault:     "default",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwReturn:      "return",
	KwAsm:         "asm",
	KwVoid:        "void",
	KwUndef:       "undef",
	KwNull:        "null",
	KwTrue:        "true",
	KwFalse:       "false",
	KwAs:          "as",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	Shl:           "<<",
	Shr:           ">>",
	AndAnd:        "&&",
	OrOr:          "||",
	CaretCaret:    "^^",
	Bang:          "!",
	EqEq:          "==",
	BangEq:        "!=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	AmpAssign:     "&=",
	PipeAssign:    "|=",
	CaretAssign:   "^=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	PlusPlus:      "++",
	MinusMinus:    "--",
	Dot:           ".",
	DotDot:        "..",
	Ellipsis:      "...",
	FatArrow:      "=>",
	Question:      "?",
	LParen:        "(",
	RParen:        ")",
	LBracket:      "[",
	RBracket:      "]",
	LBrace:        "{",
	RBrace:        "}",
	Comma:         ",",
	Colon:         ":",
	Semicolon:     ";",
}

// String returns the source spelling for fixed tokens and a category name otherwise.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + itoa(int(k)) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// IsKeyword reports whether k is a keyword.
func (k Kind) IsKeyword() bool { return k > kwBegin && k < kwEnd }

// IsOperator reports whether k is an operator.
func (k Kind) IsOperator() bool { return k > opBegin && k < opEnd }

// IsPunct reports whether k is a punctuator.
func (k Kind) IsPunct() bool { return k > punctBegin && k < punctEnd }

// IsLiteral reports whether k is a numeric, string or char literal.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, StringLit, CharLit:
		return true
	default:
		return false
	}
}

// LookupFixed maps a fixed spelling (keyword, operator or punctuator) back to its kind.
func LookupFixed(text string) (Kind, bool) {
	k, ok := fixed[text]
	return k, ok
}

var fixed = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k := kwBegin + 1; k < punctEnd; k++ {
		if k.IsKeyword() || k.IsOperator() || k.IsPunct() {
			m[kindNames[k]] = k
		}
	}
	return m
}()
