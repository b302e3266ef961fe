package token

// Category is the coarse token class used on the wire.
type Category uint8

const (
	CatEOF Category = iota
	CatKeyword
	CatOperator
	CatPunct
	CatName
	CatInt
	CatFloat
	CatString
	CatChar
	CatMacroBlock
	CatMacroCall
	CatNote
)

var categoryNames = [...]string{
	CatEOF:        "eof",
	CatKeyword:    "key",
	CatOperator:   "op",
	CatPunct:      "punc",
	CatName:       "name",
	CatInt:        "int",
	CatFloat:      "num",
	CatString:     "str",
	CatChar:       "char",
	CatMacroBlock: "macb",
	CatMacroCall:  "macr",
	CatNote:       "note",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "category(" + itoa(int(c)) + ")"
}

// Category returns the wire class of k. Invalid tokens report CatEOF.
func (k Kind) Category() Category {
	switch {
	case k.IsKeyword():
		return CatKeyword
	case k.IsOperator():
		return CatOperator
	case k.IsPunct():
		return CatPunct
	}
	switch k {
	case Ident:
		return CatName
	case IntLit:
		return CatInt
	case FloatLit:
		return CatFloat
	case StringLit:
		return CatString
	case CharLit:
		return CatChar
	case MacroBlock:
		return CatMacroBlock
	case MacroCall:
		return CatMacroCall
	case Note:
		return CatNote
	default:
		return CatEOF
	}
}

// FromCategory rebuilds the kind from a wire class and its value text.
func FromCategory(c Category, value string) (Kind, bool) {
	switch c {
	case CatEOF:
		return EOF, true
	case CatKeyword, CatOperator, CatPunct:
		k, ok := LookupFixed(value)
		if !ok || k.Category() != c {
			return Invalid, false
		}
		return k, true
	case CatName:
		return Ident, true
	case CatInt:
		return IntLit, true
	case CatFloat:
		return FloatLit, true
	case CatString:
		return StringLit, true
	case CatChar:
		return CharLit, true
	case CatMacroBlock:
		return MacroBlock, true
	case CatMacroCall:
		return MacroCall, true
	case CatNote:
		return Note, true
	default:
		return Invalid, false
	}
}
