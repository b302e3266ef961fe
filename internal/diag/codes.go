package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005
	LexBadEscape                Code = 1006
	LexUnterminatedMacro        Code = 1007

	// Парсерные
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynExpectRParen       Code = 2006
	SynExpectRBracket     Code = 2007
	SynExpectRBrace       Code = 2008
	SynExpectLBrace       Code = 2009
	SynExpectColon        Code = 2010
	SynExpectBody         Code = 2011
	SynForBadInit         Code = 2012
	SynForBadHeader       Code = 2013
	SynNotConstant        Code = 2014
	SynBadConstExpr       Code = 2015
	SynEnumExpectBody     Code = 2016
	SynScopeBadDeps       Code = 2017
	SynSwitchBadCase      Code = 2018
	SynUnexpectedTopLevel Code = 2019
	SynExpectAssign       Code = 2020
	SynForeachBadHeader   Code = 2021
	SynDuplicateDefault   Code = 2022
	SynFastErrorAbort     Code = 2099

	// Семантические / IR
	SemaUnknownFunction     Code = 3001
	SemaTooManyArguments    Code = 3002
	SemaTooFewArguments     Code = 3003
	SemaTypeInference       Code = 3004
	SemaMissingReturn       Code = 3005
	SemaReturnTypeMismatch  Code = 3006
	SemaUnknownType         Code = 3007
	SemaUnknownIdentifier   Code = 3008
	SemaDuplicateDefinition Code = 3009
	SemaUnknownSize         Code = 3010
	SemaNotIterable         Code = 3011
	SemaBreakOutsideLoop    Code = 3012
	SemaUnsupported         Code = 3013
	SemaFastErrorAbort      Code = 3099

	// Макросы
	MacScriptError       Code = 4001
	MacUndefinedFunction Code = 4002
	MacRecursionExceeded Code = 4003
	MacCallbackFailed    Code = 4004
	MacImportFailed      Code = 4005
	MacAborted           Code = 4006
	MacBadDefinition     Code = 4007
	MacUser              Code = 4008
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexUnterminatedChar:         "Unterminated char literal",
	LexBadEscape:                "Invalid escape sequence",
	LexUnterminatedMacro:        "Unterminated macro block",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynExpectRParen:             "Expected ')'",
	SynExpectRBracket:           "Expected ']'",
	SynExpectRBrace:             "Expected '}'",
	SynExpectLBrace:             "Expected '{'",
	SynExpectColon:              "Expected ':'",
	SynExpectBody:               "Expected block or '=>' statement",
	SynForBadInit:               "Invalid for-loop initializer",
	SynForBadHeader:             "Invalid for-loop header",
	SynNotConstant:              "Expression is not constant",
	SynBadConstExpr:             "Malformed constant expression",
	SynEnumExpectBody:           "Expected enum body",
	SynScopeBadDeps:             "Invalid scope dependency list",
	SynSwitchBadCase:            "Invalid switch case",
	SynUnexpectedTopLevel:       "Unexpected token at top level",
	SynExpectAssign:             "Expected '='",
	SynForeachBadHeader:         "Invalid foreach header",
	SynDuplicateDefault:         "Duplicate default case",
	SynFastErrorAbort:           "Parsing aborted after first error",
	SemaUnknownFunction:         "Unknown function",
	SemaTooManyArguments:        "Too many arguments",
	SemaTooFewArguments:         "Too few arguments",
	SemaTypeInference:           "Type inference failed",
	SemaMissingReturn:           "Missing return in function",
	SemaReturnTypeMismatch:      "Return type mismatch",
	SemaUnknownType:             "Unknown type",
	SemaUnknownIdentifier:       "Unknown identifier",
	SemaDuplicateDefinition:     "Duplicate definition",
	SemaUnknownSize:             "Type has unknown size",
	SemaNotIterable:             "Value is not iterable",
	SemaBreakOutsideLoop:        "Break or continue outside a loop",
	SemaUnsupported:             "Construct is not supported",
	SemaFastErrorAbort:          "Lowering aborted after first error",
	MacScriptError:              "Macro script error",
	MacUndefinedFunction:        "Undefined macro function",
	MacRecursionExceeded:        "Macro recursion limit exceeded",
	MacCallbackFailed:           "Deferred token callback failed",
	MacImportFailed:             "Macro import failed",
	MacAborted:                  "Macro expansion aborted",
	MacBadDefinition:            "Malformed macro function definition",
	MacUser:                     "Macro message",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MAC%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
