package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprMock stands in for an expression that failed to parse.
	ExprMock ExprKind = iota
	ExprInt
	ExprFloat
	ExprString
	ExprChar
	ExprBool
	ExprNull
	ExprUndef
	ExprIdent
	ExprBinary
	ExprUnary
	ExprPostfix
	ExprTernary
	ExprCall
	ExprIndex
	ExprMember
	ExprList
	ExprCast
	ExprAssign
)

var exprKindNames = [...]string{
	ExprMock:    "MockExpr",
	ExprInt:     "Int",
	ExprFloat:   "Float",
	ExprString:  "String",
	ExprChar:    "Char",
	ExprBool:    "Bool",
	ExprNull:    "Null",
	ExprUndef:   "Undef",
	ExprIdent:   "Ident",
	ExprBinary:  "Binary",
	ExprUnary:   "Unary",
	ExprPostfix: "Postfix",
	ExprTernary: "Ternary",
	ExprCall:    "Call",
	ExprIndex:   "Index",
	ExprMember:  "Member",
	ExprList:    "List",
	ExprCast:    "Cast",
	ExprAssign:  "Assign",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr?"
}

// IsLiteral reports whether the kind carries an ExprLitData payload.
func (k ExprKind) IsLiteral() bool {
	switch k {
	case ExprInt, ExprFloat, ExprString, ExprChar, ExprBool:
		return true
	default:
		return false
	}
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	Ext     ExtID
}

// ExprLitData keeps the literal value: decoded text for strings and chars,
// source spelling for numbers, "true"/"false" for booleans.
type ExprLitData struct {
	Value source.StringID
}

type ExprIdentData struct {
	Name source.StringID
}

// ExprBinaryData is shared by Binary and Assign; Op is the operator token.
type ExprBinaryData struct {
	Op    token.Kind
	Left  ExprID
	Right ExprID
}

// ExprUnaryData is shared by prefix and postfix operators.
type ExprUnaryData struct {
	Op      token.Kind
	Operand ExprID
}

type ExprTernaryData struct {
	Cond ExprID
	Then ExprID
	Else ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprIndexData struct {
	Base  ExprID
	Index ExprID
}

type ExprMemberData struct {
	Base  ExprID
	Field source.StringID
}

type ExprListData struct {
	Elems []ExprID
}

type ExprCastData struct {
	Value ExprID
	Type  TypeID
}
