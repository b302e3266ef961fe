package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/arena"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *arena.Typed[Expr]
	Literals  *arena.Typed[ExprLitData]
	Idents    *arena.Typed[ExprIdentData]
	Binaries  *arena.Typed[ExprBinaryData]
	Unaries   *arena.Typed[ExprUnaryData]
	Ternaries *arena.Typed[ExprTernaryData]
	Calls     *arena.Typed[ExprCallData]
	Indices   *arena.Typed[ExprIndexData]
	Members   *arena.Typed[ExprMemberData]
	Lists     *arena.Typed[ExprListData]
	Casts     *arena.Typed[ExprCastData]
}

func NewExprs() *Exprs {
	return &Exprs{
		Arena:     arena.NewTyped[Expr](),
		Literals:  arena.NewTyped[ExprLitData](),
		Idents:    arena.NewTyped[ExprIdentData](),
		Binaries:  arena.NewTyped[ExprBinaryData](),
		Unaries:   arena.NewTyped[ExprUnaryData](),
		Ternaries: arena.NewTyped[ExprTernaryData](),
		Calls:     arena.NewTyped[ExprCallData](),
		Indices:   arena.NewTyped[ExprIndexData](),
		Members:   arena.NewTyped[ExprMemberData](),
		Lists:     arena.NewTyped[ExprListData](),
		Casts:     arena.NewTyped[ExprCastData](),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

// NewMock creates a placeholder for an expression that failed to parse.
func (e *Exprs) NewMock(span source.Span) ExprID {
	return e.new(ExprMock, span, 0)
}

// NewLiteral creates an Int, Float, String, Char or Bool literal.
func (e *Exprs) NewLiteral(kind ExprKind, span source.Span, value source.StringID) ExprID {
	if !kind.IsLiteral() {
		panic("ast: NewLiteral with non-literal kind " + kind.String())
	}
	return e.new(kind, span, e.Literals.Allocate(ExprLitData{Value: value}))
}

func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	p, ok := e.payload(id, ExprInt, ExprFloat, ExprString, ExprChar, ExprBool)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

// NewNull creates `null`; NewUndef creates `undef`.
func (e *Exprs) NewNull(span source.Span) ExprID  { return e.new(ExprNull, span, 0) }
func (e *Exprs) NewUndef(span source.Span) ExprID { return e.new(ExprUndef, span, 0) }

func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op token.Kind, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

// NewAssign creates `target op value` for = and the compound assignments.
func (e *Exprs) NewAssign(span source.Span, op token.Kind, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: target, Right: value}))
}

// Binary returns the payload of Binary and Assign expressions.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewUnary(span source.Span, op token.Kind, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

func (e *Exprs) NewPostfix(span source.Span, op token.Kind, operand ExprID) ExprID {
	return e.new(ExprPostfix, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

// Unary returns the payload of prefix and postfix expressions.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary, ExprPostfix)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewTernary(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprTernary, span, e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	p, ok := e.payload(id, ExprTernary)
	if !ok {
		return nil, false
	}
	return e.Ternaries.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, base, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Base: base, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

func (e *Exprs) NewMember(span source.Span, base ExprID, field source.StringID) ExprID {
	return e.new(ExprMember, span, e.Members.Allocate(ExprMemberData{Base: base, Field: field}))
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	p, ok := e.payload(id, ExprMember)
	if !ok {
		return nil, false
	}
	return e.Members.Get(p), true
}

func (e *Exprs) NewList(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprList, span, e.Lists.Allocate(ExprListData{Elems: elems}))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprList)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

func (e *Exprs) NewCast(span source.Span, value ExprID, typ TypeID) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(ExprCastData{Value: value, Type: typ}))
}

func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	p, ok := e.payload(id, ExprCast)
	if !ok {
		return nil, false
	}
	return e.Casts.Get(p), true
}
