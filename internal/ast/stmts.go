package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/arena"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena    *arena.Typed[Stmt]
	Blocks   *arena.Typed[StmtBlockData]
	Exprs    *arena.Typed[StmtExprData]
	Vars     *arena.Typed[StmtVarData]
	Fns      *arena.Typed[StmtFnData]
	Structs  *arena.Typed[StmtStructData]
	Enums    *arena.Typed[StmtEnumData]
	Typedefs *arena.Typed[StmtTypedefData]
	Scopes   *arena.Typed[StmtScopeData]
	Imports  *arena.Typed[StmtImportData]
	Ifs      *arena.Typed[StmtIfData]
	Whiles   *arena.Typed[StmtWhileData]
	Fors     *arena.Typed[StmtForData]
	Foreachs *arena.Typed[StmtForeachData]
	Switches *arena.Typed[StmtSwitchData]
	Returns  *arena.Typed[StmtReturnData]
	Asms     *arena.Typed[StmtAsmData]
}

func NewStmts() *Stmts {
	return &Stmts{
		Arena:    arena.NewTyped[Stmt](),
		Blocks:   arena.NewTyped[StmtBlockData](),
		Exprs:    arena.NewTyped[StmtExprData](),
		Vars:     arena.NewTyped[StmtVarData](),
		Fns:      arena.NewTyped[StmtFnData](),
		Structs:  arena.NewTyped[StmtStructData](),
		Enums:    arena.NewTyped[StmtEnumData](),
		Typedefs: arena.NewTyped[StmtTypedefData](),
		Scopes:   arena.NewTyped[StmtScopeData](),
		Imports:  arena.NewTyped[StmtImportData](),
		Ifs:      arena.NewTyped[StmtIfData](),
		Whiles:   arena.NewTyped[StmtWhileData](),
		Fors:     arena.NewTyped[StmtForData](),
		Foreachs: arena.NewTyped[StmtForeachData](),
		Switches: arena.NewTyped[StmtSwitchData](),
		Returns:  arena.NewTyped[StmtReturnData](),
		Asms:     arena.NewTyped[StmtAsmData](),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func stmtPayload[T any](s *Stmts, a *arena.Typed[T], id StmtID, kinds ...StmtKind) (*T, bool) {
	st := s.Get(id)
	if st == nil {
		return nil, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return a.Get(uint32(st.Payload)), true
		}
	}
	return nil, false
}

func (s *Stmts) NewMock(span source.Span) StmtID { return s.new(StmtMock, span, 0) }

func (s *Stmts) NewBlock(span source.Span, safety Safety, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Safety: safety, Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	return stmtPayload(s, s.Blocks, id, StmtBlock)
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) (*StmtExprData, bool) {
	return stmtPayload(s, s.Exprs, id, StmtExpr)
}

func (s *Stmts) NewVar(span source.Span, data StmtVarData) StmtID {
	return s.new(StmtVar, span, s.Vars.Allocate(data))
}

func (s *Stmts) Var(id StmtID) (*StmtVarData, bool) {
	return stmtPayload(s, s.Vars, id, StmtVar)
}

func (s *Stmts) NewFn(span source.Span, data StmtFnData) StmtID {
	return s.new(StmtFn, span, s.Fns.Allocate(data))
}

func (s *Stmts) Fn(id StmtID) (*StmtFnData, bool) {
	return stmtPayload(s, s.Fns, id, StmtFn)
}

func (s *Stmts) NewStruct(span source.Span, data StmtStructData) StmtID {
	return s.new(StmtStruct, span, s.Structs.Allocate(data))
}

func (s *Stmts) Struct(id StmtID) (*StmtStructData, bool) {
	return stmtPayload(s, s.Structs, id, StmtStruct)
}

func (s *Stmts) NewEnum(span source.Span, data StmtEnumData) StmtID {
	return s.new(StmtEnum, span, s.Enums.Allocate(data))
}

func (s *Stmts) Enum(id StmtID) (*StmtEnumData, bool) {
	return stmtPayload(s, s.Enums, id, StmtEnum)
}

func (s *Stmts) NewTypedef(span source.Span, data StmtTypedefData) StmtID {
	return s.new(StmtTypedef, span, s.Typedefs.Allocate(data))
}

func (s *Stmts) Typedef(id StmtID) (*StmtTypedefData, bool) {
	return stmtPayload(s, s.Typedefs, id, StmtTypedef)
}

func (s *Stmts) NewScope(span source.Span, data StmtScopeData) StmtID {
	return s.new(StmtScope, span, s.Scopes.Allocate(data))
}

func (s *Stmts) Scope(id StmtID) (*StmtScopeData, bool) {
	return stmtPayload(s, s.Scopes, id, StmtScope)
}

func (s *Stmts) NewImport(span source.Span, name source.StringID) StmtID {
	return s.new(StmtImport, span, s.Imports.Allocate(StmtImportData{Name: name}))
}

func (s *Stmts) Import(id StmtID) (*StmtImportData, bool) {
	return stmtPayload(s, s.Imports, id, StmtImport)
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	return stmtPayload(s, s.Ifs, id, StmtIf)
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body}))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	return stmtPayload(s, s.Whiles, id, StmtWhile)
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data))
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	return stmtPayload(s, s.Fors, id, StmtFor)
}

func (s *Stmts) NewForeach(span source.Span, data StmtForeachData) StmtID {
	return s.new(StmtForeach, span, s.Foreachs.Allocate(data))
}

func (s *Stmts) Foreach(id StmtID) (*StmtForeachData, bool) {
	return stmtPayload(s, s.Foreachs, id, StmtForeach)
}

func (s *Stmts) NewSwitch(span source.Span, data StmtSwitchData) StmtID {
	return s.new(StmtSwitch, span, s.Switches.Allocate(data))
}

func (s *Stmts) Switch(id StmtID) (*StmtSwitchData, bool) {
	return stmtPayload(s, s.Switches, id, StmtSwitch)
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}))
}

func (s *Stmts) NewRetif(span source.Span, cond, value ExprID) StmtID {
	return s.new(StmtRetif, span, s.Returns.Allocate(StmtReturnData{Cond: cond, Value: value}))
}

// Return returns the payload of return and retif statements.
func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	return stmtPayload(s, s.Returns, id, StmtReturn, StmtRetif)
}

func (s *Stmts) NewBreak(span source.Span) StmtID    { return s.new(StmtBreak, span, 0) }
func (s *Stmts) NewContinue(span source.Span) StmtID { return s.new(StmtContinue, span, 0) }

func (s *Stmts) NewAsm(span source.Span, code source.StringID) StmtID {
	return s.new(StmtAsm, span, s.Asms.Allocate(StmtAsmData{Code: code}))
}

func (s *Stmts) Asm(id StmtID) (*StmtAsmData, bool) {
	return stmtPayload(s, s.Asms, id, StmtAsm)
}
