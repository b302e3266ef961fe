package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

type StmtKind uint8

const (
	StmtMock StmtKind = iota
	StmtBlock
	StmtExpr
	StmtVar
	StmtFn
	StmtStruct
	StmtEnum
	StmtTypedef
	StmtScope
	StmtImport
	StmtIf
	StmtWhile
	StmtFor
	StmtForeach
	StmtSwitch
	StmtReturn
	StmtRetif
	StmtBreak
	StmtContinue
	StmtAsm
)

var stmtKindNames = [...]string{
	StmtMock:     "MockStmt",
	StmtBlock:    "Block",
	StmtExpr:     "ExprStmt",
	StmtVar:      "Var",
	StmtFn:       "Fn",
	StmtStruct:   "Struct",
	StmtEnum:     "Enum",
	StmtTypedef:  "Typedef",
	StmtScope:    "Scope",
	StmtImport:   "Import",
	StmtIf:       "If",
	StmtWhile:    "While",
	StmtFor:      "For",
	StmtForeach:  "Foreach",
	StmtSwitch:   "Switch",
	StmtReturn:   "Return",
	StmtRetif:    "Retif",
	StmtBreak:    "Break",
	StmtContinue: "Continue",
	StmtAsm:      "Asm",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt?"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
	Ext     ExtID
}

// Safety marks `safe { }` and `unsafe { }` blocks.
type Safety uint8

const (
	SafetyNone Safety = iota
	SafetySafe
	SafetyUnsafe
)

func (s Safety) String() string {
	switch s {
	case SafetySafe:
		return "safe"
	case SafetyUnsafe:
		return "unsafe"
	default:
		return "none"
	}
}

type StmtBlockData struct {
	Safety Safety
	Stmts  []StmtID
}

type StmtExprData struct {
	Expr ExprID
}

// VarKind distinguishes let, var and const.
type VarKind uint8

const (
	VarLet VarKind = iota
	VarVar
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarVar:
		return "var"
	case VarConst:
		return "const"
	default:
		return "let"
	}
}

type StmtVarData struct {
	Kind VarKind
	Vis  Visibility
	Name source.StringID
	Type TypeID // NoTypeID: inferred
	Init ExprID // NoExprID: uninitialised
}

type FnParam struct {
	Name    source.StringID
	Type    TypeID
	Default ExprID
}

type StmtFnData struct {
	Vis    Visibility
	Name   source.StringID
	Params []FnParam
	// Ret is NoTypeID when omitted, which means void.
	Ret TypeID
	// Body is NoStmtID for a declaration.
	Body StmtID
}

// IsDecl reports whether the function has no body.
func (f *StmtFnData) IsDecl() bool { return !f.Body.IsValid() }

type Field struct {
	Name    source.StringID
	Type    TypeID
	Default ExprID
}

type StmtStructData struct {
	Vis    Visibility
	Union  bool
	Name   source.StringID
	Fields []Field
}

type EnumItem struct {
	Name  source.StringID
	Value ExprID
}

type StmtEnumData struct {
	Vis   Visibility
	Name  source.StringID
	Type  TypeID // underlying type, optional
	Items []EnumItem
}

type StmtTypedefData struct {
	Vis  Visibility
	Name source.StringID
	Type TypeID
}

type StmtScopeData struct {
	Name source.StringID // NoStringID for an anonymous scope
	Deps []source.StringID
	Body StmtID
}

type StmtImportData struct {
	Name source.StringID
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

// StmtForData: every part but Body is optional.
type StmtForData struct {
	Init StmtID
	Cond ExprID
	Step ExprID
	Body StmtID
}

type StmtForeachData struct {
	Index source.StringID // optional
	Value source.StringID
	Iter  ExprID
	Body  StmtID
}

type SwitchCase struct {
	Match ExprID
	Body  StmtID
}

type StmtSwitchData struct {
	Cond    ExprID
	Cases   []SwitchCase
	Default StmtID
}

// StmtReturnData is shared by return and retif; Cond is only set for retif.
type StmtReturnData struct {
	Cond  ExprID
	Value ExprID
}

type StmtAsmData struct {
	Code source.StringID
}
