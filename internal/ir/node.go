package ir

import (
	"fmt"

	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// NodeID is a handle into a module's node arena. 0 means "none".
type NodeID uint32

// NoNodeID marks an absent child.
const NoNodeID NodeID = 0

// IsValid reports whether id refers to a node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind enumerates IR value nodes.
type NodeKind uint8

const (
	NodeBinExpr NodeKind = iota
	NodeUnExpr
	NodeInt
	NodeFloat
	NodeString
	NodeList
	NodeCall
	NodeSeq
	NodeIndex
	NodeIdent
	NodeExtern
	NodeLocal
	NodeRet
	NodeBrk
	NodeCont
	NodeIf
	NodeWhile
	NodeFor
	NodeSwitch
	NodeCase
	NodeFn
	NodeAsm
	NodeTmp
)

var nodeKindNames = [...]string{
	NodeBinExpr: "BinExpr",
	NodeUnExpr:  "UnExpr",
	NodeInt:     "Int",
	NodeFloat:   "Float",
	NodeString:  "String",
	NodeList:    "List",
	NodeCall:    "Call",
	NodeSeq:     "Seq",
	NodeIndex:   "Index",
	NodeIdent:   "Ident",
	NodeExtern:  "Extern",
	NodeLocal:   "Local",
	NodeRet:     "Ret",
	NodeBrk:     "Brk",
	NodeCont:    "Cont",
	NodeIf:      "If",
	NodeWhile:   "While",
	NodeFor:     "For",
	NodeSwitch:  "Switch",
	NodeCase:    "Case",
	NodeFn:      "Fn",
	NodeAsm:     "Asm",
	NodeTmp:     "Tmp",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// Node is one IR value node.
type Node struct {
	Kind NodeKind
	Span source.Span
	Data NodeData
}

// NodeData is the kind-specific payload of a Node.
type NodeData interface {
	nodeData()
}

// BinExprData holds BinExpr. Assignments are BinExpr with an assignment operator.
type BinExprData struct {
	Op    token.Kind
	Left  NodeID
	Right NodeID
}

// UnExprData holds UnExpr. Op is token.KwAs for casts, with Type as the target.
type UnExprData struct {
	Op      token.Kind
	Operand NodeID
	Postfix bool
	Type    TypeID
}

// LitData holds Int, Float and String. Type is NoTypeID for untyped literals.
type LitData struct {
	Text string
	Type TypeID
}

// ListData holds List.
type ListData struct {
	Elems []NodeID
}

// CallData holds Call. Target is the resolved Fn node when the callee names one.
type CallData struct {
	Callee NodeID
	Target NodeID
	Args   []NodeID
}

// SeqData holds Seq.
type SeqData struct {
	Items []NodeID
}

// IndexData holds Index. Member access p.x is Index with a String key.
type IndexData struct {
	Base  NodeID
	Index NodeID
}

// IdentData holds Ident. Target is the declaration it resolves to.
type IdentData struct {
	Name   string
	Target NodeID
}

// ExternData holds Extern: a declaration whose definition lives elsewhere.
type ExternData struct {
	Name  string
	ABI   string
	Value NodeID
}

// LocalKind mirrors let/var/const.
type LocalKind uint8

const (
	LocalLet LocalKind = iota
	LocalVar
	LocalConst
	LocalParam
)

func (k LocalKind) String() string {
	switch k {
	case LocalVar:
		return "var"
	case LocalConst:
		return "const"
	case LocalParam:
		return "param"
	default:
		return "let"
	}
}

// LocalData holds Local. Type is NoTypeID when it must be inferred from Init.
type LocalData struct {
	Name   string
	Kind   LocalKind
	Type   TypeID
	Init   NodeID
	Global bool
}

// RetData holds Ret. Value is NoNodeID for a bare return.
type RetData struct {
	Value NodeID
}

// IfData holds If, also used for ternaries.
type IfData struct {
	Cond NodeID
	Then NodeID
	Else NodeID
}

// WhileData holds While.
type WhileData struct {
	Cond NodeID
	Body NodeID
}

// ForData holds For.
type ForData struct {
	Init NodeID
	Cond NodeID
	Step NodeID
	Body NodeID
}

// SwitchData holds Switch.
type SwitchData struct {
	Cond    NodeID
	Cases   []NodeID
	Default NodeID
}

// CaseData holds Case.
type CaseData struct {
	Match NodeID
	Body  NodeID
}

// FnData holds Fn. Params are Local nodes of kind LocalParam.
type FnData struct {
	Name     string
	Params   []NodeID
	Ret      TypeID
	Type     TypeID
	Body     NodeID
	Variadic bool
}

// IsDecl reports whether the function has no body.
func (f *FnData) IsDecl() bool { return !f.Body.IsValid() }

// AsmData holds Asm.
type AsmData struct {
	Code string
}

// TmpData holds Tmp: a construct kept for a later pass (foreach, undef, unresolved names).
type TmpData struct {
	What string
	Args []NodeID
}

func (*BinExprData) nodeData() {}
func (*UnExprData) nodeData()  {}
func (*LitData) nodeData()     {}
func (*ListData) nodeData()    {}
func (*CallData) nodeData()    {}
func (*SeqData) nodeData()     {}
func (*IndexData) nodeData()   {}
func (*IdentData) nodeData()   {}
func (*ExternData) nodeData()  {}
func (*LocalData) nodeData()   {}
func (*RetData) nodeData()     {}
func (*IfData) nodeData()      {}
func (*WhileData) nodeData()   {}
func (*ForData) nodeData()     {}
func (*SwitchData) nodeData()  {}
func (*CaseData) nodeData()    {}
func (*FnData) nodeData()      {}
func (*AsmData) nodeData()     {}
func (*TmpData) nodeData()     {}

// Children returns the child handles of n in payload order, skipping absent ones.
func (n *Node) Children() []NodeID {
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, id := range ids {
			if id.IsValid() {
				out = append(out, id)
			}
		}
	}
	switch d := n.Data.(type) {
	case *BinExprData:
		add(d.Left, d.Right)
	case *UnExprData:
		add(d.Operand)
	case *LitData, *AsmData, nil:
	case *ListData:
		add(d.Elems...)
	case *CallData:
		add(d.Callee)
		add(d.Args...)
	case *SeqData:
		add(d.Items...)
	case *IndexData:
		add(d.Base, d.Index)
	case *IdentData:
		// Target is a back-reference, not a child
	case *ExternData:
		add(d.Value)
	case *LocalData:
		add(d.Init)
	case *RetData:
		add(d.Value)
	case *IfData:
		add(d.Cond, d.Then, d.Else)
	case *WhileData:
		add(d.Cond, d.Body)
	case *ForData:
		add(d.Init, d.Cond, d.Step, d.Body)
	case *SwitchData:
		add(d.Cond)
		add(d.Cases...)
		add(d.Default)
	case *CaseData:
		add(d.Match, d.Body)
	case *FnData:
		add(d.Params...)
		add(d.Body)
	case *TmpData:
		add(d.Args...)
	default:
		panic(fmt.Sprintf("ir: Children: unhandled payload %T", n.Data))
	}
	return out
}
