package ir

import (
	"bytes"

	"github.com/cespare/xxhash/v2"

	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Encoder writes IR nodes with the same framing as the AST:
// [kind, payload..., startLine, startCol, endLine, endCol], positions optional.
type Encoder struct {
	m         *Module
	fs        *source.FileSet
	v         serial.Visitor
	positions bool
}

// NewEncoder creates an encoder. Positions are resolved through the module's
// diagnostics file set and are zero when it has none.
func NewEncoder(v serial.Visitor, m *Module, positions bool) *Encoder {
	return &Encoder{m: m, fs: m.Diag.FileSet(), v: v, positions: positions}
}

// Serialize writes the module as
// {"name": ..., "types": [[name, type], ...], "constants": [[name, node], ...], "root": node}.
func Serialize(v serial.Visitor, m *Module) {
	NewEncoder(v, m, true).Module()
}

// Module writes the whole module.
func (e *Encoder) Module() {
	m := e.m
	e.v.BeginObj(4)
	e.v.Str("name")
	e.v.Str(m.Name())

	e.v.Str("types")
	names := sortedKeys(m.TypeDefs)
	e.v.BeginArr(len(names))
	for _, name := range names {
		e.v.BeginArr(2)
		e.v.Str(name)
		e.typeDef(m.TypeDefs[name])
		e.v.EndArr()
	}
	e.v.EndArr()

	e.v.Str("constants")
	consts := sortedKeys(m.Constants)
	e.v.BeginArr(len(consts))
	for _, name := range consts {
		e.v.BeginArr(2)
		e.v.Str(name)
		e.Node(m.Constants[name])
		e.v.EndArr()
	}
	e.v.EndArr()

	e.v.Str("root")
	e.Node(m.Root)
	e.v.EndObj()
}

// typeDef expands the fields of a named struct or union one level.
func (e *Encoder) typeDef(id TypeID) {
	t, ok := e.m.Types.Lookup(id)
	if !ok || (t.Kind != TypeStruct && t.Kind != TypeUnion) {
		e.Type(id)
		return
	}
	fields := e.m.Fields[id]
	e.v.BeginArr(2)
	e.v.Str(t.Kind.String())
	e.v.BeginArr(len(fields))
	for _, f := range fields {
		e.v.BeginArr(2)
		e.v.Str(f.Name)
		e.Type(f.Type)
		e.v.EndArr()
	}
	e.v.EndArr()
	e.v.EndArr()
}

// Type writes a type: primitives as their name, structural types as arrays.
// Named structs and unions are written by reference to keep recursive types finite.
func (e *Encoder) Type(id TypeID) {
	t, ok := e.m.Types.Lookup(id)
	if !ok {
		e.v.Null()
		return
	}
	switch t.Kind {
	case TypePtr, TypeConst:
		e.v.BeginArr(2)
		e.v.Str(t.Kind.String())
		e.Type(t.Elem)
		e.v.EndArr()
	case TypeArray:
		e.v.BeginArr(3)
		e.v.Str(t.Kind.String())
		e.Type(t.Elem)
		e.v.Uint(t.Count)
		e.v.EndArr()
	case TypeOpaque, TypeTmp:
		e.v.BeginArr(2)
		e.v.Str(t.Kind.String())
		e.v.Str(t.Name)
		e.v.EndArr()
	case TypeStruct, TypeUnion:
		if t.Name != "" {
			e.v.BeginArr(2)
			e.v.Str(t.Kind.String())
			e.v.Str(t.Name)
			e.v.EndArr()
			return
		}
		e.v.BeginArr(2)
		e.v.Str(t.Kind.String())
		e.types(t.Fields)
		e.v.EndArr()
	case TypeFn:
		e.v.BeginArr(4)
		e.v.Str(t.Kind.String())
		e.types(t.Params)
		e.Type(t.Ret)
		e.v.Bool(t.Variadic)
		e.v.EndArr()
	default:
		e.v.Str(t.Kind.String())
	}
}

func (e *Encoder) types(ids []TypeID) {
	e.v.BeginArr(len(ids))
	for _, id := range ids {
		e.Type(id)
	}
	e.v.EndArr()
}

func (e *Encoder) nodes(ids []NodeID) {
	e.v.BeginArr(len(ids))
	for _, id := range ids {
		e.Node(id)
	}
	e.v.EndArr()
}

func (e *Encoder) begin(kind NodeKind, n int) {
	if e.positions {
		n += 4
	}
	e.v.BeginArr(n + 1)
	e.v.Str(kind.String())
}

func (e *Encoder) end(span source.Span) {
	if e.positions {
		var start, end source.LineCol
		if e.fs != nil {
			start, end = e.fs.Resolve(span)
		}
		e.v.Uint(uint64(start.Line))
		e.v.Uint(uint64(start.Col))
		e.v.Uint(uint64(end.Line))
		e.v.Uint(uint64(end.Col))
	}
	e.v.EndArr()
}

func (e *Encoder) optType(id TypeID) {
	if id == NoTypeID {
		e.v.Null()
		return
	}
	e.Type(id)
}

// Node writes a node; NoNodeID is written as null.
func (e *Encoder) Node(id NodeID) {
	n := e.m.Node(id)
	if n == nil {
		e.v.Null()
		return
	}
	switch d := n.Data.(type) {
	case *BinExprData:
		e.begin(n.Kind, 3)
		e.v.Str(d.Op.String())
		e.Node(d.Left)
		e.Node(d.Right)
	case *UnExprData:
		e.begin(n.Kind, 4)
		e.v.Str(d.Op.String())
		e.Node(d.Operand)
		e.v.Bool(d.Postfix)
		e.optType(d.Type)
	case *LitData:
		e.begin(n.Kind, 2)
		e.v.Str(d.Text)
		e.optType(d.Type)
	case *ListData:
		e.begin(n.Kind, 1)
		e.nodes(d.Elems)
	case *CallData:
		e.begin(n.Kind, 2)
		e.Node(d.Callee)
		e.nodes(d.Args)
	case *SeqData:
		e.begin(n.Kind, 1)
		e.nodes(d.Items)
	case *IndexData:
		e.begin(n.Kind, 2)
		e.Node(d.Base)
		e.Node(d.Index)
	case *IdentData:
		e.begin(n.Kind, 1)
		e.v.Str(d.Name)
	case *ExternData:
		e.begin(n.Kind, 3)
		e.v.Str(d.Name)
		e.v.Str(d.ABI)
		e.Node(d.Value)
	case *LocalData:
		e.begin(n.Kind, 5)
		e.v.Str(d.Name)
		e.v.Str(d.Kind.String())
		e.optType(d.Type)
		e.Node(d.Init)
		e.v.Bool(d.Global)
	case *RetData:
		e.begin(n.Kind, 1)
		e.Node(d.Value)
	case nil:
		e.begin(n.Kind, 0)
	case *IfData:
		e.begin(n.Kind, 3)
		e.Node(d.Cond)
		e.Node(d.Then)
		e.Node(d.Else)
	case *WhileData:
		e.begin(n.Kind, 2)
		e.Node(d.Cond)
		e.Node(d.Body)
	case *ForData:
		e.begin(n.Kind, 4)
		e.Node(d.Init)
		e.Node(d.Cond)
		e.Node(d.Step)
		e.Node(d.Body)
	case *SwitchData:
		e.begin(n.Kind, 3)
		e.Node(d.Cond)
		e.nodes(d.Cases)
		e.Node(d.Default)
	case *CaseData:
		e.begin(n.Kind, 2)
		e.Node(d.Match)
		e.Node(d.Body)
	case *FnData:
		e.begin(n.Kind, 4)
		e.v.Str(d.Name)
		e.nodes(d.Params)
		e.Type(d.Ret)
		e.Node(d.Body)
	case *AsmData:
		e.begin(n.Kind, 1)
		e.v.Str(d.Code)
	case *TmpData:
		e.begin(n.Kind, 2)
		e.v.Str(d.What)
		e.nodes(d.Args)
	default:
		panic("ir: Encoder: unhandled payload for " + n.Kind.String())
	}
	e.end(n.Span)
}

func (m *Module) structural(id NodeID) []byte {
	w := serial.NewMsgPackWriter()
	NewEncoder(w, m, false).Node(id)
	return w.Bytes()
}

// NodeHash hashes the position-free encoding of id; it agrees with NodeEqual.
func (m *Module) NodeHash(id NodeID) uint64 {
	return xxhash.Sum64(m.structural(id))
}

// NodeEqual compares two nodes structurally, possibly across modules.
func NodeEqual(a *Module, x NodeID, b *Module, y NodeID) bool {
	if a == b && x == y {
		return true
	}
	return bytes.Equal(a.structural(x), b.structural(y))
}
