package ir

import (
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// Default types of untyped literals.
var (
	DefaultIntType   = Prim(TypeI32)
	DefaultFloatType = Prim(TypeF64)
)

// InferType deduces the type of a value node. It reports false when the
// type cannot be determined without further analysis.
func InferType(m *Module, id NodeID) (TypeID, bool) {
	return inferType(m, id, 0)
}

// UntypedLiteral reports whether id is an Int or Float literal without an
// explicit type, and which kind it is.
func UntypedLiteral(m *Module, id NodeID) (NodeKind, bool) {
	n := m.Node(id)
	if n == nil || (n.Kind != NodeInt && n.Kind != NodeFloat) {
		return 0, false
	}
	lit, ok := n.Data.(*LitData)
	if !ok || lit.Type != NoTypeID {
		return 0, false
	}
	return n.Kind, true
}

// literalFits reports whether an untyped literal of kind lk adopts type t.
func literalFits(m *Module, lk NodeKind, t TypeID) bool {
	k := m.Types.Kind(t)
	if lk == NodeInt {
		return k.IsInteger()
	}
	return k.IsFloat()
}

func inferType(m *Module, id NodeID, depth int) (TypeID, bool) {
	n := m.Node(id)
	if n == nil || depth > 128 {
		return NoTypeID, false
	}
	switch d := n.Data.(type) {
	case *LitData:
		if d.Type != NoTypeID {
			return d.Type, true
		}
		switch n.Kind {
		case NodeInt:
			return DefaultIntType, true
		case NodeFloat:
			return DefaultFloatType, true
		default:
			return m.ptrTo(Prim(TypeU8)), true
		}
	case *IdentData:
		if !d.Target.IsValid() {
			return NoTypeID, false
		}
		return inferType(m, d.Target, depth+1)
	case *LocalData:
		if d.Type != NoTypeID {
			return d.Type, true
		}
		return inferType(m, d.Init, depth+1)
	case *FnData:
		return d.Type, true
	case *ExternData:
		return inferType(m, d.Value, depth+1)
	case *BinExprData:
		return inferBinary(m, d, depth)
	case *UnExprData:
		return inferUnary(m, d, depth)
	case *CallData:
		if fd, ok := m.Fn(d.Target); ok {
			return fd.Ret, true
		}
		ct, ok := inferType(m, d.Callee, depth+1)
		if !ok {
			return NoTypeID, false
		}
		if t := m.Types.MustLookup(ct); t.Kind == TypeFn {
			return t.Ret, true
		}
		return NoTypeID, false
	case *IndexData:
		return inferIndex(m, d, depth)
	case *ListData:
		if len(d.Elems) == 0 {
			return NoTypeID, false
		}
		elem, ok := inferType(m, d.Elems[0], depth+1)
		if !ok {
			return NoTypeID, false
		}
		return m.arrayOf(elem, uint64(len(d.Elems))), true
	case *IfData:
		if n.Kind == NodeIf && d.Then.IsValid() {
			if then := m.Node(d.Then); then != nil && isValueKind(then.Kind) {
				return inferType(m, d.Then, depth+1)
			}
		}
		return Prim(TypeVoid), true
	case *SeqData:
		if len(d.Items) == 0 {
			return Prim(TypeVoid), true
		}
		return inferType(m, d.Items[len(d.Items)-1], depth+1)
	case *TmpData:
		return NoTypeID, false
	default:
		// statements
		return Prim(TypeVoid), true
	}
}

func isValueKind(k NodeKind) bool {
	switch k {
	case NodeBinExpr, NodeUnExpr, NodeInt, NodeFloat, NodeString, NodeList, NodeCall, NodeIndex, NodeIdent, NodeIf:
		return true
	}
	return false
}

func inferBinary(m *Module, d *BinExprData, depth int) (TypeID, bool) {
	switch d.Op {
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr, token.CaretCaret:
		return Prim(TypeU1), true
	case token.Assign, token.PlusAssign, token.MinusAssign, token.StarAssign, token.SlashAssign,
		token.PercentAssign, token.AmpAssign, token.PipeAssign, token.CaretAssign, token.ShlAssign, token.ShrAssign:
		return inferType(m, d.Left, depth+1)
	case token.DotDot:
		return NoTypeID, false
	}
	lt, ok := inferType(m, d.Left, depth+1)
	if !ok {
		return NoTypeID, false
	}
	if d.Op == token.Shl || d.Op == token.Shr {
		return lt, true
	}
	rt, ok := inferType(m, d.Right, depth+1)
	if !ok {
		return NoTypeID, false
	}
	if m.Types.IsSame(lt, rt) {
		return lt, true
	}
	if lk, untyped := UntypedLiteral(m, d.Left); untyped && literalFits(m, lk, rt) {
		return rt, true
	}
	if rk, untyped := UntypedLiteral(m, d.Right); untyped && literalFits(m, rk, lt) {
		return lt, true
	}
	// pointer arithmetic
	if m.Types.Kind(lt) == TypePtr && m.Types.Kind(rt).IsInteger() && (d.Op == token.Plus || d.Op == token.Minus) {
		return lt, true
	}
	return NoTypeID, false
}

func inferUnary(m *Module, d *UnExprData, depth int) (TypeID, bool) {
	switch d.Op {
	case token.KwAs:
		return d.Type, d.Type != NoTypeID
	case token.Bang:
		return Prim(TypeU1), true
	}
	ot, ok := inferType(m, d.Operand, depth+1)
	if !ok {
		return NoTypeID, false
	}
	switch d.Op {
	case token.Amp:
		return m.ptrTo(ot), true
	case token.Star:
		t := m.Types.MustLookup(ot)
		if t.Kind != TypePtr {
			return NoTypeID, false
		}
		return t.Elem, true
	default:
		return ot, true
	}
}

func inferIndex(m *Module, d *IndexData, depth int) (TypeID, bool) {
	bt, ok := inferType(m, d.Base, depth+1)
	if !ok {
		return NoTypeID, false
	}
	t := m.Types.MustLookup(bt)
	for t.Kind == TypeConst || (t.Kind == TypePtr && isMemberKey(m, d.Index)) {
		bt = t.Elem
		t = m.Types.MustLookup(bt)
	}
	switch t.Kind {
	case TypeArray, TypePtr:
		return t.Elem, true
	case TypeStruct, TypeUnion:
		key := m.Node(d.Index)
		lit, isLit := key.Data.(*LitData)
		if key.Kind != NodeString || !isLit {
			return NoTypeID, false
		}
		for _, f := range m.Fields[bt] {
			if f.Name == lit.Text {
				return f.Type, true
			}
		}
	}
	return NoTypeID, false
}

func isMemberKey(m *Module, id NodeID) bool {
	n := m.Node(id)
	return n != nil && n.Kind == NodeString
}

// ptrTo returns a pointer type to elem, reusing one made earlier by inference.
func (m *Module) ptrTo(elem TypeID) TypeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ptrCache == nil {
		m.ptrCache = make(map[TypeID]TypeID)
	}
	if id, ok := m.ptrCache[elem]; ok {
		return id
	}
	id := m.Types.Add(MakePtr(elem))
	m.ptrCache[elem] = id
	return id
}

type arrayKey struct {
	elem  TypeID
	count uint64
}

// arrayOf returns [elem; count], reusing one made earlier by inference.
func (m *Module) arrayOf(elem TypeID, count uint64) TypeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.arrayCache == nil {
		m.arrayCache = make(map[arrayKey]TypeID)
	}
	key := arrayKey{elem, count}
	if id, ok := m.arrayCache[key]; ok {
		return id
	}
	id := m.Types.Add(MakeArray(elem, count))
	m.arrayCache[key] = id
	return id
}
