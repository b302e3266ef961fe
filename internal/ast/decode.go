package ast

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

func reverseNames[K ~uint8](names []string) map[string]K {
	m := make(map[string]K, len(names))
	for i, n := range names {
		m[n] = K(i)
	}
	return m
}

var (
	exprKindByName = reverseNames[ExprKind](exprKindNames[:])
	stmtKindByName = reverseNames[StmtKind](stmtKindNames[:])
	typeKindByName = reverseNames[TypeKind](typeKindNames[:])
)

// payload sizes, matching Encoder
var exprArity = [...]int{
	ExprMock: 0, ExprNull: 0, ExprUndef: 0,
	ExprInt: 1, ExprFloat: 1, ExprString: 1, ExprChar: 1, ExprBool: 1, ExprIdent: 1,
	ExprBinary: 3, ExprAssign: 3, ExprUnary: 2, ExprPostfix: 2, ExprTernary: 3,
	ExprCall: 2, ExprIndex: 2, ExprMember: 2, ExprList: 1, ExprCast: 2,
}

var stmtArity = [...]int{
	StmtMock: 0, StmtBreak: 0, StmtContinue: 0,
	StmtBlock: 2, StmtExpr: 1, StmtVar: 5, StmtFn: 5, StmtStruct: 4, StmtEnum: 4,
	StmtTypedef: 3, StmtScope: 3, StmtImport: 1, StmtIf: 3, StmtWhile: 2, StmtFor: 4,
	StmtForeach: 4, StmtSwitch: 3, StmtReturn: 1, StmtRetif: 2, StmtAsm: 1,
}

var typeArity = [...]int{
	TypeMock: 0, TypeVoid: 0, TypePrim: 1, TypeNamed: 1, TypePtr: 1, TypeArray: 2, TypeFn: 2,
}

// Deserialize rebuilds a statement tree written by Serialize (with or without
// positions). Positions are kept in extension records; spans are empty.
func Deserialize(b *Builder, doc serial.Value) (StmtID, error) {
	d := decoder{b: b}
	return d.stmt(doc)
}

// DeserializeExpr is Deserialize for a single expression.
func DeserializeExpr(b *Builder, doc serial.Value) (ExprID, error) {
	d := decoder{b: b}
	return d.expr(doc)
}

type decoder struct {
	b *Builder
}

func shapeErr(what, want string, got serial.Value) error {
	return &serial.ShapeError{Path: what, Want: want, Got: got}
}

// frame splits a node array into its kind, payload and optional location.
func (d *decoder) frame(v serial.Value, what string) (string, []serial.Value, error) {
	if v.Kind != serial.ArrValue || len(v.Arr) == 0 || v.Arr[0].Kind != serial.StrValue {
		return "", nil, shapeErr(what, "[kind, ...] array", v)
	}
	return v.Arr[0].S, v.Arr[1:], nil
}

func (d *decoder) payload(rest []serial.Value, n int, what string) ([]serial.Value, ExtID, error) {
	switch len(rest) {
	case n:
		return rest, NoExtID, nil
	case n + 4:
		var pos [4]uint32
		for i := range pos {
			u, ok := rest[n+i].AsUint()
			if !ok {
				return nil, NoExtID, shapeErr(what, "position", rest[n+i])
			}
			p, err := safecast.Conv[uint32](u)
			if err != nil {
				return nil, NoExtID, fmt.Errorf("ast: %s: position: %w", what, err)
			}
			pos[i] = p
		}
		ext := d.b.Exts.New(Ext{
			Start: source.LineCol{Line: pos[0], Col: pos[1]},
			End:   source.LineCol{Line: pos[2], Col: pos[3]},
		})
		return rest[:n], ext, nil
	default:
		return nil, NoExtID, fmt.Errorf("ast: %s: %d payload values, want %d", what, len(rest), n)
	}
}

func (d *decoder) str(v serial.Value, what string) (source.StringID, error) {
	if v.Kind != serial.StrValue {
		return source.NoStringID, shapeErr(what, "string", v)
	}
	return d.b.Intern(v.S), nil
}

func (d *decoder) optStr(v serial.Value, what string) (source.StringID, error) {
	if v.Kind == serial.NullValue {
		return source.NoStringID, nil
	}
	return d.str(v, what)
}

func (d *decoder) arr(v serial.Value, what string) ([]serial.Value, error) {
	if v.Kind != serial.ArrValue {
		return nil, shapeErr(what, "array", v)
	}
	return v.Arr, nil
}

func (d *decoder) tuple(v serial.Value, n int, what string) ([]serial.Value, error) {
	if v.Kind != serial.ArrValue || len(v.Arr) != n {
		return nil, shapeErr(what, fmt.Sprintf("%d-element array", n), v)
	}
	return v.Arr, nil
}

func (d *decoder) op(v serial.Value, what string) (token.Kind, error) {
	if v.Kind != serial.StrValue {
		return token.Invalid, shapeErr(what, "operator", v)
	}
	k, ok := token.LookupFixed(v.S)
	if !ok || !k.IsOperator() && !k.IsKeyword() {
		return token.Invalid, fmt.Errorf("ast: %s: unknown operator %q", what, v.S)
	}
	return k, nil
}

func (d *decoder) exprs(v serial.Value, what string) ([]ExprID, error) {
	vals, err := d.arr(v, what)
	if err != nil {
		return nil, err
	}
	out := make([]ExprID, 0, len(vals))
	for _, e := range vals {
		id, err := d.expr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) expr(v serial.Value) (ExprID, error) {
	if v.Kind == serial.NullValue {
		return NoExprID, nil
	}
	name, rest, err := d.frame(v, "expression")
	if err != nil {
		return NoExprID, err
	}
	kind, ok := exprKindByName[name]
	if !ok {
		return NoExprID, fmt.Errorf("ast: unknown expression kind %q", name)
	}
	p, ext, err := d.payload(rest, exprArity[kind], name)
	if err != nil {
		return NoExprID, err
	}
	ex := d.b.Exprs
	var id ExprID
	switch kind {
	case ExprMock:
		id = ex.NewMock(source.Span{})
	case ExprNull:
		id = ex.NewNull(source.Span{})
	case ExprUndef:
		id = ex.NewUndef(source.Span{})
	case ExprInt, ExprFloat, ExprString, ExprChar:
		s, err := d.str(p[0], name)
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewLiteral(kind, source.Span{}, s)
	case ExprBool:
		if p[0].Kind != serial.BoolValue {
			return NoExprID, shapeErr(name, "bool", p[0])
		}
		text := "false"
		if p[0].B {
			text = "true"
		}
		id = ex.NewLiteral(kind, source.Span{}, d.b.Intern(text))
	case ExprIdent:
		s, err := d.str(p[0], name)
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewIdent(source.Span{}, s)
	case ExprBinary, ExprAssign:
		op, err := d.op(p[0], name)
		if err != nil {
			return NoExprID, err
		}
		l, err := d.expr(p[1])
		if err != nil {
			return NoExprID, err
		}
		r, err := d.expr(p[2])
		if err != nil {
			return NoExprID, err
		}
		if kind == ExprAssign {
			id = ex.NewAssign(source.Span{}, op, l, r)
		} else {
			id = ex.NewBinary(source.Span{}, op, l, r)
		}
	case ExprUnary, ExprPostfix:
		op, err := d.op(p[0], name)
		if err != nil {
			return NoExprID, err
		}
		x, err := d.expr(p[1])
		if err != nil {
			return NoExprID, err
		}
		if kind == ExprPostfix {
			id = ex.NewPostfix(source.Span{}, op, x)
		} else {
			id = ex.NewUnary(source.Span{}, op, x)
		}
	case ExprTernary:
		var parts [3]ExprID
		for i := range parts {
			if parts[i], err = d.expr(p[i]); err != nil {
				return NoExprID, err
			}
		}
		id = ex.NewTernary(source.Span{}, parts[0], parts[1], parts[2])
	case ExprCall:
		callee, err := d.expr(p[0])
		if err != nil {
			return NoExprID, err
		}
		args, err := d.exprs(p[1], name)
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewCall(source.Span{}, callee, args)
	case ExprIndex:
		base, err := d.expr(p[0])
		if err != nil {
			return NoExprID, err
		}
		idx, err := d.expr(p[1])
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewIndex(source.Span{}, base, idx)
	case ExprMember:
		base, err := d.expr(p[0])
		if err != nil {
			return NoExprID, err
		}
		field, err := d.str(p[1], name)
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewMember(source.Span{}, base, field)
	case ExprList:
		elems, err := d.exprs(p[0], name)
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewList(source.Span{}, elems)
	case ExprCast:
		val, err := d.expr(p[0])
		if err != nil {
			return NoExprID, err
		}
		typ, err := d.typ(p[1])
		if err != nil {
			return NoExprID, err
		}
		id = ex.NewCast(source.Span{}, val, typ)
	}
	ex.Get(id).Ext = ext
	return id, nil
}

func (d *decoder) typ(v serial.Value) (TypeID, error) {
	if v.Kind == serial.NullValue {
		return NoTypeID, nil
	}
	name, rest, err := d.frame(v, "type")
	if err != nil {
		return NoTypeID, err
	}
	kind, ok := typeKindByName[name]
	if !ok {
		return NoTypeID, fmt.Errorf("ast: unknown type kind %q", name)
	}
	p, ext, err := d.payload(rest, typeArity[kind], name)
	if err != nil {
		return NoTypeID, err
	}
	ts := d.b.Types
	var id TypeID
	switch kind {
	case TypeMock:
		id = ts.NewMock(source.Span{})
	case TypeVoid:
		id = ts.NewVoid(source.Span{})
	case TypePrim, TypeNamed:
		s, err := d.str(p[0], name)
		if err != nil {
			return NoTypeID, err
		}
		id = ts.NewName(kind, source.Span{}, s)
	case TypePtr:
		elem, err := d.typ(p[0])
		if err != nil {
			return NoTypeID, err
		}
		id = ts.NewPtr(source.Span{}, elem)
	case TypeArray:
		elem, err := d.typ(p[0])
		if err != nil {
			return NoTypeID, err
		}
		size, err := d.expr(p[1])
		if err != nil {
			return NoTypeID, err
		}
		id = ts.NewArray(source.Span{}, elem, size)
	case TypeFn:
		vals, err := d.arr(p[0], name)
		if err != nil {
			return NoTypeID, err
		}
		params := make([]TypeID, 0, len(vals))
		for _, pv := range vals {
			t, err := d.typ(pv)
			if err != nil {
				return NoTypeID, err
			}
			params = append(params, t)
		}
		ret, err := d.typ(p[1])
		if err != nil {
			return NoTypeID, err
		}
		id = ts.NewFn(source.Span{}, params, ret)
	}
	ts.Get(id).Ext = ext
	return id, nil
}

func (d *decoder) vis(v serial.Value, what string) (Visibility, error) {
	if v.Kind != serial.StrValue {
		return VisSec, shapeErr(what, "visibility", v)
	}
	vis, ok := ParseVisibility(v.S)
	if !ok {
		return VisSec, fmt.Errorf("ast: %s: bad visibility %q", what, v.S)
	}
	return vis, nil
}

func (d *decoder) stmt(v serial.Value) (StmtID, error) {
	if v.Kind == serial.NullValue {
		return NoStmtID, nil
	}
	name, rest, err := d.frame(v, "statement")
	if err != nil {
		return NoStmtID, err
	}
	kind, ok := stmtKindByName[name]
	if !ok {
		return NoStmtID, fmt.Errorf("ast: unknown statement kind %q", name)
	}
	p, ext, err := d.payload(rest, stmtArity[kind], name)
	if err != nil {
		return NoStmtID, err
	}
	id, err := d.stmtPayload(kind, name, p)
	if err != nil {
		return NoStmtID, err
	}
	d.b.Stmts.Get(id).Ext = ext
	return id, nil
}

func (d *decoder) stmtPayload(kind StmtKind, name string, p []serial.Value) (StmtID, error) {
	ss := d.b.Stmts
	sp := source.Span{}
	switch kind {
	case StmtMock:
		return ss.NewMock(sp), nil
	case StmtBreak:
		return ss.NewBreak(sp), nil
	case StmtContinue:
		return ss.NewContinue(sp), nil
	case StmtBlock:
		safety, ok := map[string]Safety{"none": SafetyNone, "safe": SafetySafe, "unsafe": SafetyUnsafe}[p[0].S]
		if p[0].Kind != serial.StrValue || !ok {
			return NoStmtID, shapeErr(name, "safety", p[0])
		}
		vals, err := d.arr(p[1], name)
		if err != nil {
			return NoStmtID, err
		}
		stmts := make([]StmtID, 0, len(vals))
		for _, sv := range vals {
			s, err := d.stmt(sv)
			if err != nil {
				return NoStmtID, err
			}
			stmts = append(stmts, s)
		}
		return ss.NewBlock(sp, safety, stmts), nil
	case StmtExpr:
		x, err := d.expr(p[0])
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewExpr(sp, x), nil
	case StmtVar:
		var data StmtVarData
		vk, ok := map[string]VarKind{"let": VarLet, "var": VarVar, "const": VarConst}[p[0].S]
		if p[0].Kind != serial.StrValue || !ok {
			return NoStmtID, shapeErr(name, "let, var or const", p[0])
		}
		data.Kind = vk
		var err error
		if data.Vis, err = d.vis(p[1], name); err != nil {
			return NoStmtID, err
		}
		if data.Name, err = d.str(p[2], name); err != nil {
			return NoStmtID, err
		}
		if data.Type, err = d.typ(p[3]); err != nil {
			return NoStmtID, err
		}
		if data.Init, err = d.expr(p[4]); err != nil {
			return NoStmtID, err
		}
		return ss.NewVar(sp, data), nil
	case StmtFn:
		var data StmtFnData
		var err error
		if data.Vis, err = d.vis(p[0], name); err != nil {
			return NoStmtID, err
		}
		if data.Name, err = d.str(p[1], name); err != nil {
			return NoStmtID, err
		}
		vals, err := d.arr(p[2], name)
		if err != nil {
			return NoStmtID, err
		}
		for _, pv := range vals {
			f, err := d.field(pv, name)
			if err != nil {
				return NoStmtID, err
			}
			data.Params = append(data.Params, FnParam(f))
		}
		if data.Ret, err = d.typ(p[3]); err != nil {
			return NoStmtID, err
		}
		if data.Body, err = d.stmt(p[4]); err != nil {
			return NoStmtID, err
		}
		return ss.NewFn(sp, data), nil
	case StmtStruct:
		var data StmtStructData
		var err error
		if data.Vis, err = d.vis(p[0], name); err != nil {
			return NoStmtID, err
		}
		if p[1].Kind != serial.BoolValue {
			return NoStmtID, shapeErr(name, "bool", p[1])
		}
		data.Union = p[1].B
		if data.Name, err = d.str(p[2], name); err != nil {
			return NoStmtID, err
		}
		vals, err := d.arr(p[3], name)
		if err != nil {
			return NoStmtID, err
		}
		for _, fv := range vals {
			f, err := d.field(fv, name)
			if err != nil {
				return NoStmtID, err
			}
			data.Fields = append(data.Fields, f)
		}
		return ss.NewStruct(sp, data), nil
	case StmtEnum:
		var data StmtEnumData
		var err error
		if data.Vis, err = d.vis(p[0], name); err != nil {
			return NoStmtID, err
		}
		if data.Name, err = d.str(p[1], name); err != nil {
			return NoStmtID, err
		}
		if data.Type, err = d.typ(p[2]); err != nil {
			return NoStmtID, err
		}
		vals, err := d.arr(p[3], name)
		if err != nil {
			return NoStmtID, err
		}
		for _, iv := range vals {
			t, err := d.tuple(iv, 2, name)
			if err != nil {
				return NoStmtID, err
			}
			var it EnumItem
			if it.Name, err = d.str(t[0], name); err != nil {
				return NoStmtID, err
			}
			if it.Value, err = d.expr(t[1]); err != nil {
				return NoStmtID, err
			}
			data.Items = append(data.Items, it)
		}
		return ss.NewEnum(sp, data), nil
	case StmtTypedef:
		var data StmtTypedefData
		var err error
		if data.Vis, err = d.vis(p[0], name); err != nil {
			return NoStmtID, err
		}
		if data.Name, err = d.str(p[1], name); err != nil {
			return NoStmtID, err
		}
		if data.Type, err = d.typ(p[2]); err != nil {
			return NoStmtID, err
		}
		return ss.NewTypedef(sp, data), nil
	case StmtScope:
		var data StmtScopeData
		var err error
		if data.Name, err = d.optStr(p[0], name); err != nil {
			return NoStmtID, err
		}
		vals, err := d.arr(p[1], name)
		if err != nil {
			return NoStmtID, err
		}
		for _, dv := range vals {
			dep, err := d.str(dv, name)
			if err != nil {
				return NoStmtID, err
			}
			data.Deps = append(data.Deps, dep)
		}
		if data.Body, err = d.stmt(p[2]); err != nil {
			return NoStmtID, err
		}
		return ss.NewScope(sp, data), nil
	case StmtImport:
		s, err := d.str(p[0], name)
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewImport(sp, s), nil
	case StmtIf:
		cond, err := d.expr(p[0])
		if err != nil {
			return NoStmtID, err
		}
		then, err := d.stmt(p[1])
		if err != nil {
			return NoStmtID, err
		}
		els, err := d.stmt(p[2])
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewIf(sp, cond, then, els), nil
	case StmtWhile:
		cond, err := d.expr(p[0])
		if err != nil {
			return NoStmtID, err
		}
		body, err := d.stmt(p[1])
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewWhile(sp, cond, body), nil
	case StmtFor:
		var data StmtForData
		var err error
		if data.Init, err = d.stmt(p[0]); err != nil {
			return NoStmtID, err
		}
		if data.Cond, err = d.expr(p[1]); err != nil {
			return NoStmtID, err
		}
		if data.Step, err = d.expr(p[2]); err != nil {
			return NoStmtID, err
		}
		if data.Body, err = d.stmt(p[3]); err != nil {
			return NoStmtID, err
		}
		return ss.NewFor(sp, data), nil
	case StmtForeach:
		var data StmtForeachData
		var err error
		if data.Index, err = d.optStr(p[0], name); err != nil {
			return NoStmtID, err
		}
		if data.Value, err = d.str(p[1], name); err != nil {
			return NoStmtID, err
		}
		if data.Iter, err = d.expr(p[2]); err != nil {
			return NoStmtID, err
		}
		if data.Body, err = d.stmt(p[3]); err != nil {
			return NoStmtID, err
		}
		return ss.NewForeach(sp, data), nil
	case StmtSwitch:
		var data StmtSwitchData
		var err error
		if data.Cond, err = d.expr(p[0]); err != nil {
			return NoStmtID, err
		}
		vals, err := d.arr(p[1], name)
		if err != nil {
			return NoStmtID, err
		}
		for _, cv := range vals {
			t, err := d.tuple(cv, 2, name)
			if err != nil {
				return NoStmtID, err
			}
			var c SwitchCase
			if c.Match, err = d.expr(t[0]); err != nil {
				return NoStmtID, err
			}
			if c.Body, err = d.stmt(t[1]); err != nil {
				return NoStmtID, err
			}
			data.Cases = append(data.Cases, c)
		}
		if data.Default, err = d.stmt(p[2]); err != nil {
			return NoStmtID, err
		}
		return ss.NewSwitch(sp, data), nil
	case StmtReturn:
		val, err := d.expr(p[0])
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewReturn(sp, val), nil
	case StmtRetif:
		cond, err := d.expr(p[0])
		if err != nil {
			return NoStmtID, err
		}
		val, err := d.expr(p[1])
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewRetif(sp, cond, val), nil
	case StmtAsm:
		s, err := d.str(p[0], name)
		if err != nil {
			return NoStmtID, err
		}
		return ss.NewAsm(sp, s), nil
	}
	return NoStmtID, fmt.Errorf("ast: unhandled statement kind %q", name)
}

// field reads [name, type, default] used by parameters and struct fields.
func (d *decoder) field(v serial.Value, what string) (Field, error) {
	t, err := d.tuple(v, 3, what)
	if err != nil {
		return Field{}, err
	}
	var f Field
	if f.Name, err = d.str(t[0], what); err != nil {
		return Field{}, err
	}
	if f.Type, err = d.typ(t[1]); err != nil {
		return Field{}, err
	}
	if f.Default, err = d.expr(t[2]); err != nil {
		return Field{}, err
	}
	return f, nil
}
