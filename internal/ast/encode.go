package ast

import (
	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// Encoder writes nodes as [kind, payload..., startLine, startCol, endLine, endCol].
// Without positions the frame is just [kind, payload...].
type Encoder struct {
	b         *Builder
	fs        *source.FileSet
	v         serial.Visitor
	positions bool
}

// NewEncoder creates an encoder. fs may be nil; positions then come from
// extension records only.
func NewEncoder(v serial.Visitor, b *Builder, fs *source.FileSet, positions bool) *Encoder {
	return &Encoder{b: b, fs: fs, v: v, positions: positions}
}

// Serialize writes the tree rooted at root with positions.
func Serialize(v serial.Visitor, b *Builder, fs *source.FileSet, root StmtID) {
	NewEncoder(v, b, fs, true).Stmt(root)
}

func (e *Encoder) begin(kind string, n int) {
	if e.positions {
		n += 4
	}
	e.v.BeginArr(n + 1)
	e.v.Str(kind)
}

func (e *Encoder) end(span source.Span, ext ExtID) {
	if e.positions {
		var start, end source.LineCol
		switch {
		case ext.IsValid() && e.b.Exts.Get(ext).Start.Line != 0:
			x := e.b.Exts.Get(ext)
			start, end = x.Start, x.End
		case e.fs != nil:
			start, end = e.fs.Resolve(span)
		}
		e.v.Uint(uint64(start.Line))
		e.v.Uint(uint64(start.Col))
		e.v.Uint(uint64(end.Line))
		e.v.Uint(uint64(end.Col))
	}
	e.v.EndArr()
}

func (e *Encoder) str(id source.StringID) {
	e.v.Str(e.b.Str(id))
}

func (e *Encoder) optStr(id source.StringID) {
	if id == source.NoStringID {
		e.v.Null()
		return
	}
	e.str(id)
}

func (e *Encoder) exprs(ids []ExprID) {
	e.v.BeginArr(len(ids))
	for _, id := range ids {
		e.Expr(id)
	}
	e.v.EndArr()
}

// Expr writes an expression; NoExprID is written as null.
func (e *Encoder) Expr(id ExprID) {
	x := e.b.Exprs.Get(id)
	if x == nil {
		e.v.Null()
		return
	}
	ex := e.b.Exprs
	switch x.Kind {
	case ExprMock, ExprNull, ExprUndef:
		e.begin(x.Kind.String(), 0)
	case ExprInt, ExprFloat, ExprString, ExprChar:
		lit, _ := ex.Literal(id)
		e.begin(x.Kind.String(), 1)
		e.str(lit.Value)
	case ExprBool:
		lit, _ := ex.Literal(id)
		e.begin(x.Kind.String(), 1)
		e.v.Bool(e.b.Str(lit.Value) == "true")
	case ExprIdent:
		d, _ := ex.Ident(id)
		e.begin(x.Kind.String(), 1)
		e.str(d.Name)
	case ExprBinary, ExprAssign:
		d, _ := ex.Binary(id)
		e.begin(x.Kind.String(), 3)
		e.v.Str(d.Op.String())
		e.Expr(d.Left)
		e.Expr(d.Right)
	case ExprUnary, ExprPostfix:
		d, _ := ex.Unary(id)
		e.begin(x.Kind.String(), 2)
		e.v.Str(d.Op.String())
		e.Expr(d.Operand)
	case ExprTernary:
		d, _ := ex.Ternary(id)
		e.begin(x.Kind.String(), 3)
		e.Expr(d.Cond)
		e.Expr(d.Then)
		e.Expr(d.Else)
	case ExprCall:
		d, _ := ex.Call(id)
		e.begin(x.Kind.String(), 2)
		e.Expr(d.Callee)
		e.exprs(d.Args)
	case ExprIndex:
		d, _ := ex.Index(id)
		e.begin(x.Kind.String(), 2)
		e.Expr(d.Base)
		e.Expr(d.Index)
	case ExprMember:
		d, _ := ex.Member(id)
		e.begin(x.Kind.String(), 2)
		e.Expr(d.Base)
		e.str(d.Field)
	case ExprList:
		d, _ := ex.List(id)
		e.begin(x.Kind.String(), 1)
		e.exprs(d.Elems)
	case ExprCast:
		d, _ := ex.Cast(id)
		e.begin(x.Kind.String(), 2)
		e.Expr(d.Value)
		e.Type(d.Type)
	default:
		panic("ast: encode: unhandled expression kind " + x.Kind.String())
	}
	e.end(x.Span, x.Ext)
}

// Type writes a type; NoTypeID is written as null.
func (e *Encoder) Type(id TypeID) {
	t := e.b.Types.Get(id)
	if t == nil {
		e.v.Null()
		return
	}
	ts := e.b.Types
	switch t.Kind {
	case TypeMock, TypeVoid:
		e.begin(t.Kind.String(), 0)
	case TypePrim, TypeNamed:
		d, _ := ts.Name(id)
		e.begin(t.Kind.String(), 1)
		e.str(d.Name)
	case TypePtr:
		d, _ := ts.Ptr(id)
		e.begin(t.Kind.String(), 1)
		e.Type(d.Elem)
	case TypeArray:
		d, _ := ts.Array(id)
		e.begin(t.Kind.String(), 2)
		e.Type(d.Elem)
		e.Expr(d.Size)
	case TypeFn:
		d, _ := ts.Fn(id)
		e.begin(t.Kind.String(), 2)
		e.v.BeginArr(len(d.Params))
		for _, p := range d.Params {
			e.Type(p)
		}
		e.v.EndArr()
		e.Type(d.Ret)
	default:
		panic("ast: encode: unhandled type kind " + t.Kind.String())
	}
	e.end(t.Span, t.Ext)
}

// Stmt writes a statement; NoStmtID is written as null.
func (e *Encoder) Stmt(id StmtID) {
	s := e.b.Stmts.Get(id)
	if s == nil {
		e.v.Null()
		return
	}
	ss := e.b.Stmts
	switch s.Kind {
	case StmtMock, StmtBreak, StmtContinue:
		e.begin(s.Kind.String(), 0)
	case StmtBlock:
		d, _ := ss.Block(id)
		e.begin(s.Kind.String(), 2)
		e.v.Str(d.Safety.String())
		e.v.BeginArr(len(d.Stmts))
		for _, c := range d.Stmts {
			e.Stmt(c)
		}
		e.v.EndArr()
	case StmtExpr:
		d, _ := ss.Expr(id)
		e.begin(s.Kind.String(), 1)
		e.Expr(d.Expr)
	case StmtVar:
		d, _ := ss.Var(id)
		e.begin(s.Kind.String(), 5)
		e.v.Str(d.Kind.String())
		e.v.Str(d.Vis.String())
		e.str(d.Name)
		e.Type(d.Type)
		e.Expr(d.Init)
	case StmtFn:
		d, _ := ss.Fn(id)
		e.begin(s.Kind.String(), 5)
		e.v.Str(d.Vis.String())
		e.str(d.Name)
		e.v.BeginArr(len(d.Params))
		for _, p := range d.Params {
			e.v.BeginArr(3)
			e.str(p.Name)
			e.Type(p.Type)
			e.Expr(p.Default)
			e.v.EndArr()
		}
		e.v.EndArr()
		e.Type(d.Ret)
		e.Stmt(d.Body)
	case StmtStruct:
		d, _ := ss.Struct(id)
		e.begin(s.Kind.String(), 4)
		e.v.Str(d.Vis.String())
		e.v.Bool(d.Union)
		e.str(d.Name)
		e.v.BeginArr(len(d.Fields))
		for _, f := range d.Fields {
			e.v.BeginArr(3)
			e.str(f.Name)
			e.Type(f.Type)
			e.Expr(f.Default)
			e.v.EndArr()
		}
		e.v.EndArr()
	case StmtEnum:
		d, _ := ss.Enum(id)
		e.begin(s.Kind.String(), 4)
		e.v.Str(d.Vis.String())
		e.str(d.Name)
		e.Type(d.Type)
		e.v.BeginArr(len(d.Items))
		for _, it := range d.Items {
			e.v.BeginArr(2)
			e.str(it.Name)
			e.Expr(it.Value)
			e.v.EndArr()
		}
		e.v.EndArr()
	case StmtTypedef:
		d, _ := ss.Typedef(id)
		e.begin(s.Kind.String(), 3)
		e.v.Str(d.Vis.String())
		e.str(d.Name)
		e.Type(d.Type)
	case StmtScope:
		d, _ := ss.Scope(id)
		e.begin(s.Kind.String(), 3)
		e.optStr(d.Name)
		e.v.BeginArr(len(d.Deps))
		for _, dep := range d.Deps {
			e.str(dep)
		}
		e.v.EndArr()
		e.Stmt(d.Body)
	case StmtImport:
		d, _ := ss.Import(id)
		e.begin(s.Kind.String(), 1)
		e.str(d.Name)
	case StmtIf:
		d, _ := ss.If(id)
		e.begin(s.Kind.String(), 3)
		e.Expr(d.Cond)
		e.Stmt(d.Then)
		e.Stmt(d.Else)
	case StmtWhile:
		d, _ := ss.While(id)
		e.begin(s.Kind.String(), 2)
		e.Expr(d.Cond)
		e.Stmt(d.Body)
	case StmtFor:
		d, _ := ss.For(id)
		e.begin(s.Kind.String(), 4)
		e.Stmt(d.Init)
		e.Expr(d.Cond)
		e.Expr(d.Step)
		e.Stmt(d.Body)
	case StmtForeach:
		d, _ := ss.Foreach(id)
		e.begin(s.Kind.String(), 4)
		e.optStr(d.Index)
		e.str(d.Value)
		e.Expr(d.Iter)
		e.Stmt(d.Body)
	case StmtSwitch:
		d, _ := ss.Switch(id)
		e.begin(s.Kind.String(), 3)
		e.Expr(d.Cond)
		e.v.BeginArr(len(d.Cases))
		for _, c := range d.Cases {
			e.v.BeginArr(2)
			e.Expr(c.Match)
			e.Stmt(c.Body)
			e.v.EndArr()
		}
		e.v.EndArr()
		e.Stmt(d.Default)
	case StmtReturn:
		d, _ := ss.Return(id)
		e.begin(s.Kind.String(), 1)
		e.Expr(d.Value)
	case StmtRetif:
		d, _ := ss.Return(id)
		e.begin(s.Kind.String(), 2)
		e.Expr(d.Cond)
		e.Expr(d.Value)
	case StmtAsm:
		d, _ := ss.Asm(id)
		e.begin(s.Kind.String(), 1)
		e.str(d.Code)
	default:
		panic("ast: encode: unhandled statement kind " + s.Kind.String())
	}
	e.end(s.Span, s.Ext)
}
