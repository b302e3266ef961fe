package ast

import (
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// addFn builds `fn add(a: i32, b: i32): i32 { return a + b; }`.
func addFn(b *Builder) StmtID {
	sp := source.Span{}
	i32 := func() TypeID { return b.Types.NewName(TypePrim, sp, b.Intern("i32")) }
	sum := b.Exprs.NewBinary(sp, token.Plus,
		b.Exprs.NewIdent(sp, b.Intern("a")),
		b.Exprs.NewIdent(sp, b.Intern("b")))
	body := b.Stmts.NewBlock(sp, SafetyNone, []StmtID{b.Stmts.NewReturn(sp, sum)})
	return b.Stmts.NewFn(sp, StmtFnData{
		Vis:  VisPub,
		Name: b.Intern("add"),
		Params: []FnParam{
			{Name: b.Intern("a"), Type: i32()},
			{Name: b.Intern("b"), Type: i32()},
		},
		Ret:  i32(),
		Body: body,
	})
}

func encodeJSON(t *testing.T, b *Builder, id StmtID, positions bool) string {
	t.Helper()
	w := serial.NewJSONWriter()
	NewEncoder(w, b, nil, positions).Stmt(id)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w.String()
}

func TestEncodeGolden(t *testing.T) {
	b := NewBuilder(source.NewInterner())
	got := encodeJSON(t, b, addFn(b), false)
	want := `["Fn","pub","add",[["a",["Prim","i32"],null],["b",["Prim","i32"],null]],["Prim","i32"],` +
		`["Block","none",[["Return",["Binary","+",["Ident","a"],["Ident","b"]]]]]]`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodePositionsFromExt(t *testing.T) {
	b := NewBuilder(source.NewInterner())
	id := b.Stmts.NewBreak(source.Span{})
	ext := b.StmtExt(id)
	ext.Start = source.LineCol{Line: 3, Col: 5}
	ext.End = source.LineCol{Line: 3, Col: 11}
	if got := encodeJSON(t, b, id, true); got != `["Break",3,5,3,11]` {
		t.Fatalf("got %s", got)
	}
}

func TestEncodePositionsFromFileSet(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("t.nit", []byte("x;\ny;"))
	b := NewBuilder(source.NewInterner())
	y := b.Exprs.NewIdent(source.Span{File: fid, Start: 3, End: 4}, b.Intern("y"))
	id := b.Stmts.NewExpr(source.Span{File: fid, Start: 3, End: 5}, y)
	w := serial.NewJSONWriter()
	Serialize(w, b, fs, id)
	if got, want := w.String(), `["ExprStmt",["Ident","y",2,1,2,2],2,1,2,3]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	b := NewBuilder(source.NewInterner())
	sp := source.Span{}
	one := b.Exprs.NewLiteral(ExprInt, sp, b.Intern("1"))
	arr := b.Types.NewArray(sp, b.Types.NewPtr(sp, b.Types.NewName(TypeNamed, sp, b.Intern("Node"))), one)
	stmts := []StmtID{
		addFn(b),
		b.Stmts.NewVar(sp, StmtVarData{Kind: VarConst, Name: b.Intern("xs"), Type: arr}),
		b.Stmts.NewStruct(sp, StmtStructData{Union: true, Name: b.Intern("U"), Fields: []Field{
			{Name: b.Intern("f"), Type: b.Types.NewName(TypePrim, sp, b.Intern("f32"))},
		}}),
		b.Stmts.NewEnum(sp, StmtEnumData{Name: b.Intern("E"), Items: []EnumItem{
			{Name: b.Intern("A")},
			{Name: b.Intern("B"), Value: one},
		}}),
		b.Stmts.NewScope(sp, StmtScopeData{Deps: []source.StringID{b.Intern("std")}, Body: b.Stmts.NewBlock(sp, SafetyUnsafe, nil)}),
		b.Stmts.NewForeach(sp, StmtForeachData{
			Index: b.Intern("i"), Value: b.Intern("v"),
			Iter: b.Exprs.NewList(sp, []ExprID{one, b.Exprs.NewNull(sp)}),
			Body: b.Stmts.NewContinue(sp),
		}),
		b.Stmts.NewSwitch(sp, StmtSwitchData{
			Cond:    b.Exprs.NewCall(sp, b.Exprs.NewIdent(sp, b.Intern("f")), nil),
			Cases:   []SwitchCase{{Match: one, Body: b.Stmts.NewBreak(sp)}},
			Default: b.Stmts.NewRetif(sp, b.Exprs.NewLiteral(ExprBool, sp, b.Intern("true")), b.Exprs.NewUndef(sp)),
		}),
		b.Stmts.NewExpr(sp, b.Exprs.NewAssign(sp, token.PlusAssign,
			b.Exprs.NewMember(sp, b.Exprs.NewIdent(sp, b.Intern("p")), b.Intern("x")),
			b.Exprs.NewCast(sp, b.Exprs.NewLiteral(ExprString, sp, b.Intern(`"s"`)), b.Types.NewVoid(sp)))),
		b.Stmts.NewTypedef(sp, StmtTypedefData{Name: b.Intern("F"), Type: b.Types.NewFn(sp, []TypeID{arr}, NoTypeID)}),
		b.Stmts.NewAsm(sp, b.Intern("nop")),
		b.Stmts.NewImport(sp, b.Intern("core")),
	}
	root := b.Stmts.NewBlock(sp, SafetyNone, stmts)

	for _, format := range []serial.Format{serial.FormatJSON, serial.FormatMsgPack} {
		w := serial.NewWriter(format)
		Serialize(w, b, nil, root)
		if err := w.Err(); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		doc, err := serial.Decode(format, w.Bytes())
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		c := NewBuilder(source.NewInterner())
		back, err := Deserialize(c, doc)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !StmtEqual(b, root, c, back) {
			t.Fatalf("%s: round trip differs:\n%s\n%s", format, encodeJSON(t, b, root, false), encodeJSON(t, c, back, false))
		}
		if b.StmtHash(root) != c.StmtHash(back) {
			t.Fatalf("%s: hash differs", format)
		}
	}
}

func TestDeserializeKeepsPositions(t *testing.T) {
	doc, err := serial.ParseJSON([]byte(`["Return",["Int","7",1,8,1,9],1,1,1,10]`))
	if err != nil {
		t.Fatal(err)
	}
	b := NewBuilder(source.NewInterner())
	id, err := Deserialize(b, doc)
	if err != nil {
		t.Fatal(err)
	}
	if got := encodeJSON(t, b, id, true); got != `["Return",["Int","7",1,8,1,9],1,1,1,10]` {
		t.Fatalf("got %s", got)
	}
	ext := b.Exts.Get(b.Stmts.Get(id).Ext)
	if ext == nil || ext.Start.Col != 1 || ext.End.Col != 10 {
		t.Fatalf("ext = %+v", ext)
	}
}

func TestDeserializeErrors(t *testing.T) {
	cases := []string{
		`{}`,
		`[]`,
		`["Nope"]`,
		`["Return"]`,
		`["Return",null,1,2]`,
		`["Block","weird",[]]`,
		`["Var","let","sec","x",null]`,
		`["ExprStmt",["Binary","@",null,null]]`,
		`["ExprStmt",["Bool","true"]]`,
		`["Fn","sec","f",[["a",null]],null,null]`,
	}
	for _, src := range cases {
		doc, err := serial.ParseJSON([]byte(src))
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if _, err := Deserialize(NewBuilder(source.NewInterner()), doc); err == nil {
			t.Fatalf("%s: expected error", src)
		}
	}
}

func TestEqualIgnoresPositions(t *testing.T) {
	b := NewBuilder(source.NewInterner())
	x := b.Exprs.NewIdent(source.Span{Start: 0, End: 1}, b.Intern("x"))
	y := b.Exprs.NewIdent(source.Span{Start: 40, End: 41}, b.Intern("x"))
	z := b.Exprs.NewIdent(source.Span{}, b.Intern("z"))
	if !ExprEqual(b, x, b, y) || b.ExprHash(x) != b.ExprHash(y) {
		t.Fatalf("identical identifiers compare unequal")
	}
	if ExprEqual(b, x, b, z) {
		t.Fatalf("x == z")
	}
}

func TestLiteralKindGuard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewBuilder(nil).Exprs.NewLiteral(ExprIdent, source.Span{}, source.NoStringID)
}
