package parser

import (
	"testing"
)

func block(stmts string) string {
	return `["Block","none",[` + stmts + `]]`
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "let with type",
			src:  "let x: i32 = 1;",
			want: `["Var","let","sec","x",["Prim","i32"],["Int","1"]]`,
		},
		{
			name: "const list",
			src:  "pub const a = 1, b: u8;",
			want: `["Var","const","pub","a",null,["Int","1"]],["Var","const","pub","b",["Prim","u8"],null]`,
		},
		{
			name: "function",
			src:  "fn add(a: i32, b: i32 = 1): i32 { return a + b; }",
			want: `["Fn","sec","add",[["a",["Prim","i32"],null],["b",["Prim","i32"],["Int","1"]]],["Prim","i32"],` +
				block(`["Return",["Binary","+",["Ident","a"],["Ident","b"]]]`) + `]`,
		},
		{
			name: "function declaration",
			src:  "fn ext(p: *u8);",
			want: `["Fn","sec","ext",[["p",["Ptr",["Prim","u8"]],null]],null,null]`,
		},
		{
			name: "arrow function",
			src:  "fn f() => return;",
			want: `["Fn","sec","f",[],null,` + block(`["Return",null]`) + `]`,
		},
		{
			name: "struct",
			src:  "struct P { x: f32, y: f32 = 0.5 }",
			want: `["Struct","sec",false,"P",[["x",["Prim","f32"],null],["y",["Prim","f32"],["Float","0.5"]]]]`,
		},
		{
			name: "union",
			src:  "pro union U { a: u8; b: u32; }",
			want: `["Struct","pro",true,"U",[["a",["Prim","u8"],null],["b",["Prim","u32"],null]]]`,
		},
		{
			name: "enum",
			src:  "enum Color: u8 { Red, Green = 2, }",
			want: `["Enum","sec","Color",["Prim","u8"],[["Red",null],["Green",["Int","2"]]]]`,
		},
		{
			name: "array typedef",
			src:  "type Buf = [u8; 4 * 2];",
			want: `["Typedef","sec","Buf",["Array",["Prim","u8"],["Binary","*",["Int","4"],["Int","2"]]]]`,
		},
		{
			name: "function typedef",
			src:  "type Cb = fn(i32, *Node): void;",
			want: `["Typedef","sec","Cb",["FnType",[["Prim","i32"],["Ptr",["Named","Node"]]],["Void"]]]`,
		},
		{
			name: "scope with deps",
			src:  "scope core: [std, io] { let x = 1; }",
			want: `["Scope","core",["std","io"],` + block(`["Var","let","sec","x",null,["Int","1"]]`) + `]`,
		},
		{
			name: "empty scope",
			src:  "scope;",
			want: `["Scope",null,[],` + block(``) + `]`,
		},
		{
			name: "imports",
			src:  `import std.io; import "lib";`,
			want: `["Import","std.io"],["Import","lib"]`,
		},
		{
			name: "if else chain",
			src:  "if a { b; } else if c => d; else { }",
			want: `["If",["Ident","a"],` + block(`["ExprStmt",["Ident","b"]]`) +
				`,["If",["Ident","c"],` + block(`["ExprStmt",["Ident","d"]]`) + `,` + block(``) + `]]`,
		},
		{
			name: "while",
			src:  "while i < 3 => i++;",
			want: `["While",["Binary","<",["Ident","i"],["Int","3"]],` + block(`["ExprStmt",["Postfix","++",["Ident","i"]]]`) + `]`,
		},
		{
			name: "foreach with index",
			src:  "foreach (i, v in xs) { }",
			want: `["Foreach","i","v",["Ident","xs"],` + block(``) + `]`,
		},
		{
			name: "foreach short",
			src:  "foreach v in xs => break;",
			want: `["Foreach",null,"v",["Ident","xs"],` + block(`["Break"]`) + `]`,
		},
		{
			name: "switch",
			src:  "switch x { case 1 => a; case 2 { b; } default => c; }",
			want: `["Switch",["Ident","x"],[[["Int","1"],` + block(`["ExprStmt",["Ident","a"]]`) + `],[["Int","2"],` +
				block(`["ExprStmt",["Ident","b"]]`) + `]],` + block(`["ExprStmt",["Ident","c"]]`) + `]`,
		},
		{
			name: "retif",
			src:  "retif x > 0, 1;",
			want: `["Retif",["Binary",">",["Ident","x"],["Int","0"]],["Int","1"]]`,
		},
		{
			name: "asm",
			src:  `asm "nop";`,
			want: `["Asm","nop"]`,
		},
		{
			name: "unsafe block",
			src:  "unsafe { continue; }",
			want: `["Block","unsafe",[["Continue"]]]`,
		},
		{
			name: "empty for",
			src:  "for (;;) { }",
			want: `["For",null,null,null,` + block(``) + `]`,
		},
		{
			name: "stray semicolons",
			src:  ";; x; ;",
			want: `["ExprStmt",["Ident","x"]]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParse(t, tt.src)
			if got, want := p.json(t), block(tt.want); got != want {
				t.Fatalf("\n got %s\nwant %s", got, want)
			}
		})
	}
}

func TestForLoopForms(t *testing.T) {
	paren := mustParse(t, "for (let i = 0; i < 10; i = i + 1) => body();")
	bare := mustParse(t, "for let i = 0; i < 10; i = i + 1 { body(); }")

	want := block(`["For",["Var","let","sec","i",null,["Int","0"]],` +
		`["Binary","<",["Ident","i"],["Int","10"]],` +
		`["Assign","=",["Ident","i"],["Binary","+",["Ident","i"],["Int","1"]]],` +
		block(`["ExprStmt",["Call",["Ident","body"],[]]]`) + `]`)
	if got := paren.json(t); got != want {
		t.Fatalf("parenthesised:\n got %s\nwant %s", got, want)
	}
	if got := bare.json(t); got != want {
		t.Fatalf("bare:\n got %s\nwant %s", got, want)
	}
}

func TestForExpressionInit(t *testing.T) {
	p := mustParse(t, "for i = 0; i < n; i++ => f(i);")
	want := block(`["For",["ExprStmt",["Assign","=",["Ident","i"],["Int","0"]]],` +
		`["Binary","<",["Ident","i"],["Ident","n"]],["Postfix","++",["Ident","i"]],` +
		block(`["ExprStmt",["Call",["Ident","f"],[["Ident","i"]]]]`) + `]`)
	if got := p.json(t); got != want {
		t.Fatalf("\n got %s\nwant %s", got, want)
	}
}

func TestCommentsAttach(t *testing.T) {
	p := parseSource(t, "// first\n/* second */\nlet x = 1;\nlet y = 2;", Options{KeepNotes: true})
	if !p.res.OK {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(p.bag))
	}
	blk, _ := p.b.Stmts.Block(p.res.Root)
	if len(blk.Stmts) != 2 {
		t.Fatalf("stmts = %d", len(blk.Stmts))
	}
	got := p.b.Comments(blk.Stmts[0])
	if len(got) != 2 || got[0] != "// first" || got[1] != "/* second */" {
		t.Fatalf("comments = %q", got)
	}
	if c := p.b.Comments(blk.Stmts[1]); len(c) != 0 {
		t.Fatalf("second statement has comments %q", c)
	}
}

func TestStatementSpans(t *testing.T) {
	p := mustParse(t, "let x = 1;\nfn f() {\n  return;\n}")
	blk, _ := p.b.Stmts.Block(p.res.Root)
	fn := p.b.Stmts.Get(blk.Stmts[1])
	start, end := p.fs.Resolve(fn.Span)
	if start.Line != 2 || start.Col != 1 || end.Line != 4 || end.Col != 2 {
		t.Fatalf("fn span %v..%v", start, end)
	}
}
