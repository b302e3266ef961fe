package parser

import (
	"slices"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []diag.Code
		tree  string // optional expected tree
	}{
		{
			name:  "missing variable name recovers at next statement",
			src:   "let = 5; let y = 2;",
			codes: []diag.Code{diag.SynExpectIdentifier},
			tree:  block(`["MockStmt"],["Var","let","sec","y",null,["Int","2"]]`),
		},
		{
			name:  "broken parenthesised operand",
			src:   "x = (1 + ;",
			codes: []diag.Code{diag.SynExpectExpression},
			tree:  block(`["ExprStmt",["Assign","=",["Ident","x"],["Binary","+",["Int","1"],["MockExpr"]]]]`),
		},
		{
			name:  "missing semicolon between expressions",
			src:   "x = 1 y = 2; z;",
			codes: []diag.Code{diag.SynUnexpectedToken},
			tree:  block(`["ExprStmt",["Assign","=",["Ident","x"],["Int","1"]]],["ExprStmt",["Ident","z"]]`),
		},
		{
			name:  "non-constant array size",
			src:   "type T = [u8; n + 1];",
			codes: []diag.Code{diag.SynNotConstant},
			tree:  block(`["Typedef","sec","T",["Array",["Prim","u8"],["MockExpr"]]]`),
		},
		{
			name:  "constant without operator",
			src:   "type T = [u8; 1 2];",
			codes: []diag.Code{diag.SynBadConstExpr},
		},
		{
			name:  "constant with dangling operator",
			src:   "type T = [u8; 1 +];",
			codes: []diag.Code{diag.SynBadConstExpr},
		},
		{
			name:  "constant with open paren",
			src:   "type T = [u8; (1 + 2];",
			codes: []diag.Code{diag.SynBadConstExpr},
		},
		{
			name:  "for init declares two variables",
			src:   "for (let i = 0, j = 1; i < j; i++) { }",
			codes: []diag.Code{diag.SynForBadInit},
			tree: block(`["For",["MockStmt"],["Binary","<",["Ident","i"],["Ident","j"]],["Postfix","++",["Ident","i"]],` +
				block(``) + `]`),
		},
		{
			name:  "for without ';' before an omitted step",
			src:   "for let i = 0; i < 3 { } z;",
			codes: []diag.Code{diag.SynExpectSemicolon},
			tree: block(`["For",["Var","let","sec","i",null,["Int","0"]],["Binary","<",["Ident","i"],["Int","3"]],null,` +
				block(``) + `],["ExprStmt",["Ident","z"]]`),
		},
		{
			name:  "parenthesised for without ';' before an omitted step",
			src:   "for (let i = 0; i < 3) { } z;",
			codes: []diag.Code{diag.SynExpectSemicolon},
		},
		{
			name:  "duplicate default",
			src:   "switch x { default => a; default => b; }",
			codes: []diag.Code{diag.SynDuplicateDefault},
		},
		{
			name:  "junk in switch",
			src:   "switch x { foo; case 1 => a; }",
			codes: []diag.Code{diag.SynSwitchBadCase},
		},
		{
			name:  "enum without body",
			src:   "enum E u8 { A } let x = 1;",
			codes: []diag.Code{diag.SynEnumExpectBody},
		},
		{
			name:  "scope deps without brackets",
			src:   "scope s: std { }",
			codes: []diag.Code{diag.SynScopeBadDeps},
		},
		{
			name:  "missing body",
			src:   "while x y;",
			codes: []diag.Code{diag.SynUnexpectedToken, diag.SynExpectBody},
		},
		{
			name:  "unterminated block",
			src:   "fn f() { return 1;",
			codes: []diag.Code{diag.SynExpectRBrace},
		},
		{
			name:  "missing type",
			src:   "fn f(a: ) { }",
			codes: []diag.Code{diag.SynExpectType},
		},
		{
			name:  "visibility without declaration",
			src:   "pub x = 1; y;",
			codes: []diag.Code{diag.SynUnexpectedToken},
		},
		{
			name:  "foreach without in",
			src:   "foreach v of xs { } z;",
			codes: []diag.Code{diag.SynForeachBadHeader},
			tree:  block(`["MockStmt"],["ExprStmt",["Ident","z"]]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src, Options{})
			if p.res.OK {
				t.Fatalf("expected failure")
			}
			if got := codes(p.bag); !slices.Equal(got, tt.codes) {
				t.Fatalf("codes = %v, want %v (%s)", got, tt.codes, diagnosticsSummary(p.bag))
			}
			if p.res.Errors != len(tt.codes) {
				t.Fatalf("errors = %d", p.res.Errors)
			}
			if tt.tree != "" {
				if got := p.json(t); got != tt.tree {
					t.Fatalf("\n got %s\nwant %s", got, tt.tree)
				}
			}
		})
	}
}

func TestFastError(t *testing.T) {
	conf := config.Default().With(config.FlagFastError, "true")
	p := parseSource(t, "let = 1; let = 2; let = 3;", Options{Conf: conf})
	if !p.res.Aborted || p.res.Errors != 1 {
		t.Fatalf("aborted=%v errors=%d", p.res.Aborted, p.res.Errors)
	}
	want := []diag.Code{diag.SynExpectIdentifier, diag.SynFastErrorAbort}
	if got := codes(p.bag); !slices.Equal(got, want) {
		t.Fatalf("codes = %v (%s)", got, diagnosticsSummary(p.bag))
	}
}

func TestMaxErrors(t *testing.T) {
	conf := config.Default().With(config.FlagMaxErrors, "2")
	p := parseSource(t, "let = 1; let = 2; let = 3; let = 4;", Options{Conf: conf})
	if p.res.Errors != 4 {
		t.Fatalf("errors = %d", p.res.Errors)
	}
	if p.bag.Len() != 2 {
		t.Fatalf("reported %d: %s", p.bag.Len(), diagnosticsSummary(p.bag))
	}
}

func TestErrorSpanPointsAtToken(t *testing.T) {
	p := parseSource(t, "let x = 1;\nlet 5 = 2;", Options{})
	items := p.bag.Items()
	if len(items) == 0 {
		t.Fatalf("no diagnostics")
	}
	start, end := p.fs.Resolve(items[0].Primary)
	if start.Line != 2 || start.Col != 5 || end.Col != 6 {
		t.Fatalf("span %v..%v", start, end)
	}
}
