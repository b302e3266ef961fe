package parser

import (
	"testing"
)

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x = a + b * c;", `["Assign","=",["Ident","x"],["Binary","+",["Ident","a"],["Binary","*",["Ident","b"],["Ident","c"]]]]`},
		{"a = b += c;", `["Assign","=",["Ident","a"],["Assign","+=",["Ident","b"],["Ident","c"]]]`},
		{"a - b - c;", `["Binary","-",["Binary","-",["Ident","a"],["Ident","b"]],["Ident","c"]]`},
		{"(a + b) * c;", `["Binary","*",["Binary","+",["Ident","a"],["Ident","b"]],["Ident","c"]]`},
		{"a || b && c == d;", `["Binary","||",["Ident","a"],["Binary","&&",["Ident","b"],["Binary","==",["Ident","c"],["Ident","d"]]]]`},
		{"1 << 2 + 3;", `["Binary","<<",["Int","1"],["Binary","+",["Int","2"],["Int","3"]]]`},
		{"-f(1, 2)[0].z++;", `["Unary","-",["Postfix","++",["Member",["Index",["Call",["Ident","f"],[["Int","1"],["Int","2"]]],["Int","0"]],"z"]]]`},
		{"!*p;", `["Unary","!",["Unary","*",["Ident","p"]]]`},
		{"c ? 1 : 2;", `["Ternary",["Ident","c"],["Int","1"],["Int","2"]]`},
		{"a ? b ? 1 : 2 : 3;", `["Ternary",["Ident","a"],["Ternary",["Ident","b"],["Int","1"],["Int","2"]],["Int","3"]]`},
		{"v = c ? x : y;", `["Assign","=",["Ident","v"],["Ternary",["Ident","c"],["Ident","x"],["Ident","y"]]]`},
		{"x as u8 + 1;", `["Binary","+",["Cast",["Ident","x"],["Prim","u8"]],["Int","1"]]`},
		{`[1, true, null, undef, "s", 'c', 1.5];`, `["List",[["Int","1"],["Bool",true],["Null"],["Undef"],["String","\"s\""],["Char","'c'"],["Float","1.5"]]]`},
		{"f(a,)(b);", `["Call",["Call",["Ident","f"],[["Ident","a"]]],[["Ident","b"]]]`},
		{"p.next.value;", `["Member",["Member",["Ident","p"],"next"],"value"]`},
	}
	for _, tt := range tests {
		p := mustParse(t, tt.src)
		if got, want := p.json(t), block(`["ExprStmt",`+tt.want+`]`); got != want {
			t.Fatalf("%q:\n got %s\nwant %s", tt.src, got, want)
		}
	}
}

func TestConstExpressions(t *testing.T) {
	tests := []struct {
		size string
		want string
	}{
		{"8", `["Int","8"]`},
		{"1 + 2 * 3", `["Binary","+",["Int","1"],["Binary","*",["Int","2"],["Int","3"]]]`},
		{"(1 + 2) * 3", `["Binary","*",["Binary","+",["Int","1"],["Int","2"]],["Int","3"]]`},
		{"10 - 4 - 3", `["Binary","-",["Binary","-",["Int","10"],["Int","4"]],["Int","3"]]`},
		{"-2 * -(3)", `["Binary","*",["Unary","-",["Int","2"]],["Unary","-",["Int","3"]]]`},
		{"true && !false", `["Binary","&&",["Bool",true],["Unary","!",["Bool",false]]]`},
		{"1 << 4 | 1", `["Binary","|",["Binary","<<",["Int","1"],["Int","4"]],["Int","1"]]`},
	}
	for _, tt := range tests {
		p := mustParse(t, "type T = [u8; "+tt.size+"];")
		want := block(`["Typedef","sec","T",["Array",["Prim","u8"],` + tt.want + `]]`)
		if got := p.json(t); got != want {
			t.Fatalf("%q:\n got %s\nwant %s", tt.size, got, want)
		}
	}
}
