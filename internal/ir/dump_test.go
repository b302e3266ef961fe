package ir

import (
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/serial"
)

func TestDumpGolden(t *testing.T) {
	m := mustLower(t, "struct P { x: u8, y: u32 }\nfn add(a: i32, b: i32): i32 {\n  return a + b;\n}")
	ComputeSizes(m)
	var sb strings.Builder
	if err := Dump(&sb, m); err != nil {
		t.Fatal(err)
	}
	want := "module test\n\ntype P = struct { x: u8, y: u32 } ; 40 bits\n\nfn add(a: i32, b: i32): i32 {\n  ret (a + b)\n}\n"
	if sb.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestDumpStatements(t *testing.T) {
	src := `
enum E { A }
fn ext(p: *u8);
fn f(n: i32): i32 {
	let s = 0;
	while s < n { s += 1; if s == 3 { break; } }
	retif n == 0, E.A;
	return n > 1 ? s : n;
}`
	m := mustLower(t, src)
	var sb strings.Builder
	if err := Dump(&sb, m); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{
		"type E = i32\n",
		"const E::A = 0:i32\n",
		`extern "c" fn ext(p: *u8): void;`,
		"  let s = 0\n",
		"  while (s < n) {\n    (s += 1)\n    if (s == 3) {\n      brk\n    }\n  }\n",
		"  if (n == 0) {\n    ret E::A\n  }\n",
		"  ret ((n > 1) ? s : n)\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestEncodeFunction(t *testing.T) {
	m := mustLower(t, "fn one(): i32 { return 1; }")
	got := nodeJSON(t, m, m.Functions["one"])
	want := `["Fn","one",[],"i32",["Seq",[["Ret",["Int","1",null]]]]]`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestSerializeModule(t *testing.T) {
	m := mustLower(t, "struct P { x: u8 }\nlet g: *P = null;")
	w := serial.NewJSONWriter()
	Serialize(w, m)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	out := w.String()
	for _, want := range []string{
		`"name":"test"`,
		`"types":[["P",["struct",[["x","u8"]]]]]`,
		`"constants":[]`,
		`["Local","g","let",["ptr",["struct","P"]],["Int","0",["ptr","void"],2,`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

func TestNodeEqualAcrossModules(t *testing.T) {
	a := mustLower(t, "fn f(x: i32): i32 { return x * 2; }")
	b := mustLower(t, "\n\n  fn f(x: i32): i32 {\n return x * 2;\n}")
	c := mustLower(t, "fn f(x: i32): i32 { return x * 3; }")
	fa, fb, fc := a.Functions["f"], b.Functions["f"], c.Functions["f"]
	if !NodeEqual(a, fa, b, fb) {
		t.Fatalf("layout-only differences must compare equal")
	}
	if a.NodeHash(fa) != b.NodeHash(fb) {
		t.Fatalf("hashes differ for equal nodes")
	}
	if NodeEqual(a, fa, c, fc) {
		t.Fatalf("different bodies compared equal")
	}
	if a.NodeHash(fa) == c.NodeHash(fc) {
		t.Fatalf("hash collision on a trivial change")
	}
}
