package serial

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

func tokenize(t *testing.T, src string) (*source.FileSet, []token.Token) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nit", []byte(src))
	return fs, lexer.Tokenize(fs.Get(id), lexer.Options{})
}

func TestTokensGoldenJSON(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{
			src:  "let x = 1;",
			want: `[[1,"let",1,1,1,4],[4,"x",1,5,1,6],[2,"=",1,7,1,8],[5,"1",1,9,1,10],[3,";",1,10,1,11]]`,
		},
		{
			src: "fn f() {\n  return 2.5;\n}",
			want: `[[1,"fn",1,1,1,3],[4,"f",1,4,1,5],[3,"(",1,5,1,6],[3,")",1,6,1,7],[3,"{",1,8,1,9],` +
				`[1,"return",2,3,2,9],[6,"2.5",2,10,2,13],[3,";",2,13,2,14],[3,"}",3,1,3,2]]`,
		},
		{
			src:  `print("a\"b");`,
			want: `[[4,"print",1,1,1,6],[3,"(",1,6,1,7],[7,"\"a\\\"b\"",1,7,1,13],[3,")",1,13,1,14],[3,";",1,14,1,15]]`,
		},
		{src: "", want: `[]`},
	}
	for _, tc := range cases {
		fs, toks := tokenize(t, tc.src)
		got, err := EncodeTokens(FormatJSON, fs, toks)
		if err != nil {
			t.Fatalf("%q: %v", tc.src, err)
		}
		if string(got) != tc.want {
			t.Fatalf("%q:\n got %s\nwant %s", tc.src, got, tc.want)
		}
	}
}

func TestTokensGoldenMsgPack(t *testing.T) {
	fs, toks := tokenize(t, "let x = 1;")
	got, err := EncodeTokens(FormatMsgPack, fs, toks)
	if err != nil {
		t.Fatal(err)
	}
	want := "95" +
		"9601a36c6574" + "01010104" +
		"9604a178" + "01050106" +
		"9602a13d" + "01070108" +
		"9605a131" + "0109010a" +
		"9603a13b" + "010a010b"
	if hex.EncodeToString(got) != want {
		t.Fatalf("got  %x\nwant %s", got, want)
	}
}

const sample = `@(fn twice(x) { return x * 2 })
scope demo: [std] {
  # a note
  let answer: i32 = 42;
  const pi = 3.14159;
  var name = "nitrate";

  fn add(a: i32, b: i32): i32 {
    return a + b;
  }

  for (let i = 0; i < 10; i = i + 1) => add(i, 'c');

  while answer > 0 {
    answer -= 1;
  }
  retif answer == 0, @twice(21);
}`

func TestTokensRoundTrip(t *testing.T) {
	fs, toks := tokenize(t, sample)
	if len(toks) < 50 {
		t.Fatalf("sample too short: %d tokens", len(toks))
	}
	for _, f := range []Format{FormatJSON, FormatMsgPack} {
		data, err := EncodeTokens(f, fs, toks)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		recs, err := DecodeTokens(f, data)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if len(recs) != len(toks) {
			t.Fatalf("%s: %d records for %d tokens", f, len(recs), len(toks))
		}
		for i, r := range recs {
			start, end := fs.Resolve(toks[i].Span)
			if !r.Same(toks[i]) || r.Start != start || r.End != end {
				t.Fatalf("%s: token %d: %+v vs %v %q", f, i, r, toks[i].Kind, toks[i].Text)
			}
		}
	}
}

func TestJSONAndMsgPackAgree(t *testing.T) {
	fs, toks := tokenize(t, sample)
	mp, err := EncodeTokens(FormatMsgPack, fs, toks)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := ParseMsgPack(mp)
	if err != nil {
		t.Fatal(err)
	}
	w := NewJSONWriter()
	doc.Visit(w)
	direct, _ := EncodeTokens(FormatJSON, fs, toks)
	if w.String() != string(direct) {
		t.Fatalf("msgpack->json differs:\n%s\n%s", w.String(), direct)
	}
}

func TestJSONWriterObjects(t *testing.T) {
	w := NewJSONWriter()
	w.BeginObj(4)
	w.Str("a")
	w.Uint(1)
	w.Str("b")
	w.BeginArr(3)
	w.Bool(true)
	w.Null()
	w.Double(0.5)
	w.EndArr()
	w.Str("c\n")
	w.Str("\x01<>")
	w.Str("d")
	w.BeginObj(0)
	w.EndObj()
	w.EndObj()
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	want := `{"a":1,"b":[true,null,0.5],"c\n":"\u0001<>","d":{}}`
	if w.String() != want {
		t.Fatalf("got %s", w.String())
	}

	doc, err := ParseJSON(w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Obj[1].Key != "b" || doc.Obj[2].Key != "c\n" || doc.Obj[2].Val.S != "\x01<>" {
		t.Fatalf("member order or escapes lost: %s", doc)
	}
}

func TestJSONWriterUnbalanced(t *testing.T) {
	w := NewJSONWriter()
	w.BeginArr(0)
	w.EndObj()
	if w.Err() == nil {
		t.Fatalf("expected error")
	}
}

func TestReadTokensErrors(t *testing.T) {
	bad := []string{
		`{}`,
		`[[1,"let",1,1,1]]`,
		`[[1,2,1,1,1,1]]`,
		`[[1,"nope",1,1,1,1]]`,
		`[[0,"",1,1,1,1]]`,
		`[[99,"x",1,1,1,1]]`,
		`[[4,"x",-1,1,1,1]]`,
	}
	for _, src := range bad {
		if _, err := DecodeTokens(FormatJSON, []byte(src)); err == nil {
			t.Fatalf("%s: expected error", src)
		}
	}
	if _, err := ParseJSON([]byte(`[1] 2`)); err == nil || !strings.Contains(err.Error(), "trailing") {
		t.Fatalf("trailing data: %v", err)
	}
}

func TestMsgPackScalars(t *testing.T) {
	w := NewMsgPackWriter()
	w.BeginArr(5)
	w.Uint(300)
	w.Double(1.5)
	w.Bool(false)
	w.Null()
	w.BeginObj(1)
	w.Str("k")
	w.Str("v")
	w.EndObj()
	w.EndArr()
	doc, err := ParseMsgPack(w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.String(); got != `[300,1.5,false,null,{"k":"v"}]` {
		t.Fatalf("got %s", got)
	}
}
