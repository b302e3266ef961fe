package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/testkit"
)

type parsed struct {
	b   *ast.Builder
	res Result
	bag *diag.Bag
	fs  *source.FileSet
	src *source.File
}

func parseSource(t *testing.T, src string, opts Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nit", []byte(src))
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: opts.Reporter, KeepNotes: opts.KeepNotes})
	b := ast.NewBuilder(source.NewInterner())
	return parsed{b: b, res: Parse(lx, b, opts), bag: bag, fs: fs, src: fs.Get(id)}
}

// mustParse fails the test on any diagnostic.
func mustParse(t *testing.T, src string) parsed {
	t.Helper()
	p := parseSource(t, src, Options{})
	if !p.res.OK || p.bag.Len() != 0 {
		t.Fatalf("%q: unexpected diagnostics: %s", src, diagnosticsSummary(p.bag))
	}
	if err := testkit.CheckSpanInvariants(p.b, p.res.Root, p.src); err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return p
}

// treeJSON renders a statement without positions.
func treeJSON(t *testing.T, b *ast.Builder, id ast.StmtID) string {
	t.Helper()
	w := serial.NewJSONWriter()
	ast.NewEncoder(w, b, nil, false).Stmt(id)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w.String()
}

func (p parsed) json(t *testing.T) string {
	t.Helper()
	return treeJSON(t, p.b, p.res.Root)
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}
