package ir

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/parser"
	"github.com/Kracken256/nitrate-sub001/internal/serial"
	"github.com/Kracken256/nitrate-sub001/internal/source"
)

// lowerSource parses src (which must be free of syntax errors) and lowers it.
func lowerSource(t *testing.T, src string, conf config.Conf) (*Module, bool) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nit", []byte(src))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	b := ast.NewBuilder(source.NewInterner())
	res := parser.Parse(lx, b, parser.Options{Reporter: rep})
	if !res.OK || bag.Len() != 0 {
		t.Fatalf("%q: syntax errors: %d", src, bag.Len())
	}
	m := NewModule("test")
	m.SetConf(conf)
	m.UseFileSet(fs)
	ok := Lower(m, b, res.Root)
	return m, ok
}

func mustLower(t *testing.T, src string) *Module {
	t.Helper()
	m, ok := lowerSource(t, src, config.Default())
	if !ok {
		t.Fatalf("%q: lowering failed: %s", src, diagnosticsSummary(m, PassLower))
	}
	return m
}

func passCodes(m *Module, pass string) []diag.Code {
	var out []diag.Code
	for _, d := range m.Diag.Items(m.Ticket(pass)) {
		out = append(out, d.Code)
	}
	return out
}

func diagnosticsSummary(m *Module, pass string) string {
	items := m.Diag.Items(m.Ticket(pass))
	if len(items) == 0 {
		return "<none>"
	}
	lines := make([]string, len(items))
	for i, d := range items {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func sameCodes(got, want []diag.Code) bool {
	return slices.Equal(got, want)
}

func nodeJSON(t *testing.T, m *Module, id NodeID) string {
	t.Helper()
	w := serial.NewJSONWriter()
	NewEncoder(w, m, false).Node(id)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}
	return w.String()
}
