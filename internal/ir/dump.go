package ir

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// Printer writes a module as indented text.
type Printer struct {
	w      io.Writer
	m      *Module
	indent int
	err    error
}

// NewPrinter creates a printer for m.
func NewPrinter(w io.Writer, m *Module) *Printer {
	return &Printer{w: w, m: m}
}

// Dump writes the whole module to w.
func Dump(w io.Writer, m *Module) error {
	return NewPrinter(w, m).PrintModule()
}

// PrintModule prints type definitions, constants and the root sequence.
func (p *Printer) PrintModule() error {
	m := p.m
	p.printf("module %s\n", m.Name())

	names := sortedKeys(m.TypeDefs)
	if len(names) > 0 {
		p.printf("\n")
	}
	for _, name := range names {
		id := m.TypeDefs[name]
		p.printf("type %s = %s", name, p.typeDef(id))
		if sz, ok := m.Sizes[name]; ok {
			p.printf(" ; %d bits", sz)
		}
		p.printf("\n")
	}

	consts := sortedKeys(m.Constants)
	if len(consts) > 0 {
		p.printf("\n")
	}
	for _, name := range consts {
		p.printf("const %s = ", name)
		p.printExpr(m.Constants[name])
		p.printf("\n")
	}

	if len(m.Imports) > 0 {
		p.printf("\n")
		for _, imp := range m.Imports {
			p.printf("import %s\n", imp)
		}
	}

	if root := m.Node(m.Root); root != nil {
		if seq, ok := root.Data.(*SeqData); ok {
			for _, it := range seq.Items {
				p.printf("\n")
				p.printStmt(it)
			}
		}
	}
	return p.err
}

func (p *Printer) typeDef(id TypeID) string {
	t, ok := p.m.Types.Lookup(id)
	if !ok || (t.Kind != TypeStruct && t.Kind != TypeUnion) {
		return p.m.Types.Format(id)
	}
	var b strings.Builder
	b.WriteString(t.Kind.String())
	b.WriteString(" {")
	for i, f := range p.m.Fields[id] {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " %s: %s", f.Name, p.m.Types.Format(f.Type))
	}
	b.WriteString(" }")
	return b.String()
}

func (p *Printer) printStmt(id NodeID) {
	n := p.m.Node(id)
	p.printIndent()
	if n == nil {
		p.printf("<nil>\n")
		return
	}
	switch d := n.Data.(type) {
	case *FnData:
		p.printFnHeader(d)
		if d.IsDecl() {
			p.printf(";\n")
			return
		}
		p.printf(" ")
		p.printBody(d.Body)
		p.printf("\n")
	case *ExternData:
		p.printf("extern %q ", d.ABI)
		if fd, ok := p.m.Fn(d.Value); ok {
			p.printFnHeader(fd)
		}
		p.printf(";\n")
	case *SeqData:
		p.printBody(id)
		p.printf("\n")
	case *LocalData:
		p.printLocal(d)
		p.printf("\n")
	case *RetData:
		p.printf("ret")
		if d.Value.IsValid() {
			p.printf(" ")
			p.printExpr(d.Value)
		}
		p.printf("\n")
	case nil:
		if n.Kind == NodeBrk {
			p.printf("brk\n")
		} else {
			p.printf("cont\n")
		}
	case *IfData:
		if !isStmtKind(p.m, d.Then) {
			p.printExpr(id)
			p.printf("\n")
			return
		}
		p.printf("if ")
		p.printExpr(d.Cond)
		p.printf(" ")
		p.printBody(d.Then)
		if d.Else.IsValid() {
			p.printf(" else ")
			p.printBody(d.Else)
		}
		p.printf("\n")
	case *WhileData:
		p.printf("while ")
		p.printExpr(d.Cond)
		p.printf(" ")
		p.printBody(d.Body)
		p.printf("\n")
	case *ForData:
		p.printf("for (")
		if init := p.m.Node(d.Init); init != nil {
			if ld, ok := init.Data.(*LocalData); ok {
				p.printLocal(ld)
			} else {
				p.printExpr(d.Init)
			}
		}
		p.printf("; ")
		p.printExpr(d.Cond)
		p.printf("; ")
		p.printExpr(d.Step)
		p.printf(") ")
		p.printBody(d.Body)
		p.printf("\n")
	case *SwitchData:
		p.printf("switch ")
		p.printExpr(d.Cond)
		p.printf(" {\n")
		p.indent++
		for _, c := range d.Cases {
			cn := p.m.Node(c)
			cd, _ := cn.Data.(*CaseData)
			p.printIndent()
			p.printf("case ")
			p.printExpr(cd.Match)
			p.printf(" ")
			p.printBody(cd.Body)
			p.printf("\n")
		}
		if d.Default.IsValid() {
			p.printIndent()
			p.printf("default ")
			p.printBody(d.Default)
			p.printf("\n")
		}
		p.indent--
		p.printIndent()
		p.printf("}\n")
	case *AsmData:
		p.printf("asm %q\n", d.Code)
	case *TmpData:
		if d.What != "foreach" || len(d.Args) != 4 {
			p.printExpr(id)
			p.printf("\n")
			return
		}
		p.printf("foreach (")
		if idx, ok := p.m.Local(d.Args[0]); ok {
			p.printf("%s, ", idx.Name)
		}
		if val, ok := p.m.Local(d.Args[1]); ok {
			p.printf("%s", val.Name)
		}
		p.printf(" in ")
		p.printExpr(d.Args[2])
		p.printf(") ")
		p.printBody(d.Args[3])
		p.printf("\n")
	default:
		p.printExpr(id)
		p.printf("\n")
	}
}

func (p *Printer) printFnHeader(d *FnData) {
	p.printf("fn %s(", d.Name)
	for i, param := range d.Params {
		if i > 0 {
			p.printf(", ")
		}
		pd, _ := p.m.Local(param)
		p.printf("%s: %s", pd.Name, p.m.Types.Format(pd.Type))
		if pd.Init.IsValid() {
			p.printf(" = ")
			p.printExpr(pd.Init)
		}
	}
	p.printf("): %s", p.m.Types.Format(d.Ret))
}

func (p *Printer) printLocal(d *LocalData) {
	p.printf("%s %s", d.Kind, d.Name)
	if d.Type != NoTypeID {
		p.printf(": %s", p.m.Types.Format(d.Type))
	}
	if d.Init.IsValid() {
		p.printf(" = ")
		p.printExpr(d.Init)
	}
}

// printBody prints a Seq as a braced block and anything else inline.
func (p *Printer) printBody(id NodeID) {
	n := p.m.Node(id)
	var seq *SeqData
	if n != nil {
		seq, _ = n.Data.(*SeqData)
	}
	if seq == nil {
		p.printf("{\n")
		p.indent++
		if n != nil {
			p.printStmt(id)
		}
		p.indent--
		p.printIndent()
		p.printf("}")
		return
	}
	p.printf("{\n")
	p.indent++
	for _, it := range seq.Items {
		p.printStmt(it)
	}
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printExpr(id NodeID) {
	n := p.m.Node(id)
	if n == nil {
		p.printf("_")
		return
	}
	switch d := n.Data.(type) {
	case *LitData:
		switch {
		case n.Kind == NodeString:
			p.printf("%q", d.Text)
		case d.Type != NoTypeID:
			p.printf("%s:%s", d.Text, p.m.Types.Format(d.Type))
		default:
			p.printf("%s", d.Text)
		}
	case *IdentData:
		p.printf("%s", d.Name)
	case *BinExprData:
		p.printf("(")
		p.printExpr(d.Left)
		p.printf(" %s ", d.Op)
		p.printExpr(d.Right)
		p.printf(")")
	case *UnExprData:
		switch {
		case d.Op == token.KwAs:
			p.printf("(")
			p.printExpr(d.Operand)
			p.printf(" as %s)", p.m.Types.Format(d.Type))
		case d.Postfix:
			p.printf("(")
			p.printExpr(d.Operand)
			p.printf("%s)", d.Op)
		default:
			p.printf("(%s", d.Op)
			p.printExpr(d.Operand)
			p.printf(")")
		}
	case *CallData:
		p.printExpr(d.Callee)
		p.printf("(")
		p.printList(d.Args)
		p.printf(")")
	case *IndexData:
		p.printExpr(d.Base)
		if key := p.m.Node(d.Index); key != nil && key.Kind == NodeString {
			lit, _ := key.Data.(*LitData)
			p.printf(".%s", lit.Text)
			return
		}
		p.printf("[")
		p.printExpr(d.Index)
		p.printf("]")
	case *ListData:
		p.printf("[")
		p.printList(d.Elems)
		p.printf("]")
	case *IfData:
		p.printf("(")
		p.printExpr(d.Cond)
		p.printf(" ? ")
		p.printExpr(d.Then)
		p.printf(" : ")
		p.printExpr(d.Else)
		p.printf(")")
	case *LocalData:
		p.printLocal(d)
	case *TmpData:
		p.printf("tmp<%s>", d.What)
		if len(d.Args) > 0 {
			p.printf("(")
			p.printList(d.Args)
			p.printf(")")
		}
	default:
		p.printf("<%s>", n.Kind)
	}
}

func (p *Printer) printList(ids []NodeID) {
	for i, id := range ids {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(id)
	}
}

func isStmtKind(m *Module, id NodeID) bool {
	n := m.Node(id)
	return n != nil && !isValueKind(n.Kind)
}

func (p *Printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.printf("  ")
	}
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
