package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

// PassLower is the bookkeeping name of Lower.
const PassLower = "lower"

// Lower converts the statement tree at root into m and sets m.Root.
// Diagnostics go to m.Ticket(PassLower). It reports false when an error was reported.
func Lower(m *Module, b *ast.Builder, root ast.StmtID) bool {
	return m.ApplyPass(PassLower, func() bool {
		// names in the IR come from the unit's table
		m.Strings = b.Strings
		l := newLowerer(m, b)
		l.run(root)
		return l.errors == 0
	})
}

type pendingStruct struct {
	id   TypeID
	stmt ast.StmtID
	ns   []string
}

type lowerer struct {
	m   *Module
	b   *ast.Builder
	rep diag.Reporter

	errors    int
	fastError bool
	aborted   bool

	ns     []string
	locals []map[string]NodeID
	loops  int

	fnNodes map[ast.StmtID]NodeID
	items   []NodeID
}

func newLowerer(m *Module, b *ast.Builder) *lowerer {
	return &lowerer{
		m:         m,
		b:         b,
		rep:       m.Diag.Reporter(m.Ticket(PassLower)),
		fastError: m.GetConf().FastError(),
		fnNodes:   make(map[ast.StmtID]NodeID),
	}
}

func (l *lowerer) report(code diag.Code, sev diag.Severity, span source.Span, msg string) {
	if l.aborted {
		return
	}
	l.rep.Report(code, sev, span, msg, nil)
	if sev < diag.SevError {
		return
	}
	l.errors++
	if l.fastError {
		l.aborted = true
		l.rep.Report(diag.SemaFastErrorAbort, diag.SevFatal, span, "lowering aborted after first error (-ffasterror)", nil)
	}
}

func (l *lowerer) errorf(code diag.Code, span source.Span, format string, args ...any) {
	l.report(code, diag.SevError, span, fmt.Sprintf(format, args...))
}

func (l *lowerer) run(root ast.StmtID) {
	top := l.topLevel(root)
	var structs []pendingStruct
	l.declareTypes(top, &structs)
	l.defineTypes(top)
	for _, ps := range structs {
		l.defineStruct(ps)
	}
	l.declareFns(top)
	l.lowerTop(top)
	l.m.Root = l.m.New(NodeSeq, l.stmtSpan(root), &SeqData{Items: l.items})
}

func (l *lowerer) topLevel(root ast.StmtID) []ast.StmtID {
	if blk, ok := l.b.Stmts.Block(root); ok {
		return blk.Stmts
	}
	if root.IsValid() {
		return []ast.StmtID{root}
	}
	return nil
}

func (l *lowerer) stmtSpan(id ast.StmtID) source.Span {
	if st := l.b.Stmts.Get(id); st != nil {
		return st.Span
	}
	return source.Span{}
}

func (l *lowerer) exprSpan(id ast.ExprID) source.Span {
	if e := l.b.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

// Names ----------------------------------------------------------------------

func (l *lowerer) qualify(name string) string {
	if len(l.ns) == 0 {
		return name
	}
	return strings.Join(l.ns, "::") + "::" + name
}

// resolveGlobal tries name in the current scope and every enclosing one.
func resolveGlobal[V any](l *lowerer, table map[string]V, name string) (V, string, bool) {
	for i := len(l.ns); i >= 0; i-- {
		q := name
		if i > 0 {
			q = strings.Join(l.ns[:i], "::") + "::" + name
		}
		if v, ok := table[q]; ok {
			return v, q, true
		}
	}
	var zero V
	return zero, "", false
}

// inScope runs fn with the scope statement's name pushed, if any.
func (l *lowerer) inScope(id ast.StmtID, fn func(body []ast.StmtID)) {
	sc, ok := l.b.Stmts.Scope(id)
	if !ok {
		return
	}
	name := l.b.Str(sc.Name)
	if name != "" {
		l.ns = append(l.ns, name)
		defer func() { l.ns = l.ns[:len(l.ns)-1] }()
	}
	fn(l.topLevel(sc.Body))
}

func (l *lowerer) pushLocals() { l.locals = append(l.locals, make(map[string]NodeID)) }
func (l *lowerer) popLocals()  { l.locals = l.locals[:len(l.locals)-1] }

func (l *lowerer) bindLocal(name string, id NodeID, span source.Span) {
	if len(l.locals) == 0 {
		return
	}
	top := l.locals[len(l.locals)-1]
	if _, dup := top[name]; dup {
		l.errorf(diag.SemaDuplicateDefinition, span, "'%s' is already defined in this block", name)
	}
	top[name] = id
}

func (l *lowerer) lookupLocal(name string) (NodeID, bool) {
	for i := len(l.locals) - 1; i >= 0; i-- {
		if id, ok := l.locals[i][name]; ok {
			return id, true
		}
	}
	return NoNodeID, false
}

// Declarations -----------------------------------------------------------------

func (l *lowerer) declareTypes(stmts []ast.StmtID, structs *[]pendingStruct) {
	for _, id := range stmts {
		if l.aborted {
			return
		}
		st := l.b.Stmts.Get(id)
		if st == nil {
			continue
		}
		switch st.Kind {
		case ast.StmtStruct:
			d, _ := l.b.Stmts.Struct(id)
			name := l.qualify(l.b.Str(d.Name))
			if _, dup := l.m.TypeDefs[name]; dup {
				l.errorf(diag.SemaDuplicateDefinition, st.Span, "type '%s' is already defined", name)
				continue
			}
			var tid TypeID
			if d.Union {
				tid = l.m.Types.Add(MakeUnion(name))
			} else {
				tid = l.m.Types.Add(MakeStruct(name))
			}
			l.m.TypeDefs[name] = tid
			*structs = append(*structs, pendingStruct{id: tid, stmt: id, ns: append([]string(nil), l.ns...)})
		case ast.StmtScope:
			l.inScope(id, func(body []ast.StmtID) { l.declareTypes(body, structs) })
		}
	}
}

// defineTypes resolves enums and typedefs in source order.
func (l *lowerer) defineTypes(stmts []ast.StmtID) {
	for _, id := range stmts {
		if l.aborted {
			return
		}
		st := l.b.Stmts.Get(id)
		if st == nil {
			continue
		}
		switch st.Kind {
		case ast.StmtTypedef:
			d, _ := l.b.Stmts.Typedef(id)
			name := l.qualify(l.b.Str(d.Name))
			if _, dup := l.m.TypeDefs[name]; dup {
				l.errorf(diag.SemaDuplicateDefinition, st.Span, "type '%s' is already defined", name)
				continue
			}
			l.m.TypeDefs[name] = l.lowerType(d.Type)
		case ast.StmtEnum:
			l.defineEnum(id, st)
		case ast.StmtScope:
			l.inScope(id, l.defineTypes)
		}
	}
}

func (l *lowerer) defineEnum(id ast.StmtID, st *ast.Stmt) {
	d, _ := l.b.Stmts.Enum(id)
	name := l.qualify(l.b.Str(d.Name))
	if _, dup := l.m.TypeDefs[name]; dup {
		l.errorf(diag.SemaDuplicateDefinition, st.Span, "type '%s' is already defined", name)
		return
	}
	under := Prim(TypeI32)
	if d.Type.IsValid() {
		under = l.lowerType(d.Type)
	}
	l.m.TypeDefs[name] = under

	// items may refer to earlier items by their bare name
	l.ns = append(l.ns, l.b.Str(d.Name))
	defer func() { l.ns = l.ns[:len(l.ns)-1] }()

	next := int64(0)
	known := true
	for _, it := range d.Items {
		item := name + "::" + l.b.Str(it.Name)
		span := st.Span
		var val NodeID
		if it.Value.IsValid() {
			span = l.exprSpan(it.Value)
			if v, ok := l.evalConst(it.Value); ok {
				next, known = v, true
				val = l.m.New(NodeInt, span, &LitData{Text: strconv.FormatInt(v, 10), Type: under})
			} else {
				known = false
				val = l.lowerExpr(it.Value)
			}
		} else {
			if !known {
				l.errorf(diag.SemaTypeInference, span, "cannot infer the value of '%s' after a non-constant item", item)
			}
			val = l.m.New(NodeInt, span, &LitData{Text: strconv.FormatInt(next, 10), Type: under})
		}
		next++
		if _, dup := l.m.Constants[item]; dup {
			l.errorf(diag.SemaDuplicateDefinition, span, "'%s' is already defined", item)
			continue
		}
		l.m.Constants[item] = val
	}
}

func (l *lowerer) defineStruct(ps pendingStruct) {
	if l.aborted {
		return
	}
	saved := l.ns
	l.ns = ps.ns
	defer func() { l.ns = saved }()

	d, _ := l.b.Stmts.Struct(ps.stmt)
	t := l.m.Types.MustLookup(ps.id)
	fields := make([]Field, 0, len(d.Fields))
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		fname := l.b.Str(f.Name)
		if seen[fname] {
			l.errorf(diag.SemaDuplicateDefinition, l.stmtSpan(ps.stmt), "field '%s' is already defined in '%s'", fname, t.Name)
			continue
		}
		seen[fname] = true
		fl := Field{Name: fname, Type: l.lowerType(f.Type)}
		if f.Default.IsValid() {
			fl.Default = l.lowerExpr(f.Default)
		}
		fields = append(fields, fl)
		t.Fields = append(t.Fields, fl.Type)
	}
	l.m.Types.Set(ps.id, t)
	l.m.Fields[ps.id] = fields
}

func (l *lowerer) declareFns(stmts []ast.StmtID) {
	for _, id := range stmts {
		if l.aborted {
			return
		}
		st := l.b.Stmts.Get(id)
		if st == nil {
			continue
		}
		switch st.Kind {
		case ast.StmtFn:
			l.declareFn(id, st)
		case ast.StmtScope:
			l.inScope(id, l.declareFns)
		}
	}
}

func (l *lowerer) declareFn(id ast.StmtID, st *ast.Stmt) {
	d, _ := l.b.Stmts.Fn(id)
	name := l.qualify(l.b.Str(d.Name))
	if prev, dup := l.m.Functions[name]; dup {
		pd, _ := l.m.Fn(prev)
		// a definition may follow its declaration
		if !pd.IsDecl() || d.IsDecl() {
			l.errorf(diag.SemaDuplicateDefinition, st.Span, "function '%s' is already defined", name)
			return
		}
	}
	params := make([]NodeID, 0, len(d.Params))
	ptypes := make([]TypeID, 0, len(d.Params))
	for _, p := range d.Params {
		pt := l.lowerType(p.Type)
		pd := &LocalData{Name: l.b.Str(p.Name), Kind: LocalParam, Type: pt}
		if p.Default.IsValid() {
			pd.Init = l.lowerExpr(p.Default)
		}
		params = append(params, l.m.New(NodeLocal, st.Span, pd))
		ptypes = append(ptypes, pt)
	}
	ret := Prim(TypeVoid)
	if d.Ret.IsValid() {
		ret = l.lowerType(d.Ret)
	}
	fd := &FnData{
		Name:   name,
		Params: params,
		Ret:    ret,
		Type:   l.m.Types.Add(MakeFn(ptypes, ret, false)),
	}
	fn := l.m.New(NodeFn, st.Span, fd)
	l.m.Functions[name] = fn
	l.m.fnOrder = append(l.m.fnOrder, fn)
	l.fnNodes[id] = fn
}

// Top level -------------------------------------------------------------------

func (l *lowerer) lowerTop(stmts []ast.StmtID) {
	for _, id := range stmts {
		if l.aborted {
			return
		}
		st := l.b.Stmts.Get(id)
		if st == nil {
			continue
		}
		switch st.Kind {
		case ast.StmtFn:
			l.lowerFnBody(id, st)
		case ast.StmtVar:
			if n := l.lowerGlobal(id, st); n.IsValid() {
				l.items = append(l.items, n)
			}
		case ast.StmtStruct, ast.StmtEnum, ast.StmtTypedef, ast.StmtMock:
			// handled by the declaration passes
		case ast.StmtImport:
			d, _ := l.b.Stmts.Import(id)
			l.m.Imports = append(l.m.Imports, l.b.Str(d.Name))
		case ast.StmtScope:
			l.inScope(id, l.lowerTop)
		default:
			if n := l.lowerStmt(id); n.IsValid() {
				l.items = append(l.items, n)
			}
		}
	}
}

func (l *lowerer) lowerGlobal(id ast.StmtID, st *ast.Stmt) NodeID {
	d, _ := l.b.Stmts.Var(id)
	name := l.qualify(l.b.Str(d.Name))
	if _, dup := l.m.Globals[name]; dup {
		l.errorf(diag.SemaDuplicateDefinition, st.Span, "global '%s' is already defined", name)
		return NoNodeID
	}
	n := l.lowerVar(d, st.Span, name)
	if ld, ok := l.m.Local(n); ok {
		ld.Global = true
	}
	l.m.Globals[name] = n
	return n
}

func (l *lowerer) lowerFnBody(id ast.StmtID, st *ast.Stmt) {
	fn, ok := l.fnNodes[id]
	if !ok {
		return
	}
	fd, _ := l.m.Fn(fn)
	d, _ := l.b.Stmts.Fn(id)
	if d.IsDecl() {
		l.items = append(l.items, l.m.New(NodeExtern, st.Span, &ExternData{Name: fd.Name, ABI: "c", Value: fn}))
		return
	}
	l.pushLocals()
	for _, p := range fd.Params {
		pd, _ := l.m.Local(p)
		l.bindLocal(pd.Name, p, st.Span)
	}
	savedLoops := l.loops
	l.loops = 0
	fd.Body = l.lowerStmt(d.Body)
	l.loops = savedLoops
	l.popLocals()
	l.items = append(l.items, fn)
}

// Statements ------------------------------------------------------------------

func (l *lowerer) lowerStmt(id ast.StmtID) NodeID {
	if l.aborted {
		return NoNodeID
	}
	st := l.b.Stmts.Get(id)
	if st == nil {
		return NoNodeID
	}
	s := l.b.Stmts
	switch st.Kind {
	case ast.StmtMock:
		return NoNodeID
	case ast.StmtBlock:
		d, _ := s.Block(id)
		l.pushLocals()
		defer l.popLocals()
		items := make([]NodeID, 0, len(d.Stmts))
		for _, c := range d.Stmts {
			if n := l.lowerStmt(c); n.IsValid() {
				items = append(items, n)
			}
		}
		return l.m.New(NodeSeq, st.Span, &SeqData{Items: items})
	case ast.StmtExpr:
		d, _ := s.Expr(id)
		return l.lowerExpr(d.Expr)
	case ast.StmtVar:
		d, _ := s.Var(id)
		name := l.b.Str(d.Name)
		n := l.lowerVar(d, st.Span, name)
		l.bindLocal(name, n, st.Span)
		return n
	case ast.StmtReturn:
		d, _ := s.Return(id)
		return l.m.New(NodeRet, st.Span, &RetData{Value: l.lowerExpr(d.Value)})
	case ast.StmtRetif:
		d, _ := s.Return(id)
		ret := l.m.New(NodeRet, st.Span, &RetData{Value: l.lowerExpr(d.Value)})
		return l.m.New(NodeIf, st.Span, &IfData{Cond: l.lowerExpr(d.Cond), Then: ret})
	case ast.StmtBreak, ast.StmtContinue:
		if l.loops == 0 {
			l.errorf(diag.SemaBreakOutsideLoop, st.Span, "'%s' outside of a loop", strings.ToLower(st.Kind.String()))
		}
		if st.Kind == ast.StmtBreak {
			return l.m.New(NodeBrk, st.Span, nil)
		}
		return l.m.New(NodeCont, st.Span, nil)
	case ast.StmtIf:
		d, _ := s.If(id)
		return l.m.New(NodeIf, st.Span, &IfData{
			Cond: l.lowerExpr(d.Cond),
			Then: l.lowerStmt(d.Then),
			Else: l.lowerStmt(d.Else),
		})
	case ast.StmtWhile:
		d, _ := s.While(id)
		cond := l.lowerExpr(d.Cond)
		l.loops++
		body := l.lowerStmt(d.Body)
		l.loops--
		return l.m.New(NodeWhile, st.Span, &WhileData{Cond: cond, Body: body})
	case ast.StmtFor:
		d, _ := s.For(id)
		l.pushLocals()
		defer l.popLocals()
		fd := &ForData{Init: l.lowerStmt(d.Init), Cond: l.lowerExpr(d.Cond), Step: l.lowerExpr(d.Step)}
		l.loops++
		fd.Body = l.lowerStmt(d.Body)
		l.loops--
		return l.m.New(NodeFor, st.Span, fd)
	case ast.StmtForeach:
		return l.lowerForeach(id, st)
	case ast.StmtSwitch:
		d, _ := s.Switch(id)
		sd := &SwitchData{Cond: l.lowerExpr(d.Cond)}
		for _, c := range d.Cases {
			match := l.lowerExpr(c.Match)
			body := l.lowerStmt(c.Body)
			sd.Cases = append(sd.Cases, l.m.New(NodeCase, l.exprSpan(c.Match).Cover(l.stmtSpan(c.Body)), &CaseData{Match: match, Body: body}))
		}
		sd.Default = l.lowerStmt(d.Default)
		return l.m.New(NodeSwitch, st.Span, sd)
	case ast.StmtAsm:
		d, _ := s.Asm(id)
		return l.m.New(NodeAsm, st.Span, &AsmData{Code: l.b.Str(d.Code)})
	case ast.StmtFn, ast.StmtStruct, ast.StmtEnum, ast.StmtTypedef, ast.StmtScope, ast.StmtImport:
		l.errorf(diag.SemaUnsupported, st.Span, "%s declaration is only allowed at the top level", strings.ToLower(st.Kind.String()))
		return NoNodeID
	default:
		panic(fmt.Sprintf("ir: lowerStmt: unhandled statement kind %s", st.Kind))
	}
}

func (l *lowerer) lowerVar(d *ast.StmtVarData, span source.Span, name string) NodeID {
	ld := &LocalData{Name: name, Kind: LocalKind(d.Kind)}
	if d.Type.IsValid() {
		ld.Type = l.lowerType(d.Type)
	}
	if d.Init.IsValid() {
		ld.Init = l.lowerExpr(d.Init)
	}
	if ld.Type == NoTypeID && ld.Init == NoNodeID {
		l.errorf(diag.SemaTypeInference, span, "'%s' needs a type or an initializer", name)
	}
	return l.m.New(NodeLocal, span, ld)
}

// foreach is kept as Tmp{"foreach", [index, value, iter, body]}.
func (l *lowerer) lowerForeach(id ast.StmtID, st *ast.Stmt) NodeID {
	d, _ := l.b.Stmts.Foreach(id)
	iter := l.lowerExpr(d.Iter)
	elem := NoTypeID
	if t, ok := InferType(l.m, iter); ok {
		switch tt := l.m.Types.MustLookup(t); tt.Kind {
		case TypeArray, TypePtr:
			elem = tt.Elem
		case TypeTmp:
		default:
			l.errorf(diag.SemaNotIterable, l.exprSpan(d.Iter), "cannot iterate over a value of type %s", l.m.Types.Format(t))
		}
	}
	if elem == NoTypeID {
		elem = l.m.Types.Add(MakeTmp(""))
	}

	l.pushLocals()
	defer l.popLocals()
	idx := NoNodeID
	if d.Index != source.NoStringID {
		name := l.b.Str(d.Index)
		idx = l.m.New(NodeLocal, st.Span, &LocalData{Name: name, Kind: LocalLet, Type: Prim(TypeU64)})
		l.bindLocal(name, idx, st.Span)
	}
	vname := l.b.Str(d.Value)
	val := l.m.New(NodeLocal, st.Span, &LocalData{Name: vname, Kind: LocalLet, Type: elem})
	l.bindLocal(vname, val, st.Span)

	l.loops++
	body := l.lowerStmt(d.Body)
	l.loops--
	return l.m.New(NodeTmp, st.Span, &TmpData{What: "foreach", Args: []NodeID{idx, val, iter, body}})
}

// Expressions -----------------------------------------------------------------

func (l *lowerer) lowerExpr(id ast.ExprID) NodeID {
	if l.aborted || !id.IsValid() {
		return NoNodeID
	}
	e := l.b.Exprs.Get(id)
	if e == nil {
		return NoNodeID
	}
	ex := l.b.Exprs
	switch e.Kind {
	case ast.ExprMock:
		return l.m.New(NodeTmp, e.Span, &TmpData{What: "error"})
	case ast.ExprInt:
		d, _ := ex.Literal(id)
		text := l.b.Str(d.Value)
		if _, err := strconv.ParseInt(text, 0, 64); err != nil {
			if _, uerr := strconv.ParseUint(text, 0, 64); uerr != nil {
				l.report(diag.SemaTypeInference, diag.SevWarning, e.Span, fmt.Sprintf("integer literal %s does not fit in 64 bits", text))
			}
		}
		return l.m.New(NodeInt, e.Span, &LitData{Text: text})
	case ast.ExprFloat:
		d, _ := ex.Literal(id)
		return l.m.New(NodeFloat, e.Span, &LitData{Text: l.b.Str(d.Value)})
	case ast.ExprString:
		d, _ := ex.Literal(id)
		text := l.b.Str(d.Value)
		if s, err := lexer.Unquote(text); err == nil {
			text = s
		}
		return l.m.New(NodeString, e.Span, &LitData{Text: text})
	case ast.ExprChar:
		d, _ := ex.Literal(id)
		text := l.b.Str(d.Value)
		s, err := lexer.Unquote(text)
		r := []rune(s)
		if err != nil || len(r) != 1 {
			l.errorf(diag.SemaTypeInference, e.Span, "invalid character literal %s", text)
			return l.m.New(NodeInt, e.Span, &LitData{Text: "0", Type: Prim(TypeU8)})
		}
		typ := Prim(TypeU8)
		if r[0] > 0xff {
			typ = Prim(TypeU32)
		}
		return l.m.New(NodeInt, e.Span, &LitData{Text: strconv.Itoa(int(r[0])), Type: typ})
	case ast.ExprBool:
		d, _ := ex.Literal(id)
		text := "0"
		if l.b.Str(d.Value) == "true" {
			text = "1"
		}
		return l.m.New(NodeInt, e.Span, &LitData{Text: text, Type: Prim(TypeU1)})
	case ast.ExprNull:
		return l.m.New(NodeInt, e.Span, &LitData{Text: "0", Type: l.m.Types.Add(MakePtr(Prim(TypeVoid)))})
	case ast.ExprUndef:
		return l.m.New(NodeTmp, e.Span, &TmpData{What: "undef"})
	case ast.ExprIdent:
		d, _ := ex.Ident(id)
		return l.lowerIdent(l.b.Str(d.Name), e.Span)
	case ast.ExprBinary, ast.ExprAssign:
		d, _ := ex.Binary(id)
		return l.m.New(NodeBinExpr, e.Span, &BinExprData{Op: d.Op, Left: l.lowerExpr(d.Left), Right: l.lowerExpr(d.Right)})
	case ast.ExprUnary, ast.ExprPostfix:
		d, _ := ex.Unary(id)
		return l.m.New(NodeUnExpr, e.Span, &UnExprData{Op: d.Op, Operand: l.lowerExpr(d.Operand), Postfix: e.Kind == ast.ExprPostfix})
	case ast.ExprTernary:
		d, _ := ex.Ternary(id)
		return l.m.New(NodeIf, e.Span, &IfData{Cond: l.lowerExpr(d.Cond), Then: l.lowerExpr(d.Then), Else: l.lowerExpr(d.Else)})
	case ast.ExprCall:
		return l.lowerCall(id, e)
	case ast.ExprIndex:
		d, _ := ex.Index(id)
		return l.m.New(NodeIndex, e.Span, &IndexData{Base: l.lowerExpr(d.Base), Index: l.lowerExpr(d.Index)})
	case ast.ExprMember:
		d, _ := ex.Member(id)
		if base, ok := ex.Ident(d.Base); ok {
			// Enum.Item
			if _, isLocal := l.lookupLocal(l.b.Str(base.Name)); !isLocal {
				item := l.b.Str(base.Name) + "::" + l.b.Str(d.Field)
				if c, q, found := resolveGlobal(l, l.m.Constants, item); found {
					return l.m.New(NodeIdent, e.Span, &IdentData{Name: q, Target: c})
				}
			}
		}
		key := l.m.New(NodeString, e.Span, &LitData{Text: l.b.Str(d.Field)})
		return l.m.New(NodeIndex, e.Span, &IndexData{Base: l.lowerExpr(d.Base), Index: key})
	case ast.ExprList:
		d, _ := ex.List(id)
		elems := make([]NodeID, 0, len(d.Elems))
		for _, el := range d.Elems {
			elems = append(elems, l.lowerExpr(el))
		}
		return l.m.New(NodeList, e.Span, &ListData{Elems: elems})
	case ast.ExprCast:
		d, _ := ex.Cast(id)
		return l.m.New(NodeUnExpr, e.Span, &UnExprData{Op: token.KwAs, Operand: l.lowerExpr(d.Value), Type: l.lowerType(d.Type)})
	default:
		panic(fmt.Sprintf("ir: lowerExpr: unhandled expression kind %s", e.Kind))
	}
}

func (l *lowerer) lowerIdent(name string, span source.Span) NodeID {
	if id, ok := l.lookupLocal(name); ok {
		return l.m.New(NodeIdent, span, &IdentData{Name: name, Target: id})
	}
	if id, q, ok := resolveGlobal(l, l.m.Functions, name); ok {
		return l.m.New(NodeIdent, span, &IdentData{Name: q, Target: id})
	}
	if id, q, ok := resolveGlobal(l, l.m.Globals, name); ok {
		return l.m.New(NodeIdent, span, &IdentData{Name: q, Target: id})
	}
	if id, q, ok := resolveGlobal(l, l.m.Constants, name); ok {
		return l.m.New(NodeIdent, span, &IdentData{Name: q, Target: id})
	}
	l.errorf(diag.SemaUnknownIdentifier, span, "unknown identifier '%s'", name)
	return l.m.New(NodeIdent, span, &IdentData{Name: name})
}

func (l *lowerer) lowerCall(id ast.ExprID, e *ast.Expr) NodeID {
	d, _ := l.b.Exprs.Call(id)
	cd := &CallData{}
	args := d.Args

	if ident, ok := l.b.Exprs.Ident(d.Callee); ok {
		name := l.b.Str(ident.Name)
		calleeSpan := l.exprSpan(d.Callee)
		if _, isLocal := l.lookupLocal(name); !isLocal {
			fn, q, found := resolveGlobal(l, l.m.Functions, name)
			if !found {
				if _, _, isGlobal := resolveGlobal(l, l.m.Globals, name); !isGlobal {
					l.errorf(diag.SemaUnknownFunction, calleeSpan, "unknown function '%s'", name)
					cd.Callee = l.m.New(NodeIdent, calleeSpan, &IdentData{Name: name})
					cd.Args = l.lowerArgs(args)
					return l.m.New(NodeCall, e.Span, cd)
				}
			} else {
				cd.Callee = l.m.New(NodeIdent, calleeSpan, &IdentData{Name: q, Target: fn})
				cd.Target = fn
				cd.Args = l.lowerArgs(args)
				l.checkArity(fn, cd, e.Span)
				return l.m.New(NodeCall, e.Span, cd)
			}
		}
	}
	cd.Callee = l.lowerExpr(d.Callee)
	cd.Args = l.lowerArgs(args)
	return l.m.New(NodeCall, e.Span, cd)
}

func (l *lowerer) lowerArgs(args []ast.ExprID) []NodeID {
	out := make([]NodeID, 0, len(args))
	for _, a := range args {
		out = append(out, l.lowerExpr(a))
	}
	return out
}

// checkArity validates argument count and appends parameter defaults.
func (l *lowerer) checkArity(fn NodeID, cd *CallData, span source.Span) {
	fd, _ := l.m.Fn(fn)
	if len(cd.Args) > len(fd.Params) && !fd.Variadic {
		l.errorf(diag.SemaTooManyArguments, span, "too many arguments to '%s': have %d, want %d", fd.Name, len(cd.Args), len(fd.Params))
		return
	}
	for i := len(cd.Args); i < len(fd.Params); i++ {
		pd, _ := l.m.Local(fd.Params[i])
		if !pd.Init.IsValid() {
			l.errorf(diag.SemaTooFewArguments, span, "too few arguments to '%s': missing '%s'", fd.Name, pd.Name)
			return
		}
		cd.Args = append(cd.Args, pd.Init)
	}
}

// Types -----------------------------------------------------------------------

func (l *lowerer) lowerType(id ast.TypeID) TypeID {
	t := l.b.Types.Get(id)
	if t == nil {
		return l.m.Types.Add(MakeTmp(""))
	}
	tt := l.b.Types
	switch t.Kind {
	case ast.TypeMock:
		return l.m.Types.Add(MakeTmp(""))
	case ast.TypeVoid:
		return Prim(TypeVoid)
	case ast.TypePrim, ast.TypeNamed:
		d, _ := tt.Name(id)
		name := l.b.Str(d.Name)
		if k, ok := PrimByName(name); ok {
			return Prim(k)
		}
		if tid, _, ok := resolveGlobal(l, l.m.TypeDefs, name); ok {
			return tid
		}
		l.errorf(diag.SemaUnknownType, t.Span, "unknown type '%s'", name)
		return l.m.Types.Add(MakeTmp(name))
	case ast.TypePtr:
		d, _ := tt.Ptr(id)
		return l.m.Types.Add(MakePtr(l.lowerType(d.Elem)))
	case ast.TypeArray:
		d, _ := tt.Array(id)
		elem := l.lowerType(d.Elem)
		n, ok := l.evalConst(d.Size)
		if !ok || n < 0 {
			l.errorf(diag.SemaTypeInference, l.exprSpan(d.Size), "array size must be a non-negative integer constant")
			return l.m.Types.Add(MakeTmp(""))
		}
		return l.m.Types.Add(MakeArray(elem, uint64(n)))
	case ast.TypeFn:
		d, _ := tt.Fn(id)
		params := make([]TypeID, 0, len(d.Params))
		for _, p := range d.Params {
			params = append(params, l.lowerType(p))
		}
		ret := Prim(TypeVoid)
		if d.Ret.IsValid() {
			ret = l.lowerType(d.Ret)
		}
		return l.m.Types.Add(MakeFn(params, ret, false))
	default:
		panic(fmt.Sprintf("ir: lowerType: unhandled type kind %s", t.Kind))
	}
}
