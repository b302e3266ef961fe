package macro

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// installAPI exposes the global table `n` to macro code.
func (c *Core) installAPI() {
	L := c.L
	api := L.NewTable()
	L.SetFuncs(api, map[string]lua.LGFunction{
		"get":    c.luaGet,
		"set":    c.luaSet,
		"define": c.luaDefine,
		"defer":  c.luaDefer,
		"emit":   c.luaEmit,
		"next":   c.luaNext,
		"peek":   c.luaPeek,
		"debug":  c.luaLog(diag.SevDebug),
		"info":   c.luaLog(diag.SevInfo),
		"warn":   c.luaLog(diag.SevWarning),
		"error":  c.luaLog(diag.SevError),
		"abort":  c.luaAbort,
		"import": c.luaImport,
	})
	L.SetField(api, "EMIT", lua.LString(ActionEmit.String()))
	L.SetField(api, "SKIP", lua.LString(ActionSkip.String()))
	L.SetField(api, "UNINSTALL", lua.LString(ActionUninstall.String()))
	L.SetGlobal("n", api)
	L.SetGlobal("import", L.GetField(api, "import"))
	L.SetGlobal("print", L.NewFunction(c.luaPrint))
}

// site is the span of the token whose macro is running.
func (c *Core) site() source.Span {
	if s := c.current(); s != nil {
		return s.last
	}
	return source.Span{}
}

func (c *Core) tokenTable(t token.Token) *lua.LTable {
	tbl := c.L.NewTable()
	tbl.RawSetString("kind", lua.LString(t.Kind.Category().String()))
	text := t.Text
	if t.Kind.IsKeyword() || t.Kind.IsOperator() || t.Kind.IsPunct() {
		text = t.Kind.String()
	}
	tbl.RawSetString("value", lua.LString(text))
	if f := c.fs.Get(t.Span.File); f != nil {
		start, _ := c.fs.Resolve(t.Span)
		tbl.RawSetString("line", lua.LNumber(start.Line))
		tbl.RawSetString("col", lua.LNumber(start.Col))
	}
	return tbl
}

func (c *Core) importText(sp source.Span, name string) (string, bool) {
	if c.fetch == nil {
		c.fail(ErrImport, diag.MacImportFailed, diag.SevError, sp, "cannot import '"+name+"': no module resolver installed")
		return "", false
	}
	data, err := c.fetch(name)
	if err != nil {
		c.fail(ErrImport, diag.MacImportFailed, diag.SevError, sp, fmt.Sprintf("cannot import '%s': %v", name, err))
		return "", false
	}
	return string(data), true
}

func (c *Core) luaGet(L *lua.LState) int {
	if v, ok := c.env.Get(L.CheckString(1)); ok {
		L.Push(lua.LString(v))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (c *Core) luaSet(L *lua.LState) int {
	key := L.CheckString(1)
	v := L.Get(2)
	if v == lua.LNil {
		c.env.Delete(key)
		return 0
	}
	text, err := valueText(v)
	if err != nil {
		L.ArgError(2, err.Error())
	}
	c.env.Set(key, text)
	return 0
}

func (c *Core) luaDefine(L *lua.LState) int {
	name := L.CheckString(1)
	text, err := valueText(L.CheckAny(2))
	if err != nil {
		L.ArgError(2, err.Error())
	}
	c.env.Define(name, text)
	return 0
}

func (c *Core) luaDefer(L *lua.LState) int {
	c.addCallback(L.CheckFunction(1))
	return 0
}

func (c *Core) luaEmit(L *lua.LState) int {
	text, err := valueText(L.CheckAny(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	if s := c.current(); s != nil && text != "" {
		s.pending = append(s.pending, text)
	}
	return 0
}

func (c *Core) luaNext(L *lua.LState) int {
	s := c.current()
	if s == nil {
		L.Push(lua.LNil)
		return 1
	}
	t, _ := s.fetch()
	if t.Kind == token.EOF {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(c.tokenTable(t))
	return 1
}

func (c *Core) luaPeek(L *lua.LState) int {
	s := c.current()
	if s == nil {
		L.Push(lua.LNil)
		return 1
	}
	t := s.rawPeek()
	if t.Kind == token.EOF {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(c.tokenTable(t))
	return 1
}

func (c *Core) luaLog(sev diag.Severity) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		switch sev {
		case diag.SevDebug:
			trace.Debug(c.tracer, trace.ScopeMacro, "macro.user", "msg", msg)
		case diag.SevInfo:
			trace.Info(c.tracer, trace.ScopeMacro, "macro.user", "msg", msg)
		case diag.SevWarning:
			trace.Warn(c.tracer, trace.ScopeMacro, "macro.user", "msg", msg)
			c.report(diag.MacUser, sev, c.site(), msg)
		default:
			trace.Error(c.tracer, trace.ScopeMacro, "macro.user", "msg", msg)
			c.report(diag.MacUser, sev, c.site(), msg)
		}
		return 0
	}
}

func (c *Core) luaAbort(L *lua.LState) int {
	msg := L.OptString(1, "aborted by macro")
	c.fail(ErrAborted, diag.MacAborted, diag.SevFatal, c.site(), msg)
	L.RaiseError("%s", msg)
	return 0
}

func (c *Core) luaImport(L *lua.LState) int {
	name := L.CheckString(1)
	text, ok := c.importText(c.site(), name)
	if !ok {
		L.RaiseError("import %q failed", name)
		return 0
	}
	if s := c.current(); s != nil {
		s.pending = append(s.pending, text)
	}
	return 0
}

func (c *Core) luaPrint(L *lua.LState) int {
	msg := ""
	for i := 1; i <= L.GetTop(); i++ {
		if i > 1 {
			msg += "\t"
		}
		msg += L.ToStringMeta(L.Get(i)).String()
	}
	trace.Info(c.tracer, trace.ScopeMacro, "macro.print", "msg", msg)
	return 0
}
