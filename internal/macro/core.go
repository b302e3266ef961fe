package macro

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/env"
	"github.com/Kracken256/nitrate-sub001/internal/lexer"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// Core is the interpreter state shared by a sequencer and all of its children.
// It is driven by one goroutine at a time.
type Core struct {
	L         *lua.LState
	env       *env.Env
	fs        *source.FileSet
	reporter  diag.Reporter
	tracer    trace.Tracer
	maxDepth  int
	keepNotes bool
	fetch     FetchFunc

	err      error
	chain    []*callback
	nextID   int
	active   []*Sequencer
	virtuals int
}

type callback struct {
	id     int
	fn     *lua.LFunction
	failed bool
}

func newCore(opts Options) *Core {
	c := &Core{
		env:       opts.Env,
		fs:        opts.FileSet,
		reporter:  opts.Reporter,
		tracer:    opts.Tracer,
		maxDepth:  opts.Conf.MaxDepth(),
		keepNotes: opts.KeepNotes,
		fetch:     opts.Fetch,
	}
	if c.env == nil {
		c.env = env.New()
	}
	if c.fs == nil {
		c.fs = source.NewFileSet()
	}
	if c.reporter == nil {
		c.reporter = diag.NopReporter{}
	}
	if c.tracer == nil {
		c.tracer = trace.Nop
	}
	if c.maxDepth <= 0 {
		c.maxDepth = 1
	}
	c.L = newState()
	c.installAPI()
	return c
}

// newState opens only the libraries that cannot touch the host.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "collectgarbage"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Env returns the environment shared with Lua.
func (c *Core) Env() *env.Env { return c.env }

// Err returns the first unrecoverable failure, or nil.
func (c *Core) Err() error { return c.err }

// Failed reports whether the fail bit is set.
func (c *Core) Failed() bool { return c.err != nil }

// Close releases the interpreter.
func (c *Core) Close() {
	if c.L != nil {
		c.L.Close()
		c.L = nil
	}
}

func (c *Core) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	c.reporter.Report(code, sev, sp, msg, nil)
}

// fail sets the fail bit once; later failures are only reported.
func (c *Core) fail(kind error, code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	c.report(code, sev, sp, msg)
	if c.err == nil {
		c.err = fmt.Errorf("%w: %s", kind, msg)
		trace.Error(c.tracer, trace.ScopeMacro, "macro.fail", "code", code.ID(), "msg", msg)
	}
}

func (c *Core) current() *Sequencer {
	if len(c.active) == 0 {
		return nil
	}
	return c.active[len(c.active)-1]
}

func (c *Core) enter(s *Sequencer) { c.active = append(c.active, s) }
func (c *Core) leave()             { c.active = c.active[:len(c.active)-1] }

// expandText scans text one level below the caller and returns the fully
// expanded tokens, all carrying the span of origin.
func (c *Core) expandText(depth int, origin token.Token, text string) ([]token.Token, bool) {
	if depth > c.maxDepth {
		c.fail(ErrRecursionExceeded, diag.MacRecursionExceeded, diag.SevFatal, origin.Span,
			fmt.Sprintf("macro expansion exceeds the depth limit of %d", c.maxDepth))
		return nil, false
	}
	if strings.TrimSpace(text) == "" {
		return nil, true
	}
	c.virtuals++
	id := c.fs.AddVirtual("<macro:"+strconv.Itoa(c.virtuals)+">", []byte(text))
	child := &Sequencer{
		core:  c,
		lx:    lexer.New(c.fs.Get(id), lexer.Options{Reporter: c.reporter, KeepNotes: c.keepNotes}),
		depth: depth,
	}
	var out []token.Token
	for {
		t := child.next()
		if t.Kind == token.EOF {
			break
		}
		t.Span = origin.Span
		out = append(out, t)
	}
	if c.err != nil {
		return nil, false
	}
	return out, true
}

// run executes chunk with s as the active sequencer and returns its first result.
func (c *Core) run(s *Sequencer, origin token.Token, chunk string) (lua.LValue, bool) {
	fn, err := c.L.LoadString(chunk)
	if err != nil {
		c.fail(ErrScript, diag.MacScriptError, diag.SevError, origin.Span, luaMessage(err))
		return lua.LNil, false
	}
	c.enter(s)
	defer c.leave()
	top := c.L.GetTop()
	c.L.Push(fn)
	if err := c.L.PCall(0, 1, nil); err != nil {
		c.L.SetTop(top)
		if c.err == nil {
			c.fail(ErrScript, diag.MacScriptError, diag.SevError, origin.Span, luaMessage(err))
		}
		return lua.LNil, false
	}
	ret := c.L.Get(-1)
	c.L.SetTop(top)
	return ret, c.err == nil
}

func luaMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return apiErr.Object.String()
	}
	return err.Error()
}

// valueText converts a macro result to source text.
func valueText(v lua.LValue) (string, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	case lua.LBool:
		return strconv.FormatBool(bool(v)), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10), nil
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("macro returned a %s, want string, number or boolean", v.Type())
	}
}
