package macro

import (
	"slices"
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/token"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

func (c *Core) addCallback(fn *lua.LFunction) {
	c.nextID++
	c.chain = append(c.chain, &callback{id: c.nextID, fn: fn})
}

// Callbacks returns the number of installed deferred callbacks.
func (c *Core) Callbacks() int { return len(c.chain) }

// vote runs the chain newest-first on tok and reports whether tok is emitted.
// The chain is detached while it runs; callbacks registered meanwhile are
// appended after the survivors.
func (c *Core) vote(s *Sequencer, tok token.Token) bool {
	if len(c.chain) == 0 {
		return true
	}
	chain := c.chain
	c.chain = nil
	c.enter(s)
	saved := s.pending
	s.pending = nil

	kept := make([]*callback, 0, len(chain))
	emit, voted := false, false
	for i := len(chain) - 1; i >= 0; i-- {
		cb := chain[i]
		switch c.invoke(cb, tok) {
		case ActionEmit:
			emit, voted = true, true
		case ActionSkip:
			voted = true
		case ActionUninstall:
			trace.Debug(c.tracer, trace.ScopeMacro, "macro.uninstall", "callback", strconv.Itoa(cb.id))
			continue
		}
		kept = append(kept, cb)
	}
	slices.Reverse(kept)
	c.chain = append(kept, c.chain...)

	emitted := s.pending
	s.pending = saved
	c.leave()
	if len(emitted) > 0 && c.err == nil {
		s.expandAfter(tok, emitted)
	}
	return emit || !voted
}

// invoke calls one callback. Any failure counts as a vote to emit.
func (c *Core) invoke(cb *callback, tok token.Token) Action {
	if c.err != nil {
		return ActionEmit
	}
	top := c.L.GetTop()
	defer c.L.SetTop(top)
	err := c.L.CallByParam(lua.P{Fn: cb.fn, NRet: 1, Protect: true}, c.tokenTable(tok))
	if err != nil {
		if c.err == nil {
			c.callbackFailed(cb, tok, luaMessage(err))
		}
		return ActionEmit
	}
	ret := c.L.Get(-1)
	if ret == lua.LNil {
		return ActionEmit
	}
	act, ok := parseAction(lua.LVAsString(ret))
	if !ok {
		c.callbackFailed(cb, tok, "callback returned "+ret.String()+", want emit, skip or uninstall")
	}
	return act
}

func (c *Core) callbackFailed(cb *callback, tok token.Token, msg string) {
	trace.Warn(c.tracer, trace.ScopeMacro, "macro.callback_failed", "callback", strconv.Itoa(cb.id), "msg", msg)
	if !cb.failed {
		cb.failed = true
		c.report(diag.MacCallbackFailed, diag.SevWarning, tok.Span, "deferred callback failed: "+msg)
	}
}

// expandAfter queues text emitted by callbacks right after tok.
func (s *Sequencer) expandAfter(origin token.Token, texts []string) {
	var all []token.Token
	for _, text := range texts {
		toks, ok := s.core.expandText(s.depth+1, origin, text)
		if !ok {
			return
		}
		all = append(all, toks...)
	}
	s.buf = append(all, s.buf...)
}
