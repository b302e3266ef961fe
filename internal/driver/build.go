package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/Kracken256/nitrate-sub001/internal/arena"
	"github.com/Kracken256/nitrate-sub001/internal/ast"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/ir"
	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// Diagnostic channels of a unit that has no IR pass name.
const (
	TicketSequence = "sequence"
	TicketParse    = "parse"
)

// ErrUnitPanic wraps a panic recovered while building a unit.
var ErrUnitPanic = errors.New("internal compiler error")

// Result is everything one unit produced. Module stays registered until
// Release is called.
type Result struct {
	Unit    *Unit
	Builder *ast.Builder
	Root    ast.StmtID
	Module  *ir.Module
	// OK is true when every stage ran and none reported an error.
	OK      bool
	Timings []StageTiming
	// Err is set by BuildAll when the unit could not be built at all.
	Err error

	stage    Stage
	registry *ir.Registry
}

// Diag returns the module's diagnostics manager, nil before lowering was set up.
func (r *Result) Diag() *diag.Manager {
	if r == nil || r.Module == nil {
		return nil
	}
	return r.Module.Diag
}

// Release frees the module's registry slot.
func (r *Result) Release() {
	if r == nil || r.Module == nil || r.registry == nil {
		return
	}
	r.registry.Free(r.Module.ID())
	r.registry = nil
}

// Build runs sequencer, parser, lowering, the return check and the size pass
// over u. A panic inside the unit becomes an ErrUnitPanic error when
// -fcrashguard is set; arena exhaustion keeps its *arena.ExhaustedError.
// Cancellation is checked between stages only.
func Build(ctx context.Context, u *Unit, opts Options) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conf := opts.conf()
	tr := trace.FromContext(ctx)
	res = &Result{Unit: u}

	if conf.CrashGuard() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err = recovered(u, r)
			res.OK = false
			trace.Error(tr, trace.ScopeUnit, "unit crashed", "unit", u.Name(), "stage", res.stage.String(), "stack", string(debug.Stack()))
			opts.Observer.notify(Event{Unit: u.Name(), Stage: res.stage, Status: StatusError})
		}()
	}

	reg := opts.registry()
	m, err := reg.Create(u.Name())
	if err != nil {
		return res, err
	}
	m.SetConf(conf)
	m.UseFileSet(u.FileSet)
	res.Module, res.registry = m, reg

	unit := trace.Begin(tr, trace.ScopeUnit, u.Name(), trace.ParentSpan(ctx))
	p := &pipeline{ctx: ctx, tr: tr, parent: unit.ID(), opts: opts, res: res}

	var pr *ParseResult
	ok := p.stage(StageParse, func() bool {
		pr = parseInto(ctx, u, opts, m.Diag, m.Ticket(TicketSequence), m.Ticket(TicketParse))
		res.Builder, res.Root = pr.Builder, pr.Root
		return pr.OK
	}) && p.stage(StageLower, func() bool {
		return ir.Lower(m, pr.Builder, pr.Root)
	})
	if ok {
		// both passes run even when the return check fails
		checked := p.stage(StageCheckReturns, func() bool { return ir.CheckReturns(m) })
		sized := p.stage(StageSizes, func() bool { return ir.ComputeSizes(m) })
		ok = checked && sized
	}
	res.OK = ok && ctx.Err() == nil

	status := StatusDone
	if !res.OK {
		status = StatusError
	}
	opts.Observer.notify(Event{Unit: u.Name(), Stage: res.stage, Status: status, Elapsed: Total(res.Timings)})
	unit.WithField("ok", strconv.FormatBool(res.OK)).End(FormatTimings(res.Timings))
	return res, ctx.Err()
}

type pipeline struct {
	ctx    context.Context
	tr     trace.Tracer
	parent uint64
	opts   Options
	res    *Result
}

func (p *pipeline) stage(s Stage, fn func() bool) bool {
	if p.ctx.Err() != nil {
		return false
	}
	name := p.res.Unit.Name()
	p.res.stage = s
	p.opts.Observer.notify(Event{Unit: name, Stage: s, Status: StatusWorking})
	sp := trace.Begin(p.tr, trace.ScopePass, s.String(), p.parent)
	start := time.Now()
	ok := fn()
	elapsed := time.Since(start)
	sp.WithField("ok", strconv.FormatBool(ok)).End(name)
	p.res.Timings = append(p.res.Timings, StageTiming{Stage: s, Elapsed: elapsed})
	return ok
}

func recovered(u *Unit, r any) error {
	var exhausted *arena.ExhaustedError
	if e, ok := r.(error); ok && errors.As(e, &exhausted) {
		return fmt.Errorf("%s: %w", u.Name(), exhausted)
	}
	return fmt.Errorf("%s: %w: %v", u.Name(), ErrUnitPanic, r)
}
