package driver

import (
	"context"
	"errors"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Kracken256/nitrate-sub001/internal/trace"
)

// LoadAll reads every path. Files that cannot be read are skipped and their
// errors joined.
func LoadAll(paths []string) ([]*Unit, error) {
	units := make([]*Unit, 0, len(paths))
	var errs []error
	for _, p := range paths {
		u, err := LoadUnit(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		units = append(units, u)
	}
	return units, errors.Join(errs...)
}

// BuildAll builds units in parallel, at most opts.Jobs at a time.
// Results keep the order of units. A unit that fails or panics only sets its
// own Result.Err; the returned error is non-nil only when ctx was cancelled.
func BuildAll(ctx context.Context, units []*Unit, opts Options) ([]*Result, error) {
	results := make([]*Result, len(units))
	if len(units) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, root := trace.Start(ctx, trace.ScopeDriver, "build")
	defer root.End(strconv.Itoa(len(units)) + " units")

	for _, u := range units {
		opts.Observer.notify(Event{Unit: u.Name(), Stage: StageQueued, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for i, u := range units {
		i, u := i, u // per-iteration copies (Go 1.21 loop semantics)
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				results[i] = &Result{Unit: u, Err: err}
				return err
			}
			res, err := Build(gctx, u, opts)
			if res == nil {
				res = &Result{Unit: u}
			}
			res.Err = err
			// индекс i уникален, мьютекс не нужен
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
