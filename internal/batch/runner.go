// Package batch runs many lookups with bounded concurrency.
package batch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/role-scout/internal/model"
	"github.com/sells-group/role-scout/internal/report"
)

// Lookuper resolves a single (company, role) pair.
type Lookuper interface {
	Run(ctx context.Context, company, role string) model.LookupResult
}

// Options bounds a batch run.
type Options struct {
	// Concurrency is the number of lookups in flight; values below 1 mean 1.
	Concurrency int
	// RatePerSec caps lookup starts per second; zero disables the limit.
	RatePerSec float64
	// MaxRows caps the rows processed; zero processes all of them.
	MaxRows int
}

// Summary counts the outcomes of a batch run.
type Summary struct {
	Total    int
	Resolved int64
	Failed   int64
	Skipped  int
}

// Runner executes lookups concurrently.
type Runner struct {
	lookup  Lookuper
	opts    Options
	limiter *rate.Limiter
}

// NewRunner creates a Runner over l.
func NewRunner(l Lookuper, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	r := &Runner{lookup: l, opts: opts}
	if opts.RatePerSec > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), max(int(opts.RatePerSec), 1))
	}
	return r
}

// Run looks up every request and calls onResult with its index. onResult
// may be called concurrently. Individual lookup failures never abort the
// batch; only cancellation does.
func (r *Runner) Run(ctx context.Context, reqs []model.LookupRequest, onResult func(i int, res model.LookupResult)) (Summary, error) {
	sum := Summary{Total: len(reqs)}
	if len(reqs) == 0 {
		zap.L().Info("batch: nothing to process")
		return sum, nil
	}

	zap.L().Info("processing batch",
		zap.Int("lookups", len(reqs)),
		zap.Int("concurrency", r.opts.Concurrency),
		zap.Float64("rate_per_sec", r.opts.RatePerSec),
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	var resolved, failed atomic.Int64
	for i, req := range reqs {
		g.Go(func() error {
			if r.limiter != nil {
				if err := r.limiter.Wait(gctx); err != nil {
					return eris.Wrap(err, "batch: rate limit")
				}
			}

			res := r.lookup.Run(gctx, req.Company, req.Role)
			if res.IsResolved() {
				resolved.Add(1)
			} else {
				failed.Add(1)
			}
			if onResult != nil {
				onResult(i, res)
			}
			return nil
		})
	}

	err := g.Wait()
	sum.Resolved, sum.Failed = resolved.Load(), failed.Load()
	zap.L().Info("batch complete",
		zap.Int64("resolved", sum.Resolved),
		zap.Int64("failed", sum.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	if err != nil {
		return sum, eris.Wrap(err, "batch: run")
	}
	return sum, nil
}

// Rows fills each lookupable row from its lookup result. Rows missing a
// title or company pass through unchanged. With MaxRows set, rows past the
// cap are dropped from the output.
func (r *Runner) Rows(ctx context.Context, rows []report.Row) ([]report.Row, Summary, error) {
	if r.opts.MaxRows > 0 && len(rows) > r.opts.MaxRows {
		zap.L().Info("batch: row cap applied", zap.Int("rows", len(rows)), zap.Int("max_rows", r.opts.MaxRows))
		rows = rows[:r.opts.MaxRows]
	}

	out := make([]report.Row, len(rows))
	copy(out, rows)

	var (
		reqs  []model.LookupRequest
		index []int
	)
	for i, row := range rows {
		if !row.Lookupable() {
			continue
		}
		reqs = append(reqs, row.Request())
		index = append(index, i)
	}

	// Each goroutine writes a distinct element of out.
	sum, err := r.Run(ctx, reqs, func(i int, res model.LookupResult) {
		out[index[i]] = out[index[i]].Apply(res)
	})
	sum.Skipped = len(rows) - len(reqs)
	sum.Total = len(rows)
	return out, sum, err
}
