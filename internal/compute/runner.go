package compute

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tabstat/adapters/stats/engine"
	"tabstat/domain/core"
	"tabstat/domain/dataset"
	domainstats "tabstat/domain/stats"
	"tabstat/internal"
)

// Outcome is delivered once per submitted request
type Outcome struct {
	RequestID string
	Results   []domainstats.Result // in the order the statistics were requested
	Err       error
	// Superseded is set when a newer request was submitted before this one
	// finished. Callers showing only the latest selection should drop it.
	Superseded bool
	Elapsed    time.Duration
}

// ComputeFunc evaluates one statistic over a snapshot
type ComputeFunc func(set *dataset.NumericSet, statistic domainstats.Statistic) (domainstats.Result, error)

// Runner keeps statistic computation off the caller's goroutine. Only the
// most recent request is current; submitting cancels the previous one.
type Runner struct {
	mu      sync.Mutex
	current string
	cancel  context.CancelFunc

	limit   int
	compute ComputeFunc
	logger  *internal.Logger
}

// NewRunner creates a runner evaluating at most limit statistics at once.
// A non-positive limit uses GOMAXPROCS.
func NewRunner(limit int) *Runner {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		limit:   limit,
		compute: engine.Compute,
		logger:  internal.DefaultLogger.WithComponent("Runner"),
	}
}

// WithCompute replaces the evaluation function, used by tests
func (r *Runner) WithCompute(fn ComputeFunc) *Runner {
	r.compute = fn
	return r
}

// WithLogger replaces the runner's logger
func (r *Runner) WithLogger(l *internal.Logger) *Runner {
	r.logger = l.WithComponent("Runner")
	return r
}

// Submit starts computing statistics over snapshot and returns the request
// ID. done is called exactly once, from another goroutine. The snapshot must
// not change while the request runs; a NumericSet never does.
func (r *Runner) Submit(ctx context.Context, snapshot *dataset.NumericSet, statistics []domainstats.Statistic, done func(Outcome)) string {
	id := core.NewRequestID()
	reqCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.logger.Debug("superseding request %s", r.current)
		r.cancel()
	}
	r.current, r.cancel = id, cancel
	r.mu.Unlock()

	go func() {
		defer cancel()
		out := r.run(reqCtx, id, snapshot, statistics)

		r.mu.Lock()
		if r.current == id {
			r.current, r.cancel = "", nil
		} else {
			out.Superseded = true
		}
		r.mu.Unlock()

		if done != nil {
			done(out)
		}
	}()
	return id
}

// Current returns the ID of the running request, or "" when idle
func (r *Runner) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// RunSync computes statistics on the calling goroutine's behalf and waits
// for them. It does not take part in superseding.
func (r *Runner) RunSync(ctx context.Context, snapshot *dataset.NumericSet, statistics []domainstats.Statistic) ([]domainstats.Result, error) {
	out := r.run(ctx, core.NewRequestID(), snapshot, statistics)
	return out.Results, out.Err
}

func (r *Runner) run(ctx context.Context, id string, snapshot *dataset.NumericSet, statistics []domainstats.Statistic) Outcome {
	start := time.Now()
	results := make([]domainstats.Result, len(statistics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, statistic := range statistics {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.compute(snapshot, statistic)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	out := Outcome{RequestID: id, Elapsed: time.Since(start)}
	if err := g.Wait(); err != nil {
		out.Err = err
		r.logger.Warn("request %s failed: %v", id, err)
		return out
	}
	out.Results = results
	out.Elapsed = time.Since(start)
	r.logger.Debug("request %s computed %d statistics over %d columns in %s",
		id, len(results), snapshot.Len(), out.Elapsed)
	return out
}
