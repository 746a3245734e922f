// Package pipeline drives the per-package fetch-then-stats sequence.
//
// Packages are processed strictly in input order, one at a time; a failed
// package marks its own task and the loop moves on, so a list of M packages
// always yields M tasks. Only an interrupt stops the run early.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deepin-community/transtats/pkg/aptsrc"
	"github.com/deepin-community/transtats/pkg/cache"
	"github.com/deepin-community/transtats/pkg/locale"
	"github.com/deepin-community/transtats/pkg/transutils"
)

// Runner holds the collaborators for a batch run.
type Runner struct {
	fetcher *aptsrc.Fetcher
	tool    *transutils.Tool
	cache   cache.Cache
	langs   []locale.Token
	logger  *log.Logger

	refresh bool
	ttl     time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithRefresh makes the runner bypass cache reads (results are still stored).
func WithRefresh(refresh bool) Option {
	return func(r *Runner) { r.refresh = refresh }
}

// WithTTL overrides the cache TTL for stored stats results.
func WithTTL(ttl time.Duration) Option {
	return func(r *Runner) { r.ttl = ttl }
}

// NewRunner creates a pipeline runner. A nil cache disables caching and a
// nil logger discards log output.
func NewRunner(fetcher *aptsrc.Fetcher, tool *transutils.Tool, c cache.Cache, langs []locale.Token, logger *log.Logger, opts ...Option) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Runner{
		fetcher: fetcher,
		tool:    tool,
		cache:   c,
		langs:   langs,
		logger:  logger,
		ttl:     cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every package in order and returns one terminal task per
// package. When ctx is cancelled mid-run the slice holds only the tasks
// processed so far.
func (r *Runner) Run(ctx context.Context, packages []string) []*Task {
	tasks := make([]*Task, 0, len(packages))
	for _, pkg := range packages {
		if ctx.Err() != nil {
			break
		}
		task := newTask(pkg)
		r.process(ctx, task)
		tasks = append(tasks, task)
	}
	return tasks
}

func (r *Runner) process(ctx context.Context, t *Task) {
	logger := r.logger.With("package", t.Package, "task", t.ID)

	t.Status = StatusFetching
	res, err := r.fetcher.Fetch(ctx, t.Package)
	if err != nil {
		logger.Warn("Fetch failed", "err", err)
		t.fail(StatusFetchFailed, err)
		return
	}
	t.Dir = res.Dir
	t.Reused = res.Reused
	t.Status = StatusFetched
	if res.Reused {
		logger.Debug("Source tree reused", "dir", res.Dir)
	} else {
		logger.Info("Source downloaded", "dir", res.Dir)
	}

	output, cached, err := r.stats(ctx, t)
	if err != nil {
		logger.Warn("Stats failed", "err", err)
		t.fail(StatusStatsFailed, err)
		return
	}
	t.Cached = cached
	t.Rows = transutils.FilterTable(output)
	t.Status = StatusReported
	logger.Debug("Stats collected", "rows", len(t.Rows), "cached", cached)
}

// stats returns the raw tool output for the task's source tree, consulting
// the cache first unless the run asked for a refresh. The unfiltered output
// is what gets cached, so filtering changes never require invalidation.
func (r *Runner) stats(ctx context.Context, t *Task) (string, bool, error) {
	key := cache.StatsKey(t.Package, t.Dir, locale.Join(r.langs))

	if !r.refresh {
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			return string(data), true, nil
		}
	}

	output, err := r.tool.Stats(ctx, t.Dir, r.langs)
	if err != nil {
		return "", false, err
	}

	if err := r.cache.Set(ctx, key, []byte(output), r.ttl); err != nil {
		r.logger.Debug("Cache write failed", "err", err)
	}
	return output, false, nil
}
