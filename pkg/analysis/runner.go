package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/observability"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// Runner encapsulates analysis with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner holds no per-call state, so multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long reports are kept. Zero selects cache.TTLReport.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze returns the report for ts, from the cache when an identical task
// set was analyzed before. The boolean reports a cache hit. A cached report
// gets a fresh ID but keeps its original GeneratedAt.
func (r *Runner) Analyze(ctx context.Context, ts []tasks.Task, opts Options) (*Report, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	hash := TaskHash(ts)
	key := r.Keyer.ReportKey(hash, cache.ReportKeyOpts{Strict: opts.Strict})

	if data, hit, err := r.Cache.Get(ctx, key); err != nil {
		r.Logger.Warn("report cache read failed", "err", err)
	} else if hit {
		var report Report
		err := json.Unmarshal(data, &report)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "report")
			r.Logger.Debug("report cache hit", "hash", hash[:12], "generated_at", report.GeneratedAt)
			report.ID = uuid.NewString()
			return &report, true, nil
		}
		r.Logger.Warn("discarding cached report", "key", key, "err", fmt.Errorf("%w: %v", cache.ErrCorrupt, err))
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "report")

	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, len(ts))
	start := time.Now()
	report := Compute(ts, opts)
	elapsed := time.Since(start)
	hooks.OnAnalyzeComplete(ctx, report.TaskCount, report.CycleCount, elapsed, nil)

	r.Logger.Info("analyzed tasks",
		"tasks", report.TaskCount,
		"edges", report.EdgeCount,
		"cycles", report.CycleCount,
		"duration", elapsed)

	if data, err := json.Marshal(report); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("report cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}
	return report, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLReport
}

// Load fetches a project's tasks from p, firing load hooks around the call.
func (r *Runner) Load(ctx context.Context, p source.Provider, project string) ([]tasks.Task, error) {
	hooks := observability.Analysis()
	hooks.OnLoadStart(ctx, p.Name(), project)
	start := time.Now()

	ts, err := p.Load(ctx, project)
	elapsed := time.Since(start)
	hooks.OnLoadComplete(ctx, p.Name(), project, len(ts), elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded tasks",
		"source", p.Name(),
		"project", project,
		"tasks", len(ts),
		"duration", elapsed)
	return ts, nil
}

// AnalyzeProject loads a project's tasks from p and analyzes them.
func (r *Runner) AnalyzeProject(ctx context.Context, p source.Provider, project string, opts Options) (*Report, bool, error) {
	ts, err := r.Load(ctx, p, project)
	if err != nil {
		return nil, false, err
	}
	return r.Analyze(ctx, ts, opts)
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
