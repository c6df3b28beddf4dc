package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/observability"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// Cached serves Load from a cache for up to TTL before asking the wrapped
// provider again. Cache failures are logged and fall through to the
// provider. Lister and Writer calls pass through; Save invalidates the
// project's entry.
type Cached struct {
	Provider
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewCached wraps p. A nil keyer selects the default scheme, a zero ttl
// selects [cache.TTLTasks] and a nil logger selects log.Default().
func NewCached(p Provider, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.TTLTasks
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Provider: p, Cache: c, Keyer: keyer, TTL: ttl, Logger: logger}
}

// Load returns cached tasks when present, otherwise loads and caches them.
func (c *Cached) Load(ctx context.Context, project string) ([]tasks.Task, error) {
	key := c.Keyer.TasksKey(c.Provider.Name(), project)

	if data, hit, err := c.Cache.Get(ctx, key); err != nil {
		c.Logger.Warn("task cache read failed", "key", key, "err", err)
	} else if hit {
		var ts []tasks.Task
		if err := json.Unmarshal(data, &ts); err == nil {
			observability.Cache().OnCacheHit(ctx, "tasks")
			return ts, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "tasks")

	ts, err := c.Provider.Load(ctx, project)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(ts); err == nil {
		if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
			c.Logger.Warn("task cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "tasks", len(data))
		}
	}
	return ts, nil
}

// Projects delegates to the wrapped provider if it is a [Lister].
func (c *Cached) Projects(ctx context.Context) ([]Project, error) {
	l, ok := c.Provider.(Lister)
	if !ok {
		return nil, errUnsupported(c.Provider, "listing projects")
	}
	return l.Projects(ctx)
}

// Save delegates to the wrapped provider if it is a [Writer] and drops the
// project's cached task list. A failed invalidation is logged, not returned.
func (c *Cached) Save(ctx context.Context, project string, ts []tasks.Task) error {
	w, ok := c.Provider.(Writer)
	if !ok {
		return errUnsupported(c.Provider, "saving tasks")
	}
	if err := w.Save(ctx, project, ts); err != nil {
		return err
	}
	// The write has landed; a stale entry only lives until its TTL.
	key := c.Keyer.TasksKey(c.Provider.Name(), project)
	if err := c.Cache.Delete(ctx, key); err != nil {
		c.Logger.Warn("task cache invalidation failed", "key", key, "err", err)
	}
	return nil
}

// Close closes the wrapped provider. The cache is owned by the caller.
func (c *Cached) Close() error { return c.Provider.Close() }
