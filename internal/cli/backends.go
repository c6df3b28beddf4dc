package cli

import (
	"context"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/config"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/source/file"
	"github.com/matzehuels/taskflow/pkg/source/mongo"
	"github.com/matzehuels/taskflow/pkg/source/redis"
)

// openSource returns the task source for a command. A file argument wins
// over the configured source, and sample wins over both.
func (c *CLI) openSource(ctx context.Context, path string, sample bool) (source.Provider, error) {
	switch {
	case sample:
		return source.NewSample(), nil
	case path != "":
		return file.New(path)
	}
	return c.openConfiguredSource(ctx)
}

// openConfiguredSource returns the source selected by source.kind.
func (c *CLI) openConfiguredSource(ctx context.Context) (source.Provider, error) {
	cfg := c.cfg
	switch cfg.Source.Kind {
	case config.SourceFile:
		return file.New(cfg.Source.Path)
	case config.SourceRedis:
		c.Logger.Debug("connecting to redis", "addr", cfg.Redis.Addr)
		return redis.New(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case config.SourceMongo:
		c.Logger.Debug("connecting to mongo", "database", cfg.Mongo.Database)
		return mongo.New(ctx, mongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	case config.SourceSample:
		return source.NewSample(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", cfg.Source.Kind)
}

// project returns the project to load: the flag value, else the configured
// default.
func (c *CLI) project(flag string) string {
	if flag != "" {
		return flag
	}
	if c.cfg.Source.Project != "" {
		return c.cfg.Source.Project
	}
	return source.DefaultProject
}

// openCache returns the report cache selected by cache.backend. A cache that
// cannot be opened is not fatal: the command runs uncached.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer) {
	cfg := c.cfg
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}

	if cfg.Cache.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, running uncached", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, cache.NewScopedKeyer(nil, cfg.Redis.Prefix+"cache:")
	}

	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, running uncached", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, running uncached", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newRunner creates an analysis runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *analysis.Runner {
	store, keyer := c.openCache(ctx, noCache)
	r := analysis.NewRunner(store, keyer, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r
}
