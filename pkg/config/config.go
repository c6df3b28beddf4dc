// Package config loads taskflow's TOML configuration.
//
// The file is looked up at an explicit path, or at
// $XDG_CONFIG_HOME/taskflow/config.toml (~/.config/taskflow/config.toml).
// A missing default file is not an error: [Default] values apply.
//
//	[source]
//	kind    = "redis"        # file | redis | mongo | sample
//	project = "web"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[cache]
//	backend = "file"         # file | redis | none
//	ttl     = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskflow/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "taskflow"

// Source kinds.
const (
	SourceFile   = "file"
	SourceRedis  = "redis"
	SourceMongo  = "mongo"
	SourceSample = "sample"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration read from a TOML string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	Source SourceConfig `toml:"source"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// SourceConfig selects where tasks are loaded from.
type SourceConfig struct {
	Kind    string `toml:"kind"`
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

// RedisConfig is shared by the Redis task source and the Redis cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the MongoDB task source.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig configures report caching.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// LogConfig sets the log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Kind: SourceSample, Project: "default"},
		Redis:  RedisConfig{Addr: "localhost:6379", Prefix: "taskflow:"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "taskflow",
			Collection: "tasks",
		},
		Cache: CacheConfig{Backend: CacheFile, TTL: Duration{24 * time.Hour}},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file at path over [Default]. An empty path selects
// [DefaultPath], which may be absent; an explicit path must exist.
// Unknown keys are rejected so that typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and required fields.
func (c *Config) Validate() error {
	kinds := []string{SourceFile, SourceRedis, SourceMongo, SourceSample}
	if !slices.Contains(kinds, c.Source.Kind) {
		return invalid("source.kind must be one of %v, got %q", kinds, c.Source.Kind)
	}
	if c.Source.Kind == SourceFile && c.Source.Path == "" {
		return invalid("source.path is required when source.kind is %q", SourceFile)
	}
	if c.Source.Project != "" {
		if err := errors.ValidateProjectID(c.Source.Project); err != nil {
			return invalid("source.project: %s", errors.UserMessage(err))
		}
	}

	backends := []string{CacheFile, CacheRedis, CacheNone}
	if !slices.Contains(backends, c.Cache.Backend) {
		return invalid("cache.backend must be one of %v, got %q", backends, c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return invalid("cache.ttl must not be negative")
	}

	if (c.Source.Kind == SourceRedis || c.Cache.Backend == CacheRedis) && c.Redis.Addr == "" {
		return invalid("redis.addr is required")
	}
	if c.Source.Kind == SourceMongo {
		if err := errors.ValidateURL(c.Mongo.URI, "mongodb", "mongodb+srv"); err != nil {
			return invalid("mongo.uri: %s", errors.UserMessage(err))
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	return nil
}

// LogLevel returns the configured level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// CacheDir returns the configured cache directory, or [DefaultCacheDir].
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// DefaultPath returns $XDG_CONFIG_HOME/taskflow/config.toml.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using XDG standard
// (~/.cache/taskflow/).
func DefaultCacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
