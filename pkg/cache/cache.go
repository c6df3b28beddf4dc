// Package cache stores computed analysis reports keyed by the content hash of
// the task set they were computed from.
//
// Reports are pure functions of their input, so a hit is always valid for an
// unchanged task set and any edit to the tasks produces a new key. TTLs only
// bound storage growth.
//
// Backends:
//   - [FileCache]: one JSON file per entry under an XDG cache directory (CLI)
//   - [RedisCache]: shared cache for the HTTP API
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	TTLReport = 24 * time.Hour
	TTLTasks  = 5 * time.Minute
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// ReportKey is the key of the analysis report for a task-set hash.
	ReportKey(taskHash string, opts ReportKeyOpts) string

	// TasksKey is the key of a project's task list loaded from a backend.
	TasksKey(source, project string) string
}

// ReportKeyOpts holds analysis options that change the report contents.
type ReportKeyOpts struct {
	Strict bool `json:"strict,omitempty"`
}
