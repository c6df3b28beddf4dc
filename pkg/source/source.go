// Package source loads task sets from the stores a team keeps them in.
//
// A [Provider] replaces the hard-coded task list of a dashboard: it is the
// single place analysis code asks for "the tasks of project X". Providers
// that can enumerate or persist projects also implement [Lister] and
// [Writer].
//
// Implementations:
//   - [Static]: in-memory, used for tests, seeding and the built-in sample
//   - file: a JSON, TOML or HCL task file (package source/file)
//   - redis: one Redis hash per project (package source/redis)
//   - mongo: one document per task in a MongoDB collection (package source/mongo)
//
// [Cached] wraps any provider with a [cache.Cache].
//
// [cache.Cache]: github.com/matzehuels/taskflow/pkg/cache
package source

import (
	"context"

	"github.com/matzehuels/taskflow/pkg/tasks"
)

// DefaultProject is used when a caller does not name a project.
const DefaultProject = "default"

// Provider supplies the task list of a project.
type Provider interface {
	// Name identifies the backend kind ("file", "redis", ...).
	Name() string

	// Load returns the tasks of project in their stored order.
	// Providers that hold a single task set ignore project.
	Load(ctx context.Context, project string) ([]tasks.Task, error)

	// Close releases backend connections.
	Close() error
}

// Project summarizes a stored project.
type Project struct {
	ID        string `json:"id"`
	TaskCount int    `json:"task_count"`
}

// Lister is implemented by providers that can enumerate their projects.
type Lister interface {
	Projects(ctx context.Context) ([]Project, error)
}

// Writer is implemented by providers that can store a project's tasks,
// replacing whatever the project held before.
type Writer interface {
	Save(ctx context.Context, project string, ts []tasks.Task) error
}
