// Package redis stores task sets in Redis.
//
// Each project is a hash at "<prefix>project:<id>:tasks" mapping a task id to
// the task's JSON, plus its position in the original list. A set at
// "<prefix>projects" names every stored project, including empty ones.
package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// DefaultPrefix namespaces all keys written by this package.
const DefaultPrefix = "taskflow:"

// Config configures a Redis-backed provider.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Provider implements source.Provider, source.Lister and source.Writer on
// top of Redis.
type Provider struct {
	client *goredis.Client
	prefix string
	owned  bool
}

// storedTask is the hash value for one task.
type storedTask struct {
	Seq int `json:"seq"`
	tasks.Task
}

// New connects to Redis and verifies the connection, retrying transient
// failures.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect to redis at %s", cfg.Addr)
	}
	p := NewFromClient(client, cfg.Prefix)
	p.owned = true
	return p, nil
}

// NewFromClient wraps an existing client. Close does not close it.
// An empty prefix selects DefaultPrefix.
func NewFromClient(client *goredis.Client, prefix string) *Provider {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Provider{client: client, prefix: prefix}
}

// Name returns "redis".
func (p *Provider) Name() string { return "redis" }

func (p *Provider) tasksKey(project string) string {
	return p.prefix + "project:" + project + ":tasks"
}

func (p *Provider) projectsKey() string {
	return p.prefix + "projects"
}

// Load returns the project's tasks in their saved order.
func (p *Provider) Load(ctx context.Context, project string) ([]tasks.Task, error) {
	if project == "" {
		project = source.DefaultProject
	}
	if err := errors.ValidateProjectID(project); err != nil {
		return nil, err
	}

	fields, err := p.client.HGetAll(ctx, p.tasksKey(project)).Result()
	if err != nil {
		return nil, unavailable(err, "load project %s", project)
	}
	if len(fields) == 0 {
		known, err := p.client.SIsMember(ctx, p.projectsKey(), project).Result()
		if err != nil {
			return nil, unavailable(err, "load project %s", project)
		}
		if !known {
			return nil, errors.New(errors.ErrCodeProjectNotFound, "project %q not found", project)
		}
		return []tasks.Task{}, nil
	}

	stored := make([]storedTask, 0, len(fields))
	for field, raw := range fields {
		var st storedTask
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "project %s: task %s", project, field)
		}
		stored = append(stored, st)
	}
	slices.SortFunc(stored, func(a, b storedTask) int {
		if c := cmp.Compare(a.Seq, b.Seq); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]tasks.Task, len(stored))
	for i, st := range stored {
		out[i] = st.Task
	}
	return out, nil
}

// Save replaces the project's tasks atomically. A repeated task id keeps the
// position of its first occurrence and the contents of its last, which is
// how the analysis treats duplicates anyway.
func (p *Provider) Save(ctx context.Context, project string, ts []tasks.Task) error {
	if err := errors.ValidateProjectID(project); err != nil {
		return err
	}

	seqs := make(map[int]int, len(ts))
	latest := make(map[int]tasks.Task, len(ts))
	for i, t := range ts {
		if _, ok := seqs[t.ID]; !ok {
			seqs[t.ID] = i
		}
		latest[t.ID] = t
	}

	values := make([]any, 0, 2*len(latest))
	for id, t := range latest {
		data, err := json.Marshal(storedTask{Seq: seqs[id], Task: t})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode task %d", id)
		}
		values = append(values, strconv.Itoa(id), data)
	}

	key := p.tasksKey(project)
	_, err := p.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values...)
		}
		pipe.SAdd(ctx, p.projectsKey(), project)
		return nil
	})
	if err != nil {
		return unavailable(err, "save project %s", project)
	}
	return nil
}

// Projects lists stored projects sorted by id.
func (p *Provider) Projects(ctx context.Context) ([]source.Project, error) {
	ids, err := p.client.SMembers(ctx, p.projectsKey()).Result()
	if err != nil {
		return nil, unavailable(err, "list projects")
	}
	slices.Sort(ids)

	pipe := p.client.Pipeline()
	counts := make([]*goredis.IntCmd, len(ids))
	for i, id := range ids {
		counts[i] = pipe.HLen(ctx, p.tasksKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, unavailable(err, "list projects")
		}
	}

	out := make([]source.Project, len(ids))
	for i, id := range ids {
		out[i] = source.Project{ID: id, TaskCount: int(counts[i].Val())}
	}
	return out, nil
}

// Close closes the client if this provider created it.
func (p *Provider) Close() error {
	if !p.owned {
		return nil
	}
	return p.client.Close()
}

func unavailable(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeSourceUnavailable, err, format, args...)
}

var (
	_ source.Provider = (*Provider)(nil)
	_ source.Lister   = (*Provider)(nil)
	_ source.Writer   = (*Provider)(nil)
)
