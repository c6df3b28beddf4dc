package source

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

func TestStatic_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStatic()

	require.NoError(t, s.Save(ctx, "web", SampleTasks()))
	require.NoError(t, s.Save(ctx, "ops", []tasks.Task{{ID: 1, Dependencies: tasks.None}}))

	got, err := s.Load(ctx, "web")
	require.NoError(t, err)
	assert.Equal(t, SampleTasks(), got)

	got[0].Name = "changed"
	again, _ := s.Load(ctx, "web")
	assert.Equal(t, "Design UI mockups", again[0].Name, "Load must return a copy")

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Project{{ID: "web", TaskCount: 5}, {ID: "ops", TaskCount: 1}}, projects)
}

func TestStatic_MissingProject(t *testing.T) {
	_, err := NewStatic().Load(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.ErrCodeProjectNotFound))
}

func TestStatic_InvalidProjectID(t *testing.T) {
	err := NewStatic().Save(context.Background(), "../etc", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidProject))
}

func TestNewSample_DefaultProject(t *testing.T) {
	got, err := NewSample().Load(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, tasks.None, got[0].Dependencies)
}

// countingProvider counts Load calls.
type countingProvider struct {
	*Static
	loads int
}

func (c *countingProvider) Load(ctx context.Context, project string) ([]tasks.Task, error) {
	c.loads++
	return c.Static.Load(ctx, project)
}

func TestCached_Load(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	inner := &countingProvider{Static: NewSample()}
	p := NewCached(inner, fc, nil, 0, log.New(io.Discard))

	for range 3 {
		got, err := p.Load(ctx, DefaultProject)
		require.NoError(t, err)
		assert.Len(t, got, 5)
	}
	assert.Equal(t, 1, inner.loads)

	// Save drops the cached entry.
	require.NoError(t, p.Save(ctx, DefaultProject, SampleTasks()[:2]))
	got, err := p.Load(ctx, DefaultProject)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, inner.loads)
}

func TestCached_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	inner := &countingProvider{Static: NewStatic()}
	p := NewCached(inner, fc, nil, 0, log.New(io.Discard))

	_, err = p.Load(ctx, "missing")
	require.Error(t, err)
	_, err = p.Load(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, 2, inner.loads)
}

// brokenDeleteCache is a cache whose Delete always fails.
type brokenDeleteCache struct{ cache.NullCache }

func (brokenDeleteCache) Delete(context.Context, string) error {
	return stderrors.New("connection reset")
}

func TestCached_SaveSurvivesInvalidationFailure(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	inner := NewSample()
	p := NewCached(inner, brokenDeleteCache{}, nil, 0, log.New(&logs))

	require.NoError(t, p.Save(ctx, DefaultProject, SampleTasks()[:2]))

	got, err := inner.Load(ctx, DefaultProject)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Contains(t, logs.String(), "task cache invalidation failed")
}

// loadOnly implements nothing beyond Provider.
type loadOnly struct{ Provider }

func TestAsListerAsWriter(t *testing.T) {
	s := NewStatic()
	_, err := AsLister(s)
	assert.NoError(t, err)
	_, err = AsWriter(s)
	assert.NoError(t, err)

	lo := loadOnly{s}
	_, err = AsLister(lo)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
	_, err = AsWriter(lo)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}
