package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/taskflow/pkg/errors"
)

func TestKeys(t *testing.T) {
	p := NewFromClient(goredis.NewClient(&goredis.Options{}), "")
	defer p.client.Close()

	assert.Equal(t, "taskflow:project:web:tasks", p.tasksKey("web"))
	assert.Equal(t, "taskflow:projects", p.projectsKey())

	scoped := NewFromClient(p.client, "team-a:")
	assert.Equal(t, "team-a:project:web:tasks", scoped.tasksKey("web"))
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ctx, Config{Addr: "127.0.0.1:1"})
	assert.True(t, errors.Is(err, errors.ErrCodeSourceUnavailable), "got %v", err)
}

func TestInvalidProjectRejectedBeforeIO(t *testing.T) {
	// The client points nowhere; validation must fail first.
	p := NewFromClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"}), "")
	defer p.client.Close()
	ctx := context.Background()

	_, err := p.Load(ctx, "a/b")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidProject))
	err = p.Save(ctx, "..", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidProject))
}
