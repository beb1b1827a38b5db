package notify

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

func TestMemoryQueueFIFOAndBounds(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()
	a, b := note(KindAlert), note(KindQuotaWarning)

	require.NoError(t, q.Enqueue(ctx, a))
	require.NoError(t, q.Enqueue(ctx, b))
	assert.ErrorIs(t, q.Enqueue(ctx, note(KindAlert)), ErrQueueFull)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	dctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = q.Dequeue(dctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisQueueRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis queue tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	key := "reviewloop:test:" + note(KindAlert).ID.String()
	t.Cleanup(func() {
		_ = rdb.Del(context.Background(), key).Err()
		_ = rdb.Close()
	})

	q := NewRedisQueueFromClient(logger.NewNop(), rdb, key)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first, second := note(KindAlert), note(KindQuotaWarning)
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.Subject, got.Subject)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Kind, got.Kind)
}
