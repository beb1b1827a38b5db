package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

const DefaultQueueKey = "reviewloop:notifications"

// RedisQueue is a list-backed queue: LPUSH to enqueue, BRPOP to dequeue. Notifications
// survive a restart of the API process.
type RedisQueue struct {
	log         *logger.Logger
	rdb         *goredis.Client
	key         string
	pollTimeout time.Duration
}

func NewRedisQueue(log *logger.Logger, addr, key string) (*RedisQueue, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisQueueFromClient(log, rdb, key), nil
}

func NewRedisQueueFromClient(log *logger.Logger, rdb *goredis.Client, key string) *RedisQueue {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultQueueKey
	}
	return &RedisQueue{
		log:         log.With("service", "RedisNotificationQueue"),
		rdb:         rdb,
		key:         key,
		pollTimeout: 2 * time.Second,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, n Notification) error {
	if q == nil || q.rdb == nil {
		return ErrQueueClosed
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, raw).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Notification, error) {
	if q == nil || q.rdb == nil {
		return Notification{}, ErrQueueClosed
	}
	for {
		if err := ctx.Err(); err != nil {
			return Notification{}, err
		}
		res, err := q.rdb.BRPop(ctx, q.pollTimeout, q.key).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if errors.Is(err, goredis.ErrClosed) {
			return Notification{}, ErrQueueClosed
		}
		if err != nil {
			return Notification{}, err
		}
		// BRPOP returns [key, value].
		if len(res) != 2 {
			continue
		}
		var n Notification
		if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
			q.log.Warn("Dropping malformed notification payload", "error", err)
			continue
		}
		return n, nil
	}
}

func (q *RedisQueue) Close() error {
	if q == nil || q.rdb == nil {
		return nil
	}
	return q.rdb.Close()
}
