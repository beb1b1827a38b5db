package notify

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueFull   = errors.New("notification queue full")
	ErrQueueClosed = errors.New("notification queue closed")
)

type Queue interface {
	Enqueue(ctx context.Context, n Notification) error
	// Dequeue blocks until a notification is available, ctx is done, or the queue closes.
	Dequeue(ctx context.Context) (Notification, error)
	Close() error
}

// MemoryQueue is a bounded in-process queue. Pending notifications are lost on restart.
type MemoryQueue struct {
	ch        chan Notification
	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer < 1 {
		buffer = 1
	}
	return &MemoryQueue{
		ch:   make(chan Notification, buffer),
		done: make(chan struct{}),
	}
}

// Enqueue never blocks: a full buffer is reported as ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, n Notification) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Notification, error) {
	select {
	case n := <-q.ch:
		return n, nil
	case <-ctx.Done():
		return Notification{}, ctx.Err()
	case <-q.done:
		return Notification{}, ErrQueueClosed
	}
}

func (q *MemoryQueue) Len() int { return len(q.ch) }

func (q *MemoryQueue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}
