package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/reviewloop-backend/internal/platform/httpx"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

// DeliveryObserver sees every send attempt and every notification lost before the queue.
type DeliveryObserver interface {
	ObserveDelivery(kind, status string, dur time.Duration)
	IncEnqueueFailure(kind string)
}

type DispatcherConfig struct {
	Workers        int
	EnqueueTimeout time.Duration
	SendTimeout    time.Duration
	Observer       DeliveryObserver
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.Workers < 1 {
		c.Workers = 2
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 5 * time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 60 * time.Second
	}
	if c.Observer == nil {
		c.Observer = noopObserver{}
	}
	return c
}

type noopObserver struct{}

func (noopObserver) ObserveDelivery(string, string, time.Duration) {}
func (noopObserver) IncEnqueueFailure(string)                      {}

// Dispatcher hands notifications to a queue off the caller's goroutine and drains the
// queue with a pool of workers. Nothing it does can fail or block the caller.
type Dispatcher struct {
	log    *logger.Logger
	queue  Queue
	sender Sender
	cfg    DispatcherConfig

	pending sync.WaitGroup
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(log *logger.Logger, queue Queue, sender Sender, cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		log:    log.With("component", "NotificationDispatcher"),
		queue:  queue,
		sender: sender,
		cfg:    cfg.withDefaults(),
	}
}

// Dispatch returns immediately. The enqueue runs detached from ctx cancellation, bounded
// by EnqueueTimeout; failures are logged.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	if d == nil || d.queue == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	detached := context.WithoutCancel(ctx)

	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		defer d.recoverAndLog("enqueue", n)

		ectx, cancel := context.WithTimeout(detached, d.cfg.EnqueueTimeout)
		defer cancel()
		if err := d.queue.Enqueue(ectx, n); err != nil {
			d.cfg.Observer.IncEnqueueFailure(string(n.Kind))
			d.log.Warn("Notification enqueue failed",
				"notification_id", n.ID,
				"kind", n.Kind,
				"practice_id", n.PracticeID,
				"error", err,
			)
		}
	}()
}

// Flush waits for in-flight Dispatch hand-offs to reach the queue.
func (d *Dispatcher) Flush() { d.pending.Wait() }

// Run drains the queue until ctx is done or the queue closes.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("Starting notification workers", "workers", d.cfg.Workers)

	var wg sync.WaitGroup
	for i := 0; i < d.cfg.Workers; i++ {
		workerID := i + 1
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.runLoop(ctx, workerID)
		}()
	}
	wg.Wait()
}

// Start runs the workers in the background.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.Run(ctx)
}

func (d *Dispatcher) runLoop(ctx context.Context, workerID int) {
	for {
		n, err := d.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				d.log.Info("Notification worker stopped", "worker_id", workerID)
				return
			}
			d.log.Warn("Notification dequeue failed", "worker_id", workerID, "error", err)
			if sleepErr := httpx.Sleep(ctx, time.Second); sleepErr != nil {
				return
			}
			continue
		}
		d.deliver(ctx, workerID, n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n Notification) {
	start := time.Now()
	status := "panic"
	defer func() { d.cfg.Observer.ObserveDelivery(string(n.Kind), status, time.Since(start)) }()
	defer d.recoverAndLog("send", n)

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.SendTimeout)
	defer cancel()

	if err := d.sender.Send(sctx, n); err != nil {
		status = "failed"
		d.log.Warn("Notification delivery failed",
			"worker_id", workerID,
			"notification_id", n.ID,
			"kind", n.Kind,
			"practice_id", n.PracticeID,
			"error", err,
		)
		return
	}
	status = "sent"
	d.log.Debug("Notification delivered", "worker_id", workerID, "notification_id", n.ID, "kind", n.Kind)
}

func (d *Dispatcher) recoverAndLog(stage string, n Notification) {
	if r := recover(); r != nil {
		d.log.Error("Notification panic",
			"stage", stage,
			"notification_id", n.ID,
			"kind", n.Kind,
			"panic", fmt.Sprint(r),
		)
	}
}
