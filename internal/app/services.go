package app

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/data/aggregates"
	"github.com/yungbote/reviewloop-backend/internal/data/repos"
	"github.com/yungbote/reviewloop-backend/internal/modules/intake"
	"github.com/yungbote/reviewloop-backend/internal/notify"
	"github.com/yungbote/reviewloop-backend/internal/observability"
	"github.com/yungbote/reviewloop-backend/internal/plans"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
	"github.com/yungbote/reviewloop-backend/internal/platform/sendgrid"
	"github.com/yungbote/reviewloop-backend/internal/services"
)

type Services struct {
	Metrics    *observability.Metrics
	Plans      *plans.Catalog
	Queue      notify.Queue
	Dispatcher *notify.Dispatcher
	Intake     services.IntakeService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet repos.Set, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	catalog, err := plans.Load(cfg.PlansFile)
	if err != nil {
		return Services{}, fmt.Errorf("load plans: %w", err)
	}
	log.Info("Plan catalog loaded", "plans", catalog.IDs())

	queue, err := wireQueue(log, cfg)
	if err != nil {
		return Services{}, err
	}
	sender, err := wireSender(log, cfg)
	if err != nil {
		_ = queue.Close()
		return Services{}, err
	}
	dispatcherCfg := notify.DispatcherConfig{
		Workers:     cfg.NotifyWorkers,
		SendTimeout: cfg.SendTimeout,
	}
	hooks := aggregates.NewLogHooks(log, 500*time.Millisecond)
	var observer services.SubmissionObserver
	if metrics != nil {
		dispatcherCfg.Observer = metrics
		hooks = aggregates.MultiHooks(hooks, metrics)
		observer = metrics
	}
	dispatcher := notify.NewDispatcher(log, queue, sender, dispatcherCfg)

	fp, err := intake.NewFingerprinter(cfg.SessionHashKey)
	if err != nil {
		_ = queue.Close()
		return Services{}, err
	}

	submissions := aggregates.NewSubmissionAggregate(aggregates.SubmissionAggregateDeps{
		Base:      aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Responses: reposet.Responses,
		Alerts:    reposet.Alerts,
		Usage:     reposet.Usage,
	})

	intakeService := services.NewIntakeService(log, services.IntakeDeps{
		Surveys:       reposet.Surveys,
		Responses:     reposet.Responses,
		Submissions:   submissions,
		Plans:         catalog,
		Notifier:      dispatcher,
		Composer:      notify.Composer{BaseURL: cfg.AppBaseURL},
		Fingerprinter: fp,
		Observer:      observer,
	})

	return Services{
		Metrics:    metrics,
		Plans:      catalog,
		Queue:      queue,
		Dispatcher: dispatcher,
		Intake:     intakeService,
	}, nil
}

func wireQueue(log *logger.Logger, cfg Config) (notify.Queue, error) {
	switch cfg.NotifyQueue {
	case "", QueueMemory:
		log.Info("Using in-memory notification queue", "buffer", cfg.NotifyBuffer)
		return notify.NewMemoryQueue(cfg.NotifyBuffer), nil
	case QueueRedis:
		q, err := notify.NewRedisQueue(log, cfg.RedisAddr, cfg.NotifyQueueKey)
		if err != nil {
			return nil, fmt.Errorf("init redis queue: %w", err)
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unknown NOTIFY_QUEUE %q", cfg.NotifyQueue)
	}
}

func wireSender(log *logger.Logger, cfg Config) (notify.Sender, error) {
	if strings.TrimSpace(cfg.SendGrid.APIKey) == "" {
		log.Warn("SENDGRID_API_KEY not set; notifications will only be logged")
		return notify.NewLogSender(log), nil
	}
	client, err := sendgrid.New(log, cfg.SendGrid)
	if err != nil {
		return nil, fmt.Errorf("init sendgrid: %w", err)
	}
	return notify.NewEmailSender(client, log), nil
}
