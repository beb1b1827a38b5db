package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/platform/envutil"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type MetricsConfig struct {
	Enabled        bool
	Path           string
	ScrapeInterval time.Duration
	SlowAPI        time.Duration
}

// MetricsConfigFromEnv reads METRICS_*; metrics are off unless METRICS_ENABLED is set.
func MetricsConfigFromEnv(log *logger.Logger) MetricsConfig {
	return MetricsConfig{
		Enabled:        envutil.Bool("METRICS_ENABLED", false),
		Path:           envutil.String("METRICS_PATH", "/metrics", log),
		ScrapeInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second),
		SlowAPI:        envutil.Duration("SLO_API_LATENCY_THRESHOLD", 500*time.Millisecond),
	}
}

// Metrics is the process-wide registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	cfg MetricsConfig

	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiSlow     *Counter

	submissions *CounterVec

	notifications   *CounterVec
	notifyDuration  *HistogramVec
	notifyEnqueueKO *CounterVec

	aggregateOps       *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	dbStats *GaugeVec
	redisUp *Gauge
}

// NewMetrics returns nil when metrics are disabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	if cfg.ScrapeInterval <= 0 {
		cfg.ScrapeInterval = 15 * time.Second
	}
	if strings.TrimSpace(cfg.Path) == "" {
		cfg.Path = "/metrics"
	}
	return &Metrics{
		cfg: cfg,

		apiRequests: NewCounterVec("rl_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"rl_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			nil,
		),
		apiInflight: NewGauge("rl_api_inflight_requests", "In-flight API requests."),
		apiSlow:     NewCounter("rl_api_slow_requests_total", "API requests slower than the latency threshold."),

		submissions: NewCounterVec("rl_submissions_total", "Submission attempts by outcome and routing category.", []string{"outcome", "category"}),

		notifications: NewCounterVec("rl_notifications_total", "Notification deliveries by kind and status.", []string{"kind", "status"}),
		notifyDuration: NewHistogramVec(
			"rl_notification_send_seconds",
			"Notification send latency in seconds by kind.",
			[]string{"kind"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		),
		notifyEnqueueKO: NewCounterVec("rl_notification_enqueue_failures_total", "Notifications that never reached the queue.", []string{"kind"}),

		aggregateOps: NewHistogramVec(
			"rl_aggregate_op_duration_seconds",
			"Aggregate write latency in seconds by operation/status.",
			[]string{"op", "status"},
			nil,
		),
		aggregateConflicts: NewCounterVec("rl_aggregate_conflicts_total", "Aggregate writes rejected as conflicts.", []string{"op"}),
		aggregateRetries:   NewCounterVec("rl_aggregate_retries_total", "Aggregate writes that failed with a retryable error.", []string{"op"}),

		dbStats: NewGaugeVec("rl_db_pool", "database/sql pool statistics.", []string{"stat"}),
		redisUp: NewGauge("rl_redis_up", "1 when the notification queue's Redis answered the last ping."),
	}
}

func (m *Metrics) Path() string {
	if m == nil {
		return ""
	}
	return m.cfg.Path
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, metric := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiSlow,
		m.submissions,
		m.notifications, m.notifyDuration, m.notifyEnqueueKO,
		m.aggregateOps, m.aggregateConflicts, m.aggregateRetries,
		m.dbStats, m.redisUp,
	} {
		if err := metric.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
	if m.cfg.SlowAPI > 0 && dur > m.cfg.SlowAPI {
		m.apiSlow.Inc()
	}
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveSubmission counts one submission attempt. category is empty for rejections.
func (m *Metrics) ObserveSubmission(outcome, category string) {
	if m == nil {
		return
	}
	if category == "" {
		category = "none"
	}
	m.submissions.Inc(outcome, category)
}

func (m *Metrics) ObserveDelivery(kind, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.notifications.Inc(kind, status)
	m.notifyDuration.Observe(dur.Seconds(), kind)
}

func (m *Metrics) IncEnqueueFailure(kind string) {
	if m == nil {
		return
	}
	m.notifyEnqueueKO.Inc(kind)
}

// ObserveOperation, IncConflict and IncRetry satisfy the aggregate write hooks.
func (m *Metrics) ObserveOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Observe(dur.Seconds(), strings.TrimSpace(name), status)
}

func (m *Metrics) IncConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(strings.TrimSpace(name))
}

func (m *Metrics) IncRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(strings.TrimSpace(name))
}

func (m *Metrics) recordDBStats(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	stats := sqlDB.Stats()
	m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
	m.dbStats.Set(float64(stats.InUse), "in_use")
	m.dbStats.Set(float64(stats.Idle), "idle")
	m.dbStats.Set(float64(stats.WaitCount), "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
	return nil
}

// StartDBCollector samples pool statistics until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.cfg.ScrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.recordDBStats(db); err != nil && log != nil {
					log.Warn("metrics: db stats unavailable", "error", err)
				}
			}
		}
	}()
}

// StartRedisCollector pings addr on every scrape interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		defer rdb.Close()
		ticker := time.NewTicker(m.cfg.ScrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
				err := rdb.Ping(pctx).Err()
				cancel()
				if err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
			}
		}
	}()
}
