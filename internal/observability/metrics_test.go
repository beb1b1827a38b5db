package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func enabledMetrics() *Metrics {
	return NewMetrics(MetricsConfig{Enabled: true, SlowAPI: 100 * time.Millisecond})
}

func TestNewMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	require.Nil(t, m)

	// Every recorder is a no-op on nil.
	m.ObserveAPI("GET", "/x", 200, time.Millisecond)
	m.APIInflightInc()
	m.APIInflightDec()
	m.ObserveSubmission("accepted", "promoter")
	m.ObserveDelivery("alert", "sent", time.Millisecond)
	m.IncEnqueueFailure("alert")
	m.ObserveOperation("submission.record", "success", time.Millisecond)
	m.IncConflict("submission.record")
	m.IncRetry("submission.record")
	assert.Equal(t, "", m.Path())
	assert.NoError(t, m.WritePrometheus(&bytes.Buffer{}))
}

func TestMetricsDefaults(t *testing.T) {
	m := enabledMetrics()
	require.NotNil(t, m)
	assert.Equal(t, "/metrics", m.Path())
	assert.Equal(t, 15*time.Second, m.cfg.ScrapeInterval)
}

func TestObserveAPI(t *testing.T) {
	m := enabledMetrics()
	m.ObserveAPI("POST", "/api/public/submissions", 201, 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/public/submissions", 201, 300*time.Millisecond)
	m.ObserveAPI("", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, m.apiRequests.Value("POST", "/api/public/submissions", "201"))
	assert.Equal(t, 1.0, m.apiRequests.Value("UNKNOWN", "unknown", "404"))
	assert.Equal(t, uint64(2), m.apiLatency.Count("POST", "/api/public/submissions"))
	assert.Equal(t, 1.0, m.apiSlow.Value())
}

func TestSubmissionAndDeliveryCounters(t *testing.T) {
	m := enabledMetrics()
	m.ObserveSubmission("accepted", "detractor")
	m.ObserveSubmission("duplicate", "")
	m.ObserveDelivery("alert", "sent", 40*time.Millisecond)
	m.ObserveDelivery("alert", "failed", time.Second)
	m.IncEnqueueFailure("quota_warning")

	assert.Equal(t, 1.0, m.submissions.Value("accepted", "detractor"))
	assert.Equal(t, 1.0, m.submissions.Value("duplicate", "none"))
	assert.Equal(t, 1.0, m.notifications.Value("alert", "sent"))
	assert.Equal(t, 1.0, m.notifications.Value("alert", "failed"))
	assert.Equal(t, uint64(2), m.notifyDuration.Count("alert"))
	assert.Equal(t, 1.0, m.notifyEnqueueKO.Value("quota_warning"))
}

func TestAggregateHooks(t *testing.T) {
	m := enabledMetrics()
	m.ObserveOperation(" submission.record ", "conflict", 5*time.Millisecond)
	m.IncConflict("submission.record")
	m.IncRetry("submission.record")

	assert.Equal(t, uint64(1), m.aggregateOps.Count("submission.record", "conflict"))
	assert.Equal(t, 1.0, m.aggregateConflicts.Value("submission.record"))
	assert.Equal(t, 1.0, m.aggregateRetries.Value("submission.record"))
}

func TestRecordDBStats(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m := enabledMetrics()
	require.NoError(t, m.recordDBStats(db))
	assert.Equal(t, 3.0, m.dbStats.Value("max_open_connections"))
}

func TestWriteHTTP(t *testing.T) {
	m := enabledMetrics()
	m.ObserveSubmission("accepted", "promoter")

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), `rl_submissions_total{outcome="accepted",category="promoter"} 1`)
	assert.Contains(t, rec.Body.String(), "# TYPE rl_api_request_duration_seconds histogram")

	var nilMetrics *Metrics
	rec = httptest.NewRecorder()
	nilMetrics.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
