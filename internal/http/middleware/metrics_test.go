package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/reviewloop-backend/internal/observability"
)

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics(observability.MetricsConfig{Enabled: true})

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/surveys/:id/steps", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/surveys/"+id+"/steps", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	want := `rl_api_requests_total{method="GET",route="/surveys/:id/steps",status="200"} 2`
	if !bytes.Contains(buf.Bytes(), []byte(want)) {
		t.Fatalf("missing %q in:\n%s", want, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("rl_api_inflight_requests 0")) {
		t.Fatalf("inflight gauge not back to zero:\n%s", buf.String())
	}
}

func TestMetricsNilPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
