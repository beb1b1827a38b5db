package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/reviewloop-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var seen *ctxutil.TraceData
	r.GET("/healthcheck", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil {
		t.Fatalf("trace data not attached")
	}
	if seen.RequestID != "req-42" {
		t.Fatalf("request id: got=%q want=%q", seen.RequestID, "req-42")
	}
	if seen.TraceID == "" {
		t.Fatalf("expected generated trace id")
	}
	if got := rec.Header().Get(headerTraceID); got != seen.TraceID {
		t.Fatalf("trace header: got=%q want=%q", got, seen.TraceID)
	}
}

func TestAttachTraceContextRejectsUnsafeClientIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := map[string]string{
		"spaces":   "my name is jane",
		"newline":  "abc\ndef",
		"too long": strings.Repeat("a", maxClientIDLen+1),
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
			req.Header[headerRequestID] = []string{id}
			req.Header[headerTraceID] = []string{id}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if got := rec.Header().Get(headerRequestID); got == id || got == "" {
				t.Fatalf("request id not replaced: %q", got)
			}
			if got := rec.Header().Get(headerTraceID); got == id || got == "" {
				t.Fatalf("trace id not replaced: %q", got)
			}
		})
	}
}

func TestClientID(t *testing.T) {
	if got := clientID(" req-1.a_b "); got != "req-1.a_b" {
		t.Fatalf("clientID trimmed token: got=%q", got)
	}
	if got := clientID("a/b"); got != "" {
		t.Fatalf("clientID slash: got=%q", got)
	}
}
