package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/onboarding-backend/internal/observability"
	"github.com/yungbote/onboarding-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/api/onboarding/sessions/:sessionId", func(c *gin.Context) {
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			seen = *td
		}
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		name      string
		requestID string
		wantKept  bool
	}{
		{"generated", "", false},
		{"client id kept", "req-42_a.b", true},
		{"too long", strings.Repeat("a", maxClientIDLen+1), false},
		{"unprintable", "bad id\n", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/onboarding/sessions/abc", nil)
		if tc.requestID != "" {
			req.Header.Set(headerRequestID, tc.requestID)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get(headerRequestID)
		if got == "" {
			t.Fatalf("%s: missing %s header", tc.name, headerRequestID)
		}
		if kept := got == tc.requestID; kept != tc.wantKept {
			t.Fatalf("%s: kept=%v want=%v (got %q)", tc.name, kept, tc.wantKept, got)
		}
		if seen.RequestID != got {
			t.Fatalf("%s: context request id want=%q got=%q", tc.name, got, seen.RequestID)
		}
		if seen.SessionID != "abc" {
			t.Fatalf("%s: session id want=%q got=%q", tc.name, "abc", seen.SessionID)
		}
		if rec.Header().Get(headerTraceID) == "" {
			t.Fatalf("%s: missing %s header", tc.name, headerTraceID)
		}
	}
}

func TestMetricsSkipsProbeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	m := observability.New(0)
	r := gin.New()
	r.Use(Metrics(m, "/readyz"))
	r.GET("/readyz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/onboarding/steps", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/readyz", "/api/onboarding/steps", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := sb.String()
	if strings.Contains(out, `route="/readyz"`) {
		t.Fatalf("probe route should not be recorded:\n%s", out)
	}
	for _, want := range []string{`route="/api/onboarding/steps"`, `route="unmatched"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}
