package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsWritePrometheus(t *testing.T) {
	m := New(0)
	m.ObserveAPI("PATCH", "/api/onboarding/sessions/:sessionId", "200", 20*time.Millisecond)
	m.ObserveStoreOp("sqlite", "save", "ok", 5*time.Millisecond)
	m.IncValidationFailure("products[2].name")
	m.IncPhotoDelete("gcs", "absent")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`onb_api_requests_total{method="PATCH",route="/api/onboarding/sessions/:sessionId",status="200"} 1.000000`,
		`onb_session_store_ops_total{op="save",outcome="ok"} 1.000000`,
		`onb_validation_failures_total{field="products"} 1.000000`,
		`onb_photo_deletes_total{backend="gcs",outcome="absent"} 1.000000`,
		`onb_api_request_duration_seconds_bucket{method="PATCH",route="/api/onboarding/sessions/:sessionId",le="0.025"} 1`,
		`# TYPE onb_api_inflight_requests gauge`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestMetricsNilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncValidationFailure("contact.email")
	if got := m.ValidationFailureCount("contact"); got != 0 {
		t.Fatalf("nil count: want=0 got=%v", got)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=%d got=%d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{`a"b\c`})
	if want := `{route="a\"b\\c"}`; got != want {
		t.Fatalf("labelString: want=%q got=%q", want, got)
	}
}
