package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func newLocalApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("LOG_MODE", "test")
	t.Setenv("SESSION_STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("PHOTO_STORAGE_BACKEND", "local")
	t.Setenv("PHOTO_LOCAL_ROOT", t.TempDir())
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, out
}

func TestAppOnboardingFlow(t *testing.T) {
	a := newLocalApp(t)
	h := a.Server.Engine

	rec, body := call(t, h, http.MethodPost, "/api/onboarding/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: want=%d got=%d body=%s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	sid, _ := body["sessionId"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		t.Fatalf("create: bad session id %q", sid)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("create: missing X-Request-Id header")
	}

	productID := uuid.NewString()
	patch := `{"currentStep":3,"formData":{"businessName":"Oak & Ember","products":[` +
		`{"id":"` + productID + `","name":"Soap","description":"Olive oil soap bar","price":6.5}]}}`
	rec, body = call(t, h, http.MethodPatch, "/api/onboarding/sessions/"+sid, patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("patch: want success=true got=%v", body["success"])
	}

	rec, _ = call(t, h, http.MethodPut, "/api/onboarding/sessions/"+sid, `{"currentStep":3,"formData":{"products":[{"name":"ab","description":"short"}]}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid patch: want=%d got=%d", http.StatusUnprocessableEntity, rec.Code)
	}

	rec, body = call(t, h, http.MethodGet, "/api/onboarding/sessions/"+sid, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: want=%d got=%d", http.StatusOK, rec.Code)
	}
	session, _ := body["session"].(map[string]any)
	if step, _ := session["currentStep"].(float64); step != 3 {
		t.Fatalf("get: currentStep want=3 got=%v", session["currentStep"])
	}
	if !strings.Contains(rec.Body.String(), productID) {
		t.Fatalf("get: product %s missing from %s", productID, rec.Body.String())
	}

	photo := "/api/onboarding/sessions/" + sid + "/products/" + productID + "/photos/" + uuid.NewString()
	for i := 0; i < 2; i++ {
		rec, _ = call(t, h, http.MethodDelete, photo, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete #%d: want=%d got=%d", i+1, http.StatusOK, rec.Code)
		}
	}

	rec, body = call(t, h, http.MethodGet, "/api/onboarding/sessions/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
	if apiErr, _ := body["error"].(map[string]any); apiErr["code"] != "invalid_session_id" {
		t.Fatalf("bad id: want code invalid_session_id got=%v", apiErr["code"])
	}

	rec, _ = call(t, h, http.MethodGet, "/api/onboarding/sessions/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: want=%d got=%d", http.StatusNotFound, rec.Code)
	}

	rec, _ = call(t, h, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var sb strings.Builder
	if err := a.Metrics.WritePrometheus(&sb); err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !strings.Contains(sb.String(), "/api/onboarding/sessions/:sessionId") {
		t.Fatalf("metrics: expected route label in output")
	}
}
