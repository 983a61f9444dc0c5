package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

func TestFromOnboardingMapsTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"format", &onboarding.FormatError{Field: "sessionId", Reason: "must be a version 4 UUID"}, http.StatusBadRequest, "invalid_session_id"},
		{"format body", &onboarding.FormatError{Field: "formData", Reason: "must be a JSON object"}, http.StatusBadRequest, "invalid_request"},
		{"validation", onboarding.Violations{{Field: "products[0].name", Reason: "is required"}}.Err(), http.StatusUnprocessableEntity, "validation_failed"},
		{"not found", fmt.Errorf("load: %w", onboarding.ErrNotFound), http.StatusNotFound, "session_not_found"},
		{"store", &onboarding.StoreError{Op: "save session", Err: errors.New("dial tcp 10.0.0.5:5432: refused")}, http.StatusInternalServerError, "store_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromOnboarding(tc.err, "store_error")
			if got.Status != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, got.Status)
			}
			if got.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, got.Code)
			}
		})
	}
}

func TestFromOnboardingStoreErrorDoesNotLeakCause(t *testing.T) {
	got := FromOnboarding(&onboarding.StoreError{Op: "save session", Err: errors.New("pq: password authentication failed")}, "store_error")
	if got.Error() != "failed to save session" {
		t.Fatalf("message: want=%q got=%q", "failed to save session", got.Error())
	}
}

func TestFromOnboardingCarriesViolations(t *testing.T) {
	err := onboarding.Violations{
		{Field: "products[1].price", Reason: "must have at most 2 decimal places"},
		{Field: "products", Reason: "must have at most 6 items"},
	}.Err()
	got := FromOnboarding(err, "store_error")
	if len(got.Details) != 2 {
		t.Fatalf("details: want=2 got=%d", len(got.Details))
	}
	if got.Error() != "products[1].price must have at most 2 decimal places" {
		t.Fatalf("headline: got=%q", got.Error())
	}
}
