package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details []onboarding.Violation
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromOnboarding maps the onboarding error taxonomy to HTTP. fallbackCode is
// used for store failures so callers can say which operation failed.
func FromOnboarding(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var fe *onboarding.FormatError
	if errors.As(err, &fe) {
		code := "invalid_request"
		switch fe.Field {
		case "sessionId":
			code = "invalid_session_id"
		case "productId":
			code = "invalid_product_id"
		case "photoId":
			code = "invalid_photo_id"
		}
		return New(http.StatusBadRequest, code, fe)
	}
	var ve *onboarding.ValidationError
	if errors.As(err, &ve) {
		return &Error{Status: http.StatusUnprocessableEntity, Code: "validation_failed", Err: ve, Details: ve.Violations}
	}
	if errors.Is(err, onboarding.ErrNotFound) {
		return New(http.StatusNotFound, "session_not_found", onboarding.ErrNotFound)
	}
	var se *onboarding.StoreError
	if errors.As(err, &se) {
		// Only the generic message crosses the wire.
		return New(http.StatusInternalServerError, fallbackCode, errors.New(se.Error()))
	}
	return New(http.StatusInternalServerError, fallbackCode, errors.New("internal error"))
}
