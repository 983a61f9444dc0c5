package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/platform/apierr"
	"github.com/yungbote/onboarding-backend/internal/platform/ctxutil"
)

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type APIError struct {
	Message   string       `json:"message"`
	Code      string       `json:"code,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      code,
			RequestID: ctxutil.RequestID(c.Request.Context()),
		},
	})
}

// RespondAPIError writes e with its field level details.
func RespondAPIError(c *gin.Context, e *apierr.Error) {
	if e == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	env := ErrorEnvelope{
		Error: APIError{
			Message:   e.Error(),
			Code:      e.Code,
			Details:   fieldErrors(e.Details),
			RequestID: ctxutil.RequestID(c.Request.Context()),
		},
	}
	c.JSON(e.Status, env)
}

func fieldErrors(vs []onboarding.Violation) []FieldError {
	if len(vs) == 0 {
		return nil
	}
	out := make([]FieldError, 0, len(vs))
	for _, v := range vs {
		out = append(out, FieldError{Field: v.Field, Reason: v.Reason})
	}
	return out
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
