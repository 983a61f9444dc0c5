package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/onboarding-backend/internal/domain/onboarding"
	"github.com/yungbote/onboarding-backend/internal/http/response"
	"github.com/yungbote/onboarding-backend/internal/platform/apierr"
	"github.com/yungbote/onboarding-backend/internal/services"
)

type OnboardingHandler struct {
	onboarding services.OnboardingService
}

func NewOnboardingHandler(onboarding services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

type updateSessionRequest struct {
	FormData    onboarding.FormData `json:"formData"`
	CurrentStep *int                `json:"currentStep"`
}

func respond(c *gin.Context, err error, fallbackCode string) {
	apiErr := apierr.FromOnboarding(err, fallbackCode)
	if apiErr.Status >= http.StatusInternalServerError {
		// keeps the cause for the request log; the body stays generic
		_ = c.Error(err)
	}
	response.RespondAPIError(c, apiErr)
}

// POST /api/onboarding/sessions
func (h *OnboardingHandler) CreateSession(c *gin.Context) {
	res, err := h.onboarding.Bootstrap(c.Request.Context())
	if err != nil {
		respond(c, err, "store_error")
		return
	}
	response.RespondCreated(c, res)
}

// GET /api/onboarding/sessions/:sessionId
func (h *OnboardingHandler) GetSession(c *gin.Context) {
	session, err := h.onboarding.Get(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respond(c, err, "store_error")
		return
	}
	response.RespondOK(c, gin.H{"session": session})
}

// PATCH /api/onboarding/sessions/:sessionId
// PUT /api/onboarding/sessions/:sessionId
func (h *OnboardingHandler) UpdateSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if _, err := onboarding.ParseID("sessionId", sessionID); err != nil {
		respond(c, err, "invalid_request")
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if onboarding.IsFormatError(err) {
			respond(c, err, "invalid_request")
			return
		}
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is required")
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.CurrentStep == nil {
		respond(c, &onboarding.FormatError{Field: "currentStep", Reason: "is required"}, "invalid_request")
		return
	}

	res, err := h.onboarding.Update(c.Request.Context(), services.UpdateInput{
		SessionID:   sessionID,
		CurrentStep: *req.CurrentStep,
		FormData:    req.FormData,
	})
	if err != nil {
		respond(c, err, "store_error")
		return
	}
	response.RespondOK(c, gin.H{
		"sessionId": res.SessionID,
		"lastSaved": res.LastSaved,
		"success":   true,
	})
}

// DELETE /api/onboarding/sessions/:sessionId/products/:productId/photos/:photoId
func (h *OnboardingHandler) DeletePhoto(c *gin.Context) {
	err := h.onboarding.DeletePhoto(
		c.Request.Context(),
		c.Param("sessionId"),
		c.Param("productId"),
		c.Param("photoId"),
	)
	if err != nil {
		respond(c, err, "store_error")
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/onboarding/steps
func (h *OnboardingHandler) ListSteps(c *gin.Context) {
	response.RespondOK(c, gin.H{"steps": h.onboarding.Steps()})
}
