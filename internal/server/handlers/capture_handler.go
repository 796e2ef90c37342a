package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
	"github.com/mamadbah2/assetcapture/internal/service/capture"
	"github.com/mamadbah2/assetcapture/internal/service/permissions"
	"github.com/mamadbah2/assetcapture/internal/service/scanning"
	"github.com/mamadbah2/assetcapture/internal/service/submission"
)

// CaptureService describes the capture operations the HTTP layer can drive.
type CaptureService interface {
	Bootstrap(ctx context.Context) (permissions.Result, error)
	Draft() models.CaptureDraft
	Edit(ctx context.Context, edit models.DraftEdit) (models.CaptureDraft, error)
	ScannerStatus() scanning.Status
	ToggleScanner(ctx context.Context) (scanning.Status, error)
	ToggleTorch(ctx context.Context) (scanning.Status, error)
	HandleDecode(ctx context.Context, event models.DecodeEvent) (models.CaptureDraft, error)
	PickImage(ctx context.Context) (models.CaptureDraft, error)
	Submit(ctx context.Context) (capture.SubmitReport, error)
}

// CaptureHandler adapts the capture session to HTTP.
type CaptureHandler struct {
	svc    CaptureService
	logger *zap.Logger
}

// NewCaptureHandler constructs the HTTP handler adapter.
func NewCaptureHandler(svc CaptureService, logger *zap.Logger) *CaptureHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureHandler{svc: svc, logger: logger}
}

// Bootstrap runs the permission gate.
func (h *CaptureHandler) Bootstrap(c *gin.Context) {
	result, err := h.svc.Bootstrap(c.Request.Context())
	if err != nil {
		h.logger.Error("bootstrap failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "permission request failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDraft returns the current draft.
func (h *CaptureHandler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Draft())
}

// EditDraft applies a manual edit.
func (h *CaptureHandler) EditDraft(c *gin.Context) {
	var edit models.DraftEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		h.logger.Warn("invalid draft edit", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.svc.Edit(c.Request.Context(), edit)
	if err != nil {
		if errors.Is(err, capture.ErrUnknownStatus) || errors.Is(err, capture.ErrUnknownReference) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("draft edit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to edit draft"})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// GetScanner returns the scanner state.
func (h *CaptureHandler) GetScanner(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ScannerStatus())
}

// ToggleScanner opens or hides the camera view.
func (h *CaptureHandler) ToggleScanner(c *gin.Context) {
	status, err := h.svc.ToggleScanner(c.Request.Context())
	if err != nil {
		h.logger.Error("scanner toggle failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "camera unavailable", "scanner": status})
		return
	}
	c.JSON(http.StatusOK, status)
}

// ToggleTorch flips the torch.
func (h *CaptureHandler) ToggleTorch(c *gin.Context) {
	status, err := h.svc.ToggleTorch(c.Request.Context())
	if err != nil {
		h.logger.Error("torch toggle failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "torch unavailable", "scanner": status})
		return
	}
	c.JSON(http.StatusOK, status)
}

// Decode ingests a decode event from the camera bridge.
func (h *CaptureHandler) Decode(c *gin.Context) {
	var event models.DecodeEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.logger.Warn("invalid decode event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	draft, err := h.svc.HandleDecode(c.Request.Context(), event)
	if err != nil {
		if errors.Is(err, scanning.ErrDecodeIgnored) {
			c.JSON(http.StatusOK, gin.H{"ignored": true})
			return
		}
		h.logger.Error("decode handling failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to handle decode"})
		return
	}
	c.JSON(http.StatusAccepted, draft)
}

// PickImage launches the photo picker.
func (h *CaptureHandler) PickImage(c *gin.Context) {
	draft, err := h.svc.PickImage(c.Request.Context())
	if err != nil {
		h.logger.Error("image pick failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo library unavailable"})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Submit sends the draft to the inventory service.
func (h *CaptureHandler) Submit(c *gin.Context) {
	report, err := h.svc.Submit(c.Request.Context())
	if err != nil {
		if errors.Is(err, submission.ErrSubmissionInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "submission already in progress"})
			return
		}
		h.logger.Error("submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to submit"})
		return
	}

	body := gin.H{
		"outcome":    report.Result.Outcome.Kind(),
		"request_id": report.Result.RequestID,
		"draft":      report.Draft,
	}

	switch outcome := report.Result.Outcome.(type) {
	case submission.Success:
		body["payload"] = json.RawMessage(outcome.Payload)
		c.JSON(http.StatusCreated, body)
	case submission.ValidationFailed:
		body["field_errors"] = outcome.FieldErrors
		body["message"] = outcome.Message
		c.JSON(http.StatusUnprocessableEntity, body)
	case submission.ServerError:
		body["status"] = outcome.Status
		c.JSON(http.StatusBadGateway, body)
	case submission.NetworkError:
		c.JSON(http.StatusServiceUnavailable, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
