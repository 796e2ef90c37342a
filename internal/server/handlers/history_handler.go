package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// SubmissionHistory reads the submission audit trail.
type SubmissionHistory interface {
	ListSubmissionsByCode(ctx context.Context, code string) ([]models.SubmissionRecord, error)
}

// HistoryHandler lists past submission attempts for a scanned code.
type HistoryHandler struct {
	history SubmissionHistory
	logger  *zap.Logger
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(history SubmissionHistory, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{history: history, logger: logger}
}

// ListByCode handles GET /submissions?code=...
func (h *HistoryHandler) ListByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	records, err := h.history.ListSubmissionsByCode(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("failed to list submissions", zap.Error(err), zap.String("code", code))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read submission history"})
		return
	}
	if records == nil {
		records = []models.SubmissionRecord{}
	}
	c.JSON(http.StatusOK, records)
}
