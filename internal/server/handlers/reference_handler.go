package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

// ReferenceService serves the cached lookup lists.
type ReferenceService interface {
	Categories() models.ReferenceList
	Employees() models.ReferenceList
	Reload(ctx context.Context) error
}

// NoticeFeed drains operator notices.
type NoticeFeed interface {
	Drain() []models.Notice
}

// ReferenceHandler exposes lookup lists and notices to the form.
type ReferenceHandler struct {
	refs   ReferenceService
	feed   NoticeFeed
	logger *zap.Logger
}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler(refs ReferenceService, feed NoticeFeed, logger *zap.Logger) *ReferenceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceHandler{refs: refs, feed: feed, logger: logger}
}

func (h *ReferenceHandler) Categories(c *gin.Context) {
	writeList(c, h.refs.Categories())
}

func (h *ReferenceHandler) Employees(c *gin.Context) {
	writeList(c, h.refs.Employees())
}

// Reload refetches both lists.
func (h *ReferenceHandler) Reload(c *gin.Context) {
	if err := h.refs.Reload(c.Request.Context()); err != nil {
		h.logger.Error("reference reload failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to reload reference data"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Notices drains pending notices.
func (h *ReferenceHandler) Notices(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.Drain())
}

func writeList(c *gin.Context, list models.ReferenceList) {
	c.JSON(http.StatusOK, gin.H{"loaded": list.Loaded(), "items": list.Items()})
}
