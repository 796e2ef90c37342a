package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/assetcapture/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. A nil
// historyHandler leaves the submission history route unregistered.
func New(captureHandler *handlers.CaptureHandler, referenceHandler *handlers.ReferenceHandler, historyHandler *handlers.HistoryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/session/permissions", captureHandler.Bootstrap)

	r.GET("/draft", captureHandler.GetDraft)
	r.PATCH("/draft", captureHandler.EditDraft)

	scanner := r.Group("/scanner")
	scanner.GET("", captureHandler.GetScanner)
	scanner.POST("/toggle", captureHandler.ToggleScanner)
	scanner.POST("/torch", captureHandler.ToggleTorch)
	scanner.POST("/decode", captureHandler.Decode)

	r.POST("/media/pick", captureHandler.PickImage)
	r.POST("/submit", captureHandler.Submit)

	reference := r.Group("/reference")
	reference.GET("/categories", referenceHandler.Categories)
	reference.GET("/employees", referenceHandler.Employees)
	reference.POST("/reload", referenceHandler.Reload)

	r.GET("/notices", referenceHandler.Notices)
	if historyHandler != nil {
		r.GET("/submissions", historyHandler.ListByCode)
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
