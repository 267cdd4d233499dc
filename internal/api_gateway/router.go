package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momo-sms-pipeline/internal/api_gateway/handler"
	"github.com/momo-sms-pipeline/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	uploadHandler *handler.UploadHandler,
	transactionHandler *handler.TransactionHandler,
	analyticsHandler *handler.AnalyticsHandler,
	quarantineHandler *handler.QuarantineHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Backup upload
		messages := v1.Group("/messages")
		{
			messages.POST("/upload", uploadHandler.Upload)
		}

		// Transaction read operations. Fixed paths are registered before the
		// :id parameter route so gin does not capture them.
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/search", transactionHandler.Search)
			transactions.GET("/export", transactionHandler.Export)
			transactions.GET("/:id", transactionHandler.GetByID)
		}

		// Aggregate views
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/statistics", analyticsHandler.Statistics)
			analytics.GET("/summary", analyticsHandler.Summary)
			analytics.GET("/monthly", analyticsHandler.Monthly)
			analytics.GET("/hourly", analyticsHandler.Hourly)
		}

		// Quarantine inspection
		v1.GET("/quarantine", quarantineHandler.List)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
