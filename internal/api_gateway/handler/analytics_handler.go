package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/momo-sms-pipeline/internal/api_gateway/service"
)

// AnalyticsHandler handles HTTP requests for aggregate views
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(logger *slog.Logger, analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// Statistics returns whole-store totals and the current-month slice
func (h *AnalyticsHandler) Statistics(c *gin.Context) {
	stats, err := h.analyticsService.Statistics(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get statistics", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, stats)
}

// Summary returns per-category aggregation rows
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analyticsService.CategorySummary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get category summary", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, summary)
}

// Monthly returns per-month aggregation rows
func (h *AnalyticsHandler) Monthly(c *gin.Context) {
	buckets, err := h.analyticsService.MonthlyAnalytics(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get monthly analytics", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, buckets)
}

// Hourly returns the 24-bucket hourly distribution
func (h *AnalyticsHandler) Hourly(c *gin.Context) {
	buckets, err := h.analyticsService.HourlyDistribution(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get hourly distribution", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, buckets)
}
