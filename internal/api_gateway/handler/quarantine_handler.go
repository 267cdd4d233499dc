package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momo-sms-pipeline/internal/api_gateway/service"
	"github.com/momo-sms-pipeline/internal/domain/quarantine"
)

// quarantineListLimit caps the recent-records listing.
const quarantineListLimit = 100

// QuarantineHandler handles HTTP requests for quarantine inspection
type QuarantineHandler struct {
	quarantineService service.QuarantineService
	logger            *slog.Logger
}

// NewQuarantineHandler creates a new quarantine handler
func NewQuarantineHandler(logger *slog.Logger, quarantineService service.QuarantineService) *QuarantineHandler {
	return &QuarantineHandler{
		quarantineService: quarantineService,
		logger:            logger,
	}
}

// List returns the most recent quarantine records with the total count
func (h *QuarantineHandler) List(c *gin.Context) {
	records, total, err := h.quarantineService.RecentQuarantine(c.Request.Context(), quarantineListLimit)
	if err != nil {
		h.logger.Error("Failed to list quarantine records", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]QuarantineRecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapQuarantineRecordToResponse(record))
	}

	RespondOK(c, QuarantineListResponse{
		Records: responses,
		Total:   total,
	})
}

// mapQuarantineRecordToResponse maps a quarantine record to a response DTO
func mapQuarantineRecordToResponse(record *quarantine.Record) QuarantineRecordResponse {
	response := QuarantineRecordResponse{
		ID:            record.ID.String(),
		RawBody:       record.RawBody,
		Reason:        string(record.Reason),
		QuarantinedAt: record.QuarantinedAt.Format(time.RFC3339),
	}
	if record.ResolvedAt != nil {
		response.ResolvedAt = record.ResolvedAt.Format(time.RFC3339)
	}
	return response
}
