package handler

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/momo-sms-pipeline/internal/api_gateway/middleware"
	"github.com/momo-sms-pipeline/internal/api_gateway/service"
)

// UploadHandler handles backup XML uploads
type UploadHandler struct {
	ingestService service.IngestService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(logger *slog.Logger, ingestService service.IngestService) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// Upload accepts a multipart backup XML file and queues its money-service
// messages for processing
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Error("Missing upload file", "error", err)
		RespondBadRequest(c, "Missing multipart file field 'file'")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
		RespondInternalError(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", "filename", fileHeader.Filename, "error", err)
		RespondInternalError(c)
		return
	}

	report, err := h.ingestService.IngestBackup(c.Request.Context(), data, middleware.GetCorrelationID(c))
	if err != nil {
		if errors.Is(err, service.ErrMalformedBackup) {
			RespondBadRequest(c, "Uploaded file is not a valid backup document")
			return
		}
		h.logger.Error("Failed to ingest backup upload", "filename", fileHeader.Filename, "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, report)
}
