package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/momo-sms-pipeline/internal/platform/messaging/producers"
)

// ErrMalformedBackup indicates the uploaded document is not a valid backup export
var ErrMalformedBackup = errors.New("malformed backup document")

// IngestServiceImpl implements the IngestService interface
type IngestServiceImpl struct {
	producer     producers.MessagePublisher
	originMarker string
	logger       *slog.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(logger *slog.Logger, producer producers.MessagePublisher, originMarker string) IngestService {
	return &IngestServiceImpl{
		producer:     producer,
		originMarker: originMarker,
		logger:       logger,
	}
}

// IngestBackup parses a backup XML document and publishes every money-service
// message it contains. Parsing and classification happen downstream; the
// gateway only filters by origin and hands the raw bodies over.
func (s *IngestServiceImpl) IngestBackup(ctx context.Context, data []byte, correlationID string) (*IngestReport, error) {
	backup, err := message.ParseBackup(data)
	if err != nil {
		s.logger.Warn("Rejected unparseable backup upload", "error", err)
		return nil, fmt.Errorf("%w: %s", ErrMalformedBackup, err.Error())
	}

	messages, skipped := backup.FilterMoneyService(s.originMarker)

	report := &IngestReport{Skipped: skipped}
	for i := range messages {
		raw := messages[i]
		raw.CorrelationID = correlationID

		if err := s.producer.Publish(ctx, uuid.NewString(), raw); err != nil {
			s.logger.Error("Failed to publish raw message from backup upload",
				"published_so_far", report.Published,
				"error", err,
			)
			return nil, err
		}
		report.Published++
	}

	s.logger.Info("Backup upload ingested",
		"declared_count", backup.Count,
		"published", report.Published,
		"skipped", report.Skipped,
	)
	return report, nil
}
