package service

import (
	"context"
	"log/slog"

	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/momo-sms-pipeline/internal/domain/quarantine"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/momo-sms-pipeline/internal/pipeline"
)

type ProcessingServiceImpl struct {
	parser       *pipeline.Parser
	transactions transaction.Repository
	quarantines  quarantine.Repository
	logger       *slog.Logger
}

func NewProcessingService(
	parser *pipeline.Parser,
	transactions transaction.Repository,
	quarantines quarantine.Repository,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		parser:       parser,
		transactions: transactions,
		quarantines:  quarantines,
		logger:       logger,
	}
}

// ProcessMessage runs one raw message through the pipeline and lands the
// outcome in exactly one of the two stores. A message that cannot be parsed,
// or whose transaction cannot be stored, ends up quarantined rather than
// erroring, so the consumer always acknowledges and never redelivers.
func (s *ProcessingServiceImpl) ProcessMessage(ctx context.Context, raw *message.RawMessage) error {
	logger := s.logger
	if raw.CorrelationID != "" {
		logger = s.logger.With("correlation_id", raw.CorrelationID)
	}

	result := s.parser.Parse(*raw)

	if result.Quarantined() {
		logger.Warn("Message quarantined",
			"reason", string(result.Quarantine.Reason),
		)
		s.appendQuarantine(ctx, logger, result.Quarantine)
		return nil
	}

	tx := result.Transaction
	logger.Info("Message parsed",
		"transaction_id", tx.TransactionID,
		"category", string(tx.Category),
		"status", string(tx.Status),
		"timestamp_source", string(result.TimestampSource),
	)

	if err := s.transactions.Upsert(ctx, tx); err != nil {
		// Redirect to quarantine so the message is never silently lost; the
		// raw body is enough to rebuild the transaction later.
		logger.Error("Failed to store transaction, redirecting to quarantine",
			"transaction_id", tx.TransactionID,
			"error", err,
		)
		record := quarantine.NewRecord(raw.Body, quarantine.ReasonStorageFailure, raw.CorrelationID)
		s.appendQuarantine(ctx, logger, record)
		return nil
	}

	return nil
}

// appendQuarantine is best-effort: a failed append is logged and dropped
// rather than failing the batch.
func (s *ProcessingServiceImpl) appendQuarantine(ctx context.Context, logger *slog.Logger, record *quarantine.Record) {
	if err := s.quarantines.Append(ctx, record); err != nil {
		logger.Error("Failed to append quarantine record",
			"id", record.ID.String(),
			"reason", string(record.Reason),
			"error", err,
		)
	}
}
