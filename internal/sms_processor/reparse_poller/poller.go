package reparse_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momo-sms-pipeline/internal/config"
	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/momo-sms-pipeline/internal/domain/quarantine"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/momo-sms-pipeline/internal/pipeline"
)

// Poller periodically re-runs unresolved quarantined messages through the
// parsing pipeline. Pattern tables evolve; a body that failed under an older
// table may parse cleanly today. Upserts are keyed by dedupe key, so reparsing
// a message that was already stored is harmless.
type Poller struct {
	parser          *pipeline.Parser
	quarantineRepo  quarantine.Repository
	transactionRepo transaction.Repository
	logger          *slog.Logger
	pollInterval    time.Duration
	batchSize       int
}

func NewPoller(
	cfg *config.ReparseConfig,
	parser *pipeline.Parser,
	quarantineRepo quarantine.Repository,
	transactionRepo transaction.Repository,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		parser:          parser,
		quarantineRepo:  quarantineRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		pollInterval:    cfg.PollingInterval,
		batchSize:       cfg.BatchSize,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Reparse Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Reparse Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			p.logger.Debug("Reparse Poller tick: reprocessing unresolved records")
			if err := p.reprocessUnresolved(ctx); err != nil {
				p.logger.Error("Error during batch reprocessing of quarantined messages", "error", err)
			}
		}
	}
}

func (p *Poller) reprocessUnresolved(ctx context.Context) error {
	records, err := p.quarantineRepo.ListUnresolved(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list unresolved quarantine records: %w", err)
	}

	if len(records) == 0 {
		p.logger.Debug("No unresolved quarantine records found.")
		return nil
	}

	p.logger.Info("Fetched unresolved quarantine records", "count", len(records))

	for _, record := range records {
		// Give the original consumer a full interval before retrying, so a
		// record quarantined mid-tick is not immediately reparsed with the
		// same pattern tables that just rejected it.
		if time.Since(record.QuarantinedAt) < p.pollInterval {
			continue
		}

		logger := p.logger.With("quarantine_id", record.ID.String())
		if record.CorrelationID != "" {
			logger = logger.With("correlation_id", record.CorrelationID)
		}

		result := p.parser.Parse(message.RawMessage{
			Body:          record.RawBody,
			CorrelationID: record.CorrelationID,
		})

		if result.Quarantined() {
			logger.Debug("Quarantined message still unparseable",
				"reason", string(result.Quarantine.Reason),
			)
			continue
		}

		if err := p.transactionRepo.Upsert(ctx, result.Transaction); err != nil {
			logger.Error("Failed to store reparsed transaction, leaving record unresolved",
				"transaction_id", result.Transaction.TransactionID, "error", err,
			)
			continue
		}

		if err := p.quarantineRepo.MarkResolved(ctx, record.ID); err != nil {
			logger.Error("Failed to mark quarantine record as resolved", "error", err)
			continue
		}

		logger.Info("Reparsed quarantined message into transaction",
			"transaction_id", result.Transaction.TransactionID,
			"category", string(result.Transaction.Category),
		)
	}
	return nil
}
