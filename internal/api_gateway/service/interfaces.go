package service

import (
	"context"

	"github.com/momo-sms-pipeline/internal/domain/quarantine"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// IngestReport summarizes one backup upload.
type IngestReport struct {
	Published int `json:"published"`
	Skipped   int `json:"skipped"`
}

// IngestService defines the interface for backup upload operations
type IngestService interface {
	// IngestBackup parses a backup XML document, filters it down to
	// money-service messages and publishes each one for processing.
	// Returns ErrMalformedBackup if the document cannot be parsed.
	IngestBackup(ctx context.Context, data []byte, correlationID string) (*IngestReport, error)
}

// TransactionService defines the interface for transaction read operations
type TransactionService interface {
	// ListTransactions retrieves a filtered, paginated list of transactions
	ListTransactions(ctx context.Context, filter transaction.Filter, page, perPage int) ([]*transaction.Transaction, error)

	// GetTransactionByID retrieves a transaction by its provider-assigned ID
	// Returns nil if the transaction is not found
	GetTransactionByID(ctx context.Context, transactionID string) (*transaction.Transaction, error)

	// SearchTransactions retrieves transactions matching a free-text query
	SearchTransactions(ctx context.Context, query string, limit int) ([]*transaction.Transaction, error)

	// ExportTransactions retrieves the full filtered set for export
	ExportTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

// AnalyticsService defines the interface for aggregate views over the store
type AnalyticsService interface {
	Statistics(ctx context.Context) (*transaction.Statistics, error)
	CategorySummary(ctx context.Context) ([]*transaction.CategorySummary, error)
	MonthlyAnalytics(ctx context.Context) ([]*transaction.MonthlyBucket, error)

	// HourlyDistribution returns exactly 24 buckets; hours with no
	// transactions are zero-filled.
	HourlyDistribution(ctx context.Context) ([]*transaction.HourlyBucket, error)
}

// QuarantineService defines the interface for quarantine inspection
type QuarantineService interface {
	// RecentQuarantine returns the most recent quarantine records together
	// with the total record count.
	RecentQuarantine(ctx context.Context, limit int) ([]*quarantine.Record, int64, error)
}
