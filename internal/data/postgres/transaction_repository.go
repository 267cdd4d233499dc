// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining idempotent writes and
// proper error handling for the SMS transaction store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/momo-sms-pipeline/internal/platform/persistence"
)

// Categories counted as money flowing into the account; everything else is
// treated as outgoing in the aggregation queries.
const incomingCategoriesSQL = `('INCOMING_MONEY', 'BANK_DEPOSIT')`

const transactionColumns = `
	id, dedupe_key, transaction_id, category, amount, fee, sender, receiver,
	occurred_at, status, description, raw_body, timestamp_inferred`

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(), // Initialize with the pool
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx, // Use the transaction
		logger:  r.logger,
	}
}

// Upsert stores a parsed transaction keyed by its dedupe key. Reprocessing the
// same raw message replaces the stored fields instead of inserting a second
// row, so the operation is safe under concurrent delivery of duplicates.
func (r *TransactionRepository) Upsert(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, dedupe_key, transaction_id, category, amount, fee, sender, receiver,
			occurred_at, status, description, raw_body, timestamp_inferred, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (dedupe_key) DO UPDATE SET
			transaction_id = EXCLUDED.transaction_id,
			category = EXCLUDED.category,
			amount = EXCLUDED.amount,
			fee = EXCLUDED.fee,
			sender = EXCLUDED.sender,
			receiver = EXCLUDED.receiver,
			occurred_at = EXCLUDED.occurred_at,
			status = EXCLUDED.status,
			description = EXCLUDED.description,
			raw_body = EXCLUDED.raw_body,
			timestamp_inferred = EXCLUDED.timestamp_inferred,
			updated_at = NOW()
	`

	_, err := r.querier.Exec(ctx, query,
		uuid.New(),
		tx.DedupeKey(),
		tx.TransactionID,
		tx.Category,
		tx.Amount,
		tx.Fee,
		tx.Sender,
		tx.Receiver,
		tx.OccurredAt,
		tx.Status,
		tx.Description,
		tx.RawBody,
		tx.TimestampInferred,
	)
	if err != nil {
		r.logger.Error("Failed to upsert transaction", "dedupe_key", tx.DedupeKey(), "error", err)
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves the most recent record carrying the given
// provider reference.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1
		ORDER BY occurred_at DESC
		LIMIT 1
	`

	tx, err := r.scanOne(r.querier.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get transaction", "transaction_id", transactionID, "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// List returns transactions matching the filter, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter transaction.Filter, limit, offset int) ([]*transaction.Transaction, error) {
	var conditions []string
	var args []interface{}

	appendCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != "" {
		appendCondition("category = $%d", filter.Category)
	}
	if filter.Status != "" {
		appendCondition("status = $%d", filter.Status)
	}
	if !filter.StartDate.IsZero() {
		appendCondition("occurred_at >= $%d", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		appendCondition("occurred_at <= $%d", filter.EndDate)
	}
	if filter.MinAmount > 0 {
		appendCondition("amount >= $%d", filter.MinAmount)
	}
	if filter.MaxAmount > 0 {
		appendCondition("amount <= $%d", filter.MaxAmount)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// Search matches the query text against parties, references and the raw body.
func (r *TransactionRepository) Search(ctx context.Context, query string, limit int) ([]*transaction.Transaction, error) {
	sql := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE raw_body ILIKE $1 OR sender ILIKE $1 OR receiver ILIKE $1 OR transaction_id ILIKE $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, sql, "%"+query+"%", limit)
	if err != nil {
		r.logger.Error("Failed to search transactions", "query", query, "error", err)
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// Statistics aggregates the whole store in a single round trip.
func (r *TransactionRepository) Statistics(ctx context.Context) (*transaction.Statistics, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE category IN ` + incomingCategoriesSQL + `), 0),
			COALESCE(SUM(amount) FILTER (WHERE category NOT IN ` + incomingCategoriesSQL + `), 0),
			COALESCE(SUM(amount), 0),
			COUNT(*) FILTER (WHERE date_trunc('month', occurred_at) = date_trunc('month', NOW())),
			COALESCE(SUM(amount) FILTER (WHERE category IN ` + incomingCategoriesSQL + `
				AND date_trunc('month', occurred_at) = date_trunc('month', NOW())), 0),
			COALESCE(SUM(amount) FILTER (WHERE category NOT IN ` + incomingCategoriesSQL + `
				AND date_trunc('month', occurred_at) = date_trunc('month', NOW())), 0)
		FROM transactions
	`

	var stats transaction.Statistics
	err := r.querier.QueryRow(ctx, query).Scan(
		&stats.TotalTransactions,
		&stats.MoneyIn,
		&stats.MoneyOut,
		&stats.TotalVolume,
		&stats.MonthTransactions,
		&stats.MonthIncome,
		&stats.MonthExpenses,
	)
	if err != nil {
		r.logger.Error("Failed to compute statistics", "error", err)
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	stats.TotalBalance = stats.MoneyIn - stats.MoneyOut
	return &stats, nil
}

// SummaryByCategory returns one aggregation row per category, busiest first.
func (r *TransactionRepository) SummaryByCategory(ctx context.Context) ([]*transaction.CategorySummary, error) {
	query := `
		SELECT category, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(amount), 0)
		FROM transactions
		GROUP BY category
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to summarize by category", "error", err)
		return nil, fmt.Errorf("failed to summarize by category: %w", err)
	}
	defer rows.Close()

	var summaries []*transaction.CategorySummary
	for rows.Next() {
		var s transaction.CategorySummary
		if err := rows.Scan(&s.Category, &s.Count, &s.TotalAmount, &s.AvgAmount); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category summaries: %w", err)
	}

	return summaries, nil
}

// MonthlyAnalytics returns one aggregation row per calendar month in
// chronological order.
func (r *TransactionRepository) MonthlyAnalytics(ctx context.Context) ([]*transaction.MonthlyBucket, error) {
	query := `
		SELECT
			to_char(occurred_at, 'YYYY-MM') AS month,
			COUNT(*),
			COALESCE(SUM(amount) FILTER (WHERE category IN ` + incomingCategoriesSQL + `), 0),
			COALESCE(SUM(amount) FILTER (WHERE category NOT IN ` + incomingCategoriesSQL + `), 0),
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(fee), 0)
		FROM transactions
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to compute monthly analytics", "error", err)
		return nil, fmt.Errorf("failed to compute monthly analytics: %w", err)
	}
	defer rows.Close()

	var buckets []*transaction.MonthlyBucket
	for rows.Next() {
		var b transaction.MonthlyBucket
		if err := rows.Scan(&b.Month, &b.TransactionCount, &b.Income, &b.Expenses, &b.TotalVolume, &b.TotalFees); err != nil {
			return nil, fmt.Errorf("failed to scan monthly bucket: %w", err)
		}
		b.NetFlow = b.Income - b.Expenses
		buckets = append(buckets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read monthly buckets: %w", err)
	}

	return buckets, nil
}

// HourlyDistribution returns per-hour-of-day activity for the heatmap view.
func (r *TransactionRepository) HourlyDistribution(ctx context.Context) ([]*transaction.HourlyBucket, error) {
	query := `
		SELECT EXTRACT(HOUR FROM occurred_at)::int AS hour, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(AVG(amount), 0)
		FROM transactions
		GROUP BY hour
		ORDER BY hour
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to compute hourly distribution", "error", err)
		return nil, fmt.Errorf("failed to compute hourly distribution: %w", err)
	}
	defer rows.Close()

	var buckets []*transaction.HourlyBucket
	for rows.Next() {
		var b transaction.HourlyBucket
		if err := rows.Scan(&b.Hour, &b.TransactionCount, &b.TotalAmount, &b.AvgAmount); err != nil {
			return nil, fmt.Errorf("failed to scan hourly bucket: %w", err)
		}
		buckets = append(buckets, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hourly buckets: %w", err)
	}

	return buckets, nil
}

func (r *TransactionRepository) scanOne(row pgx.Row) (*transaction.Transaction, error) {
	var (
		tx        transaction.Transaction
		id        uuid.UUID
		dedupeKey string
	)
	err := row.Scan(
		&id,
		&dedupeKey,
		&tx.TransactionID,
		&tx.Category,
		&tx.Amount,
		&tx.Fee,
		&tx.Sender,
		&tx.Receiver,
		&tx.OccurredAt,
		&tx.Status,
		&tx.Description,
		&tx.RawBody,
		&tx.TimestampInferred,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) scanAll(rows pgx.Rows) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		tx, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return transactions, nil
}
