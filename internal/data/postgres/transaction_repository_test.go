package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sampleTransaction() *transaction.Transaction {
	return &transaction.Transaction{
		TransactionID:     "76662021700",
		Category:          transaction.CategoryIncomingMoney,
		Amount:            2000,
		Fee:               0,
		Sender:            "Jane Smith",
		Receiver:          transaction.SelfParty,
		OccurredAt:        time.Date(2024, 5, 10, 16, 30, 51, 0, time.UTC),
		Status:            transaction.StatusCompleted,
		Description:       "You have received 2000 RWF from Jane Smith",
		RawBody:           "You have received 2000 RWF from Jane Smith",
		TimestampInferred: false,
	}
}

var transactionRowColumns = []string{
	"id", "dedupe_key", "transaction_id", "category", "amount", "fee", "sender", "receiver",
	"occurred_at", "status", "description", "raw_body", "timestamp_inferred",
}

func addTransactionRow(rows *pgxmock.Rows, tx *transaction.Transaction) *pgxmock.Rows {
	return rows.AddRow(
		uuid.New(), tx.DedupeKey(), tx.TransactionID, tx.Category, tx.Amount, tx.Fee,
		tx.Sender, tx.Receiver, tx.OccurredAt, tx.Status, tx.Description, tx.RawBody, tx.TimestampInferred,
	)
}

func TestTransactionRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	tx := sampleTransaction()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(pgxmock.AnyArg(), tx.DedupeKey(), tx.TransactionID, tx.Category, tx.Amount, tx.Fee,
				tx.Sender, tx.Receiver, tx.OccurredAt, tx.Status, tx.Description, tx.RawBody, tx.TimestampInferred).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Upsert(ctx, tx)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(pgxmock.AnyArg(), tx.DedupeKey(), tx.TransactionID, tx.Category, tx.Amount, tx.Fee,
				tx.Sender, tx.Receiver, tx.OccurredAt, tx.Status, tx.Description, tx.RawBody, tx.TimestampInferred).
			WillReturnError(expectedErr)

		err := repo.Upsert(ctx, tx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert transaction")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_GetByTransactionID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	expected := sampleTransaction()

	t.Run("success", func(t *testing.T) {
		rows := addTransactionRow(pgxmock.NewRows(transactionRowColumns), expected)
		mock.ExpectQuery("FROM transactions").WithArgs(expected.TransactionID).WillReturnRows(rows)

		tx, err := repo.GetByTransactionID(ctx, expected.TransactionID)
		assert.NoError(t, err)
		assert.Equal(t, expected, tx)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

		tx, err := repo.GetByTransactionID(ctx, "missing")
		assert.Error(t, err)
		assert.Nil(t, tx)
		var notFoundErr transaction.ErrNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, "missing", notFoundErr.TransactionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_List(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	expected := sampleTransaction()

	t.Run("no filter", func(t *testing.T) {
		rows := addTransactionRow(pgxmock.NewRows(transactionRowColumns), expected)
		mock.ExpectQuery("FROM transactions").WithArgs(10, 0).WillReturnRows(rows)

		list, err := repo.List(ctx, transaction.Filter{}, 10, 0)
		assert.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, expected, list[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category and status filter", func(t *testing.T) {
		rows := addTransactionRow(pgxmock.NewRows(transactionRowColumns), expected)
		mock.ExpectQuery("FROM transactions").
			WithArgs(transaction.CategoryIncomingMoney, transaction.StatusCompleted, 10, 0).
			WillReturnRows(rows)

		list, err := repo.List(ctx, transaction.Filter{
			Category: transaction.CategoryIncomingMoney,
			Status:   transaction.StatusCompleted,
		}, 10, 0)
		assert.NoError(t, err)
		require.Len(t, list, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery("FROM transactions").WithArgs(10, 0).WillReturnError(errors.New("db error"))

		list, err := repo.List(ctx, transaction.Filter{}, 10, 0)
		assert.Error(t, err)
		assert.Nil(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_Search(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}
	expected := sampleTransaction()

	rows := addTransactionRow(pgxmock.NewRows(transactionRowColumns), expected)
	mock.ExpectQuery("FROM transactions").WithArgs("%Jane%", 20).WillReturnRows(rows)

	list, err := repo.Search(ctx, "Jane", 20)
	assert.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane Smith", list[0].Sender)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_Statistics(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}

	rows := pgxmock.NewRows([]string{"count", "money_in", "money_out", "total_volume", "month_count", "month_income", "month_expenses"}).
		AddRow(int64(10), float64(5000), float64(3000), float64(8000), int64(4), float64(2000), float64(1000))
	mock.ExpectQuery("FROM transactions").WillReturnRows(rows)

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalTransactions)
	assert.Equal(t, float64(5000), stats.MoneyIn)
	assert.Equal(t, float64(3000), stats.MoneyOut)
	assert.Equal(t, float64(2000), stats.TotalBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_SummaryByCategory(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}

	rows := pgxmock.NewRows([]string{"category", "count", "total_amount", "avg_amount"}).
		AddRow(transaction.CategoryPayment, int64(6), float64(6000), float64(1000)).
		AddRow(transaction.CategoryIncomingMoney, int64(4), float64(8000), float64(2000))
	mock.ExpectQuery("GROUP BY category").WillReturnRows(rows)

	summaries, err := repo.SummaryByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, transaction.CategoryPayment, summaries[0].Category)
	assert.Equal(t, int64(6), summaries[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_MonthlyAnalytics(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}

	rows := pgxmock.NewRows([]string{"month", "count", "income", "expenses", "total_volume", "total_fees"}).
		AddRow("2024-05", int64(8), float64(5000), float64(2000), float64(7000), float64(150))
	mock.ExpectQuery("GROUP BY month").WillReturnRows(rows)

	buckets, err := repo.MonthlyAnalytics(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-05", buckets[0].Month)
	assert.Equal(t, float64(3000), buckets[0].NetFlow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_HourlyDistribution(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: logger}

	rows := pgxmock.NewRows([]string{"hour", "count", "total_amount", "avg_amount"}).
		AddRow(9, int64(3), float64(900), float64(300)).
		AddRow(16, int64(5), float64(2500), float64(500))
	mock.ExpectQuery("GROUP BY hour").WillReturnRows(rows)

	buckets, err := repo.HourlyDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, 16, buckets[1].Hour)
	assert.Equal(t, int64(5), buckets[1].TransactionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
