package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	transactionRepo transaction.Repository
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, transactionRepo transaction.Repository) TransactionService {
	return &TransactionServiceImpl{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// ListTransactions retrieves a filtered, paginated list of transactions
func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, filter transaction.Filter, page, perPage int) ([]*transaction.Transaction, error) {
	offset := (page - 1) * perPage

	transactions, err := s.transactionRepo.List(ctx, filter, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list transactions", "error", err)
		return nil, err
	}
	return transactions, nil
}

// GetTransactionByID retrieves a transaction by its provider-assigned ID.
// Returns nil if not found
func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, transactionID string) (*transaction.Transaction, error) {
	res, err := s.transactionRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound{}) {
			s.logger.Info("Transaction not found", "transaction_id", transactionID)
			return nil, nil
		}
		s.logger.Error("Failed to get transaction by ID", "transaction_id", transactionID, "error", err)
		return nil, err
	}
	return res, nil
}

// SearchTransactions retrieves transactions matching a free-text query
func (s *TransactionServiceImpl) SearchTransactions(ctx context.Context, query string, limit int) ([]*transaction.Transaction, error) {
	transactions, err := s.transactionRepo.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("Failed to search transactions", "query", query, "error", err)
		return nil, err
	}
	return transactions, nil
}

// exportBatchLimit caps a single export query.
const exportBatchLimit = 10000

// ExportTransactions retrieves the full filtered set for export
func (s *TransactionServiceImpl) ExportTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	transactions, err := s.transactionRepo.List(ctx, filter, exportBatchLimit, 0)
	if err != nil {
		s.logger.Error("Failed to export transactions", "error", err)
		return nil, err
	}
	return transactions, nil
}
