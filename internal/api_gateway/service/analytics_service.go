package service

import (
	"context"
	"log/slog"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// AnalyticsServiceImpl implements the AnalyticsService interface
type AnalyticsServiceImpl struct {
	transactionRepo transaction.Repository
	logger          *slog.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(logger *slog.Logger, transactionRepo transaction.Repository) AnalyticsService {
	return &AnalyticsServiceImpl{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Statistics retrieves whole-store totals and the current-month slice
func (s *AnalyticsServiceImpl) Statistics(ctx context.Context) (*transaction.Statistics, error) {
	stats, err := s.transactionRepo.Statistics(ctx)
	if err != nil {
		s.logger.Error("Failed to compute statistics", "error", err)
		return nil, err
	}
	return stats, nil
}

// CategorySummary retrieves per-category aggregation rows
func (s *AnalyticsServiceImpl) CategorySummary(ctx context.Context) ([]*transaction.CategorySummary, error) {
	summary, err := s.transactionRepo.SummaryByCategory(ctx)
	if err != nil {
		s.logger.Error("Failed to compute category summary", "error", err)
		return nil, err
	}
	return summary, nil
}

// MonthlyAnalytics retrieves per-month aggregation rows
func (s *AnalyticsServiceImpl) MonthlyAnalytics(ctx context.Context) ([]*transaction.MonthlyBucket, error) {
	buckets, err := s.transactionRepo.MonthlyAnalytics(ctx)
	if err != nil {
		s.logger.Error("Failed to compute monthly analytics", "error", err)
		return nil, err
	}
	return buckets, nil
}

// HourlyDistribution retrieves the 24-bucket hourly distribution. The store
// only returns hours that have transactions; the remaining hours are
// zero-filled here so clients always see a complete day.
func (s *AnalyticsServiceImpl) HourlyDistribution(ctx context.Context) ([]*transaction.HourlyBucket, error) {
	buckets, err := s.transactionRepo.HourlyDistribution(ctx)
	if err != nil {
		s.logger.Error("Failed to compute hourly distribution", "error", err)
		return nil, err
	}

	full := make([]*transaction.HourlyBucket, 24)
	for hour := range full {
		full[hour] = &transaction.HourlyBucket{Hour: hour}
	}
	for _, bucket := range buckets {
		if bucket.Hour >= 0 && bucket.Hour < 24 {
			full[bucket.Hour] = bucket
		}
	}
	return full, nil
}
