package service

import (
	"context"
	"log/slog"

	"github.com/momo-sms-pipeline/internal/domain/quarantine"
)

// QuarantineServiceImpl implements the QuarantineService interface
type QuarantineServiceImpl struct {
	quarantineRepo quarantine.Repository
	logger         *slog.Logger
}

// NewQuarantineService creates a new quarantine service
func NewQuarantineService(logger *slog.Logger, quarantineRepo quarantine.Repository) QuarantineService {
	return &QuarantineServiceImpl{
		quarantineRepo: quarantineRepo,
		logger:         logger,
	}
}

// RecentQuarantine returns the most recent quarantine records with the total count
func (s *QuarantineServiceImpl) RecentQuarantine(ctx context.Context, limit int) ([]*quarantine.Record, int64, error) {
	records, err := s.quarantineRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list recent quarantine records", "error", err)
		return nil, 0, err
	}

	total, err := s.quarantineRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count quarantine records", "error", err)
		return nil, 0, err
	}

	return records, total, nil
}
