package service

import (
	"context"

	"github.com/momo-sms-pipeline/internal/domain/message"
)

// ProcessingService defines the interface for processing raw SMS messages.
type ProcessingService interface {
	ProcessMessage(ctx context.Context, raw *message.RawMessage) error
}
