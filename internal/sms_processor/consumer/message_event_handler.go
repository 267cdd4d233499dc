package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/momo-sms-pipeline/internal/platform/messaging/producers"
	"github.com/momo-sms-pipeline/internal/sms_processor/service"
)

// MessageEventHandler handles incoming raw SMS messages from Kafka
type MessageEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewMessageEventHandler creates a new handler
func NewMessageEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *MessageEventHandler {
	return &MessageEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages. Envelopes that cannot even be
// unmarshalled go to the DLQ; everything else is handed to the pipeline,
// which owns the quarantine decision.
func (h *MessageEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var raw message.RawMessage
	if err := json.Unmarshal(value, &raw); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal raw message from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if raw.CorrelationID != "" {
		logger = h.logger.With("correlation_id", raw.CorrelationID)
	}

	logger.Info("Received raw message for processing",
		"origin", raw.OriginMarker,
		"body_length", len(raw.Body),
	)

	if err := h.processingService.ProcessMessage(ctx, &raw); err != nil {
		logger.Error("Failed to process raw message",
			"message_key", string(key),
			"error", err,
		)
		return fmt.Errorf("processing message %s failed: %w", string(key), err)
	}

	logger.Debug("Successfully processed raw message", "message_key", string(key))
	return nil // Success, commit offset
}
