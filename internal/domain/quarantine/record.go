package quarantine

import (
	"time"

	"github.com/google/uuid"
)

// Reason is the closed diagnostic set attached to quarantined messages.
type Reason string

const (
	ReasonEmptyMessage   Reason = "empty message"
	ReasonMissingBody    Reason = "missing body"
	ReasonUnclassifiable Reason = "could not classify or extract required fields"
	ReasonStorageFailure Reason = "storage failure"

	// processingErrorPrefix is completed with a detail string by NewProcessingError.
	processingErrorPrefix = "processing error: "
)

// NewProcessingError builds the reason recorded when the pipeline recovers
// from an unexpected internal fault.
func NewProcessingError(detail string) Reason {
	return Reason(processingErrorPrefix + detail)
}

// Record is the append-only quarantine entry for a message the pipeline
// could not turn into a transaction. ResolvedAt is set by the reparse poller
// once a later run of the pipeline succeeds for the same body.
type Record struct {
	ID            uuid.UUID  `json:"id" bson:"id"`
	RawBody       string     `json:"raw_body" bson:"raw_body"`
	Reason        Reason     `json:"reason" bson:"reason"`
	QuarantinedAt time.Time  `json:"quarantined_at" bson:"quarantined_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
}

// NewRecord creates a quarantine record stamped with the current time.
func NewRecord(rawBody string, reason Reason, correlationID string) *Record {
	return &Record{
		ID:            uuid.New(),
		RawBody:       rawBody,
		Reason:        reason,
		QuarantinedAt: time.Now().UTC(),
		CorrelationID: correlationID,
	}
}
