package message

import (
	"strings"
	"time"
)

// RawMessage is one SMS notification handed to the parsing pipeline.
// Body is the notification text; ExternalTimestamp and ReadableDate carry
// transport-level delivery metadata used only as timestamp fallbacks.
type RawMessage struct {
	Body              string     `json:"body"`
	MissingBody       bool       `json:"missing_body,omitempty"`
	OriginMarker      string     `json:"origin_marker,omitempty"`
	ExternalTimestamp *time.Time `json:"external_timestamp,omitempty"`
	ReadableDate      string     `json:"readable_date,omitempty"`
	CorrelationID     string     `json:"correlation_id,omitempty"`
}

// FromMoneyService reports whether the message came from the money-service
// channel identified by marker. An empty marker disables filtering.
func (m *RawMessage) FromMoneyService(marker string) bool {
	if marker == "" {
		return true
	}
	return strings.Contains(m.OriginMarker, marker)
}
