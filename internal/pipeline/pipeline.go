// Package pipeline turns raw mobile-money SMS text into structured
// transaction records. Every stage is a pure function of the message text;
// the orchestrator composes them, applies the timestamp fallback chain and
// guarantees exactly one of {Transaction, Quarantine} per input.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/momo-sms-pipeline/internal/domain/message"
	"github.com/momo-sms-pipeline/internal/domain/quarantine"
	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// TimestampSource records which link of the fallback chain produced the
// final OccurredAt value.
type TimestampSource string

const (
	TimestampFromBody      TimestampSource = "body"
	TimestampFromTransport TimestampSource = "transport"
	TimestampFromReadable  TimestampSource = "readable_date"
	TimestampFromClock     TimestampSource = "inferred"
)

// Result is the outcome of parsing one message: exactly one of Transaction
// and Quarantine is non-nil.
type Result struct {
	Transaction     *transaction.Transaction
	Quarantine      *quarantine.Record
	TimestampSource TimestampSource
}

// Quarantined reports whether the message failed to parse.
func (r *Result) Quarantined() bool {
	return r.Quarantine != nil
}

// Parser is the pipeline orchestrator. It holds no cross-message state, so
// a single Parser is safe for concurrent use across workers.
type Parser struct {
	clock func() time.Time
}

// NewParser returns a parser using the wall clock for the final timestamp
// fallback.
func NewParser() *Parser {
	return NewParserWithClock(time.Now)
}

// NewParserWithClock injects the clock consulted when no other timestamp
// source is available. Tests use this to keep results reproducible.
func NewParserWithClock(clock func() time.Time) *Parser {
	return &Parser{clock: clock}
}

// readableDateLayouts are tried in order against the transport's
// human-readable delivery date.
var readableDateLayouts = []string{
	transaction.TimeLayout,
	"Jan 2, 2006 3:04:05 PM",
	"2 Jan 2006 15:04:05",
	time.RFC3339,
}

// Parse runs one raw message through the full pipeline. Unexpected internal
// faults are recovered here and become quarantine records; parsing a single
// bad message never aborts a batch.
func (p *Parser) Parse(raw message.RawMessage) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &Result{
				Quarantine: quarantine.NewRecord(
					raw.Body,
					quarantine.NewProcessingError(fmt.Sprint(r)),
					raw.CorrelationID,
				),
			}
		}
	}()

	if raw.MissingBody {
		return &Result{
			Quarantine: quarantine.NewRecord("", quarantine.ReasonMissingBody, raw.CorrelationID),
		}
	}

	body := Normalize(raw.Body)
	if body == "" {
		return &Result{
			Quarantine: quarantine.NewRecord(raw.Body, quarantine.ReasonEmptyMessage, raw.CorrelationID),
		}
	}
	if !hasParseableContent(body) {
		return &Result{
			Quarantine: quarantine.NewRecord(raw.Body, quarantine.ReasonUnclassifiable, raw.CorrelationID),
		}
	}

	txID, _ := ExtractTransactionID(body)
	amount, _ := ExtractAmount(body)
	fee := ExtractFee(body)
	occurredAt, source := p.resolveTimestamp(body, raw)

	category := Classify(body)
	parties := ResolveParties(body, category)
	status := DetermineStatus(body)

	tx := &transaction.Transaction{
		TransactionID:     txID,
		Category:          category,
		Amount:            amount,
		Fee:               fee,
		Sender:            parties.Sender,
		Receiver:          parties.Receiver,
		OccurredAt:        occurredAt,
		Status:            status,
		Description:       transaction.Describe(body),
		RawBody:           body,
		TimestampInferred: source == TimestampFromClock,
	}

	return &Result{Transaction: tx, TimestampSource: source}
}

// resolveTimestamp walks the fallback chain: in-body timestamp, transport
// epoch timestamp, transport readable date, then the processing clock. Only
// the final link is non-deterministic, which is why it is surfaced as an
// explicit source value and flagged on the record.
func (p *Parser) resolveTimestamp(body string, raw message.RawMessage) (time.Time, TimestampSource) {
	if ts, ok := ExtractTimestamp(body); ok {
		return ts, TimestampFromBody
	}
	if raw.ExternalTimestamp != nil {
		return canonicalize(*raw.ExternalTimestamp), TimestampFromTransport
	}
	if raw.ReadableDate != "" {
		for _, layout := range readableDateLayouts {
			if ts, err := time.Parse(layout, raw.ReadableDate); err == nil {
				return canonicalize(ts), TimestampFromReadable
			}
		}
	}
	return canonicalize(p.clock()), TimestampFromClock
}

// canonicalize truncates to second precision so that a timestamp always
// survives the round trip through the canonical text layout.
func canonicalize(ts time.Time) time.Time {
	rounded, err := time.Parse(transaction.TimeLayout, ts.Format(transaction.TimeLayout))
	if err != nil {
		return ts.Truncate(time.Second)
	}
	return rounded
}

// Normalize collapses whitespace runs to single spaces and trims the ends.
func Normalize(body string) string {
	return strings.Join(strings.Fields(body), " ")
}

// hasParseableContent rejects bodies with no letters or digits at all
// (punctuation-only noise); such messages cannot be classified or yield any
// field.
func hasParseableContent(body string) bool {
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return true
		}
	}
	return false
}
