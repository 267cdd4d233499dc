package transaction

import (
	"fmt"
	"time"
)

// TimeLayout is the canonical timestamp format used across the pipeline,
// matching the format providers embed in notification text.
const TimeLayout = "2006-01-02 15:04:05"

// Category is the closed set of transaction categories the classifier can
// assign. The declaration order here is documentation only; classification
// priority lives in the classifier's rule table.
type Category string

const (
	CategoryIncomingMoney   Category = "INCOMING_MONEY"
	CategoryPayment         Category = "PAYMENT"
	CategoryTransferMobile  Category = "TRANSFER_MOBILE"
	CategoryAgentWithdrawal Category = "AGENT_WITHDRAWAL"
	CategoryAirtimePayment  Category = "AIRTIME_PAYMENT"
	CategoryCashPower       Category = "CASH_POWER"
	CategoryBundlePurchase  Category = "BUNDLE_PURCHASE"
	CategoryBankDeposit     Category = "BANK_DEPOSIT"
	CategoryBankTransfer    Category = "BANK_TRANSFER"
	CategoryPaymentToCode   Category = "PAYMENT_TO_CODE"
	CategoryThirdParty      Category = "THIRD_PARTY"
	CategoryWithdrawal      Category = "WITHDRAWAL"
	CategoryOther           Category = "OTHER"
)

// Status defines transaction lifecycle states derived from message keywords.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusPending   Status = "PENDING"
)

// SelfParty is the placeholder party name used when the account holder is
// the implicit sender or receiver of a transaction.
const SelfParty = "You"

// Transaction is the structured record produced by a successful parse.
// Amount and Fee are RWF values; zero amount means "not extracted".
// OccurredAt is always populated, via the in-body timestamp or the fallback
// chain; TimestampInferred marks records whose timestamp came from the
// processing clock and is therefore not reproducible on a re-run.
type Transaction struct {
	TransactionID     string    `json:"transaction_id,omitempty"`
	Category          Category  `json:"category"`
	Amount            float64   `json:"amount"`
	Fee               float64   `json:"fee"`
	Sender            string    `json:"sender,omitempty"`
	Receiver          string    `json:"receiver,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
	Status            Status    `json:"status"`
	Description       string    `json:"description"`
	RawBody           string    `json:"raw_body"`
	TimestampInferred bool      `json:"timestamp_inferred,omitempty"`
}

// DedupeKey identifies the underlying event so that reprocessing the same
// raw message always lands on the same stored record. It is a pure function
// of (transaction_id, occurred_at, raw_body).
func (t *Transaction) DedupeKey() string {
	return fmt.Sprintf("%s|%s|%s", t.TransactionID, t.OccurredAt.Format(TimeLayout), t.RawBody)
}

// Describe truncates a message body into the short human-readable excerpt
// stored alongside the record. Truncation is by rune so a multi-byte
// character is never split.
func Describe(body string) string {
	runes := []rune(body)
	if len(runes) > 100 {
		return string(runes[:97]) + "..."
	}
	return body
}
