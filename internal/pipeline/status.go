package pipeline

import (
	"strings"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// Failure keywords are checked before success keywords: a message carrying
// both always resolves to Failed. Neither set matching yields Pending.
var failureKeywords = []string{
	"failed", "declined", "rejected", "error",
	"insufficient", "invalid", "timeout", "cancelled",
}

var successKeywords = []string{
	"completed", "successful", "confirmed", "received",
	"sent", "deposited", "withdrawn", "purchased", "successfully",
}

// DetermineStatus derives the lifecycle status from message keywords.
func DetermineStatus(body string) transaction.Status {
	lower := strings.ToLower(body)

	for _, kw := range failureKeywords {
		if strings.Contains(lower, kw) {
			return transaction.StatusFailed
		}
	}
	for _, kw := range successKeywords {
		if strings.Contains(lower, kw) {
			return transaction.StatusCompleted
		}
	}
	return transaction.StatusPending
}
