package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// Extraction bounds. Values outside these bands are treated as non-matches,
// never surfaced to callers.
const (
	MinAmount = 10
	MaxAmount = 50_000_000
	MinFee    = 0
	MaxFee    = 10_000
)

// Each extractor walks an ordered pattern table, most specific first, and
// returns the first capture that passes validation. The order of these
// tables is a documented contract: a message matching several patterns must
// resolve via the earliest one.

var transactionIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TxId[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)Transaction ID[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)Financial Transaction Id[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)External Transaction Id[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)Ref[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)Reference[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)\*162\*TxId[:\s]*([A-Z0-9]{6,20})\*`),
	regexp.MustCompile(`(?i)\bID[:\s]*([A-Z0-9]{6,20})`),
	regexp.MustCompile(`(?i)Transaction[:\s]*(\d{6,15})`),
}

// ExtractTransactionID returns the provider-assigned reference found in the
// body, uppercased. The second return value is false when no pattern yields
// a valid token; that is a normal outcome, not an error.
func ExtractTransactionID(body string) (string, bool) {
	for _, re := range transactionIDPatterns {
		match := re.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		id := strings.TrimSpace(match[1])
		if len(id) >= 6 && isAlphanumeric(id) {
			return strings.ToUpper(id), true
		}
	}
	return "", false
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return s != ""
}

// numberGrammar matches amounts with optional thousands separators and an
// optional two-decimal fraction.
const numberGrammar = `(\d{1,10}(?:,\d{3})*(?:\.\d{2})?)`

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)amount[:\s]*` + numberGrammar + `\s*RWF`),
	regexp.MustCompile(`(?i)payment[:\s]+of[:\s]*` + numberGrammar + `\s*RWF`),
	regexp.MustCompile(`(?i)received[:\s]*` + numberGrammar + `\s*RWF`),
	regexp.MustCompile(`(?i)withdrawn[:\s]*` + numberGrammar + `\s*RWF`),
	regexp.MustCompile(`(?i)transaction of\s*` + numberGrammar + `\s*RWF`),
	regexp.MustCompile(`(?i)` + numberGrammar + `\s*RWF`),
	regexp.MustCompile(`(?i)RWF\s*` + numberGrammar),
	regexp.MustCompile(`(?i)(\d{1,10}(?:,\d{3})*)\s*Francs?`),
	regexp.MustCompile(`(?i)` + numberGrammar + `\s*(?:has been|was|successfully)`),
}

// ExtractAmount returns the monetary value of the message. A capture is
// accepted only when it falls inside [MinAmount, MaxAmount]; out-of-band
// values are non-matches and the table walk continues.
func ExtractAmount(body string) (float64, bool) {
	return extractBanded(body, amountPatterns, MinAmount, MaxAmount)
}

var feePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Fee[:\s]*(\d+(?:,\d{3})*(?:\.\d{2})?)\s*RWF`),
	regexp.MustCompile(`(?i)fee was[:\s]*(\d+(?:,\d{3})*(?:\.\d{2})?)\s*RWF`),
	regexp.MustCompile(`(?i)fee paid[:\s]*(\d+(?:,\d{3})*(?:\.\d{2})?)\s*RWF`),
	regexp.MustCompile(`(?i)Charge[:\s]*(\d+(?:,\d{3})*(?:\.\d{2})?)\s*RWF`),
	regexp.MustCompile(`(?i)Cost[:\s]*(\d+(?:,\d{3})*(?:\.\d{2})?)\s*RWF`),
	regexp.MustCompile(`(?i)charged[:\s]*(\d+(?:,\d{3})*(?:\.\d{2})?)\s*RWF`),
	regexp.MustCompile(`(?i)fee[:\s]+(\d+(?:\.\d{2})?)`),
}

// ExtractFee returns the transaction fee, band [MinFee, MaxFee]. Absence
// yields 0, never an error.
func ExtractFee(body string) float64 {
	if fee, ok := extractBanded(body, feePatterns, MinFee, MaxFee); ok {
		return fee
	}
	return 0
}

func extractBanded(body string, patterns []*regexp.Regexp, min, max float64) (float64, bool) {
	for _, re := range patterns {
		match := re.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil || value < min || value > max {
			continue
		}
		return value, true
	}
	return 0, false
}

// timestampPattern pairs a regexp with the number of capture groups it
// produces; two-group patterns carry date and time separately.
type timestampPattern struct {
	re       *regexp.Regexp
	twoGroup bool
}

var timestampPatterns = []timestampPattern{
	{re: regexp.MustCompile(`(?i)successfully completed at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)},
	{re: regexp.MustCompile(`(?i)completed at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)},
	{re: regexp.MustCompile(`(?i)at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)},
	{re: regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)},
	{re: regexp.MustCompile(`(?i)on (\d{4}-\d{2}-\d{2})\s+at\s+(\d{2}:\d{2}:\d{2})`), twoGroup: true},
	{re: regexp.MustCompile(`(?i)Date[:\s]*(\d{4}-\d{2}-\d{2})`)},
	{re: regexp.MustCompile(`(?i)on (\d{4}-\d{2}-\d{2})`)},
	{re: regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)},
}

// ExtractTimestamp finds an in-body transaction timestamp. Every capture
// must round-trip through a strict parse of the canonical layout (date-only
// captures are normalized by appending midnight); captures that fail to
// parse are discarded and the walk continues.
func ExtractTimestamp(body string) (time.Time, bool) {
	for _, p := range timestampPatterns {
		match := p.re.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		candidate := strings.TrimSpace(match[1])
		if p.twoGroup {
			candidate = candidate + " " + strings.TrimSpace(match[2])
		}
		if ts, err := time.Parse(transaction.TimeLayout, candidate); err == nil {
			return ts, true
		}
		if ts, err := time.Parse(transaction.TimeLayout, candidate+" 00:00:00"); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
