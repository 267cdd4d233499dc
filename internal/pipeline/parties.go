package pipeline

import (
	"regexp"
	"strings"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// Parties holds the resolved sender/receiver pair. Empty strings mean
// "not extracted"; category-level defaults are already applied.
type Parties struct {
	Sender   string
	Receiver string
}

var incomingSenderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)received\s+\d+[,\d]*\s*RWF\s+from\s+([A-Za-z\s.]+?)(?:\.|$|\s+Transaction|\s+TxId)`),
	regexp.MustCompile(`(?i)payment\s+received\s+from\s+([A-Za-z\s.]+?)(?:\.|$)`),
	regexp.MustCompile(`(?i)money\s+received\s+from\s+([A-Za-z\s.]+?)(?:\.|$)`),
	regexp.MustCompile(`(?i)from\s+([A-Za-z][A-Za-z\s.]{2,30}?)(?:\s*\.|$|\s+on|\s+at|\s+Transaction)`),
}

var outgoingReceiverPatterns = []*regexp.Regexp{
	// Merchant payments suffix the name with a numeric payment code:
	// "payment of 1,000 RWF to Jane Smith 12845 has been completed".
	regexp.MustCompile(`(?i)payment\s+of\s+\d+[,\d]*\s*RWF\s+to\s+([A-Za-z][A-Za-z\s.]*?)\s+\d{3,}`),
	regexp.MustCompile(`(?i)payment\s+of\s+\d+[,\d]*\s*RWF\s+to\s+([A-Za-z\s.]+?)(?:\s+has|\s+was|\.|$)`),
	regexp.MustCompile(`(?i)transferred\s+to\s+([A-Za-z][A-Za-z\s.]{2,30}?)\s*\(`),
	regexp.MustCompile(`(?i)paid\s+\d+[,\d]*\s*RWF\s+to\s+([A-Za-z\s.]+?)(?:\.|$|\s+on)`),
	regexp.MustCompile(`(?i)transfer\s+to\s+([A-Za-z\s.]+?)\s+completed`),
	regexp.MustCompile(`(?i)money\s+sent\s+to\s+([A-Za-z\s.]+?)(?:\.|$)`),
	regexp.MustCompile(`(?i)payment\s+to\s+([A-Za-z\s.]+?)\s+(?:successful|completed)`),
	regexp.MustCompile(`(?i)to\s+([A-Za-z][A-Za-z\s.]{2,30}?)(?:\s+has|\s+was|\.|$|\s+on|\s+at)`),
}

// Agent withdrawal messages may carry both the account holder and the agent:
// "You <holder> have via agent: <agent> (250...), withdrawn ...".
var agentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)You\s+([A-Za-z\s.]+?)\s+have\s+via\s+agent[:\s]*([A-Za-z\s.]+?)(?:\s*\(|\s*,)`),
	regexp.MustCompile(`(?i)via\s+agent[:\s]*([A-Za-z\s.]+?)(?:\s*\(|\s*,|$)`),
	regexp.MustCompile(`(?i)agent[:\s]*([A-Za-z\s.]+?)(?:\s+assisted|\s*\(|\s*,|$)`),
}

var bankDepositPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)deposit\s+to\s+([A-Za-z\s.]+?\s+Bank)`),
	regexp.MustCompile(`(?i)deposited\s+to\s+([A-Za-z\s.]+?\s+Bank)`),
	regexp.MustCompile(`(?i)transferred\s+to\s+([A-Za-z\s.]+?\s+Bank)`),
}

var bankTransferPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)transfer\s+from\s+([A-Za-z\s.]+?\s+Bank)\s+to\s+([A-Za-z\s.]+)`),
	regexp.MustCompile(`(?i)from\s+([A-Za-z\s.]+?\s+Bank)`),
}

// ResolveParties derives sender and receiver from the message using the
// rule set owned by the classified category.
func ResolveParties(body string, category transaction.Category) Parties {
	switch category {
	case transaction.CategoryIncomingMoney:
		return Parties{
			Sender:   firstCleanMatch(body, incomingSenderPatterns),
			Receiver: transaction.SelfParty,
		}

	case transaction.CategoryPayment, transaction.CategoryTransferMobile, transaction.CategoryPaymentToCode:
		return Parties{
			Sender:   transaction.SelfParty,
			Receiver: firstCleanMatch(body, outgoingReceiverPatterns),
		}

	case transaction.CategoryAgentWithdrawal:
		return resolveAgentWithdrawal(body)

	case transaction.CategoryAirtimePayment, transaction.CategoryCashPower, transaction.CategoryBundlePurchase:
		return Parties{
			Sender:   transaction.SelfParty,
			Receiver: serviceLabel(body),
		}

	case transaction.CategoryBankDeposit:
		receiver := firstCleanMatch(body, bankDepositPatterns)
		if receiver == "" {
			receiver = "Bank Account"
		}
		return Parties{Sender: transaction.SelfParty, Receiver: receiver}

	case transaction.CategoryBankTransfer:
		return resolveBankTransfer(body)

	case transaction.CategoryWithdrawal:
		return Parties{Sender: transaction.SelfParty}
	}

	return Parties{}
}

func resolveAgentWithdrawal(body string) Parties {
	for _, re := range agentPatterns {
		match := re.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		if len(match) >= 3 {
			holder := CleanName(match[1])
			agent := CleanName(match[2])
			p := Parties{Sender: holder, Receiver: "Agent"}
			if p.Sender == "" {
				p.Sender = transaction.SelfParty
			}
			if agent != "" {
				p.Receiver = "Agent: " + agent
			}
			return p
		}
		agent := CleanName(match[1])
		p := Parties{Sender: transaction.SelfParty, Receiver: "Agent"}
		if agent != "" {
			p.Receiver = "Agent: " + agent
		}
		return p
	}
	return Parties{Sender: transaction.SelfParty}
}

func resolveBankTransfer(body string) Parties {
	for _, re := range bankTransferPatterns {
		match := re.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		p := Parties{Sender: CleanName(match[1])}
		if len(match) >= 3 {
			p.Receiver = CleanName(match[2])
		}
		return p
	}
	return Parties{}
}

// serviceLabel picks the fixed provider label for service payments based on
// the service sub-type mentioned in the message.
func serviceLabel(body string) string {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "airtime"):
		return "MTN Airtime"
	case strings.Contains(lower, "cash power"), strings.Contains(lower, "electricity"):
		return "EUCL Cash Power"
	case strings.Contains(lower, "internet bundle"), strings.Contains(lower, "data bundle"):
		return "MTN Internet Bundle"
	case strings.Contains(lower, "voice bundle"):
		return "MTN Voice Bundle"
	case strings.Contains(lower, "social media"):
		return "MTN Social Media Bundle"
	}
	return "Service Provider"
}

func firstCleanMatch(body string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		match := re.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		if name := CleanName(match[1]); name != "" {
			return name
		}
	}
	return ""
}

// nameStoplist rejects captures that are transactional vocabulary rather
// than party names.
var nameStoplist = map[string]struct{}{
	"rwf": {}, "transaction": {}, "txid": {}, "fee": {}, "charge": {},
	"payment": {}, "transfer": {}, "completed": {}, "successful": {},
	"failed": {}, "pending": {}, "date": {}, "time": {}, "amount": {},
	"balance": {}, "account": {}, "number": {}, "code": {}, "id": {},
	"ref": {}, "has": {}, "been": {}, "was": {}, "were": {}, "have": {},
	"will": {}, "can": {}, "may": {},
}

var (
	nameDisallowed = regexp.MustCompile(`[^A-Za-z0-9\s.]`)
	nameWhitespace = regexp.MustCompile(`\s+`)
	nameHasLetter  = regexp.MustCompile(`[A-Za-z]`)
	phoneShaped    = regexp.MustCompile(`^\d{9,15}$`)
)

// CleanName normalizes an extracted party candidate and rejects the ones
// that cannot be a name: stoplisted vocabulary, too-short fragments,
// letterless strings and phone-number-shaped digit runs. A rejected
// candidate yields "" and is treated as "not extracted" by callers.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = nameWhitespace.ReplaceAllString(name, " ")
	name = nameDisallowed.ReplaceAllString(name, "")
	name = strings.Trim(name, ". ")

	for _, word := range strings.Fields(strings.ToLower(name)) {
		if _, bad := nameStoplist[word]; bad {
			return ""
		}
	}

	if len(name) < 2 || !nameHasLetter.MatchString(name) {
		return ""
	}
	if phoneShaped.MatchString(strings.ReplaceAll(name, " ", "")) {
		return ""
	}

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
