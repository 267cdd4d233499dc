package pipeline

import (
	"regexp"
	"strings"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
)

// categoryRule binds a category to its ordered linguistic signatures.
type categoryRule struct {
	category transaction.Category
	patterns []*regexp.Regexp
}

// categoryRules is the classifier's fixed priority order: the first category
// with any matching pattern wins, so specific signatures must stay ahead of
// broader ones. Patterns match against the lowercased, normalized body.
var categoryRules = []categoryRule{
	{
		category: transaction.CategoryIncomingMoney,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`you have received.*rwf.*from`),
			regexp.MustCompile(`payment.*received.*from`),
			regexp.MustCompile(`money.*received.*from`),
			regexp.MustCompile(`transfer.*received.*from`),
			regexp.MustCompile(`received.*rwf.*from`),
		},
	},
	{
		category: transaction.CategoryPayment,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`your payment.*to.*has been completed`),
			regexp.MustCompile(`payment.*to.*completed`),
			regexp.MustCompile(`paid.*rwf.*to`),
			regexp.MustCompile(`payment.*successful.*to`),
		},
	},
	{
		category: transaction.CategoryTransferMobile,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`transfer.*to.*mobile`),
			regexp.MustCompile(`transferred to .*\(`),
			regexp.MustCompile(`sent.*to.*\d{9,}`),
			regexp.MustCompile(`money.*sent.*to.*\d{9,}`),
		},
	},
	{
		category: transaction.CategoryAgentWithdrawal,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`withdrawn.*via agent`),
			regexp.MustCompile(`via agent.*withdrawn`),
			regexp.MustCompile(`agent.*withdrawal`),
			regexp.MustCompile(`cash.*withdrawn.*agent`),
		},
	},
	{
		category: transaction.CategoryAirtimePayment,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`airtime.*purchase`),
			regexp.MustCompile(`bought.*airtime`),
			regexp.MustCompile(`airtime.*top.*up`),
			regexp.MustCompile(`recharge.*airtime`),
		},
	},
	{
		category: transaction.CategoryCashPower,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`cash power.*purchase`),
			regexp.MustCompile(`electricity.*payment`),
			regexp.MustCompile(`eucl.*payment`),
			regexp.MustCompile(`power.*bill.*payment`),
			regexp.MustCompile(`yego.*payment`),
		},
	},
	{
		category: transaction.CategoryBundlePurchase,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`internet bundle.*purchase`),
			regexp.MustCompile(`data bundle.*purchase`),
			regexp.MustCompile(`social media bundle`),
			regexp.MustCompile(`voice bundle.*purchase`),
			regexp.MustCompile(`yello.*bundle`),
		},
	},
	{
		category: transaction.CategoryBankDeposit,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`bank deposit`),
			regexp.MustCompile(`deposited.*to.*bank`),
			regexp.MustCompile(`transfer.*to.*bank.*account`),
		},
	},
	{
		category: transaction.CategoryBankTransfer,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`bank.*transfer.*from`),
			regexp.MustCompile(`transfer.*from.*bank.*to`),
		},
	},
	{
		category: transaction.CategoryPaymentToCode,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`payment.*code holder`),
			regexp.MustCompile(`merchant.*payment`),
			regexp.MustCompile(`pos.*payment`),
		},
	},
	{
		category: transaction.CategoryThirdParty,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`initiated.*by.*third party`),
			regexp.MustCompile(`third party.*transaction`),
			regexp.MustCompile(`on behalf.*of`),
		},
	},
}

// Classify assigns a transaction category to a normalized message body.
// The specific rule table is walked first in priority order; only when no
// category matches do the broader fallback heuristics apply. The fallbacks
// are intentionally loose and must never preempt a specific match.
func Classify(body string) transaction.Category {
	lower := strings.ToLower(body)

	for _, rule := range categoryRules {
		for _, re := range rule.patterns {
			if re.MatchString(lower) {
				return rule.category
			}
		}
	}

	switch {
	case strings.Contains(lower, "withdrawal"), strings.Contains(lower, "withdrawn"), strings.Contains(lower, "withdraw"):
		return transaction.CategoryWithdrawal
	case strings.Contains(lower, "payment") && strings.Contains(lower, "to"):
		return transaction.CategoryPayment
	case strings.Contains(lower, "received"):
		return transaction.CategoryIncomingMoney
	}

	return transaction.CategoryOther
}
