package pipeline

import (
	"testing"

	"github.com/momo-sms-pipeline/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
)

func TestResolveParties(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		category transaction.Category
		want     Parties
	}{
		{
			name:     "incoming money names the sender",
			body:     "You have received 2000 RWF from Jane Smith on your mobile money account",
			category: transaction.CategoryIncomingMoney,
			want:     Parties{Sender: "Jane Smith", Receiver: transaction.SelfParty},
		},
		{
			name:     "incoming money without a name keeps self receiver",
			body:     "You have received 2000 RWF",
			category: transaction.CategoryIncomingMoney,
			want:     Parties{Receiver: transaction.SelfParty},
		},
		{
			name:     "payment receiver before the payment code",
			body:     "Your payment of 1,000 RWF to Jane Smith 12845 has been completed",
			category: transaction.CategoryPayment,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "Jane Smith"},
		},
		{
			name:     "mobile transfer receiver before the phone number",
			body:     "10000 RWF transferred to Samuel Carter (250791666666) from 36521838",
			category: transaction.CategoryTransferMobile,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "Samuel Carter"},
		},
		{
			name:     "agent withdrawal with holder and agent",
			body:     "You Jane Smith have via agent: Sophia (250790777777), withdrawn 20000 RWF",
			category: transaction.CategoryAgentWithdrawal,
			want:     Parties{Sender: "Jane Smith", Receiver: "Agent: Sophia"},
		},
		{
			name:     "agent withdrawal with agent only",
			body:     "withdrawn via agent: Sophia, collect your money",
			category: transaction.CategoryAgentWithdrawal,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "Agent: Sophia"},
		},
		{
			name:     "airtime gets the provider label",
			body:     "Airtime purchase of 500 RWF",
			category: transaction.CategoryAirtimePayment,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "MTN Airtime"},
		},
		{
			name:     "cash power gets the utility label",
			body:     "Cash power purchase: token 12345",
			category: transaction.CategoryCashPower,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "EUCL Cash Power"},
		},
		{
			name:     "internet bundle label",
			body:     "Internet bundle purchase of 2000 RWF",
			category: transaction.CategoryBundlePurchase,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "MTN Internet Bundle"},
		},
		{
			name:     "bank deposit falls back to generic receiver",
			body:     "A bank deposit of 40000 RWF has been added to your mobile money account",
			category: transaction.CategoryBankDeposit,
			want:     Parties{Sender: transaction.SelfParty, Receiver: "Bank Account"},
		},
		{
			name:     "bank transfer names both sides",
			body:     "Transfer from BK Bank to John Doe",
			category: transaction.CategoryBankTransfer,
			want:     Parties{Sender: "Bk Bank", Receiver: "John Doe"},
		},
		{
			name:     "plain withdrawal only knows the holder",
			body:     "You have withdrawn cash",
			category: transaction.CategoryWithdrawal,
			want:     Parties{Sender: transaction.SelfParty},
		},
		{
			name:     "other category resolves nothing",
			body:     "Welcome to MTN",
			category: transaction.CategoryOther,
			want:     Parties{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveParties(tt.body, tt.category))
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "collapses whitespace and title-cases", raw: "  jane   smith ", want: "Jane Smith"},
		{name: "strips disallowed characters", raw: "Jane-Smith!", want: "Janesmith"},
		{name: "trims trailing period", raw: "John. ", want: "John"},
		{name: "stoplisted word rejected", raw: "RWF", want: ""},
		{name: "stoplisted word anywhere rejects the candidate", raw: "Transaction Fee", want: ""},
		{name: "phone shaped rejected", raw: "0788123456", want: ""},
		{name: "spaced digits rejected", raw: "123 456 789", want: ""},
		{name: "single character rejected", raw: "A", want: ""},
		{name: "empty rejected", raw: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.raw))
		})
	}
}
