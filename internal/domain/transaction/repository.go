package transaction

import (
	"context"
	"time"
)

// Filter narrows list and export queries. Zero values mean "no constraint".
type Filter struct {
	Category  Category
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	MinAmount float64
	MaxAmount float64
}

// Statistics aggregates the whole store for the dashboard view.
type Statistics struct {
	TotalTransactions int64   `json:"total_transactions"`
	MoneyIn           float64 `json:"money_in"`
	MoneyOut          float64 `json:"money_out"`
	TotalVolume       float64 `json:"total_volume"`
	TotalBalance      float64 `json:"total_balance"`
	MonthTransactions int64   `json:"month_transactions"`
	MonthIncome       float64 `json:"month_income"`
	MonthExpenses     float64 `json:"month_expenses"`
}

// CategorySummary is one per-category aggregation row.
type CategorySummary struct {
	Category    Category `json:"category"`
	Count       int64    `json:"count"`
	TotalAmount float64  `json:"total_amount"`
	AvgAmount   float64  `json:"avg_amount"`
}

// MonthlyBucket is one calendar-month aggregation row.
type MonthlyBucket struct {
	Month            string  `json:"month"` // YYYY-MM
	TransactionCount int64   `json:"transaction_count"`
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	TotalVolume      float64 `json:"total_volume"`
	TotalFees        float64 `json:"total_fees"`
	NetFlow          float64 `json:"net_flow"`
}

// HourlyBucket is one hour-of-day aggregation row.
type HourlyBucket struct {
	Hour             int     `json:"hour"`
	TransactionCount int64   `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}

// Repository is the persistence gateway's transaction side. Upsert is
// insert-or-replace keyed by the dedupe key; concurrent upserts of the same
// key must not corrupt the store.
type Repository interface {
	Upsert(ctx context.Context, tx *Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Transaction, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Transaction, error)
	Search(ctx context.Context, query string, limit int) ([]*Transaction, error)
	Statistics(ctx context.Context) (*Statistics, error)
	SummaryByCategory(ctx context.Context) ([]*CategorySummary, error)
	MonthlyAnalytics(ctx context.Context) ([]*MonthlyBucket, error)
	HourlyDistribution(ctx context.Context) ([]*HourlyBucket, error)
}

// ErrNotFound indicates a missing transaction record
type ErrNotFound struct {
	TransactionID string
}

func (e ErrNotFound) Error() string {
	return "transaction not found: " + e.TransactionID
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	// An empty target TransactionID matches any ErrNotFound
	if t.TransactionID == "" {
		return true
	}
	return e.TransactionID == t.TransactionID
}
