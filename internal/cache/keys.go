package cache

import "moneydiary/internal/core"

// Key prefixes partition the cache into the logical namespaces the
// invalidation rules operate on. Any expense mutation invalidates the
// expenses, summary and payer-balance namespaces together; master-data
// mutations invalidate only their own namespace.
const (
	PrefixExpenses     = "expenses:"
	PrefixSummary      = "summary:"
	PrefixPayerBalance = "payerBalance:"

	KeyCategories = "master:categories"
	KeyPlaces     = "master:places"
	KeyPayers     = "master:payers"
	KeyRecurring  = "master:recurring"
)

// ExpensesKey is the cache key for one month's expense list.
func ExpensesKey(month core.Month) string {
	return PrefixExpenses + month.String()
}

// MonthlySummaryKey keys a monthly summary by month and optional payer filter.
func MonthlySummaryKey(month core.Month, payer string) string {
	return PrefixSummary + "monthly:" + month.String() + ":" + payer
}

// YearlySummaryKey keys a yearly summary by reference month and optional
// payer filter.
func YearlySummaryKey(month core.Month, payer string) string {
	return PrefixSummary + "yearly:" + month.String() + ":" + payer
}

// PayerBalanceKey keys a payer's balance by payer name and month.
func PayerBalanceKey(payer string, month core.Month) string {
	return PrefixPayerBalance + payer + ":" + month.String()
}
