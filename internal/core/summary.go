package core

// CategorySummary is one category's share of a month, as produced by the
// summary endpoint.
type CategorySummary struct {
	CategoryID string `json:"categoryId"`
	Category   string `json:"category"`
	Amount     int    `json:"amount"`
	Color      string `json:"color"`
}

// MonthComparison relates a month's total to a prior month's.
type MonthComparison struct {
	Total       int     `json:"total"` // the prior month's total
	Diff        int     `json:"diff"`
	DiffPercent float64 `json:"diffPercent"`
}

// MonthlySummary is the pre-aggregated view of one month.
type MonthlySummary struct {
	Month             string            `json:"month"`
	Total             int               `json:"total"`
	ByCategory        []CategorySummary `json:"byCategory"`
	PreviousMonth     *MonthComparison  `json:"previousMonth"`
	PreviousYearMonth *MonthComparison  `json:"previousYearMonth"`
}

// MonthData is one month's slice of a yearly summary.
type MonthData struct {
	Month      string            `json:"month"`
	Total      int               `json:"total"`
	ByCategory []CategorySummary `json:"byCategory"`
}

// YearlySummary is the trailing-year series ending at a reference month.
type YearlySummary struct {
	Year   string      `json:"year"`
	Months []MonthData `json:"months"`
}
