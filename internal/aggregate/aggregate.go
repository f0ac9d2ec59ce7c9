// Package aggregate derives view data from raw expense collections: category
// breakdowns, calendar day totals, place rankings and period comparisons.
// All functions are pure; master-data lookups go through the registry so
// records referencing soft-deleted or renamed entries still render.
package aggregate

import (
	"math"
	"sort"

	"moneydiary/internal/core"
	"moneydiary/internal/registry"
)

// UnsetPlaceLabel groups expenses with no place in rankings.
const UnsetPlaceLabel = "未設定"

// BreakdownItem is one category's or place's share of a bucket.
type BreakdownItem struct {
	CategoryID string
	Label      string
	Amount     int
	Percent    float64 // one decimal, 0.0 when the bucket total is 0
	Color      string
}

// Breakdown splits a month into income and expense buckets.
type Breakdown struct {
	Expense      []BreakdownItem
	Income       []BreakdownItem
	ExpenseTotal int
	IncomeTotal  int
}

// Balance is income minus spending.
func (b Breakdown) Balance() int {
	return b.IncomeTotal - b.ExpenseTotal
}

// CategoryBreakdown groups expenses by category and splits the result into
// income and expense buckets. Categories flagged excludeFromSummary are
// omitted entirely; excludeFromBreakdown categories count toward bucket
// totals but do not appear as items. Buckets sort descending by amount.
func CategoryBreakdown(expenses []core.Expense, reg *registry.Registry) Breakdown {
	expenseByID := make(map[string]int)
	incomeByID := make(map[string]int)
	var b Breakdown

	for _, e := range expenses {
		if c, ok := reg.Category(e.Category); ok && c.ExcludeFromSummary {
			continue
		}
		if reg.IsExpenseCategory(e.Category) {
			b.ExpenseTotal += e.Amount
			expenseByID[e.Category] += e.Amount
		} else {
			b.IncomeTotal += e.Amount
			incomeByID[e.Category] += e.Amount
		}
	}

	b.Expense = bucketItems(expenseByID, b.ExpenseTotal, reg)
	b.Income = bucketItems(incomeByID, b.IncomeTotal, reg)
	return b
}

func bucketItems(byID map[string]int, total int, reg *registry.Registry) []BreakdownItem {
	items := make([]BreakdownItem, 0, len(byID))
	for id, amount := range byID {
		if c, ok := reg.Category(id); ok && c.ExcludeFromBreakdown {
			continue
		}
		items = append(items, BreakdownItem{
			CategoryID: id,
			Label:      reg.CategoryName(id),
			Amount:     amount,
			Percent:    percent(amount, total),
			Color:      reg.CategoryColor(id),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Amount > items[j].Amount })
	return items
}

// DailyTotals sums expense-category amounts per day of month. Income never
// appears on the calendar heatmap. Records whose category id the registry
// does not know, including masked personal records, count as spending.
func DailyTotals(expenses []core.Expense, reg *registry.Registry) map[int]int {
	totals := make(map[int]int)
	for _, e := range expenses {
		if !reg.IsExpenseCategory(e.Category) {
			continue
		}
		day, err := core.ParseDay(e.Date)
		if err != nil {
			continue
		}
		totals[day] += e.Amount
	}
	return totals
}

// MaxDaily returns the largest day total, 0 for an empty month.
func MaxDaily(totals map[int]int) int {
	max := 0
	for _, v := range totals {
		if v > max {
			max = v
		}
	}
	return max
}

// Intensity maps a day's total to the heatmap alpha channel. The output is
// 0 for empty days and climbs from 0.1 to 0.5 with the day's share of the
// month's maximum.
func Intensity(total, max int) float64 {
	if total == 0 || max == 0 {
		return 0
	}
	ratio := float64(total) / float64(max)
	if ratio > 1 {
		ratio = 1
	}
	return 0.1 + ratio*0.4
}

// PlaceRanking groups amounts by place, descending. Every record counts,
// whatever its category kind; records with no place fall under the unset
// label. Percentages are shares of the grand total over all ranked records.
func PlaceRanking(expenses []core.Expense) []BreakdownItem {
	byPlace := make(map[string]int)
	total := 0
	for _, e := range expenses {
		label := e.Place
		if label == "" {
			label = UnsetPlaceLabel
		}
		byPlace[label] += e.Amount
		total += e.Amount
	}

	items := make([]BreakdownItem, 0, len(byPlace))
	for label, amount := range byPlace {
		items = append(items, BreakdownItem{
			Label:   label,
			Amount:  amount,
			Percent: percent(amount, total),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Amount > items[j].Amount })
	return items
}

// SeriesCategories unions the categories seen across a series of months, in
// first-seen order. The first-seen color wins so stacked series keep stable
// keys and colors even when a category's color changes mid-year.
func SeriesCategories(months []core.MonthData) []core.CategorySummary {
	seen := make(map[string]bool)
	var out []core.CategorySummary
	for _, m := range months {
		for _, c := range m.ByCategory {
			if seen[c.CategoryID] {
				continue
			}
			seen[c.CategoryID] = true
			out = append(out, core.CategorySummary{
				CategoryID: c.CategoryID,
				Category:   c.Category,
				Color:      c.Color,
			})
		}
	}
	return out
}

// Compare relates a current total to a prior one. When the prior total is 0
// the percentage is pinned to 0 rather than propagating division artifacts.
func Compare(current, prior int) core.MonthComparison {
	cmp := core.MonthComparison{Total: prior, Diff: current - prior}
	if prior != 0 {
		cmp.DiffPercent = round1(float64(cmp.Diff) / float64(prior) * 100)
	}
	return cmp
}

// ListTotal sums every amount in a list, regardless of category kind.
func ListTotal(expenses []core.Expense) int {
	total := 0
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

func percent(amount, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(amount) / float64(total) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
