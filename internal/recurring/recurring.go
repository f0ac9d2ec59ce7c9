// Package recurring works with recurring-expense templates: cadence labels,
// turning a template into a concrete expense input, and expanding a fixed
// entry over a month range for bulk registration.
package recurring

import (
	"fmt"
	"time"

	"moneydiary/internal/core"
)

// FrequencyLabel renders a template's cadence for display.
func FrequencyLabel(r core.RecurringExpense) string {
	switch r.Frequency {
	case core.Yearly:
		return fmt.Sprintf("毎年%d月%d日", r.RepeatMonth, r.DayOfMonth)
	case core.Bimonthly:
		return fmt.Sprintf("隔月%d日", r.DayOfMonth)
	default:
		return fmt.Sprintf("毎月%d日", r.DayOfMonth)
	}
}

// Materialize produces the expense input for a manual "register now" on a
// template: fields copy verbatim and the date is today. Cadence fields are
// deliberately ignored; a manual trigger registers regardless of schedule.
func Materialize(r core.RecurringExpense, today time.Time) core.ExpenseInput {
	return core.ExpenseInput{
		Date:     today.Format("2006-01-02"),
		Payer:    r.Payer,
		Category: r.Category,
		Amount:   r.Amount,
		Memo:     r.Memo,
		Place:    r.Place,
	}
}

// InWindow reports whether month falls inside the template's inclusive
// start/end bounds. Empty bounds are unbounded on that side.
func InWindow(r core.RecurringExpense, month core.Month) bool {
	m := month.String()
	if r.StartMonth != "" && m < r.StartMonth {
		return false
	}
	if r.EndMonth != "" && m > r.EndMonth {
		return false
	}
	return true
}

// Due reports whether the template should generate an expense for month.
// Inactive templates and months already covered by LastCreatedMonth never
// fire. Yearly templates fire only in their repeat month; bimonthly ones
// fire on even month offsets from their start month, or defer entirely to
// LastCreatedMonth bookkeeping when no start month is set.
func Due(r core.RecurringExpense, month core.Month) bool {
	if !r.IsActive || !InWindow(r, month) {
		return false
	}
	if r.LastCreatedMonth != "" && r.LastCreatedMonth >= month.String() {
		return false
	}
	switch r.Frequency {
	case core.Yearly:
		return month.MonthNum() == r.RepeatMonth
	case core.Bimonthly:
		if r.StartMonth == "" {
			return true
		}
		start, err := core.ParseMonth(r.StartMonth)
		if err != nil {
			return true
		}
		diff := (month.Year()-start.Year())*12 + month.MonthNum() - start.MonthNum()
		return diff%2 == 0
	default:
		return true
	}
}

// MaterializeFor produces the expense input a due template generates for a
// given month, with the day clamped to the month's last day.
func MaterializeFor(r core.RecurringExpense, month core.Month) core.ExpenseInput {
	return core.ExpenseInput{
		Date:     month.Date(r.DayOfMonth),
		Payer:    r.Payer,
		Category: r.Category,
		Amount:   r.Amount,
		Memo:     r.Memo,
		Place:    r.Place,
	}
}

// BulkInputs expands one fixed entry into a month-per-record series over the
// inclusive range, one record on the given day of each month, clamped to
// each month's end. Returns nil when the range is empty.
func BulkInputs(proto core.ExpenseInput, day int, start, end core.Month) []core.ExpenseInput {
	months := core.MonthRange(start, end)
	if months == nil {
		return nil
	}
	out := make([]core.ExpenseInput, 0, len(months))
	for _, m := range months {
		in := proto
		in.Date = m.Date(day)
		out = append(out, in)
	}
	return out
}
