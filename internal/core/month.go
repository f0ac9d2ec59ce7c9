// Package core holds the domain types shared by every other package: expense
// and master-data records, the Month calendar type, and summary shapes.
package core

import (
	"fmt"
	"time"
)

// Month is a calendar month in a specific year. The zero value is invalid;
// construct one with NewMonth, ParseMonth or MonthOf.
type Month struct {
	time.Time
}

// NewMonth returns the Month for the given year and 1-based month number.
func NewMonth(year, month int) Month {
	return Month{Time: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)}
}

// MonthOf returns the Month a time falls in.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), int(t.Month()))
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return MonthOf(t), nil
}

// MonthOfDate returns the Month of a "YYYY-MM-DD" date string.
func MonthOfDate(date string) (Month, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return MonthOf(t), nil
}

// ParseDay returns the day-of-month of a "YYYY-MM-DD" date string.
func ParseDay(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.Day(), nil
}

// String formats the month as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Time.Year(), m.Time.Month())
}

// Year returns the calendar year.
func (m Month) Year() int {
	return m.Time.Year()
}

// MonthNum returns the 1-based month number.
func (m Month) MonthNum() int {
	return int(m.Time.Month())
}

// AddMonths returns the month n months later (earlier for negative n).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Time.AddDate(0, n, 0))
}

// Previous returns the preceding month.
func (m Month) Previous() Month {
	return m.AddMonths(-1)
}

// PreviousYear returns the same month one year earlier.
func (m Month) PreviousYear() Month {
	return MonthOf(m.Time.AddDate(-1, 0, 0))
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Time.Year(), m.Time.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date formats the given day of this month as "YYYY-MM-DD". Days past the end
// of the month are clamped to the last day, so "day 31 of February" resolves
// to the 28th or 29th.
func (m Month) Date(day int) string {
	if last := m.Days(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return fmt.Sprintf("%s-%02d", m.String(), day)
}

// Before reports whether m precedes n.
func (m Month) Before(n Month) bool {
	return m.Time.Before(n.Time)
}

// After reports whether m follows n.
func (m Month) After(n Month) bool {
	return m.Time.After(n.Time)
}

// Equal reports whether m and n are the same month.
func (m Month) Equal(n Month) bool {
	return m.Time.Equal(n.Time)
}

// Contains reports whether a "YYYY-MM-DD" date falls in this month.
// Malformed dates are never contained.
func (m Month) Contains(date string) bool {
	dm, err := MonthOfDate(date)
	if err != nil {
		return false
	}
	return m.Equal(dm)
}

// MonthRange enumerates every month from start to end inclusive. It returns
// nil when end precedes start.
func MonthRange(start, end Month) []Month {
	if end.Before(start) {
		return nil
	}
	var months []Month
	for m := start; !m.After(end); m = m.AddMonths(1) {
		months = append(months, m)
	}
	return months
}

// TrailingMonths returns the n months ending at (and including) end, oldest
// first.
func TrailingMonths(end Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	return MonthRange(end.AddMonths(-(n-1)), end)
}
