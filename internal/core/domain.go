package core

import (
	"errors"
	"strings"
)

// Visibility controls who sees an expense record.
const (
	VisibilityPublic  Visibility = "public"
	VisibilitySummary Visibility = "summary"
	VisibilityPrivate Visibility = "private"
)

// Frequency values for recurring expense templates.
const (
	Monthly   Frequency = "monthly"
	Bimonthly Frequency = "bimonthly"
	Yearly    Frequency = "yearly"
)

// Roles returned by the identity endpoint.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type (
	Visibility string
	Frequency  string
	Role       string

	// Expense is a single transaction record. Amount is always a non-negative
	// magnitude in currency minor units; whether it counts as spending or income
	// is decided by the referenced category's IsExpense flag, never by sign.
	//
	// Payer holds a free-text name rather than a Payer id. That denormalization
	// comes from the stored data and is kept as-is: renaming a payer does not
	// rewrite historical records.
	Expense struct {
		ID         string     `json:"id"`
		Date       string     `json:"date"` // YYYY-MM-DD
		Payer      string     `json:"payer"`
		Category   string     `json:"category"` // Category id
		Amount     int        `json:"amount"`
		Memo       string     `json:"memo"`
		Place      string     `json:"place"`
		Visibility Visibility `json:"visibility"` // empty means public
		CreatedBy  string     `json:"createdBy"`
		CreatedAt  string     `json:"createdAt"`
		UpdatedAt  string     `json:"updatedAt"`
	}

	// ExpenseInput is the payload for creating or updating an expense.
	ExpenseInput struct {
		Date       string     `json:"date"`
		Payer      string     `json:"payer"`
		Category   string     `json:"category"`
		Amount     int        `json:"amount"`
		Memo       string     `json:"memo"`
		Place      string     `json:"place"`
		Visibility Visibility `json:"visibility"`
	}

	// Category classifies expenses and carries display attributes.
	Category struct {
		ID                   string `json:"id"`
		Name                 string `json:"name"`
		SortOrder            int    `json:"sortOrder"`
		Color                string `json:"color"`
		IsActive             bool   `json:"isActive"`
		IsExpense            bool   `json:"isExpense"`
		ExcludeFromBreakdown bool   `json:"excludeFromBreakdown"` // counted in totals, hidden from breakdown lists
		ExcludeFromSummary   bool   `json:"excludeFromSummary"`   // omitted from summaries, balance views only
	}

	CategoryInput struct {
		Name                 string `json:"name"`
		SortOrder            int    `json:"sortOrder"`
		Color                string `json:"color"`
		IsActive             bool   `json:"isActive"`
		IsExpense            bool   `json:"isExpense"`
		ExcludeFromBreakdown bool   `json:"excludeFromBreakdown"`
		ExcludeFromSummary   bool   `json:"excludeFromSummary"`
	}

	Place struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		SortOrder int    `json:"sortOrder"`
		IsActive  bool   `json:"isActive"`
	}

	PlaceInput struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sortOrder"`
		IsActive  bool   `json:"isActive"`
	}

	// Payer is a payment source. TrackBalance enables monthly balance
	// reconstruction for it.
	Payer struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		SortOrder    int    `json:"sortOrder"`
		IsActive     bool   `json:"isActive"`
		TrackBalance bool   `json:"trackBalance"`
	}

	PayerInput struct {
		Name         string `json:"name"`
		SortOrder    int    `json:"sortOrder"`
		IsActive     bool   `json:"isActive"`
		TrackBalance bool   `json:"trackBalance"`
	}

	// PayerBalance is a payer's reconstructed balance for one month.
	PayerBalance struct {
		Payer       string `json:"payer"`
		Carryover   int    `json:"carryover"`
		MonthCharge int    `json:"monthCharge"`
		MonthSpent  int    `json:"monthSpent"`
		Balance     int    `json:"balance"`
	}

	// RecurringExpense is a template for periodic expense entry.
	//
	// Category holds a category *name*, not an id, unlike Expense.Category.
	// The mismatch is in the stored data and is preserved as-is; normalizing
	// it would change matching behavior after renames.
	RecurringExpense struct {
		ID               string    `json:"id"`
		Category         string    `json:"category"`
		Amount           int       `json:"amount"`
		Payer            string    `json:"payer"`
		Place            string    `json:"place"`
		Memo             string    `json:"memo"`
		Frequency        Frequency `json:"frequency"`
		DayOfMonth       int       `json:"dayOfMonth"`  // 1-31
		RepeatMonth      int       `json:"repeatMonth"` // 1-12, yearly only
		StartMonth       string    `json:"startMonth"`  // YYYY-MM, empty = unbounded
		EndMonth         string    `json:"endMonth"`    // YYYY-MM, empty = unbounded
		IsActive         bool      `json:"isActive"`
		LastCreatedMonth string    `json:"lastCreatedMonth"`
		CreatedAt        string    `json:"createdAt"`
		UpdatedAt        string    `json:"updatedAt"`
	}

	RecurringExpenseInput struct {
		Category    string    `json:"category"`
		Amount      int       `json:"amount"`
		Payer       string    `json:"payer"`
		Place       string    `json:"place"`
		Memo        string    `json:"memo"`
		Frequency   Frequency `json:"frequency"`
		DayOfMonth  int       `json:"dayOfMonth"`
		RepeatMonth int       `json:"repeatMonth"`
		StartMonth  string    `json:"startMonth"`
		EndMonth    string    `json:"endMonth"`
		IsActive    bool      `json:"isActive"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidVisibility  = errors.New("invalid visibility")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidDayOfMonth  = errors.New("day of month out of range")
	ErrInvalidRepeatMonth = errors.New("repeat month out of range")
)

// Effective normalizes the stored value: records written before the visibility
// field existed carry an empty string and are treated as public.
func (v Visibility) Effective() Visibility {
	if v == "" {
		return VisibilityPublic
	}
	return v
}

func (v Visibility) Valid() bool {
	switch v {
	case "", VisibilityPublic, VisibilitySummary, VisibilityPrivate:
		return true
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Bimonthly, Yearly:
		return true
	}
	return false
}

func (in ExpenseInput) Validate() error {
	if _, err := ParseDay(in.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.Visibility.Valid() {
		return ErrInvalidVisibility
	}
	return nil
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (in PlaceInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (in PayerInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (in RecurringExpenseInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if in.DayOfMonth < 1 || in.DayOfMonth > 31 {
		return ErrInvalidDayOfMonth
	}
	if in.Frequency == Yearly && (in.RepeatMonth < 1 || in.RepeatMonth > 12) {
		return ErrInvalidRepeatMonth
	}
	if in.StartMonth != "" {
		if _, err := ParseMonth(in.StartMonth); err != nil {
			return err
		}
	}
	if in.EndMonth != "" {
		if _, err := ParseMonth(in.EndMonth); err != nil {
			return err
		}
	}
	return nil
}
