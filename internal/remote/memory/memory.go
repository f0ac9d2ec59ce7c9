// Package memory implements remote.DataService against in-process state.
// It backs tests and the demo CLI, and mirrors the server's behavior
// closely enough that the session layer cannot tell the two apart:
// reads are visibility filtered for the configured viewer, summaries and
// balances are computed server-side, and every read bumps a per-action
// fetch counter so cache coherency can be asserted from tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"moneydiary/internal/core"
	"moneydiary/internal/remote"
	"moneydiary/internal/visibility"
)

// ErrNotFound is returned when a mutation references an unknown id.
var ErrNotFound = errors.New("not found")

// incomeCategoryName is excluded from charge totals: income is not a
// balance charge even though its category is flagged non-expense.
const incomeCategoryName = "収入"

// Store is an in-memory DataService. All methods are safe for concurrent
// use. The zero value is not usable; construct with New.
type Store struct {
	mu         sync.Mutex
	viewer     string
	role       core.Role
	now        func() time.Time
	expenses   []core.Expense
	categories []core.Category
	places     []core.Place
	payers     []core.Payer
	recurring  []core.RecurringExpense
	fetches    map[string]int
}

// Option configures a Store.
type Option func(*Store)

// WithClock fixes the timestamp source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRole sets the role reported for the viewer. Defaults to user.
func WithRole(role core.Role) Option {
	return func(s *Store) { s.role = role }
}

// New returns an empty Store serving the given viewer.
func New(viewer string, opts ...Option) *Store {
	s := &Store{
		viewer:  viewer,
		role:    core.RoleUser,
		now:     time.Now,
		fetches: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ remote.DataService = (*Store)(nil)

// Fetches reports how many times the named read action has hit the store.
func (s *Store) Fetches(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[action]
}

// Seed loads master data and expenses in one call, bypassing validation.
func (s *Store) Seed(categories []core.Category, places []core.Place, payers []core.Payer, expenses []core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, categories...)
	s.places = append(s.places, places...)
	s.payers = append(s.payers, payers...)
	s.expenses = append(s.expenses, expenses...)
}

// SeedRecurring loads recurring templates, bypassing validation.
func (s *Store) SeedRecurring(templates []core.RecurringExpense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recurring = append(s.recurring, templates...)
}

func (s *Store) count(action string) {
	s.fetches[action]++
}

// --- expenses ---

func (s *Store) ExpensesByMonth(ctx context.Context, month core.Month) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getExpenses")

	var in []core.Expense
	for _, e := range s.expenses {
		if month.Contains(e.Date) {
			in = append(in, e)
		}
	}
	out := visibility.ForViewer(in, s.viewer)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) CreateExpense(ctx context.Context, input core.ExpenseInput) (core.Expense, error) {
	if err := input.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().Format(time.RFC3339)
	e := core.Expense{
		ID:         uuid.NewString(),
		Date:       input.Date,
		Payer:      input.Payer,
		Category:   input.Category,
		Amount:     input.Amount,
		Memo:       input.Memo,
		Place:      input.Place,
		Visibility: input.Visibility,
		CreatedBy:  s.viewer,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	s.expenses = append(s.expenses, e)
	return e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, id string, input core.ExpenseInput) (core.Expense, error) {
	if err := input.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID != id {
			continue
		}
		e.Date = input.Date
		e.Payer = input.Payer
		e.Category = input.Category
		e.Amount = input.Amount
		e.Memo = input.Memo
		e.Place = input.Place
		e.Visibility = input.Visibility
		e.UpdatedAt = s.now().Format(time.RFC3339)
		s.expenses[i] = e
		return e, nil
	}
	return core.Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %s: %w", id, ErrNotFound)
}

func (s *Store) BulkCreateExpenses(ctx context.Context, inputs []core.ExpenseInput) ([]core.Expense, error) {
	out := make([]core.Expense, 0, len(inputs))
	for _, input := range inputs {
		e, err := s.CreateExpense(ctx, input)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- categories ---

func (s *Store) Categories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getCategories")

	var out []core.Category
	for _, c := range s.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sortByOrder(out, func(c core.Category) int { return c.SortOrder })
	return out, nil
}

func (s *Store) AllCategories(ctx context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getAllCategories")

	out := append([]core.Category(nil), s.categories...)
	sortByOrder(out, func(c core.Category) int { return c.SortOrder })
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, input core.CategoryInput) (core.Category, error) {
	if err := input.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := core.Category{
		ID:                   uuid.NewString(),
		Name:                 input.Name,
		SortOrder:            input.SortOrder,
		Color:                input.Color,
		IsActive:             input.IsActive,
		IsExpense:            input.IsExpense,
		ExcludeFromBreakdown: input.ExcludeFromBreakdown,
		ExcludeFromSummary:   input.ExcludeFromSummary,
	}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, input core.CategoryInput) (core.Category, error) {
	if err := input.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID != id {
			continue
		}
		c.Name = input.Name
		c.SortOrder = input.SortOrder
		c.Color = input.Color
		c.IsActive = input.IsActive
		c.IsExpense = input.IsExpense
		c.ExcludeFromBreakdown = input.ExcludeFromBreakdown
		c.ExcludeFromSummary = input.ExcludeFromSummary
		s.categories[i] = c
		return c, nil
	}
	return core.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, ErrNotFound)
}

// --- places ---

func (s *Store) Places(ctx context.Context) ([]core.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getPlaces")

	var out []core.Place
	for _, p := range s.places {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sortByOrder(out, func(p core.Place) int { return p.SortOrder })
	return out, nil
}

func (s *Store) AllPlaces(ctx context.Context) ([]core.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getAllPlaces")

	out := append([]core.Place(nil), s.places...)
	sortByOrder(out, func(p core.Place) int { return p.SortOrder })
	return out, nil
}

func (s *Store) CreatePlace(ctx context.Context, input core.PlaceInput) (core.Place, error) {
	if err := input.Validate(); err != nil {
		return core.Place{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := core.Place{ID: uuid.NewString(), Name: input.Name, SortOrder: input.SortOrder, IsActive: input.IsActive}
	s.places = append(s.places, p)
	return p, nil
}

func (s *Store) UpdatePlace(ctx context.Context, id string, input core.PlaceInput) (core.Place, error) {
	if err := input.Validate(); err != nil {
		return core.Place{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.places {
		if p.ID != id {
			continue
		}
		p.Name = input.Name
		p.SortOrder = input.SortOrder
		p.IsActive = input.IsActive
		s.places[i] = p
		return p, nil
	}
	return core.Place{}, fmt.Errorf("place %s: %w", id, ErrNotFound)
}

func (s *Store) DeletePlace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.places {
		if p.ID == id {
			s.places = append(s.places[:i], s.places[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("place %s: %w", id, ErrNotFound)
}

// --- payers ---

func (s *Store) Payers(ctx context.Context) ([]core.Payer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getPayers")

	var out []core.Payer
	for _, p := range s.payers {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sortByOrder(out, func(p core.Payer) int { return p.SortOrder })
	return out, nil
}

func (s *Store) AllPayers(ctx context.Context) ([]core.Payer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getAllPayers")

	out := append([]core.Payer(nil), s.payers...)
	sortByOrder(out, func(p core.Payer) int { return p.SortOrder })
	return out, nil
}

func (s *Store) CreatePayer(ctx context.Context, input core.PayerInput) (core.Payer, error) {
	if err := input.Validate(); err != nil {
		return core.Payer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := core.Payer{
		ID:           uuid.NewString(),
		Name:         input.Name,
		SortOrder:    input.SortOrder,
		IsActive:     input.IsActive,
		TrackBalance: input.TrackBalance,
	}
	s.payers = append(s.payers, p)
	return p, nil
}

func (s *Store) UpdatePayer(ctx context.Context, id string, input core.PayerInput) (core.Payer, error) {
	if err := input.Validate(); err != nil {
		return core.Payer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.payers {
		if p.ID != id {
			continue
		}
		p.Name = input.Name
		p.SortOrder = input.SortOrder
		p.IsActive = input.IsActive
		p.TrackBalance = input.TrackBalance
		s.payers[i] = p
		return p, nil
	}
	return core.Payer{}, fmt.Errorf("payer %s: %w", id, ErrNotFound)
}

func (s *Store) DeletePayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.payers {
		if p.ID == id {
			s.payers = append(s.payers[:i], s.payers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("payer %s: %w", id, ErrNotFound)
}

// --- summaries ---

func (s *Store) MonthlySummary(ctx context.Context, month core.Month, payer string) (core.MonthlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getSummary")
	return s.monthlySummaryLocked(month, payer), nil
}

func (s *Store) YearlySummary(ctx context.Context, month core.Month, payer string) (core.YearlySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getYearlySummary")

	// Trailing 13 months so year-over-year pairs are both present.
	months := core.TrailingMonths(month, 13)
	out := core.YearlySummary{Year: fmt.Sprintf("%d", month.Year())}
	for _, m := range months {
		total, byCat := s.aggregateLocked(m, payer)
		out.Months = append(out.Months, core.MonthData{
			Month:      m.String(),
			Total:      total,
			ByCategory: byCat,
		})
	}
	return out, nil
}

func (s *Store) monthlySummaryLocked(month core.Month, payer string) core.MonthlySummary {
	total, byCat := s.aggregateLocked(month, payer)
	out := core.MonthlySummary{
		Month:      month.String(),
		Total:      total,
		ByCategory: byCat,
	}
	if cmp := s.compareLocked(total, month.Previous(), payer); cmp != nil {
		out.PreviousMonth = cmp
	}
	if cmp := s.compareLocked(total, month.PreviousYear(), payer); cmp != nil {
		out.PreviousYearMonth = cmp
	}
	return out
}

// compareLocked relates total to the given prior month. Nil when both
// months are empty, so clients can tell "no data" from "no change".
func (s *Store) compareLocked(total int, prior core.Month, payer string) *core.MonthComparison {
	priorTotal, _ := s.aggregateLocked(prior, payer)
	if total == 0 && priorTotal == 0 {
		return nil
	}
	cmp := &core.MonthComparison{Total: priorTotal, Diff: total - priorTotal}
	if priorTotal > 0 {
		pct := float64(cmp.Diff) / float64(priorTotal) * 100
		cmp.DiffPercent = math.Trunc(pct*100) / 100
	}
	return cmp
}

// aggregateLocked totals one month across expense categories, visibility
// filtered for the viewer, ordered by the category sort order.
func (s *Store) aggregateLocked(month core.Month, payer string) (int, []core.CategorySummary) {
	cats := make(map[string]core.Category, len(s.categories))
	for _, c := range s.categories {
		cats[c.ID] = c
	}

	var in []core.Expense
	for _, e := range s.expenses {
		if !month.Contains(e.Date) {
			continue
		}
		if payer != "" && e.Payer != payer {
			continue
		}
		in = append(in, e)
	}

	total := 0
	byID := make(map[string]int)
	for _, e := range visibility.ForSummary(in, s.viewer) {
		c, ok := cats[e.Category]
		if ok && (!c.IsExpense || c.ExcludeFromSummary) {
			continue
		}
		total += e.Amount
		byID[e.Category] += e.Amount
	}

	out := make([]core.CategorySummary, 0, len(byID))
	for id, amount := range byID {
		c := cats[id]
		name, color := c.Name, c.Color
		if name == "" {
			name = id
		}
		out = append(out, core.CategorySummary{
			CategoryID: id,
			Category:   name,
			Amount:     amount,
			Color:      color,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return orderOf(cats, out[i].CategoryID) < orderOf(cats, out[j].CategoryID)
	})
	return total, out
}

func orderOf(cats map[string]core.Category, id string) int {
	if c, ok := cats[id]; ok {
		return c.SortOrder
	}
	return math.MaxInt
}

// PayerBalance reconstructs a payer's balance for the requested month by
// walking every month from the payer's first record forward. Charges are
// amounts in non-expense categories other than income.
func (s *Store) PayerBalance(ctx context.Context, payer string, month core.Month) (core.PayerBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getPayerBalance")

	cats := make(map[string]core.Category, len(s.categories))
	for _, c := range s.categories {
		cats[c.ID] = c
	}

	var first *core.Month
	for _, e := range s.expenses {
		if e.Payer != payer {
			continue
		}
		m, err := core.MonthOfDate(e.Date)
		if err != nil {
			continue
		}
		if first == nil || m.Before(*first) {
			first = &m
		}
	}

	out := core.PayerBalance{Payer: payer}
	if first == nil || month.Before(*first) {
		return out, nil
	}

	carryover := 0
	for m := *first; !m.After(month); m = m.AddMonths(1) {
		charge, spent := s.monthFlowLocked(cats, payer, m)
		if m.Equal(month) {
			out.Carryover = carryover
			out.MonthCharge = charge
			out.MonthSpent = spent
			out.Balance = carryover + charge - spent
			break
		}
		carryover += charge - spent
	}
	return out, nil
}

func (s *Store) monthFlowLocked(cats map[string]core.Category, payer string, month core.Month) (charge, spent int) {
	for _, e := range s.expenses {
		if e.Payer != payer || !month.Contains(e.Date) {
			continue
		}
		c, ok := cats[e.Category]
		switch {
		case !ok || c.IsExpense:
			spent += e.Amount
		case c.Name != incomeCategoryName:
			charge += e.Amount
		}
	}
	return charge, spent
}

// --- recurring ---

func (s *Store) RecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getRecurringExpenses")
	return append([]core.RecurringExpense(nil), s.recurring...), nil
}

func (s *Store) CreateRecurringExpense(ctx context.Context, input core.RecurringExpenseInput) (core.RecurringExpense, error) {
	if err := input.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().Format(time.RFC3339)
	r := core.RecurringExpense{
		ID:          uuid.NewString(),
		Category:    input.Category,
		Amount:      input.Amount,
		Payer:       input.Payer,
		Place:       input.Place,
		Memo:        input.Memo,
		Frequency:   input.Frequency,
		DayOfMonth:  input.DayOfMonth,
		RepeatMonth: input.RepeatMonth,
		StartMonth:  input.StartMonth,
		EndMonth:    input.EndMonth,
		IsActive:    input.IsActive,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	s.recurring = append(s.recurring, r)
	return r, nil
}

func (s *Store) UpdateRecurringExpense(ctx context.Context, id string, input core.RecurringExpenseInput) (core.RecurringExpense, error) {
	if err := input.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recurring {
		if r.ID != id {
			continue
		}
		r.Category = input.Category
		r.Amount = input.Amount
		r.Payer = input.Payer
		r.Place = input.Place
		r.Memo = input.Memo
		r.Frequency = input.Frequency
		r.DayOfMonth = input.DayOfMonth
		r.RepeatMonth = input.RepeatMonth
		r.StartMonth = input.StartMonth
		r.EndMonth = input.EndMonth
		r.IsActive = input.IsActive
		r.UpdatedAt = s.now().Format(time.RFC3339)
		s.recurring[i] = r
		return r, nil
	}
	return core.RecurringExpense{}, fmt.Errorf("recurring expense %s: %w", id, ErrNotFound)
}

func (s *Store) DeleteRecurringExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recurring {
		if r.ID == id {
			s.recurring = append(s.recurring[:i], s.recurring[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("recurring expense %s: %w", id, ErrNotFound)
}

// --- identity ---

func (s *Store) MyRole(ctx context.Context) (core.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("getMyRole")
	return s.role, nil
}

func sortByOrder[T any](items []T, order func(T) int) {
	sort.SliceStable(items, func(i, j int) bool { return order(items[i]) < order(items[j]) })
}
