// Package session glues the remote data service to the session cache.
// Reads go through the cache; writes go to the service and invalidate the
// affected cache namespaces before the call returns, so any read issued
// after a successful mutation sees fresh data. One Session serves one
// authenticated user for the lifetime of the process.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"moneydiary/internal/cache"
	"moneydiary/internal/core"
	"moneydiary/internal/log"
	"moneydiary/internal/registry"
	"moneydiary/internal/remote"
)

// Session is the cached facade over the remote data service.
type Session struct {
	svc     remote.DataService
	cache   cache.Store
	logger  *log.Logger
	metrics *Metrics

	// gen increments on every invalidation. A fetch that started before an
	// invalidation must not repopulate the cache with its stale result.
	gen atomic.Uint64

	onAuthError func(error)

	roleMu sync.Mutex
	role   core.Role
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l.WithComponent(log.ComponentSession) }
}

// WithMetrics enables cache traffic counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithOnAuthError registers a callback invoked once per authentication
// failure, before the error is returned to the caller.
func WithOnAuthError(fn func(error)) Option {
	return func(s *Session) { s.onAuthError = fn }
}

// New creates a Session over the given service and cache store.
func New(svc remote.DataService, store cache.Store, opts ...Option) *Session {
	s := &Session{
		svc:    svc,
		cache:  store,
		logger: log.Discard().WithComponent(log.ComponentSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// readThrough serves key from the cache, falling back to fetch. A result
// whose fetch started before an invalidation is returned but not cached.
func readThrough[T any](ctx context.Context, s *Session, key, namespace, operation string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if t, ok := v.(T); ok {
			s.metrics.hit(namespace)
			return t, nil
		}
	}
	s.metrics.miss(namespace)
	s.metrics.fetch(operation)

	gen := s.gen.Load()
	t, err := fetch(ctx)
	if err != nil {
		s.observe(operation, err)
		var zero T
		return zero, err
	}
	if s.gen.Load() == gen {
		s.cache.Set(key, t)
	} else {
		s.logger.Debug("discarding stale fetch result", log.FieldOperation, operation, log.FieldCacheKey, key)
	}
	return t, nil
}

func (s *Session) observe(operation string, err error) {
	if remote.IsAuth(err) {
		s.logger.Warn("authentication rejected", log.FieldOperation, operation)
		if s.onAuthError != nil {
			s.onAuthError(err)
		}
		return
	}
	s.logger.Error("remote call failed", log.FieldOperation, operation, log.FieldError, err)
}

func (s *Session) invalidate(prefixes ...string) {
	s.gen.Add(1)
	for _, p := range prefixes {
		s.cache.Invalidate(p)
		s.metrics.invalidate(p)
		s.logger.Debug("cache invalidated", log.FieldPrefix, p)
	}
}

func (s *Session) invalidateExpenseData() {
	s.invalidate(cache.PrefixExpenses, cache.PrefixSummary, cache.PrefixPayerBalance)
}

// mutate runs a write and, on success, invalidates the given prefixes
// before returning.
func mutate[T any](s *Session, operation string, prefixes []string, run func() (T, error)) (T, error) {
	s.metrics.fetch(operation)
	t, err := run()
	if err != nil {
		s.observe(operation, err)
		var zero T
		return zero, err
	}
	s.invalidate(prefixes...)
	return t, nil
}

// --- expenses ---

func (s *Session) ExpensesByMonth(ctx context.Context, month core.Month) ([]core.Expense, error) {
	return readThrough(ctx, s, cache.ExpensesKey(month), "expenses", "getExpenses", func(ctx context.Context) ([]core.Expense, error) {
		return s.svc.ExpensesByMonth(ctx, month)
	})
}

func (s *Session) CreateExpense(ctx context.Context, input core.ExpenseInput) (core.Expense, error) {
	if err := input.Validate(); err != nil {
		return core.Expense{}, err
	}
	return mutate(s, "createExpense", expensePrefixes(), func() (core.Expense, error) {
		return s.svc.CreateExpense(ctx, input)
	})
}

func (s *Session) UpdateExpense(ctx context.Context, id string, input core.ExpenseInput) (core.Expense, error) {
	if err := input.Validate(); err != nil {
		return core.Expense{}, err
	}
	return mutate(s, "updateExpense", expensePrefixes(), func() (core.Expense, error) {
		return s.svc.UpdateExpense(ctx, id, input)
	})
}

func (s *Session) DeleteExpense(ctx context.Context, id string) error {
	_, err := mutate(s, "deleteExpense", expensePrefixes(), func() (struct{}, error) {
		return struct{}{}, s.svc.DeleteExpense(ctx, id)
	})
	return err
}

func (s *Session) BulkCreateExpenses(ctx context.Context, inputs []core.ExpenseInput) ([]core.Expense, error) {
	for _, input := range inputs {
		if err := input.Validate(); err != nil {
			return nil, err
		}
	}
	return mutate(s, "bulkCreateExpenses", expensePrefixes(), func() ([]core.Expense, error) {
		return s.svc.BulkCreateExpenses(ctx, inputs)
	})
}

func expensePrefixes() []string {
	return []string{cache.PrefixExpenses, cache.PrefixSummary, cache.PrefixPayerBalance}
}

// --- master data ---

func (s *Session) Categories(ctx context.Context) ([]core.Category, error) {
	return readThrough(ctx, s, cache.KeyCategories, "master", "getCategories", func(ctx context.Context) ([]core.Category, error) {
		return s.svc.Categories(ctx)
	})
}

// AllCategories bypasses the cache: the settings screens that need
// inactive entries always want current data.
func (s *Session) AllCategories(ctx context.Context) ([]core.Category, error) {
	s.metrics.fetch("getAllCategories")
	out, err := s.svc.AllCategories(ctx)
	if err != nil {
		s.observe("getAllCategories", err)
	}
	return out, err
}

func (s *Session) CreateCategory(ctx context.Context, input core.CategoryInput) (core.Category, error) {
	if err := input.Validate(); err != nil {
		return core.Category{}, err
	}
	return mutate(s, "createCategory", []string{cache.KeyCategories}, func() (core.Category, error) {
		return s.svc.CreateCategory(ctx, input)
	})
}

func (s *Session) UpdateCategory(ctx context.Context, id string, input core.CategoryInput) (core.Category, error) {
	if err := input.Validate(); err != nil {
		return core.Category{}, err
	}
	return mutate(s, "updateCategory", []string{cache.KeyCategories}, func() (core.Category, error) {
		return s.svc.UpdateCategory(ctx, id, input)
	})
}

func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	_, err := mutate(s, "deleteCategory", []string{cache.KeyCategories}, func() (struct{}, error) {
		return struct{}{}, s.svc.DeleteCategory(ctx, id)
	})
	return err
}

func (s *Session) Places(ctx context.Context) ([]core.Place, error) {
	return readThrough(ctx, s, cache.KeyPlaces, "master", "getPlaces", func(ctx context.Context) ([]core.Place, error) {
		return s.svc.Places(ctx)
	})
}

func (s *Session) AllPlaces(ctx context.Context) ([]core.Place, error) {
	s.metrics.fetch("getAllPlaces")
	out, err := s.svc.AllPlaces(ctx)
	if err != nil {
		s.observe("getAllPlaces", err)
	}
	return out, err
}

func (s *Session) CreatePlace(ctx context.Context, input core.PlaceInput) (core.Place, error) {
	if err := input.Validate(); err != nil {
		return core.Place{}, err
	}
	return mutate(s, "createPlace", []string{cache.KeyPlaces}, func() (core.Place, error) {
		return s.svc.CreatePlace(ctx, input)
	})
}

func (s *Session) UpdatePlace(ctx context.Context, id string, input core.PlaceInput) (core.Place, error) {
	if err := input.Validate(); err != nil {
		return core.Place{}, err
	}
	return mutate(s, "updatePlace", []string{cache.KeyPlaces}, func() (core.Place, error) {
		return s.svc.UpdatePlace(ctx, id, input)
	})
}

func (s *Session) DeletePlace(ctx context.Context, id string) error {
	_, err := mutate(s, "deletePlace", []string{cache.KeyPlaces}, func() (struct{}, error) {
		return struct{}{}, s.svc.DeletePlace(ctx, id)
	})
	return err
}

func (s *Session) Payers(ctx context.Context) ([]core.Payer, error) {
	return readThrough(ctx, s, cache.KeyPayers, "master", "getPayers", func(ctx context.Context) ([]core.Payer, error) {
		return s.svc.Payers(ctx)
	})
}

func (s *Session) AllPayers(ctx context.Context) ([]core.Payer, error) {
	s.metrics.fetch("getAllPayers")
	out, err := s.svc.AllPayers(ctx)
	if err != nil {
		s.observe("getAllPayers", err)
	}
	return out, err
}

func (s *Session) CreatePayer(ctx context.Context, input core.PayerInput) (core.Payer, error) {
	if err := input.Validate(); err != nil {
		return core.Payer{}, err
	}
	return mutate(s, "createPayer", []string{cache.KeyPayers}, func() (core.Payer, error) {
		return s.svc.CreatePayer(ctx, input)
	})
}

func (s *Session) UpdatePayer(ctx context.Context, id string, input core.PayerInput) (core.Payer, error) {
	if err := input.Validate(); err != nil {
		return core.Payer{}, err
	}
	return mutate(s, "updatePayer", []string{cache.KeyPayers}, func() (core.Payer, error) {
		return s.svc.UpdatePayer(ctx, id, input)
	})
}

func (s *Session) DeletePayer(ctx context.Context, id string) error {
	_, err := mutate(s, "deletePayer", []string{cache.KeyPayers}, func() (struct{}, error) {
		return struct{}{}, s.svc.DeletePayer(ctx, id)
	})
	return err
}

// --- summaries ---

func (s *Session) MonthlySummary(ctx context.Context, month core.Month, payer string) (core.MonthlySummary, error) {
	return readThrough(ctx, s, cache.MonthlySummaryKey(month, payer), "summary", "getSummary", func(ctx context.Context) (core.MonthlySummary, error) {
		return s.svc.MonthlySummary(ctx, month, payer)
	})
}

func (s *Session) YearlySummary(ctx context.Context, month core.Month, payer string) (core.YearlySummary, error) {
	return readThrough(ctx, s, cache.YearlySummaryKey(month, payer), "summary", "getYearlySummary", func(ctx context.Context) (core.YearlySummary, error) {
		return s.svc.YearlySummary(ctx, month, payer)
	})
}

func (s *Session) PayerBalance(ctx context.Context, payer string, month core.Month) (core.PayerBalance, error) {
	return readThrough(ctx, s, cache.PayerBalanceKey(payer, month), "payerBalance", "getPayerBalance", func(ctx context.Context) (core.PayerBalance, error) {
		return s.svc.PayerBalance(ctx, payer, month)
	})
}

// --- recurring ---

func (s *Session) RecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error) {
	return readThrough(ctx, s, cache.KeyRecurring, "master", "getRecurringExpenses", func(ctx context.Context) ([]core.RecurringExpense, error) {
		return s.svc.RecurringExpenses(ctx)
	})
}

func (s *Session) CreateRecurringExpense(ctx context.Context, input core.RecurringExpenseInput) (core.RecurringExpense, error) {
	if err := input.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	return mutate(s, "createRecurringExpense", []string{cache.KeyRecurring}, func() (core.RecurringExpense, error) {
		return s.svc.CreateRecurringExpense(ctx, input)
	})
}

func (s *Session) UpdateRecurringExpense(ctx context.Context, id string, input core.RecurringExpenseInput) (core.RecurringExpense, error) {
	if err := input.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	return mutate(s, "updateRecurringExpense", []string{cache.KeyRecurring}, func() (core.RecurringExpense, error) {
		return s.svc.UpdateRecurringExpense(ctx, id, input)
	})
}

func (s *Session) DeleteRecurringExpense(ctx context.Context, id string) error {
	_, err := mutate(s, "deleteRecurringExpense", []string{cache.KeyRecurring}, func() (struct{}, error) {
		return struct{}{}, s.svc.DeleteRecurringExpense(ctx, id)
	})
	return err
}

// --- identity ---

// MyRole resolves the caller's role once per session.
func (s *Session) MyRole(ctx context.Context) (core.Role, error) {
	s.roleMu.Lock()
	defer s.roleMu.Unlock()
	if s.role != "" {
		return s.role, nil
	}
	s.metrics.fetch("getMyRole")
	role, err := s.svc.MyRole(ctx)
	if err != nil {
		s.observe("getMyRole", err)
		return "", err
	}
	s.role = role
	return role, nil
}

// --- composite views ---

// MonthView is everything one month's screen needs, fetched concurrently.
type MonthView struct {
	Month    core.Month
	Expenses []core.Expense
	Summary  core.MonthlySummary
	Registry *registry.Registry
}

// MonthView loads the expense list, the monthly summary and the master
// dictionaries for one month in parallel. Cached parts are served from the
// cache; the rest fan out to the service together.
func (s *Session) MonthView(ctx context.Context, month core.Month, payer string) (MonthView, error) {
	view := MonthView{Month: month}

	var (
		categories []core.Category
		places     []core.Place
		payers     []core.Payer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Expenses, err = s.ExpensesByMonth(gctx, month)
		return err
	})
	g.Go(func() (err error) {
		view.Summary, err = s.MonthlySummary(gctx, month, payer)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() (err error) {
		places, err = s.Places(gctx)
		return err
	})
	g.Go(func() (err error) {
		payers, err = s.Payers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthView{}, err
	}
	view.Registry = registry.New(categories, places, payers)
	return view, nil
}

// Registry loads the master dictionaries, from cache when warm.
func (s *Session) Registry(ctx context.Context) (*registry.Registry, error) {
	var (
		categories []core.Category
		places     []core.Place
		payers     []core.Payer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() (err error) {
		places, err = s.Places(gctx)
		return err
	})
	g.Go(func() (err error) {
		payers, err = s.Payers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return registry.New(categories, places, payers), nil
}

// Close drops all cached state. Used on logout and shutdown.
func (s *Session) Close() {
	s.gen.Add(1)
	s.cache.Clear()
	s.roleMu.Lock()
	s.role = ""
	s.roleMu.Unlock()
	s.logger.Info("session cache cleared")
}
