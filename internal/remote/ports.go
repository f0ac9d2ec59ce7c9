// Package remote defines the ports to the remote data service and the error
// taxonomy its implementations share. The session layer consumes these
// interfaces; the rpc subpackage talks to the real endpoint and the memory
// subpackage backs tests and the demo CLI.
package remote

import (
	"context"

	"moneydiary/internal/core"
)

// Ports to the remote data service.
type (
	// ExpenseService covers expense CRUD. Reads are already visibility
	// filtered for the requesting user by the server.
	ExpenseService interface {
		ExpensesByMonth(ctx context.Context, month core.Month) ([]core.Expense, error)
		CreateExpense(ctx context.Context, input core.ExpenseInput) (core.Expense, error)
		UpdateExpense(ctx context.Context, id string, input core.ExpenseInput) (core.Expense, error)
		DeleteExpense(ctx context.Context, id string) error
		BulkCreateExpenses(ctx context.Context, inputs []core.ExpenseInput) ([]core.Expense, error)
	}

	// MasterService covers the category/place/payer dictionaries. The plain
	// getters return active entries only; the All variants include inactive
	// ones for the settings screens.
	MasterService interface {
		Categories(ctx context.Context) ([]core.Category, error)
		AllCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, input core.CategoryInput) (core.Category, error)
		UpdateCategory(ctx context.Context, id string, input core.CategoryInput) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) error

		Places(ctx context.Context) ([]core.Place, error)
		AllPlaces(ctx context.Context) ([]core.Place, error)
		CreatePlace(ctx context.Context, input core.PlaceInput) (core.Place, error)
		UpdatePlace(ctx context.Context, id string, input core.PlaceInput) (core.Place, error)
		DeletePlace(ctx context.Context, id string) error

		Payers(ctx context.Context) ([]core.Payer, error)
		AllPayers(ctx context.Context) ([]core.Payer, error)
		CreatePayer(ctx context.Context, input core.PayerInput) (core.Payer, error)
		UpdatePayer(ctx context.Context, id string, input core.PayerInput) (core.Payer, error)
		DeletePayer(ctx context.Context, id string) error
	}

	// SummaryService covers the server-side aggregations. The client
	// recomputes category breakdowns for calendar and place views; both
	// paths must agree on totals.
	SummaryService interface {
		MonthlySummary(ctx context.Context, month core.Month, payer string) (core.MonthlySummary, error)
		YearlySummary(ctx context.Context, month core.Month, payer string) (core.YearlySummary, error)
		PayerBalance(ctx context.Context, payer string, month core.Month) (core.PayerBalance, error)
	}

	// RecurringService covers recurring-expense template CRUD.
	RecurringService interface {
		RecurringExpenses(ctx context.Context) ([]core.RecurringExpense, error)
		CreateRecurringExpense(ctx context.Context, input core.RecurringExpenseInput) (core.RecurringExpense, error)
		UpdateRecurringExpense(ctx context.Context, id string, input core.RecurringExpenseInput) (core.RecurringExpense, error)
		DeleteRecurringExpense(ctx context.Context, id string) error
	}

	// IdentityService resolves the caller's role. Identity itself is opaque
	// to this module.
	IdentityService interface {
		MyRole(ctx context.Context) (core.Role, error)
	}

	// DataService is the full remote capability consumed by the session.
	DataService interface {
		ExpenseService
		MasterService
		SummaryService
		RecurringService
		IdentityService
	}
)
