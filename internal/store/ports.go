// Package store declares the persistence and messaging ports the services depend on.
package store

import (
	"context"

	"fintrack/internal/core"
)

// TransactionFilter narrows a transaction listing. Zero values mean "any".
type TransactionFilter struct {
	Period     *core.Period
	Type       core.TransactionType
	WalletID   string // matches either side of the transaction
	CategoryID string
}

// Matches reports whether tx passes the filter. Stores without a query
// language use it directly.
func (f TransactionFilter) Matches(tx core.Transaction) bool {
	if f.Period != nil && !f.Period.Contains(tx.Date) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.WalletID != "" && tx.FromWalletID != f.WalletID && tx.ToWalletID != f.WalletID {
		return false
	}
	if f.CategoryID != "" && tx.CategoryID != f.CategoryID {
		return false
	}
	return true
}

// Ports for persistence. Lookups scoped by userID return an error wrapping
// core.ErrNotFound when the entity is missing or owned by someone else.
// Writes violating a unique key return an error wrapping core.ErrDuplicate.
type (
	CategoryRepository interface {
		// ListCategories returns the user's categories plus shared defaults.
		ListCategories(ctx context.Context, userID string, typ core.CategoryType) ([]core.Category, error)
		GetCategory(ctx context.Context, userID, id string) (core.Category, error)
		CreateCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, userID, id string) error
	}

	WalletRepository interface {
		ListWallets(ctx context.Context, userID string, p core.Period) ([]core.Wallet, error)
		GetWallet(ctx context.Context, userID, id string) (core.Wallet, error)
		CreateWallet(ctx context.Context, w core.Wallet) error
		UpdateWallet(ctx context.Context, w core.Wallet) error
		DeleteWallet(ctx context.Context, userID, id string) error
	}

	TransactionRepository interface {
		// ListTransactions returns matching transactions ordered by date, newest first.
		ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, tx core.Transaction) error
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, userID, id string) error
		// SumExpensesByCategory groups expense amounts within p by category.
		SumExpensesByCategory(ctx context.Context, userID string, p core.Period, categoryIDs []string) (map[string]float64, error)
	}

	BudgetRepository interface {
		ListBudgets(ctx context.Context, userID string, p core.Period) ([]core.Budget, error)
		GetBudget(ctx context.Context, userID, id string) (core.Budget, error)
		// FindBudget looks a budget up by its unique (category, period) key.
		FindBudget(ctx context.Context, userID, categoryID string, p core.Period) (core.Budget, error)
		CreateBudget(ctx context.Context, b core.Budget) error
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, userID, id string) error
	}

	SavingsRepository interface {
		ListSavings(ctx context.Context, userID string) ([]core.Savings, error)
		GetSavings(ctx context.Context, userID, id string) (core.Savings, error)
		CreateSavings(ctx context.Context, s core.Savings) error
		// UpdateSavings replaces the whole document, embedded transactions included.
		UpdateSavings(ctx context.Context, s core.Savings) error
		DeleteSavings(ctx context.Context, userID, id string) error
	}

	DueRepository interface {
		ListDues(ctx context.Context, userID string) ([]core.DueReceivable, error)
		GetDue(ctx context.Context, userID, id string) (core.DueReceivable, error)
		CreateDue(ctx context.Context, d core.DueReceivable) error
		UpdateDue(ctx context.Context, d core.DueReceivable) error
		DeleteDue(ctx context.Context, userID, id string) error
	}

	// Repository aggregates every collection. InTx runs fn against a
	// transactional view; any error returned by fn discards all its writes.
	Repository interface {
		CategoryRepository
		WalletRepository
		TransactionRepository
		BudgetRepository
		SavingsRepository
		DueRepository

		InTx(ctx context.Context, fn func(Repository) error) error
		Ping(ctx context.Context) error
		Close() error
	}

	// EventPublisher forwards committed ledger events to downstream consumers.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error
	}
)
