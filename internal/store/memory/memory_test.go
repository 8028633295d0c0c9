package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestNewSeedsDefaultCategories(t *testing.T) {
	s := New()
	cats, err := s.ListCategories(context.Background(), "someone", "")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != len(core.DefaultCategories()) {
		t.Fatalf("expected %d defaults, got %d", len(core.DefaultCategories()), len(cats))
	}

	expense, _ := s.ListCategories(context.Background(), "someone", core.CategoryExpense)
	for _, c := range expense {
		if c.Type != core.CategoryExpense {
			t.Fatalf("type filter leaked %v", c)
		}
	}
}

func TestCategoryScopes(t *testing.T) {
	ctx := context.Background()
	s := New()

	mine := core.Category{ID: "c1", Name: "Pets", Type: core.CategoryExpense, OwnerUserID: "alice"}
	if err := s.CreateCategory(ctx, mine); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.GetCategory(ctx, "bob", "c1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("bob must not see alice's category, got %v", err)
	}
	if _, err := s.GetCategory(ctx, "bob", "default-food"); err != nil {
		t.Fatalf("shared defaults must be visible: %v", err)
	}

	dup := core.Category{ID: "c2", Name: "transport", Type: core.CategoryExpense, OwnerUserID: "alice"}
	if err := s.CreateCategory(ctx, dup); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("name clash with a shared default must be a duplicate, got %v", err)
	}

	other := core.Category{ID: "c3", Name: "Pets", Type: core.CategoryExpense, OwnerUserID: "bob"}
	if err := s.CreateCategory(ctx, other); err != nil {
		t.Fatalf("same name for another user must be allowed: %v", err)
	}

	if err := s.DeleteCategory(ctx, "alice", "default-food"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("users must not delete shared defaults, got %v", err)
	}
}

func TestWalletUniquePerPeriod(t *testing.T) {
	ctx := context.Background()
	s := New()

	w := core.Wallet{ID: "w1", Name: "Cash", Type: core.WalletCash, Month: 3, Year: 2024, OwnerUserID: "alice"}
	if err := s.CreateWallet(ctx, w); err != nil {
		t.Fatalf("create: %v", err)
	}

	clash := w
	clash.ID = "w2"
	if err := s.CreateWallet(ctx, clash); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	nextMonth := clash
	nextMonth.Month = 4
	if err := s.CreateWallet(ctx, nextMonth); err != nil {
		t.Fatalf("same name in another month must be allowed: %v", err)
	}
}

func TestReturnedWalletDoesNotAliasStore(t *testing.T) {
	ctx := context.Background()
	s := New()
	balance := 10.0
	_ = s.CreateWallet(ctx, core.Wallet{ID: "w", Name: "W", Type: core.WalletCash, Month: 1, Year: 2024, OwnerUserID: "u", ClosingBalance: &balance})

	got, _ := s.GetWallet(ctx, "u", "w")
	*got.ClosingBalance = 999

	again, _ := s.GetWallet(ctx, "u", "w")
	if again.Balance() != 10 {
		t.Fatalf("stored balance mutated through returned copy: %v", again.Balance())
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateWallet(ctx, core.Wallet{ID: "w", Name: "W", Type: core.WalletCash, Month: 1, Year: 2024, OwnerUserID: "u"})

	boom := errors.New("boom")
	err := s.InTx(ctx, func(r store.Repository) error {
		w, err := r.GetWallet(ctx, "u", "w")
		if err != nil {
			return err
		}
		core.ApplyEffect(&w, -50)
		if err := r.UpdateWallet(ctx, w); err != nil {
			return err
		}
		if err := r.CreateTransaction(ctx, core.Transaction{ID: "t", OwnerUserID: "u"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	w, _ := s.GetWallet(ctx, "u", "w")
	if w.Balance() != 0 {
		t.Fatalf("wallet write must be rolled back, balance=%v", w.Balance())
	}
	if _, err := s.GetTransaction(ctx, "u", "t"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("transaction insert must be rolled back, got %v", err)
	}
}

func TestInTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.InTx(ctx, func(r store.Repository) error {
		return r.CreateTransaction(ctx, core.Transaction{ID: "t", OwnerUserID: "u", Date: time.Now()})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if _, err := s.GetTransaction(ctx, "u", "t"); err != nil {
		t.Fatalf("committed write missing: %v", err)
	}
}

func TestListTransactionsFilterAndSum(t *testing.T) {
	ctx := context.Background()
	s := New()
	march := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		{ID: "1", Type: core.Expense, Amount: 20, FromWalletID: "w1", CategoryID: "food", Date: march, OwnerUserID: "u"},
		{ID: "2", Type: core.Expense, Amount: 30, FromWalletID: "w1", CategoryID: "food", Date: march.Add(time.Hour), OwnerUserID: "u"},
		{ID: "3", Type: core.Income, Amount: 99, FromWalletID: "w1", ToWalletID: "w1", CategoryID: "salary", Date: march, OwnerUserID: "u"},
		{ID: "4", Type: core.Expense, Amount: 70, FromWalletID: "w1", CategoryID: "food", Date: april, OwnerUserID: "u"},
		{ID: "5", Type: core.Transfer, Amount: 5, FromWalletID: "w2", ToWalletID: "w1", Date: march, OwnerUserID: "u"},
		{ID: "6", Type: core.Expense, Amount: 11, FromWalletID: "x", CategoryID: "food", Date: march, OwnerUserID: "other"},
	}
	for _, tx := range txs {
		if err := s.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("create %s: %v", tx.ID, err)
		}
	}

	p := core.Period{Month: 3, Year: 2024}
	got, _ := s.ListTransactions(ctx, "u", store.TransactionFilter{Period: &p})
	if len(got) != 4 {
		t.Fatalf("expected 4 march transactions, got %d", len(got))
	}
	if got[0].ID != "2" {
		t.Fatalf("expected newest first, got %s", got[0].ID)
	}

	byWallet, _ := s.ListTransactions(ctx, "u", store.TransactionFilter{WalletID: "w1", Type: core.Transfer})
	if len(byWallet) != 1 || byWallet[0].ID != "5" {
		t.Fatalf("wallet filter must match the destination side, got %v", byWallet)
	}

	sums, _ := s.SumExpensesByCategory(ctx, "u", p, []string{"food", "salary"})
	if sums["food"] != 50 || sums["salary"] != 0 {
		t.Fatalf("unexpected sums %v", sums)
	}
}

func TestBudgetKeyUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	b := core.Budget{ID: "b1", CategoryID: "food", MonthlyLimit: 100, Month: 3, Year: 2024, OwnerUserID: "u"}
	if err := s.CreateBudget(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	b.MonthlyLimit = 200
	if err := s.UpdateBudget(ctx, b); err != nil {
		t.Fatalf("updating self must not clash: %v", err)
	}

	clash := core.Budget{ID: "b2", CategoryID: "food", Month: 3, Year: 2024, OwnerUserID: "u"}
	if err := s.CreateBudget(ctx, clash); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	found, err := s.FindBudget(ctx, "u", "food", core.Period{Month: 3, Year: 2024})
	if err != nil || found.ID != "b1" {
		t.Fatalf("FindBudget = %v, %v", found, err)
	}
}
