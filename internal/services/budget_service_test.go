package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestBudgetFiguresTrackMonthlyExpenses(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		w := f.wallet(t, "W", 3, 2024, 0)
		april := f.wallet(t, "W", 4, 2024, 0)

		b, err := f.budgets.Create(ctx, testUser, BudgetInput{CategoryID: "default-food", MonthlyLimit: 200, Month: 3, Year: 2024})
		if err != nil {
			t.Fatalf("create budget: %v", err)
		}
		if b.Spent != 0 || b.Remaining != 200 || b.Category == nil || b.Category.Name != "Food & Dining" {
			t.Fatalf("fresh budget view %+v", b)
		}

		expenses := []TransactionInput{
			{Type: core.Expense, Amount: 120, FromWalletID: w.ID, CategoryID: "default-food", Date: march10},
			{Type: core.Expense, Amount: 130, FromWalletID: w.ID, CategoryID: "default-food", Date: march10},
			// Other category, other type and other month do not count.
			{Type: core.Expense, Amount: 500, FromWalletID: w.ID, CategoryID: "default-bills", Date: march10},
			{Type: core.Income, Amount: 500, FromWalletID: w.ID, CategoryID: "default-salary", Date: march10},
			{Type: core.Expense, Amount: 70, FromWalletID: april.ID, CategoryID: "default-food", Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)},
		}
		for _, in := range expenses {
			if _, err := f.transactions.Create(ctx, testUser, in); err != nil {
				t.Fatalf("create transaction: %v", err)
			}
		}

		got, err := f.budgets.Get(ctx, testUser, b.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		want := core.BudgetFigures{Spent: 250, Remaining: 0, Percentage: 100, IsOverBudget: true, OverBy: 50}
		if got.BudgetFigures != want {
			t.Fatalf("figures = %+v, want %+v", got.BudgetFigures, want)
		}

		summary, err := f.budgets.GetMonthly(ctx, testUser, core.Period{Month: 3, Year: 2024})
		if err != nil {
			t.Fatalf("monthly: %v", err)
		}
		if len(summary.Budgets) != 1 || summary.TotalBudget != 200 || summary.TotalSpent != 250 || summary.TotalRemaining != 0 {
			t.Fatalf("summary %+v", summary)
		}
	})
}

func TestBudgetFollowsTransactionChanges(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		w := f.wallet(t, "W", 3, 2024, 0)
		b, err := f.budgets.Create(ctx, testUser, BudgetInput{CategoryID: "default-transport", MonthlyLimit: 100, Month: 3, Year: 2024})
		if err != nil {
			t.Fatalf("create budget: %v", err)
		}

		tx, err := f.transactions.Create(ctx, testUser, TransactionInput{
			Type: core.Expense, Amount: 40, FromWalletID: w.ID, CategoryID: "default-transport", Date: march10,
		})
		if err != nil {
			t.Fatalf("create transaction: %v", err)
		}
		spent := func() float64 {
			v, err := f.budgets.Get(ctx, testUser, b.ID)
			if err != nil {
				t.Fatalf("get budget: %v", err)
			}
			return v.Spent
		}

		if got := spent(); got != 40 {
			t.Fatalf("spent %v, want 40", got)
		}
		if _, err := f.transactions.Update(ctx, testUser, tx.ID, TransactionPatch{CategoryID: ptr("default-health")}); err != nil {
			t.Fatalf("move category: %v", err)
		}
		if got := spent(); got != 0 {
			t.Fatalf("spent after category move %v, want 0", got)
		}
	})
}

func TestBudgetKeyUnique(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		first, err := f.budgets.Create(ctx, testUser, BudgetInput{CategoryID: "default-food", MonthlyLimit: 100, Month: 3, Year: 2024})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err = f.budgets.Create(ctx, testUser, BudgetInput{CategoryID: "default-food", MonthlyLimit: 50, Month: 3, Year: 2024})
		assertKind(t, err, core.KindConflict)

		second, err := f.budgets.Create(ctx, testUser, BudgetInput{CategoryID: "default-food", MonthlyLimit: 100, Month: 4, Year: 2024})
		if err != nil {
			t.Fatalf("create next month: %v", err)
		}

		// Updating a budget onto its own key is allowed; onto another one is not.
		if _, err := f.budgets.Update(ctx, testUser, first.ID, BudgetPatch{MonthlyLimit: ptr(150.0), Month: ptr(3)}); err != nil {
			t.Fatalf("update in place: %v", err)
		}
		_, err = f.budgets.Update(ctx, testUser, second.ID, BudgetPatch{Month: ptr(3)})
		assertKind(t, err, core.KindConflict)
	})
}

func TestBudgetValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		tests := []struct {
			name string
			in   BudgetInput
			want core.ErrorKind
		}{
			{"negative limit", BudgetInput{CategoryID: "default-food", MonthlyLimit: -1, Month: 3, Year: 2024}, core.KindValidation},
			{"missing category", BudgetInput{MonthlyLimit: 1, Month: 3, Year: 2024}, core.KindValidation},
			{"bad month", BudgetInput{CategoryID: "default-food", MonthlyLimit: 1, Month: 13, Year: 2024}, core.KindValidation},
			{"unknown category", BudgetInput{CategoryID: "nope", MonthlyLimit: 1, Month: 3, Year: 2024}, core.KindNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.budgets.Create(ctx, testUser, tt.in)
				assertKind(t, err, tt.want)
			})
		}
	})
}
