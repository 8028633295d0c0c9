package services

import (
	"context"
	"testing"

	"fintrack/internal/core"
)

func TestWalletCreateStartsAtOpeningBalance(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		w := f.wallet(t, "  Checking ", 3, 2024, 250)

		if w.Name != "Checking" {
			t.Errorf("name not trimmed: %q", w.Name)
		}
		if w.ClosingBalance == nil || *w.ClosingBalance != 250 {
			t.Fatalf("closing balance = %v, want 250", w.ClosingBalance)
		}
		if !w.CreatedAt.Equal(fixedNow) {
			t.Errorf("created at %v, want %v", w.CreatedAt, fixedNow)
		}
	})
}

func TestWalletCreateValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		tests := []struct {
			name string
			in   WalletInput
			want core.ErrorKind
		}{
			{"missing name", WalletInput{Type: core.WalletCash, Month: 3, Year: 2024}, core.KindValidation},
			{"bad month", WalletInput{Name: "X", Type: core.WalletCash, Month: 0, Year: 2024}, core.KindValidation},
			{"bad year", WalletInput{Name: "X", Type: core.WalletCash, Month: 3, Year: 1899}, core.KindValidation},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.wallets.Create(ctx, testUser, tt.in)
				assertKind(t, err, tt.want)
			})
		}
	})
}

func TestWalletNameUniquePerPeriod(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		f.wallet(t, "Cash", 3, 2024, 0)

		_, err := f.wallets.Create(ctx, testUser, WalletInput{Name: "cash", Type: core.WalletCash, Month: 3, Year: 2024})
		assertKind(t, err, core.KindConflict)

		// Same name in another month or for another user is fine.
		f.wallet(t, "Cash", 4, 2024, 0)
		if _, err := f.wallets.Create(ctx, "user-2", WalletInput{Name: "Cash", Type: core.WalletCash, Month: 3, Year: 2024}); err != nil {
			t.Fatalf("other user: %v", err)
		}

		other := f.wallet(t, "Savings", 3, 2024, 0)
		_, err = f.wallets.Update(ctx, testUser, other.ID, WalletPatch{Name: ptr("CASH")})
		assertKind(t, err, core.KindConflict)
	})
}

func TestWalletListMonthlyTotals(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		a := f.wallet(t, "A", 3, 2024, 100)
		f.wallet(t, "B", 3, 2024, 50)
		f.wallet(t, "C", 4, 2024, 999)

		if _, err := f.transactions.Create(ctx, testUser, TransactionInput{
			Type: core.Expense, Amount: 20, FromWalletID: a.ID, CategoryID: "default-food", Date: march10,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := f.wallets.ListMonthly(ctx, testUser, core.Period{Month: 3, Year: 2024})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got.Wallets) != 2 || got.TotalOpening != 150 || got.TotalClosing != 130 {
			t.Fatalf("got %d wallets, opening %v, closing %v", len(got.Wallets), got.TotalOpening, got.TotalClosing)
		}
	})
}

func TestWalletDeleteRefusedWhileReferenced(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		w := f.wallet(t, "W", 3, 2024, 0)
		tx, err := f.transactions.Create(ctx, testUser, TransactionInput{
			Type: core.Expense, Amount: 1, FromWalletID: w.ID, CategoryID: "default-food", Date: march10,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		assertKind(t, f.wallets.Delete(ctx, testUser, w.ID), core.KindConflict)

		if err := f.transactions.Delete(ctx, testUser, tx.ID); err != nil {
			t.Fatalf("delete transaction: %v", err)
		}
		if err := f.wallets.Delete(ctx, testUser, w.ID); err != nil {
			t.Fatalf("delete wallet: %v", err)
		}
		_, err = f.wallets.Get(ctx, testUser, w.ID)
		assertKind(t, err, core.KindNotFound)
	})
}

func TestWalletReconcileRepairsDrift(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		w := f.wallet(t, "W", 3, 2024, 100)
		if _, err := f.transactions.Create(ctx, testUser, TransactionInput{
			Type: core.Income, Amount: 40, FromWalletID: w.ID, CategoryID: "default-salary", Date: march10,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}

		rec, err := f.wallets.Reconcile(ctx, testUser, w.ID)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if rec.Repaired || rec.Drift != 0 || rec.Derived != 140 {
			t.Fatalf("clean wallet reported %+v", rec)
		}

		stored, err := f.repo.GetWallet(ctx, testUser, w.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		corrupt := 999.0
		stored.ClosingBalance = &corrupt
		if err := f.repo.UpdateWallet(ctx, stored); err != nil {
			t.Fatalf("corrupt wallet: %v", err)
		}

		rec, err = f.wallets.Reconcile(ctx, testUser, w.ID)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if !rec.Repaired || rec.Cached != 999 || rec.Derived != 140 || rec.Drift != 859 {
			t.Fatalf("unexpected reconciliation %+v", rec)
		}
		if got := f.balance(t, w.ID); got != 140 {
			t.Fatalf("balance after repair %v, want 140", got)
		}
	})
}
