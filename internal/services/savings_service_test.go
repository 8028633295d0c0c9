package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestSavingsDepositsAndWithdrawals(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		goal, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "Bike", TargetAmount: 1000})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if goal.Status != core.SavingsActive {
			t.Fatalf("status %q, want active", goal.Status)
		}

		steps := []struct {
			typ  core.SavingsTransactionType
			amt  float64
			want float64
		}{
			{core.Deposit, 300, 300},
			{core.Deposit, 200, 500},
			{core.Withdrawal, 100, 400},
		}
		for _, s := range steps {
			goal, err = f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: s.typ, Amount: s.amt})
			if err != nil {
				t.Fatalf("%s %v: %v", s.typ, s.amt, err)
			}
			if goal.Summary.CurrentBalance != s.want {
				t.Fatalf("after %s %v: balance %v, want %v", s.typ, s.amt, goal.Summary.CurrentBalance, s.want)
			}
		}

		if goal.Summary.ProgressPercentage != 40 || goal.Summary.RemainingAmount != 600 || goal.Summary.IsCompleted {
			t.Fatalf("summary %+v", goal.Summary)
		}
		if len(goal.Transactions) != 3 || !goal.Transactions[0].Date.Equal(fixedNow) {
			t.Fatalf("transactions %+v", goal.Transactions)
		}
	})
}

func TestSavingsWithdrawalGuard(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		goal, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "Trip", TargetAmount: 500})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: core.Deposit, Amount: 100}); err != nil {
			t.Fatalf("deposit: %v", err)
		}

		_, err = f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: core.Withdrawal, Amount: 150})
		assertKind(t, err, core.KindConflict)
		if !errors.Is(err, core.ErrInsufficientFunds) || !strings.Contains(err.Error(), "100.00") {
			t.Fatalf("unexpected error %v", err)
		}

		got, err := f.savings.Get(ctx, testUser, goal.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Summary.CurrentBalance != 100 || len(got.Transactions) != 1 {
			t.Fatalf("rejected withdrawal changed the goal: %+v", got)
		}

		// Withdrawing exactly the balance is allowed.
		if _, err := f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: core.Withdrawal, Amount: 100}); err != nil {
			t.Fatalf("withdraw all: %v", err)
		}
	})
}

func TestSavingsAutoCompletes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		active, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "Phone", TargetAmount: 300})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := f.savings.AddTransaction(ctx, testUser, active.ID, SavingsTransactionInput{Type: core.Deposit, Amount: 350})
		if err != nil {
			t.Fatalf("deposit: %v", err)
		}
		if got.Status != core.SavingsCompleted || !got.Summary.IsCompleted || got.Summary.ProgressPercentage != 100 {
			t.Fatalf("goal should be completed: %+v", got)
		}

		archived, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "Old", TargetAmount: 10, Status: core.SavingsArchived})
		if err != nil {
			t.Fatalf("create archived: %v", err)
		}
		got, err = f.savings.AddTransaction(ctx, testUser, archived.ID, SavingsTransactionInput{Type: core.Deposit, Amount: 10})
		if err != nil {
			t.Fatalf("deposit archived: %v", err)
		}
		if got.Status != core.SavingsArchived {
			t.Fatalf("archived goal status changed to %q", got.Status)
		}
	})
}

func TestSavingsValidationAndList(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()

		_, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "Zero", TargetAmount: 0})
		assertKind(t, err, core.KindValidation)
		_, err = f.savings.Create(ctx, testUser, SavingsInput{Name: "Bad", TargetAmount: 1, Status: "paused"})
		assertKind(t, err, core.KindValidation)

		goal, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "A", TargetAmount: 100})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err = f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: "bonus", Amount: 5})
		assertKind(t, err, core.KindValidation)
		_, err = f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: core.Deposit, Amount: 0})
		assertKind(t, err, core.KindValidation)
		_, err = f.savings.AddTransaction(ctx, "intruder", goal.ID, SavingsTransactionInput{Type: core.Deposit, Amount: 5})
		assertKind(t, err, core.KindNotFound)

		if _, err := f.savings.AddTransaction(ctx, testUser, goal.ID, SavingsTransactionInput{Type: core.Deposit, Amount: 25}); err != nil {
			t.Fatalf("deposit: %v", err)
		}
		if _, err := f.savings.Create(ctx, testUser, SavingsInput{Name: "B", TargetAmount: 50, Status: core.SavingsArchived}); err != nil {
			t.Fatalf("create: %v", err)
		}

		list, err := f.savings.List(ctx, testUser)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list.Goals) != 2 || list.TotalBalance != 25 || list.TotalTarget != 150 || list.ActiveGoals != 1 {
			t.Fatalf("list %+v", list)
		}

		if _, err := f.savings.Update(ctx, testUser, goal.ID, SavingsPatch{Name: ptr("Renamed")}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if err := f.savings.Delete(ctx, testUser, goal.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		_, err = f.savings.Get(ctx, testUser, goal.ID)
		assertKind(t, err, core.KindNotFound)
	})
}
