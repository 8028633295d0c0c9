package core

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestPeriodValidateAndBounds(t *testing.T) {
	cases := []struct {
		p  Period
		ok bool
	}{
		{Period{Month: 1, Year: 2025}, true},
		{Period{Month: 12, Year: 2025}, true},
		{Period{Month: 0, Year: 2025}, false},
		{Period{Month: 13, Year: 2025}, false},
		{Period{Month: 5, Year: 0}, false},
	}
	for i, tc := range cases {
		err := tc.p.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	start, end := Period{Month: 2, Year: 2024}.Bounds()
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
	if !(Period{Month: 2, Year: 2024}).Contains(end) {
		t.Fatalf("period should contain its end bound")
	}
	if (Period{Month: 2, Year: 2024}).Contains(end.Add(time.Millisecond)) {
		t.Fatalf("period should not contain the next month")
	}
}

func TestWalletValidate(t *testing.T) {
	good := Wallet{Name: "Cash", Type: WalletCash, Month: 3, Year: 2024}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Wallet{
		{Name: "", Type: WalletCash, Month: 3, Year: 2024},
		{Name: "Cash", Type: "piggy", Month: 3, Year: 2024},
		{Name: "Cash", Type: WalletBank, Month: 13, Year: 2024},
	}
	for i, w := range bads {
		if err := w.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestWalletBalanceFallsBackToOpening(t *testing.T) {
	w := Wallet{OpeningBalance: 250}
	if w.Balance() != 250 {
		t.Fatalf("expected opening balance, got %v", w.Balance())
	}
	closing := 75.0
	w.ClosingBalance = &closing
	if w.Balance() != 75 {
		t.Fatalf("expected closing balance, got %v", w.Balance())
	}
}

func TestTransactionValidate(t *testing.T) {
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	good := []Transaction{
		{Type: Income, Amount: 10, FromWalletID: "w1", CategoryID: "c1", Date: date},
		{Type: Expense, Amount: 10, FromWalletID: "w1", CategoryID: "c1", Date: date},
		{Type: Transfer, Amount: 10, FromWalletID: "w1", ToWalletID: "w2", Date: date},
	}
	for i, tx := range good {
		if err := tx.Validate(); err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
	}

	bads := []Transaction{
		{Type: "refund", Amount: 10, FromWalletID: "w1", CategoryID: "c1", Date: date},
		{Type: Expense, Amount: 0, FromWalletID: "w1", CategoryID: "c1", Date: date},
		{Type: Expense, Amount: 10, CategoryID: "c1", Date: date},
		{Type: Expense, Amount: 10, FromWalletID: "w1", Date: date},
		{Type: Transfer, Amount: 10, FromWalletID: "w1", Date: date},
		{Type: Transfer, Amount: 10, FromWalletID: "w1", ToWalletID: "w1", Date: date},
		{Type: Income, Amount: 10, FromWalletID: "w1", CategoryID: "c1"},
	}
	for i, tx := range bads {
		err := tx.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if KindOf(err) != KindValidation {
			t.Fatalf("case %d expected validation kind, got %v", i, KindOf(err))
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"validation", Validation("amount", "bad"), KindValidation},
		{"not found", NotFound("wallet"), KindNotFound},
		{"wrapped not found sentinel", fmt.Errorf("get wallet: %w", ErrNotFound), KindNotFound},
		{"wrapped duplicate sentinel", fmt.Errorf("insert budget: %w", ErrDuplicate), KindConflict},
		{"insufficient funds", Conflict("not enough", ErrInsufficientFunds), KindConflict},
		{"other", errors.New("disk on fire"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}

	if MessageOf(errors.New("secret driver detail")) != "unexpected error" {
		t.Errorf("unexpected errors must not leak their detail")
	}
}
