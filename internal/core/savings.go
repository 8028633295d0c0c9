package core

import (
	"math"
	"strings"
	"time"
)

const (
	Deposit    SavingsTransactionType = "deposit"
	Withdrawal SavingsTransactionType = "withdrawal"
)

const (
	SavingsActive    SavingsStatus = "active"
	SavingsCompleted SavingsStatus = "completed"
	SavingsArchived  SavingsStatus = "archived"
)

type (
	SavingsTransactionType string
	SavingsStatus          string

	SavingsTransaction struct {
		ID     string
		Type   SavingsTransactionType
		Amount float64
		Date   time.Time
		Notes  string
	}

	// Savings is a goal whose balance lives only in its embedded transaction list.
	Savings struct {
		ID            string
		Name          string
		TargetAmount  float64
		MonthlyTarget *float64
		Description   string
		Icon          string
		Color         string
		Status        SavingsStatus
		Transactions  []SavingsTransaction
		OwnerUserID   string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	SavingsSummary struct {
		CurrentBalance     float64
		ProgressPercentage float64
		RemainingAmount    float64
		IsCompleted        bool
	}
)

func (t SavingsTransactionType) Valid() bool {
	return t == Deposit || t == Withdrawal
}

func (s SavingsStatus) Valid() bool {
	switch s {
	case SavingsActive, SavingsCompleted, SavingsArchived:
		return true
	}
	return false
}

// CurrentBalance is Σdeposit − Σwithdrawal over the embedded list.
func (s Savings) CurrentBalance() float64 {
	var balance float64
	for _, tx := range s.Transactions {
		switch tx.Type {
		case Deposit:
			balance += tx.Amount
		case Withdrawal:
			balance -= tx.Amount
		}
	}
	return balance
}

func (s Savings) Summary() SavingsSummary {
	balance := s.CurrentBalance()
	sum := SavingsSummary{
		CurrentBalance:  balance,
		RemainingAmount: math.Max(0, s.TargetAmount-balance),
		IsCompleted:     balance >= s.TargetAmount,
	}
	if s.TargetAmount > 0 {
		sum.ProgressPercentage = math.Min(100, balance/s.TargetAmount*100)
	}
	return sum
}

func (s Savings) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return Validation("name", "savings goal name is required")
	}
	if len(s.Name) > 100 {
		return Validation("name", "savings goal name too long (max 100 characters)")
	}
	if s.TargetAmount <= 0 {
		return Validation("targetAmount", "target amount must be greater than 0")
	}
	if s.MonthlyTarget != nil && *s.MonthlyTarget < 0 {
		return Validation("monthlyTarget", "monthly target must be zero or greater")
	}
	if !s.Status.Valid() {
		return Validationf("status", "invalid status %q", s.Status)
	}
	return nil
}
