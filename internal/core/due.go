package core

import (
	"math"
	"strings"
	"time"
)

const (
	DueEntry DueTransactionType = "due"
	Payment  DueTransactionType = "payment"
)

const (
	StatusDue           DueStatus = "Due"
	StatusReceived      DueStatus = "Received"
	StatusPartiallyPaid DueStatus = "PartiallyPaid"
)

// InitialDueDescription labels the seed transaction of a due item.
const InitialDueDescription = "Initial due amount"

type (
	DueTransactionType string
	DueStatus          string

	DueTransaction struct {
		ID          string
		Type        DueTransactionType
		Amount      float64
		Date        time.Time
		Description string
		IsInitial   bool
	}

	// DueReceivable tracks money owed; its status is always derived from Transactions.
	DueReceivable struct {
		ID           string
		Name         string
		Amount       float64
		Date         time.Time
		Description  string
		Status       DueStatus // stored for reference only, see DerivedStatus
		Transactions []DueTransaction
		OwnerUserID  string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

func (t DueTransactionType) Valid() bool {
	return t == DueEntry || t == Payment
}

func (s DueStatus) Valid() bool {
	switch s {
	case StatusDue, StatusReceived, StatusPartiallyPaid:
		return true
	}
	return false
}

// CurrentAmount is Σdue − Σpayment.
func (d DueReceivable) CurrentAmount() float64 {
	var current float64
	for _, tx := range d.Transactions {
		switch tx.Type {
		case DueEntry:
			current += tx.Amount
		case Payment:
			current -= tx.Amount
		}
	}
	return current
}

func (d DueReceivable) RemainingAmount() float64 {
	return math.Max(0, d.CurrentAmount())
}

func (d DueReceivable) DerivedStatus() DueStatus {
	current := d.CurrentAmount()
	switch {
	case current <= 0:
		return StatusReceived
	case current < d.Amount:
		return StatusPartiallyPaid
	default:
		return StatusDue
	}
}

// InitialIndex returns the position of the seed due transaction, or -1.
func (d DueReceivable) InitialIndex() int {
	for i, tx := range d.Transactions {
		if tx.IsInitial && tx.Type == DueEntry {
			return i
		}
	}
	return -1
}

func (d DueReceivable) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return Validation("name", "name is required")
	}
	if len(d.Name) > 100 {
		return Validation("name", "name too long (max 100 characters)")
	}
	if d.Amount <= 0 {
		return Validation("amount", "amount must be greater than 0")
	}
	if d.Date.IsZero() {
		return Validation("date", "date is required")
	}
	return nil
}
