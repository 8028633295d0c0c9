package core

import "strings"

// Leg is the signed delta a transaction applies to one wallet.
type Leg struct {
	WalletID string
	Delta    float64
}

// Legs returns the wallet deltas of a transaction. Income credits its sole
// wallet, expense debits the source, transfer moves the amount from source to
// destination.
func Legs(t TransactionType, amount float64, fromID, toID string) []Leg {
	switch t {
	case Income:
		return []Leg{{WalletID: fromID, Delta: amount}}
	case Expense:
		return []Leg{{WalletID: fromID, Delta: -amount}}
	case Transfer:
		return []Leg{{WalletID: fromID, Delta: -amount}, {WalletID: toID, Delta: amount}}
	}
	return nil
}

// Legs returns the deltas of a stored transaction.
func (tx Transaction) Legs() []Leg {
	return Legs(tx.Type, tx.Amount, tx.FromWalletID, tx.ToWalletID)
}

// ApplyEffect adds delta to the wallet's running balance.
func ApplyEffect(w *Wallet, delta float64) {
	next := w.Balance() + delta
	w.ClosingBalance = &next
}

// ReverseEffect undoes ApplyEffect for the same delta.
func ReverseEffect(w *Wallet, delta float64) {
	ApplyEffect(w, -delta)
}

// DerivedBalance recomputes a wallet's balance from its opening value and every
// transaction touching it.
func DerivedBalance(w Wallet, txs []Transaction) float64 {
	balance := w.OpeningBalance
	for _, tx := range txs {
		for _, leg := range tx.Legs() {
			if leg.WalletID == w.ID {
				balance += leg.Delta
			}
		}
	}
	return balance
}

// Validate checks the transaction fields that do not need wallet lookups.
func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return Validationf("type", "invalid transaction type %q: must be income, expense or transfer", tx.Type)
	}
	if tx.Amount <= 0 {
		return Validation("amount", "amount must be greater than 0")
	}
	if strings.TrimSpace(tx.FromWalletID) == "" {
		return Validation("fromWalletId", "wallet is required")
	}
	if tx.Date.IsZero() {
		return Validation("date", "date is required")
	}
	switch tx.Type {
	case Transfer:
		if strings.TrimSpace(tx.ToWalletID) == "" {
			return Validation("toWalletId", "destination wallet is required for transfers")
		}
		if tx.ToWalletID == tx.FromWalletID {
			return Validation("toWalletId", "source and destination wallets must be different")
		}
	default:
		if strings.TrimSpace(tx.CategoryID) == "" {
			return Validation("categoryId", "category is required")
		}
	}
	if len(tx.Notes) > 500 {
		return Validation("notes", "notes too long (max 500 characters)")
	}
	return nil
}

// MonthlyTotals aggregates a list of transactions.
type MonthlyTotals struct {
	Income     float64
	Expense    float64
	Transfer   float64
	NetBalance float64
	Count      int
}

func Totals(txs []Transaction) MonthlyTotals {
	var t MonthlyTotals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income += tx.Amount
		case Expense:
			t.Expense += tx.Amount
		case Transfer:
			t.Transfer += tx.Amount
		}
	}
	t.Count = len(txs)
	t.NetBalance = t.Income - t.Expense
	return t
}
