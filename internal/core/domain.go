package core

import (
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

const (
	WalletCash       WalletType = "cash"
	WalletBank       WalletType = "bank"
	WalletBkash      WalletType = "bkash"
	WalletNagad      WalletType = "nagad"
	WalletRocket     WalletType = "rocket"
	WalletCreditCard WalletType = "credit_card"
	WalletOther      WalletType = "other"
)

type (
	TransactionType string
	CategoryType    string
	WalletType      string

	Category struct {
		ID          string
		Name        string
		Type        CategoryType
		Icon        string
		Color       string
		IsDefault   bool
		OwnerUserID string // empty for shared defaults
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	Wallet struct {
		ID             string
		Name           string
		Type           WalletType
		Icon           string
		Color          string
		Month          int
		Year           int
		OwnerUserID    string
		OpeningBalance float64
		ClosingBalance *float64 // cached running total, nil until first write
		CreatedAt      time.Time
		UpdatedAt      time.Time
	}

	Transaction struct {
		ID           string
		Type         TransactionType
		Amount       float64
		FromWalletID string
		ToWalletID   string
		CategoryID   string
		Date         time.Time
		Notes        string
		OwnerUserID  string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	Budget struct {
		ID           string
		CategoryID   string
		MonthlyLimit float64
		Month        int
		Year         int
		OwnerUserID  string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

func (t WalletType) Valid() bool {
	switch t {
	case WalletCash, WalletBank, WalletBkash, WalletNagad, WalletRocket, WalletCreditCard, WalletOther:
		return true
	}
	return false
}

// Period returns the wallet's (month, year) scope.
func (w Wallet) Period() Period {
	return Period{Month: w.Month, Year: w.Year}
}

// Balance reads the cached closing balance, falling back to the opening balance.
func (w Wallet) Balance() float64 {
	if w.ClosingBalance != nil {
		return *w.ClosingBalance
	}
	return w.OpeningBalance
}

// IsShared reports whether the category is a default visible to every user.
func (c Category) IsShared() bool {
	return c.OwnerUserID == ""
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Validation("name", "category name is required")
	}
	if len(name) > 50 {
		return Validation("name", "category name too long (max 50 characters)")
	}
	if !c.Type.Valid() {
		return Validationf("type", "invalid category type %q: must be income or expense", c.Type)
	}
	return nil
}

func (w Wallet) Validate() error {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		return Validation("name", "wallet name is required")
	}
	if len(name) > 50 {
		return Validation("name", "wallet name too long (max 50 characters)")
	}
	if !w.Type.Valid() {
		return Validationf("type", "invalid wallet type %q", w.Type)
	}
	return w.Period().Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return Validation("categoryId", "category is required")
	}
	if b.MonthlyLimit < 0 {
		return Validation("monthlyLimit", "monthly limit must be zero or greater")
	}
	return Period{Month: b.Month, Year: b.Year}.Validate()
}

// Period returns the budget's (month, year) window.
func (b Budget) Period() Period {
	return Period{Month: b.Month, Year: b.Year}
}

// DefaultCategories returns the shared categories seeded for every installation.
func DefaultCategories() []Category {
	return []Category{
		{ID: "default-salary", Name: "Salary", Type: CategoryIncome, Icon: "💼", Color: "#10B981", IsDefault: true},
		{ID: "default-business", Name: "Business", Type: CategoryIncome, Icon: "🏢", Color: "#3B82F6", IsDefault: true},
		{ID: "default-gifts", Name: "Gifts", Type: CategoryIncome, Icon: "🎁", Color: "#8B5CF6", IsDefault: true},
		{ID: "default-food", Name: "Food & Dining", Type: CategoryExpense, Icon: "🍔", Color: "#F59E0B", IsDefault: true},
		{ID: "default-transport", Name: "Transport", Type: CategoryExpense, Icon: "🚌", Color: "#6366F1", IsDefault: true},
		{ID: "default-shopping", Name: "Shopping", Type: CategoryExpense, Icon: "🛍️", Color: "#EC4899", IsDefault: true},
		{ID: "default-bills", Name: "Bills & Utilities", Type: CategoryExpense, Icon: "💡", Color: "#EF4444", IsDefault: true},
		{ID: "default-health", Name: "Health", Type: CategoryExpense, Icon: "🏥", Color: "#14B8A6", IsDefault: true},
		{ID: "default-education", Name: "Education", Type: CategoryExpense, Icon: "📚", Color: "#0EA5E9", IsDefault: true},
		{ID: "default-other", Name: "Other", Type: CategoryExpense, Icon: "📦", Color: "#6B7280", IsDefault: true},
	}
}
