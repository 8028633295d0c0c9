package http

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// JSON shapes returned by the API. Core types carry no tags, so every
// response is mapped here.

type periodDTO struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Label string `json:"label"`
}

func toPeriod(p core.Period) periodDTO {
	return periodDTO{Month: p.Month, Year: p.Year, Label: p.String()}
}

type categoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCategory(c core.Category) categoryDTO {
	return categoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Icon:      c.Icon,
		Color:     c.Color,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCategories(cs []core.Category) []categoryDTO {
	out := make([]categoryDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategory(c))
	}
	return out
}

type walletDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Icon           string    `json:"icon,omitempty"`
	Color          string    `json:"color,omitempty"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	OpeningBalance float64   `json:"openingBalance"`
	ClosingBalance float64   `json:"closingBalance"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toWallet(w core.Wallet) walletDTO {
	return walletDTO{
		ID:             w.ID,
		Name:           w.Name,
		Type:           string(w.Type),
		Icon:           w.Icon,
		Color:          w.Color,
		Month:          w.Month,
		Year:           w.Year,
		OpeningBalance: w.OpeningBalance,
		ClosingBalance: w.Balance(),
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

type walletListDTO struct {
	Wallets      []walletDTO `json:"wallets"`
	Period       periodDTO   `json:"period"`
	TotalOpening float64     `json:"totalOpening"`
	TotalClosing float64     `json:"totalClosing"`
}

func toWalletList(l services.WalletList) walletListDTO {
	out := walletListDTO{
		Wallets:      make([]walletDTO, 0, len(l.Wallets)),
		Period:       toPeriod(l.Period),
		TotalOpening: l.TotalOpening,
		TotalClosing: l.TotalClosing,
	}
	for _, w := range l.Wallets {
		out.Wallets = append(out.Wallets, toWallet(w))
	}
	return out
}

type reconciliationDTO struct {
	WalletID string  `json:"walletId"`
	Cached   float64 `json:"cachedBalance"`
	Derived  float64 `json:"derivedBalance"`
	Drift    float64 `json:"drift"`
	Repaired bool    `json:"repaired"`
}

func toReconciliation(r services.Reconciliation) reconciliationDTO {
	return reconciliationDTO{WalletID: r.WalletID, Cached: r.Cached, Derived: r.Derived, Drift: r.Drift, Repaired: r.Repaired}
}

type refDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

func walletRefDTO(r *services.WalletRef) *refDTO {
	if r == nil {
		return nil
	}
	return &refDTO{ID: r.ID, Name: r.Name, Type: string(r.Type), Icon: r.Icon, Color: r.Color}
}

func categoryRefDTO(r *services.CategoryRef) *refDTO {
	if r == nil {
		return nil
	}
	return &refDTO{ID: r.ID, Name: r.Name, Type: string(r.Type), Icon: r.Icon, Color: r.Color}
}

type transactionDTO struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	FromWalletID string    `json:"fromWalletId"`
	ToWalletID   string    `json:"toWalletId,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
	Date         time.Time `json:"date"`
	Notes        string    `json:"notes,omitempty"`
	FromWallet   *refDTO   `json:"fromWallet,omitempty"`
	ToWallet     *refDTO   `json:"toWallet,omitempty"`
	Category     *refDTO   `json:"category,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toTransaction(v services.TransactionView) transactionDTO {
	return transactionDTO{
		ID:           v.ID,
		Type:         string(v.Type),
		Amount:       v.Amount,
		FromWalletID: v.FromWalletID,
		ToWalletID:   v.ToWalletID,
		CategoryID:   v.CategoryID,
		Date:         v.Date,
		Notes:        v.Notes,
		FromWallet:   walletRefDTO(v.FromWallet),
		ToWallet:     walletRefDTO(v.ToWallet),
		Category:     categoryRefDTO(v.Category),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toTransactions(vs []services.TransactionView) []transactionDTO {
	out := make([]transactionDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toTransaction(v))
	}
	return out
}

type totalsDTO struct {
	Income     float64 `json:"totalIncome"`
	Expense    float64 `json:"totalExpense"`
	Transfer   float64 `json:"totalTransfer"`
	NetBalance float64 `json:"netBalance"`
	Count      int     `json:"transactionCount"`
}

func toTotals(t core.MonthlyTotals) totalsDTO {
	return totalsDTO{Income: t.Income, Expense: t.Expense, Transfer: t.Transfer, NetBalance: t.NetBalance, Count: t.Count}
}

type monthlyTransactionsDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Totals       totalsDTO        `json:"totals"`
	Period       periodDTO        `json:"period"`
}

func toMonthlyTransactions(m services.MonthlyTransactions) monthlyTransactionsDTO {
	return monthlyTransactionsDTO{
		Transactions: toTransactions(m.Transactions),
		Totals:       toTotals(m.Totals),
		Period:       toPeriod(m.Period),
	}
}

type budgetDTO struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"categoryId"`
	Category     *refDTO   `json:"category,omitempty"`
	MonthlyLimit float64   `json:"monthlyLimit"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	Spent        float64   `json:"spent"`
	Remaining    float64   `json:"remaining"`
	Percentage   float64   `json:"percentage"`
	IsOverBudget bool      `json:"isOverBudget"`
	OverBy       float64   `json:"overBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toBudget(v services.BudgetView) budgetDTO {
	return budgetDTO{
		ID:           v.ID,
		CategoryID:   v.CategoryID,
		Category:     categoryRefDTO(v.Category),
		MonthlyLimit: v.MonthlyLimit,
		Month:        v.Month,
		Year:         v.Year,
		Spent:        v.Spent,
		Remaining:    v.Remaining,
		Percentage:   v.Percentage,
		IsOverBudget: v.IsOverBudget,
		OverBy:       v.OverBy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

type budgetSummaryDTO struct {
	Budgets        []budgetDTO `json:"budgets"`
	Period         periodDTO   `json:"period"`
	TotalBudget    float64     `json:"totalBudget"`
	TotalSpent     float64     `json:"totalSpent"`
	TotalRemaining float64     `json:"totalRemaining"`
}

func toBudgetSummary(s services.BudgetSummary) budgetSummaryDTO {
	out := budgetSummaryDTO{
		Budgets:        make([]budgetDTO, 0, len(s.Budgets)),
		Period:         toPeriod(s.Period),
		TotalBudget:    s.TotalBudget,
		TotalSpent:     s.TotalSpent,
		TotalRemaining: s.TotalRemaining,
	}
	for _, b := range s.Budgets {
		out.Budgets = append(out.Budgets, toBudget(b))
	}
	return out
}

type savingsTransactionDTO struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
}

type savingsDTO struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	TargetAmount       float64                 `json:"targetAmount"`
	MonthlyTarget      *float64                `json:"monthlyTarget,omitempty"`
	Description        string                  `json:"description,omitempty"`
	Icon               string                  `json:"icon,omitempty"`
	Color              string                  `json:"color,omitempty"`
	Status             string                  `json:"status"`
	Transactions       []savingsTransactionDTO `json:"transactions"`
	CurrentBalance     float64                 `json:"currentBalance"`
	ProgressPercentage float64                 `json:"progressPercentage"`
	RemainingAmount    float64                 `json:"remainingAmount"`
	IsCompleted        bool                    `json:"isCompleted"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

func toSavings(v services.SavingsView) savingsDTO {
	out := savingsDTO{
		ID:                 v.ID,
		Name:               v.Name,
		TargetAmount:       v.TargetAmount,
		MonthlyTarget:      v.MonthlyTarget,
		Description:        v.Description,
		Icon:               v.Icon,
		Color:              v.Color,
		Status:             string(v.Status),
		Transactions:       make([]savingsTransactionDTO, 0, len(v.Transactions)),
		CurrentBalance:     v.Summary.CurrentBalance,
		ProgressPercentage: v.Summary.ProgressPercentage,
		RemainingAmount:    v.Summary.RemainingAmount,
		IsCompleted:        v.Summary.IsCompleted,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	for _, tx := range v.Transactions {
		out.Transactions = append(out.Transactions, savingsTransactionDTO{
			ID: tx.ID, Type: string(tx.Type), Amount: tx.Amount, Date: tx.Date, Notes: tx.Notes,
		})
	}
	return out
}

type savingsListDTO struct {
	Goals        []savingsDTO `json:"goals"`
	TotalBalance float64      `json:"totalBalance"`
	TotalTarget  float64      `json:"totalTarget"`
	ActiveGoals  int          `json:"activeGoals"`
}

func toSavingsList(l services.SavingsList) savingsListDTO {
	out := savingsListDTO{
		Goals:        make([]savingsDTO, 0, len(l.Goals)),
		TotalBalance: l.TotalBalance,
		TotalTarget:  l.TotalTarget,
		ActiveGoals:  l.ActiveGoals,
	}
	for _, g := range l.Goals {
		out.Goals = append(out.Goals, toSavings(g))
	}
	return out
}

type dueTransactionDTO struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	IsInitial   bool      `json:"isInitial"`
}

type dueDTO struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Amount          float64             `json:"amount"`
	Date            time.Time           `json:"date"`
	Description     string              `json:"description,omitempty"`
	Status          string              `json:"status"`
	Transactions    []dueTransactionDTO `json:"transactions"`
	CurrentAmount   float64             `json:"currentAmount"`
	RemainingAmount float64             `json:"remainingAmount"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

func toDue(v services.DueView) dueDTO {
	out := dueDTO{
		ID:              v.ID,
		Name:            v.Name,
		Amount:          v.Amount,
		Date:            v.Date,
		Description:     v.Description,
		Status:          string(v.DerivedStatus()),
		Transactions:    make([]dueTransactionDTO, 0, len(v.Transactions)),
		CurrentAmount:   v.CurrentAmount,
		RemainingAmount: v.RemainingAmount,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	for _, tx := range v.Transactions {
		out.Transactions = append(out.Transactions, dueTransactionDTO{
			ID: tx.ID, Type: string(tx.Type), Amount: tx.Amount, Date: tx.Date, Description: tx.Description, IsInitial: tx.IsInitial,
		})
	}
	return out
}

type dueListDTO struct {
	Items              []dueDTO `json:"dues"`
	TotalAmount        float64  `json:"totalAmount"`
	TotalRemaining     float64  `json:"totalRemaining"`
	DueCount           int      `json:"dueCount"`
	PartiallyPaidCount int      `json:"partiallyPaidCount"`
	ReceivedCount      int      `json:"receivedCount"`
}

func toDueList(l services.DueList) dueListDTO {
	out := dueListDTO{
		Items:              make([]dueDTO, 0, len(l.Items)),
		TotalAmount:        l.TotalAmount,
		TotalRemaining:     l.TotalRemaining,
		DueCount:           l.DueCount,
		PartiallyPaidCount: l.PartiallyPaidCount,
		ReceivedCount:      l.ReceivedCount,
	}
	for _, d := range l.Items {
		out.Items = append(out.Items, toDue(d))
	}
	return out
}

type overviewDTO struct {
	Period  periodDTO        `json:"period"`
	Wallets walletListDTO    `json:"wallets"`
	Totals  totalsDTO        `json:"totals"`
	Budgets budgetSummaryDTO `json:"budgets"`
	Savings savingsListDTO   `json:"savings"`
	Dues    dueListDTO       `json:"dues"`
}

func toOverview(o services.Overview) overviewDTO {
	return overviewDTO{
		Period:  toPeriod(o.Period),
		Wallets: toWalletList(o.Wallets),
		Totals:  toTotals(o.Totals),
		Budgets: toBudgetSummary(o.Budgets),
		Savings: toSavingsList(o.Savings),
		Dues:    toDueList(o.Dues),
	}
}
