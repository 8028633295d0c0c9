package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// Overview is everything the monthly dashboard shows.
type Overview struct {
	Period  core.Period
	Wallets WalletList
	Totals  core.MonthlyTotals
	Budgets BudgetSummary
	Savings SavingsList
	Dues    DueList
}

type DashboardService struct {
	wallets      *WalletService
	transactions *TransactionService
	budgets      *BudgetService
	savings      *SavingsService
	dues         *DueService
}

func NewDashboardService(w *WalletService, t *TransactionService, b *BudgetService, s *SavingsService, d *DueService) *DashboardService {
	return &DashboardService{wallets: w, transactions: t, budgets: b, savings: s, dues: d}
}

// MonthlyOverview loads the period's sections concurrently; the first failure
// cancels the rest.
func (s *DashboardService) MonthlyOverview(ctx context.Context, userID string, p core.Period) (Overview, error) {
	if err := p.Validate(); err != nil {
		return Overview{}, err
	}

	out := Overview{Period: p}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.Wallets, err = s.wallets.ListMonthly(ctx, userID, p)
		return err
	})
	g.Go(func() error {
		monthly, err := s.transactions.ListMonthly(ctx, userID, p, "", "")
		if err != nil {
			return err
		}
		out.Totals = monthly.Totals
		return nil
	})
	g.Go(func() error {
		var err error
		out.Budgets, err = s.budgets.GetMonthly(ctx, userID, p)
		return err
	})
	g.Go(func() error {
		var err error
		out.Savings, err = s.savings.List(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Dues, err = s.dues.List(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return out, nil
}
