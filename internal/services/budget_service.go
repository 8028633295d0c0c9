package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type (
	BudgetInput struct {
		CategoryID   string
		MonthlyLimit float64
		Month        int
		Year         int
	}

	BudgetPatch struct {
		CategoryID   *string
		MonthlyLimit *float64
		Month        *int
		Year         *int
	}

	// BudgetView is a budget with its spending figures computed on read.
	BudgetView struct {
		core.Budget
		core.BudgetFigures
		Category *CategoryRef
	}

	BudgetSummary struct {
		Budgets        []BudgetView
		Period         core.Period
		TotalBudget    float64
		TotalSpent     float64
		TotalRemaining float64
	}
)

// BudgetService stores limits only; spent amounts always come from the
// expense transactions of the budget's category and month.
type BudgetService struct {
	repo store.Repository
	now  Clock
}

func NewBudgetService(repo store.Repository) *BudgetService {
	return &BudgetService{repo: repo, now: systemClock}
}

func (s *BudgetService) GetMonthly(ctx context.Context, userID string, p core.Period) (BudgetSummary, error) {
	if err := p.Validate(); err != nil {
		return BudgetSummary{}, err
	}
	budgets, err := s.repo.ListBudgets(ctx, userID, p)
	if err != nil {
		return BudgetSummary{}, fmt.Errorf("list budgets: %w", err)
	}

	ids := make([]string, 0, len(budgets))
	for _, b := range budgets {
		ids = append(ids, b.CategoryID)
	}
	spent, err := s.repo.SumExpensesByCategory(ctx, userID, p, ids)
	if err != nil {
		return BudgetSummary{}, fmt.Errorf("sum expenses: %w", err)
	}

	out := BudgetSummary{Budgets: make([]BudgetView, 0, len(budgets)), Period: p}
	for _, b := range budgets {
		v := s.view(ctx, userID, b, spent[b.CategoryID])
		out.Budgets = append(out.Budgets, v)
		out.TotalBudget += b.MonthlyLimit
		out.TotalSpent += v.Spent
		out.TotalRemaining += v.Remaining
	}
	out.TotalBudget = core.RoundAmount(out.TotalBudget)
	out.TotalSpent = core.RoundAmount(out.TotalSpent)
	out.TotalRemaining = core.RoundAmount(out.TotalRemaining)
	return out, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (BudgetView, error) {
	b, err := s.repo.GetBudget(ctx, userID, id)
	if err != nil {
		return BudgetView{}, lookupErr("budget", err)
	}
	return s.compute(ctx, userID, b)
}

func (s *BudgetService) Create(ctx context.Context, userID string, in BudgetInput) (BudgetView, error) {
	now := s.now()
	b := core.Budget{
		ID:           newID(),
		CategoryID:   strings.TrimSpace(in.CategoryID),
		MonthlyLimit: in.MonthlyLimit,
		Month:        in.Month,
		Year:         in.Year,
		OwnerUserID:  userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := b.Validate(); err != nil {
		return BudgetView{}, err
	}

	err := s.repo.InTx(ctx, func(r store.Repository) error {
		if _, err := r.GetCategory(ctx, userID, b.CategoryID); err != nil {
			return lookupErr("category", err)
		}
		if err := checkBudgetKeyFree(ctx, r, b); err != nil {
			return err
		}
		if err := r.CreateBudget(ctx, b); err != nil {
			return saveErr("budget", err)
		}
		return nil
	})
	if err != nil {
		return BudgetView{}, err
	}

	slog.InfoContext(ctx, "Budget created", "id", b.ID, "category_id", b.CategoryID, "period", b.Period().String())
	return s.compute(ctx, userID, b)
}

// Update re-checks uniqueness against the merged (category, month, year).
func (s *BudgetService) Update(ctx context.Context, userID, id string, p BudgetPatch) (BudgetView, error) {
	var b core.Budget
	err := s.repo.InTx(ctx, func(r store.Repository) error {
		var err error
		b, err = r.GetBudget(ctx, userID, id)
		if err != nil {
			return lookupErr("budget", err)
		}
		if p.CategoryID != nil {
			b.CategoryID = strings.TrimSpace(*p.CategoryID)
		}
		if p.MonthlyLimit != nil {
			b.MonthlyLimit = *p.MonthlyLimit
		}
		if p.Month != nil {
			b.Month = *p.Month
		}
		if p.Year != nil {
			b.Year = *p.Year
		}
		b.UpdatedAt = s.now()

		if err := b.Validate(); err != nil {
			return err
		}
		if p.CategoryID != nil {
			if _, err := r.GetCategory(ctx, userID, b.CategoryID); err != nil {
				return lookupErr("category", err)
			}
		}
		if err := checkBudgetKeyFree(ctx, r, b); err != nil {
			return err
		}
		if err := r.UpdateBudget(ctx, b); err != nil {
			return saveErr("budget", err)
		}
		return nil
	})
	if err != nil {
		return BudgetView{}, err
	}
	return s.compute(ctx, userID, b)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteBudget(ctx, userID, id); err != nil {
		return lookupErr("budget", err)
	}
	slog.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}

// compute sums the budget category's expenses over the budget's own month.
func (s *BudgetService) compute(ctx context.Context, userID string, b core.Budget) (BudgetView, error) {
	spent, err := s.repo.SumExpensesByCategory(ctx, userID, b.Period(), []string{b.CategoryID})
	if err != nil {
		return BudgetView{}, fmt.Errorf("sum expenses: %w", err)
	}
	return s.view(ctx, userID, b, spent[b.CategoryID]), nil
}

func (s *BudgetService) view(ctx context.Context, userID string, b core.Budget, spent float64) BudgetView {
	v := BudgetView{Budget: b, BudgetFigures: core.ComputeBudget(b.MonthlyLimit, core.RoundAmount(spent))}
	if c, err := s.repo.GetCategory(ctx, userID, b.CategoryID); err == nil {
		v.Category = categoryRef(c)
	}
	return v
}

func checkBudgetKeyFree(ctx context.Context, r store.BudgetRepository, b core.Budget) error {
	existing, err := r.FindBudget(ctx, b.OwnerUserID, b.CategoryID, b.Period())
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find budget: %w", err)
	case existing.ID == b.ID:
		return nil
	}
	return core.Conflict(fmt.Sprintf("a budget for this category already exists for %s", b.Period()), core.ErrDuplicate)
}
