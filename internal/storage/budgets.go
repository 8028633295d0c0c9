package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

const budgetColumns = `id, category_id, monthly_limit, month, year, owner_user_id, created_at, updated_at`

func scanBudget(sc scanner) (core.Budget, error) {
	var (
		b                core.Budget
		created, updated string
	)
	if err := sc.Scan(&b.ID, &b.CategoryID, &b.MonthlyLimit, &b.Month, &b.Year, &b.OwnerUserID, &created, &updated); err != nil {
		return core.Budget{}, err
	}
	ts, err := parseTimes(created, updated)
	if err != nil {
		return core.Budget{}, err
	}
	b.CreatedAt, b.UpdatedAt = ts[0], ts[1]
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string, p core.Period) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE owner_user_id = ? AND month = ? AND year = ? ORDER BY created_at`,
		userID, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND owner_user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, readErr("get budget "+id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) FindBudget(ctx context.Context, userID, categoryID string, p core.Period) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE owner_user_id = ? AND category_id = ? AND month = ? AND year = ?`,
		userID, categoryID, p.Month, p.Year)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, readErr(fmt.Sprintf("find budget %s %s", categoryID, p), err)
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CategoryID, b.MonthlyLimit, b.Month, b.Year, b.OwnerUserID,
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return writeErr("create budget", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, monthly_limit = ?, month = ?, year = ?, updated_at = ?
		 WHERE id = ? AND owner_user_id = ?`,
		b.CategoryID, b.MonthlyLimit, b.Month, b.Year, formatTime(b.UpdatedAt), b.ID, b.OwnerUserID)
	if err != nil {
		return writeErr("update budget", err)
	}
	return expectOne("update budget "+b.ID, res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND owner_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return expectOne("delete budget "+id, res)
}
