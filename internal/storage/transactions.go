package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const transactionColumns = `id, type, amount, from_wallet_id, to_wallet_id, category_id, date, notes, owner_user_id, created_at, updated_at`

func scanTransaction(sc scanner) (core.Transaction, error) {
	var (
		tx                     core.Transaction
		typ                    string
		date, created, updated string
	)
	if err := sc.Scan(&tx.ID, &typ, &tx.Amount, &tx.FromWalletID, &tx.ToWalletID, &tx.CategoryID,
		&date, &tx.Notes, &tx.OwnerUserID, &created, &updated); err != nil {
		return core.Transaction{}, err
	}
	ts, err := parseTimes(date, created, updated)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(typ)
	tx.Date, tx.CreatedAt, tx.UpdatedAt = ts[0], ts[1], ts[2]
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, f store.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_user_id = ?`
	args := []any{userID}
	if f.Period != nil {
		start, end := f.Period.Bounds()
		query += ` AND date >= ? AND date <= ?`
		args = append(args, formatTime(start), formatTime(end))
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(f.Type))
	}
	if f.WalletID != "" {
		query += ` AND (from_wallet_id = ? OR to_wallet_id = ?)`
		args = append(args, f.WalletID, f.WalletID)
	}
	if f.CategoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND owner_user_id = ?`, id, userID)
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, readErr("get transaction "+id, err)
	}
	return tx, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), tx.Amount, tx.FromWalletID, tx.ToWalletID, tx.CategoryID,
		formatTime(tx.Date), tx.Notes, tx.OwnerUserID, formatTime(tx.CreatedAt), formatTime(tx.UpdatedAt))
	if err != nil {
		return writeErr("create transaction", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, amount = ?, from_wallet_id = ?, to_wallet_id = ?, category_id = ?,
		 date = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND owner_user_id = ?`,
		string(tx.Type), tx.Amount, tx.FromWalletID, tx.ToWalletID, tx.CategoryID,
		formatTime(tx.Date), tx.Notes, formatTime(tx.UpdatedAt), tx.ID, tx.OwnerUserID)
	if err != nil {
		return writeErr("update transaction", err)
	}
	return expectOne("update transaction "+tx.ID, res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND owner_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return expectOne("delete transaction "+id, res)
}

func (r *SQLiteRepository) SumExpensesByCategory(ctx context.Context, userID string, p core.Period, categoryIDs []string) (map[string]float64, error) {
	sums := map[string]float64{}
	if len(categoryIDs) == 0 {
		return sums, nil
	}

	start, end := p.Bounds()
	args := []any{userID, string(core.Expense), formatTime(start), formatTime(end)}
	for _, id := range categoryIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, SUM(amount) FROM transactions
		 WHERE owner_user_id = ? AND type = ? AND date >= ? AND date <= ?
		   AND category_id IN (`+placeholders(len(categoryIDs))+`)
		 GROUP BY category_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			sum float64
		)
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums[id] = sum
	}
	return sums, rows.Err()
}
