package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// JSON shapes of the embedded ledgers stored in the transactions column.
type (
	savingsEntry struct {
		ID     string    `json:"id"`
		Type   string    `json:"type"`
		Amount float64   `json:"amount"`
		Date   time.Time `json:"date"`
		Notes  string    `json:"notes,omitempty"`
	}

	dueEntry struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		Amount      float64   `json:"amount"`
		Date        time.Time `json:"date"`
		Description string    `json:"description,omitempty"`
		IsInitial   bool      `json:"isInitial,omitempty"`
	}
)

func encodeSavingsEntries(txs []core.SavingsTransaction) (string, error) {
	entries := make([]savingsEntry, len(txs))
	for i, tx := range txs {
		entries[i] = savingsEntry{ID: tx.ID, Type: string(tx.Type), Amount: tx.Amount, Date: tx.Date.UTC(), Notes: tx.Notes}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode savings transactions: %w", err)
	}
	return string(b), nil
}

func decodeSavingsEntries(raw string) ([]core.SavingsTransaction, error) {
	var entries []savingsEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode savings transactions: %w", err)
	}
	out := make([]core.SavingsTransaction, len(entries))
	for i, e := range entries {
		out[i] = core.SavingsTransaction{ID: e.ID, Type: core.SavingsTransactionType(e.Type), Amount: e.Amount, Date: e.Date, Notes: e.Notes}
	}
	return out, nil
}

func encodeDueEntries(txs []core.DueTransaction) (string, error) {
	entries := make([]dueEntry, len(txs))
	for i, tx := range txs {
		entries[i] = dueEntry{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Amount:      tx.Amount,
			Date:        tx.Date.UTC(),
			Description: tx.Description,
			IsInitial:   tx.IsInitial,
		}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode due transactions: %w", err)
	}
	return string(b), nil
}

func decodeDueEntries(raw string) ([]core.DueTransaction, error) {
	var entries []dueEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode due transactions: %w", err)
	}
	out := make([]core.DueTransaction, len(entries))
	for i, e := range entries {
		out[i] = core.DueTransaction{
			ID:          e.ID,
			Type:        core.DueTransactionType(e.Type),
			Amount:      e.Amount,
			Date:        e.Date,
			Description: e.Description,
			IsInitial:   e.IsInitial,
		}
	}
	return out, nil
}

// Savings

const savingsColumns = `id, name, target_amount, monthly_target, description, icon, color, status, transactions, owner_user_id, created_at, updated_at`

func scanSavings(sc scanner) (core.Savings, error) {
	var (
		s                core.Savings
		monthly          sql.NullFloat64
		status, entries  string
		created, updated string
	)
	if err := sc.Scan(&s.ID, &s.Name, &s.TargetAmount, &monthly, &s.Description, &s.Icon, &s.Color,
		&status, &entries, &s.OwnerUserID, &created, &updated); err != nil {
		return core.Savings{}, err
	}
	ts, err := parseTimes(created, updated)
	if err != nil {
		return core.Savings{}, err
	}
	txs, err := decodeSavingsEntries(entries)
	if err != nil {
		return core.Savings{}, err
	}
	if monthly.Valid {
		v := monthly.Float64
		s.MonthlyTarget = &v
	}
	s.Status = core.SavingsStatus(status)
	s.Transactions = txs
	s.CreatedAt, s.UpdatedAt = ts[0], ts[1]
	return s, nil
}

func (r *SQLiteRepository) ListSavings(ctx context.Context, userID string) ([]core.Savings, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+savingsColumns+` FROM savings WHERE owner_user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	var out []core.Savings
	for rows.Next() {
		s, err := scanSavings(rows)
		if err != nil {
			return nil, fmt.Errorf("scan savings: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSavings(ctx context.Context, userID, id string) (core.Savings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+savingsColumns+` FROM savings WHERE id = ? AND owner_user_id = ?`, id, userID)
	s, err := scanSavings(row)
	if err != nil {
		return core.Savings{}, readErr("get savings "+id, err)
	}
	return s, nil
}

func (r *SQLiteRepository) CreateSavings(ctx context.Context, s core.Savings) error {
	entries, err := encodeSavingsEntries(s.Transactions)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO savings (`+savingsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.TargetAmount, nullableFloat(s.MonthlyTarget), s.Description, s.Icon, s.Color,
		string(s.Status), entries, s.OwnerUserID, formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return writeErr("create savings", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateSavings(ctx context.Context, s core.Savings) error {
	entries, err := encodeSavingsEntries(s.Transactions)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE savings SET name = ?, target_amount = ?, monthly_target = ?, description = ?, icon = ?, color = ?,
		 status = ?, transactions = ?, updated_at = ?
		 WHERE id = ? AND owner_user_id = ?`,
		s.Name, s.TargetAmount, nullableFloat(s.MonthlyTarget), s.Description, s.Icon, s.Color,
		string(s.Status), entries, formatTime(s.UpdatedAt), s.ID, s.OwnerUserID)
	if err != nil {
		return writeErr("update savings", err)
	}
	return expectOne("update savings "+s.ID, res)
}

func (r *SQLiteRepository) DeleteSavings(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings WHERE id = ? AND owner_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete savings: %w", err)
	}
	return expectOne("delete savings "+id, res)
}

// Dues

const dueColumns = `id, name, amount, date, description, status, transactions, owner_user_id, created_at, updated_at`

func scanDue(sc scanner) (core.DueReceivable, error) {
	var (
		d                      core.DueReceivable
		status, entries        string
		date, created, updated string
	)
	if err := sc.Scan(&d.ID, &d.Name, &d.Amount, &date, &d.Description, &status, &entries,
		&d.OwnerUserID, &created, &updated); err != nil {
		return core.DueReceivable{}, err
	}
	ts, err := parseTimes(date, created, updated)
	if err != nil {
		return core.DueReceivable{}, err
	}
	txs, err := decodeDueEntries(entries)
	if err != nil {
		return core.DueReceivable{}, err
	}
	d.Status = core.DueStatus(status)
	d.Transactions = txs
	d.Date, d.CreatedAt, d.UpdatedAt = ts[0], ts[1], ts[2]
	return d, nil
}

func (r *SQLiteRepository) ListDues(ctx context.Context, userID string) ([]core.DueReceivable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dueColumns+` FROM dues WHERE owner_user_id = ? ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list dues: %w", err)
	}
	defer rows.Close()

	var out []core.DueReceivable
	for rows.Next() {
		d, err := scanDue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetDue(ctx context.Context, userID, id string) (core.DueReceivable, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dueColumns+` FROM dues WHERE id = ? AND owner_user_id = ?`, id, userID)
	d, err := scanDue(row)
	if err != nil {
		return core.DueReceivable{}, readErr("get due "+id, err)
	}
	return d, nil
}

func (r *SQLiteRepository) CreateDue(ctx context.Context, d core.DueReceivable) error {
	entries, err := encodeDueEntries(d.Transactions)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO dues (`+dueColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Amount, formatTime(d.Date), d.Description, string(d.Status), entries,
		d.OwnerUserID, formatTime(d.CreatedAt), formatTime(d.UpdatedAt))
	if err != nil {
		return writeErr("create due", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateDue(ctx context.Context, d core.DueReceivable) error {
	entries, err := encodeDueEntries(d.Transactions)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE dues SET name = ?, amount = ?, date = ?, description = ?, status = ?, transactions = ?, updated_at = ?
		 WHERE id = ? AND owner_user_id = ?`,
		d.Name, d.Amount, formatTime(d.Date), d.Description, string(d.Status), entries,
		formatTime(d.UpdatedAt), d.ID, d.OwnerUserID)
	if err != nil {
		return writeErr("update due", err)
	}
	return expectOne("update due "+d.ID, res)
}

func (r *SQLiteRepository) DeleteDue(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dues WHERE id = ? AND owner_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete due: %w", err)
	}
	return expectOne("delete due "+id, res)
}
