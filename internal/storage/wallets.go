package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/core"
)

const walletColumns = `id, name, type, icon, color, month, year, owner_user_id, opening_balance, closing_balance, created_at, updated_at`

func scanWallet(sc scanner) (core.Wallet, error) {
	var (
		w                core.Wallet
		typ              string
		closing          sql.NullFloat64
		created, updated string
	)
	if err := sc.Scan(&w.ID, &w.Name, &typ, &w.Icon, &w.Color, &w.Month, &w.Year, &w.OwnerUserID,
		&w.OpeningBalance, &closing, &created, &updated); err != nil {
		return core.Wallet{}, err
	}
	ts, err := parseTimes(created, updated)
	if err != nil {
		return core.Wallet{}, err
	}
	w.Type = core.WalletType(typ)
	if closing.Valid {
		v := closing.Float64
		w.ClosingBalance = &v
	}
	w.CreatedAt, w.UpdatedAt = ts[0], ts[1]
	return w, nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func (r *SQLiteRepository) ListWallets(ctx context.Context, userID string, p core.Period) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner_user_id = ? AND month = ? AND year = ? ORDER BY created_at`,
		userID, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var out []core.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetWallet(ctx context.Context, userID, id string) (core.Wallet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = ? AND owner_user_id = ?`, id, userID)
	w, err := scanWallet(row)
	if err != nil {
		return core.Wallet{}, readErr("get wallet "+id, err)
	}
	return w, nil
}

func (r *SQLiteRepository) CreateWallet(ctx context.Context, w core.Wallet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wallets (`+walletColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, string(w.Type), w.Icon, w.Color, w.Month, w.Year, w.OwnerUserID,
		w.OpeningBalance, nullableFloat(w.ClosingBalance), formatTime(w.CreatedAt), formatTime(w.UpdatedAt))
	if err != nil {
		return writeErr("create wallet", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateWallet(ctx context.Context, w core.Wallet) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wallets SET name = ?, type = ?, icon = ?, color = ?, closing_balance = ?, updated_at = ?
		 WHERE id = ? AND owner_user_id = ?`,
		w.Name, string(w.Type), w.Icon, w.Color, nullableFloat(w.ClosingBalance), formatTime(w.UpdatedAt),
		w.ID, w.OwnerUserID)
	if err != nil {
		return writeErr("update wallet", err)
	}
	return expectOne("update wallet "+w.ID, res)
}

func (r *SQLiteRepository) DeleteWallet(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = ? AND owner_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return expectOne("delete wallet "+id, res)
}
