package storage

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

const categoryColumns = `id, name, type, icon, color, is_default, owner_user_id, created_at, updated_at`

func scanCategory(sc scanner) (core.Category, error) {
	var (
		c                core.Category
		typ              string
		created, updated string
	)
	if err := sc.Scan(&c.ID, &c.Name, &typ, &c.Icon, &c.Color, &c.IsDefault, &c.OwnerUserID, &created, &updated); err != nil {
		return core.Category{}, err
	}
	ts, err := parseTimes(created, updated)
	if err != nil {
		return core.Category{}, err
	}
	c.Type = core.CategoryType(typ)
	c.CreatedAt, c.UpdatedAt = ts[0], ts[1]
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string, typ core.CategoryType) ([]core.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE owner_user_id IN (?, '')`
	args := []any{userID}
	if typ != "" {
		query += ` AND type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY is_default DESC, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND owner_user_id IN (?, '')`, id, userID)
	c, err := scanCategory(row)
	if err != nil {
		return core.Category{}, readErr("get category "+id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	if err := r.checkCategoryName(ctx, c); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Type), c.Icon, c.Color, c.IsDefault, c.OwnerUserID,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return writeErr("create category", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := r.checkCategoryName(ctx, c); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, icon = ?, color = ?, updated_at = ?
		 WHERE id = ? AND owner_user_id = ?`,
		c.Name, string(c.Type), c.Icon, c.Color, formatTime(c.UpdatedAt), c.ID, c.OwnerUserID)
	if err != nil {
		return writeErr("update category", err)
	}
	return expectOne("update category "+c.ID, res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND owner_user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectOne("delete category "+id, res)
}

// checkCategoryName covers clashes with shared defaults, which the
// per-owner unique index cannot see.
func (r *SQLiteRepository) checkCategoryName(ctx context.Context, c core.Category) error {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories
		 WHERE id != ? AND owner_user_id IN (?, '') AND name = ? COLLATE NOCASE`,
		c.ID, c.OwnerUserID, c.Name).Scan(&n)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("category %q: %w", c.Name, core.ErrDuplicate)
	}
	return nil
}
