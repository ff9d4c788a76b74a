package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

// UpsertBudget sets the limit for (b.UserID, b.Category), overwriting any
// existing limit for that pair.
func (s *Store) UpsertBudget(ctx context.Context, b models.Budget) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, limit_cents)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.UserID, b.Category, money.ToCents(b.Limit),
	)
	if err != nil {
		return fmt.Errorf("upsert budget %q: %w", b.Category, err)
	}
	return nil
}

// GetBudget retrieves the budget for a user and category.
func (s *Store) GetBudget(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, category, limit_cents FROM budgets WHERE user_id = ? AND category = ?",
		userID, category,
	)

	var (
		b     models.Budget
		cents int64
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &cents); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan budget: %w", err)
	}
	b.Limit = money.FromCents(cents)
	return &b, nil
}

// ListBudgets returns all budgets of a user ordered by category.
func (s *Store) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, category, limit_cents FROM budgets WHERE user_id = ? ORDER BY category",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var (
			b     models.Budget
			cents int64
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Limit = money.FromCents(cents)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
