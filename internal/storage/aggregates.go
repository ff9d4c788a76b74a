package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

// MonthRange returns the half-open interval covering the calendar month in
// the store's location.
func (s *Store) MonthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 1, 0)
}

// YearRange returns the half-open interval covering the calendar year in
// the store's location.
func (s *Store) YearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(1, 0, 0)
}

// SumExpenses totals userID's expenses in category dated in [from, to).
func (s *Store) SumExpenses(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE user_id = ? AND category = ? AND type = 'expense'
		  AND date >= ? AND date < ?`,
		userID, category, formatTime(from), formatTime(to),
	).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return money.FromCents(cents), nil
}

// TotalsByType sums income and expense for userID in [from, to).
// Types with no rows contribute zero.
func (s *Store) TotalsByType(ctx context.Context, userID int64, from, to time.Time) (models.Totals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		GROUP BY type`,
		userID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return models.Totals{}, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	var income, expense int64
	for rows.Next() {
		var (
			typ   string
			cents int64
		)
		if err := rows.Scan(&typ, &cents); err != nil {
			return models.Totals{}, fmt.Errorf("scan totals: %w", err)
		}
		switch models.TransactionType(typ) {
		case models.Income:
			income = cents
		case models.Expense:
			expense = cents
		}
	}
	if err := rows.Err(); err != nil {
		return models.Totals{}, err
	}

	return models.NewTotals(money.FromCents(income), money.FromCents(expense)), nil
}

// CategoryTotals groups userID's transactions in [from, to) by category and
// type, largest total first within each type.
func (s *Store) CategoryTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, type, SUM(amount_cents) AS total, COUNT(*)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		GROUP BY category, type
		ORDER BY type DESC, total DESC, category ASC`,
		userID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var (
			ct    models.CategoryTotal
			typ   string
			cents int64
		)
		if err := rows.Scan(&ct.Category, &typ, &cents, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		ct.Type = models.TransactionType(typ)
		ct.Total = money.FromCents(cents)
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
