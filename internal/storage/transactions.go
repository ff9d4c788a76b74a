package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateTransaction inserts t and returns it with its assigned ID.
// A zero Date is replaced by the store clock's current time.
func (s *Store) CreateTransaction(ctx context.Context, t models.Transaction) (*models.Transaction, error) {
	if t.Date.IsZero() {
		t.Date = s.now()
	}
	t.Date = t.Date.In(s.loc).Truncate(time.Second)

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions (user_id, amount_cents, category, type, date) VALUES (?, ?, ?, ?, ?)",
		t.UserID, money.ToCents(t.Amount), t.Category, string(t.Type), formatTime(t.Date),
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	t.ID = id
	return &t, nil
}

// GetTransaction retrieves a transaction owned by userID.
func (s *Store) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, amount_cents, category, type, date FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	t, err := s.scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// UpdateTransaction replaces amount, category and type of the transaction
// with t.ID owned by t.UserID. It reports whether a row matched; a missing
// or foreign-owned ID is a no-op.
func (s *Store) UpdateTransaction(ctx context.Context, t models.Transaction) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET amount_cents = ?, category = ?, type = ? WHERE id = ? AND user_id = ?",
		money.ToCents(t.Amount), t.Category, string(t.Type), t.ID, t.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return affected(result)
}

// DeleteTransaction removes the transaction with id owned by userID.
// It reports whether a row was deleted.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return affected(result)
}

// ListTransactions returns userID's transactions dated in [from, to),
// ordered by date ascending.
func (s *Store) ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, category, type, date
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC, id ASC`,
		userID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		t, err := s.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t     models.Transaction
		cents int64
		typ   string
		date  string
	)
	if err := row.Scan(&t.ID, &t.UserID, &cents, &t.Category, &typ, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	d, err := s.parseTime(date)
	if err != nil {
		return nil, err
	}
	t.Amount = money.FromCents(cents)
	t.Type = models.TransactionType(typ)
	t.Date = d
	return &t, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
