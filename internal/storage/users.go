package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
)

// CreateUser creates a new user with the given username and password hash.
// It returns ErrUserExists when the username is taken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, passwordHash, formatTime(s.now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
	return s.scanUser(row)
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	)
	return s.scanUser(row)
}

// UserCount returns the number of users in the database.
func (s *Store) UserCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u         models.User
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	t, err := s.parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}
