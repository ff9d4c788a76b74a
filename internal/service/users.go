package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

// Register creates an account. It returns false, without an error, when the
// username is already taken.
func (s *Service) Register(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(password) == "" {
		return false, fmt.Errorf("%w: password cannot be empty", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, hash)
	if errors.Is(err, storage.ErrUserExists) {
		s.log.WithField("username", username).Info("Register.UsernameTaken")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("Register.Complete")
	return true, nil
}

// Authenticate returns the user whose username and password both match.
// Any mismatch yields ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		s.log.WithField("user_id", user.ID).Info("Authenticate.BadPassword")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
