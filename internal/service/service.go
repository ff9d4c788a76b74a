package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/models"
)

var (
	// ErrInvalidCredentials is returned by Authenticate on any mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput is returned when arguments fail validation before
	// reaching the store.
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the persistence the service needs. *storage.Store implements it.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateTransaction(ctx context.Context, t models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t models.Transaction) (bool, error)
	DeleteTransaction(ctx context.Context, userID, id int64) (bool, error)
	ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error)

	UpsertBudget(ctx context.Context, b models.Budget) error
	GetBudget(ctx context.Context, userID int64, category string) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)

	SumExpenses(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error)
	TotalsByType(ctx context.Context, userID int64, from, to time.Time) (models.Totals, error)
	CategoryTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.CategoryTotal, error)
	MonthRange(year int, month time.Month) (time.Time, time.Time)
	YearRange(year int) (time.Time, time.Time)
	Now() time.Time

	Backup(ctx context.Context) (string, error)
	Restore(ctx context.Context) error
}

// Service holds the finance operations behind the shell.
type Service struct {
	store      Store
	log        *logrus.Logger
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// New creates a Service over store.
func New(store Store, log *logrus.Logger, opts ...Option) *Service {
	s := &Service{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
