package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/storage"
)

// AddTransaction records an entry dated now. See AddTransactionAt.
func (s *Service) AddTransaction(ctx context.Context, userID int64, amount decimal.Decimal, category string, typ models.TransactionType) (*models.Transaction, *models.BudgetWarning, error) {
	return s.AddTransactionAt(ctx, userID, amount, category, typ, time.Time{})
}

// AddTransactionAt records an entry at date (now when zero). For expenses
// with a budget it returns a warning when this calendar month's spending in
// the category exceeds the limit. The month is taken from the clock, not
// from date. The entry is kept either way.
func (s *Service) AddTransactionAt(ctx context.Context, userID int64, amount decimal.Decimal, category string, typ models.TransactionType, date time.Time) (*models.Transaction, *models.BudgetWarning, error) {
	t, err := newTransaction(userID, amount, category, typ)
	if err != nil {
		return nil, nil, err
	}
	t.Date = date

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return nil, nil, fmt.Errorf("create transaction: %w", err)
	}

	logger := s.log.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": created.ID,
		"category":       created.Category,
		"type":           created.Type,
	})
	logger.Debug("AddTransaction.Complete")

	if created.Type != models.Expense {
		return created, nil, nil
	}

	warning, err := s.checkBudget(ctx, userID, created.Category)
	if err != nil {
		logger.WithError(err).Error("AddTransaction.BudgetCheck")
		return created, nil, nil
	}
	if warning != nil {
		logger.WithFields(logrus.Fields{
			"spent": warning.Spent.StringFixed(2),
			"limit": warning.Limit.StringFixed(2),
		}).Warn("AddTransaction.BudgetExceeded")
	}
	return created, warning, nil
}

func (s *Service) checkBudget(ctx context.Context, userID int64, category string) (*models.BudgetWarning, error) {
	budget, err := s.store.GetBudget(ctx, userID, category)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}

	now := s.store.Now()
	from, to := s.store.MonthRange(now.Year(), now.Month())
	spent, err := s.store.SumExpenses(ctx, userID, category, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	if !spent.GreaterThan(budget.Limit) {
		return nil, nil
	}
	return &models.BudgetWarning{
		Category: category,
		Spent:    spent,
		Limit:    budget.Limit,
	}, nil
}

// UpdateTransaction replaces amount, category and type of userID's entry id.
// It reports whether such an entry existed.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id int64, amount decimal.Decimal, category string, typ models.TransactionType) (bool, error) {
	t, err := newTransaction(userID, amount, category, typ)
	if err != nil {
		return false, err
	}
	t.ID = id

	ok, err := s.store.UpdateTransaction(ctx, t)
	if err != nil {
		return false, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": id, "matched": ok}).Debug("UpdateTransaction.Complete")
	return ok, nil
}

// DeleteTransaction removes userID's entry id and reports whether it existed.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id int64) (bool, error) {
	ok, err := s.store.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return false, err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "transaction_id": id, "matched": ok}).Debug("DeleteTransaction.Complete")
	return ok, nil
}

func newTransaction(userID int64, amount decimal.Decimal, category string, typ models.TransactionType) (models.Transaction, error) {
	amount, err := money.Normalize(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	category, err = cleanCategory(category)
	if err != nil {
		return models.Transaction{}, err
	}
	if !typ.Valid() {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrInvalidType)
	}
	return models.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Type:     typ,
	}, nil
}

func cleanCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", fmt.Errorf("%w: category cannot be empty", ErrInvalidInput)
	}
	return category, nil
}
