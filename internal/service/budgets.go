package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

// SetBudget sets the monthly limit for a category, replacing any previous one.
func (s *Service) SetBudget(ctx context.Context, userID int64, category string, limit decimal.Decimal) (*models.Budget, error) {
	limit, err := money.Normalize(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	category, err = cleanCategory(category)
	if err != nil {
		return nil, err
	}

	b := models.Budget{UserID: userID, Category: category, Limit: limit}
	if err := s.store.UpsertBudget(ctx, b); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"category": category,
		"limit":    limit.StringFixed(2),
	}).Info("SetBudget.Complete")
	return &b, nil
}

// ListBudgets returns userID's budgets ordered by category.
func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	return s.store.ListBudgets(ctx, userID)
}
