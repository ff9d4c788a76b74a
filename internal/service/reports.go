package service

import (
	"context"
	"fmt"
	"time"

	"finance-tracker/internal/models"
)

// MonthlyReport lists userID's entries of the given month ordered by date,
// with per-category and overall totals.
func (s *Service) MonthlyReport(ctx context.Context, userID int64, month time.Month, year int) (*models.MonthlyReport, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}

	from, to := s.store.MonthRange(year, month)

	txs, err := s.store.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.TotalsByType(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReport{
		UserID:       userID,
		Year:         year,
		Month:        month,
		Transactions: txs,
		Categories:   categories,
		Totals:       totals,
	}, nil
}

// YearlyReport returns userID's totals for the year and for each month.
func (s *Service) YearlyReport(ctx context.Context, userID int64, year int) (*models.YearlyReport, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	from, to := s.store.YearRange(year)
	totals, err := s.store.TotalsByType(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	report := &models.YearlyReport{
		UserID: userID,
		Year:   year,
		Totals: totals,
		Months: make([]models.MonthTotals, 0, 12),
	}
	for m := time.January; m <= time.December; m++ {
		mFrom, mTo := s.store.MonthRange(year, m)
		mTotals, err := s.store.TotalsByType(ctx, userID, mFrom, mTo)
		if err != nil {
			return nil, err
		}
		report.Months = append(report.Months, models.MonthTotals{Month: m, Totals: mTotals})
	}
	return report, nil
}

// MaxYear is the last reportable year. Stored dates compare as text, so the
// exclusive upper bound of a report must still have four year digits.
const MaxYear = 9998

func validateYear(year int) error {
	if year < 1 || year > MaxYear {
		return fmt.Errorf("%w: year must be between 1 and %d", ErrInvalidInput, MaxYear)
	}
	return nil
}
