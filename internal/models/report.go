package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals aggregates income and expense over a period.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
}

// NewTotals builds Totals with Savings = income - expense.
func NewTotals(income, expense decimal.Decimal) Totals {
	return Totals{
		Income:  income,
		Expense: expense,
		Savings: income.Sub(expense),
	}
}

// CategoryTotal is the sum and count of one category/type pair in a period.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthlyReport lists every transaction of a calendar month with its totals.
type MonthlyReport struct {
	UserID       int64           `json:"user_id"`
	Year         int             `json:"year"`
	Month        time.Month      `json:"month"`
	Transactions []Transaction   `json:"transactions"`
	Categories   []CategoryTotal `json:"categories"`
	Totals       Totals          `json:"totals"`
}

// MonthTotals is one month's line in a yearly report.
type MonthTotals struct {
	Month  time.Month `json:"month"`
	Totals Totals     `json:"totals"`
}

// YearlyReport holds the totals of a calendar year.
type YearlyReport struct {
	UserID int64         `json:"user_id"`
	Year   int           `json:"year"`
	Totals Totals        `json:"totals"`
	Months []MonthTotals `json:"months"`
}
