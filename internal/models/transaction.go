package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidType is returned when a transaction type is neither income nor expense.
var ErrInvalidType = errors.New("type must be 'income' or 'expense'")

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction represents a single income or expense record.
type Transaction struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Date     time.Time       `json:"date"`
}

// Budget is a monthly expense ceiling for one category of one user.
type Budget struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// BudgetWarning is raised when the current month's expenses in a category
// exceed its budget. It is advisory only.
type BudgetWarning struct {
	Category string
	Spent    decimal.Decimal
	Limit    decimal.Decimal
}

// Over returns how far spending is past the limit.
func (w BudgetWarning) Over() decimal.Decimal {
	return w.Spent.Sub(w.Limit)
}
