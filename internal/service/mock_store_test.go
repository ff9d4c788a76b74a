package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finance-tracker/internal/logging"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
)

type mockStore struct {
	mock.Mock
}

func newMockStore(t *testing.T) *mockStore {
	m := &mockStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockStore) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, username, passwordHash)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockStore) CreateTransaction(ctx context.Context, t models.Transaction) (*models.Transaction, error) {
	args := m.Called(ctx, t)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *mockStore) UpdateTransaction(ctx context.Context, t models.Transaction) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) DeleteTransaction(ctx context.Context, userID, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, from, to)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}

func (m *mockStore) UpsertBudget(ctx context.Context, b models.Budget) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) GetBudget(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	args := m.Called(ctx, userID, category)
	b, _ := args.Get(0).(*models.Budget)
	return b, args.Error(1)
}

func (m *mockStore) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	args := m.Called(ctx, userID)
	b, _ := args.Get(0).([]models.Budget)
	return b, args.Error(1)
}

func (m *mockStore) SumExpenses(ctx context.Context, userID int64, category string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, category, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockStore) TotalsByType(ctx context.Context, userID int64, from, to time.Time) (models.Totals, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(models.Totals), args.Error(1)
}

func (m *mockStore) CategoryTotals(ctx context.Context, userID int64, from, to time.Time) ([]models.CategoryTotal, error) {
	args := m.Called(ctx, userID, from, to)
	c, _ := args.Get(0).([]models.CategoryTotal)
	return c, args.Error(1)
}

func (m *mockStore) MonthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (m *mockStore) YearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

func (m *mockStore) Now() time.Time {
	return testNow
}

func (m *mockStore) Backup(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Restore(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestAddTransaction_CreateError(t *testing.T) {
	store := newMockStore(t)
	store.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	svc := New(store, logging.Discard())
	tx, warn, err := svc.AddTransaction(context.Background(), 1, dec("10"), "Food", models.Expense)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, tx)
	assert.Nil(t, warn)
}

func TestAddTransaction_BudgetCheckErrorIsAdvisory(t *testing.T) {
	store := newMockStore(t)
	created := &models.Transaction{ID: 7, UserID: 1, Amount: dec("10"), Category: "Food", Type: models.Expense}
	store.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
		return tx.UserID == 1 && tx.Category == "Food" && tx.Amount.Equal(dec("10"))
	})).Return(created, nil)
	store.On("GetBudget", mock.Anything, int64(1), "Food").Return(nil, errors.New("locked"))

	svc := New(store, logging.Discard())
	tx, warn, err := svc.AddTransaction(context.Background(), 1, dec("10"), " Food ", models.Expense)
	require.NoError(t, err, "the transaction is never rejected by the budget check")
	assert.Equal(t, created, tx)
	assert.Nil(t, warn)
}

func TestAddTransaction_NoBudget(t *testing.T) {
	store := newMockStore(t)
	created := &models.Transaction{ID: 1, UserID: 1, Amount: dec("10"), Category: "Food", Type: models.Expense}
	store.On("CreateTransaction", mock.Anything, mock.Anything).Return(created, nil)
	store.On("GetBudget", mock.Anything, int64(1), "Food").Return(nil, storage.ErrNotFound)

	svc := New(store, logging.Discard())
	_, warn, err := svc.AddTransaction(context.Background(), 1, dec("10"), "Food", models.Expense)
	require.NoError(t, err)
	assert.Nil(t, warn)
	store.AssertNotCalled(t, "SumExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_StoreError(t *testing.T) {
	store := newMockStore(t)
	store.On("CreateUser", mock.Anything, "alice", mock.AnythingOfType("string")).Return(nil, errors.New("readonly database"))

	svc := New(store, logging.Discard(), WithBcryptCost(4))
	ok, err := svc.Register(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.False(t, ok)
}
