package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquarosarium/HandOfMidas-bot/internal/stats"
	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
)

// MockStorage - мок для Storage
type MockStorage struct {
	transactions []storages.Transaction
	balances     map[int64]decimal.Decimal
	currencies   map[int64]map[string]decimal.Decimal
	failing      bool
	nextID       int64
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		balances:   make(map[int64]decimal.Decimal),
		currencies: make(map[int64]map[string]decimal.Decimal),
	}
}

func (m *MockStorage) AddTransaction(ctx context.Context, chatID int64, date time.Time, category string, amount decimal.Decimal, isIncome bool) error {
	if m.failing {
		return storages.ErrStoreUnavailable
	}

	kind := storages.KindExpense
	delta := amount.Neg()
	if isIncome {
		kind = storages.KindIncome
		delta = amount
	}

	m.nextID++
	m.transactions = append(m.transactions, storages.Transaction{
		ID:       m.nextID,
		ChatID:   chatID,
		Date:     date,
		Category: category,
		Amount:   amount,
		Kind:     kind,
	})
	m.balances[chatID] = m.balances[chatID].Add(delta)
	return nil
}

func (m *MockStorage) GetTransactions(ctx context.Context, chatID int64) ([]storages.Transaction, error) {
	if m.failing {
		return nil, storages.ErrStoreUnavailable
	}
	var result []storages.Transaction
	for _, t := range m.transactions {
		if t.ChatID == chatID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockStorage) GetTransactionsByPeriod(ctx context.Context, chatID int64, start, end time.Time) ([]storages.Transaction, error) {
	if m.failing {
		return nil, storages.ErrStoreUnavailable
	}
	var result []storages.Transaction
	for _, t := range m.transactions {
		if t.ChatID == chatID && !t.Date.Before(start) && !t.Date.After(end.AddDate(0, 0, 1)) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockStorage) GetUserBalance(ctx context.Context, chatID int64) (decimal.Decimal, error) {
	if m.failing {
		return decimal.Zero, storages.ErrStoreUnavailable
	}
	return m.balances[chatID], nil
}

func (m *MockStorage) ResetUserBalance(ctx context.Context, chatID int64, newValue decimal.Decimal) (decimal.Decimal, error) {
	if m.failing {
		return decimal.Zero, storages.ErrStoreUnavailable
	}
	m.balances[chatID] = newValue
	return newValue, nil
}

func (m *MockStorage) GetUserCurrencies(ctx context.Context, chatID int64) ([]storages.CurrencyBalance, error) {
	if m.failing {
		return nil, storages.ErrStoreUnavailable
	}
	var result []storages.CurrencyBalance
	for _, code := range []string{"CNY", "USD"} {
		if amount, ok := m.currencies[chatID][code]; ok {
			result = append(result, storages.CurrencyBalance{
				ChatID:   chatID,
				Currency: code,
				Amount:   amount,
			})
		}
	}
	return result, nil
}

func (m *MockStorage) UpdateUserCurrency(ctx context.Context, chatID int64, currency string, amount decimal.Decimal) error {
	if m.failing {
		return storages.ErrStoreUnavailable
	}
	if m.currencies[chatID] == nil {
		m.currencies[chatID] = make(map[string]decimal.Decimal)
	}
	m.currencies[chatID][currency] = amount
	return nil
}

func (m *MockStorage) DeleteUserCurrency(ctx context.Context, chatID int64, currency string) (bool, error) {
	if m.failing {
		return false, storages.ErrStoreUnavailable
	}
	if _, ok := m.currencies[chatID][currency]; !ok {
		return false, nil
	}
	delete(m.currencies[chatID], currency)
	return true, nil
}

func (m *MockStorage) CreateCurrencyBalance(ctx context.Context, chatID int64, currency string) (decimal.Decimal, error) {
	if m.failing {
		return decimal.Zero, storages.ErrStoreUnavailable
	}
	if m.currencies[chatID] == nil {
		m.currencies[chatID] = make(map[string]decimal.Decimal)
	}
	if amount, ok := m.currencies[chatID][currency]; ok {
		return amount, nil
	}
	m.currencies[chatID][currency] = decimal.Zero
	return decimal.Zero, nil
}

func (m *MockStorage) DeleteAllUserData(ctx context.Context, chatID int64) (storages.DeletedCounts, error) {
	if m.failing {
		return storages.DeletedCounts{}, storages.ErrStoreUnavailable
	}

	var counts storages.DeletedCounts
	kept := m.transactions[:0]
	for _, t := range m.transactions {
		if t.ChatID == chatID {
			counts.Transactions++
		} else {
			kept = append(kept, t)
		}
	}
	m.transactions = kept

	if _, ok := m.balances[chatID]; ok {
		delete(m.balances, chatID)
		counts.Balances = 1
	}

	counts.Currencies = int64(len(m.currencies[chatID]))
	delete(m.currencies, chatID)

	return counts, nil
}

func (m *MockStorage) Ping(ctx context.Context) error {
	if m.failing {
		return storages.ErrStoreUnavailable
	}
	return nil
}

func (m *MockStorage) Close() error { return nil }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(storage storages.Storage) *FinanceService {
	return NewFinanceService(storage, nil, testLogger())
}

func TestAddOperationMovesBalance(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	require.NoError(t, svc.AddOperation(ctx, 1, "зарплата", decimal.RequireFromString("1000"), true))
	require.NoError(t, svc.AddOperation(ctx, 1, "еда", decimal.RequireFromString("150"), false))

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("850")), "got %s", balance)
}

func TestAddOperationStoreFailure(t *testing.T) {
	storage := NewMockStorage()
	storage.failing = true
	svc := newTestService(storage)

	err := svc.AddOperation(context.Background(), 1, "еда", decimal.RequireFromString("150"), false)
	assert.ErrorIs(t, err, storages.ErrStoreUnavailable)
}

func TestBalanceDefaultsToZero(t *testing.T) {
	svc := newTestService(NewMockStorage())

	balance, err := svc.Balance(context.Background(), 99)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestSetBalanceOverwrites(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	require.NoError(t, svc.AddOperation(ctx, 1, "еда", decimal.RequireFromString("150"), false))

	balance, err := svc.SetBalance(ctx, 1, decimal.RequireFromString("10000"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("10000")))

	// операции не пересчитывают перезаписанный баланс задним числом
	balance, err = svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("10000")))
}

func TestResetBalance(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	_, err := svc.SetBalance(ctx, 1, decimal.RequireFromString("500"))
	require.NoError(t, err)
	require.NoError(t, svc.ResetBalance(ctx, 1))

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestOpenCurrencyBalanceIsIdempotent(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	amount, err := svc.OpenCurrencyBalance(ctx, 1, "usd")
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	require.NoError(t, svc.SetCurrencyBalance(ctx, 1, "USD", decimal.RequireFromString("100")))

	// повторное открытие не затирает существующее значение
	amount, err = svc.OpenCurrencyBalance(ctx, 1, "USD")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("100")))
}

func TestOpenCurrencyBalanceRejectsUnknownCurrency(t *testing.T) {
	svc := newTestService(NewMockStorage())

	_, err := svc.OpenCurrencyBalance(context.Background(), 1, "EUR")
	assert.Error(t, err)
}

func TestDeleteCurrency(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	require.NoError(t, svc.SetCurrencyBalance(ctx, 1, "CNY", decimal.RequireFromString("50")))

	deleted, err := svc.DeleteCurrency(ctx, 1, "CNY")
	require.NoError(t, err)
	assert.True(t, deleted)

	// повторное удаление сообщает об отсутствии
	deleted, err = svc.DeleteCurrency(ctx, 1, "CNY")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCurrenciesDoNotAffectBalance(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	_, err := svc.SetBalance(ctx, 1, decimal.RequireFromString("1000"))
	require.NoError(t, err)
	require.NoError(t, svc.SetCurrencyBalance(ctx, 1, "USD", decimal.RequireFromString("500")))

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("1000")))
}

func TestDeleteAllData(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	require.NoError(t, svc.AddOperation(ctx, 1, "еда", decimal.RequireFromString("150"), false))
	require.NoError(t, svc.AddOperation(ctx, 1, "зарплата", decimal.RequireFromString("1000"), true))
	require.NoError(t, svc.SetCurrencyBalance(ctx, 1, "USD", decimal.RequireFromString("10")))

	// данные другого чата не затрагиваются
	require.NoError(t, svc.AddOperation(ctx, 2, "такси", decimal.RequireFromString("200"), false))

	counts, err := svc.DeleteAllData(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Transactions)
	assert.Equal(t, int64(1), counts.Balances)
	assert.Equal(t, int64(1), counts.Currencies)

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	otherBalance, err := svc.Balance(ctx, 2)
	require.NoError(t, err)
	assert.True(t, otherBalance.Equal(decimal.RequireFromString("-200")))
}

func TestStatistics(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	require.NoError(t, svc.AddOperation(ctx, 1, "зарплата", decimal.RequireFromString("1000"), true))
	require.NoError(t, svc.AddOperation(ctx, 1, "еда", decimal.RequireFromString("150"), false))

	report, period, err := svc.Statistics(ctx, 1, stats.PeriodDay)
	require.NoError(t, err)
	assert.Equal(t, stats.PeriodDay, period.Kind)
	assert.True(t, report.Net.Equal(decimal.RequireFromString("850")), "got %s", report.Net)
	assert.Len(t, report.IncomeByCategory, 1)
	assert.Len(t, report.ExpensesByCategory, 1)
}

func TestOverview(t *testing.T) {
	storage := NewMockStorage()
	svc := newTestService(storage)
	ctx := context.Background()

	require.NoError(t, svc.AddOperation(ctx, 1, "еда", decimal.RequireFromString("150"), false))
	require.NoError(t, svc.AddOperation(ctx, 1, "такси", decimal.RequireFromString("300"), false))
	require.NoError(t, svc.SetCurrencyBalance(ctx, 1, "USD", decimal.RequireFromString("10")))

	balance, operations, currencies, err := svc.Overview(ctx, 1)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("-450")))
	assert.Equal(t, 2, operations)
	assert.Equal(t, 1, currencies)
}
