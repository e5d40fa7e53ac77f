package storages

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrStoreUnavailable возвращается любой операцией хранилища, которая не
// смогла выполниться. Причина пишется в лог, наружу детали не выходят.
var ErrStoreUnavailable = errors.New("store unavailable")

// Storage определяет интерфейс для работы с хранилищем данных
type Storage interface {
	// Transaction operations
	AddTransaction(ctx context.Context, chatID int64, date time.Time, category string, amount decimal.Decimal, isIncome bool) error
	GetTransactions(ctx context.Context, chatID int64) ([]Transaction, error)
	GetTransactionsByPeriod(ctx context.Context, chatID int64, start, end time.Time) ([]Transaction, error)

	// Balance operations
	GetUserBalance(ctx context.Context, chatID int64) (decimal.Decimal, error)
	ResetUserBalance(ctx context.Context, chatID int64, newValue decimal.Decimal) (decimal.Decimal, error)

	// Currency balance operations
	GetUserCurrencies(ctx context.Context, chatID int64) ([]CurrencyBalance, error)
	UpdateUserCurrency(ctx context.Context, chatID int64, currency string, amount decimal.Decimal) error
	DeleteUserCurrency(ctx context.Context, chatID int64, currency string) (bool, error)
	CreateCurrencyBalance(ctx context.Context, chatID int64, currency string) (decimal.Decimal, error)

	// Bulk deletion
	DeleteAllUserData(ctx context.Context, chatID int64) (DeletedCounts, error)

	// Health check
	Ping(ctx context.Context) error
	Close() error
}

// DeletedCounts содержит количество удалённых записей по каждому набору
type DeletedCounts struct {
	Transactions int64
	Balances     int64
	Currencies   int64
}
