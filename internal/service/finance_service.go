package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/aquarosarium/HandOfMidas-bot/internal/kafka"
	"github.com/aquarosarium/HandOfMidas-bot/internal/stats"
	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
	"github.com/aquarosarium/HandOfMidas-bot/pkg"
)

// FinanceService сервисный слой для бизнес-логики бота
type FinanceService struct {
	storage  storages.Storage
	producer *kafka.Producer
	logger   *logrus.Logger
}

// NewFinanceService создает новый экземпляр сервиса
func NewFinanceService(storage storages.Storage, producer *kafka.Producer, logger *logrus.Logger) *FinanceService {
	return &FinanceService{
		storage:  storage,
		producer: producer,
		logger:   logger,
	}
}

// AddOperation записывает операцию текущим днём и двигает баланс чата
func (s *FinanceService) AddOperation(ctx context.Context, chatID int64, category string, amount decimal.Decimal, isIncome bool) error {
	if err := s.storage.AddTransaction(ctx, chatID, time.Now(), category, amount, isIncome); err != nil {
		return fmt.Errorf("failed to add operation: %w", err)
	}

	operation := storages.KindExpense
	if isIncome {
		operation = storages.KindIncome
	}
	s.notify(ctx, chatID, operation, category, amount)

	return nil
}

// Balance возвращает текущий рублевый баланс чата
func (s *FinanceService) Balance(ctx context.Context, chatID int64) (decimal.Decimal, error) {
	balance, err := s.storage.GetUserBalance(ctx, chatID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// SetBalance перезаписывает баланс чата новым значением.
// Это намеренное ручное переопределение: связь баланса с суммой операций
// после него не восстанавливается.
func (s *FinanceService) SetBalance(ctx context.Context, chatID int64, value decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.storage.ResetUserBalance(ctx, chatID, value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to set balance: %w", err)
	}

	s.notify(ctx, chatID, "balance_set", "", value)
	return balance, nil
}

// ResetBalance сбрасывает баланс чата до нуля
func (s *FinanceService) ResetBalance(ctx context.Context, chatID int64) error {
	if _, err := s.storage.ResetUserBalance(ctx, chatID, decimal.Zero); err != nil {
		return fmt.Errorf("failed to reset balance: %w", err)
	}
	return nil
}

// DeleteAllData удаляет операции, баланс и валютные балансы чата
func (s *FinanceService) DeleteAllData(ctx context.Context, chatID int64) (storages.DeletedCounts, error) {
	counts, err := s.storage.DeleteAllUserData(ctx, chatID)
	if err != nil {
		return storages.DeletedCounts{}, fmt.Errorf("failed to delete user data: %w", err)
	}
	return counts, nil
}

// Currencies возвращает валютные балансы чата
func (s *FinanceService) Currencies(ctx context.Context, chatID int64) ([]storages.CurrencyBalance, error) {
	currencies, err := s.storage.GetUserCurrencies(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get currencies: %w", err)
	}
	return currencies, nil
}

// OpenCurrencyBalance открывает валютный баланс: создает запись с нулём,
// если её нет, и возвращает текущее значение
func (s *FinanceService) OpenCurrencyBalance(ctx context.Context, chatID int64, currency string) (decimal.Decimal, error) {
	currency = pkg.NormalizeCurrency(currency)
	if err := pkg.ValidateCurrency(currency); err != nil {
		return decimal.Zero, err
	}

	amount, err := s.storage.CreateCurrencyBalance(ctx, chatID, currency)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to open currency balance: %w", err)
	}
	return amount, nil
}

// SetCurrencyBalance перезаписывает валютный баланс чата новым значением
func (s *FinanceService) SetCurrencyBalance(ctx context.Context, chatID int64, currency string, amount decimal.Decimal) error {
	currency = pkg.NormalizeCurrency(currency)
	if err := pkg.ValidateCurrency(currency); err != nil {
		return err
	}

	if err := s.storage.UpdateUserCurrency(ctx, chatID, currency, amount); err != nil {
		return fmt.Errorf("failed to set currency balance: %w", err)
	}
	return nil
}

// DeleteCurrency удаляет валютный баланс чата.
// Возвращает false, если баланса не было.
func (s *FinanceService) DeleteCurrency(ctx context.Context, chatID int64, currency string) (bool, error) {
	deleted, err := s.storage.DeleteUserCurrency(ctx, chatID, pkg.NormalizeCurrency(currency))
	if err != nil {
		return false, fmt.Errorf("failed to delete currency: %w", err)
	}
	return deleted, nil
}

// Statistics собирает отчет по операциям чата за период
func (s *FinanceService) Statistics(ctx context.Context, chatID int64, kind stats.PeriodKind) (stats.Report, stats.Period, error) {
	period := stats.PeriodFor(kind, time.Now())

	transactions, err := s.storage.GetTransactionsByPeriod(ctx, chatID, period.Start, period.End)
	if err != nil {
		return stats.Report{}, period, fmt.Errorf("failed to get transactions: %w", err)
	}

	return stats.Aggregate(transactions), period, nil
}

// Overview сводка для меню настроек: баланс, число операций и число валют
func (s *FinanceService) Overview(ctx context.Context, chatID int64) (decimal.Decimal, int, int, error) {
	balance, err := s.storage.GetUserBalance(ctx, chatID)
	if err != nil {
		return decimal.Zero, 0, 0, fmt.Errorf("failed to get balance: %w", err)
	}

	transactions, err := s.storage.GetTransactions(ctx, chatID)
	if err != nil {
		return decimal.Zero, 0, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	currencies, err := s.storage.GetUserCurrencies(ctx, chatID)
	if err != nil {
		return decimal.Zero, 0, 0, fmt.Errorf("failed to get currencies: %w", err)
	}

	return balance, len(transactions), len(currencies), nil
}

// notify отправляет уведомление о крупной операции, не мешая основному потоку
func (s *FinanceService) notify(ctx context.Context, chatID int64, operation, category string, amount decimal.Decimal) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Notify(ctx, chatID, operation, category, amount); err != nil {
		s.logger.Warnf("Large operation notification failed for chat %d: %v", chatID, err)
	}
}
