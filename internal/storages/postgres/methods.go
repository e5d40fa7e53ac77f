package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
)

// GetUserBalance возвращает рублевый баланс чата.
// Отсутствие записи не ошибка: баланс считается нулевым.
func (s *PostgresStorage) GetUserBalance(ctx context.Context, chatID int64) (decimal.Decimal, error) {
	query := `
		SELECT balance
		FROM user_balances
		WHERE chat_id = $1
	`

	var balance decimal.Decimal
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(&balance)

	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}

	if err != nil {
		s.logger.Errorf("Failed to get balance for chat %d: %v", chatID, err)
		return decimal.Zero, fmt.Errorf("get balance: %w", storages.ErrStoreUnavailable)
	}

	return balance, nil
}

// ResetUserBalance перезаписывает баланс чата новым значением и возвращает его.
// Запись создается, если её ещё нет.
func (s *PostgresStorage) ResetUserBalance(ctx context.Context, chatID int64, newValue decimal.Decimal) (decimal.Decimal, error) {
	query := `
		INSERT INTO user_balances (chat_id, balance, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE
		SET balance = EXCLUDED.balance, last_updated = EXCLUDED.last_updated
	`

	if _, err := s.db.ExecContext(ctx, query, chatID, newValue, time.Now()); err != nil {
		s.logger.Errorf("Failed to reset balance for chat %d: %v", chatID, err)
		return decimal.Zero, fmt.Errorf("reset balance: %w", storages.ErrStoreUnavailable)
	}

	s.logger.Infof("Balance for chat %d set to %s", chatID, newValue.StringFixed(2))
	return newValue, nil
}

// GetUserCurrencies возвращает все валютные балансы чата
func (s *PostgresStorage) GetUserCurrencies(ctx context.Context, chatID int64) ([]storages.CurrencyBalance, error) {
	query := `
		SELECT id, chat_id, currency, amount, last_updated
		FROM user_currencies
		WHERE chat_id = $1
		ORDER BY currency
	`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		s.logger.Errorf("Failed to query currencies for chat %d: %v", chatID, err)
		return nil, fmt.Errorf("get currencies: %w", storages.ErrStoreUnavailable)
	}
	defer rows.Close()

	var currencies []storages.CurrencyBalance
	for rows.Next() {
		var cb storages.CurrencyBalance
		var lastUpdated sql.NullTime
		if err := rows.Scan(&cb.ID, &cb.ChatID, &cb.Currency, &cb.Amount, &lastUpdated); err != nil {
			s.logger.Errorf("Failed to scan currency balance: %v", err)
			return nil, fmt.Errorf("get currencies: %w", storages.ErrStoreUnavailable)
		}
		cb.LastUpdated = lastUpdated.Time
		currencies = append(currencies, cb)
	}

	if err := rows.Err(); err != nil {
		s.logger.Errorf("Error iterating currencies: %v", err)
		return nil, fmt.Errorf("get currencies: %w", storages.ErrStoreUnavailable)
	}

	return currencies, nil
}

// UpdateUserCurrency перезаписывает валютный баланс чата (не дельта).
// Запись создается, если её ещё нет.
func (s *PostgresStorage) UpdateUserCurrency(ctx context.Context, chatID int64, currency string, amount decimal.Decimal) error {
	query := `
		INSERT INTO user_currencies (chat_id, currency, amount, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chat_id, currency) DO UPDATE
		SET amount = EXCLUDED.amount, last_updated = EXCLUDED.last_updated
	`

	if _, err := s.db.ExecContext(ctx, query, chatID, currency, amount, time.Now()); err != nil {
		s.logger.Errorf("Failed to update %s balance for chat %d: %v", currency, chatID, err)
		return fmt.Errorf("update currency: %w", storages.ErrStoreUnavailable)
	}

	s.logger.Infof("Currency %s for chat %d set to %s", currency, chatID, amount.StringFixed(2))
	return nil
}

// DeleteUserCurrency удаляет валютный баланс чата.
// Возвращает false, если записи не было.
func (s *PostgresStorage) DeleteUserCurrency(ctx context.Context, chatID int64, currency string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM user_currencies
		WHERE chat_id = $1 AND currency = $2
	`, chatID, currency)

	if err != nil {
		s.logger.Errorf("Failed to delete %s balance for chat %d: %v", currency, chatID, err)
		return false, fmt.Errorf("delete currency: %w", storages.ErrStoreUnavailable)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		s.logger.Errorf("Failed to count deleted currency rows: %v", err)
		return false, fmt.Errorf("delete currency: %w", storages.ErrStoreUnavailable)
	}

	return deleted > 0, nil
}

// CreateCurrencyBalance создает валютный баланс с нулевым значением.
// Идемпотентна: если баланс уже существует, возвращает его текущее значение.
func (s *PostgresStorage) CreateCurrencyBalance(ctx context.Context, chatID int64, currency string) (decimal.Decimal, error) {
	insert := `
		INSERT INTO user_currencies (chat_id, currency, amount, last_updated)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (chat_id, currency) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, insert, chatID, currency, time.Now()); err != nil {
		s.logger.Errorf("Failed to create %s balance for chat %d: %v", currency, chatID, err)
		return decimal.Zero, fmt.Errorf("create currency balance: %w", storages.ErrStoreUnavailable)
	}

	var amount decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT amount FROM user_currencies
		WHERE chat_id = $1 AND currency = $2
	`, chatID, currency).Scan(&amount)

	if err != nil {
		s.logger.Errorf("Failed to read %s balance for chat %d: %v", currency, chatID, err)
		return decimal.Zero, fmt.Errorf("create currency balance: %w", storages.ErrStoreUnavailable)
	}

	return amount, nil
}
