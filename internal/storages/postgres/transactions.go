package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
)

// AddTransaction записывает операцию и применяет подписанную дельту к балансу
// чата атомарно: либо появляются и запись, и новое значение баланса, либо ничего.
func (s *PostgresStorage) AddTransaction(ctx context.Context, chatID int64, date time.Time, category string, amount decimal.Decimal, isIncome bool) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Errorf("Failed to begin transaction: %v", err)
		return fmt.Errorf("add transaction: %w", storages.ErrStoreUnavailable)
	}
	defer tx.Rollback()

	kind := storages.KindExpense
	delta := amount.Neg()
	if isIncome {
		kind = storages.KindIncome
		delta = amount
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (chat_id, date, category, amount, type)
		VALUES ($1, $2, $3, $4, $5)
	`, chatID, date, category, amount, kind)

	if err != nil {
		s.logger.Errorf("Failed to insert transaction for chat %d: %v", chatID, err)
		return fmt.Errorf("add transaction: %w", storages.ErrStoreUnavailable)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_balances (chat_id, balance, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE
		SET balance = user_balances.balance + EXCLUDED.balance,
		    last_updated = EXCLUDED.last_updated
	`, chatID, delta, time.Now())

	if err != nil {
		s.logger.Errorf("Failed to apply balance delta for chat %d: %v", chatID, err)
		return fmt.Errorf("add transaction: %w", storages.ErrStoreUnavailable)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Errorf("Failed to commit transaction: %v", err)
		return fmt.Errorf("add transaction: %w", storages.ErrStoreUnavailable)
	}

	s.logger.Infof("Transaction added for chat %d: %s - %s (%s)", chatID, category, amount.StringFixed(2), kind)
	return nil
}

// GetTransactions возвращает все операции чата
func (s *PostgresStorage) GetTransactions(ctx context.Context, chatID int64) ([]storages.Transaction, error) {
	query := `
		SELECT id, chat_id, date, category, amount, type
		FROM transactions
		WHERE chat_id = $1
	`

	return s.queryTransactions(ctx, query, chatID)
}

// GetTransactionsByPeriod возвращает операции чата за закрытый интервал дат
func (s *PostgresStorage) GetTransactionsByPeriod(ctx context.Context, chatID int64, start, end time.Time) ([]storages.Transaction, error) {
	query := `
		SELECT id, chat_id, date, category, amount, type
		FROM transactions
		WHERE chat_id = $1 AND date >= $2 AND date <= $3
	`

	return s.queryTransactions(ctx, query, chatID, start, end)
}

func (s *PostgresStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]storages.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Errorf("Failed to query transactions: %v", err)
		return nil, fmt.Errorf("get transactions: %w", storages.ErrStoreUnavailable)
	}
	defer rows.Close()

	var transactions []storages.Transaction
	for rows.Next() {
		var t storages.Transaction
		if err := rows.Scan(&t.ID, &t.ChatID, &t.Date, &t.Category, &t.Amount, &t.Kind); err != nil {
			s.logger.Errorf("Failed to scan transaction: %v", err)
			return nil, fmt.Errorf("get transactions: %w", storages.ErrStoreUnavailable)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		s.logger.Errorf("Error iterating transactions: %v", err)
		return nil, fmt.Errorf("get transactions: %w", storages.ErrStoreUnavailable)
	}

	return transactions, nil
}

// DeleteAllUserData удаляет все три набора записей чата в одной транзакции
// и возвращает количество удалённых строк по каждому набору.
func (s *PostgresStorage) DeleteAllUserData(ctx context.Context, chatID int64) (storages.DeletedCounts, error) {
	var counts storages.DeletedCounts

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		s.logger.Errorf("Failed to begin transaction: %v", err)
		return counts, fmt.Errorf("delete all user data: %w", storages.ErrStoreUnavailable)
	}
	defer tx.Rollback()

	deletions := []struct {
		query string
		count *int64
	}{
		{`DELETE FROM transactions WHERE chat_id = $1`, &counts.Transactions},
		{`DELETE FROM user_balances WHERE chat_id = $1`, &counts.Balances},
		{`DELETE FROM user_currencies WHERE chat_id = $1`, &counts.Currencies},
	}

	for _, d := range deletions {
		result, err := tx.ExecContext(ctx, d.query, chatID)
		if err != nil {
			s.logger.Errorf("Failed to delete user data for chat %d: %v", chatID, err)
			return storages.DeletedCounts{}, fmt.Errorf("delete all user data: %w", storages.ErrStoreUnavailable)
		}
		if *d.count, err = result.RowsAffected(); err != nil {
			s.logger.Errorf("Failed to count deleted rows: %v", err)
			return storages.DeletedCounts{}, fmt.Errorf("delete all user data: %w", storages.ErrStoreUnavailable)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Errorf("Failed to commit deletion: %v", err)
		return storages.DeletedCounts{}, fmt.Errorf("delete all user data: %w", storages.ErrStoreUnavailable)
	}

	s.logger.Infof("Chat %d data deleted: %d transactions, %d balance records, %d currency records",
		chatID, counts.Transactions, counts.Balances, counts.Currencies)
	return counts, nil
}
