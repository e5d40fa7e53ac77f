package storages

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction представляет операцию дохода или расхода.
// Записи неизменяемы: создаются при разборе сообщения и удаляются
// только массово вместе с остальными данными чата.
type Transaction struct {
	ID       int64           `db:"id"`
	ChatID   int64           `db:"chat_id"`
	Date     time.Time       `db:"date"`
	Category string          `db:"category"`
	Amount   decimal.Decimal `db:"amount"`
	Kind     string          `db:"type"` // income, expense
}

// Balance представляет рублевый баланс чата (одна запись на чат)
type Balance struct {
	ChatID      int64           `db:"chat_id"`
	Amount      decimal.Decimal `db:"balance"`
	LastUpdated time.Time       `db:"last_updated"`
}

// CurrencyBalance представляет валютный баланс чата.
// Это независимый накопитель, он не выводится из операций.
type CurrencyBalance struct {
	ID          int64           `db:"id"`
	ChatID      int64           `db:"chat_id"`
	Currency    string          `db:"currency"` // USD, CNY
	Amount      decimal.Decimal `db:"amount"`
	LastUpdated time.Time       `db:"last_updated"`
}

// Kind определяет типы операций
const (
	KindIncome  = "income"
	KindExpense = "expense"
)
