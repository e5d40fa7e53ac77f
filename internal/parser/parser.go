package parser

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Ошибки разбора показываются пользователю как есть
var (
	ErrBadFormat = errors.New(`❌ Неверный формат. Используйте: "Категория, Сумма"`)
	ErrBadAmount = errors.New("❌ Сумма должна быть числом")
)

// Operation результат разбора строки "Категория, Сумма"
type Operation struct {
	Category string
	Amount   decimal.Decimal
	IsIncome bool
}

// Parser разбирает текстовые строки операций. Список категорий-доходов
// приходит из конфигурации, а не зашит в код.
type Parser struct {
	income map[string]struct{}
}

// New создает парсер с заданным списком категорий-доходов
func New(incomeCategories []string) *Parser {
	income := make(map[string]struct{}, len(incomeCategories))
	for _, c := range incomeCategories {
		income[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return &Parser{income: income}
}

// Parse разбирает строку операции. Категория приводится к нижнему регистру,
// операция считается доходом, если категория есть в списке доходов.
// Отрицательные суммы допустимы: ими пользуются валютные балансы для списания.
func (p *Parser) Parse(text string) (Operation, error) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 2 {
		return Operation{}, ErrBadFormat
	}

	category := strings.ToLower(strings.TrimSpace(parts[0]))
	if category == "" {
		return Operation{}, ErrBadFormat
	}

	amount, err := ParseAmount(parts[1])
	if err != nil {
		return Operation{}, err
	}

	_, isIncome := p.income[category]

	return Operation{
		Category: category,
		Amount:   amount,
		IsIncome: isIncome,
	}, nil
}

// IsIncome сообщает, относится ли категория к доходам
func (p *Parser) IsIncome(category string) bool {
	_, ok := p.income[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// ParseAmount разбирает денежную сумму: пробелы убираются,
// десятичная запятая заменяется точкой.
func ParseAmount(text string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrBadAmount
	}
	return amount, nil
}
