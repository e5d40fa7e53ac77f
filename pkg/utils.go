package pkg

import (
	"fmt"
	"strings"
)

// Поддерживаемые валютные балансы и их символы для отчетов
var currencySymbols = map[string]string{
	"USD": "$",
	"CNY": "¥",
}

// ValidateCurrency проверяет, что валюта является одной из поддерживаемых
func ValidateCurrency(currency string) error {
	if _, ok := currencySymbols[NormalizeCurrency(currency)]; !ok {
		return fmt.Errorf("unsupported currency: %s", currency)
	}
	return nil
}

// NormalizeCurrency приводит код валюты к верхнему регистру
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// CurrencySymbol возвращает символ валюты, либо сам код, если символа нет
func CurrencySymbol(currency string) string {
	if symbol, ok := currencySymbols[NormalizeCurrency(currency)]; ok {
		return symbol
	}
	return currency
}

// SupportedCurrencies возвращает коды поддерживаемых валют
func SupportedCurrencies() []string {
	return []string{"USD", "CNY"}
}
