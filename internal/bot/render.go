package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aquarosarium/HandOfMidas-bot/internal/stats"
	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
	"github.com/aquarosarium/HandOfMidas-bot/pkg"
)

const msgGenericError = "❌ Произошла ошибка, попробуйте позже"

func rub(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " руб."
}

func startText(balance decimal.Decimal) string {
	return fmt.Sprintf(
		"Привет! Отправь операцию в формате: \"Категория, Сумма\"\n"+
			"Например: \"Продукты, 1500\" - для расходов\n"+
			"Или: \"Зарплата, 50000\" - для доходов\n\n"+
			"Текущий баланс: %s\n\n"+
			"Используй кнопки для просмотра статистики 📊 или настроек ⚙️",
		rub(balance),
	)
}

func mainMenuText(balance decimal.Decimal, currencies []storages.CurrencyBalance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Главное меню\n\n💵 Текущий баланс: %s", rub(balance))

	if len(currencies) > 0 {
		b.WriteString("\n\n💱 Валютные балансы:\n")
		for _, c := range currencies {
			fmt.Fprintf(&b, "• %s: %s%s\n", c.Currency, c.Amount.StringFixed(2), pkg.CurrencySymbol(c.Currency))
		}
	} else {
		b.WriteString("\n\n💱 Валютные балансы отсутствуют\nДля добавления перейдите в Настройки → Валюты")
	}

	return b.String()
}

func settingsText(balance decimal.Decimal, operations, currencies int) string {
	return fmt.Sprintf(
		"⚙️ Настройки\n\n"+
			"Текущий баланс: %s\n"+
			"Количество операций: %d\n"+
			"Количество валют: %d\n\n"+
			"Выберите действие:",
		rub(balance), operations, currencies,
	)
}

func currenciesMenuText(currencies []storages.CurrencyBalance) string {
	var b strings.Builder
	b.WriteString("💱 Управление валютами\n\n")

	if len(currencies) > 0 {
		b.WriteString("Ваши валютные балансы:\n")
		for _, c := range currencies {
			fmt.Fprintf(&b, "• %s: %s%s\n", c.Currency, c.Amount.StringFixed(2), pkg.CurrencySymbol(c.Currency))
		}
		b.WriteString("\n")
	} else {
		b.WriteString("У вас пока нет валютных балансов\n\n")
	}

	fmt.Fprintf(&b, "Поддерживаемые валюты: %s\n", strings.Join(pkg.SupportedCurrencies(), ", "))
	b.WriteString("Нажмите на валюту чтобы открыть её баланс:")
	return b.String()
}

func openCurrencyText(currency string, amount decimal.Decimal) string {
	return fmt.Sprintf(
		"💵 Установка баланса %s\n\n"+
			"Текущий баланс: %s%s\n\n"+
			"Для пополнения операцией используйте: \"%s, 50\"\n"+
			"Для списания: \"%s, -30\"\n\n"+
			"Введите новое значение баланса (например: 100 или 150.50):\n"+
			"Или нажмите '%s' для возврата",
		currency, amount.StringFixed(2), pkg.CurrencySymbol(currency), currency, currency, BtnCancel,
	)
}

func deleteAllWarningText(balance decimal.Decimal, operations int) string {
	return fmt.Sprintf(
		"🗑️ Сброс всех данных\n\n"+
			"⚠️ ⚠️ ⚠️ ВНИМАНИЕ! ⚠️ ⚠️ ⚠️\n\n"+
			"Это действие УДАЛИТ ВСЕ ваши данные:\n"+
			"• Операций расходов/доходов: %d\n"+
			"• Текущий баланс: %s\n\n"+
			"❌ Это действие НЕЛЬЗЯ отменить!\n"+
			"❌ Данные будут удалены НАВСЕГДА!\n\n"+
			"Для подтверждения нажмите '%s'\n"+
			"Для отмены нажмите '%s'",
		operations, rub(balance), BtnConfirmDeleteAll, BtnCancel,
	)
}

func deleteReminderText() string {
	return fmt.Sprintf(
		"⚠️ Пожалуйста, используйте кнопки для подтверждения:\n"+
			"• '%s' - для подтверждения удаления\n"+
			"• '%s' - для отмены",
		BtnConfirmDeleteAll, BtnCancel,
	)
}

func deletedText(counts storages.DeletedCounts) string {
	return fmt.Sprintf(
		"✅ Все данные успешно удалены!\n\n"+
			"Удалено:\n"+
			"• Операций расходов/доходов: %d\n"+
			"• Записей баланса: %d\n"+
			"• Валютных балансов: %d\n\n"+
			"Бот готов к работе с чистого листа!",
		counts.Transactions, counts.Balances, counts.Currencies,
	)
}

// statisticsText собирает отчет за период: расходы и доходы по категориям,
// итоги, строка результата по знаку сальдо и балансы.
func statisticsText(report stats.Report, period stats.Period, balanceLine string, currencies []storages.CurrencyBalance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Статистика за %s:\n\n", period.Icon, period.Name)

	if len(report.ExpensesByCategory) > 0 {
		b.WriteString("📤 Расходы:\n")
		for _, c := range report.ExpensesByCategory {
			fmt.Fprintf(&b, "• %s: %s\n", c.Category, rub(c.Total))
		}
		fmt.Fprintf(&b, "\n💰 Итого расходов: %s\n\n", rub(report.TotalExpenses))
	} else {
		b.WriteString("📤 Расходов нет\n\n")
	}

	if len(report.IncomeByCategory) > 0 {
		b.WriteString("📥 Доходы:\n")
		for _, c := range report.IncomeByCategory {
			fmt.Fprintf(&b, "• %s: %s\n", c.Category, rub(c.Total))
		}
		fmt.Fprintf(&b, "\n💳 Итого доходов: %s\n\n", rub(report.TotalIncome))
	} else {
		b.WriteString("📥 Доходов нет\n\n")
	}

	b.WriteString(netLine(report.Net))
	b.WriteString("\n")
	b.WriteString(balanceLine)
	b.WriteString("\n")

	for _, c := range currencies {
		fmt.Fprintf(&b, "💵 %s: %s%s\n", c.Currency, c.Amount.StringFixed(2), pkg.CurrencySymbol(c.Currency))
	}

	return b.String()
}

// netLine подписывает сальдо периода: прибыль, убыток или ровно ноль
func netLine(net decimal.Decimal) string {
	switch net.Sign() {
	case 1:
		return fmt.Sprintf("📈 Прибыль за период: %s", rub(net))
	case -1:
		return fmt.Sprintf("📉 Убыток за период: %s", rub(net.Abs()))
	default:
		return "⚖️ За период вы вышли в ноль"
	}
}
