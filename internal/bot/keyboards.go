package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
)

// Подписи кнопок. Это контракт между клавиатурами и диспетчером:
// диспетчер узнает кнопки по точному совпадению текста.
const (
	BtnStatistics       = "📊 Статистика"
	BtnSettings         = "⚙️ Настройки"
	BtnDay              = "📅 День"
	BtnWeek             = "📆 Неделя"
	BtnMonth            = "📈 Месяц"
	BtnSetBalance       = "💰 Установить баланс"
	BtnResetBalance     = "🔄 Сбросить баланс"
	BtnCurrencies       = "💱 Валюты"
	BtnDeleteAllData    = "🗑️ Сбросить все данные"
	BtnBack             = "⬅️ Назад"
	BtnCancel           = "❌ Отмена"
	BtnConfirmDeleteAll = "✅ ДА, удалить все"
	BtnUSD              = "💵 USD"
	BtnCNY              = "💴 CNY"
	BtnDeleteCurrency   = "🗑️ Удалить валюту"
	BtnDeleteUSD        = "❌ Удалить USD"
	BtnDeleteCNY        = "❌ Удалить CNY"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnStatistics)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSettings)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func statisticsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnDay)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnWeek)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnMonth)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func settingsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnSetBalance)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnResetBalance)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCurrencies)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnDeleteAllData)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func currenciesKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnUSD)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCNY)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnDeleteCurrency)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

// deleteCurrencyKeyboard строится из балансов, которые у чата реально есть
func deleteCurrencyKeyboard(currencies []storages.CurrencyBalance) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, c := range currencies {
		switch c.Currency {
		case "USD":
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnDeleteUSD)))
		case "CNY":
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnDeleteCNY)))
		}
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func confirmationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnConfirmDeleteAll)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}
