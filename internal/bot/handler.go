package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/aquarosarium/HandOfMidas-bot/internal/dialog"
	"github.com/aquarosarium/HandOfMidas-bot/internal/parser"
	"github.com/aquarosarium/HandOfMidas-bot/internal/service"
	"github.com/aquarosarium/HandOfMidas-bot/internal/stats"
	"github.com/aquarosarium/HandOfMidas-bot/pkg"
)

// sender минимальный интерфейс отправки сообщений, его реализует *tgbotapi.BotAPI
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler принимает текстовые сообщения и разводит их по обработчикам.
// Порядок диспетчеризации строгий: сперва точное совпадение с кнопкой
// (кнопка выводит из любого режима), затем активный режим диалога,
// и только потом текст разбирается как операция.
type Handler struct {
	api       sender
	service   *service.FinanceService
	states    *dialog.Store
	parser    *parser.Parser
	logger    *logrus.Logger
	timeout   time.Duration
	labels    map[string]func(ctx context.Context, chatID int64)
	chatLocks sync.Map // int64 -> *sync.Mutex
}

// New создает обработчик сообщений
func New(api sender, svc *service.FinanceService, states *dialog.Store, p *parser.Parser, logger *logrus.Logger, timeout time.Duration) *Handler {
	h := &Handler{
		api:     api,
		service: svc,
		states:  states,
		parser:  p,
		logger:  logger,
		timeout: timeout,
	}

	h.labels = map[string]func(context.Context, int64){
		BtnStatistics:       h.showStatisticsMenu,
		BtnSettings:         h.showSettingsMenu,
		BtnDay:              func(ctx context.Context, chatID int64) { h.showStatistics(ctx, chatID, stats.PeriodDay) },
		BtnWeek:             func(ctx context.Context, chatID int64) { h.showStatistics(ctx, chatID, stats.PeriodWeek) },
		BtnMonth:            func(ctx context.Context, chatID int64) { h.showStatistics(ctx, chatID, stats.PeriodMonth) },
		BtnSetBalance:       h.startSetBalance,
		BtnResetBalance:     h.startResetBalance,
		BtnCurrencies:       h.showCurrenciesMenu,
		BtnDeleteAllData:    h.startDeleteAllData,
		BtnBack:             h.showMainMenu,
		BtnCancel:           h.cancelOperation,
		BtnConfirmDeleteAll: h.processDeleteAllData,
		BtnUSD:              func(ctx context.Context, chatID int64) { h.openCurrency(ctx, chatID, "USD") },
		BtnCNY:              func(ctx context.Context, chatID int64) { h.openCurrency(ctx, chatID, "CNY") },
		BtnDeleteCurrency:   h.showDeleteCurrencyMenu,
		BtnDeleteUSD:        func(ctx context.Context, chatID int64) { h.deleteCurrency(ctx, chatID, "USD") },
		BtnDeleteCNY:        func(ctx context.Context, chatID int64) { h.deleteCurrency(ctx, chatID, "CNY") },
	}

	return h
}

// Run обрабатывает обновления до закрытия канала. Сообщения разных чатов
// обрабатываются параллельно, внутри одного чата — строго по одному.
func (h *Handler) Run(updates tgbotapi.UpdatesChannel) {
	var wg sync.WaitGroup
	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		msg := update.Message
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.handleMessage(msg)
		}()
	}
	wg.Wait()
}

func (h *Handler) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	lock := h.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if msg.IsCommand() {
		if msg.Command() == "start" {
			h.handleStart(ctx, chatID)
		}
		return
	}

	h.dispatch(ctx, chatID, msg.Text)
}

// dispatch реализует порядок: кнопка -> режим -> операция
func (h *Handler) dispatch(ctx context.Context, chatID int64, text string) {
	if handle, ok := h.labels[text]; ok {
		handle(ctx, chatID)
		return
	}

	state := h.states.Get(chatID)
	switch state.Kind {
	case dialog.SettingBalance:
		h.processBalanceInput(ctx, chatID, text)
	case dialog.ResettingBalance:
		h.processResetConfirmation(ctx, chatID, text)
	case dialog.DeletingAllData:
		// свободный текст здесь блокируется: подтвердить удаление можно
		// только кнопками, до разбора операции текст не доходит
		h.send(chatID, deleteReminderText(), confirmationKeyboard())
	case dialog.SettingCurrency:
		h.processCurrencyInput(ctx, chatID, state.Currency, text)
	case dialog.Idle:
		h.processOperation(ctx, chatID, text)
	default:
		h.logger.Warnf("Unknown dialog state %d for chat %d, clearing", state.Kind, chatID)
		h.states.Clear(chatID)
	}
}

func (h *Handler) handleStart(ctx context.Context, chatID int64) {
	balance, err := h.service.Balance(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "start", err)
		return
	}

	h.send(chatID, startText(balance), mainKeyboard())
	h.logger.Infof("Chat %d started the bot", chatID)
}

// processOperation разбирает свободный текст как операцию "Категория, Сумма".
// Ошибки разбора показываются пользователю дословно и ничего не меняют.
func (h *Handler) processOperation(ctx context.Context, chatID int64, text string) {
	op, err := h.parser.Parse(text)
	if err != nil {
		h.send(chatID, err.Error(), mainKeyboard())
		h.logger.Warnf("Chat %d input error: %v", chatID, err)
		return
	}

	if err := h.service.AddOperation(ctx, chatID, op.Category, op.Amount, op.IsIncome); err != nil {
		h.reportFailure(chatID, "add operation", err)
		return
	}

	kind := "расход"
	if op.IsIncome {
		kind = "доход"
	}
	h.send(chatID, fmt.Sprintf("✅ Запись добавлена: %s - %s (%s)", op.Category, rub(op.Amount), kind), mainKeyboard())
}

// Меню

func (h *Handler) showMainMenu(ctx context.Context, chatID int64) {
	balance, err := h.service.Balance(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "main menu", err)
		return
	}

	currencies, err := h.service.Currencies(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "main menu", err)
		return
	}

	h.send(chatID, mainMenuText(balance, currencies), mainKeyboard())
}

func (h *Handler) showStatisticsMenu(_ context.Context, chatID int64) {
	h.send(chatID, "Выберите период для просмотра статистики:", statisticsKeyboard())
}

func (h *Handler) showSettingsMenu(ctx context.Context, chatID int64) {
	balance, operations, currencies, err := h.service.Overview(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "settings menu", err)
		return
	}

	h.send(chatID, settingsText(balance, operations, currencies), settingsKeyboard())
}

// Статистика

func (h *Handler) showStatistics(ctx context.Context, chatID int64, kind stats.PeriodKind) {
	report, period, err := h.service.Statistics(ctx, chatID, kind)
	if err != nil {
		h.reportFailure(chatID, "statistics", err)
		return
	}

	// Для дня показываем текущий баланс, для недели и месяца — итог периода
	var balanceLine string
	if kind == stats.PeriodDay {
		balance, err := h.service.Balance(ctx, chatID)
		if err != nil {
			h.reportFailure(chatID, "statistics", err)
			return
		}
		balanceLine = fmt.Sprintf("💵 Баланс: %s", rub(balance))
	} else {
		balanceLine = fmt.Sprintf("💵 Итого за период: %s", rub(report.Net))
	}

	currencies, err := h.service.Currencies(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "statistics", err)
		return
	}

	h.send(chatID, statisticsText(report, period, balanceLine, currencies), statisticsKeyboard())
	h.logger.Infof("Chat %d viewed statistics for period %s - %s",
		chatID, period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
}

// Баланс

func (h *Handler) startSetBalance(ctx context.Context, chatID int64) {
	balance, err := h.service.Balance(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "set balance", err)
		return
	}

	h.states.Set(chatID, dialog.State{Kind: dialog.SettingBalance})

	h.send(chatID, fmt.Sprintf(
		"💰 Установка баланса\n\n"+
			"Текущий баланс: %s\n\n"+
			"Введите новое значение баланса (например: 10000 или 1500.50):\n"+
			"Или нажмите '%s' для возврата",
		rub(balance), BtnCancel,
	), cancelKeyboard())
}

func (h *Handler) processBalanceInput(ctx context.Context, chatID int64, text string) {
	value, err := parser.ParseAmount(text)
	if err != nil {
		// режим не выходит: пользователь может попробовать ещё раз
		h.send(chatID, "❌ Неверный формат числа. Введите число (например: 10000 или 1500.50):", cancelKeyboard())
		return
	}

	balance, err := h.service.SetBalance(ctx, chatID, value)
	if err != nil {
		h.states.Clear(chatID)
		h.reportFailure(chatID, "set balance", err)
		return
	}

	h.states.Clear(chatID)
	h.send(chatID, fmt.Sprintf("✅ Баланс успешно установлен: %s", rub(balance)), mainKeyboard())
	h.logger.Infof("Chat %d set balance to %s", chatID, balance.StringFixed(2))
}

func (h *Handler) startResetBalance(ctx context.Context, chatID int64) {
	balance, err := h.service.Balance(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "reset balance", err)
		return
	}

	h.states.Set(chatID, dialog.State{Kind: dialog.ResettingBalance})

	h.send(chatID, fmt.Sprintf(
		"🔄 Сброс баланса\n\n"+
			"Текущий баланс: %s\n\n"+
			"Вы уверены, что хотите сбросить баланс до 0?\n"+
			"Это действие нельзя отменить!\n\n"+
			"Введите 'ДА' для подтверждения или '%s' для отмены:",
		rub(balance), BtnCancel,
	), cancelKeyboard())
}

func (h *Handler) processResetConfirmation(ctx context.Context, chatID int64, text string) {
	if !strings.EqualFold(strings.TrimSpace(text), "ДА") {
		h.send(chatID, fmt.Sprintf("❌ Сброс баланса отменен. Введите 'ДА' для подтверждения или '%s' для выхода:", BtnCancel), cancelKeyboard())
		return
	}

	if err := h.service.ResetBalance(ctx, chatID); err != nil {
		h.states.Clear(chatID)
		h.reportFailure(chatID, "reset balance", err)
		return
	}

	h.states.Clear(chatID)
	h.send(chatID, "✅ Баланс успешно сброшен до 0 руб.", mainKeyboard())
	h.logger.Infof("Chat %d reset balance to 0", chatID)
}

// Удаление всех данных

func (h *Handler) startDeleteAllData(ctx context.Context, chatID int64) {
	balance, operations, _, err := h.service.Overview(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "delete all data", err)
		return
	}

	h.states.Set(chatID, dialog.State{Kind: dialog.DeletingAllData})
	h.send(chatID, deleteAllWarningText(balance, operations), confirmationKeyboard())
}

func (h *Handler) processDeleteAllData(ctx context.Context, chatID int64) {
	counts, err := h.service.DeleteAllData(ctx, chatID)
	if err != nil {
		h.states.Clear(chatID)
		h.reportFailure(chatID, "delete all data", err)
		return
	}

	h.states.Clear(chatID)
	h.send(chatID, deletedText(counts), mainKeyboard())
	h.logger.Infof("Chat %d deleted all data: %d transactions, %d balance records, %d currency records",
		chatID, counts.Transactions, counts.Balances, counts.Currencies)
}

// cancelOperation выводит чат из любого режима
func (h *Handler) cancelOperation(ctx context.Context, chatID int64) {
	h.states.Clear(chatID)

	balance, err := h.service.Balance(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "cancel", err)
		return
	}

	h.send(chatID, fmt.Sprintf("Операция отменена.\n\nТекущий баланс: %s", rub(balance)), mainKeyboard())
	h.logger.Infof("Chat %d cancelled operation", chatID)
}

// Валюты

func (h *Handler) showCurrenciesMenu(ctx context.Context, chatID int64) {
	currencies, err := h.service.Currencies(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "currencies menu", err)
		return
	}

	h.send(chatID, currenciesMenuText(currencies), currenciesKeyboard())
}

// openCurrency открывает валютный баланс (создает при отсутствии)
// и переводит чат в режим ввода новой суммы
func (h *Handler) openCurrency(ctx context.Context, chatID int64, currency string) {
	amount, err := h.service.OpenCurrencyBalance(ctx, chatID, currency)
	if err != nil {
		h.reportFailure(chatID, "open currency", err)
		return
	}

	h.states.Set(chatID, dialog.State{Kind: dialog.SettingCurrency, Currency: currency})
	h.send(chatID, openCurrencyText(currency, amount), cancelKeyboard())
}

func (h *Handler) processCurrencyInput(ctx context.Context, chatID int64, currency, text string) {
	amount, err := parser.ParseAmount(text)
	if err != nil {
		h.send(chatID, fmt.Sprintf("❌ Неверный формат числа. Введите сумму в %s (например: 100 или 150.50):", currency), cancelKeyboard())
		return
	}

	if err := h.service.SetCurrencyBalance(ctx, chatID, currency, amount); err != nil {
		h.states.Clear(chatID)
		h.reportFailure(chatID, "set currency balance", err)
		return
	}

	h.states.Clear(chatID)
	h.send(chatID, fmt.Sprintf("✅ Баланс %s успешно установлен: %s%s",
		currency, amount.StringFixed(2), pkg.CurrencySymbol(currency)), currenciesKeyboard())
	h.logger.Infof("Chat %d set %s balance to %s", chatID, currency, amount.StringFixed(2))
}

func (h *Handler) showDeleteCurrencyMenu(ctx context.Context, chatID int64) {
	currencies, err := h.service.Currencies(ctx, chatID)
	if err != nil {
		h.reportFailure(chatID, "delete currency menu", err)
		return
	}

	if len(currencies) == 0 {
		h.send(chatID, "❌ У вас нет валютных балансов для удаления", currenciesKeyboard())
		return
	}

	h.send(chatID, "Выберите валюту для удаления:", deleteCurrencyKeyboard(currencies))
}

func (h *Handler) deleteCurrency(ctx context.Context, chatID int64, currency string) {
	deleted, err := h.service.DeleteCurrency(ctx, chatID, currency)
	if err != nil {
		h.reportFailure(chatID, "delete currency", err)
		return
	}

	if deleted {
		h.send(chatID, fmt.Sprintf("✅ Баланс %s успешно удален", currency), currenciesKeyboard())
		h.logger.Infof("Chat %d deleted %s balance", chatID, currency)
	} else {
		h.send(chatID, fmt.Sprintf("❌ Баланс %s не найден", currency), currenciesKeyboard())
	}
}

// Вспомогательные

func (h *Handler) send(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := h.api.Send(msg); err != nil {
		h.logger.Errorf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// reportFailure логирует ошибку хранилища с контекстом и отвечает
// пользователю общим сообщением без внутренних деталей
func (h *Handler) reportFailure(chatID int64, operation string, err error) {
	h.logger.WithFields(logrus.Fields{
		"chat_id":   chatID,
		"operation": operation,
	}).Errorf("Operation failed: %v", err)

	h.send(chatID, msgGenericError, mainKeyboard())
}

func (h *Handler) chatLock(chatID int64) *sync.Mutex {
	lock, _ := h.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
