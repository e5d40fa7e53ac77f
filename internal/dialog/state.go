package dialog

import "sync"

// Kind режим многошагового ввода, в котором находится чат
type Kind int

const (
	// Idle — режима нет, свободный текст трактуется как операция
	Idle Kind = iota
	// SettingBalance — следующий текст трактуется как новое значение баланса
	SettingBalance
	// ResettingBalance — ожидается подтверждение сброса баланса
	ResettingBalance
	// DeletingAllData — ожидается подтверждение удаления всех данных,
	// свободный текст в этом режиме блокируется
	DeletingAllData
	// SettingCurrency — следующий текст трактуется как сумма валюты Currency
	SettingCurrency
)

// State состояние диалога одного чата. В каждый момент у чата ровно одно
// состояние: установка нового полностью заменяет предыдущее.
type State struct {
	Kind     Kind
	Currency string // заполнено только для SettingCurrency
}

// Store хранит состояния диалогов в памяти по идентификатору чата.
// Состояния не переживают перезапуск процесса, это ожидаемое поведение.
type Store struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewStore создает пустое хранилище состояний
func NewStore() *Store {
	return &Store{states: make(map[int64]State)}
}

// Get возвращает текущее состояние чата (Idle, если состояния нет)
func (s *Store) Get(chatID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[chatID]
}

// Set переводит чат в новое состояние, заменяя предыдущее целиком
func (s *Store) Set(chatID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.Kind == Idle {
		delete(s.states, chatID)
		return
	}
	s.states[chatID] = state
}

// Clear сбрасывает состояние чата в Idle независимо от того, каким оно было
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
}
