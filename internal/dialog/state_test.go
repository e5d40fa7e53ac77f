package dialog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultsToIdle(t *testing.T) {
	store := NewStore()

	state := store.Get(42)
	assert.Equal(t, Idle, state.Kind)
	assert.Empty(t, state.Currency)
}

func TestSetReplacesWholeState(t *testing.T) {
	store := NewStore()

	store.Set(42, State{Kind: SettingCurrency, Currency: "USD"})
	store.Set(42, State{Kind: SettingBalance})

	state := store.Get(42)
	assert.Equal(t, SettingBalance, state.Kind)
	// валюта прошлого режима не протекает в новый
	assert.Empty(t, state.Currency)
}

func TestSetIdleRemovesState(t *testing.T) {
	store := NewStore()

	store.Set(42, State{Kind: DeletingAllData})
	store.Set(42, State{Kind: Idle})

	assert.Equal(t, Idle, store.Get(42).Kind)
}

func TestClear(t *testing.T) {
	store := NewStore()

	store.Set(42, State{Kind: ResettingBalance})
	store.Clear(42)

	assert.Equal(t, Idle, store.Get(42).Kind)

	// повторный Clear безопасен
	store.Clear(42)
	assert.Equal(t, Idle, store.Get(42).Kind)
}

func TestStatesAreIndependentPerChat(t *testing.T) {
	store := NewStore()

	store.Set(1, State{Kind: SettingBalance})
	store.Set(2, State{Kind: SettingCurrency, Currency: "CNY"})

	assert.Equal(t, SettingBalance, store.Get(1).Kind)
	assert.Equal(t, "CNY", store.Get(2).Currency)
	assert.Equal(t, Idle, store.Get(3).Kind)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			store.Set(chatID, State{Kind: SettingBalance})
			store.Get(chatID)
			store.Clear(chatID)
		}(int64(i % 5))
	}
	wg.Wait()
}
