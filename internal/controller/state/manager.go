package state

import (
	"sync"
)

// Manager хранит для каждого чата, какую неделю он сейчас смотрит
type Manager struct {
	mu      sync.RWMutex
	offsets map[int64]int // chatID -> смещение в неделях от текущей
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		offsets: make(map[int64]int),
	}
}

// GetOffset возвращает смещение недели чата; 0 - текущая неделя
func (sm *Manager) GetOffset(chatID int64) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.offsets[chatID]
}

// Shift сдвигает неделю чата на delta и возвращает новое смещение
func (sm *Manager) Shift(chatID int64, delta int) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	offset := sm.offsets[chatID] + delta
	if offset == 0 {
		// Текущая неделя - состояние по умолчанию, запись не нужна
		delete(sm.offsets, chatID)
		return 0
	}
	sm.offsets[chatID] = offset
	return offset
}

// Reset возвращает чат к текущей неделе
func (sm *Manager) Reset(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.offsets, chatID)
}
