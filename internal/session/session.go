// Package session управляет сохранённой сессией пользователя.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/mmeshcher/storefront-client/internal/model"
	"github.com/mmeshcher/storefront-client/internal/storage"
)

const storageKey = "auth_session"

// Manager загружает и сохраняет сессию в key-value хранилище.
type Manager struct {
	store storage.Store
}

// NewManager создаёт менеджер сессии поверх указанного хранилища.
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// Load возвращает сохранённую сессию. Отсутствие или повреждение данных
// трактуется как отсутствие входа, не как ошибка.
func (m *Manager) Load() (*model.Session, bool) {
	raw, err := m.store.Get(storageKey)
	if err != nil {
		return nil, false
	}

	var s model.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, false
	}
	if s.Token == "" {
		return nil, false
	}
	return &s, true
}

// SignIn сохраняет сессию пользователя.
func (m *Manager) SignIn(s model.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(storageKey, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut удаляет сохранённую сессию.
func (m *Manager) SignOut() error {
	if err := m.store.Remove(storageKey); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
