package memory

import (
	"fmt"
	"sync"

	"github.com/LeJamon/goHederad/internal/storage/database"
)

type Manager struct {
	dbs map[string]*DB
	mu  sync.Mutex
}

func NewManager() *Manager {
	return &Manager{dbs: make(map[string]*DB)}
}

var _ database.Manager = (*Manager)(nil)

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return db, nil
	}
	db := NewDB()
	m.dbs[name] = db
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("database %s: %w", name, database.ErrNamespaceNotFound)
	}
	db.close()
	delete(m.dbs, name)
	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, db := range m.dbs {
		db.close()
		delete(m.dbs, name)
	}
	return nil
}
