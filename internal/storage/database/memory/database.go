// Package memory is a process-local database backend, used in tests and by
// `hederad assess` runs that do not need durable state.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/LeJamon/goHederad/internal/storage/database"
)

type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewDB() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, database.ErrDBClosed
	}
	val, ok := m.data[string(key)]
	if !ok {
		return nil, database.ErrKeyNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}
	delete(m.data, string(key))
	return nil
}

// Batch applies ops atomically: an invalid op leaves the database untouched.
func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return database.ErrDBClosed
	}
	for _, op := range ops {
		if op.Type == database.BatchPut {
			m.data[string(op.Key)] = append([]byte(nil), op.Value...)
		} else {
			delete(m.data, string(op.Key))
		}
	}
	return nil
}

// Iterator walks a snapshot of the keys in [start, end) taken at creation.
func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, database.ErrDBClosed
	}

	it := &Iterator{pos: -1}
	for k, v := range m.data {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		it.keys = append(it.keys, key)
		it.values = append(it.values, append([]byte(nil), v...))
	}
	sort.Sort(byKey{it})
	return it, nil
}

func (m *DB) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
}

type Iterator struct {
	keys   [][]byte
	values [][]byte
	pos    int
}

func (it *Iterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		it.pos = len(it.keys)
		return false
	}
	it.pos++
	return true
}

func (it *Iterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.keys) {
		return nil
	}
	return it.keys[it.pos]
}

func (it *Iterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.values) {
		return nil
	}
	return it.values[it.pos]
}

func (it *Iterator) Error() error { return nil }

func (it *Iterator) Close() error { return nil }

type byKey struct{ it *Iterator }

func (s byKey) Len() int { return len(s.it.keys) }

func (s byKey) Less(i, j int) bool { return bytes.Compare(s.it.keys[i], s.it.keys[j]) < 0 }

func (s byKey) Swap(i, j int) {
	s.it.keys[i], s.it.keys[j] = s.it.keys[j], s.it.keys[i]
	s.it.values[i], s.it.values[j] = s.it.values[j], s.it.values[i]
}
