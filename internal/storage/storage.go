// Package storage opens the configured database backend.
package storage

import (
	"fmt"
	"os"

	"github.com/LeJamon/goHederad/internal/storage/database"
	"github.com/LeJamon/goHederad/internal/storage/database/bbolt"
	"github.com/LeJamon/goHederad/internal/storage/database/memory"
	"github.com/LeJamon/goHederad/internal/storage/database/pebble"
)

// Backend names accepted by NewManager.
const (
	BackendPebble = "pebble"
	BackendBBolt  = "bbolt"
	BackendMemory = "memory"
)

// Backends lists every supported backend
func Backends() []string {
	return []string{BackendPebble, BackendBBolt, BackendMemory}
}

// NewManager returns a database manager for backend rooted at path. The
// path is created if missing; it is ignored by the memory backend.
func NewManager(backend, path string, cacheSize int64) (database.Manager, error) {
	switch backend {
	case BackendMemory:
		return memory.NewManager(), nil
	case BackendPebble, BackendBBolt:
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", path, err)
		}
		if backend == BackendPebble {
			return pebble.NewManager(path, cacheSize), nil
		}
		return bbolt.NewManager(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, backend)
	}
}
