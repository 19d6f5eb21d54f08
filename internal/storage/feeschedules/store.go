// Package feeschedules persists the custom fee schedules of tokens.
package feeschedules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/LeJamon/goHederad/internal/core/assess"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/types"
	"github.com/LeJamon/goHederad/internal/storage/database"
	"github.com/LeJamon/goHederad/internal/storage/encoding"
)

// DBName is the database the store keeps its schedules in.
const DBName = "feeschedules"

const (
	storeName      = "schedules"
	schedulePrefix = 's'
)

// Store keeps one fee schedule per token, with a read-through LRU cache.
// Tokens never written read as customfee.MissingMeta.
type Store struct {
	mu     sync.RWMutex
	db     database.DB
	codec  *encoding.Codec
	cache  *lru.Cache[types.TokenID, *customfee.Meta]
	logger zerolog.Logger
	obs    CacheObserver
}

var _ assess.ScheduleSource = (*Store)(nil)

// NewStore creates a store over db.
func NewStore(db database.DB, opts ...Option) (*Store, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	compressor, err := encoding.CompressorFor(cfg.Compression)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[types.TokenID, *customfee.Meta](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		codec:  encoding.NewCodec(compressor),
		cache:  cache,
		logger: cfg.Logger,
		obs:    cfg.Observer,
	}, nil
}

// LookupMetaFor returns the schedule of token.
func (s *Store) LookupMetaFor(ctx context.Context, token types.TokenID) (*customfee.Meta, error) {
	if meta, ok := s.cache.Get(token); ok {
		s.hit()
		return meta, nil
	}
	s.miss()

	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.read(ctx, token)
	if err != nil {
		return nil, err
	}
	s.cache.Add(token, meta)
	return meta, nil
}

func (s *Store) read(ctx context.Context, token types.TokenID) (*customfee.Meta, error) {
	blob, err := s.db.Read(ctx, keyOf(token))
	if errors.Is(err, database.ErrKeyNotFound) {
		return customfee.MissingMeta(token), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule of %s: %w", token, err)
	}
	return s.decode(blob)
}

func (s *Store) decode(blob []byte) (*customfee.Meta, error) {
	var rec customfee.MetaRecord
	if err := s.codec.Unmarshal(blob, &rec); err != nil {
		return nil, err
	}
	return rec.Meta()
}

// Put stores meta as the schedule of its token, replacing any previous one.
func (s *Store) Put(ctx context.Context, meta *customfee.Meta) error {
	return s.PutAll(ctx, []*customfee.Meta{meta})
}

// PutAll stores every schedule in a single batch.
func (s *Store) PutAll(ctx context.Context, metas []*customfee.Meta) error {
	ops := make([]database.BatchOperation, 0, len(metas))
	for _, meta := range metas {
		if err := meta.Validate(); err != nil {
			return fmt.Errorf("invalid schedule of %s: %w", meta.TokenID(), err)
		}
		blob, err := s.codec.Marshal(meta.Record())
		if err != nil {
			return fmt.Errorf("failed to encode schedule of %s: %w", meta.TokenID(), err)
		}
		ops = append(ops, database.BatchOperation{Type: database.BatchPut, Key: keyOf(meta.TokenID()), Value: blob})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Batch(ctx, ops); err != nil {
		return fmt.Errorf("failed to write schedules: %w", err)
	}
	for _, meta := range metas {
		s.cache.Add(meta.TokenID(), meta)
	}
	s.logger.Debug().Int("count", len(metas)).Msg("Stored fee schedules")
	return nil
}

// Delete removes the schedule of token, which then reads as missing.
func (s *Store) Delete(ctx context.Context, token types.TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Delete(ctx, keyOf(token)); err != nil {
		return fmt.Errorf("failed to delete schedule of %s: %w", token, err)
	}
	s.cache.Remove(token)
	return nil
}

// List returns every stored schedule ordered by token id.
func (s *Store) List(ctx context.Context) ([]*customfee.Meta, error) {
	prefix := []byte{schedulePrefix}
	it, err := s.db.Iterator(ctx, prefix, database.PrefixEnd(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer it.Close()

	var metas []*customfee.Meta
	for it.Next() {
		meta, err := s.decode(it.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to decode schedule at %x: %w", it.Key(), err)
		}
		metas = append(metas, meta)
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return metas, nil
}

// Purge drops the read cache
func (s *Store) Purge() {
	s.cache.Purge()
}

func (s *Store) hit() {
	if s.obs != nil {
		s.obs.CacheHit(storeName)
	}
}

func (s *Store) miss() {
	if s.obs != nil {
		s.obs.CacheMiss(storeName)
	}
}

func keyOf(token types.TokenID) []byte {
	return encoding.EntityKey(schedulePrefix, token.Shard, token.Realm, token.Num)
}
