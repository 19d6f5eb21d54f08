// Package aliases persists the mapping from account aliases to account ids.
package aliases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/LeJamon/goHederad/internal/core/marshal"
	"github.com/LeJamon/goHederad/internal/core/types"
	"github.com/LeJamon/goHederad/internal/storage/database"
	"github.com/LeJamon/goHederad/internal/storage/encoding"
)

// DBName is the database the index keeps its links in.
const DBName = "aliases"

const (
	indexName   = "aliases"
	aliasPrefix = 'a'

	// DefaultCacheSize is the number of lookups kept in the read cache.
	DefaultCacheSize = 4096
)

// ErrEmptyAlias is returned when linking an empty alias
var ErrEmptyAlias = errors.New("empty alias")

// CacheObserver is told about read cache hits and misses.
type CacheObserver interface {
	CacheHit(store string)
	CacheMiss(store string)
}

type entry struct {
	id    types.AccountID
	found bool
}

// Index maps aliases to accounts. Lookups of unlinked aliases are cached too,
// so linking an alias must go through the same Index.
type Index struct {
	mu     sync.RWMutex
	db     database.DB
	codec  *encoding.Codec
	cache  *lru.Cache[types.Alias, entry]
	logger zerolog.Logger
	obs    CacheObserver
}

var _ marshal.AliasIndex = (*Index)(nil)

// Option configures an Index.
type Option func(*Index)

func WithLogger(logger zerolog.Logger) Option {
	return func(i *Index) {
		i.logger = logger
	}
}

func WithCacheObserver(obs CacheObserver) Option {
	return func(i *Index) {
		i.obs = obs
	}
}

// NewIndex creates an index over db caching up to cacheSize lookups.
func NewIndex(db database.DB, cacheSize int, opts ...Option) (*Index, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[types.Alias, entry](cacheSize)
	if err != nil {
		return nil, err
	}
	i := &Index{
		db:     db,
		codec:  encoding.NewCodec(encoding.NoCompressor{}),
		cache:  cache,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Lookup returns the account alias is linked to.
func (i *Index) Lookup(ctx context.Context, alias types.Alias) (types.AccountID, bool, error) {
	if e, ok := i.cache.Get(alias); ok {
		i.observe(true)
		return e.id, e.found, nil
	}
	i.observe(false)

	i.mu.RLock()
	defer i.mu.RUnlock()

	blob, err := i.db.Read(ctx, keyOf(alias))
	if errors.Is(err, database.ErrKeyNotFound) {
		i.cache.Add(alias, entry{})
		return types.MissingAccountID, false, nil
	}
	if err != nil {
		return types.AccountID{}, false, fmt.Errorf("failed to read alias %s: %w", alias, err)
	}

	var id types.AccountID
	if err := i.codec.Unmarshal(blob, &id); err != nil {
		return types.AccountID{}, false, fmt.Errorf("failed to decode alias %s: %w", alias, err)
	}
	i.cache.Add(alias, entry{id: id, found: true})
	return id, true, nil
}

// Link points alias at id, replacing any previous link.
func (i *Index) Link(ctx context.Context, alias types.Alias, id types.AccountID) error {
	if alias == "" {
		return ErrEmptyAlias
	}
	if id.IsMissing() {
		return fmt.Errorf("cannot link alias %s to %s: %w", alias, id, types.ErrInvalidEntityID)
	}
	blob, err := i.codec.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode account %s: %w", id, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.db.Write(ctx, keyOf(alias), blob); err != nil {
		return fmt.Errorf("failed to link alias %s: %w", alias, err)
	}
	i.cache.Add(alias, entry{id: id, found: true})
	i.logger.Debug().Str("alias", alias.Hex()).Str("account", id.String()).Msg("Linked alias")
	return nil
}

// Unlink removes the link of alias
func (i *Index) Unlink(ctx context.Context, alias types.Alias) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.db.Delete(ctx, keyOf(alias)); err != nil {
		return fmt.Errorf("failed to unlink alias %s: %w", alias, err)
	}
	i.cache.Add(alias, entry{})
	return nil
}

// All returns every stored link.
func (i *Index) All(ctx context.Context) (map[types.Alias]types.AccountID, error) {
	prefix := []byte{aliasPrefix}
	it, err := i.db.Iterator(ctx, prefix, database.PrefixEnd(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer it.Close()

	links := make(map[types.Alias]types.AccountID)
	for it.Next() {
		var id types.AccountID
		if err := i.codec.Unmarshal(it.Value(), &id); err != nil {
			return nil, fmt.Errorf("failed to decode alias at %x: %w", it.Key(), err)
		}
		links[types.Alias(it.Key()[1:])] = id
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	return links, nil
}

func (i *Index) observe(hit bool) {
	if i.obs == nil {
		return
	}
	if hit {
		i.obs.CacheHit(indexName)
	} else {
		i.obs.CacheMiss(indexName)
	}
}

func keyOf(alias types.Alias) []byte {
	return append([]byte{aliasPrefix}, []byte(alias)...)
}
