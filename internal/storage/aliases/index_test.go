package aliases

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goHederad/internal/core/types"
	"github.com/LeJamon/goHederad/internal/storage/database"
	"github.com/LeJamon/goHederad/internal/storage/database/memory"
)

var (
	alice = types.AccountID{Num: 1002}
	bob   = types.AccountID{Num: 1003}

	evm = types.Alias(bytes.Repeat([]byte{0xab}, types.EVMAddressLen))
	key = types.Alias(append([]byte{0x12, 0x20}, bytes.Repeat([]byte{1}, 32)...))
)

type hitCounter struct{ hits, misses int }

func (h *hitCounter) CacheHit(string)  { h.hits++ }
func (h *hitCounter) CacheMiss(string) { h.misses++ }

type failingDB struct {
	database.DB
	err error
}

func (f failingDB) Read(context.Context, []byte) ([]byte, error) { return nil, f.err }

func newIndex(t *testing.T, opts ...Option) *Index {
	t.Helper()
	db, err := memory.NewManager().OpenDB(DBName)
	require.NoError(t, err)
	idx, err := NewIndex(db, 16, opts...)
	require.NoError(t, err)
	return idx
}

func TestLookupUnlinked(t *testing.T) {
	idx := newIndex(t)
	id, ok, err := idx.Lookup(context.Background(), evm)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, id.IsMissing())
}

func TestLinkLookupUnlink(t *testing.T) {
	idx := newIndex(t)
	ctx := context.Background()

	_, ok, err := idx.Lookup(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, idx.Link(ctx, key, alice))
	id, ok, err := idx.Lookup(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, alice, id)

	require.NoError(t, idx.Link(ctx, key, bob))
	id, _, err = idx.Lookup(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, bob, id)

	require.NoError(t, idx.Unlink(ctx, key))
	_, ok, err = idx.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupSurvivesCacheEviction(t *testing.T) {
	db, err := memory.NewManager().OpenDB(DBName)
	require.NoError(t, err)
	ctx := context.Background()

	writer, err := NewIndex(db, 1)
	require.NoError(t, err)
	require.NoError(t, writer.Link(ctx, evm, alice))
	require.NoError(t, writer.Link(ctx, key, bob))

	reader, err := NewIndex(db, 1)
	require.NoError(t, err)
	for _, tc := range []struct {
		alias types.Alias
		want  types.AccountID
	}{{evm, alice}, {key, bob}, {evm, alice}} {
		id, ok, err := reader.Lookup(ctx, tc.alias)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, tc.want, id)
	}
}

func TestLinkValidation(t *testing.T) {
	idx := newIndex(t)
	require.ErrorIs(t, idx.Link(context.Background(), "", alice), ErrEmptyAlias)
	require.ErrorIs(t, idx.Link(context.Background(), evm, types.MissingAccountID), types.ErrInvalidEntityID)
}

func TestAll(t *testing.T) {
	idx := newIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Link(ctx, evm, alice))
	require.NoError(t, idx.Link(ctx, key, bob))

	links, err := idx.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[types.Alias]types.AccountID{evm: alice, key: bob}, links)
}

func TestCacheObserved(t *testing.T) {
	counter := &hitCounter{}
	idx := newIndex(t, WithCacheObserver(counter))
	ctx := context.Background()

	_, _, err := idx.Lookup(ctx, evm)
	require.NoError(t, err)
	_, _, err = idx.Lookup(ctx, evm)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.hits)
	assert.Equal(t, 1, counter.misses)
}

func TestReadFailure(t *testing.T) {
	boom := errors.New("io error")
	idx, err := NewIndex(failingDB{err: boom}, 0)
	require.NoError(t, err)

	_, _, err = idx.Lookup(context.Background(), evm)
	require.ErrorIs(t, err, boom)
}
