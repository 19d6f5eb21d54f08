// Package databasetest holds the behaviour every database backend must share.
package databasetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goHederad/internal/storage/database"
)

// Run exercises a backend through the database.Manager it is opened with.
func Run(t *testing.T, manager database.Manager) {
	t.Helper()
	ctx := context.Background()

	t.Run("ReadWriteDelete", func(t *testing.T) {
		db, err := manager.OpenDB("rwd")
		require.NoError(t, err)

		_, err = db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v1")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v2")))
		got, err = db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("ReadReturnsCopy", func(t *testing.T) {
		db, err := manager.OpenDB("copy")
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("value")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		got[0] = 'X'

		again, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), again)
	})

	t.Run("Batch", func(t *testing.T) {
		db, err := manager.OpenDB("batch")
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))
		ops := []database.BatchOperation{
			{Type: database.BatchPut, Key: []byte("a"), Value: []byte("1")},
			{Type: database.BatchPut, Key: []byte("b"), Value: []byte("2")},
			{Type: database.BatchDelete, Key: []byte("gone")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		for key, want := range map[string]string{"a": "1", "b": "2"} {
			got, err := db.Read(ctx, []byte(key))
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		}
		_, err = db.Read(ctx, []byte("gone"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		err = db.Batch(ctx, []database.BatchOperation{{Type: database.BatchOpType(42), Key: []byte("z")}})
		require.Error(t, err)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		db, err := manager.OpenDB("iter")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			key := []byte(fmt.Sprintf("s/%d", i))
			require.NoError(t, db.Write(ctx, key, []byte{byte(i)}))
		}
		require.NoError(t, db.Write(ctx, []byte("t/0"), []byte{9}))

		it, err := db.Iterator(ctx, []byte("s/1"), []byte("s/4"))
		require.NoError(t, err)
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
		assert.Equal(t, []string{"s/1", "s/2", "s/3"}, keys)

		prefix := []byte("s/")
		it, err = db.Iterator(ctx, prefix, database.PrefixEnd(prefix))
		require.NoError(t, err)
		count := 0
		for it.Next() {
			assert.Equal(t, []byte{byte(count)}, it.Value())
			count++
		}
		require.NoError(t, it.Close())
		assert.Equal(t, 5, count)
	})

	t.Run("CloseDB", func(t *testing.T) {
		_, err := manager.OpenDB("closing")
		require.NoError(t, err)
		require.NoError(t, manager.CloseDB("closing"))
		require.ErrorIs(t, manager.CloseDB("closing"), database.ErrNamespaceNotFound)
	})
}
