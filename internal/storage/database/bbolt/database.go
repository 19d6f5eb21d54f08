package bbolt

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/LeJamon/goHederad/internal/storage/database"
)

type DB struct {
	db     *bbolt.DB
	bucket []byte
}

func NewDB(db *bbolt.DB, bucket []byte) *DB {
	return &DB{
		db:     db,
		bucket: bucket,
	}
}

func (b *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if b.db == nil {
		return nil, database.ErrDBClosed
	}

	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}

		raw := bucket.Get(key)
		if raw == nil {
			return database.ErrKeyNotFound
		}

		// bbolt values are only valid during the transaction
		value = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (b *DB) Write(ctx context.Context, key []byte, value []byte) error {
	if b.db == nil {
		return database.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.Put(key, value)
	})
}

func (b *DB) Delete(ctx context.Context, key []byte) error {
	if b.db == nil {
		return database.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}
		return bucket.Delete(key)
	})
}

func (b *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if b.db == nil {
		return database.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := b.bucketOf(tx)
		if err != nil {
			return err
		}

		for _, op := range ops {
			var err error
			switch op.Type {
			case database.BatchPut:
				err = bucket.Put(op.Key, op.Value)
			case database.BatchDelete:
				err = bucket.Delete(op.Key)
			default:
				return fmt.Errorf("unknown batch operation type: %d", op.Type)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *DB) bucketOf(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bucket := tx.Bucket(b.bucket)
	if bucket == nil {
		return nil, fmt.Errorf("bucket %s: %w", string(b.bucket), database.ErrNamespaceNotFound)
	}
	return bucket, nil
}

type Iterator struct {
	tx      *bbolt.Tx
	cursor  *bbolt.Cursor
	started bool
	current struct {
		key, value []byte
	}
	start, end []byte
}

func (b *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if b.db == nil {
		return nil, database.ErrDBClosed
	}

	tx, err := b.db.Begin(false) // Read-only transaction
	if err != nil {
		return nil, err
	}

	bucket, err := b.bucketOf(tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	return &Iterator{
		tx:     tx,
		cursor: bucket.Cursor(),
		start:  start,
		end:    end,
	}, nil
}

func (it *Iterator) Next() bool {
	var k, v []byte
	if !it.started {
		it.started = true
		if it.start == nil {
			k, v = it.cursor.First()
		} else {
			k, v = it.cursor.Seek(it.start)
		}
	} else {
		k, v = it.cursor.Next()
	}

	if k == nil || (it.end != nil && bytes.Compare(k, it.end) >= 0) {
		it.current.key = nil
		it.current.value = nil
		return false
	}

	it.current.key = append([]byte(nil), k...)
	it.current.value = append([]byte(nil), v...)
	return true
}

func (it *Iterator) Key() []byte {
	return it.current.key
}

func (it *Iterator) Value() []byte {
	return it.current.value
}

func (it *Iterator) Error() error {
	return nil
}

func (it *Iterator) Close() error {
	return it.tx.Rollback()
}
