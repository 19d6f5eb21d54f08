package encoding

import (
	"encoding/binary"
	"fmt"
)

// EntityKeyLen is the length of a key built by EntityKey.
const EntityKeyLen = 1 + 3*8

// EntityKey builds a fixed-width key ordered by shard, realm, then number.
// Entity numbers are never negative, so big-endian order matches numeric order.
func EntityKey(prefix byte, shard, realm, num int64) []byte {
	key := make([]byte, EntityKeyLen)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:9], uint64(shard))
	binary.BigEndian.PutUint64(key[9:17], uint64(realm))
	binary.BigEndian.PutUint64(key[17:25], uint64(num))
	return key
}

// ParseEntityKey splits a key built by EntityKey.
func ParseEntityKey(key []byte) (prefix byte, shard, realm, num int64, err error) {
	if len(key) != EntityKeyLen {
		return 0, 0, 0, 0, fmt.Errorf("entity key of %d bytes: %w", len(key), ErrCorruptBlob)
	}
	return key[0],
		int64(binary.BigEndian.Uint64(key[1:9])),
		int64(binary.BigEndian.Uint64(key[9:17])),
		int64(binary.BigEndian.Uint64(key[17:25])),
		nil
}
