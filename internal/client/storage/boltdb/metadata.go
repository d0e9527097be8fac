package boltdb

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	keyRecordsSavedAt = "records_saved_at"
)

// putTimestamp сохраняет время в metadata bucket в рамках транзакции tx
func putTimestamp(tx *bbolt.Tx, key string, t time.Time) error {
	bucket := tx.Bucket(bucketMetadata)
	if bucket == nil {
		return fmt.Errorf("metadata bucket not found")
	}

	// Конвертируем int64 в bytes
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))

	if err := bucket.Put([]byte(key), buf); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// getTimestamp читает время из metadata bucket.
// Возвращает нулевое время, если значение не сохранялось.
func getTimestamp(tx *bbolt.Tx, key string) (time.Time, error) {
	bucket := tx.Bucket(bucketMetadata)
	if bucket == nil {
		return time.Time{}, fmt.Errorf("metadata bucket not found")
	}

	buf := bucket.Get([]byte(key))
	if buf == nil {
		return time.Time{}, nil
	}
	if len(buf) != 8 {
		return time.Time{}, fmt.Errorf("corrupted %s value", key)
	}

	return time.Unix(0, int64(binary.BigEndian.Uint64(buf))), nil
}
