package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/models"
)

func recordKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// SaveRecords заменяет кэш записей переданным списком.
// Неподтвержденные записи (без ID) не сохраняются.
func (s *Storage) SaveRecords(ctx context.Context, records []models.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Пересоздаем bucket, чтобы удаленные на сервере записи не остались в кэше
		if err := tx.DeleteBucket(bucketRecords); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to clear records bucket: %w", err)
		}
		bucket, err := tx.CreateBucket(bucketRecords)
		if err != nil {
			return fmt.Errorf("failed to create records bucket: %w", err)
		}

		for i := range records {
			rec := &records[i]
			if !rec.IsConfirmed() {
				continue
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("failed to marshal record %d: %w", rec.ID, err)
			}
			if err := bucket.Put(recordKey(rec.ID), data); err != nil {
				return fmt.Errorf("failed to save record %d: %w", rec.ID, err)
			}
		}

		return putTimestamp(tx, keyRecordsSavedAt, time.Now())
	})
}

// LoadRecords возвращает кэш в порядке ID и время его сохранения.
// Если кэш ни разу не сохранялся, возвращает storage.ErrCacheEmpty.
func (s *Storage) LoadRecords(ctx context.Context) ([]models.Record, time.Time, error) {
	var (
		records []models.Record
		savedAt time.Time
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		savedAt, err = getTimestamp(tx, keyRecordsSavedAt)
		if err != nil {
			return err
		}
		if savedAt.IsZero() {
			return storage.ErrCacheEmpty
		}

		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return fmt.Errorf("records bucket not found")
		}

		// Ключи big-endian: ForEach идет по возрастанию ID
		return bucket.ForEach(func(k, v []byte) error {
			var rec models.Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}
			records = append(records, rec)
			return nil
		})
	})

	if err != nil {
		return nil, time.Time{}, err
	}

	return records, savedAt, nil
}
