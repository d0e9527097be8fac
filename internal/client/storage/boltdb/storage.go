package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// cacheFormat версия формата записей в кэше. При смене формата кэш
// записей сбрасывается, сессия сохраняется.
const cacheFormat uint32 = 1

const (
	openTimeout    = time.Second
	keyCacheFormat = "cache_format"
)

var (
	bucketSession  = []byte("session")
	bucketRecords  = []byte("records")
	bucketMetadata = []byte("metadata")
)

// Storage локальная база клиента: сессия и кэш записей для офлайн-просмотра
type Storage struct {
	db *bbolt.DB
}

// New открывает (или создает) файл базы dbPath.
// Второй процесс клиента получает ошибку через openTimeout, а не ждет файл бесконечно.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	if err := s.prepare(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare client database: %w", err)
	}
	return s, nil
}

// Close закрывает базу; повторный вызов ничего не делает
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// prepare создает buckets и сбрасывает кэш записей устаревшего формата
func (s *Storage) prepare() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketRecords, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketMetadata)
		if v := meta.Get([]byte(keyCacheFormat)); len(v) == 4 && binary.BigEndian.Uint32(v) == cacheFormat {
			return nil
		}

		if err := tx.DeleteBucket(bucketRecords); err != nil {
			return fmt.Errorf("failed to drop records cache: %w", err)
		}
		if _, err := tx.CreateBucket(bucketRecords); err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", bucketRecords, err)
		}
		if err := meta.Delete([]byte(keyRecordsSavedAt)); err != nil {
			return err
		}

		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, cacheFormat)
		return meta.Put([]byte(keyCacheFormat), buf)
	})
}
