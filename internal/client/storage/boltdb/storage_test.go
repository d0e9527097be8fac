package boltdb

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/models"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func bucketsExist(tx *bbolt.Tx) error {
	for _, b := range [][]byte{bucketSession, bucketRecords, bucketMetadata} {
		if tx.Bucket(b) == nil {
			return os.ErrNotExist
		}
	}
	return nil
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gophtodo-client.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	require.NoError(t, store.db.View(bucketsExist))

	err = store.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketMetadata).Get([]byte(keyCacheFormat))
		require.Len(t, v, 4)
		assert.Equal(t, cacheFormat, binary.BigEndian.Uint32(v))
		return nil
	})
	require.NoError(t, err)
}

func TestNew_MissingDirectory(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "client.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNew_LockedByAnotherProcess(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "client.db")

	first, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer first.Close()

	// Второе открытие завершается по openTimeout
	second, err := New(context.Background(), dbPath)
	assert.Error(t, err)
	assert.Nil(t, second)
}

func TestClose_Twice(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.Nil(t, store.db)
	assert.NoError(t, store.Close())
}

func TestNew_ReopenKeepsCacheAndSession(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveRecords(ctx, []models.Record{{ID: 1, Title: "milk"}}))
	require.NoError(t, store.SaveSession(ctx, &storage.Session{ServerURL: "http://localhost:8080", AccessToken: "t"}))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, _, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "milk", got[0].Title)

	sess, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", sess.AccessToken)
}

func TestNew_DropsCacheOfOtherFormat(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "client.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveRecords(ctx, []models.Record{{ID: 1, Title: "milk"}}))
	require.NoError(t, store.SaveSession(ctx, &storage.Session{ServerURL: "http://localhost:8080", AccessToken: "t"}))

	// Кэш, записанный клиентом другой версии
	err = store.db.Update(func(tx *bbolt.Tx) error {
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, cacheFormat+1)
		return tx.Bucket(bucketMetadata).Put([]byte(keyCacheFormat), buf)
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, _, err = store.LoadRecords(ctx)
	assert.ErrorIs(t, err, storage.ErrCacheEmpty)

	sess, err := store.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", sess.AccessToken)
}

func TestPrepare_Idempotent(t *testing.T) {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "client.db"), 0600, nil)
	require.NoError(t, err)
	defer db.Close()

	store := &Storage{db: db}
	require.NoError(t, store.prepare())
	require.NoError(t, store.prepare())

	assert.NoError(t, db.View(bucketsExist))
}
