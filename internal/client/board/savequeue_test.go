package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/models"
)

func TestSaveQueue_CoalescesQueuedEdits(t *testing.T) {
	release := make(chan struct{})
	started := make(chan int64, 8)
	api := &RecordsAPIMock{
		UpdateRecordFunc: func(ctx context.Context, rec *models.Record) (*models.Record, error) {
			started <- rec.ID
			if rec.ID == 1 {
				<-release
			}
			return rec.Clone(), nil
		},
	}
	q := NewSaveQueue(setupTestLogger(), api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	first := q.Enqueue(&models.Record{ID: 1, Title: "one"})
	require.Equal(t, int64(1), <-started)

	// Пока первая запись сохраняется, правки второй объединяются
	a := q.Enqueue(&models.Record{ID: 2, Title: "v1"})
	b := q.Enqueue(&models.Record{ID: 2, Title: "v2"})
	assert.Same(t, a, b)
	assert.Equal(t, 1, q.Len())

	close(release)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()

	_, err := first.Wait(waitCtx)
	require.NoError(t, err)
	saved, err := b.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, "v2", saved.Title)

	calls := api.UpdateRecordCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "v2", calls[1].Rec.Title)
	assert.Equal(t, int64(2), b.RecordID())
}

func TestSaveQueue_ReportsFailure(t *testing.T) {
	saveErr := errors.New("server unavailable")
	api := &RecordsAPIMock{
		UpdateRecordFunc: func(ctx context.Context, rec *models.Record) (*models.Record, error) {
			return nil, saveErr
		},
	}
	q := NewSaveQueue(setupTestLogger(), api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx)

	p := q.Enqueue(&models.Record{ID: 1, Title: "x"})
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("save did not finish")
	}

	_, err := p.Wait(context.Background())
	assert.ErrorIs(t, err, saveErr)
}

func TestSaveQueue_Stop(t *testing.T) {
	q := NewSaveQueue(setupTestLogger(), &RecordsAPIMock{})

	// Run еще не запущен: сохранение ждет в очереди
	queued := q.Enqueue(&models.Record{ID: 1, Title: "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Run(ctx)

	_, err := queued.Wait(context.Background())
	assert.ErrorIs(t, err, ErrStopped)

	late := q.Enqueue(&models.Record{ID: 2, Title: "y"})
	_, err = late.Wait(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestPendingSave_WaitContext(t *testing.T) {
	p := newPendingSave(&models.Record{ID: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
