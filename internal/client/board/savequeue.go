package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/iudanet/gophtodo/internal/models"
)

// PendingSave сохранение записи, поставленное в очередь
type PendingSave struct {
	record *models.Record
	result *models.Record
	err    error
	done   chan struct{}
	id     int64
}

func newPendingSave(rec *models.Record) *PendingSave {
	return &PendingSave{
		record: rec,
		done:   make(chan struct{}),
		id:     rec.ID,
	}
}

func (p *PendingSave) finish(result *models.Record, err error) {
	p.result = result
	p.err = err
	close(p.done)
}

// RecordID ID сохраняемой записи
func (p *PendingSave) RecordID() int64 {
	return p.id
}

// Done закрывается, когда сохранение завершено
func (p *PendingSave) Done() <-chan struct{} {
	return p.done
}

// Wait ждет завершения сохранения и возвращает запись в том виде, в каком ее сохранил сервер
func (p *PendingSave) Wait(ctx context.Context) (*models.Record, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SaveQueue последовательно отправляет изменения записей на сервер.
// Несколько правок одной записи, ожидающих отправки, объединяются в одну.
type SaveQueue struct {
	api     RecordsAPI
	logger  *slog.Logger
	pending map[int64]*PendingSave
	wake    chan struct{}
	queue   []*PendingSave
	mu      sync.Mutex
	stopped bool
}

// NewSaveQueue создает очередь; отправку выполняет Run
func NewSaveQueue(logger *slog.Logger, api RecordsAPI) *SaveQueue {
	return &SaveQueue{
		api:     api,
		logger:  logger,
		pending: make(map[int64]*PendingSave),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue ставит сохранение rec в очередь
func (q *SaveQueue) Enqueue(rec *models.Record) *PendingSave {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		p := newPendingSave(rec)
		p.finish(nil, ErrStopped)
		return p
	}

	if p, ok := q.pending[rec.ID]; ok {
		p.record = rec
		return p
	}

	p := newPendingSave(rec)
	q.pending[rec.ID] = p
	q.queue = append(q.queue, p)

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return p
}

// Len количество сохранений, ожидающих отправки
func (q *SaveQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Run отправляет сохранения до отмены ctx. Неотправленные завершаются ошибкой ErrStopped.
func (q *SaveQueue) Run(ctx context.Context) {
	defer q.stop()

	for {
		if ctx.Err() != nil {
			return
		}

		p, rec := q.next()
		if p == nil {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
			}
			continue
		}

		updated, err := q.api.UpdateRecord(ctx, rec)
		if err != nil {
			q.logger.Warn("Failed to save record", "record_id", rec.ID, "error", err)
		}
		p.finish(updated, err)
	}
}

func (q *SaveQueue) next() (*PendingSave, *models.Record) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.queue) == 0 {
		return nil, nil
	}
	p := q.queue[0]
	q.queue = q.queue[1:]
	delete(q.pending, p.id)
	return p, p.record
}

func (q *SaveQueue) stop() {
	q.mu.Lock()
	q.stopped = true
	rest := q.queue
	q.queue = nil
	clear(q.pending)
	q.mu.Unlock()

	for _, p := range rest {
		p.finish(nil, ErrStopped)
	}
}
