// Package board хранит видимый клиенту список записей и согласует
// оптимистичные локальные изменения с событиями сервера.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"

	apiclient "github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/transport"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/validation"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrLockedByOther = errors.New("record is locked by another client")
	ErrReadOnly      = errors.New("board is read-only")
	// ErrOffline сервер недоступен, показан список из кэша
	ErrOffline = errors.New("server unavailable, using cached records")
	ErrStopped = errors.New("board is stopped")
)

// LockState состояние блокировки записи с точки зрения этого клиента
type LockState int

const (
	Unlocked LockState = iota
	LockedByMe
	LockedByOther
)

func (s LockState) String() string {
	switch s {
	case Unlocked:
		return "unlocked"
	case LockedByMe:
		return "locked by me"
	case LockedByOther:
		return "locked by other"
	default:
		return fmt.Sprintf("lock(%d)", int(s))
	}
}

// Item запись списка с клиентскими полями блокировки
type Item struct {
	LeaseHolder    string        // LeaseHolder соединение-держатель блокировки или пусто
	MyConnectionID string        // MyConnectionID текущее соединение этого клиента
	Record         models.Record // Record данные записи
}

// LockState вычисляет состояние блокировки
func (i Item) LockState() LockState {
	switch {
	case i.LeaseHolder == "":
		return Unlocked
	case i.LeaseHolder == i.MyConnectionID:
		return LockedByMe
	default:
		return LockedByOther
	}
}

// ChangeKind тип изменения списка
type ChangeKind int

const (
	ChangeLoaded ChangeKind = iota
	ChangeAdded
	ChangeUpdated
	ChangeRemoved
	ChangeLease
	ChangeConnection
)

// Change уведомление наблюдателя об изменении
type Change struct {
	Item      Item
	Kind      ChangeKind
	Connected bool
}

// Status состояние доски
type Status struct {
	ConnectionID string
	Records      int
	Connected    bool
	ReadOnly     bool
}

// Board упорядоченный список записей. Все изменения выполняются
// в горутине Run; остальные методы передают туда функции.
// Держатели блокировок хранятся отдельно от записей: snapshot блокировок
// приходит сразу после подключения, раньше, чем загружен список.
type Board struct {
	runCtx    context.Context
	api       RecordsAPI
	transport Transport
	cache     Cache
	logger    *slog.Logger
	saves     *SaveQueue
	observer  func(Change)
	holders   map[int64]string
	ops       chan func()
	stopped   chan struct{}
	started   chan struct{}
	myConnID  string
	items     []*Item
	connected bool
	readOnly  bool
	seenConn  bool
}

// New создает доску. cache может быть nil.
func New(logger *slog.Logger, api RecordsAPI, tr Transport, cache Cache) *Board {
	return &Board{
		api:       api,
		transport: tr,
		cache:     cache,
		logger:    logger,
		saves:     NewSaveQueue(logger, api),
		holders:   make(map[int64]string),
		ops:       make(chan func()),
		stopped:   make(chan struct{}),
		started:   make(chan struct{}),
	}
}

// SetObserver задает функцию, получающую изменения. Вызывается до Run.
// fn выполняется в горутине доски и не должна вызывать методы Board.
func (b *Board) SetObserver(fn func(Change)) {
	b.observer = fn
}

// Saves возвращает очередь сохранений
func (b *Board) Saves() *SaveQueue {
	return b.saves
}

// Run обрабатывает изменения до отмены ctx
func (b *Board) Run(ctx context.Context) {
	defer close(b.stopped)

	b.runCtx = ctx
	close(b.started)
	go b.saves.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case op := <-b.ops:
			b.exec(op)
		}
	}
}

func (b *Board) exec(op func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Board operation panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	op()
}

// do выполняет fn в горутине доски и ждет завершения
func (b *Board) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}

	select {
	case b.ops <- wrapped:
	case <-b.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// Принятая операция выполняется синхронно
	<-done
	return nil
}

// post ставит fn в очередь без ожидания результата
func (b *Board) post(fn func()) {
	select {
	case b.ops <- fn:
	case <-b.stopped:
	}
}

func (b *Board) emit(kind ChangeKind, it *Item) {
	if b.observer == nil {
		return
	}
	ch := Change{Kind: kind, Connected: b.connected}
	if it != nil {
		ch.Item = b.view(it)
	}
	b.observer(ch)
}

func (b *Board) view(it *Item) Item {
	v := *it
	v.Record = *it.Record.Clone()
	v.MyConnectionID = b.myConnID
	if it.Record.IsConfirmed() {
		v.LeaseHolder = b.holders[it.Record.ID]
	}
	return v
}

func (b *Board) indexByID(id int64) int {
	if id == models.UnconfirmedID {
		return -1
	}
	return slices.IndexFunc(b.items, func(it *Item) bool { return it.Record.ID == id })
}

func (b *Board) indexOf(target *Item) int {
	return slices.Index(b.items, target)
}

func (b *Board) find(id int64) *Item {
	if idx := b.indexByID(id); idx >= 0 {
		return b.items[idx]
	}
	return nil
}

func (b *Board) removeAt(idx int) {
	it := b.items[idx]
	b.items = slices.Delete(b.items, idx, idx+1)
	b.emit(ChangeRemoved, it)
}

// Items возвращает копию списка в текущем порядке
func (b *Board) Items(ctx context.Context) ([]Item, error) {
	var out []Item
	err := b.do(ctx, func() {
		out = make([]Item, 0, len(b.items))
		for _, it := range b.items {
			out = append(out, b.view(it))
		}
	})
	return out, err
}

// Get возвращает запись по ID
func (b *Board) Get(ctx context.Context, id int64) (Item, error) {
	var (
		out   Item
		opErr error
	)
	err := b.do(ctx, func() {
		it := b.find(id)
		if it == nil {
			opErr = ErrNotFound
			return
		}
		out = b.view(it)
	})
	if err != nil {
		return Item{}, err
	}
	return out, opErr
}

// Status возвращает состояние соединения и режима
func (b *Board) Status(ctx context.Context) (Status, error) {
	var st Status
	err := b.do(ctx, func() {
		st = Status{
			ConnectionID: b.myConnID,
			Records:      len(b.items),
			Connected:    b.connected,
			ReadOnly:     b.readOnly,
		}
	})
	return st, err
}

// Load загружает список с сервера. Если сервер недоступен и есть кэш,
// доска переходит в режим только чтения и возвращает ошибку ErrOffline.
func (b *Board) Load(ctx context.Context) error {
	records, err := b.api.ListRecords(ctx)
	if err != nil {
		return b.loadCached(ctx, err)
	}

	if err := b.do(ctx, func() {
		b.replace(records)
		b.readOnly = false
	}); err != nil {
		return err
	}

	if b.cache != nil {
		if err := b.cache.SaveRecords(ctx, records); err != nil {
			b.logger.Warn("Failed to update local cache", "error", err)
		}
	}
	return nil
}

func (b *Board) loadCached(ctx context.Context, cause error) error {
	if b.cache == nil {
		return fmt.Errorf("failed to load records: %w", cause)
	}

	records, savedAt, err := b.cache.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", errors.Join(cause, err))
	}

	if err := b.do(ctx, func() {
		b.replace(records)
		b.readOnly = true
	}); err != nil {
		return err
	}

	b.logger.Warn("Server unavailable, using cached records", "saved_at", savedAt, "error", cause)
	return fmt.Errorf("%w (cached at %s): %w", ErrOffline, savedAt.Format("2006-01-02 15:04:05"), cause)
}

// replace заменяет список; блокировки берутся из holders при выдаче view
func (b *Board) replace(records []models.Record) {
	b.items = make([]*Item, 0, len(records))
	for _, rec := range records {
		b.items = append(b.items, &Item{Record: *rec.Clone()})
	}
	b.emit(ChangeLoaded, nil)
}

// Persist сохраняет подтвержденные записи в кэш
func (b *Board) Persist(ctx context.Context) error {
	if b.cache == nil {
		return nil
	}

	var records []models.Record
	if err := b.do(ctx, func() {
		for _, it := range b.items {
			if it.Record.IsConfirmed() {
				records = append(records, *it.Record.Clone())
			}
		}
	}); err != nil {
		return err
	}

	if err := b.cache.SaveRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}
	return nil
}

// Create добавляет запись сразу, затем создает ее на сервере.
// При ошибке сервера запись убирается из списка.
func (b *Board) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	rec.ID = models.UnconfirmedID
	rec.Tags = models.NormalizeTags(rec.Tags)
	if err := validation.ValidateRecord(&rec); err != nil {
		return models.Record{}, err
	}

	local := &Item{Record: rec}
	sent := rec.Clone()

	var opErr error
	if err := b.do(ctx, func() {
		if b.readOnly {
			opErr = ErrReadOnly
			return
		}
		b.items = append(b.items, local)
		b.emit(ChangeAdded, local)
	}); err != nil {
		return models.Record{}, err
	}
	if opErr != nil {
		return models.Record{}, opErr
	}

	created, err := b.api.CreateRecord(ctx, sent)
	if err != nil {
		_ = b.do(context.WithoutCancel(ctx), func() {
			if idx := b.indexOf(local); idx >= 0 && !local.Record.IsConfirmed() {
				b.removeAt(idx)
			}
		})
		return models.Record{}, fmt.Errorf("failed to create record: %w", err)
	}

	if err := b.do(context.WithoutCancel(ctx), func() {
		b.confirm(local, *created)
	}); err != nil {
		return models.Record{}, err
	}
	return *created, nil
}

// confirm проставляет ID, выданный сервером, если эхо еще не сделало этого
func (b *Board) confirm(local *Item, created models.Record) {
	idx := b.indexOf(local)
	pending := idx >= 0 && !local.Record.IsConfirmed()

	if b.indexByID(created.ID) >= 0 {
		if pending {
			b.removeAt(idx)
		}
		return
	}

	if pending {
		local.Record = created
		b.emit(ChangeUpdated, local)
		return
	}

	// Оптимистичную запись уже заняло чужое эхо с тем же заголовком
	it := &Item{Record: created}
	b.items = append(b.items, it)
	b.emit(ChangeAdded, it)
}

// Edit меняет запись локально и ставит сохранение в очередь.
// mutate выполняется в горутине доски.
func (b *Board) Edit(ctx context.Context, id int64, mutate func(rec *models.Record)) (*PendingSave, error) {
	var (
		toSave *models.Record
		opErr  error
	)
	err := b.do(ctx, func() {
		if b.readOnly {
			opErr = ErrReadOnly
			return
		}
		it := b.find(id)
		if it == nil {
			opErr = ErrNotFound
			return
		}
		if b.view(it).LockState() == LockedByOther {
			opErr = ErrLockedByOther
			return
		}

		updated := it.Record.Clone()
		mutate(updated)
		updated.ID = it.Record.ID
		updated.CreatedAt = it.Record.CreatedAt
		updated.Tags = models.NormalizeTags(updated.Tags)
		if err := validation.ValidateRecord(updated); err != nil {
			opErr = err
			return
		}

		it.Record = *updated
		toSave = updated.Clone()
		b.emit(ChangeUpdated, it)
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}

	return b.saves.Enqueue(toSave), nil
}

// Delete удаляет запись сразу и возвращает ее на место, если сервер отказал
func (b *Board) Delete(ctx context.Context, id int64) error {
	var (
		removed *Item
		pos     int
		opErr   error
	)
	err := b.do(ctx, func() {
		if b.readOnly {
			opErr = ErrReadOnly
			return
		}
		pos = b.indexByID(id)
		if pos < 0 {
			opErr = ErrNotFound
			return
		}
		removed = b.items[pos]
		if b.view(removed).LockState() == LockedByOther {
			opErr = ErrLockedByOther
			return
		}
		b.removeAt(pos)
	})
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}

	err = b.api.DeleteRecord(ctx, id)
	if err == nil || errors.Is(err, apiclient.ErrNotFound) {
		return nil
	}

	_ = b.do(context.WithoutCancel(ctx), func() {
		if b.indexByID(id) >= 0 {
			return
		}
		pos = min(pos, len(b.items))
		b.items = slices.Insert(b.items, pos, removed)
		b.emit(ChangeAdded, removed)
	})
	return fmt.Errorf("failed to delete record %d: %w", id, err)
}

// AcquireLease помечает запись заблокированной этим клиентом и просит сервер
// выдать блокировку. При ошибке отправки пометка снимается.
func (b *Board) AcquireLease(ctx context.Context, id int64) error {
	var (
		myID  string
		opErr error
	)
	err := b.do(ctx, func() {
		switch {
		case b.readOnly:
			opErr = ErrReadOnly
			return
		case !b.connected:
			opErr = transport.ErrDisconnected
			return
		}
		it := b.find(id)
		if it == nil {
			opErr = ErrNotFound
			return
		}
		if b.view(it).LockState() == LockedByOther {
			opErr = ErrLockedByOther
			return
		}
		myID = b.myConnID
		b.holders[id] = myID
		b.emit(ChangeLease, it)
	})
	if err != nil {
		return err
	}
	if opErr != nil {
		return opErr
	}

	if err := b.transport.AcquireLease(ctx, id); err != nil {
		_ = b.do(context.WithoutCancel(ctx), func() {
			if b.holders[id] != myID {
				return
			}
			delete(b.holders, id)
			if it := b.find(id); it != nil {
				b.emit(ChangeLease, it)
			}
		})
		return fmt.Errorf("failed to acquire lease on record %d: %w", id, err)
	}
	return nil
}

// ReleaseLease снимает блокировку этого клиента. Без соединения ничего не делает;
// ошибка отправки только логируется, состояние исправит следующее событие сервера.
func (b *Board) ReleaseLease(ctx context.Context, id int64) error {
	var (
		send  bool
		opErr error
	)
	err := b.do(ctx, func() {
		if !b.connected {
			return
		}
		it := b.find(id)
		if it == nil {
			opErr = ErrNotFound
			return
		}
		if b.view(it).LockState() != LockedByMe {
			return
		}
		delete(b.holders, id)
		send = true
		b.emit(ChangeLease, it)
	})
	if err != nil {
		return err
	}
	if opErr != nil || !send {
		return opErr
	}

	if err := b.transport.ReleaseLease(ctx, id); err != nil {
		b.logger.Warn("Failed to release lease", "record_id", id, "error", err)
	}
	return nil
}
