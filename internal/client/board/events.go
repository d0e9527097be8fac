package board

import (
	"github.com/iudanet/gophtodo/internal/client/transport"
	"github.com/iudanet/gophtodo/internal/models"
)

var _ transport.EventHandler = (*Board)(nil)

// ConnectionChanged при подключении сбрасывает все блокировки: сервер пришлет
// актуальный снимок сразу после hello. При потере соединения снимаются только собственные блокировки.
func (b *Board) ConnectionChanged(connected bool) {
	var connID string
	if connected {
		connID = b.transport.ConnectionID()
	}

	b.post(func() {
		if connected {
			resync := b.seenConn || b.readOnly
			b.seenConn = true
			b.connected = true
			b.myConnID = connID
			clear(b.holders)
			b.emit(ChangeConnection, nil)
			if resync {
				go b.resync()
			}
			return
		}

		for id, holder := range b.holders {
			if holder == b.myConnID {
				delete(b.holders, id)
			}
		}
		b.connected = false
		b.myConnID = ""
		b.emit(ChangeConnection, nil)
	})
}

// resync перечитывает список после переподключения: события за время
// разрыва потеряны
func (b *Board) resync() {
	<-b.started
	if err := b.Load(b.runCtx); err != nil {
		b.logger.Warn("Failed to reload records after reconnect", "error", err)
	}
}

// RecordCreated добавляет запись из события. Оптимистичная запись с тем же
// заголовком заменяется на месте.
func (b *Board) RecordCreated(rec models.Record) {
	b.post(func() {
		if b.indexByID(rec.ID) >= 0 {
			return
		}
		for _, it := range b.items {
			if !it.Record.IsConfirmed() && it.Record.Title == rec.Title {
				it.Record = rec
				b.emit(ChangeUpdated, it)
				return
			}
		}
		it := &Item{Record: rec}
		b.items = append(b.items, it)
		b.emit(ChangeAdded, it)
	})
}

// RecordUpdated перезаписывает запись. Сохранение не ставится.
func (b *Board) RecordUpdated(rec models.Record) {
	b.post(func() {
		if it := b.find(rec.ID); it != nil {
			it.Record = rec
			b.emit(ChangeUpdated, it)
		}
	})
}

func (b *Board) RecordDeleted(id int64) {
	b.post(func() {
		if idx := b.indexByID(id); idx >= 0 {
			b.removeAt(idx)
		}
	})
}

// LeaseAcquired запоминает держателя, даже если записи еще нет в списке:
// snapshot блокировок опережает загрузку списка
func (b *Board) LeaseAcquired(id int64, holderID string) {
	b.post(func() {
		b.holders[id] = holderID
		if it := b.find(id); it != nil {
			b.emit(ChangeLease, it)
		}
	})
}

func (b *Board) LeaseReleased(id int64) {
	b.post(func() {
		if _, ok := b.holders[id]; !ok {
			return
		}
		delete(b.holders, id)
		if it := b.find(id); it != nil {
			b.emit(ChangeLease, it)
		}
	})
}
