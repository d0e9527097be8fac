package transport

import "github.com/iudanet/gophtodo/internal/models"

// EventHandler получает события сервера в порядке поступления.
// Методы вызываются из горутины чтения и не должны блокироваться надолго.
type EventHandler interface {
	ConnectionChanged(connected bool)
	RecordCreated(rec models.Record)
	RecordUpdated(rec models.Record)
	RecordDeleted(id int64)
	LeaseAcquired(id int64, holderID string)
	LeaseReleased(id int64)
}

// NopHandler пустая реализация EventHandler для встраивания
type NopHandler struct{}

func (NopHandler) ConnectionChanged(bool) {}
func (NopHandler) RecordCreated(models.Record) {}
func (NopHandler) RecordUpdated(models.Record) {}
func (NopHandler) RecordDeleted(int64) {}
func (NopHandler) LeaseAcquired(int64, string) {}
func (NopHandler) LeaseReleased(int64) {}

var _ EventHandler = NopHandler{}
