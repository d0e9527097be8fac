package hub

import "github.com/iudanet/gophtodo/internal/models"

//go:generate moq -out notifier_mock.go . Notifier

// Notifier рассылает события об изменениях всем подключенным клиентам.
// Ошибка означает, что часть получателей событие не получила;
// вызывающий код ее логирует и не меняет из-за нее результат операции.
type Notifier interface {
	RecordCreated(rec models.Record) error
	RecordUpdated(rec models.Record) error
	RecordDeleted(id int64) error
	LeaseAcquired(id int64, holderID string) error
	LeaseReleased(id int64) error
}
