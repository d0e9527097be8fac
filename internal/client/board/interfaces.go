package board

import (
	"context"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
)

// RecordsAPI CRUD операции сервера
//
//go:generate moq -out records_mock.go . RecordsAPI
type RecordsAPI interface {
	ListRecords(ctx context.Context) ([]models.Record, error)
	CreateRecord(ctx context.Context, rec *models.Record) (*models.Record, error)
	UpdateRecord(ctx context.Context, rec *models.Record) (*models.Record, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// Transport команды блокировок поверх постоянного соединения
//
//go:generate moq -out transport_mock.go . Transport
type Transport interface {
	AcquireLease(ctx context.Context, id int64) error
	ReleaseLease(ctx context.Context, id int64) error
	ConnectionID() string
}

// Cache локальная копия списка для работы без сервера
//
//go:generate moq -out cache_mock.go . Cache
type Cache interface {
	SaveRecords(ctx context.Context, records []models.Record) error
	LoadRecords(ctx context.Context) ([]models.Record, time.Time, error)
}
