package storage

import (
	"context"

	"github.com/iudanet/gophtodo/internal/models"
)

//go:generate moq -out record_mock.go . RecordStorage

// RecordStorage defines interface for shared record persistence
type RecordStorage interface {
	// CreateRecord inserts a new record, assigns ID and CreatedAt
	// Returns the stored record
	CreateRecord(ctx context.Context, rec *models.Record) (*models.Record, error)

	// GetRecord retrieves record by ID
	// Returns ErrRecordNotFound if record doesn't exist
	GetRecord(ctx context.Context, id int64) (*models.Record, error)

	// ListRecords returns all records ordered by ID
	// Returns empty slice if no records found
	ListRecords(ctx context.Context) ([]*models.Record, error)

	// UpdateRecord replaces title, completion, priority, due date and tags of a record
	// CreatedAt is preserved. Returns ErrRecordNotFound if record doesn't exist
	UpdateRecord(ctx context.Context, rec *models.Record) (*models.Record, error)

	// DeleteRecord removes record and its tags
	// Returns ErrRecordNotFound if record doesn't exist
	DeleteRecord(ctx context.Context, id int64) error
}
