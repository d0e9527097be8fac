package api

import (
	"time"

	"github.com/iudanet/gophtodo/internal/models"
)

// RecordRequest тело запроса на создание или обновление записи
type RecordRequest struct {
	DueAt     *time.Time      `json:"due_at,omitempty"`
	Title     string          `json:"title"`
	Tags      []string        `json:"tags,omitempty"`
	Priority  models.Priority `json:"priority"`
	Completed bool            `json:"completed"`
}

// ToRecord конвертирует запрос в модель (ID и CreatedAt заполняет вызывающий)
func (r RecordRequest) ToRecord() *models.Record {
	return &models.Record{
		Title:     r.Title,
		Completed: r.Completed,
		Priority:  r.Priority,
		DueAt:     r.DueAt,
		Tags:      models.NormalizeTags(r.Tags),
	}
}

// NewRecordRequest строит запрос из модели
func NewRecordRequest(rec *models.Record) RecordRequest {
	return RecordRequest{
		Title:     rec.Title,
		Completed: rec.Completed,
		Priority:  rec.Priority,
		DueAt:     rec.DueAt,
		Tags:      models.NormalizeTags(rec.Tags),
	}
}

// ListRecordsResponse ответ на GET /api/v1/records
type ListRecordsResponse struct {
	Records []models.Record `json:"records"`
}
