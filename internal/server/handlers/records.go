package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/hub"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/validation"
	"github.com/iudanet/gophtodo/pkg/api"
)

// maxRecordBodySize ограничение тела запроса на создание/обновление
const maxRecordBodySize = 64 << 10

// RecordsHandler обрабатывает CRUD запросы к записям общего списка.
// Каждая успешная мутация рассылается всем клиентам через Notifier.
type RecordsHandler struct {
	logger   *slog.Logger
	storage  storage.RecordStorage
	notifier hub.Notifier
}

// NewRecordsHandler создает handler записей
func NewRecordsHandler(logger *slog.Logger, storage storage.RecordStorage, notifier hub.Notifier) *RecordsHandler {
	return &RecordsHandler{
		logger:   logger,
		storage:  storage,
		notifier: notifier,
	}
}

// List обрабатывает GET /api/v1/records
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.storage.ListRecords(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list records", slog.Any("error", err))
		h.sendError(w, "failed to list records", http.StatusInternalServerError)
		return
	}

	resp := api.ListRecordsResponse{Records: make([]models.Record, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, *rec)
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Get обрабатывает GET /api/v1/records/{id}
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	rec, err := h.storage.GetRecord(r.Context(), id)
	if err != nil {
		h.storageError(w, r, "get", id, err)
		return
	}

	h.sendJSON(w, rec, http.StatusOK)
}

// Create обрабатывает POST /api/v1/records
// Возвращает запись с назначенным сервером ID (201)
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}

	stored, err := h.storage.CreateRecord(r.Context(), rec)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create record", slog.Any("error", err))
		h.sendError(w, "failed to create record", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(r.Context(), "record created", slog.Int64("record_id", stored.ID))
	h.notify(r.Context(), "record_created", func() error {
		return h.notifier.RecordCreated(*stored)
	})

	h.sendJSON(w, stored, http.StatusCreated)
}

// Update обрабатывает PUT /api/v1/records/{id}
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	rec.ID = id

	updated, err := h.storage.UpdateRecord(r.Context(), rec)
	if err != nil {
		h.storageError(w, r, "update", id, err)
		return
	}

	h.logger.InfoContext(r.Context(), "record updated", slog.Int64("record_id", id))
	h.notify(r.Context(), "record_updated", func() error {
		return h.notifier.RecordUpdated(*updated)
	})

	h.sendJSON(w, updated, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/records/{id}
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.storage.DeleteRecord(r.Context(), id); err != nil {
		h.storageError(w, r, "delete", id, err)
		return
	}

	h.logger.InfoContext(r.Context(), "record deleted", slog.Int64("record_id", id))
	h.notify(r.Context(), "record_deleted", func() error {
		return h.notifier.RecordDeleted(id)
	})

	w.WriteHeader(http.StatusNoContent)
}

// notify вызывает рассылку события. Ошибки и паники рассылки только логируются:
// запись уже сохранена, ответ клиенту от рассылки не зависит.
func (h *RecordsHandler) notify(ctx context.Context, event string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(ctx, "panic during broadcast",
				slog.String("event", event),
				slog.Any("error", rec),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	if err := fn(); err != nil {
		h.logger.WarnContext(ctx, "broadcast failed",
			slog.String("event", event),
			slog.Any("error", err))
	}
}

// decodeRecord разбирает и валидирует тело запроса
func (h *RecordsHandler) decodeRecord(w http.ResponseWriter, r *http.Request) (*models.Record, bool) {
	var req api.RecordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBodySize)).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode record request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}

	rec := req.ToRecord()
	if err := validation.ValidateRecord(rec); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return rec, true
}

// recordID разбирает {id} из пути
func (h *RecordsHandler) recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.sendError(w, "invalid record id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *RecordsHandler) storageError(w http.ResponseWriter, r *http.Request, op string, id int64, err error) {
	if errors.Is(err, storage.ErrRecordNotFound) {
		h.sendError(w, "record not found", http.StatusNotFound)
		return
	}

	h.logger.ErrorContext(r.Context(), "record storage failure",
		slog.String("op", op),
		slog.Int64("record_id", id),
		slog.Any("error", err))
	h.sendError(w, "internal server error", http.StatusInternalServerError)
}

// sendJSON отправляет JSON ответ
func (h *RecordsHandler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(h.logger, w, data, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h *RecordsHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(h.logger, w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
