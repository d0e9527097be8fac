package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

// CreateRecord inserts a new record, assigns ID and CreatedAt
func (s *Storage) CreateRecord(ctx context.Context, rec *models.Record) (*models.Record, error) {
	stored := rec.Clone()
	stored.Tags = models.NormalizeTags(stored.Tags)
	// Храним секунды, поэтому и возвращаем уже округленное значение
	stored.CreatedAt = unixToTime(time.Now().Unix())

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO records (title, completed, priority, due_at, created_at)
			VALUES (?, ?, ?, ?, ?)
		`,
			stored.Title,
			boolToInt(stored.Completed),
			int(stored.Priority),
			timeToNullUnix(stored.DueAt),
			stored.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted id: %w", err)
		}
		stored.ID = id

		return insertTags(ctx, tx, id, stored.Tags)
	})
	if err != nil {
		return nil, err
	}

	if stored.DueAt != nil {
		due := unixToTime(stored.DueAt.Unix())
		stored.DueAt = &due
	}

	return stored, nil
}

// GetRecord retrieves record by ID
func (s *Storage) GetRecord(ctx context.Context, id int64) (*models.Record, error) {
	rec := &models.Record{}
	var completed, priority int
	var dueAt sql.NullInt64
	var createdAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, completed, priority, due_at, created_at
		FROM records
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Title, &completed, &priority, &dueAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	rec.Completed = intToBool(completed)
	rec.Priority = models.Priority(priority)
	rec.DueAt = nullUnixToTime(dueAt)
	rec.CreatedAt = unixToTime(createdAt)

	tags, err := s.recordTags(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Tags = tags

	return rec, nil
}

// ListRecords returns all records ordered by ID
func (s *Storage) ListRecords(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, completed, priority, due_at, created_at
		FROM records
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*models.Record, 0)
	byID := make(map[int64]*models.Record)

	for rows.Next() {
		rec := &models.Record{}
		var completed, priority int
		var dueAt sql.NullInt64
		var createdAt int64

		if err := rows.Scan(&rec.ID, &rec.Title, &completed, &priority, &dueAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.Completed = intToBool(completed)
		rec.Priority = models.Priority(priority)
		rec.DueAt = nullUnixToTime(dueAt)
		rec.CreatedAt = unixToTime(createdAt)

		records = append(records, rec)
		byID[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	// Соединение одно: освобождаем его до следующего запроса
	_ = rows.Close()

	// Теги одним запросом; ORDER BY дает уже нормализованный порядок
	tagRows, err := s.db.QueryContext(ctx, `SELECT record_id, tag FROM record_tags ORDER BY record_id, tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		_ = tagRows.Close()
	}()

	for tagRows.Next() {
		var recordID int64
		var tag string
		if err := tagRows.Scan(&recordID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		if rec, ok := byID[recordID]; ok {
			rec.Tags = append(rec.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("tag rows iteration error: %w", err)
	}

	return records, nil
}

// UpdateRecord replaces mutable fields of a record
func (s *Storage) UpdateRecord(ctx context.Context, rec *models.Record) (*models.Record, error) {
	tags := models.NormalizeTags(rec.Tags)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE records
			SET title = ?, completed = ?, priority = ?, due_at = ?
			WHERE id = ?
		`,
			rec.Title,
			boolToInt(rec.Completed),
			int(rec.Priority),
			timeToNullUnix(rec.DueAt),
			rec.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return storage.ErrRecordNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM record_tags WHERE record_id = ?`, rec.ID); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}

		return insertTags(ctx, tx, rec.ID, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecord(ctx, rec.ID)
}

// DeleteRecord removes record; tags are removed by ON DELETE CASCADE
func (s *Storage) DeleteRecord(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrRecordNotFound
	}

	return nil
}

// recordTags читает теги одной записи
func (s *Storage) recordTags(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM record_tags WHERE record_id = ? ORDER BY tag`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tag rows iteration error: %w", err)
	}

	return tags, nil
}

func insertTags(ctx context.Context, tx *sql.Tx, recordID int64, tags []string) error {
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_tags (record_id, tag) VALUES (?, ?)`, recordID, tag); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}
	return nil
}

// Helper functions for bool/int and time conversion
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func unixToTime(timestamp int64) time.Time {
	return time.Unix(timestamp, 0).UTC()
}

func timeToNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func nullUnixToTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := unixToTime(v.Int64)
	return &t
}
