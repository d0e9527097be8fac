package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/gophtodo/internal/models"
)

const (
	// MaxTitleLen максимальная длина заголовка в символах
	MaxTitleLen = 200
	// MaxTags максимальное количество тегов у записи
	MaxTags = 20
	// MaxTagLen максимальная длина тега в символах
	MaxTagLen = 32
)

var (
	// ErrEmptyTitle заголовок пустой или состоит из пробелов
	ErrEmptyTitle = errors.New("title cannot be empty")
	// ErrInvalidPriority приоритет вне перечисления
	ErrInvalidPriority = errors.New("invalid priority")
)

// ValidateRecord проверяет поля записи перед сохранением.
// Теги ожидаются уже нормализованными (models.NormalizeTags).
func ValidateRecord(rec *models.Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return ErrEmptyTitle
	}

	if n := utf8.RuneCountInString(rec.Title); n > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters, got %d", MaxTitleLen, n)
	}

	if !rec.Priority.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, int(rec.Priority))
	}

	if len(rec.Tags) > MaxTags {
		return fmt.Errorf("record must not have more than %d tags", MaxTags)
	}

	for _, tag := range rec.Tags {
		if utf8.RuneCountInString(tag) > MaxTagLen {
			return fmt.Errorf("tag %q must not exceed %d characters", tag, MaxTagLen)
		}
	}

	return nil
}
