package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// UnconfirmedID значение идентификатора записи, которой сервер еще не присвоил ID
const UnconfirmedID int64 = 0

// Priority приоритет записи
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String возвращает строковое представление приоритета ("low", "medium", "high")
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Valid проверяет, что значение входит в перечисление
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority разбирает приоритет из строки (без учета регистра)
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return PriorityLow, fmt.Errorf("unknown priority %q", s)
	}
}

// MarshalJSON сериализует приоритет строкой
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON разбирает приоритет из строки
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority must be a string: %w", err)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Record представляет запись общего списка.
// ID назначает сервер; до подтверждения ID равен UnconfirmedID.
type Record struct {
	CreatedAt time.Time  `json:"created_at"`         // CreatedAt время создания записи
	DueAt     *time.Time `json:"due_at,omitempty"`   // DueAt опциональный срок
	Title     string     `json:"title"`              // Title заголовок записи
	Tags      []string   `json:"tags,omitempty"`     // Tags множество тегов (уникальные, порядок не важен)
	ID        int64      `json:"id"`                 // ID идентификатор, присвоенный сервером
	Priority  Priority   `json:"priority"`           // Priority приоритет
	Completed bool       `json:"completed"`          // Completed флаг выполнения
}

// IsConfirmed возвращает true, если сервер уже присвоил записи идентификатор
func (r *Record) IsConfirmed() bool {
	return r.ID != UnconfirmedID
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	clone := *r
	if r.DueAt != nil {
		due := *r.DueAt
		clone.DueAt = &due
	}
	if r.Tags != nil {
		clone.Tags = slices.Clone(r.Tags)
	}
	return &clone
}

// HasTag проверяет наличие тега
func (r *Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, NormalizeTag(tag))
}

// NormalizeTag приводит имя тега к каноничному виду
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags превращает список тегов во множество: без пустых и повторов,
// отсортированное для детерминированного сравнения.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	set := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		set = append(set, tag)
	}
	slices.Sort(set)
	set = slices.Compact(set)
	if len(set) == 0 {
		return nil
	}
	return set
}

// Equal сравнивает содержимое двух записей (теги сравниваются как множества)
func (r *Record) Equal(other *Record) bool {
	if r.ID != other.ID || r.Title != other.Title || r.Completed != other.Completed || r.Priority != other.Priority {
		return false
	}
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return false
	}
	switch {
	case r.DueAt == nil && other.DueAt == nil:
	case r.DueAt == nil || other.DueAt == nil:
		return false
	case !r.DueAt.Equal(*other.DueAt):
		return false
	}
	return slices.Equal(NormalizeTags(r.Tags), NormalizeTags(other.Tags))
}
