package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage хранит параметры подключения клиента между запусками
type SessionStorage interface {
	// SaveSession stores the session, replacing the previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound if nothing was saved
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes stored session (logout)
	DeleteSession(ctx context.Context) error
}

// Session сервер и токен доступа, сохраненные командой login
type Session struct {
	ServerURL   string `json:"server_url"`
	AccessToken string `json:"access_token"`
	ClientName  string `json:"client_name"`
	ExpiresAt   int64  `json:"expires_at"` // ExpiresAt unix время истечения токена, 0 - без срока
}

// Expired проверяет срок действия токена
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != 0 && now.Unix() >= s.ExpiresAt
}
