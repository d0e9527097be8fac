package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/client/storage"
)

const testServerURL = "http://localhost:8080"

func signToken(t *testing.T, name string, expiresAt time.Time) string {
	t.Helper()
	claims := tokenClaims{ClientName: name}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestParseToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		claims, err := parseToken(signToken(t, "alice-laptop", time.Now().Add(time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, "alice-laptop", claims.ClientName)
		assert.NotNil(t, claims.ExpiresAt)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parseToken("not-a-jwt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed access token")
	})

	t.Run("missing client name", func(t *testing.T) {
		_, err := parseToken(signToken(t, "", time.Time{}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing client_name")
	})
}

func TestCli_runLogin(t *testing.T) {
	now := time.Now()
	expires := now.Add(24 * time.Hour).Truncate(time.Second)
	token := signToken(t, "desk", expires)

	tests := []struct {
		name  string
		args  []string
		input []string
	}{
		{name: "token from argument", args: []string{token}},
		{name: "token from prompt", input: []string{"  " + token + "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, out := newMockIO(tt.input...)
			var saved *storage.Session
			sessions := &storage.SessionStorageMock{
				SaveSessionFunc: func(ctx context.Context, session *storage.Session) error {
					saved = session
					return nil
				},
			}
			c := New(mockIO, nil, sessions, testServerURL)
			c.now = func() time.Time { return now }

			require.NoError(t, c.Run(context.Background(), "login", tt.args))

			require.NotNil(t, saved)
			assert.Equal(t, testServerURL, saved.ServerURL)
			assert.Equal(t, token, saved.AccessToken)
			assert.Equal(t, "desk", saved.ClientName)
			assert.Equal(t, expires.Unix(), saved.ExpiresAt)
			assert.Contains(t, out.String(), "✓ Login successful!")
		})
	}
}

func TestCli_runLogin_Errors(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		args    []string
		saveErr error
		wantErr string
	}{
		{name: "malformed", args: []string{"abc"}, wantErr: "malformed access token"},
		{name: "empty prompt", args: nil, wantErr: "failed to read token"},
		{name: "expired", args: []string{signToken(t, "desk", now.Add(-time.Hour))}, wantErr: "expired"},
		{name: "storage failure", args: []string{signToken(t, "desk", time.Time{})}, saveErr: errors.New("disk full"), wantErr: "failed to save session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, _ := newMockIO()
			sessions := &storage.SessionStorageMock{
				SaveSessionFunc: func(ctx context.Context, session *storage.Session) error {
					return tt.saveErr
				},
			}
			c := New(mockIO, nil, sessions, testServerURL)
			c.now = func() time.Time { return now }

			err := c.Run(context.Background(), "login", tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCli_runLogout(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
		wantOut   string
		wantErr   bool
	}{
		{name: "deleted", wantOut: "✓ Logout successful!"},
		{name: "not logged in", deleteErr: storage.ErrSessionNotFound, wantOut: "Not logged in."},
		{name: "storage failure", deleteErr: errors.New("io error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, out := newMockIO()
			sessions := &storage.SessionStorageMock{
				DeleteSessionFunc: func(ctx context.Context) error { return tt.deleteErr },
			}
			c := New(mockIO, nil, sessions, testServerURL)

			err := c.Run(context.Background(), "logout", nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "logout failed")
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestResolveToken(t *testing.T) {
	now := time.Now()
	stored := func(session *storage.Session, err error) storage.SessionStorage {
		return &storage.SessionStorageMock{
			GetSessionFunc: func(ctx context.Context) (*storage.Session, error) {
				return session, err
			},
		}
	}

	tests := []struct {
		name      string
		sessions  storage.SessionStorage
		flagToken string
		want      string
		wantErr   error
	}{
		{
			name:      "flag wins",
			sessions:  stored(&storage.Session{ServerURL: testServerURL, AccessToken: "saved"}, nil),
			flagToken: "explicit",
			want:      "explicit",
		},
		{
			name:     "no storage",
			sessions: nil,
			want:     "",
		},
		{
			name:     "no session",
			sessions: stored(nil, storage.ErrSessionNotFound),
			want:     "",
		},
		{
			name:     "saved session",
			sessions: stored(&storage.Session{ServerURL: testServerURL, AccessToken: "saved", ExpiresAt: now.Add(time.Hour).Unix()}, nil),
			want:     "saved",
		},
		{
			name:     "session for another server",
			sessions: stored(&storage.Session{ServerURL: "https://other.example.com", AccessToken: "saved"}, nil),
			want:     "",
		},
		{
			name:     "expired session",
			sessions: stored(&storage.Session{ServerURL: testServerURL, AccessToken: "saved", ExpiresAt: now.Add(-time.Hour).Unix()}, nil),
			wantErr:  ErrSessionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ResolveToken(context.Background(), tt.sessions, testServerURL, tt.flagToken, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		_, err := ResolveToken(context.Background(), stored(nil, errors.New("io error")), testServerURL, "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get session")
	})
}

func TestCli_runStatus(t *testing.T) {
	mockIO, out := newMockIO()
	sessions := &storage.SessionStorageMock{
		GetSessionFunc: func(ctx context.Context) (*storage.Session, error) {
			return &storage.Session{ServerURL: testServerURL, ClientName: "desk"}, nil
		},
	}
	mockBoard := &BoardMock{
		LoadFunc: func(ctx context.Context) error { return nil },
		StatusFunc: func(ctx context.Context) (board.Status, error) {
			return board.Status{ConnectionID: "conn-1", Records: 3, Connected: true}, nil
		},
	}
	c := New(mockIO, mockBoard, sessions, testServerURL)

	require.NoError(t, c.Run(context.Background(), "status", nil))
	text := out.String()
	assert.Contains(t, text, "Server:     "+testServerURL)
	assert.Contains(t, text, "Client:     desk")
	assert.Contains(t, text, "does not expire")
	assert.Contains(t, text, "connected (conn-1)")
	assert.Contains(t, text, "Records:    3")
}
