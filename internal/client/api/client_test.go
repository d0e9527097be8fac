package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/", "token")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_WebSocketURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:8080", want: "ws://localhost:8080/api/v1/ws"},
		{name: "https with prefix", baseURL: "https://example.com/todo/", want: "wss://example.com/todo/api/v1/ws"},
		{name: "already ws", baseURL: "ws://h:1", want: "ws://h:1/api/v1/ws"},
		{name: "bad scheme", baseURL: "ftp://h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClient(tt.baseURL, "").WebSocketURL()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_CreateRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/records", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req api.RecordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Buy milk", req.Title)
		assert.Equal(t, models.PriorityHigh, req.Priority)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Record{ID: 12, Title: req.Title, Priority: req.Priority})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret")
	created, err := client.CreateRecord(context.Background(), &models.Record{Title: "Buy milk", Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, int64(12), created.ID)
}

func TestClient_ListRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(api.ListRecordsResponse{Records: []models.Record{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}})
	}))
	defer server.Close()

	records, err := NewClient(server.URL, "").ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[1].Title)
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			var req api.RecordRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(models.Record{ID: 4, Title: req.Title, Completed: req.Completed})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	updated, err := client.UpdateRecord(context.Background(), &models.Record{ID: 4, Title: "x", Completed: true})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	require.NoError(t, client.DeleteRecord(context.Background(), 4))
	assert.Equal(t, []string{"PUT /api/v1/records/4", "DELETE /api/v1/records/4"}, seen)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantMessage  string
		status       int
		wantNotFound bool
	}{
		{
			name:         "not found",
			status:       http.StatusNotFound,
			body:         `{"error":"Not Found","message":"record not found"}`,
			wantNotFound: true,
			wantMessage:  "record not found",
		},
		{
			name:        "plain text error",
			status:      http.StatusUnauthorized,
			body:        "Unauthorized: invalid token\n",
			wantMessage: "Unauthorized: invalid token",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        `{"error":"Internal Server Error","message":"internal server error"}`,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "").GetRecord(context.Background(), 1)
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.wantMessage, statusErr.Message)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, "").ListRecords(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}
