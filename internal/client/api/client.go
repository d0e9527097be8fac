package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

// ErrNotFound сервер ответил 404
var ErrNotFound = errors.New("not found")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Is позволяет errors.Is(err, ErrNotFound) для 404
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClient создает новый API клиент; пустой accessToken - запросы без авторизации
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// WebSocketURL возвращает адрес websocket endpoint сервера
func (c *Client) WebSocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/ws"

	return u.String(), nil
}

// ListRecords получает все записи списка
func (c *Client) ListRecords(ctx context.Context) ([]models.Record, error) {
	var resp api.ListRecordsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/records", nil, &resp); err != nil {
		return nil, fmt.Errorf("list records request failed: %w", err)
	}
	return resp.Records, nil
}

// GetRecord получает запись по ID
func (c *Client) GetRecord(ctx context.Context, id int64) (*models.Record, error) {
	var rec models.Record
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/records/%d", id), nil, &rec); err != nil {
		return nil, fmt.Errorf("get record request failed: %w", err)
	}
	return &rec, nil
}

// CreateRecord создает запись; сервер возвращает ее с назначенным ID
func (c *Client) CreateRecord(ctx context.Context, rec *models.Record) (*models.Record, error) {
	var created models.Record
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/records", api.NewRecordRequest(rec), &created); err != nil {
		return nil, fmt.Errorf("create record request failed: %w", err)
	}
	return &created, nil
}

// UpdateRecord сохраняет изменения записи
func (c *Client) UpdateRecord(ctx context.Context, rec *models.Record) (*models.Record, error) {
	var updated models.Record
	path := fmt.Sprintf("/api/v1/records/%d", rec.ID)
	if err := c.doRequest(ctx, http.MethodPut, path, api.NewRecordRequest(rec), &updated); err != nil {
		return nil, fmt.Errorf("update record request failed: %w", err)
	}
	return &updated, nil
}

// DeleteRecord удаляет запись
func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/records/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete record request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
		} else {
			statusErr.Message = strings.TrimSpace(string(respBody))
		}
		return statusErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
