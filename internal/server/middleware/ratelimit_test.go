package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, setupTestLogger())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")

	// Другой ключ имеет собственный лимит
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_Refill(t *testing.T) {
	// 10 запросов за 100ms: токен возвращается каждые 10ms
	rl := NewRateLimiter(10, 100*time.Millisecond, setupTestLogger())
	defer rl.Stop()

	for rl.Allow("k") {
	}
	assert.Eventually(t, func() bool { return rl.Allow("k") }, time.Second, 5*time.Millisecond)
}

func TestRateLimiter_CleanupIdle(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute, setupTestLogger())
	defer rl.Stop()

	rl.Allow("old")
	rl.Allow("fresh")

	rl.mu.Lock()
	rl.visitors["old"].lastSeen = time.Now().Add(-3 * time.Minute)
	rl.mu.Unlock()

	rl.cleanupIdle(time.Now())
	assert.Equal(t, 1, rl.Len())

	// Stop идемпотентен
	rl.Stop()
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, setupTestLogger())
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
		// Разные порты одного IP делят лимит
		req.RemoteAddr = "192.168.1.7:" + []string{"1000", "1001", "1002"}[i]
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		headers    map[string]string
		name       string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr without port",
			remoteAddr: "10.1.1.1:5555",
			want:       "10.1.1.1",
		},
		{
			name:       "x-forwarded-for first hop",
			remoteAddr: "10.1.1.1:5555",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"},
			want:       "203.0.113.5",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.1.1.1:5555",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			want:       "198.51.100.2",
		},
		{
			name:       "unparseable remote addr",
			remoteAddr: "pipe",
			want:       "pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
