package middleware

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

var errNoHijack = errors.New("response writer does not support hijacking")

// accessEntry данные запроса, которые заполняются по ходу обработки
type accessEntry struct {
	client string
}

type accessEntryKey struct{}

// annotateClient записывает клиента в журнал запроса, если он ведется
func annotateClient(ctx context.Context, client string) {
	if e, ok := ctx.Value(accessEntryKey{}).(*accessEntry); ok {
		e.client = client
	}
}

// statusRecorder запоминает статус и объем ответа
type statusRecorder struct {
	http.ResponseWriter
	status   int
	written  int64
	upgraded bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Hijack нужен для websocket upgrade за middleware
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errNoHijack
	}
	rw.status = http.StatusSwitchingProtocols
	rw.upgraded = true
	return hj.Hijack()
}

// Unwrap для http.ResponseController
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LoggingMiddleware пишет одну строку журнала на запрос.
// Websocket-сессия логируется при ее завершении.
// Query не логируется: в нем может быть access_token.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &accessEntry{}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), accessEntryKey{}, entry)))

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if entry.client != "" {
				attrs = append(attrs, "client", entry.client)
			}

			msg := "HTTP request"
			if rec.upgraded {
				msg = "WebSocket session closed"
			} else {
				attrs = append(attrs, "bytes_written", rec.written)
			}
			logger.Log(r.Context(), levelForStatus(rec.status), msg, attrs...)
		})
	}
}

// LoggingWithSkip как LoggingMiddleware, но не пишет запросы к skipPaths
// (health checks)
func LoggingWithSkip(logger *slog.Logger, skipPaths []string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		logged := LoggingMiddleware(logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			logged.ServeHTTP(w, r)
		})
	}
}
