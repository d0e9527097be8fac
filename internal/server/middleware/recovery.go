package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/gophtodo/pkg/api"
)

// RecoveryMiddleware превращает панику обработчика в 500 с api.ErrorResponse.
// http.ErrAbortHandler пробрасывается дальше: им net/http обрывает соединение.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(p)
				}

				logger.Error("Panic recovered",
					slog.Any("error", p),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("stack", string(debug.Stack())),
				)
				writeInternalError(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeInternalError детали паники клиенту не раскрывает
func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error: http.StatusText(http.StatusInternalServerError),
	})
}
