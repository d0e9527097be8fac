package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/pkg/api"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Токен берется из заголовка Authorization: Bearer <token>;
// для websocket handshake допускается query-параметр access_token.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := extractToken(r)
			if !ok {
				logger.Warn("Missing or malformed access token", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				http.Error(w, "Unauthorized: missing or malformed token", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			annotateClient(r.Context(), claims.ClientName)
			ctx := context.WithValue(r.Context(), handlers.ClientNameKey, claims.ClientName)
			logger.Debug("Client authenticated", "client", claims.ClientName)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken достает токен из заголовка или query-параметра
func extractToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Ожидаем формат: "Bearer <token>"
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}

	if token := r.URL.Query().Get(api.QueryAccessToken); token != "" {
		return token, true
	}

	return "", false
}
