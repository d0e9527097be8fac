package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/gophtodo/internal/validation"
)

// tokenIssuer значение iss в выпускаемых токенах
const tokenIssuer = "gophtodo"

// ErrInvalidToken токен не прошел проверку
var ErrInvalidToken = errors.New("invalid token")

// contextKey тип для ключей контекста
type contextKey string

// ClientNameKey ключ для хранения имени клиента в контексте
const ClientNameKey contextKey = "client_name"

// GetClientName извлекает имя клиента из контекста запроса
func GetClientName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ClientNameKey).(string)
	return name, ok
}

// CustomClaims представляет JWT claims access token клиента
type CustomClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Secret         []byte
	AccessTokenTTL time.Duration
}

// Enabled сообщает, включена ли проверка токенов
func (c JWTConfig) Enabled() bool {
	return len(c.Secret) > 0
}

// GenerateAccessToken выпускает access token на имя клиента.
// Возвращает токен и время жизни в секундах.
func GenerateAccessToken(cfg JWTConfig, clientName string) (string, int64, error) {
	if !cfg.Enabled() {
		return "", 0, fmt.Errorf("jwt secret is not configured")
	}
	if err := validation.ValidateClientName(clientName); err != nil {
		return "", 0, fmt.Errorf("invalid client name: %w", err)
	}

	now := time.Now()
	claims := CustomClaims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientName,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(cfg.AccessTokenTTL.Seconds()), nil
}

// ValidateAccessToken валидирует и парсит JWT access token
func ValidateAccessToken(cfg JWTConfig, tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.ClientName == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
