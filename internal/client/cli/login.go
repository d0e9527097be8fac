package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/gophtodo/internal/client/storage"
)

// ErrSessionExpired сохраненный токен истек
var ErrSessionExpired = errors.New("session expired, run 'gophtodo login'")

// tokenClaims claims access token, выпущенного сервером
type tokenClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

// parseToken читает claims без проверки подписи: секрет есть только у сервера,
// здесь нужны имя клиента и срок действия
func parseToken(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed access token: %w", err)
	}
	if claims.ClientName == "" {
		return nil, errors.New("malformed access token: missing client_name")
	}
	return claims, nil
}

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	if c.sessions == nil {
		return errors.New("session storage is not configured")
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		input, err := c.io.ReadPassword("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = input
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("access token cannot be empty")
	}

	claims, err := parseToken(token)
	if err != nil {
		return err
	}

	session := &storage.Session{
		ServerURL:   c.serverURL,
		AccessToken: token,
		ClientName:  claims.ClientName,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Unix()
	}
	if session.Expired(c.now()) {
		return fmt.Errorf("access token expired at %s", claims.ExpiresAt.Format("2006-01-02 15:04"))
	}

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Client: %s\n", session.ClientName)
	c.io.Printf("Server: %s\n", session.ServerURL)
	if session.ExpiresAt != 0 {
		c.io.Printf("Token expires: %s\n", time.Unix(session.ExpiresAt, 0).Format("2006-01-02 15:04"))
	}
	return nil
}

// ResolveToken выбирает access token: явно заданный флагом, иначе сохраненный
// для этого сервера. Пустой результат означает работу без авторизации.
func ResolveToken(ctx context.Context, sessions storage.SessionStorage, serverURL, flagToken string, now time.Time) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if sessions == nil {
		return "", nil
	}

	session, err := sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	if session.ServerURL != serverURL {
		return "", nil
	}
	if session.Expired(now) {
		return "", ErrSessionExpired
	}
	return session.AccessToken, nil
}
