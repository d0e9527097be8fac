package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/gophtodo/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()
	c.io.Printf("Server:     %s\n", c.serverURL)

	if c.sessions != nil {
		session, err := c.sessions.GetSession(ctx)
		switch {
		case errors.Is(err, storage.ErrSessionNotFound):
			c.io.Println("Session:    none")
		case err != nil:
			return fmt.Errorf("failed to get session: %w", err)
		default:
			c.printSession(session)
		}
	}

	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	return c.printBoardStatus(ctx)
}

func (c *Cli) printSession(session *storage.Session) {
	c.io.Printf("Client:     %s\n", session.ClientName)
	switch {
	case session.ExpiresAt == 0:
		c.io.Println("Token:      does not expire")
	case session.Expired(c.now()):
		c.io.Println("Token:      expired, run 'gophtodo login'")
	default:
		c.io.Printf("Token:      valid until %s\n", time.Unix(session.ExpiresAt, 0).Format("2006-01-02 15:04"))
	}
}

func (c *Cli) printBoardStatus(ctx context.Context) error {
	st, err := c.board.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	switch {
	case st.ReadOnly:
		c.io.Println("Mode:       read-only (cached records)")
	case st.Connected:
		c.io.Printf("Connection: connected (%s)\n", st.ConnectionID)
	default:
		c.io.Println("Connection: live updates unavailable")
	}
	c.io.Printf("Records:    %d\n", st.Records)
	return nil
}
