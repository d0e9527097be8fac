package cli

import (
	"context"
	"fmt"
	"time"
)

const lockUsage = "lock <id> [DURATION]"

// runLock держит блокировку записи до прерывания или истечения duration
func (c *Cli) runLock(ctx context.Context, args []string) error {
	id, err := parseID(args, lockUsage)
	if err != nil {
		return err
	}

	var hold time.Duration
	if len(args) > 1 {
		hold, err = time.ParseDuration(args[1])
		if err != nil || hold <= 0 {
			return fmt.Errorf("invalid duration %q. Usage: %s", args[1], lockUsage)
		}
	}

	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if err := c.lock(ctx, id); err != nil {
		return err
	}
	defer c.unlock(context.WithoutCancel(ctx), id)

	if hold > 0 {
		c.io.Printf("Holding lock for %s. Press Ctrl+C to release earlier.\n", hold)
		timer := time.NewTimer(hold)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		return nil
	}

	c.io.Println("Press Ctrl+C to release.")
	<-ctx.Done()
	return nil
}

func (c *Cli) lock(ctx context.Context, id int64) error {
	if err := c.board.AcquireLease(ctx, id); err != nil {
		return fmt.Errorf("failed to lock record %d: %w", id, err)
	}
	c.io.Printf("🔒 Record #%d locked\n", id)
	return nil
}

func (c *Cli) unlock(ctx context.Context, id int64) {
	if err := c.board.ReleaseLease(ctx, id); err != nil {
		c.io.Printf("⚠ Failed to release lock on record %d: %v\n", id, err)
		return
	}
	c.io.Printf("🔓 Record #%d unlocked\n", id)
}
