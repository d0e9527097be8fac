package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRemove(ctx context.Context, args []string) error {
	id, err := parseID(args, "rm <id>")
	if err != nil {
		return err
	}
	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if err := c.remove(ctx, id); err != nil {
		return err
	}
	c.persist(ctx)
	return nil
}

func (c *Cli) remove(ctx context.Context, id int64) error {
	if err := c.board.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	c.io.Printf("✓ Record #%d deleted\n", id)
	return nil
}
