package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophtodo/internal/client/transport"
	"github.com/iudanet/gophtodo/internal/models"
)

const editUsage = "edit <id> [-title T] [-priority P] [-tags a,b] [-due YYYY-MM-DD] [-undone]"

func (c *Cli) runEdit(ctx context.Context, args []string) error {
	id, f, err := c.parseEdit(args)
	if err != nil {
		return err
	}
	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if err := c.edit(ctx, id, f, true); err != nil {
		return err
	}
	c.persist(ctx)
	return nil
}

// parseEdit разбирает ID и флаги edit; значения флагов проверяются сразу
func (c *Cli) parseEdit(args []string) (int64, *recordFlags, error) {
	id, err := parseID(args, editUsage)
	if err != nil {
		return 0, nil, err
	}

	f := &recordFlags{}
	fs := newRecordFlagSet("edit", f, true)
	fs.SetOutput(c.io)
	if err := fs.Parse(args[1:]); err != nil {
		return 0, nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if fs.NFlag() == 0 {
		return 0, nil, fmt.Errorf("nothing to change. Usage: %s", editUsage)
	}

	var probe models.Record
	if err := f.apply(&probe); err != nil {
		return 0, nil, err
	}
	return id, f, nil
}

func (c *Cli) edit(ctx context.Context, id int64, f *recordFlags, lease bool) error {
	saved, err := c.save(ctx, id, lease, func(rec *models.Record) {
		// значения проверены в parseEdit
		_ = f.apply(rec)
	})
	if err != nil {
		return err
	}
	c.io.Printf("✓ Record #%d updated: %s\n", saved.ID, saved.Title)
	return nil
}

func (c *Cli) runDone(ctx context.Context, args []string) error {
	id, err := parseID(args, "done <id>")
	if err != nil {
		return err
	}
	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if err := c.complete(ctx, id, true); err != nil {
		return err
	}
	c.persist(ctx)
	return nil
}

func (c *Cli) complete(ctx context.Context, id int64, lease bool) error {
	saved, err := c.save(ctx, id, lease, func(rec *models.Record) {
		rec.Completed = true
	})
	if err != nil {
		return err
	}
	c.io.Printf("✓ Record #%d completed: %s\n", saved.ID, saved.Title)
	return nil
}

// save применяет mutate и ждет ответа сервера. С lease запись блокируется
// на время правки; без соединения правка сохраняется без блокировки.
func (c *Cli) save(ctx context.Context, id int64, lease bool, mutate func(rec *models.Record)) (*models.Record, error) {
	if lease {
		if err := c.board.AcquireLease(ctx, id); err != nil {
			if !errors.Is(err, transport.ErrDisconnected) {
				return nil, fmt.Errorf("failed to lock record %d: %w", id, err)
			}
			lease = false
			c.io.Println("⚠ Not connected to live updates, saving without lock.")
		}
	}
	if lease {
		defer func() {
			if err := c.board.ReleaseLease(context.WithoutCancel(ctx), id); err != nil {
				c.io.Printf("⚠ Failed to release lock on record %d: %v\n", id, err)
			}
		}()
	}

	pending, err := c.board.Edit(ctx, id, mutate)
	if err != nil {
		return nil, fmt.Errorf("failed to edit record %d: %w", id, err)
	}

	saved, err := pending.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to save record %d: %w", id, err)
	}
	return saved, nil
}
