package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iudanet/gophtodo/internal/client/board"
)

// Notify печатает изменения доски во время watch. Передается в board.SetObserver.
func (c *Cli) Notify(ch board.Change) {
	if !c.watching.Load() {
		return
	}
	if line := formatChange(ch); line != "" {
		c.io.Println(line)
	}
}

func formatChange(ch board.Change) string {
	rec := ch.Item.Record
	switch ch.Kind {
	case board.ChangeLoaded:
		return "↻ list reloaded"
	case board.ChangeAdded:
		if !rec.IsConfirmed() {
			return ""
		}
		return fmt.Sprintf("+ #%d %s", rec.ID, rec.Title)
	case board.ChangeUpdated:
		return fmt.Sprintf("~ #%d %s (%s)", rec.ID, rec.Title, statusLabel(rec))
	case board.ChangeRemoved:
		if !rec.IsConfirmed() {
			return ""
		}
		return fmt.Sprintf("- #%d %s", rec.ID, rec.Title)
	case board.ChangeLease:
		if label := lockLabel(ch.Item); label != "" {
			return fmt.Sprintf("🔒 #%d %s", rec.ID, label)
		}
		return fmt.Sprintf("🔓 #%d unlocked", rec.ID)
	case board.ChangeConnection:
		if ch.Connected {
			return "● connected"
		}
		return "○ connection lost, reconnecting..."
	default:
		return ""
	}
}

// runWatch интерактивная сессия: команды со stdin, события сервера печатаются сразу
func (c *Cli) runWatch(ctx context.Context) error {
	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if err := c.list(ctx, nil); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Watching for changes. Type 'help' for commands, 'quit' to exit.")

	c.watching.Store(true)
	defer c.watching.Store(false)

	held := make(map[int64]bool)
	defer func() {
		for id := range held {
			c.unlock(context.WithoutCancel(ctx), id)
		}
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		for {
			line, err := c.io.ReadInput("")
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		case line := <-lines:
			quit, err := c.watchCommand(ctx, line, held)
			if err != nil {
				c.io.Printf("Error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// watchCommand выполняет одну команду watch. held блокировки, взятые командой lock.
func (c *Cli) watchCommand(ctx context.Context, line string, held map[int64]bool) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := fields[0], fields[1:]

	switch command {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		c.printWatchHelp()
		return false, nil
	case "list", "ls":
		return false, c.list(ctx, args)
	case "status":
		return false, c.printBoardStatus(ctx)
	case "reload":
		return false, c.load(ctx)
	case "show":
		id, err := parseID(args, "show <id>")
		if err != nil {
			return false, err
		}
		return false, c.show(ctx, id)
	case "add":
		rec, err := c.parseAdd(args)
		if err != nil {
			return false, err
		}
		return false, c.create(ctx, rec)
	case "edit":
		id, f, err := c.parseEdit(args)
		if err != nil {
			return false, err
		}
		return false, c.edit(ctx, id, f, !held[id])
	case "done":
		id, err := parseID(args, "done <id>")
		if err != nil {
			return false, err
		}
		return false, c.complete(ctx, id, !held[id])
	case "rm":
		id, err := parseID(args, "rm <id>")
		if err != nil {
			return false, err
		}
		if err := c.remove(ctx, id); err != nil {
			return false, err
		}
		delete(held, id)
		return false, nil
	case "lock":
		id, err := parseID(args, "lock <id>")
		if err != nil {
			return false, err
		}
		if err := c.lock(ctx, id); err != nil {
			return false, err
		}
		held[id] = true
		return false, nil
	case "unlock":
		id, err := parseID(args, "unlock <id>")
		if err != nil {
			return false, err
		}
		if !held[id] {
			return false, fmt.Errorf("record %d is not locked by you", id)
		}
		delete(held, id)
		c.unlock(ctx, id)
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s (type 'help')", ErrUnknownCommand, command)
	}
}

func (c *Cli) printWatchHelp() {
	c.io.Println("Commands:")
	c.io.Println("  list [TAG]            show records")
	c.io.Println("  show <id>             show record details")
	c.io.Println("  add [FLAGS] <title>   add record")
	c.io.Println("  edit <id> [FLAGS]     edit record")
	c.io.Println("  done <id>             mark record as completed")
	c.io.Println("  rm <id>               delete record")
	c.io.Println("  lock <id>             take edit lease")
	c.io.Println("  unlock <id>           release edit lease")
	c.io.Println("  status                show connection status")
	c.io.Println("  reload                reload records from server")
	c.io.Println("  quit                  exit")
}
