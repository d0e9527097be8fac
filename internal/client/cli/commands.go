package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophtodo/internal/client/board"
)

// ErrUnknownCommand неизвестная команда
var ErrUnknownCommand = errors.New("unknown command")

// Run выполняет команду
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	if c.board == nil && NeedsBoard(command) {
		return fmt.Errorf("command %q requires a server connection", command)
	}

	switch command {
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx, args)
	case "show":
		return c.runShow(ctx, args)
	case "add":
		return c.runAdd(ctx, args)
	case "edit":
		return c.runEdit(ctx, args)
	case "done":
		return c.runDone(ctx, args)
	case "rm":
		return c.runRemove(ctx, args)
	case "lock":
		return c.runLock(ctx, args)
	case "watch":
		return c.runWatch(ctx)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		PrintUsage(c.io)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// load загружает список; при недоступном сервере печатает предупреждение
// и продолжает работу с кэшем
func (c *Cli) load(ctx context.Context) error {
	err := c.board.Load(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, board.ErrOffline) {
		c.io.Println("⚠ Server unavailable, showing cached records (read-only).")
		c.io.Println()
		return nil
	}
	return err
}
