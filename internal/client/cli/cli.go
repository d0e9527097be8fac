// Package cli реализует команды клиента поверх доски записей.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/client/iocli"
	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/models"
)

//go:generate moq -out board_mock.go . Board

// Board операции доски, которые использует CLI
type Board interface {
	Load(ctx context.Context) error
	Persist(ctx context.Context) error
	Items(ctx context.Context) ([]board.Item, error)
	Get(ctx context.Context, id int64) (board.Item, error)
	Status(ctx context.Context) (board.Status, error)
	Create(ctx context.Context, rec models.Record) (models.Record, error)
	Edit(ctx context.Context, id int64, mutate func(rec *models.Record)) (*board.PendingSave, error)
	Delete(ctx context.Context, id int64) error
	AcquireLease(ctx context.Context, id int64) error
	ReleaseLease(ctx context.Context, id int64) error
}

type Cli struct {
	io        iocli.IO
	board     Board
	sessions  storage.SessionStorage
	now       func() time.Time
	serverURL string
	watching  atomic.Bool
}

// New создает CLI. board может быть nil для команд, которым не нужен сервер
// (login, logout).
func New(io iocli.IO, b Board, sessions storage.SessionStorage, serverURL string) *Cli {
	return &Cli{
		io:        io,
		board:     b,
		sessions:  sessions,
		serverURL: serverURL,
		now:       time.Now,
	}
}

// NeedsBoard сообщает, нужна ли команде доска с подключением к серверу
func NeedsBoard(command string) bool {
	switch command {
	case "login", "logout", "help":
		return false
	default:
		return true
	}
}

func PrintUsage(io iocli.IO) {
	io.Println("gophtodo client")
	io.Println()
	io.Println("Usage:")
	io.Println("  gophtodo [OPTIONS] COMMAND [ARGS]")
	io.Println()
	io.Println("Options:")
	io.Println("  -version             Show version information")
	io.Println("  -server URL          Server URL (default: http://localhost:8080)")
	io.Println("  -db PATH             Path to local cache (default: gophtodo-client.db)")
	io.Println("  -token TOKEN         Access token (overrides saved session)")
	io.Println("  -machine-id ID       Machine identity (default: derived from host and user)")
	io.Println()
	io.Println("Commands:")
	io.Println("  login [TOKEN]                 Save access token for the server")
	io.Println("  logout                        Delete saved session")
	io.Println("  status                        Show connection status")
	io.Println("  list [TAG]                    List records")
	io.Println("  show <id>                     Show record details")
	io.Println("  add [FLAGS] <title>           Add record (-priority, -tags, -due)")
	io.Println("  edit <id> [FLAGS]             Edit record (-title, -priority, -tags, -due, -undone)")
	io.Println("  done <id>                     Mark record as completed")
	io.Println("  rm <id>                       Delete record")
	io.Println("  lock <id> [DURATION]          Hold edit lease until interrupted or DURATION passes")
	io.Println("  watch                         Interactive session with live updates")
	io.Println()
	io.Println("Examples:")
	io.Println("  gophtodo add -priority high -tags work,urgent Prepare release notes")
	io.Println("  gophtodo edit 12 -due 2026-11-01")
	io.Println("  gophtodo lock 12 5m")
	io.Println("  gophtodo --server https://todo.example.com watch")
}

// parseID разбирает ID записи из аргумента команды
func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing record ID. Usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record ID %q. Usage: %s", args[0], usage)
	}
	return id, nil
}
