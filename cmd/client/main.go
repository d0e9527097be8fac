package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/client/cli"
	"github.com/iudanet/gophtodo/internal/client/iocli"
	"github.com/iudanet/gophtodo/internal/client/storage/boltdb"
	"github.com/iudanet/gophtodo/internal/client/transport"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// connectTimeout ограничивает установку websocket соединения для команд
const connectTimeout = 5 * time.Second

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "gophtodo-client.db", "Path to local cache")
	token := flag.String("token", "", "Access token (overrides saved session)")
	machineID := flag.String("machine-id", "", "Machine identity (default: derived from host and user)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}
	command := args[0]

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, stdio, options{
		serverURL: *serverURL,
		dbPath:    *dbPath,
		token:     *token,
		machineID: *machineID,
	}, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	serverURL string
	dbPath    string
	token     string
	machineID string
}

func run(ctx context.Context, logger *slog.Logger, stdio iocli.IO, opts options, command string, args []string) error {
	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	if !cli.NeedsBoard(command) {
		return cli.New(stdio, nil, boltStorage, opts.serverURL).Run(ctx, command, args)
	}

	accessToken, err := cli.ResolveToken(ctx, boltStorage, opts.serverURL, opts.token, time.Now())
	if err != nil {
		return err
	}

	apiClient := api.NewClient(opts.serverURL, accessToken)
	wsURL, err := apiClient.WebSocketURL()
	if err != nil {
		return err
	}

	if opts.machineID == "" {
		opts.machineID = transport.MachineID()
	}
	cfg := transport.DefaultConfig(wsURL)
	cfg.MachineID = opts.machineID
	cfg.AccessToken = accessToken
	tr := transport.New(logger, cfg)

	b := board.New(logger, apiClient, tr, boltStorage)
	c := cli.New(stdio, b, boltStorage, opts.serverURL)
	b.SetObserver(c.Notify)
	tr.AddHandler(b)

	boardCtx, cancelBoard := context.WithCancel(context.WithoutCancel(ctx))
	boardDone := make(chan struct{})
	go func() {
		defer close(boardDone)
		b.Run(boardCtx)
	}()
	defer func() {
		// транспорт закрывается раньше доски: события после остановки не нужны
		if err := tr.Close(); err != nil {
			logger.Warn("Failed to close connection", "error", err)
		}
		cancelBoard()
		<-boardDone
	}()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err = tr.Connect(connectCtx)
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Live updates unavailable", "error", err)
	}

	return c.Run(ctx, command, args)
}

func printVersion() {
	fmt.Printf("GophTodo Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
