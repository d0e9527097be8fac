package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/gophtodo/internal/lease"
	"github.com/iudanet/gophtodo/internal/server/config"
	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/hub"
	"github.com/iudanet/gophtodo/internal/server/middleware"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/server/storage/sqlite"
)

const healthPath = "/api/v1/health"

// Deps зависимости HTTP слоя
type Deps struct {
	Logger      *slog.Logger
	Storage     storage.RecordStorage
	DB          handlers.Pinger
	Hub         *hub.Hub
	RateLimiter *middleware.RateLimiter
	Version     string
	JWT         handlers.JWTConfig
}

// NewHandler собирает маршруты и middleware сервера
func NewHandler(d Deps) http.Handler {
	records := handlers.NewRecordsHandler(d.Logger, d.Storage, d.Hub)
	health := handlers.NewHealthHandler(d.Logger, d.Version, d.DB, d.Hub)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/records", records.List)
	api.HandleFunc("POST /api/v1/records", records.Create)
	api.HandleFunc("GET /api/v1/records/{id}", records.Get)
	api.HandleFunc("PUT /api/v1/records/{id}", records.Update)
	api.HandleFunc("DELETE /api/v1/records/{id}", records.Delete)
	api.HandleFunc("GET /api/v1/ws", d.Hub.ServeWS)

	var protected http.Handler = api
	if d.JWT.Enabled() {
		protected = middleware.AuthMiddleware(d.Logger, d.JWT)(api)
	} else {
		d.Logger.Warn("JWT secret is not set, authentication disabled")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+healthPath, health.Health)
	mux.Handle("/", protected)

	mws := []func(http.Handler) http.Handler{
		middleware.RecoveryMiddleware(d.Logger),
		middleware.LoggingWithSkip(d.Logger, []string{healthPath}),
	}
	if d.RateLimiter != nil {
		mws = append(mws, d.RateLimiter.Middleware)
	}

	return middleware.Chain(mux, mws...)
}

// Run запускает сервер и блокируется до отмены ctx, после чего
// останавливает прием запросов, закрывает websocket соединения и базу
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) error {
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	registry := lease.NewRegistry(logger.With("component", "lease"))
	h := hub.New(logger.With("component", "hub"), registry, cfg.Hub())
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
	defer limiter.Stop()

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: NewHandler(Deps{
			Logger:      logger,
			Storage:     store,
			DB:          store,
			Hub:         h,
			RateLimiter: limiter,
			Version:     version,
			JWT:         cfg.JWT(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go h.Run(hubCtx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "address", cfg.Address, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			h.Close()
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket соединения Shutdown не ждет: их закрывает hub
	h.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
