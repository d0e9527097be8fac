package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiclient "github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/client/transport"
	"github.com/iudanet/gophtodo/internal/lease"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/hub"
	"github.com/iudanet/gophtodo/internal/server/storage/sqlite"
)

const (
	waitFor = 3 * time.Second
	tick    = 10 * time.Millisecond
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEnv сервер с настоящими storage, hub и авторизацией
type testEnv struct {
	leases *lease.Registry
	jwt    handlers.JWTConfig
	url    string
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := setupTestLogger()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)

	leases := lease.NewRegistry(logger)
	h := hub.New(logger, leases, hub.DefaultConfig())
	jwtCfg := handlers.JWTConfig{Secret: []byte("test-secret"), AccessTokenTTL: time.Hour}

	srv := httptest.NewServer(NewHandler(Deps{
		Logger:  logger,
		Storage: store,
		DB:      store,
		Hub:     h,
		Version: "test",
		JWT:     jwtCfg,
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
		_ = store.Close()
	})

	return &testEnv{leases: leases, jwt: jwtCfg, url: srv.URL}
}

// testClient клиент целиком: REST, websocket транспорт и доска
type testClient struct {
	board     *board.Board
	transport *transport.Client
}

func (e *testEnv) connect(t *testing.T, name, machineID string) *testClient {
	t.Helper()
	logger := setupTestLogger()

	token, _, err := handlers.GenerateAccessToken(e.jwt, name)
	require.NoError(t, err)

	api := apiclient.NewClient(e.url, token)
	wsURL, err := api.WebSocketURL()
	require.NoError(t, err)

	cfg := transport.DefaultConfig(wsURL)
	cfg.MachineID = machineID
	cfg.AccessToken = token
	cfg.ReconnectAttempts = 0
	tr := transport.New(logger, cfg)

	b := board.New(logger, api, tr, nil)
	tr.AddHandler(b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()
	t.Cleanup(func() {
		_ = tr.Close()
		cancel()
		<-done
	})

	require.NoError(t, tr.Connect(ctx))
	require.NoError(t, b.Load(ctx))

	return &testClient{board: b, transport: tr}
}

func (c *testClient) lockState(t *testing.T, id int64) board.LockState {
	t.Helper()
	it, err := c.board.Get(context.Background(), id)
	if err != nil {
		return -1
	}
	return it.LockState()
}

func (c *testClient) has(id int64) bool {
	_, err := c.board.Get(context.Background(), id)
	return err == nil
}

func countID(items []board.Item, id int64) int {
	n := 0
	for _, it := range items {
		if it.Record.ID == id {
			n++
		}
	}
	return n
}

func TestServer_RequiresToken(t *testing.T) {
	env := setupServer(t)

	resp, err := http.Get(env.url + "/api/v1/records")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(env.url + healthPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_CreateIsEchoedOnce(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	b := env.connect(t, "client-b", "machine-b")
	ctx := context.Background()

	created, err := a.board.Create(ctx, models.Record{Title: "Buy milk", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.True(t, created.IsConfirmed())

	assert.Eventually(t, func() bool { return b.has(created.ID) }, waitFor, tick)

	// эхо создания не дублирует запись у автора
	time.Sleep(50 * time.Millisecond)
	items, err := a.board.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, countID(items, created.ID))
}

func TestServer_LeaseScenario(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	b := env.connect(t, "client-b", "machine-b")
	ctx := context.Background()

	rec, err := a.board.Create(ctx, models.Record{Title: "Quarterly report", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.has(rec.ID) }, waitFor, tick)

	// A берет блокировку: A видит свою, B чужую
	require.NoError(t, a.board.AcquireLease(ctx, rec.ID))
	assert.Equal(t, board.LockedByMe, a.lockState(t, rec.ID))
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.LockedByOther }, waitFor, tick)

	// B не может ни править, ни блокировать
	_, err = b.board.Edit(ctx, rec.ID, func(r *models.Record) { r.Title = "Stolen" })
	require.ErrorIs(t, err, board.ErrLockedByOther)
	require.ErrorIs(t, b.board.AcquireLease(ctx, rec.ID), board.ErrLockedByOther)

	// правка A доходит до B
	pending, err := a.board.Edit(ctx, rec.ID, func(r *models.Record) { r.Title = "Quarterly report v2" })
	require.NoError(t, err)
	saved, err := pending.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report v2", saved.Title)
	require.Eventually(t, func() bool {
		it, err := b.board.Get(ctx, rec.ID)
		return err == nil && it.Record.Title == "Quarterly report v2"
	}, waitFor, tick)

	// разрыв соединения A снимает блокировку у всех
	require.NoError(t, a.transport.Close())
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.Unlocked }, waitFor, tick)

	require.NoError(t, b.board.AcquireLease(ctx, rec.ID))
	assert.Equal(t, board.LockedByMe, b.lockState(t, rec.ID))
}

func TestServer_ReleaseLease(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	b := env.connect(t, "client-b", "machine-b")
	ctx := context.Background()

	rec, err := a.board.Create(ctx, models.Record{Title: "Plan trip", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.has(rec.ID) }, waitFor, tick)

	require.NoError(t, a.board.AcquireLease(ctx, rec.ID))
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.LockedByOther }, waitFor, tick)

	require.NoError(t, a.board.ReleaseLease(ctx, rec.ID))
	assert.Equal(t, board.Unlocked, a.lockState(t, rec.ID))
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.Unlocked }, waitFor, tick)
}

func TestServer_GhostLeaseReleasedOnReconnect(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	b := env.connect(t, "client-b", "machine-b")
	ctx := context.Background()

	rec, err := a.board.Create(ctx, models.Record{Title: "Ghost", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, a.board.AcquireLease(ctx, rec.ID))
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.LockedByOther }, waitFor, tick)

	// новое соединение с той же машины снимает блокировки прежнего
	a2 := env.connect(t, "client-a", "machine-a")
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.Unlocked }, waitFor, tick)
	assert.Equal(t, board.Unlocked, a2.lockState(t, rec.ID))
}

func TestServer_DeletePropagates(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	b := env.connect(t, "client-b", "machine-b")
	ctx := context.Background()

	rec, err := a.board.Create(ctx, models.Record{Title: "Temporary", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.has(rec.ID) }, waitFor, tick)

	require.NoError(t, b.board.Delete(ctx, rec.ID))
	assert.False(t, b.has(rec.ID))
	require.Eventually(t, func() bool { return !a.has(rec.ID) }, waitFor, tick)
}

func TestServer_LateJoinerSeesExistingLease(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	ctx := context.Background()

	rec, err := a.board.Create(ctx, models.Record{Title: "Budget", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, a.board.AcquireLease(ctx, rec.ID))
	require.Eventually(t, func() bool {
		_, ok := env.leases.Holder(rec.ID)
		return ok
	}, waitFor, tick)

	// B подключается после выдачи lease: snapshot приходит раньше списка
	b := env.connect(t, "client-b", "machine-b")
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.LockedByOther }, waitFor, tick)

	_, err = b.board.Edit(ctx, rec.ID, func(r *models.Record) { r.Title = "Stolen" })
	require.ErrorIs(t, err, board.ErrLockedByOther)
	require.ErrorIs(t, b.board.Delete(ctx, rec.ID), board.ErrLockedByOther)

	require.NoError(t, a.board.ReleaseLease(ctx, rec.ID))
	require.Eventually(t, func() bool { return b.lockState(t, rec.ID) == board.Unlocked }, waitFor, tick)
}

func TestServer_DeleteDropsLease(t *testing.T) {
	env := setupServer(t)
	a := env.connect(t, "client-a", "machine-a")
	ctx := context.Background()

	rec, err := a.board.Create(ctx, models.Record{Title: "Old note", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, a.board.AcquireLease(ctx, rec.ID))
	require.Eventually(t, func() bool { return env.leases.Len() == 1 }, waitFor, tick)

	require.NoError(t, a.board.Delete(ctx, rec.ID))
	require.Eventually(t, func() bool { return env.leases.Len() == 0 }, waitFor, tick)

	b := env.connect(t, "client-b", "machine-b")
	next, err := b.board.Create(ctx, models.Record{Title: "New note", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, b.board.AcquireLease(ctx, next.ID))
	assert.Equal(t, board.LockedByMe, b.lockState(t, next.ID))
	require.Eventually(t, func() bool { return env.leases.Len() == 1 }, waitFor, tick)

	_, ok := env.leases.Holder(rec.ID)
	assert.False(t, ok)
}
