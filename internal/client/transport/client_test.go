package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

const waitTimeout = 2 * time.Second

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// fakeServer принимает websocket соединения, отправляет hello и отдает серверную сторону тесту
type fakeServer struct {
	srv     *httptest.Server
	conns   chan *websocket.Conn
	headers chan http.Header
	seq     atomic.Int64
	reject  atomic.Bool
	noHello atomic.Bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		conns:   make(chan *websocket.Conn, 8),
		headers: make(chan http.Header, 8),
	}
	upgrader := websocket.Upgrader{}

	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fs.reject.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fs.headers <- r.Header.Clone()

		first := api.Message{Type: api.MsgHello, ConnectionID: fmt.Sprintf("conn-%d", fs.seq.Add(1))}
		if fs.noHello.Load() {
			first = api.Message{Type: api.MsgLeaseReleased, RecordID: 1}
		}
		if err := conn.WriteJSON(first); err != nil {
			_ = conn.Close()
			return
		}
		fs.conns <- conn
	}))
	t.Cleanup(fs.srv.Close)

	return fs
}

func (fs *fakeServer) url() string {
	return "ws" + strings.TrimPrefix(fs.srv.URL, "http")
}

func (fs *fakeServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-fs.conns:
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	case <-time.After(waitTimeout):
		t.Fatal("no connection accepted")
		return nil
	}
}

func testConfig(url string) Config {
	cfg := DefaultConfig(url)
	cfg.MachineID = "machine-a"
	cfg.ReconnectBaseDelay = 10 * time.Millisecond
	cfg.ReconnectMaxDelay = 50 * time.Millisecond
	cfg.ReconnectAttempts = 3
	cfg.HandshakeTimeout = time.Second
	return cfg
}

// recorder записывает события в виде строк
type recorder struct {
	events        chan string
	panicOnCreate bool
}

func newRecorder() *recorder {
	return &recorder{events: make(chan string, 64)}
}

func (r *recorder) ConnectionChanged(connected bool) {
	r.events <- fmt.Sprintf("connected=%v", connected)
}

func (r *recorder) RecordCreated(rec models.Record) {
	if r.panicOnCreate {
		panic("handler failure")
	}
	r.events <- fmt.Sprintf("created:%d:%s", rec.ID, rec.Title)
}

func (r *recorder) RecordUpdated(rec models.Record) {
	r.events <- fmt.Sprintf("updated:%d:%s", rec.ID, rec.Title)
}

func (r *recorder) RecordDeleted(id int64) {
	r.events <- fmt.Sprintf("deleted:%d", id)
}

func (r *recorder) LeaseAcquired(id int64, holderID string) {
	r.events <- fmt.Sprintf("acquired:%d:%s", id, holderID)
}

func (r *recorder) LeaseReleased(id int64) {
	r.events <- fmt.Sprintf("released:%d", id)
}

func (r *recorder) next(t *testing.T) string {
	t.Helper()
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(waitTimeout):
		t.Fatal("timeout waiting for event")
		return ""
	}
}

func connectClient(t *testing.T, fs *fakeServer) (*Client, *recorder, *websocket.Conn) {
	t.Helper()
	client := New(setupTestLogger(), testConfig(fs.url()))
	rec := newRecorder()
	client.AddHandler(rec)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Connect(context.Background()))
	server := fs.accept(t)
	require.Equal(t, "connected=true", rec.next(t))

	return client, rec, server
}

func TestClient_ConnectAndCommands(t *testing.T) {
	fs := newFakeServer(t)
	client, _, server := connectClient(t, fs)

	assert.Equal(t, StateConnected, client.State())
	assert.True(t, client.IsConnected())
	assert.Equal(t, "conn-1", client.ConnectionID())

	header := <-fs.headers
	assert.Equal(t, "machine-a", header.Get(api.HeaderMachineID))
	assert.Empty(t, header.Get("Authorization"))

	// Повторный Connect ничего не делает
	require.NoError(t, client.Connect(context.Background()))
	assert.Equal(t, "conn-1", client.ConnectionID())

	require.NoError(t, client.AcquireLease(context.Background(), 7))
	require.NoError(t, client.ReleaseLease(context.Background(), 7))

	_ = server.SetReadDeadline(time.Now().Add(waitTimeout))
	var msg api.Message
	require.NoError(t, server.ReadJSON(&msg))
	assert.Equal(t, api.Message{Type: api.MsgAcquireLease, RecordID: 7}, msg)
	msg = api.Message{}
	require.NoError(t, server.ReadJSON(&msg))
	assert.Equal(t, api.Message{Type: api.MsgReleaseLease, RecordID: 7}, msg)
}

func TestClient_AccessTokenHeader(t *testing.T) {
	fs := newFakeServer(t)
	cfg := testConfig(fs.url())
	cfg.AccessToken = "tok"
	client := New(setupTestLogger(), cfg)
	defer client.Close()

	require.NoError(t, client.Connect(context.Background()))
	header := <-fs.headers
	assert.Equal(t, "Bearer tok", header.Get("Authorization"))
}

func TestClient_DispatchesEventsInOrder(t *testing.T) {
	fs := newFakeServer(t)
	_, rec, server := connectClient(t, fs)

	messages := []api.Message{
		{Type: api.MsgRecordCreated, Record: &models.Record{ID: 1, Title: "a"}},
		{Type: api.MsgRecordUpdated, Record: &models.Record{ID: 1, Title: "b"}},
		{Type: api.MsgRecordCreated},
		{Type: api.MsgLeaseAcquired, RecordID: 1, HolderID: "conn-9"},
		{Type: api.MsgError, Error: "rate limited"},
		{Type: api.MessageType("future_event")},
		{Type: api.MsgLeaseReleased, RecordID: 1},
		{Type: api.MsgRecordDeleted, RecordID: 1},
	}
	for _, msg := range messages {
		require.NoError(t, server.WriteJSON(msg))
	}

	want := []string{
		"created:1:a",
		"updated:1:b",
		"acquired:1:conn-9",
		"released:1",
		"deleted:1",
	}
	for _, w := range want {
		assert.Equal(t, w, rec.next(t))
	}
}

func TestClient_HandlerPanicDoesNotStopReading(t *testing.T) {
	fs := newFakeServer(t)
	client := New(setupTestLogger(), testConfig(fs.url()))
	defer client.Close()
	rec := newRecorder()
	rec.panicOnCreate = true
	client.AddHandler(rec)

	require.NoError(t, client.Connect(context.Background()))
	server := fs.accept(t)
	require.Equal(t, "connected=true", rec.next(t))

	require.NoError(t, server.WriteJSON(api.Message{Type: api.MsgRecordCreated, Record: &models.Record{ID: 1}}))
	require.NoError(t, server.WriteJSON(api.Message{Type: api.MsgRecordDeleted, RecordID: 1}))

	assert.Equal(t, "deleted:1", rec.next(t))
	assert.True(t, client.IsConnected())
}

func TestClient_CommandErrors(t *testing.T) {
	client := New(setupTestLogger(), testConfig("ws://127.0.0.1:1/api/v1/ws"))
	defer client.Close()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		ctx     context.Context
		wantErr error
		name    string
		id      int64
	}{
		{name: "disconnected", ctx: context.Background(), id: 1, wantErr: ErrDisconnected},
		{name: "canceled context", ctx: canceled, id: 1, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.AcquireLease(tt.ctx, tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Error(t, client.ReleaseLease(context.Background(), 0))
	assert.NotErrorIs(t, client.ReleaseLease(context.Background(), 0), ErrDisconnected)
}

func TestClient_ConnectFailure(t *testing.T) {
	tests := []struct {
		setup func(fs *fakeServer)
		name  string
	}{
		{name: "handshake rejected", setup: func(fs *fakeServer) { fs.reject.Store(true) }},
		{name: "no hello", setup: func(fs *fakeServer) { fs.noHello.Store(true) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeServer(t)
			tt.setup(fs)

			client := New(setupTestLogger(), testConfig(fs.url()))
			defer client.Close()

			err := client.Connect(context.Background())
			require.Error(t, err)
			assert.Equal(t, StateDisconnected, client.State())
			assert.Empty(t, client.ConnectionID())
			assert.ErrorIs(t, client.AcquireLease(context.Background(), 1), ErrDisconnected)
		})
	}
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	fs := newFakeServer(t)
	client, rec, server := connectClient(t, fs)
	assert.True(t, <-client.States())

	_ = server.Close()

	assert.Equal(t, "connected=false", rec.next(t))
	assert.Equal(t, "connected=true", rec.next(t))
	fs.accept(t)

	assert.Equal(t, StateConnected, client.State())
	assert.Equal(t, "conn-2", client.ConnectionID())
	assert.False(t, <-client.States())
	assert.True(t, <-client.States())
}

func TestClient_GivesUpReconnecting(t *testing.T) {
	fs := newFakeServer(t)
	client, rec, server := connectClient(t, fs)

	fs.reject.Store(true)
	_ = server.Close()
	assert.Equal(t, "connected=false", rec.next(t))

	require.Eventually(t, func() bool {
		return client.State() == StateDisconnected
	}, waitTimeout, 10*time.Millisecond)

	// После исчерпания попыток можно подключиться вручную
	fs.reject.Store(false)
	require.NoError(t, client.Connect(context.Background()))
	fs.accept(t)
	assert.Equal(t, "connected=true", rec.next(t))
}

func TestClient_Close(t *testing.T) {
	fs := newFakeServer(t)
	client, rec, server := connectClient(t, fs)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.Equal(t, "connected=false", rec.next(t))
	assert.Equal(t, StateDisconnected, client.State())
	assert.ErrorIs(t, client.Connect(context.Background()), ErrClosed)
	assert.ErrorIs(t, client.AcquireLease(context.Background(), 1), ErrClosed)

	// Сервер получает close frame
	_ = server.SetReadDeadline(time.Now().Add(waitTimeout))
	_, _, err := server.ReadMessage()
	var closeErr *websocket.CloseError
	require.True(t, errors.As(err, &closeErr))
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)

	// Канал состояний закрыт
	for range client.States() {
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		want  string
		state State
	}{
		{state: StateDisconnected, want: "disconnected"},
		{state: StateConnecting, want: "connecting"},
		{state: StateConnected, want: "connected"},
		{state: StateReconnecting, want: "reconnecting"},
		{state: State(42), want: "state(42)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestMachineID(t *testing.T) {
	id := MachineID()
	assert.Len(t, id, 32)
	assert.Equal(t, id, MachineID())
}
