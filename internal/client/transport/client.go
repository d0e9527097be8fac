package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/gophtodo/pkg/api"
)

var (
	// ErrDisconnected команда отправлена без активного соединения
	ErrDisconnected = errors.New("transport is not connected")
	// ErrClosed клиент закрыт вызовом Close
	ErrClosed = errors.New("transport is closed")
)

const maxMessageSize = 1 << 20

// Config параметры websocket соединения
type Config struct {
	URL                string
	MachineID          string
	AccessToken        string
	PingInterval       time.Duration
	PongWait           time.Duration
	WriteTimeout       time.Duration
	HandshakeTimeout   time.Duration
	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
	ReconnectAttempts  int
}

// DefaultConfig возвращает параметры по умолчанию для адреса url
func DefaultConfig(url string) Config {
	return Config{
		URL:                url,
		PingInterval:       25 * time.Second,
		PongWait:           60 * time.Second,
		WriteTimeout:       10 * time.Second,
		HandshakeTimeout:   10 * time.Second,
		ReconnectAttempts:  10,
		ReconnectBaseDelay: 500 * time.Millisecond,
		ReconnectMaxDelay:  30 * time.Second,
	}
}

// Client websocket клиент синхронизации: команды блокировок и поток событий сервера
type Client struct {
	ctx      context.Context
	logger   *slog.Logger
	conn     *websocket.Conn
	states   chan bool
	cancel   context.CancelFunc
	connID   string
	handlers []EventHandler
	cfg      Config
	wg       sync.WaitGroup
	mu       sync.Mutex
	writeMu  sync.Mutex
	state    State
	closed   bool

	// statesClosed канал states закрыт, отправка запрещена
	statesClosed bool
}

// New создает клиента; соединение устанавливает Connect
func New(logger *slog.Logger, cfg Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		cfg:    cfg,
		states: make(chan bool, 16),
	}
}

// AddHandler подписывает обработчик на события
func (c *Client) AddHandler(h EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// States возвращает поток изменений состояния соединения.
// Если читатель не успевает, значения отбрасываются.
func (c *Client) States() <-chan bool {
	return c.states
}

// State возвращает текущее состояние
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected сокращение для State() == StateConnected
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// ConnectionID идентификатор текущего соединения, выданный сервером в hello
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

// Connect устанавливает соединение. Если соединение уже есть или устанавливается, ничего не делает.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.mu.Unlock()

	conn, connID, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return fmt.Errorf("failed to connect to %s: %w", c.cfg.URL, err)
	}

	return c.attach(conn, connID)
}

// AcquireLease просит сервер выдать блокировку записи. Ответа нет: результат придет событием.
func (c *Client) AcquireLease(ctx context.Context, id int64) error {
	return c.command(ctx, api.MsgAcquireLease, id)
}

// ReleaseLease снимает блокировку записи
func (c *Client) ReleaseLease(ctx context.Context, id int64) error {
	return c.command(ctx, api.MsgReleaseLease, id)
}

// Close закрывает соединение и останавливает переподключение
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancel()
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.WriteTimeout))
		_ = conn.Close()
	}
	c.wg.Wait()

	c.mu.Lock()
	close(c.states)
	c.statesClosed = true
	c.mu.Unlock()

	return nil
}

func (c *Client) command(ctx context.Context, typ api.MessageType, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("invalid record id %d", id)
	}
	return c.send(api.Message{Type: typ, RecordID: id})
}

func (c *Client) send(msg api.Message) error {
	c.mu.Lock()
	conn, state, closed := c.conn, c.state, c.closed
	c.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if state != StateConnected || conn == nil {
		return ErrDisconnected
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		// Чтение получит ошибку и запустит переподключение
		_ = conn.Close()
		return fmt.Errorf("failed to send %s: %w: %w", msg.Type, ErrDisconnected, err)
	}
	return nil
}

// dial выполняет handshake и читает hello с идентификатором соединения
func (c *Client) dial(ctx context.Context) (*websocket.Conn, string, error) {
	header := http.Header{}
	if c.cfg.MachineID != "" {
		header.Set(api.HeaderMachineID, c.cfg.MachineID)
	}
	if c.cfg.AccessToken != "" {
		header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, "", fmt.Errorf("handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, "", fmt.Errorf("dial: %w", err)
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))

	var hello api.Message
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return nil, "", fmt.Errorf("failed to read hello: %w", err)
	}
	if hello.Type != api.MsgHello || hello.ConnectionID == "" {
		_ = conn.Close()
		return nil, "", fmt.Errorf("unexpected first message %q", hello.Type)
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})
	conn.SetPingHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.cfg.WriteTimeout))
		var netErr net.Error
		if errors.Is(err, websocket.ErrCloseSent) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil
		}
		return err
	})

	return conn, hello.ConnectionID, nil
}

// attach делает conn текущим соединением. Обработчики узнают о подключении
// раньше, чем получат первое событие этого соединения.
func (c *Client) attach(conn *websocket.Conn, connID string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.connID = connID
	c.state = StateConnected
	c.wg.Add(2)
	c.mu.Unlock()

	c.logger.Info("Connected", "conn_id", connID)
	c.notifyState(true)

	stop := make(chan struct{})
	go c.readLoop(conn, stop)
	go c.pingLoop(conn, stop)

	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, stop chan struct{}) {
	defer c.wg.Done()
	defer close(stop)

	for {
		var msg api.Message
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDrop(conn, err)
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))

		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("Malformed message from server", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout)); err != nil {
				c.logger.Debug("Ping failed", "error", err)
				_ = conn.Close()
				return
			}
		}
	}
}

// handleDrop обрабатывает потерю соединения conn и запускает переподключение
func (c *Client) handleDrop(conn *websocket.Conn, cause error) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connID = ""
	closed := c.closed
	if closed {
		c.state = StateDisconnected
	} else {
		c.state = StateReconnecting
	}
	c.mu.Unlock()

	_ = conn.Close()
	c.notifyState(false)

	if closed {
		return
	}
	c.logger.Warn("Connection lost", "error", cause)
	c.reconnect()
}

// reconnect повторяет подключение с экспоненциальной задержкой
func (c *Client) reconnect() {
	delay := c.cfg.ReconnectBaseDelay
	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		select {
		case <-c.ctx.Done():
			c.setDisconnected()
			return
		case <-time.After(delay):
		}

		conn, connID, err := c.dial(c.ctx)
		if err == nil {
			if err := c.attach(conn, connID); err != nil {
				c.setDisconnected()
			}
			return
		}

		c.logger.Warn("Reconnect failed", "attempt", attempt, "error", err)
		delay = min(delay*2, c.cfg.ReconnectMaxDelay)
	}

	c.logger.Error("Giving up reconnecting", "attempts", c.cfg.ReconnectAttempts)
	c.setDisconnected()
}

func (c *Client) setDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDisconnected
}

func (c *Client) notifyState(connected bool) {
	c.mu.Lock()
	handlers := append([]EventHandler(nil), c.handlers...)
	if !c.statesClosed {
		select {
		case c.states <- connected:
		default:
		}
	}
	c.mu.Unlock()

	for _, h := range handlers {
		c.safeCall("connection_changed", func() { h.ConnectionChanged(connected) })
	}
}

// dispatch передает событие сервера обработчикам
func (c *Client) dispatch(msg api.Message) {
	c.mu.Lock()
	handlers := append([]EventHandler(nil), c.handlers...)
	c.mu.Unlock()

	var call func(h EventHandler)
	switch msg.Type {
	case api.MsgRecordCreated, api.MsgRecordUpdated:
		if msg.Record == nil {
			c.logger.Warn("Record event without record", "type", msg.Type)
			return
		}
		rec := *msg.Record
		if msg.Type == api.MsgRecordCreated {
			call = func(h EventHandler) { h.RecordCreated(rec) }
		} else {
			call = func(h EventHandler) { h.RecordUpdated(rec) }
		}
	case api.MsgRecordDeleted:
		call = func(h EventHandler) { h.RecordDeleted(msg.RecordID) }
	case api.MsgLeaseAcquired:
		call = func(h EventHandler) { h.LeaseAcquired(msg.RecordID, msg.HolderID) }
	case api.MsgLeaseReleased:
		call = func(h EventHandler) { h.LeaseReleased(msg.RecordID) }
	case api.MsgError:
		c.logger.Warn("Server rejected command", "error", msg.Error)
		return
	default:
		c.logger.Debug("Ignoring message", "type", msg.Type)
		return
	}

	for _, h := range handlers {
		c.safeCall(string(msg.Type), func() { call(h) })
	}
}

func (c *Client) safeCall(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Event handler panic",
				"event", event,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
