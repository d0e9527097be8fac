package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/iudanet/gophtodo/pkg/api"
)

// errPeerClosed соединение уже закрывается, сообщение отброшено
var errPeerClosed = errors.New("peer is closed")

// peer одно websocket соединение клиента
type peer struct {
	conn      *websocket.Conn
	hub       *Hub
	logger    *slog.Logger
	limiter   *rate.Limiter
	queue     chan []byte
	done      chan struct{}
	id        string
	machineID string
	closeOnce sync.Once
}

// newPeer создает соединение. Очередь вмещает текущий snapshot leases
// сверх SendQueueSize: snapshot ставится в очередь целиком до начала отправки.
func newPeer(h *Hub, conn *websocket.Conn, id, machineID string) *peer {
	return &peer{
		conn:      conn,
		hub:       h,
		logger:    h.logger.With("conn_id", id),
		limiter:   rate.NewLimiter(h.cfg.CommandRate, h.cfg.CommandBurst),
		queue:     make(chan []byte, h.cfg.SendQueueSize+h.leases.Len()),
		done:      make(chan struct{}),
		id:        id,
		machineID: machineID,
	}
}

// enqueue кладет сообщение в очередь без блокировки
func (p *peer) enqueue(data []byte) error {
	select {
	case <-p.done:
		return errPeerClosed
	default:
	}

	select {
	case p.queue <- data:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// enqueueWait ждет места в очереди не дольше timeout
func (p *peer) enqueueWait(data []byte, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return errPeerClosed
	case p.queue <- data:
		return nil
	case <-timer.C:
		return ErrSlowConsumer
	}
}

// send сериализует и ставит в очередь сообщение только этому соединению
func (p *peer) send(msg api.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}
	return p.enqueue(data)
}

// sendWait как send, но при полной очереди ждет writePump до WriteTimeout
func (p *peer) sendWait(msg api.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}
	if err := p.enqueue(data); !errors.Is(err, ErrSlowConsumer) {
		return err
	}
	return p.enqueueWait(data, p.hub.cfg.WriteTimeout)
}

// close останавливает соединение: writePump отправляет close frame
// и закрывает сокет, после чего readPump завершается с ошибкой чтения
func (p *peer) close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}

// readPump читает команды клиента до ошибки чтения.
// При выходе соединение закрывается и его leases освобождаются.
func (p *peer) readPump() {
	defer p.hub.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Panic recovered in read pump",
				"error", rec,
				"stack", string(debug.Stack()))
		}
		p.close()
		p.hub.onDisconnect(p)
		p.logger.Info("Peer disconnected")
	}()

	p.conn.SetReadLimit(p.hub.cfg.MaxMessageLen)
	_ = p.conn.SetReadDeadline(time.Now().Add(p.hub.cfg.PongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(p.hub.cfg.PongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Debug("Unexpected close", "error", err)
			}
			return
		}

		var msg api.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			p.reject("invalid message")
			continue
		}

		p.handleCommand(msg)
	}
}

func (p *peer) handleCommand(msg api.Message) {
	switch msg.Type {
	case api.MsgAcquireLease, api.MsgReleaseLease:
	default:
		p.reject(fmt.Sprintf("unsupported message type %q", msg.Type))
		return
	}

	if msg.RecordID <= 0 {
		p.reject("record_id is required")
		return
	}

	if !p.limiter.Allow() {
		p.logger.Warn("Lease command rate limit exceeded", "type", msg.Type, "record_id", msg.RecordID)
		p.reject("rate limit exceeded")
		return
	}

	if msg.Type == api.MsgAcquireLease {
		p.hub.acquire(p, msg.RecordID)
	} else {
		p.hub.release(p, msg.RecordID)
	}
}

// reject отправляет клиенту сообщение об ошибке
func (p *peer) reject(reason string) {
	if err := p.send(api.Message{Type: api.MsgError, Error: reason}); err != nil {
		p.logger.Debug("Failed to send error message", "error", err)
	}
}

// writePump единственный писатель в соединение: сообщения из очереди и ping
func (p *peer) writePump() {
	defer p.hub.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Panic recovered in write pump",
				"error", rec,
				"stack", string(debug.Stack()))
		}
		p.close()
		_ = p.conn.Close()
	}()

	ticker := time.NewTicker(p.hub.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-p.queue:
			_ = p.conn.SetWriteDeadline(time.Now().Add(p.hub.cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				p.logger.Debug("Write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(p.hub.cfg.WriteTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.logger.Debug("Ping failed", "error", err)
				return
			}
		case <-p.done:
			p.flush()
			_ = p.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}

// flush дописывает уже поставленные в очередь сообщения перед close frame.
// На всю очередь отводится один WriteTimeout.
func (p *peer) flush() {
	_ = p.conn.SetWriteDeadline(time.Now().Add(p.hub.cfg.WriteTimeout))
	for {
		select {
		case data := <-p.queue:
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				p.logger.Debug("Flush on close failed", "error", err)
				return
			}
		default:
			return
		}
	}
}
