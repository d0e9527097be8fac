package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/iudanet/gophtodo/internal/lease"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

var (
	// ErrSlowConsumer очередь отправки клиента переполнена, клиент отключен
	ErrSlowConsumer = errors.New("peer send queue is full")
	// ErrHubClosed hub остановлен и не принимает соединения
	ErrHubClosed = errors.New("hub is closed")
)

// Config параметры websocket соединений
type Config struct {
	PingInterval  time.Duration // PingInterval период отправки ping
	PongWait      time.Duration // PongWait максимальное ожидание pong (должно быть больше PingInterval)
	WriteTimeout  time.Duration // WriteTimeout таймаут записи одного сообщения
	CommandRate   rate.Limit    // CommandRate лимит lease-команд соединения в секунду
	CommandBurst  int           // CommandBurst допустимый всплеск lease-команд
	SendQueueSize int           // SendQueueSize размер очереди исходящих сообщений соединения
	MaxMessageLen int64         // MaxMessageLen максимальный размер входящего сообщения
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		PingInterval:  30 * time.Second,
		PongWait:      40 * time.Second,
		WriteTimeout:  10 * time.Second,
		CommandRate:   20,
		CommandBurst:  40,
		SendQueueSize: 256,
		MaxMessageLen: 4096,
	}
}

// Hub держит множество подключенных клиентов и рассылает им события.
// Операции над leases и постановка соответствующих событий в очереди
// выполняются под orderMu, поэтому события одной записи уходят в порядке применения.
type Hub struct {
	logger   *slog.Logger
	leases   *lease.Registry
	peers    map[string]*peer
	done     chan struct{}
	upgrader websocket.Upgrader
	cfg      Config
	wg       sync.WaitGroup
	mu       sync.RWMutex // peers, closed
	orderMu  sync.Mutex
	closed   bool
}

// New создает hub поверх реестра leases
func New(logger *slog.Logger, leases *lease.Registry, cfg Config) *Hub {
	return &Hub{
		logger: logger,
		leases: leases,
		peers:  make(map[string]*peer),
		done:   make(chan struct{}),
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Клиенты - CLI и сервисы, Origin не проверяем
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run блокируется до отмены ctx, затем закрывает все соединения
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Close()
			return
		case <-h.done:
			return
		case <-ticker.C:
			h.logger.Debug("Hub stats", "peers", h.PeerCount(), "leases", h.leases.Len())
		}
	}
}

// Close отключает всех клиентов и ждет завершения их горутин
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.done)
	peers := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
	h.wg.Wait()
	h.logger.Info("Hub closed", "peers", len(peers))
}

// PeerCount возвращает количество подключенных клиентов
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) register(p *peer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.peers[p.id] = p
	// Помпы учитываются под mu, чтобы Close не начал Wait раньше Add
	h.wg.Add(2)
	return nil
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	delete(h.peers, p.id)
	h.mu.Unlock()
}

// broadcast сериализует сообщение один раз и кладет его в очередь каждого клиента.
// Клиент с переполненной очередью отключается; его ошибка попадает в результат.
func (h *Hub) broadcast(msg api.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msg.Type, err)
	}

	h.mu.RLock()
	var slow []*peer
	for _, p := range h.peers {
		if err := p.enqueue(data); errors.Is(err, ErrSlowConsumer) {
			slow = append(slow, p)
		}
	}
	h.mu.RUnlock()

	var errs []error
	for _, p := range slow {
		h.logger.Warn("Evicting slow peer", "conn_id", p.id, "type", msg.Type)
		p.close()
		errs = append(errs, fmt.Errorf("peer %s: %w", p.id, ErrSlowConsumer))
	}
	return errors.Join(errs...)
}

// acquire выдает lease соединению и рассылает lease_acquired.
// Отказ не сообщается клиенту: он узнает владельца из событий.
func (h *Hub) acquire(p *peer, recordID int64) {
	h.orderMu.Lock()
	defer h.orderMu.Unlock()

	if !h.leases.Acquire(recordID, p.id, p.machineID) {
		return
	}
	if err := h.broadcast(leaseAcquiredMessage(recordID, p.id)); err != nil {
		h.logger.Warn("Lease acquired broadcast incomplete", "record_id", recordID, "error", err)
	}
}

// release снимает lease, если его держит соединение, и рассылает lease_released
func (h *Hub) release(p *peer, recordID int64) {
	h.orderMu.Lock()
	defer h.orderMu.Unlock()

	if !h.leases.Release(recordID, p.id) {
		return
	}
	if err := h.broadcast(leaseReleasedMessage(recordID)); err != nil {
		h.logger.Warn("Lease released broadcast incomplete", "record_id", recordID, "error", err)
	}
}

// broadcastReleased рассылает lease_released для каждого id; вызывается под orderMu
func (h *Hub) broadcastReleased(ids []int64) error {
	var errs []error
	for _, id := range ids {
		if err := h.broadcast(leaseReleasedMessage(id)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordCreated implements Notifier
func (h *Hub) RecordCreated(rec models.Record) error {
	return h.broadcast(api.Message{Type: api.MsgRecordCreated, Record: &rec})
}

// RecordUpdated implements Notifier
func (h *Hub) RecordUpdated(rec models.Record) error {
	return h.broadcast(api.Message{Type: api.MsgRecordUpdated, Record: &rec})
}

// RecordDeleted implements Notifier. Lease удаленной записи снимается,
// клиенты получают lease_released следом за record_deleted.
func (h *Hub) RecordDeleted(id int64) error {
	h.orderMu.Lock()
	defer h.orderMu.Unlock()

	err := h.broadcast(api.Message{Type: api.MsgRecordDeleted, RecordID: id})

	l, ok := h.leases.Drop(id)
	if !ok {
		return err
	}
	h.logger.Info("Dropped lease of deleted record", "record_id", id, "holder", l.ConnectionID)
	return errors.Join(err, h.broadcast(leaseReleasedMessage(id)))
}

// LeaseAcquired implements Notifier для вызовов извне hub.
// Команды клиентов по websocket (acquire, release, disconnect, ghost)
// рассылают события сами под тем же orderMu, что и изменение реестра.
func (h *Hub) LeaseAcquired(id int64, holderID string) error {
	h.orderMu.Lock()
	defer h.orderMu.Unlock()
	return h.broadcast(leaseAcquiredMessage(id, holderID))
}

// LeaseReleased implements Notifier для вызовов извне hub
func (h *Hub) LeaseReleased(id int64) error {
	h.orderMu.Lock()
	defer h.orderMu.Unlock()
	return h.broadcast(leaseReleasedMessage(id))
}

func leaseAcquiredMessage(id int64, holderID string) api.Message {
	return api.Message{Type: api.MsgLeaseAcquired, RecordID: id, HolderID: holderID}
}

func leaseReleasedMessage(id int64) api.Message {
	return api.Message{Type: api.MsgLeaseReleased, RecordID: id}
}

var _ Notifier = (*Hub)(nil)
