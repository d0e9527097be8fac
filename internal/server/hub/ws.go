package hub

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/gophtodo/pkg/api"
)

// MaxMachineIDLen максимальная длина идентификатора машины клиента
const MaxMachineIDLen = 128

// MachineID извлекает идентификатор машины из handshake запроса:
// заголовок X-Machine-ID, иначе query-параметр machine
func MachineID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(api.HeaderMachineID))
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get(api.QueryMachineID))
	}
	return id
}

// ServeWS обрабатывает GET /api/v1/ws
// Upgrade до websocket, hello с идентификатором соединения,
// очистка ghost leases и отправка snapshot.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	machineID := MachineID(r)
	if len(machineID) > MaxMachineIDLen {
		h.logger.Warn("Machine ID too long", "remote_addr", r.RemoteAddr, "len", len(machineID))
		http.Error(w, "machine id too long", http.StatusBadRequest)
		return
	}

	select {
	case <-h.done:
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		h.logger.Warn("Websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	p := newPeer(h, conn, uuid.NewString(), machineID)

	// hello первым в очереди: до регистрации broadcast до клиента не доходит
	if err := p.send(api.Message{Type: api.MsgHello, ConnectionID: p.id}); err != nil {
		h.logger.Error("Failed to queue hello", "conn_id", p.id, "error", err)
		_ = conn.Close()
		return
	}

	if err := h.register(p); err != nil {
		h.logger.Warn("Rejecting connection", "conn_id", p.id, "error", err)
		_ = conn.Close()
		return
	}

	h.logger.Info("Peer connected",
		"conn_id", p.id,
		"machine_id", machineID,
		"remote_addr", r.RemoteAddr)

	go p.writePump()
	h.onConnect(p)
	go p.readPump()
}
