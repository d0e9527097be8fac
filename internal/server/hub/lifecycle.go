package hub

// onConnect убирает ghost leases прежних соединений той же машины
// и отправляет новому соединению текущее состояние leases.
// Клиент уже зарегистрирован и получил hello, поэтому lease_released
// по ghost leases приходят ему раньше snapshot: очередь клиента FIFO.
func (h *Hub) onConnect(p *peer) {
	h.orderMu.Lock()
	defer h.orderMu.Unlock()

	ghosts := h.leases.ReleaseGhostsFor(p.machineID, p.id)
	if len(ghosts) > 0 {
		h.logger.Info("Released ghost leases",
			"conn_id", p.id,
			"machine_id", p.machineID,
			"records", ghosts)
		if err := h.broadcastReleased(ghosts); err != nil {
			h.logger.Warn("Ghost release broadcast incomplete", "conn_id", p.id, "error", err)
		}
	}

	// Snapshot может превышать SendQueueSize: отправка ждет writePump
	for _, l := range h.leases.Snapshot() {
		if err := p.sendWait(leaseAcquiredMessage(l.RecordID, l.ConnectionID)); err != nil {
			h.logger.Warn("Failed to send lease snapshot", "conn_id", p.id, "error", err)
			p.close()
			return
		}
	}
}

// onDisconnect снимает все leases соединения и рассылает lease_released.
// Вызывается один раз на соединение, по любой причине отключения.
func (h *Hub) onDisconnect(p *peer) {
	h.unregister(p)

	h.orderMu.Lock()
	defer h.orderMu.Unlock()

	released := h.leases.ReleaseAllFor(p.id)
	if len(released) == 0 {
		return
	}

	h.logger.Info("Released leases of disconnected peer",
		"conn_id", p.id,
		"records", released)
	if err := h.broadcastReleased(released); err != nil {
		h.logger.Warn("Disconnect release broadcast incomplete", "conn_id", p.id, "error", err)
	}
}
