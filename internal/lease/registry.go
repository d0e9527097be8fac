package lease

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Lease эксклюзивное право одного соединения редактировать одну запись
type Lease struct {
	AcquiredAt   time.Time // AcquiredAt время выдачи
	ConnectionID string    // ConnectionID идентификатор соединения-держателя
	MachineID    string    // MachineID идентификатор машины держателя (для поиска ghost leases)
	RecordID     int64     // RecordID идентификатор записи
}

// Registry хранит выданные leases в памяти процесса.
// Все операции атомарны относительно друг друга: одна запись = не более одного держателя.
type Registry struct {
	logger *slog.Logger
	leases map[int64]Lease
	now    func() time.Time
	mu     sync.RWMutex
}

// NewRegistry создает пустой реестр
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		leases: make(map[int64]Lease),
		now:    time.Now,
	}
}

// Acquire выдает lease на запись соединению connID.
// Повторный запрос от текущего держателя идемпотентен и возвращает true.
// Если lease держит другое соединение - возвращает false и ничего не меняет.
func (r *Registry) Acquire(recordID int64, connID, machineID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.leases[recordID]; ok {
		if existing.ConnectionID != connID {
			r.logger.Debug("Lease denied",
				"record_id", recordID,
				"conn_id", connID,
				"holder", existing.ConnectionID)
			return false
		}
		return true
	}

	r.leases[recordID] = Lease{
		RecordID:     recordID,
		ConnectionID: connID,
		MachineID:    machineID,
		AcquiredAt:   r.now(),
	}
	return true
}

// Release снимает lease, только если его держит connID.
// Попытка снять чужой lease игнорируется и логируется как warning.
func (r *Registry) Release(recordID int64, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.leases[recordID]
	if !ok {
		return false
	}
	if existing.ConnectionID != connID {
		r.logger.Warn("Unauthorized lease release ignored",
			"record_id", recordID,
			"conn_id", connID,
			"holder", existing.ConnectionID)
		return false
	}

	delete(r.leases, recordID)
	return true
}

// Drop снимает lease записи независимо от держателя (запись удалена).
// Возвращает снятый lease.
func (r *Registry) Drop(recordID int64) (Lease, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leases[recordID]
	if ok {
		delete(r.leases, recordID)
	}
	return l, ok
}

// ReleaseAllFor снимает все leases соединения (используется при disconnect).
// Возвращает отсортированный список освобожденных записей.
func (r *Registry) ReleaseAllFor(connID string) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.releaseWhere(func(l Lease) bool {
		return l.ConnectionID == connID
	})
}

// ReleaseGhostsFor снимает leases, оставшиеся от прежних соединений той же машины.
// Leases самого excludingConnID не трогаются. Пустой machineID ничего не снимает:
// клиенты без идентификатора машины неотличимы друг от друга.
func (r *Registry) ReleaseGhostsFor(machineID, excludingConnID string) []int64 {
	if machineID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.releaseWhere(func(l Lease) bool {
		return l.MachineID == machineID && l.ConnectionID != excludingConnID
	})
}

// releaseWhere удаляет leases по предикату; вызывается под write lock
func (r *Registry) releaseWhere(match func(Lease) bool) []int64 {
	var released []int64
	for id, l := range r.leases {
		if match(l) {
			delete(r.leases, id)
			released = append(released, id)
		}
	}
	slices.Sort(released)
	return released
}

// Snapshot возвращает копию всех leases, отсортированную по RecordID
func (r *Registry) Snapshot() []Lease {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]Lease, 0, len(r.leases))
	for _, l := range r.leases {
		snapshot = append(snapshot, l)
	}
	slices.SortFunc(snapshot, func(a, b Lease) int {
		return cmp.Compare(a.RecordID, b.RecordID)
	})
	return snapshot
}

// Holder возвращает текущий lease записи
func (r *Registry) Holder(recordID int64) (Lease, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leases[recordID]
	return l, ok
}

// Len возвращает количество активных leases
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leases)
}
