package api

import "github.com/iudanet/gophtodo/internal/models"

const (
	// HeaderMachineID заголовок handshake с идентификатором машины клиента
	HeaderMachineID = "X-Machine-ID"
	// QueryMachineID query-параметр handshake (для клиентов, не умеющих ставить заголовки)
	QueryMachineID = "machine"
	// QueryAccessToken query-параметр с access token для websocket handshake
	QueryAccessToken = "access_token"
)

// MessageType тип сообщения websocket протокола
type MessageType string

const (
	// MsgHello первое сообщение сервера: идентификатор соединения
	MsgHello MessageType = "hello"

	// Команды клиента
	MsgAcquireLease MessageType = "acquire_lease"
	MsgReleaseLease MessageType = "release_lease"

	// События сервера
	MsgRecordCreated MessageType = "record_created"
	MsgRecordUpdated MessageType = "record_updated"
	MsgRecordDeleted MessageType = "record_deleted"
	MsgLeaseAcquired MessageType = "lease_acquired"
	MsgLeaseReleased MessageType = "lease_released"
	MsgError         MessageType = "error"
)

// Message конверт всех сообщений websocket протокола
type Message struct {
	Record       *models.Record `json:"record,omitempty"`        // Record для record_created/record_updated
	Type         MessageType    `json:"type"`                    // Type тип сообщения
	ConnectionID string         `json:"connection_id,omitempty"` // ConnectionID для hello
	HolderID     string         `json:"holder_id,omitempty"`     // HolderID соединение-держатель для lease_acquired
	Error        string         `json:"error,omitempty"`         // Error описание ошибки
	RecordID     int64          `json:"record_id,omitempty"`     // RecordID для команд и событий по id
}
