package amqp

import (
	"encoding/json"
	"time"
)

// Sync operations carried on the queue.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// TransactionSyncMessage asks the worker to reconcile one transaction with
// the remote ledger. An upsert carries only the local row id; the worker
// reads the current row from SQLite so stale copies never travel the wire.
// A delete carries the remote id, because the local row is already gone.
type TransactionSyncMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id,omitempty"`
	RemoteID  string    `json:"remote_id,omitempty"`
	Attempt   int64     `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id, attempt int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpUpsert,
		ID:        id,
		Attempt:   attempt,
		Timestamp: time.Now(),
	}
}

func NewTransactionDeleteMessage(remoteID string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Op:        OpDelete,
		RemoteID:  remoteID,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
