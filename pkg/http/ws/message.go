package ws

import (
	"encoding/json"
	"errors"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionClosed   = errors.New("connection closed")
	ErrSendQueueFull      = errors.New("send queue full")
)

// Message is the envelope pushed over notification sockets.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into an envelope. Marshal failures return a
// bare typed message so the event is not silently dropped.
func NewMessage(msgType string, payload interface{}) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{Type: msgType}
	}
	return Message{Type: msgType, Payload: data}
}
