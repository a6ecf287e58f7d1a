package models

import (
	"time"

	"github.com/google/uuid"
)

// PushMessageType represents push frame type constants
type PushMessageType string

const (
	EventMessage PushMessageType = "event"
	ErrorMessage PushMessageType = "error"
)

// PushMessage is the frame written to notification WebSocket connections
type PushMessage struct {
	ID        string          `json:"id"`
	Type      PushMessageType `json:"type"`
	Event     string          `json:"event,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   interface{}     `json:"payload"`
}

func NewPushMessage(msgType PushMessageType, event string, payload interface{}) *PushMessage {
	return &PushMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
