package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is an outbox row written in the same transaction as the change it
// describes. The dispatcher publishes it later and flips Dispatched.
type Event struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Event        string         `gorm:"size:64;not null" json:"event"`
	Version      int            `gorm:"not null" json:"version"`
	Entity       string         `gorm:"size:32;not null" json:"entity"`
	Operation    string         `gorm:"size:32;not null" json:"operation"`
	Timestamp    time.Time      `gorm:"not null" json:"timestamp"`
	ActorID      string         `gorm:"size:64" json:"actor_id"`
	Data         datatypes.JSON `gorm:"not null" json:"data"`
	Status       string         `gorm:"size:16;not null;default:'pending'" json:"status"`
	Dispatched   bool           `gorm:"not null;default:false;index" json:"dispatched"`
	DispatchedAt *time.Time     `json:"dispatched_at,omitempty"`
}

func NewEvent(event, entity, operation, actorID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Event:     event,
		Version:   1,
		Entity:    entity,
		Operation: operation,
		Timestamp: time.Now().UTC(),
		ActorID:   actorID,
		Data:      datatypes.JSON(dataBytes),
		Status:    "pending",
	}, nil
}
