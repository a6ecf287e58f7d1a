package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShareStatus string

const (
	SharePending  ShareStatus = "pending"
	ShareAccepted ShareStatus = "accepted"
	ShareRejected ShareStatus = "rejected"
)

// ShareGrant is a request from a note owner to give another user read
// access. At most one pending grant may exist per note and recipient.
type ShareGrant struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	NoteID     uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_pending_grant,where:status = 'pending'" json:"note_id"`
	FromUserID uuid.UUID   `gorm:"type:uuid;not null" json:"from_user_id"`
	ToUserID   uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_pending_grant,where:status = 'pending'" json:"to_user_id"`
	Status     ShareStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	ResolvedAt *time.Time  `json:"resolved_at"`
}

func (g *ShareGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// PendingShare is a pending grant as shown in the recipient's feed.
type PendingShare struct {
	ID           uuid.UUID `json:"id"`
	NoteID       uuid.UUID `json:"note_id"`
	NoteTitle    string    `json:"note_title"`
	FromUserID   uuid.UUID `json:"from_user_id"`
	FromUsername string    `json:"from_username"`
	CreatedAt    time.Time `json:"created_at"`
}

type PublicLink struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string     `gorm:"size:64;uniqueIndex;not null" json:"token"`
	NoteID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"note_id"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	ExpiresAt *time.Time `json:"expires_at"`
	Revoked   bool       `gorm:"not null;default:false" json:"revoked"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	URL       string     `gorm:"-" json:"url,omitempty"`
}

func (l *PublicLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// IsLive reports whether the link still resolves at the given instant.
func (l *PublicLink) IsLive(now time.Time) bool {
	if l.Revoked {
		return false
	}
	return l.ExpiresAt == nil || now.Before(*l.ExpiresAt)
}
