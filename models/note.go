package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteState string

const (
	NoteActive  NoteState = "active"
	NoteTrashed NoteState = "trashed"
)

type Note struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	FolderID     *uuid.UUID `gorm:"type:uuid;index" json:"folder_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Content      string     `gorm:"type:text" json:"content"`
	Color        *string    `gorm:"size:32" json:"color"`
	ImageURL     *string    `json:"image_url"`
	IsPinned     bool       `gorm:"not null;default:false" json:"is_pinned"`
	IsMarkdown   bool       `gorm:"not null" json:"is_markdown"`
	ReminderAt   *time.Time `json:"reminder_at"`
	ReminderSent bool       `gorm:"not null;default:false" json:"-"`
	State        NoteState  `gorm:"column:lifecycle_state;size:16;not null;index" json:"lifecycle_state"`
	TrashedAt    *time.Time `json:"trashed_at"`
	Tags         []Tag      `gorm:"many2many:note_tags;" json:"tags"`
	IsPublic     bool       `gorm:"-" json:"is_public"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;index" json:"updated_at"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.State == "" {
		n.State = NoteActive
	}
	return nil
}

func (n *Note) IsTrashed() bool {
	return n.State == NoteTrashed
}

func (n *Note) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *Note) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// NoteInput carries the fields accepted when a note is created. IsMarkdown
// defaults to true.
type NoteInput struct {
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Color      *string     `json:"color"`
	ImageURL   *string     `json:"image_url"`
	FolderID   *uuid.UUID  `json:"folder_id"`
	TagIDs     []uuid.UUID `json:"tag_ids"`
	IsPinned   bool        `json:"is_pinned"`
	IsMarkdown *bool       `json:"is_markdown"`
	ReminderAt *time.Time  `json:"reminder_at"`
}

// NotePatch is a partial update. Only fields present in the request are
// applied; nullable fields can be cleared with an explicit null.
type NotePatch struct {
	Title      Optional[string]      `json:"title"`
	Content    Optional[string]      `json:"content"`
	Color      Optional[string]      `json:"color"`
	ImageURL   Optional[string]      `json:"image_url"`
	FolderID   Optional[uuid.UUID]   `json:"folder_id"`
	TagIDs     Optional[[]uuid.UUID] `json:"tag_ids"`
	IsPinned   Optional[bool]        `json:"is_pinned"`
	IsMarkdown Optional[bool]        `json:"is_markdown"`
	ReminderAt Optional[time.Time]   `json:"reminder_at"`
}

type NoteFilter struct {
	FolderID *uuid.UUID
}

// PublicNote is the projection served to anonymous holders of a public
// link. It deliberately carries no identifiers.
type PublicNote struct {
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsMarkdown bool      `json:"is_markdown"`
	Color      *string   `json:"color"`
	ImageURL   *string   `json:"image_url"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
