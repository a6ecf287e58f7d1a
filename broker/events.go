package broker

import "time"

type EventType string

const (
	// <resource>.<action>
	NoteCreated  EventType = "note.created"
	NoteUpdated  EventType = "note.updated"
	NoteTrashed  EventType = "note.trashed"
	NoteRestored EventType = "note.restored"
	NoteDeleted  EventType = "note.deleted"

	TrashEmptied EventType = "trash.emptied"

	FolderCreated EventType = "folder.created"
	FolderUpdated EventType = "folder.updated"
	FolderDeleted EventType = "folder.deleted"

	TagCreated EventType = "tag.created"

	ShareRequested EventType = "share.requested"
	ShareAccepted  EventType = "share.accepted"
	ShareRejected  EventType = "share.rejected"

	LinkCreated EventType = "link.created"
	LinkRevoked EventType = "link.revoked"

	UserCreated EventType = "user.created"

	ReminderSent EventType = "reminder.sent"
)

// Envelope is the JSON document published for every outbox event.
type Envelope struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

type Payload struct {
	EventID   string                 `json:"event_id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      string                 `json:"type"`
	Entity    string                 `json:"entity"`
	ActorID   string                 `json:"actor_id"`
	Data      map[string]interface{} `json:"data"`
}

// Recipient returns the user an event should be pushed to, if any.
func (p Payload) Recipient() string {
	if to, ok := p.Data["notify_user_id"].(string); ok {
		return to
	}
	return ""
}
