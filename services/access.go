package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/cache"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

func rollback(tx *gorm.DB, err error) error {
	tx.Rollback()
	return err
}

// recordEvent appends an outbox row to the running transaction.
func recordEvent(tx *gorm.DB, eventType broker.EventType, actorID uuid.UUID, data map[string]interface{}) error {
	entity, operation, _ := strings.Cut(string(eventType), ".")
	event, err := models.NewEvent(string(eventType), entity, operation, actorID.String(), data)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func findNote(tx *gorm.DB, noteID uuid.UUID) (models.Note, error) {
	var note models.Note
	if err := tx.First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, NewNotFoundError("note")
		}
		return models.Note{}, err
	}
	return note, nil
}

func hasAcceptedGrant(tx *gorm.DB, noteID, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.ShareGrant{}).
		Where("note_id = ? AND to_user_id = ? AND status = ?", noteID, userID, models.ShareAccepted).
		Count(&count).Error
	return count > 0, err
}

// canView reports whether the principal may read the note: owners always,
// accepted grantees only while the note is active.
func canView(tx *gorm.DB, principal uuid.UUID, note models.Note) (bool, error) {
	if note.UserID == principal {
		return true, nil
	}
	if note.State != models.NoteActive {
		return false, nil
	}
	return hasAcceptedGrant(tx, note.ID, principal)
}

// ownedNote loads a note for an owner-only action. A note the principal can
// read through a share yields ForbiddenError; any other foreign note is
// reported as missing.
func ownedNote(tx *gorm.DB, principal, noteID uuid.UUID, action string) (models.Note, error) {
	note, err := findNote(tx, noteID)
	if err != nil {
		return models.Note{}, err
	}
	if note.UserID == principal {
		return note, nil
	}

	visible, err := canView(tx, principal, note)
	if err != nil {
		return models.Note{}, err
	}
	if visible {
		return models.Note{}, NewForbiddenError("only the owner can %s this note", action)
	}
	return models.Note{}, NewNotFoundError("note")
}

// visibleNotes scopes a query to active notes the principal owns or holds
// an accepted share for.
func visibleNotes(tx *gorm.DB, principal uuid.UUID) *gorm.DB {
	shared := tx.Model(&models.ShareGrant{}).
		Select("note_id").
		Where("to_user_id = ? AND status = ?", principal, models.ShareAccepted)

	return tx.Model(&models.Note{}).
		Where("lifecycle_state = ?", models.NoteActive).
		Where("(user_id = ? OR id IN (?))", principal, shared)
}

func preloadTags(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name")
	})
}

// markPublic derives IsPublic from the live links of each note.
func markPublic(tx *gorm.DB, notes []models.Note, now time.Time) error {
	if len(notes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(notes))
	for _, note := range notes {
		ids = append(ids, note.ID)
	}

	var links []models.PublicLink
	if err := tx.Where("note_id IN ? AND revoked = ?", ids, false).Find(&links).Error; err != nil {
		return err
	}

	live := make(map[uuid.UUID]bool, len(links))
	for i := range links {
		if links[i].IsLive(now) {
			live[links[i].NoteID] = true
		}
	}
	for i := range notes {
		notes[i].IsPublic = live[notes[i].ID]
	}
	return nil
}

func ensureFolderOwned(tx *gorm.DB, principal, folderID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Folder{}).
		Where("id = ? AND user_id = ?", folderID, principal).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return NewNotFoundError("folder")
	}
	return nil
}

// ownedTags resolves tag ids that must all belong to the principal.
func ownedTags(tx *gorm.DB, principal uuid.UUID, tagIDs []uuid.UUID) ([]models.Tag, error) {
	unique := make([]uuid.UUID, 0, len(tagIDs))
	seen := make(map[uuid.UUID]bool, len(tagIDs))
	for _, id := range tagIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	tags := []models.Tag{}
	if len(unique) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ? AND user_id = ?", unique, principal).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, NewNotFoundError("tag")
	}
	return tags, nil
}

func replaceNoteTags(tx *gorm.DB, noteID uuid.UUID, tags []models.Tag) error {
	if err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", noteID).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if err := tx.Exec("INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)", noteID, tag.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// pendingRecipients returns the users holding a pending grant on any of
// the notes.
func pendingRecipients(tx *gorm.DB, noteIDs []uuid.UUID) ([]uuid.UUID, error) {
	recipients := []uuid.UUID{}
	if len(noteIDs) == 0 {
		return recipients, nil
	}
	err := tx.Model(&models.ShareGrant{}).
		Where("note_id IN ? AND status = ?", noteIDs, models.SharePending).
		Distinct().
		Pluck("to_user_id", &recipients).Error
	return recipients, err
}

// purgeNotes removes trashed notes together with their tag links, share
// grants and public links. It returns the number of notes deleted and the
// recipients whose pending requests went with them.
func purgeNotes(tx *gorm.DB, noteIDs []uuid.UUID) (int64, []uuid.UUID, error) {
	if len(noteIDs) == 0 {
		return 0, nil, nil
	}
	recipients, err := pendingRecipients(tx, noteIDs)
	if err != nil {
		return 0, nil, err
	}
	if err := tx.Exec("DELETE FROM note_tags WHERE note_id IN ?", noteIDs).Error; err != nil {
		return 0, nil, err
	}
	if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.ShareGrant{}).Error; err != nil {
		return 0, nil, err
	}
	if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.PublicLink{}).Error; err != nil {
		return 0, nil, err
	}
	result := tx.Where("id IN ? AND lifecycle_state = ?", noteIDs, models.NoteTrashed).Delete(&models.Note{})
	return result.RowsAffected, recipients, result.Error
}

// invalidatePendingFeeds drops cached pending feeds. Failures are logged;
// the entry then expires on its TTL.
func invalidatePendingFeeds(feeds cache.Cache, userIDs ...uuid.UUID) {
	if feeds == nil || len(userIDs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, userID := range userIDs {
		if err := feeds.Delete(ctx, cache.PendingFeedKey(userID.String())); err != nil {
			logger.Log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate pending feed cache")
		}
	}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
