package services

import (
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/cache"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
)

type TrashServiceInterface interface {
	TrashNote(db *database.Database, principal, noteID uuid.UUID) error
	RestoreNote(db *database.Database, principal, noteID uuid.UUID) (models.Note, error)
	ForceDeleteNote(db *database.Database, principal, noteID uuid.UUID) error
	ListTrash(db *database.Database, principal uuid.UUID) ([]models.Note, error)
	EmptyTrash(db *database.Database, principal uuid.UUID) (int64, error)
}

// TrashService owns the active/trashed/purged lifecycle of notes. When
// retention is positive, notes trashed longer than it are purged the next
// time their owner lists the trash. Lifecycle changes drop the cached
// pending feeds of recipients with open requests on the note.
type TrashService struct {
	now       func() time.Time
	retention time.Duration
	feeds     cache.Cache
}

func NewTrashService(retentionDays int, feeds cache.Cache) *TrashService {
	return &TrashService{
		now:       utcNow,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		feeds:     feeds,
	}
}

func (s *TrashService) TrashNote(db *database.Database, principal, noteID uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	note, err := ownedNote(tx, principal, noteID, "trash")
	if err != nil {
		return rollback(tx, err)
	}
	if note.IsTrashed() {
		return rollback(tx, NewConflictError("note is already in the trash"))
	}

	result := tx.Model(&models.Note{}).
		Where("id = ? AND lifecycle_state = ?", note.ID, models.NoteActive).
		UpdateColumns(map[string]interface{}{
			"lifecycle_state": models.NoteTrashed,
			"trashed_at":      s.now(),
		})
	if result.Error != nil {
		return rollback(tx, result.Error)
	}
	if result.RowsAffected == 0 {
		return rollback(tx, NewConflictError("note is already in the trash"))
	}

	recipients, err := pendingRecipients(tx, []uuid.UUID{note.ID})
	if err != nil {
		return rollback(tx, err)
	}

	if err := recordEvent(tx, broker.NoteTrashed, principal, map[string]interface{}{
		"note_id": note.ID.String(),
	}); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	invalidatePendingFeeds(s.feeds, recipients...)
	return nil
}

func (s *TrashService) RestoreNote(db *database.Database, principal, noteID uuid.UUID) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := ownedNote(tx, principal, noteID, "restore")
	if err != nil {
		return models.Note{}, rollback(tx, err)
	}
	if !note.IsTrashed() {
		return models.Note{}, rollback(tx, NewConflictError("note is not in the trash"))
	}

	result := tx.Model(&models.Note{}).
		Where("id = ? AND lifecycle_state = ?", note.ID, models.NoteTrashed).
		UpdateColumns(map[string]interface{}{
			"lifecycle_state": models.NoteActive,
			"trashed_at":      nil,
		})
	if result.Error != nil {
		return models.Note{}, rollback(tx, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Note{}, rollback(tx, NewConflictError("note is not in the trash"))
	}

	recipients, err := pendingRecipients(tx, []uuid.UUID{note.ID})
	if err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.NoteRestored, principal, map[string]interface{}{
		"note_id": note.ID.String(),
	}); err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Note{}, err
	}
	invalidatePendingFeeds(s.feeds, recipients...)

	restored, err := findNote(preloadTags(db.DB), note.ID)
	if err != nil {
		return models.Note{}, err
	}
	notes := []models.Note{restored}
	if err := markPublic(db.DB, notes, s.now()); err != nil {
		return models.Note{}, err
	}
	return notes[0], nil
}

// ForceDeleteNote permanently removes a trashed note and everything that
// references it.
func (s *TrashService) ForceDeleteNote(db *database.Database, principal, noteID uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	note, err := ownedNote(tx, principal, noteID, "delete")
	if err != nil {
		return rollback(tx, err)
	}
	if !note.IsTrashed() {
		return rollback(tx, NewConflictError("note must be in the trash before it can be deleted permanently"))
	}

	deleted, recipients, err := purgeNotes(tx, []uuid.UUID{note.ID})
	if err != nil {
		return rollback(tx, err)
	}
	if deleted == 0 {
		return rollback(tx, NewConflictError("note is no longer in the trash"))
	}

	if err := recordEvent(tx, broker.NoteDeleted, principal, map[string]interface{}{
		"note_id": note.ID.String(),
	}); err != nil {
		return rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	invalidatePendingFeeds(s.feeds, recipients...)
	return nil
}

func (s *TrashService) ListTrash(db *database.Database, principal uuid.UUID) ([]models.Note, error) {
	if s.retention > 0 {
		if _, err := s.purgeExpired(db, principal); err != nil {
			return nil, err
		}
	}

	notes := []models.Note{}
	if err := preloadTags(db.DB).
		Where("user_id = ? AND lifecycle_state = ?", principal, models.NoteTrashed).
		Order("trashed_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}

	if err := markPublic(db.DB, notes, s.now()); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *TrashService) EmptyTrash(db *database.Database, principal uuid.UUID) (int64, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	var ids []uuid.UUID
	if err := tx.Model(&models.Note{}).
		Where("user_id = ? AND lifecycle_state = ?", principal, models.NoteTrashed).
		Pluck("id", &ids).Error; err != nil {
		return 0, rollback(tx, err)
	}

	deleted, recipients, err := purgeNotes(tx, ids)
	if err != nil {
		return 0, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.TrashEmptied, principal, map[string]interface{}{
		"user_id":  principal.String(),
		"note_ids": uuidStrings(ids),
	}); err != nil {
		return 0, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	invalidatePendingFeeds(s.feeds, recipients...)
	return deleted, nil
}

func (s *TrashService) purgeExpired(db *database.Database, principal uuid.UUID) (int64, error) {
	cutoff := s.now().Add(-s.retention)

	tx := db.DB.Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	var ids []uuid.UUID
	if err := tx.Model(&models.Note{}).
		Where("user_id = ? AND lifecycle_state = ? AND trashed_at < ?", principal, models.NoteTrashed, cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, rollback(tx, err)
	}
	if len(ids) == 0 {
		return 0, rollback(tx, nil)
	}

	deleted, recipients, err := purgeNotes(tx, ids)
	if err != nil {
		return 0, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.NoteDeleted, principal, map[string]interface{}{
		"note_ids": uuidStrings(ids),
		"reason":   "retention",
	}); err != nil {
		return 0, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	invalidatePendingFeeds(s.feeds, recipients...)
	return deleted, nil
}
