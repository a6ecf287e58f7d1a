package services

import (
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTitleLength = 255

type NoteServiceInterface interface {
	CreateNote(db *database.Database, principal uuid.UUID, input models.NoteInput) (models.Note, error)
	GetNote(db *database.Database, principal, noteID uuid.UUID) (models.Note, error)
	UpdateNote(db *database.Database, principal, noteID uuid.UUID, patch models.NotePatch) (models.Note, error)
	ListNotes(db *database.Database, principal uuid.UUID, filter models.NoteFilter) ([]models.Note, error)
}

type NoteService struct {
	now func() time.Time
}

func NewNoteService() *NoteService {
	return &NoteService{now: utcNow}
}

func (s *NoteService) CreateNote(db *database.Database, principal uuid.UUID, input models.NoteInput) (models.Note, error) {
	title, err := requiredName("title", input.Title, maxTitleLength)
	if err != nil {
		return models.Note{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	if input.FolderID != nil {
		if err := ensureFolderOwned(tx, principal, *input.FolderID); err != nil {
			return models.Note{}, rollback(tx, err)
		}
	}

	tags, err := ownedTags(tx, principal, input.TagIDs)
	if err != nil {
		return models.Note{}, rollback(tx, err)
	}

	isMarkdown := true
	if input.IsMarkdown != nil {
		isMarkdown = *input.IsMarkdown
	}

	now := s.now()
	note := models.Note{
		ID:         uuid.New(),
		UserID:     principal,
		FolderID:   input.FolderID,
		Title:      title,
		Content:    input.Content,
		Color:      input.Color,
		ImageURL:   input.ImageURL,
		IsPinned:   input.IsPinned,
		IsMarkdown: isMarkdown,
		ReminderAt: input.ReminderAt,
		State:      models.NoteActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := tx.Omit("Tags").Create(&note).Error; err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if err := replaceNoteTags(tx, note.ID, tags); err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.NoteCreated, principal, map[string]interface{}{
		"note_id": note.ID.String(),
		"title":   note.Title,
	}); err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Note{}, err
	}

	note.Tags = tags
	return note, nil
}

// GetNote returns a note the principal can see. Owners see their notes in
// any state; grantees only while the note is active.
func (s *NoteService) GetNote(db *database.Database, principal, noteID uuid.UUID) (models.Note, error) {
	note, err := findNote(preloadTags(db.DB), noteID)
	if err != nil {
		return models.Note{}, err
	}

	visible, err := canView(db.DB, principal, note)
	if err != nil {
		return models.Note{}, err
	}
	if !visible {
		return models.Note{}, NewNotFoundError("note")
	}

	notes := []models.Note{note}
	if err := markPublic(db.DB, notes, s.now()); err != nil {
		return models.Note{}, err
	}
	return notes[0], nil
}

func (s *NoteService) UpdateNote(db *database.Database, principal, noteID uuid.UUID, patch models.NotePatch) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := ownedNote(tx, principal, noteID, "edit")
	if err != nil {
		return models.Note{}, rollback(tx, err)
	}
	if note.IsTrashed() {
		return models.Note{}, rollback(tx, NewConflictError("note is in the trash"))
	}

	updates, changed, err := s.noteUpdates(tx, principal, patch)
	if err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if patch.TagIDs.Present {
		var ids []uuid.UUID
		if patch.TagIDs.Value != nil {
			ids = *patch.TagIDs.Value
		}
		tags, err := ownedTags(tx, principal, ids)
		if err != nil {
			return models.Note{}, rollback(tx, err)
		}
		if err := replaceNoteTags(tx, note.ID, tags); err != nil {
			return models.Note{}, rollback(tx, err)
		}
		changed = append(changed, "tag_ids")
	}

	result := tx.Model(&models.Note{}).
		Where("id = ? AND lifecycle_state = ?", note.ID, models.NoteActive).
		Updates(updates)
	if result.Error != nil {
		return models.Note{}, rollback(tx, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Note{}, rollback(tx, NewConflictError("note is in the trash"))
	}

	if err := recordEvent(tx, broker.NoteUpdated, principal, map[string]interface{}{
		"note_id": note.ID.String(),
		"fields":  changed,
	}); err != nil {
		return models.Note{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Note{}, err
	}

	return s.GetNote(db, principal, note.ID)
}

// noteUpdates converts a patch into column updates. updated_at is always
// bumped, even for an empty patch.
func (s *NoteService) noteUpdates(tx *gorm.DB, principal uuid.UUID, patch models.NotePatch) (map[string]interface{}, []string, error) {
	updates := map[string]interface{}{"updated_at": s.now()}
	changed := []string{}

	if patch.Title.Present {
		value := ""
		if patch.Title.Value != nil {
			value = *patch.Title.Value
		}
		title, err := requiredName("title", value, maxTitleLength)
		if err != nil {
			return nil, nil, err
		}
		updates["title"] = title
		changed = append(changed, "title")
	}

	if patch.Content.Present {
		content := ""
		if patch.Content.Value != nil {
			content = *patch.Content.Value
		}
		updates["content"] = content
		changed = append(changed, "content")
	}

	if patch.Color.Present {
		updates["color"] = nullableString(patch.Color.Value)
		changed = append(changed, "color")
	}

	if patch.ImageURL.Present {
		updates["image_url"] = nullableString(patch.ImageURL.Value)
		changed = append(changed, "image_url")
	}

	if patch.FolderID.Present {
		if patch.FolderID.Value == nil {
			updates["folder_id"] = nil
		} else {
			if err := ensureFolderOwned(tx, principal, *patch.FolderID.Value); err != nil {
				return nil, nil, err
			}
			updates["folder_id"] = *patch.FolderID.Value
		}
		changed = append(changed, "folder_id")
	}

	if patch.IsPinned.Present && patch.IsPinned.Value != nil {
		updates["is_pinned"] = *patch.IsPinned.Value
		changed = append(changed, "is_pinned")
	}

	if patch.IsMarkdown.Present && patch.IsMarkdown.Value != nil {
		updates["is_markdown"] = *patch.IsMarkdown.Value
		changed = append(changed, "is_markdown")
	}

	if patch.ReminderAt.Present {
		if patch.ReminderAt.Value == nil {
			updates["reminder_at"] = nil
		} else {
			updates["reminder_at"] = patch.ReminderAt.Value.UTC()
		}
		updates["reminder_sent"] = false
		changed = append(changed, "reminder_at")
	}

	return updates, changed, nil
}

// ListNotes returns the principal's active notes plus active notes shared
// with them, pinned first, then most recently updated.
func (s *NoteService) ListNotes(db *database.Database, principal uuid.UUID, filter models.NoteFilter) ([]models.Note, error) {
	query := visibleNotes(db.DB, principal)
	if filter.FolderID != nil {
		query = query.Where("folder_id = ?", *filter.FolderID)
	}

	notes := []models.Note{}
	if err := preloadTags(query).
		Order("is_pinned DESC").
		Order("updated_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}

	if err := markPublic(db.DB, notes, s.now()); err != nil {
		return nil, err
	}
	return notes, nil
}

func nullableString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
