package services

import (
	"errors"
	"strings"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/cache"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShareServiceInterface interface {
	CreateShare(db *database.Database, principal, noteID uuid.UUID, recipientUsername string) (models.ShareGrant, error)
	ListPending(db *database.Database, principal uuid.UUID) ([]models.PendingShare, error)
	AcceptShare(db *database.Database, principal, grantID uuid.UUID) (models.ShareGrant, error)
	RejectShare(db *database.Database, principal, grantID uuid.UUID) (models.ShareGrant, error)
	ListNoteShares(db *database.Database, principal, noteID uuid.UUID) ([]models.ShareGrant, error)
}

// ShareService runs the share request handshake. A grant starts pending
// and is resolved exactly once by its recipient.
type ShareService struct {
	now   func() time.Time
	users UserServiceInterface
	feeds cache.Cache
}

func NewShareService(users UserServiceInterface, feeds cache.Cache) *ShareService {
	return &ShareService{now: utcNow, users: users, feeds: feeds}
}

func (s *ShareService) CreateShare(db *database.Database, principal, noteID uuid.UUID, recipientUsername string) (models.ShareGrant, error) {
	recipientUsername = strings.TrimSpace(recipientUsername)
	if recipientUsername == "" {
		return models.ShareGrant{}, NewValidationError("recipient username is required")
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.ShareGrant{}, tx.Error
	}

	note, err := ownedNote(tx, principal, noteID, "share")
	if err != nil {
		return models.ShareGrant{}, rollback(tx, err)
	}
	if note.IsTrashed() {
		return models.ShareGrant{}, rollback(tx, NewConflictError("cannot share a note that is in the trash"))
	}

	recipient, err := s.users.GetUserByUsername(&database.Database{DB: tx}, recipientUsername)
	if err != nil {
		return models.ShareGrant{}, rollback(tx, err)
	}
	if recipient.ID == principal {
		return models.ShareGrant{}, rollback(tx, NewForbiddenError("cannot share a note with yourself"))
	}

	var existing models.ShareGrant
	err = tx.Where("note_id = ? AND to_user_id = ? AND status IN ?", note.ID, recipient.ID,
		[]models.ShareStatus{models.SharePending, models.ShareAccepted}).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.ShareAccepted {
			return models.ShareGrant{}, rollback(tx, NewConflictError("note is already shared with %s", recipient.Username))
		}
		return models.ShareGrant{}, rollback(tx, NewConflictError("a share request to %s is already pending", recipient.Username))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ShareGrant{}, rollback(tx, err)
	}

	grant := models.ShareGrant{
		ID:         uuid.New(),
		NoteID:     note.ID,
		FromUserID: principal,
		ToUserID:   recipient.ID,
		Status:     models.SharePending,
		CreatedAt:  s.now(),
	}
	if err := tx.Create(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ShareGrant{}, rollback(tx, NewConflictError("a share request to %s is already pending", recipient.Username))
		}
		return models.ShareGrant{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.ShareRequested, principal, map[string]interface{}{
		"grant_id":       grant.ID.String(),
		"note_id":        note.ID.String(),
		"note_title":     note.Title,
		"from_user_id":   principal.String(),
		"to_user_id":     recipient.ID.String(),
		"notify_user_id": recipient.ID.String(),
	}); err != nil {
		return models.ShareGrant{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.ShareGrant{}, err
	}

	s.invalidateFeed(recipient.ID)
	return grant, nil
}

// ListPending returns the share requests awaiting the principal's answer,
// newest first. Requests on trashed notes stay hidden until the note is
// restored.
func (s *ShareService) ListPending(db *database.Database, principal uuid.UUID) ([]models.PendingShare, error) {
	pending := []models.PendingShare{}
	err := db.DB.Table("share_grants AS g").
		Select("g.id, g.note_id, n.title AS note_title, g.from_user_id, u.username AS from_username, g.created_at").
		Joins("JOIN notes n ON n.id = g.note_id").
		Joins("JOIN users u ON u.id = g.from_user_id").
		Where("g.to_user_id = ? AND g.status = ? AND n.lifecycle_state = ?", principal, models.SharePending, models.NoteActive).
		Order("g.created_at DESC").
		Scan(&pending).Error
	if err != nil {
		return nil, err
	}
	if pending == nil {
		pending = []models.PendingShare{}
	}
	return pending, nil
}

func (s *ShareService) AcceptShare(db *database.Database, principal, grantID uuid.UUID) (models.ShareGrant, error) {
	return s.resolve(db, principal, grantID, models.ShareAccepted, broker.ShareAccepted)
}

func (s *ShareService) RejectShare(db *database.Database, principal, grantID uuid.UUID) (models.ShareGrant, error) {
	return s.resolve(db, principal, grantID, models.ShareRejected, broker.ShareRejected)
}

// resolve moves a pending grant to its terminal status. The update is
// conditional on the grant still being pending, so of two racing calls
// exactly one succeeds and the other gets a conflict.
func (s *ShareService) resolve(db *database.Database, principal, grantID uuid.UUID, status models.ShareStatus, eventType broker.EventType) (models.ShareGrant, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.ShareGrant{}, tx.Error
	}

	var grant models.ShareGrant
	if err := tx.First(&grant, "id = ?", grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ShareGrant{}, rollback(tx, NewNotFoundError("share"))
		}
		return models.ShareGrant{}, rollback(tx, err)
	}
	if grant.ToUserID != principal {
		return models.ShareGrant{}, rollback(tx, NewNotFoundError("share"))
	}
	if grant.Status != models.SharePending {
		return models.ShareGrant{}, rollback(tx, NewConflictError("share has already been %s", grant.Status))
	}
	if status == models.ShareAccepted {
		note, err := findNote(tx, grant.NoteID)
		if err != nil {
			return models.ShareGrant{}, rollback(tx, err)
		}
		if note.IsTrashed() {
			return models.ShareGrant{}, rollback(tx, NewConflictError("shared note is in the trash"))
		}
	}

	now := s.now()
	result := tx.Model(&models.ShareGrant{}).
		Where("id = ? AND status = ?", grant.ID, models.SharePending).
		UpdateColumns(map[string]interface{}{
			"status":      status,
			"resolved_at": now,
		})
	if result.Error != nil {
		return models.ShareGrant{}, rollback(tx, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ShareGrant{}, rollback(tx, NewConflictError("share has already been resolved"))
	}

	if err := recordEvent(tx, eventType, principal, map[string]interface{}{
		"grant_id":       grant.ID.String(),
		"note_id":        grant.NoteID.String(),
		"from_user_id":   grant.FromUserID.String(),
		"to_user_id":     grant.ToUserID.String(),
		"notify_user_id": grant.FromUserID.String(),
	}); err != nil {
		return models.ShareGrant{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.ShareGrant{}, err
	}

	s.invalidateFeed(principal)

	grant.Status = status
	grant.ResolvedAt = &now
	return grant, nil
}

// ListNoteShares returns every grant ever issued for a note. Owner only.
func (s *ShareService) ListNoteShares(db *database.Database, principal, noteID uuid.UUID) ([]models.ShareGrant, error) {
	if _, err := ownedNote(db.DB, principal, noteID, "view the shares of"); err != nil {
		return nil, err
	}

	grants := []models.ShareGrant{}
	if err := db.DB.Where("note_id = ?", noteID).Order("created_at DESC").Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

func (s *ShareService) invalidateFeed(userID uuid.UUID) {
	invalidatePendingFeeds(s.feeds, userID)
}
