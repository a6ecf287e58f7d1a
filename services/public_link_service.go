package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minLinkTTLMinutes = 5
	maxLinkTTLMinutes = 30 * 24 * 60
	linkTokenBytes    = 16
	publicLinkPath    = "/api/v1/public/"
)

type PublicLinkServiceInterface interface {
	CreatePublicLink(db *database.Database, principal, noteID uuid.UUID, ttlMinutes *int) (models.PublicLink, error)
	ResolvePublicLink(db *database.Database, token string) (models.PublicNote, error)
	RevokePublicLink(db *database.Database, principal, linkID uuid.UUID) error
	ListPublicLinks(db *database.Database, principal, noteID uuid.UUID) ([]models.PublicLink, error)
}

// PublicLinkService issues unguessable read-only links. Expiry is checked
// when a link is resolved; nothing sweeps expired links.
type PublicLinkService struct {
	now     func() time.Time
	baseURL string
}

func NewPublicLinkService(baseURL string) *PublicLinkService {
	return &PublicLinkService{now: utcNow, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *PublicLinkService) CreatePublicLink(db *database.Database, principal, noteID uuid.UUID, ttlMinutes *int) (models.PublicLink, error) {
	if ttlMinutes != nil {
		err := validation.Validate(*ttlMinutes,
			validation.Required,
			validation.Min(minLinkTTLMinutes),
			validation.Max(maxLinkTTLMinutes),
		)
		if err != nil {
			return models.PublicLink{}, NewValidationError("ttl_minutes must be between %d and %d", minLinkTTLMinutes, maxLinkTTLMinutes)
		}
	}

	token, err := newLinkToken()
	if err != nil {
		return models.PublicLink{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.PublicLink{}, tx.Error
	}

	note, err := ownedNote(tx, principal, noteID, "publish")
	if err != nil {
		return models.PublicLink{}, rollback(tx, err)
	}

	now := s.now()
	link := models.PublicLink{
		ID:        uuid.New(),
		Token:     token,
		NoteID:    note.ID,
		CreatedBy: principal,
		CreatedAt: now,
	}
	if ttlMinutes != nil {
		expiresAt := now.Add(time.Duration(*ttlMinutes) * time.Minute)
		link.ExpiresAt = &expiresAt
	}

	if err := tx.Create(&link).Error; err != nil {
		return models.PublicLink{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.LinkCreated, principal, map[string]interface{}{
		"link_id": link.ID.String(),
		"note_id": note.ID.String(),
	}); err != nil {
		return models.PublicLink{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.PublicLink{}, err
	}

	link.URL = s.linkURL(link.Token)
	return link, nil
}

// ResolvePublicLink serves a note to an anonymous caller holding a token.
// Unknown tokens and trashed notes are not found; revoked or expired links
// are gone.
func (s *PublicLinkService) ResolvePublicLink(db *database.Database, token string) (models.PublicNote, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.PublicNote{}, NewNotFoundError("link")
	}

	var link models.PublicLink
	if err := db.DB.First(&link, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.PublicNote{}, NewNotFoundError("link")
		}
		return models.PublicNote{}, err
	}
	if link.Revoked {
		return models.PublicNote{}, NewGoneError("link has been revoked")
	}
	if !link.IsLive(s.now()) {
		return models.PublicNote{}, NewGoneError("link has expired")
	}

	note, err := findNote(preloadTags(db.DB), link.NoteID)
	if err != nil {
		return models.PublicNote{}, err
	}
	if note.IsTrashed() {
		return models.PublicNote{}, NewNotFoundError("note")
	}

	tags := make([]string, 0, len(note.Tags))
	for _, tag := range note.Tags {
		tags = append(tags, tag.Name)
	}

	return models.PublicNote{
		Title:      note.Title,
		Content:    note.Content,
		IsMarkdown: note.IsMarkdown,
		Color:      note.Color,
		ImageURL:   note.ImageURL,
		Tags:       tags,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}, nil
}

func (s *PublicLinkService) RevokePublicLink(db *database.Database, principal, linkID uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var link models.PublicLink
	if err := tx.First(&link, "id = ?", linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rollback(tx, NewNotFoundError("link"))
		}
		return rollback(tx, err)
	}

	if _, err := ownedNote(tx, principal, link.NoteID, "revoke links of"); err != nil {
		if errors.Is(err, ErrNotFound) {
			return rollback(tx, NewNotFoundError("link"))
		}
		return rollback(tx, err)
	}

	result := tx.Model(&models.PublicLink{}).
		Where("id = ? AND revoked = ?", link.ID, false).
		UpdateColumn("revoked", true)
	if result.Error != nil {
		return rollback(tx, result.Error)
	}
	if result.RowsAffected == 0 {
		return rollback(tx, NewConflictError("link is already revoked"))
	}

	if err := recordEvent(tx, broker.LinkRevoked, principal, map[string]interface{}{
		"link_id": link.ID.String(),
		"note_id": link.NoteID.String(),
	}); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit().Error
}

func (s *PublicLinkService) ListPublicLinks(db *database.Database, principal, noteID uuid.UUID) ([]models.PublicLink, error) {
	if _, err := ownedNote(db.DB, principal, noteID, "view the links of"); err != nil {
		return nil, err
	}

	links := []models.PublicLink{}
	if err := db.DB.Where("note_id = ?", noteID).Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	for i := range links {
		links[i].URL = s.linkURL(links[i].Token)
	}
	return links, nil
}

func (s *PublicLinkService) linkURL(token string) string {
	return s.baseURL + publicLinkPath + token
}

// newLinkToken returns 128 random bits, URL-safe base64 without padding.
func newLinkToken() (string, error) {
	buf := make([]byte, linkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
