package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
)

const (
	minSearchQueryLength = 2
	maxSearchResults     = 50
)

type SearchServiceInterface interface {
	Search(db *database.Database, principal uuid.UUID, query string) ([]models.Note, error)
}

type SearchService struct {
	now func() time.Time
}

func NewSearchService() *SearchService {
	return &SearchService{now: utcNow}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches the query case-insensitively as a substring of title or
// content across the notes the principal can see. Trashed notes never
// match. Queries shorter than two characters return nothing.
func (s *SearchService) Search(db *database.Database, principal uuid.UUID, query string) ([]models.Note, error) {
	notes := []models.Note{}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchQueryLength {
		return notes, nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	err := preloadTags(visibleNotes(db.DB, principal)).
		Where(`(LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(content) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern).
		Order("updated_at DESC").
		Limit(maxSearchResults).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}

	if err := markPublic(db.DB, notes, s.now()); err != nil {
		return nil, err
	}
	return notes, nil
}
