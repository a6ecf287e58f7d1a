package services

import (
	"testing"
	"time"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// world bundles a migrated database, a controllable clock and services
// wired to that clock.
type world struct {
	db     *database.Database
	clock  *testutils.Clock
	notes  *NoteService
	trash  *TrashService
	shares *ShareService
	links  *PublicLinkService
	folder *FolderService
	tags   *TagService
	search *SearchService
}

func newWorld(t *testing.T) *world {
	t.Helper()

	db, close := testutils.SetupTestDB()
	t.Cleanup(close)

	clock := testutils.NewClock(testEpoch)
	return &world{
		db:     db,
		clock:  clock,
		notes:  &NoteService{now: clock.Now},
		trash:  &TrashService{now: clock.Now, retention: 30 * 24 * time.Hour},
		shares: &ShareService{now: clock.Now, users: NewUserService()},
		links:  &PublicLinkService{now: clock.Now, baseURL: "https://notes.test"},
		folder: &FolderService{now: clock.Now},
		tags:   &TagService{now: clock.Now},
		search: &SearchService{now: clock.Now},
	}
}

func (w *world) user(name string) models.User {
	return testutils.CreateTestUser(w.db, name)
}

func (w *world) note(t *testing.T, owner uuid.UUID, title, content string) models.Note {
	t.Helper()
	note, err := w.notes.CreateNote(w.db, owner, models.NoteInput{Title: title, Content: content})
	require.NoError(t, err)
	return note
}

func (w *world) eventCount(t *testing.T, eventType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, w.db.DB.Model(&models.Event{}).Where("event = ?", eventType).Count(&count).Error)
	return count
}

func noteIDs(notes []models.Note) []uuid.UUID {
	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return ids
}

func strPtr(s string) *string { return &s }

func set[T any](v T) models.Optional[T] {
	return models.Optional[T]{Present: true, Value: &v}
}

func null[T any]() models.Optional[T] {
	return models.Optional[T]{Present: true}
}
