package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestPublicLink_ExpiresAfterTTL(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	tag, err := w.tags.CreateTag(w.db, alice.ID, "recipes")
	require.NoError(t, err)
	note, err := w.notes.CreateNote(w.db, alice.ID, models.NoteInput{
		Title:   "Pancakes",
		Content: "flour, milk",
		TagIDs:  []uuid.UUID{tag.ID},
	})
	require.NoError(t, err)

	link, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, intPtr(5))
	require.NoError(t, err)
	require.NotNil(t, link.ExpiresAt)
	assert.True(t, testEpoch.Add(5*time.Minute).Equal(*link.ExpiresAt))
	assert.Equal(t, "https://notes.test/api/v1/public/"+link.Token, link.URL)
	assert.Len(t, link.Token, 22)

	public, err := w.links.ResolvePublicLink(w.db, link.Token)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", public.Title)
	assert.Equal(t, "flour, milk", public.Content)
	assert.Equal(t, []string{"recipes"}, public.Tags)

	got, err := w.notes.GetNote(w.db, alice.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	w.clock.Advance(6 * time.Minute)
	_, err = w.links.ResolvePublicLink(w.db, link.Token)
	assert.True(t, errors.Is(err, ErrGone))

	got, err = w.notes.GetNote(w.db, alice.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)
}

func TestPublicLink_ExpiryBoundary(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	note := w.note(t, alice.ID, "n", "")

	link, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, intPtr(5))
	require.NoError(t, err)

	w.clock.Advance(5*time.Minute - time.Second)
	_, err = w.links.ResolvePublicLink(w.db, link.Token)
	require.NoError(t, err)

	w.clock.Advance(time.Second)
	_, err = w.links.ResolvePublicLink(w.db, link.Token)
	assert.True(t, errors.Is(err, ErrGone))
}

func TestPublicLink_NoExpiry(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	note := w.note(t, alice.ID, "forever", "")

	link, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, link.ExpiresAt)

	w.clock.Advance(10 * 365 * 24 * time.Hour)
	public, err := w.links.ResolvePublicLink(w.db, link.Token)
	require.NoError(t, err)
	assert.Equal(t, "forever", public.Title)
	assert.Empty(t, public.Tags)
}

func TestPublicLink_TTLValidation(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	note := w.note(t, alice.ID, "n", "")

	for _, ttl := range []int{-1, 0, 4, 43201} {
		_, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, intPtr(ttl))
		assert.True(t, errors.Is(err, ErrValidation), "ttl %d", ttl)
	}

	_, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, intPtr(43200))
	assert.NoError(t, err)
}

func TestPublicLink_OwnerOnly(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	bob := w.user("bob")
	carol := w.user("carol")
	note := w.note(t, alice.ID, "n", "")

	grant, err := w.shares.CreateShare(w.db, alice.ID, note.ID, "bob")
	require.NoError(t, err)
	_, err = w.shares.AcceptShare(w.db, bob.ID, grant.ID)
	require.NoError(t, err)

	_, err = w.links.CreatePublicLink(w.db, bob.ID, note.ID, nil)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = w.links.CreatePublicLink(w.db, carol.ID, note.ID, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPublicLink_UnknownToken(t *testing.T) {
	w := newWorld(t)

	_, err := w.links.ResolvePublicLink(w.db, "does-not-exist")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = w.links.ResolvePublicLink(w.db, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPublicLink_TrashedNote(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	note := w.note(t, alice.ID, "n", "")

	link, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, nil)
	require.NoError(t, err)

	require.NoError(t, w.trash.TrashNote(w.db, alice.ID, note.ID))
	_, err = w.links.ResolvePublicLink(w.db, link.Token)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = w.trash.RestoreNote(w.db, alice.ID, note.ID)
	require.NoError(t, err)
	_, err = w.links.ResolvePublicLink(w.db, link.Token)
	assert.NoError(t, err)
}

func TestPublicLink_Revoke(t *testing.T) {
	w := newWorld(t)
	alice := w.user("alice")
	bob := w.user("bob")
	note := w.note(t, alice.ID, "n", "")

	link, err := w.links.CreatePublicLink(w.db, alice.ID, note.ID, nil)
	require.NoError(t, err)

	err = w.links.RevokePublicLink(w.db, bob.ID, link.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, w.links.RevokePublicLink(w.db, alice.ID, link.ID))
	_, err = w.links.ResolvePublicLink(w.db, link.Token)
	assert.True(t, errors.Is(err, ErrGone))

	err = w.links.RevokePublicLink(w.db, alice.ID, link.ID)
	assert.True(t, errors.Is(err, ErrConflict))

	links, err := w.links.ListPublicLinks(w.db, alice.ID, note.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.True(t, links[0].Revoked)
	assert.True(t, strings.HasSuffix(links[0].URL, links[0].Token))
}

func TestNewLinkToken_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := newLinkToken()
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}
