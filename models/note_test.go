package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotePatch_DistinguishesAbsentFromNull(t *testing.T) {
	var patch NotePatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","folder_id":null}`), &patch))

	assert.True(t, patch.Title.Present)
	assert.Equal(t, "New", *patch.Title.Value)

	assert.True(t, patch.FolderID.Present)
	assert.Nil(t, patch.FolderID.Value)

	assert.False(t, patch.Content.Present)
	assert.False(t, patch.TagIDs.Present)
}

func TestNotePatch_ParsesTypedValues(t *testing.T) {
	folderID := uuid.New()
	body := `{"folder_id":"` + folderID.String() + `","is_pinned":true,"reminder_at":"2026-01-02T15:04:05Z","tag_ids":[]}`

	var patch NotePatch
	require.NoError(t, json.Unmarshal([]byte(body), &patch))

	assert.Equal(t, folderID, *patch.FolderID.Value)
	assert.True(t, *patch.IsPinned.Value)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), patch.ReminderAt.Value.UTC())
	assert.True(t, patch.TagIDs.Present)
	assert.Empty(t, *patch.TagIDs.Value)
}

func TestNote_JSONRoundTrip(t *testing.T) {
	note := Note{ID: uuid.New(), UserID: uuid.New(), Title: "Groceries", State: NoteActive, ReminderSent: true}

	data, err := note.ToJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "reminder_sent")

	var decoded Note
	require.NoError(t, decoded.FromJSON(data))
	assert.Equal(t, note.ID, decoded.ID)
	assert.Equal(t, note.UserID, decoded.UserID)
	assert.False(t, decoded.IsTrashed())
}

func TestPublicLink_IsLive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&PublicLink{}).IsLive(now))
	assert.True(t, (&PublicLink{ExpiresAt: &future}).IsLive(now))
	assert.False(t, (&PublicLink{ExpiresAt: &past}).IsLive(now))
	assert.False(t, (&PublicLink{ExpiresAt: &now}).IsLive(now))
	assert.False(t, (&PublicLink{Revoked: true}).IsLive(now))
}
