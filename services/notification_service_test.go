package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartnotes/smartnotes/cache"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockShareLister struct {
	ShareServiceInterface
	mock.Mock
}

func (m *mockShareLister) ListPending(db *database.Database, principal uuid.UUID) ([]models.PendingShare, error) {
	args := m.Called(db, principal)
	return args.Get(0).([]models.PendingShare), args.Error(1)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, interface{}) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis: connection refused")
}

func (brokenCache) Delete(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func TestPendingFeed_ReadThrough(t *testing.T) {
	principal := uuid.New()
	feed := []models.PendingShare{{ID: uuid.New(), NoteTitle: "Trip plan", FromUsername: "alice"}}

	shares := &mockShareLister{}
	shares.On("ListPending", mock.Anything, principal).Return(feed, nil).Once()

	service := NewNotificationService(shares, cache.NewMemoryCache(time.Minute), time.Minute)
	ctx := context.Background()

	first, err := service.PendingFeed(ctx, nil, principal)
	require.NoError(t, err)
	second, err := service.PendingFeed(ctx, nil, principal)
	require.NoError(t, err)

	assert.Equal(t, feed[0].ID, first[0].ID)
	assert.Equal(t, first, second)
	shares.AssertExpectations(t)
}

func TestPendingFeed_CacheFailureFallsBack(t *testing.T) {
	principal := uuid.New()
	shares := &mockShareLister{}
	shares.On("ListPending", mock.Anything, principal).Return([]models.PendingShare{}, nil).Twice()

	service := NewNotificationService(shares, brokenCache{}, time.Minute)

	count, err := service.PendingCount(context.Background(), nil, principal)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = service.PendingCount(context.Background(), nil, principal)
	require.NoError(t, err)
	assert.Zero(t, count)
	shares.AssertExpectations(t)
}

func TestPendingFeed_ListError(t *testing.T) {
	principal := uuid.New()
	shares := &mockShareLister{}
	shares.On("ListPending", mock.Anything, principal).Return([]models.PendingShare(nil), errors.New("db down"))

	service := NewNotificationService(shares, nil, time.Minute)
	_, err := service.PendingFeed(context.Background(), nil, principal)
	assert.EqualError(t, err, "db down")
}
