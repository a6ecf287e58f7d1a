package services

import (
	"context"
	"time"

	"smartnotes/smartnotes/cache"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/logger"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	PendingFeed(ctx context.Context, db *database.Database, principal uuid.UUID) ([]models.PendingShare, error)
	PendingCount(ctx context.Context, db *database.Database, principal uuid.UUID) (int, error)
}

// NotificationService serves the pending share feed through a short-lived
// cache. The share service drops a user's entry whenever their feed
// changes, and cache failures only cost a trip to the database.
type NotificationService struct {
	shares ShareServiceInterface
	feeds  cache.Cache
	ttl    time.Duration
}

func NewNotificationService(shares ShareServiceInterface, feeds cache.Cache, ttl time.Duration) *NotificationService {
	return &NotificationService{shares: shares, feeds: feeds, ttl: ttl}
}

func (s *NotificationService) PendingFeed(ctx context.Context, db *database.Database, principal uuid.UUID) ([]models.PendingShare, error) {
	key := cache.PendingFeedKey(principal.String())

	if s.feeds != nil {
		var cached []models.PendingShare
		hit, err := s.feeds.Get(ctx, key, &cached)
		if err != nil {
			logger.Log.Warn().Err(err).Str("key", key).Msg("Pending feed cache read failed")
		} else if hit {
			if cached == nil {
				cached = []models.PendingShare{}
			}
			return cached, nil
		}
	}

	pending, err := s.shares.ListPending(db, principal)
	if err != nil {
		return nil, err
	}

	if s.feeds != nil && s.ttl > 0 {
		if err := s.feeds.Set(ctx, key, pending, s.ttl); err != nil {
			logger.Log.Warn().Err(err).Str("key", key).Msg("Pending feed cache write failed")
		}
	}
	return pending, nil
}

func (s *NotificationService) PendingCount(ctx context.Context, db *database.Database, principal uuid.UUID) (int, error) {
	pending, err := s.PendingFeed(ctx, db, principal)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}
