package services

import (
	"context"
	"encoding/json"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/logger"

	"gorm.io/gorm/clause"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Run(ctx context.Context)
	ProcessPendingEvents() (int, error)
}

// EventHandlerService relays outbox rows to the message broker. Events are
// published in insertion order and marked dispatched only after a
// successful publish.
type EventHandlerService struct {
	db        *database.Database
	publisher broker.Publisher
	interval  time.Duration
}

func NewEventHandlerService(db *database.Database, publisher broker.Publisher, interval time.Duration) *EventHandlerService {
	if interval <= 0 {
		interval = time.Second
	}
	return &EventHandlerService{db: db, publisher: publisher, interval: interval}
}

// Run polls for pending events until ctx is cancelled.
func (s *EventHandlerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Log.Info().Dur("interval", s.interval).Msg("Event dispatcher started")
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Event dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := s.ProcessPendingEvents(); err != nil {
				logger.Log.Error().Err(err).Msg("Error processing pending events")
			}
		}
	}
}

func (s *EventHandlerService) ProcessPendingEvents() (int, error) {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Limit(eventBatchSize).
		Find(&events).Error; err != nil {
		return 0, err
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			logger.Log.Error().Err(err).Str("event_id", event.ID.String()).Str("event", event.Event).Msg("Error dispatching event")
			// keep ordering: later events wait for this one
			break
		}
		dispatched++
	}

	if dispatched > 0 {
		logger.Log.Debug().Int("count", dispatched).Msg("Dispatched outbox events")
	}
	return dispatched, nil
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	data := map[string]interface{}{}
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			logger.Log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("Could not unmarshal event data")
		}
	}

	envelope := broker.Envelope{
		Type: event.Event,
		Payload: broker.Payload{
			EventID:   event.ID.String(),
			Timestamp: event.Timestamp,
			Type:      event.Event,
			Entity:    event.Entity,
			ActorID:   event.ActorID,
			Data:      data,
		},
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(broker.SubjectFor(event.Event), body); err != nil {
		return err
	}

	return s.db.DB.Model(&models.Event{}).
		Where("id = ?", event.ID).
		UpdateColumns(map[string]interface{}{
			"dispatched":    true,
			"dispatched_at": time.Now().UTC(),
			"status":        "completed",
		}).Error
}
