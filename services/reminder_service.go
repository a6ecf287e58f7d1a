package services

import (
	"context"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/logger"
	"smartnotes/smartnotes/utils/mailer"

	"github.com/google/uuid"
)

const reminderBatchSize = 50

const dueRemindersQuery = `
SELECT notes.id AS note_id, notes.user_id, notes.title, notes.content, notes.reminder_at, users.username, users.email
FROM notes
JOIN users ON users.id = notes.user_id
WHERE notes.lifecycle_state = ? AND notes.reminder_sent = ?
  AND notes.reminder_at IS NOT NULL AND notes.reminder_at <= ?
ORDER BY notes.reminder_at
LIMIT ?`

type ReminderServiceInterface interface {
	Run(ctx context.Context, db *database.Database, interval time.Duration)
	ProcessDueReminders(db *database.Database) (int, error)
}

type ReminderService struct {
	mailer mailer.Mailer
	now    func() time.Time
}

func NewReminderService(m mailer.Mailer) *ReminderService {
	return &ReminderService{mailer: m, now: utcNow}
}

type dueReminder struct {
	NoteID     uuid.UUID
	UserID     uuid.UUID
	Title      string
	Content    string
	ReminderAt time.Time
	Username   string
	Email      string
}

func (s *ReminderService) Run(ctx context.Context, db *database.Database, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Info().Dur("interval", interval).Msg("Reminder worker started")
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("Reminder worker stopped")
			return
		case <-ticker.C:
			if _, err := s.ProcessDueReminders(db); err != nil {
				logger.Log.Error().Err(err).Msg("Error processing reminders")
			}
		}
	}
}

// ProcessDueReminders mails every active note whose reminder time has
// passed and marks it sent. Trashed notes keep their reminder until they
// are restored.
func (s *ReminderService) ProcessDueReminders(db *database.Database) (int, error) {
	result, err := db.Query(dueRemindersQuery, models.NoteActive, false, s.now(), reminderBatchSize)
	if err != nil {
		return 0, err
	}
	var due []dueReminder
	if err := result.Scan(&due).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		if err := s.mailer.SendReminder(r.Email, mailer.Reminder{
			Username:   r.Username,
			NoteTitle:  r.Title,
			NoteBody:   r.Content,
			ReminderAt: r.ReminderAt,
		}); err != nil {
			logger.Log.Error().Err(err).Str("note_id", r.NoteID.String()).Msg("Failed to send reminder")
			continue
		}

		ok, err := s.markSent(db, r)
		if err != nil {
			logger.Log.Error().Err(err).Str("note_id", r.NoteID.String()).Msg("Failed to mark reminder sent")
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderService) markSent(db *database.Database, r dueReminder) (bool, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	result := tx.Model(&models.Note{}).
		Where("id = ? AND reminder_sent = ?", r.NoteID, false).
		UpdateColumn("reminder_sent", true)
	if result.Error != nil {
		return false, rollback(tx, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, rollback(tx, nil)
	}

	if err := recordEvent(tx, broker.ReminderSent, r.UserID, map[string]interface{}{
		"note_id":        r.NoteID.String(),
		"notify_user_id": r.UserID.String(),
	}); err != nil {
		return false, rollback(tx, err)
	}

	return true, tx.Commit().Error
}
