package database

import (
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/logger"

	"gorm.io/gorm"
)

// RunMigrations brings every table, including the note_tags join table and
// the partial unique index on pending share grants, up to date.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Tag{},
		&models.Note{},
		&models.ShareGrant{},
		&models.PublicLink{},
		&models.Event{},
	)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Migration failed")
		return err
	}

	return nil
}
