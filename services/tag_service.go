package services

import (
	"errors"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxTagNameLength = 100

type TagServiceInterface interface {
	CreateTag(db *database.Database, principal uuid.UUID, name string) (models.Tag, error)
	ListTags(db *database.Database, principal uuid.UUID) ([]models.Tag, error)
}

type TagService struct {
	now func() time.Time
}

func NewTagService() *TagService {
	return &TagService{now: utcNow}
}

// CreateTag adds a tag to the principal's flat tag set. Names are compared
// exactly; a duplicate is a conflict.
func (s *TagService) CreateTag(db *database.Database, principal uuid.UUID, name string) (models.Tag, error) {
	name, err := requiredName("name", name, maxTagNameLength)
	if err != nil {
		return models.Tag{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Tag{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.Tag{}).Where("user_id = ? AND name = ?", principal, name).Count(&count).Error; err != nil {
		return models.Tag{}, rollback(tx, err)
	}
	if count > 0 {
		return models.Tag{}, rollback(tx, NewConflictError("tag %q already exists", name))
	}

	tag := models.Tag{
		ID:        uuid.New(),
		UserID:    principal,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := tx.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Tag{}, rollback(tx, NewConflictError("tag %q already exists", name))
		}
		return models.Tag{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.TagCreated, principal, map[string]interface{}{
		"tag_id": tag.ID.String(),
		"name":   tag.Name,
	}); err != nil {
		return models.Tag{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *TagService) ListTags(db *database.Database, principal uuid.UUID) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := db.DB.Where("user_id = ?", principal).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
