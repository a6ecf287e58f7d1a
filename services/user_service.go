package services

import (
	"errors"
	"strings"

	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserServiceInterface resolves identities. Sharing uses it to turn a
// recipient username into a user id.
type UserServiceInterface interface {
	GetUserById(db *database.Database, id uuid.UUID) (models.User, error)
	GetUserByUsername(db *database.Database, username string) (models.User, error)
}

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func (s *UserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, NewNotFoundError("user")
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(db *database.Database, username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, NewNotFoundError("user")
	}

	var user models.User
	if err := db.DB.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, NewNotFoundError("user")
		}
		return models.User{}, err
	}
	return user, nil
}
