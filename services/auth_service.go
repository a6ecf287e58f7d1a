package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/utils/token"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type JWTClaims = token.JWTClaims

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type AuthServiceInterface interface {
	Register(db *database.Database, input models.RegisterInput) (models.User, error)
	Login(db *database.Database, login, password string) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
	now           func() time.Time
}

func NewAuthService(jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
		now:           utcNow,
	}
}

func (s *AuthService) Register(db *database.Database, input models.RegisterInput) (models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username, validation.Required, validation.RuneLength(3, 50), validation.Match(usernamePattern)),
		validation.Field(&input.Email, validation.Required, is.Email),
		validation.Field(&input.Password, validation.Required, validation.RuneLength(8, 72)),
	)
	if err != nil {
		return models.User{}, asValidationError(err)
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var count int64
	if err := tx.Model(&models.User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error; err != nil {
		return models.User{}, rollback(tx, err)
	}
	if count > 0 {
		return models.User{}, rollback(tx, NewConflictError("username or email is already registered"))
	}

	now := s.now()
	user := models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, rollback(tx, NewConflictError("username or email is already registered"))
		}
		return models.User{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.UserCreated, user.ID, map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
	}); err != nil {
		return models.User{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login accepts either the username or the email address.
func (s *AuthService) Login(db *database.Database, login, password string) (string, error) {
	login = strings.TrimSpace(login)

	var user models.User
	if err := db.DB.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return token.GenerateToken(user.ID, user.Username, s.jwtSecret, s.jwtExpiration)
}

func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
