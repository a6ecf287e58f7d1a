package services

import (
	"errors"
	"testing"

	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	service := NewAuthService("test-secret", 1)

	user, err := service.Register(db, models.RegisterInput{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	for _, login := range []string{"alice", "ALICE@example.com"} {
		signed, err := service.Login(db, login, "correct horse")
		require.NoError(t, err, login)

		claims, err := service.ValidateToken(signed)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	}

	_, err = service.Login(db, "alice", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(db, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	service := NewAuthService("test-secret", 1)

	cases := []models.RegisterInput{
		{Username: "al", Email: "al@example.com", Password: "long enough"},
		{Username: "bad name!", Email: "x@example.com", Password: "long enough"},
		{Username: "alice", Email: "not-an-email", Password: "long enough"},
		{Username: "alice", Email: "alice@example.com", Password: "short"},
	}
	for _, input := range cases {
		_, err := service.Register(db, input)
		assert.True(t, errors.Is(err, ErrValidation), "%+v", input)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	service := NewAuthService("test-secret", 1)
	input := models.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "long enough"}

	_, err := service.Register(db, input)
	require.NoError(t, err)

	_, err = service.Register(db, input)
	assert.True(t, errors.Is(err, ErrConflict))

	input.Username = "alice2"
	_, err = service.Register(db, input)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestValidateToken_Rejects(t *testing.T) {
	service := NewAuthService("test-secret", 1)
	other := NewAuthService("other-secret", 1)

	_, err := service.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	db, close := testutils.SetupTestDB()
	defer close()
	_, err = other.Register(db, models.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "long enough"})
	require.NoError(t, err)
	signed, err := other.Login(db, "bob", "long enough")
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserService_Lookups(t *testing.T) {
	db, close := testutils.SetupTestDB()
	defer close()

	alice := testutils.CreateTestUser(db, "alice")
	service := NewUserService()

	got, err := service.GetUserById(db, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = service.GetUserByUsername(db, " alice ")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = service.GetUserById(db, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = service.GetUserByUsername(db, "bob")
	assert.True(t, errors.Is(err, ErrNotFound))
}
