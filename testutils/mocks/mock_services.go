package mocks

import (
	"context"
	"net/http"

	"smartnotes/smartnotes/broker"
	"smartnotes/smartnotes/database"
	"smartnotes/smartnotes/models"
	"smartnotes/smartnotes/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNoteService mocks the NoteServiceInterface for testing
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(db *database.Database, principal uuid.UUID, input models.NoteInput) (models.Note, error) {
	args := m.Called(db, principal, input)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) GetNote(db *database.Database, principal, noteID uuid.UUID) (models.Note, error) {
	args := m.Called(db, principal, noteID)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) UpdateNote(db *database.Database, principal, noteID uuid.UUID, patch models.NotePatch) (models.Note, error) {
	args := m.Called(db, principal, noteID, patch)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) ListNotes(db *database.Database, principal uuid.UUID, filter models.NoteFilter) ([]models.Note, error) {
	args := m.Called(db, principal, filter)
	return args.Get(0).([]models.Note), args.Error(1)
}

// MockTrashService mocks the TrashServiceInterface for testing
type MockTrashService struct {
	mock.Mock
}

func (m *MockTrashService) TrashNote(db *database.Database, principal, noteID uuid.UUID) error {
	args := m.Called(db, principal, noteID)
	return args.Error(0)
}

func (m *MockTrashService) RestoreNote(db *database.Database, principal, noteID uuid.UUID) (models.Note, error) {
	args := m.Called(db, principal, noteID)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockTrashService) ForceDeleteNote(db *database.Database, principal, noteID uuid.UUID) error {
	args := m.Called(db, principal, noteID)
	return args.Error(0)
}

func (m *MockTrashService) ListTrash(db *database.Database, principal uuid.UUID) ([]models.Note, error) {
	args := m.Called(db, principal)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockTrashService) EmptyTrash(db *database.Database, principal uuid.UUID) (int64, error) {
	args := m.Called(db, principal)
	return args.Get(0).(int64), args.Error(1)
}

// MockFolderService mocks the FolderServiceInterface for testing
type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) CreateFolder(db *database.Database, principal uuid.UUID, name string, parentID *uuid.UUID) (models.Folder, error) {
	args := m.Called(db, principal, name, parentID)
	return args.Get(0).(models.Folder), args.Error(1)
}

func (m *MockFolderService) UpdateFolder(db *database.Database, principal, folderID uuid.UUID, patch models.FolderPatch) (models.Folder, error) {
	args := m.Called(db, principal, folderID, patch)
	return args.Get(0).(models.Folder), args.Error(1)
}

func (m *MockFolderService) DeleteFolder(db *database.Database, principal, folderID uuid.UUID) error {
	args := m.Called(db, principal, folderID)
	return args.Error(0)
}

func (m *MockFolderService) ListFolders(db *database.Database, principal uuid.UUID) ([]models.Folder, error) {
	args := m.Called(db, principal)
	return args.Get(0).([]models.Folder), args.Error(1)
}

// MockTagService mocks the TagServiceInterface for testing
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) CreateTag(db *database.Database, principal uuid.UUID, name string) (models.Tag, error) {
	args := m.Called(db, principal, name)
	return args.Get(0).(models.Tag), args.Error(1)
}

func (m *MockTagService) ListTags(db *database.Database, principal uuid.UUID) ([]models.Tag, error) {
	args := m.Called(db, principal)
	return args.Get(0).([]models.Tag), args.Error(1)
}

// MockShareService mocks the ShareServiceInterface for testing
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) CreateShare(db *database.Database, principal, noteID uuid.UUID, recipientUsername string) (models.ShareGrant, error) {
	args := m.Called(db, principal, noteID, recipientUsername)
	return args.Get(0).(models.ShareGrant), args.Error(1)
}

func (m *MockShareService) ListPending(db *database.Database, principal uuid.UUID) ([]models.PendingShare, error) {
	args := m.Called(db, principal)
	return args.Get(0).([]models.PendingShare), args.Error(1)
}

func (m *MockShareService) AcceptShare(db *database.Database, principal, grantID uuid.UUID) (models.ShareGrant, error) {
	args := m.Called(db, principal, grantID)
	return args.Get(0).(models.ShareGrant), args.Error(1)
}

func (m *MockShareService) RejectShare(db *database.Database, principal, grantID uuid.UUID) (models.ShareGrant, error) {
	args := m.Called(db, principal, grantID)
	return args.Get(0).(models.ShareGrant), args.Error(1)
}

func (m *MockShareService) ListNoteShares(db *database.Database, principal, noteID uuid.UUID) ([]models.ShareGrant, error) {
	args := m.Called(db, principal, noteID)
	return args.Get(0).([]models.ShareGrant), args.Error(1)
}

// MockNotificationService mocks the NotificationServiceInterface for testing
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) PendingFeed(ctx context.Context, db *database.Database, principal uuid.UUID) ([]models.PendingShare, error) {
	args := m.Called(ctx, db, principal)
	return args.Get(0).([]models.PendingShare), args.Error(1)
}

func (m *MockNotificationService) PendingCount(ctx context.Context, db *database.Database, principal uuid.UUID) (int, error) {
	args := m.Called(ctx, db, principal)
	return args.Int(0), args.Error(1)
}

// MockPublicLinkService mocks the PublicLinkServiceInterface for testing
type MockPublicLinkService struct {
	mock.Mock
}

func (m *MockPublicLinkService) CreatePublicLink(db *database.Database, principal, noteID uuid.UUID, ttlMinutes *int) (models.PublicLink, error) {
	args := m.Called(db, principal, noteID, ttlMinutes)
	return args.Get(0).(models.PublicLink), args.Error(1)
}

func (m *MockPublicLinkService) ResolvePublicLink(db *database.Database, token string) (models.PublicNote, error) {
	args := m.Called(db, token)
	return args.Get(0).(models.PublicNote), args.Error(1)
}

func (m *MockPublicLinkService) RevokePublicLink(db *database.Database, principal, linkID uuid.UUID) error {
	args := m.Called(db, principal, linkID)
	return args.Error(0)
}

func (m *MockPublicLinkService) ListPublicLinks(db *database.Database, principal, noteID uuid.UUID) ([]models.PublicLink, error) {
	args := m.Called(db, principal, noteID)
	return args.Get(0).([]models.PublicLink), args.Error(1)
}

// MockSearchService mocks the SearchServiceInterface for testing
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(db *database.Database, principal uuid.UUID, query string) ([]models.Note, error) {
	args := m.Called(db, principal, query)
	return args.Get(0).([]models.Note), args.Error(1)
}

// MockStorageService mocks the StorageServiceInterface for testing
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) SaveImage(principal uuid.UUID, filename string, data []byte) (string, error) {
	args := m.Called(principal, filename, data)
	return args.String(0), args.Error(1)
}

// MockUserService mocks the UserServiceInterface for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUserByUsername(db *database.Database, username string) (models.User, error) {
	args := m.Called(db, username)
	return args.Get(0).(models.User), args.Error(1)
}

// MockAuthService mocks the AuthServiceInterface for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(db *database.Database, input models.RegisterInput) (models.User, error) {
	args := m.Called(db, input)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) Login(db *database.Database, login, password string) (string, error) {
	args := m.Called(db, login, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*services.JWTClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// MockNotificationHub mocks the NotificationHubInterface for testing
type MockNotificationHub struct {
	mock.Mock
}

func (m *MockNotificationHub) Run(ctx context.Context, messages <-chan broker.Message) {
	m.Called(ctx, messages)
}

func (m *MockNotificationHub) Deliver(userID string, message []byte) int {
	args := m.Called(userID, message)
	return args.Int(0)
}

func (m *MockNotificationHub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	args := m.Called(w, r, userID)
	return args.Error(0)
}

func (m *MockNotificationHub) ConnectionCount() int {
	args := m.Called()
	return args.Int(0)
}
