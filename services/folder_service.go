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

const maxFolderNameLength = 255

type FolderServiceInterface interface {
	CreateFolder(db *database.Database, principal uuid.UUID, name string, parentID *uuid.UUID) (models.Folder, error)
	UpdateFolder(db *database.Database, principal, folderID uuid.UUID, patch models.FolderPatch) (models.Folder, error)
	DeleteFolder(db *database.Database, principal, folderID uuid.UUID) error
	ListFolders(db *database.Database, principal uuid.UUID) ([]models.Folder, error)
}

type FolderService struct {
	now func() time.Time
}

func NewFolderService() *FolderService {
	return &FolderService{now: utcNow}
}

func (s *FolderService) CreateFolder(db *database.Database, principal uuid.UUID, name string, parentID *uuid.UUID) (models.Folder, error) {
	name, err := requiredName("name", name, maxFolderNameLength)
	if err != nil {
		return models.Folder{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Folder{}, tx.Error
	}

	if parentID != nil {
		if err := ensureFolderOwned(tx, principal, *parentID); err != nil {
			return models.Folder{}, rollback(tx, err)
		}
	}

	now := s.now()
	folder := models.Folder{
		ID:        uuid.New(),
		UserID:    principal,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&folder).Error; err != nil {
		return models.Folder{}, rollback(tx, err)
	}

	if err := recordEvent(tx, broker.FolderCreated, principal, map[string]interface{}{
		"folder_id": folder.ID.String(),
	}); err != nil {
		return models.Folder{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Folder{}, err
	}
	return folder, nil
}

// UpdateFolder renames and/or moves a folder. Moving a folder under itself
// or one of its descendants is rejected.
func (s *FolderService) UpdateFolder(db *database.Database, principal, folderID uuid.UUID, patch models.FolderPatch) (models.Folder, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Folder{}, tx.Error
	}

	folder, err := ownedFolder(tx, principal, folderID)
	if err != nil {
		return models.Folder{}, rollback(tx, err)
	}

	updates := map[string]interface{}{"updated_at": s.now()}

	if patch.Name.Present {
		value := ""
		if patch.Name.Value != nil {
			value = *patch.Name.Value
		}
		name, err := requiredName("name", value, maxFolderNameLength)
		if err != nil {
			return models.Folder{}, rollback(tx, err)
		}
		updates["name"] = name
		folder.Name = name
	}

	if patch.ParentID.Present {
		if patch.ParentID.Value == nil {
			updates["parent_id"] = nil
			folder.ParentID = nil
		} else {
			parentID := *patch.ParentID.Value
			if err := ensureFolderOwned(tx, principal, parentID); err != nil {
				return models.Folder{}, rollback(tx, err)
			}
			if err := checkNoCycle(tx, folder.ID, parentID); err != nil {
				return models.Folder{}, rollback(tx, err)
			}
			updates["parent_id"] = parentID
			folder.ParentID = &parentID
		}
	}

	if err := tx.Model(&models.Folder{}).Where("id = ?", folder.ID).Updates(updates).Error; err != nil {
		return models.Folder{}, rollback(tx, err)
	}
	folder.UpdatedAt = updates["updated_at"].(time.Time)

	if err := recordEvent(tx, broker.FolderUpdated, principal, map[string]interface{}{
		"folder_id": folder.ID.String(),
	}); err != nil {
		return models.Folder{}, rollback(tx, err)
	}

	if err := tx.Commit().Error; err != nil {
		return models.Folder{}, err
	}
	return folder, nil
}

// checkNoCycle walks up from newParent and fails if it reaches folderID.
func checkNoCycle(tx *gorm.DB, folderID, newParent uuid.UUID) error {
	current := &newParent
	visited := map[uuid.UUID]bool{}
	for current != nil {
		if *current == folderID {
			return NewValidationError("a folder cannot be moved into itself or one of its subfolders")
		}
		if visited[*current] {
			return nil
		}
		visited[*current] = true

		var parent models.Folder
		if err := tx.Select("id", "parent_id").First(&parent, "id = ?", *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		current = parent.ParentID
	}
	return nil
}

// DeleteFolder removes a folder without deleting any note. Notes filed in
// it become unfiled and its subfolders move up to its parent.
func (s *FolderService) DeleteFolder(db *database.Database, principal, folderID uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	folder, err := ownedFolder(tx, principal, folderID)
	if err != nil {
		return rollback(tx, err)
	}

	var newParent interface{}
	if folder.ParentID != nil {
		newParent = *folder.ParentID
	}
	if err := tx.Model(&models.Folder{}).
		Where("parent_id = ? AND user_id = ?", folder.ID, principal).
		UpdateColumn("parent_id", newParent).Error; err != nil {
		return rollback(tx, err)
	}

	if err := tx.Model(&models.Note{}).
		Where("folder_id = ?", folder.ID).
		UpdateColumn("folder_id", nil).Error; err != nil {
		return rollback(tx, err)
	}

	if err := tx.Delete(&models.Folder{}, "id = ?", folder.ID).Error; err != nil {
		return rollback(tx, err)
	}

	if err := recordEvent(tx, broker.FolderDeleted, principal, map[string]interface{}{
		"folder_id": folder.ID.String(),
	}); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit().Error
}

func (s *FolderService) ListFolders(db *database.Database, principal uuid.UUID) ([]models.Folder, error) {
	folders := []models.Folder{}
	if err := db.DB.Where("user_id = ?", principal).Order("name").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func ownedFolder(tx *gorm.DB, principal, folderID uuid.UUID) (models.Folder, error) {
	var folder models.Folder
	if err := tx.First(&folder, "id = ? AND user_id = ?", folderID, principal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Folder{}, NewNotFoundError("folder")
		}
		return models.Folder{}, err
	}
	return folder, nil
}
