package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

type StorageServiceInterface interface {
	SaveImage(principal uuid.UUID, filename string, data []byte) (string, error)
}

// StorageService keeps uploaded note images on the local disk under
// dir/<owner>/ and hands back the URL path they are served from.
type StorageService struct {
	dir      string
	maxBytes int64
}

func NewStorageService(dir string, maxMB int) *StorageService {
	return &StorageService{dir: dir, maxBytes: int64(maxMB) << 20}
}

func (s *StorageService) SaveImage(principal uuid.UUID, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", NewValidationError("file is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", NewValidationError("file exceeds %d MB", s.maxBytes>>20)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", NewValidationError("unsupported file type %s", mtype.String())
	}

	ownerDir := filepath.Join(s.dir, principal.String())
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(ownerDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store %q: %w", filename, err)
	}

	return "/uploads/" + principal.String() + "/" + name, nil
}
