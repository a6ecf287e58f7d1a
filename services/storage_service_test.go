package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG: signature plus IHDR
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	service := NewStorageService(dir, 1)
	owner := uuid.New()

	url, err := service.SaveImage(owner, "cat.png", pngHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"+owner.String()+"/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, owner.String(), filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestSaveImage_Rejects(t *testing.T) {
	service := NewStorageService(t.TempDir(), 1)
	owner := uuid.New()

	_, err := service.SaveImage(owner, "empty.png", nil)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = service.SaveImage(owner, "notes.txt", []byte("just some text"))
	assert.True(t, errors.Is(err, ErrValidation))

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1<<20)...)
	_, err = service.SaveImage(owner, "big.png", big)
	assert.True(t, errors.Is(err, ErrValidation))
}
