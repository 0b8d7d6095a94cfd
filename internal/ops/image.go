package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
)

// ReadImageOutput contains the result of the ReadImage operation.
type ReadImageOutput struct {
	ID       int64  `json:"id"`
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// ReadImage returns the stored PNG bytes for an image item.
func (s *Service) ReadImage(id int64) (*ReadImageOutput, error) {
	it, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if it.ContentKind != item.KindImage {
		return nil, errors.NewInvalidInput("item is not an image")
	}

	path, err := s.validateImagePath(it.ImagePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return &ReadImageOutput{
		ID:       it.ID,
		Path:     path,
		MimeType: "image/png",
		Data:     data,
	}, nil
}

// validateImagePath checks that an image path is a plain file directly
// inside the images directory. The file must also be one the store knows
// about. The "directly inside" rule keeps intermediate directory
// components out of the picture entirely.
func (s *Service) validateImagePath(path string) (string, error) {
	if path == "" {
		return "", errors.NewInvalidInput("item has no image file")
	}
	if containsTraversal(path) {
		return "", errors.NewInvalidInput("path must not contain directory traversal (..)")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", errors.NewInvalidInput(fmt.Sprintf("invalid path: %v", err))
	}

	imagesDir, err := filepath.Abs(filepath.Clean(s.store.ImagesDir()))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if filepath.Dir(abs) != imagesDir {
		return "", errors.NewInvalidInput("image file is outside the images directory")
	}

	if info, err := os.Lstat(abs); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return "", errors.NewInvalidInput("path must not be a symlink")
		}
	}

	known, err := s.store.ImagePathKnown(path)
	if err != nil {
		return "", err
	}
	if !known {
		return "", errors.NewInvalidInput("image file is not tracked")
	}
	return abs, nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
