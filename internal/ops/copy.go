package ops

import (
	"os"

	"github.com/mgeller/clipvault/internal/capture"
	"github.com/mgeller/clipvault/internal/content"
	"github.com/mgeller/clipvault/internal/errors"
	"github.com/mgeller/clipvault/internal/item"
)

// CopyOutput contains the result of the Copy operation.
type CopyOutput struct {
	ID          int64  `json:"id"`
	ContentKind string `json:"content_kind"`
	Preview     string `json:"preview"`
}

// Copy writes a stored item back to the system clipboard and records its
// digest so the poller does not capture the echo.
func (s *Service) Copy(id int64) (*CopyOutput, error) {
	if s.clip == nil {
		return nil, errors.NewClipboardUnavailable(nil)
	}

	it, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	switch it.ContentKind {
	case item.KindText:
		if err := s.clip.WriteText(it.Content); err != nil {
			return nil, err
		}
	case item.KindImage:
		img, err := s.loadImage(it)
		if err != nil {
			return nil, err
		}
		if err := s.clip.WriteImage(img); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewInvalidInput("item has unknown content kind")
	}

	s.echo.SetLastCopiedDigest(it.Digest)
	return &CopyOutput{ID: it.ID, ContentKind: it.ContentKind, Preview: it.Preview}, nil
}

func (s *Service) loadImage(it *item.Item) (*capture.RawImage, error) {
	path, err := s.validateImagePath(it.ImagePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	pix, width, height, err := content.DecodeRGBA(data)
	if err != nil {
		return nil, errors.NewStorageFailure(err)
	}
	return &capture.RawImage{Pix: pix, Width: width, Height: height}, nil
}
