package capture

import (
	"golang.design/x/clipboard"

	"github.com/mgeller/clipvault/internal/content"
	"github.com/mgeller/clipvault/internal/errors"
)

// SystemClipboard reads and writes the real system clipboard. The platform
// hands images over as PNG; they are decoded to raw RGBA here so digests
// are computed over pixels rather than encoder output.
type SystemClipboard struct{}

// NewSystemClipboard initializes clipboard access. Fails when no display
// or clipboard service is reachable.
func NewSystemClipboard() (*SystemClipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, errors.NewClipboardUnavailable(err)
	}
	return &SystemClipboard{}, nil
}

func (c *SystemClipboard) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *SystemClipboard) ReadImage() (*RawImage, error) {
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, nil
	}
	pix, width, height, err := content.DecodeRGBA(data)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &RawImage{Pix: pix, Width: width, Height: height}, nil
}

func (c *SystemClipboard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (c *SystemClipboard) WriteImage(img *RawImage) error {
	data, err := content.EncodeRGBA(img.Pix, img.Width, img.Height)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
