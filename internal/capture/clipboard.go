// Package capture watches the system clipboard and turns observed changes
// into capture events for the ingestion bridge.
package capture

// RawImage is a decoded clipboard image as flat 8-bit RGBA pixels,
// row-major, len(Pix) == Width*Height*4.
type RawImage struct {
	Pix    []byte
	Width  int
	Height int
}

// Clipboard abstracts the system clipboard so the poller can be driven by
// a fake in tests. Read methods return the zero value when the clipboard
// holds no payload of that kind.
type Clipboard interface {
	ReadText() (string, error)
	ReadImage() (*RawImage, error)
	WriteText(text string) error
	WriteImage(img *RawImage) error
}
