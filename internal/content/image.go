package content

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// maxImageDim bounds width/height for encoded images. PNG itself allows
// 2^31-1; this keeps width*height*4 well inside int range on all
// platforms.
const maxImageDim = 1 << 16

// EncodeRGBA encodes a flat RGBA byte buffer into lossless PNG bytes.
// It fails without encoding when the buffer length does not equal
// width*height*4 or the dimensions are out of bounds. Decoding the result
// reproduces the exact input byte sequence.
func EncodeRGBA(raw []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || width > maxImageDim || height > maxImageDim {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	expected := width * height * 4
	if len(raw) != expected {
		return nil, fmt.Errorf("image buffer length %d does not match %dx%d*4=%d",
			len(raw), width, height, expected)
	}

	img := &image.NRGBA{
		Pix:    raw,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRGBA decodes PNG bytes back into a flat RGBA buffer plus
// dimensions. It is the inverse of EncodeRGBA and is also used to hash the
// raw pixels of images arriving from the system clipboard.
func DecodeRGBA(data []byte) ([]byte, int, int, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("png decode: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == width*4 {
		return nrgba.Pix, width, height, nil
	}

	// Non-NRGBA source (palette, gray, RGBA with alpha premultiply):
	// normalize pixel by pixel.
	out := make([]byte, 0, width*height*4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
		}
	}
	return out, width, height, nil
}
