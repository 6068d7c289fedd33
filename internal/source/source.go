// Package source decodes user photos into the pixel source the compositor
// draws from, and tracks whether a decode is pending, ready or failed.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is returned (wrapped) when bytes cannot be decoded as an image.
var ErrDecode = errors.New("decode failure")

// MaxPixels caps the declared size of a photo. Larger images are rejected
// from their header, before any pixel buffer is allocated.
const MaxPixels = 100_000_000

// State is the lifecycle of a SourceImage.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Image is a decoded photo. Only images in the Ready state carry pixels.
type Image struct {
	State  State
	Width  int
	Height int
	Format string
	Pixels *image.NRGBA
	Err    error
}

// NewPending returns an image whose decode has not finished yet.
func NewPending() *Image { return &Image{State: Pending} }

// FromImage wraps already-decoded pixels as a Ready source.
func FromImage(img image.Image) *Image {
	px := imaging.Clone(img)
	b := px.Bounds()
	return &Image{
		State:  Ready,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: px,
	}
}

// Ready reports whether im can be drawn. A nil image is not ready.
func (im *Image) Ready() bool {
	return im != nil && im.State == Ready && im.Pixels != nil && im.Width > 0 && im.Height > 0
}

// AspectRatio returns width / height, or 0 if the image is not ready.
func (im *Image) AspectRatio() float64 {
	if !im.Ready() {
		return 0
	}
	return float64(im.Width) / float64(im.Height)
}

// Decode reads an image in any registered format (png, jpeg, gif, bmp,
// tiff, webp), applying the EXIF orientation tag. On failure it returns a
// Failed image together with an error wrapping ErrDecode.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return failed(fmt.Errorf("%w: read: %v", ErrDecode, err))
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return failed(fmt.Errorf("%w: empty input", ErrDecode))
	}

	hdr, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return failed(fmt.Errorf("%w: %v", ErrDecode, err))
	}
	if hdr.Width <= 0 || hdr.Height <= 0 || int64(hdr.Width)*int64(hdr.Height) > MaxPixels {
		return failed(fmt.Errorf("%w: %s declares %dx%d, limit is %d pixels", ErrDecode, format, hdr.Width, hdr.Height, MaxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return failed(fmt.Errorf("%w: %s: %v", ErrDecode, format, err))
	}

	im := FromImage(img)
	im.Format = format
	if !im.Ready() {
		return failed(fmt.Errorf("%w: empty %s image", ErrDecode, format))
	}
	return im, nil
}

func failed(err error) (*Image, error) {
	return &Image{State: Failed, Err: err}, err
}
