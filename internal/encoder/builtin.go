package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
)

// builtinEncoder wraps a standard library codec. These are always available.
type builtinEncoder struct {
	format string
	ext    string
	mime   string
	// bytesPerPixel is a rough output size used to presize the buffer;
	// flat newsroom backgrounds compress well.
	bytesPerPixel float64
	encode        func(w io.Writer, img image.Image, quality int) error
}

// NewPNGEncoder returns the lossless PNG encoder. Quality is ignored.
func NewPNGEncoder() Encoder {
	return &builtinEncoder{
		format:        "png",
		ext:           "png",
		mime:          "image/png",
		bytesPerPixel: 0.5,
		encode: func(w io.Writer, img image.Image, _ int) error {
			enc := &png.Encoder{CompressionLevel: png.BestCompression}
			return enc.Encode(w, img)
		},
	}
}

// NewJPEGEncoder returns the JPEG encoder. Quality 0 means
// DefaultJPEGQuality.
func NewJPEGEncoder() Encoder {
	return &builtinEncoder{
		format:        "jpeg",
		ext:           "jpg",
		mime:          "image/jpeg",
		bytesPerPixel: 0.25,
		encode: func(w io.Writer, img image.Image, quality int) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality, DefaultJPEGQuality)})
		},
	}
}

func (e *builtinEncoder) Format() string    { return e.format }
func (e *builtinEncoder) Extension() string { return e.ext }
func (e *builtinEncoder) MIMEType() string  { return e.mime }
func (e *builtinEncoder) Available() bool   { return true }

func (e *builtinEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	b := img.Bounds()
	var buf bytes.Buffer
	buf.Grow(int(float64(b.Dx()*b.Dy())*e.bytesPerPixel) + 1024)
	if err := e.encode(&buf, img, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
