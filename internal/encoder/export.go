package encoder

import (
	"fmt"
	"image"
)

// BaseName is the stem of every suggested download filename.
const BaseName = "newsroom-stylized"

// Export qualities for the lossy formats. JPEG matches the 0.95 quality
// of the browser export; PNG is lossless and takes none.
const (
	DefaultJPEGQuality = 95
	DefaultWebPQuality = 90
)

// exportQuality returns the quality Export encodes format at.
func exportQuality(format string) int {
	switch Canonical(format) {
	case "jpeg":
		return DefaultJPEGQuality
	case "webp":
		return DefaultWebPQuality
	default:
		return 0
	}
}

// clampQuality maps q outside 1..100 (including "unset" 0) to def.
func clampQuality(q, def int) int {
	if q <= 0 || q > 100 {
		return def
	}
	return q
}

// Artifact is an encoded export ready to hand to the user.
type Artifact struct {
	Data     []byte
	Format   string
	MIMEType string
	Filename string
	Width    int
	Height   int
}

// Filename returns the suggested download name for enc.
func Filename(enc Encoder) string {
	return BaseName + "." + enc.Extension()
}

// Export encodes img in the requested format with the format's default
// quality (JPEG 95, WebP 90, PNG lossless).
func (r *Registry) Export(img image.Image, format string) (Artifact, error) {
	enc, err := r.Lookup(format)
	if err != nil {
		return Artifact{}, err
	}
	data, err := enc.Encode(img, exportQuality(enc.Format()))
	if err != nil {
		return Artifact{}, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	b := img.Bounds()
	return Artifact{
		Data:     data,
		Format:   enc.Format(),
		MIMEType: enc.MIMEType(),
		Filename: Filename(enc),
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}
