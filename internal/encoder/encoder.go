// Package encoder turns a finished surface into a downloadable artifact.
package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the canonical format name ("png", "jpeg", "webp").
	Format() string

	// Encode converts the image to bytes. quality is 1-100 for lossy
	// formats; 0 selects the format's default.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string

	// MIMEType returns the Content-Type of the encoded bytes.
	MIMEType() string
}
