package encoder

import (
	"fmt"
	"strings"
)

// Registry holds all available encoders.
type Registry struct {
	encoders map[string]Encoder
}

// aliases maps accepted spellings onto canonical format names.
var aliases = map[string]string{
	"jpg": "jpeg",
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		NewPNGEncoder(),
		NewJPEGEncoder(),
		&WebPEncoder{},
	}

	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Canonical normalizes a format name ("JPG" → "jpeg").
func Canonical(format string) string {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[Canonical(format)]
}

// Lookup is Get with an error naming the available formats.
func (r *Registry) Lookup(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unsupported format %q: available %s", format, strings.Join(r.Available(), ", "))
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"png", "jpeg", "webp"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
