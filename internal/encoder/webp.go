package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// WebPEncoder encodes images to WebP by shelling out to cwebp.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) MIMEType() string  { return "image/webp" }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	quality = clampQuality(quality, DefaultWebPQuality)

	dir, err := os.MkdirTemp("", "stylize-webp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "src.png")
	dstPath := filepath.Join(dir, "dst.webp")

	f, err := os.Create(srcPath)
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := exec.Command(e.cwebpPath,
		"-q", strconv.Itoa(quality),
		"-m", "6", // compression method (0=fast, 6=best)
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}

	return os.ReadFile(dstPath)
}
