package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/newsroom/stylize/internal/encoder"
	"github.com/newsroom/stylize/internal/hasher"
	"github.com/newsroom/stylize/internal/manifest"
	"github.com/newsroom/stylize/internal/source"
	"github.com/newsroom/stylize/internal/studio"
)

// processResult holds the result of rendering a single photo.
type processResult struct {
	key    string
	render manifest.Render
	err    error
}

// processImage handles a single photo: decode, compose, encode, write.
func processImage(src Source, cfg Config, enc encoder.Encoder) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	img, err := source.DecodeBytes(data)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}

	surface, layers, err := studio.Render(cfg.Style, img, cfg.Compositor)
	if err != nil {
		result.err = fmt.Errorf("render %s: %w", src.RelPath, err)
		return result
	}

	out, err := enc.Encode(surface.Image(), 0)
	if err != nil {
		result.err = fmt.Errorf("encode %s as %s: %w", src.RelPath, enc.Format(), err)
		return result
	}

	sum := hasher.Sum(out)
	relPath := outputName(src.Key, sum, enc.Extension(), cfg.ContentAddressed)
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create dir for %s: %w", relPath, err)
		return result
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	w, h := surface.PhysicalSize()
	result.render = manifest.Render{
		Source: manifest.SourceInfo{
			Path:   src.RelPath,
			Width:  img.Width,
			Height: img.Height,
			Format: img.Format,
			Size:   src.Size,
		},
		Layers: layers,
		Output: manifest.Output{
			Format: enc.Format(),
			Width:  w,
			Height: h,
			Size:   int64(len(out)),
			Hash:   sum,
			Path:   relPath,
		},
	}
	return result
}

// outputName builds the slash-separated output path for a render key.
func outputName(key, sum, ext string, contentAddressed bool) string {
	if contentAddressed {
		return fmt.Sprintf("%s.%s.%s", key, sum[:hasher.ShortLen], ext)
	}
	return key + "-stylized." + ext
}
