package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/hasher"
)

// Verify checks m for internal consistency and confirms that every output
// exists under baseDir with the recorded size and hash. It returns one
// message per problem; an empty slice means the manifest is valid.
func Verify(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if m.Config.Normalize() != m.Config {
		errs = append(errs, "config holds out-of-range values")
	}

	seenPaths := map[string]string{}
	layerCount := 0
	for key, r := range m.Renders {
		layerCount += len(r.Layers)

		if r.Source.Path != "" && (r.Source.Width <= 0 || r.Source.Height <= 0) {
			errs = append(errs, fmt.Sprintf("render %q: invalid source dimensions %dx%d",
				key, r.Source.Width, r.Source.Height))
		}
		if r.Source.Path != "" && len(r.Layers) != config.EffectiveRepeat(m.Config.RepeatCount) {
			errs = append(errs, fmt.Sprintf("render %q: %d layers, config expects %d",
				key, len(r.Layers), config.EffectiveRepeat(m.Config.RepeatCount)))
		}
		for i, l := range r.Layers {
			if l.Index != i {
				errs = append(errs, fmt.Sprintf("render %q layer[%d]: index %d out of order", key, i, l.Index))
			}
		}

		out := r.Output
		if out.Format == "" {
			errs = append(errs, fmt.Sprintf("render %q: empty output format", key))
		}
		if out.Width <= 0 || out.Height <= 0 {
			errs = append(errs, fmt.Sprintf("render %q: invalid output dimensions %dx%d", key, out.Width, out.Height))
		}
		if out.Hash == "" {
			errs = append(errs, fmt.Sprintf("render %q: missing hash", key))
		}
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("render %q: missing output path", key))
			continue
		}
		if other, dup := seenPaths[out.Path]; dup {
			errs = append(errs, fmt.Sprintf("render %q: output path %q also used by %q", key, out.Path, other))
		}
		seenPaths[out.Path] = key

		fullPath := filepath.Join(baseDir, filepath.FromSlash(out.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("render %q: file not found: %s", key, out.Path))
			continue
		}
		if out.Size > 0 && info.Size() != out.Size {
			errs = append(errs, fmt.Sprintf("render %q: size mismatch: manifest=%d, disk=%d",
				key, out.Size, info.Size()))
		}
		if out.Hash != "" {
			sum, err := hasher.SumFile(fullPath)
			if err != nil {
				errs = append(errs, fmt.Sprintf("render %q: %v", key, err))
			} else if sum != out.Hash {
				errs = append(errs, fmt.Sprintf("render %q: hash mismatch: manifest=%s, disk=%s", key, out.Hash, sum))
			}
		}
	}

	if m.Stats.TotalRenders != len(m.Renders) {
		errs = append(errs, fmt.Sprintf("stats.total_renders mismatch: %d != %d", m.Stats.TotalRenders, len(m.Renders)))
	}
	if m.Stats.TotalLayers != layerCount {
		errs = append(errs, fmt.Sprintf("stats.total_layers mismatch: %d != %d", m.Stats.TotalLayers, layerCount))
	}

	return errs
}
