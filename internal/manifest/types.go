// Package manifest records what a render produced: the configuration, the
// resolved layer plan and a digest of every exported file.
package manifest

import (
	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/layout"
)

// Manifest is the top-level output of a stylize render or batch.
type Manifest struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	Config      config.Config     `json:"config"`
	BuildInfo   *BuildInfo        `json:"build_info,omitempty"`
	Renders     map[string]Render `json:"renders"`
	Stats       Stats             `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Tool    string `json:"tool"`
}

// Render describes one source photo and the file rendered from it.
type Render struct {
	Source SourceInfo     `json:"source"`
	Layers []layout.Layer `json:"layers"`
	Output Output         `json:"output"`
}

// SourceInfo holds metadata about the input photo. Path is empty for a
// background-only render.
type SourceInfo struct {
	Path   string `json:"path,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format,omitempty"`
	Size   int64  `json:"size"`
}

// Output is one encoded artifact.
type Output struct {
	Format string `json:"format"` // "png", "jpeg", "webp"
	Width  int    `json:"width"`  // physical pixels
	Height int    `json:"height"` // physical pixels
	Size   int64  `json:"size"`   // bytes on disk
	Hash   string `json:"hash"`   // 16 hex chars of xxhash64
	Path   string `json:"path"`   // relative to the manifest
}

// Stats aggregates run metrics.
type Stats struct {
	TotalRenders     int   `json:"total_renders"`
	TotalLayers      int   `json:"total_layers"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "stylize.manifest.json"
