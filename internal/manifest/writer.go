package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/newsroom/stylize/internal/config"
)

// New creates an empty manifest for cfg.
func New(cfg config.Config) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Config:      cfg,
		Renders:     make(map[string]Render),
	}
}

// ComputeStats recalculates aggregate statistics from renders. Failed is
// carried over since failed inputs have no render entry.
func (m *Manifest) ComputeStats() {
	s := Stats{Failed: m.Stats.Failed}
	s.TotalRenders = len(m.Renders)
	for _, r := range m.Renders {
		s.TotalLayers += len(r.Layers)
		s.TotalInputBytes += r.Source.Size
		s.TotalOutputBytes += r.Output.Size
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
