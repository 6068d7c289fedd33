// Package batch applies one composition to every photo in a directory.
//
// Each photo gets its own surface, so photos render in parallel on a
// bounded worker pool while every individual render stays synchronous.
package batch

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/newsroom/stylize/internal/compositor"
	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/encoder"
	"github.com/newsroom/stylize/internal/manifest"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Style     config.Config
	Format    string
	Workers   int
	// ContentAddressed names outputs <key>.<hash>.<ext> instead of
	// <key>-stylized.<ext>.
	ContentAddressed bool
	Compositor       *compositor.Options
	Logger           *log.Logger
}

// Batch renders a directory of photos.
type Batch struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured batch.
func New(cfg Config) *Batch {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	cfg.Style = cfg.Style.Normalize()
	return &Batch{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

// Run renders every photo under InputDir and returns the manifest. A photo
// that fails is logged and counted; the run only fails when every photo
// fails or ctx is cancelled.
func (b *Batch) Run(ctx context.Context) (*manifest.Manifest, error) {
	logger := b.cfg.Logger
	logger.Debug(b.registry.String())

	enc, err := b.registry.Lookup(b.cfg.Format)
	if err != nil {
		return nil, err
	}

	sources, err := ScanImages(b.cfg.InputDir, b.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", b.cfg.InputDir)
	}
	logger.Info("found images", "count", len(sources), "workers", b.cfg.Workers)

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, b.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[idx] = processResult{key: s.Key, err: err}
				return
			}

			logger.Debug("rendering", "key", s.Key)
			results[idx] = processImage(s, b.cfg, enc)
			if results[idx].err == nil {
				logger.Debug("done", "key", s.Key, "path", results[idx].render.Output.Path)
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := manifest.New(b.cfg.Style)
	m.BuildInfo = &manifest.BuildInfo{Workers: b.cfg.Workers, Tool: "stylize batch"}

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			logger.Error("render failed", "key", r.key, "err", r.err)
			continue
		}
		m.Renders[r.key] = r.render
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to render", failed)
	}
	if failed > 0 {
		logger.Warn("some images had errors", "failed", failed, "total", len(sources))
	}

	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}
