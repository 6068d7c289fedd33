// Package studio wires the layout, compositor and encoder into the render
// loop: every config or image change triggers one full, synchronous
// recompute of the surface.
package studio

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/newsroom/stylize/internal/compositor"
	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/encoder"
	"github.com/newsroom/stylize/internal/layout"
	"github.com/newsroom/stylize/internal/source"
)

// Render is the whole pipeline as one call: it normalizes cfg, plans the
// layers for src and composes them onto a fresh surface.
func Render(cfg config.Config, src *source.Image, opts *compositor.Options) (*compositor.Surface, []layout.Layer, error) {
	cfg = cfg.Normalize()
	s := compositor.NewSurface(cfg.CanvasWidth, cfg.CanvasHeight, cfg.PixelDensity)
	layers := plan(cfg, src)
	if err := compositor.Compose(s, layers, src, cfg.Background.NRGBA(), opts); err != nil {
		return nil, nil, err
	}
	return s, layers, nil
}

func plan(cfg config.Config, src *source.Image) []layout.Layer {
	if !src.Ready() {
		return nil
	}
	return layout.Plan(src.AspectRatio(), cfg)
}

// Studio owns one configuration, one source image and the surface they
// render to. It is not safe for concurrent use.
type Studio struct {
	cfg      config.Config
	src      *source.Image
	surface  *compositor.Surface
	layers   []layout.Layer
	opts     *compositor.Options
	registry *encoder.Registry
	logger   *log.Logger
	renders  int
	detached bool
}

// Option configures a Studio.
type Option func(*Studio)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Studio) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCompositorOptions overrides resampling options.
func WithCompositorOptions(o *compositor.Options) Option {
	return func(s *Studio) { s.opts = o }
}

// WithRegistry replaces the encoder registry.
func WithRegistry(r *encoder.Registry) Option {
	return func(s *Studio) { s.registry = r }
}

// Detached starts the studio without a surface; recomputes are no-ops
// until Attach is called.
func Detached() Option {
	return func(s *Studio) { s.detached = true }
}

// New creates a studio that owns its surface and renders cfg immediately
// (background only, since no image is loaded yet).
func New(cfg config.Config, opts ...Option) *Studio {
	cfg = cfg.Normalize()
	s := &Studio{
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.detached {
		s.surface = compositor.NewSurface(cfg.CanvasWidth, cfg.CanvasHeight, cfg.PixelDensity)
	}
	if s.registry == nil {
		s.registry = encoder.NewRegistry()
	}
	_ = s.recompute()
	return s
}

// Config returns the normalized configuration.
func (s *Studio) Config() config.Config { return s.cfg }

// Source returns the current image, or nil when none is loaded.
func (s *Studio) Source() *source.Image { return s.src }

// Layers returns the layer plan of the last successful render.
func (s *Studio) Layers() []layout.Layer { return s.layers }

// Surface returns the render surface, or nil while detached.
func (s *Studio) Surface() *compositor.Surface { return s.surface }

// Renders returns the number of completed recomputes.
func (s *Studio) Renders() int { return s.renders }

// Attach hands the studio a surface and renders onto it.
func (s *Studio) Attach(surface *compositor.Surface) error {
	s.surface = surface
	return s.recompute()
}

// SetConfig replaces the configuration. Out-of-range values are clamped.
func (s *Studio) SetConfig(cfg config.Config) error {
	s.cfg = cfg.Normalize()
	return s.recompute()
}

// SetImage replaces the source. Pending or failed images render as
// background only.
func (s *Studio) SetImage(img *source.Image) error {
	s.src = img
	return s.recompute()
}

// LoadImage decodes data and makes it the source. On a decode failure the
// studio drops back to the no-image state, re-renders, and returns an
// error wrapping source.ErrDecode.
func (s *Studio) LoadImage(data []byte) error {
	img, err := source.DecodeBytes(data)
	if err != nil {
		s.logger.Warn("image decode failed; rendering background only", "err", err)
		s.src = nil
		if rerr := s.recompute(); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	s.logger.Debug("image decoded", "format", img.Format, "width", img.Width, "height", img.Height)
	return s.SetImage(img)
}

// ClearImage returns to the no-image state.
func (s *Studio) ClearImage() error {
	return s.SetImage(nil)
}

func (s *Studio) recompute() error {
	if s.surface != nil && !s.surface.Fits(s.cfg) {
		s.surface = compositor.NewSurface(s.cfg.CanvasWidth, s.cfg.CanvasHeight, s.cfg.PixelDensity)
	}

	layers := plan(s.cfg, s.src)
	err := compositor.Compose(s.surface, layers, s.src, s.cfg.Background.NRGBA(), s.opts)
	if errors.Is(err, compositor.ErrMissingSurface) {
		s.logger.Debug("no surface attached; skipping render")
		return nil
	}
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	s.layers = layers
	s.renders++
	w, h := s.surface.PhysicalSize()
	s.logger.Debug("rendered", "layers", len(layers), "width", w, "height", h, "density", s.surface.Density())
	return nil
}

// Export encodes the current surface.
func (s *Studio) Export(format string) (encoder.Artifact, error) {
	if s.surface == nil {
		return encoder.Artifact{}, compositor.ErrMissingSurface
	}
	return s.registry.Export(s.surface.Image(), format)
}
