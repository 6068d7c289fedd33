// Package compositor rasterizes a layer plan onto a density-scaled surface.
//
// Layer geometry arrives in logical pixels. The surface stores physical
// pixels and carries a device matrix, so every draw goes through the same
// logical→physical transform and the parameters mean the same thing at
// any pixel density.
package compositor

import (
	"errors"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/layout"
	"github.com/newsroom/stylize/internal/source"
)

// ErrMissingSurface is returned when there is no surface to draw on.
var ErrMissingSurface = errors.New("missing render surface")

// Surface is an exclusively owned raster target.
type Surface struct {
	img           *image.RGBA
	logicalWidth  int
	logicalHeight int
	density       float64
	device        f64.Aff3
}

// NewSurface allocates a surface for a logical canvas at the given pixel
// density. Density is clamped to [1, 2] and each side to
// [1, config.MaxCanvasSide]; physical size is rounded.
func NewSurface(width, height int, density float64) *Surface {
	d := config.ClampDensity(density)
	width, height = config.ClampCanvasSide(width), config.ClampCanvasSide(height)
	pw := int(math.Round(float64(width) * d))
	ph := int(math.Round(float64(height) * d))
	return &Surface{
		img:           image.NewRGBA(image.Rect(0, 0, pw, ph)),
		logicalWidth:  width,
		logicalHeight: height,
		density:       d,
		device:        f64.Aff3{d, 0, 0, 0, d, 0},
	}
}

// Image returns the physical pixel buffer. It is mutated by every Compose.
// The background is opaque, so the buffer never holds partial alpha.
func (s *Surface) Image() *image.RGBA { return s.img }

// At returns the physical pixel at (x, y) as non-premultiplied color.
func (s *Surface) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(s.img.RGBAAt(x, y)).(color.NRGBA)
}

// Density returns the clamped pixel density.
func (s *Surface) Density() float64 { return s.density }

// LogicalSize returns the canvas size in logical pixels.
func (s *Surface) LogicalSize() (w, h int) { return s.logicalWidth, s.logicalHeight }

// PhysicalSize returns the buffer size in device pixels.
func (s *Surface) PhysicalSize() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Fits reports whether s already matches the canvas size and density of cfg.
func (s *Surface) Fits(cfg config.Config) bool {
	return s != nil &&
		s.logicalWidth == cfg.CanvasWidth &&
		s.logicalHeight == cfg.CanvasHeight &&
		s.density == config.ClampDensity(cfg.PixelDensity)
}

// Fill paints the whole surface with c.
func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Options tune the compositor.
type Options struct {
	// Interpolator resamples the photo for each layer. Nil means Catmull-Rom.
	Interpolator draw.Interpolator
}

// Compose repaints s from scratch: background first, then the layers from
// the highest index down to the foreground. With no ready source the
// result is background only.
func Compose(s *Surface, layers []layout.Layer, src *source.Image, bg color.Color, opts *Options) error {
	if s == nil || s.img == nil {
		return ErrMissingSurface
	}

	s.Fill(bg)
	if !src.Ready() {
		return nil
	}

	interp := draw.Interpolator(draw.CatmullRom)
	if opts != nil && opts.Interpolator != nil {
		interp = opts.Interpolator
	}

	sr := src.Pixels.Bounds()
	for _, l := range layout.BackToFront(layers) {
		if l.Width <= 0 || l.Height <= 0 {
			continue
		}
		interp.Transform(s.img, s.layerMatrix(l, sr), src.Pixels, sr, draw.Over, nil)
	}
	return nil
}

// layerMatrix maps source pixel coordinates onto the physical buffer:
// scale the photo to the layer's logical size, move it to the layer's
// logical position, then apply the device matrix.
func (s *Surface) layerMatrix(l layout.Layer, sr image.Rectangle) f64.Aff3 {
	sx := l.Width / float64(sr.Dx())
	sy := l.Height / float64(sr.Dy())
	logical := f64.Aff3{
		sx, 0, l.X - sx*float64(sr.Min.X),
		0, sy, l.Y - sy*float64(sr.Min.Y),
	}
	return mul(s.device, logical)
}

// mul returns a∘b: b is applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
