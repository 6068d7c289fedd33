// Package config holds the composition parameters for one render pass.
//
// A Config is a plain value: callers build it from Default, a TOML file,
// a JSON request body or CLI flags, and every consumer calls Normalize
// before use so out-of-range values are clamped rather than rejected.
package config

import (
	"fmt"
	"math"
	"strings"
)

// Parameter domains.
const (
	MinRepeat = 1
	MaxRepeat = 6

	MinGapPercent = -60.0
	MaxGapPercent = 60.0

	MinScaleStepPercent = 60.0
	MaxScaleStepPercent = 110.0

	MinYOffsetPercent = -60.0
	MaxYOffsetPercent = 60.0

	MinBaseScalePercent = 20.0
	MaxBaseScalePercent = 120.0

	MaxPaddingPx = 200.0

	MinPixelDensity = 1.0
	MaxPixelDensity = 2.0

	// MaxCanvasSide bounds each logical canvas dimension. Every preset
	// fits; explicit sizes above it are clamped.
	MaxCanvasSide = 4096
)

// Direction is the horizontal stepping direction of the layer stack.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool { return d == Left || d == Right }

// Sign returns +1 for Right and -1 for Left.
func (d Direction) Sign() float64 {
	if d == Left {
		return -1
	}
	return 1
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseDirection.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection parses "left" or "right" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid direction %q: expected left or right", s)
	}
	return d, nil
}

// Anchor is the canvas corner (or center) the stack is positioned against.
type Anchor string

const (
	TopLeft     Anchor = "top-left"
	TopRight    Anchor = "top-right"
	BottomLeft  Anchor = "bottom-left"
	BottomRight Anchor = "bottom-right"
	Center      Anchor = "center"
)

// Anchors lists every anchor in display order.
var Anchors = []Anchor{TopLeft, TopRight, BottomLeft, BottomRight, Center}

// Valid reports whether a is a known anchor.
func (a Anchor) Valid() bool {
	for _, v := range Anchors {
		if a == v {
			return true
		}
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseAnchor.
func (a *Anchor) UnmarshalText(text []byte) error {
	v, err := ParseAnchor(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAnchor parses an anchor name. Underscores and spaces are accepted in
// place of the hyphen ("bottom_right", "Bottom Right").
func ParseAnchor(s string) (Anchor, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	a := Anchor(norm)
	if !a.Valid() {
		return "", fmt.Errorf("invalid anchor %q: expected one of %s", s, anchorList())
	}
	return a, nil
}

func anchorList() string {
	names := make([]string, len(Anchors))
	for i, a := range Anchors {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// Config is an immutable snapshot of every parameter of one render.
type Config struct {
	Background       Color     `toml:"background" json:"background"`
	CanvasWidth      int       `toml:"canvas_width" json:"canvas_width"`
	CanvasHeight     int       `toml:"canvas_height" json:"canvas_height"`
	Direction        Direction `toml:"direction" json:"direction"`
	RepeatCount      int       `toml:"repeat_count" json:"repeat_count"`
	GapPercent       float64   `toml:"gap_percent" json:"gap_percent"`
	ScaleStepPercent float64   `toml:"scale_step_percent" json:"scale_step_percent"`
	YOffsetPercent   float64   `toml:"y_offset_percent" json:"y_offset_percent"`
	Anchor           Anchor    `toml:"anchor" json:"anchor"`
	PaddingPx        float64   `toml:"padding_px" json:"padding_px"`
	BaseScalePercent float64   `toml:"base_scale_percent" json:"base_scale_percent"`
	PixelDensity     float64   `toml:"pixel_density" json:"pixel_density"`
}

// Default returns the newsroom house style: three layers stepping right
// out of the bottom-right corner of a 1200×675 canvas.
func Default() Config {
	c := mustCanvas(DefaultCanvas)
	return Config{
		Background:       mustBackground(DefaultBackground),
		CanvasWidth:      c.Width,
		CanvasHeight:     c.Height,
		Direction:        Right,
		RepeatCount:      3,
		GapPercent:       -18,
		ScaleStepPercent: 90,
		YOffsetPercent:   0,
		Anchor:           BottomRight,
		PaddingPx:        24,
		BaseScalePercent: 70,
		PixelDensity:     1,
	}
}

// Normalize clamps every field to its documented domain. Unknown enum
// values fall back to the defaults; it never fails.
func (c Config) Normalize() Config {
	c.RepeatCount = EffectiveRepeat(c.RepeatCount)
	c.GapPercent = clamp(c.GapPercent, MinGapPercent, MaxGapPercent)
	c.ScaleStepPercent = clamp(c.ScaleStepPercent, MinScaleStepPercent, MaxScaleStepPercent)
	c.YOffsetPercent = clamp(c.YOffsetPercent, MinYOffsetPercent, MaxYOffsetPercent)
	c.BaseScalePercent = clamp(c.BaseScalePercent, MinBaseScalePercent, MaxBaseScalePercent)
	c.PaddingPx = clamp(c.PaddingPx, 0, MaxPaddingPx)
	c.PixelDensity = ClampDensity(c.PixelDensity)
	c.CanvasWidth = ClampCanvasSide(c.CanvasWidth)
	c.CanvasHeight = ClampCanvasSide(c.CanvasHeight)
	if !c.Direction.Valid() {
		c.Direction = Right
	}
	if !c.Anchor.Valid() {
		c.Anchor = BottomRight
	}
	return c
}

// EffectiveRepeat clamps a requested repeat count to [MinRepeat, MaxRepeat].
func EffectiveRepeat(n int) int {
	return min(max(n, MinRepeat), MaxRepeat)
}

// ClampCanvasSide clamps a logical canvas dimension to [1, MaxCanvasSide].
func ClampCanvasSide(n int) int {
	return min(max(n, 1), MaxCanvasSide)
}

// ClampDensity clamps a reported device pixel ratio to [1, 2].
// Non-finite values are treated as 1.
func ClampDensity(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return MinPixelDensity
	}
	return clamp(d, MinPixelDensity, MaxPixelDensity)
}

// ShortestSide returns min(CanvasWidth, CanvasHeight).
func (c Config) ShortestSide() int {
	return min(c.CanvasWidth, c.CanvasHeight)
}

// clamp limits v to [lo, hi]; NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
