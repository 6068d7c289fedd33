package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/config"
)

// styleFlags binds the composition parameters shared by render and layers.
// A flag only overrides the config file when it was set explicitly.
type styleFlags struct {
	configPath string
	canvas     string
	background string
	direction  string
	anchor     string
	repeat     int
	gap        float64
	scaleStep  float64
	yOffset    float64
	padding    float64
	baseScale  float64
	density    float64
}

func (f *styleFlags) register(c *cobra.Command) {
	def := config.Default()
	fs := c.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "TOML style file (flags override it)")
	fs.StringVar(&f.canvas, "canvas", config.DefaultCanvas, "canvas preset name or WxH")
	fs.StringVar(&f.background, "background", config.DefaultBackground, "background preset name or #rrggbb")
	fs.StringVar(&f.direction, "direction", string(def.Direction), "stack direction: left or right")
	fs.StringVar(&f.anchor, "anchor", string(def.Anchor), "canvas anchor: top-left, top-right, bottom-left, bottom-right, center")
	fs.IntVarP(&f.repeat, "repeat", "r", def.RepeatCount, "number of layers (1-6)")
	fs.Float64Var(&f.gap, "gap", def.GapPercent, "horizontal step per layer, % of base width (-60..60)")
	fs.Float64Var(&f.scaleStep, "scale-step", def.ScaleStepPercent, "scale ratio between layers, % (60..110)")
	fs.Float64Var(&f.yOffset, "y-offset", def.YOffsetPercent, "vertical step per layer, % of base height (-60..60)")
	fs.Float64Var(&f.padding, "padding", def.PaddingPx, "inset from the anchor in logical px (0..200)")
	fs.Float64Var(&f.baseScale, "base-scale", def.BaseScalePercent, "foreground short side, % of canvas short side (20..120)")
	fs.Float64Var(&f.density, "density", def.PixelDensity, "pixel density of the output (1..2)")
}

// resolve loads the config file, if any, applies explicitly set flags on
// top and clamps the result.
func (f *styleFlags) resolve(c *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	changed := c.Flags().Changed
	if changed("canvas") {
		cv, err := config.ParseCanvas(f.canvas)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.WithCanvas(cv)
	}
	if changed("background") {
		col, err := config.ParseColor(f.background)
		if err != nil {
			return config.Config{}, fmt.Errorf("--background: %w", err)
		}
		cfg.Background = col
	}
	if changed("direction") {
		d, err := config.ParseDirection(f.direction)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Direction = d
	}
	if changed("anchor") {
		a, err := config.ParseAnchor(f.anchor)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Anchor = a
	}
	if changed("repeat") {
		cfg.RepeatCount = f.repeat
	}
	if changed("gap") {
		cfg.GapPercent = f.gap
	}
	if changed("scale-step") {
		cfg.ScaleStepPercent = f.scaleStep
	}
	if changed("y-offset") {
		cfg.YOffsetPercent = f.yOffset
	}
	if changed("padding") {
		cfg.PaddingPx = f.padding
	}
	if changed("base-scale") {
		cfg.BaseScalePercent = f.baseScale
	}
	if changed("density") {
		cfg.PixelDensity = f.density
	}
	return cfg.Normalize(), nil
}
