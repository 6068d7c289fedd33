package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Canvas is a named output canvas size in logical pixels.
type Canvas struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Background is a named background color.
type Background struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

const (
	DefaultCanvas     = "landscape"
	DefaultBackground = "ink"
)

// Built-in canvas sizes, in display order.
var canvases = []Canvas{
	{Name: "landscape", Width: 1200, Height: 675},
	{Name: "hd", Width: 1920, Height: 1080},
	{Name: "square", Width: 1200, Height: 1200},
	{Name: "wide", Width: 1600, Height: 900},
}

// Built-in background colors, in display order.
var backgrounds = []Background{
	{Name: "ink", Color: Color{0x11, 0x18, 0x27}},
	{Name: "paper", Color: Color{0xf5, 0xf1, 0xe8}},
	{Name: "newsprint", Color: Color{0xe4, 0xe0, 0xd5}},
	{Name: "breaking", Color: Color{0xb9, 0x1c, 0x1c}},
	{Name: "navy", Color: Color{0x0b, 0x25, 0x45}},
	{Name: "white", Color: Color{0xff, 0xff, 0xff}},
}

// Canvases returns a copy of the canvas presets.
func Canvases() []Canvas {
	return append([]Canvas(nil), canvases...)
}

// Backgrounds returns a copy of the background presets.
func Backgrounds() []Background {
	return append([]Background(nil), backgrounds...)
}

// LookupCanvas returns the canvas preset with the given name.
func LookupCanvas(name string) (Canvas, bool) {
	for _, c := range canvases {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Canvas{}, false
}

// LookupBackground returns the background preset with the given name.
func LookupBackground(name string) (Background, bool) {
	for _, b := range backgrounds {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Background{}, false
}

// ParseCanvas accepts a preset name or an explicit "WIDTHxHEIGHT" size.
func ParseCanvas(s string) (Canvas, error) {
	s = strings.TrimSpace(s)
	if c, ok := LookupCanvas(s); ok {
		return c, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Canvas{}, fmt.Errorf("invalid canvas %q: expected a preset name or WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Canvas{}, fmt.Errorf("invalid canvas width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Canvas{}, fmt.Errorf("invalid canvas height in %q", s)
	}
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return Canvas{}, fmt.Errorf("canvas %q exceeds %dpx per side", s, MaxCanvasSide)
	}
	return Canvas{Name: s, Width: width, Height: height}, nil
}

// WithCanvas returns c resized to the given canvas.
func (c Config) WithCanvas(cv Canvas) Config {
	c.CanvasWidth = cv.Width
	c.CanvasHeight = cv.Height
	return c
}

func mustCanvas(name string) Canvas {
	c, ok := LookupCanvas(name)
	if !ok {
		panic("config: unknown canvas preset " + name)
	}
	return c
}

func mustBackground(name string) Color {
	b, ok := LookupBackground(name)
	if !ok {
		panic("config: unknown background preset " + name)
	}
	return b.Color
}
