package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEffectiveRepeat(t *testing.T) {
	cases := map[int]int{-3: 1, 0: 1, 1: 1, 3: 3, 6: 6, 7: 6, 9: 6}
	for in, want := range cases {
		if got := EffectiveRepeat(in); got != want {
			t.Errorf("EffectiveRepeat(%d): got %d, want %d", in, got, want)
		}
	}
}

func TestClampDensity(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.5, 1}, {1, 1}, {1.5, 1.5}, {2, 2}, {3, 2},
		{math.NaN(), 1}, {math.Inf(1), 1},
	}
	for _, c := range cases {
		if got := ClampDensity(c.in); got != c.want {
			t.Errorf("ClampDensity(%v): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeClampsEveryField(t *testing.T) {
	cfg := Config{
		CanvasWidth:      0,
		CanvasHeight:     -5,
		Direction:        "up",
		RepeatCount:      9,
		GapPercent:       -250,
		ScaleStepPercent: 10,
		YOffsetPercent:   99,
		Anchor:           "middle",
		PaddingPx:        -4,
		BaseScalePercent: 500,
		PixelDensity:     3,
	}.Normalize()

	if cfg.CanvasWidth != 1 || cfg.CanvasHeight != 1 {
		t.Errorf("canvas: got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.Direction != Right {
		t.Errorf("direction: got %q", cfg.Direction)
	}
	if cfg.RepeatCount != 6 {
		t.Errorf("repeat: got %d, want 6", cfg.RepeatCount)
	}
	if cfg.GapPercent != MinGapPercent {
		t.Errorf("gap: got %v", cfg.GapPercent)
	}
	if cfg.ScaleStepPercent != MinScaleStepPercent {
		t.Errorf("scale step: got %v", cfg.ScaleStepPercent)
	}
	if cfg.YOffsetPercent != MaxYOffsetPercent {
		t.Errorf("y offset: got %v", cfg.YOffsetPercent)
	}
	if cfg.Anchor != BottomRight {
		t.Errorf("anchor: got %q", cfg.Anchor)
	}
	if cfg.PaddingPx != 0 {
		t.Errorf("padding: got %v", cfg.PaddingPx)
	}
	if cfg.BaseScalePercent != MaxBaseScalePercent {
		t.Errorf("base scale: got %v", cfg.BaseScalePercent)
	}
	if cfg.PixelDensity != 2 {
		t.Errorf("density: got %v", cfg.PixelDensity)
	}
}

func TestNormalizeClampsOversizedCanvas(t *testing.T) {
	cfg := Default()
	cfg.CanvasWidth, cfg.CanvasHeight = 1<<31, 60000
	cfg = cfg.Normalize()
	if cfg.CanvasWidth != MaxCanvasSide || cfg.CanvasHeight != MaxCanvasSide {
		t.Errorf("canvas: got %dx%d, want %dx%d", cfg.CanvasWidth, cfg.CanvasHeight, MaxCanvasSide, MaxCanvasSide)
	}
	for _, c := range Canvases() {
		if c.Width > MaxCanvasSide || c.Height > MaxCanvasSide {
			t.Errorf("preset %s exceeds MaxCanvasSide", c.Name)
		}
	}
}

func TestNormalizeKeepsValidConfig(t *testing.T) {
	cfg := Default()
	if got := cfg.Normalize(); got != cfg {
		t.Errorf("default config changed by Normalize:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestParseAnchor(t *testing.T) {
	for in, want := range map[string]Anchor{
		"top-left":     TopLeft,
		"Bottom Right": BottomRight,
		"top_right":    TopRight,
		"CENTER":       Center,
	} {
		got, err := ParseAnchor(in)
		if err != nil {
			t.Fatalf("ParseAnchor(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseAnchor(%q): got %q, want %q", in, got, want)
		}
	}
	if _, err := ParseAnchor("middle"); err == nil {
		t.Error("expected error for unknown anchor")
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#ff8000", Color{255, 128, 0}},
		{"00ff00", Color{0, 255, 0}},
		{"#fff", Color{255, 255, 255}},
		{"breaking", Color{0xb9, 0x1c, 0x1c}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseColor(%q): got %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "#12345", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q): expected error", bad)
		}
	}
	if s := (Color{0x11, 0x18, 0x27}).String(); s != "#111827" {
		t.Errorf("String: got %q", s)
	}
}

func TestPresets(t *testing.T) {
	if n := len(Canvases()); n != 4 {
		t.Errorf("canvas presets: got %d, want 4", n)
	}
	if n := len(Backgrounds()); n != 6 {
		t.Errorf("background presets: got %d, want 6", n)
	}
	want := map[string][2]int{
		"landscape": {1200, 675},
		"hd":        {1920, 1080},
		"square":    {1200, 1200},
		"wide":      {1600, 900},
	}
	for name, size := range want {
		c, ok := LookupCanvas(name)
		if !ok {
			t.Fatalf("canvas %q missing", name)
		}
		if c.Width != size[0] || c.Height != size[1] {
			t.Errorf("canvas %q: got %dx%d", name, c.Width, c.Height)
		}
	}
}

func TestParseCanvas(t *testing.T) {
	c, err := ParseCanvas("800x600")
	if err != nil {
		t.Fatalf("ParseCanvas: %v", err)
	}
	if c.Width != 800 || c.Height != 600 {
		t.Errorf("got %dx%d", c.Width, c.Height)
	}
	if c, err := ParseCanvas("4096x4096"); err != nil || c.Width != MaxCanvasSide {
		t.Errorf("4096x4096: got %+v, %v", c, err)
	}
	for _, bad := range []string{"huge", "0x10", "10xabc", "4097x10", "3000000000x3000000000"} {
		if _, err := ParseCanvas(bad); err == nil {
			t.Errorf("ParseCanvas(%q): expected error", bad)
		}
	}
}

func TestDecodeTOML(t *testing.T) {
	doc := `
background = "#ffffff"
canvas = "square"
direction = "left"
repeat_count = 5
gap_percent = 12.5
anchor = "top-left"
`
	cfg, err := DecodeTOML([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Background != (Color{255, 255, 255}) {
		t.Errorf("background: got %v", cfg.Background)
	}
	if cfg.CanvasWidth != 1200 || cfg.CanvasHeight != 1200 {
		t.Errorf("canvas: got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.Direction != Left || cfg.RepeatCount != 5 || cfg.GapPercent != 12.5 || cfg.Anchor != TopLeft {
		t.Errorf("unexpected config: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.ScaleStepPercent != Default().ScaleStepPercent {
		t.Errorf("scale step: got %v", cfg.ScaleStepPercent)
	}
}

func TestDecodeTOMLRejectsUnknownEnum(t *testing.T) {
	if _, err := DecodeTOML([]byte(`anchor = "middle"`)); err == nil {
		t.Error("expected error for unknown anchor")
	}
}

func TestDecodeJSON(t *testing.T) {
	cfg, err := DecodeJSON([]byte(`{"background":"navy","canvas":"1000x500","pixel_density":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Background != (Color{0x0b, 0x25, 0x45}) {
		t.Errorf("background: got %v", cfg.Background)
	}
	if cfg.CanvasWidth != 1000 || cfg.CanvasHeight != 500 || cfg.PixelDensity != 2 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadAndEncodeTOML(t *testing.T) {
	cfg := Default()
	cfg.Anchor = Center
	cfg.Background = Color{1, 2, 3}

	data, err := EncodeTOML(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"#010203"`) {
		t.Errorf("encoded TOML missing color:\n%s", data)
	}

	path := filepath.Join(t.TempDir(), "style.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != cfg {
		t.Errorf("loaded config differs:\n got %+v\nwant %+v", got, cfg)
	}
}
