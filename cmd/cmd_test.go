package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/manifest"
)

func newStyleCmd(f *styleFlags) *cobra.Command {
	c := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(c)
	return c
}

func TestStyleFlags_Defaults(t *testing.T) {
	var f styleFlags
	c := newStyleCmd(&f)
	if err := c.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := f.resolve(c)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestStyleFlags_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.toml")
	doc := "repeat_count = 5\ngap_percent = 10.0\nanchor = \"top-left\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var f styleFlags
	c := newStyleCmd(&f)
	if err := c.ParseFlags([]string{"--config", path, "--gap", "-25", "--canvas", "square", "--density", "9"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := f.resolve(c)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RepeatCount != 5 {
		t.Errorf("repeat: got %d, want 5 from file", cfg.RepeatCount)
	}
	if cfg.Anchor != config.TopLeft {
		t.Errorf("anchor: got %s, want top-left from file", cfg.Anchor)
	}
	if cfg.GapPercent != -25 {
		t.Errorf("gap: got %v, want -25 from flag", cfg.GapPercent)
	}
	if cfg.CanvasWidth != 1200 || cfg.CanvasHeight != 1200 {
		t.Errorf("canvas: got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.PixelDensity != config.MaxPixelDensity {
		t.Errorf("density: got %v, want clamped to %v", cfg.PixelDensity, config.MaxPixelDensity)
	}
}

func TestStyleFlags_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"--anchor", "middle"},
		{"--direction", "up"},
		{"--background", "#12"},
		{"--canvas", "tiny"},
	} {
		var f styleFlags
		c := newStyleCmd(&f)
		if err := c.ParseFlags(args); err != nil {
			t.Fatal(err)
		}
		if _, err := f.resolve(c); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected default logger without a context value")
	}
	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("expected the attached logger")
	}
}

func TestRenderThenVerify(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.png")
	img := image.NewNRGBA(image.Rect(0, 0, 30, 20))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(photo, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"render", "--image", photo, "--out", out, "--format", "jpg", "--canvas", "320x180", "--manifest"})
	if err := Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "newsroom-stylized.jpg")); err != nil {
		t.Fatalf("export missing: %v", err)
	}

	m, err := manifest.ReadJSON(filepath.Join(out, manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if m.Stats.TotalRenders != 1 || m.Stats.TotalLayers != 3 {
		t.Errorf("stats: got %+v", m.Stats)
	}

	rootCmd.SetArgs([]string{"verify", out})
	if err := Execute(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}
