package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/batch"
	"github.com/newsroom/stylize/internal/compositor"
	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/hasher"
	"github.com/newsroom/stylize/internal/manifest"
	"github.com/newsroom/stylize/internal/source"
	"github.com/newsroom/stylize/internal/studio"
)

var (
	renderStyle            styleFlags
	renderImage            string
	renderDir              string
	renderOutDir           string
	renderFormat           string
	renderInterp           string
	renderWorkers          int
	renderManifest         bool
	renderContentAddressed bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compose a photo onto the canvas and export it",
	Long: `Renders one photo (--image) or every photo in a directory (--dir).

A single render writes newsroom-stylized.png or newsroom-stylized.jpg to
--out. Without --image the export is background only. A photo that fails
to decode is reported and the background-only render is still written.

A directory render writes <key>-stylized.<ext> per photo (or
<key>.<hash>.<ext> with --content-addressed) plus stylize.manifest.json.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderStyle.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderImage, "image", "i", "", "photo to compose")
	renderCmd.Flags().StringVar(&renderDir, "dir", "", "render every photo in this directory")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", ".", "output directory")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "png", "export format: png, jpeg (jpg), webp")
	renderCmd.Flags().StringVar(&renderInterp, "interp", "", "resampler: "+strings.Join(compositor.InterpolatorNames, ", ")+" (default catmull-rom)")
	renderCmd.Flags().IntVarP(&renderWorkers, "workers", "w", 0, "parallel workers for --dir (0 = NumCPU)")
	renderCmd.Flags().BoolVar(&renderManifest, "manifest", false, "also write stylize.manifest.json for a single render")
	renderCmd.Flags().BoolVar(&renderContentAddressed, "content-addressed", false, "name --dir outputs <key>.<hash>.<ext>")
	renderCmd.MarkFlagsMutuallyExclusive("image", "dir")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	logger := loggerFromContext(cmd.Context())

	cfg, err := renderStyle.resolve(cmd)
	if err != nil {
		return err
	}
	opts, err := compositor.ParseInterpolator(renderInterp)
	if err != nil {
		return err
	}

	absOutput, err := filepath.Abs(renderOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	logger.Debug("style",
		"canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight),
		"background", cfg.Background,
		"direction", cfg.Direction,
		"anchor", cfg.Anchor,
		"repeat", cfg.RepeatCount,
		"density", cfg.PixelDensity,
	)

	var m *manifest.Manifest
	if renderDir != "" {
		absInput, err := filepath.Abs(renderDir)
		if err != nil {
			return fmt.Errorf("resolve input path: %w", err)
		}
		m, err = batch.New(batch.Config{
			InputDir:         absInput,
			OutputDir:        absOutput,
			Style:            cfg,
			Format:           renderFormat,
			Workers:          renderWorkers,
			ContentAddressed: renderContentAddressed,
			Compositor:       opts,
			Logger:           logger,
		}).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("batch: %w", err)
		}
	} else {
		m, err = renderSingle(cmd, cfg, opts, absOutput)
		if err != nil {
			return err
		}
		if !renderManifest {
			printRenderReport(m, time.Since(start), false)
			return nil
		}
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	printRenderReport(m, time.Since(start), true)
	return nil
}

// renderSingle composes one photo (or none) with a Studio and writes the
// export into outDir. The returned manifest has exactly one render.
func renderSingle(cmd *cobra.Command, cfg config.Config, opts *compositor.Options, outDir string) (*manifest.Manifest, error) {
	logger := loggerFromContext(cmd.Context())
	st := studio.New(cfg, studio.WithLogger(logger), studio.WithCompositorOptions(opts))

	var info manifest.SourceInfo
	if renderImage != "" {
		data, err := os.ReadFile(renderImage)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		if err := st.LoadImage(data); err != nil {
			if !errors.Is(err, source.ErrDecode) {
				return nil, err
			}
			logger.Warn("could not decode photo; exporting background only", "image", renderImage, "err", err)
		} else {
			img := st.Source()
			info = manifest.SourceInfo{
				Path:   filepath.ToSlash(renderImage),
				Width:  img.Width,
				Height: img.Height,
				Format: img.Format,
				Size:   int64(len(data)),
			}
		}
	}

	art, err := st.Export(renderFormat)
	if err != nil {
		return nil, err
	}
	outPath := filepath.Join(outDir, art.Filename)
	if err := os.WriteFile(outPath, art.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", art.Filename, err)
	}
	logger.Info("exported", "path", outPath, "size", formatBytes(int64(len(art.Data))))

	m := manifest.New(cfg)
	m.BuildInfo = &manifest.BuildInfo{Workers: 1, Tool: "stylize render"}
	m.Renders[strings.TrimSuffix(art.Filename, filepath.Ext(art.Filename))] = manifest.Render{
		Source: info,
		Layers: st.Layers(),
		Output: manifest.Output{
			Format: art.Format,
			Width:  art.Width,
			Height: art.Height,
			Size:   int64(len(art.Data)),
			Hash:   hasher.Sum(art.Data),
			Path:   art.Filename,
		},
	}
	m.ComputeStats()
	return m, nil
}

func printRenderReport(m *manifest.Manifest, elapsed time.Duration, wroteManifest bool) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              stylize render complete             ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Renders:     %d\n", s.TotalRenders)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Layers:      %d\n", s.TotalLayers)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Canvas:      %dx%d @%gx\n", m.Config.CanvasWidth, m.Config.CanvasHeight, m.Config.PixelDensity)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil && m.BuildInfo.Workers > 1 {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	keys := make([]string, 0, len(m.Renders))
	for k := range m.Renders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n := min(len(keys), 10)
	if n > 0 {
		fmt.Printf("  Outputs (first %d):\n", n)
		for _, k := range keys[:n] {
			out := m.Renders[k].Output
			fmt.Printf("    %-40s %5dx%-5d %8s\n", truncKey(out.Path, 40), out.Width, out.Height, formatBytes(out.Size))
		}
		fmt.Println()
	}

	if wroteManifest {
		fmt.Printf("  Manifest:    %s\n", manifest.FileName)
		fmt.Println()
	}
}
