package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/layout"
	"github.com/newsroom/stylize/internal/source"
)

var (
	layersStyle styleFlags
	layersImage string
	layersSize  string
	layersJSON  bool
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Print the layer plan for a photo without rendering",
	Long: `Resolves the foreground rectangle and every layer for the given style
and prints them in logical pixels, foreground (index 0) first.

The photo's aspect ratio comes from --image, or from --size WxH when
no photo is at hand.`,
	Args: cobra.NoArgs,
	RunE: runLayers,
}

func init() {
	layersStyle.register(layersCmd)
	layersCmd.Flags().StringVarP(&layersImage, "image", "i", "", "photo to measure")
	layersCmd.Flags().StringVar(&layersSize, "size", "", "photo size as WxH instead of --image")
	layersCmd.Flags().BoolVar(&layersJSON, "json", false, "print JSON instead of a table")
	layersCmd.MarkFlagsMutuallyExclusive("image", "size")
	layersCmd.MarkFlagsOneRequired("image", "size")
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, _ []string) error {
	cfg, err := layersStyle.resolve(cmd)
	if err != nil {
		return err
	}

	w, h, err := photoSize()
	if err != nil {
		return err
	}

	base := layout.Resolve(float64(w)/float64(h), cfg)
	layers := layout.Layers(base, cfg)

	if layersJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Config config.Config  `json:"config"`
			Base   layout.Base    `json:"base"`
			Layers []layout.Layer `json:"layers"`
		}{cfg, base, layers})
	}

	printLayers(cfg, w, h, base, layers)
	return nil
}

func photoSize() (w, h int, err error) {
	if layersSize != "" {
		cv, err := config.ParseCanvas(layersSize)
		if err != nil {
			return 0, 0, fmt.Errorf("--size: %w", err)
		}
		return cv.Width, cv.Height, nil
	}
	f, err := os.Open(layersImage)
	if err != nil {
		return 0, 0, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, err := source.Decode(f)
	if err != nil {
		return 0, 0, err
	}
	return img.Width, img.Height, nil
}

func printLayers(cfg config.Config, w, h int, base layout.Base, layers []layout.Layer) {
	fmt.Println()
	fmt.Printf("  Photo:       %dx%d (aspect %.4f)\n", w, h, float64(w)/float64(h))
	fmt.Printf("  Canvas:      %dx%d, %s, anchor %s, %s\n",
		cfg.CanvasWidth, cfg.CanvasHeight, cfg.Background, cfg.Anchor, cfg.Direction)
	fmt.Printf("  Base:        %.1f x %.1f at (%.1f, %.1f)\n", base.Width, base.Height, base.StartX, base.StartY)
	fmt.Println()
	fmt.Println("  idx   scale        x        y    width   height")
	for _, l := range layers {
		fmt.Printf("  %3d  %6.4f  %7.1f  %7.1f  %7.1f  %7.1f\n", l.Index, l.Scale, l.X, l.Y, l.Width, l.Height)
	}
	fmt.Println()

	// Layers entirely outside the canvas still count but never show.
	var hidden int
	for _, l := range layers {
		x0, y0, x1, y1 := l.Rect()
		if x1 <= 0 || y1 <= 0 || x0 >= float64(cfg.CanvasWidth) || y0 >= float64(cfg.CanvasHeight) {
			hidden++
		}
	}
	if hidden > 0 {
		fmt.Printf("  ⚠ %d layer(s) fall outside the canvas\n\n", hidden)
	}
}
