package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/config"
	"github.com/newsroom/stylize/internal/encoder"
)

var presetsDump bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List canvas and background presets",
	Long: `Lists the named canvases and backgrounds accepted by --canvas and
--background. With --dump, prints the default style as a TOML file that
can be edited and passed back with --config.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsDump, "dump", false, "print the default style as TOML")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(_ *cobra.Command, _ []string) error {
	if presetsDump {
		data, err := config.EncodeTOML(config.Default())
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Println()
	fmt.Println("  Canvases:")
	for _, c := range config.Canvases() {
		mark := " "
		if c.Name == config.DefaultCanvas {
			mark = "*"
		}
		fmt.Printf("   %s %-10s %5d x %-5d\n", mark, c.Name, c.Width, c.Height)
	}
	fmt.Println()
	fmt.Println("  Backgrounds:")
	for _, b := range config.Backgrounds() {
		mark := " "
		if b.Name == config.DefaultBackground {
			mark = "*"
		}
		fmt.Printf("   %s %-10s %s\n", mark, b.Name, b.Color)
	}
	fmt.Println()

	anchors := make([]string, len(config.Anchors))
	for i, a := range config.Anchors {
		anchors[i] = string(a)
	}
	fmt.Printf("  Anchors:     %s\n", strings.Join(anchors, ", "))
	fmt.Printf("  Formats:     %s\n", strings.Join(encoder.NewRegistry().Available(), ", "))
	fmt.Println()
	return nil
}
