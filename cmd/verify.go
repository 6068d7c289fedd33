package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/manifest"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <out_dir_or_manifest>",
	Short: "Check a render manifest against the files on disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	problems := manifest.Verify(m, filepath.Dir(path))
	if len(problems) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d renders, %d layers, all outputs present and hashed\n", m.Stats.TotalRenders, m.Stats.TotalLayers)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(problems))
	for _, p := range problems {
		fmt.Printf("    • %s\n", p)
	}
	return fmt.Errorf("verification failed with %d errors", len(problems))
}
