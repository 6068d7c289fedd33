package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newsroom/stylize/internal/compositor"
	"github.com/newsroom/stylize/internal/server"
)

var (
	serveAddr   string
	serveInterp string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the renderer over HTTP",
	Long: `Starts an HTTP server:

  GET  /healthz          liveness probe
  GET  /api/v1/presets   canvases, backgrounds, anchors, formats, defaults
  POST /api/v1/layers    JSON {config, width, height} -> layer plan
  POST /api/v1/render    multipart image + config -> attachment`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveInterp, "interp", "", "resampler for uploaded photos (default catmull-rom)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	opts, err := compositor.ParseInterpolator(serveInterp)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(serveAddr, loggerFromContext(ctx))
	srv.SetCompositorOptions(opts)
	return srv.ListenAndServe(ctx)
}
