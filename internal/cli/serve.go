package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veritas/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve exposes the engine over HTTP:
  POST /api/analyze   assess text or a URL
  GET  /api/health    capabilities and provider status
  GET  /metrics       Prometheus metrics

Example:
  veritas serve --addr :5000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :5000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	setupCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	env, err := setup(setupCtx)
	if err != nil {
		return err
	}
	defer env.close()

	if serveAddr != "" {
		env.config.Server.Addr = serveAddr
	}
	srv := server.New(env.built.Engine, env.built.Capabilities, env.config, env.logger.Named("server"))
	return srv.Run(cmd.Context())
}
