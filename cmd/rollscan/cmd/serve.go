package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rollscan/rollscan/internal/pipeline"
	"github.com/rollscan/rollscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP server",
	Long: `Start an HTTP server exposing the extraction pipeline:

  POST /v1/extract   multipart upload (image or PDF) returning records
  GET  /v1/progress  WebSocket progress feed
  GET  /healthz      health check
  GET  /metrics      Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from config)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	srvCfg := globalConfig.Server
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		srvCfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		srvCfg.Port = port
	}

	p, err := pipeline.NewBuilder().WithConfig(globalConfig.Pipeline).Build()
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	srv, err := server.New(srvCfg, p)
	if err != nil {
		return err
	}
	p.SetProgress(srv.Progress())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
