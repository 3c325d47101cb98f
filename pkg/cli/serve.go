package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/flags"
	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/output"
	"github.com/gameplay-tools/gameplay-mcp/pkg/config"
	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/gameplay-tools/gameplay-mcp/pkg/mcp"
	"github.com/gameplay-tools/gameplay-mcp/pkg/metrics"
	"github.com/spf13/cobra"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

var (
	serveHost    string
	servePort    int
	serveOrigins flags.StringSlice
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway over HTTP",
	Long: `Start the MCP gateway over HTTP.

Endpoints:
  POST   /mcp        MCP JSON-RPC (Mcp-Session-Id header after initialize)
  DELETE /mcp        End an MCP session
  GET    /mcp/tools  List tools
  POST   /mcp/tools  Call a tool: {"tool": "...", "arguments": {...}}
  GET    /healthz    Liveness
  GET    /metrics    Gateway self-metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Interface to listen on (default 0.0.0.0)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default 8000)")
	serveCmd.Flags().Var(&serveOrigins, "origin", "Allowed CORS origin, repeatable (supports wildcards like http://localhost:*)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	overlay := &config.Config{}
	if cmd.Flags().Changed("host") {
		overlay.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		overlay.Server.Port = servePort
	}
	config.Merge(cfg, overlay, config.SourceFlag)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	m := metrics.New()
	gw := gateway.New(cfg, gateway.WithLogger(log), gateway.WithMetrics(m))

	mcfg := mcp.ConfigFrom(cfg.Server)
	if len(serveOrigins) > 0 {
		mcfg.AllowedOrigins = serveOrigins
	}
	srv := mcp.NewServer(mcfg, gw, mcp.WithLogger(log), mcp.WithMetrics(m))
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "gameplay-mcp %s listening on %s\n", Version, srv.Addr())

	// Run main event loop (blocks until shutdown signal)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		output.Warn(cmd.ErrOrStderr(), "server shutdown error: %v", err)
	}
	return nil
}
