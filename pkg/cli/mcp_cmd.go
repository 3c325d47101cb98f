package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/gameplay-tools/gameplay-mcp/pkg/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd is the Cobra command for "gameplay-mcp mcp".
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server in stdio mode for AI assistants",
	Long: `Start the Model Context Protocol (MCP) server in stdio mode.

This is used by AI assistants (Claude Desktop, Cursor, etc.) that spawn
the gateway as a subprocess. JSON-RPC messages are read from stdin and
answers written to stdout, one per line. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		quietByDefault(cfg)

		log, closer, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		gw := gateway.New(cfg, gateway.WithLogger(log))
		srv := mcp.NewServer(mcp.ConfigFrom(cfg.Server), gw, mcp.WithLogger(log))

		stdio := mcp.NewStdioServer(srv)
		stdio.SetLogger(log)
		stdio.SetIO(cmd.InOrStdin(), cmd.OutOrStdout())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return stdio.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
