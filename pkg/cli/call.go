package cli

import (
	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/flags"
	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/output"
	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/parse"
	"github.com/gameplay-tools/gameplay-mcp/pkg/config"
	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/gameplay-tools/gameplay-mcp/pkg/mcp"
	"github.com/spf13/cobra"
)

var callArgs flags.StringSlice

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Call a tool once and print its envelope",
	Long: `Call a tool once against the configured upstreams and print the
result envelope as JSON. The command exits non-zero when the envelope
reports a failure.

Values that read as JSON numbers or booleans are passed typed; every
other value is a string.`,
	Example: `  gameplay-mcp call get_changelist --arg changelist=12345
  gameplay-mcp call find_best_submitters --arg initiative=Combat --arg min_level=4
  gameplay-mcp call get_p4_diff --arg stream_a=//depot/main --arg stream_b=//depot/dev --arg 'select=$.files[*].path'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs, err := parse.Arguments(callArgs)
		if err != nil {
			return err
		}

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
		registry := mcp.NewToolRegistry(gw, nil, log)

		env := registry.Call(cmd.Context(), args[0], toolArgs)
		if err := output.JSON(cmd.OutOrStdout(), env); err != nil {
			return err
		}
		if !env.OK {
			return ErrToolFailed
		}
		return nil
	},
}

func init() {
	callCmd.Flags().VarP(&callArgs, "arg", "a", "Tool argument as key=value, repeatable")
	rootCmd.AddCommand(callCmd)
}

// quietByDefault lowers the log level to warn unless a file, the
// environment or a flag chose one, so one-shot commands keep stderr clean.
func quietByDefault(cfg *config.Config) {
	if cfg.Source("log.level") == config.SourceDefault {
		cfg.Log.Level = "warn"
	}
}
