package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	configFile string
	logLevel   string
	logFormat  string
	logFile    string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gameplay-mcp",
	Short: "gameplay-mcp exposes gameplay engineering data to AI assistants",
	Long: `gameplay-mcp is an MCP tool gateway over the P4Diff and SprintInsights
lookup services and the skills and review metrics exporters.

Configuration is resolved from defaults, a YAML file (--config or
$GAMEPLAY_MCP_CONFIG), environment variables and flags, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Run()
}

// Run executes the command tree and returns the process exit code.
// This is called by main.main() and by the CLI script tests.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrToolFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also append JSON log records to this file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
