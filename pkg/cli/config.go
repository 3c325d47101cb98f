package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gameplay-tools/gameplay-mcp/pkg/config"
	"github.com/gameplay-tools/gameplay-mcp/pkg/logging"
	"github.com/spf13/cobra"
)

// loadConfig resolves the configuration and applies the logging flags on
// top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	overlay := &config.Config{}
	if cmd.Flags().Changed("log-level") {
		overlay.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		overlay.Log.Format = logFormat
	}
	config.Merge(cfg, overlay, config.SourceFlag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Records always go to stderr so
// stdout stays free for command output and the stdio transport. The
// returned closer releases the --log-file handle.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	lc := logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	}

	var closer io.Closer = nopCloser{}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Extra = f
		closer = f
	}
	return logging.New(lc), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
