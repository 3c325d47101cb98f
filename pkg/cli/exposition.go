package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/flags"
	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/output"
	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/spf13/cobra"
)

var (
	parseStats  bool
	filterNames flags.StringSlice
	fetchStats  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse exposition text and print it in canonical form",
	Long: `Parse Prometheus exposition text from a file or stdin (no argument
or "-") and print it back in canonical form: families in first-seen
order, each with its HELP and TYPE lines followed by its samples.

Malformed lines are skipped. With --stats the parse diagnostics are
written to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(cmd, args)
		if err != nil {
			return err
		}
		defer in.Close()

		doc, err := exposition.ParseReader(in)
		if err != nil {
			return err
		}
		if parseStats {
			writeStats(cmd.ErrOrStderr(), doc)
		}
		return exposition.Write(cmd.OutOrStdout(), doc)
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter [file|-] --name <metric>...",
	Short: "Keep only the exposition lines for the named metrics",
	Long: `Reduce exposition text to the HELP and TYPE lines whose metric name
contains one of the given names and the sample lines whose name starts
with one. Kept lines are printed unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), exposition.FilterRelevant(text, filterNames))
		return err
	},
}

var fetchCmd = &cobra.Command{
	Use:       "fetch <skills|review>",
	Short:     "Fetch a metrics source the way the gateway reads it",
	Long:      `Fetch a configured metrics source, keep only the families the gateway reads from it, and print the parsed document in canonical form.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"skills", "review"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var source string
		switch args[0] {
		case "skills":
			source = gateway.SourceSkillsMetrics
		case "review":
			source = gateway.SourceReviewMetrics
		default:
			return fmt.Errorf("unknown metrics source %q (want skills or review)", args[0])
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

		doc, err := gateway.New(cfg, gateway.WithLogger(log)).Document(cmd.Context(), source)
		if err != nil {
			return fmt.Errorf("fetching %s metrics: %w", args[0], err)
		}
		if fetchStats {
			writeStats(cmd.ErrOrStderr(), doc)
		}
		return exposition.Write(cmd.OutOrStdout(), doc)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseStats, "stats", false, "Print parse diagnostics to stderr")
	filterCmd.Flags().VarP(&filterNames, "name", "n", "Metric name to keep, repeatable")
	_ = filterCmd.MarkFlagRequired("name")
	fetchCmd.Flags().BoolVar(&fetchStats, "stats", false, "Print parse diagnostics to stderr")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(fetchCmd)
}

// openInput opens the named file, or stdin when no file or "-" is given.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	in, err := openInput(cmd, args)
	if err != nil {
		return "", err
	}
	defer in.Close()

	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), nil
}

func writeStats(w io.Writer, doc *exposition.Document) {
	fmt.Fprintf(w, "families=%d samples=%d skipped=%d\n",
		len(doc.Families), doc.SampleCount(), doc.Diagnostics.SkippedLines)
	if len(doc.Diagnostics.Redefined) > 0 {
		output.Warn(w, "redefined families: %s", strings.Join(doc.Diagnostics.Redefined, ", "))
	}
}
