package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gameplay-tools/gameplay-mcp/pkg/cli/internal/output"
	"github.com/gameplay-tools/gameplay-mcp/pkg/mcp"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the gateway exposes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Listing never reaches a handler, so no gateway is needed.
		defs := mcp.NewToolRegistry(nil, nil, nil).List()

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), defs)
		}

		tw := output.Table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "NAME\tARGUMENTS\tDESCRIPTION")
		for _, def := range defs {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, argumentSummary(def), firstSentence(def.Description))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

// argumentSummary lists a tool's parameters, marking optional ones with '?'.
func argumentSummary(def mcp.ToolDefinition) string {
	props, _ := def.InputSchema["properties"].(map[string]interface{})
	if len(props) == 0 {
		return "-"
	}

	required := map[string]bool{}
	switch req := def.InputSchema["required"].(type) {
	case []string:
		for _, name := range req {
			required[name] = true
		}
	case []interface{}:
		for _, name := range req {
			if s, ok := name.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	// Required parameters first, then by name.
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		if required[name] {
			parts = append(parts, name)
		} else {
			parts = append(parts, name+"?")
		}
	}
	return strings.Join(parts, ",")
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
