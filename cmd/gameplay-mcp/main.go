// gameplay-mcp CLI - MCP tool gateway over gameplay engineering services
package main

import (
	"os"

	"github.com/gameplay-tools/gameplay-mcp/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	os.Exit(cli.Run())
}
