// Package cli provides the command-line interface for gameplay-mcp.
//
// Commands:
//   - serve: Run the MCP gateway over HTTP
//   - mcp: Run the MCP gateway over stdio for AI assistants
//   - call: Call one tool and print its envelope
//   - tools: List the available tools
//   - parse: Parse exposition text and print it in canonical form
//   - filter: Reduce exposition text to the named metrics
//   - fetch: Fetch a metrics source the way the gateway reads it
//   - version: Show version information
package cli
