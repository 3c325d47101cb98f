// Package mcp is the gateway's dispatch layer: a registry of named tools
// with JSON Schema argument validation, served over the Model Context
// Protocol and as plain HTTP.
//
// # Tools
//
// P4Diff pass-through:
//   - get_p4_diff, get_stream_info, get_changelist, get_stream_changelists
//
// SprintInsights pass-through:
//   - get_sprint_metrics, get_sprint_tasks, get_user_tasks
//
// Skills metrics views:
//   - get_skill_profile, get_initiative_coverage, find_best_submitters,
//     get_epic_expertise, get_initiative_readiness
//
// Review metrics views:
//   - get_group_summary, get_daily_snapshot, get_top_contributors,
//     get_group_overview
//
// Every tool answers with a types.Envelope. Over MCP the envelope JSON is
// the text content of the tool result and isError mirrors !ok.
//
// # Transports
//
// Stdio: gameplay-mcp mcp, newline-delimited JSON-RPC over stdin/stdout.
//
// HTTP (gameplay-mcp serve):
//   - POST /mcp           MCP JSON-RPC 2.0, sessions via Mcp-Session-Id
//   - POST /mcp/tools     {"tool": ..., "arguments": {...}} answered with the envelope
//   - GET  /mcp/tools     tool names and descriptions
//   - GET  /healthz       {"status":"ok"}
//   - GET  /metrics       gateway self-metrics
package mcp
