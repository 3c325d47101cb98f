// Package metrics instruments the gateway itself with Prometheus metrics.
//
// Metrics live in a private registry so tests can create independent
// instances. The Go runtime and process collectors are registered alongside
// the gateway's own series.
//
// # Metrics
//
//   - gameplay_mcp_tool_calls_total: tool invocations (labels: tool, outcome)
//   - gameplay_mcp_tool_duration_seconds: tool latency (labels: tool)
//   - gameplay_mcp_upstream_requests_total: outbound fetches (labels: upstream, status)
//   - gameplay_mcp_upstream_duration_seconds: outbound fetch latency (labels: upstream)
//   - gameplay_mcp_exposition_samples: samples in the last parsed document (labels: source)
//   - gameplay_mcp_exposition_skipped_lines_total: malformed exposition lines (labels: source)
//   - gameplay_mcp_exposition_redefinitions_total: redefined families (labels: source)
//
// # Label Conventions
//
//   - outcome: ok, error
//   - status: numeric HTTP status, or "error" when no response arrived
//   - upstream / source: p4diff, sprint_insights, skills_metrics, review_metrics
//
// # Usage
//
//	m := metrics.New()
//	http.Handle("/metrics", m.Handler())
//	m.ObserveTool("get_group_summary", true, time.Since(start))
//
// A nil *Metrics is valid and records nothing.
package metrics
