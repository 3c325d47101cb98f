// Package config provides the gateway's startup configuration.
//
// A Config is assembled once at process start and then treated as read-only.
// Values are resolved with the following precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables
//  3. YAML config file
//  4. Default values (lowest priority)
//
// # Environment
//
//	P4DIFF_BASE_URL           P4Diff service base URL
//	SPRINT_INSIGHTS_BASE_URL  SprintInsights service base URL
//	SKILLS_METRICS_URL        skills metrics exposition endpoint
//	REVIEW_METRICS_URL        review metrics exposition endpoint
//	GAMEPLAY_MCP_HOST         listen host
//	GAMEPLAY_MCP_PORT         listen port
//	GAMEPLAY_MCP_LOG_LEVEL    debug, info, warn, error
//	GAMEPLAY_MCP_LOG_FORMAT   text, json
//	GAMEPLAY_MCP_CONFIG       path to a YAML config file
//
// # File format
//
//	server:
//	  host: 0.0.0.0
//	  port: 8000
//	upstreams:
//	  p4diff:
//	    baseUrl: http://p4diff.internal:9001
//	    timeout: 30s
//	  skillsMetrics:
//	    url: http://skills.internal:9003/metrics
//	    timeout: 60s
//	    families: [proficiency_by_user_initiative, initiative_coverage]
//	log:
//	  level: debug
//	  format: json
package config
