// Package types provides the request and response shapes shared by the
// gateway and its transports.
package types

import "time"

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Uptime    int       `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// ToolCallRequest is the body of a plain HTTP tool dispatch.
type ToolCallRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// ToolInfo describes one dispatchable tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolListResponse lists dispatchable tools with count.
type ToolListResponse struct {
	Tools []ToolInfo `json:"tools"`
	Count int        `json:"count"`
}

// ErrorResponse is returned by the HTTP transport for requests that never
// reach a tool, such as an undecodable body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
