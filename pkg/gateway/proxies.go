package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gameplay-tools/gameplay-mcp/pkg/api/types"
)

// DefaultChangelistLimit is the number of changelists returned by
// StreamChangelists when the caller does not pass a limit.
const DefaultChangelistLimit = 20

func required[T any](name string) types.Envelope[T] {
	return types.Failure[T](name + " is required")
}

// P4Diff compares two streams.
func (g *Gateway) P4Diff(ctx context.Context, streamA, streamB string) types.Envelope[json.RawMessage] {
	if streamA == "" || streamB == "" {
		return types.Failure[json.RawMessage]("stream_a and stream_b are required")
	}
	return g.proxy(ctx, g.p4diff(), "/api/compare_streams",
		url.Values{"stream_a": {streamA}, "stream_b": {streamB}},
		fmt.Sprintf("streams not found: %s, %s", streamA, streamB))
}

// StreamInfo describes one stream.
func (g *Gateway) StreamInfo(ctx context.Context, stream string) types.Envelope[json.RawMessage] {
	if stream == "" {
		return required[json.RawMessage]("stream")
	}
	return g.proxy(ctx, g.p4diff(), "/api/stream_info",
		url.Values{"stream": {stream}},
		"stream not found: "+stream)
}

// Changelist describes one changelist.
func (g *Gateway) Changelist(ctx context.Context, number int) types.Envelope[json.RawMessage] {
	if number <= 0 {
		return required[json.RawMessage]("changelist")
	}
	n := strconv.Itoa(number)
	return g.proxy(ctx, g.p4diff(), "/api/changelist",
		url.Values{"changelist": {n}},
		"changelist not found: "+n)
}

// StreamChangelists lists a stream's most recent changelists. A non-positive
// limit means DefaultChangelistLimit.
func (g *Gateway) StreamChangelists(ctx context.Context, stream string, limit int) types.Envelope[json.RawMessage] {
	if stream == "" {
		return required[json.RawMessage]("stream")
	}
	if limit <= 0 {
		limit = DefaultChangelistLimit
	}
	return g.proxy(ctx, g.p4diff(), "/api/stream_changelists",
		url.Values{"stream": {stream}, "limit": {strconv.Itoa(limit)}},
		"stream not found: "+stream)
}

// SprintMetrics returns a sprint's delivery metrics.
func (g *Gateway) SprintMetrics(ctx context.Context, sprintName string) types.Envelope[json.RawMessage] {
	if sprintName == "" {
		return required[json.RawMessage]("sprint_name")
	}
	return g.proxy(ctx, g.sprintInsights(), "/api/sprint_metrics",
		url.Values{"sprint_name": {sprintName}},
		"sprint not found: "+sprintName)
}

// SprintTasks lists a sprint's tasks, optionally narrowed to one status.
func (g *Gateway) SprintTasks(ctx context.Context, sprintName, status string) types.Envelope[json.RawMessage] {
	if sprintName == "" {
		return required[json.RawMessage]("sprint_name")
	}
	q := url.Values{"sprint_name": {sprintName}}
	if status != "" {
		q.Set("status", status)
	}
	return g.proxy(ctx, g.sprintInsights(), "/api/sprint_tasks", q, "sprint not found: "+sprintName)
}

// UserTasks lists a user's tasks, optionally narrowed to one sprint.
func (g *Gateway) UserTasks(ctx context.Context, user, sprintName string) types.Envelope[json.RawMessage] {
	if user == "" {
		return required[json.RawMessage]("user")
	}
	q := url.Values{"user": {user}}
	if sprintName != "" {
		q.Set("sprint_name", sprintName)
	}
	return g.proxy(ctx, g.sprintInsights(), "/api/user_tasks", q, "user not found: "+user)
}
