package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gameplay-tools/gameplay-mcp/internal/matching"
	"github.com/gameplay-tools/gameplay-mcp/pkg/api/types"
	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/gameplay-tools/gameplay-mcp/pkg/projection"
)

// builtinHandlers maps tool names to handlers.
func builtinHandlers() map[string]ToolHandler {
	return map[string]ToolHandler{
		// P4Diff
		"get_p4_diff":            handleGetP4Diff,
		"get_stream_info":        handleGetStreamInfo,
		"get_changelist":         handleGetChangelist,
		"get_stream_changelists": handleGetStreamChangelists,

		// SprintInsights
		"get_sprint_metrics": handleGetSprintMetrics,
		"get_sprint_tasks":   handleGetSprintTasks,
		"get_user_tasks":     handleGetUserTasks,

		// Skills metrics
		"get_skill_profile":        handleGetSkillProfile,
		"get_initiative_coverage":  handleGetInitiativeCoverage,
		"find_best_submitters":     handleFindBestSubmitters,
		"get_epic_expertise":       handleGetEpicExpertise,
		"get_initiative_readiness": handleGetInitiativeReadiness,

		// Review metrics
		"get_group_summary":    handleGetGroupSummary,
		"get_daily_snapshot":   handleGetDailySnapshot,
		"get_top_contributors": handleGetTopContributors,
		"get_group_overview":   handleGetGroupOverview,
	}
}

// proxied fetches a pass-through result and applies the optional select
// argument to it. A malformed select fails before the upstream is contacted.
func proxied(args map[string]interface{}, fetch func() types.Envelope[json.RawMessage]) types.Envelope[any] {
	path := getString(args, "select", "")
	if path != "" {
		if err := matching.ValidateJSONPathExpression(path); err != nil {
			return types.Failure[any](fmt.Sprintf("invalid select: %v", err))
		}
	}
	return gateway.Narrow(fetch(), path).Erase()
}

// =============================================================================
// P4Diff
// =============================================================================

func handleGetP4Diff(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.P4Diff(ctx, getString(args, "stream_a", ""), getString(args, "stream_b", ""))
	})
}

func handleGetStreamInfo(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.StreamInfo(ctx, getString(args, "stream", ""))
	})
}

func handleGetChangelist(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	number, err := getInt(args, "changelist", 0)
	if err != nil {
		return types.Failure[any](err.Error())
	}
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.Changelist(ctx, number)
	})
}

func handleGetStreamChangelists(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	limit, err := getInt(args, "limit", gateway.DefaultChangelistLimit)
	if err != nil {
		return types.Failure[any](err.Error())
	}
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.StreamChangelists(ctx, getString(args, "stream", ""), limit)
	})
}

// =============================================================================
// SprintInsights
// =============================================================================

func handleGetSprintMetrics(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.SprintMetrics(ctx, getString(args, "sprint_name", ""))
	})
}

func handleGetSprintTasks(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.SprintTasks(ctx, getString(args, "sprint_name", ""), getString(args, "status", ""))
	})
}

func handleGetUserTasks(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return proxied(args, func() types.Envelope[json.RawMessage] {
		return gw.UserTasks(ctx, getString(args, "user", ""), getString(args, "sprint_name", ""))
	})
}

// =============================================================================
// Skills metrics
// =============================================================================

func handleGetSkillProfile(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return gw.SkillProfile(ctx, getString(args, "submitter", "")).Erase()
}

func handleGetInitiativeCoverage(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return gw.InitiativeCoverage(ctx, getString(args, "initiative", ""), getString(args, "epic_team", "")).Erase()
}

func handleFindBestSubmitters(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	minLevel := getFloat(args, "min_level", projection.DefaultMinLevel)
	return gw.BestSubmitters(ctx, getString(args, "initiative", ""), minLevel).Erase()
}

func handleGetEpicExpertise(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return gw.EpicExpertise(ctx, getString(args, "epic", "")).Erase()
}

func handleGetInitiativeReadiness(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return gw.InitiativeReadiness(ctx, getString(args, "initiative", ""), getString(args, "epic_team", "")).Erase()
}

// =============================================================================
// Review metrics
// =============================================================================

func handleGetGroupSummary(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return gw.GroupSummary(ctx, getString(args, "group", "")).Erase()
}

func handleGetDailySnapshot(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	return gw.DailySnapshot(ctx, getString(args, "group", "")).Erase()
}

func handleGetTopContributors(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	limit, err := getInt(args, "limit", projection.DefaultTopContributors)
	if err != nil {
		return types.Failure[any](err.Error())
	}
	return gw.TopContributors(ctx, getString(args, "group", ""), limit).Erase()
}

func handleGetGroupOverview(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any] {
	limit, err := getInt(args, "limit", projection.DefaultTopContributors)
	if err != nil {
		return types.Failure[any](err.Error())
	}
	return gw.GroupOverview(ctx, getString(args, "group", ""), limit).Erase()
}
