package mcp

import "github.com/gameplay-tools/gameplay-mcp/pkg/projection"

// allToolDefinitions returns every tool definition in display order.
func allToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// =====================================================================
		// P4Diff
		// =====================================================================
		defGetP4Diff,
		defGetStreamInfo,
		defGetChangelist,
		defGetStreamChangelists,

		// =====================================================================
		// SprintInsights
		// =====================================================================
		defGetSprintMetrics,
		defGetSprintTasks,
		defGetUserTasks,

		// =====================================================================
		// Skills metrics
		// =====================================================================
		defGetSkillProfile,
		defGetInitiativeCoverage,
		defFindBestSubmitters,
		defGetEpicExpertise,
		defGetInitiativeReadiness,

		// =====================================================================
		// Review metrics
		// =====================================================================
		defGetGroupSummary,
		defGetDailySnapshot,
		defGetTopContributors,
		defGetGroupOverview,
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var selectProp = map[string]interface{}{
	"type":        "string",
	"description": "Optional JSONPath expression (e.g. $.files[*].path). When set, data is the array of matches instead of the full upstream document.",
}

// =============================================================================
// P4Diff Definitions
// =============================================================================

var defGetP4Diff = ToolDefinition{
	Name:        "get_p4_diff",
	Description: "Compare two Perforce streams and return the files and changelists that differ between them.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"stream_a": stringProp("First stream path (e.g., //depot/main)"),
			"stream_b": stringProp("Second stream path (e.g., //depot/dev)"),
			"select":   selectProp,
		},
		"required": []string{"stream_a", "stream_b"},
	},
}

var defGetStreamInfo = ToolDefinition{
	Name:        "get_stream_info",
	Description: "Get metadata for a Perforce stream: owner, parent, type and options.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"stream": stringProp("Stream path (e.g., //depot/main)"),
			"select": selectProp,
		},
		"required": []string{"stream"},
	},
}

var defGetChangelist = ToolDefinition{
	Name:        "get_changelist",
	Description: "Get a Perforce changelist by number: author, description and affected files.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"changelist": map[string]interface{}{
				"type":        []string{"integer", "string"},
				"description": "Changelist number",
				"minimum":     1,
				"pattern":     "^[0-9]+$",
			},
			"select": selectProp,
		},
		"required": []string{"changelist"},
	},
}

var defGetStreamChangelists = ToolDefinition{
	Name:        "get_stream_changelists",
	Description: "List the most recent changelists submitted to a Perforce stream.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"stream": stringProp("Stream path (e.g., //depot/main)"),
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum changelists to return (default: 20)",
				"minimum":     1,
				"default":     20,
			},
			"select": selectProp,
		},
		"required": []string{"stream"},
	},
}

// =============================================================================
// SprintInsights Definitions
// =============================================================================

var defGetSprintMetrics = ToolDefinition{
	Name:        "get_sprint_metrics",
	Description: "Get delivery metrics for a sprint: velocity, committed versus completed points and carry-over.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"sprint_name": stringProp("Sprint name (e.g., Gameplay Sprint 42)"),
			"select":      selectProp,
		},
		"required": []string{"sprint_name"},
	},
}

var defGetSprintTasks = ToolDefinition{
	Name:        "get_sprint_tasks",
	Description: "List the tasks of a sprint, optionally only those in one status.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"sprint_name": stringProp("Sprint name"),
			"status":      stringProp("Only return tasks in this status (e.g., In Progress)"),
			"select":      selectProp,
		},
		"required": []string{"sprint_name"},
	},
}

var defGetUserTasks = ToolDefinition{
	Name:        "get_user_tasks",
	Description: "List the tasks assigned to a user, optionally within one sprint.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"user":        stringProp("User name"),
			"sprint_name": stringProp("Only return tasks from this sprint"),
			"select":      selectProp,
		},
		"required": []string{"user"},
	},
}

// =============================================================================
// Skills Metrics Definitions
// =============================================================================

var defGetSkillProfile = ToolDefinition{
	Name:        "get_skill_profile",
	Description: "Get a submitter's proficiency levels by initiative and by epic.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"submitter": stringProp("Submitter user name (matched exactly)"),
		},
		"required": []string{"submitter"},
	},
}

var defGetInitiativeCoverage = ToolDefinition{
	Name:        "get_initiative_coverage",
	Description: "Get how many experienced submitters each epic team has for an initiative, and each submitter's coverage percentage.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"initiative": stringProp("Initiative name (case and surrounding spaces ignored)"),
			"epic_team":  stringProp("Only report this epic team"),
		},
		"required": []string{"initiative"},
	},
}

var defFindBestSubmitters = ToolDefinition{
	Name:        "find_best_submitters",
	Description: "Rank the submitters of an initiative by proficiency, keeping those at or above a minimum level.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"initiative": stringProp("Initiative name (case and surrounding spaces ignored)"),
			"min_level": map[string]interface{}{
				"type":        "number",
				"description": "Minimum proficiency level (default: 3)",
				"default":     projection.DefaultMinLevel,
			},
		},
		"required": []string{"initiative"},
	},
}

var defGetEpicExpertise = ToolDefinition{
	Name:        "get_epic_expertise",
	Description: "Get how many submitters have worked on an epic and who they are, ranked by proficiency.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"epic": stringProp("Epic name (case and surrounding spaces ignored)"),
		},
		"required": []string{"epic"},
	},
}

var defGetInitiativeReadiness = ToolDefinition{
	Name:        "get_initiative_readiness",
	Description: "Pair each submitter's proficiency on an initiative with their coverage percentage, per epic team.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"initiative": stringProp("Initiative name (case and surrounding spaces ignored)"),
			"epic_team":  stringProp("Only report this epic team"),
		},
		"required": []string{"initiative"},
	},
}

// =============================================================================
// Review Metrics Definitions
// =============================================================================

var limitProp = map[string]interface{}{
	"type":        "integer",
	"description": "Number of contributors to return (default: 5)",
	"minimum":     1,
	"default":     projection.DefaultTopContributors,
}

var defGetGroupSummary = ToolDefinition{
	Name:        "get_group_summary",
	Description: "Get a review group's all-time engagement: members, reviews, comments, approvals, open reviews and turnaround.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"group": stringProp("Review group name (matched exactly)"),
		},
		"required": []string{"group"},
	},
}

var defGetDailySnapshot = ToolDefinition{
	Name:        "get_daily_snapshot",
	Description: "Get a review group's activity for the current day.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"group": stringProp("Review group name (matched exactly)"),
		},
		"required": []string{"group"},
	},
}

var defGetTopContributors = ToolDefinition{
	Name:        "get_top_contributors",
	Description: "Rank a review group's members by activity.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"group": stringProp("Review group name (matched exactly)"),
			"limit": limitProp,
		},
		"required": []string{"group"},
	},
}

var defGetGroupOverview = ToolDefinition{
	Name:        "get_group_overview",
	Description: "Get a review group's summary, daily snapshot and top contributors in one call.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"group": stringProp("Review group name (matched exactly)"),
			"limit": limitProp,
		},
		"required": []string{"group"},
	},
}
