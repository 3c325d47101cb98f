package gateway

import (
	"context"

	"github.com/gameplay-tools/gameplay-mcp/pkg/api/types"
	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
	"github.com/gameplay-tools/gameplay-mcp/pkg/projection"
)

// SkillProfile lists a submitter's proficiency by initiative and by epic.
func (g *Gateway) SkillProfile(ctx context.Context, submitter string) types.Envelope[projection.SkillProfile] {
	if submitter == "" {
		return required[projection.SkillProfile]("submitter")
	}
	return project(ctx, g, g.skillsMetrics(), func(doc *exposition.Document) projection.SkillProfile {
		return projection.ProjectSkillProfile(doc, submitter)
	})
}

// InitiativeCoverage reports team counts and per-submitter coverage for an
// initiative. An empty epicTeam means all teams.
func (g *Gateway) InitiativeCoverage(ctx context.Context, initiative, epicTeam string) types.Envelope[projection.InitiativeCoverage] {
	if initiative == "" {
		return required[projection.InitiativeCoverage]("initiative")
	}
	return project(ctx, g, g.skillsMetrics(), func(doc *exposition.Document) projection.InitiativeCoverage {
		return projection.ProjectInitiativeCoverage(doc, initiative, epicTeam)
	})
}

// BestSubmitters ranks an initiative's submitters at or above minLevel.
func (g *Gateway) BestSubmitters(ctx context.Context, initiative string, minLevel float64) types.Envelope[projection.BestSubmitters] {
	if initiative == "" {
		return required[projection.BestSubmitters]("initiative")
	}
	return project(ctx, g, g.skillsMetrics(), func(doc *exposition.Document) projection.BestSubmitters {
		return projection.ProjectBestSubmitters(doc, initiative, minLevel)
	})
}

// EpicExpertise reports an epic's submitter count and ranked experts.
func (g *Gateway) EpicExpertise(ctx context.Context, epic string) types.Envelope[projection.EpicExpertise] {
	if epic == "" {
		return required[projection.EpicExpertise]("epic")
	}
	return project(ctx, g, g.skillsMetrics(), func(doc *exposition.Document) projection.EpicExpertise {
		return projection.ProjectEpicExpertise(doc, epic)
	})
}

// InitiativeReadiness pairs proficiency with coverage for an initiative.
func (g *Gateway) InitiativeReadiness(ctx context.Context, initiative, epicTeam string) types.Envelope[projection.InitiativeReadiness] {
	if initiative == "" {
		return required[projection.InitiativeReadiness]("initiative")
	}
	return project(ctx, g, g.skillsMetrics(), func(doc *exposition.Document) projection.InitiativeReadiness {
		return projection.ProjectInitiativeReadiness(doc, initiative, epicTeam)
	})
}

// GroupSummary reports a group's all-time review engagement.
func (g *Gateway) GroupSummary(ctx context.Context, group string) types.Envelope[projection.GroupSummary] {
	if group == "" {
		return required[projection.GroupSummary]("group")
	}
	return project(ctx, g, g.reviewMetrics(), func(doc *exposition.Document) projection.GroupSummary {
		return projection.ProjectGroupSummary(doc, group)
	})
}

// DailySnapshot reports a group's review engagement for the current day.
func (g *Gateway) DailySnapshot(ctx context.Context, group string) types.Envelope[projection.DailySnapshot] {
	if group == "" {
		return required[projection.DailySnapshot]("group")
	}
	return project(ctx, g, g.reviewMetrics(), func(doc *exposition.Document) projection.DailySnapshot {
		return projection.ProjectDailySnapshot(doc, group)
	})
}

// TopContributors ranks a group's most active members.
func (g *Gateway) TopContributors(ctx context.Context, group string, limit int) types.Envelope[projection.TopContributors] {
	if group == "" {
		return required[projection.TopContributors]("group")
	}
	return project(ctx, g, g.reviewMetrics(), func(doc *exposition.Document) projection.TopContributors {
		return projection.ProjectTopContributors(doc, group, limit)
	})
}

// GroupOverview answers the group summary, daily snapshot and top
// contributors views from a single fetch of the review metrics.
func (g *Gateway) GroupOverview(ctx context.Context, group string, limit int) types.Envelope[projection.GroupOverview] {
	if group == "" {
		return required[projection.GroupOverview]("group")
	}
	return project(ctx, g, g.reviewMetrics(), func(doc *exposition.Document) projection.GroupOverview {
		return projection.ProjectGroupOverview(doc, group, limit)
	})
}
