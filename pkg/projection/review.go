package projection

import (
	"sort"

	"github.com/gameplay-tools/gameplay-mcp/internal/matching"
	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

// DefaultTopContributors is the top-contributors limit used when the caller
// passes a non-positive one.
const DefaultTopContributors = 5

// GroupSummary is a group's all-time review engagement. Fields stay null
// when the document carries no sample for them.
type GroupSummary struct {
	Group                    string   `json:"group"`
	Members                  *float64 `json:"members"`
	ReviewsTotal             *float64 `json:"reviews_total"`
	CommentsTotal            *float64 `json:"comments_total"`
	ApprovalsTotal           *float64 `json:"approvals_total"`
	OpenReviews              *float64 `json:"open_reviews"`
	ActiveReviewers          *float64 `json:"active_reviewers"`
	AvgReviewTurnaroundHours *float64 `json:"avg_review_turnaround_hours"`
}

// DailySnapshot is a group's review engagement for one day.
type DailySnapshot struct {
	Group                string   `json:"group"`
	Date                 *string  `json:"date"`
	Reviews              *float64 `json:"reviews"`
	Comments             *float64 `json:"comments"`
	Approvals            *float64 `json:"approvals"`
	ActiveReviewers      *float64 `json:"active_reviewers"`
	ChangelistsSubmitted *float64 `json:"changelists_submitted"`
}

// summaryField binds a metric name to the record field it populates.
type summaryField[T any] struct {
	metric string
	set    func(*T, float64)
}

var groupSummaryFields = []summaryField[GroupSummary]{
	{"group_members", func(g *GroupSummary, v float64) { g.Members = &v }},
	{"group_reviews_total", func(g *GroupSummary, v float64) { g.ReviewsTotal = &v }},
	{"group_comments_total", func(g *GroupSummary, v float64) { g.CommentsTotal = &v }},
	{"group_approvals_total", func(g *GroupSummary, v float64) { g.ApprovalsTotal = &v }},
	{"group_open_reviews", func(g *GroupSummary, v float64) { g.OpenReviews = &v }},
	{"group_active_reviewers", func(g *GroupSummary, v float64) { g.ActiveReviewers = &v }},
	{"group_avg_review_turnaround_hours", func(g *GroupSummary, v float64) { g.AvgReviewTurnaroundHours = &v }},
}

var dailySnapshotFields = []summaryField[DailySnapshot]{
	{"group_daily_reviews", func(d *DailySnapshot, v float64) { d.Reviews = &v }},
	{"group_daily_comments", func(d *DailySnapshot, v float64) { d.Comments = &v }},
	{"group_daily_approvals", func(d *DailySnapshot, v float64) { d.Approvals = &v }},
	{"group_daily_active_reviewers", func(d *DailySnapshot, v float64) { d.ActiveReviewers = &v }},
	{"group_daily_changelists_submitted", func(d *DailySnapshot, v float64) { d.ChangelistsSubmitted = &v }},
}

var (
	groupSummarySetters  = setterTable(groupSummaryFields)
	dailySnapshotSetters = setterTable(dailySnapshotFields)
)

func setterTable[T any](fields []summaryField[T]) map[string]func(*T, float64) {
	table := make(map[string]func(*T, float64), len(fields))
	for _, f := range fields {
		table[f.metric] = f.set
	}
	return table
}

// groupSamples walks every sample of the document labeled with group, in
// document order, and hands the ones with a known metric name to fn.
func groupSamples[T any](doc *exposition.Document, group string, setters map[string]func(*T, float64), fn func(exposition.Sample, func(*T, float64))) {
	if group == "" {
		return
	}
	for _, m := range matching.Select(doc, []matching.Constraint{matching.Eq(LabelGroup, group)}) {
		set, ok := setters[m.Sample.MetricName]
		if !ok || !finite(m.Sample) {
			continue
		}
		fn(m.Sample, set)
	}
}

// ProjectGroupSummary fills a GroupSummary from the group_* gauges labeled
// with group. A later sample for the same metric overwrites an earlier one.
func ProjectGroupSummary(doc *exposition.Document, group string) GroupSummary {
	g := GroupSummary{Group: group}
	groupSamples(doc, group, groupSummarySetters, func(s exposition.Sample, set func(*GroupSummary, float64)) {
		set(&g, s.Value)
	})
	return g
}

// ProjectDailySnapshot fills a DailySnapshot from the group_daily_* gauges
// labeled with group. Date comes from the last matching sample that has one.
func ProjectDailySnapshot(doc *exposition.Document, group string) DailySnapshot {
	d := DailySnapshot{Group: group}
	groupSamples(doc, group, dailySnapshotSetters, func(s exposition.Sample, set func(*DailySnapshot, float64)) {
		set(&d, s.Value)
		if date, ok := s.Label(LabelDate); ok && date != "" {
			d.Date = &date
		}
	})
	return d
}

// Contributor is one ranked member of a group.
type Contributor struct {
	User          string  `json:"user"`
	ActivityCount float64 `json:"activity_count"`
}

// TopContributors ranks a group's most active members.
type TopContributors struct {
	Group        string        `json:"group"`
	Limit        int           `json:"limit"`
	Contributors []Contributor `json:"contributors"`
}

// ProjectTopContributors ranks group_top_contributor samples for group by
// activity count, highest first, and keeps the first limit. Equal counts keep
// their document order. A non-positive limit means DefaultTopContributors.
func ProjectTopContributors(doc *exposition.Document, group string, limit int) TopContributors {
	if limit <= 0 {
		limit = DefaultTopContributors
	}
	t := TopContributors{Group: group, Limit: limit, Contributors: []Contributor{}}
	if group == "" {
		return t
	}

	for _, s := range usable(matching.Samples(doc, GroupTopContributor, matching.Eq(LabelGroup, group))) {
		t.Contributors = append(t.Contributors, Contributor{
			User:          s.Labels[LabelUser],
			ActivityCount: s.Value,
		})
	}
	sort.SliceStable(t.Contributors, func(i, j int) bool {
		return t.Contributors[i].ActivityCount > t.Contributors[j].ActivityCount
	})
	if len(t.Contributors) > limit {
		t.Contributors = t.Contributors[:limit]
	}
	return t
}

// GroupOverview answers the three review views from one document.
type GroupOverview struct {
	Summary         GroupSummary    `json:"summary"`
	Daily           DailySnapshot   `json:"daily"`
	TopContributors TopContributors `json:"top_contributors"`
}

// ProjectGroupOverview runs the group summary, daily snapshot and top
// contributors views over the same document.
func ProjectGroupOverview(doc *exposition.Document, group string, limit int) GroupOverview {
	return GroupOverview{
		Summary:         ProjectGroupSummary(doc, group),
		Daily:           ProjectDailySnapshot(doc, group),
		TopContributors: ProjectTopContributors(doc, group, limit),
	}
}
